// Copyright (c) 2020 Siemens AG
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies of
// the Software, and to permit persons to whom the Software is furnished to do so,
// subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY, FITNESS
// FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR
// COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
// IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
// CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
//
// Author(s): Jonas Plum

package artifactstore

import (
	"sort"
	"sync"
)

// fieldMap records which flattened field names occur per category.
type fieldMap struct {
	sync.RWMutex
	fields map[string]map[string]bool
}

func newFieldMap() *fieldMap {
	return &fieldMap{fields: map[string]map[string]bool{}}
}

func (fm *fieldMap) all() map[string][]string {
	fm.RLock()
	defer fm.RUnlock()
	all := make(map[string][]string, len(fm.fields))
	for category, fields := range fm.fields {
		names := make([]string, 0, len(fields))
		for name := range fields {
			names = append(names, name)
		}
		sort.Strings(names)
		all[category] = names
	}
	return all
}

func (fm *fieldMap) addAll(category string, fields map[string]interface{}) {
	fm.Lock()
	if _, ok := fm.fields[category]; !ok {
		fm.fields[category] = map[string]bool{}
	}
	for field := range fields {
		fm.fields[category][field] = true
	}
	fm.Unlock()
}
