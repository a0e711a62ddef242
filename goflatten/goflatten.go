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

// Package goflatten flattens nested json values into dotted key paths.
package goflatten

import (
	"fmt"
	"reflect"
	"strconv"
)

// Delimiter joins the keys of nested values.
const Delimiter = "."

// Flatten returns a map one level deep regardless of how nested the
// original map was. Nested keys are joined with Delimiter, list elements
// are addressed by their index. Nil values are left out.
func Flatten(nested map[string]interface{}) (map[string]interface{}, error) {
	flat := map[string]interface{}{}
	if err := flatten(flat, "", nested); err != nil {
		return nil, err
	}
	return flat, nil
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + Delimiter + key
}

func flatten(flat map[string]interface{}, prefix string, value interface{}) error {
	switch v := value.(type) {
	case nil:
		return nil
	case map[string]interface{}:
		for key, child := range v {
			if err := flatten(flat, join(prefix, key), child); err != nil {
				return err
			}
		}
		return nil
	case []interface{}:
		for i, child := range v {
			if err := flatten(flat, join(prefix, strconv.Itoa(i)), child); err != nil {
				return err
			}
		}
		return nil
	}

	// named map and slice types, e.g. map[string]string
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Map:
		for _, key := range rv.MapKeys() {
			if err := flatten(flat, join(prefix, fmt.Sprint(key.Interface())), rv.MapIndex(key).Interface()); err != nil {
				return err
			}
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if err := flatten(flat, join(prefix, strconv.Itoa(i)), rv.Index(i).Interface()); err != nil {
				return err
			}
		}
	case reflect.Func, reflect.Chan:
		return fmt.Errorf("cannot flatten %s at %q", rv.Kind(), prefix)
	default:
		if prefix == "" {
			return fmt.Errorf("cannot flatten %T", value)
		}
		flat[prefix] = value
	}
	return nil
}
