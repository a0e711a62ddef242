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
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// JSONElement is a single raw upstream record, usually one line of a JSONL
// file.
type JSONElement []byte

// Element is an open, string keyed upstream record. Numbers are kept as
// json.Number so that the record encodes back to the same values.
type Element map[string]interface{}

// ErrMalformedRecord is returned for upstream records that are not JSON
// objects.
var ErrMalformedRecord = errors.New("malformed record")

const unknownCategory = "unknown"

// categoryFields are checked in order, the first truthy value is the category.
var categoryFields = []string{"artifact", "type", "category"} // nolint:gochecknoglobals

// Record is a single ingested artifact.
type Record struct {
	ID        string
	Category  string
	Fields    Element
	Timestamp *time.Time
}

// NewRecord derives category and timestamp from the given fields. The fields
// are stored as is and must not be modified afterwards.
func NewRecord(fields Element) *Record {
	record := &Record{
		ID:       "artifact--" + uuid.New().String(),
		Category: Category(fields),
		Fields:   fields,
	}
	if ts, ok := ParseTimestamp(fields); ok {
		record.Timestamp = &ts
	}
	return record
}

// ParseRecord decodes a raw upstream record.
func ParseRecord(element JSONElement) (*Record, error) {
	element = bytes.TrimSpace(element)
	if !gjson.ValidBytes(element) || !gjson.ParseBytes(element).IsObject() {
		return nil, errors.Wrapf(ErrMalformedRecord, "not a json object: %s", first(string(element), 40))
	}

	fields := Element{}
	decoder := json.NewDecoder(bytes.NewReader(element))
	decoder.UseNumber()
	if err := decoder.Decode(&fields); err != nil {
		return nil, errors.Wrap(ErrMalformedRecord, err.Error())
	}
	return NewRecord(fields), nil
}

// Category returns the classification of a record: the first truthy value of
// the artifact, type and category fields, or "unknown".
func Category(fields Element) string {
	for _, name := range categoryFields {
		value, ok := fields[name]
		if !ok || !truthy(value) {
			continue
		}
		if s, ok := value.(string); ok {
			return s
		}
		return fmt.Sprint(value)
	}
	return unknownCategory
}

// Text returns the lower cased json form of the record fields that is used for
// term matching.
func (r *Record) Text() string {
	return serialize(r.Fields)
}

// String returns the field if it holds a string, otherwise an empty string.
func (r *Record) String(field string) string {
	if s, ok := r.Fields[field].(string); ok {
		return s
	}
	return ""
}

func truthy(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case json.Number:
		f, err := v.Float64()
		return err != nil || f != 0
	case float64:
		return v != 0
	case float32:
		return v != 0
	case int:
		return v != 0
	case int64:
		return v != 0
	case []interface{}:
		return len(v) > 0
	case map[string]interface{}:
		return len(v) > 0
	}
	return true
}
