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
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var newYear2021 = time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC) // nolint:gochecknoglobals

func TestNormalizeTimestamp(t *testing.T) {
	tests := []struct {
		name   string
		value  interface{}
		want   time.Time
		wantOk bool
	}{
		{"unix seconds", float64(1609459200), newYear2021, true},
		{"unix seconds json number", json.Number("1609459200"), newYear2021, true},
		{"unix seconds int", 1609459200, newYear2021, true},
		{"unix fraction", 1609459200.5, newYear2021.Add(500 * time.Millisecond), true},
		{"unix milliseconds", json.Number("1609459200000"), newYear2021, true},
		{"unix microseconds", json.Number("1609459200000000"), newYear2021, true},
		{"unix nanoseconds", json.Number("1609459200000000000"), newYear2021, true},
		{"webkit microseconds", json.Number("13253932800000000"), newYear2021, true},
		{"filetime", json.Number("132539328000000000"), newYear2021, true},
		{"webkit seconds", json.Number("13253932800"), newYear2021, true},
		{"between milliseconds and webkit seconds", json.Number("50000000000"), time.Unix(50000000000-11644473600, 0).UTC(), true},
		{"milliseconds bracket edge", json.Number("100000000001"), time.Unix(100000000, 1e6).UTC(), true},
		{"zero", float64(0), time.Unix(0, 0).UTC(), true},
		{"iso string", "2021-01-01T00:00:00Z", newYear2021, true},
		{"iso string with zone", "2021-01-01T01:00:00+01:00", newYear2021, true},
		{"naive string", "2021-01-01 00:00:00", newYear2021, true},
		{"empty string", "", time.Time{}, false},
		{"garbage string", "not a date", time.Time{}, false},
		{"bool", true, time.Time{}, false},
		{"nil", nil, time.Time{}, false},
		{"list", []interface{}{float64(1609459200)}, time.Time{}, false},
		{"out of range", float64(1e30), time.Time{}, false},
		{"nan", math.NaN(), time.Time{}, false},
		{"inf", math.Inf(1), time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeTimestamp(tt.value)
			assert.Equal(t, tt.wantOk, ok)
			if tt.wantOk {
				assert.True(t, tt.want.Equal(got), "NormalizeTimestamp() = %v, want %v", got, tt.want)
				assert.Equal(t, time.UTC, got.Location())
			}
		})
	}
}

func TestNormalizeTimestampFiletimeScale(t *testing.T) {
	got, ok := NormalizeTimestamp(json.Number("13288464000000000"))
	assert.True(t, ok)
	assert.Equal(t, 2022, got.Year())
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name   string
		fields Element
		want   time.Time
		wantOk bool
	}{
		{"datetime", Element{"datetime": "2021-01-01T00:00:00Z"}, newYear2021, true},
		{"visit time", Element{"visit_time": json.Number("13253932800000000")}, newYear2021, true},
		{"last visit time", Element{"last_visit_time": json.Number("1609459200")}, newYear2021, true},
		{"datetime wins", Element{
			"datetime":   "2021-01-01T00:00:00Z",
			"start_time": "2022-01-01T00:00:00Z",
		}, newYear2021, true},
		{"falsy skipped", Element{
			"timestamp":  json.Number("0"),
			"start_time": "2021-01-01T00:00:00Z",
		}, newYear2021, true},
		{"unparsable falls through", Element{
			"datetime":   "garbage",
			"visit_time": json.Number("1609459200"),
		}, newYear2021, true},
		{"other fields ignored", Element{"created": "2021-01-01T00:00:00Z"}, time.Time{}, false},
		{"no fields", Element{}, time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseTimestamp(tt.fields)
			assert.Equal(t, tt.wantOk, ok)
			if tt.wantOk {
				assert.True(t, tt.want.Equal(got), "ParseTimestamp() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizeTimestampRoundTrip(t *testing.T) {
	values := []interface{}{
		json.Number("1609459200"),
		json.Number("13288464000000000"),
		json.Number("132539328000000000"),
		json.Number("1643990400123"),
		"2022-02-04 10:11:12",
	}
	for _, value := range values {
		first, ok := NormalizeTimestamp(value)
		assert.True(t, ok)

		second, ok := NormalizeTimestamp(first.Format(time.RFC3339))
		assert.True(t, ok)
		assert.WithinDuration(t, first, second, time.Second)
	}
}
