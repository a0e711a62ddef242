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
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// windowsEpochOffset is the number of seconds between 1601-01-01 and
// 1970-01-01.
const windowsEpochOffset = 11644473600

// maxUnixSeconds is 9999-12-31T23:59:59Z.
const maxUnixSeconds = 253402300799

// timestampFields are checked in order, the first one that parses wins.
var timestampFields = []string{"datetime", "timestamp", "visit_time", "start_time", "last_visit_time"} // nolint:gochecknoglobals

// unitBrackets map the magnitude of a numeric timestamp to the divisor that
// reduces it to seconds. The brackets are checked largest first and only the
// first matching bracket applies.
var unitBrackets = []struct { // nolint:gochecknoglobals
	above   float64
	divisor float64
}{
	{1e18, 1e9}, // unix nanoseconds
	{1e17, 1e7}, // FILETIME, 100ns ticks since 1601
	{1e14, 1e6}, // microseconds, unix or webkit (since 1601)
	{1e11, 1e3}, // milliseconds
}

// ParseTimestamp extracts an absolute UTC instant from the well known
// timestamp fields of a record.
func ParseTimestamp(fields Element) (time.Time, bool) {
	for _, name := range timestampFields {
		value, ok := fields[name]
		if !ok || !truthy(value) {
			continue
		}
		if ts, ok := NormalizeTimestamp(value); ok {
			return ts, true
		}
	}
	return time.Time{}, false
}

// NormalizeTimestamp converts a single timestamp value, numeric or string, to
// UTC. Values that cannot be interpreted return false.
func NormalizeTimestamp(value interface{}) (time.Time, bool) {
	if s, ok := value.(string); ok {
		return parseTimeString(s)
	}
	f, ok := number(value)
	if !ok {
		return time.Time{}, false
	}
	return fromSeconds(reduce(f))
}

// reduce converts a numeric timestamp of unknown unit and epoch to unix
// seconds.
func reduce(f float64) float64 {
	magnitude := math.Abs(f)
	for _, bracket := range unitBrackets {
		if magnitude > bracket.above {
			f /= bracket.divisor
			break
		}
	}
	if f > windowsEpochOffset {
		f -= windowsEpochOffset
	}
	return f
}

func fromSeconds(f float64) (time.Time, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > maxUnixSeconds {
		return time.Time{}, false
	}
	sec, frac := math.Modf(f)
	return time.Unix(int64(sec), int64(math.Round(frac*1e6))*1e3).UTC(), true
}

func parseTimeString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	ts, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return ts.UTC(), true
}

func number(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	}
	return 0, false
}
