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
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ErrInvalidDateRange is returned for date range bounds that are not
// calendar dates.
var ErrInvalidDateRange = errors.New("invalid date format, please use YYYY-MM-DD")

// dateLayouts are accepted for date range bounds, only the date part is used.
var dateLayouts = []string{ // nolint:gochecknoglobals
	"2006-01-02",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05Z07:00",
}

// DateRange limits a query to records dated within [Start, End]. Empty bounds
// are open.
type DateRange struct {
	Start string `json:"start_date,omitempty"`
	End   string `json:"end_date,omitempty"`
}

// Query filters the records of a session. All set filters must match.
type Query struct {
	// Term is matched case insensitive against the json form of the record.
	Term string
	// Category is matched case insensitive as a substring of the record
	// category, e.g. "url" matches "chrome:history:url".
	Category  string
	DateRange *DateRange
}

// Match is a single search result.
type Match struct {
	Record    *Record
	Category  string
	Relevance int
}

type dateBounds struct {
	start, end *time.Time
}

func (b dateBounds) isSet() bool {
	return b.start != nil || b.end != nil
}

func (b dateBounds) contains(ts time.Time) bool {
	day := truncateDay(ts)
	if b.start != nil && day.Before(*b.start) {
		return false
	}
	if b.end != nil && day.After(*b.end) {
		return false
	}
	return true
}

func truncateDay(ts time.Time) time.Time {
	ts = ts.UTC()
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			// the date is taken as written, without zone conversion
			day := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
			return &day, nil
		}
	}
	return nil, errors.Wrapf(ErrInvalidDateRange, "'%s'", s)
}

func (r *DateRange) bounds() (dateBounds, error) {
	if r == nil {
		return dateBounds{}, nil
	}
	start, err := parseDate(r.Start)
	if err != nil {
		return dateBounds{}, err
	}
	end, err := parseDate(r.End)
	if err != nil {
		return dateBounds{}, err
	}
	return dateBounds{start: start, end: end}, nil
}

// Search runs a query against a stored session and returns all matches,
// ordered by relevance.
func (store *Store) Search(sessionID string, q Query) ([]Match, error) {
	session, err := store.Session(sessionID)
	if err != nil {
		return nil, err
	}
	return Search(session.Records, q)
}

// Search filters the records by date range, category and term and ranks the
// matches by the number of term occurrences. Records with equal relevance keep
// their order.
func Search(records []*Record, q Query) ([]Match, error) {
	bounds, err := q.DateRange.bounds()
	if err != nil {
		return nil, err
	}
	term := strings.ToLower(q.Term)
	category := strings.ToLower(q.Category)

	matches := []Match{}
	for _, record := range records {
		if bounds.isSet() {
			if record.Timestamp == nil || !bounds.contains(*record.Timestamp) {
				continue
			}
		}

		if category != "" && !strings.Contains(strings.ToLower(record.Category), category) {
			continue
		}

		relevance := 1
		if term != "" {
			relevance = strings.Count(record.Text(), term)
			if relevance == 0 {
				continue
			}
		}

		matches = append(matches, Match{Record: record, Category: record.Category, Relevance: relevance})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Relevance > matches[j].Relevance
	})
	return matches, nil
}
