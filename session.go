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
	"time"

	"github.com/forensicanalysis/artifactstore/goflatten"
)

// Session is a single analysis: the records produced by one run of the
// upstream tool together with the run's metadata. A session is never changed
// after it was created.
type Session struct {
	ID        string
	Kind      string
	Source    string
	Variant   string
	CachePath string
	CreatedAt time.Time
	Records   []*Record
	// Dropped counts upstream records that were not json objects.
	Dropped int

	fields *fieldMap
}

// SessionInfo describes a stored session without its records.
type SessionInfo struct {
	ID        string    `json:"id" structs:"id"`
	Source    string    `json:"source" structs:"source"`
	Variant   string    `json:"variant" structs:"variant"`
	CreatedAt time.Time `json:"created_at" structs:"created_at,omitnested"`
	Records   int       `json:"records" structs:"records"`
	Dropped   int       `json:"dropped" structs:"dropped"`
}

// SessionOption sets optional session metadata.
type SessionOption func(*Session)

// WithCachePath records a separate cache directory used for the analysis.
func WithCachePath(cachePath string) SessionOption {
	return func(s *Session) {
		s.CachePath = cachePath
	}
}

func newSession(records []*Record) *Session {
	session := &Session{Records: records, fields: newFieldMap()}
	for _, record := range records {
		flat, err := goflatten.Flatten(record.Fields)
		if err != nil {
			continue
		}
		session.fields.addAll(record.Category, flat)
	}
	return session
}

// Info returns the session metadata.
func (s *Session) Info() SessionInfo {
	return SessionInfo{
		ID:        s.ID,
		Source:    s.Source,
		Variant:   s.Variant,
		CreatedAt: s.CreatedAt,
		Records:   len(s.Records),
		Dropped:   s.Dropped,
	}
}

// Fields lists the flattened field names that occur per category.
func (s *Session) Fields() map[string][]string {
	return s.fields.all()
}

// MarshalJSON exports the session metadata and the verbatim upstream records.
func (s *Session) MarshalJSON() ([]byte, error) {
	results := make([]Element, 0, len(s.Records))
	for _, record := range s.Records {
		results = append(results, record.Fields)
	}
	return json.Marshal(struct {
		ID        string    `json:"id"`
		Kind      string    `json:"kind"`
		Source    string    `json:"source"`
		Variant   string    `json:"browser_type"`
		CachePath string    `json:"cache_path,omitempty"`
		CreatedAt time.Time `json:"created_at"`
		Dropped   int       `json:"dropped"`
		Results   []Element `json:"results"`
	}{s.ID, s.Kind, s.Source, s.Variant, s.CachePath, s.CreatedAt, s.Dropped, results})
}
