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
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// ErrSessionNotFound is returned for unknown session ids.
var ErrSessionNotFound = errors.New("analysis not found")

// The Store holds all analysis sessions of a process. Sessions are only ever
// added, a stored session is read only.
type Store struct {
	mu       sync.RWMutex
	counter  int
	sessions []*Session
	index    map[string]*Session
	now      func() time.Time
}

// New creates an empty Store.
func New() *Store {
	return &Store{index: map[string]*Session{}, now: time.Now}
}

type parseResult struct {
	record *Record
	err    error
}

func parseElements(elements []JSONElement) []parseResult {
	results := make([]parseResult, 0, len(elements))
	for _, element := range elements {
		record, err := ParseRecord(element)
		results = append(results, parseResult{record: record, err: err})
	}
	return results
}

// CreateSession parses the raw records and stores them as a new session. The
// session id is prefixed with kind, e.g. "history_1". Records that are not
// json objects are dropped and counted in Session.Dropped.
func (store *Store) CreateSession(kind, source, variant string, elements []JSONElement, opts ...SessionOption) (*Session, error) {
	var records []*Record
	dropped := 0
	for _, result := range parseElements(elements) {
		if result.err != nil {
			slog.Debug("dropping record", "source", source, "error", result.err)
			dropped++
			continue
		}
		records = append(records, result.record)
	}
	return store.add(kind, source, variant, records, dropped, opts)
}

// CreateSessionFromElements stores already decoded records as a new session.
func (store *Store) CreateSessionFromElements(kind, source, variant string, elements []Element, opts ...SessionOption) (*Session, error) {
	records := make([]*Record, 0, len(elements))
	for _, element := range elements {
		records = append(records, NewRecord(element))
	}
	return store.add(kind, source, variant, records, 0, opts)
}

func (store *Store) add(kind, source, variant string, records []*Record, dropped int, opts []SessionOption) (*Session, error) {
	if kind == "" {
		return nil, errors.New("session kind must not be empty")
	}

	session := newSession(records)
	session.Kind = kind
	session.Source = source
	session.Variant = variant
	session.Dropped = dropped
	for _, opt := range opts {
		opt(session)
	}

	store.mu.Lock()
	defer store.mu.Unlock()
	store.counter++
	session.ID = fmt.Sprintf("%s_%d", kind, store.counter)
	session.CreatedAt = store.now()
	store.sessions = append(store.sessions, session)
	store.index[session.ID] = session

	if dropped > 0 {
		slog.Info("dropped malformed records", "session", session.ID, "dropped", dropped)
	}
	return session, nil
}

// Session returns a stored session.
func (store *Store) Session(id string) (*Session, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()
	session, ok := store.index[id]
	if !ok {
		return nil, errors.Wrapf(ErrSessionNotFound, "analysis ID '%s'", id)
	}
	return session, nil
}

// Sessions lists all sessions in creation order.
func (store *Store) Sessions() []SessionInfo {
	store.mu.RLock()
	defer store.mu.RUnlock()
	infos := make([]SessionInfo, 0, len(store.sessions))
	for _, session := range store.sessions {
		infos = append(infos, session.Info())
	}
	return infos
}

// Record returns a single record of a session by its id.
func (store *Store) Record(sessionID, recordID string) (*Record, error) {
	session, err := store.Session(sessionID)
	if err != nil {
		return nil, err
	}
	for _, record := range session.Records {
		if record.ID == recordID {
			return record, nil
		}
	}
	return nil, fmt.Errorf("artifact %s not found in analysis '%s'", recordID, sessionID)
}
