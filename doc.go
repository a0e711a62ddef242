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

// Package artifactstore keeps the artifacts that browser forensic tools like
// Hindsight produce and answers questions about them.
//
// Records
//
// Upstream records are open json objects. They are stored verbatim, only two
// values are derived from them:
//     - The category, the first non empty value of the artifact, type or
//       category field, "unknown" otherwise.
//     - The timestamp, the first parseable value of the datetime, timestamp,
//       visit_time, start_time or last_visit_time field. Numbers are
//       interpreted as seconds, milliseconds, microseconds or nanoseconds
//       since 1970 or as Windows FILETIME and WebKit values since 1601.
//
// Sessions
//
// Each ingestion creates a session with an id like "history_1" or
// "profile_2". Sessions are never modified and live as long as the Store.
//
// Usage
//
//     store := artifactstore.New()
//     elements, _ := artifactstore.LoadJSONL(afero.NewOsFs(), "analysis.jsonl")
//     session, _ := store.CreateSession("history", "History", "Chrome", elements)
//     matches, _ := store.Search(session.ID, artifactstore.Query{Term: "google", Category: "url"})
//     fmt.Println(artifactstore.FormatMatches(session.ID, matches, artifactstore.DefaultMatchLimit))
package artifactstore
