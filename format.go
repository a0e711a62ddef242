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
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultMatchLimit is the number of matches FormatMatches shows by default.
const DefaultMatchLimit = 20

const timestampLayout = "2006-01-02 15:04:05 UTC"

// FormatMatches renders at most limit matches as text and notes how many
// were left out.
func FormatMatches(sessionID string, matches []Match, limit int) string {
	if len(matches) == 0 {
		return fmt.Sprintf("No matches found for the specified criteria in analysis '%s'.", sessionID)
	}
	if limit <= 0 {
		limit = DefaultMatchLimit
	}

	b := &strings.Builder{}
	fmt.Fprintf(b, "Found %d matches in analysis '%s':\n\n", len(matches), sessionID)
	for i, match := range matches {
		if i >= limit {
			break
		}
		fmt.Fprintf(b, "%d. Category: %s\n", i+1, match.Category)
		fmt.Fprintf(b, "   Artifact ID: %s\n", match.Record.ID)

		fields := match.Record.Fields
		if match.Record.Timestamp != nil {
			fmt.Fprintf(b, "   Timestamp: %s\n", match.Record.Timestamp.UTC().Format(timestampLayout))
		}
		if url, ok := fields["url"]; ok {
			fmt.Fprintf(b, "   URL: %v\n", url)
		}
		if title, ok := fields["title"]; ok {
			fmt.Fprintf(b, "   Title: %v\n", title)
		}
		if visits, ok := fields["visit_count"]; ok {
			fmt.Fprintf(b, "   Visit Count: %v\n", visits)
		}
		b.WriteString("\n")
	}

	if len(matches) > limit {
		fmt.Fprintf(b, "... and %d more matches\n", len(matches)-limit)
	}
	return b.String()
}

// FormatSummary renders the category counts and highlights of a summary.
func FormatSummary(summary Summary) string {
	b := &strings.Builder{}
	b.WriteString("Forensic Artifacts Found:\n")
	b.WriteString(strings.Repeat("-", 25) + "\n")
	for _, count := range summary.Categories {
		fmt.Fprintf(b, "• %s: %d items\n", titleCase(count.Category), count.Count)
	}
	if len(summary.TopVisited) > 0 {
		fmt.Fprintf(b, "  Top visited: %s\n", strings.Join(summary.TopVisited, ", "))
	}
	if len(summary.RecentDownloads) > 0 {
		fmt.Fprintf(b, "  Recent downloads: %s\n", strings.Join(summary.RecentDownloads, ", "))
	}
	fmt.Fprintf(b, "\nTotal artifacts: %d\n", summary.Total)
	return b.String()
}

// FormatSessionSummary renders a summary together with the session metadata.
func FormatSessionSummary(session *Session, summary Summary) string {
	b := &strings.Builder{}
	fmt.Fprintf(b, "Analysis Summary for ID: %s\n", session.ID)
	b.WriteString(strings.Repeat("=", 50) + "\n\n")
	fmt.Fprintf(b, "Source: %s\n", orUnknown(session.Source))
	fmt.Fprintf(b, "Browser: %s\n", orUnknown(session.Variant))
	if session.CachePath != "" {
		fmt.Fprintf(b, "Cache: %s\n", session.CachePath)
	}
	fmt.Fprintf(b, "Analysis Time: %s\n", session.CreatedAt.UTC().Format(timestampLayout))
	if session.Dropped > 0 {
		fmt.Fprintf(b, "Dropped Records: %d\n", session.Dropped)
	}
	b.WriteString("\n")
	b.WriteString(FormatSummary(summary))
	return b.String()
}

// FormatSessions lists stored sessions.
func FormatSessions(infos []SessionInfo) string {
	if len(infos) == 0 {
		return "No analyses stored yet."
	}
	lines := []string{"Stored analyses:"}
	for _, info := range infos {
		lines = append(lines, fmt.Sprintf("- %s: %s (%s)", info.ID, orUnknown(info.Source), orUnknown(info.Variant)))
	}
	return strings.Join(lines, "\n")
}

// titleCase upper cases the first letter of every letter run and lower cases
// the rest, e.g. "chrome:history:url" becomes "Chrome:History:Url".
func titleCase(s string) string {
	title := cases.Title(language.Und)
	b := &strings.Builder{}
	run := &strings.Builder{}
	flush := func() {
		if run.Len() > 0 {
			b.WriteString(title.String(run.String()))
			run.Reset()
		}
	}
	for _, r := range s {
		if unicode.IsLetter(r) {
			run.WriteRune(r)
			continue
		}
		flush()
		b.WriteRune(r)
	}
	flush()
	return b.String()
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
