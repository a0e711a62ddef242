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
)

// SummaryOptions configure the size of a Summary.
type SummaryOptions struct {
	TopCategories int
	Highlights    int
	URLWidth      int
}

// DefaultSummaryOptions lists the ten largest categories and three highlights
// each.
func DefaultSummaryOptions() SummaryOptions {
	return SummaryOptions{TopCategories: 10, Highlights: 3, URLWidth: 50}
}

// CategoryCount is the number of records of a category.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Summary aggregates a set of records.
type Summary struct {
	Total           int             `json:"total"`
	Categories      []CategoryCount `json:"categories"`
	TopVisited      []string        `json:"top_visited,omitempty"`
	RecentDownloads []string        `json:"recent_downloads,omitempty"`
}

// withDefaults replaces non positive sizes with the default ones.
func (opts SummaryOptions) withDefaults() SummaryOptions {
	defaults := DefaultSummaryOptions()
	if opts.TopCategories <= 0 {
		opts.TopCategories = defaults.TopCategories
	}
	if opts.Highlights <= 0 {
		opts.Highlights = defaults.Highlights
	}
	if opts.URLWidth <= 0 {
		opts.URLWidth = defaults.URLWidth
	}
	return opts
}

// Summarize counts the records per category and picks the most visited urls
// and the most recent downloads. Non positive option values fall back to
// DefaultSummaryOptions.
func Summarize(records []*Record, opts SummaryOptions) Summary {
	opts = opts.withDefaults()
	return Summary{
		Total:           len(records),
		Categories:      countCategories(records, opts.TopCategories),
		TopVisited:      topVisited(records, opts.Highlights, opts.URLWidth),
		RecentDownloads: recentDownloads(records, opts.Highlights),
	}
}

func countCategories(records []*Record, n int) []CategoryCount {
	var counts []CategoryCount
	positions := map[string]int{}
	for _, record := range records {
		i, ok := positions[record.Category]
		if !ok {
			i = len(counts)
			positions[record.Category] = i
			counts = append(counts, CategoryCount{Category: record.Category})
		}
		counts[i].Count++
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	if len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

func topVisited(records []*Record, n, width int) []string {
	type visited struct {
		url   string
		count float64
	}
	var candidates []visited
	for _, record := range records {
		count, ok := number(record.Fields["visit_count"])
		if !ok {
			continue
		}
		candidates = append(candidates, visited{url: record.String("url"), count: count})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].count > candidates[j].count
	})

	var urls []string
	for i := 0; i < len(candidates) && i < n; i++ {
		urls = append(urls, truncate(candidates[i].url, width))
	}
	return urls
}

func isDownload(record *Record) bool {
	if strings.Contains(strings.ToLower(record.Category), "download") {
		return true
	}
	_, ok := record.Fields["target_path"]
	return ok
}

func recentDownloads(records []*Record, n int) []string {
	type download struct {
		name    string
		started time.Time
	}
	var downloads []download
	for _, record := range records {
		if !isDownload(record) {
			continue
		}
		started, _ := NormalizeTimestamp(record.Fields["start_time"])
		downloads = append(downloads, download{name: lastSegment(record.String("target_path")), started: started})
	}

	sort.SliceStable(downloads, func(i, j int) bool {
		return downloads[i].started.After(downloads[j].started)
	})

	var names []string
	for i := 0; i < len(downloads) && i < n; i++ {
		names = append(names, downloads[i].name)
	}
	return names
}
