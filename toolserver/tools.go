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

package toolserver

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/forensicanalysis/artifactstore"
)

const browserSchema = `{"type": "string", "enum": ["Chrome", "Brave"], "default": "Chrome", "description": "Type of Chromium-based browser"}`

const jsonlSchema = `{"type": "string", "description": "Path to the Hindsight JSONL output file or the directory it was written to"}`

const analysisIDSchema = `{"type": "string", "description": "ID of the analysis, e.g. history_1"}`

func (s *Server) registerTools() error {
	tools := []*Tool{
		{
			Name:        "analyze_browser_history",
			Description: "Load the Hindsight analysis of a browser history file and store it as a new analysis",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"jsonl_path": ` + jsonlSchema + `,
					"file_path": {"type": "string", "description": "Path to the analyzed browser history file (e.g., Chrome 'History')"},
					"browser_type": ` + browserSchema + `
				},
				"required": ["jsonl_path"]
			}`),
			handler: s.analyzeBrowserHistory,
		},
		{
			Name:        "analyze_chrome_profile",
			Description: "Load the Hindsight analysis of an entire Chrome profile directory and store it as a new analysis",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"jsonl_path": ` + jsonlSchema + `,
					"profile_path": {"type": "string", "description": "Path to the analyzed Chrome profile directory"},
					"cache_path": {"type": "string", "description": "Optional: Path to cache directory if separate from profile"},
					"browser_type": ` + browserSchema + `
				},
				"required": ["jsonl_path", "profile_path"]
			}`),
			handler: s.analyzeChromeProfile,
		},
		{
			Name:        "list_analyses",
			Description: "List stored analysis sessions and their metadata (IDs, sources, timestamps)",
			InputSchema: json.RawMessage(`{"type": "object", "properties": {}, "additionalProperties": false}`),
			handler:     s.listAnalyses,
		},
		{
			Name:        "search_analysis_results",
			Description: "Search through previous analysis results for specific patterns or data",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"analysis_id": ` + analysisIDSchema + `,
					"search_term": {"type": "string", "description": "Term to search for in URLs, titles, or other text fields"},
					"artifact_type": {
						"type": "string",
						"enum": ["urls", "downloads", "cookies", "bookmarks", "autofill", "extensions", "cache", "url", "download", "cookie", "bookmark"],
						"description": "Optional: Limit search to specific artifact type"
					},
					"date_range": {
						"type": "object",
						"properties": {
							"start_date": {"type": "string"},
							"end_date": {"type": "string"}
						},
						"description": "Optional: Filter results by date range (YYYY-MM-DD)"
					}
				},
				"required": ["analysis_id", "search_term"]
			}`),
			handler: s.searchAnalysisResults,
		},
		{
			Name:        "get_analysis_summary",
			Description: "Get a summary of analysis results including statistics and key findings",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {"analysis_id": ` + analysisIDSchema + `},
				"required": ["analysis_id"]
			}`),
			handler: s.getAnalysisSummary,
		},
		{
			Name:        "read_analysis",
			Description: "Export a stored analysis with its metadata and all raw artifacts as JSON",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {"analysis_id": ` + analysisIDSchema + `},
				"required": ["analysis_id"]
			}`),
			handler: s.readAnalysis,
		},
		{
			Name:        "get_artifact",
			Description: "Get a single artifact of an analysis by its artifact ID",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"analysis_id": ` + analysisIDSchema + `,
					"artifact_id": {"type": "string", "description": "ID of the artifact, e.g. artifact--5f0c..."}
				},
				"required": ["analysis_id", "artifact_id"]
			}`),
			handler: s.getArtifact,
		},
	}
	for _, tool := range tools {
		if err := s.register(tool); err != nil {
			return err
		}
	}
	return nil
}

type analyzeArgs struct {
	JSONLPath   string `json:"jsonl_path"`
	FilePath    string `json:"file_path"`
	ProfilePath string `json:"profile_path"`
	CachePath   string `json:"cache_path"`
	BrowserType string `json:"browser_type"`
}

type analysisArgs struct {
	AnalysisID string `json:"analysis_id"`
	ArtifactID string `json:"artifact_id"`
}

type searchArgs struct {
	AnalysisID   string                   `json:"analysis_id"`
	SearchTerm   string                   `json:"search_term"`
	ArtifactType string                   `json:"artifact_type"`
	DateRange    *artifactstore.DateRange `json:"date_range"`
}

func (s *Server) loadElements(jsonlPath string) ([]artifactstore.JSONElement, error) {
	info, err := s.fs.Stat(jsonlPath)
	if err != nil {
		return nil, errors.Wrapf(err, "File not found: %s", jsonlPath)
	}
	if info.IsDir() {
		jsonlPath, err = artifactstore.FindJSONL(s.fs, filepath.ToSlash(jsonlPath), s.cfg.Ingest.OutputNames...)
		if err != nil {
			return nil, errors.Wrap(err, "No JSONL output file found")
		}
	}
	return artifactstore.LoadJSONL(s.fs, jsonlPath)
}

func browser(browserType string) string {
	if browserType == "" {
		return "Chrome"
	}
	return browserType
}

func (s *Server) analyzeBrowserHistory(_ context.Context, raw json.RawMessage) (string, error) {
	var args analyzeArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return "", err
	}
	elements, err := s.loadElements(args.JSONLPath)
	if err != nil {
		return "", err
	}
	source := args.FilePath
	if source == "" {
		source = args.JSONLPath
	}
	session, err := s.store.CreateSession("history", source, browser(args.BrowserType), elements)
	if err != nil {
		return "", err
	}

	summary := artifactstore.Summarize(session.Records, s.cfg.SummaryOptions())
	return fmt.Sprintf("Analysis completed successfully!\n\n"+
		"Analysis ID: %s\nSource: %s\nBrowser: %s\n\nSummary:\n%s\n\n"+
		"Use 'search_analysis_results' or 'get_analysis_summary' with ID '%s' for detailed exploration.",
		session.ID, session.Source, session.Variant, artifactstore.FormatSummary(summary), session.ID), nil
}

func (s *Server) analyzeChromeProfile(_ context.Context, raw json.RawMessage) (string, error) {
	var args analyzeArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return "", err
	}
	elements, err := s.loadElements(args.JSONLPath)
	if err != nil {
		return "", err
	}
	session, err := s.store.CreateSession("profile", args.ProfilePath, browser(args.BrowserType), elements,
		artifactstore.WithCachePath(args.CachePath))
	if err != nil {
		return "", err
	}

	cache := session.CachePath
	if cache == "" {
		cache = "Default location"
	}
	summary := artifactstore.Summarize(session.Records, s.cfg.SummaryOptions())
	return fmt.Sprintf("Profile analysis completed successfully!\n\n"+
		"Analysis ID: %s\nProfile: %s\nBrowser: %s\nCache: %s\n\nSummary:\n%s\n\n"+
		"Use 'search_analysis_results' or 'get_analysis_summary' with ID '%s' for detailed exploration.",
		session.ID, session.Source, session.Variant, cache, artifactstore.FormatSummary(summary), session.ID), nil
}

func (s *Server) listAnalyses(_ context.Context, _ json.RawMessage) (string, error) {
	return artifactstore.FormatSessions(s.store.Sessions()), nil
}

func (s *Server) searchAnalysisResults(_ context.Context, raw json.RawMessage) (string, error) {
	var args searchArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return "", err
	}
	matches, err := s.store.Search(args.AnalysisID, artifactstore.Query{
		Term:      args.SearchTerm,
		Category:  args.ArtifactType,
		DateRange: args.DateRange,
	})
	if err != nil {
		return "", err
	}
	return artifactstore.FormatMatches(args.AnalysisID, matches, s.cfg.Display.MaxMatches), nil
}

func (s *Server) getAnalysisSummary(_ context.Context, raw json.RawMessage) (string, error) {
	var args analysisArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return "", err
	}
	session, err := s.store.Session(args.AnalysisID)
	if err != nil {
		return "", err
	}
	summary := artifactstore.Summarize(session.Records, s.cfg.SummaryOptions())
	return artifactstore.FormatSessionSummary(session, summary), nil
}

func (s *Server) readAnalysis(_ context.Context, raw json.RawMessage) (string, error) {
	var args analysisArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return "", err
	}
	session, err := s.store.Session(args.AnalysisID)
	if err != nil {
		return "", err
	}
	b, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

type artifactView struct {
	ID        string                `structs:"id"`
	Category  string                `structs:"category"`
	Timestamp *time.Time            `structs:"timestamp,omitnested"`
	Fields    artifactstore.Element `structs:"fields"`
}

func (s *Server) getArtifact(_ context.Context, raw json.RawMessage) (string, error) {
	var args analysisArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return "", err
	}
	record, err := s.store.Record(args.AnalysisID, args.ArtifactID)
	if err != nil {
		return "", err
	}
	view := artifactstore.PlainMap(artifactView{
		ID:        record.ID,
		Category:  record.Category,
		Timestamp: record.Timestamp,
		Fields:    record.Fields,
	})
	b, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}
