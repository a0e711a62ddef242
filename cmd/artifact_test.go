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

package cmd

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

const historyJSONL = `{"type": "url", "url": "http://a.com", "title": "Alpha", "visit_count": 5, "visit_time": 13253932800000000}
{"type": "url", "url": "http://b.com", "title": "Beta", "visit_count": 9, "visit_time": 13288464000000000}
{"type": "download", "url": "http://b.com/file.zip", "target_path": "/home/x/file.zip", "start_time": 13288464000000000}
`

func stdout(f func()) []byte {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	f()

	outC := make(chan []byte)
	go func() {
		var buf bytes.Buffer
		io.Copy(&buf, r) // nolint
		outC <- buf.Bytes()
	}()

	w.Close()
	os.Stdout = old
	return <-outC
}

func setupFs(t *testing.T) {
	appFs = afero.NewMemMapFs()
	if err := afero.WriteFile(appFs, "/out/analysis.jsonl", []byte(historyJSONL), 0644); err != nil {
		t.Fatal(err)
	}
	if err := afero.WriteFile(appFs, "/config.yml", []byte("display:\n  highlights: 1\nlog:\n  level: error\n"), 0644); err != nil {
		t.Fatal(err)
	}
}

func run(t *testing.T, cmd *cobra.Command, args []string, wantErr bool) string {
	if err := cmd.Flags().Parse(args); err != nil {
		t.Fatal(err)
	}
	output := stdout(func() {
		err := cmd.Args(cmd, cmd.Flags().Args())
		if err == nil {
			err = cmd.RunE(cmd, cmd.Flags().Args())
		}
		if (err != nil) != wantErr {
			t.Errorf("%s error = %v, wantErr %v", cmd.Name(), err, wantErr)
		}
	})
	return string(output)
}

func Test_searchCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr bool
	}{
		{"json", []string{"--json", "--term", "alpha", "/out/analysis.jsonl"},
			`[{"title":"Alpha","type":"url","url":"http://a.com","visit_count":5,"visit_time":13253932800000000}]` + "\n", false},
		{"category", []string{"--json", "--category", "down", "/out"},
			`[{"start_time":13288464000000000,"target_path":"/home/x/file.zip","type":"download","url":"http://b.com/file.zip"}]` + "\n", false},
		{"date range", []string{"--json", "--end", "2021-12-31", "/out/analysis.jsonl"},
			`[{"title":"Alpha","type":"url","url":"http://a.com","visit_count":5,"visit_time":13253932800000000}]` + "\n", false},
		{"no match", []string{"--term", "nothing", "/out/analysis.jsonl"},
			"No matches found for the specified criteria in analysis 'history_1'.", false},
		{"invalid date", []string{"--start", "yesterday", "/out/analysis.jsonl"}, "", true},
		{"missing file", []string{"/out/missing.jsonl"}, "", true},
		{"no file", []string{}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupFs(t)
			got := run(t, Search(), tt.args, tt.wantErr)
			if got != tt.want {
				t.Errorf("search got = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_searchCommandText(t *testing.T) {
	setupFs(t)
	got := run(t, Search(), []string{"--term", "b.com", "--limit", "1", "/out/analysis.jsonl"}, false)

	for _, want := range []string{
		"Found 2 matches in analysis 'history_1':",
		"1. Category: url",
		"... and 1 more matches",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("search output %q does not contain %q", got, want)
		}
	}
}

func Test_summaryCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr bool
	}{
		{"json", []string{"--json", "/out/analysis.jsonl"},
			`{"total":3,"categories":[{"category":"url","count":2},{"category":"download","count":1}],` +
				`"top_visited":["http://b.com","http://a.com"],"recent_downloads":["file.zip"]}` + "\n", false},
		{"config", []string{"--json", "--config", "/config.yml", "/out/analysis.jsonl"},
			`{"total":3,"categories":[{"category":"url","count":2},{"category":"download","count":1}],` +
				`"top_visited":["http://b.com"],"recent_downloads":["file.zip"]}` + "\n", false},
		{"text", []string{"/out"},
			"Forensic Artifacts Found:\n" +
				"-------------------------\n" +
				"• Url: 2 items\n" +
				"• Download: 1 items\n" +
				"  Top visited: http://b.com, http://a.com\n" +
				"  Recent downloads: file.zip\n" +
				"\nTotal artifacts: 3\n", false},
		{"missing config", []string{"--config", "/missing.yml", "/out"}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupFs(t)
			got := run(t, Summary(), tt.args, tt.wantErr)
			if got != tt.want {
				t.Errorf("summary got = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_fieldsCommand(t *testing.T) {
	setupFs(t)
	got := run(t, Fields(), []string{"/out/analysis.jsonl"}, false)
	want := `{"download":["start_time","target_path","type","url"],"url":["title","type","url","visit_count","visit_time"]}` + "\n"
	if got != want {
		t.Errorf("fields got = %v, want %v", got, want)
	}
}

func Test_serveCommand(t *testing.T) {
	setupFs(t)
	cmd := Serve()
	cmd.SetIn(strings.NewReader(`{"id": 1, "method": "call_tool", "params": {"name": "list_analyses"}}` + "\n"))
	out := &bytes.Buffer{}
	cmd.SetOut(out)

	if err := cmd.RunE(cmd, nil); err != nil {
		t.Fatal(err)
	}
	want := `{"id":1,"result":{"content":[{"type":"text","text":"No analyses stored yet."}],"structuredContent":{"analyses":[]}}}` + "\n"
	if out.String() != want {
		t.Errorf("serve got = %v, want %v", out.String(), want)
	}
}
