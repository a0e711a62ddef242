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
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forensicanalysis/artifactstore"
	"github.com/forensicanalysis/artifactstore/config"
)

type sessionFlags struct {
	configPath string
	browser    string
	asJSON     bool
}

func (f *sessionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.configPath, "config", "", "yaml config file")
	cmd.Flags().StringVar(&f.browser, "browser", "Chrome", "browser the output was created from")
	cmd.Flags().BoolVar(&f.asJSON, "json", false, "print json instead of text")
}

func (f *sessionFlags) load(outputPath string) (*artifactstore.Session, config.Config, error) {
	cfg, err := setup(f.configPath)
	if err != nil {
		return nil, cfg, err
	}
	session, err := loadSession(artifactstore.New(), cfg, outputPath, f.browser)
	return session, cfg, err
}

// Search queries the records of a JSONL file.
func Search() *cobra.Command {
	var flags sessionFlags
	var term, category, start, end string
	var limit int
	searchCommand := &cobra.Command{
		Use:   "search <jsonl>",
		Short: "Search the records of a Hindsight JSONL file",
		Args:  requireOneOutput,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, _, err := flags.load(cmd.Flags().Args()[0])
			if err != nil {
				return err
			}

			query := artifactstore.Query{Term: term, Category: category}
			if start != "" || end != "" {
				query.DateRange = &artifactstore.DateRange{Start: start, End: end}
			}
			matches, err := artifactstore.Search(session.Records, query)
			if err != nil {
				return err
			}

			if flags.asJSON {
				elements := make([]artifactstore.Element, 0, len(matches))
				for _, match := range matches {
					elements = append(elements, match.Record.Fields)
				}
				b, err := json.Marshal(elements)
				if err != nil {
					return err
				}
				fmt.Printf("%s\n", b)
				return nil
			}
			fmt.Print(artifactstore.FormatMatches(session.ID, matches, limit))
			return nil
		},
	}
	flags.register(searchCommand)
	searchCommand.Flags().StringVar(&term, "term", "", "case insensitive search term")
	searchCommand.Flags().StringVar(&category, "category", "", "limit to categories containing this text")
	searchCommand.Flags().StringVar(&start, "start", "", "first day, YYYY-MM-DD")
	searchCommand.Flags().StringVar(&end, "end", "", "last day, YYYY-MM-DD")
	searchCommand.Flags().IntVar(&limit, "limit", artifactstore.DefaultMatchLimit, "maximum number of matches to print")
	return searchCommand
}

// Summary prints category counts and highlights of a JSONL file.
func Summary() *cobra.Command {
	var flags sessionFlags
	summaryCommand := &cobra.Command{
		Use:   "summary <jsonl>",
		Short: "Summarize the records of a Hindsight JSONL file",
		Args:  requireOneOutput,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, cfg, err := flags.load(cmd.Flags().Args()[0])
			if err != nil {
				return err
			}

			summary := artifactstore.Summarize(session.Records, cfg.SummaryOptions())
			if flags.asJSON {
				b, err := json.Marshal(summary)
				if err != nil {
					return err
				}
				fmt.Printf("%s\n", b)
				return nil
			}
			fmt.Print(artifactstore.FormatSummary(summary))
			return nil
		},
	}
	flags.register(summaryCommand)
	return summaryCommand
}

// Fields lists the flattened field names per category of a JSONL file.
func Fields() *cobra.Command {
	var flags sessionFlags
	fieldsCommand := &cobra.Command{
		Use:   "fields <jsonl>",
		Short: "List the fields that occur per category",
		Args:  requireOneOutput,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, _, err := flags.load(cmd.Flags().Args()[0])
			if err != nil {
				return err
			}
			b, err := json.Marshal(session.Fields())
			if err != nil {
				return err
			}
			fmt.Printf("%s\n", b)
			return nil
		},
	}
	flags.register(fieldsCommand)
	return fieldsCommand
}
