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
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/forensicanalysis/artifactstore"
	"github.com/forensicanalysis/artifactstore/config"
	"github.com/forensicanalysis/artifactstore/logging"
	"github.com/forensicanalysis/artifactstore/toolserver"
)

// appFs is used for config and JSONL files.
var appFs = afero.NewOsFs() // nolint:gochecknoglobals

// Serve runs the tool server on stdin and stdout.
func Serve() *cobra.Command {
	var configPath string
	serveCommand := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"server", "stdio"},
		Short:   "Serve the analysis tools as line delimited json on stdin and stdout",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(configPath)
			if err != nil {
				return err
			}
			server, err := toolserver.New(artifactstore.New(), appFs, cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			slog.Info("serving tools", "name", cfg.Server.Name, "version", cfg.Server.Version)
			return server.Serve(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	serveCommand.Flags().StringVar(&configPath, "config", "", "yaml config file")
	return serveCommand
}

func setup(configPath string) (config.Config, error) {
	cfg, err := config.Load(appFs, configPath)
	if err != nil {
		return config.Config{}, err
	}
	logging.Init(cfg.Log.Format, logging.ParseLevel(cfg.Log.Level))
	return cfg, nil
}

func requireOneOutput(_ *cobra.Command, args []string) error {
	if len(args) != 1 {
		return errors.New("requires exactly one jsonl file or output directory")
	}
	for _, arg := range args {
		if _, err := appFs.Stat(arg); os.IsNotExist(err) {
			return errors.Wrap(os.ErrNotExist, arg)
		}
	}
	return nil
}

// loadSession reads a JSONL file, or the output file in a directory, into a
// new session of store.
func loadSession(store *artifactstore.Store, cfg config.Config, outputPath, browser string) (*artifactstore.Session, error) {
	info, err := appFs.Stat(outputPath)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		outputPath, err = artifactstore.FindJSONL(appFs, outputPath, cfg.Ingest.OutputNames...)
		if err != nil {
			return nil, err
		}
	}
	elements, err := artifactstore.LoadJSONL(appFs, outputPath)
	if err != nil {
		return nil, err
	}
	return store.CreateSession("history", outputPath, browser, elements)
}
