/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"paperfold/internal/crash"
	"paperfold/internal/export"
	applog "paperfold/internal/log"
	"paperfold/internal/script"
	"paperfold/internal/sketch"
)

type replayFlags struct {
	svg, png, pdf string
	indicator     bool
	caption       bool
	hideBoundary  bool
	strict        bool
}

func newReplayCmd(a *app) *cobra.Command {
	f := &replayFlags{}
	cmd := &cobra.Command{
		Use:   "replay <journal>",
		Short: "Replay a recorded journal and print or export the result",
		Long: `Replay feeds every "move x y" and "click" line of a journal through a fresh
session and prints the committed segments. Use "-" to read from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd, a, f, args[0])
		},
	}
	cmd.Flags().StringVar(&f.svg, "svg", "", "write an SVG rendering to this path")
	cmd.Flags().StringVar(&f.png, "png", "", "write a PNG rendering to this path")
	cmd.Flags().StringVar(&f.pdf, "pdf", "", "write a PDF rendering to this path")
	cmd.Flags().BoolVar(&f.indicator, "indicator", false, "draw the snap and anchor indicator in exports")
	cmd.Flags().BoolVar(&f.caption, "caption", false, "print the shape count on PNG and PDF exports")
	cmd.Flags().BoolVar(&f.hideBoundary, "hide-boundary", false, "leave the boundary rectangle out of exports")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "fail on malformed journal lines instead of skipping them")
	return cmd
}

func readJournal(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		return string(b), err
	}
	b, err := os.ReadFile(path)
	return string(b), err
}

func runReplay(cmd *cobra.Command, a *app, f *replayFlags, path string) error {
	text, err := readJournal(cmd, path)
	if err != nil {
		return fmt.Errorf("read journal: %w", err)
	}
	events, perrs := script.Parse(text)
	for _, pe := range perrs {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", path, pe.Error())
	}
	if len(perrs) > 0 && f.strict {
		return fmt.Errorf("%d malformed journal line(s)", len(perrs))
	}

	opts, err := a.cfg.SessionOptions()
	if err != nil {
		return err
	}
	sess := sketch.New(opts, nil)
	defer crash.Recover(sess)

	ctx := applog.ContextWithSession(cmd.Context(), uuid.NewString())
	a.log.InfoContext(ctx, "replay", slog.String("journal", path), slog.Int("events", len(events)))
	sess.Replay(events)

	out := cmd.OutOrStdout()
	st := sess.State()
	segs := sess.Segments()
	fmt.Fprintf(out, "events: %d\nshapes: %d\nsegments: %d\n", len(events), len(sess.Shapes()), len(segs))
	for i, s := range segs {
		fmt.Fprintf(out, "  %d: (%g, %g) -> (%g, %g)\n", i+1, s.A.X, s.A.Y, s.B.X, s.B.Y)
	}
	fmt.Fprintf(out, "state: %s\n", st.Phase())
	if p, ok := st.Anchor(); ok {
		fmt.Fprintf(out, "anchor: (%g, %g)\n", p.X, p.Y)
	}
	if p, ok := st.Nearest(); ok {
		fmt.Fprintf(out, "nearest: (%g, %g)\n", p.X, p.Y)
	}

	eopt := a.cfg.ExportOptions()
	eopt.IncludeIndicator = f.indicator
	eopt.Caption = f.caption
	eopt.BoundaryStroke.Hidden = f.hideBoundary
	var errs []error
	for _, target := range []struct {
		path  string
		write func(string, *sketch.Session, export.Options) error
	}{
		{f.svg, export.SVGFile},
		{f.png, export.PNGFile},
		{f.pdf, export.PDFFile},
	} {
		if target.path == "" {
			continue
		}
		if err := target.write(target.path, sess, eopt); err != nil {
			errs = append(errs, err)
			continue
		}
		a.log.InfoContext(ctx, "exported", slog.String("path", target.path))
		fmt.Fprintf(out, "wrote %s\n", target.path)
	}
	return errors.Join(errs...)
}
