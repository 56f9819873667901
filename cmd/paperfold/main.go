/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"paperfold/internal/config"
	"paperfold/internal/crash"
	applog "paperfold/internal/log"
	"paperfold/internal/version"
)

// app holds what every subcommand needs after the config has been loaded.
type app struct {
	configPath string
	cfg        config.AppConfig
	log        *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "paperfold",
		Short: "Snap-to-curve segment sketching",
		Long: `paperfold draws straight segments whose endpoints snap onto existing curves.
Moving the pointer near a curve snaps it to the closest point; two clicks
commit a segment that later moves can snap to as well.`,
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load()
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default is the per-user config.yaml)")
	root.SetVersionTemplate("{{.Version}}\n")
	root.AddCommand(newVersionCmd(), newReplayCmd(a), newUICmd(a))
	return root
}

func (a *app) load() error {
	var err error
	if a.configPath != "" {
		a.cfg, err = config.LoadFile(a.configPath)
	} else {
		a.cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applog.Init(a.cfg.LogOptions())
	a.log = applog.WithComponent("cli")
	a.log.Debug("config loaded", slog.String("path", a.configPath))
	return nil
}

func main() {
	defer crash.Recover(nil)
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
