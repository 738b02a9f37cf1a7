/*
Copyright © 2025 Honoka Toda, Shinya Ishitobi

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"path/filepath"

	"github.com/goatx/testgen/internal/config"
	"github.com/goatx/testgen/internal/logger"
	"github.com/goatx/testgen/internal/runner"
	"github.com/goatx/testgen/internal/watch"
	"github.com/spf13/cobra"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Regenerate suites whenever their test data changes",
	Long: `Generate every suite once, then watch the test data directories of the manifest
and regenerate after each burst of changes. Each regeneration is a new run.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		log := logger.FromContext(ctx)

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if _, err := runner.Run(ctx, cfg, runner.Options{}); err != nil {
			return err
		}

		w, err := watch.New(watch.Config{
			Paths:  modelRoots(cfg),
			Ignore: []string{filepath.Join(cfg.ProjectDir, cfg.OutputDir)},
		}, log)
		if err != nil {
			return err
		}
		defer w.Close()

		log.Info("watching test data", "roots", len(modelRoots(cfg)))
		for range w.Changes(ctx) {
			if _, err := runner.Run(ctx, cfg, runner.Options{}); err != nil {
				log.Error("regeneration failed", "error", err)
			}
		}
		return nil
	},
}

func modelRoots(cfg *config.Config) []string {
	seen := make(map[string]bool)
	var roots []string
	for _, suite := range cfg.Suites {
		for _, m := range suite.Models {
			root := filepath.Join(cfg.ProjectDir, m.Root)
			if !seen[root] {
				seen[root] = true
				roots = append(roots, root)
			}
		}
	}
	return roots
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
