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
	"fmt"

	"github.com/goatx/testgen/internal/config"
	"github.com/goatx/testgen/internal/runner"
	"github.com/spf13/cobra"
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate every suite listed in the manifest",
	Long: `Scan the test data directories of every suite in the manifest and write the
generated test classes. Files that are already up to date are left untouched.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		jobs, err := cmd.Flags().GetInt("jobs")
		if err != nil {
			return err
		}
		dryRun, err := cmd.Flags().GetBool("dry-run")
		if err != nil {
			return err
		}

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		res, err := runner.Run(cmd.Context(), cfg, runner.Options{Jobs: jobs, DryRun: dryRun})
		if err != nil {
			return err
		}

		verb := "wrote"
		if dryRun {
			verb = "would write"
		}
		for _, path := range res.Written {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", verb, path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().IntP("jobs", "j", 4, "number of suites generated concurrently")
	generateCmd.Flags().Bool("dry-run", false, "report the files that would change without writing them")
}
