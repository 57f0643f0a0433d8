/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

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
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/valpere/lingoform/internal/languages"
)

var providerLanguages bool

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List the languages offered by the form",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		if providerLanguages {
			svc, err := buildService()
			if err != nil {
				return err
			}
			codes, err := svc.SupportedLanguages(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list %s languages: %w", svc.Name(), err)
			}
			for _, code := range codes {
				fmt.Fprintln(out, code)
			}
			return nil
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CODE\tNAME\tSOURCE\tTARGET")
		for _, opt := range languages.All() {
			target := "yes"
			if opt.Code == languages.Auto {
				target = "no"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", opt.Code, opt.Name, "yes", target)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(languagesCmd)

	languagesCmd.Flags().BoolVar(&providerLanguages, "provider", false, "List the codes supported by the configured upstream service instead")
}
