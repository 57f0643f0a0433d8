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
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/valpere/lingoform/internal/client"
	"github.com/valpere/lingoform/internal/console"
	"github.com/valpere/lingoform/internal/form"
	"github.com/valpere/lingoform/internal/languages"
)

var (
	inputFile  string
	sourceLang string
	targetLang string
	copyResult bool
)

var translateCmd = &cobra.Command{
	Use:   "translate [text...]",
	Short: "Translate text through a running lingoform server",
	Long: `Translate text through the form controller, exactly as the browser form
does: one POST /api/translate to the server, output on stdout, status
messages on stderr.

Text is taken from the arguments, from --input, or from stdin.

Examples:
  lingoform translate -t es "Good morning"
  echo "Bonjour" | lingoform translate -s fr -t en
  lingoform translate -i notes.txt -t de --copy`,
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readText(args, inputFile, cmd.InOrStdin())
		if err != nil {
			return err
		}

		if _, ok := languages.Lookup(sourceLang); !ok {
			return fmt.Errorf("unsupported source language: %s", sourceLang)
		}

		term := console.New(log.Logger)
		httpClient := &http.Client{Timeout: cfg.Client.Timeout}
		c := form.New(term.View(), client.New(cfg.Client.Server, client.WithHTTPClient(httpClient)),
			form.WithClipboard(console.SystemClipboard{}),
			form.WithScratchCopier(console.OSC52{W: cmd.ErrOrStderr()}),
		)
		c.Init()

		term.Source.SetValue(sourceLang)
		term.Target.SetValue(targetLang)
		term.Input.SetValue(text)

		ctx := cmd.Context()
		if err := c.Translate(ctx); err != nil {
			return actionError(err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), term.Output.Text())

		if copyResult {
			if err := c.Copy(ctx); err != nil {
				return actionError(err)
			}
		}
		return nil
	},
}

// actionError wraps a form action error. The status region already showed
// the message, so only the kind is added here.
func actionError(err error) error {
	var (
		validationErr *form.ValidationError
		requestErr    *form.RequestError
		transportErr  *form.TransportError
		clipboardErr  *form.ClipboardError
	)
	switch {
	case errors.As(err, &validationErr):
		return fmt.Errorf("invalid input: %w", err)
	case errors.As(err, &requestErr):
		return fmt.Errorf("server returned %d: %w", requestErr.StatusCode, err)
	case errors.As(err, &transportErr):
		return fmt.Errorf("request failed: %w", err)
	case errors.As(err, &clipboardErr):
		return fmt.Errorf("copy failed: %w", err)
	default:
		return err
	}
}

// readText returns the joined arguments, the content of path ("-" is
// stdin), or stdin when neither is given.
func readText(args []string, path string, stdin io.Reader) (string, error) {
	if len(args) > 0 {
		if path != "" {
			return "", errors.New("give text either as arguments or with --input, not both")
		}
		return strings.Join(args, " "), nil
	}

	var (
		data []byte
		err  error
	)
	switch path {
	case "", "-":
		data, err = io.ReadAll(stdin)
	default:
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return string(data), nil
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().StringVarP(&inputFile, "input", "i", "", "Input file to translate (- for stdin)")
	translateCmd.Flags().StringVarP(&sourceLang, "source", "s", languages.Auto, "Source language code")
	translateCmd.Flags().StringVarP(&targetLang, "target", "t", languages.DefaultTarget, "Target language code")
	translateCmd.Flags().BoolVar(&copyResult, "copy", false, "Copy the translation to the clipboard")
	translateCmd.Flags().String("server", "http://localhost:8000", "Base URL of the lingoform server")
	translateCmd.Flags().Duration("timeout", 0, "Request timeout (0 uses client.timeout)")

	mustBind("client.server", translateCmd.Flags().Lookup("server"))
	mustBind("client.timeout", translateCmd.Flags().Lookup("timeout"))
}
