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
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/valpere/lingoform/internal/detector"
	"github.com/valpere/lingoform/internal/server"
	"github.com/valpere/lingoform/internal/translator"
	"github.com/valpere/lingoform/internal/validator"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the translation form and API",
	Long: `Serve the translation form at / and the translation endpoint at
POST /api/translate.

The browser form is a WebAssembly build of the form controller. Build it with

  GOOS=js GOARCH=wasm go build -o web/dist/app.wasm ./web/wasm
  cp "$(go env GOROOT)/lib/wasm/wasm_exec.js" web/dist/

and pass --wasm-dir web/dist.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := buildService()
		if err != nil {
			return err
		}

		opts := server.Options{
			Service:   svc,
			WasmDir:   cfg.Server.WasmDir,
			RateLimit: cfg.RateLimit.RPS,
			Burst:     cfg.RateLimit.Burst,
		}

		needDetector := cfg.Server.DetectSource && !translator.DetectsSource(svc)
		if needDetector || cfg.Server.ValidateOutput {
			det := detector.New()
			if needDetector {
				opts.Detector = det
			}
			if cfg.Server.ValidateOutput {
				opts.Validator = validator.New(det)
			}
		}

		db, err := openHistory()
		if err != nil {
			return err
		}
		if db != nil {
			defer db.Close()
			opts.History = db
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		checkService(ctx, svc)

		srv := &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           server.New(opts),
			ReadHeaderTimeout: 10 * time.Second,
		}

		g, gctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			log.Info().
				Str("addr", srv.Addr).
				Str("service", svc.Name()).
				Bool("history", db != nil).
				Msg("Starting server")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})

		g.Go(func() error {
			<-gctx.Done()
			log.Info().Msg("Shutting down server")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})

		return g.Wait()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", ":8000", "Listen address")
	serveCmd.Flags().String("service", "libretranslate", "Upstream service (libretranslate, google, mymemory, systran, ollama)")
	serveCmd.Flags().String("wasm-dir", "", "Directory holding app.wasm and wasm_exec.js")
	serveCmd.Flags().Float64("rate-limit", 2, "Requests per second per client on /api/ (0 disables)")
	serveCmd.Flags().Int("burst", 20, "Rate limiter burst size")
	serveCmd.Flags().Bool("validate-output", false, "Log translations that do not look like the target language")

	mustBind("server.addr", serveCmd.Flags().Lookup("addr"))
	mustBind("service", serveCmd.Flags().Lookup("service"))
	mustBind("server.wasm_dir", serveCmd.Flags().Lookup("wasm-dir"))
	mustBind("rate_limit.rps", serveCmd.Flags().Lookup("rate-limit"))
	mustBind("rate_limit.burst", serveCmd.Flags().Lookup("burst"))
	mustBind("server.validate_output", serveCmd.Flags().Lookup("validate-output"))
}
