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
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/valpere/lingoform/internal/store"
	"github.com/valpere/lingoform/internal/translator"
)

var errNoHistory = errors.New("no history database configured (use --db or LINGOFORM_DB)")

func mustBind(key string, flag *pflag.Flag) {
	if err := v.BindPFlag(key, flag); err != nil {
		log.Panic().Err(err).Str("key", key).Msg("Failed to bind flag")
	}
}

// buildService constructs the configured upstream translation service.
func buildService() (translator.TranslationService, error) {
	svc, err := translator.New(cfg.Service, cfg.ServiceConfig())
	if err != nil {
		return nil, err
	}
	return svc, nil
}

// openHistory opens the history database, or returns nil when none is set.
func openHistory() (*store.Store, error) {
	if cfg.DBPath == "" {
		return nil, nil
	}
	db, err := store.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func requireHistory() (*store.Store, error) {
	db, err := openHistory()
	if err != nil {
		return nil, err
	}
	if db == nil {
		return nil, errNoHistory
	}
	return db, nil
}

// checkService logs a warning when the service does not answer.
func checkService(ctx context.Context, svc translator.TranslationService) {
	if err := svc.IsAvailable(ctx); err != nil {
		log.Warn().Err(err).Str("service", svc.Name()).Msg("Translation service is not available")
		return
	}
	log.Debug().Str("service", svc.Name()).Msg("Translation service is available")
}
