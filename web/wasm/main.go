//go:build js && wasm

// Command wasm is the browser build of the translation form.
// Build with: GOOS=js GOARCH=wasm go build -o app.wasm ./web/wasm
package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/valpere/lingoform/internal/client"
	"github.com/valpere/lingoform/internal/dom"
	"github.com/valpere/lingoform/internal/form"
)

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, NoColor: true}).With().Timestamp().Logger()

	view, err := dom.Lookup()
	if err != nil {
		log.Error().Err(err).Msg("Host document is missing form elements")
		return
	}

	c := form.New(view, client.New(dom.Origin()),
		form.WithClipboard(dom.Clipboard{}),
		form.WithScratchCopier(dom.ScratchCopier{}),
	)
	c.Init()

	if _, err := dom.Bind(context.Background(), c); err != nil {
		log.Error().Err(err).Msg("Failed to bind form events")
		return
	}

	view.TranslateButton.SetEnabled(true)
	view.CopyButton.SetEnabled(true)
	view.Status.Show("", form.CategoryInfo)

	select {}
}
