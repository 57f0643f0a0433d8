//go:build js && wasm

package dom

import (
	"context"
	"syscall/js"

	"github.com/rs/zerolog/log"

	"github.com/valpere/lingoform/internal/form"
)

// Bind attaches the controller actions to the click events of the trigger
// buttons. Each event runs its action on its own goroutine so that the
// network call and clipboard promise do not block the event loop.
// The returned function detaches the listeners.
func Bind(ctx context.Context, c *form.Controller) (func(), error) {
	translateBtn, err := byID(TranslateBtnID)
	if err != nil {
		return nil, err
	}
	copyBtn, err := byID(CopyBtnID)
	if err != nil {
		return nil, err
	}

	onTranslate := js.FuncOf(func(this js.Value, args []js.Value) any {
		go func() {
			if err := c.Translate(ctx); err != nil {
				log.Debug().Err(err).Msg("Translate action finished with error")
			}
		}()
		return nil
	})
	onCopy := js.FuncOf(func(this js.Value, args []js.Value) any {
		go func() {
			if err := c.Copy(ctx); err != nil {
				log.Debug().Err(err).Msg("Copy action finished with error")
			}
		}()
		return nil
	})

	translateBtn.Call("addEventListener", "click", onTranslate)
	copyBtn.Call("addEventListener", "click", onCopy)

	return func() {
		translateBtn.Call("removeEventListener", "click", onTranslate)
		copyBtn.Call("removeEventListener", "click", onCopy)
		onTranslate.Release()
		onCopy.Release()
	}, nil
}

// Origin returns window.location.origin, the base URL of the backend.
func Origin() string {
	return js.Global().Get("location").Get("origin").String()
}
