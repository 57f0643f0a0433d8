//go:build js && wasm

package dom

import (
	"context"
	"errors"
	"fmt"
	"syscall/js"
)

// Clipboard is navigator.clipboard.
type Clipboard struct{}

func (Clipboard) api() js.Value {
	nav := js.Global().Get("navigator")
	if nav.IsUndefined() {
		return js.Undefined()
	}
	return nav.Get("clipboard")
}

func (c Clipboard) Available() bool {
	api := c.api()
	return api.Truthy() && api.Get("writeText").Type() == js.TypeFunction
}

func (c Clipboard) WriteText(ctx context.Context, text string) (err error) {
	defer recoverJS(&err)
	return await(ctx, c.api().Call("writeText", text))
}

// ScratchCopier copies through an off-screen textarea and the legacy
// document.execCommand("copy").
type ScratchCopier struct{}

func (ScratchCopier) CopyViaScratch(text string) (err error) {
	defer recoverJS(&err)

	doc := document()
	body := doc.Get("body")

	ta := doc.Call("createElement", "textarea")
	ta.Set("value", text)
	ta.Call("setAttribute", "readonly", "")
	style := ta.Get("style")
	style.Set("position", "fixed")
	style.Set("left", "-9999px")
	style.Set("top", "0")

	body.Call("appendChild", ta)
	defer body.Call("removeChild", ta)

	ta.Call("select")
	if !doc.Call("execCommand", "copy").Truthy() {
		return errors.New("execCommand copy was rejected")
	}
	return nil
}

// await blocks until promise settles. It must not run on the event loop
// goroutine, or the promise callbacks can never fire.
func await(ctx context.Context, promise js.Value) error {
	done := make(chan error, 1)

	onResolve := js.FuncOf(func(this js.Value, args []js.Value) any {
		done <- nil
		return nil
	})
	defer onResolve.Release()

	onReject := js.FuncOf(func(this js.Value, args []js.Value) any {
		reason := "promise rejected"
		if len(args) > 0 {
			reason = jsString(args[0])
		}
		done <- errors.New(reason)
		return nil
	})
	defer onReject.Release()

	promise.Call("then", onResolve, onReject)

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func jsString(v js.Value) string {
	if v.Type() == js.TypeObject {
		if msg := v.Get("message"); msg.Type() == js.TypeString {
			return msg.String()
		}
	}
	return js.Global().Call("String", v).String()
}

// recoverJS turns a panic raised by a JavaScript exception into an error.
func recoverJS(err *error) {
	r := recover()
	if r == nil {
		return
	}
	if jsErr, ok := r.(js.Error); ok {
		*err = fmt.Errorf("javascript: %s", jsErr.Error())
		return
	}
	panic(r)
}
