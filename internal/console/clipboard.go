package console

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/atotto/clipboard"
)

// SystemClipboard writes through the platform clipboard utilities
// (pbcopy, xclip, xsel, wl-copy, clip.exe).
type SystemClipboard struct{}

func (SystemClipboard) Available() bool {
	return !clipboard.Unsupported
}

func (SystemClipboard) WriteText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("system clipboard: %w", err)
	}
	return nil
}

// OSC52 asks the terminal emulator to set its clipboard with an OSC 52
// escape sequence. It works over SSH where no clipboard utility exists.
type OSC52 struct {
	W io.Writer
}

func (o OSC52) CopyViaScratch(text string) error {
	seq := "\x1b]52;c;" + base64.StdEncoding.EncodeToString([]byte(text)) + "\a"
	if _, err := io.WriteString(o.W, seq); err != nil {
		return fmt.Errorf("osc52: %w", err)
	}
	return nil
}
