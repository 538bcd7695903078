package notify

import (
	"context"
	"fmt"
	"io"
	"os"
)

// ConsoleSender writes delivered notifications to a stream. It stands in for
// a desktop notification surface when the app runs in a terminal.
type ConsoleSender struct {
	w io.Writer
}

func NewConsoleSender(w io.Writer) *ConsoleSender {
	if w == nil {
		w = os.Stdout
	}
	return &ConsoleSender{w: w}
}

func (s *ConsoleSender) Send(ctx context.Context, title, body string) error {
	_, err := fmt.Fprintf(s.w, "[%s] %s\n", title, body)
	return err
}
