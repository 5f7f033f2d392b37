package notify

import (
	"fmt"
	"io"
	"os"
	"sync"

	"momentum-trader/pkg/utils"
)

// TerminalNotifier prints timestamped event lines to a writer,
// typically stdout.
type TerminalNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

// NewTerminalNotifier creates a notifier writing to stdout.
func NewTerminalNotifier() *TerminalNotifier {
	return &TerminalNotifier{w: os.Stdout}
}

// NewTerminalNotifierWithWriter creates a notifier writing to w.
func NewTerminalNotifierWithWriter(w io.Writer) *TerminalNotifier {
	return &TerminalNotifier{w: w}
}

// Notify prints the message prefixed with the IST wall clock.
func (t *TerminalNotifier) Notify(message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.w, "[%s] %s\n", utils.NowIST().Format("15:04:05"), message)
}
