// Package notify delivers human-readable trading events.
package notify

// Notifier receives the advisory messages the trading components emit
// (entries, exits, EOD closes, daily P&L). Implementations must not
// block the tick loop.
type Notifier interface {
	Notify(message string)
}

// Nop discards all messages.
type Nop struct{}

// Notify does nothing.
func (Nop) Notify(string) {}
