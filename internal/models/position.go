package models

import "time"

// ExitReason records why a position was closed. The values are stored
// verbatim in the trades table and shown in the P&L views.
type ExitReason string

const (
	ExitStopLoss ExitReason = "Stop Loss -2%"
	ExitTrailing ExitReason = "Trail 10% from peak"
	ExitEndOfDay ExitReason = "EOD Exit"
)

// Position is one simulated intraday trade. Symbol, EntryPrice, Quantity
// and EntryTime are fixed at entry. CurrentPrice, PnLPct, PnLAbs and
// MaxProfitPct are recomputed on every tick while the position is open.
// The exit fields are written exactly once, when IsOpen flips to false.
type Position struct {
	ID         int64 // assigned by the store on creation, 0 before
	Symbol     string
	EntryPrice Money
	Quantity   int
	EntryTime  time.Time

	CurrentPrice Money
	PnLPct       float64
	PnLAbs       Money
	MaxProfitPct float64

	IsOpen     bool
	ExitReason ExitReason
	ExitTime   *time.Time
	ExitPrice  Money

	// DirtyClose marks a close whose store write failed and must be
	// retried before the position can be dropped from memory.
	DirtyClose bool
}

// NewPosition opens a position at the given price and time.
func NewPosition(symbol string, entryPrice Money, qty int, at time.Time) *Position {
	return &Position{
		Symbol:       symbol,
		EntryPrice:   entryPrice,
		Quantity:     qty,
		EntryTime:    at,
		CurrentPrice: entryPrice,
		IsOpen:       true,
	}
}

// Reprice updates the mark-to-market fields from a fresh price.
// MaxProfitPct only ever ratchets upward. Closed positions are left
// untouched.
func (p *Position) Reprice(price Money) {
	if !p.IsOpen || price <= 0 {
		return
	}
	p.CurrentPrice = price
	p.PnLPct = PctChange(p.EntryPrice, price)
	p.PnLAbs = (price - p.EntryPrice).MulQty(p.Quantity)
	if p.PnLPct > p.MaxProfitPct {
		p.MaxProfitPct = p.PnLPct
	}
}

// Close performs the one-way open->closed transition, fixing the exit
// fields and the final P&L. Calling Close on an already-closed position
// is a no-op, so the closed state is idempotent.
func (p *Position) Close(reason ExitReason, price Money, at time.Time) {
	if !p.IsOpen {
		return
	}
	if price <= 0 {
		// Pricing fallback: last mark, then entry.
		price = p.CurrentPrice
		if price <= 0 {
			price = p.EntryPrice
		}
	}
	p.CurrentPrice = price
	p.PnLPct = PctChange(p.EntryPrice, price)
	p.PnLAbs = (price - p.EntryPrice).MulQty(p.Quantity)
	if p.PnLPct > p.MaxProfitPct {
		p.MaxProfitPct = p.PnLPct
	}
	p.IsOpen = false
	p.ExitReason = reason
	t := at
	p.ExitTime = &t
	p.ExitPrice = price
}
