package model

import (
	"errors"
	"fmt"
)

// DefaultSymbols is the selectable ticker list.
var DefaultSymbols = []string{
	"MSFT", "AAPL", "GOOGL", "AMZN", "TSLA", "NFLX",
	"META", "NVDA", "IBM", "AMD", "SPY", "DIS", "V", "BA",
}

// ErrUnknownSymbol is returned when a selection is outside the allowed set.
var ErrUnknownSymbol = errors.New("symbol not in allowed set")

// SymbolSet is an ordered, de-duplicated set of allowed tickers.
type SymbolSet struct {
	list  []string
	index map[string]struct{}
}

// NewSymbolSet builds a set from the given tickers, keeping first-seen order.
func NewSymbolSet(symbols []string) *SymbolSet {
	s := &SymbolSet{index: make(map[string]struct{}, len(symbols))}
	for _, sym := range symbols {
		if _, dup := s.index[sym]; dup || sym == "" {
			continue
		}
		s.index[sym] = struct{}{}
		s.list = append(s.list, sym)
	}
	return s
}

// Contains reports whether sym is selectable.
func (s *SymbolSet) Contains(sym string) bool {
	_, ok := s.index[sym]
	return ok
}

// Validate returns ErrUnknownSymbol wrapped with the offending ticker.
func (s *SymbolSet) Validate(sym string) error {
	if !s.Contains(sym) {
		return fmt.Errorf("%w: %q", ErrUnknownSymbol, sym)
	}
	return nil
}

// List returns a copy of the tickers in display order.
func (s *SymbolSet) List() []string {
	out := make([]string, len(s.list))
	copy(out, s.list)
	return out
}

func (s *SymbolSet) Len() int { return len(s.list) }
