package report

import (
	"strings"

	"github.com/newthinker/traderstats/internal/core"
)

// Scope selects the trades a report covers: everything, or one month.
type Scope struct {
	month  core.Month
	single bool
}

// AllTime covers every trade in the store.
func AllTime() Scope {
	return Scope{}
}

// SingleMonth covers trades dated in m.
func SingleMonth(m core.Month) Scope {
	return Scope{month: m, single: true}
}

// ParseScope accepts "all" (or empty) and "YYYY-MM".
func ParseScope(s string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all", "all-time", "all time":
		return AllTime(), nil
	}
	m, err := core.ParseMonth(strings.TrimSpace(s))
	if err != nil {
		return Scope{}, core.WrapError(core.ErrInvalidScope, err)
	}
	return SingleMonth(m), nil
}

// IsAllTime reports whether the scope covers every trade.
func (s Scope) IsAllTime() bool {
	return !s.single
}

// Month returns the selected month for single-month scopes.
func (s Scope) Month() (core.Month, bool) {
	return s.month, s.single
}

// Label renders the scope for headers: "All time" or "March 2024".
func (s Scope) Label() string {
	if !s.single {
		return "All time"
	}
	return s.month.Label()
}

func (s Scope) String() string {
	if !s.single {
		return "all"
	}
	return s.month.String()
}

// MarshalText encodes the scope in ParseScope's format.
func (s Scope) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
