package papertrade

import "time"

// NetWorthSnapshot is one point of the account's total-value history:
// cash plus aggregate asset value across the whole tree at that instant.
// The history is append-only, one entry per mutating operation. It grows by
// event count, not by time interval, and is never deduplicated.
type NetWorthSnapshot struct {
	Date  time.Time
	Value Money
}

// MarshalJSON implements the json.Marshaler interface for NetWorthSnapshot.
func (n NetWorthSnapshot) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("date", n.Date.UTC().Format(time.RFC3339Nano))
	w.Append("value", n.Value.value)
	return w.MarshalJSON()
}

// migrate applies best-effort fixes to a loaded snapshot: an account
// persisted before the net-worth recorder existed gets a single-point
// history synthesized from current cash and assets, and a missing secondary
// rate defaults to parity.
func (s *State) migrate(at time.Time) *State {
	next := s.clone()
	if len(next.NetWorthHistory) == 0 {
		next = next.recordNetWorth(at)
	}
	if next.SecondaryRate.IsZero() {
		next.SecondaryRate = oneDec
	}
	return next
}
