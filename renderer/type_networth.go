package renderer

import (
	"github.com/papertrade/papertrade"
)

// NetWorthReport is the view model for the net-worth history report.
type NetWorthReport struct {
	Currency string        `json:"currency"`
	First    string        `json:"first,omitempty"`
	Last     string        `json:"last,omitempty"`
	Rows     []NetWorthRow `json:"rows"`
}

// NetWorthRow is one history sample with its change from the previous one.
type NetWorthRow struct {
	Date   string           `json:"date"`
	Value  papertrade.Money `json:"value"`
	Change string           `json:"change,omitempty"`
}

// NewNetWorthReport formats the recorded history, newest last.
func NewNetWorthReport(s *papertrade.State) *NetWorthReport {
	r := &NetWorthReport{
		Currency: s.Currency(),
		Rows:     make([]NetWorthRow, 0, len(s.NetWorthHistory)),
	}
	for i, snap := range s.NetWorthHistory {
		row := NetWorthRow{
			Date:  snap.Date.Format("2006-01-02 15:04"),
			Value: snap.Value,
		}
		if i > 0 {
			row.Change = snap.Value.Sub(s.NetWorthHistory[i-1].Value).SignedString()
		}
		r.Rows = append(r.Rows, row)
	}
	if len(r.Rows) > 0 {
		r.First = r.Rows[0].Date
		r.Last = r.Rows[len(r.Rows)-1].Date
	}
	return r
}
