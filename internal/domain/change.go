package domain

import (
	"encoding/json"
	"time"
)

// Change records that a managed rule on a firewall was moved to the observed address.
// At most one Change exists per firewall per pass.
type Change struct {
	FirewallID      string `json:"firewall_id"`
	FirewallName    string `json:"firewall_name"`
	PreviousAddress string `json:"previous_address"`
	NewAddress      string `json:"new_address"`
}

// ChangeSet is the ordered list of changes of a single pass, in firewall processing order.
type ChangeSet []Change

// FirewallResult is the outcome of reconciling a single firewall.
// A result with Err and no Change was skipped. A result with both recorded a change
// whose update submission failed.
type FirewallResult struct {
	FirewallID   string  `json:"firewall_id"`
	FirewallName string  `json:"firewall_name,omitempty"`
	Change       *Change `json:"change,omitempty"`
	UpdatedRules int     `json:"updated_rules"`
	Err          error   `json:"-"`
}

// Skipped reports whether the firewall could not be reconciled at all.
func (r FirewallResult) Skipped() bool {
	return r.Err != nil && r.Change == nil
}

// MarshalJSON includes the error message, if any.
func (r FirewallResult) MarshalJSON() ([]byte, error) {
	type alias FirewallResult
	out := struct {
		alias
		Error string `json:"error,omitempty"`
	}{alias: alias(r)}
	if r.Err != nil {
		out.Error = r.Err.Error()
	}
	return json.Marshal(out)
}

// PassResult summarizes one reconciliation pass. Only the latest one is kept, in memory.
type PassResult struct {
	ID              string           `json:"id"`
	StartedAt       time.Time        `json:"started_at"`
	FinishedAt      time.Time        `json:"finished_at"`
	ObservedAddress string           `json:"observed_address,omitempty"`
	Firewalls       []FirewallResult `json:"firewalls"`
	Changes         ChangeSet        `json:"changes"`
	Notified        bool             `json:"notified"`
	Error           string           `json:"error,omitempty"`
}
