package domain

// Firewall is a transient copy of a provider-owned firewall, fetched once per pass.
type Firewall struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Rules RuleSet `json:"rules"`
}

// RuleSet is the complete rule set of a firewall.
// Updates replace it as a whole, so untouched rules and policies must be resubmitted verbatim.
type RuleSet struct {
	Inbound        []Rule `json:"inbound"`
	InboundPolicy  string `json:"inbound_policy,omitempty"`
	Outbound       []Rule `json:"outbound"`
	OutboundPolicy string `json:"outbound_policy,omitempty"`
}

// Rule is a single firewall rule. Protocol and ports are opaque and passed through.
type Rule struct {
	Action      string    `json:"action,omitempty"`
	Label       string    `json:"label"`
	Description string    `json:"description,omitempty"`
	Ports       string    `json:"ports,omitempty"`
	Protocol    string    `json:"protocol,omitempty"`
	Addresses   Addresses `json:"addresses"`
}

// Addresses holds the CIDR address specifications of a rule.
type Addresses struct {
	IPv4 []string `json:"ipv4,omitempty"`
	IPv6 []string `json:"ipv6,omitempty"`
}

// Clone returns a deep copy of the rule set.
func (rs RuleSet) Clone() RuleSet {
	out := rs
	out.Inbound = cloneRules(rs.Inbound)
	out.Outbound = cloneRules(rs.Outbound)
	return out
}

func cloneRules(rules []Rule) []Rule {
	if rules == nil {
		return nil
	}
	out := make([]Rule, len(rules))
	for i, r := range rules {
		out[i] = r
		if r.Addresses.IPv4 != nil {
			out[i].Addresses.IPv4 = append([]string(nil), r.Addresses.IPv4...)
		}
		if r.Addresses.IPv6 != nil {
			out[i].Addresses.IPv6 = append([]string(nil), r.Addresses.IPv6...)
		}
	}
	return out
}
