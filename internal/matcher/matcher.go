// Package matcher finds the inbound rules managed by this tool and detects
// which of them no longer point at the observed public address.
package matcher

import (
	"net/netip"
	"strings"

	"github.com/bcnelson/linode-firewall-autoupdater/internal/domain"
)

// Result describes a managed rule.
type Result struct {
	// Index is the position of the rule in the slice passed to Match.
	Index int
	Rule  domain.Rule
	// Drifted is true when the first address no longer equals the observed address.
	Drifted bool
	// Previous is the first address with its prefix length stripped, empty when the rule has none.
	Previous string
}

// IsManaged reports whether a rule label marks the rule as managed for prefix.
// The check is a case-sensitive substring match on "{prefix}-", not a strict prefix match.
func IsManaged(label, prefix string) bool {
	return strings.Contains(label, prefix+"-")
}

// Match returns the managed rules in order, flagging the drifted ones.
// Only the first address of the address list matching the observed family is inspected.
// A managed rule without addresses is never drifted.
func Match(rules []domain.Rule, prefix string, observed netip.Addr) []Result {
	var results []Result
	for i, rule := range rules {
		if !IsManaged(rule.Label, prefix) {
			continue
		}
		res := Result{Index: i, Rule: rule}
		if list := AddressList(&rules[i], observed); len(*list) > 0 {
			res.Previous = StripPrefixLength((*list)[0])
			res.Drifted = !sameAddress(res.Previous, observed)
		}
		results = append(results, res)
	}
	return results
}

// AddressList returns the address list of rule that holds addresses of the observed family.
func AddressList(rule *domain.Rule, observed netip.Addr) *[]string {
	if observed.Is6() && !observed.Is4In6() {
		return &rule.Addresses.IPv6
	}
	return &rule.Addresses.IPv4
}

// HostPrefix returns the single-host CIDR for addr, e.g. "5.6.7.8/32".
func HostPrefix(addr netip.Addr) string {
	return netip.PrefixFrom(addr, addr.BitLen()).String()
}

// StripPrefixLength removes a trailing "/len" from a CIDR string.
func StripPrefixLength(cidr string) string {
	addr, _, _ := strings.Cut(cidr, "/")
	return addr
}

func sameAddress(s string, observed netip.Addr) bool {
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return s == observed.String()
	}
	return addr.Unmap() == observed.Unmap()
}
