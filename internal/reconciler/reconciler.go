// Package reconciler moves managed firewall rules to the observed public address.
package reconciler

import (
	"context"
	"errors"
	"net/netip"

	"github.com/bcnelson/linode-firewall-autoupdater/internal/domain"
	"github.com/bcnelson/linode-firewall-autoupdater/internal/linode"
	"github.com/bcnelson/linode-firewall-autoupdater/internal/matcher"
	"github.com/rs/zerolog"
)

// Reconciler reconciles firewalls one at a time.
type Reconciler struct {
	client linode.FirewallClient
}

// New creates a new Reconciler.
func New(client linode.FirewallClient) *Reconciler {
	return &Reconciler{client: client}
}

// Reconcile processes the firewalls in order and returns only the changes it recorded.
// Callers that also need per-firewall outcomes use ReconcileAll and ChangeSetFrom.
func (r *Reconciler) Reconcile(ctx context.Context, firewallIDs []string, prefix string, observed netip.Addr) domain.ChangeSet {
	return ChangeSetFrom(r.ReconcileAll(ctx, firewallIDs, prefix, observed))
}

// ReconcileAll processes the firewalls in order and returns one result per distinct firewall.
// Repeated ids are processed once. Firewall failures are logged and reported in the result;
// they never stop the loop.
func (r *Reconciler) ReconcileAll(ctx context.Context, firewallIDs []string, prefix string, observed netip.Addr) []domain.FirewallResult {
	results := make([]domain.FirewallResult, 0, len(firewallIDs))
	seen := make(map[string]struct{}, len(firewallIDs))
	for _, id := range firewallIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		results = append(results, r.ReconcileFirewall(ctx, id, prefix, observed))
	}
	return results
}

// ReconcileFirewall fetches one firewall, rewrites the first address of every drifted
// managed rule to the observed host prefix and submits the full rule set.
//
// A Change is recorded from the first drifted rule before the update is submitted and is
// kept even when the submission fails.
func (r *Reconciler) ReconcileFirewall(ctx context.Context, id, prefix string, observed netip.Addr) domain.FirewallResult {
	logger := zerolog.Ctx(ctx).With().Str("firewall_id", id).Logger()
	result := domain.FirewallResult{FirewallID: id}

	fw, err := r.client.GetFirewall(ctx, id)
	if err != nil {
		logFailure(&logger, "get firewall rules", err)
		result.Err = err
		return result
	}
	result.FirewallName = fw.Label

	rules := fw.Rules.Clone()
	target := matcher.HostPrefix(observed)
	for _, m := range matcher.Match(rules.Inbound, prefix, observed) {
		if !m.Drifted {
			continue
		}
		if result.Change == nil {
			result.Change = &domain.Change{
				FirewallID:      id,
				FirewallName:    fw.Label,
				PreviousAddress: m.Previous,
				NewAddress:      observed.String(),
			}
		}

		list := matcher.AddressList(&rules.Inbound[m.Index], observed)
		(*list)[0] = target
		result.UpdatedRules++

		logger.Info().
			Str("firewall", fw.Label).
			Str("rule", m.Rule.Label).
			Str("from", m.Previous).
			Str("to", observed.String()).
			Msg("Updating firewall rule address")
	}

	if result.UpdatedRules == 0 {
		logger.Debug().Str("firewall", fw.Label).Msg("Firewall is up to date")
		return result
	}

	if err := r.client.UpdateFirewallRules(ctx, id, rules); err != nil {
		logFailure(&logger, "update firewall rules", err)
		result.Err = err
		return result
	}

	logger.Info().Str("firewall", fw.Label).Int("rules", result.UpdatedRules).Msg("Firewall has been updated")
	return result
}

// ChangeSetFrom collects the recorded changes in firewall processing order, keeping the
// first change of each firewall.
func ChangeSetFrom(results []domain.FirewallResult) domain.ChangeSet {
	changes := domain.ChangeSet{}
	seen := make(map[string]struct{}, len(results))
	for _, res := range results {
		if res.Change == nil {
			continue
		}
		if _, ok := seen[res.Change.FirewallID]; ok {
			continue
		}
		seen[res.Change.FirewallID] = struct{}{}
		changes = append(changes, *res.Change)
	}
	return changes
}

func logFailure(logger *zerolog.Logger, op string, err error) {
	event := logger.Error().Err(err).Str("op", op)
	if code, ok := domain.StatusCode(err); ok {
		event = event.Int("status", code)
	}
	switch {
	case errors.Is(err, domain.ErrAuth):
		event.Msgf("api.linode.com (%s) has an authentication issue", op)
	case errors.Is(err, domain.ErrServer):
		event.Msgf("api.linode.com (%s) has failed due to a server side issue", op)
	default:
		event.Msgf("api.linode.com (%s) has failed", op)
	}
}
