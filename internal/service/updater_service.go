package service

import (
	"context"
	"sync"
	"time"

	"github.com/bcnelson/linode-firewall-autoupdater/internal/domain"
	"github.com/bcnelson/linode-firewall-autoupdater/internal/ipify"
	"github.com/bcnelson/linode-firewall-autoupdater/internal/linode"
	"github.com/bcnelson/linode-firewall-autoupdater/internal/notify"
	"github.com/bcnelson/linode-firewall-autoupdater/internal/reconciler"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Options holds the immutable settings of the updater service.
type Options struct {
	FirewallIDs []string
	LabelName   string
	// NotifyOnLookupError sends the error notification when the address lookup
	// fails with a status code.
	NotifyOnLookupError bool
}

// UpdaterService runs reconciliation passes.
type UpdaterService struct {
	resolver   ipify.AddressResolver
	reconciler *reconciler.Reconciler
	notifier   notify.Notifier
	opts       Options

	mu   sync.RWMutex
	last *domain.PassResult
}

// NewUpdaterService creates a new UpdaterService.
func NewUpdaterService(resolver ipify.AddressResolver, client linode.FirewallClient, notifier notify.Notifier, opts Options) *UpdaterService {
	opts.FirewallIDs = append([]string(nil), opts.FirewallIDs...)
	return &UpdaterService{
		resolver:   resolver,
		reconciler: reconciler.New(client),
		notifier:   notifier,
		opts:       opts,
	}
}

// RunPass performs one complete pass: resolve the public address, reconcile every
// firewall and send a notification when anything changed. It always returns a result;
// failures are logged and recorded in it.
func (s *UpdaterService) RunPass(ctx context.Context) *domain.PassResult {
	result := &domain.PassResult{
		ID:        uuid.New().String(),
		StartedAt: time.Now(),
		Firewalls: []domain.FirewallResult{},
		Changes:   domain.ChangeSet{},
	}
	logger := zerolog.Ctx(ctx).With().Str("pass_id", result.ID).Logger()
	ctx = logger.WithContext(ctx)

	defer func() {
		result.FinishedAt = time.Now()
		s.mu.Lock()
		s.last = result
		s.mu.Unlock()
	}()

	logger.Info().Msg("Running job...")

	observed, err := s.resolver.Resolve(ctx)
	if err != nil {
		result.Error = err.Error()
		event := logger.Error().Err(err)
		code, hasCode := domain.StatusCode(err)
		if hasCode {
			event = event.Int("status", code)
		}
		event.Msg("Public IP lookup has failed, skipping this run")

		if hasCode && s.opts.NotifyOnLookupError {
			if err := s.notifier.NotifyError(ctx, code); err != nil {
				logger.Error().Err(err).Msg("Sending error email has failed")
			}
		}
		return result
	}
	result.ObservedAddress = observed.String()
	logger.Debug().Str("ip", result.ObservedAddress).Msg("Resolved public IP")

	result.Firewalls = s.reconciler.ReconcileAll(ctx, s.opts.FirewallIDs, s.opts.LabelName, observed)
	result.Changes = reconciler.ChangeSetFrom(result.Firewalls)

	if len(result.Changes) == 0 {
		logger.Info().Msg("Job finished. No update.")
		return result
	}

	logger.Info().Msg("Sending email...")
	if err := s.notifier.NotifyChanges(ctx, result.Changes); err != nil {
		logger.Error().Err(err).Msg("Sending email has failed")
	} else {
		result.Notified = true
	}

	logger.Info().Int("firewalls", len(result.Changes)).Msgf("Job finished. Updated %d firewalls.", len(result.Changes))
	return result
}

// LastPass returns the result of the most recent pass, or nil before the first one.
func (s *UpdaterService) LastPass() *domain.PassResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}
