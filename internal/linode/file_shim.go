package linode

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bcnelson/linode-firewall-autoupdater/internal/domain"
	"github.com/rs/zerolog"
)

// FileShim is a testing implementation that keeps firewalls in a local JSON file.
// The file maps firewall ids to {"label": ..., "rules": {...}}.
type FileShim struct {
	filePath string
	mu       sync.Mutex
}

// Ensure FileShim implements FirewallClient.
var _ FirewallClient = (*FileShim)(nil)

type shimFirewall struct {
	Label string         `json:"label"`
	Rules domain.RuleSet `json:"rules"`
}

// NewFileShim creates a new file-based shim for testing.
func NewFileShim(filePath string) *FileShim {
	return &FileShim{filePath: filePath}
}

// GetFirewall reads a firewall from the file.
func (f *FileShim) GetFirewall(ctx context.Context, id string) (*domain.Firewall, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	firewalls, err := f.load()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFetchFailed, err)
	}
	fw, ok := firewalls[id]
	if !ok {
		return nil, fmt.Errorf("%w: firewall %s: %w", domain.ErrFetchFailed, id, domain.ErrNotFound)
	}

	return &domain.Firewall{ID: id, Label: fw.Label, Rules: fw.Rules}, nil
}

// UpdateFirewallRules replaces the rule set of a firewall in the file.
func (f *FileShim) UpdateFirewallRules(ctx context.Context, id string, rules domain.RuleSet) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	firewalls, err := f.load()
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrUpdateFailed, err)
	}
	fw, ok := firewalls[id]
	if !ok {
		return fmt.Errorf("%w: firewall %s: %w", domain.ErrUpdateFailed, id, domain.ErrNotFound)
	}
	fw.Rules = rules
	firewalls[id] = fw

	// Marshal with indentation for readability
	data, err := json.MarshalIndent(firewalls, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshaling firewalls: %w", domain.ErrUpdateFailed, err)
	}
	if err := writeFileAtomic(f.filePath, data); err != nil {
		return fmt.Errorf("%w: writing firewall file: %w", domain.ErrUpdateFailed, err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("firewall_id", id).
		Str("path", f.filePath).
		Msg("[FileShim] firewall rules written")

	return nil
}

func (f *FileShim) load() (map[string]shimFirewall, error) {
	data, err := os.ReadFile(f.filePath)
	if err != nil {
		return nil, fmt.Errorf("reading firewall file: %w", err)
	}

	var firewalls map[string]shimFirewall
	if err := json.Unmarshal(data, &firewalls); err != nil {
		return nil, fmt.Errorf("parsing firewall file: %w", err)
	}
	if firewalls == nil {
		firewalls = map[string]shimFirewall{}
	}
	return firewalls, nil
}

// writeFileAtomic writes data next to path and renames it into place.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-"+filepath.Base(path))
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
