package ipify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/netip"

	"github.com/bcnelson/linode-firewall-autoupdater/internal/domain"
)

// DefaultURL is the public ipify endpoint returning the caller's IPv4 address as JSON.
const DefaultURL = "https://api.ipify.org?format=json"

// AddressResolver resolves the current public address of this host.
type AddressResolver interface {
	Resolve(ctx context.Context) (netip.Addr, error)
}

// Resolver queries an IP-echo service that answers {"ip": "<literal>"}.
type Resolver struct {
	url    string
	client *http.Client
}

// Ensure Resolver implements AddressResolver.
var _ AddressResolver = (*Resolver)(nil)

// New creates a new Resolver. An empty url selects DefaultURL and a nil client
// selects http.DefaultClient.
func New(url string, client *http.Client) *Resolver {
	if url == "" {
		url = DefaultURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Resolver{url: url, client: client}
}

type lookupResponse struct {
	IP string `json:"ip"`
}

// Resolve returns the observed public address.
// Every failure wraps domain.ErrUpstreamUnavailable; non-success statuses are
// returned as *domain.StatusError.
func (r *Resolver) Resolve(ctx context.Context) (netip.Addr, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("%w: building request: %w", domain.ErrUpstreamUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("%w: %w", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return netip.Addr{}, &domain.StatusError{
			Op:         domain.ErrUpstreamUnavailable,
			StatusCode: resp.StatusCode,
		}
	}

	var body lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return netip.Addr{}, fmt.Errorf("%w: %w: decoding response: %w", domain.ErrUpstreamUnavailable, domain.ErrInvalidAddress, err)
	}

	addr, err := netip.ParseAddr(body.IP)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("%w: %w: %q", domain.ErrUpstreamUnavailable, domain.ErrInvalidAddress, body.IP)
	}
	if addr.Zone() != "" {
		return netip.Addr{}, fmt.Errorf("%w: %w: zoned address %q", domain.ErrUpstreamUnavailable, domain.ErrInvalidAddress, body.IP)
	}

	return addr.Unmap(), nil
}
