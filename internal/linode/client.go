package linode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/bcnelson/linode-firewall-autoupdater/internal/domain"
	"github.com/linode/linodego"
	"golang.org/x/oauth2"
)

// FirewallClient defines the interface for interacting with provider firewalls.
type FirewallClient interface {
	GetFirewall(ctx context.Context, id string) (*domain.Firewall, error)
	UpdateFirewallRules(ctx context.Context, id string, rules domain.RuleSet) error
}

// Client wraps the Linode API client.
type Client struct {
	client *linodego.Client
}

// Ensure Client implements FirewallClient.
var _ FirewallClient = (*Client)(nil)

// New creates a new Linode client authenticating with a personal access token.
// An empty baseURL keeps the linodego default API host.
func New(token, baseURL string) *Client {
	tokenSource := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{Source: tokenSource},
	}

	client := linodego.NewClient(httpClient)
	// Failures are superseded by the next scheduled pass, never retried in-pass.
	client.SetRetryCount(0)
	if baseURL != "" {
		client.SetBaseURL(baseURL)
	}
	return &Client{client: &client}
}

// GetFirewall gets a firewall and its complete rule set.
func (c *Client) GetFirewall(ctx context.Context, id string) (*domain.Firewall, error) {
	firewallID, err := parseID(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFetchFailed, err)
	}

	fw, err := c.client.GetFirewall(ctx, firewallID)
	if err != nil {
		return nil, wrapError(domain.ErrFetchFailed, err)
	}

	// Convert from linodego types to our domain types
	var rules domain.RuleSet
	rulesJSON, err := json.Marshal(fw.Rules)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFetchFailed, err)
	}
	if err := json.Unmarshal(rulesJSON, &rules); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFetchFailed, err)
	}

	return &domain.Firewall{
		ID:    strconv.Itoa(fw.ID),
		Label: fw.Label,
		Rules: rules,
	}, nil
}

// UpdateFirewallRules replaces the complete rule set of a firewall.
func (c *Client) UpdateFirewallRules(ctx context.Context, id string, rules domain.RuleSet) error {
	firewallID, err := parseID(id)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrUpdateFailed, err)
	}

	// Convert our domain types to linodego types
	rulesJSON, err := json.Marshal(rules)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrUpdateFailed, err)
	}
	var ruleSet linodego.FirewallRuleSet
	if err := json.Unmarshal(rulesJSON, &ruleSet); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrUpdateFailed, err)
	}

	if _, err := c.client.UpdateFirewallRules(ctx, firewallID, ruleSet); err != nil {
		return wrapError(domain.ErrUpdateFailed, err)
	}
	return nil
}

func parseID(id string) (int, error) {
	n, err := strconv.Atoi(id)
	if err != nil {
		return 0, fmt.Errorf("invalid firewall id %q", id)
	}
	return n, nil
}

// wrapError converts linodego API errors into status errors for op.
func wrapError(op error, err error) error {
	var apiErr *linodego.Error
	if errors.As(err, &apiErr) && apiErr.Code > 0 {
		return &domain.StatusError{Op: op, StatusCode: apiErr.Code, Err: errors.New(apiErr.Message)}
	}
	var apiErrValue linodego.Error
	if errors.As(err, &apiErrValue) && apiErrValue.Code > 0 {
		return &domain.StatusError{Op: op, StatusCode: apiErrValue.Code, Err: errors.New(apiErrValue.Message)}
	}
	return fmt.Errorf("%w: %w", op, err)
}
