package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bcnelson/linode-firewall-autoupdater/internal/api"
	"github.com/bcnelson/linode-firewall-autoupdater/internal/domain"
)

// staticPasses is a PassSource returning a fixed result.
type staticPasses struct {
	last *domain.PassResult
}

func (s *staticPasses) LastPass() *domain.PassResult {
	return s.last
}

func request(h http.Handler, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHealthEndpoint(t *testing.T) {
	h := api.NewRouter(&staticPasses{})

	rr := request(h, "GET", "/health")

	if rr.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rr.Code)
	}

	var resp map[string]string
	_ = json.Unmarshal(rr.Body.Bytes(), &resp)
	if resp["status"] != "ok" {
		t.Errorf("Expected status ok, got %s", resp["status"])
	}
}

func TestStatusBeforeFirstPass(t *testing.T) {
	h := api.NewRouter(&staticPasses{})

	rr := request(h, "GET", "/api/v1/status")

	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected JSON content type, got %q", ct)
	}

	var apiErr domain.APIError
	if err := json.Unmarshal(rr.Body.Bytes(), &apiErr); err != nil {
		t.Fatalf("Failed to decode error: %v", err)
	}
	if apiErr.Code != http.StatusNotFound || apiErr.Message != "no pass has run yet" {
		t.Errorf("Unexpected error body: %+v", apiErr)
	}
}

func TestStatusReturnsLastPass(t *testing.T) {
	started := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	last := &domain.PassResult{
		ID:              "pass-1",
		StartedAt:       started,
		FinishedAt:      started.Add(2 * time.Second),
		ObservedAddress: "5.6.7.8",
		Firewalls: []domain.FirewallResult{
			{
				FirewallID:   "1",
				FirewallName: "office",
				Change:       &domain.Change{FirewallID: "1", FirewallName: "office", PreviousAddress: "1.2.3.4", NewAddress: "5.6.7.8"},
				UpdatedRules: 1,
			},
			{
				FirewallID: "2",
				Err:        &domain.StatusError{Op: domain.ErrFetchFailed, StatusCode: 403},
			},
		},
		Changes:  domain.ChangeSet{{FirewallID: "1", FirewallName: "office", PreviousAddress: "1.2.3.4", NewAddress: "5.6.7.8"}},
		Notified: true,
	}
	h := api.NewRouter(&staticPasses{last: last})

	rr := request(h, "GET", "/api/v1/status")

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		ID              string `json:"id"`
		ObservedAddress string `json:"observed_address"`
		Notified        bool   `json:"notified"`
		Firewalls       []struct {
			FirewallID string `json:"firewall_id"`
			Error      string `json:"error"`
		} `json:"firewalls"`
		Changes []domain.Change `json:"changes"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode status: %v", err)
	}
	if resp.ID != "pass-1" || resp.ObservedAddress != "5.6.7.8" || !resp.Notified {
		t.Errorf("Unexpected status: %+v", resp)
	}
	if len(resp.Firewalls) != 2 || resp.Firewalls[1].Error != "fetching firewall failed: status 403" {
		t.Errorf("Expected firewall error to be reported, got %+v", resp.Firewalls)
	}
	if len(resp.Changes) != 1 || resp.Changes[0].PreviousAddress != "1.2.3.4" {
		t.Errorf("Unexpected changes: %+v", resp.Changes)
	}
}

func TestUnknownRoute(t *testing.T) {
	h := api.NewRouter(&staticPasses{})

	rr := request(h, "GET", "/api/v1/stacks")

	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rr.Code)
	}
}
