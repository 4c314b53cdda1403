package validation

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateLabelPrefix(t *testing.T) {
	tests := []struct {
		name    string
		prefix  string
		wantErr bool
	}{
		{"simple", "myhost", false},
		{"with hyphen", "my-host", false},
		{"with underscore and period", "my_host.lan", false},
		{"starts with number", "1host", false},
		{"max length", strings.Repeat("a", 30), false},
		{"empty", "", true},
		{"too long", strings.Repeat("a", 31), true},
		{"starts with hyphen", "-host", true},
		{"contains space", "my host", true},
		{"contains slash", "my/host", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLabelPrefix(tt.prefix)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateLabelPrefix(%q) error = %v, wantErr %v", tt.prefix, err, tt.wantErr)
			}
		})
	}
}

func TestValidateFirewallID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"valid", "12345", false},
		{"empty", "", true},
		{"letters", "office", true},
		{"zero", "0", true},
		{"negative", "-4", true},
		{"decimal", "1.5", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFirewallID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFirewallID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"valid", "user@example.com", false},
		{"valid subdomain", "user@mail.example.com", false},
		{"empty", "", true},
		{"missing at", "userexample.com", true},
		{"missing domain", "user@", true},
		{"display name", "User <user@example.com>", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEmail(%q) error = %v, wantErr %v", tt.email, err, tt.wantErr)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"https", "https://proxy.example.com", false},
		{"http with port and path", "http://10.0.0.1:8080/app", false},
		{"no scheme", "proxy.example.com", true},
		{"ftp", "ftp://proxy.example.com", true},
		{"no host", "https://", true},
		{"javascript", "javascript:alert(1)", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestValidationErrors(t *testing.T) {
	var errs ValidationErrors
	if errs.Err() != nil {
		t.Error("Expected nil error for empty collection")
	}

	errs.Check("TO_EMAIL", "", nil)
	errs.Check("LINODE_FIREWALL_IDS", "office", ValidateFirewallID("office"))
	errs.Check("PROXY_URL", "", errors.New("url must have a host"))

	if len(errs) != 2 {
		t.Fatalf("Expected 2 errors, got %d", len(errs))
	}
	want := `LINODE_FIREWALL_IDS: firewall id must be numeric (got "office"); PROXY_URL: url must have a host`
	if errs.Err().Error() != want {
		t.Errorf("Expected %q, got %q", want, errs.Err().Error())
	}

	var ve ValidationErrors
	if !errors.As(errs.Err(), &ve) || len(ve) != 2 {
		t.Error("Expected errors.As to recover the collection")
	}
}
