// Package validation provides validation functions for settings that end up in
// Linode API calls or outgoing mail. Label rules follow Linode's firewall rule label
// constraints: alphanumerics, hyphens, underscores and periods, at most 32 characters.
package validation

import (
	"fmt"
	"net/mail"
	"net/url"
	"strconv"
)

// maxRuleLabelLength is the longest label Linode accepts on a firewall rule.
const maxRuleLabelLength = 32

// isAlpha returns true if the byte is an ASCII letter.
func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// isNum returns true if the byte is an ASCII digit.
func isNum(b byte) bool {
	return b >= '0' && b <= '9'
}

// isAlphaNum returns true if the byte is an ASCII letter or digit.
func isAlphaNum(b byte) bool {
	return isAlpha(b) || isNum(b)
}

// ValidateLabelPrefix validates the prefix that marks managed rules.
// Managed labels look like "{prefix}-name", so the prefix leaves room for the
// separator and at least one more character.
func ValidateLabelPrefix(prefix string) error {
	if prefix == "" {
		return fmt.Errorf("label prefix must not be empty")
	}
	if len(prefix) > maxRuleLabelLength-2 {
		return fmt.Errorf("label prefix must be at most %d characters", maxRuleLabelLength-2)
	}
	if !isAlphaNum(prefix[0]) {
		return fmt.Errorf("label prefix must start with a letter or number")
	}
	for _, b := range []byte(prefix) {
		if !isAlphaNum(b) && b != '-' && b != '_' && b != '.' {
			return fmt.Errorf("label prefix can only contain letters, numbers, hyphens, underscores, or periods")
		}
	}
	return nil
}

// ValidateFirewallID validates a Linode firewall id.
func ValidateFirewallID(id string) error {
	n, err := strconv.Atoi(id)
	if err != nil {
		return fmt.Errorf("firewall id must be numeric")
	}
	if n <= 0 {
		return fmt.Errorf("firewall id must be positive")
	}
	return nil
}

// ValidateEmail validates a bare email address.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email must not be empty")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return fmt.Errorf("email is not a valid address")
	}
	if addr.Address != email {
		return fmt.Errorf("email must be a bare address without a display name")
	}
	return nil
}

// ValidateURL validates an absolute http(s) URL.
func ValidateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("url is not valid")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url must use http or https")
	}
	if u.Host == "" {
		return fmt.Errorf("url must have a host")
	}
	return nil
}
