package notify

import (
	"html"
	"strings"

	"github.com/bcnelson/linode-firewall-autoupdater/internal/domain"
)

// Aggregate renders the changes of a pass as an HTML unordered list, one item per change
// in pass order. It reports false and an empty string when there is nothing to send.
func Aggregate(changes domain.ChangeSet) (bool, string) {
	if len(changes) == 0 {
		return false, ""
	}

	var b strings.Builder
	b.WriteString("<ul>")
	for _, c := range changes {
		b.WriteString("<li>Firewall ")
		b.WriteString(html.EscapeString(c.FirewallName))
		b.WriteString(" has updated the ip from ")
		b.WriteString(html.EscapeString(c.PreviousAddress))
		b.WriteString(" to ")
		b.WriteString(html.EscapeString(c.NewAddress))
		b.WriteString(".</li>")
	}
	b.WriteString("</ul>")
	return true, b.String()
}
