package apiclient

import "strings"

// Allowlist holds path fragments of endpoints that never carry a bearer
// token and whose 401 responses are ordinary errors, not session expiry.
type Allowlist []string

// DefaultAllowlist covers login and registration.
var DefaultAllowlist = Allowlist{"/auth/login", "/auth/register"}

// Match reports whether path contains any allowlisted fragment.
func (a Allowlist) Match(path string) bool {
	for _, frag := range a {
		if frag != "" && strings.Contains(path, frag) {
			return true
		}
	}
	return false
}
