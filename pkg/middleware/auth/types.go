package auth

import "strings"

// Credentials is an immutable set of pre-encoded "Basic <base64>" header values.
// An empty set means no authentication is enforced.
type Credentials struct {
	encoded map[string]struct{}
}

// User is the identity carried by an accepted Authorization header.
type User struct {
	Username string `json:"username"`
}

// ParseCredentials builds a set from a comma-separated list of user:password pairs.
func ParseCredentials(csv string) Credentials {
	c := Credentials{}
	for _, part := range strings.Split(csv, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if c.encoded == nil {
			c.encoded = make(map[string]struct{})
		}
		c.encoded[Header(part)] = struct{}{}
	}
	return c
}

func (c Credentials) Empty() bool { return len(c.encoded) == 0 }

func (c Credentials) Len() int { return len(c.encoded) }

// Authorized reports whether header exactly matches one of the encoded values.
func (c Credentials) Authorized(header string) bool {
	if c.Empty() {
		return true
	}
	_, ok := c.encoded[header]
	return ok
}
