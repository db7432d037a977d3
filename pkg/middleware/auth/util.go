package auth

import (
	"encoding/base64"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

const basicPrefix = "Basic "

// EncodeCredential base64-encodes a user:password pair using ISO-8859-1 bytes,
// the charset browsers use for Basic credentials. Runes outside Latin-1 are
// sent as UTF-8.
func EncodeCredential(credential string) string {
	if credential == "" {
		return ""
	}
	raw, err := charmap.ISO8859_1.NewEncoder().String(credential)
	if err != nil {
		raw = credential
	}
	return base64.StdEncoding.EncodeToString([]byte(raw))
}

// Header returns the Authorization header value for a user:password pair.
func Header(credential string) string {
	return basicPrefix + EncodeCredential(credential)
}

// userFromHeader extracts the username from a Basic header without validating it.
func userFromHeader(header string) (string, bool) {
	if !strings.HasPrefix(header, basicPrefix) {
		return "", false
	}
	b, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(header, basicPrefix))
	if err != nil {
		return "", false
	}
	dec, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		dec = b
	}
	user, _, _ := strings.Cut(string(dec), ":")
	return user, user != ""
}
