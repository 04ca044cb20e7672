package auth

import "strings"

const bearerPrefix = "bearer "

// BearerToken extracts the token from an Authorization header value. The
// "Bearer " prefix is optional and matched case-insensitively.
func BearerToken(header string) (string, error) {
	tok := strings.TrimSpace(header)
	if strings.EqualFold(tok, strings.TrimSpace(bearerPrefix)) {
		return "", ErrMissing
	}
	if len(tok) >= len(bearerPrefix) && strings.EqualFold(tok[:len(bearerPrefix)], bearerPrefix) {
		tok = strings.TrimSpace(tok[len(bearerPrefix):])
	}
	if tok == "" {
		return "", ErrMissing
	}
	return tok, nil
}
