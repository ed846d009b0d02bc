package auth

import (
	"errors"
	"strings"

	"github.com/dmitrijs2005/gophtasks/internal/common"
)

var (
	ErrMissingAuthorization = errors.New("missing authorization header")
	ErrBadAuthorization     = errors.New("bad auth header")
)

// BearerToken extracts the token from a "Bearer <token>" authorization value.
// The scheme is matched case-insensitively.
func BearerToken(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", ErrMissingAuthorization
	}

	prefix := common.BearerPrefix
	if len(value) <= len(prefix) || !strings.EqualFold(value[:len(prefix)], prefix) {
		return "", ErrBadAuthorization
	}

	token := strings.TrimSpace(value[len(prefix):])
	if token == "" {
		return "", ErrBadAuthorization
	}
	return token, nil
}
