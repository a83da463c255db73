// Copyright (c) Microsoft. All rights reserved.

package glm

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	at "github.com/microsoft/agent-framework-glm/go/alltools"
)

const defaultTokenTTL = 30 * time.Minute

// tokenSource produces the bearer token for an API key. Keys of the form
// "id.secret" are exchanged for a short-lived HS256 token signed with the
// secret; any other key is sent as-is.
type tokenSource struct {
	apiKey string
	ttl    time.Duration
	now    func() time.Time

	mu      sync.Mutex
	token   string
	expires time.Time
}

func newTokenSource(apiKey string, ttl time.Duration) *tokenSource {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &tokenSource{apiKey: apiKey, ttl: ttl, now: time.Now}
}

// Token returns a cached token, signing a new one when the cached token is
// within a minute of expiring.
func (s *tokenSource) Token() (string, error) {
	id, secret, ok := strings.Cut(s.apiKey, ".")
	if !ok || id == "" || secret == "" {
		return s.apiKey, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.token != "" && now.Add(time.Minute).Before(s.expires) {
		return s.token, nil
	}

	expires := now.Add(s.ttl)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"api_key":   id,
		"exp":       expires.UnixMilli(),
		"timestamp": now.UnixMilli(),
	})
	tok.Header["sign_type"] = "SIGN"

	signed, err := tok.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("%w: sign api token: %w", at.ErrAuth, err)
	}
	s.token = signed
	s.expires = expires
	return signed, nil
}
