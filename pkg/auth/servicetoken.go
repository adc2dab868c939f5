package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// ServiceTokenConfig configures a ServiceToken provider.
type ServiceTokenConfig struct {
	// Secret is the shared HMAC signing secret agreed with the gateway.
	Secret []byte

	// Issuer is placed in the iss claim (e.g. the calling service name).
	Issuer string

	// Subject is placed in the sub claim (e.g. a tenant or user id).
	Subject string

	// Audience is placed in the aud claim. If empty, aud is omitted.
	Audience string

	// TTL is the token lifetime. Default: 5 minutes.
	TTL time.Duration
}

// applyDefaults fills in zero-value fields with sensible defaults.
func (c *ServiceTokenConfig) applyDefaults() {
	if c.TTL == 0 {
		c.TTL = 5 * time.Minute
	}
}

// ServiceToken mints short-lived HS256-signed JWTs for gateways that
// authenticate SDK clients by service token rather than static API key.
// Minted tokens are cached and re-minted when 80% of the TTL has elapsed,
// so a chatty client does not sign on every request.
type ServiceToken struct {
	config ServiceTokenConfig

	mu          sync.Mutex
	cachedToken string
	refreshAt   time.Time
	nowFunc     func() time.Time // for testing; defaults to time.Now
}

// NewServiceToken creates a ServiceToken provider with the given configuration.
func NewServiceToken(cfg ServiceTokenConfig) (*ServiceToken, error) {
	if len(cfg.Secret) == 0 {
		return nil, fmt.Errorf("service token: signing secret is required")
	}
	cfg.applyDefaults()
	return &ServiceToken{
		config:  cfg,
		nowFunc: time.Now,
	}, nil
}

// Token returns a signed JWT, minting a fresh one when the cached token
// is near expiry.
func (s *ServiceToken) Token(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowFunc()
	if s.cachedToken != "" && now.Before(s.refreshAt) {
		return s.cachedToken, nil
	}

	claims := jwtlib.RegisteredClaims{
		Issuer:    s.config.Issuer,
		Subject:   s.config.Subject,
		IssuedAt:  jwtlib.NewNumericDate(now),
		NotBefore: jwtlib.NewNumericDate(now),
		ExpiresAt: jwtlib.NewNumericDate(now.Add(s.config.TTL)),
	}
	if s.config.Audience != "" {
		claims.Audience = jwtlib.ClaimStrings{s.config.Audience}
	}

	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(s.config.Secret)
	if err != nil {
		return "", fmt.Errorf("signing service token: %w", err)
	}

	s.cachedToken = token
	s.refreshAt = now.Add(time.Duration(float64(s.config.TTL) * 0.8))
	return token, nil
}
