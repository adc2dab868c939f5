package auth

import (
	"context"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

func TestServiceTokenMintsValidJWT(t *testing.T) {
	secret := []byte("shared-hmac-secret")
	provider, err := NewServiceToken(ServiceTokenConfig{
		Secret:   secret,
		Issuer:   "billing-worker",
		Subject:  "tenant-42",
		Audience: "llm-gateway",
		TTL:      10 * time.Minute,
	})
	if err != nil {
		t.Fatalf("NewServiceToken: %v", err)
	}

	tokenString, err := provider.Token(context.Background())
	if err != nil {
		t.Fatalf("Token: %v", err)
	}

	parsed, err := jwtlib.ParseWithClaims(tokenString, &jwtlib.RegisteredClaims{}, func(tok *jwtlib.Token) (any, error) {
		return secret, nil
	}, jwtlib.WithValidMethods([]string{"HS256"}))
	if err != nil {
		t.Fatalf("parsing minted token: %v", err)
	}

	claims := parsed.Claims.(*jwtlib.RegisteredClaims)
	if claims.Issuer != "billing-worker" {
		t.Errorf("iss = %q, want billing-worker", claims.Issuer)
	}
	if claims.Subject != "tenant-42" {
		t.Errorf("sub = %q, want tenant-42", claims.Subject)
	}
	if len(claims.Audience) != 1 || claims.Audience[0] != "llm-gateway" {
		t.Errorf("aud = %v, want [llm-gateway]", claims.Audience)
	}
	if claims.ExpiresAt == nil {
		t.Fatal("exp claim missing")
	}
	ttl := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	if ttl != 10*time.Minute {
		t.Errorf("token TTL = %v, want 10m", ttl)
	}
}

func TestServiceTokenCachesUntilNearExpiry(t *testing.T) {
	provider, err := NewServiceToken(ServiceTokenConfig{
		Secret:  []byte("secret"),
		Issuer:  "svc",
		Subject: "sub",
		TTL:     100 * time.Second,
	})
	if err != nil {
		t.Fatalf("NewServiceToken: %v", err)
	}

	base := time.Now().Truncate(time.Second)
	provider.nowFunc = func() time.Time { return base }

	tok1, err := provider.Token(context.Background())
	if err != nil {
		t.Fatalf("Token: %v", err)
	}

	// Inside the refresh window: same token.
	provider.nowFunc = func() time.Time { return base.Add(30 * time.Second) }
	tok2, _ := provider.Token(context.Background())
	if tok2 != tok1 {
		t.Error("expected cached token inside refresh window")
	}

	// Past 80% of TTL: a fresh token is minted with new timestamps.
	provider.nowFunc = func() time.Time { return base.Add(90 * time.Second) }
	tok3, err := provider.Token(context.Background())
	if err != nil {
		t.Fatalf("Token after refresh window: %v", err)
	}
	if tok3 == tok1 {
		t.Error("expected re-minted token past refresh window")
	}
}

func TestServiceTokenRequiresSecret(t *testing.T) {
	if _, err := NewServiceToken(ServiceTokenConfig{Issuer: "svc"}); err == nil {
		t.Error("expected error for missing secret")
	}
}
