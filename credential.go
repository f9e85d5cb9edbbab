package eventhub

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// StaticTokenCredential returns a fixed token. Useful for tests and for
// callers that manage token issuance themselves.
type StaticTokenCredential struct {
	Token     string
	ExpiresOn time.Time
}

func (c *StaticTokenCredential) GetToken(_ context.Context, _ string) (AccessToken, error) {
	return AccessToken{Token: c.Token, ExpiresOn: c.ExpiresOn}, nil
}

// SharedAccessCredential mints signed shared-access tokens from a named key.
// Tokens are HMAC-signed JWTs carrying the scope as audience and the key name
// as issuer.
type SharedAccessCredential struct {
	// KeyName identifies the shared access key, carried as the token issuer.
	KeyName string

	// Key is the HMAC signing key. Required.
	Key []byte

	// TTL is the validity window of minted tokens.
	// Default: 1 hour.
	TTL time.Duration
}

func (c *SharedAccessCredential) GetToken(_ context.Context, scope string) (AccessToken, error) {
	if len(c.Key) == 0 {
		return AccessToken{}, &ArgumentError{Name: "Key", Reason: "shared access key must not be empty"}
	}

	ttl := c.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}

	now := time.Now()
	expiresOn := now.Add(ttl)

	claims := jwt.RegisteredClaims{
		Issuer:    c.KeyName,
		Audience:  jwt.ClaimStrings{scope},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresOn),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.Key)
	if err != nil {
		return AccessToken{}, err
	}

	return AccessToken{Token: signed, ExpiresOn: expiresOn}, nil
}
