package token

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Mint produces a three-part HS256-signed token carrying the given user and
// expiry. It exists for the example login server and for tests; production
// tokens come from the real login endpoint.
func Mint(signingKey []byte, user User, expiresAt time.Time) (string, error) {
	if len(signingKey) == 0 {
		return "", errors.New("signing key required")
	}

	claims := jwtPayload{
		User: user,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signingKey)
}

// MintCompact produces a single-segment base64 token, the simpler encoding
// accepted by [Decode]'s fallback path.
func MintCompact(user User, expiresAt time.Time) (string, error) {
	data, err := json.Marshal(Payload{User: user, Exp: expiresAt.Unix()})
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}
