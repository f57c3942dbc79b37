package token

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/url"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is an exported constant or variable used by the session client.
var ErrInvalidToken = errors.New("invalid token")

// User is the identity carried inside a token payload.
//
// User instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// Payload is the structured result of decoding a bearer token. Exp is Unix
// seconds; a zero Exp means the token carries no usable expiry claim.
//
// Payload instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Payload struct {
	User User  `json:"user"`
	Exp  int64 `json:"exp"`
}

type jwtPayload struct {
	User User `json:"user"`
	jwt.RegisteredClaims
}

// Decode turns a raw bearer token into a [Payload].
//
// Decode attempts the three-part encoding first (standard unverified JWT
// parse, then a tolerant manual pass that percent-decodes the payload bytes),
// and falls back to treating the whole token as one base64 JSON blob. When
// every scheme fails it returns [ErrInvalidToken]; callers must treat that
// identically to "no session". Decode is pure and has no side effects.
func Decode(raw string) (*Payload, error) {
	if raw == "" {
		return nil, ErrInvalidToken
	}

	if p, ok := decodeCompact(raw); ok {
		return p, nil
	}
	if p, ok := decodeSegmented(raw); ok {
		return p, nil
	}
	if p, ok := decodeBlob(raw); ok {
		return p, nil
	}

	return nil, ErrInvalidToken
}

// decodeCompact handles well-formed three-part tokens via the jwt parser
// without signature or claims validation.
func decodeCompact(raw string) (*Payload, bool) {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	claims := &jwtPayload{}
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return nil, false
	}

	p := &Payload{User: claims.User}
	if claims.ExpiresAt != nil {
		p.Exp = claims.ExpiresAt.Unix()
	}
	if p.User == (User{}) && p.Exp == 0 {
		return nil, false
	}
	return p, true
}

// decodeSegmented is the tolerant manual pass over the middle segment: some
// issuers percent-encode the JSON before base64-encoding it, which the strict
// jwt parser rejects.
func decodeSegmented(raw string) (*Payload, bool) {
	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		return nil, false
	}

	data, err := base64URLDecode(parts[1])
	if err != nil {
		return nil, false
	}

	if unescaped, err := url.PathUnescape(string(data)); err == nil {
		data = []byte(unescaped)
	}

	return parseJSON(data)
}

// decodeBlob is the single-segment fallback: the entire token is one base64
// JSON document.
func decodeBlob(raw string) (*Payload, bool) {
	data, err := base64AnyDecode(raw)
	if err != nil {
		return nil, false
	}
	return parseJSON(data)
}

func parseJSON(data []byte) (*Payload, bool) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, false
	}
	if p.User == (User{}) && p.Exp == 0 {
		return nil, false
	}
	return &p, true
}

func base64URLDecode(segment string) ([]byte, error) {
	if data, err := base64.RawURLEncoding.DecodeString(segment); err == nil {
		return data, nil
	}
	return base64.URLEncoding.DecodeString(segment)
}

func base64AnyDecode(raw string) ([]byte, error) {
	encodings := []*base64.Encoding{
		base64.StdEncoding,
		base64.RawStdEncoding,
		base64.URLEncoding,
		base64.RawURLEncoding,
	}

	var lastErr error
	for _, enc := range encodings {
		data, err := enc.DecodeString(raw)
		if err == nil {
			return data, nil
		}
		lastErr = err
	}
	return nil, lastErr
}
