package auth

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/Ometeor-Zheero-OMZ/Ataria/internal/domain"
)

// TokenLifetime is how long an issued token stays valid.
const TokenLifetime = 10 * 24 * time.Hour

const bearerScheme = "Bearer"

// Claims describes the JWT payload. The encoded form is exactly
// {"id": <int>, "sub": <string>, "exp": <unix seconds>}.
type Claims struct {
	UserID    int64  `json:"id"`
	Subject   string `json:"sub"`
	ExpiresAt int64  `json:"exp"`
}

// UnmarshalJSON accepts exactly the keys id, sub and exp, each once and
// matched case-sensitively. Null values are rejected.
func (c *Claims) UnmarshalJSON(data []byte) error {
	fields, err := claimFields(data)
	if err != nil {
		return err
	}
	if len(fields) != 3 {
		return errClaimsIncomplete
	}
	if err := decodeClaim(fields, "id", &c.UserID); err != nil {
		return err
	}
	if err := decodeClaim(fields, "sub", &c.Subject); err != nil {
		return err
	}
	return decodeClaim(fields, "exp", &c.ExpiresAt)
}

// claimFields splits a JSON object into its raw members, failing on keys
// other than id, sub and exp and on repeated keys.
func claimFields(data []byte) (map[string]json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decode claims: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.New("decode claims: payload is not an object")
	}

	fields := make(map[string]json.RawMessage, 3)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decode claims: %w", err)
		}
		key, _ := tok.(string)
		switch key {
		case "id", "sub", "exp":
		default:
			return nil, fmt.Errorf("decode claims: unknown field %q", key)
		}
		if _, dup := fields[key]; dup {
			return nil, fmt.Errorf("decode claims: duplicate field %q", key)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode claims: %w", err)
		}
		fields[key] = raw
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("decode claims: %w", err)
	}
	return fields, nil
}

func decodeClaim(fields map[string]json.RawMessage, key string, dst any) error {
	raw, ok := fields[key]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return errClaimsIncomplete
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode claim %s: %w", key, err)
	}
	return nil
}

// GetExpirationTime implements jwt.Claims.
func (c *Claims) GetExpirationTime() (*jwt.NumericDate, error) {
	return jwt.NewNumericDate(time.Unix(c.ExpiresAt, 0)), nil
}

// GetIssuedAt implements jwt.Claims.
func (c *Claims) GetIssuedAt() (*jwt.NumericDate, error) { return nil, nil }

// GetNotBefore implements jwt.Claims.
func (c *Claims) GetNotBefore() (*jwt.NumericDate, error) { return nil, nil }

// GetIssuer implements jwt.Claims.
func (c *Claims) GetIssuer() (string, error) { return "", nil }

// GetSubject implements jwt.Claims.
func (c *Claims) GetSubject() (string, error) { return c.Subject, nil }

// GetAudience implements jwt.Claims.
func (c *Claims) GetAudience() (jwt.ClaimStrings, error) { return nil, nil }

// TokenManager handles issuing and validating JWT tokens.
type TokenManager struct {
	secret []byte
	clock  domain.Clock
	parser *jwt.Parser
}

// NewTokenManager builds a manager for the given HS256 secret. A nil clock
// means the system clock.
func NewTokenManager(secret string, clock domain.Clock) (*TokenManager, error) {
	if secret == "" {
		return nil, ErrSigningSecretMissing
	}
	if clock == nil {
		clock = domain.RealClock{}
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(clock.Now),
	)
	return &TokenManager{secret: []byte(secret), clock: clock, parser: parser}, nil
}

// GenerateToken builds and signs a token for the account. Expiry is always
// TokenLifetime after the current time.
func (tm *TokenManager) GenerateToken(subject string, userID int64) (string, time.Time, error) {
	if len(tm.secret) == 0 {
		return "", time.Time{}, ErrSigningSecretMissing
	}
	expiresAt := tm.clock.Now().Add(TokenLifetime).Truncate(time.Second)
	claims := &Claims{
		UserID:    userID,
		Subject:   subject,
		ExpiresAt: expiresAt.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("encode token: %w", err)
	}
	return tokenString, expiresAt, nil
}

// ParseToken validates the signature, expiry and claim shape of a token and
// returns its claims unmodified.
func (tm *TokenManager) ParseToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := tm.parser.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (interface{}, error) {
		return tm.secret, nil
	})
	if err != nil {
		return nil, newVerificationError(err)
	}
	if !parsed.Valid {
		return nil, newVerificationError(jwt.ErrTokenInvalidClaims)
	}
	return claims, nil
}

// VerifyHeader extracts the bearer credential from an Authorization header
// value and verifies it.
func (tm *TokenManager) VerifyHeader(header string) (*Claims, error) {
	token, err := BearerToken(header)
	if err != nil {
		return nil, err
	}
	return tm.ParseToken(token)
}

// BearerToken returns the credential of a "Bearer <token>" header value.
// The value must hold exactly two whitespace separated fields.
func BearerToken(header string) (string, error) {
	parts := strings.Fields(header)
	if len(parts) != 2 || parts[0] != bearerScheme {
		return "", ErrCredentialNotFound
	}
	return parts[1], nil
}
