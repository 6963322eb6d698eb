package auth

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pulumi-idp/idp-console/pkg/config"
)

// ErrTokenExpired is returned when the configured bearer token is a JWT whose exp has passed
var ErrTokenExpired = errors.New("token has expired")

// TokenEnvVar overrides the configured token for one invocation (CI, scripts)
const TokenEnvVar = "IDP_TOKEN"

// ResolveToken returns the bearer token to send, or "" when none is configured.
//
// Tokens that parse as JWTs are checked for expiry locally so an expired
// session fails before any request goes out. Opaque tokens are passed through.
func ResolveToken(cfg *config.Config) (string, error) {
	token := os.Getenv(TokenEnvVar)
	if token == "" && cfg != nil {
		token = cfg.Token
	}
	if token == "" {
		return "", nil
	}

	if err := ValidateToken(token); err != nil && errors.Is(err, ErrTokenExpired) {
		return "", fmt.Errorf("%w. Run 'idpctl config set token <token>' with a fresh token", err)
	}

	return token, nil
}

// ValidateToken checks the exp claim of a JWT. A token without exp is valid.
func ValidateToken(token string) error {
	claims, err := ParseClaims(token)
	if err != nil {
		return err
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return nil
	}

	if time.Now().After(time.Unix(int64(exp), 0)) {
		return ErrTokenExpired
	}

	return nil
}

// ParseClaims decodes the claims of a JWT without verifying its signature
func ParseClaims(token string) (jwt.MapClaims, error) {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())

	parsed, _, err := parser.ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return nil, fmt.Errorf("failed to parse JWT token: %w", err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("failed to parse JWT claims")
	}

	return claims, nil
}

// Subject returns the sub claim, falling back to username, or "" if neither is present
func Subject(token string) string {
	claims, err := ParseClaims(token)
	if err != nil {
		return ""
	}

	if sub, ok := claims["sub"].(string); ok && sub != "" {
		return sub
	}
	if username, ok := claims["username"].(string); ok && username != "" {
		return username
	}

	return ""
}
