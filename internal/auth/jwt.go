// Package auth issues and validates access tokens and exposes the local
// credential handlers for registration and login.
package auth

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	// Load env file into environments.
	_ "github.com/joho/godotenv/autoload"
)

// JwtIssuer identifies tokens issued by this service.
const JwtIssuer = "Hirezy"

// SECRET_KEY signs every access token. Must be set in production.
var SECRET_KEY = os.Getenv("SECRET_KEY")

// GenerateStandardToken issues a signed one-hour access token for the
// given account. The second return value is reserved for a refresh token.
func GenerateStandardToken(uuid uuid.UUID) (string, string, error) {
	return GenerateTokenWithDuration(uuid, time.Hour, JwtIssuer)
}

// GenerateTokenWithDuration issues a token with an arbitrary lifetime and
// issuer. Kept separate so tests can mint expired or foreign tokens.
func GenerateTokenWithDuration(uuid uuid.UUID, duration time.Duration, issuer string) (string, string, error) {

	generatedAccessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   uuid.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(duration)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	})

	signedToken, err := generatedAccessToken.SignedString([]byte(SECRET_KEY))
	if err != nil {
		return "", "", fmt.Errorf("Failed to sign token: %s", err)
	}

	return signedToken, "", nil
}

// ValidatedToken parses and verifies an access token, rejecting any
// signing method other than HMAC.
func ValidatedToken(encodeToken string) (*jwt.Token, error) {
	return jwt.ParseWithClaims(encodeToken, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, isvalid := token.Method.(*jwt.SigningMethodHMAC); !isvalid {
			return nil, fmt.Errorf("Invalid token")
		}
		return []byte(SECRET_KEY), nil
	})
}
