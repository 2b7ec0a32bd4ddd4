package account

import (
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenIssuer signs HS256 access tokens for authenticated sessions.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// IssuerFromEnv returns a TokenIssuer when JWT_SECRET is configured,
// nil otherwise (login then succeeds without a token).
func IssuerFromEnv() *TokenIssuer {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil
	}
	return &TokenIssuer{secret: []byte(secret), ttl: 168 * time.Hour}
}

func (t *TokenIssuer) Issue(userID int64, email string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"exp":     time.Now().Add(t.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verify parses a token issued by Issue and returns its claims.
func (t *TokenIssuer) Verify(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
