package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/ougirez/popchart/internal/pkg/constants"
)

// AuthTokenWrapper is the claim set of an admin token.
type AuthTokenWrapper struct {
	jwt.StandardClaims
	Secret string `json:"secret"`
}

func GenerateAuthToken(wrapper *AuthTokenWrapper, signingKey string, ttl time.Duration) (string, error) {
	now := time.Now()
	wrapper.IssuedAt = now.Unix()
	if ttl > 0 {
		wrapper.ExpiresAt = now.Add(ttl).Unix()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, wrapper)
	signed, err := token.SignedString([]byte(signingKey))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func ParseAuthToken(raw string, signingKey string) (*AuthTokenWrapper, error) {
	claims := new(AuthTokenWrapper)
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(signingKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", constants.ErrUnauthorized, err.Error())
	}
	if !token.Valid {
		return nil, constants.ErrUnauthorized
	}
	return claims, nil
}
