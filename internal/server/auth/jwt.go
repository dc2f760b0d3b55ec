// Package auth validates carrier identity tokens. Session issuance belongs
// to the back office; this core only needs to know which carrier is calling.
package auth

import (
	"errors"
	"time"

	"github.com/freightdesk/presence/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the standard registered claims plus the carrier id.
type Claims struct {
	jwt.RegisteredClaims
	CarrierID string
}

// GenerateToken signs an HS256 token for carrierID. Used by tests and by the
// agent CLI's token helper; production tokens come from the auth service.
func GenerateToken(carrierID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		CarrierID: carrierID,
	})

	return token.SignedString(secretKey)
}

// CarrierIDFromToken parses and verifies tokenString and returns the carrier
// id it asserts. Any parse or verification failure maps to
// common.ErrInvalidToken.
func CarrierIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		return "", errors.Join(common.ErrInvalidToken, err)
	}

	if !token.Valid || claims.CarrierID == "" {
		return "", common.ErrInvalidToken
	}

	return claims.CarrierID, nil
}
