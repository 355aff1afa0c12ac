package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AdminTTL matches the original admin panel session length.
const AdminTTL = 8 * time.Hour

func SignAdminToken(username string, secret []byte) (string, error) {
	exp := time.Now().Add(AdminTTL)
	claims := jwt.MapClaims{
		"sub":  username,
		"role": "admin",
		"exp":  exp.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(secret)
}

// ParseAdminToken validates signature, expiry and role, returning the
// admin username.
func ParseAdminToken(raw string, secret []byte) (string, error) {
	t, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signature method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !t.Valid {
		return "", fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("cannot parse claims")
	}
	if role, _ := claims["role"].(string); role != "admin" {
		return "", fmt.Errorf("not an admin token")
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", fmt.Errorf("missing subject")
	}
	return sub, nil
}
