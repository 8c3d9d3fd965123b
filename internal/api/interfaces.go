package api

import (
	"github.com/golang-jwt/jwt/v5"
)

const RoleAdmin = "admin"

type JWTServiceI interface {
	GenerateToken(userID, role string) (string, error)
	ParseToken(tokenString string) (*JWTClaims, error)
}

type JWTClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Role   string `json:"role,omitempty"`
}
