package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// RoleAdmin is the only role the CMS issues tokens for.
const RoleAdmin = "admin"

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	AdminID uint
	Email   string
	JTI     string
}

// AccessTokenClaims represents the typed JWT issued to CMS editors.
type AccessTokenClaims struct {
	AdminID uint   `json:"admin_id"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}
