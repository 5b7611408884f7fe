package auth

import "github.com/golang-jwt/jwt/v5"

// AccessTokenPayload is the input for minting a session token.
type AccessTokenPayload struct {
	UserID  string
	Name    string
	Email   string
	IsAdmin bool
	JTI     string
}

// AccessTokenClaims is the JWT claim set carried by the bearer token.
type AccessTokenClaims struct {
	UserID  string `json:"uid"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"admin"`
	jwt.RegisteredClaims
}
