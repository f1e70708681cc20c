package auth

import (
	"github.com/casatienda/storefront-backend/internal/users"
)

// RegisterInput carries a signup request. RefCode is the optional affiliate
// attribution taken from the storefront's ?ref= query parameter.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    *string
	RefCode  *string
}

// LoginInput carries a credential check.
type LoginInput struct {
	Email    string
	Password string
}

// Tokens is the access/refresh pair handed to the client.
type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// AuthResult pairs the authenticated user with freshly minted tokens.
type AuthResult struct {
	User   *users.UserDTO `json:"user"`
	Tokens Tokens         `json:"tokens"`
}
