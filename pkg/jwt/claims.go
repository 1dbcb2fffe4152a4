package jwt

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the service token claims. Subject names the calling service.
type Claims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

// ScopeExport allows triggering exports and reading runs
const ScopeExport = "export"
