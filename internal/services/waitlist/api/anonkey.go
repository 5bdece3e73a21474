package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// anonKeyClaims captures the claims the hosted service mints into its
// public anon key.
type anonKeyClaims struct {
	jwt.RegisteredClaims
	Role       string `json:"role"`
	ProjectRef string `json:"ref"`
}

// anonKeyInfo summarizes an inspected anon key.
type anonKeyInfo struct {
	Role       string
	ProjectRef string
	// ExpiresAt is zero when the key carries no expiry.
	ExpiresAt time.Time
}

// inspectAnonKey decodes the anon key without verifying its signature. The
// key is handed to browsers anyway; the check exists to catch a pasted
// service key or a truncated value at startup rather than in production
// traffic.
func inspectAnonKey(key string) (anonKeyInfo, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return anonKeyInfo{}, fmt.Errorf("anon key is empty")
	}

	var claims anonKeyClaims
	if _, _, err := jwt.NewParser().ParseUnverified(key, &claims); err != nil {
		return anonKeyInfo{}, fmt.Errorf("parse anon key: %w", err)
	}
	if strings.TrimSpace(claims.Role) == "" {
		return anonKeyInfo{}, fmt.Errorf("anon key has no role claim")
	}

	info := anonKeyInfo{
		Role:       claims.Role,
		ProjectRef: claims.ProjectRef,
	}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time.UTC()
	}
	return info, nil
}
