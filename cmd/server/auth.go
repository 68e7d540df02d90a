package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// connectionState tracks per-connection authentication.
type connectionState struct {
	identity      string
	authenticated bool
	tokenExpiry   time.Time
}

// expired reports whether the connection's token has lapsed.
func (state *connectionState) expired() bool {
	return !state.tokenExpiry.IsZero() && time.Now().After(state.tokenExpiry)
}

type authResult struct {
	identity  string
	expiresAt time.Time
	err       error
}

// validateJWT validates an HS256 token against the configured secret
// and extracts the identity claim.
func (server *Server) validateJWT(tokenString string) authResult {
	cfg := server.auth
	nameClaim := cfg.NameClaim
	if nameClaim == "" {
		nameClaim = "name"
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}))
	if err != nil {
		return authResult{err: fmt.Errorf("invalid token: %w", err)}
	}
	if !token.Valid {
		return authResult{err: errors.New("invalid token")}
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return authResult{err: errors.New("invalid token claims")}
	}

	if cfg.Issuer != "" {
		issuer, _ := claims.GetIssuer()
		if issuer != cfg.Issuer {
			return authResult{err: fmt.Errorf("invalid issuer: expected %s, got %s", cfg.Issuer, issuer)}
		}
	}
	if cfg.Audience != "" {
		audiences, _ := claims.GetAudience()
		found := false
		for _, audience := range audiences {
			if audience == cfg.Audience {
				found = true
				break
			}
		}
		if !found {
			return authResult{err: fmt.Errorf("invalid audience: expected %s", cfg.Audience)}
		}
	}

	name, _ := claims[nameClaim].(string)
	if name == "" {
		return authResult{err: fmt.Errorf("token missing identity claim %q", nameClaim)}
	}

	var expiresAt time.Time
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		expiresAt = exp.Time
	}
	return authResult{identity: name, expiresAt: expiresAt}
}

// parseAuthCommand parses "AUTH JWT <token>".
func parseAuthCommand(line string) (token string, err error) {
	parts := strings.Fields(line)
	if len(parts) != 3 {
		return "", errors.New("invalid AUTH command: expected AUTH JWT <token>")
	}
	if !strings.EqualFold(parts[1], "JWT") {
		return "", fmt.Errorf("unsupported auth type: %s", parts[1])
	}
	return parts[2], nil
}

// handleAuth processes an AUTH command and updates connection state.
func (server *Server) handleAuth(line string, state *connectionState) Response {
	token, err := parseAuthCommand(line)
	if err != nil {
		return Response{Success: false, Type: "auth", Error: err.Error()}
	}

	result := server.validateJWT(token)
	if result.err != nil {
		return Response{Success: false, Type: "auth", Error: result.err.Error()}
	}

	state.identity = result.identity
	state.authenticated = true
	state.tokenExpiry = result.expiresAt

	ar := AuthResponse{Authenticated: true, Identity: result.identity}
	if !result.expiresAt.IsZero() {
		ar.ExpiresIn = int(time.Until(result.expiresAt).Seconds())
	}
	data, _ := json.Marshal(ar)
	return Response{Success: true, Type: "auth", Result: data}
}
