package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"marketing-crm/constants"
	"marketing-crm/types"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is fixed; there is no refresh or revocation.
const TokenTTL = 24 * time.Hour

const issuer = "marketing-crm"

// Principal is the authenticated identity carried by a session token.
type Principal struct {
	UserID      uint     `json:"id"`
	UUID        string   `json:"uuid"`
	Email       string   `json:"email"`
	Name        string   `json:"name"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

func (p *Principal) IsSystemAdmin() bool {
	return p.Role == constants.RoleSystemAdmin
}

// Has reports whether the principal holds perm. System admins hold every permission.
func (p *Principal) Has(perm string) bool {
	if p.IsSystemAdmin() {
		return true
	}
	for _, granted := range p.Permissions {
		if granted == perm {
			return true
		}
	}
	return false
}

// Claims is the JWT payload.
type Claims struct {
	UserID      uint     `json:"user_id"`
	Email       string   `json:"email"`
	Name        string   `json:"name"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 session tokens.
type TokenIssuer struct {
	secret []byte
	now    func() time.Time
}

func NewTokenIssuer(secret string) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), now: time.Now}
}

// WithClock replaces the time source.
func (t *TokenIssuer) WithClock(now func() time.Time) *TokenIssuer {
	t.now = now
	return t
}

// IssueToken returns a signed token for p and its expiry.
func (t *TokenIssuer) IssueToken(p Principal) (string, time.Time, error) {
	issuedAt := t.now()
	expiresAt := issuedAt.Add(TokenTTL)

	claims := Claims{
		UserID:      p.UserID,
		Email:       p.Email,
		Name:        p.Name,
		Role:        p.Role,
		Permissions: p.Permissions,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   p.UUID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// VerifyToken checks signature and expiry and returns the embedded principal.
func (t *TokenIssuer) VerifyToken(tokenString string) (*Principal, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, types.NewError(types.KindExpired, "Session expired. Login again.").WithStatus(http.StatusUnauthorized)
		}
		return nil, types.WrapError(types.KindUnauthorized, "Invalid token", err)
	}

	return &Principal{
		UserID:      claims.UserID,
		UUID:        claims.Subject,
		Email:       claims.Email,
		Name:        claims.Name,
		Role:        claims.Role,
		Permissions: claims.Permissions,
	}, nil
}

// Authorize allows p to perform an operation guarded by perm.
func Authorize(p *Principal, perm string) error {
	if p == nil {
		return types.NewError(types.KindUnauthorized, "Authentication required")
	}
	if !p.Has(perm) {
		return types.NewError(types.KindForbidden, "Insufficient permissions")
	}
	return nil
}
