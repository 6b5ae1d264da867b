package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"marketing-crm/metrics"
	"marketing-crm/models/user"
	"marketing-crm/types"
	authTypes "marketing-crm/types/auth"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// dummyHash keeps failed lookups as slow as password mismatches.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.MinCost)

type Service struct {
	db       *gorm.DB
	tokens   *TokenIssuer
	hashCost int
}

func NewService(db *gorm.DB, tokens *TokenIssuer, hashCost int) *Service {
	return &Service{db: db, tokens: tokens, hashCost: hashCost}
}

func (s *Service) Tokens() *TokenIssuer {
	return s.tokens
}

// HashPassword hashes a password with the configured bcrypt cost.
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Login checks credentials and issues a session token.
func (s *Service) Login(ctx context.Context, email, password string) (*authTypes.LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	invalid := types.NewError(types.KindUnauthorized, "Invalid email or password")

	var u user.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		metrics.LoginAttemptsTotal.WithLabelValues("failed").Inc()
		return nil, invalid
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("failed").Inc()
		return nil, invalid
	}
	if !u.IsActive {
		metrics.LoginAttemptsTotal.WithLabelValues("failed").Inc()
		return nil, types.NewError(types.KindForbidden, "Account is disabled")
	}

	principal := PrincipalFromUser(&u)
	token, expiresAt, err := s.tokens.IssueToken(principal)
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(&u).UpdateColumn("last_login_at", time.Now().UTC()).Error; err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	return &authTypes.LoginResult{
		Token:     token,
		ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
		User:      ToUserResponse(&u),
	}, nil
}

// CurrentUser reloads the user behind a principal.
func (s *Service) CurrentUser(ctx context.Context, p *Principal) (*user.User, error) {
	var u user.User
	err := s.db.WithContext(ctx).Where("uuid = ?", p.UUID).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.NewError(types.KindUnauthorized, "User no longer exists")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &u, nil
}

// PrincipalFromUser snapshots the user's role and effective permissions.
func PrincipalFromUser(u *user.User) Principal {
	return Principal{
		UserID:      u.ID,
		UUID:        u.Uuid,
		Email:       u.Email,
		Name:        u.Name,
		Role:        u.Role,
		Permissions: u.EffectivePermissions(),
	}
}

func ToUserResponse(u *user.User) authTypes.UserResponse {
	perms := u.EffectivePermissions()
	if perms == nil {
		perms = []string{}
	}
	return authTypes.UserResponse{
		ID:          u.ID,
		UUID:        u.Uuid,
		Name:        u.Name,
		Email:       u.Email,
		Role:        u.Role,
		Permissions: perms,
	}
}
