package application

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ecommerce-api/internal/domain/entity"
	"github.com/oksasatya/go-ecommerce-api/internal/domain/repository"
	"github.com/oksasatya/go-ecommerce-api/pkg/apperror"
	"github.com/oksasatya/go-ecommerce-api/pkg/helpers"
	"github.com/oksasatya/go-ecommerce-api/pkg/validation"
)

// ErrUnauthorized is what protected routes answer for any token problem.
var ErrUnauthorized = apperror.Unauthorized("invalid or expired token")

type AuthService struct {
	Store      repository.Store
	Sessions   repository.SessionRepository
	JWT        *helpers.JWTManager
	BcryptCost int
	Logger     *logrus.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(store repository.Store, sessions repository.SessionRepository, jwt *helpers.JWTManager, bcryptCost int, logger *logrus.Logger) *AuthService {
	return &AuthService{Store: store, Sessions: sessions, JWT: jwt, BcryptCost: bcryptCost, Logger: logger}
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

// Principal is the caller behind a verified access token.
type Principal struct {
	UserID    string
	Role      entity.Role
	SessionID string
}

func (p Principal) IsAdmin() bool { return p.Role == entity.RoleAdmin }

type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Phone    string
}

func normalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*entity.User, TokenPair, error) {
	users := s.Store.Repos().Users
	email := normalizeEmail(in.Email)
	phone := validation.NormalizePhone(in.Phone)

	if _, err := users.GetByEmail(ctx, email); err == nil {
		return nil, TokenPair{}, ErrDuplicateEmail
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, TokenPair{}, internal(err)
	}
	if _, err := users.GetByPhone(ctx, phone); err == nil {
		return nil, TokenPair{}, ErrDuplicatePhone
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, TokenPair{}, internal(err)
	}

	hash, err := helpers.HashPassword(in.Password, s.BcryptCost)
	if err != nil {
		return nil, TokenPair{}, internal(err)
	}
	u := &entity.User{
		Email:    email,
		Phone:    phone,
		Password: hash,
		Name:     strings.TrimSpace(in.Name),
		Role:     entity.RoleCustomer,
		IsActive: true,
	}
	if err := users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, TokenPair{}, duplicateUserField(err)
		}
		return nil, TokenPair{}, internal(err)
	}
	helpers.LogInfo(s.Logger, "user registered", logrus.Fields{"user_id": u.ID})

	pair, err := s.issue(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, pair, nil
}

// compareDummy burns one bcrypt comparison so unknown emails cost about as
// much as wrong passwords.
func (s *AuthService) compareDummy(password string) {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = helpers.HashPassword("not-a-real-password", s.BcryptCost)
	})
	helpers.CompareHashAndPassword(s.dummyHash, password)
}

// Login validates credentials and opens a new session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*entity.User, TokenPair, error) {
	u, err := s.Store.Repos().Users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.compareDummy(password)
			return nil, TokenPair{}, ErrInvalidCredentials
		}
		return nil, TokenPair{}, internal(err)
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, TokenPair{}, ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, TokenPair{}, ErrAccountDisabled
	}
	pair, err := s.issue(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, pair, nil
}

func (s *AuthService) issue(ctx context.Context, u *entity.User) (TokenPair, error) {
	sid := uuid.NewString()
	access, err := s.JWT.GenerateAccessToken(u.ID, sid, string(u.Role))
	if err != nil {
		helpers.LogError(s.Logger, "generate access token failed", err, logrus.Fields{"user_id": u.ID})
		return TokenPair{}, internal(err)
	}
	refresh, err := s.JWT.GenerateRefreshToken(u.ID, sid, string(u.Role))
	if err != nil {
		helpers.LogError(s.Logger, "generate refresh token failed", err, logrus.Fields{"user_id": u.ID})
		return TokenPair{}, internal(err)
	}
	sess := &entity.Session{ID: sid, UserID: u.ID, Role: u.Role, RefreshID: refresh.ID, CreatedAt: s.JWT.Clock()}
	if err := s.Sessions.Save(ctx, sess, s.JWT.RefreshTTL); err != nil {
		return TokenPair{}, internal(err)
	}
	return TokenPair{
		AccessToken:        access.Token,
		AccessTokenExpiry:  access.ExpiresAt,
		RefreshToken:       refresh.Token,
		RefreshTokenExpiry: refresh.ExpiresAt,
	}, nil
}

// Refresh rotates the session's refresh token. Presenting a refresh token that
// was already rotated out revokes the session.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, ErrInvalidToken
	}
	sess, err := s.Sessions.Get(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return TokenPair{}, ErrInvalidToken
		}
		return TokenPair{}, internal(err)
	}
	if sess.UserID != claims.UserID {
		return TokenPair{}, ErrInvalidToken
	}
	if sess.RefreshID != claims.ID {
		s.revokeReused(ctx, sess.ID, claims.UserID)
		return TokenPair{}, ErrInvalidToken
	}

	u, err := s.Store.Repos().Users.GetByID(ctx, claims.UserID)
	if err != nil {
		return TokenPair{}, notFoundAs(err, ErrInvalidToken)
	}
	if !u.IsActive {
		_ = s.Sessions.Delete(ctx, sess.ID)
		return TokenPair{}, ErrAccountDisabled
	}

	access, err := s.JWT.GenerateAccessToken(u.ID, sess.ID, string(u.Role))
	if err != nil {
		return TokenPair{}, internal(err)
	}
	refresh, err := s.JWT.GenerateRefreshToken(u.ID, sess.ID, string(u.Role))
	if err != nil {
		return TokenPair{}, internal(err)
	}
	ok, err := s.Sessions.Rotate(ctx, sess.ID, claims.ID, refresh.ID, s.JWT.RefreshTTL)
	if err != nil {
		return TokenPair{}, internal(err)
	}
	if !ok {
		// Another refresh with the same token won the race.
		s.revokeReused(ctx, sess.ID, claims.UserID)
		return TokenPair{}, ErrInvalidToken
	}
	return TokenPair{
		AccessToken:        access.Token,
		AccessTokenExpiry:  access.ExpiresAt,
		RefreshToken:       refresh.Token,
		RefreshTokenExpiry: refresh.ExpiresAt,
	}, nil
}

func (s *AuthService) revokeReused(ctx context.Context, sid, userID string) {
	if err := s.Sessions.Delete(ctx, sid); err != nil {
		helpers.LogError(s.Logger, "revoke session failed", err, logrus.Fields{"session_id": sid})
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"session_id": sid, "user_id": userID}).Warn("refresh token reuse detected, session revoked")
	}
}

// Logout deletes the session behind refreshToken. Every access token of that
// session stops working at once.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return ErrInvalidToken
	}
	if err := s.Sessions.Delete(ctx, claims.SessionID); err != nil {
		return internal(err)
	}
	return nil
}

// Authorize resolves an access token. The session must still exist and the
// user must still be active; the role comes from the user row.
func (s *AuthService) Authorize(ctx context.Context, accessToken string) (Principal, error) {
	claims, err := s.JWT.ParseAccessToken(accessToken)
	if err != nil {
		return Principal{}, ErrUnauthorized
	}
	sess, err := s.Sessions.Get(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Principal{}, ErrUnauthorized
		}
		return Principal{}, internal(err)
	}
	if sess.UserID != claims.UserID {
		return Principal{}, ErrUnauthorized
	}
	u, err := s.Store.Repos().Users.GetByID(ctx, claims.UserID)
	if err != nil {
		return Principal{}, notFoundAs(err, ErrUnauthorized)
	}
	if !u.IsActive {
		return Principal{}, ErrUnauthorized
	}
	return Principal{UserID: u.ID, Role: u.Role, SessionID: sess.ID}, nil
}
