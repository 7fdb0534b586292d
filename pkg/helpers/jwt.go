package helpers

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var (
	ErrTokenInvalid   = errors.New("invalid token")
	ErrTokenWrongType = errors.New("wrong token type")
)

// JWTManager handles generation and validation of JWT tokens. Access and
// refresh tokens share one secret and are told apart by the typ claim.
type JWTManager struct {
	Secret     []byte
	Method     jwt.SigningMethod
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	// Now is the clock used for issuing and validating; nil means time.Now.
	Now func() time.Time
}

// NewJWTManager accepts HS256, HS384 or HS512.
func NewJWTManager(secret, algorithm, issuer string, accessTTL, refreshTTL time.Duration) (*JWTManager, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported jwt algorithm %q", algorithm)
	}
	return &JWTManager{
		Secret:     []byte(secret),
		Method:     method,
		Issuer:     issuer,
		AccessTTL:  accessTTL,
		RefreshTTL: refreshTTL,
	}, nil
}

type Claims struct {
	UserID    string `json:"uid"`
	SessionID string `json:"sid"`
	Role      string `json:"role,omitempty"`
	Type      string `json:"typ"`
	jwt.RegisteredClaims
}

// IssuedToken is a signed token plus the claims it carries.
type IssuedToken struct {
	Token     string
	ID        string
	ExpiresAt time.Time
}

// Clock returns the current time as the manager sees it.
func (m *JWTManager) Clock() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

func (m *JWTManager) GenerateAccessToken(userID, sessionID, role string) (IssuedToken, error) {
	return m.generate(userID, sessionID, role, TokenTypeAccess, m.AccessTTL)
}

func (m *JWTManager) GenerateRefreshToken(userID, sessionID, role string) (IssuedToken, error) {
	return m.generate(userID, sessionID, role, TokenTypeRefresh, m.RefreshTTL)
}

func (m *JWTManager) generate(userID, sessionID, role, typ string, ttl time.Duration) (IssuedToken, error) {
	now := m.Clock()
	exp := now.Add(ttl)
	jti := uuid.NewString()
	claims := &Claims{
		UserID:    userID,
		SessionID: sessionID,
		Role:      role,
		Type:      typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   userID,
			Issuer:    m.Issuer,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	s, err := jwt.NewWithClaims(m.Method, claims).SignedString(m.Secret)
	if err != nil {
		return IssuedToken{}, err
	}
	return IssuedToken{Token: s, ID: jti, ExpiresAt: exp}, nil
}

func (m *JWTManager) ParseAccessToken(tokenStr string) (*Claims, error) {
	return m.parse(tokenStr, TokenTypeAccess)
}

func (m *JWTManager) ParseRefreshToken(tokenStr string) (*Claims, error) {
	return m.parse(tokenStr, TokenTypeRefresh)
}

func (m *JWTManager) parse(tokenStr, typ string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{m.Method.Alg()}),
		jwt.WithTimeFunc(m.Clock),
		jwt.WithExpirationRequired(),
	}
	if m.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.Issuer))
	}
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.Secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.Type != typ {
		return nil, ErrTokenWrongType
	}
	if claims.UserID == "" || claims.SessionID == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
