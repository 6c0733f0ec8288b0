package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

const (
	tokenIssuer      = "lawconnect"
	tokenTypeRefresh = "refresh"

	DefaultRefreshExpiry = 30 * 24 * time.Hour
)

type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	Role   string    `json:"role,omitempty"`
	Type   string    `json:"typ,omitempty"`
	jwt.RegisteredClaims
}

type JWTService struct {
	secret        []byte
	expiry        time.Duration
	refreshExpiry time.Duration
	now           func() time.Time
}

type JWTOption func(*JWTService)

// WithClock replaces time.Now for issuing and validating tokens.
func WithClock(now func() time.Time) JWTOption {
	return func(s *JWTService) { s.now = now }
}

func WithRefreshExpiry(d time.Duration) JWTOption {
	return func(s *JWTService) {
		if d > 0 {
			s.refreshExpiry = d
		}
	}
}

func NewJWTService(secret string, expiry time.Duration, opts ...JWTOption) *JWTService {
	s := &JWTService{
		secret:        []byte(secret),
		expiry:        expiry,
		refreshExpiry: DefaultRefreshExpiry,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *JWTService) GenerateToken(userID uuid.UUID, role string) (string, error) {
	return s.sign(userID, role, "", s.expiry)
}

// GenerateRefreshToken issues a long-lived token that ValidateToken refuses.
func (s *JWTService) GenerateRefreshToken(userID uuid.UUID) (string, error) {
	return s.sign(userID, "", tokenTypeRefresh, s.refreshExpiry)
}

func (s *JWTService) sign(userID uuid.UUID, role, typ string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := Claims{
		UserID: userID,
		Role:   role,
		Type:   typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   userID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Type != "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *JWTService) ValidateRefreshToken(tokenString string) (*Claims, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Type != tokenTypeRefresh {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *JWTService) parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(s.now),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == uuid.Nil {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
