package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Claims is the JWT payload. Admin tokens carry only the role; user
// tokens carry the user id.
type Claims struct {
	UserID int64  `json:"user_id,omitempty"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies bearer tokens for both users and the
// admin panel, with separate lifetimes.
type TokenService struct {
	secret   []byte
	userTTL  time.Duration
	adminTTL time.Duration
}

// NewTokenService returns a configured token service.
func NewTokenService(secret string, userTTL, adminTTL time.Duration) *TokenService {
	if userTTL <= 0 {
		userTTL = 168 * time.Hour
	}
	if adminTTL <= 0 {
		adminTTL = 24 * time.Hour
	}
	return &TokenService{secret: []byte(secret), userTTL: userTTL, adminTTL: adminTTL}
}

// GenerateUserToken issues a JWT for the given user.
func (t *TokenService) GenerateUserToken(userID int64) (string, error) {
	if userID == 0 {
		return "", errors.New("token: user id is required")
	}
	return t.sign(Claims{UserID: userID, Role: RoleUser}, t.userTTL)
}

// GenerateAdminToken issues an admin-scoped JWT with no user identity.
func (t *TokenService) GenerateAdminToken() (string, error) {
	return t.sign(Claims{Role: RoleAdmin}, t.adminTTL)
}

func (t *TokenService) sign(claims Claims, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// ValidateToken verifies signature and expiry and returns the claims.
func (t *TokenService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("token: unexpected signing method")
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("token: invalid claims")
}
