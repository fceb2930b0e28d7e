package jwt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

var (
	ErrInvalidToken           = errors.New("invalid or missing access token")
	ErrAdminPrivilegeRequired = errors.New("admin privilege required")
)

// Claims are the application claims carried by an access token.
type Claims struct {
	UserID    string
	CompanyID *string
	IsAdmin   bool
}

type Service interface {
	GenerateAccessToken(claims Claims) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpiration time.Duration
	tokenAuth             *jwtauth.JWTAuth
	now                   func() time.Time
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) (Service, error) {
	if secretKey == "" {
		return nil, errors.New("jwt secret key is empty")
	}
	exp, err := time.ParseDuration(accessTokenExpirationTime)
	if err != nil {
		return nil, fmt.Errorf("invalid access token expiration %q: %w", accessTokenExpirationTime, err)
	}

	return &JWTService{
		accessTokenExpiration: exp,
		tokenAuth:             jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		now:                   time.Now,
	}, nil
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) GenerateAccessToken(claims Claims) (token string, expiresAt int64, err error) {
	expiresAt = j.now().Add(j.accessTokenExpiration).Unix()

	payload := map[string]any{
		"user_id":  claims.UserID,
		"is_admin": claims.IsAdmin,
		"type":     "access",
		"exp":      expiresAt,
	}
	if claims.CompanyID != nil {
		payload["company_id"] = *claims.CompanyID
	}

	_, token, err = j.tokenAuth.Encode(payload)
	return token, expiresAt, err
}

// ClaimsFromContext reads the claims verified by jwtauth.Verifier.
func ClaimsFromContext(ctx context.Context) (Claims, error) {
	token, raw, err := jwtauth.FromContext(ctx)
	if err != nil || token == nil {
		return Claims{}, ErrInvalidToken
	}

	if tokenType, ok := raw["type"].(string); !ok || tokenType != "access" {
		return Claims{}, ErrInvalidToken
	}

	var c Claims
	c.UserID, _ = raw["user_id"].(string)
	c.IsAdmin, _ = raw["is_admin"].(bool)
	if companyID, ok := raw["company_id"].(string); ok && companyID != "" {
		c.CompanyID = &companyID
	}
	return c, nil
}

// CanActOn reports whether the token may act on companyID. Tokens without a
// company claim are platform-wide.
func (c Claims) CanActOn(companyID string) bool {
	return c.CompanyID == nil || *c.CompanyID == companyID
}
