package service

import (
	"time"

	"github.com/forgo/jobboard/internal/model"
	"github.com/forgo/jobboard/pkg/jwt"
)

// TokenSigner issues signed access tokens
type TokenSigner interface {
	Sign(claims jwt.Claims) (string, error)
	GetExpiration() time.Duration
}

// TokenService issues bearer tokens for authenticated users
type TokenService struct {
	signer TokenSigner
}

// TokenServiceConfig holds configuration for the token service
type TokenServiceConfig struct {
	Signer TokenSigner
}

// NewTokenService creates a new token service
func NewTokenService(cfg TokenServiceConfig) *TokenService {
	return &TokenService{signer: cfg.Signer}
}

// AccessToken is returned to clients after register or login
type AccessToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"` // seconds
}

// IssueAccessToken signs a token carrying the user's id, username and role
func (s *TokenService) IssueAccessToken(user *model.User) (*AccessToken, error) {
	token, err := s.signer.Sign(jwt.Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     string(user.Role),
	})
	if err != nil {
		return nil, err
	}

	return &AccessToken{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.signer.GetExpiration().Seconds()),
	}, nil
}
