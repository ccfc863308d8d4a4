package jwt

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrTokenExpired     = errors.New("token expired")
	ErrTokenNotYetValid = errors.New("token not yet valid")
	ErrInvalidSignature = errors.New("invalid signature")
	ErrInvalidKey       = errors.New("invalid key")
)

// MinSecretLength is the shortest accepted HMAC secret, in bytes
const MinSecretLength = 32

// Claims represents JWT claims
type Claims struct {
	gojwt.RegisteredClaims

	UserID   int64  `json:"user_id"`
	Username string `json:"username,omitempty"`
	Role     string `json:"role,omitempty"` // Employer, Applicant
}

// Service signs and validates access tokens. It uses RS256 when RSA keys
// are configured and HS256 with a shared secret otherwise.
type Service struct {
	method     gojwt.SigningMethod
	signKey    any
	verifyKey  any
	issuer     string
	audience   string
	expiration time.Duration
	now        func() time.Time
}

// Config holds JWT service configuration
type Config struct {
	PrivateKeyPath string
	PublicKeyPath  string
	Secret         string
	Issuer         string
	Audience       string
	ExpirationMins int
}

// NewService creates a new JWT service. Key files take precedence over a
// shared secret. With neither configured the service can neither sign nor
// validate and every call returns ErrInvalidKey.
func NewService(cfg Config) (*Service, error) {
	s := &Service{
		issuer:     cfg.Issuer,
		audience:   cfg.Audience,
		expiration: time.Duration(cfg.ExpirationMins) * time.Minute,
		now:        time.Now,
	}

	switch {
	case cfg.PrivateKeyPath != "" || cfg.PublicKeyPath != "":
		s.method = gojwt.SigningMethodRS256

		if cfg.PrivateKeyPath != "" {
			privateKey, err := loadPrivateKey(cfg.PrivateKeyPath)
			if err != nil {
				return nil, fmt.Errorf("failed to load private key: %w", err)
			}
			s.signKey = privateKey
			s.verifyKey = &privateKey.PublicKey
		}

		// Public key alone is enough for validation-only services
		if cfg.PublicKeyPath != "" && s.verifyKey == nil {
			publicKey, err := loadPublicKey(cfg.PublicKeyPath)
			if err != nil {
				return nil, fmt.Errorf("failed to load public key: %w", err)
			}
			s.verifyKey = publicKey
		}

	case cfg.Secret != "":
		if len(cfg.Secret) < MinSecretLength {
			return nil, fmt.Errorf("%w: secret must be at least %d bytes", ErrInvalidKey, MinSecretLength)
		}
		s.method = gojwt.SigningMethodHS256
		s.signKey = []byte(cfg.Secret)
		s.verifyKey = []byte(cfg.Secret)
	}

	return s, nil
}

// NewTestService creates an RS256 service with an in-memory key.
// This should only be used in tests, not in production code.
func NewTestService(privateKey *rsa.PrivateKey, issuer string, expiration time.Duration) *Service {
	return &Service{
		method:     gojwt.SigningMethodRS256,
		signKey:    privateKey,
		verifyKey:  &privateKey.PublicKey,
		issuer:     issuer,
		expiration: expiration,
		now:        time.Now,
	}
}

// Sign fills the standard claims and returns a signed token.
// A non-zero ExpiresAt in claims is preserved.
func (s *Service) Sign(claims Claims) (string, error) {
	if s.signKey == nil {
		return "", ErrInvalidKey
	}

	now := s.now()
	claims.Issuer = s.issuer
	if s.audience != "" {
		claims.Audience = gojwt.ClaimStrings{s.audience}
	}
	claims.IssuedAt = gojwt.NewNumericDate(now)
	claims.NotBefore = gojwt.NewNumericDate(now)
	if claims.ExpiresAt == nil {
		claims.ExpiresAt = gojwt.NewNumericDate(now.Add(s.expiration))
	}
	if claims.Subject == "" && claims.UserID != 0 {
		claims.Subject = strconv.FormatInt(claims.UserID, 10)
	}
	if claims.ID == "" {
		claims.ID = uuid.NewString()
	}

	token := gojwt.NewWithClaims(s.method, claims)
	signed, err := token.SignedString(s.signKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign: %w", err)
	}
	return signed, nil
}

// Validate verifies the signature, algorithm, time window, issuer and
// audience of a token and returns its claims.
func (s *Service) Validate(tokenString string) (*Claims, error) {
	if s.verifyKey == nil {
		return nil, ErrInvalidKey
	}

	opts := []gojwt.ParserOption{
		gojwt.WithValidMethods([]string{s.method.Alg()}),
		gojwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, gojwt.WithIssuer(s.issuer))
	}
	if s.audience != "" {
		opts = append(opts, gojwt.WithAudience(s.audience))
	}

	var claims Claims
	_, err := gojwt.ParseWithClaims(tokenString, &claims, func(*gojwt.Token) (any, error) {
		return s.verifyKey, nil
	}, opts...)
	if err != nil {
		return nil, mapParseError(err)
	}

	return &claims, nil
}

// GetExpiration returns the token expiration duration
func (s *Service) GetExpiration() time.Duration {
	return s.expiration
}

// GenerateKeyPair generates a new RSA key pair and saves it to files
func GenerateKeyPair(privateKeyPath, publicKeyPath string) error {
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return fmt.Errorf("failed to generate key: %w", err)
	}

	privateKeyPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(privateKey),
	})
	if err := os.WriteFile(privateKeyPath, privateKeyPEM, 0600); err != nil {
		return fmt.Errorf("failed to write private key: %w", err)
	}

	publicKeyBytes, err := x509.MarshalPKIXPublicKey(&privateKey.PublicKey)
	if err != nil {
		return fmt.Errorf("failed to marshal public key: %w", err)
	}
	publicKeyPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: publicKeyBytes,
	})
	if err := os.WriteFile(publicKeyPath, publicKeyPEM, 0644); err != nil {
		return fmt.Errorf("failed to write public key: %w", err)
	}

	return nil
}

func mapParseError(err error) error {
	switch {
	case errors.Is(err, gojwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, gojwt.ErrTokenNotValidYet):
		return ErrTokenNotYetValid
	case errors.Is(err, gojwt.ErrTokenSignatureInvalid):
		return ErrInvalidSignature
	default:
		return ErrInvalidToken
	}
}

func loadPrivateKey(path string) (*rsa.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return gojwt.ParseRSAPrivateKeyFromPEM(data)
}

func loadPublicKey(path string) (*rsa.PublicKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return gojwt.ParseRSAPublicKeyFromPEM(data)
}
