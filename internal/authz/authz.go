package authz

import (
	"context"
	"errors"
	"slices"

	"github.com/forgo/jobboard/internal/model"
	"github.com/forgo/jobboard/pkg/jwt"
)

var (
	ErrMissingCredential = errors.New("missing credential")
	ErrInvalidCredential = errors.New("invalid credential")
	ErrCredentialExpired = errors.New("credential expired")
	ErrUnauthenticated   = errors.New("authentication required")
	ErrForbidden         = errors.New("role not permitted for this operation")
	ErrNotOwner          = errors.New("caller does not own this resource")
)

// Identity is an authenticated caller. The zero value, and a nil pointer,
// are unauthenticated.
type Identity struct {
	UserID   int64
	Username string
	Role     model.UserRole
}

// Authenticated reports whether the identity carries a usable user id
func (i *Identity) Authenticated() bool {
	return i != nil && i.UserID > 0
}

// TokenValidator verifies a bearer token and returns its claims
type TokenValidator interface {
	Validate(token string) (*jwt.Claims, error)
}

// Gate turns bearer credentials into identities
type Gate struct {
	tokens TokenValidator
}

// NewGate creates a gate backed by the given token validator
func NewGate(tokens TokenValidator) *Gate {
	return &Gate{tokens: tokens}
}

// Resolve validates credential and returns the caller it identifies.
func (g *Gate) Resolve(credential string) (*Identity, error) {
	if credential == "" {
		return nil, ErrMissingCredential
	}

	claims, err := g.tokens.Validate(credential)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrCredentialExpired
		}
		return nil, ErrInvalidCredential
	}

	role := model.UserRole(claims.Role)
	if claims.UserID <= 0 || !role.Valid() {
		return nil, ErrInvalidCredential
	}

	return &Identity{
		UserID:   claims.UserID,
		Username: claims.Username,
		Role:     role,
	}, nil
}

// RequireRole fails closed: an unauthenticated caller or one whose role is
// not in allowed is rejected.
func RequireRole(caller *Identity, allowed ...model.UserRole) error {
	if !caller.Authenticated() {
		return ErrUnauthenticated
	}
	if !slices.Contains(allowed, caller.Role) {
		return ErrForbidden
	}
	return nil
}

// IdentityOf returns the caller's stable numeric id
func IdentityOf(caller *Identity) (int64, error) {
	if !caller.Authenticated() {
		return 0, ErrUnauthenticated
	}
	return caller.UserID, nil
}

// RequireOwnership rejects callers whose id differs from ownerID
func RequireOwnership(caller *Identity, ownerID int64) error {
	id, err := IdentityOf(caller)
	if err != nil {
		return err
	}
	if id != ownerID {
		return ErrNotOwner
	}
	return nil
}

type contextKey struct{}

// WithIdentity stores the caller in ctx
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the caller stored in ctx, or nil
func FromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(contextKey{}).(*Identity)
	return id
}
