package authz

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgo/jobboard/internal/model"
	"github.com/forgo/jobboard/pkg/jwt"
)

// ============================================================================
// Mock Validator
// ============================================================================

type mockValidator struct {
	validateFunc func(token string) (*jwt.Claims, error)
}

func (m *mockValidator) Validate(token string) (*jwt.Claims, error) {
	return m.validateFunc(token)
}

func claimsValidator(userID int64, role string) *mockValidator {
	return &mockValidator{validateFunc: func(string) (*jwt.Claims, error) {
		return &jwt.Claims{UserID: userID, Username: "u", Role: role}, nil
	}}
}

func errorValidator(err error) *mockValidator {
	return &mockValidator{validateFunc: func(string) (*jwt.Claims, error) {
		return nil, err
	}}
}

// ============================================================================
// Resolve
// ============================================================================

func TestResolve_ValidToken_ReturnsIdentity(t *testing.T) {
	t.Parallel()
	gate := NewGate(claimsValidator(7, "Employer"))

	id, err := gate.Resolve("token")
	require.NoError(t, err)
	assert.Equal(t, int64(7), id.UserID)
	assert.Equal(t, model.UserRoleEmployer, id.Role)
}

func TestResolve_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		validator  TokenValidator
		credential string
		want       error
	}{
		{"empty credential", claimsValidator(7, "Employer"), "", ErrMissingCredential},
		{"expired", errorValidator(jwt.ErrTokenExpired), "t", ErrCredentialExpired},
		{"bad signature", errorValidator(jwt.ErrInvalidSignature), "t", ErrInvalidCredential},
		{"arbitrary failure", errorValidator(errors.New("boom")), "t", ErrInvalidCredential},
		{"missing user id", claimsValidator(0, "Employer"), "t", ErrInvalidCredential},
		{"unknown role", claimsValidator(7, "admin"), "t", ErrInvalidCredential},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			id, err := NewGate(tt.validator).Resolve(tt.credential)
			assert.Nil(t, id)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestResolve_RealTokens(t *testing.T) {
	t.Parallel()
	svc, err := jwt.NewService(jwt.Config{Secret: "0123456789abcdef0123456789abcdef", Issuer: "jobboard", ExpirationMins: 5})
	require.NoError(t, err)

	token, err := svc.Sign(jwt.Claims{UserID: 12, Username: "jane", Role: string(model.UserRoleApplicant)})
	require.NoError(t, err)

	id, err := NewGate(svc).Resolve(token)
	require.NoError(t, err)
	assert.Equal(t, &Identity{UserID: 12, Username: "jane", Role: model.UserRoleApplicant}, id)
}

// ============================================================================
// RequireRole / IdentityOf / RequireOwnership
// ============================================================================

func TestRequireRole(t *testing.T) {
	t.Parallel()

	employer := &Identity{UserID: 1, Role: model.UserRoleEmployer}
	applicant := &Identity{UserID: 2, Role: model.UserRoleApplicant}

	assert.NoError(t, RequireRole(employer, model.UserRoleEmployer))
	assert.NoError(t, RequireRole(applicant, model.UserRoleEmployer, model.UserRoleApplicant))
	assert.ErrorIs(t, RequireRole(applicant, model.UserRoleEmployer), ErrForbidden)
	assert.ErrorIs(t, RequireRole(nil, model.UserRoleEmployer), ErrUnauthenticated)
	assert.ErrorIs(t, RequireRole(&Identity{}, model.UserRoleEmployer), ErrUnauthenticated)
}

func TestRequireRole_NoAllowedRoles_FailsClosed(t *testing.T) {
	t.Parallel()
	assert.ErrorIs(t, RequireRole(&Identity{UserID: 1, Role: model.UserRoleEmployer}), ErrForbidden)
}

func TestIdentityOf(t *testing.T) {
	t.Parallel()

	id, err := IdentityOf(&Identity{UserID: 42, Role: model.UserRoleEmployer})
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	_, err = IdentityOf(nil)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestRequireOwnership(t *testing.T) {
	t.Parallel()
	caller := &Identity{UserID: 5, Role: model.UserRoleEmployer}

	assert.NoError(t, RequireOwnership(caller, 5))
	assert.ErrorIs(t, RequireOwnership(caller, 6), ErrNotOwner)
	assert.ErrorIs(t, RequireOwnership(nil, 5), ErrUnauthenticated)
}

// ============================================================================
// Context
// ============================================================================

func TestContext_RoundTrip(t *testing.T) {
	t.Parallel()

	assert.Nil(t, FromContext(context.Background()))

	id := &Identity{UserID: 3, Role: model.UserRoleApplicant}
	ctx := WithIdentity(context.Background(), id)
	assert.Same(t, id, FromContext(ctx))
}
