package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/forgo/jobboard/internal/database"
	"github.com/forgo/jobboard/internal/model"
	"github.com/forgo/jobboard/pkg/jwt"
)

// ============================================================================
// Mock Repository
// ============================================================================

type mockUserRepo struct {
	mu            sync.Mutex
	users         map[int64]*model.User
	usernameIndex map[string]*model.User
	nextID        int64

	createErr error
	getErr    error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		users:         make(map[int64]*model.User),
		usernameIndex: make(map[string]*model.User),
	}
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	if _, taken := m.usernameIndex[user.Username]; taken {
		return database.ErrDuplicate
	}
	m.nextID++
	user.ID = m.nextID
	user.CreatedOn = time.Now()
	user.UpdatedOn = user.CreatedOn
	m.users[user.ID] = user
	m.usernameIndex[user.Username] = user
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.users[id], nil
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.usernameIndex[username], nil
}

// ============================================================================
// Test Helpers
// ============================================================================

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestAuthService(t *testing.T, repo UserRepository) (*AuthService, *jwt.Service) {
	t.Helper()
	signer, err := jwt.NewService(jwt.Config{Secret: testSecret, Issuer: "jobboard", ExpirationMins: 60})
	require.NoError(t, err)

	svc := NewAuthService(AuthServiceConfig{
		UserRepo:     repo,
		TokenService: NewTokenService(TokenServiceConfig{Signer: signer}),
		BcryptCost:   bcrypt.MinCost,
	})
	return svc, signer
}

func registerReq(username string, role model.UserRole) *model.RegisterRequest {
	return &model.RegisterRequest{
		Username: username,
		Password: "correct-horse",
		Name:     "Test User",
		Role:     role,
	}
}

// ============================================================================
// Register
// ============================================================================

func TestRegister_Success(t *testing.T) {
	t.Parallel()
	repo := newMockUserRepo()
	svc, signer := newTestAuthService(t, repo)

	result, err := svc.Register(context.Background(), registerReq("Acme", model.UserRoleEmployer))
	require.NoError(t, err)

	assert.Equal(t, "acme", result.User.Username)
	assert.Equal(t, model.UserRoleEmployer, result.User.Role)
	assert.NotZero(t, result.User.ID)
	assert.NotEqual(t, "correct-horse", result.User.Hash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(result.User.Hash), []byte("correct-horse")))

	assert.Equal(t, "Bearer", result.Token.TokenType)
	assert.Equal(t, 3600, result.Token.ExpiresIn)

	claims, err := signer.Validate(result.Token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, claims.UserID)
	assert.Equal(t, "Employer", claims.Role)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	t.Parallel()
	repo := newMockUserRepo()
	svc, _ := newTestAuthService(t, repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq("duplicateuser", model.UserRoleApplicant))
	require.NoError(t, err)

	_, err = svc.Register(ctx, registerReq("DuplicateUser", model.UserRoleEmployer))
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestRegister_DuplicateFromRepositoryRace(t *testing.T) {
	t.Parallel()
	repo := newMockUserRepo()
	repo.createErr = database.ErrDuplicate
	svc, _ := newTestAuthService(t, repo)

	_, err := svc.Register(context.Background(), registerReq("newuser", model.UserRoleApplicant))
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestRegister_ValidationErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		req   *model.RegisterRequest
		field string
	}{
		{"short password", &model.RegisterRequest{Username: "abc", Password: "short", Name: "n", Role: model.UserRoleApplicant}, "password"},
		{"bad role", &model.RegisterRequest{Username: "abc", Password: "long-enough", Name: "n", Role: "Admin"}, "role"},
		{"bad username chars", &model.RegisterRequest{Username: "a b c", Password: "long-enough", Name: "n", Role: model.UserRoleApplicant}, "username"},
		{"missing name", &model.RegisterRequest{Username: "abc", Password: "long-enough", Role: model.UserRoleApplicant}, "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			repo := newMockUserRepo()
			svc, _ := newTestAuthService(t, repo)

			_, err := svc.Register(context.Background(), tt.req)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			require.NotEmpty(t, verr.Fields)
			assert.Equal(t, tt.field, verr.Fields[0].Field)
			assert.Empty(t, repo.users)
		})
	}
}

func TestRegister_PasswordLengthInBytes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"ascii over limit", strings.Repeat("a", 100), true},
		{"multibyte over limit", strings.Repeat("é", 40), true},
		{"exactly at limit", strings.Repeat("a", 72), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			repo := newMockUserRepo()
			svc, _ := newTestAuthService(t, repo)

			req := registerReq("longpass", model.UserRoleApplicant)
			req.Password = tt.password
			result, err := svc.Register(context.Background(), req)

			if !tt.wantErr {
				require.NoError(t, err)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(result.User.Hash), []byte(tt.password)))
				return
			}

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			require.Len(t, verr.Fields, 1)
			assert.Equal(t, "password", verr.Fields[0].Field)
			assert.Empty(t, repo.users)
		})
	}
}

func TestRegister_RepositoryErrorPropagates(t *testing.T) {
	t.Parallel()
	repo := newMockUserRepo()
	repo.getErr = errors.New("db down")
	svc, _ := newTestAuthService(t, repo)

	_, err := svc.Register(context.Background(), registerReq("newuser", model.UserRoleApplicant))
	assert.ErrorIs(t, err, repo.getErr)
}

// ============================================================================
// Login
// ============================================================================

func TestLogin_Success(t *testing.T) {
	t.Parallel()
	repo := newMockUserRepo()
	svc, _ := newTestAuthService(t, repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq("testuser", model.UserRoleApplicant))
	require.NoError(t, err)

	result, err := svc.Login(ctx, &model.LoginRequest{Username: " TestUser ", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, "testuser", result.User.Username)
	assert.NotEmpty(t, result.Token.AccessToken)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	t.Parallel()
	repo := newMockUserRepo()
	svc, _ := newTestAuthService(t, repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq("testuser", model.UserRoleApplicant))
	require.NoError(t, err)

	_, err = svc.Login(ctx, &model.LoginRequest{Username: "testuser", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, &model.LoginRequest{Username: "nobody", Password: "correct-horse"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_MissingFields(t *testing.T) {
	t.Parallel()
	svc, _ := newTestAuthService(t, newMockUserRepo())

	_, err := svc.Login(context.Background(), &model.LoginRequest{Username: "test"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "password", verr.Fields[0].Field)
}

// ============================================================================
// IsUserUnique / GetUserByID
// ============================================================================

func TestIsUserUnique(t *testing.T) {
	t.Parallel()
	repo := newMockUserRepo()
	svc, _ := newTestAuthService(t, repo)
	ctx := context.Background()

	unique, err := svc.IsUserUnique(ctx, "acme")
	require.NoError(t, err)
	assert.True(t, unique)

	_, err = svc.Register(ctx, registerReq("acme", model.UserRoleEmployer))
	require.NoError(t, err)

	unique, err = svc.IsUserUnique(ctx, "ACME")
	require.NoError(t, err)
	assert.False(t, unique)
}

func TestGetUserByID(t *testing.T) {
	t.Parallel()
	repo := newMockUserRepo()
	svc, _ := newTestAuthService(t, repo)
	ctx := context.Background()

	reg, err := svc.Register(ctx, registerReq("acme", model.UserRoleEmployer))
	require.NoError(t, err)

	user, err := svc.GetUserByID(ctx, reg.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "acme", user.Username)

	_, err = svc.GetUserByID(ctx, 999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

// ============================================================================
// TokenService
// ============================================================================

type failingSigner struct{}

func (failingSigner) Sign(jwt.Claims) (string, error) { return "", jwt.ErrInvalidKey }
func (failingSigner) GetExpiration() time.Duration   { return time.Minute }

func TestTokenService_SignerErrorPropagates(t *testing.T) {
	t.Parallel()
	svc := NewTokenService(TokenServiceConfig{Signer: failingSigner{}})

	_, err := svc.IssueAccessToken(&model.User{ID: 1, Role: model.UserRoleEmployer})
	assert.ErrorIs(t, err, jwt.ErrInvalidKey)
}
