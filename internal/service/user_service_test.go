package service

import (
	"context"
	"testing"
	"time"

	"creditdesk/internal/model"
	"creditdesk/internal/rbac"
	"creditdesk/pkg/apperr"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeUserRepo struct {
	users  map[string]*model.User
	tokens map[string]*model.RefreshToken
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:  make(map[string]*model.User),
		tokens: make(map[string]*model.RefreshToken),
	}
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	user.ID = uuid.New()
	stored := *user
	f.users[user.ID.String()] = &stored
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, user := range f.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) List(_ context.Context, _, _ int) ([]model.User, int64, error) {
	var out []model.User
	for _, user := range f.users {
		out = append(out, *user)
	}
	return out, int64(len(out)), nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *model.User) error {
	stored := *user
	f.users[user.ID.String()] = &stored
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id string) error {
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) SaveRefreshToken(_ context.Context, token *model.RefreshToken) error {
	stored := *token
	f.tokens[token.Token] = &stored
	return nil
}

func (f *fakeUserRepo) GetRefreshToken(_ context.Context, token string) (*model.RefreshToken, error) {
	refresh, ok := f.tokens[token]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *refresh
	return &copied, nil
}

func (f *fakeUserRepo) DeleteRefreshToken(_ context.Context, token string) error {
	delete(f.tokens, token)
	return nil
}

type userFixture struct {
	svc       UserService
	repo      *fakeUserRepo
	auditRepo *fakeAuditRepo
}

func newUserFixture() *userFixture {
	repo := newFakeUserRepo()
	auditRepo := &fakeAuditRepo{}
	svc := NewUserService(repo, NewAuditService(auditRepo), rbac.Default(), []byte("test-secret"))
	return &userFixture{svc: svc, repo: repo, auditRepo: auditRepo}
}

func (f *userFixture) seedUser(t *testing.T, username, email, password, role string) *UserResponse {
	t.Helper()
	user, err := f.svc.CreateUser(context.Background(), adminActor(), CreateUserRequest{
		Username: username,
		Email:    email,
		Phone:    "9000000001",
		Password: password,
		Role:     role,
	})
	require.NoError(t, err)
	return user
}

func TestCreateUserRejectsUnknownRole(t *testing.T) {
	f := newUserFixture()

	_, err := f.svc.CreateUser(context.Background(), adminActor(), CreateUserRequest{
		Username: "eve",
		Email:    "eve@example.com",
		Phone:    "9000000002",
		Password: "secret123",
		Role:     "superuser",
	})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestCreateUserRejectsDuplicates(t *testing.T) {
	f := newUserFixture()
	f.seedUser(t, "ravi", "ravi@example.com", "secret123", rbac.RoleSalesman)

	_, err := f.svc.CreateUser(context.Background(), adminActor(), CreateUserRequest{
		Username: "ravi",
		Email:    "other@example.com",
		Phone:    "9000000003",
		Password: "secret123",
		Role:     rbac.RoleSalesman,
	})
	assert.ErrorIs(t, err, apperr.ErrDuplicateState)

	_, err = f.svc.CreateUser(context.Background(), adminActor(), CreateUserRequest{
		Username: "ravi2",
		Email:    "ravi@example.com",
		Phone:    "9000000004",
		Password: "secret123",
		Role:     rbac.RoleSalesman,
	})
	assert.ErrorIs(t, err, apperr.ErrDuplicateState)
}

func TestLoginIssuesTokenPair(t *testing.T) {
	f := newUserFixture()
	f.seedUser(t, "ravi", "ravi@example.com", "secret123", rbac.RoleSalesman)

	tokens, err := f.svc.Login(context.Background(), "10.0.0.1", LoginUserRequest{
		Email:    "ravi@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.Token)
	assert.NotEmpty(t, tokens.RefreshToken)

	// The refresh token is persisted for later rotation
	_, err = f.repo.GetRefreshToken(context.Background(), tokens.RefreshToken)
	assert.NoError(t, err)
}

func TestLoginFailuresAreAudited(t *testing.T) {
	f := newUserFixture()
	f.seedUser(t, "ravi", "ravi@example.com", "secret123", rbac.RoleSalesman)
	seeded := len(f.auditRepo.entries)

	_, err := f.svc.Login(context.Background(), "10.0.0.1", LoginUserRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	require.Error(t, err)

	_, err = f.svc.Login(context.Background(), "10.0.0.1", LoginUserRequest{
		Email:    "ravi@example.com",
		Password: "wrong-password",
	})
	require.Error(t, err)

	entries := f.auditRepo.entries[seeded:]
	require.Len(t, entries, 2)

	// Unknown email: no user id on the entry
	assert.False(t, entries[0].Success)
	assert.Nil(t, entries[0].UserID)

	// Wrong password: the user is known, so the entry carries the id
	assert.False(t, entries[1].Success)
	assert.NotNil(t, entries[1].UserID)
}

func TestRefreshTokenRotates(t *testing.T) {
	f := newUserFixture()
	f.seedUser(t, "ravi", "ravi@example.com", "secret123", rbac.RoleSalesman)

	tokens, err := f.svc.Login(context.Background(), "10.0.0.1", LoginUserRequest{
		Email:    "ravi@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	rotated, err := f.svc.RefreshToken(context.Background(), tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, tokens.RefreshToken, rotated.RefreshToken)

	// Old token is single-use
	_, err = f.svc.RefreshToken(context.Background(), tokens.RefreshToken)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRefreshTokenExpired(t *testing.T) {
	f := newUserFixture()
	user := f.seedUser(t, "ravi", "ravi@example.com", "secret123", rbac.RoleSalesman)

	expired := &model.RefreshToken{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, f.repo.SaveRefreshToken(context.Background(), expired))

	_, err := f.svc.RefreshToken(context.Background(), expired.Token)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	// Expired tokens are purged on sight
	_, err = f.repo.GetRefreshToken(context.Background(), expired.Token)
	assert.Error(t, err)
}

func TestGetProfileIncludesPermissions(t *testing.T) {
	f := newUserFixture()
	user := f.seedUser(t, "ravi", "ravi@example.com", "secret123", rbac.RoleSalesman)

	profile, err := f.svc.GetProfile(context.Background(), user.ID.String())
	require.NoError(t, err)
	assert.Contains(t, profile.Permissions, "bills.create")
	assert.NotContains(t, profile.Permissions, "bills.verify")
}

func TestUpdateUserRoleChange(t *testing.T) {
	f := newUserFixture()
	user := f.seedUser(t, "ravi", "ravi@example.com", "secret123", rbac.RoleSalesman)

	_, err := f.svc.UpdateUser(context.Background(), adminActor(), user.ID.String(), UpdateUserRequest{Role: "superuser"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	updated, err := f.svc.UpdateUser(context.Background(), adminActor(), user.ID.String(), UpdateUserRequest{Role: rbac.RoleComputerOrganiser})
	require.NoError(t, err)
	assert.Equal(t, rbac.RoleComputerOrganiser, updated.Role)
}
