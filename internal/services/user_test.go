package services_test

import (
	"context"
	"testing"
	"time"

	"medscan-backend/internal/models"
	"medscan-backend/internal/repository"
	"medscan-backend/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUserRepo struct {
	users map[string]*models.User // keyed by id
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*models.User)}
}

func (r *stubUserRepo) Create(_ context.Context, user *models.User) error {
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *stubUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNoRows
	}
	cp := *user
	return &cp, nil
}

func (r *stubUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			cp := *user
			return &cp, nil
		}
	}
	return nil, repository.ErrNoRows
}

func (r *stubUserRepo) EmailExists(_ context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(context.Background(), email)
	return err == nil, nil
}

func (r *stubUserRepo) UpdateName(_ context.Context, userID, name string) error {
	user, ok := r.users[userID]
	if !ok {
		return repository.ErrNoRows
	}
	user.Name = name
	return nil
}

func newUserService(t *testing.T, repo services.UserRepository, mode services.Mode) (*services.UserService, *services.TokenService) {
	t.Helper()
	tokens, err := services.NewTokenService(testSecret, time.Hour)
	require.NoError(t, err)
	return services.NewUserService(repo, tokens, mode), tokens
}

func TestRegisterLoginRoundTrip(t *testing.T) {
	repo := newStubUserRepo()
	svc, tokens := newUserService(t, repo, services.ModeNormal)
	ctx := context.Background()

	registered, _, err := svc.Register(ctx, "alice@example.com", "Alice", "s3cret")
	require.NoError(t, err)

	user, token, err := svc.Login(ctx, "alice@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	subject, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, subject)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newUserService(t, newStubUserRepo(), services.ModeNormal)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "alice@example.com", "Alice", "s3cret")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, _, err = svc.Register(ctx, "alice@example.com", "Someone Else", "other")
		assert.ErrorIs(t, err, services.ErrDuplicateEmail)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newUserService(t, newStubUserRepo(), services.ModeNormal)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "alice@example.com", "Alice", "s3cret")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "alice@example.com", "wrong")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _ := newUserService(t, newStubUserRepo(), services.ModeNormal)

	_, _, err := svc.Login(context.Background(), "nobody@example.com", "s3cret")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}

func TestRegisterStoresHashNotPlaintext(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newUserService(t, repo, services.ModeNormal)

	user, _, err := svc.Register(context.Background(), "alice@example.com", "Alice", "s3cret")
	require.NoError(t, err)

	stored := repo.users[user.ID]
	require.NotNil(t, stored)
	assert.NotEqual(t, "s3cret", stored.PasswordHash)
	assert.True(t, services.VerifyPassword("s3cret", stored.PasswordHash))
}

func TestDegradedRegisterSynthesizesIdentity(t *testing.T) {
	svc, tokens := newUserService(t, nil, services.ModeDegraded)
	ctx := context.Background()

	first, token, err := svc.Register(ctx, "alice@example.com", "Alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", first.Email)

	subject, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, first.ID, subject)

	// Every call fabricates a fresh identity; nothing is checked or stored.
	second, _, err := svc.Register(ctx, "alice@example.com", "Alice", "s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestDegradedLoginAlwaysSucceeds(t *testing.T) {
	svc, _ := newUserService(t, nil, services.ModeDegraded)

	user, token, err := svc.Login(context.Background(), "whoever@example.com", "any-password")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, services.DemoName, user.Name)
}

func TestResolveIdentityNormal(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newUserService(t, repo, services.ModeNormal)
	ctx := context.Background()

	user, _, err := svc.Register(ctx, "alice@example.com", "Alice", "s3cret")
	require.NoError(t, err)

	identity, err := svc.ResolveIdentity(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, identity.ID)

	_, err = svc.ResolveIdentity(ctx, "no-such-user")
	assert.Error(t, err)
}

func TestResolveIdentityDegraded(t *testing.T) {
	svc, _ := newUserService(t, nil, services.ModeDegraded)

	identity, err := svc.ResolveIdentity(context.Background(), "subject-42")
	require.NoError(t, err)
	assert.Equal(t, "subject-42", identity.ID)
	assert.Equal(t, services.DemoEmail, identity.Email)
}

func TestUpdateProfileEmptyNameIsNoop(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newUserService(t, repo, services.ModeNormal)
	ctx := context.Background()

	user, _, err := svc.Register(ctx, "alice@example.com", "Alice", "s3cret")
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(ctx, user, "")
	require.NoError(t, err)
	assert.Equal(t, "Alice", updated.Name)
}

func TestUpdateProfileChangesName(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newUserService(t, repo, services.ModeNormal)
	ctx := context.Background()

	user, _, err := svc.Register(ctx, "alice@example.com", "Alice", "s3cret")
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(ctx, user, "Alice Cooper")
	require.NoError(t, err)
	assert.Equal(t, "Alice Cooper", updated.Name)
	assert.Equal(t, "Alice Cooper", repo.users[user.ID].Name)
}
