package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/phrazzld/taskr-api/internal/domain"
	"github.com/phrazzld/taskr-api/internal/mocks"
	"github.com/phrazzld/taskr-api/internal/service"
	"github.com/phrazzld/taskr-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a USER with a hashed password", func(t *testing.T) {
		users := mocks.NewMockUserStore()
		svc := service.NewUserService(users, &mocks.MockPasswordHasher{}, quietLogger())

		user, err := svc.Register(ctx, " A@X.com ", "secret1")
		require.NoError(t, err)
		assert.Equal(t, "a@x.com", user.Email)
		assert.Equal(t, domain.RoleUser, user.Role)
		assert.Equal(t, "hashed:secret1", user.HashedPassword)

		stored, err := users.GetByEmail(ctx, "a@x.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, stored.ID)
	})

	t.Run("duplicate email conflicts regardless of case", func(t *testing.T) {
		users := mocks.NewMockUserStore()
		svc := service.NewUserService(users, &mocks.MockPasswordHasher{}, quietLogger())

		_, err := svc.Register(ctx, "a@x.com", "secret1")
		require.NoError(t, err)
		_, err = svc.Register(ctx, "A@x.COM", "another1")
		assert.ErrorIs(t, err, store.ErrEmailExists)
	})

	t.Run("hash failure", func(t *testing.T) {
		hashErr := errors.New("hash failed")
		hasher := &mocks.MockPasswordHasher{HashFn: func(string) (string, error) { return "", hashErr }}
		svc := service.NewUserService(mocks.NewMockUserStore(), hasher, quietLogger())

		_, err := svc.Register(ctx, "a@x.com", "secret1")
		assert.ErrorIs(t, err, hashErr)
	})

	t.Run("store failure is wrapped", func(t *testing.T) {
		storeMock := new(mocks.TestifyMockUserStore)
		dbErr := errors.New("connection reset")
		storeMock.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
			return u.Email == "a@x.com" && u.Role == domain.RoleUser
		})).Return(dbErr)

		svc := service.NewUserService(storeMock, &mocks.MockPasswordHasher{}, quietLogger())
		_, err := svc.Register(ctx, "a@x.com", "secret1")

		assert.ErrorIs(t, err, dbErr)
		storeMock.AssertExpectations(t)
	})
}

func TestUserService_Authenticate(t *testing.T) {
	ctx := context.Background()
	users := mocks.NewMockUserStore()
	hasher := &mocks.MockPasswordHasher{}
	svc := service.NewUserService(users, hasher, quietLogger())

	member, err := svc.Register(ctx, "user@x.com", "secret1")
	require.NoError(t, err)
	admin, err := domain.NewUser("admin@x.com", "hashed:adminpw", domain.RoleAdmin)
	require.NoError(t, err)
	users.Put(admin)

	tests := []struct {
		name     string
		login    func(context.Context, string, string) (*domain.User, error)
		email    string
		password string
		wantID   string
		wantErr  error
	}{
		{"user login", svc.Authenticate, "USER@x.com", "secret1", member.ID.String(), nil},
		{"wrong password", svc.Authenticate, "user@x.com", "nope", "", service.ErrInvalidCredentials},
		{"unknown email", svc.Authenticate, "ghost@x.com", "secret1", "", service.ErrInvalidCredentials},
		{"admin via plain login", svc.Authenticate, "admin@x.com", "adminpw", admin.ID.String(), nil},
		{"admin login", svc.AuthenticateAdmin, "admin@x.com", "adminpw", admin.ID.String(), nil},
		{"admin login by non-admin", svc.AuthenticateAdmin, "user@x.com", "secret1", "", service.ErrInvalidCredentials},
		{"admin login wrong password", svc.AuthenticateAdmin, "admin@x.com", "nope", "", service.ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := tt.login(ctx, tt.email, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, user.ID.String())
		})
	}

	t.Run("store failure is not reported as bad credentials", func(t *testing.T) {
		storeMock := new(mocks.TestifyMockUserStore)
		dbErr := errors.New("timeout")
		storeMock.On("GetByEmail", mock.Anything, "user@x.com").Return(nil, dbErr)

		_, err := service.NewUserService(storeMock, hasher, quietLogger()).
			Authenticate(ctx, "user@x.com", "secret1")

		assert.ErrorIs(t, err, dbErr)
		assert.NotErrorIs(t, err, service.ErrInvalidCredentials)
		storeMock.AssertExpectations(t)
	})
}

func TestUserService_EnsureDefaultAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("creates missing admin", func(t *testing.T) {
		users := mocks.NewMockUserStore()
		svc := service.NewUserService(users, &mocks.MockPasswordHasher{}, quietLogger())

		user, result, err := svc.EnsureDefaultAdmin(ctx, "admin@x.com", "adminpw")
		require.NoError(t, err)
		assert.Equal(t, service.SeedCreated, result)
		assert.True(t, user.IsAdmin())

		_, result, err = svc.EnsureDefaultAdmin(ctx, "admin@x.com", "adminpw")
		require.NoError(t, err)
		assert.Equal(t, service.SeedUnchanged, result)
	})

	t.Run("promotes existing user and resyncs password", func(t *testing.T) {
		users := mocks.NewMockUserStore()
		svc := service.NewUserService(users, &mocks.MockPasswordHasher{}, quietLogger())
		existing, err := svc.Register(ctx, "admin@x.com", "oldpass")
		require.NoError(t, err)

		user, result, err := svc.EnsureDefaultAdmin(ctx, "admin@x.com", "newpass")
		require.NoError(t, err)
		assert.Equal(t, service.SeedUpdated, result)
		assert.Equal(t, existing.ID, user.ID)

		stored, err := users.GetByEmail(ctx, "admin@x.com")
		require.NoError(t, err)
		assert.Equal(t, domain.RoleAdmin, stored.Role)
		assert.Equal(t, "hashed:newpass", stored.HashedPassword)
	})

	t.Run("concurrent registration is promoted", func(t *testing.T) {
		storeMock := new(mocks.TestifyMockUserStore)
		raced := &domain.User{Email: "admin@x.com", HashedPassword: "hashed:adminpw", Role: domain.RoleUser}

		storeMock.On("GetByEmail", mock.Anything, "admin@x.com").Return(nil, store.ErrUserNotFound).Once()
		storeMock.On("Create", mock.Anything, mock.Anything).Return(store.ErrEmailExists).Once()
		storeMock.On("GetByEmail", mock.Anything, "admin@x.com").Return(raced, nil).Once()
		storeMock.On("Update", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
			return u.Role == domain.RoleAdmin
		})).Return(nil).Once()

		svc := service.NewUserService(storeMock, &mocks.MockPasswordHasher{}, quietLogger())
		_, result, err := svc.EnsureDefaultAdmin(ctx, "admin@x.com", "adminpw")

		require.NoError(t, err)
		assert.Equal(t, service.SeedUpdated, result)
		storeMock.AssertExpectations(t)
	})

	t.Run("update failure", func(t *testing.T) {
		users := mocks.NewMockUserStore()
		updateErr := errors.New("update failed")
		users.UpdateFn = func(context.Context, *domain.User) error { return updateErr }
		svc := service.NewUserService(users, &mocks.MockPasswordHasher{}, quietLogger())
		_, err := svc.Register(ctx, "admin@x.com", "adminpw")
		require.NoError(t, err)

		_, _, err = svc.EnsureDefaultAdmin(ctx, "admin@x.com", "adminpw")
		assert.ErrorIs(t, err, updateErr)
	})
}
