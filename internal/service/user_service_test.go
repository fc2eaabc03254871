package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	apperrors "userhub/internal/errors"
	"userhub/internal/model"
)

// fakeCache is a map-backed cache.Store for tests.
type fakeCache struct {
	store map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: make(map[string][]byte)}
}

func (f *fakeCache) Get(ctx context.Context, key string) ([]byte, error) {
	return f.store[key], nil
}

func (f *fakeCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	f.store[key] = value
	return nil
}

func (f *fakeCache) Delete(ctx context.Context, key string) error {
	delete(f.store, key)
	return nil
}

func TestUserService_Create(t *testing.T) {
	repo := new(MockUserRepository)
	provider := new(MockProvider)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

	svc := NewUserService(repo, provider, newFakeCache())
	user, err := svc.Create(context.Background(), "ext-1", "ada@example.com", "Ada")

	assert.NoError(t, err)
	assert.Equal(t, "ext-1", user.UID)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.False(t, user.IsAdmin)
	repo.AssertExpectations(t)
}

func TestUserService_Get(t *testing.T) {
	t.Run("found by uid", func(t *testing.T) {
		repo := new(MockUserRepository)
		provider := new(MockProvider)
		repo.On("FindByUID", mock.Anything, "ext-1").
			Return(&model.User{UID: "ext-1", Email: "ada@example.com"}, nil)

		svc := NewUserService(repo, provider, newFakeCache())
		user, err := svc.Get(context.Background(), "ext-1")

		assert.NoError(t, err)
		assert.Equal(t, "ext-1", user.UID)
	})

	t.Run("missing uid is not found", func(t *testing.T) {
		repo := new(MockUserRepository)
		provider := new(MockProvider)
		repo.On("FindByUID", mock.Anything, "missing").Return(nil, apperrors.ErrUserNotFound)

		svc := NewUserService(repo, provider, newFakeCache())
		user, err := svc.Get(context.Background(), "missing")

		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
		assert.Nil(t, user)
	})

	t.Run("second read is served from the cache", func(t *testing.T) {
		repo := new(MockUserRepository)
		provider := new(MockProvider)
		repo.On("FindByUID", mock.Anything, "ext-1").
			Return(&model.User{UID: "ext-1", Email: "ada@example.com", FirstName: "Ada"}, nil).Once()

		fc := newFakeCache()
		svc := NewUserService(repo, provider, fc)

		first, err := svc.Get(context.Background(), "ext-1")
		assert.NoError(t, err)
		assert.Contains(t, fc.store, "user:uid:ext-1")

		second, err := svc.Get(context.Background(), "ext-1")
		assert.NoError(t, err)
		assert.Equal(t, first.UID, second.UID)
		assert.Equal(t, first.FirstName, second.FirstName)
		repo.AssertNumberOfCalls(t, "FindByUID", 1)
	})
}

func TestUserService_Update(t *testing.T) {
	t.Run("only name and email reach the repository", func(t *testing.T) {
		repo := new(MockUserRepository)
		provider := new(MockProvider)
		updated := &model.User{UID: "ext-1", Email: "new@x.com", FirstName: "New", IsAdmin: false}
		repo.On("UpdateProfile", mock.Anything, "ext-1", "New", "new@x.com").Return(updated, nil)

		svc := NewUserService(repo, provider, newFakeCache())
		user, err := svc.Update(context.Background(), "ext-1", "New", "new@x.com")

		assert.NoError(t, err)
		assert.Equal(t, "New", user.FirstName)
		assert.Equal(t, "new@x.com", user.Email)
		repo.AssertExpectations(t)
	})

	t.Run("unknown uid is not found", func(t *testing.T) {
		repo := new(MockUserRepository)
		provider := new(MockProvider)
		repo.On("UpdateProfile", mock.Anything, "missing", "New", "new@x.com").
			Return(nil, apperrors.ErrUserNotFound)

		svc := NewUserService(repo, provider, newFakeCache())
		_, err := svc.Update(context.Background(), "missing", "New", "new@x.com")

		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})

	t.Run("update evicts the cached record", func(t *testing.T) {
		repo := new(MockUserRepository)
		provider := new(MockProvider)
		repo.On("FindByUID", mock.Anything, "ext-1").
			Return(&model.User{UID: "ext-1", FirstName: "Ada", Email: "ada@example.com"}, nil).Once()
		repo.On("UpdateProfile", mock.Anything, "ext-1", "New", "new@x.com").
			Return(&model.User{UID: "ext-1", FirstName: "New", Email: "new@x.com"}, nil)
		repo.On("FindByUID", mock.Anything, "ext-1").
			Return(&model.User{UID: "ext-1", FirstName: "New", Email: "new@x.com"}, nil).Once()

		fc := newFakeCache()
		svc := NewUserService(repo, provider, fc)

		_, err := svc.Get(context.Background(), "ext-1")
		assert.NoError(t, err)
		assert.Contains(t, fc.store, "user:uid:ext-1")

		_, err = svc.Update(context.Background(), "ext-1", "New", "new@x.com")
		assert.NoError(t, err)
		assert.NotContains(t, fc.store, "user:uid:ext-1")

		// next read goes back to the repository for the fresh record
		user, err := svc.Get(context.Background(), "ext-1")
		assert.NoError(t, err)
		assert.Equal(t, "New", user.FirstName)
		repo.AssertNumberOfCalls(t, "FindByUID", 2)
	})
}

func TestUserService_Delete(t *testing.T) {
	t.Run("external deletion failure does not fail the operation", func(t *testing.T) {
		repo := new(MockUserRepository)
		provider := new(MockProvider)
		repo.On("DeleteByUID", mock.Anything, "ext-1").Return(nil)
		provider.On("AdminDeleteUser", mock.Anything, "ext-1").Return(apperrors.ErrProvider)

		svc := NewUserService(repo, provider, newFakeCache())
		err := svc.Delete(context.Background(), "ext-1")

		assert.NoError(t, err)
		repo.AssertExpectations(t)
		provider.AssertExpectations(t)
	})

	t.Run("external deletion succeeds alongside local", func(t *testing.T) {
		repo := new(MockUserRepository)
		provider := new(MockProvider)
		repo.On("DeleteByUID", mock.Anything, "ext-1").Return(nil)
		provider.On("AdminDeleteUser", mock.Anything, "ext-1").Return(nil)

		svc := NewUserService(repo, provider, newFakeCache())
		assert.NoError(t, svc.Delete(context.Background(), "ext-1"))
	})

	t.Run("local not found skips the provider entirely", func(t *testing.T) {
		repo := new(MockUserRepository)
		provider := new(MockProvider)
		repo.On("DeleteByUID", mock.Anything, "missing").Return(apperrors.ErrUserNotFound)

		svc := NewUserService(repo, provider, newFakeCache())
		err := svc.Delete(context.Background(), "missing")

		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
		provider.AssertNotCalled(t, "AdminDeleteUser", mock.Anything, mock.Anything)
	})

	t.Run("delete evicts the cached record", func(t *testing.T) {
		repo := new(MockUserRepository)
		provider := new(MockProvider)
		repo.On("FindByUID", mock.Anything, "ext-1").
			Return(&model.User{UID: "ext-1", FirstName: "Ada"}, nil).Once()
		repo.On("DeleteByUID", mock.Anything, "ext-1").Return(nil)
		provider.On("AdminDeleteUser", mock.Anything, "ext-1").Return(nil)
		repo.On("FindByUID", mock.Anything, "ext-1").Return(nil, apperrors.ErrUserNotFound)

		fc := newFakeCache()
		svc := NewUserService(repo, provider, fc)

		_, err := svc.Get(context.Background(), "ext-1")
		assert.NoError(t, err)
		assert.Contains(t, fc.store, "user:uid:ext-1")

		assert.NoError(t, svc.Delete(context.Background(), "ext-1"))
		assert.NotContains(t, fc.store, "user:uid:ext-1")

		// a stale cache entry must not resurrect the deleted record
		_, err = svc.Get(context.Background(), "ext-1")
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})
}

func TestUserService_List(t *testing.T) {
	repo := new(MockUserRepository)
	provider := new(MockProvider)
	repo.On("List", mock.Anything).Return([]model.User{
		{UID: "ext-1"},
		{UID: "ext-2"},
	}, nil)

	svc := NewUserService(repo, provider, newFakeCache())
	users, err := svc.List(context.Background())

	assert.NoError(t, err)
	assert.Len(t, users, 2)
}
