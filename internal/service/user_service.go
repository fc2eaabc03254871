package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"userhub/internal/cache"
	"userhub/internal/identity"
	"userhub/internal/model"
	"userhub/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// UserService exposes CRUD on local user records, addressed by the
// provider-assigned uid.
type UserService interface {
	Create(ctx context.Context, uid, email, firstName string) (*model.User, error)
	Get(ctx context.Context, uid string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, uid, firstName, email string) (*model.User, error)
	Delete(ctx context.Context, uid string) error
}

type userService struct {
	repo     repository.UserRepository
	provider identity.Provider
	cache    cache.Store
}

// NewUserService builds a UserService with repository, identity provider and cache.
func NewUserService(repo repository.UserRepository, provider identity.Provider, cache cache.Store) UserService {
	return &userService{repo: repo, provider: provider, cache: cache}
}

func (s *userService) cacheKey(uid string) string {
	return "user:uid:" + uid
}

func (s *userService) Create(ctx context.Context, uid, email, firstName string) (*model.User, error) {
	user := &model.User{
		UID:       uid,
		Email:     email,
		FirstName: firstName,
		IsAdmin:   false,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) Get(ctx context.Context, uid string) (*model.User, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(uid)); data != nil {
		var cached model.User
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.repo.FindByUID(ctx, uid)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(user); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(uid), payload, userCacheTTL)
	}
	return user, nil
}

func (s *userService) List(ctx context.Context) ([]model.User, error) {
	return s.repo.List(ctx)
}

// Update replaces first_name and email only; uid and is_admin are immutable
// through this path.
func (s *userService) Update(ctx context.Context, uid, firstName, email string) (*model.User, error) {
	user, err := s.repo.UpdateProfile(ctx, uid, firstName, email)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Delete(ctx, s.cacheKey(uid))
	return user, nil
}

// Delete removes the local record, then asks the provider to delete the
// external identity. The external call is best-effort: the local deletion is
// the source of truth, and an orphaned external identity is harmless because
// reconciliation recreates the local record on its next sign-in.
func (s *userService) Delete(ctx context.Context, uid string) error {
	if err := s.repo.DeleteByUID(ctx, uid); err != nil {
		return err
	}
	_ = s.cache.Delete(ctx, s.cacheKey(uid))

	if err := s.provider.AdminDeleteUser(ctx, uid); err != nil {
		log.Printf("failed to delete user %s from identity provider: %v", uid, err)
	}
	return nil
}
