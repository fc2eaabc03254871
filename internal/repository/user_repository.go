package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	apperrors "userhub/internal/errors"
	"userhub/internal/model"
)

// UserRepository defines persistence operations. All public addressing is by
// the provider-assigned uid; the internal primary key never leaves this layer
// except echoed inside the record itself.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByUID(ctx context.Context, uid string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	UpdateProfile(ctx context.Context, uid, firstName, email string) (*model.User, error)
	DeleteByUID(ctx context.Context, uid string) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (r *userRepository) FindByUID(ctx context.Context, uid string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("uid = ?", uid).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// List returns all records in arbitrary order. Unpaginated: target scale is a
// small admin tool.
func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateProfile replaces first_name and email only. uid and is_admin are not
// reachable through this path.
func (r *userRepository) UpdateProfile(ctx context.Context, uid, firstName, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("uid = ?", uid).First(&user).Error; err != nil {
		return nil, translate(err)
	}

	updates := map[string]any{"first_name": firstName, "email": email}
	if err := r.db.WithContext(ctx).Model(&user).Updates(updates).Error; err != nil {
		return nil, translate(err)
	}
	user.FirstName = firstName
	user.Email = email
	return &user, nil
}

func (r *userRepository) DeleteByUID(ctx context.Context, uid string) error {
	res := r.db.WithContext(ctx).Where("uid = ?", uid).Delete(&model.User{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// translate maps GORM errors onto the domain taxonomy. Uniqueness is enforced
// by the database constraints, not re-validated here.
func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.ErrUserNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperrors.ErrEmailConflict
	default:
		return err
	}
}
