package repositories

import (
	"context"
	"time"

	"flowershop_backend/internal/paginate"
	"flowershop_backend/models"

	"gorm.io/gorm"
)

var UserPagination = paginate.Config{
	Table:         "users",
	Sortable:      []string{"id", "username", "email", "role"},
	Searchable:    []string{"username", "email", "first_name", "last_name"},
	Filterable:    []string{"role"},
	DefaultSortBy: [][2]string{{"id", "DESC"}},
}

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Taken reports whether column=value belongs to a user other than exceptID.
func (r *UserRepository) Taken(ctx context.Context, column, value string, exceptID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.User{}).Where(column+" = ?", value)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *UserRepository) Save(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id uint, hash string) error {
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("password", hash).Error
}

func (r *UserRepository) Delete(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.User{}, id)
	return res.RowsAffected, res.Error
}

func (r *UserRepository) Paginate(ctx context.Context, q paginate.Query) (*models.Paginated[models.User], error) {
	return paginate.Paginate[models.User](ctx, r.db, UserPagination, q)
}

type ResetPasswordRepository struct {
	db *gorm.DB
}

func NewResetPasswordRepository(db *gorm.DB) *ResetPasswordRepository {
	return &ResetPasswordRepository{db: db}
}

func (r *ResetPasswordRepository) Create(ctx context.Context, reset *models.ResetPassword) error {
	return r.db.WithContext(ctx).Create(reset).Error
}

func (r *ResetPasswordRepository) FindByToken(ctx context.Context, token string) (*models.ResetPassword, error) {
	var reset models.ResetPassword
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&reset).Error; err != nil {
		return nil, err
	}
	return &reset, nil
}

func (r *ResetPasswordRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.ResetPassword{}, id).Error
}

func (r *ResetPasswordRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at < ?", now).Delete(&models.ResetPassword{})
	return res.RowsAffected, res.Error
}
