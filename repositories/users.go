package repositories

import (
	"context"
	"fmt"
	"github.com/juju/errors"
	"golang.org/x/crypto/bcrypt"
	"shipment-tracking-service/models"
	"strings"
)

// CreateUser hashes password into user.PasswordHash and inserts the user.
// An empty username defaults to the local part of the email address.
func (r *Repository) CreateUser(ctx context.Context, user *models.User, password string) error {
	if password == "" {
		return errors.NotValidf("empty password")
	}
	if user.Username == "" {
		user.Username, _, _ = strings.Cut(user.Email, "@")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return errors.Annotate(err, "hashing password")
	}
	user.PasswordHash = string(hashed)

	err = r.conn(ctx).Create(user).Error
	return translate(err, "user "+user.Email)
}

func (r *Repository) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.conn(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("user %d", id))
	}
	return &user, nil
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.conn(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err, "user "+email)
	}
	return &user, nil
}

func (r *Repository) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.conn(ctx).Order("user_id").Find(&users).Error
	return users, translate(err, "users")
}

// UpdateUser applies the given column updates (role, team, is_active, full_name).
func (r *Repository) UpdateUser(ctx context.Context, id uint, updates map[string]any) error {
	res := r.conn(ctx).Model(&models.User{}).Where("user_id = ?", id).Updates(updates)
	return checkAffected(res, fmt.Sprintf("user %d", id))
}
