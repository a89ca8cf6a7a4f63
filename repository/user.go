package repository

import (
	"context"

	"github.com/kbukum/corebundle/auth"
	"github.com/kbukum/corebundle/database"
)

// UserRepository queries tl_user.
type UserRepository struct {
	db *database.DB
}

// NewUserRepository creates a repository over db.
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByUsername returns the enabled user named username. A missing or
// disabled user is a NOT_FOUND AppError.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).
		Where("username = ? AND disable != ?", username, "1").
		First(&u).Error
	if err != nil {
		return nil, database.FromDatabase(err, "user")
	}
	return &u, nil
}

// UpdatePassword stores a new password hash for the user.
func (r *UserRepository) UpdatePassword(ctx context.Context, id uint, hash string) error {
	err := r.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).Update("password", hash).Error
	if err != nil {
		return database.FromDatabase(err, "user")
	}
	return nil
}

// BackendUser converts the row into the authenticated principal.
func (u *User) BackendUser() auth.BackendUser {
	return auth.BackendUser{
		ID:           u.ID,
		Username:     u.Username,
		Name:         u.Name,
		IsAdmin:      u.Admin == "1",
		MemberGroups: DecodeIDs(u.Amg),
		Modules:      decodeStrings(u.Modules),
	}
}
