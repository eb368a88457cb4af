// Package forum holds the board's entities and their persistence operations:
// users, categories, questions, answers, comments and the voter relations
// between them. Referential integrity (cascades, unique constraints, the
// vote junction tables) is declared on the schema itself, not left to
// application convention.
package forum

import (
	"context"
	"strings"
	"time"

	"github.com/goboardhq/goboard/pkg/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username  string    `gorm:"size:150;not null;uniqueIndex" json:"username" validate:"required,min=3,max=25,alphanum"`
	Password  string    `gorm:"size:200;not null" json:"-" validate:"required,min=4"`
	Email     string    `gorm:"size:120;not null" json:"email" validate:"required,email"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Owned content; rows go with the user. The constraint tag has to sit on
	// the has-many side too: migration builds the FK from the parent's
	// association, and an untagged one comes out as plain RESTRICT.
	Questions []Question `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Answers   []Answer   `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Comments  []Comment  `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// RegisterUser creates a new user with a bcrypt-hashed password. Usernames
// are unique; duplicate emails are rejected here at the mutation boundary
// while the column itself stays non-unique.
func RegisterUser(ctx context.Context, db *gorm.DB, username, password, email string) (*User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	if username == "" || password == "" || email == "" {
		return nil, utils.NewError(utils.ErrBadRequest.Code, "username, password and email are required")
	}

	var count int64
	if err := db.WithContext(ctx).Model(&User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to check username")
	}
	if count > 0 {
		return nil, utils.NewError(utils.ErrConflict.Code, "username already taken")
	}
	if err := db.WithContext(ctx).Model(&User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to check email")
	}
	if count > 0 {
		return nil, utils.NewError(utils.ErrConflict.Code, "email already registered")
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to hash password")
	}

	u := &User{
		ID:       uuid.New(),
		Username: username,
		Password: hashed,
		Email:    email,
	}
	if err := db.WithContext(ctx).Create(u).Error; err != nil {
		if isDuplicateErr(err) {
			return nil, utils.NewError(utils.ErrConflict.Code, "username already taken")
		}
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to create user")
	}
	return u, nil
}

// AuthenticateUser verifies a username/password pair and returns the user.
func AuthenticateUser(ctx context.Context, db *gorm.DB, username, password string) (*User, error) {
	u, err := GetUserBy(ctx, db, "username = ?", []interface{}{username})
	if err != nil {
		return nil, err
	}
	if err := utils.ComparePasswords(u.Password, password); err != nil {
		return nil, utils.NewError(utils.ErrUnauthorized.Code, "invalid username or password")
	}
	return u, nil
}

// GetUserBy retrieves a user by condition, with optional preloading of relationships.
func GetUserBy(ctx context.Context, db *gorm.DB, condition string, args []interface{}, preload ...string) (*User, error) {
	var u User
	query := db.WithContext(ctx).Where(condition, args...)
	for _, p := range preload {
		query = query.Preload(p)
	}
	if err := query.First(&u).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NewError(utils.ErrNotFound.Code, "User not found")
		}
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to get user")
	}
	return &u, nil
}

// ChangePassword overwrites the stored hash after verifying the old password.
// The new password must differ from the old one.
func ChangePassword(ctx context.Context, db *gorm.DB, u *User, oldPassword, newPassword string) error {
	if err := utils.ComparePasswords(u.Password, oldPassword); err != nil {
		return utils.NewError(utils.ErrUnauthorized.Code, "current password does not match")
	}
	if newPassword == oldPassword {
		return utils.NewError(utils.ErrConflict.Code, "new password must differ from the current one")
	}
	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to hash password")
	}
	if err := db.WithContext(ctx).Model(u).Update("password", hashed).Error; err != nil {
		return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to update password")
	}
	return nil
}

// SetPassword overwrites the stored hash without checking the old one.
// Used by the password-reset flow, where control of the email address
// stands in for the old password.
func SetPassword(ctx context.Context, db *gorm.DB, u *User, newPassword string) error {
	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to hash password")
	}
	if err := db.WithContext(ctx).Model(u).Update("password", hashed).Error; err != nil {
		return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to update password")
	}
	return nil
}

// DeleteUser removes the user. Questions, answers and comments authored by
// the user go with them through the schema's ON DELETE CASCADE rules.
func DeleteUser(ctx context.Context, db *gorm.DB, id uuid.UUID) error {
	u, err := GetUserBy(ctx, db, "id = ?", []interface{}{id})
	if err != nil {
		return err
	}
	if err := db.WithContext(ctx).Delete(u).Error; err != nil {
		return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to delete user")
	}
	return nil
}

// isDuplicateErr reports whether err is a unique-constraint violation.
// Postgres says "duplicate key", SQLite says "UNIQUE constraint failed".
func isDuplicateErr(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "UNIQUE constraint")
}
