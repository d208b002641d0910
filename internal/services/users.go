package services

import (
	"context"
	"errors"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/diewo77/go-recipes/internal/apperr"
	"github.com/diewo77/go-recipes/internal/models"
)

const (
	tokenAlphabet = "0123456789abcdef"
	tokenLength   = 40
)

// UserService stores users and their API tokens.
type UserService struct{ db *gorm.DB }

func NewUserService(db *gorm.DB) *UserService { return &UserService{db: db} }

// UserOption customises a user before it is created.
type UserOption func(*models.User)

func WithName(name string) UserOption {
	return func(u *models.User) { u.Name = strings.TrimSpace(name) }
}

func WithStaff(staff bool) UserOption {
	return func(u *models.User) { u.IsStaff = staff }
}

func WithSuperuser(superuser bool) UserOption {
	return func(u *models.User) { u.IsSuperuser = superuser }
}

func WithActive(active bool) UserOption {
	return func(u *models.User) { u.IsActive = active }
}

// UserPatch lists the fields of an update. Nil fields are left untouched.
type UserPatch struct {
	Email       *string
	Name        *string
	Password    *string
	IsActive    *bool
	IsStaff     *bool
	IsSuperuser *bool
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func hashPassword(password string) (string, error) {
	if password == "" {
		return "", apperr.Field("password", "required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", apperr.Field("password", "too_long")
	}
	if err != nil {
		return "", apperr.Wrap(apperr.CodeInternal, "hash password", err)
	}
	return string(hash), nil
}

// CreateUser registers an active user with a hashed password.
func (s *UserService) CreateUser(ctx context.Context, email, password string, opts ...UserOption) (*models.User, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, apperr.Field("email", "required")
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &models.User{Email: email, Password: hash, IsActive: true}
	for _, opt := range opts {
		opt(u)
	}

	db := s.db.WithContext(ctx)
	if err := s.ensureEmailFree(db, email, 0); err != nil {
		return nil, err
	}
	if err := db.Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Field("email", "already_exists")
		}
		return nil, err
	}
	return u, nil
}

// CreateSuperuser registers a user with the staff and superuser flags set.
func (s *UserService) CreateSuperuser(ctx context.Context, email, password string) (*models.User, error) {
	return s.CreateUser(ctx, email, password, WithStaff(true), WithSuperuser(true))
}

// EnsureSuperuser creates the superuser unless a user with that email exists.
// It reports whether a user was created.
func (s *UserService) EnsureSuperuser(ctx context.Context, email, password string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", NormalizeEmail(email)).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	if _, err := s.CreateSuperuser(ctx, email, password); err != nil {
		return false, err
	}
	return true, nil
}

func (s *UserService) ensureEmailFree(db *gorm.DB, email string, exceptID uint) error {
	var count int64
	if err := db.Model(&models.User{}).Where("email = ? AND id <> ?", email, exceptID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return apperr.Field("email", "already_exists")
	}
	return nil
}

// Verify checks credentials against an active user. Failures never say
// whether the email or the password was wrong.
func (s *UserService) Verify(ctx context.Context, email, password string) (*models.User, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperr.ErrAuthenticationFailed
	}
	var u models.User
	err := s.db.WithContext(ctx).Where("email = ? AND is_active = ?", email, true).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrAuthenticationFailed
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return nil, apperr.ErrAuthenticationFailed
	}
	return &u, nil
}

// IssueToken returns the user's token, creating one on first use.
func (s *UserService) IssueToken(ctx context.Context, user *models.User) (*models.Token, error) {
	var tok models.Token
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ?", user.ID).First(&tok).Error
		if err == nil || !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		key, err := gonanoid.Generate(tokenAlphabet, tokenLength)
		if err != nil {
			return err
		}
		tok = models.Token{Key: key, UserID: user.ID}
		return tx.Create(&tok).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// A concurrent request created the token first.
		err = s.db.WithContext(ctx).Where("user_id = ?", user.ID).First(&tok).Error
	}
	if err != nil {
		return nil, err
	}
	return &tok, nil
}

// InvalidateToken deletes the user's token. The next IssueToken creates a new key.
func (s *UserService) InvalidateToken(ctx context.Context, userID uint) error {
	return s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Token{}).Error
}

// ResolveToken returns the active owner of key.
func (s *UserService) ResolveToken(ctx context.Context, key string) (*models.User, error) {
	if len(key) != tokenLength {
		return nil, apperr.ErrAuthenticationRequired
	}
	var u models.User
	err := s.db.WithContext(ctx).
		Joins("JOIN tokens ON tokens.user_id = users.id").
		Where("tokens.key = ? AND users.is_active = ?", key, true).
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrAuthenticationRequired
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateUser applies patch to user and saves it.
func (s *UserService) UpdateUser(ctx context.Context, user *models.User, patch UserPatch) error {
	db := s.db.WithContext(ctx)
	if patch.Email != nil {
		email := NormalizeEmail(*patch.Email)
		if email == "" {
			return apperr.Field("email", "required")
		}
		if email != user.Email {
			if err := s.ensureEmailFree(db, email, user.ID); err != nil {
				return err
			}
		}
		user.Email = email
	}
	if patch.Name != nil {
		user.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Password != nil {
		hash, err := hashPassword(*patch.Password)
		if err != nil {
			return err
		}
		user.Password = hash
	}
	if patch.IsActive != nil {
		user.IsActive = *patch.IsActive
	}
	if patch.IsStaff != nil {
		user.IsStaff = *patch.IsStaff
	}
	if patch.IsSuperuser != nil {
		user.IsSuperuser = *patch.IsSuperuser
	}
	if err := db.Save(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Field("email", "already_exists")
		}
		return err
	}
	return nil
}

// GetUser loads a user by id.
func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, notFound(err, "user")
	}
	return &u, nil
}

// ListUsers returns every user ordered by id.
func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).Order("id").Find(&users).Error
	return users, err
}

// DeleteUser removes a user with everything they own in one transaction:
// the token, recipes, tags, ingredients and the join rows referencing them.
func (s *UserService) DeleteUser(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u models.User
		if err := tx.Select("id").First(&u, id).Error; err != nil {
			return notFound(err, "user")
		}
		steps := []struct {
			sql  string
			args []any
		}{
			{"DELETE FROM tokens WHERE user_id = ?", []any{id}},
			{"DELETE FROM recipe_tags WHERE recipe_id IN (SELECT id FROM recipes WHERE user_id = ?) OR tag_id IN (SELECT id FROM tags WHERE user_id = ?)", []any{id, id}},
			{"DELETE FROM recipe_ingredients WHERE recipe_id IN (SELECT id FROM recipes WHERE user_id = ?) OR ingredient_id IN (SELECT id FROM ingredients WHERE user_id = ?)", []any{id, id}},
			{"DELETE FROM recipes WHERE user_id = ?", []any{id}},
			{"DELETE FROM tags WHERE user_id = ?", []any{id}},
			{"DELETE FROM ingredients WHERE user_id = ?", []any{id}},
		}
		for _, step := range steps {
			if err := tx.Exec(step.sql, step.args...).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&u).Error
	})
}
