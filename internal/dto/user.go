package dto

import (
	"github.com/diewo77/go-recipes/internal/models"
	"github.com/diewo77/go-recipes/internal/services"
	"github.com/diewo77/go-recipes/validation"
)

// Password bounds. bcrypt ignores anything past 72 bytes.
const (
	PasswordMinLength = 5
	PasswordMaxLength = 72
)

// User is the public view of an account. The password is write-only.
type User struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func NewUser(u *models.User) User { return User{Email: u.Email, Name: u.Name} }

// CreateUserInput registers an account.
type CreateUserInput struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=5,max=72"`
	Name     string `json:"name" validate:"max=255"`
}

func (in *CreateUserInput) Validate() validation.Violations {
	in.Email = services.NormalizeEmail(in.Email)
	return orNil(check(in))
}

// UpdateUserInput changes the caller's account. With partial unset (PUT)
// the email is required.
type UpdateUserInput struct {
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	Password *string `json:"password" validate:"omitempty,min=5,max=72"`
	Name     *string `json:"name" validate:"omitempty,max=255"`
}

func (in *UpdateUserInput) Validate(partial bool) validation.Violations {
	if in.Email != nil {
		email := services.NormalizeEmail(*in.Email)
		in.Email = &email
	}
	v := check(in)
	requiredString("email", in.Email, partial, v)
	if in.Password != nil && *in.Password == "" {
		v.Add("password", "required")
	}
	return orNil(v)
}

func (in *UpdateUserInput) Patch() services.UserPatch {
	return services.UserPatch{Email: in.Email, Name: in.Name, Password: in.Password}
}

// TokenInput exchanges credentials for a token.
type TokenInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in *TokenInput) Validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("email", in.Email, v)
	if in.Password == "" {
		v.Add("password", "required")
	}
	return orNil(v)
}

// Token is the response of a successful token request.
type Token struct {
	Token string `json:"token"`
}

// AdminUser is the admin view of an account.
type AdminUser struct {
	ID          uint   `json:"id"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	IsActive    bool   `json:"is_active"`
	IsStaff     bool   `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`
}

func NewAdminUser(u *models.User) AdminUser {
	return AdminUser{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		IsActive:    u.IsActive,
		IsStaff:     u.IsStaff,
		IsSuperuser: u.IsSuperuser,
	}
}

func NewAdminUsers(users []models.User) []AdminUser {
	out := make([]AdminUser, 0, len(users))
	for i := range users {
		out = append(out, NewAdminUser(&users[i]))
	}
	return out
}

// AdminCreateUserInput creates an account from the admin surface.
type AdminCreateUserInput struct {
	CreateUserInput
	IsActive    *bool `json:"is_active"`
	IsStaff     bool  `json:"is_staff"`
	IsSuperuser bool  `json:"is_superuser"`
}

// Options converts the flags into user options.
func (in *AdminCreateUserInput) Options() []services.UserOption {
	opts := []services.UserOption{
		services.WithName(in.Name),
		services.WithStaff(in.IsStaff || in.IsSuperuser),
		services.WithSuperuser(in.IsSuperuser),
	}
	if in.IsActive != nil {
		opts = append(opts, services.WithActive(*in.IsActive))
	}
	return opts
}

// AdminUpdateUserInput changes any account from the admin surface.
type AdminUpdateUserInput struct {
	UpdateUserInput
	IsActive    *bool `json:"is_active"`
	IsStaff     *bool `json:"is_staff"`
	IsSuperuser *bool `json:"is_superuser"`
}

func (in *AdminUpdateUserInput) Patch() services.UserPatch {
	p := in.UpdateUserInput.Patch()
	p.IsActive = in.IsActive
	p.IsStaff = in.IsStaff
	p.IsSuperuser = in.IsSuperuser
	return p
}
