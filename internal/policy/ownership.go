package policy

import (
	"context"

	"github.com/diewo77/go-recipes/gate"
	"github.com/diewo77/go-recipes/internal/models"
)

// Ownable is implemented by resources that have an owner.
type Ownable interface {
	GetUserID() uint
}

// OwnershipPolicy allows a user to act on the resources they own.
type OwnershipPolicy struct{}

func NewOwnershipPolicy() *OwnershipPolicy {
	return &OwnershipPolicy{}
}

// Can checks that user owns resource. A nil resource (list, create) is
// allowed; the profile permission already covers it. Resources without an
// owner are denied.
func (p *OwnershipPolicy) Can(_ context.Context, user *models.User, _ gate.Action, resource any) bool {
	if resource == nil {
		return true
	}
	if user == nil {
		return false
	}
	ownable, ok := resource.(Ownable)
	if !ok {
		return false
	}
	return ownable.GetUserID() == user.ID
}
