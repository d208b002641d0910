package policy

import (
	"context"

	"github.com/diewo77/go-recipes/gate"
	"github.com/diewo77/go-recipes/internal/models"
)

// Resource types known to the gate.
const (
	ResourceRecipe     = "recipe"
	ResourceTag        = "tag"
	ResourceIngredient = "ingredient"
	ResourceUser       = "user"
)

// Profiles derived from the user flags.
var (
	MemberProfile = gate.NewStaticProfile("member",
		gate.NewPermission(ResourceRecipe, gate.Wildcard),
		gate.NewPermission(ResourceTag, gate.Wildcard),
		gate.NewPermission(ResourceIngredient, gate.Wildcard),
	)
	StaffProfile = MemberProfile.Merge("staff", gate.NewStaticProfile("user-readonly",
		gate.NewPermission(ResourceUser, gate.ActionList),
		gate.NewPermission(ResourceUser, gate.ActionView),
	))
	SuperuserProfile = gate.NewStaticProfile("superuser", gate.PermissionAll)
)

// FlagProfileResolver maps is_superuser and is_staff onto a profile.
// Inactive users have none.
type FlagProfileResolver struct{}

func (FlagProfileResolver) Resolve(_ context.Context, user *models.User) (gate.Profile, error) {
	switch {
	case user == nil || !user.IsActive:
		return nil, nil
	case user.IsSuperuser:
		return SuperuserProfile, nil
	case user.IsStaff:
		return StaffProfile, nil
	default:
		return MemberProfile, nil
	}
}
