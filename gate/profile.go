package gate

import (
	"context"
	"sort"
)

// Profile is a named set of permissions.
type Profile interface {
	Name() string
	HasPermission(permission Permission) bool
	Permissions() []Permission
}

// ProfileResolver resolves a subject to its profile. A nil profile with a nil
// error means the subject has no permissions at all.
type ProfileResolver[U any] interface {
	Resolve(ctx context.Context, subject U) (Profile, error)
}

// StaticProfile is an in-memory profile.
type StaticProfile struct {
	name        string
	permissions map[Permission]struct{}
}

// NewStaticProfile creates a profile with the given permissions.
func NewStaticProfile(name string, permissions ...Permission) *StaticProfile {
	p := &StaticProfile{name: name, permissions: make(map[Permission]struct{}, len(permissions))}
	for _, perm := range permissions {
		p.permissions[perm] = struct{}{}
	}
	return p
}

func (p *StaticProfile) Name() string { return p.name }

// Permissions returns the granted permissions, sorted.
func (p *StaticProfile) Permissions() []Permission {
	perms := make([]Permission, 0, len(p.permissions))
	for perm := range p.permissions {
		perms = append(perms, perm)
	}
	sort.Slice(perms, func(i, j int) bool { return perms[i] < perms[j] })
	return perms
}

// HasPermission checks the requested permission, honouring wildcards.
func (p *StaticProfile) HasPermission(requested Permission) bool {
	for perm := range p.permissions {
		if perm.Matches(requested) {
			return true
		}
	}
	return false
}

// Merge returns a new profile holding the permissions of p and others.
func (p *StaticProfile) Merge(name string, others ...*StaticProfile) *StaticProfile {
	merged := NewStaticProfile(name, p.Permissions()...)
	for _, o := range others {
		for perm := range o.permissions {
			merged.permissions[perm] = struct{}{}
		}
	}
	return merged
}
