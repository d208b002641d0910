package gate

import "strings"

// Permission is an allowed action on a resource type, written "resource:action".
type Permission string

// Wildcards.
const (
	Wildcard      = "*"
	PermissionAll = Permission("*:*")
)

// NewPermission builds a permission from a resource type and an action.
func NewPermission(resourceType string, action Action) Permission {
	return Permission(resourceType + ":" + string(action))
}

// Parse splits a permission into resource type and action.
func (p Permission) Parse() (resourceType string, action Action) {
	resourceType, act, ok := strings.Cut(string(p), ":")
	if !ok {
		return "", ""
	}
	return resourceType, Action(act)
}

// Matches reports whether p grants requested. "*:*" grants everything and
// "recipe:*" grants every action on recipes.
func (p Permission) Matches(requested Permission) bool {
	if p == PermissionAll || p == requested {
		return true
	}
	res, act := p.Parse()
	reqRes, _ := requested.Parse()
	return res != "" && res == reqRes && string(act) == Wildcard
}
