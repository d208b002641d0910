// Package gate is a small Gate/Policy authorization layer.
//
// A Gate combines two checks. The subject's profile must grant the
// "resource:action" permission, and when a concrete resource is supplied the
// policy registered for its type must accept it. The package knows nothing
// about the domain; U is whatever identifies the caller (a user id, a user
// struct pointer, token claims).
package gate

import "context"

// Gate is the central authorization checkpoint.
type Gate[U comparable] struct {
	resolver ProfileResolver[U]
	policies map[string]Policy[U]
}

// New creates a gate resolving subjects with resolver.
func New[U comparable](resolver ProfileResolver[U]) *Gate[U] {
	return &Gate[U]{resolver: resolver, policies: make(map[string]Policy[U])}
}

// Register sets the policy for a resource type, replacing any previous one.
// Not safe for use once the gate is serving requests.
func (g *Gate[U]) Register(resourceType string, p Policy[U]) {
	g.policies[resourceType] = p
}

// Authorize returns nil when subject may perform action on resource.
func (g *Gate[U]) Authorize(ctx context.Context, subject U, action Action, resourceType string, resource any) error {
	if err := g.checkProfile(ctx, subject, action, resourceType); err != nil {
		return err
	}
	if resource == nil {
		return nil
	}
	if p, ok := g.policies[resourceType]; ok && !p.Can(ctx, subject, action, resource) {
		return ErrPolicyDenied
	}
	return nil
}

// Can is Authorize returning a bool.
func (g *Gate[U]) Can(ctx context.Context, subject U, action Action, resourceType string, resource any) bool {
	return g.Authorize(ctx, subject, action, resourceType, resource) == nil
}

// CanProfile checks only the profile permission, before any resource is loaded.
func (g *Gate[U]) CanProfile(ctx context.Context, subject U, action Action, resourceType string) bool {
	return g.checkProfile(ctx, subject, action, resourceType) == nil
}

func (g *Gate[U]) checkProfile(ctx context.Context, subject U, action Action, resourceType string) error {
	var zero U
	if subject == zero {
		return ErrNoSubject
	}
	profile, err := g.resolver.Resolve(ctx, subject)
	if err != nil {
		return err
	}
	if profile == nil || !profile.HasPermission(NewPermission(resourceType, action)) {
		return ErrPermissionDenied
	}
	return nil
}
