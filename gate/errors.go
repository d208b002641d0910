package gate

import "errors"

// Sentinel errors returned by Gate.Authorize.
var (
	// ErrNoSubject is returned when the subject is the zero value.
	ErrNoSubject = errors.New("gate: no subject")
	// ErrPermissionDenied is returned when the subject's profile lacks the permission.
	ErrPermissionDenied = errors.New("gate: permission denied")
	// ErrPolicyDenied is returned when a resource policy refuses access to a specific resource.
	ErrPolicyDenied = errors.New("gate: denied by resource policy")
)
