package gate

// Action describes the kind of operation a subject wants to perform.
type Action string

const (
	ActionList   Action = "list"
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// ActionForMethod maps an HTTP method onto the action it performs on a
// single resource. Collection routes should use ActionList for GET.
func ActionForMethod(method string) Action {
	switch method {
	case "POST":
		return ActionCreate
	case "PUT", "PATCH":
		return ActionUpdate
	case "DELETE":
		return ActionDelete
	default:
		return ActionView
	}
}
