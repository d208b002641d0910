package models

// Owned is implemented by every per-user resource. The owner is fixed at
// creation time from the authenticated caller.
type Owned interface {
	GetID() uint
	GetUserID() uint
	SetUserID(uint)
}

// Named is an owned resource identified to users by its name.
type Named interface {
	Owned
	GetName() string
	SetName(string)
}

// All returns every model managed by the schema, in dependency order.
func All() []any {
	return []any{&User{}, &Token{}, &Tag{}, &Ingredient{}, &Recipe{}}
}
