package gate_test

import (
	"reflect"
	"testing"

	"github.com/diewo77/go-recipes/gate"
)

func TestStaticProfile_HasPermission(t *testing.T) {
	p := gate.NewStaticProfile("staff", "user:list", "user:view")
	if p.Name() != "staff" {
		t.Errorf("Name() = %q", p.Name())
	}
	if !p.HasPermission("user:list") {
		t.Error("expected user:list")
	}
	if p.HasPermission("user:delete") {
		t.Error("did not expect user:delete")
	}
}

func TestStaticProfile_PermissionsSorted(t *testing.T) {
	p := gate.NewStaticProfile("member", "tag:*", "recipe:*", "ingredient:*")
	want := []gate.Permission{"ingredient:*", "recipe:*", "tag:*"}
	if got := p.Permissions(); !reflect.DeepEqual(got, want) {
		t.Errorf("Permissions() = %v, want %v", got, want)
	}
}

func TestStaticProfile_Merge(t *testing.T) {
	member := gate.NewStaticProfile("member", "recipe:*")
	staff := gate.NewStaticProfile("staff", "user:list")
	merged := member.Merge("member+staff", staff)

	if merged.Name() != "member+staff" {
		t.Errorf("Name() = %q", merged.Name())
	}
	if !merged.HasPermission("recipe:update") || !merged.HasPermission("user:list") {
		t.Errorf("merged profile missing permissions: %v", merged.Permissions())
	}
	if member.HasPermission("user:list") {
		t.Error("merge must not mutate the receiver")
	}
}
