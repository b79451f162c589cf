package actor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRoles(t *testing.T) {
	got := ParseRoles(" admin, HR ,unknown,,driver")
	assert.Equal(t, []Role{RoleAdmin, RoleHR, RoleDriver}, got)
	assert.Empty(t, ParseRoles(""))
}

func TestActor_HasRole(t *testing.T) {
	a := Actor{Roles: []Role{RoleDispatcher}}
	assert.True(t, a.HasRole(RoleAdmin, RoleDispatcher))
	assert.False(t, a.HasRole(RoleHR))
	assert.False(t, Actor{}.HasRole(RoleAdmin))
}

func TestContextRoundTrip(t *testing.T) {
	ctx := WithActor(context.Background(), Actor{UserID: "u1", DriverID: "d1"})
	got := FromContext(ctx)
	assert.Equal(t, "u1", got.UserID)
	assert.True(t, got.IsDriver())

	assert.Equal(t, Actor{}, FromContext(context.Background()))
}
