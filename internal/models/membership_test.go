package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleOrdering(t *testing.T) {
	assert.True(t, RoleOwner.Rank() > RoleAdmin.Rank())
	assert.True(t, RoleAdmin.Rank() > RoleStaff.Rank())
	assert.True(t, RoleStaff.Rank() > RoleViewer.Rank())

	// STAFF and EDITOR are peers.
	assert.Equal(t, RoleStaff.Rank(), RoleEditor.Rank())
}

func TestRoleAtLeast(t *testing.T) {
	assert.True(t, RoleOwner.AtLeast(RoleViewer))
	assert.True(t, RoleStaff.AtLeast(RoleEditor))
	assert.True(t, RoleEditor.AtLeast(RoleStaff))
	assert.False(t, RoleViewer.AtLeast(RoleStaff))
	assert.False(t, RoleStaff.AtLeast(RoleAdmin))

	// Unknown roles rank zero and satisfy nothing.
	assert.False(t, Role("SUPERUSER").AtLeast(RoleViewer))
	assert.False(t, Role("").AtLeast(RoleViewer))
}

func TestRoleValid(t *testing.T) {
	for _, r := range []Role{RoleOwner, RoleAdmin, RoleStaff, RoleEditor, RoleViewer} {
		assert.True(t, r.Valid(), string(r))
	}
	assert.False(t, Role("INTERN").Valid())
}

func TestTenantStatusTransitions(t *testing.T) {
	assert.True(t, TenantActive.CanTransitionTo(TenantSuspended))
	assert.True(t, TenantSuspended.CanTransitionTo(TenantActive))
	assert.True(t, TenantActive.CanTransitionTo(TenantArchived))

	// ARCHIVED is terminal.
	assert.False(t, TenantArchived.CanTransitionTo(TenantActive))
	assert.False(t, TenantArchived.CanTransitionTo(TenantSuspended))

	// No self transitions.
	assert.False(t, TenantActive.CanTransitionTo(TenantActive))
}
