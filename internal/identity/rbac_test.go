package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "peopledesk/pkg/domain-errors"
)

func TestParseRole(t *testing.T) {
	role, err := ParseRole("MANAGER")
	require.NoError(t, err)
	assert.Equal(t, RoleManager, role)

	_, err = ParseRole("INTERN")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func TestRoleCan(t *testing.T) {
	t.Run("HR carries governance and fulfilment permissions", func(t *testing.T) {
		assert.True(t, RoleHR.Can(PermGovernanceManage))
		assert.True(t, RoleHR.Can(PermDocumentFulfill))
		assert.True(t, RoleHR.Can(PermOnboardingTrigger))
		assert.True(t, RoleHR.Can(PermLeaveDecideAny))
	})

	t.Run("manager decides for team only", func(t *testing.T) {
		assert.True(t, RoleManager.Can(PermLeaveDecideTeam))
		assert.False(t, RoleManager.Can(PermLeaveDecideAny))
		assert.False(t, RoleManager.Can(PermGovernanceManage))
		assert.False(t, RoleManager.Can(PermDocumentFulfill))
	})

	t.Run("employee can only self-serve", func(t *testing.T) {
		assert.True(t, RoleEmployee.Can(PermLeaveCreate))
		assert.True(t, RoleEmployee.Can(PermDocumentRequest))
		assert.False(t, RoleEmployee.Can(PermLeaveDecideTeam))
		assert.False(t, RoleEmployee.Can(PermAnalyticsView))
	})
}

func TestRequireRole(t *testing.T) {
	employee := User{ID: "u-emp-001", Role: RoleEmployee}

	require.NoError(t, RequireRole(employee, RoleEmployee, RoleManager))

	err := RequireRole(employee, RoleHR)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
}

func TestCanActOn(t *testing.T) {
	hr := User{ID: "u-hr-001", Role: RoleHR}
	manager := User{ID: "u-mgr-001", Role: RoleManager, TeamMembers: []string{"u-emp-001"}}
	employee := User{ID: "u-emp-001", Role: RoleEmployee}

	assert.True(t, hr.CanActOn("u-emp-002"), "HR acts on anyone")
	assert.True(t, manager.CanActOn("u-emp-001"), "manager acts on direct report")
	assert.False(t, manager.CanActOn("u-emp-002"), "manager cannot act outside their team")
	assert.True(t, employee.CanActOn("u-emp-001"), "self access always allowed")
	assert.False(t, employee.CanActOn("u-emp-002"), "employee cannot act on a peer")
}
