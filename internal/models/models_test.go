package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDaysThroughIsInclusive(t *testing.T) {
	from, err := ParseDate("2024-03-01")
	require.NoError(t, err)
	to, err := ParseDate("2024-03-05")
	require.NoError(t, err)

	assert.Equal(t, 5, from.DaysThrough(to))
	assert.Equal(t, 1, from.DaysThrough(from))
	assert.LessOrEqual(t, to.DaysThrough(from), 0)
}

func TestDaysThroughAcrossMonthAndLeapDay(t *testing.T) {
	from, _ := ParseDate("2024-02-28")
	to, _ := ParseDate("2024-03-01")
	assert.Equal(t, 3, from.DaysThrough(to))
}

func TestParseDateRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "2024/03/01", "01-03-2024", "2024-13-01"} {
		_, err := ParseDate(in)
		assert.Error(t, err, in)
	}
}

func TestDateJSON(t *testing.T) {
	d, err := ParseDate("2024-03-01")
	require.NoError(t, err)

	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-03-01"`, string(b))

	var back Date
	require.NoError(t, json.Unmarshal([]byte(`"2024-12-31"`), &back))
	assert.Equal(t, "2024-12-31", back.String())

	b, err = json.Marshal(Date{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))
}

func TestDateScan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2024, 3, 1, 15, 4, 5, 0, time.UTC)))
	assert.Equal(t, "2024-03-01", d.String())

	require.NoError(t, d.Scan([]byte("2023-01-09")))
	assert.Equal(t, "2023-01-09", d.String())

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	assert.Error(t, d.Scan(42))
}

func TestNormalizeUserID(t *testing.T) {
	assert.Equal(t, "EMP001", NormalizeUserID(" emp001 "))
	assert.Equal(t, "EMP001", NormalizeUserID("Emp001"))
}

func TestParseRoleAndRoleSet(t *testing.T) {
	r, ok := ParseRole("HR")
	require.True(t, ok)
	assert.Equal(t, RoleHR, r)

	_, ok = ParseRole("manager")
	assert.False(t, ok)

	assert.True(t, Managers.Contains(RoleAdmin))
	assert.True(t, Managers.Contains(RoleHR))
	assert.False(t, Managers.Contains(RoleEmployee))
	assert.True(t, Everyone.Contains(RoleEmployee))
}

func TestLeaveStatusAndType(t *testing.T) {
	s, ok := ParseLeaveStatus("Approved")
	require.True(t, ok)
	assert.True(t, s.IsTerminal())
	assert.False(t, LeavePending.IsTerminal())

	_, ok = ParseLeaveStatus("cancelled")
	assert.False(t, ok)

	lt, ok := ParseLeaveType("Work-From-Home")
	require.True(t, ok)
	assert.Equal(t, LeaveTypeWorkFromHome, lt)

	_, ok = ParseLeaveType("sabbatical")
	assert.False(t, ok)
}

func TestLeaveViewFlattensProfile(t *testing.T) {
	req := LeaveRequest{ID: "l1", UserID: "EMP001", Status: LeavePending}
	view := NewLeaveView(req, &EmployeeProfile{Name: "Asha", Email: "asha@example.com", Department: "R&D"})

	b, err := json.Marshal(view)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Equal(t, "l1", m["id"])
	assert.Equal(t, "Asha", m["employee_name"])
	assert.Equal(t, "R&D", m["department"])

	empty := NewLeaveView(req, nil)
	assert.Empty(t, empty.EmployeeName)
}
