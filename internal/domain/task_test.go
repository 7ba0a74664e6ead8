package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParentOutline(t *testing.T) {
	cases := []struct {
		outline string
		parent  string
	}{
		{"1", ""},
		{"2.1", "2"},
		{"2.1.3", "2.1"},
		{"10.11.12.13", "10.11.12"},
	}
	for _, tc := range cases {
		task := &Task{OutlineNumber: tc.outline}
		assert.Equal(t, tc.parent, task.ParentOutline(), "outline=%s", tc.outline)
	}
}

func TestIsDescendantOf(t *testing.T) {
	task := &Task{OutlineNumber: "2.1.3"}
	assert.True(t, task.IsDescendantOf("2"))
	assert.True(t, task.IsDescendantOf("2.1"))
	assert.False(t, task.IsDescendantOf("2.1.3"), "a task is not its own descendant")
	assert.False(t, task.IsDescendantOf("2.1.3.1"))

	// Prefix match must be segment-aligned: 2.1 is not under 2.10.
	sibling := &Task{OutlineNumber: "2.10"}
	assert.False(t, sibling.IsDescendantOf("2.1"))
}

func TestIsChildOf(t *testing.T) {
	task := &Task{OutlineNumber: "2.1.3"}
	assert.True(t, task.IsChildOf("2.1"))
	assert.False(t, task.IsChildOf("2"), "grandchild is not a direct child")

	top := &Task{OutlineNumber: "3"}
	assert.True(t, top.IsChildOf(""), "top-level tasks are children of the root")
}

func TestRemovePredecessor(t *testing.T) {
	task := &Task{
		OutlineNumber: "3",
		Predecessors: []PredecessorLink{
			{RefOutline: "1", Type: LinkFinishToStart},
			{RefOutline: "2", Type: LinkFinishToStart, Lag: 2, LagFormat: LagDays},
			{RefOutline: "1", Type: LinkStartToStart},
		},
	}

	assert.True(t, task.RemovePredecessor("1"))
	assert.Len(t, task.Predecessors, 1)
	assert.Equal(t, "2", task.Predecessors[0].RefOutline)

	assert.False(t, task.RemovePredecessor("9.9"), "absent outline removes nothing")
	assert.Len(t, task.Predecessors, 1)
}

func TestConstraintRequiresDate(t *testing.T) {
	assert.False(t, ConstraintASAP.RequiresDate())
	assert.False(t, ConstraintALAP.RequiresDate())
	assert.False(t, ConstraintType("").RequiresDate())
	assert.True(t, ConstraintMustStartOn.RequiresDate())
	assert.True(t, ConstraintFinishNoLater.RequiresDate())
}
