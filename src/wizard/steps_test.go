package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pullerize/my-main-tasks-sub000/pkg"
)

func TestBuildPlanWithFormat(t *testing.T) {
	plan := BuildPlan(true)

	want := Plan{
		pkg.StepRoleSelection,
		pkg.StepExecutorSelection,
		pkg.StepProjectSelection,
		pkg.StepTaskTypeSelection,
		pkg.StepFormatSelection,
		pkg.StepTitleInput,
		pkg.StepDescriptionInput,
		pkg.StepDeadlineInput,
		pkg.StepPreview,
	}
	assert.Equal(t, want, plan)
}

func TestBuildPlanWithoutFormat(t *testing.T) {
	plan := BuildPlan(false)

	assert.False(t, plan.Contains(pkg.StepFormatSelection))
	next, ok := plan.Next(pkg.StepTaskTypeSelection)
	assert.True(t, ok)
	assert.Equal(t, pkg.StepTitleInput, next)
}

func TestPlanPrev(t *testing.T) {
	plan := BuildPlan(true)

	prev, ok := plan.Prev(pkg.StepTitleInput)
	assert.True(t, ok)
	assert.Equal(t, pkg.StepFormatSelection, prev)

	_, ok = plan.Prev(pkg.StepRoleSelection)
	assert.False(t, ok, "role selection has no back")
}

func TestPlanNextAtEnd(t *testing.T) {
	plan := BuildPlan(false)

	next, ok := plan.Next(pkg.StepDeadlineInput)
	assert.True(t, ok)
	assert.Equal(t, pkg.StepPreview, next)

	_, ok = plan.Next(pkg.StepPreview)
	assert.False(t, ok)
}

func TestPlanStepsAreValid(t *testing.T) {
	for _, requiresFormat := range []bool{true, false} {
		for _, step := range BuildPlan(requiresFormat) {
			assert.True(t, pkg.ValidStep(step), string(step))
		}
	}
}
