package wizard

import (
	"github.com/pullerize/my-main-tasks-sub000/pkg"
)

// Control button labels shared by every step
const (
	BtnBack    = "⬅️ Back"
	BtnCancel  = "❌ Cancel"
	BtnSkip    = "➡️ Skip"
	BtnConfirm = "✅ Create task"
	BtnEdit    = "✏️ Edit"
	BtnRetry   = "🔄 Retry"
)

// CancelCommand cancels the wizard from any step
const CancelCommand = "/cancel"

// Plan is the concrete ordered step sequence for one role. It is computed
// once when the role becomes known and consulted for every forward and
// backward transition afterwards.
type Plan []pkg.StepID

// BuildPlan returns the step order for a role. The format step exists iff
// the role requires it.
func BuildPlan(requiresFormat bool) Plan {
	plan := Plan{
		pkg.StepRoleSelection,
		pkg.StepExecutorSelection,
		pkg.StepProjectSelection,
		pkg.StepTaskTypeSelection,
	}
	if requiresFormat {
		plan = append(plan, pkg.StepFormatSelection)
	}
	return append(plan,
		pkg.StepTitleInput,
		pkg.StepDescriptionInput,
		pkg.StepDeadlineInput,
		pkg.StepPreview,
	)
}

// Index returns the position of a step in the plan, or -1
func (p Plan) Index(step pkg.StepID) int {
	for i, s := range p {
		if s == step {
			return i
		}
	}
	return -1
}

// Next returns the step after the given one
func (p Plan) Next(step pkg.StepID) (pkg.StepID, bool) {
	i := p.Index(step)
	if i < 0 || i+1 >= len(p) {
		return "", false
	}
	return p[i+1], true
}

// Prev returns the step before the given one
func (p Plan) Prev(step pkg.StepID) (pkg.StepID, bool) {
	i := p.Index(step)
	if i <= 0 {
		return "", false
	}
	return p[i-1], true
}

// Contains reports whether the plan includes the step
func (p Plan) Contains(step pkg.StepID) bool {
	return p.Index(step) >= 0
}
