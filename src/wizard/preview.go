package wizard

import (
	"strings"

	"github.com/pullerize/my-main-tasks-sub000/pkg"
	"github.com/pullerize/my-main-tasks-sub000/src/model"
)

// Editable field keys offered from the preview screen
const (
	EditExecutor    = "edit:executor"
	EditProject     = "edit:project"
	EditTaskType    = "edit:task_type"
	EditFormat      = "edit:format"
	EditTitle       = "edit:title"
	EditDescription = "edit:description"
	EditDeadline    = "edit:deadline"
)

// editTargets maps an edit key to the step that owns the field
var editTargets = map[string]pkg.StepID{
	EditExecutor:    pkg.StepExecutorSelection,
	EditProject:     pkg.StepProjectSelection,
	EditTaskType:    pkg.StepTaskTypeSelection,
	EditFormat:      pkg.StepFormatSelection,
	EditTitle:       pkg.StepTitleInput,
	EditDescription: pkg.StepDescriptionInput,
	EditDeadline:    pkg.StepDeadlineInput,
}

// RenderPreview formats the collected draft as a single summary message
func RenderPreview(draft *pkg.TaskDraft, role *model.RoleSpec) string {
	var b strings.Builder
	b.WriteString("📝 Check the task before creating:\n\n")

	roleLabel := draft.ExecutorRole
	if role != nil {
		roleLabel = StripDecor(role.Label)
	}
	b.WriteString("Role: " + roleLabel + "\n")
	b.WriteString("Executor: " + draft.ExecutorName + "\n")

	if draft.ProjectID != nil {
		b.WriteString("Project: " + draft.ProjectName + "\n")
	} else {
		b.WriteString("Project: no project\n")
	}

	b.WriteString("Category: " + draft.TaskType + "\n")
	if draft.Format != "" {
		b.WriteString("Format: " + draft.Format + "\n")
	}

	b.WriteString("Title: " + draft.Title + "\n")
	if draft.Description != "" {
		b.WriteString("Description: " + draft.Description + "\n")
	}

	if draft.Deadline != nil {
		b.WriteString("Deadline: " + draft.DeadlineDisplay + "\n")
	} else {
		b.WriteString("Deadline: no deadline\n")
	}

	return b.String()
}

// PreviewButtons lists the preview actions
func PreviewButtons() []string {
	return []string{BtnConfirm, BtnEdit, BtnCancel}
}

// EditOptions lists the fields the user may jump back to. Format is offered
// only when the role carries one.
func EditOptions(requiresFormat bool) []pkg.Option {
	options := []pkg.Option{
		{Label: "👤 Executor", Key: EditExecutor},
		{Label: "📁 Project", Key: EditProject},
		{Label: "🗂 Category", Key: EditTaskType},
	}
	if requiresFormat {
		options = append(options, pkg.Option{Label: "📐 Format", Key: EditFormat})
	}
	return append(options,
		pkg.Option{Label: "✏️ Title", Key: EditTitle},
		pkg.Option{Label: "📄 Description", Key: EditDescription},
		pkg.Option{Label: "📅 Deadline", Key: EditDeadline},
	)
}

// EditTarget resolves an edit key to the owning step
func EditTarget(key string) (pkg.StepID, bool) {
	step, ok := editTargets[key]
	return step, ok
}
