package pkg

import (
	"fmt"
	"time"
)

// Core wizard types shared across packages.

// StepID identifies a single wizard state
type StepID string

const (
	StepRoleSelection     StepID = "role_selection"
	StepExecutorSelection StepID = "executor_selection"
	StepProjectSelection  StepID = "project_selection"
	StepTaskTypeSelection StepID = "task_type_selection"
	StepFormatSelection   StepID = "format_selection"
	StepTitleInput        StepID = "title_input"
	StepDescriptionInput  StepID = "description_input"
	StepDeadlineInput     StepID = "deadline_input"
	StepPreview           StepID = "preview"
	StepEditSelection     StepID = "edit_selection"
	StepFinalConfirmation StepID = "final_confirmation"
)

// ValidStep reports whether s names a known wizard state
func ValidStep(s StepID) bool {
	switch s {
	case StepRoleSelection, StepExecutorSelection, StepProjectSelection,
		StepTaskTypeSelection, StepFormatSelection, StepTitleInput,
		StepDescriptionInput, StepDeadlineInput, StepPreview,
		StepEditSelection, StepFinalConfirmation:
		return true
	}
	return false
}

// UserRef points at an executor in the Data Store
type UserRef struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	ChatID int64  `json:"chat_id"` // messaging identifier for notifications
}

// ProjectRef points at a project in the Data Store
type ProjectRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Option is a single selectable input offered to the user
type Option struct {
	Label   string      `json:"label"` // display text, may carry a decorative prefix
	Key     string      `json:"key"`   // stable identity, matching source of truth
	User    *UserRef    `json:"user,omitempty"`
	Project *ProjectRef `json:"project,omitempty"`
}

// TaskDraft is the in-progress task assembled by the wizard.
// Committer receives it as an immutable snapshot.
type TaskDraft struct {
	ExecutorRole    string     `json:"executor_role"`
	ExecutorID      int64      `json:"executor_id"`
	ExecutorName    string     `json:"executor_name"`
	ExecutorChatID  int64      `json:"executor_chat_id"`
	ProjectID       *int64     `json:"project_id,omitempty"`
	ProjectName     string     `json:"project_name,omitempty"`
	TaskType        string     `json:"task_type"`
	Format          string     `json:"format,omitempty"` // set iff the role requires it
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	Deadline        *time.Time `json:"deadline,omitempty"`
	DeadlineDisplay string     `json:"deadline_display,omitempty"`
}

// Session holds per-user wizard progress. At most one per user.
type Session struct {
	UserID          int64               `json:"user_id"`
	Step            StepID              `json:"step"`
	Draft           TaskDraft           `json:"draft"`
	CachedOptions   map[StepID][]Option `json:"cached_options"`
	EditingField    StepID              `json:"editing_field,omitempty"`
	ReturnToPreview bool                `json:"return_to_preview"`
	RoleFixed       bool                `json:"role_fixed"` // caller pinned the role; no back past executor selection
	CreatedAt       int64               `json:"created_at"`
	UpdatedAt       int64               `json:"updated_at"`
}

// Options returns the cached option list for a step; nil means not cached yet
func (s *Session) Options(step StepID) []Option {
	if s.CachedOptions == nil {
		return nil
	}
	return s.CachedOptions[step]
}

// SetOptions caches the option list for a step
func (s *Session) SetOptions(step StepID, opts []Option) {
	if s.CachedOptions == nil {
		s.CachedOptions = make(map[StepID][]Option)
	}
	s.CachedOptions[step] = opts
}

// DropOptions clears one step's cached list so the next render re-fetches
func (s *Session) DropOptions(step StepID) {
	if s.CachedOptions != nil {
		delete(s.CachedOptions, step)
	}
}

// RenderInstruction is what the host dispatcher sends back to the chat
type RenderInstruction struct {
	Text    string   `json:"text"`
	Buttons []string `json:"buttons,omitempty"`
	Done    bool     `json:"done"` // terminal: session no longer exists
}

// ----------------------------------------------------
// ================ Errors ================

// Sentinel errors shared across the engine
var (
	ErrSessionNotFound     = fmt.Errorf("session not found")
	ErrNoMatch             = fmt.Errorf("input matches no option")
	ErrPastDeadline        = fmt.Errorf("deadline is not in the future")
	ErrUnparseableDeadline = fmt.Errorf("deadline text is not a recognized date")
)

// ValidationError marks input the current step rejects; the wizard re-prompts
// the same step and never advances.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Reason)
}

// LookupError marks a failed external lookup with no static fallback; the
// owning step re-prompts, session state untouched.
type LookupError struct {
	Resource string
	Err      error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("lookup %s failed: %v", e.Resource, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

// PersistenceError marks a rejected Data Store write. The session stays at
// final confirmation so the user can retry without repeating the wizard.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("task was not created: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
