package wizard

import (
	"context"
	"time"

	"github.com/pullerize/my-main-tasks-sub000/pkg"
	"github.com/pullerize/my-main-tasks-sub000/src/catalog"
	"github.com/pullerize/my-main-tasks-sub000/src/logger"
	"github.com/pullerize/my-main-tasks-sub000/src/model"
)

// Notifier delivers a message with an action affordance to an executor's
// messaging identifier. Delivery is best-effort; failures never affect the
// created task.
type Notifier interface {
	Notify(ctx context.Context, chatID int64, text string, action string) error
}

// Committer performs the single atomic persistence call that ends the
// wizard, followed by a best-effort asynchronous notification.
type Committer struct {
	data     catalog.DataStore
	notifier Notifier
	vocab    *model.Vocabulary
	timeout  time.Duration
}

// NewCommitter creates a committer over the Data Store and notifier
func NewCommitter(data catalog.DataStore, notifier Notifier, vocab *model.Vocabulary, timeoutSeconds int) *Committer {
	if timeoutSeconds <= 0 {
		timeoutSeconds = 5
	}
	return &Committer{
		data:     data,
		notifier: notifier,
		vocab:    vocab,
		timeout:  time.Duration(timeoutSeconds) * time.Second,
	}
}

// Commit validates the draft, writes it once, and fires the executor
// notification. Persistence and notification are separate failure domains:
// a notification error is logged and never surfaced.
func (c *Committer) Commit(ctx context.Context, draft pkg.TaskDraft, authorID int64) (string, error) {
	if err := c.validate(&draft); err != nil {
		return "", err
	}

	createCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	taskID, err := c.data.CreateTask(createCtx, draft, authorID)
	if err != nil {
		return "", &pkg.PersistenceError{Err: err}
	}

	logger.Info().
		Str("task_id", taskID).
		Int64("author_id", authorID).
		Int64("executor_id", draft.ExecutorID).
		Msg("task created")

	c.notifyAsync(draft, taskID)

	return taskID, nil
}

func (c *Committer) validate(draft *pkg.TaskDraft) error {
	role := c.vocab.Role(draft.ExecutorRole)
	if role == nil {
		return &pkg.ValidationError{Field: "executor_role", Reason: "unknown role"}
	}
	if draft.ExecutorID == 0 {
		return &pkg.ValidationError{Field: "executor_id", Reason: "executor is required"}
	}
	if draft.TaskType == "" {
		return &pkg.ValidationError{Field: "task_type", Reason: "task category is required"}
	}
	if len([]rune(draft.Title)) < MinTitleLength {
		return &pkg.ValidationError{Field: "title", Reason: "title is required"}
	}
	if role.RequiresFormat && draft.Format == "" {
		return &pkg.ValidationError{Field: "format", Reason: "format is required for this role"}
	}
	if !role.RequiresFormat && draft.Format != "" {
		return &pkg.ValidationError{Field: "format", Reason: "format is not allowed for this role"}
	}
	return nil
}

func (c *Committer) notifyAsync(draft pkg.TaskDraft, taskID string) {
	if c.notifier == nil || draft.ExecutorChatID == 0 {
		return
	}

	text := "🆕 New task: " + draft.Title
	if draft.DeadlineDisplay != "" {
		text += "\nDeadline: " + draft.DeadlineDisplay
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()

		if err := c.notifier.Notify(ctx, draft.ExecutorChatID, text, "Open task "+taskID); err != nil {
			logger.Warn().
				Err(err).
				Str("task_id", taskID).
				Int64("chat_id", draft.ExecutorChatID).
				Msg("executor notification failed")
		}
	}()
}
