package wizard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pullerize/my-main-tasks-sub000/pkg"
)

func validDesignerDraft() pkg.TaskDraft {
	deadline := time.Date(2025, 9, 18, 18, 0, 0, 0, time.UTC)
	return pkg.TaskDraft{
		ExecutorRole:    "designer",
		ExecutorID:      101,
		ExecutorName:    "Alice Kim",
		ExecutorChatID:  900101,
		TaskType:        "Creative",
		Format:          "9:16",
		Title:           "Launch banner",
		Deadline:        &deadline,
		DeadlineDisplay: "18.09.2025 18:00",
	}
}

func TestCommitCreatesTask(t *testing.T) {
	data := newTestData()
	c := NewCommitter(data, nil, testVocabulary(), 1)

	taskID, err := c.Commit(context.Background(), validDesignerDraft(), 7)
	require.NoError(t, err)
	assert.Equal(t, "task-1", taskID)
	require.Len(t, data.createdDrafts(), 1)
}

func TestCommitValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*pkg.TaskDraft)
		field  string
	}{
		{"unknown role", func(d *pkg.TaskDraft) { d.ExecutorRole = "accountant" }, "executor_role"},
		{"missing executor", func(d *pkg.TaskDraft) { d.ExecutorID = 0 }, "executor_id"},
		{"missing category", func(d *pkg.TaskDraft) { d.TaskType = "" }, "task_type"},
		{"short title", func(d *pkg.TaskDraft) { d.Title = "ab" }, "title"},
		{"missing required format", func(d *pkg.TaskDraft) { d.Format = "" }, "format"},
		{"format on formatless role", func(d *pkg.TaskDraft) {
			d.ExecutorRole = "smm_manager"
			d.Format = "9:16"
		}, "format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := newTestData()
			c := NewCommitter(data, nil, testVocabulary(), 1)

			draft := validDesignerDraft()
			tt.mutate(&draft)

			_, err := c.Commit(context.Background(), draft, 7)
			var verr *pkg.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.Empty(t, data.createdDrafts(), "invalid drafts must not reach storage")
		})
	}
}

func TestCommitWrapsStorageError(t *testing.T) {
	data := newTestData()
	data.setCreateErr(errors.New("connection refused"))
	c := NewCommitter(data, nil, testVocabulary(), 1)

	_, err := c.Commit(context.Background(), validDesignerDraft(), 7)
	var perr *pkg.PersistenceError
	require.ErrorAs(t, err, &perr)
}

func TestCommitNotifiesExecutor(t *testing.T) {
	data := newTestData()
	notifier := &fakeNotifier{ch: make(chan struct{}, 1)}
	c := NewCommitter(data, notifier, testVocabulary(), 1)

	taskID, err := c.Commit(context.Background(), validDesignerDraft(), 7)
	require.NoError(t, err)
	require.Equal(t, "task-1", taskID)

	select {
	case <-notifier.ch:
	case <-time.After(2 * time.Second):
		t.Fatal("executor notification was never sent")
	}
}

func TestCommitNotificationFailureIsNotSurfaced(t *testing.T) {
	data := newTestData()
	notifier := &fakeNotifier{err: errors.New("chat unreachable"), ch: make(chan struct{}, 1)}
	c := NewCommitter(data, notifier, testVocabulary(), 1)

	taskID, err := c.Commit(context.Background(), validDesignerDraft(), 7)
	require.NoError(t, err, "notification failures must never fail the commit")
	assert.Equal(t, "task-1", taskID)
	assert.Len(t, data.createdDrafts(), 1)

	select {
	case <-notifier.ch:
	case <-time.After(2 * time.Second):
		t.Fatal("notification attempt was never made")
	}
}

func TestCommitSkipsNotificationWithoutChatID(t *testing.T) {
	data := newTestData()
	notifier := &fakeNotifier{ch: make(chan struct{}, 1)}
	c := NewCommitter(data, notifier, testVocabulary(), 1)

	draft := validDesignerDraft()
	draft.ExecutorChatID = 0

	_, err := c.Commit(context.Background(), draft, 7)
	require.NoError(t, err)

	select {
	case <-notifier.ch:
		t.Fatal("no notification expected without a chat id")
	case <-time.After(100 * time.Millisecond):
	}
}
