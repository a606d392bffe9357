package datastore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pullerize/my-main-tasks-sub000/pkg"
)

func TestCreateTaskAssignsID(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	id1, err := m.CreateTask(ctx, pkg.TaskDraft{Title: "First"}, 7)
	require.NoError(t, err)
	id2, err := m.CreateTask(ctx, pkg.TaskDraft{Title: "Second"}, 7)
	require.NoError(t, err)

	assert.NotEmpty(t, id1)
	assert.NotEqual(t, id1, id2)

	tasks := m.Tasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, id1, tasks[0].ID)
	assert.Equal(t, int64(7), tasks[0].AuthorID)
	assert.Equal(t, "First", tasks[0].Draft.Title)
}

func TestCreateTaskRejectsEmptyTitle(t *testing.T) {
	m := NewMemory()

	_, err := m.CreateTask(context.Background(), pkg.TaskDraft{}, 7)
	assert.Error(t, err)
	assert.Empty(t, m.Tasks())
}

func TestListActiveUsersByRole(t *testing.T) {
	m := NewMemory()

	users, err := m.ListActiveUsersByRole(context.Background(), "designer")
	require.NoError(t, err)
	require.Len(t, users, 2)
	for _, u := range users {
		assert.Equal(t, "designer", u.Role)
	}

	none, err := m.ListActiveUsersByRole(context.Background(), "accountant")
	require.NoError(t, err)
	assert.Empty(t, none)
}
