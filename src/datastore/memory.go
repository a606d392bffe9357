package datastore

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/pullerize/my-main-tasks-sub000/pkg"
	"github.com/pullerize/my-main-tasks-sub000/src/model"
)

// StoredTask is a task record held by the in-memory store
type StoredTask struct {
	ID       string        `json:"id"`
	AuthorID int64         `json:"author_id"`
	Draft    pkg.TaskDraft `json:"draft"`
}

// Memory implements the DataStore and Catalog interfaces with seeded agency
// data. It backs the dev console and tests; production deployments plug the
// real services in instead.
type Memory struct {
	mu       sync.Mutex
	users    []pkg.UserRef
	projects []pkg.ProjectRef
	types    map[string][]model.CatalogItem
	formats  []model.CatalogItem
	tasks    []StoredTask
}

// NewMemory creates a store with simple seeded data
func NewMemory() *Memory {
	return &Memory{
		users: []pkg.UserRef{
			{ID: 101, Name: "Alice Kim", Role: "designer", ChatID: 900101},
			{ID: 102, Name: "Bekzat Nur", Role: "designer", ChatID: 900102},
			{ID: 201, Name: "Dana Ospan", Role: "smm_manager", ChatID: 900201},
			{ID: 202, Name: "Erik Tan", Role: "smm_manager", ChatID: 900202},
			{ID: 301, Name: "Gulnara Akhmet", Role: "head_smm", ChatID: 900301},
			{ID: 401, Name: "Timur Zhan", Role: "digital", ChatID: 900401},
		},
		projects: []pkg.ProjectRef{
			{ID: 1, Name: "Coffee Lab"},
			{ID: 2, Name: "FitPark"},
			{ID: 3, Name: "Nomad Travel"},
		},
		types: map[string][]model.CatalogItem{
			"designer": {
				{Key: "creative", Label: "Creative"},
				{Key: "carousel", Label: "Carousel"},
				{Key: "motion", Label: "Motion"},
			},
			"smm_manager": {
				{Key: "content_plan", Label: "Content plan"},
				{Key: "post", Label: "Post"},
				{Key: "stories", Label: "Stories"},
			},
			"head_smm": {
				{Key: "strategy", Label: "Strategy"},
				{Key: "audit", Label: "Audit"},
			},
			"digital": {
				{Key: "targeting", Label: "Targeting"},
				{Key: "analytics", Label: "Analytics"},
			},
		},
		formats: []model.CatalogItem{
			{Key: "9x16", Label: "9:16"},
			{Key: "1x1", Label: "1:1"},
			{Key: "4x5", Label: "4:5"},
		},
	}
}

// CreateTask persists the draft snapshot and returns the new task id
func (m *Memory) CreateTask(ctx context.Context, draft pkg.TaskDraft, authorID int64) (string, error) {
	if draft.Title == "" {
		return "", fmt.Errorf("task title is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	task := StoredTask{
		ID:       uuid.NewString(),
		AuthorID: authorID,
		Draft:    draft,
	}
	m.tasks = append(m.tasks, task)
	return task.ID, nil
}

// ListActiveUsersByRole returns executors for a role in seed order
func (m *Memory) ListActiveUsersByRole(ctx context.Context, role string) ([]pkg.UserRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []pkg.UserRef
	for _, u := range m.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

// ListActiveProjects returns all projects
func (m *Memory) ListActiveProjects(ctx context.Context) ([]pkg.ProjectRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]pkg.ProjectRef, len(m.projects))
	copy(out, m.projects)
	return out, nil
}

// ListTaskTypes returns the task type vocabulary for a role
func (m *Memory) ListTaskTypes(ctx context.Context, role string) ([]model.CatalogItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.types[role], nil
}

// ListFormats returns the format vocabulary
func (m *Memory) ListFormats(ctx context.Context) ([]model.CatalogItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.formats, nil
}

// Tasks returns a copy of every stored task
func (m *Memory) Tasks() []StoredTask {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]StoredTask, len(m.tasks))
	copy(out, m.tasks)
	return out
}
