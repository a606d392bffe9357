package catalog

import (
	"context"

	"github.com/pullerize/my-main-tasks-sub000/pkg"
	"github.com/pullerize/my-main-tasks-sub000/src/model"
)

// DataStore is the persistence collaborator. The engine issues exactly one
// CreateTask call per confirmed wizard run.
type DataStore interface {
	CreateTask(ctx context.Context, draft pkg.TaskDraft, authorID int64) (string, error)
	ListActiveUsersByRole(ctx context.Context, role string) ([]pkg.UserRef, error)
	ListActiveProjects(ctx context.Context) ([]pkg.ProjectRef, error)
}

// Catalog supplies role-specific vocabularies (task types, formats)
type Catalog interface {
	ListTaskTypes(ctx context.Context, role string) ([]model.CatalogItem, error)
	ListFormats(ctx context.Context) ([]model.CatalogItem, error)
}
