package catalog

import (
	"context"
	"strconv"
	"time"

	"github.com/pullerize/my-main-tasks-sub000/pkg"
	"github.com/pullerize/my-main-tasks-sub000/src/logger"
	"github.com/pullerize/my-main-tasks-sub000/src/model"
)

// NoProjectKey marks the explicit "no project" choice
const NoProjectKey = "project:none"

// NoProjectLabel is the selectable label for a task without a project
const NoProjectLabel = "📂 No project"

// Provider turns collaborator lookups into ordered option lists. Every call
// is bounded by a timeout; task types and formats degrade to the static
// vocabulary fallback, executor and project lookups surface a LookupError
// because no meaningful static substitute exists for them.
type Provider struct {
	data    DataStore
	catalog Catalog
	vocab   *model.Vocabulary
	timeout time.Duration
}

// NewProvider creates an option provider over the external collaborators
func NewProvider(data DataStore, cat Catalog, vocab *model.Vocabulary, timeoutSeconds int) *Provider {
	if timeoutSeconds <= 0 {
		timeoutSeconds = 5
	}
	return &Provider{
		data:    data,
		catalog: cat,
		vocab:   vocab,
		timeout: time.Duration(timeoutSeconds) * time.Second,
	}
}

// FetchUsersByRole lists active executors for a role
func (p *Provider) FetchUsersByRole(ctx context.Context, role string) ([]pkg.Option, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	users, err := p.data.ListActiveUsersByRole(ctx, role)
	if err != nil {
		logger.Warn().Err(err).Str("role", role).Msg("executor lookup failed")
		return nil, &pkg.LookupError{Resource: "executors", Err: err}
	}

	options := make([]pkg.Option, 0, len(users))
	for i := range users {
		u := users[i]
		options = append(options, pkg.Option{
			Label: "👤 " + u.Name,
			Key:   "user:" + strconv.FormatInt(u.ID, 10),
			User:  &u,
		})
	}
	return options, nil
}

// FetchProjects lists active projects plus the explicit "no project" choice
func (p *Provider) FetchProjects(ctx context.Context) ([]pkg.Option, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	projects, err := p.data.ListActiveProjects(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("project lookup failed")
		return nil, &pkg.LookupError{Resource: "projects", Err: err}
	}

	options := make([]pkg.Option, 0, len(projects)+1)
	for i := range projects {
		pr := projects[i]
		options = append(options, pkg.Option{
			Label:   "📁 " + pr.Name,
			Key:     "project:" + strconv.FormatInt(pr.ID, 10),
			Project: &pr,
		})
	}
	options = append(options, pkg.Option{Label: NoProjectLabel, Key: NoProjectKey})
	return options, nil
}

// FetchTaskTypes lists task types for a role, falling back to the static
// vocabulary when the Catalog is degraded
func (p *Provider) FetchTaskTypes(ctx context.Context, role string) ([]pkg.Option, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	items, err := p.catalog.ListTaskTypes(ctx, role)
	if err != nil || len(items) == 0 {
		if err != nil {
			logger.Warn().Err(err).Str("role", role).Msg("task type lookup failed, using static fallback")
		}
		items = p.vocab.Fallback.TaskTypes[role]
	}
	return itemsToOptions(items), nil
}

// FetchFormats lists formats, falling back to the static vocabulary
func (p *Provider) FetchFormats(ctx context.Context) ([]pkg.Option, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	items, err := p.catalog.ListFormats(ctx)
	if err != nil || len(items) == 0 {
		if err != nil {
			logger.Warn().Err(err).Msg("format lookup failed, using static fallback")
		}
		items = p.vocab.Fallback.Formats
	}
	return itemsToOptions(items), nil
}

// RoleOptions builds the role selection list from the static vocabulary
func (p *Provider) RoleOptions() []pkg.Option {
	options := make([]pkg.Option, 0, len(p.vocab.Roles))
	for _, r := range p.vocab.Roles {
		options = append(options, pkg.Option{Label: r.Label, Key: "role:" + r.Key})
	}
	return options
}

func itemsToOptions(items []model.CatalogItem) []pkg.Option {
	options := make([]pkg.Option, 0, len(items))
	for _, it := range items {
		options = append(options, pkg.Option{Label: it.Label, Key: it.Key})
	}
	return options
}
