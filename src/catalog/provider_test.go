package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pullerize/my-main-tasks-sub000/pkg"
	"github.com/pullerize/my-main-tasks-sub000/src/model"
)

type stubData struct {
	users       []pkg.UserRef
	usersErr    error
	projects    []pkg.ProjectRef
	projectsErr error
}

func (s *stubData) CreateTask(ctx context.Context, draft pkg.TaskDraft, authorID int64) (string, error) {
	return "", errors.New("not implemented")
}

func (s *stubData) ListActiveUsersByRole(ctx context.Context, role string) ([]pkg.UserRef, error) {
	return s.users, s.usersErr
}

func (s *stubData) ListActiveProjects(ctx context.Context) ([]pkg.ProjectRef, error) {
	return s.projects, s.projectsErr
}

type stubCatalog struct {
	types      []model.CatalogItem
	typesErr   error
	formats    []model.CatalogItem
	formatsErr error
}

func (s *stubCatalog) ListTaskTypes(ctx context.Context, role string) ([]model.CatalogItem, error) {
	return s.types, s.typesErr
}

func (s *stubCatalog) ListFormats(ctx context.Context) ([]model.CatalogItem, error) {
	return s.formats, s.formatsErr
}

func vocabFixture() *model.Vocabulary {
	v := &model.Vocabulary{Roles: []model.RoleSpec{
		{Key: "designer", Label: "🎨 Designer", RequiresFormat: true},
		{Key: "smm_manager", Label: "📱 SMM manager"},
	}}
	v.Fallback.TaskTypes = map[string][]model.CatalogItem{
		"designer": {{Key: "creative", Label: "Creative"}},
	}
	v.Fallback.Formats = []model.CatalogItem{{Key: "9x16", Label: "9:16"}}
	return v
}

func TestFetchUsersByRole(t *testing.T) {
	data := &stubData{users: []pkg.UserRef{
		{ID: 101, Name: "Alice Kim", Role: "designer", ChatID: 900101},
		{ID: 102, Name: "Bekzat Nur", Role: "designer", ChatID: 900102},
	}}
	p := NewProvider(data, &stubCatalog{}, vocabFixture(), 1)

	opts, err := p.FetchUsersByRole(context.Background(), "designer")
	require.NoError(t, err)
	require.Len(t, opts, 2)
	assert.Equal(t, "👤 Alice Kim", opts[0].Label)
	assert.Equal(t, "user:101", opts[0].Key)
	require.NotNil(t, opts[0].User)
	assert.Equal(t, int64(900101), opts[0].User.ChatID)
	assert.Equal(t, "user:102", opts[1].Key)
}

func TestFetchUsersLookupError(t *testing.T) {
	data := &stubData{usersErr: errors.New("service unreachable")}
	p := NewProvider(data, &stubCatalog{}, vocabFixture(), 1)

	_, err := p.FetchUsersByRole(context.Background(), "designer")
	var lerr *pkg.LookupError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, "executors", lerr.Resource)
}

func TestFetchProjectsAppendsNoProject(t *testing.T) {
	data := &stubData{projects: []pkg.ProjectRef{{ID: 1, Name: "Coffee Lab"}}}
	p := NewProvider(data, &stubCatalog{}, vocabFixture(), 1)

	opts, err := p.FetchProjects(context.Background())
	require.NoError(t, err)
	require.Len(t, opts, 2)
	assert.Equal(t, "📁 Coffee Lab", opts[0].Label)
	assert.Equal(t, "project:1", opts[0].Key)
	assert.Equal(t, NoProjectKey, opts[1].Key, "the no-project choice comes last")
}

func TestFetchProjectsLookupError(t *testing.T) {
	data := &stubData{projectsErr: errors.New("service unreachable")}
	p := NewProvider(data, &stubCatalog{}, vocabFixture(), 1)

	_, err := p.FetchProjects(context.Background())
	var lerr *pkg.LookupError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, "projects", lerr.Resource)
}

func TestFetchTaskTypesFromCatalog(t *testing.T) {
	cat := &stubCatalog{types: []model.CatalogItem{{Key: "carousel", Label: "Carousel"}}}
	p := NewProvider(&stubData{}, cat, vocabFixture(), 1)

	opts, err := p.FetchTaskTypes(context.Background(), "designer")
	require.NoError(t, err)
	require.Len(t, opts, 1)
	assert.Equal(t, "Carousel", opts[0].Label)
}

func TestFetchTaskTypesFallsBackOnError(t *testing.T) {
	cat := &stubCatalog{typesErr: errors.New("catalog down")}
	p := NewProvider(&stubData{}, cat, vocabFixture(), 1)

	opts, err := p.FetchTaskTypes(context.Background(), "designer")
	require.NoError(t, err, "a degraded catalog is substituted, not surfaced")
	require.Len(t, opts, 1)
	assert.Equal(t, "Creative", opts[0].Label)
}

func TestFetchTaskTypesFallsBackOnEmpty(t *testing.T) {
	p := NewProvider(&stubData{}, &stubCatalog{}, vocabFixture(), 1)

	opts, err := p.FetchTaskTypes(context.Background(), "designer")
	require.NoError(t, err)
	require.Len(t, opts, 1)
	assert.Equal(t, "creative", opts[0].Key)
}

func TestFetchFormatsFallsBack(t *testing.T) {
	cat := &stubCatalog{formatsErr: errors.New("catalog down")}
	p := NewProvider(&stubData{}, cat, vocabFixture(), 1)

	opts, err := p.FetchFormats(context.Background())
	require.NoError(t, err)
	require.Len(t, opts, 1)
	assert.Equal(t, "9:16", opts[0].Label)
}

func TestRoleOptions(t *testing.T) {
	p := NewProvider(&stubData{}, &stubCatalog{}, vocabFixture(), 1)

	opts := p.RoleOptions()
	require.Len(t, opts, 2)
	assert.Equal(t, "🎨 Designer", opts[0].Label)
	assert.Equal(t, "role:designer", opts[0].Key)
	assert.Equal(t, "role:smm_manager", opts[1].Key)
}
