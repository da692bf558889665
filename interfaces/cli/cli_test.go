package cli

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"ianct-client/infrastructure/config"
	"ianct-client/infrastructure/di"
	"ianct-client/infrastructure/mockapi"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	srv := mockapi.New(mockapi.Options{Seed: true}, zap.NewNop())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	cfg := config.Default(config.Test)
	cfg.API.BaseURL = ts.URL + "/api"
	cfg.Storage.Driver = config.StorageMemory
	cfg.Storage.Watch = false
	cfg.Logging.Level = "error"
	cfg.Export.Dir = t.TempDir()
	return cfg
}

func newWorkspaceShell(t *testing.T) (*Workspace, *di.WorkspaceContainer, *bytes.Buffer) {
	t.Helper()
	c, cleanup, err := di.InitializeWorkspace(context.Background(), testConfig(t))
	require.NoError(t, err)
	t.Cleanup(cleanup)

	out := &bytes.Buffer{}
	shell := NewWorkspace(WorkspaceDeps{
		Session:   c.Session,
		Projects:  c.Projects,
		Texts:     c.Texts,
		Models:    c.API.Models,
		Geo:       c.API.Geo,
		Dashboard: c.API.Dashboard,
		Navigator: c.Navigator,
		ExportDir: c.Config.Export.Dir,
	}, out, zap.NewNop())
	return shell, c, out
}

func newAdminShell(t *testing.T) (*Admin, *bytes.Buffer) {
	t.Helper()
	c, cleanup, err := di.InitializeAdmin(context.Background(), testConfig(t))
	require.NoError(t, err)
	t.Cleanup(cleanup)

	out := &bytes.Buffer{}
	return NewAdmin(c.Auth, c.API, c.Navigator, out, zap.NewNop()), out
}

func TestWorkspace_LoginReturnsToGuardedPage(t *testing.T) {
	shell, _, out := newWorkspaceShell(t)

	script := strings.Join([]string{
		"texts",
		"login " + mockapi.UserUsername + " " + mockapi.UserPassword,
		"whoami",
		"where",
		"exit",
	}, "\n")
	require.NoError(t, shell.Run(context.Background(), strings.NewReader(script)))

	got := out.String()
	assert.Contains(t, got, "-> /login?redirect=%2Fdocuments")
	assert.Contains(t, got, "Signed in as reader")
	assert.Contains(t, got, "-> /documents")
	assert.Contains(t, got, "reader <")
}

func TestWorkspace_BadLoginAndUnknownCommand(t *testing.T) {
	shell, _, out := newWorkspaceShell(t)
	ctx := context.Background()

	shell.Exec(ctx, "login", []string{mockapi.UserUsername, "wrong-password"})
	shell.Exec(ctx, "frobnicate", nil)
	shell.Exec(ctx, "open", nil)

	got := out.String()
	assert.Contains(t, got, "Login failed: invalid username or password")
	assert.Contains(t, got, `Unknown command "frobnicate"`)
	assert.Contains(t, got, "Usage: open <textId>")
}

func TestWorkspace_AnnotateAndExport(t *testing.T) {
	shell, c, out := newWorkspaceShell(t)
	ctx := context.Background()

	shell.Exec(ctx, "login", []string{mockapi.UserUsername, mockapi.UserPassword})
	shell.Exec(ctx, "dashboard", nil)

	st := c.Texts.Snapshot()
	require.NotZero(t, st.SelectedTextID)
	before := len(st.Entities)

	shell.Exec(ctx, "entity-add", []string{"乌江", "LOCATION", "0", "2"})
	assert.Len(t, c.Texts.Snapshot().Entities, before+1)

	shell.Exec(ctx, "entity-add", []string{"乌江", "LOCATION", "x", "2"})
	assert.Contains(t, out.String(), "start and end must be numbers")

	shell.Exec(ctx, "export", []string{"json"})
	path := filepath.Join(c.Config.Export.Dir, "text-"+strconv.FormatInt(st.SelectedTextID, 10)+".json")
	_, err := os.Stat(path)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Exported to "+path)

	shell.Exec(ctx, "export", []string{"pdf"})
	assert.Contains(t, out.String(), `unknown export format "pdf"`)
}

func TestWorkspace_CommandsNeedSelection(t *testing.T) {
	shell, _, out := newWorkspaceShell(t)

	shell.Exec(context.Background(), "classify", nil)
	assert.Contains(t, out.String(), "no text open")
}

func TestWorkspace_Projects(t *testing.T) {
	shell, c, out := newWorkspaceShell(t)
	ctx := context.Background()

	shell.Exec(ctx, "login", []string{mockapi.UserUsername, mockapi.UserPassword})
	shell.Exec(ctx, "project-new", []string{"楚汉", "相争", "研究"})

	current := c.Projects.Current()
	require.NotNil(t, current)
	assert.Equal(t, "楚汉", current.Name)
	assert.Equal(t, "相争 研究", current.Description)

	shell.Exec(ctx, "member-add", []string{strconv.FormatInt(current.ID, 10), mockapi.AdminUsername})
	assert.Contains(t, out.String(), "楚汉 members: reader, admin")

	shell.Exec(ctx, "member-rm", []string{strconv.FormatInt(current.ID, 10), mockapi.UserUsername})
	assert.Contains(t, out.String(), "Error: the owner cannot be removed")
}

func TestAdmin_UsersBehindLogin(t *testing.T) {
	shell, out := newAdminShell(t)
	ctx := context.Background()

	shell.Exec(ctx, "users", nil)
	assert.Contains(t, out.String(), "-> /login?redirect=%2Fusers")

	shell.Exec(ctx, "login", []string{mockapi.AdminUsername, mockapi.AdminPassword})
	assert.Contains(t, out.String(), "-> /users")

	out.Reset()
	shell.Exec(ctx, "users", nil)
	assert.Contains(t, out.String(), mockapi.UserUsername)

	shell.Exec(ctx, "user-disable", []string{"2"})
	assert.Contains(t, out.String(), "reader enabled=false")

	shell.Exec(ctx, "user-disable", []string{"abc"})
	assert.Contains(t, out.String(), `invalid id "abc"`)
}

func TestAdmin_Models(t *testing.T) {
	shell, out := newAdminShell(t)
	ctx := context.Background()

	shell.Exec(ctx, "login", []string{mockapi.AdminUsername, mockapi.AdminPassword})
	shell.Exec(ctx, "models", nil)
	assert.Contains(t, out.String(), "gpt-4o")

	shell.Exec(ctx, "model-add", []string{"glm-4", "zhipu", "GLM", "4"})
	assert.Contains(t, out.String(), "(glm-4)")

	shell.Exec(ctx, "model-enable", []string{"999"})
	assert.Contains(t, out.String(), "Error:")
}

func TestWorkspace_EditTextSectionAndOverview(t *testing.T) {
	shell, c, out := newWorkspaceShell(t)
	ctx := context.Background()

	shell.Exec(ctx, "text-edit", []string{"标题"})
	assert.Contains(t, out.String(), "no text open")

	shell.Exec(ctx, "login", []string{mockapi.UserUsername, mockapi.UserPassword})
	shell.Exec(ctx, "dashboard", nil)
	st := c.Texts.Snapshot()
	require.NotNil(t, st.SelectedText)
	require.NotEmpty(t, st.Sections)
	id := strconv.FormatInt(st.SelectedTextID, 10)

	shell.Exec(ctx, "text-edit", []string{"项羽本纪（校订）"})
	assert.Contains(t, out.String(), "Updated text "+id+" (项羽本纪（校订）)")
	edited := c.Texts.Snapshot().SelectedText
	assert.Equal(t, "项羽本纪（校订）", edited.Title)
	assert.Equal(t, st.SelectedText.Content, edited.Content)
	assert.Equal(t, st.SelectedText.Category, edited.Category)

	section := strconv.FormatInt(st.Sections[0].ID, 10)
	shell.Exec(ctx, "section-edit", []string{section, "起兵", "项梁", "起事"})
	assert.Contains(t, out.String(), "Section "+section+": 起兵")
	assert.Equal(t, "项梁 起事", c.Texts.Snapshot().Sections[0].Summary)

	shell.Exec(ctx, "overview", nil)
	assert.Contains(t, out.String(), "text "+id+" (warfare)")
	assert.Contains(t, out.String(), "map points 1")
}

func TestWorkspace_GeoMarkers(t *testing.T) {
	shell, c, out := newWorkspaceShell(t)
	ctx := context.Background()

	shell.Exec(ctx, "login", []string{mockapi.UserUsername, mockapi.UserPassword})
	shell.Exec(ctx, "dashboard", nil)
	st := c.Texts.Snapshot()

	var place, person int64
	for _, e := range st.Entities {
		switch e.Label {
		case "垓下":
			place = e.ID
		case "项羽":
			person = e.ID
		}
	}
	require.NotZero(t, place)
	require.NotZero(t, person)

	shell.Exec(ctx, "marker-add", []string{"all"})
	assert.Contains(t, out.String(), "nothing located")

	shell.Exec(ctx, "geo", nil)
	assert.Contains(t, out.String(), "垓下")
	assert.Contains(t, out.String(), "33.30")

	shell.Exec(ctx, "marker-add", []string{"all"})
	assert.Contains(t, out.String(), "Saved 1 of 1 markers")

	markers, err := c.API.Geo.Markers(ctx, st.SelectedTextID)
	require.NoError(t, err)
	require.Len(t, markers, 1)
	assert.Equal(t, place, markers[0].EntityID)
	assert.InDelta(t, 117.60, markers[0].Longitude, 1e-9)

	shell.Exec(ctx, "marker-add", []string{strconv.FormatInt(person, 10)})
	assert.Contains(t, out.String(), "has no located coordinates")

	shell.Exec(ctx, "marker-add", []string{strconv.FormatInt(place, 10), "30.5", "114.3"})
	assert.Contains(t, out.String(), "Marker saved for 垓下 (30.50, 114.30)")

	shell.Exec(ctx, "markers", nil)
	assert.Contains(t, out.String(), "114.30")

	shell.Exec(ctx, "marker-rm", []string{strconv.FormatInt(place, 10)})
	assert.Contains(t, out.String(), "Marker for entity "+strconv.FormatInt(place, 10)+" deleted")
	markers, err = c.API.Geo.Markers(ctx, st.SelectedTextID)
	require.NoError(t, err)
	assert.Empty(t, markers)
}
