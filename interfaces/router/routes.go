// Package router resolves paths against an app's route table and runs the
// authentication guard before a view is shown.
package router

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/mux"
)

// Route is one entry of a route table. Path is a gorilla/mux template.
type Route struct {
	Name     string
	Path     string
	Redirect string
	// RequiresAuth routes are only shown to authenticated users.
	RequiresAuth bool
	// GuestOnly routes send authenticated users to the dashboard.
	GuestOnly bool
}

// Location is a resolved navigation target.
type Location struct {
	Name     string
	Path     string
	FullPath string
	Params   map[string]string
	Query    url.Values
	Route    Route
}

// Table matches paths against a fixed list of routes.
type Table struct {
	routes []Route
	byName map[string]Route
	mux    *mux.Router
}

// NewTable builds a table. Routes are matched in declaration order.
func NewTable(routes []Route) *Table {
	t := &Table{
		routes: routes,
		byName: make(map[string]Route, len(routes)),
		mux:    mux.NewRouter(),
	}
	for _, r := range routes {
		name := r.Name
		if name == "" {
			name = r.Path
		}
		t.mux.Path(r.Path).Name(name)
		t.byName[name] = r
	}
	return t
}

// Routes returns the declared routes.
func (t *Table) Routes() []Route {
	out := make([]Route, len(t.routes))
	copy(out, t.routes)
	return out
}

// Match resolves fullPath, which may carry a query string.
func (t *Table) Match(fullPath string) (Location, bool) {
	if !strings.HasPrefix(fullPath, "/") {
		fullPath = "/" + fullPath
	}
	req, err := http.NewRequest(http.MethodGet, fullPath, nil)
	if err != nil {
		return Location{}, false
	}

	var m mux.RouteMatch
	if !t.mux.Match(req, &m) || m.MatchErr != nil || m.Route == nil {
		return Location{}, false
	}
	route := t.byName[m.Route.GetName()]
	return Location{
		Name:     route.Name,
		Path:     req.URL.Path,
		FullPath: fullPath,
		Params:   m.Vars,
		Query:    req.URL.Query(),
		Route:    route,
	}, true
}

// AdminRoutes is the admin console route table.
func AdminRoutes() []Route {
	return []Route{
		{Name: "login", Path: "/login", GuestOnly: true},
		{Path: "/", Redirect: "/dashboard"},
		{Name: "dashboard", Path: "/dashboard", RequiresAuth: true},
		{Name: "texts", Path: "/texts", RequiresAuth: true},
		{Name: "annotations", Path: "/annotations", RequiresAuth: true},
		{Name: "model-jobs", Path: "/model-jobs", RequiresAuth: true},
		{Name: "users", Path: "/users", RequiresAuth: true},
		{Name: "settings", Path: "/settings", RequiresAuth: true},
	}
}

// WorkspaceRoutes is the end-user workspace route table.
func WorkspaceRoutes() []Route {
	return []Route{
		{Name: "home", Path: "/"},
		{Name: "login", Path: "/login", GuestOnly: true},
		{Name: "register", Path: "/register", GuestOnly: true},
		{Name: "dashboard", Path: "/dashboard", RequiresAuth: true},
		{Name: "documents", Path: "/documents", RequiresAuth: true},
		{Name: "projects", Path: "/projects", RequiresAuth: true},
		{Name: "project-documents", Path: "/projects/{projectId:[0-9]+}/documents", RequiresAuth: true},
		{Name: "profile", Path: "/profile", RequiresAuth: true},
		{Name: "text-workspace", Path: "/texts/{id:[0-9]+}", RequiresAuth: true},
	}
}
