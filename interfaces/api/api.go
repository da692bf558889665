// Package api maps each backend REST endpoint to one Go method. Methods do
// no validation or transformation beyond JSON decoding; callers decide how
// to merge results.
package api

import (
	"context"
	"net/url"
	"strconv"

	"ianct-client/infrastructure/httpclient"
)

// Requester is the transport the API modules run on. *httpclient.Client
// implements it.
type Requester interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, query url.Values, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Patch(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string, body, out any) error
	GetBlob(ctx context.Context, path string) (*httpclient.Blob, error)
}

var _ Requester = (*httpclient.Client)(nil)

func id(v int64) string {
	return strconv.FormatInt(v, 10)
}

// optionalID renders a nullable id as a query value; nil becomes "".
func optionalID(v *int64) string {
	if v == nil {
		return ""
	}
	return id(*v)
}

// Admin bundles the modules used by the admin console.
type Admin struct {
	Auth        *AuthAPI
	Users       *UsersAPI
	Texts       *TextsAPI
	Annotations *AnnotationsAPI
	Models      *ModelsAPI
	Dashboard   *DashboardAPI
}

// NewAdmin builds the admin module set on r.
func NewAdmin(r Requester) *Admin {
	return &Admin{
		Auth:        NewAuthAPI(r),
		Users:       NewUsersAPI(r),
		Texts:       NewTextsAPI(r),
		Annotations: NewAnnotationsAPI(r),
		Models:      NewModelsAPI(r),
		Dashboard:   NewDashboardAPI(r),
	}
}

// Workspace bundles the modules used by the end-user workspace.
type Workspace struct {
	Auth        *AuthAPI
	Texts       *TextsAPI
	Annotations *AnnotationsAPI
	Sections    *SectionsAPI
	Analysis    *AnalysisAPI
	Geo         *GeoAPI
	Models      *ModelsAPI
	Navigation  *NavigationAPI
	Projects    *ProjectsAPI
	Search      *SearchAPI
	Profile     *ProfileAPI
	Dashboard   *DashboardAPI
}

// NewWorkspace builds the workspace module set on r.
func NewWorkspace(r Requester) *Workspace {
	return &Workspace{
		Auth:        NewAuthAPI(r),
		Texts:       NewTextsAPI(r),
		Annotations: NewAnnotationsAPI(r),
		Sections:    NewSectionsAPI(r),
		Analysis:    NewAnalysisAPI(r),
		Geo:         NewGeoAPI(r),
		Models:      NewModelsAPI(r),
		Navigation:  NewNavigationAPI(r),
		Projects:    NewProjectsAPI(r),
		Search:      NewSearchAPI(r),
		Profile:     NewProfileAPI(r),
		Dashboard:   NewDashboardAPI(r),
	}
}
