package stores

import (
	"context"

	"ianct-client/domain/models"
	"ianct-client/infrastructure/httpclient"
	"ianct-client/interfaces/api"
)

// AdminAuthClient is what the admin auth store needs from the API.
type AdminAuthClient interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	Current(ctx context.Context) (*models.UserProfile, error)
}

// SessionAuthClient covers the workspace sign-in endpoints.
type SessionAuthClient interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
}

type ProfileClient interface {
	Me(ctx context.Context) (*models.UserProfile, error)
	UpdateEmail(ctx context.Context, req models.UpdateEmailRequest) (*models.UserProfile, error)
	ChangePassword(ctx context.Context, req models.UpdatePasswordRequest) (*models.MessageResponse, error)
}

type ProjectsClient interface {
	Mine(ctx context.Context) ([]models.Project, error)
	Create(ctx context.Context, req models.ProjectCreateRequest) (*models.Project, error)
	Delete(ctx context.Context, projectID int64) error
	Get(ctx context.Context, projectID int64) (*models.Project, error)
	AddMember(ctx context.Context, projectID int64, username string) (*models.Project, error)
	RemoveMember(ctx context.Context, projectID int64, username string) (*models.Project, error)
}

type TextsClient interface {
	List(ctx context.Context, category string, projectID *int64) ([]models.Text, error)
	Get(ctx context.Context, textID int64) (*models.Text, error)
	Upload(ctx context.Context, req models.TextUploadRequest) (*models.Text, error)
	Update(ctx context.Context, textID int64, req models.TextUploadRequest) (*models.Text, error)
	UpdateCategory(ctx context.Context, textID int64, category string) (*models.Text, error)
	Delete(ctx context.Context, textID int64) error
	Export(ctx context.Context, textID int64) (*httpclient.Blob, error)
}

type AnnotationsClient interface {
	Entities(ctx context.Context, textID int64) ([]models.Entity, error)
	Relations(ctx context.Context, textID int64) ([]models.Relation, error)
	CreateEntity(ctx context.Context, req models.EntityCreateRequest) (*models.Entity, error)
	CreateRelation(ctx context.Context, req models.RelationCreateRequest) (*models.Relation, error)
	DeleteEntity(ctx context.Context, entityID int64) error
	DeleteRelation(ctx context.Context, relationID int64) error
}

type SectionsClient interface {
	List(ctx context.Context, textID int64) ([]models.Section, error)
	AutoSegment(ctx context.Context, textID int64) ([]models.Section, error)
	Update(ctx context.Context, sectionID int64, req models.SectionUpdateRequest) (*models.Section, error)
}

type AnalysisClient interface {
	Classify(ctx context.Context, textID int64, model string) (*models.Classification, error)
	AutoAnnotate(ctx context.Context, textID int64) (*models.AutoAnnotation, error)
	Insights(ctx context.Context, textID int64, light bool) (*models.Insights, error)
	Full(ctx context.Context, textID int64, model string) (*models.FullAnalysis, error)
}

type NavigationClient interface {
	Tree(ctx context.Context, projectID *int64) ([]models.NavigationNode, error)
}

type SearchClient interface {
	Texts(ctx context.Context, keyword string, projectID *int64) ([]models.SearchResult, error)
}

// TextClients groups the API modules the text store calls.
type TextClients struct {
	Texts       TextsClient
	Annotations AnnotationsClient
	Sections    SectionsClient
	Analysis    AnalysisClient
	Navigation  NavigationClient
	Search      SearchClient
}

// TextClientsFrom picks the text store's modules out of the workspace set.
func TextClientsFrom(w *api.Workspace) TextClients {
	return TextClients{
		Texts:       w.Texts,
		Annotations: w.Annotations,
		Sections:    w.Sections,
		Analysis:    w.Analysis,
		Navigation:  w.Navigation,
		Search:      w.Search,
	}
}

var (
	_ AdminAuthClient   = (*api.AuthAPI)(nil)
	_ SessionAuthClient = (*api.AuthAPI)(nil)
	_ ProfileClient     = (*api.ProfileAPI)(nil)
	_ ProjectsClient    = (*api.ProjectsAPI)(nil)
	_ TextsClient       = (*api.TextsAPI)(nil)
	_ AnnotationsClient = (*api.AnnotationsAPI)(nil)
	_ SectionsClient    = (*api.SectionsAPI)(nil)
	_ AnalysisClient    = (*api.AnalysisAPI)(nil)
	_ NavigationClient  = (*api.NavigationAPI)(nil)
	_ SearchClient      = (*api.SearchAPI)(nil)
)
