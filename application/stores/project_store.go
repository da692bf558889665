package stores

import (
	"context"
	"sync"

	"ianct-client/domain/models"
	"ianct-client/pkg/validation"

	"go.uber.org/zap"
)

// ProjectStore caches the caller's projects and the one being viewed.
type ProjectStore struct {
	api    ProjectsClient
	logger *zap.Logger

	mu       sync.RWMutex
	projects []models.Project
	current  *models.Project
	loading  bool
	saving   bool
}

func NewProjectStore(client ProjectsClient, logger *zap.Logger) *ProjectStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProjectStore{api: client, logger: logger.Named("projects")}
}

func (s *ProjectStore) FetchMyProjects(ctx context.Context) ([]models.Project, error) {
	s.setLoading(true)
	defer s.setLoading(false)

	projects, err := s.api.Mine(ctx)
	if err != nil {
		return nil, err
	}
	if projects == nil {
		projects = []models.Project{}
	}
	s.mu.Lock()
	s.projects = projects
	s.mu.Unlock()
	return cloneProjects(projects), nil
}

func (s *ProjectStore) SelectProject(ctx context.Context, id int64) (*models.Project, error) {
	s.setLoading(true)
	defer s.setLoading(false)

	p, err := s.api.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.current = p
	s.mu.Unlock()
	return cloneProject(p), nil
}

// CreateProject validates the payload, creates the project, puts it first
// in the list and selects it.
func (s *ProjectStore) CreateProject(ctx context.Context, req models.ProjectCreateRequest) (*models.Project, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	s.setSaving(true)
	defer s.setSaving(false)

	p, err := s.api.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.projects = append([]models.Project{*p}, s.projects...)
	s.current = p
	s.mu.Unlock()

	s.logger.Info("Project created", zap.Int64("projectID", p.ID), zap.String("name", p.Name))
	return cloneProject(p), nil
}

func (s *ProjectStore) DeleteProject(ctx context.Context, id int64) error {
	if err := s.api.Delete(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := make([]models.Project, 0, len(s.projects))
	for _, p := range s.projects {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	s.projects = kept
	if s.current != nil && s.current.ID == id {
		s.current = nil
	}
	return nil
}

func (s *ProjectStore) AddMember(ctx context.Context, id int64, username string) (*models.Project, error) {
	if err := validation.Struct(models.ProjectMemberRequest{Username: username}); err != nil {
		return nil, err
	}
	p, err := s.api.AddMember(ctx, id, username)
	if err != nil {
		return nil, err
	}
	s.updateCache(p)
	return cloneProject(p), nil
}

func (s *ProjectStore) RemoveMember(ctx context.Context, id int64, username string) (*models.Project, error) {
	if err := validation.Struct(models.ProjectMemberRequest{Username: username}); err != nil {
		return nil, err
	}
	p, err := s.api.RemoveMember(ctx, id, username)
	if err != nil {
		return nil, err
	}
	s.updateCache(p)
	return cloneProject(p), nil
}

// updateCache replaces the cached project by id, or puts it first when it
// is not cached, and refreshes the current project when it matches.
func (s *ProjectStore) updateCache(p *models.Project) {
	if p == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	replaced := false
	for i := range s.projects {
		if s.projects[i].ID == p.ID {
			s.projects[i] = *p
			replaced = true
			break
		}
	}
	if !replaced {
		s.projects = append([]models.Project{*p}, s.projects...)
	}
	if s.current != nil && s.current.ID == p.ID {
		s.current = p
	}
}

// Reset drops all cached state.
func (s *ProjectStore) Reset() {
	s.mu.Lock()
	s.projects = nil
	s.current = nil
	s.loading = false
	s.saving = false
	s.mu.Unlock()
}

func (s *ProjectStore) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

func (s *ProjectStore) setSaving(v bool) {
	s.mu.Lock()
	s.saving = v
	s.mu.Unlock()
}

func (s *ProjectStore) Projects() []models.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneProjects(s.projects)
}

func (s *ProjectStore) Current() *models.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneProject(s.current)
}

func (s *ProjectStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *ProjectStore) Saving() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saving
}

func cloneProject(p *models.Project) *models.Project {
	if p == nil {
		return nil
	}
	c := *p
	c.Members = append([]models.ProjectMember(nil), p.Members...)
	return &c
}

func cloneProjects(in []models.Project) []models.Project {
	out := make([]models.Project, len(in))
	for i := range in {
		out[i] = *cloneProject(&in[i])
	}
	return out
}
