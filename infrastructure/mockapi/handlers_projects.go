package mockapi

import (
	"net/http"
	"sort"

	"ianct-client/domain/models"
)

func cloneProject(p *models.Project) models.Project {
	out := *p
	out.Members = append([]models.ProjectMember(nil), p.Members...)
	return out
}

func memberIndex(p *models.Project, username string) int {
	for i, m := range p.Members {
		if m.Username == username {
			return i
		}
	}
	return -1
}

func isMember(p *models.Project, userID int64) bool {
	for _, m := range p.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// memberProject resolves the project in the path for a member of it,
// writing 404 or 403 otherwise. Callers hold s.mu.
func (s *Server) memberProject(w http.ResponseWriter, r *http.Request) (*models.Project, bool) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return nil, false
	}
	p, found := s.projects[id]
	if !found {
		respondError(w, http.StatusNotFound, "project not found")
		return nil, false
	}
	if !isMember(p, currentUserID(r)) {
		respondError(w, http.StatusForbidden, "not a member of this project")
		return nil, false
	}
	return p, true
}

// ownedProject is memberProject restricted to the owner.
func (s *Server) ownedProject(w http.ResponseWriter, r *http.Request) (*models.Project, bool) {
	p, ok := s.memberProject(w, r)
	if !ok {
		return nil, false
	}
	if p.OwnerID != currentUserID(r) {
		respondError(w, http.StatusForbidden, "only the owner can change this project")
		return nil, false
	}
	return p, true
}

// myProjects lists projects the caller belongs to, newest first.
func (s *Server) myProjects(w http.ResponseWriter, r *http.Request) {
	uid := currentUserID(r)
	s.mu.Lock()
	out := make([]models.Project, 0)
	for _, p := range s.projects {
		if isMember(p, uid) {
			out = append(out, cloneProject(p))
		}
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) createProject(w http.ResponseWriter, r *http.Request) {
	var req models.ProjectCreateRequest
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.newProject(s.users[currentUserID(r)], req.Name, req.Description)
	respondJSON(w, http.StatusOK, cloneProject(p))
}

func (s *Server) getProject(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.memberProject(w, r); ok {
		respondJSON(w, http.StatusOK, cloneProject(p))
	}
}

// deleteProject detaches the project's texts rather than deleting them.
func (s *Server) deleteProject(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.ownedProject(w, r)
	if !ok {
		return
	}
	delete(s.projects, p.ID)
	for _, t := range s.texts {
		if t.ProjectID != nil && *t.ProjectID == p.ID {
			t.ProjectID = nil
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) addMember(w http.ResponseWriter, r *http.Request) {
	var req models.ProjectMemberRequest
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.ownedProject(w, r)
	if !ok {
		return
	}
	u := s.findUser(req.Username)
	if u == nil {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}
	if memberIndex(p, req.Username) >= 0 {
		respondError(w, http.StatusConflict, "user is already a member")
		return
	}
	p.Members = append(p.Members, models.ProjectMember{
		UserID:   u.profile.ID,
		Username: u.profile.Username,
		Email:    u.profile.Email,
		Role:     models.RoleMember,
	})
	p.UpdatedAt = timePtr(s.now())
	respondJSON(w, http.StatusOK, cloneProject(p))
}

func (s *Server) removeMember(w http.ResponseWriter, r *http.Request) {
	var req models.ProjectMemberRequest
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.ownedProject(w, r)
	if !ok {
		return
	}
	i := memberIndex(p, req.Username)
	if i < 0 {
		respondError(w, http.StatusNotFound, "user is not a member")
		return
	}
	if p.Members[i].Role == models.RoleOwner {
		respondError(w, http.StatusBadRequest, "the owner cannot be removed")
		return
	}
	p.Members = append(p.Members[:i], p.Members[i+1:]...)
	p.UpdatedAt = timePtr(s.now())
	respondJSON(w, http.StatusOK, cloneProject(p))
}
