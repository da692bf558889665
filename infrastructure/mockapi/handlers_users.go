package mockapi

import (
	"net/http"
	"sort"

	"ianct-client/domain/models"
)

func (s *Server) findUser(username string) *user {
	for _, u := range s.users {
		if u.profile.Username == username {
			return u
		}
	}
	return nil
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	u := s.findUser(req.Username)
	if u == nil || !checkPassword(u.password, req.Password) {
		s.mu.Unlock()
		respondError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}
	if !enabled(u.profile) {
		s.mu.Unlock()
		respondError(w, http.StatusForbidden, "account disabled")
		return
	}
	u.profile.LastLoginTime = timePtr(s.now())
	profile := u.profile
	s.mu.Unlock()

	token, err := s.IssueToken(profile)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}
	respondJSON(w, http.StatusOK, models.AuthResponse{
		Token:    token,
		Username: profile.Username,
		Email:    profile.Email,
	})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	if s.findUser(req.Username) != nil {
		s.mu.Unlock()
		respondError(w, http.StatusConflict, "username already exists")
		return
	}
	profile := s.addUser(req.Username, req.Email, req.Password, RoleUser).profile
	s.mu.Unlock()

	token, err := s.IssueToken(profile)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}
	respondJSON(w, http.StatusOK, models.AuthResponse{
		Token:    token,
		Username: profile.Username,
		Email:    profile.Email,
		Message:  "registered",
	})
}

func (s *Server) currentUser(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	profile := s.users[currentUserID(r)].profile
	s.mu.Unlock()
	respondJSON(w, http.StatusOK, profile)
}

func (s *Server) updateEmail(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateEmailRequest
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	u := s.users[currentUserID(r)]
	u.profile.Email = req.Email
	profile := u.profile
	s.mu.Unlock()
	respondJSON(w, http.StatusOK, profile)
}

func (s *Server) changePassword(w http.ResponseWriter, r *http.Request) {
	var req models.UpdatePasswordRequest
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.users[currentUserID(r)]
	if !checkPassword(u.password, req.CurrentPassword) {
		respondError(w, http.StatusBadRequest, "current password is incorrect")
		return
	}
	u.password = hashPassword(req.NewPassword)
	respondJSON(w, http.StatusOK, models.MessageResponse{Message: "password updated"})
}

func summarize(p models.UserProfile) models.UserSummary {
	return models.UserSummary{
		ID:            p.ID,
		Username:      p.Username,
		Email:         p.Email,
		Enabled:       enabled(p),
		CreateTime:    p.CreateTime,
		LastLoginTime: p.LastLoginTime,
	}
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := make([]models.UserSummary, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, summarize(u.profile))
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findUser(req.Username) != nil {
		respondError(w, http.StatusConflict, "username already exists")
		return
	}
	u := s.addUser(req.Username, req.Email, req.Password, RoleUser)
	respondJSON(w, http.StatusCreated, summarize(u.profile))
}

func (s *Server) updateUserStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req models.UserStatusUpdateRequest
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, found := s.users[id]
	if !found {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}
	on := req.Enabled
	u.profile.Enabled = &on
	respondJSON(w, http.StatusOK, summarize(u.profile))
}
