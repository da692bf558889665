package mockapi

import (
	"net/http"
	"sort"

	"ianct-client/domain/models"
)

func (s *Server) sortedModels(enabledOnly bool) []models.ModelConfig {
	out := make([]models.ModelConfig, 0, len(s.modelCfgs))
	for _, m := range s.modelCfgs {
		if enabledOnly && !m.Enabled {
			continue
		}
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *Server) enabledModels(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := s.sortedModels(true)
	s.mu.Unlock()
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) allModels(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := s.sortedModels(false)
	s.mu.Unlock()
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) modelKeyTaken(key string, except int64) bool {
	for _, m := range s.modelCfgs {
		if m.ModelKey == key && m.ID != except {
			return true
		}
	}
	return false
}

func (s *Server) createModel(w http.ResponseWriter, r *http.Request) {
	var req models.ModelConfig
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.modelKeyTaken(req.ModelKey, 0) {
		respondError(w, http.StatusConflict, "model key already exists")
		return
	}
	req.ID = s.nextID()
	cfg := req
	s.modelCfgs[cfg.ID] = &cfg
	respondJSON(w, http.StatusOK, cfg)
}

func (s *Server) updateModel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req models.ModelConfig
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.modelCfgs[id]; !found {
		respondError(w, http.StatusNotFound, "model not found")
		return
	}
	if s.modelKeyTaken(req.ModelKey, id) {
		respondError(w, http.StatusConflict, "model key already exists")
		return
	}
	req.ID = id
	cfg := req
	s.modelCfgs[id] = &cfg
	respondJSON(w, http.StatusOK, cfg)
}

func (s *Server) deleteModel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.modelCfgs[id]; !found {
		respondError(w, http.StatusNotFound, "model not found")
		return
	}
	delete(s.modelCfgs, id)
	w.WriteHeader(http.StatusNoContent)
}
