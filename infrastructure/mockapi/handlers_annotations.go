package mockapi

import (
	"net/http"
	"sort"

	"ianct-client/domain/models"
)

func (s *Server) textEntities(textID int64) []models.Entity {
	out := make([]models.Entity, 0)
	for _, e := range s.entities {
		if e.TextID == textID {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// relationView embeds the endpoint entities the way the backend does on reads.
func (s *Server) relationView(r models.Relation) models.Relation {
	if src, ok := s.entities[r.SourceEntityID]; ok {
		e := *src
		r.Source = &e
	}
	if dst, ok := s.entities[r.TargetEntityID]; ok {
		e := *dst
		r.Target = &e
	}
	return r
}

func (s *Server) textRelations(textID int64) []models.Relation {
	out := make([]models.Relation, 0)
	for _, r := range s.relations {
		if r.TextID == textID {
			out = append(out, s.relationView(*r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Server) textIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	textID, ok := queryID(r, "textId")
	if !ok || textID == nil {
		respondError(w, http.StatusBadRequest, "textId is required")
		return 0, false
	}
	return *textID, true
}

func (s *Server) listEntities(w http.ResponseWriter, r *http.Request) {
	textID, ok := s.textIDParam(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	out := s.textEntities(textID)
	s.mu.Unlock()
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) listRelations(w http.ResponseWriter, r *http.Request) {
	textID, ok := s.textIDParam(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	out := s.textRelations(textID)
	s.mu.Unlock()
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) createEntity(w http.ResponseWriter, r *http.Request) {
	var req models.EntityCreateRequest
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.lookupText(w, req.TextID); !ok {
		return
	}
	e := &models.Entity{
		ID:          s.nextID(),
		TextID:      req.TextID,
		Label:       req.Label,
		Category:    req.Category,
		StartOffset: req.StartOffset,
		EndOffset:   req.EndOffset,
		Confidence:  req.Confidence,
	}
	s.entities[e.ID] = e
	respondJSON(w, http.StatusOK, *e)
}

func (s *Server) createRelation(w http.ResponseWriter, r *http.Request) {
	var req models.RelationCreateRequest
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.lookupText(w, req.TextID); !ok {
		return
	}
	for _, id := range []int64{req.SourceEntityID, req.TargetEntityID} {
		if e, ok := s.entities[id]; !ok || e.TextID != req.TextID {
			respondError(w, http.StatusBadRequest, "relation endpoints must be entities of the text")
			return
		}
	}
	rel := s.newRelation(req)
	respondJSON(w, http.StatusOK, s.relationView(*rel))
}

// deleteEntity removes the entity and every relation touching it.
func (s *Server) deleteEntity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.entities[id]; !found {
		respondError(w, http.StatusNotFound, "entity not found")
		return
	}
	delete(s.entities, id)
	for rid, rel := range s.relations {
		if rel.SourceEntityID == id || rel.TargetEntityID == id {
			delete(s.relations, rid)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteRelation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.relations[id]; !found {
		respondError(w, http.StatusNotFound, "relation not found")
		return
	}
	delete(s.relations, id)
	w.WriteHeader(http.StatusNoContent)
}
