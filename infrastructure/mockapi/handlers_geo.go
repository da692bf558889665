package mockapi

import (
	"net/http"
	"sort"

	"ianct-client/domain/models"
)

func (s *Server) locate(w http.ResponseWriter, r *http.Request) {
	var req models.GeoLocateRequest
	if !decode(w, r, &req) {
		return
	}
	source := "gazetteer"
	if req.Model != "" {
		source = req.Model
	}
	out := make([]models.GeoPoint, 0, len(req.Entities))
	for _, e := range req.Entities {
		p := models.GeoPoint{EntityID: e.ID, Label: e.Label}
		if c, ok := gazetteer[e.Label]; ok {
			lat, lon := c.lat, c.lon
			p.Latitude, p.Longitude = &lat, &lon
			p.Source = source
		} else {
			p.Note = "no coordinates found"
		}
		out = append(out, p)
	}
	respondJSON(w, http.StatusOK, out)
}

// saveMarker upserts by text and entity.
func (s *Server) saveMarker(w http.ResponseWriter, r *http.Request) {
	var req models.SaveMarkerRequest
	if !decode(w, r, &req) {
		return
	}
	if req.TextID <= 0 || req.EntityID <= 0 {
		respondError(w, http.StatusBadRequest, "textId and entityId are required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.lookupText(w, req.TextID); !ok {
		return
	}

	now := s.now()
	m := s.findMarker(req.TextID, req.EntityID)
	if m == nil {
		m = &models.GeoMarker{ID: s.nextID(), TextID: req.TextID, EntityID: req.EntityID, CreatedAt: &now}
		s.markers[m.ID] = m
	}
	m.EntityLabel = req.EntityLabel
	m.Category = req.Category
	m.Latitude = req.Latitude
	m.Longitude = req.Longitude
	m.Source = req.Source
	m.OrderIndex = req.OrderIndex
	m.UpdatedAt = &now
	respondJSON(w, http.StatusOK, *m)
}

func (s *Server) findMarker(textID, entityID int64) *models.GeoMarker {
	for _, m := range s.markers {
		if m.TextID == textID && m.EntityID == entityID {
			return m
		}
	}
	return nil
}

func (s *Server) listMarkers(w http.ResponseWriter, r *http.Request) {
	textID, ok := pathID(w, r, "textId")
	if !ok {
		return
	}
	s.mu.Lock()
	out := make([]models.GeoMarker, 0)
	for _, m := range s.markers {
		if m.TextID == textID {
			out = append(out, *m)
		}
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].OrderIndex != out[j].OrderIndex {
			return out[i].OrderIndex < out[j].OrderIndex
		}
		return out[i].ID < out[j].ID
	})
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) deleteMarker(w http.ResponseWriter, r *http.Request) {
	textID, ok := pathID(w, r, "textId")
	if !ok {
		return
	}
	entityID, ok := pathID(w, r, "entityId")
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.findMarker(textID, entityID)
	if m == nil {
		respondError(w, http.StatusNotFound, "marker not found")
		return
	}
	delete(s.markers, m.ID)
	w.WriteHeader(http.StatusNoContent)
}
