package mockapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"unicode/utf8"

	"ianct-client/domain/models"
)

func (s *Server) sortedTexts(projectID *int64, category string) []models.Text {
	out := make([]models.Text, 0, len(s.texts))
	for _, t := range s.texts {
		if projectID != nil && (t.ProjectID == nil || *t.ProjectID != *projectID) {
			continue
		}
		if category != "" && t.Category != category {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Server) listTexts(w http.ResponseWriter, r *http.Request) {
	projectID, ok := queryID(r, "projectId")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid projectId")
		return
	}
	s.mu.Lock()
	out := s.sortedTexts(projectID, r.URL.Query().Get("category"))
	s.mu.Unlock()
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) searchTexts(w http.ResponseWriter, r *http.Request) {
	keyword := strings.TrimSpace(r.URL.Query().Get("keyword"))
	if keyword == "" {
		respondError(w, http.StatusBadRequest, "keyword is required")
		return
	}
	projectID, ok := queryID(r, "projectId")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid projectId")
		return
	}

	s.mu.Lock()
	texts := s.sortedTexts(projectID, "")
	s.mu.Unlock()

	out := make([]models.SearchResult, 0)
	for _, t := range texts {
		hits := strings.Count(t.Title, keyword) + strings.Count(t.Content, keyword)
		if hits == 0 {
			continue
		}
		res := models.SearchResult{
			TextID:   t.ID,
			Title:    t.Title,
			Category: t.Category,
			Score:    float64(hits),
		}
		if start, end := runeSpan(t.Content, keyword, 0); start >= 0 {
			res.Snippet = snippet(t.Content, start, end, 10)
		}
		out = append(out, res)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	respondJSON(w, http.StatusOK, out)
}

// lookupText writes a 404 when the text is missing. Callers hold s.mu.
func (s *Server) lookupText(w http.ResponseWriter, id int64) (*models.Text, bool) {
	t, ok := s.texts[id]
	if !ok {
		respondError(w, http.StatusNotFound, "text not found")
	}
	return t, ok
}

func (s *Server) getText(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.lookupText(w, id); ok {
		respondJSON(w, http.StatusOK, *t)
	}
}

func (s *Server) uploadText(w http.ResponseWriter, r *http.Request) {
	var req models.TextUploadRequest
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if req.ProjectID != nil {
		if _, ok := s.projects[*req.ProjectID]; !ok {
			respondError(w, http.StatusNotFound, "project not found")
			return
		}
	}
	t := s.newText(req)
	respondJSON(w, http.StatusOK, *t)
}

func (s *Server) updateText(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req models.TextUploadRequest
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.lookupText(w, id)
	if !ok {
		return
	}
	t.Title = req.Title
	t.Content = req.Content
	t.Description = req.Description
	t.Author = req.Author
	t.Era = req.Era
	if req.Category != "" {
		t.Category = req.Category
	}
	if req.ProjectID != nil {
		t.ProjectID = req.ProjectID
	}
	t.UpdatedAt = timePtr(s.now())
	respondJSON(w, http.StatusOK, *t)
}

func (s *Server) updateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req models.CategoryUpdateRequest
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.lookupText(w, id)
	if !ok {
		return
	}
	t.Category = req.Category
	t.UpdatedAt = timePtr(s.now())
	respondJSON(w, http.StatusOK, *t)
}

func (s *Server) deleteText(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.lookupText(w, id); !ok {
		return
	}
	delete(s.texts, id)
	for eid, e := range s.entities {
		if e.TextID == id {
			delete(s.entities, eid)
		}
	}
	for rid, rel := range s.relations {
		if rel.TextID == id {
			delete(s.relations, rid)
		}
	}
	for sid, sec := range s.sections {
		if sec.TextID == id {
			delete(s.sections, sid)
		}
	}
	for mid, m := range s.markers {
		if m.TextID == id {
			delete(s.markers, mid)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) exportText(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	s.mu.Lock()
	t, found := s.lookupText(w, id)
	if !found {
		s.mu.Unlock()
		return
	}
	doc := models.ExportDocument{
		Text:      *t,
		Entities:  s.textEntities(id),
		Relations: s.textRelations(id),
		Sections:  s.textSections(id),
	}
	s.mu.Unlock()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		respondError(w, http.StatusInternalServerError, "export failed")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="text-%d.json"`, id))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) textSections(textID int64) []models.Section {
	out := make([]models.Section, 0)
	for _, sec := range s.sections {
		if sec.TextID == textID {
			out = append(out, *sec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out
}

func (s *Server) listSections(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.lookupText(w, id); ok {
		respondJSON(w, http.StatusOK, s.textSections(id))
	}
}

// segment replaces the sections of t with one section per non-empty line.
func (s *Server) segment(t *models.Text) []models.Section {
	for sid, sec := range s.sections {
		if sec.TextID == t.ID {
			delete(s.sections, sid)
		}
	}
	offset := 0
	order := 0
	for _, line := range strings.Split(t.Content, "\n") {
		n := utf8.RuneCountInString(line)
		if strings.TrimSpace(line) != "" {
			order++
			sec := &models.Section{
				ID:          s.nextID(),
				TextID:      t.ID,
				Title:       fmt.Sprintf("Section %d", order),
				Summary:     snippet(line, 0, 0, 12),
				Content:     line,
				StartOffset: offset,
				EndOffset:   offset + n,
				OrderIndex:  order,
			}
			s.sections[sec.ID] = sec
		}
		offset += n + 1
	}
	return s.textSections(t.ID)
}

func (s *Server) autoSegment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.lookupText(w, id); ok {
		respondJSON(w, http.StatusOK, s.segment(t))
	}
}

func (s *Server) updateSection(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req models.SectionUpdateRequest
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sec, found := s.sections[id]
	if !found {
		respondError(w, http.StatusNotFound, "section not found")
		return
	}
	if req.Title != "" {
		sec.Title = req.Title
	}
	if req.Summary != "" {
		sec.Summary = req.Summary
	}
	if req.Content != "" {
		sec.Content = req.Content
	}
	respondJSON(w, http.StatusOK, *sec)
}
