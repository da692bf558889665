package stores

import (
	"context"

	"ianct-client/domain/models"
	"ianct-client/infrastructure/export"
	apperrors "ianct-client/pkg/errors"
	"ianct-client/pkg/settle"

	"go.uber.org/zap"
)

// applySuggestedCategoryLocked propagates a classification to the selected
// text and its list entry and reports whether the category changed.
func (s *TextStore) applySuggestedCategoryLocked(id int64, c *models.Classification) bool {
	if c == nil || c.SuggestedCategory == "" {
		return false
	}
	changed := false
	if s.state.SelectedText != nil && s.state.SelectedText.Category != c.SuggestedCategory {
		changed = true
	}
	prev, listed := s.setCategoryLocked(id, c.SuggestedCategory)
	if listed && prev != c.SuggestedCategory {
		changed = true
	}
	return changed
}

// ClassifySelectedText classifies the selected text with model (empty for
// the backend default) and reloads the navigation tree when the category
// changed.
func (s *TextStore) ClassifySelectedText(ctx context.Context, model string) (*models.Classification, error) {
	id := s.selectedID()
	if id == 0 {
		return nil, nil
	}
	s.setFlag(&s.state.ClassifyRunning, true)
	defer s.setFlag(&s.state.ClassifyRunning, false)

	c, err := s.api.Analysis.Classify(ctx, id, model)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.state.SelectedTextID != id {
		s.mu.Unlock()
		return c, nil
	}
	s.state.Classification = c
	changed := s.applySuggestedCategoryLocked(id, c)
	s.mu.Unlock()

	if changed {
		if err := s.LoadNavigationTree(ctx, CurrentProject()); err != nil {
			return c, err
		}
	}
	return c, nil
}

// RunFullAnalysis runs classification, annotation, insights and
// segmentation on the server, then refreshes entities and relations.
func (s *TextStore) RunFullAnalysis(ctx context.Context, model string) (*models.FullAnalysis, error) {
	id := s.selectedID()
	if id == 0 {
		return nil, nil
	}
	s.setFlag(&s.state.AnalysisRunning, true)
	defer s.setFlag(&s.state.AnalysisRunning, false)

	result, err := s.api.Analysis.Full(ctx, id, model)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.state.SelectedTextID != id {
		s.mu.Unlock()
		return result, nil
	}
	s.state.Classification = result.Classification
	s.state.Insights = result.Insights
	s.state.Sections = orEmpty(true, result.Sections)
	s.applySuggestedCategoryLocked(id, result.Classification)
	s.mu.Unlock()

	s.reloadAnnotations(ctx, id)

	if err := s.LoadNavigationTree(ctx, CurrentProject()); err != nil {
		return result, err
	}
	return result, nil
}

// reloadAnnotations re-fetches entities and relations with settle
// semantics.
func (s *TextStore) reloadAnnotations(ctx context.Context, id int64) {
	var (
		entities  []models.Entity
		relations []models.Relation
	)
	out := settle.All(ctx,
		func(ctx context.Context) (err error) {
			entities, err = s.api.Annotations.Entities(ctx, id)
			return err
		},
		func(ctx context.Context) (err error) {
			relations, err = s.api.Annotations.Relations(ctx, id)
			return err
		},
	)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.SelectedTextID != id {
		return
	}
	s.state.Entities = orEmpty(out.Ok(0), entities)
	s.state.Relations = orEmpty(out.Ok(1), relations)
	delete(s.state.SliceErrors, SliceEntities)
	delete(s.state.SliceErrors, SliceRelations)
	if !out.Ok(0) {
		s.state.SliceErrors[SliceEntities] = out[0]
	}
	if !out.Ok(1) {
		s.state.SliceErrors[SliceRelations] = out[1]
	}
	for _, i := range out.Failed() {
		s.logger.Warn("Annotation reload failed, showing empty data",
			zap.Int64("textID", id),
			zap.Error(out[i]),
		)
	}
	s.resetFiltersLocked()
}

// TriggerAutoAnnotation asks the backend to annotate the selected text and
// then reloads the selection.
func (s *TextStore) TriggerAutoAnnotation(ctx context.Context) error {
	id := s.selectedID()
	if id == 0 {
		return nil
	}
	if _, err := s.api.Analysis.AutoAnnotate(ctx, id); err != nil {
		return err
	}
	return s.selectText(ctx, id, true)
}

// AutoSegmentSections replaces the sections of the selected text with a
// fresh segmentation.
func (s *TextStore) AutoSegmentSections(ctx context.Context) error {
	id := s.selectedID()
	if id == 0 {
		return nil
	}
	sections, err := s.api.Sections.AutoSegment(ctx, id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	if s.state.SelectedTextID == id {
		s.state.Sections = orEmpty(true, sections)
	}
	s.mu.Unlock()
	return nil
}

// UpdateSection saves a section and replaces it by id.
func (s *TextStore) UpdateSection(ctx context.Context, sectionID int64, req models.SectionUpdateRequest) (*models.Section, error) {
	section, err := s.api.Sections.Update(ctx, sectionID, req)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	for i := range s.state.Sections {
		if s.state.Sections[i].ID == sectionID {
			s.state.Sections[i] = *section
			break
		}
	}
	s.mu.Unlock()
	return section, nil
}

// LoadInsights fetches insights for textID, or for the selected text when
// textID is zero.
func (s *TextStore) LoadInsights(ctx context.Context, textID int64, light bool) error {
	if textID == 0 {
		textID = s.selectedID()
	}
	if textID == 0 {
		return nil
	}
	insights, err := s.api.Analysis.Insights(ctx, textID, light)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.state.Insights = insights
	delete(s.state.SliceErrors, SliceInsights)
	s.mu.Unlock()
	return nil
}

// ExportSelectedText downloads the selected text and writes it to dir as
// text-<id>.json. It returns the written path, or "" with no selection.
func (s *TextStore) ExportSelectedText(ctx context.Context, dir string) (string, error) {
	id := s.selectedID()
	if id == 0 {
		return "", nil
	}
	s.setFlag(&s.state.Exporting, true)
	defer s.setFlag(&s.state.Exporting, false)

	blob, err := s.api.Texts.Export(ctx, id)
	if err != nil {
		return "", err
	}
	return s.exporter.WriteJSON(dir, id, blob.Data)
}

// ExportSelectedWorkbook downloads the selected text and writes it to dir
// as text-<id>.xlsx.
func (s *TextStore) ExportSelectedWorkbook(ctx context.Context, dir string) (string, error) {
	id := s.selectedID()
	if id == 0 {
		return "", nil
	}
	s.setFlag(&s.state.Exporting, true)
	defer s.setFlag(&s.state.Exporting, false)

	blob, err := s.api.Texts.Export(ctx, id)
	if err != nil {
		return "", err
	}
	doc, err := export.DecodeDocument(blob.Data)
	if err != nil {
		return "", err
	}
	if doc.Text.ID == 0 {
		doc.Text.ID = id
	}
	if doc.Text.ID != id {
		return "", apperrors.NewValidationError("export returned a different text")
	}
	return s.exporter.WriteWorkbook(dir, doc)
}
