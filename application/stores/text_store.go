package stores

import (
	"context"
	"sync"

	"ianct-client/domain/annotation"
	"ianct-client/domain/models"
	"ianct-client/pkg/settle"

	"go.uber.org/zap"
)

// Slice names used in SliceErrors.
const (
	SliceEntities  = "entities"
	SliceRelations = "relations"
	SliceInsights  = "insights"
	SliceSections  = "sections"
)

// Exporter writes downloaded texts to disk.
type Exporter interface {
	WriteJSON(dir string, textID int64, data []byte) (string, error)
	WriteWorkbook(dir string, doc *models.ExportDocument) (string, error)
}

// ProjectScope tells list loads which project to use. The zero value keeps
// the store's current project.
type ProjectScope struct {
	set bool
	id  *int64
}

// CurrentProject keeps the current project.
func CurrentProject() ProjectScope { return ProjectScope{} }

// NoProject clears the current project.
func NoProject() ProjectScope { return ProjectScope{set: true} }

// InProject switches to project id.
func InProject(id int64) ProjectScope { return ProjectScope{set: true, id: &id} }

// PendingOp tags an annotation whose server round trip is in flight.
type PendingOp string

const (
	PendingCreate PendingOp = "create"
	PendingDelete PendingOp = "delete"
)

// TextState is a snapshot of the text store.
type TextState struct {
	Texts            []models.Text
	SelectedTextID   int64
	SelectedText     *models.Text
	CurrentProjectID *int64
	Entities         []models.Entity
	Relations        []models.Relation
	Insights         *models.Insights
	Classification   *models.Classification
	Sections         []models.Section
	NavigationTree   []models.NavigationNode
	SearchResults    []models.SearchResult
	SearchVersion    int
	Filters          annotation.Filters

	Loading         bool
	Saving          bool
	Exporting       bool
	SearchLoading   bool
	AnalysisRunning bool
	ClassifyRunning bool

	// PendingEntities and PendingRelations are keyed by annotation id;
	// tentative creates carry negative ids.
	PendingEntities  map[int64]PendingOp
	PendingRelations map[int64]PendingOp
	// SliceErrors holds the side fetches of the last selection that failed
	// and were replaced by empty defaults.
	SliceErrors map[string]error
}

// TextStore is the workspace's text, annotation, analysis and search state.
type TextStore struct {
	api      TextClients
	exporter Exporter
	logger   *zap.Logger

	mu    sync.RWMutex
	state TextState
	// nextLocalID hands out ids for tentative annotations.
	nextLocalID int64
}

func NewTextStore(clients TextClients, exporter Exporter, logger *zap.Logger) *TextStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &TextStore{
		api:      clients,
		exporter: exporter,
		logger:   logger.Named("texts"),
	}
	s.resetLocked()
	return s
}

func (s *TextStore) resetLocked() {
	s.state = TextState{
		Texts:            []models.Text{},
		Entities:         []models.Entity{},
		Relations:        []models.Relation{},
		Sections:         []models.Section{},
		SearchResults:    []models.SearchResult{},
		PendingEntities:  map[int64]PendingOp{},
		PendingRelations: map[int64]PendingOp{},
		SliceErrors:      map[string]error{},
	}
}

// Reset drops all state, as a full page load would.
func (s *TextStore) Reset() {
	s.mu.Lock()
	s.resetLocked()
	s.mu.Unlock()
}

// Snapshot returns a copy of the state.
func (s *TextStore) Snapshot() TextState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := s.state
	st.Texts = append([]models.Text(nil), s.state.Texts...)
	st.Entities = append([]models.Entity(nil), s.state.Entities...)
	st.Relations = append([]models.Relation(nil), s.state.Relations...)
	st.Sections = append([]models.Section(nil), s.state.Sections...)
	st.NavigationTree = append([]models.NavigationNode(nil), s.state.NavigationTree...)
	st.SearchResults = append([]models.SearchResult(nil), s.state.SearchResults...)
	st.Filters = annotation.Filters{
		EntityCategories: append([]string(nil), s.state.Filters.EntityCategories...),
		RelationTypes:    append([]string(nil), s.state.Filters.RelationTypes...),
		HighlightOnly:    s.state.Filters.HighlightOnly,
	}
	if s.state.SelectedText != nil {
		t := *s.state.SelectedText
		st.SelectedText = &t
	}
	if s.state.CurrentProjectID != nil {
		id := *s.state.CurrentProjectID
		st.CurrentProjectID = &id
	}
	st.PendingEntities = copyPending(s.state.PendingEntities)
	st.PendingRelations = copyPending(s.state.PendingRelations)
	st.SliceErrors = make(map[string]error, len(s.state.SliceErrors))
	for k, v := range s.state.SliceErrors {
		st.SliceErrors[k] = v
	}
	return st
}

func copyPending(in map[int64]PendingOp) map[int64]PendingOp {
	out := make(map[int64]PendingOp, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// EntityOptions returns the distinct entity categories of the selection.
func (s *TextStore) EntityOptions() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return annotation.EntityOptions(s.state.Entities)
}

// RelationOptions returns the distinct relation types of the selection.
func (s *TextStore) RelationOptions() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return annotation.RelationOptions(s.state.Relations)
}

// VisibleAnnotations applies the current filters.
func (s *TextStore) VisibleAnnotations() ([]models.Entity, []models.Relation) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return annotation.Visible(s.state.Entities, s.state.Relations, s.state.Filters)
}

func (s *TextStore) selectedID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.SelectedTextID
}

func (s *TextStore) currentProject() *int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.CurrentProjectID == nil {
		return nil
	}
	id := *s.state.CurrentProjectID
	return &id
}

// resetFiltersLocked selects every option present, keeping highlightOnly.
func (s *TextStore) resetFiltersLocked() {
	s.state.Filters = annotation.DefaultFilters(s.state.Entities, s.state.Relations, s.state.Filters.HighlightOnly)
}

func (s *TextStore) setFlag(flag *bool, v bool) {
	s.mu.Lock()
	*flag = v
	s.mu.Unlock()
}

// InitDashboard loads the text list and the navigation tree, then selects
// the first text.
func (s *TextStore) InitDashboard(ctx context.Context) error {
	if err := s.LoadTexts(ctx, "", CurrentProject()); err != nil {
		return err
	}
	if err := s.LoadNavigationTree(ctx, CurrentProject()); err != nil {
		return err
	}

	s.mu.RLock()
	var first int64
	if len(s.state.Texts) > 0 {
		first = s.state.Texts[0].ID
	}
	s.mu.RUnlock()

	return s.SelectText(ctx, first)
}

// LoadTexts lists texts of a category within the scoped project. An
// explicit scope, including NoProject, replaces the current project.
func (s *TextStore) LoadTexts(ctx context.Context, category string, scope ProjectScope) error {
	s.mu.Lock()
	if scope.set {
		s.state.CurrentProjectID = scope.id
	}
	var project *int64
	if s.state.CurrentProjectID != nil {
		id := *s.state.CurrentProjectID
		project = &id
	}
	s.state.Loading = true
	s.mu.Unlock()
	defer s.setFlag(&s.state.Loading, false)

	texts, err := s.api.Texts.List(ctx, category, project)
	if err != nil {
		return err
	}
	if texts == nil {
		texts = []models.Text{}
	}
	s.mu.Lock()
	s.state.Texts = texts
	s.mu.Unlock()
	return nil
}

// LoadNavigationTree loads the sidebar tree for the scoped project. It does
// not change the current project.
func (s *TextStore) LoadNavigationTree(ctx context.Context, scope ProjectScope) error {
	project := s.currentProject()
	if scope.set {
		project = scope.id
	}
	tree, err := s.api.Navigation.Tree(ctx, project)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.state.NavigationTree = tree
	s.mu.Unlock()
	return nil
}

// SelectText makes id the selected text. Selecting the text that is
// already selected and cached issues no request.
func (s *TextStore) SelectText(ctx context.Context, id int64) error {
	return s.selectText(ctx, id, false)
}

// RefreshCurrentText reloads the selected text and its annotations.
func (s *TextStore) RefreshCurrentText(ctx context.Context) error {
	id := s.selectedID()
	if id == 0 {
		return nil
	}
	return s.selectText(ctx, id, true)
}

func (s *TextStore) selectText(ctx context.Context, id int64, force bool) error {
	if id == 0 {
		return nil
	}

	s.mu.Lock()
	if !force && id == s.state.SelectedTextID && s.state.SelectedText != nil {
		s.mu.Unlock()
		return nil
	}
	s.state.SelectedTextID = id
	s.state.Loading = true
	s.mu.Unlock()

	text, err := s.api.Texts.Get(ctx, id)

	s.mu.Lock()
	s.state.Loading = false
	if err != nil {
		if s.state.SelectedTextID == id {
			s.state.SelectedText = nil
		}
		s.mu.Unlock()
		return err
	}
	if s.state.SelectedTextID != id {
		// A newer selection won.
		s.mu.Unlock()
		return nil
	}
	s.state.SelectedText = text
	s.mu.Unlock()

	s.loadSideSlices(ctx, id)
	return nil
}

// loadSideSlices fetches entities, relations, light insights and sections
// together and assigns each independently; a failed slice degrades to its
// empty value.
func (s *TextStore) loadSideSlices(ctx context.Context, id int64) {
	var (
		entities  []models.Entity
		relations []models.Relation
		insights  *models.Insights
		sections  []models.Section
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
		func(ctx context.Context) (err error) {
			insights, err = s.api.Analysis.Insights(ctx, id, true)
			return err
		},
		func(ctx context.Context) (err error) {
			sections, err = s.api.Sections.List(ctx, id)
			return err
		},
	)

	names := []string{SliceEntities, SliceRelations, SliceInsights, SliceSections}
	sliceErrors := make(map[string]error)
	for _, i := range out.Failed() {
		sliceErrors[names[i]] = out[i]
		s.logger.Warn("Side fetch failed, showing empty data",
			zap.Int64("textID", id),
			zap.String("slice", names[i]),
			zap.Error(out[i]),
		)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.SelectedTextID != id {
		return
	}
	s.state.Entities = orEmpty(out.Ok(0), entities)
	s.state.Relations = orEmpty(out.Ok(1), relations)
	s.state.Insights = nil
	if out.Ok(2) {
		s.state.Insights = insights
	}
	s.state.Sections = orEmpty(out.Ok(3), sections)
	s.state.SliceErrors = sliceErrors
	s.state.PendingEntities = map[int64]PendingOp{}
	s.state.PendingRelations = map[int64]PendingOp{}
	s.resetFiltersLocked()
}

func orEmpty[T any](ok bool, v []T) []T {
	if !ok || v == nil {
		return []T{}
	}
	return v
}

// UploadNewText uploads a text, selects it locally with empty annotations,
// puts it first in the list and reloads the navigation tree.
func (s *TextStore) UploadNewText(ctx context.Context, req models.TextUploadRequest) (*models.Text, error) {
	s.mu.Lock()
	if req.ProjectID != nil {
		id := *req.ProjectID
		s.state.CurrentProjectID = &id
	}
	s.state.Saving = true
	s.mu.Unlock()
	defer s.setFlag(&s.state.Saving, false)

	text, err := s.api.Texts.Upload(ctx, req)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.state.SelectedTextID = text.ID
	selected := *text
	s.state.SelectedText = &selected
	s.state.Entities = []models.Entity{}
	s.state.Relations = []models.Relation{}
	s.state.Sections = []models.Section{}
	s.state.Texts = append([]models.Text{*text}, s.state.Texts...)
	s.mu.Unlock()

	if err := s.LoadNavigationTree(ctx, CurrentProject()); err != nil {
		return text, err
	}
	return text, nil
}

// UpdateText saves a text, reloads the list and replaces the selected text
// when it is the one updated.
func (s *TextStore) UpdateText(ctx context.Context, id int64, req models.TextUploadRequest) (*models.Text, error) {
	text, err := s.api.Texts.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}
	if err := s.LoadTexts(ctx, "", CurrentProject()); err != nil {
		return text, err
	}
	s.mu.Lock()
	if s.state.SelectedTextID == id {
		t := *text
		s.state.SelectedText = &t
	}
	s.mu.Unlock()
	return text, nil
}

// DeleteText removes the text from the list immediately, deletes it, and
// reconciles with the server. The removal is undone when the request fails.
func (s *TextStore) DeleteText(ctx context.Context, id int64) error {
	if id == 0 {
		return nil
	}

	s.mu.Lock()
	idx := -1
	var removed models.Text
	kept := make([]models.Text, 0, len(s.state.Texts))
	for i, t := range s.state.Texts {
		if t.ID == id {
			idx, removed = i, t
			continue
		}
		kept = append(kept, t)
	}
	s.state.Texts = kept
	s.mu.Unlock()

	if err := s.api.Texts.Delete(ctx, id); err != nil {
		if idx >= 0 {
			s.mu.Lock()
			s.state.Texts = insertAt(s.state.Texts, idx, removed)
			s.mu.Unlock()
		}
		return err
	}

	if err := s.LoadTexts(ctx, "", CurrentProject()); err != nil {
		return err
	}

	s.mu.Lock()
	if s.state.SelectedTextID == id {
		s.state.SelectedTextID = 0
		s.state.SelectedText = nil
		s.state.Entities = []models.Entity{}
		s.state.Relations = []models.Relation{}
		s.state.Sections = []models.Section{}
		s.state.Insights = nil
		s.state.Classification = nil
	}
	s.mu.Unlock()

	return s.LoadNavigationTree(ctx, CurrentProject())
}

// UpdateSelectedCategory changes the category locally first and rolls it
// back when the request fails.
func (s *TextStore) UpdateSelectedCategory(ctx context.Context, category string) error {
	s.mu.Lock()
	id := s.state.SelectedTextID
	if id == 0 {
		s.mu.Unlock()
		return nil
	}
	prevSelected := ""
	if s.state.SelectedText != nil {
		prevSelected = s.state.SelectedText.Category
	}
	prevListed, listed := s.setCategoryLocked(id, category)
	s.mu.Unlock()

	if _, err := s.api.Texts.UpdateCategory(ctx, id, category); err != nil {
		s.mu.Lock()
		if s.state.SelectedTextID == id && s.state.SelectedText != nil {
			s.state.SelectedText.Category = prevSelected
		}
		if listed {
			for i := range s.state.Texts {
				if s.state.Texts[i].ID == id {
					s.state.Texts[i].Category = prevListed
				}
			}
		}
		s.mu.Unlock()
		return err
	}
	return nil
}

// setCategoryLocked writes category to the selected text and its list
// entry. It returns the previous list value and whether an entry existed.
func (s *TextStore) setCategoryLocked(id int64, category string) (string, bool) {
	if s.state.SelectedTextID == id && s.state.SelectedText != nil {
		s.state.SelectedText.Category = category
	}
	for i := range s.state.Texts {
		if s.state.Texts[i].ID == id {
			prev := s.state.Texts[i].Category
			s.state.Texts[i].Category = category
			return prev, true
		}
	}
	return "", false
}

// ToggleHighlightOnly flips the highlight-only filter.
func (s *TextStore) ToggleHighlightOnly() {
	s.mu.Lock()
	s.state.Filters.HighlightOnly = !s.state.Filters.HighlightOnly
	s.mu.Unlock()
}

func (s *TextStore) SetHighlightOnly(v bool) {
	s.mu.Lock()
	s.state.Filters.HighlightOnly = v
	s.mu.Unlock()
}

func (s *TextStore) SetEntityFilters(categories []string) {
	s.mu.Lock()
	s.state.Filters.EntityCategories = append([]string{}, categories...)
	s.mu.Unlock()
}

func (s *TextStore) SetRelationFilters(types []string) {
	s.mu.Lock()
	s.state.Filters.RelationTypes = append([]string{}, types...)
	s.mu.Unlock()
}

// PerformSearch searches within the current project. An empty keyword
// clears the results without a request.
func (s *TextStore) PerformSearch(ctx context.Context, keyword string) error {
	if keyword == "" {
		s.mu.Lock()
		s.state.SearchResults = []models.SearchResult{}
		s.mu.Unlock()
		return nil
	}

	project := s.currentProject()
	s.setFlag(&s.state.SearchLoading, true)
	defer s.setFlag(&s.state.SearchLoading, false)

	results, err := s.api.Search.Texts(ctx, keyword, project)
	if err != nil {
		return err
	}
	if results == nil {
		results = []models.SearchResult{}
	}
	s.mu.Lock()
	s.state.SearchResults = results
	s.state.SearchVersion++
	s.mu.Unlock()
	return nil
}

func insertAt[T any](list []T, idx int, v T) []T {
	if idx < 0 || idx > len(list) {
		idx = len(list)
	}
	out := make([]T, 0, len(list)+1)
	out = append(out, list[:idx]...)
	out = append(out, v)
	return append(out, list[idx:]...)
}
