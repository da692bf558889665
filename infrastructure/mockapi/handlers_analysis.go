package mockapi

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"unicode/utf8"

	"ianct-client/domain/models"
)

// categoryCues are the characters the classifier counts per category.
var categoryCues = []struct {
	category string
	cues     []string
}{
	{"warfare", []string{"军", "兵", "战", "围"}},
	{"travelogue", []string{"游", "山", "洞", "记"}},
	{"biography", []string{"者", "字", "人也", "父"}},
}

func classifyContent(t *models.Text, model string) models.Classification {
	best, bestScore, total := "other", 0, 0
	for _, c := range categoryCues {
		score := 0
		for _, cue := range c.cues {
			score += strings.Count(t.Content, cue)
		}
		total += score
		if score > bestScore {
			best, bestScore = c.category, score
		}
	}
	out := models.Classification{TextID: t.ID, SuggestedCategory: best}
	if total > 0 {
		out.Confidence = float64(bestScore) / float64(total)
		out.Reasons = []string{fmt.Sprintf("%d of %d cue characters point to %s", bestScore, total, best)}
	}
	if model != "" {
		out.Reasons = append(out.Reasons, "model: "+model)
	}
	return out
}

// annotate adds an entity for every lexicon occurrence not yet annotated.
func (s *Server) annotate(t *models.Text) models.AutoAnnotation {
	taken := make(map[[2]int]bool)
	for _, e := range s.textEntities(t.ID) {
		taken[[2]int{e.StartOffset, e.EndOffset}] = true
	}
	out := models.AutoAnnotation{TextID: t.ID}
	for _, lx := range lexicon {
		from := 0
		for {
			start, end := runeSpan(t.Content, lx.label, from)
			if start < 0 {
				break
			}
			from = end
			if taken[[2]int{start, end}] {
				continue
			}
			taken[[2]int{start, end}] = true
			e := &models.Entity{
				ID:          s.nextID(),
				TextID:      t.ID,
				Label:       lx.label,
				Category:    lx.category,
				StartOffset: start,
				EndOffset:   end,
				Confidence:  0.8,
			}
			s.entities[e.ID] = e
			out.Entities = append(out.Entities, *e)
		}
	}
	return out
}

func punctuationProgress(content string) float64 {
	total := utf8.RuneCountInString(content)
	if total == 0 {
		return 0
	}
	marks := 0
	for _, r := range content {
		if strings.ContainsRune("，。；：！？、", r) {
			marks++
		}
	}
	progress := float64(marks) * 8 / float64(total)
	if progress > 1 {
		progress = 1
	}
	return progress
}

var recommendedViews = map[string][]string{
	"warfare":    {"battleTimeline", "map", "graph"},
	"travelogue": {"map", "timeline"},
	"biography":  {"familyTree", "timeline", "graph"},
}

// buildInsights derives the visualisation payload. light keeps only stats
// and the word cloud.
func (s *Server) buildInsights(t *models.Text, light bool) models.Insights {
	entities := s.textEntities(t.ID)
	relations := s.textRelations(t.ID)

	out := models.Insights{
		TextID:   t.ID,
		Category: t.Category,
		Stats: &models.InsightStats{
			EntityCount:         len(entities),
			RelationCount:       len(relations),
			PunctuationProgress: punctuationProgress(t.Content),
		},
	}

	counts := make(map[string]int)
	var order []string
	for _, e := range entities {
		if counts[e.Label] == 0 {
			order = append(order, e.Label)
		}
		counts[e.Label]++
	}
	for _, label := range order {
		out.WordCloud = append(out.WordCloud, models.WordCloudItem{Label: label, Weight: float64(counts[label])})
	}
	if light {
		return out
	}

	seq := 0
	for _, e := range entities {
		if e.Category != "LOCATION" {
			continue
		}
		if c, ok := gazetteer[e.Label]; ok {
			seq++
			out.MapPoints = append(out.MapPoints, models.MapPathPoint{
				Label: e.Label, Latitude: c.lat, Longitude: c.lon, Sequence: seq,
			})
		}
	}
	for _, sec := range s.textSections(t.ID) {
		start, end := sec.StartOffset, sec.EndOffset
		out.Timeline = append(out.Timeline, models.TimelineEvent{
			Title:       sec.Title,
			Description: sec.Summary,
			StartOffset: &start,
			EndOffset:   &end,
		})
		if t.Category == "warfare" {
			out.BattleTimeline = append(out.BattleTimeline, models.BattleEvent{
				Phase:       sec.Title,
				Description: sec.Summary,
				Intensity:   sec.OrderIndex,
			})
		}
	}
	out.RecommendedViews = recommendedViews[t.Category]
	out.AnalysisSummary = fmt.Sprintf("%s: %d entities, %d relations, %d sections",
		t.Title, len(entities), len(relations), len(out.Timeline))
	return out
}

func (s *Server) classify(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "textId")
	if !ok {
		return
	}
	model := r.URL.Query().Get("model")
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.lookupText(w, id)
	if !ok {
		return
	}
	s.recordJob(id, "CLASSIFY", model)
	respondJSON(w, http.StatusOK, classifyContent(t, model))
}

func (s *Server) autoAnnotate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "textId")
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.lookupText(w, id)
	if !ok {
		return
	}
	s.recordJob(id, "AUTO_ANNOTATE", "")
	respondJSON(w, http.StatusOK, s.annotate(t))
}

func (s *Server) insights(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "textId")
	if !ok {
		return
	}
	light := r.URL.Query().Get("light") == "true"
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.lookupText(w, id); ok {
		respondJSON(w, http.StatusOK, s.buildInsights(t, light))
	}
}

// fullAnalysis classifies, applies the category, annotates, segments and
// returns everything together.
func (s *Server) fullAnalysis(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "textId")
	if !ok {
		return
	}
	model := r.URL.Query().Get("model")
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.lookupText(w, id)
	if !ok {
		return
	}
	cls := classifyContent(t, model)
	t.Category = cls.SuggestedCategory
	t.UpdatedAt = timePtr(s.now())
	ann := s.annotate(t)
	sections := s.segment(t)
	ins := s.buildInsights(t, false)
	s.recordJob(id, "FULL_ANALYSIS", model)

	respondJSON(w, http.StatusOK, models.FullAnalysis{
		Classification: &cls,
		Annotation:     &ann,
		Insights:       &ins,
		Sections:       sections,
	})
}

// navigationTree groups texts by category.
func (s *Server) navigationTree(w http.ResponseWriter, r *http.Request) {
	projectID, ok := queryID(r, "projectId")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid projectId")
		return
	}
	s.mu.Lock()
	texts := s.sortedTexts(projectID, "")
	s.mu.Unlock()

	groups := make(map[string][]models.NavigationNode)
	for _, t := range texts {
		category := t.Category
		if category == "" {
			category = "uncategorized"
		}
		textID := t.ID
		groups[category] = append(groups[category], models.NavigationNode{
			ID:     fmt.Sprintf("text:%d", t.ID),
			Label:  t.Title,
			Type:   "text",
			TextID: &textID,
		})
	}
	categories := make([]string, 0, len(groups))
	for c := range groups {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	out := make([]models.NavigationNode, 0, len(categories))
	for _, c := range categories {
		out = append(out, models.NavigationNode{
			ID:       "category:" + c,
			Label:    c,
			Type:     "category",
			Count:    len(groups[c]),
			Children: groups[c],
		})
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) overview(w http.ResponseWriter, r *http.Request) {
	textID, ok := queryID(r, "textId")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid textId")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if textID == nil {
		texts := s.sortedTexts(nil, "")
		if len(texts) == 0 {
			respondError(w, http.StatusNotFound, "no texts available")
			return
		}
		textID = &texts[0].ID
	}
	if t, ok := s.lookupText(w, *textID); ok {
		respondJSON(w, http.StatusOK, s.buildInsights(t, false))
	}
}

func (s *Server) adminOverview(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := models.AdminOverview{
		TextCount:     int64(len(s.texts)),
		EntityCount:   int64(len(s.entities)),
		RelationCount: int64(len(s.relations)),
		ModelJobCount: int64(len(s.jobs)),
	}
	for i := len(s.jobs) - 1; i >= 0 && len(out.RecentJobs) < 5; i-- {
		out.RecentJobs = append(out.RecentJobs, s.jobs[i])
	}
	respondJSON(w, http.StatusOK, out)
}
