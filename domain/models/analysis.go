package models

// Classification is the result of POST /analysis/{textId}/classify.
type Classification struct {
	TextID            int64    `json:"textId,omitempty"`
	SuggestedCategory string   `json:"suggestedCategory,omitempty"`
	Confidence        float64  `json:"confidence,omitempty"`
	Reasons           []string `json:"reasons,omitempty"`
}

// AutoAnnotation summarises an auto-annotate run.
type AutoAnnotation struct {
	TextID    int64      `json:"textId,omitempty"`
	Entities  []Entity   `json:"entities,omitempty"`
	Relations []Relation `json:"relations,omitempty"`
}

// FullAnalysis is the result of POST /analysis/{textId}/full.
type FullAnalysis struct {
	Classification *Classification `json:"classification,omitempty"`
	Annotation     *AutoAnnotation `json:"annotation,omitempty"`
	Insights       *Insights       `json:"insights,omitempty"`
	Sections       []Section       `json:"sections,omitempty"`
}

// Insights mirrors the backend's text insight payload. Every list may be
// absent depending on the text category.
type Insights struct {
	TextID           int64           `json:"textId,omitempty"`
	Category         string          `json:"category,omitempty"`
	Stats            *InsightStats   `json:"stats,omitempty"`
	WordCloud        []WordCloudItem `json:"wordCloud,omitempty"`
	Timeline         []TimelineEvent `json:"timeline,omitempty"`
	MapPoints        []MapPathPoint  `json:"mapPoints,omitempty"`
	BattleTimeline   []BattleEvent   `json:"battleTimeline,omitempty"`
	FamilyTree       []FamilyNode    `json:"familyTree,omitempty"`
	OfficialTree     []OfficialNode  `json:"officialTree,omitempty"`
	ProcessCycle     []ProcessStep   `json:"processCycle,omitempty"`
	RecommendedViews []string        `json:"recommendedViews,omitempty"`
	AnalysisSummary  string          `json:"analysisSummary,omitempty"`
}

type InsightStats struct {
	EntityCount         int     `json:"entityCount"`
	RelationCount       int     `json:"relationCount"`
	PunctuationProgress float64 `json:"punctuationProgress"`
}

type WordCloudItem struct {
	Label  string  `json:"label"`
	Weight float64 `json:"weight"`
}

type TimelineEvent struct {
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	DateLabel    string   `json:"dateLabel,omitempty"`
	Significance int      `json:"significance,omitempty"`
	EventType    string   `json:"eventType,omitempty"`
	Location     string   `json:"location,omitempty"`
	Participants []string `json:"participants,omitempty"`
	Impact       string   `json:"impact,omitempty"`
	EntityID     *int64   `json:"entityId,omitempty"`
	StartOffset  *int     `json:"startOffset,omitempty"`
	EndOffset    *int     `json:"endOffset,omitempty"`
}

type MapPathPoint struct {
	Label     string  `json:"label"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Sequence  int     `json:"sequence"`
}

type BattleEvent struct {
	Phase       string `json:"phase"`
	Description string `json:"description,omitempty"`
	Intensity   int    `json:"intensity,omitempty"`
	Opponent    string `json:"opponent,omitempty"`
}

type FamilyNode struct {
	Name     string       `json:"name"`
	Relation string       `json:"relation,omitempty"`
	Children []FamilyNode `json:"children,omitempty"`
}

type OfficialNode struct {
	Name         string         `json:"name"`
	Position     string         `json:"position,omitempty"`
	Level        string         `json:"level,omitempty"`
	Department   string         `json:"department,omitempty"`
	Subordinates []OfficialNode `json:"subordinates,omitempty"`
	Description  string         `json:"description,omitempty"`
}

type ProcessStep struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Sequence    int      `json:"sequence"`
	Category    string   `json:"category,omitempty"`
	Tools       []string `json:"tools,omitempty"`
	Materials   []string `json:"materials,omitempty"`
	Output      string   `json:"output,omitempty"`
	Duration    int      `json:"duration,omitempty"`
}
