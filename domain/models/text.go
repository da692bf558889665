package models

import "time"

// Text is an uploaded document.
type Text struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Content     string     `json:"content,omitempty"`
	Description string     `json:"description,omitempty"`
	Category    string     `json:"category,omitempty"`
	Author      string     `json:"author,omitempty"`
	Era         string     `json:"era,omitempty"`
	ProjectID   *int64     `json:"projectId,omitempty"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// TextUploadRequest is the body of POST /texts and PUT /texts/{id}.
type TextUploadRequest struct {
	Title       string `json:"title" validate:"required"`
	Content     string `json:"content,omitempty"`
	Description string `json:"description,omitempty"`
	ProjectID   *int64 `json:"projectId,omitempty"`
	Category    string `json:"category,omitempty"`
	Author      string `json:"author,omitempty"`
	Era         string `json:"era,omitempty"`
}

// CategoryUpdateRequest is the body of PATCH /texts/{id}/category.
type CategoryUpdateRequest struct {
	Category string `json:"category"`
}

// Section is a segment of a text produced by segmentation or edited by hand.
type Section struct {
	ID          int64  `json:"id"`
	TextID      int64  `json:"textId,omitempty"`
	Title       string `json:"title,omitempty"`
	Summary     string `json:"summary,omitempty"`
	Content     string `json:"content,omitempty"`
	StartOffset int    `json:"startOffset"`
	EndOffset   int    `json:"endOffset"`
	OrderIndex  int    `json:"orderIndex"`
}

// SectionUpdateRequest is the body of PUT /sections/{id}.
type SectionUpdateRequest struct {
	Title   string `json:"title,omitempty"`
	Summary string `json:"summary,omitempty"`
	Content string `json:"content,omitempty"`
}

// ExportDocument is the JSON body served by the export endpoint.
type ExportDocument struct {
	Text      Text       `json:"text"`
	Entities  []Entity   `json:"entities"`
	Relations []Relation `json:"relations"`
	Sections  []Section  `json:"sections,omitempty"`
}

// SearchResult is one hit of the text search endpoint.
type SearchResult struct {
	TextID   int64   `json:"textId"`
	Title    string  `json:"title"`
	Category string  `json:"category,omitempty"`
	Snippet  string  `json:"snippet,omitempty"`
	Score    float64 `json:"score,omitempty"`
}

// NavigationNode is one node of the server computed sidebar tree.
type NavigationNode struct {
	ID       string           `json:"id"`
	Label    string           `json:"label"`
	Type     string           `json:"type,omitempty"`
	TextID   *int64           `json:"textId,omitempty"`
	Count    int              `json:"count,omitempty"`
	Children []NavigationNode `json:"children,omitempty"`
}
