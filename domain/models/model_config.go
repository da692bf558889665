package models

import "time"

// ModelConfig describes one LLM the backend may use for analysis.
type ModelConfig struct {
	ID          int64  `json:"id,omitempty"`
	ModelKey    string `json:"modelKey" validate:"required"`
	DisplayName string `json:"displayName" validate:"required"`
	Provider    string `json:"provider" validate:"required"`
	Enabled     bool   `json:"enabled"`
	SortOrder   int    `json:"sortOrder,omitempty"`
	Description string `json:"description,omitempty"`
}

// ModelJob is a background analysis job as listed on the admin dashboard.
type ModelJob struct {
	ID        int64      `json:"id"`
	TextID    int64      `json:"textId,omitempty"`
	JobType   string     `json:"jobType,omitempty"`
	Status    string     `json:"status,omitempty"`
	Model     string     `json:"model,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// AdminOverview is the admin dashboard summary.
type AdminOverview struct {
	TextCount     int64      `json:"textCount"`
	EntityCount   int64      `json:"entityCount"`
	RelationCount int64      `json:"relationCount"`
	ModelJobCount int64      `json:"modelJobCount"`
	RecentJobs    []ModelJob `json:"recentJobs,omitempty"`
}
