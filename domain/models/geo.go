package models

import "time"

// GeoLocateEntity is one entity sent for geocoding.
type GeoLocateEntity struct {
	ID       int64  `json:"id"`
	Label    string `json:"label"`
	Category string `json:"category,omitempty"`
}

// GeoLocateRequest is the body of POST /geo/locate.
type GeoLocateRequest struct {
	TextID   int64             `json:"textId"`
	Model    string            `json:"model,omitempty"`
	Entities []GeoLocateEntity `json:"entities"`
}

// GeoPoint is a geocoding result.
type GeoPoint struct {
	EntityID  int64    `json:"entityId"`
	Label     string   `json:"label"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Source    string   `json:"source,omitempty"`
	Note      string   `json:"note,omitempty"`
}

// SaveMarkerRequest is the body of POST /geo/marker.
type SaveMarkerRequest struct {
	TextID      int64   `json:"textId"`
	EntityID    int64   `json:"entityId"`
	EntityLabel string  `json:"entityLabel,omitempty"`
	Category    string  `json:"category,omitempty"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Source      string  `json:"source,omitempty"`
	OrderIndex  int     `json:"orderIndex,omitempty"`
}

// GeoMarker is a saved map position of an entity in a text.
type GeoMarker struct {
	ID          int64      `json:"id"`
	TextID      int64      `json:"textId"`
	EntityID    int64      `json:"entityId"`
	EntityLabel string     `json:"entityLabel,omitempty"`
	Category    string     `json:"category,omitempty"`
	Latitude    float64    `json:"latitude"`
	Longitude   float64    `json:"longitude"`
	Source      string     `json:"source,omitempty"`
	OrderIndex  int        `json:"orderIndex,omitempty"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}
