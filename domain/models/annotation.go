package models

// Entity is an annotated span of a text.
type Entity struct {
	ID          int64   `json:"id"`
	TextID      int64   `json:"textId,omitempty"`
	Label       string  `json:"label"`
	Category    string  `json:"category"`
	StartOffset int     `json:"startOffset"`
	EndOffset   int     `json:"endOffset"`
	Confidence  float64 `json:"confidence,omitempty"`
}

// Relation is a typed link between two entities. The backend embeds the
// endpoints as objects on reads and accepts bare ids on writes, so both
// shapes are carried.
type Relation struct {
	ID             int64   `json:"id"`
	TextID         int64   `json:"textId,omitempty"`
	Source         *Entity `json:"source,omitempty"`
	Target         *Entity `json:"target,omitempty"`
	SourceEntityID int64   `json:"sourceEntityId,omitempty"`
	TargetEntityID int64   `json:"targetEntityId,omitempty"`
	RelationType   string  `json:"relationType"`
	Confidence     float64 `json:"confidence,omitempty"`
	Evidence       string  `json:"evidence,omitempty"`
}

// SourceID returns the id of the source entity from whichever shape is set.
func (r Relation) SourceID() int64 {
	if r.Source != nil && r.Source.ID != 0 {
		return r.Source.ID
	}
	return r.SourceEntityID
}

// TargetID returns the id of the target entity from whichever shape is set.
func (r Relation) TargetID() int64 {
	if r.Target != nil && r.Target.ID != 0 {
		return r.Target.ID
	}
	return r.TargetEntityID
}

// Relation types known to the backend.
const (
	RelationAlly       = "ALLY"
	RelationSupport    = "SUPPORT"
	RelationRival      = "RIVAL"
	RelationConflict   = "CONFLICT"
	RelationFamily     = "FAMILY"
	RelationMentor     = "MENTOR"
	RelationInfluence  = "INFLUENCE"
	RelationLocationOf = "LOCATION_OF"
	RelationPartOf     = "PART_OF"
	RelationCause      = "CAUSE"
	RelationTemporal   = "TEMPORAL"
	RelationTravel     = "TRAVEL"
	RelationCustom     = "CUSTOM"
)

// EntityCreateRequest is the body of POST /annotations/entities.
type EntityCreateRequest struct {
	TextID      int64   `json:"textId" validate:"required"`
	Label       string  `json:"label" validate:"required"`
	Category    string  `json:"category" validate:"required"`
	StartOffset int     `json:"startOffset" validate:"gte=0"`
	EndOffset   int     `json:"endOffset" validate:"gtefield=StartOffset"`
	Confidence  float64 `json:"confidence,omitempty"`
}

// RelationCreateRequest is the body of POST /annotations/relations.
type RelationCreateRequest struct {
	TextID         int64   `json:"textId" validate:"required"`
	SourceEntityID int64   `json:"sourceEntityId" validate:"required"`
	TargetEntityID int64   `json:"targetEntityId" validate:"required"`
	RelationType   string  `json:"relationType" validate:"required"`
	Confidence     float64 `json:"confidence,omitempty"`
	Evidence       string  `json:"evidence,omitempty"`
}
