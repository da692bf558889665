// Package annotation holds pure functions over entity and relation lists.
// Nothing here caches: callers recompute from the authoritative slices.
package annotation

import "ianct-client/domain/models"

// Filters selects which annotations a view shows.
type Filters struct {
	EntityCategories []string
	RelationTypes    []string
	HighlightOnly    bool
}

// EntityOptions returns the distinct entity categories in first-seen order.
func EntityOptions(entities []models.Entity) []string {
	seen := make(map[string]struct{}, len(entities))
	out := make([]string, 0)
	for _, e := range entities {
		if _, ok := seen[e.Category]; ok {
			continue
		}
		seen[e.Category] = struct{}{}
		out = append(out, e.Category)
	}
	return out
}

// RelationOptions returns the distinct relation types in first-seen order.
func RelationOptions(relations []models.Relation) []string {
	seen := make(map[string]struct{}, len(relations))
	out := make([]string, 0)
	for _, r := range relations {
		if _, ok := seen[r.RelationType]; ok {
			continue
		}
		seen[r.RelationType] = struct{}{}
		out = append(out, r.RelationType)
	}
	return out
}

// DefaultFilters selects every category and relation type present.
func DefaultFilters(entities []models.Entity, relations []models.Relation, highlightOnly bool) Filters {
	return Filters{
		EntityCategories: EntityOptions(entities),
		RelationTypes:    RelationOptions(relations),
		HighlightOnly:    highlightOnly,
	}
}

// HasEntity reports whether an entity with id is in the list.
func HasEntity(entities []models.Entity, id int64) bool {
	return IndexOfEntity(entities, id) >= 0
}

// IndexOfEntity returns the position of the entity with id, or -1.
func IndexOfEntity(entities []models.Entity, id int64) int {
	for i, e := range entities {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// HasRelation reports whether a relation with id is in the list.
func HasRelation(relations []models.Relation, id int64) bool {
	return IndexOfRelation(relations, id) >= 0
}

// IndexOfRelation returns the position of the relation with id, or -1.
func IndexOfRelation(relations []models.Relation, id int64) int {
	for i, r := range relations {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// Touches reports whether the relation has entityID at either end.
func Touches(r models.Relation, entityID int64) bool {
	return r.SourceID() == entityID || r.TargetID() == entityID
}

// Pruned is the outcome of removing an entity together with its relations.
type Pruned struct {
	Entities         []models.Entity
	Relations        []models.Relation
	RemovedEntities  []models.Entity
	RemovedRelations []models.Relation
}

// PruneEntity removes the entity with id and every relation touching it.
// The input slices are not modified.
func PruneEntity(entities []models.Entity, relations []models.Relation, id int64) Pruned {
	var p Pruned
	p.Entities = make([]models.Entity, 0, len(entities))
	for _, e := range entities {
		if e.ID == id {
			p.RemovedEntities = append(p.RemovedEntities, e)
			continue
		}
		p.Entities = append(p.Entities, e)
	}
	p.Relations = make([]models.Relation, 0, len(relations))
	for _, r := range relations {
		if Touches(r, id) {
			p.RemovedRelations = append(p.RemovedRelations, r)
			continue
		}
		p.Relations = append(p.Relations, r)
	}
	return p
}

// Visible applies filters: entities whose category is selected, relations
// whose type is selected and whose both ends are visible.
func Visible(entities []models.Entity, relations []models.Relation, f Filters) ([]models.Entity, []models.Relation) {
	cats := toSet(f.EntityCategories)
	types := toSet(f.RelationTypes)

	shown := make(map[int64]struct{})
	ents := make([]models.Entity, 0, len(entities))
	for _, e := range entities {
		if _, ok := cats[e.Category]; !ok {
			continue
		}
		shown[e.ID] = struct{}{}
		ents = append(ents, e)
	}

	rels := make([]models.Relation, 0, len(relations))
	for _, r := range relations {
		if _, ok := types[r.RelationType]; !ok {
			continue
		}
		if _, ok := shown[r.SourceID()]; !ok {
			continue
		}
		if _, ok := shown[r.TargetID()]; !ok {
			continue
		}
		rels = append(rels, r)
	}
	return ents, rels
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
