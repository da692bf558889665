package stores

import (
	"context"

	"ianct-client/domain/annotation"
	"ianct-client/domain/models"

	"go.uber.org/zap"
)

// allocLocalIDLocked returns the next tentative id. Tentative ids are
// negative so they never collide with server ids.
func (s *TextStore) allocLocalIDLocked() int64 {
	s.nextLocalID--
	return s.nextLocalID
}

// CreateEntityAnnotation appends a tentative entity at once and reconciles
// it with the server's record: replaced on success, dropped when the
// server id is already listed, removed again on failure.
func (s *TextStore) CreateEntityAnnotation(ctx context.Context, req models.EntityCreateRequest) (*models.Entity, error) {
	s.mu.Lock()
	localID := s.allocLocalIDLocked()
	s.state.Entities = append(append([]models.Entity{}, s.state.Entities...), models.Entity{
		ID:          localID,
		TextID:      req.TextID,
		Label:       req.Label,
		Category:    req.Category,
		StartOffset: req.StartOffset,
		EndOffset:   req.EndOffset,
		Confidence:  req.Confidence,
	})
	s.state.PendingEntities[localID] = PendingCreate
	s.resetFiltersLocked()
	s.mu.Unlock()

	created, err := s.api.Annotations.CreateEntity(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.state.PendingEntities, localID)
	entities := removeEntity(s.state.Entities, localID)
	if err != nil {
		s.state.Entities = entities
		s.resetFiltersLocked()
		s.logger.Info("Entity create rolled back", zap.String("label", req.Label), zap.Error(err))
		return nil, err
	}

	if idx := annotation.IndexOfEntity(s.state.Entities, localID); idx >= 0 && !annotation.HasEntity(entities, created.ID) {
		entities = insertAt(entities, idx, *created)
	}
	s.state.Entities = entities
	s.resetFiltersLocked()
	return created, nil
}

// CreateRelationAnnotation is CreateEntityAnnotation for relations.
func (s *TextStore) CreateRelationAnnotation(ctx context.Context, req models.RelationCreateRequest) (*models.Relation, error) {
	s.mu.Lock()
	localID := s.allocLocalIDLocked()
	s.state.Relations = append(append([]models.Relation{}, s.state.Relations...), models.Relation{
		ID:             localID,
		TextID:         req.TextID,
		SourceEntityID: req.SourceEntityID,
		TargetEntityID: req.TargetEntityID,
		RelationType:   req.RelationType,
		Confidence:     req.Confidence,
		Evidence:       req.Evidence,
	})
	s.state.PendingRelations[localID] = PendingCreate
	s.resetFiltersLocked()
	s.mu.Unlock()

	created, err := s.api.Annotations.CreateRelation(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.state.PendingRelations, localID)
	relations := removeRelation(s.state.Relations, localID)
	if err != nil {
		s.state.Relations = relations
		s.resetFiltersLocked()
		s.logger.Info("Relation create rolled back", zap.String("type", req.RelationType), zap.Error(err))
		return nil, err
	}

	if idx := annotation.IndexOfRelation(s.state.Relations, localID); idx >= 0 && !annotation.HasRelation(relations, created.ID) {
		relations = insertAt(relations, idx, *created)
	}
	s.state.Relations = relations
	s.resetFiltersLocked()
	return created, nil
}

type indexed[T any] struct {
	idx int
	v   T
}

// DeleteEntityAnnotation removes the entity and every relation touching it
// at once, then deletes it on the server. Everything removed is put back
// when the request fails.
func (s *TextStore) DeleteEntityAnnotation(ctx context.Context, id int64) error {
	s.mu.Lock()
	var goneEntities []indexed[models.Entity]
	for i, e := range s.state.Entities {
		if e.ID == id {
			goneEntities = append(goneEntities, indexed[models.Entity]{i, e})
		}
	}
	var goneRelations []indexed[models.Relation]
	for i, r := range s.state.Relations {
		if annotation.Touches(r, id) {
			goneRelations = append(goneRelations, indexed[models.Relation]{i, r})
			s.state.PendingRelations[r.ID] = PendingDelete
		}
	}
	pruned := annotation.PruneEntity(s.state.Entities, s.state.Relations, id)
	s.state.Entities = pruned.Entities
	s.state.Relations = pruned.Relations
	s.state.PendingEntities[id] = PendingDelete
	s.resetFiltersLocked()
	s.mu.Unlock()

	err := s.api.Annotations.DeleteEntity(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.state.PendingEntities, id)
	for _, g := range goneRelations {
		delete(s.state.PendingRelations, g.v.ID)
	}
	if err != nil {
		for _, g := range goneEntities {
			if !annotation.HasEntity(s.state.Entities, g.v.ID) {
				s.state.Entities = insertAt(s.state.Entities, g.idx, g.v)
			}
		}
		for _, g := range goneRelations {
			if !annotation.HasRelation(s.state.Relations, g.v.ID) {
				s.state.Relations = insertAt(s.state.Relations, g.idx, g.v)
			}
		}
		s.resetFiltersLocked()
		s.logger.Info("Entity delete rolled back", zap.Int64("entityID", id), zap.Error(err))
		return err
	}
	return nil
}

// DeleteRelationAnnotation removes one relation at once and restores it
// when the request fails.
func (s *TextStore) DeleteRelationAnnotation(ctx context.Context, id int64) error {
	s.mu.Lock()
	idx := annotation.IndexOfRelation(s.state.Relations, id)
	var removed models.Relation
	if idx >= 0 {
		removed = s.state.Relations[idx]
		s.state.Relations = removeRelation(s.state.Relations, id)
	}
	s.state.PendingRelations[id] = PendingDelete
	s.resetFiltersLocked()
	s.mu.Unlock()

	err := s.api.Annotations.DeleteRelation(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.state.PendingRelations, id)
	if err != nil {
		if idx >= 0 && !annotation.HasRelation(s.state.Relations, id) {
			s.state.Relations = insertAt(s.state.Relations, idx, removed)
		}
		s.resetFiltersLocked()
		s.logger.Info("Relation delete rolled back", zap.Int64("relationID", id), zap.Error(err))
		return err
	}
	return nil
}

func removeEntity(list []models.Entity, id int64) []models.Entity {
	out := make([]models.Entity, 0, len(list))
	for _, e := range list {
		if e.ID != id {
			out = append(out, e)
		}
	}
	return out
}

func removeRelation(list []models.Relation, id int64) []models.Relation {
	out := make([]models.Relation, 0, len(list))
	for _, r := range list {
		if r.ID != id {
			out = append(out, r)
		}
	}
	return out
}
