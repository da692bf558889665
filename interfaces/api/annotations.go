package api

import (
	"context"

	"ianct-client/domain/models"
	"ianct-client/infrastructure/httpclient"
)

type AnnotationsAPI struct {
	r Requester
}

func NewAnnotationsAPI(r Requester) *AnnotationsAPI {
	return &AnnotationsAPI{r: r}
}

func (a *AnnotationsAPI) Entities(ctx context.Context, textID int64) ([]models.Entity, error) {
	var out []models.Entity
	if err := a.r.Get(ctx, "/annotations/entities", httpclient.Params("textId", id(textID)), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *AnnotationsAPI) Relations(ctx context.Context, textID int64) ([]models.Relation, error) {
	var out []models.Relation
	if err := a.r.Get(ctx, "/annotations/relations", httpclient.Params("textId", id(textID)), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *AnnotationsAPI) CreateEntity(ctx context.Context, req models.EntityCreateRequest) (*models.Entity, error) {
	var out models.Entity
	if err := a.r.Post(ctx, "/annotations/entities", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *AnnotationsAPI) CreateRelation(ctx context.Context, req models.RelationCreateRequest) (*models.Relation, error) {
	var out models.Relation
	if err := a.r.Post(ctx, "/annotations/relations", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *AnnotationsAPI) DeleteEntity(ctx context.Context, entityID int64) error {
	return a.r.Delete(ctx, "/annotations/entities/"+id(entityID), nil, nil)
}

func (a *AnnotationsAPI) DeleteRelation(ctx context.Context, relationID int64) error {
	return a.r.Delete(ctx, "/annotations/relations/"+id(relationID), nil, nil)
}
