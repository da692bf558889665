package api

import (
	"context"

	"ianct-client/domain/models"
)

// ModelsAPI manages the LLM configurations offered for analysis.
type ModelsAPI struct {
	r Requester
}

func NewModelsAPI(r Requester) *ModelsAPI {
	return &ModelsAPI{r: r}
}

// Enabled lists only models users may pick.
func (a *ModelsAPI) Enabled(ctx context.Context) ([]models.ModelConfig, error) {
	var out []models.ModelConfig
	if err := a.r.Get(ctx, "/models", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *ModelsAPI) All(ctx context.Context) ([]models.ModelConfig, error) {
	var out []models.ModelConfig
	if err := a.r.Get(ctx, "/models/all", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *ModelsAPI) Create(ctx context.Context, cfg models.ModelConfig) (*models.ModelConfig, error) {
	var out models.ModelConfig
	if err := a.r.Post(ctx, "/models", nil, cfg, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *ModelsAPI) Update(ctx context.Context, modelID int64, cfg models.ModelConfig) (*models.ModelConfig, error) {
	var out models.ModelConfig
	if err := a.r.Put(ctx, "/models/"+id(modelID), cfg, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *ModelsAPI) Delete(ctx context.Context, modelID int64) error {
	return a.r.Delete(ctx, "/models/"+id(modelID), nil, nil)
}
