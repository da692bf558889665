package api

import (
	"context"

	"ianct-client/domain/models"
	"ianct-client/infrastructure/httpclient"
)

type TextsAPI struct {
	r Requester
}

func NewTextsAPI(r Requester) *TextsAPI {
	return &TextsAPI{r: r}
}

// List returns texts, optionally narrowed by category and project.
func (a *TextsAPI) List(ctx context.Context, category string, projectID *int64) ([]models.Text, error) {
	var out []models.Text
	q := httpclient.Params("category", category, "projectId", optionalID(projectID))
	if err := a.r.Get(ctx, "/texts", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *TextsAPI) Get(ctx context.Context, textID int64) (*models.Text, error) {
	var out models.Text
	if err := a.r.Get(ctx, "/texts/"+id(textID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *TextsAPI) Upload(ctx context.Context, req models.TextUploadRequest) (*models.Text, error) {
	var out models.Text
	if err := a.r.Post(ctx, "/texts", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *TextsAPI) Update(ctx context.Context, textID int64, req models.TextUploadRequest) (*models.Text, error) {
	var out models.Text
	if err := a.r.Put(ctx, "/texts/"+id(textID), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *TextsAPI) UpdateCategory(ctx context.Context, textID int64, category string) (*models.Text, error) {
	var out models.Text
	body := models.CategoryUpdateRequest{Category: category}
	if err := a.r.Patch(ctx, "/texts/"+id(textID)+"/category", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *TextsAPI) Delete(ctx context.Context, textID int64) error {
	return a.r.Delete(ctx, "/texts/"+id(textID), nil, nil)
}

// Export downloads the text with its annotations as an opaque blob.
func (a *TextsAPI) Export(ctx context.Context, textID int64) (*httpclient.Blob, error) {
	return a.r.GetBlob(ctx, "/texts/"+id(textID)+"/export")
}
