package api

import (
	"context"

	"ianct-client/domain/models"
	"ianct-client/infrastructure/httpclient"
)

type SearchAPI struct {
	r Requester
}

func NewSearchAPI(r Requester) *SearchAPI {
	return &SearchAPI{r: r}
}

func (a *SearchAPI) Texts(ctx context.Context, keyword string, projectID *int64) ([]models.SearchResult, error) {
	var out []models.SearchResult
	q := httpclient.Params("keyword", keyword, "projectId", optionalID(projectID))
	if err := a.r.Get(ctx, "/texts/search", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}
