package api

import (
	"context"

	"ianct-client/domain/models"
	"ianct-client/infrastructure/httpclient"
)

type NavigationAPI struct {
	r Requester
}

func NewNavigationAPI(r Requester) *NavigationAPI {
	return &NavigationAPI{r: r}
}

// Tree returns the sidebar tree, scoped to a project when projectID is set.
func (a *NavigationAPI) Tree(ctx context.Context, projectID *int64) ([]models.NavigationNode, error) {
	var out []models.NavigationNode
	if err := a.r.Get(ctx, "/navigation/tree", httpclient.Params("projectId", optionalID(projectID)), &out); err != nil {
		return nil, err
	}
	return out, nil
}
