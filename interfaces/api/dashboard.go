package api

import (
	"context"

	"ianct-client/domain/models"
	"ianct-client/infrastructure/httpclient"
)

type DashboardAPI struct {
	r Requester
}

func NewDashboardAPI(r Requester) *DashboardAPI {
	return &DashboardAPI{r: r}
}

func (a *DashboardAPI) AdminOverview(ctx context.Context) (*models.AdminOverview, error) {
	var out models.AdminOverview
	if err := a.r.Get(ctx, "/dashboard/admin-overview", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Overview returns the per-text dashboard payload; textID 0 asks for the
// backend's default text.
func (a *DashboardAPI) Overview(ctx context.Context, textID int64) (*models.Insights, error) {
	var out models.Insights
	q := httpclient.Params()
	if textID != 0 {
		q.Set("textId", id(textID))
	}
	if err := a.r.Get(ctx, "/dashboard/overview", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
