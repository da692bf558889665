package api

import (
	"context"
	"strconv"

	"ianct-client/domain/models"
	"ianct-client/infrastructure/httpclient"
)

type AnalysisAPI struct {
	r Requester
}

func NewAnalysisAPI(r Requester) *AnalysisAPI {
	return &AnalysisAPI{r: r}
}

// Classify runs category classification. An empty model lets the backend
// pick its default.
func (a *AnalysisAPI) Classify(ctx context.Context, textID int64, model string) (*models.Classification, error) {
	var out models.Classification
	if err := a.r.Post(ctx, "/analysis/"+id(textID)+"/classify", httpclient.Params("model", model), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *AnalysisAPI) AutoAnnotate(ctx context.Context, textID int64) (*models.AutoAnnotation, error) {
	var out models.AutoAnnotation
	if err := a.r.Post(ctx, "/analysis/"+id(textID)+"/auto-annotate", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Insights fetches the visualisation payload. light skips the expensive
// parts and is what the workspace requests on selection.
func (a *AnalysisAPI) Insights(ctx context.Context, textID int64, light bool) (*models.Insights, error) {
	var out models.Insights
	q := httpclient.Params()
	if light {
		q.Set("light", strconv.FormatBool(light))
	}
	if err := a.r.Get(ctx, "/analysis/"+id(textID)+"/insights", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *AnalysisAPI) Full(ctx context.Context, textID int64, model string) (*models.FullAnalysis, error) {
	var out models.FullAnalysis
	if err := a.r.Post(ctx, "/analysis/"+id(textID)+"/full", httpclient.Params("model", model), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
