package api

import (
	"context"

	"ianct-client/domain/models"
)

type GeoAPI struct {
	r Requester
}

func NewGeoAPI(r Requester) *GeoAPI {
	return &GeoAPI{r: r}
}

func (a *GeoAPI) Locate(ctx context.Context, req models.GeoLocateRequest) ([]models.GeoPoint, error) {
	var out []models.GeoPoint
	if err := a.r.Post(ctx, "/geo/locate", nil, req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *GeoAPI) SaveMarker(ctx context.Context, req models.SaveMarkerRequest) (*models.GeoMarker, error) {
	var out models.GeoMarker
	if err := a.r.Post(ctx, "/geo/marker", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *GeoAPI) Markers(ctx context.Context, textID int64) ([]models.GeoMarker, error) {
	var out []models.GeoMarker
	if err := a.r.Get(ctx, "/geo/markers/"+id(textID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *GeoAPI) DeleteMarker(ctx context.Context, textID, entityID int64) error {
	return a.r.Delete(ctx, "/geo/marker/"+id(textID)+"/"+id(entityID), nil, nil)
}
