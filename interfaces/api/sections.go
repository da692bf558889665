package api

import (
	"context"

	"ianct-client/domain/models"
)

type SectionsAPI struct {
	r Requester
}

func NewSectionsAPI(r Requester) *SectionsAPI {
	return &SectionsAPI{r: r}
}

func (a *SectionsAPI) List(ctx context.Context, textID int64) ([]models.Section, error) {
	var out []models.Section
	if err := a.r.Get(ctx, "/texts/"+id(textID)+"/sections", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AutoSegment asks the backend to (re)segment the text and returns the new
// section list.
func (a *SectionsAPI) AutoSegment(ctx context.Context, textID int64) ([]models.Section, error) {
	var out []models.Section
	if err := a.r.Post(ctx, "/texts/"+id(textID)+"/sections/auto", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *SectionsAPI) Update(ctx context.Context, sectionID int64, req models.SectionUpdateRequest) (*models.Section, error) {
	var out models.Section
	if err := a.r.Put(ctx, "/sections/"+id(sectionID), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
