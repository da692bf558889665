package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"ianct-client/domain/models"
	apperrors "ianct-client/pkg/errors"
	"ianct-client/pkg/settle"
)

// markerSaves bounds concurrent marker writes for "marker-add all".
const markerSaves = 4

const placeCategory = "LOCATION"

func (s *Workspace) overview(ctx context.Context, args []string) error {
	if ok, err := s.enter(ctx, "/dashboard"); !ok || err != nil {
		return err
	}
	textID := s.texts.Snapshot().SelectedTextID
	if len(args) > 0 {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		textID = id
	}
	in, err := s.dash.Overview(ctx, textID)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "text %d (%s)\n", in.TextID, in.Category)
	if in.Stats != nil {
		fmt.Fprintf(s.out, "entities %d  relations %d\n", in.Stats.EntityCount, in.Stats.RelationCount)
	}
	fmt.Fprintf(s.out, "timeline %d  map points %d\n", len(in.Timeline), len(in.MapPoints))
	if len(in.RecommendedViews) > 0 {
		fmt.Fprintf(s.out, "views: %s\n", strings.Join(in.RecommendedViews, ", "))
	}
	if in.AnalysisSummary != "" {
		fmt.Fprintln(s.out, in.AnalysisSummary)
	}
	return nil
}

// locate geocodes the place entities of the open text.
func (s *Workspace) locate(ctx context.Context, args []string) error {
	textID, err := s.selection()
	if err != nil {
		return err
	}
	var places []models.GeoLocateEntity
	for _, e := range s.texts.Snapshot().Entities {
		if e.Category == placeCategory {
			places = append(places, models.GeoLocateEntity{ID: e.ID, Label: e.Label, Category: e.Category})
		}
	}
	if len(places) == 0 {
		fmt.Fprintln(s.out, "No places to locate")
		return nil
	}

	points, err := s.geo.Locate(ctx, models.GeoLocateRequest{TextID: textID, Model: optional(args), Entities: places})
	if err != nil {
		return err
	}
	s.located = points
	return s.table("ENTITY\tPLACE\tLAT\tLNG\tSOURCE", func(w io.Writer) {
		for _, p := range points {
			if p.Latitude == nil || p.Longitude == nil {
				fmt.Fprintf(w, "%d\t%s\t-\t-\t%s\n", p.EntityID, p.Label, p.Note)
				continue
			}
			fmt.Fprintf(w, "%d\t%s\t%.2f\t%.2f\t%s\n", p.EntityID, p.Label, *p.Latitude, *p.Longitude, p.Source)
		}
	})
}

func (s *Workspace) markers(ctx context.Context, _ []string) error {
	textID, err := s.selection()
	if err != nil {
		return err
	}
	list, err := s.geo.Markers(ctx, textID)
	if err != nil {
		return err
	}
	return s.table("ENTITY\tPLACE\tLAT\tLNG", func(w io.Writer) {
		for _, m := range list {
			fmt.Fprintf(w, "%d\t%s\t%.2f\t%.2f\n", m.EntityID, m.EntityLabel, m.Latitude, m.Longitude)
		}
	})
}

// addMarker saves one marker, taking coordinates from the arguments or from
// the last geo lookup, or every located place with "all".
func (s *Workspace) addMarker(ctx context.Context, args []string) error {
	textID, err := s.selection()
	if err != nil {
		return err
	}
	if args[0] == "all" {
		return s.addLocatedMarkers(ctx, textID)
	}

	entityID, err := parseID(args[0])
	if err != nil {
		return err
	}
	req := models.SaveMarkerRequest{TextID: textID, EntityID: entityID, Category: placeCategory, Source: "manual"}
	switch {
	case len(args) >= 3:
		lat, err1 := strconv.ParseFloat(args[1], 64)
		lng, err2 := strconv.ParseFloat(args[2], 64)
		if err1 != nil || err2 != nil {
			return apperrors.NewValidationError("lat and lng must be numbers")
		}
		req.Latitude, req.Longitude = lat, lng
		for _, e := range s.texts.Snapshot().Entities {
			if e.ID == entityID {
				req.EntityLabel = e.Label
			}
		}
	default:
		p, ok := s.locatedPoint(entityID)
		if !ok {
			return apperrors.NewValidationError(
				fmt.Sprintf("entity %d has no located coordinates; run 'geo' or pass lat lng", entityID))
		}
		req = markerFor(textID, p, 0)
	}

	m, err := s.geo.SaveMarker(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Marker saved for %s (%.2f, %.2f)\n", m.EntityLabel, m.Latitude, m.Longitude)
	return nil
}

func (s *Workspace) addLocatedMarkers(ctx context.Context, textID int64) error {
	var reqs []models.SaveMarkerRequest
	for _, p := range s.located {
		if p.Latitude != nil && p.Longitude != nil {
			reqs = append(reqs, markerFor(textID, p, len(reqs)+1))
		}
	}
	if len(reqs) == 0 {
		return apperrors.NewValidationError("nothing located; run 'geo' first")
	}

	tasks := make([]settle.Task, len(reqs))
	for i, req := range reqs {
		tasks[i] = func(ctx context.Context) error {
			_, err := s.geo.SaveMarker(ctx, req)
			return err
		}
	}
	out := settle.Limit(ctx, markerSaves, tasks...)
	for _, i := range out.Failed() {
		fmt.Fprintf(s.out, "warning: %s not saved: %s\n", reqs[i].EntityLabel, describe(out[i]))
	}
	fmt.Fprintf(s.out, "Saved %d of %d markers\n", len(reqs)-len(out.Failed()), len(reqs))
	return nil
}

func (s *Workspace) locatedPoint(entityID int64) (models.GeoPoint, bool) {
	for _, p := range s.located {
		if p.EntityID == entityID && p.Latitude != nil && p.Longitude != nil {
			return p, true
		}
	}
	return models.GeoPoint{}, false
}

func markerFor(textID int64, p models.GeoPoint, order int) models.SaveMarkerRequest {
	return models.SaveMarkerRequest{
		TextID:      textID,
		EntityID:    p.EntityID,
		EntityLabel: p.Label,
		Category:    placeCategory,
		Latitude:    *p.Latitude,
		Longitude:   *p.Longitude,
		Source:      p.Source,
		OrderIndex:  order,
	}
}

func (s *Workspace) deleteMarker(ctx context.Context, args []string) error {
	textID, err := s.selection()
	if err != nil {
		return err
	}
	entityID, err := parseID(args[0])
	if err != nil {
		return err
	}
	if err := s.geo.DeleteMarker(ctx, textID, entityID); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Marker for entity %d deleted\n", entityID)
	return nil
}
