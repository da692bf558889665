package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"ianct-client/domain/models"
	"ianct-client/infrastructure/httpclient"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRequester struct {
	mock.Mock
}

func (m *mockRequester) Get(ctx context.Context, path string, query url.Values, out any) error {
	return m.reply(m.Called(http.MethodGet, path, query, nil), out)
}

func (m *mockRequester) Post(ctx context.Context, path string, query url.Values, body, out any) error {
	return m.reply(m.Called(http.MethodPost, path, query, body), out)
}

func (m *mockRequester) Put(ctx context.Context, path string, body, out any) error {
	return m.reply(m.Called(http.MethodPut, path, url.Values(nil), body), out)
}

func (m *mockRequester) Patch(ctx context.Context, path string, body, out any) error {
	return m.reply(m.Called(http.MethodPatch, path, url.Values(nil), body), out)
}

func (m *mockRequester) Delete(ctx context.Context, path string, body, out any) error {
	return m.reply(m.Called(http.MethodDelete, path, url.Values(nil), body), out)
}

// reply decodes an optional second return value into out, the way the real
// client decodes a response body.
func (m *mockRequester) reply(args mock.Arguments, out any) error {
	if err := args.Error(0); err != nil {
		return err
	}
	if len(args) < 2 || args.Get(1) == nil || out == nil {
		return nil
	}
	raw, err := json.Marshal(args.Get(1))
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func (m *mockRequester) GetBlob(ctx context.Context, path string) (*httpclient.Blob, error) {
	args := m.Called(http.MethodGet, path, url.Values(nil), nil)
	blob, _ := args.Get(0).(*httpclient.Blob)
	return blob, args.Error(1)
}

func int64p(v int64) *int64 { return &v }

func TestEndpoints(t *testing.T) {
	ctx := context.Background()
	empty := url.Values{}

	tests := []struct {
		name   string
		method string
		path   string
		query  url.Values
		body   any
		call   func(r Requester) error
	}{
		{"auth login", http.MethodPost, "/auth/login", nil, models.LoginRequest{Username: "a", Password: "b"},
			func(r Requester) error {
				_, err := NewAuthAPI(r).Login(ctx, models.LoginRequest{Username: "a", Password: "b"})
				return err
			}},
		{"auth current", http.MethodGet, "/auth/current", nil, nil,
			func(r Requester) error { _, err := NewAuthAPI(r).Current(ctx); return err }},
		{"user status", http.MethodPatch, "/users/4/status", nil, models.UserStatusUpdateRequest{Enabled: false},
			func(r Requester) error { _, err := NewUsersAPI(r).UpdateStatus(ctx, 4, false); return err }},
		{"texts by category", http.MethodGet, "/texts", url.Values{"category": {"military"}}, nil,
			func(r Requester) error { _, err := NewTextsAPI(r).List(ctx, "military", nil); return err }},
		{"texts by project", http.MethodGet, "/texts", url.Values{"projectId": {"3"}}, nil,
			func(r Requester) error { _, err := NewTextsAPI(r).List(ctx, "", int64p(3)); return err }},
		{"text category", http.MethodPatch, "/texts/9/category", nil, models.CategoryUpdateRequest{Category: "travel"},
			func(r Requester) error { _, err := NewTextsAPI(r).UpdateCategory(ctx, 9, "travel"); return err }},
		{"text delete", http.MethodDelete, "/texts/9", nil, nil,
			func(r Requester) error { return NewTextsAPI(r).Delete(ctx, 9) }},
		{"entities", http.MethodGet, "/annotations/entities", url.Values{"textId": {"5"}}, nil,
			func(r Requester) error { _, err := NewAnnotationsAPI(r).Entities(ctx, 5); return err }},
		{"relation delete", http.MethodDelete, "/annotations/relations/12", nil, nil,
			func(r Requester) error { return NewAnnotationsAPI(r).DeleteRelation(ctx, 12) }},
		{"auto segment", http.MethodPost, "/texts/5/sections/auto", nil, nil,
			func(r Requester) error { _, err := NewSectionsAPI(r).AutoSegment(ctx, 5); return err }},
		{"classify default model", http.MethodPost, "/analysis/5/classify", empty, nil,
			func(r Requester) error { _, err := NewAnalysisAPI(r).Classify(ctx, 5, ""); return err }},
		{"full with model", http.MethodPost, "/analysis/5/full", url.Values{"model": {"deepseek"}}, nil,
			func(r Requester) error { _, err := NewAnalysisAPI(r).Full(ctx, 5, "deepseek"); return err }},
		{"light insights", http.MethodGet, "/analysis/5/insights", url.Values{"light": {"true"}}, nil,
			func(r Requester) error { _, err := NewAnalysisAPI(r).Insights(ctx, 5, true); return err }},
		{"full insights", http.MethodGet, "/analysis/5/insights", empty, nil,
			func(r Requester) error { _, err := NewAnalysisAPI(r).Insights(ctx, 5, false); return err }},
		{"markers", http.MethodGet, "/geo/markers/5", nil, nil,
			func(r Requester) error { _, err := NewGeoAPI(r).Markers(ctx, 5); return err }},
		{"locate", http.MethodPost, "/geo/locate", nil,
			models.GeoLocateRequest{TextID: 5, Entities: []models.GeoLocateEntity{{ID: 8, Label: "彭城"}}},
			func(r Requester) error {
				_, err := NewGeoAPI(r).Locate(ctx, models.GeoLocateRequest{
					TextID:   5,
					Entities: []models.GeoLocateEntity{{ID: 8, Label: "彭城"}},
				})
				return err
			}},
		{"save marker", http.MethodPost, "/geo/marker", nil,
			models.SaveMarkerRequest{TextID: 5, EntityID: 8, Latitude: 34.2, Longitude: 117.2},
			func(r Requester) error {
				_, err := NewGeoAPI(r).SaveMarker(ctx, models.SaveMarkerRequest{
					TextID: 5, EntityID: 8, Latitude: 34.2, Longitude: 117.2,
				})
				return err
			}},
		{"delete marker", http.MethodDelete, "/geo/marker/5/8", nil, nil,
			func(r Requester) error { return NewGeoAPI(r).DeleteMarker(ctx, 5, 8) }},
		{"models all", http.MethodGet, "/models/all", nil, nil,
			func(r Requester) error { _, err := NewModelsAPI(r).All(ctx); return err }},
		{"navigation unscoped", http.MethodGet, "/navigation/tree", empty, nil,
			func(r Requester) error { _, err := NewNavigationAPI(r).Tree(ctx, nil); return err }},
		{"remove member", http.MethodDelete, "/projects/2/members", nil, models.ProjectMemberRequest{Username: "li"},
			func(r Requester) error { _, err := NewProjectsAPI(r).RemoveMember(ctx, 2, "li"); return err }},
		{"search", http.MethodGet, "/texts/search", url.Values{"keyword": {"项羽"}, "projectId": {"2"}}, nil,
			func(r Requester) error { _, err := NewSearchAPI(r).Texts(ctx, "项羽", int64p(2)); return err }},
		{"password", http.MethodPut, "/user/password", nil, models.UpdatePasswordRequest{CurrentPassword: "a", NewPassword: "bbbbbb"},
			func(r Requester) error {
				_, err := NewProfileAPI(r).ChangePassword(ctx, models.UpdatePasswordRequest{CurrentPassword: "a", NewPassword: "bbbbbb"})
				return err
			}},
		{"admin overview", http.MethodGet, "/dashboard/admin-overview", nil, nil,
			func(r Requester) error { _, err := NewDashboardAPI(r).AdminOverview(ctx); return err }},
		{"text overview", http.MethodGet, "/dashboard/overview", url.Values{"textId": {"5"}}, nil,
			func(r Requester) error { _, err := NewDashboardAPI(r).Overview(ctx, 5); return err }},
		{"default overview", http.MethodGet, "/dashboard/overview", empty, nil,
			func(r Requester) error { _, err := NewDashboardAPI(r).Overview(ctx, 0); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &mockRequester{}
			r.On(methodName(tt.method), tt.method, tt.path, tt.query, tt.body).Return(nil).Once()

			require.NoError(t, tt.call(r))
			r.AssertExpectations(t)
		})
	}
}

func TestDecodedResponses(t *testing.T) {
	ctx := context.Background()

	t.Run("markers", func(t *testing.T) {
		r := &mockRequester{}
		r.On("Get", http.MethodGet, "/geo/markers/5", url.Values(nil), nil).
			Return(nil, []models.GeoMarker{{ID: 1, TextID: 5, EntityID: 8, EntityLabel: "彭城", Latitude: 34.2, Longitude: 117.2}}).
			Once()

		markers, err := NewGeoAPI(r).Markers(ctx, 5)
		require.NoError(t, err)
		require.Len(t, markers, 1)
		assert.Equal(t, int64(8), markers[0].EntityID)
		assert.Equal(t, "彭城", markers[0].EntityLabel)
		assert.InDelta(t, 117.2, markers[0].Longitude, 1e-9)
	})

	t.Run("located points keep missing coordinates nil", func(t *testing.T) {
		lat, lng := 34.2, 117.2
		r := &mockRequester{}
		r.On("Post", http.MethodPost, "/geo/locate", url.Values(nil), mock.Anything).
			Return(nil, []models.GeoPoint{
				{EntityID: 8, Label: "彭城", Latitude: &lat, Longitude: &lng},
				{EntityID: 9, Label: "鸿门", Note: "not found"},
			}).
			Once()

		points, err := NewGeoAPI(r).Locate(ctx, models.GeoLocateRequest{TextID: 5})
		require.NoError(t, err)
		require.Len(t, points, 2)
		require.NotNil(t, points[0].Latitude)
		assert.InDelta(t, lat, *points[0].Latitude, 1e-9)
		assert.Nil(t, points[1].Latitude)
		assert.Equal(t, "not found", points[1].Note)
	})

	t.Run("saved marker", func(t *testing.T) {
		r := &mockRequester{}
		r.On("Post", http.MethodPost, "/geo/marker", url.Values(nil), mock.Anything).
			Return(nil, models.GeoMarker{ID: 3, TextID: 5, EntityID: 8}).
			Once()

		marker, err := NewGeoAPI(r).SaveMarker(ctx, models.SaveMarkerRequest{TextID: 5, EntityID: 8})
		require.NoError(t, err)
		assert.Equal(t, int64(3), marker.ID)
	})

	t.Run("errors pass through without a result", func(t *testing.T) {
		boom := errors.New("boom")
		r := &mockRequester{}
		r.On("Get", http.MethodGet, "/dashboard/overview", url.Values{"textId": {"5"}}, nil).
			Return(boom).
			Once()

		insights, err := NewDashboardAPI(r).Overview(ctx, 5)
		assert.ErrorIs(t, err, boom)
		assert.Nil(t, insights)
	})
}

// methodName maps the HTTP verb back to the mocked Go method.
func methodName(method string) string {
	switch method {
	case http.MethodPost:
		return "Post"
	case http.MethodPut:
		return "Put"
	case http.MethodPatch:
		return "Patch"
	case http.MethodDelete:
		return "Delete"
	}
	return "Get"
}
