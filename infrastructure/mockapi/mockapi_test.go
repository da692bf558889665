package mockapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"ianct-client/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type harness struct {
	t   *testing.T
	srv *Server
	ts  *httptest.Server
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	srv := New(Options{Seed: true}, zap.NewNop())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return &harness{t: t, srv: srv, ts: ts}
}

func (h *harness) do(method, path, token string, body, out interface{}) *http.Response {
	h.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(h.t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, h.ts.URL+"/api"+path, reader)
	require.NoError(h.t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(h.t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(h.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func (h *harness) login(username, password string) string {
	h.t.Helper()
	var out models.AuthResponse
	resp := h.do(http.MethodPost, "/auth/login", "", models.LoginRequest{Username: username, Password: password}, &out)
	require.Equal(h.t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(h.t, out.Token)
	return out.Token
}

func (h *harness) firstText(token string) models.Text {
	h.t.Helper()
	var texts []models.Text
	h.do(http.MethodGet, "/texts?category=warfare", token, nil, &texts)
	require.NotEmpty(h.t, texts)
	return texts[0]
}

func TestLogin_IssuesVerifiableToken(t *testing.T) {
	h := newHarness(t)
	token := h.login(AdminUsername, AdminPassword)

	claims, err := h.srv.verifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, AdminUsername, claims.Username)
	assert.Equal(t, RoleAdmin, claims.Role)

	var me models.UserProfile
	resp := h.do(http.MethodGet, "/auth/current", token, nil, &me)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, AdminUsername, me.Username)
	assert.NotNil(t, me.LastLoginTime)
}

func TestLogin_WrongPassword(t *testing.T) {
	h := newHarness(t)
	var body errorBody
	resp := h.do(http.MethodPost, "/auth/login", "", models.LoginRequest{Username: AdminUsername, Password: "nope"}, &body)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "invalid username or password", body.Message)
}

func TestRegister_ValidatesAndRejectsDuplicates(t *testing.T) {
	h := newHarness(t)

	var bad errorBody
	resp := h.do(http.MethodPost, "/auth/register", "", models.RegisterRequest{Username: "x", Email: "not-an-email", Password: "secret1"}, &bad)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, bad.Message, "email")

	var dup errorBody
	resp = h.do(http.MethodPost, "/auth/register", "", models.RegisterRequest{Username: UserUsername, Email: "r@example.com", Password: "secret1"}, &dup)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var ok models.AuthResponse
	resp = h.do(http.MethodPost, "/auth/register", "", models.RegisterRequest{Username: "newbie", Email: "n@example.com", Password: "secret1"}, &ok)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, ok.Token)
}

func TestProtectedRoutes(t *testing.T) {
	h := newHarness(t)

	resp := h.do(http.MethodGet, "/texts", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = h.do(http.MethodGet, "/texts", "garbage", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	userToken := h.login(UserUsername, UserPassword)
	resp = h.do(http.MethodGet, "/users", userToken, nil, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	var users []models.UserSummary
	resp = h.do(http.MethodGet, "/users", h.login(AdminUsername, AdminPassword), nil, &users)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, users, 2)
}

func TestDisabledUserLosesAccess(t *testing.T) {
	h := newHarness(t)
	admin := h.login(AdminUsername, AdminPassword)
	reader := h.login(UserUsername, UserPassword)

	var users []models.UserSummary
	h.do(http.MethodGet, "/users", admin, nil, &users)
	var readerID int64
	for _, u := range users {
		if u.Username == UserUsername {
			readerID = u.ID
		}
	}
	require.NotZero(t, readerID)

	var updated models.UserSummary
	h.do(http.MethodPatch, "/users/"+strconv.FormatInt(readerID, 10)+"/status", admin, models.UserStatusUpdateRequest{Enabled: false}, &updated)
	assert.False(t, updated.Enabled)

	resp := h.do(http.MethodGet, "/user/me", reader, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestDeleteEntity_RemovesTouchingRelations(t *testing.T) {
	h := newHarness(t)
	token := h.login(UserUsername, UserPassword)
	text := h.firstText(token)
	q := "?textId=" + strconv.FormatInt(text.ID, 10)

	var relations []models.Relation
	h.do(http.MethodGet, "/annotations/relations"+q, token, nil, &relations)
	require.Len(t, relations, 1)
	require.NotNil(t, relations[0].Source)
	sourceID := relations[0].SourceID()

	resp := h.do(http.MethodDelete, "/annotations/entities/"+strconv.FormatInt(sourceID, 10), token, nil, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	relations = nil
	h.do(http.MethodGet, "/annotations/relations"+q, token, nil, &relations)
	assert.Empty(t, relations)
}

func TestCreateRelation_RejectsForeignEntities(t *testing.T) {
	h := newHarness(t)
	token := h.login(UserUsername, UserPassword)
	text := h.firstText(token)

	var body errorBody
	resp := h.do(http.MethodPost, "/annotations/relations", token, models.RelationCreateRequest{
		TextID: text.ID, SourceEntityID: 9999, TargetEntityID: 9998, RelationType: models.RelationAlly,
	}, &body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NotEmpty(t, body.Message)
}

func TestFullAnalysis_AppliesCategoryAndAnnotates(t *testing.T) {
	h := newHarness(t)
	token := h.login(UserUsername, UserPassword)
	text := h.firstText(token)

	var full models.FullAnalysis
	resp := h.do(http.MethodPost, "/analysis/"+strconv.FormatInt(text.ID, 10)+"/full?model=qwen-plus", token, nil, &full)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NotNil(t, full.Classification)
	assert.Equal(t, "warfare", full.Classification.SuggestedCategory)
	assert.Contains(t, full.Classification.Reasons, "model: qwen-plus")
	require.NotNil(t, full.Annotation)
	assert.NotEmpty(t, full.Annotation.Entities)
	assert.Len(t, full.Sections, 3)
	require.NotNil(t, full.Insights)
	assert.NotEmpty(t, full.Insights.MapPoints)

	var overview models.AdminOverview
	h.do(http.MethodGet, "/dashboard/admin-overview", h.login(AdminUsername, AdminPassword), nil, &overview)
	assert.Equal(t, int64(1), overview.ModelJobCount)
	require.Len(t, overview.RecentJobs, 1)
	assert.Equal(t, "FULL_ANALYSIS", overview.RecentJobs[0].JobType)
}

func TestInsights_LightSkipsHeavyParts(t *testing.T) {
	h := newHarness(t)
	token := h.login(UserUsername, UserPassword)
	path := "/analysis/" + strconv.FormatInt(h.firstText(token).ID, 10) + "/insights"

	var light, full models.Insights
	h.do(http.MethodGet, path+"?light=true", token, nil, &light)
	h.do(http.MethodGet, path, token, nil, &full)

	require.NotNil(t, light.Stats)
	assert.Equal(t, 3, light.Stats.EntityCount)
	assert.Empty(t, light.Timeline)
	assert.NotEmpty(t, full.Timeline)
	assert.NotEmpty(t, full.RecommendedViews)
}

func TestExport_ServesAttachment(t *testing.T) {
	h := newHarness(t)
	token := h.login(UserUsername, UserPassword)
	text := h.firstText(token)

	var doc models.ExportDocument
	resp := h.do(http.MethodGet, "/texts/"+strconv.FormatInt(text.ID, 10)+"/export", token, nil, &doc)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "text-"+strconv.FormatInt(text.ID, 10)+".json")
	assert.Equal(t, text.ID, doc.Text.ID)
	assert.Len(t, doc.Entities, 3)
}

func TestProjects_MembershipRules(t *testing.T) {
	h := newHarness(t)
	reader := h.login(UserUsername, UserPassword)
	admin := h.login(AdminUsername, AdminPassword)

	var mine []models.Project
	h.do(http.MethodGet, "/projects/mine", reader, nil, &mine)
	require.Len(t, mine, 1)
	path := "/projects/" + strconv.FormatInt(mine[0].ID, 10)

	resp := h.do(http.MethodGet, path, admin, nil, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	var updated models.Project
	resp = h.do(http.MethodPost, path+"/members", reader, models.ProjectMemberRequest{Username: AdminUsername}, &updated)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, updated.Members, 2)

	resp = h.do(http.MethodPost, path+"/members", reader, models.ProjectMemberRequest{Username: AdminUsername}, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = h.do(http.MethodGet, path, admin, nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = h.do(http.MethodDelete, path+"/members", reader, models.ProjectMemberRequest{Username: UserUsername}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = h.do(http.MethodDelete, path, admin, nil, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestNavigationTree_GroupsByCategory(t *testing.T) {
	h := newHarness(t)
	token := h.login(UserUsername, UserPassword)

	var tree []models.NavigationNode
	h.do(http.MethodGet, "/navigation/tree", token, nil, &tree)
	require.Len(t, tree, 2)
	assert.Equal(t, "category:travelogue", tree[0].ID)
	assert.Equal(t, "category:warfare", tree[1].ID)
	require.Len(t, tree[1].Children, 1)
	assert.NotNil(t, tree[1].Children[0].TextID)
}

func TestSearch(t *testing.T) {
	h := newHarness(t)
	token := h.login(UserUsername, UserPassword)

	var hits []models.SearchResult
	h.do(http.MethodGet, "/texts/search?keyword=垓下", token, nil, &hits)
	require.Len(t, hits, 1)
	assert.Contains(t, hits[0].Snippet, "垓下")

	resp := h.do(http.MethodGet, "/texts/search", token, nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGeo_LocateAndMarkers(t *testing.T) {
	h := newHarness(t)
	token := h.login(UserUsername, UserPassword)
	text := h.firstText(token)

	var points []models.GeoPoint
	h.do(http.MethodPost, "/geo/locate", token, models.GeoLocateRequest{
		TextID:   text.ID,
		Entities: []models.GeoLocateEntity{{ID: 1, Label: "垓下"}, {ID: 2, Label: "nowhere"}},
	}, &points)
	require.Len(t, points, 2)
	assert.NotNil(t, points[0].Latitude)
	assert.Nil(t, points[1].Latitude)
	assert.NotEmpty(t, points[1].Note)

	marker := models.SaveMarkerRequest{TextID: text.ID, EntityID: 1, Latitude: 1, Longitude: 2}
	h.do(http.MethodPost, "/geo/marker", token, marker, nil)
	marker.Latitude = 3
	h.do(http.MethodPost, "/geo/marker", token, marker, nil)

	var markers []models.GeoMarker
	base := "/geo/markers/" + strconv.FormatInt(text.ID, 10)
	h.do(http.MethodGet, base, token, nil, &markers)
	require.Len(t, markers, 1)
	assert.Equal(t, 3.0, markers[0].Latitude)

	resp := h.do(http.MethodDelete, "/geo/marker/"+strconv.FormatInt(text.ID, 10)+"/1", token, nil, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestFailAndHits(t *testing.T) {
	h := newHarness(t)
	token := h.login(UserUsername, UserPassword)
	text := h.firstText(token)
	path := "/analysis/" + strconv.FormatInt(text.ID, 10) + "/insights"

	h.srv.Fail(http.MethodGet, "/analysis/{textId}/insights", http.StatusInternalServerError)
	var body errorBody
	resp := h.do(http.MethodGet, path, token, nil, &body)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, body.Message, "injected failure")

	h.srv.Clear(http.MethodGet, "/analysis/{textId}/insights")
	resp = h.do(http.MethodGet, path, token, nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, 2, h.srv.Hits(http.MethodGet, "/analysis/{textId}/insights"))
	assert.Equal(t, 1, h.srv.Hits(http.MethodPost, "/auth/login"))

	h.srv.ResetHits()
	assert.Zero(t, h.srv.TotalHits())
}
