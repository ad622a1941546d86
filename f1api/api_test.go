package f1api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"f1dashboard/models"
	"f1dashboard/session"
	"f1dashboard/temperrors"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAPI(t *testing.T, h http.HandlerFunc, opts ...Option) *F1API {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return NewF1API(ts.URL+"/api/v1/", opts...)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func TestEndpointPaths(t *testing.T) {
	var paths []string
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		paths = append(paths, r.URL.Path)
		switch r.URL.Path {
		case "/api/v1/drivers", "/api/v1/teams", "/api/v1/races", "/api/v1/circuits",
			"/api/v1/races/3/results", "/api/v1/circuits/4/history":
			w.Write([]byte(`[]`))
		default:
			w.Write([]byte(`{}`))
		}
	})
	ctx := context.Background()

	_, err := api.GetDrivers(ctx)
	require.NoError(t, err)
	_, err = api.GetDriver(ctx, 1)
	require.NoError(t, err)
	_, err = api.GetDriverStats(ctx, 1)
	require.NoError(t, err)
	_, err = api.GetTeams(ctx)
	require.NoError(t, err)
	_, err = api.GetTeam(ctx, 2)
	require.NoError(t, err)
	_, err = api.GetTeamStats(ctx, 2)
	require.NoError(t, err)
	_, err = api.GetRaces(ctx)
	require.NoError(t, err)
	_, err = api.GetRace(ctx, 3)
	require.NoError(t, err)
	_, err = api.GetRaceResults(ctx, 3)
	require.NoError(t, err)
	_, err = api.GetCircuits(ctx)
	require.NoError(t, err)
	_, err = api.GetCircuit(ctx, 4)
	require.NoError(t, err)
	_, err = api.GetCircuitHistory(ctx, 4)
	require.NoError(t, err)

	want := []string{
		"/api/v1/drivers", "/api/v1/drivers/1", "/api/v1/drivers/1/stats",
		"/api/v1/teams", "/api/v1/teams/2", "/api/v1/teams/2/stats",
		"/api/v1/races", "/api/v1/races/3", "/api/v1/races/3/results",
		"/api/v1/circuits", "/api/v1/circuits/4", "/api/v1/circuits/4/history",
	}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("paths mismatch (-want +got):\n%s", diff)
	}
}

func TestGetDriversDecodes(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":1,"name":"A","nationality":"GB","number":44,"careerWins":103,
			"team":{"id":7,"name":"Ferrari"}}]`))
	})

	drivers, err := api.GetDrivers(context.Background())
	require.NoError(t, err)

	want := []models.Driver{{ID: 1, Name: "A", Nationality: "GB", Number: 44, CareerWins: 103,
		Team: models.Team{ID: 7, Name: "Ferrari"}}}
	if diff := cmp.Diff(want, drivers); diff != "" {
		t.Errorf("drivers mismatch (-want +got):\n%s", diff)
	}
}

func TestBearerTokenAttached(t *testing.T) {
	var auth, reqID string
	tokens := session.NewMemoryStore("secret")
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		reqID = r.Header.Get(RequestIDHeader)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		writeJSON(w, []models.Team{})
	}, WithTokenStore(tokens))

	_, err := api.GetTeams(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Bearer secret", auth)
	_, err = uuid.Parse(reqID)
	assert.NoError(t, err, "request id is a uuid")
}

func TestNoTokenNoHeader(t *testing.T) {
	var hasAuth bool
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		_, hasAuth = r.Header["Authorization"]
		writeJSON(w, []models.Team{})
	}, WithTokenStore(session.NewMemoryStore("")))

	_, err := api.GetTeams(context.Background())
	require.NoError(t, err)
	assert.False(t, hasAuth)
}

func TestUnauthorizedClearsTokenAndRedirects(t *testing.T) {
	tokens := session.NewMemoryStore("expired")
	router := session.NewRouter()
	router.Navigate(session.RouteRaces)

	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}, WithTokenStore(tokens), WithNavigator(router))

	_, err := api.GetRaces(context.Background())
	require.Error(t, err)

	assert.True(t, errors.Is(err, temperrors.ErrUnauthorized))
	assert.Equal(t, 401, temperrors.StatusCode(err))

	token, _ := tokens.Token()
	assert.Empty(t, token)
	assert.Equal(t, session.RouteLogin, router.Current())
}

func TestServerErrorPassesThrough(t *testing.T) {
	tokens := session.NewMemoryStore("keep")
	router := session.NewRouter()
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}, WithTokenStore(tokens), WithNavigator(router))

	_, err := api.GetTeams(context.Background())
	require.Error(t, err)

	assert.Equal(t, 500, temperrors.StatusCode(err))
	assert.Contains(t, err.Error(), "request failed with status code 500")
	assert.False(t, errors.Is(err, temperrors.ErrUnauthorized))

	token, _ := tokens.Token()
	assert.Equal(t, "keep", token)
	assert.Equal(t, session.RouteDashboard, router.Current())
}

func TestNoRetry(t *testing.T) {
	var calls atomic.Int32
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := api.GetCircuits(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestTransportFailure(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	_, err := NewF1API(url).GetDrivers(context.Background())
	require.Error(t, err)
	assert.Equal(t, 0, temperrors.StatusCode(err))
}

func TestContextCancelled(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []models.Race{})
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := api.GetRaces(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMalformedBody(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":`))
	})

	_, err := api.GetDriver(context.Background(), 5)
	assert.ErrorContains(t, err, "in driver 5")
}
