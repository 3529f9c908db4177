package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rolling-stock-scheduling/rssched-solver/internal/api"
	"github.com/rolling-stock-scheduling/rssched-solver/internal/localsearch"
)

func newTestRouter() http.Handler {
	opts := localsearch.DefaultOptions()
	opts.Policy = localsearch.TakeFirst
	h := api.NewHandler(opts, 1, zap.NewNop())

	return api.NewRouter(h)
}

func TestHealth_ReturnsPlainTextOK(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Healthy", rec.Body.String())
}

func TestSolve_EmptyBody_InvalidInstance(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/solve", strings.NewReader(""))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Error struct {
			Kind    string `json:"kind"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "InvalidInstance", body.Error.Kind)
}

func TestSolve_MalformedJSON_InvalidInstance(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/solve", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSolve_SingleTrip_RoundTrip(t *testing.T) {
	router := newTestRouter()

	payload := `{
		"vehicleTypes": [{"name":"EMU","seatedCapacity":50,"standingCapacity":0,"maxFormationLength":1}],
		"locations": [{"name":"A"},{"name":"B"}],
		"routes": [{"segments":[{"origin":0,"destination":1}]}],
		"departures": [{"routeId":0,"segmentDepartures":[0],"segmentArrivals":[100],"passengers":[10],"seated":[10]}],
		"deadHeadTrips": {"durationsSeconds":[[0,0],[0,0]],"distancesMeters":[[0,10],[10,0]]},
		"parameters": {"staffPerSecond":1,"serviceTripPerSecond":1,"deadHeadTripPerSecond":1,"idlePerSecond":1}
	}`

	req := httptest.NewRequest(http.MethodPost, "/solve", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.SolveResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, int64(0), resp.ObjectiveValue.UnservedPassengers)
	require.Equal(t, int64(1), resp.ObjectiveValue.VehicleCount)
	require.Len(t, resp.Schedule.Fleet, 1)
	require.Len(t, resp.Schedule.Fleet[0].Vehicles, 1)
}
