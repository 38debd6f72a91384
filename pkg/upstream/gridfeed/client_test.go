package gridfeed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gridscope-api/pkg/grid"
)

func newMockFeedServer(t *testing.T) (*httptest.Server, *int64) {
	t.Helper()
	var hits int64
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/assets", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		require.Equal(t, "PJM", r.URL.Query().Get("region"))
		writeJSON(t, w, []AssetRecord{
			{AssetID: "G200", AssetName: "Brighton CC", FuelType: "natural_gas", CapacityMW: 620, Latitude: 40.1, Longitude: -76.3, ISORegion: "PJM"},
			{AssetID: "G100", AssetName: "Avon Nuclear", FuelType: "nuclear", CapacityMW: 1150, Latitude: 39.9, Longitude: -75.8, ISORegion: "PJM", Owner: "Avon Power"},
			{AssetID: "", AssetName: "broken row"},
		})
	})
	mux.HandleFunc("/v1/outages", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		reduction := 310.0
		writeJSON(t, w, []OutageRecord{
			{
				OutageID:   "O-77",
				AssetID:    "G200",
				OutageType: "forced",
				StartTime:  "2024-03-01T06:00:00Z",
				Status:     "active",
				CauseCode:  "EQ-FAIL",
			},
			{
				OutageID:            "O-78",
				AssetID:             "G100",
				OutageType:          "planned",
				StartTime:           "2024-02-01T00:00:00Z",
				EndTime:             "2024-02-10T00:00:00Z",
				Status:              "completed",
				CapacityReductionMW: &reduction,
			},
		})
	})
	mux.HandleFunc("/v1/pricing-nodes", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		lat, lon := 39.95, -75.17
		writeJSON(t, w, []NodeRecord{
			{NodeID: "PJM.HUB.WEST", NodeName: "Western Hub", NodeType: "hub", ISORegion: "PJM"},
			{NodeID: "PJM.PHL", NodeName: "Philadelphia", NodeType: "load", ISORegion: "PJM", Latitude: &lat, Longitude: &lon},
		})
	})
	mux.HandleFunc("/v1/lmp", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		require.Equal(t, "DAM", r.URL.Query().Get("market"))
		congestion := -4.25
		writeJSON(t, w, []PriceRecord{
			{NodeID: "PJM.PHL", Timestamp: "2024-03-01T09:00:00Z", MarketType: "DAM", LMPTotal: 41.7, LMPCongestion: &congestion, ISORegion: "PJM"},
		})
	})
	server := httptest.NewServer(mux)
	return server, &hits
}

func writeJSON(t *testing.T, w http.ResponseWriter, payload any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(payload))
}

func TestProviderPullAssets(t *testing.T) {
	server, hits := newMockFeedServer(t)
	defer server.Close()
	provider := NewProvider(WithClientOptions(WithBaseURL(server.URL)))

	ctx := context.Background()
	assets, err := provider.PullAssets(ctx, "PJM")
	require.NoError(t, err)
	require.Len(t, assets, 2, "row without asset_id is dropped")
	require.Equal(t, "G100", assets[0].AssetID, "sorted by business key")
	require.Equal(t, grid.FuelNuclear, assets[0].Fuel)
	require.Equal(t, "Avon Power", assets[0].Owner)

	again, err := provider.PullAssets(ctx, "PJM")
	require.NoError(t, err)
	require.Equal(t, assets, again)
	require.EqualValues(t, 1, atomic.LoadInt64(hits), "second pull served from cache")
}

func TestProviderPullOutages(t *testing.T) {
	server, _ := newMockFeedServer(t)
	defer server.Close()
	provider := NewProvider(WithClientOptions(WithBaseURL(server.URL)))

	outages, err := provider.PullOutages(context.Background(), "PJM")
	require.NoError(t, err)
	require.Len(t, outages, 2)

	require.Equal(t, "O-77", outages[0].OutageID)
	require.Nil(t, outages[0].End, "empty end_time maps to an ongoing interval")
	require.Equal(t, grid.OutageForced, outages[0].Category)
	require.Equal(t, time.Date(2024, 3, 1, 6, 0, 0, 0, time.UTC), outages[0].Start)

	require.NotNil(t, outages[1].End)
	require.NotNil(t, outages[1].CapacityReductionMW)
	require.InDelta(t, 310.0, *outages[1].CapacityReductionMW, 1e-9)
}

func TestProviderPullOutagesBadTimestamp(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/outages", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, []OutageRecord{
			{OutageID: "O-1", AssetID: "G1", OutageType: "forced", StartTime: "03/01/2024 06:00", Status: "active"},
		})
	})
	server := httptest.NewServer(mux)
	defer server.Close()
	provider := NewProvider(WithClientOptions(WithBaseURL(server.URL)))

	_, err := provider.PullOutages(context.Background(), "PJM")
	require.Error(t, err)
	require.Contains(t, err.Error(), "O-1")
}

func TestProviderPullNodesAndPrices(t *testing.T) {
	server, _ := newMockFeedServer(t)
	defer server.Close()
	provider := NewProvider(WithClientOptions(WithBaseURL(server.URL)))

	ctx := context.Background()
	nodes, err := provider.PullNodes(ctx, "PJM")
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	require.False(t, nodes[0].Located(), "hub without coordinates")
	require.True(t, nodes[1].Located())

	samples, err := provider.PullPrices(ctx, "PJM", grid.MarketDAM)
	require.NoError(t, err)
	require.Len(t, samples, 1)
	require.InDelta(t, 41.7, samples[0].Total, 1e-9)
	require.NotNil(t, samples[0].Congestion)
	require.Nil(t, samples[0].Energy)
}

func TestClientRetriesServerErrors(t *testing.T) {
	var calls int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt64(&calls, 1) == 1 {
			http.Error(w, "upstream hiccup", http.StatusBadGateway)
			return
		}
		writeJSON(t, w, []AssetRecord{{AssetID: "G1", AssetName: "A", FuelType: "wind", ISORegion: "ERCOT"}})
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL), WithMaxRetries(2))
	records, err := client.GetAssets(context.Background(), "ERCOT")
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.EqualValues(t, 2, atomic.LoadInt64(&calls))
}

func TestClientRetryBudgetExhausted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "still broken", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL), WithMaxRetries(1))
	_, err := client.GetAssets(context.Background(), "ERCOT")
	require.Error(t, err)
	require.Contains(t, err.Error(), "http status 500")
}

func TestClientSendsAPIKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "secret-key", r.Header.Get("X-API-Key"))
		writeJSON(t, w, []AssetRecord{})
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL), WithAPIKey("secret-key"))
	_, err := client.GetAssets(context.Background(), "MISO")
	require.NoError(t, err)
}

func TestClientRateLimitConfigured(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, []AssetRecord{})
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL), WithRateLimit(100, 1))
	for i := 0; i < 3; i++ {
		_, err := client.GetAssets(context.Background(), "MISO")
		require.NoError(t, err)
	}
}
