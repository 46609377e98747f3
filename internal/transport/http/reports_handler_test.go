package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carsales/internal/config"
	"carsales/pkg/contracts/domain"
)

type fakePipeline struct {
	reports    *domain.ReportSet
	derived    []domain.DerivedRecord
	clean      []domain.CleanRecord
	refreshErr error
	refreshed  int
}

func (f *fakePipeline) Ready() bool                    { return f.reports != nil }
func (f *fakePipeline) Reports() *domain.ReportSet     { return f.reports }
func (f *fakePipeline) Derived() []domain.DerivedRecord { return f.derived }
func (f *fakePipeline) Clean() []domain.CleanRecord    { return f.clean }

func (f *fakePipeline) Refresh(ctx context.Context) error {
	f.refreshed++
	return f.refreshErr
}

func testServer(t *testing.T, svc PipelineReader) *httptest.Server {
	t.Helper()
	router := NewRouter(config.ServerConfig{RateLimitRPS: 0}, svc, nil, nil)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func readySet() *domain.ReportSet {
	return &domain.ReportSet{
		RevenueByRegion: []domain.RegionRevenue{
			{DealerRegion: "West", Deals: 2, TotalRevenue: 3000, AvgPrice: 1500},
		},
		NullSummary: domain.NullSummary{AdmittedRows: 2, RejectedRows: 1},
	}
}

func TestListReports(t *testing.T) {
	server := testServer(t, &fakePipeline{reports: readySet()})

	resp, err := http.Get(server.URL + "/api/reports")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Reports []string `json:"reports"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body.Reports, "revenue_by_region")
	assert.Contains(t, body.Reports, "null_summary")
	assert.Len(t, body.Reports, 7)
}

func TestGetReportByName(t *testing.T) {
	server := testServer(t, &fakePipeline{reports: readySet()})

	resp, err := http.Get(server.URL + "/api/reports/revenue_by_region")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Name string                 `json:"name"`
		Rows []domain.RegionRevenue `json:"rows"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "revenue_by_region", body.Name)
	require.Len(t, body.Rows, 1)
	assert.Equal(t, "West", body.Rows[0].DealerRegion)
}

func TestGetReportUnknownName(t *testing.T) {
	server := testServer(t, &fakePipeline{reports: readySet()})

	resp, err := http.Get(server.URL + "/api/reports/bogus")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestReportsBeforeFirstRun(t *testing.T) {
	server := testServer(t, &fakePipeline{})

	for _, path := range []string{"/api/reports", "/api/reports/deal_size", "/api/sales", "/api/sales/clean"} {
		resp, err := http.Get(server.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode, path)
	}
}

func TestGetDerived(t *testing.T) {
	svc := &fakePipeline{
		reports: readySet(),
		derived: []domain.DerivedRecord{{ID: "C1", Price: 26000, PriceSegment: domain.SegmentMedium}},
	}
	server := testServer(t, svc)

	resp, err := http.Get(server.URL + "/api/sales")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rows []domain.DerivedRecord
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "C1", rows[0].ID)
	assert.Equal(t, domain.SegmentMedium, rows[0].PriceSegment)
}

func TestRefreshPipeline(t *testing.T) {
	svc := &fakePipeline{reports: readySet()}
	server := testServer(t, svc)

	resp, err := http.Post(server.URL+"/api/pipeline/refresh", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Equal(t, 1, svc.refreshed)
}

func TestRefreshPipelineFailure(t *testing.T) {
	svc := &fakePipeline{reports: readySet(), refreshErr: errors.New("boom")}
	server := testServer(t, svc)

	resp, err := http.Post(server.URL+"/api/pipeline/refresh", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestHealthz(t *testing.T) {
	server := testServer(t, &fakePipeline{})

	resp, err := http.Get(server.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
