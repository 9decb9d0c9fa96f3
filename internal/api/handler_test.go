package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"impactsim/internal/geo"
	"impactsim/internal/repository"
)

// mockRepo implements repository.RunRepository for testing
type mockRepo struct {
	runs    []repository.Run
	addErr  error
	listErr error
}

func (m *mockRepo) Add(ctx context.Context, r *repository.Run) error {
	if m.addErr != nil {
		return m.addErr
	}
	m.runs = append(m.runs, *r)
	return nil
}

func (m *mockRepo) GetByID(ctx context.Context, id string) (*repository.Run, error) {
	for _, r := range m.runs {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockRepo) Exists(ctx context.Context, id string) (bool, error) {
	for _, r := range m.runs {
		if r.ID == id {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRepo) ListRuns(ctx context.Context, opts repository.Filter) ([]repository.Run, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	results := m.runs
	if opts.Strategy != nil {
		var filtered []repository.Run
		for _, r := range results {
			if r.Strategy == *opts.Strategy {
				filtered = append(filtered, r)
			}
		}
		results = filtered
	}
	if opts.Limit > 0 && len(results) > opts.Limit {
		results = results[:opts.Limit]
	}
	return results, nil
}

func setupTestRouter(repo repository.RunRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(repo).RegisterRoutes(router)
	return router
}

func simulateBody() []byte {
	return []byte(`{
		"scenario": "city-killer",
		"asteroid": {
			"diameter_m": 50,
			"velocity_m_s": 20000,
			"density_kg_m3": 3000,
			"impact_angle_deg": 45,
			"lat": 28.6,
			"lon": 77.2
		},
		"mitigation": {
			"strategy": "kinetic_impactor",
			"velocity_reduction_pct": 20
		},
		"population_region": "India"
	}`)
}

func TestSimulateEndpoint(t *testing.T) {
	repo := &mockRepo{}
	router := setupTestRouter(repo)

	req := httptest.NewRequest(http.MethodPost, "/api/simulate", bytes.NewReader(simulateBody()))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp simulateResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.RunID == "" {
		t.Error("expected a run id")
	}
	if resp.After == nil {
		t.Fatal("expected an after row for a mitigated request")
	}
	if resp.After.EnergyJoules >= resp.Before.EnergyJoules {
		t.Errorf("mitigated energy %g not below baseline %g", resp.After.EnergyJoules, resp.Before.EnergyJoules)
	}
	if resp.Before.Strategy != "kinetic_impactor" {
		t.Errorf("strategy = %q", resp.Before.Strategy)
	}
	if len(repo.runs) != 2 {
		t.Errorf("expected 2 persisted runs, got %d", len(repo.runs))
	}
}

func TestSimulateEndpointNoPersist(t *testing.T) {
	repo := &mockRepo{}
	router := setupTestRouter(repo)

	body := []byte(`{
		"asteroid": {"diameter_m": 50, "velocity_m_s": 20000, "density_kg_m3": 3000, "impact_angle_deg": 45},
		"persist": false
	}`)
	req := httptest.NewRequest(http.MethodPost, "/api/simulate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if len(repo.runs) != 0 {
		t.Errorf("expected no persisted runs, got %d", len(repo.runs))
	}
}

func TestSimulateEndpointRejectsBadParameters(t *testing.T) {
	router := setupTestRouter(&mockRepo{})

	body := []byte(`{"asteroid": {"diameter_m": -5, "velocity_m_s": 20000, "density_kg_m3": 3000, "impact_angle_deg": 45}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/simulate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSimulateEndpointRejectsBadMitigation(t *testing.T) {
	router := setupTestRouter(&mockRepo{})

	body := []byte(`{
		"asteroid": {"diameter_m": 50, "velocity_m_s": 20000, "density_kg_m3": 3000, "impact_angle_deg": 45},
		"mitigation": {"strategy": "kinetic_impactor", "velocity_reduction_pct": 150}
	}`)
	req := httptest.NewRequest(http.MethodPost, "/api/simulate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestGetRunsFiltering(t *testing.T) {
	repo := &mockRepo{}
	router := setupTestRouter(repo)

	// two runs via simulate
	req := httptest.NewRequest(http.MethodPost, "/api/simulate", bytes.NewReader(simulateBody()))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(httptest.NewRecorder(), req)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/runs?strategy=kinetic_impactor", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var listResp struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &listResp); err != nil {
		t.Fatalf("unmarshal list: %v", err)
	}
	if listResp.Count != 2 {
		t.Errorf("expected 2 runs, got %d", listResp.Count)
	}
}

func TestGetRunNotFound(t *testing.T) {
	router := setupTestRouter(&mockRepo{})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/runs/absent", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestGetRunGeoJSON(t *testing.T) {
	repo := &mockRepo{}
	router := setupTestRouter(repo)

	req := httptest.NewRequest(http.MethodPost, "/api/simulate", bytes.NewReader(simulateBody()))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(httptest.NewRecorder(), req)
	if len(repo.runs) == 0 {
		t.Fatal("no runs persisted")
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/runs/"+repo.runs[0].ID+"/geojson", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var fc geo.FeatureCollection
	if err := json.Unmarshal(w.Body.Bytes(), &fc); err != nil {
		t.Fatalf("unmarshal geojson: %v", err)
	}
	if len(fc.Features) != 5 {
		t.Errorf("expected 5 features, got %d", len(fc.Features))
	}
}

func TestHealthEndpoint(t *testing.T) {
	router := setupTestRouter(&mockRepo{})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RateLimitMiddleware(1))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if first.Code != http.StatusOK {
		t.Fatalf("first request: expected 200, got %d", first.Code)
	}

	var limited bool
	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		if w.Code == http.StatusTooManyRequests {
			limited = true
			break
		}
	}
	if !limited {
		t.Error("expected rate limiter to reject a burst")
	}
}
