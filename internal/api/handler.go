package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"impactsim/internal/config"
	"impactsim/internal/geo"
	"impactsim/internal/impact"
	"impactsim/internal/population"
	"impactsim/internal/report"
	"impactsim/internal/repository"
	"impactsim/internal/sim"
)

type Handler struct {
	repo      repository.RunRepository
	densities population.Table
}

func NewHandler(repo repository.RunRepository) *Handler {
	return &Handler{
		repo:      repo,
		densities: population.SampleTable(),
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/api/simulate", h.simulate)
	r.GET("/api/runs", h.getRuns)
	r.GET("/api/runs/:id", h.getRun)
	r.GET("/api/runs/:id/geojson", h.getRunGeoJSON)
	r.GET("/health", h.health)
}

// simulateRequest is the POST /api/simulate body: an asteroid, an optional
// mitigation, and an optional population context.
type simulateRequest struct {
	Asteroid   config.Asteroid   `json:"asteroid"`
	Mitigation config.Mitigation `json:"mitigation"`

	PopulationRegion        string  `json:"population_region,omitempty"`
	PopulationDensityPerKm2 float64 `json:"population_density_per_km2,omitempty"`

	Scenario string `json:"scenario,omitempty"`
	Persist  *bool  `json:"persist,omitempty"`
}

type simulateResponse struct {
	RunID  string      `json:"run_id"`
	Before report.Row  `json:"before"`
	After  *report.Row `json:"after,omitempty"`
}

func (h *Handler) simulate(c *gin.Context) {
	var req simulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	before, err := impact.Compute(sim.ToInput(req.Asteroid))
	if err != nil {
		h.renderModelError(c, err)
		return
	}
	after, strategy, err := sim.ApplyMitigation(before, req.Mitigation)
	if err != nil {
		h.renderModelError(c, err)
		return
	}

	density := req.PopulationDensityPerKm2
	if density <= 0 && req.PopulationRegion != "" {
		density = h.densities.Lookup(req.PopulationRegion)
	}

	scenario := req.Scenario
	if scenario == "" {
		scenario = "adhoc"
	}
	runID := uuid.New().String()
	now := time.Now().UTC()

	resp := simulateResponse{
		RunID:  runID,
		Before: report.FromResult(runID, scenario, report.LabelBefore, strategy, before, density, now),
	}
	if after != nil {
		row := report.FromResult(runID, scenario, report.LabelAfter, strategy, *after, density, now)
		resp.After = &row
	}

	if req.Persist == nil || *req.Persist {
		if err := h.persist(c, resp); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to persist run"})
			return
		}
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) renderModelError(c *gin.Context, err error) {
	var cv *impact.ContractViolationError
	if errors.As(err, &cv) {
		c.JSON(http.StatusBadRequest, gin.H{"error": cv.Error()})
		return
	}
	c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
}

func (h *Handler) persist(c *gin.Context, resp simulateResponse) error {
	rows := []report.Row{resp.Before}
	if resp.After != nil {
		rows = append(rows, *resp.After)
	}
	for _, row := range rows {
		doc, err := json.Marshal(row)
		if err != nil {
			return err
		}
		run := &repository.Run{
			ID:              resp.RunID + "/" + row.Label,
			Scenario:        row.Scenario,
			Label:           row.Label,
			Strategy:        row.Strategy,
			DiameterM:       row.DiameterM,
			VelocityMS:      row.VelocityMS,
			EnergyMegatons:  row.EnergyMegatons,
			CraterDiameterM: row.CraterDiameterM,
			Lat:             row.Lat,
			Lon:             row.Lon,
			Document:        doc,
			CreatedAt:       row.Timestamp,
		}
		if err := h.repo.Add(c.Request.Context(), run); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) getRuns(c *gin.Context) {
	filter := repository.Filter{
		Limit: 20,
	}

	if s := c.Query("strategy"); s != "" {
		filter.Strategy = &s
	}
	if l := c.Query("label"); l != "" {
		filter.Label = &l
	}
	if sc := c.Query("scenario"); sc != "" {
		filter.Scenario = &sc
	}
	if m := c.Query("min_megatons"); m != "" {
		if mt, err := strconv.ParseFloat(m, 64); err == nil {
			filter.MinMegatons = &mt
		}
	}
	if s := c.Query("since"); s != "" {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			filter.Since = &t
		}
	}
	if l := c.Query("limit"); l != "" {
		if lim, err := strconv.Atoi(l); err == nil && lim > 0 && lim <= 500 {
			filter.Limit = lim
		}
	}

	runs, err := h.repo.ListRuns(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch runs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs, "count": len(runs)})
}

func (h *Handler) getRun(c *gin.Context) {
	run, err := h.repo.GetByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch run"})
		return
	}
	c.JSON(http.StatusOK, run)
}

func (h *Handler) getRunGeoJSON(c *gin.Context) {
	run, err := h.repo.GetByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch run"})
		return
	}

	var row report.Row
	if err := json.Unmarshal(run.Document, &row); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "stored run document is unreadable"})
		return
	}

	res, err := impact.Compute(impact.Input{
		DiameterM:      row.DiameterM,
		VelocityMS:     row.VelocityMS,
		DensityKgM3:    row.DensityKgM3,
		ImpactAngleDeg: row.ImpactAngleDeg,
		Lat:            row.Lat,
		Lon:            row.Lon,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "stored run parameters are invalid"})
		return
	}

	c.Header("Content-Type", "application/geo+json")
	c.JSON(http.StatusOK, geo.FromResult(res))
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
