package sim

import (
	"context"
	"net"
	"strconv"

	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"
	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"

	"impactsim/internal/report"
)

// greptimeClient abstracts the ingester client for testing.
type greptimeClient interface {
	Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error)
}

// GreptimeWriter writes result rows to GreptimeDB via the ingester client.
type GreptimeWriter struct {
	client greptimeClient
	table  string
}

// NewGreptimeWriter creates a GreptimeDB writer. endpoint is host or
// host:port (default port 4001).
func NewGreptimeWriter(endpoint, database, tableName string) (*GreptimeWriter, error) {
	host, port := endpoint, 4001
	if h, p, err := net.SplitHostPort(endpoint); err == nil {
		if n, err := strconv.Atoi(p); err == nil {
			host, port = h, n
		}
	}
	if tableName == "" {
		tableName = report.ResultTableName
	}

	cfg := greptime.NewConfig(host).WithPort(port).WithDatabase(database)
	client, err := greptime.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return &GreptimeWriter{client: client, table: tableName}, nil
}

// Write inserts a single result row.
func (w *GreptimeWriter) Write(row report.Row) error {
	return w.WriteBatch([]report.Row{row})
}

// WriteBatch inserts multiple result rows.
func (w *GreptimeWriter) WriteBatch(rows []report.Row) error {
	if len(rows) == 0 {
		return nil
	}

	tbl, err := table.New(w.table)
	if err != nil {
		return err
	}
	tbl.AddTagColumn("run_id", types.STRING)
	tbl.AddTagColumn("scenario", types.STRING)
	tbl.AddFieldColumn("label", types.STRING)
	tbl.AddFieldColumn("strategy", types.STRING)
	tbl.AddFieldColumn("diameter_m", types.FLOAT)
	tbl.AddFieldColumn("velocity_m_s", types.FLOAT)
	tbl.AddFieldColumn("density_kg_m3", types.FLOAT)
	tbl.AddFieldColumn("impact_angle_deg", types.FLOAT)
	tbl.AddFieldColumn("lat", types.FLOAT)
	tbl.AddFieldColumn("lon", types.FLOAT)
	tbl.AddFieldColumn("mass_kg", types.FLOAT)
	tbl.AddFieldColumn("energy_joules", types.FLOAT)
	tbl.AddFieldColumn("energy_megatons", types.FLOAT)
	tbl.AddFieldColumn("crater_diameter_m", types.FLOAT)
	tbl.AddFieldColumn("lethal_radius_m", types.FLOAT)
	tbl.AddFieldColumn("lethal_area_km2", types.FLOAT)
	tbl.AddFieldColumn("severe_radius_m", types.FLOAT)
	tbl.AddFieldColumn("severe_area_km2", types.FLOAT)
	tbl.AddFieldColumn("moderate_radius_m", types.FLOAT)
	tbl.AddFieldColumn("moderate_area_km2", types.FLOAT)
	tbl.AddFieldColumn("population_density_per_km2", types.FLOAT)
	tbl.AddFieldColumn("population_lethal", types.FLOAT)
	tbl.AddFieldColumn("population_severe", types.FLOAT)
	tbl.AddFieldColumn("population_moderate", types.FLOAT)
	tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND)

	for _, r := range rows {
		lat, lon := 0.0, 0.0
		if r.Lat != nil {
			lat = *r.Lat
		}
		if r.Lon != nil {
			lon = *r.Lon
		}
		if err := tbl.AddRow(
			r.RunID, r.Scenario, r.Label, r.Strategy,
			r.DiameterM, r.VelocityMS, r.DensityKgM3, r.ImpactAngleDeg, lat, lon,
			r.MassKg, r.EnergyJoules, r.EnergyMegatons, r.CraterDiameterM,
			r.LethalRadiusM, r.LethalAreaKm2,
			r.SevereRadiusM, r.SevereAreaKm2,
			r.ModerateRadiusM, r.ModerateAreaKm2,
			r.DensityPerKm2, r.PopulationLethal, r.PopulationSevere, r.PopulationModerate,
			r.Timestamp,
		); err != nil {
			return err
		}
	}

	_, err = w.client.Write(context.Background(), tbl)
	return err
}
