package sim

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"

	"forestwatch-sim/internal/telemetry"
)

const (
	defaultGreptimePort = 4001
	greptimeTimeout     = 5 * time.Second
)

// greptimeClient is the subset of the ingester client the writer uses.
type greptimeClient interface {
	Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error)
}

// GreptimeDBWriter writes node rows to GreptimeDB via the ingester client.
type GreptimeDBWriter struct {
	client greptimeClient
	table  string
}

// NewGreptimeDBWriter connects to endpoint ("host" or "host:port"). An empty
// tableName uses telemetry.NodeTableName. GreptimeDB creates the table on first write.
func NewGreptimeDBWriter(endpoint, database, tableName string) (*GreptimeDBWriter, error) {
	host, port, err := splitEndpoint(endpoint)
	if err != nil {
		return nil, err
	}
	if database == "" {
		database = "public"
	}
	cfg := greptime.NewConfig(host).WithPort(port).WithDatabase(database)
	client, err := greptime.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("greptime client: %w", err)
	}
	if tableName == "" {
		tableName = telemetry.NodeTableName
	}
	return &GreptimeDBWriter{client: client, table: tableName}, nil
}

func splitEndpoint(endpoint string) (string, int, error) {
	if endpoint == "" {
		return "", 0, fmt.Errorf("greptime endpoint is empty")
	}
	host, portStr, err := net.SplitHostPort(endpoint)
	if err != nil {
		// no port given
		return endpoint, defaultGreptimePort, nil
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid greptime port %q: %w", portStr, err)
	}
	return host, port, nil
}

// Write inserts a single node row.
func (w *GreptimeDBWriter) Write(row telemetry.NodeRow) error {
	return w.WriteBatch([]telemetry.NodeRow{row})
}

// WriteBatch inserts multiple node rows in one request.
func (w *GreptimeDBWriter) WriteBatch(rows []telemetry.NodeRow) error {
	if len(rows) == 0 {
		return nil
	}
	tbl, err := w.buildTable(rows)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), greptimeTimeout)
	defer cancel()
	if _, err := w.client.Write(ctx, tbl); err != nil {
		return fmt.Errorf("greptime write: %w", err)
	}
	slog.Debug("greptime rows written", "table", w.table, "rows", len(rows))
	return nil
}

func (w *GreptimeDBWriter) buildTable(rows []telemetry.NodeRow) (*table.Table, error) {
	tbl, err := table.New(w.table)
	if err != nil {
		return nil, err
	}
	columns := []struct {
		name string
		tag  bool
		typ  types.ColumnType
	}{
		{"cluster_id", true, types.STRING},
		{"session_id", true, types.STRING},
		{"node_id", true, types.STRING},
		{"refresh_id", false, types.STRING},
		{"status", false, types.STRING},
		{"lat", false, types.FLOAT64},
		{"lon", false, types.FLOAT64},
		{"battery_percent", false, types.INT64},
		{"temperature_c", false, types.FLOAT64},
		{"temperature_status", false, types.STRING},
		{"activity", false, types.STRING},
		{"occurred_at", false, types.STRING},
	}
	for _, c := range columns {
		if c.tag {
			err = tbl.AddTagColumn(c.name, c.typ)
		} else {
			err = tbl.AddFieldColumn(c.name, c.typ)
		}
		if err != nil {
			return nil, err
		}
	}
	if err := tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND); err != nil {
		return nil, err
	}
	for _, r := range rows {
		err := tbl.AddRow(
			r.ClusterID,
			r.SessionID,
			r.NodeID,
			r.RefreshID,
			r.Status,
			r.Lat,
			r.Lon,
			int64(r.BatteryPercent),
			r.TemperatureC,
			r.TemperatureStatus,
			r.Activity,
			r.OccurredAt,
			r.Timestamp,
		)
		if err != nil {
			return nil, err
		}
	}
	return tbl, nil
}
