package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/theoremus-urban-solutions/transit-geometry/network"
)

//go:embed schema.sql
var schemaSQL string

// ErrNoSnapshot is returned when a network has never been saved
var ErrNoSnapshot = errors.New("no snapshot")

// SnapshotInfo describes a saved snapshot without its content
type SnapshotInfo struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"network"`
	Fingerprint  uint64    `json:"fingerprint"`
	StationCount int       `json:"stations"`
	RouteCount   int       `json:"routes"`
	CreatedAt    time.Time `json:"created_at"`
}

// Snapshot is a saved network
type Snapshot struct {
	SnapshotInfo
	Network network.Network
}

// Store is a SQLite-backed snapshot store
type Store struct {
	conn    *sql.DB
	writeMu sync.Mutex
	now     func() time.Time
}

// Open opens (creating if needed) the database at path and ensures the schema
func Open(path string) (*Store, error) {
	dsn := path + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite only supports one writer at a time
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(time.Hour)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	log.Printf("[store] Connected to SQLite database: %s", path)
	return &Store{conn: conn, now: time.Now}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.conn.Close()
}

// SaveNetwork stores n as a new snapshot of the named network
func (s *Store) SaveNetwork(ctx context.Context, name string, n network.Network) (uuid.UUID, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	id := uuid.New()
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots (id, network, fingerprint, station_count, route_count, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id.String(), name, strconv.FormatUint(n.Fingerprint(), 16), len(n.Stops), len(n.Routes), s.now().UnixNano(),
	); err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert snapshot: %w", err)
	}

	routeStmt, err := tx.PrepareContext(ctx, `INSERT INTO routes (snapshot_id, position, route_id, route_color) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return uuid.Nil, err
	}
	defer routeStmt.Close()
	for i, r := range n.Routes {
		if _, err := routeStmt.ExecContext(ctx, id.String(), i, r.ID, r.Color); err != nil {
			return uuid.Nil, fmt.Errorf("failed to insert route %s: %w", r.ID, err)
		}
	}

	stationStmt, err := tx.PrepareContext(ctx, `INSERT INTO stations (snapshot_id, position, parent_station, stop_name, lat, lon) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return uuid.Nil, err
	}
	defer stationStmt.Close()
	memberStmt, err := tx.PrepareContext(ctx, `INSERT INTO station_routes (snapshot_id, station_position, position, route_id, stop_sequence) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return uuid.Nil, err
	}
	defer memberStmt.Close()

	for i, st := range n.Stops {
		if _, err := stationStmt.ExecContext(ctx, id.String(), i, st.ID, st.Name, st.Lat, st.Lon); err != nil {
			return uuid.Nil, fmt.Errorf("failed to insert station %s: %w", st.ID, err)
		}
		for j, m := range st.Memberships {
			seq := sql.NullFloat64{Float64: m.Sequence.Value, Valid: m.Sequence.Valid}
			if _, err := memberStmt.ExecContext(ctx, id.String(), i, j, m.RouteID, seq); err != nil {
				return uuid.Nil, fmt.Errorf("failed to insert membership %s/%s: %w", st.ID, m.RouteID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return uuid.Nil, fmt.Errorf("failed to commit snapshot: %w", err)
	}
	log.Printf("[store] Saved snapshot %s of network %s (%d stations, %d routes)", id, name, len(n.Stops), len(n.Routes))
	return id, nil
}

// ListSnapshots returns the snapshots of the named network, newest first
func (s *Store) ListSnapshots(ctx context.Context, name string) ([]SnapshotInfo, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT id, network, fingerprint, station_count, route_count, created_at
		FROM snapshots
		WHERE network = ?
		ORDER BY created_at DESC, rowid DESC`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var out []SnapshotInfo
	for rows.Next() {
		info, err := scanInfo(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

// LatestNetwork returns the newest snapshot of the named network, or
// ErrNoSnapshot when there is none
func (s *Store) LatestNetwork(ctx context.Context, name string) (Snapshot, error) {
	row := s.conn.QueryRowContext(ctx, `
		SELECT id, network, fingerprint, station_count, route_count, created_at
		FROM snapshots
		WHERE network = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT 1`, name)
	info, err := scanInfo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, fmt.Errorf("network %s: %w", name, ErrNoSnapshot)
	}
	if err != nil {
		return Snapshot{}, err
	}
	return s.load(ctx, info)
}

// LoadSnapshot returns the snapshot with the given id
func (s *Store) LoadSnapshot(ctx context.Context, id uuid.UUID) (Snapshot, error) {
	row := s.conn.QueryRowContext(ctx, `
		SELECT id, network, fingerprint, station_count, route_count, created_at
		FROM snapshots
		WHERE id = ?`, id.String())
	info, err := scanInfo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, fmt.Errorf("snapshot %s: %w", id, ErrNoSnapshot)
	}
	if err != nil {
		return Snapshot{}, err
	}
	return s.load(ctx, info)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanInfo(row scanner) (SnapshotInfo, error) {
	var (
		info        SnapshotInfo
		id, fp      string
		createdNano int64
	)
	if err := row.Scan(&id, &info.Name, &fp, &info.StationCount, &info.RouteCount, &createdNano); err != nil {
		return SnapshotInfo{}, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return SnapshotInfo{}, fmt.Errorf("invalid snapshot id %q: %w", id, err)
	}
	info.ID = parsed
	if info.Fingerprint, err = strconv.ParseUint(fp, 16, 64); err != nil {
		return SnapshotInfo{}, fmt.Errorf("invalid fingerprint %q: %w", fp, err)
	}
	info.CreatedAt = time.Unix(0, createdNano)
	return info, nil
}

// load reads the content of a snapshot. Each query's rows are closed before
// the next one starts since the pool holds a single connection.
func (s *Store) load(ctx context.Context, info SnapshotInfo) (Snapshot, error) {
	snap := Snapshot{SnapshotInfo: info}
	id := info.ID.String()
	var err error
	if snap.Network.Routes, err = s.loadRoutes(ctx, id); err != nil {
		return Snapshot{}, err
	}
	if snap.Network.Stops, err = s.loadStations(ctx, id); err != nil {
		return Snapshot{}, err
	}
	if err := s.loadMemberships(ctx, id, snap.Network.Stops); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

func (s *Store) loadRoutes(ctx context.Context, id string) ([]network.Route, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT route_id, route_color FROM routes WHERE snapshot_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query routes: %w", err)
	}
	defer rows.Close()
	var out []network.Route
	for rows.Next() {
		var r network.Route
		if err := rows.Scan(&r.ID, &r.Color); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) loadStations(ctx context.Context, id string) ([]network.Stop, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT parent_station, stop_name, lat, lon FROM stations WHERE snapshot_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query stations: %w", err)
	}
	defer rows.Close()
	var out []network.Stop
	for rows.Next() {
		var st network.Stop
		if err := rows.Scan(&st.ID, &st.Name, &st.Lat, &st.Lon); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (s *Store) loadMemberships(ctx context.Context, id string, stops []network.Stop) error {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT station_position, route_id, stop_sequence
		FROM station_routes
		WHERE snapshot_id = ?
		ORDER BY station_position, position`, id)
	if err != nil {
		return fmt.Errorf("failed to query memberships: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			pos int
			m   network.RouteMembership
			seq sql.NullFloat64
		)
		if err := rows.Scan(&pos, &m.RouteID, &seq); err != nil {
			return err
		}
		if pos < 0 || pos >= len(stops) {
			return fmt.Errorf("membership references station position %d of %d", pos, len(stops))
		}
		m.Sequence = network.Sequence{Value: seq.Float64, Valid: seq.Valid}
		stops[pos].Memberships = append(stops[pos].Memberships, m)
	}
	return rows.Err()
}
