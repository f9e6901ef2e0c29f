package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jengzang/roads-dashboard-go/internal/database"
	"github.com/jengzang/roads-dashboard-go/internal/models"
)

const selectSegments = `SELECT row_num, region, sub_region, settlement, road_name, pavement,
	length_good, length_light_damage, length_moderate_damage, length_severe_damage,
	start_lat, start_lon, end_lat, end_lon, total_length
	FROM road_segments ORDER BY row_num`

const insertSegment = `INSERT INTO road_segments (row_num, region, sub_region, settlement, road_name, pavement,
	length_good, length_light_damage, length_moderate_damage, length_severe_damage,
	start_lat, start_lon, end_lat, end_lon, total_length)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// RoadSegmentRepository handles database operations for road segments.
// It doubles as a record store source.
type RoadSegmentRepository struct {
	db *sql.DB
}

// NewRoadSegmentRepository creates a new road segment repository
func NewRoadSegmentRepository(db *sql.DB) *RoadSegmentRepository {
	return &RoadSegmentRepository{db: db}
}

// Name identifies the repository as a record source
func (r *RoadSegmentRepository) Name() string {
	return "sqlite:road_segments"
}

// Load reads every imported segment together with the imported sheet's schema
func (r *RoadSegmentRepository) Load(ctx context.Context) (*models.Table, error) {
	schema, err := r.schema(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, selectSegments)
	if err != nil {
		return nil, fmt.Errorf("failed to query road segments: %w", err)
	}
	defer rows.Close()

	table := &models.Table{Source: r.Name(), Schema: schema}
	for rows.Next() {
		var (
			rec  models.RoadSegment
			text [5]sql.NullString
			num  [9]sql.NullFloat64
		)
		err := rows.Scan(&rec.Row,
			&text[0], &text[1], &text[2], &text[3], &text[4],
			&num[0], &num[1], &num[2], &num[3], &num[4], &num[5], &num[6], &num[7], &num[8],
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan road segment: %w", err)
		}

		for i, col := range textColumns {
			if text[i].Valid {
				rec.SetText(col, text[i].String)
			}
		}
		for i, col := range numberColumns {
			if num[i].Valid {
				rec.SetNumber(col, num[i].Float64)
			}
		}
		table.Records = append(table.Records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate road segments: %w", err)
	}

	table.LoadedAt = time.Now()
	return table, nil
}

func (r *RoadSegmentRepository) schema(ctx context.Context) (models.Schema, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT header FROM source_columns")
	if err != nil {
		return 0, fmt.Errorf("failed to query source columns: %w", err)
	}
	defer rows.Close()

	var schema models.Schema
	for rows.Next() {
		var header string
		if err := rows.Scan(&header); err != nil {
			return 0, fmt.Errorf("failed to scan source column: %w", err)
		}
		if col, ok := models.ColumnByHeader(header); ok {
			schema = schema.With(col)
		}
	}
	return schema, rows.Err()
}

// Replace swaps the stored segments for the given table in a single transaction
func (r *RoadSegmentRepository) Replace(ctx context.Context, table *models.Table) error {
	return database.Transaction(r.db, func(tx *sql.Tx) error {
		for _, stmt := range []string{"DELETE FROM road_segments", "DELETE FROM source_columns"} {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("failed to clear previous import: %w", err)
			}
		}

		for _, col := range table.Schema.Columns() {
			if _, err := tx.ExecContext(ctx, "INSERT INTO source_columns (header) VALUES (?)", col.Header()); err != nil {
				return fmt.Errorf("failed to record column %s: %w", col.Header(), err)
			}
		}

		stmt, err := tx.PrepareContext(ctx, insertSegment)
		if err != nil {
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		defer stmt.Close()

		for _, rec := range table.Records {
			args := make([]interface{}, 0, 15)
			args = append(args, rec.Row)
			for _, col := range textColumns {
				args = append(args, nullText(rec, col))
			}
			for _, col := range numberColumns {
				args = append(args, nullNumber(rec, col))
			}
			if _, err := stmt.ExecContext(ctx, args...); err != nil {
				return fmt.Errorf("failed to insert row %d: %w", rec.Row, err)
			}
		}

		_, err = tx.ExecContext(ctx,
			"INSERT OR REPLACE INTO import_meta (key, value) VALUES ('source', ?), ('imported_at', ?)",
			table.Source, time.Now().UTC().Format(time.RFC3339))
		if err != nil {
			return fmt.Errorf("failed to record import metadata: %w", err)
		}
		return nil
	})
}

// Count returns the number of stored segments
func (r *RoadSegmentRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM road_segments").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count road segments: %w", err)
	}
	return n, nil
}

var textColumns = []models.Column{
	models.ColumnRegion,
	models.ColumnSubRegion,
	models.ColumnSettlement,
	models.ColumnRoadName,
	models.ColumnPavement,
}

var numberColumns = []models.Column{
	models.ColumnLengthGood,
	models.ColumnLengthLightDamage,
	models.ColumnLengthModerateDamage,
	models.ColumnLengthSevereDamage,
	models.ColumnStartLat,
	models.ColumnStartLon,
	models.ColumnEndLat,
	models.ColumnEndLon,
	models.ColumnTotalLength,
}

func nullText(rec models.RoadSegment, c models.Column) sql.NullString {
	v, ok := rec.Text(c)
	return sql.NullString{String: v, Valid: ok}
}

func nullNumber(rec models.RoadSegment, c models.Column) sql.NullFloat64 {
	v, ok := rec.Number(c)
	return sql.NullFloat64{Float64: v, Valid: ok}
}
