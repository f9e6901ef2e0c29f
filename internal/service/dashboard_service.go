package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/jengzang/roads-dashboard-go/internal/chart"
	"github.com/jengzang/roads-dashboard-go/internal/export"
	"github.com/jengzang/roads-dashboard-go/internal/metrics"
	"github.com/jengzang/roads-dashboard-go/internal/models"
	"github.com/jengzang/roads-dashboard-go/internal/spatial"
	"github.com/jengzang/roads-dashboard-go/internal/stats"
	"github.com/jengzang/roads-dashboard-go/internal/store"
)

// DashboardService recomputes the dashboard for each selection against the shared store
type DashboardService struct {
	store *store.Store
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(s *store.Store) *DashboardService {
	return &DashboardService{store: s}
}

// Compute filters and aggregates the current table for a selection
func (s *DashboardService) Compute(ctx context.Context, sel models.Selection) (*stats.Result, error) {
	table, err := s.store.Table()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	res := stats.Compute(table, sel)
	metrics.ComputationsTotal.Inc()
	metrics.ComputeDurationMs.Observe(float64(time.Since(start).Microseconds()) / 1000)
	if res.Insufficient {
		metrics.InsufficientTotal.Inc()
	}
	return &res, nil
}

// Map builds the road map for a selection. It returns spatial.ErrNoCoordinateColumns or
// spatial.ErrNoGeometry when there is nothing to draw.
func (s *DashboardService) Map(ctx context.Context, sel models.Selection) (*spatial.RoadMap, error) {
	res, err := s.Compute(ctx, sel)
	if err != nil {
		return nil, err
	}
	return spatial.BuildRoadMap(res.Schema, res.Rows)
}

// Chart renders the grouped aggregates. It returns stats.ErrInsufficientData when the
// selection cannot be grouped.
func (s *DashboardService) Chart(ctx context.Context, sel models.Selection, kind chart.Kind) ([]byte, error) {
	res, err := s.Compute(ctx, sel)
	if err != nil {
		return nil, err
	}
	if res.Insufficient {
		return nil, fmt.Errorf("%w: grouping by %s", stats.ErrInsufficientData, res.GroupBy.Header())
	}
	return chart.Render(res.Grouping, kind)
}

// Export writes the filtered rows and aggregates as a workbook
func (s *DashboardService) Export(ctx context.Context, sel models.Selection, w io.Writer) error {
	res, err := s.Compute(ctx, sel)
	if err != nil {
		return err
	}
	return export.WriteWorkbook(w, *res)
}

// Table returns the current store snapshot
func (s *DashboardService) Table() (*models.Table, error) {
	return s.store.Table()
}

// Reload invalidates the store and loads the source again
func (s *DashboardService) Reload(ctx context.Context) (*models.Table, error) {
	return s.store.Reload(ctx)
}
