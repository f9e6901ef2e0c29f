package handler

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"
	"github.com/jengzang/roads-dashboard-go/internal/chart"
	"github.com/jengzang/roads-dashboard-go/internal/log"
	"github.com/jengzang/roads-dashboard-go/internal/models"
	"github.com/jengzang/roads-dashboard-go/internal/service"
	"github.com/jengzang/roads-dashboard-go/internal/spatial"
	"github.com/jengzang/roads-dashboard-go/internal/stats"
	"github.com/jengzang/roads-dashboard-go/internal/store"
	"github.com/jengzang/roads-dashboard-go/pkg/response"
)

// User-facing notices
const (
	MsgInsufficientData = "Data tidak mencukupi untuk membuat grafik."
	MsgNoGeometry       = "Tidak ada data jalan dengan koordinat untuk ditampilkan."
	MsgNoCoordinates    = "Data tidak memiliki kolom koordinat awal dan akhir."
	MsgNotLoaded        = "Data jalan belum dimuat."
)

// xlsxContentType is the MIME type of an Office Open XML workbook
const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// DashboardHandler handles HTTP requests for the road condition dashboard
type DashboardHandler struct {
	service *service.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(service *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Options handles GET /api/v1/roads/options
func (h *DashboardHandler) Options(c *gin.Context) {
	res, ok := h.compute(c)
	if !ok {
		return
	}
	response.Success(c, gin.H{
		"selection": res.Selection,
		"options":   res.Options,
	})
}

// Summary handles GET /api/v1/roads/summary
func (h *DashboardHandler) Summary(c *gin.Context) {
	res, ok := h.compute(c)
	if !ok {
		return
	}
	response.Success(c, gin.H{
		"selection":   res.Selection,
		"summary":     res.Summary,
		"lengths":     res.Lengths,
		"metrics":     metricCards(res.Summary),
		"description": Describe(res.Summary),
		"warnings":    res.Warnings,
	})
}

// Aggregates handles GET /api/v1/roads/aggregates
func (h *DashboardHandler) Aggregates(c *gin.Context) {
	res, ok := h.compute(c)
	if !ok {
		return
	}
	if res.Insufficient {
		response.Info(c, MsgInsufficientData, gin.H{
			"group_by":     res.GroupBy,
			"insufficient": true,
		})
		return
	}
	response.Success(c, gin.H{
		"group_by": res.GroupBy,
		"label":    res.Grouping.Label,
		"rows":     res.Grouping.Rows,
	})
}

// Map handles GET /api/v1/roads/map
func (h *DashboardHandler) Map(c *gin.Context) {
	sel, ok := bindSelection(c)
	if !ok {
		return
	}

	m, err := h.service.Map(c.Request.Context(), sel)
	switch {
	case errors.Is(err, spatial.ErrNoCoordinateColumns):
		response.Info(c, MsgNoCoordinates, gin.H{"level": "warning"})
		return
	case errors.Is(err, spatial.ErrNoGeometry):
		response.Info(c, MsgNoGeometry, gin.H{"level": "info"})
		return
	case err != nil:
		h.fail(c, err)
		return
	}
	response.Success(c, m)
}

// Records handles GET /api/v1/roads/records
func (h *DashboardHandler) Records(c *gin.Context) {
	res, ok := h.compute(c)
	if !ok {
		return
	}
	response.Success(c, gin.H{
		"data":  res.Rows,
		"total": len(res.Rows),
	})
}

// Schema handles GET /api/v1/roads/schema
func (h *DashboardHandler) Schema(c *gin.Context) {
	table, err := h.service.Table()
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, gin.H{
		"source":    table.Source,
		"loaded_at": table.LoadedAt,
		"rows":      table.Len(),
		"schema":    table.Schema,
		"warnings":  stats.SchemaWarnings(table.Schema),
	})
}

// Chart handles GET /api/v1/roads/charts/{absolute,percent}.png
func (h *DashboardHandler) Chart(c *gin.Context) {
	kind, err := chart.ParseKind(strings.TrimSuffix(c.Param("kind"), ".png"))
	if err != nil {
		response.NotFound(c, "Unknown chart kind")
		return
	}
	sel, ok := bindSelection(c)
	if !ok {
		return
	}

	png, err := h.service.Chart(c.Request.Context(), sel, kind)
	if stats.IsInsufficient(err) {
		response.Info(c, MsgInsufficientData, gin.H{"insufficient": true})
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// Export handles GET /api/v1/roads/export.xlsx
func (h *DashboardHandler) Export(c *gin.Context) {
	sel, ok := bindSelection(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.service.Export(c.Request.Context(), sel, &buf); err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="data_jalan_desa.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// Reload handles POST /api/v1/admin/reload
func (h *DashboardHandler) Reload(c *gin.Context) {
	table, err := h.service.Reload(c.Request.Context())
	if err != nil {
		log.Errorw("reload failed", "error", err)
		response.InternalError(c, "Failed to reload data", err)
		return
	}
	response.Success(c, gin.H{
		"source":    table.Source,
		"loaded_at": table.LoadedAt,
		"rows":      table.Len(),
	})
}

func (h *DashboardHandler) compute(c *gin.Context) (*stats.Result, bool) {
	sel, ok := bindSelection(c)
	if !ok {
		return nil, false
	}
	res, err := h.service.Compute(c.Request.Context(), sel)
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	return res, true
}

func (h *DashboardHandler) fail(c *gin.Context, err error) {
	if errors.Is(err, store.ErrNotLoaded) {
		response.Error(c, http.StatusServiceUnavailable, MsgNotLoaded, err)
		return
	}
	response.InternalError(c, "Failed to compute dashboard", err)
}

func bindSelection(c *gin.Context) (models.Selection, bool) {
	var sel models.Selection
	if err := c.ShouldBindQuery(&sel); err != nil {
		response.BadRequest(c, "Invalid query parameters", err)
		return sel, false
	}
	return sel.Normalize(), true
}

// MetricCard is one headline figure of the summary view
type MetricCard struct {
	Label   string  `json:"label"`
	Value   string  `json:"value"`
	Percent string  `json:"percent"`
	Meters  float64 `json:"meters"`
}

func metricCards(s models.Summary) []MetricCard {
	labels := [...]string{"Baik", "Rusak Ringan", "Rusak Sedang", "Rusak Berat"}
	values := s.Totals.Values()
	pcts := stats.DisplayPercentages(s.Percentages).Values()

	cards := make([]MetricCard, len(labels))
	for i, label := range labels {
		cards[i] = MetricCard{
			Label:   label,
			Value:   meters(values[i]) + " m",
			Percent: fmt.Sprintf("%.1f%%", pcts[i]),
			Meters:  values[i],
		}
	}
	return cards
}

// Describe renders the general description lines of the summary view
func Describe(s models.Summary) []string {
	good, damaged := displayGoodDamaged(s)
	return []string{
		fmt.Sprintf("Total ruas jalan keseluruhan: %s ruas jalan", humanize.Comma(int64(s.SegmentCount))),
		fmt.Sprintf("Total panjang jalan keseluruhan: %s meter", meters(s.TotalLength)),
		fmt.Sprintf("Total panjang jalan dalam kondisi baik: %s meter (%.1f%%)", meters(s.Totals.Good), good),
		fmt.Sprintf("Total panjang jalan yang mengalami kerusakan: %s meter (%.1f%%)", meters(s.TotalDamaged), damaged),
	}
}

// displayGoodDamaged returns the rounded good and damaged shares, which add up to 100.0
// whenever the subset has any length.
func displayGoodDamaged(s models.Summary) (good, damaged float64) {
	if s.TotalLength <= 0 {
		return 0, 0
	}
	good = stats.DisplayPercentages(s.Percentages).Good
	return good, stats.Round1(100 - good)
}

func meters(v float64) string {
	return humanize.CommafWithDigits(v, 1)
}
