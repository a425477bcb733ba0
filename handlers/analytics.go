// handlers/analytics.go
package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"p9e.in/civicgrid/models"
)

// AnalyticsHandler serves aggregate metrics for admins and department
// heads. It is a downstream consumer of the data the core produces.
type AnalyticsHandler struct {
	db *gorm.DB
}

// NewAnalyticsHandler creates the analytics handler.
func NewAnalyticsHandler(db *gorm.DB) *AnalyticsHandler {
	return &AnalyticsHandler{db: db}
}

type groupCount struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

type analyticsSummary struct {
	TotalReports      int64        `json:"totalReports"`
	ResolvedReports   int64        `json:"resolvedReports"`
	ResolutionRate    float64      `json:"resolutionRate"`
	AvgResolutionDays float64      `json:"avgResolutionDays"`
	ByStatus          []groupCount `json:"byStatus"`
	ByCategory        []groupCount `json:"byCategory"`
	ByPriority        []groupCount `json:"byPriority"`
	ByDepartment      []groupCount `json:"byDepartment"`
}

func (h *AnalyticsHandler) summarize(r *http.Request) (*analyticsSummary, error) {
	db := h.db.WithContext(r.Context())
	s := &analyticsSummary{}

	if err := db.Model(&models.Report{}).Count(&s.TotalReports).Error; err != nil {
		return nil, fmt.Errorf("count reports: %w", err)
	}
	if err := db.Model(&models.Report{}).
		Where("status = ?", models.StatusResolved).
		Count(&s.ResolvedReports).Error; err != nil {
		return nil, fmt.Errorf("count resolved: %w", err)
	}
	if s.TotalReports > 0 {
		s.ResolutionRate = float64(s.ResolvedReports) / float64(s.TotalReports)
	}

	// mean days from submission to actual resolution
	row := db.Model(&models.Report{}).
		Where("actual_resolution_date IS NOT NULL").
		Select("COALESCE(AVG(EXTRACT(EPOCH FROM (actual_resolution_date - created_at)) / 86400), 0)").
		Row()
	if err := row.Scan(&s.AvgResolutionDays); err != nil {
		return nil, fmt.Errorf("avg resolution days: %w", err)
	}

	groupBy := func(column string, dest *[]groupCount) error {
		return db.Model(&models.Report{}).
			Select(column + " AS key, COUNT(*) AS count").
			Group(column).
			Order("count DESC").
			Scan(dest).Error
	}
	if err := groupBy("status", &s.ByStatus); err != nil {
		return nil, fmt.Errorf("group by status: %w", err)
	}
	if err := groupBy("category", &s.ByCategory); err != nil {
		return nil, fmt.Errorf("group by category: %w", err)
	}
	if err := groupBy("priority", &s.ByPriority); err != nil {
		return nil, fmt.Errorf("group by priority: %w", err)
	}

	err := db.Model(&models.Report{}).
		Joins("LEFT JOIN departments ON departments.id = reports.department_id").
		Select("COALESCE(departments.name, 'Unrouted') AS key, COUNT(*) AS count").
		Group("departments.name").
		Order("count DESC").
		Scan(&s.ByDepartment).Error
	if err != nil {
		return nil, fmt.Errorf("group by department: %w", err)
	}

	return s, nil
}

// Summary returns the aggregate metrics as JSON.
func (h *AnalyticsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	s, err := h.summarize(r)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// Export streams the aggregate metrics as an Excel workbook.
func (h *AnalyticsHandler) Export(w http.ResponseWriter, r *http.Request) {
	s, err := h.summarize(r)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}

	f := excelize.NewFile()
	sheetName := "Analytics"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 16},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	f.SetCellValue(sheetName, "A1", "Civic Report Analytics")
	f.SetCellStyle(sheetName, "A1", "A1", titleStyle)
	f.SetRowHeight(sheetName, 1, 30)
	f.SetCellValue(sheetName, "A2", fmt.Sprintf("Generated: %s", time.Now().Format("2006-01-02 15:04:05")))

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	row := 4
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "Total Reports")
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), s.TotalReports)
	row++
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "Resolved Reports")
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), s.ResolvedReports)
	row++
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "Resolution Rate")
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), fmt.Sprintf("%.1f%%", s.ResolutionRate*100))
	row++
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "Avg Resolution Days")
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), fmt.Sprintf("%.1f", s.AvgResolutionDays))
	row += 2

	writeGroup := func(title string, counts []groupCount) {
		cell := fmt.Sprintf("A%d", row)
		f.SetCellValue(sheetName, cell, title)
		f.SetCellStyle(sheetName, cell, fmt.Sprintf("B%d", row), headerStyle)
		row++
		for _, gc := range counts {
			f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), gc.Key)
			f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), gc.Count)
			row++
		}
		row++
	}
	writeGroup("By Status", s.ByStatus)
	writeGroup("By Category", s.ByCategory)
	writeGroup("By Priority", s.ByPriority)
	writeGroup("By Department", s.ByDepartment)

	f.SetColWidth(sheetName, "A", "A", 28)
	f.SetColWidth(sheetName, "B", "B", 16)

	filename := fmt.Sprintf("civic-analytics-%s.xlsx", time.Now().Format("20060102"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	if err := f.Write(w); err != nil {
		writeWorkflowError(w, err)
	}
}
