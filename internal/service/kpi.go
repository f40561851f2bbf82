package service

import (
	"fmt"
	"time"

	"github.com/helpline-ops/support-desk/internal/domain"
)

// ResolutionNotAvailable is reported when no resolved tickets exist in scope.
const ResolutionNotAvailable = "not available"

// KPI summarizes a ticket set for dashboards.
type KPI struct {
	ActiveCount       int    `json:"active_count"`
	ClosedCount       int    `json:"closed_count"`
	AvgResolutionTime string `json:"avg_resolution_time"`
}

// ComputeKPIs aggregates the given tickets. Resolution time is measured from CreatedAt
// to UpdatedAt of each resolved ticket, so later edits move it.
func ComputeKPIs(tickets []domain.Ticket) KPI {
	kpi := KPI{AvgResolutionTime: ResolutionNotAvailable}
	var total time.Duration
	for _, t := range tickets {
		switch {
		case t.Status.IsActive():
			kpi.ActiveCount++
		case t.Status.IsResolved():
			kpi.ClosedCount++
			total += t.UpdatedAt.Sub(t.CreatedAt)
		}
	}
	if kpi.ClosedCount > 0 {
		avgDays := total.Hours() / 24 / float64(kpi.ClosedCount)
		kpi.AvgResolutionTime = fmt.Sprintf("%.1f days", avgDays)
	}
	return kpi
}
