package reporting

import (
	"fmt"
	"strings"
	"time"

	"profitgo/internal/domain"
)

const reportColumns = "model_name,analyzed_orders,revenue,total_cost,profit,profit_per_order,profit_margin_pct," +
	"break_even_price,break_even_ad_bid,ad_enabled,ad_cost,ad_refund_loss,refund_rate_pct,instant_refund_rate_pct"

// RenderReportCSV renders one line per profit report.
func RenderReportCSV(reports []domain.ProfitReport) string {
	var sb strings.Builder

	sb.WriteString(reportColumns)
	sb.WriteString("\n")

	for _, r := range reports {
		writeReportFields(&sb, r)
		sb.WriteString("\n")
	}

	return sb.String()
}

// RenderHistoryCSV renders archived records, prefixed with their id and time.
func RenderHistoryCSV(records []domain.HistoryRecord) string {
	var sb strings.Builder

	sb.WriteString("analysis_id,timestamp,created_by,")
	sb.WriteString(reportColumns)
	sb.WriteString("\n")

	for _, rec := range records {
		sb.WriteString(fmt.Sprintf("%s,%s,%s,",
			csvField(rec.ID),
			rec.Timestamp.Format(time.RFC3339),
			csvField(rec.CreatedBy),
		))
		writeReportFields(&sb, rec.Report)
		sb.WriteString("\n")
	}

	return sb.String()
}

func writeReportFields(sb *strings.Builder, r domain.ProfitReport) {
	sb.WriteString(fmt.Sprintf("%s,%d,%.2f,%.2f,%.2f,%.2f,%.2f,%.2f,%.2f,%t,%.2f,%.2f,%.2f,%.2f",
		csvField(r.ModelName),
		r.AnalyzedOrders,
		r.Revenue,
		r.TotalCost,
		r.Profit,
		r.ProfitPerOrder,
		r.ProfitMarginPct,
		r.BreakEvenPrice,
		r.BreakEvenAdBid,
		r.AdEnabled(),
		r.AdCost,
		r.AdRefundLoss,
		r.RefundRatePct,
		r.InstantRefundRatePct,
	))
}

// csvField quotes values that would otherwise break the row.
func csvField(s string) string {
	if !strings.ContainsAny(s, ",\"\r\n") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
