package reporting

import (
	"fmt"
	"strings"

	"profitgo/internal/domain"
	"profitgo/internal/profit"
)

// RenderMarkdown renders a single profit report with its formula trace.
func RenderMarkdown(r domain.ProfitReport, trace profit.Trace) string {
	var sb strings.Builder

	// Header
	sb.WriteString(fmt.Sprintf("# Profit Report: %s\n\n", r.ModelName))
	sb.WriteString(fmt.Sprintf("Analyzed orders: %d\n\n", r.AnalyzedOrders))

	// Summary
	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Revenue | %.2f |\n", r.Revenue))
	sb.WriteString(fmt.Sprintf("| Total cost | %.2f |\n", r.TotalCost))
	sb.WriteString(fmt.Sprintf("| Profit | %.2f |\n", r.Profit))
	sb.WriteString(fmt.Sprintf("| Profit per order | %.2f |\n", r.ProfitPerOrder))
	sb.WriteString(fmt.Sprintf("| Profit margin | %.2f%% |\n", r.ProfitMarginPct))
	sb.WriteString(fmt.Sprintf("| Refund rate | %.2f%% |\n", r.RefundRatePct))
	sb.WriteString(fmt.Sprintf("| Instant refund rate | %.2f%% |\n", r.InstantRefundRatePct))
	sb.WriteString(fmt.Sprintf("| Break-even price | %.2f |\n", r.BreakEvenPrice))
	sb.WriteString(fmt.Sprintf("| Break-even ad bid | %.2f |\n", r.BreakEvenAdBid))
	sb.WriteString("\n")

	// Cost breakdown
	sb.WriteString("## Cost Breakdown\n\n")
	sb.WriteString("| Item | Amount | Share |\n")
	sb.WriteString("|------|--------|-------|\n")
	var adSpend float64
	for _, item := range r.CostBreakdown {
		if item.Category.IsAdvertising() {
			adSpend += item.Amount
		}
		sb.WriteString(fmt.Sprintf("| %s | %.2f | %.1f%% |\n", item.Category.Label(), item.Amount, costShare(item.Amount, r.TotalCost)))
	}
	sb.WriteString("\n")

	// Advertising
	sb.WriteString("## Advertising\n\n")
	if ads := r.Advertising; ads != nil {
		sb.WriteString(fmt.Sprintf("- Ad bid per order: %.2f\n", ads.AdUnitPrice))
		sb.WriteString(fmt.Sprintf("- Ad cost: %.2f\n", r.AdCost))
		sb.WriteString(fmt.Sprintf("- Refund ad loss: %.2f\n", r.AdRefundLoss))
		sb.WriteString(fmt.Sprintf("- Ad share of total cost: %.1f%%\n", costShare(adSpend, r.TotalCost)))
		sb.WriteString(fmt.Sprintf("- Max ad investment: %.2f\n", ads.MaxAdInvestment))
		sb.WriteString(fmt.Sprintf("- Break-even ROI: %.2f\n", ads.BreakEvenROI))
		if ads.CurrentROI != nil {
			sb.WriteString(fmt.Sprintf("- Current ROI: %.2f\n", *ads.CurrentROI))
		}
		if ads.AdUnitPrice > r.BreakEvenAdBid {
			sb.WriteString("\n**Ad bid is above the break-even bid; every advertised order loses money.**\n")
		}
	} else {
		sb.WriteString("Advertising disabled.\n")
	}
	sb.WriteString("\n")

	// Formula trace
	if len(trace.Sections) > 0 {
		sb.WriteString("## Calculation Details\n\n")
		for _, section := range trace.Sections {
			sb.WriteString(fmt.Sprintf("### %s\n\n", section.Title))
			for _, line := range section.Lines {
				sb.WriteString(fmt.Sprintf("- %s: `%s`\n", line.Item, line.Formula))
			}
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func costShare(amount, total float64) float64 {
	if total == 0 {
		return 0
	}
	return amount / total * 100
}
