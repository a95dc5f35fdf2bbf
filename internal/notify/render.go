package notify

import (
	"fmt"
	"strings"

	"github.com/arachnolog/broodkeeper/internal/domain"
)

// Render formats one category's alert set into the message delivered to
// every recipient of the tick.
func Render(category domain.AlertCategory, items []domain.AlertItem) string {
	switch category {
	case domain.CategoryFeeding:
		return renderFeeding(items)
	case domain.CategoryHealth:
		return renderHealth(items)
	case domain.CategoryColony:
		return renderColony(items)
	default:
		return ""
	}
}

func renderFeeding(items []domain.AlertItem) string {
	var neverFed, overdue, due []domain.AlertItem
	for _, item := range items {
		switch {
		case strings.Contains(item.Detail, "Never fed"):
			neverFed = append(neverFed, item)
		case strings.Contains(item.Detail, "Overdue"):
			overdue = append(overdue, item)
		default:
			due = append(due, item)
		}
	}

	var b strings.Builder
	b.WriteString("🍽 *Feeding Due*\n\n")

	if len(neverFed) > 0 {
		b.WriteString("❗️ *Never Fed*\n")
		for _, item := range neverFed {
			fmt.Fprintf(&b, "• %s (%s)\n", item.Name, item.Detail)
		}
		b.WriteByte('\n')
	}

	if len(overdue) > 0 {
		b.WriteString("⚠️ *Overdue*\n")
		for _, item := range overdue {
			fmt.Fprintf(&b, "• %s - %s (%d days since last feeding)\n", item.Name, item.Detail, int(item.Quantity))
		}
		b.WriteByte('\n')
	}

	if len(due) > 0 {
		b.WriteString("📅 *Due for Feeding*\n")
		for _, item := range due {
			fmt.Fprintf(&b, "• %s - %d days since last feeding\n", item.Name, int(item.Quantity))
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func renderHealth(items []domain.AlertItem) string {
	var b strings.Builder
	b.WriteString("🚨 *Critical Health Alerts*\n\n")
	for _, item := range items {
		fmt.Fprintf(&b, "• %s - %s\n", item.Name, item.Detail)
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderColony(items []domain.AlertItem) string {
	var b strings.Builder
	b.WriteString("🦗 *Low Cricket Colony Alert*\n\n")
	for _, item := range items {
		fmt.Fprintf(&b, "• %s - %.1f weeks remaining\n", item.Name, item.Quantity)
	}
	return strings.TrimRight(b.String(), "\n")
}
