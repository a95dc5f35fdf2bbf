package notify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arachnolog/broodkeeper/internal/domain"
)

func TestRenderFeedingGroupsByStatus(t *testing.T) {
	text := Render(domain.CategoryFeeding, feedingItems())

	neverIdx := strings.Index(text, "Never Fed")
	overdueIdx := strings.Index(text, "Overdue")
	dueIdx := strings.Index(text, "Due for Feeding")

	assert.True(t, neverIdx >= 0 && overdueIdx > neverIdx && dueIdx > overdueIdx,
		"sections out of order:\n%s", text)
	assert.Contains(t, text, "• Aragog - Overdue (12 days since last feeding)")
	assert.Contains(t, text, "• Charlotte - 8 days since last feeding")
}

func TestRenderColony(t *testing.T) {
	text := Render(domain.CategoryColony, []domain.AlertItem{
		{EntityID: 1, Name: "Colony A", Quantity: 1.5},
	})

	assert.Contains(t, text, "Low Cricket Colony Alert")
	assert.Contains(t, text, "• Colony A - 1.5 weeks remaining")
}

func TestRenderHealth(t *testing.T) {
	text := Render(domain.CategoryHealth, []domain.AlertItem{
		{EntityID: 2, Name: "Rosie", Detail: "Critical"},
	})

	assert.Contains(t, text, "Critical Health Alerts")
	assert.Contains(t, text, "• Rosie - Critical")
}
