package keyboard_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arachnolog/broodkeeper/internal/action"
	"github.com/arachnolog/broodkeeper/internal/bot/keyboard"
	"github.com/arachnolog/broodkeeper/internal/domain"
)

func TestMainMenuPayloadsDecode(t *testing.T) {
	kb := keyboard.NewBuilder(nil)
	markup := kb.MainMenu()

	require.NotEmpty(t, markup.InlineKeyboard)
	for _, row := range markup.InlineKeyboard {
		for _, btn := range row {
			_, err := action.Decode(btn.Data)
			require.NoError(t, err, "button %q has undecodable payload %q", btn.Text, btn.Data)
		}
	}
}

func TestTarantulaPickerChunksRows(t *testing.T) {
	kb := keyboard.NewBuilder(nil)

	tarantulas := []domain.Tarantula{
		{ID: 1, Name: "Rosie"},
		{ID: 2, Name: "Fang"},
		{ID: 3, Name: "Charlotte"},
	}

	markup := kb.TarantulaPicker(tarantulas, func(id int64) action.Action {
		return action.FeedTarantula{TarantulaID: id}
	})

	// Two pickers per row, then the odd one, then the back row.
	require.Len(t, markup.InlineKeyboard, 3)
	require.Len(t, markup.InlineKeyboard[0], 2)
	require.Len(t, markup.InlineKeyboard[1], 1)

	a, err := action.Decode(markup.InlineKeyboard[0][1].Data)
	require.NoError(t, err)
	require.Equal(t, action.FeedTarantula{TarantulaID: 2}, a)

	back, err := action.Decode(markup.InlineKeyboard[2][0].Data)
	require.NoError(t, err)
	require.Equal(t, action.MainMenu{}, back)
}

func TestFeedCountPickerEncodesAllFields(t *testing.T) {
	kb := keyboard.NewBuilder(nil)
	markup := kb.FeedCountPicker(7, 3)

	counts := []int64{1, 2, 3, 5}
	require.Len(t, markup.InlineKeyboard[0], len(counts))

	for i, btn := range markup.InlineKeyboard[0] {
		a, err := action.Decode(btn.Data)
		require.NoError(t, err)
		require.Equal(t, action.FeedConfirm{TarantulaID: 7, ColonyID: 3, Count: counts[i]}, a)
	}
}

func TestHealthStatusPickerCoversAllStatuses(t *testing.T) {
	kb := keyboard.NewBuilder(nil)
	markup := kb.HealthStatusPicker(11)

	want := []int64{domain.HealthStatusHealthy, domain.HealthStatusMonitor, domain.HealthStatusCritical}
	for i, statusID := range want {
		a, err := action.Decode(markup.InlineKeyboard[i][0].Data)
		require.NoError(t, err)
		require.Equal(t, action.HealthStatus{TarantulaID: 11, StatusID: statusID}, a)
	}
}

func TestColonyActionsIncludesNegativeDeltas(t *testing.T) {
	kb := keyboard.NewBuilder(nil)
	markup := kb.ColonyActions(4)

	a, err := action.Decode(markup.InlineKeyboard[0][0].Data)
	require.NoError(t, err)
	require.Equal(t, action.ColonyCountUpdate{ColonyID: 4, Delta: -10}, a)

	free, err := action.Decode(markup.InlineKeyboard[1][0].Data)
	require.NoError(t, err)
	require.Equal(t, action.ColonyCount{ColonyID: 4}, free)
}
