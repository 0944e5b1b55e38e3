package subscription

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowFor_UsesHomeZoneDateAndUTCEdges(t *testing.T) {
	skopje, err := time.LoadLocation("Europe/Skopje")
	require.NoError(t, err)

	// 23:30 UTC on Oct 15 is already Oct 16 in Skopje (UTC+2).
	now := time.Date(2026, 10, 15, 23, 30, 0, 0, time.UTC)

	w := WindowFor(now, skopje, 1)
	assert.Equal(t, time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2026, 10, 17, 23, 59, 59, 999_000_000, time.UTC), w.End)
	assert.Equal(t, time.UTC, w.Start.Location())
}

func TestWindowFor_CrossesMonthAndYear(t *testing.T) {
	now := time.Date(2026, 12, 25, 8, 0, 0, 0, time.UTC)

	cases := map[int]time.Time{
		1:  time.Date(2026, 12, 26, 0, 0, 0, 0, time.UTC),
		3:  time.Date(2026, 12, 28, 0, 0, 0, 0, time.UTC),
		7:  time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
		14: time.Date(2027, 1, 8, 0, 0, 0, 0, time.UTC),
	}
	for offset, want := range cases {
		assert.Equal(t, want, WindowFor(now, time.UTC, offset).Start, "offset %d", offset)
	}
}

func TestWindowFor_DSTTransitionKeepsCalendarDay(t *testing.T) {
	skopje, err := time.LoadLocation("Europe/Skopje")
	require.NoError(t, err)

	// Clocks go back on 2026-10-25 in Skopje; adding days must still land on the next calendar date.
	now := time.Date(2026, 10, 24, 8, 0, 0, 0, skopje)
	w := WindowFor(now, skopje, 1)
	assert.Equal(t, time.Date(2026, 10, 25, 0, 0, 0, 0, time.UTC), w.Start)
}

func TestWindow_ContainsIsClosed(t *testing.T) {
	w := WindowFor(time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC), time.UTC, 3)

	assert.True(t, w.Contains(w.Start))
	assert.True(t, w.Contains(w.End))
	assert.True(t, w.Contains(time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)))
	assert.False(t, w.Contains(w.Start.Add(-time.Millisecond)))
	assert.False(t, w.Contains(w.End.Add(time.Millisecond)))
	assert.False(t, w.Contains(time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)))
}

func TestLeadTimeDays_FallsBackToDefault(t *testing.T) {
	assert.Equal(t, DefaultReminderDays, (&Subscription{}).LeadTimeDays())
	assert.Equal(t, 14, (&Subscription{ReminderDays: 14}).LeadTimeDays())
}

func TestCurrencySymbol(t *testing.T) {
	assert.Equal(t, "€", CurrencyEUR.Symbol())
	assert.Equal(t, "£", CurrencyGBP.Symbol())
	assert.Equal(t, "CHF", Currency("CHF").Symbol())
	assert.True(t, CurrencyMKD.Valid())
	assert.False(t, Currency("CHF").Valid())
}
