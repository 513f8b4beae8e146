package service

import (
	"context"
	"testing"
	"time"

	"audicob/internal/config"
	"audicob/internal/domain"
	"audicob/internal/mora"
	"audicob/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func moraCfg() config.MoraConfig {
	return config.MoraConfig{
		MonthlyPenaltyRate: dec("0.015"),
		DaysPerMonth:       30,
		CreditLineMinimum:  dec("180"),
	}
}

func newWorklistFixture(t *testing.T, today time.Time, rows []repository.SummaryRow) (*WorklistService, *fakeClientRepo) {
	t.Helper()

	clients := newFakeClientRepo()
	clients.summaries = rows
	clients.assigned = map[int64]int64{}

	svc := NewWorklistService(clients, nil)
	svc.now = fixedNow(today)

	return svc, clients
}

func TestWorklist_OrderWorstFirst(t *testing.T) {
	today := date(2024, time.June, 1)
	rows := []repository.SummaryRow{
		// low tier: 10 days late, small amount
		{ClientID: 1, Name: "A", Principal: dec("500"), DueDate: today.AddDate(0, 0, -10)},
		// critical: 50 days late
		{ClientID: 2, Name: "B", Principal: dec("100"), DueDate: today.AddDate(0, 0, -50)},
		// critical too: 2000 at 31 days, amount and age together
		{ClientID: 3, Name: "C", Principal: dec("2000"), DueDate: today.AddDate(0, 0, -31)},
		// medium: 16 days late
		{ClientID: 4, Name: "D", Principal: dec("100"), DueDate: today.AddDate(0, 0, -16)},
	}

	svc, _ := newWorklistFixture(t, today, rows)

	got, err := svc.List(context.Background(), supervisor(), WorklistFilter{})
	require.NoError(t, err)
	require.Len(t, got, 4)

	order := []int64{got[0].ClientID, got[1].ClientID, got[2].ClientID, got[3].ClientID}
	assert.Equal(t, []int64{2, 3, 4, 1}, order)

	assert.Equal(t, "critical", got[0].Tier)
	assert.Equal(t, 50, got[0].DaysLate)
	assert.Equal(t, string(mora.BandModerate), got[0].Band)
}

func TestWorklist_TiesBrokenByDaysThenAmount(t *testing.T) {
	today := date(2024, time.June, 1)
	rows := []repository.SummaryRow{
		{ClientID: 1, Principal: dec("300"), DueDate: today.AddDate(0, 0, -20)},
		{ClientID: 2, Principal: dec("300"), DueDate: today.AddDate(0, 0, -25)},
		{ClientID: 3, Principal: dec("900"), DueDate: today.AddDate(0, 0, -25)},
	}

	svc, _ := newWorklistFixture(t, today, rows)

	got, err := svc.List(context.Background(), supervisor(), WorklistFilter{})
	require.NoError(t, err)
	require.Len(t, got, 3)

	// all medium tier: more days first, then larger amount
	assert.Equal(t, int64(3), got[0].ClientID)
	assert.Equal(t, int64(2), got[1].ClientID)
	assert.Equal(t, int64(1), got[2].ClientID)
}

func TestWorklist_Deterministic(t *testing.T) {
	today := date(2024, time.June, 1)
	rows := []repository.SummaryRow{
		{ClientID: 1, Principal: dec("300"), DueDate: today.AddDate(0, 0, -20)},
		{ClientID: 2, Principal: dec("300"), DueDate: today.AddDate(0, 0, -20)},
		{ClientID: 3, Principal: dec("300"), DueDate: today.AddDate(0, 0, -20)},
	}

	svc, _ := newWorklistFixture(t, today, rows)

	first, err := svc.List(context.Background(), supervisor(), WorklistFilter{})
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := svc.List(context.Background(), supervisor(), WorklistFilter{})
		require.NoError(t, err)
		assert.Equal(t, first, again, "identical inputs must produce identical order")
	}
}

func TestWorklist_DerivedFilters(t *testing.T) {
	today := date(2024, time.June, 1)
	rows := []repository.SummaryRow{
		{ClientID: 1, Principal: dec("500"), DueDate: today.AddDate(0, 0, -10)},
		{ClientID: 2, Principal: dec("100"), DueDate: today.AddDate(0, 0, -50)},
		{ClientID: 3, Principal: dec("1500"), DueDate: today.AddDate(0, 0, -31)},
	}

	svc, _ := newWorklistFixture(t, today, rows)

	minDays := 30
	got, err := svc.List(context.Background(), supervisor(), WorklistFilter{MinDaysLate: &minDays})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	// the 0-30 day band: only the freshest debt qualifies
	maxDays := 30
	got, err = svc.List(context.Background(), supervisor(), WorklistFilter{MaxDaysLate: &maxDays})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ClientID)

	// bounded on both sides
	minDays = 11
	got, err = svc.List(context.Background(), supervisor(), WorklistFilter{MinDaysLate: &minDays, MaxDaysLate: &maxDays})
	require.NoError(t, err)
	assert.Empty(t, got)

	tier := mora.TierCritical
	got, err = svc.List(context.Background(), supervisor(), WorklistFilter{Tier: &tier})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ClientID)
}

func TestWorklist_RejectsInvertedDayRange(t *testing.T) {
	svc, _ := newWorklistFixture(t, date(2024, time.June, 1), nil)

	minDays, maxDays := 40, 10
	_, err := svc.List(context.Background(), supervisor(), WorklistFilter{MinDaysLate: &minDays, MaxDaysLate: &maxDays})
	assert.True(t, domain.IsValidation(err), "expected validation error, got %v", err)
}

func TestWorklist_AdvisorScopedToPortfolio(t *testing.T) {
	today := date(2024, time.June, 1)
	rows := []repository.SummaryRow{
		{ClientID: 1, Principal: dec("500"), DueDate: today.AddDate(0, 0, -10)},
		{ClientID: 2, Principal: dec("500"), DueDate: today.AddDate(0, 0, -10)},
	}

	svc, clients := newWorklistFixture(t, today, rows)
	clients.assigned[1] = 20

	got, err := svc.List(context.Background(), advisor(20), WorklistFilter{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ClientID)
}

func TestWorklist_RejectsClientRole(t *testing.T) {
	svc, _ := newWorklistFixture(t, date(2024, time.June, 1), nil)

	_, err := svc.List(context.Background(), clientUser(5), WorklistFilter{})
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)
}

func TestWorklist_AmountAloneDrivesTier(t *testing.T) {
	today := date(2024, time.June, 1)
	rows := []repository.SummaryRow{
		// not yet due, but the amount alone makes it high tier
		{ClientID: 1, Principal: dec("5000"), DueDate: today.AddDate(0, 0, 10)},
		{ClientID: 2, Principal: dec("100"), DueDate: today.AddDate(0, 0, -16)},
	}

	svc, _ := newWorklistFixture(t, today, rows)

	got, err := svc.List(context.Background(), supervisor(), WorklistFilter{})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, int64(1), got[0].ClientID)
	assert.Equal(t, "high", got[0].Tier)
	assert.Equal(t, 0, got[0].DaysLate)
	assert.Equal(t, string(mora.BandEarly), got[0].Band)
}
