package service

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"audicob/internal/clients"
	"audicob/internal/domain"
	"audicob/internal/mora"
	"audicob/internal/repository"

	"github.com/shopspring/decimal"
)

type SummaryLister interface {
	ListSummaries(ctx context.Context, f repository.SummariesFilter) ([]repository.SummaryRow, error)
}

// WorklistFilter narrows the prioritized list. Search, amount and advisor
// filters run in SQL; days late and tier are derived per row and applied
// here after classification.
type WorklistFilter struct {
	SearchTerm  *string
	AmountMin   *decimal.Decimal
	AmountMax   *decimal.Decimal
	AdvisorID   *int64
	MinDaysLate *int
	MaxDaysLate *int
	Tier        *mora.Tier
}

func (f WorklistFilter) isZero() bool {
	return f.SearchTerm == nil && f.AmountMin == nil && f.AmountMax == nil &&
		f.AdvisorID == nil && f.MinDaysLate == nil && f.MaxDaysLate == nil &&
		f.Tier == nil
}

const (
	worklistCacheKey = "worklist_default"
	worklistCacheTTL = 60 * time.Second
)

// WorklistService produces the collection queue: every client annotated
// with the delinquency figures of the day, ordered worst first.
type WorklistService struct {
	clients SummaryLister
	redis   *clients.RedisClient

	now func() time.Time
}

func NewWorklistService(clientsRepo SummaryLister, redis *clients.RedisClient) *WorklistService {
	return &WorklistService{
		clients: clientsRepo,
		redis:   redis,
		now:     time.Now,
	}
}

func (s *WorklistService) List(
	ctx context.Context,
	user *domain.User,
	f WorklistFilter,
) ([]domain.ClientDelinquencySummary, error) {
	if user == nil {
		return nil, domain.ErrNotAuthorized
	}

	switch user.Role {
	case domain.RoleAdministrator, domain.RoleSupervisor:
	case domain.RoleAdvisor:
		// Advisors only ever see their own portfolio.
		f.AdvisorID = &user.ID
	default:
		return nil, domain.ErrNotAuthorized
	}

	if f.MinDaysLate != nil && f.MaxDaysLate != nil && *f.MinDaysLate > *f.MaxDaysLate {
		return nil, domain.NewValidationError("min_days_late", "min_days_late must not exceed max_days_late")
	}

	if f.isZero() {
		if cached, ok := s.fromCache(ctx); ok {
			return cached, nil
		}
	}

	rows, err := s.clients.ListSummaries(ctx, repository.SummariesFilter{
		SearchTerm: f.SearchTerm,
		AmountMin:  f.AmountMin,
		AmountMax:  f.AmountMax,
		AdvisorID:  f.AdvisorID,
	})
	if err != nil {
		return nil, err
	}

	today := s.now()
	summaries := make([]domain.ClientDelinquencySummary, 0, len(rows))
	for _, row := range rows {
		days := mora.DaysLate(row.DueDate, today)
		tier := mora.ClassifyTier(days, row.Principal)

		if f.MinDaysLate != nil && days < *f.MinDaysLate {
			continue
		}
		if f.MaxDaysLate != nil && days > *f.MaxDaysLate {
			continue
		}
		if f.Tier != nil && tier != *f.Tier {
			continue
		}

		summaries = append(summaries, domain.ClientDelinquencySummary{
			ClientID:    row.ClientID,
			Name:        row.Name,
			Document:    row.Document,
			Outstanding: row.Principal,
			DaysLate:    days,
			State:       row.State,
			Tier:        tier.String(),
			Band:        string(mora.BandForDays(days)),
		})
	}

	sortWorklist(summaries)

	if f.isZero() {
		s.toCache(ctx, summaries)
	}

	return summaries, nil
}

// sortWorklist orders worst first: tier, then days late, then amount, all
// descending. The sort is stable so equal rows keep their query order and
// repeated calls return the same sequence.
func sortWorklist(rows []domain.ClientDelinquencySummary) {
	rank := func(tier string) int {
		t, _ := mora.ParseTier(tier)
		return int(t)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rank(rows[i].Tier) != rank(rows[j].Tier) {
			return rank(rows[i].Tier) > rank(rows[j].Tier)
		}
		if rows[i].DaysLate != rows[j].DaysLate {
			return rows[i].DaysLate > rows[j].DaysLate
		}
		return rows[i].Outstanding.GreaterThan(rows[j].Outstanding)
	})
}

func (s *WorklistService) fromCache(ctx context.Context) ([]domain.ClientDelinquencySummary, bool) {
	if s.redis == nil {
		return nil, false
	}

	data, err := s.redis.Get(ctx, worklistCacheKey)
	if err != nil || data == "" {
		return nil, false
	}

	var summaries []domain.ClientDelinquencySummary
	if err := json.Unmarshal([]byte(data), &summaries); err != nil {
		return nil, false
	}
	return summaries, true
}

func (s *WorklistService) toCache(ctx context.Context, summaries []domain.ClientDelinquencySummary) {
	if s.redis == nil {
		return
	}

	data, err := json.Marshal(summaries)
	if err != nil {
		return
	}
	_ = s.redis.Set(ctx, worklistCacheKey, string(data), worklistCacheTTL)
}
