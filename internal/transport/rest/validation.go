package rest

import (
	"net/http"
	"strconv"
	"time"

	"audicob/internal/mora"
	"audicob/internal/repository"
	"audicob/internal/service"

	"github.com/shopspring/decimal"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ParseStatementFilter reads the statement query parameters. Empty
// parameters mean no constraint; dates are calendar days and both ends of
// each range are inclusive.
func ParseStatementFilter(r *http.Request) (repository.StatementFilter, error) {
	var f repository.StatementFilter
	q := r.URL.Query()

	if s := q.Get("search_term"); s != "" {
		f.SearchTerm = &s
	}

	min, err := queryDecimal(q.Get("amount_min"))
	if err != nil {
		return f, &ValidationError{Field: "amount_min", Message: "amount_min must be a number"}
	}
	f.AmountMin = min

	max, err := queryDecimal(q.Get("amount_max"))
	if err != nil {
		return f, &ValidationError{Field: "amount_max", Message: "amount_max must be a number"}
	}
	f.AmountMax = max

	from, err := queryDate(q.Get("date_from"))
	if err != nil {
		return f, &ValidationError{Field: "date_from", Message: "date_from must be YYYY-MM-DD"}
	}
	f.DateFrom = from

	to, err := queryDate(q.Get("date_to"))
	if err != nil {
		return f, &ValidationError{Field: "date_to", Message: "date_to must be YYYY-MM-DD"}
	}
	f.DateTo = to

	return f, nil
}

func ParseWorklistFilter(r *http.Request) (service.WorklistFilter, error) {
	var f service.WorklistFilter
	q := r.URL.Query()

	if s := q.Get("search_term"); s != "" {
		f.SearchTerm = &s
	}

	min, err := queryDecimal(q.Get("amount_min"))
	if err != nil {
		return f, &ValidationError{Field: "amount_min", Message: "amount_min must be a number"}
	}
	f.AmountMin = min

	max, err := queryDecimal(q.Get("amount_max"))
	if err != nil {
		return f, &ValidationError{Field: "amount_max", Message: "amount_max must be a number"}
	}
	f.AmountMax = max

	if s := q.Get("advisor_id"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return f, &ValidationError{Field: "advisor_id", Message: "advisor_id must be an integer"}
		}
		f.AdvisorID = &id
	}

	if s := q.Get("min_days_late"); s != "" {
		days, err := strconv.Atoi(s)
		if err != nil || days < 0 {
			return f, &ValidationError{Field: "min_days_late", Message: "min_days_late must be a non-negative integer"}
		}
		f.MinDaysLate = &days
	}

	if s := q.Get("max_days_late"); s != "" {
		days, err := strconv.Atoi(s)
		if err != nil || days < 0 {
			return f, &ValidationError{Field: "max_days_late", Message: "max_days_late must be a non-negative integer"}
		}
		f.MaxDaysLate = &days
	}

	if s := q.Get("tier"); s != "" {
		tier, ok := mora.ParseTier(s)
		if !ok {
			return f, &ValidationError{Field: "tier", Message: "tier must be one of low, medium, high, critical"}
		}
		f.Tier = &tier
	}

	return f, nil
}

func queryDecimal(s string) (*decimal.Decimal, error) {
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func queryDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// URLParamInt64 parses a chi route parameter as a positive id.
func URLParamInt64(s, field string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, &ValidationError{Field: field, Message: field + " must be a positive integer"}
	}
	return id, nil
}
