package rest

import (
	"time"

	"audicob/internal/domain"
	"audicob/internal/service"
)

// View structs shape the JSON envelope payloads. Money is rendered as a
// fixed two-decimal string, timestamps as RFC 3339.

type clientView struct {
	ID            int64   `json:"id"`
	Document      string  `json:"document"`
	Name          string  `json:"name"`
	MonthlyIncome string  `json:"monthly_income"`
	TotalDebt     string  `json:"total_debt"`
	State         string  `json:"delinquency_state"`
	UserID        *int64  `json:"user_id"`
	UpdatedAt     string  `json:"updated_at"`
}

func toClientView(c *domain.Client) clientView {
	return clientView{
		ID:            c.ID,
		Document:      c.Document,
		Name:          c.Name,
		MonthlyIncome: c.MonthlyIncome.StringFixed(2),
		TotalDebt:     c.TotalDebt.StringFixed(2),
		State:         c.State.String(),
		UserID:        c.UserID,
		UpdatedAt:     c.UpdatedAt.Format(time.RFC3339),
	}
}

type debtDetailView struct {
	Client clientView `json:"client"`

	DebtID         int64  `json:"debt_id"`
	Principal      string `json:"principal"`
	DueDate        string `json:"due_date"`
	DaysLate       int    `json:"days_late"`
	Penalty        string `json:"penalty"`
	TotalDue       string `json:"total_due"`
	Tier           string `json:"tier"`
	Band           string `json:"band"`
}

func toDebtDetailView(d *service.DebtDetail) debtDetailView {
	return debtDetailView{
		Client:    toClientView(d.Client),
		DebtID:    d.Debt.ID,
		Principal: d.Debt.Principal.StringFixed(2),
		DueDate:   d.Debt.DueDate.Format("2006-01-02"),
		DaysLate:  d.DaysLate,
		Penalty:   d.Penalty.StringFixed(2),
		TotalDue:  d.TotalDue.StringFixed(2),
		Tier:      d.Tier.String(),
		Band:      string(d.Band),
	}
}

type debtSnapshotView struct {
	DebtID         int64  `json:"debt_id"`
	ClientID       int64  `json:"client_id"`
	Principal      string `json:"principal"`
	DueDate        string `json:"due_date"`
	AccruedPenalty string `json:"accrued_penalty"`
	TotalDue       string `json:"total_due"`
	Classification string `json:"classification"`
}

func toDebtSnapshotView(d *domain.Debt) debtSnapshotView {
	return debtSnapshotView{
		DebtID:         d.ID,
		ClientID:       d.ClientID,
		Principal:      d.Principal.StringFixed(2),
		DueDate:        d.DueDate.Format("2006-01-02"),
		AccruedPenalty: d.AccruedPenalty.StringFixed(2),
		TotalDue:       d.TotalDue.StringFixed(2),
		Classification: d.Classification,
	}
}

type transitionView struct {
	ID        int64   `json:"id"`
	ClientID  int64   `json:"client_id"`
	PrevState string  `json:"prev_state"`
	NewState  string  `json:"new_state"`
	UserID    int64   `json:"user_id"`
	ChangedAt string  `json:"changed_at"`
	Reason    string  `json:"reason"`
	Notes     *string `json:"notes"`
	IPAddress string  `json:"ip_address"`
	UserAgent string  `json:"user_agent"`
}

func toTransitionView(t *domain.StateTransition) transitionView {
	return transitionView{
		ID:        t.ID,
		ClientID:  t.ClientID,
		PrevState: t.PrevState.String(),
		NewState:  t.NewState.String(),
		UserID:    t.UserID,
		ChangedAt: t.ChangedAt.Format(time.RFC3339),
		Reason:    t.Reason,
		Notes:     t.Notes,
		IPAddress: t.Origin.IPAddress,
		UserAgent: t.Origin.UserAgent,
	}
}

type paymentView struct {
	ID           int64   `json:"id"`
	ClientID     int64   `json:"client_id"`
	DebtID       int64   `json:"debt_id"`
	Amount       string  `json:"amount"`
	Date         string  `json:"date"`
	Method       string  `json:"method"`
	Status       string  `json:"status"`
	Note         *string `json:"note"`
	Validated    bool    `json:"validated"`
	ValidatedBy  *int64  `json:"validated_by"`
	ValidatedAt  *string `json:"validated_at"`
	ApprovalNote *string `json:"approval_note"`
}

func toPaymentView(p *domain.Payment) paymentView {
	v := paymentView{
		ID:           p.ID,
		ClientID:     p.ClientID,
		DebtID:       p.DebtID,
		Amount:       p.Amount.StringFixed(2),
		Date:         p.Date.Format(time.RFC3339),
		Method:       p.Method,
		Status:       string(p.Status),
		Note:         p.Note,
		Validated:    p.Validated,
		ValidatedBy:  p.ValidatedBy,
		ApprovalNote: p.ApprovalNote,
	}
	if p.ValidatedAt != nil {
		s := p.ValidatedAt.Format(time.RFC3339)
		v.ValidatedAt = &s
	}
	return v
}

type summaryView struct {
	ClientID    int64  `json:"client_id"`
	Name        string `json:"name"`
	Document    string `json:"document"`
	Outstanding string `json:"outstanding"`
	DaysLate    int    `json:"days_late"`
	State       string `json:"delinquency_state"`
	Tier        string `json:"tier"`
	Band        string `json:"band"`
}

func toSummaryView(s domain.ClientDelinquencySummary) summaryView {
	return summaryView{
		ClientID:    s.ClientID,
		Name:        s.Name,
		Document:    s.Document,
		Outstanding: s.Outstanding.StringFixed(2),
		DaysLate:    s.DaysLate,
		State:       s.State.String(),
		Tier:        s.Tier,
		Band:        s.Band,
	}
}

type transactionView struct {
	ID          int64  `json:"id"`
	ClientID    int64  `json:"client_id"`
	Number      string `json:"number"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Method      string `json:"method"`
	Status      string `json:"status"`
}

func toTransactionView(t domain.Transaction) transactionView {
	return transactionView{
		ID:          t.ID,
		ClientID:    t.ClientID,
		Number:      t.Number,
		Date:        t.Date.Format(time.RFC3339),
		Description: t.Description,
		Amount:      t.Amount.StringFixed(2),
		Method:      t.Method,
		Status:      t.Status,
	}
}

type notificationView struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"created_at"`
}

func toNotificationView(n domain.Notification) notificationView {
	return notificationView{
		ID:        n.ID,
		Title:     n.Title,
		Body:      n.Body,
		Read:      n.Read,
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
	}
}

type creditLineView struct {
	ID         int64  `json:"id"`
	ClientID   int64  `json:"client_id"`
	Amount     string `json:"amount"`
	AssignedBy int64  `json:"assigned_by"`
	AssignedAt string `json:"assigned_at"`
}

func toCreditLineView(cl *domain.CreditLine) creditLineView {
	return creditLineView{
		ID:         cl.ID,
		ClientID:   cl.ClientID,
		Amount:     cl.Amount.StringFixed(2),
		AssignedBy: cl.AssignedBy,
		AssignedAt: cl.AssignedAt.Format(time.RFC3339),
	}
}

type assignmentView struct {
	ID         int64  `json:"id"`
	AdvisorID  int64  `json:"advisor_id"`
	ClientID   int64  `json:"client_id"`
	AssignedAt string `json:"assigned_at"`
}

func toAssignmentView(a domain.AdvisorAssignment) assignmentView {
	return assignmentView{
		ID:         a.ID,
		AdvisorID:  a.AdvisorID,
		ClientID:   a.ClientID,
		AssignedAt: a.AssignedAt.Format(time.RFC3339),
	}
}

type dashboardView struct {
	ClientCount        int64            `json:"client_count"`
	TotalOutstanding   string           `json:"total_outstanding"`
	CollectedThisMonth string           `json:"collected_this_month"`
	MonthlyCollected   []monthTotalView `json:"monthly_collected"`
	TopDebtors         []topDebtorView  `json:"top_debtors"`
	PendingValidations []paymentView    `json:"pending_validations"`
}

type monthTotalView struct {
	Year  int    `json:"year"`
	Month int    `json:"month"`
	Total string `json:"total"`
}

type topDebtorView struct {
	ClientID    int64  `json:"client_id"`
	Name        string `json:"name"`
	Document    string `json:"document"`
	Outstanding string `json:"outstanding"`
	DaysLate    int    `json:"days_late"`
	Tier        string `json:"tier"`
}

func toDashboardView(o *service.DashboardOverview) dashboardView {
	view := dashboardView{
		ClientCount:        o.ClientCount,
		TotalOutstanding:   o.TotalOutstanding.StringFixed(2),
		CollectedThisMonth: o.CollectedThisMonth.StringFixed(2),
		MonthlyCollected:   make([]monthTotalView, 0, len(o.MonthlyCollected)),
		TopDebtors:         make([]topDebtorView, 0, len(o.TopDebtors)),
		PendingValidations: make([]paymentView, 0, len(o.PendingValidations)),
	}

	for _, m := range o.MonthlyCollected {
		view.MonthlyCollected = append(view.MonthlyCollected, monthTotalView{
			Year:  m.Year,
			Month: m.Month,
			Total: m.Total.StringFixed(2),
		})
	}
	for _, d := range o.TopDebtors {
		view.TopDebtors = append(view.TopDebtors, topDebtorView{
			ClientID:    d.ClientID,
			Name:        d.Name,
			Document:    d.Document,
			Outstanding: d.Outstanding.StringFixed(2),
			DaysLate:    d.DaysLate,
			Tier:        d.Tier,
		})
	}
	for _, p := range o.PendingValidations {
		view.PendingValidations = append(view.PendingValidations, toPaymentView(&p))
	}

	return view
}
