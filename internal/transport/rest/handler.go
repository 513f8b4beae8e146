package rest

import (
	"context"
	"net/http"
	"time"

	"audicob/internal/domain"
	"audicob/internal/repository"
	"audicob/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"
)

type DebtReader interface {
	Consult(ctx context.Context, user *domain.User, clientID int64) (*service.DebtDetail, error)
	RecomputeAndStore(ctx context.Context, user *domain.User, clientID int64) (*domain.Debt, error)
}

type StateMachine interface {
	RequestTransition(ctx context.Context, user *domain.User, req service.TransitionRequest) (*domain.StateTransition, error)
	History(ctx context.Context, user *domain.User, clientID int64) ([]domain.StateTransition, error)
}

type PaymentProcessor interface {
	ApplyPayment(ctx context.Context, user *domain.User, req service.ApplyPaymentRequest) (*domain.Payment, error)
	ValidatePayment(ctx context.Context, approver *domain.User, paymentID int64, note string) (*domain.Payment, error)
	PendingValidations(ctx context.Context, user *domain.User, limit int) ([]domain.Payment, error)
}

type WorklistReader interface {
	List(ctx context.Context, user *domain.User, f service.WorklistFilter) ([]domain.ClientDelinquencySummary, error)
}

type StatementReader interface {
	Statement(ctx context.Context, user *domain.User, clientID int64, f repository.StatementFilter) ([]domain.Transaction, error)
	StartStatementExport(ctx context.Context, user *domain.User, clientID int64, f repository.StatementFilter) (string, error)
	GetExports(ctx context.Context, userID int64) ([]map[string]interface{}, error)
	GetExport(ctx context.Context, exportID string, userID int64) (map[string]interface{}, error)
}

type DashboardReader interface {
	Overview(ctx context.Context, user *domain.User) (*service.DashboardOverview, error)
}

type NotificationManager interface {
	List(ctx context.Context, userID int64) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id, userID int64) error
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
}

type CreditManager interface {
	AssignCreditLine(ctx context.Context, approver *domain.User, clientID int64, amount decimal.Decimal) (*domain.CreditLine, error)
	CreditLine(ctx context.Context, user *domain.User, clientID int64) (*domain.CreditLine, error)
}

type AdvisorManager interface {
	AssignClient(ctx context.Context, supervisor *domain.User, advisorID, clientID int64) (*domain.AdvisorAssignment, error)
	Portfolio(ctx context.Context, advisor *domain.User) ([]domain.AdvisorAssignment, error)
	Unassigned(ctx context.Context, user *domain.User, searchTerm string) ([]domain.Client, error)
	LookupClient(ctx context.Context, user *domain.User, document string) (*domain.Client, error)
}

type Handler struct {
	debts         DebtReader
	states        StateMachine
	payments      PaymentProcessor
	worklist      WorklistReader
	statements    StatementReader
	dashboard     DashboardReader
	notifications NotificationManager
	credit        CreditManager
	advisors      AdvisorManager
}

func NewHandler(
	debts DebtReader,
	states StateMachine,
	payments PaymentProcessor,
	worklist WorklistReader,
	statements StatementReader,
	dashboard DashboardReader,
	notifications NotificationManager,
	credit CreditManager,
	advisors AdvisorManager,
) *Handler {
	return &Handler{
		debts:         debts,
		states:        states,
		payments:      payments,
		worklist:      worklist,
		statements:    statements,
		dashboard:     dashboard,
		notifications: notifications,
		credit:        credit,
		advisors:      advisors,
	}
}

func (h *Handler) InitRouter(authMiddleware func(http.Handler) http.Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		middleware.Timeout(60*time.Second),
	)

	if authMiddleware != nil {
		r.Use(authMiddleware)
	}

	r.Route("/clients", func(r chi.Router) {
		r.Get("/lookup", h.lookupClient)

		r.Route("/{client_id}", func(r chi.Router) {
			r.Get("/debt", h.consultDebt)
			r.Post("/debt/recompute", h.recomputeDebt)

			r.Get("/statement", h.getStatement)
			r.Post("/statement/export", h.exportStatement)

			r.Get("/state/history", h.stateHistory)
			r.Post("/state", h.changeState)

			r.Post("/payments", h.applyPayment)

			r.Get("/credit-line", h.getCreditLine)
			r.Post("/credit-line", h.assignCreditLine)
		})
	})

	r.Route("/payments", func(r chi.Router) {
		r.Get("/pending", h.pendingPayments)
		r.Post("/{payment_id}/validate", h.validatePayment)
	})

	r.Get("/worklist", h.getWorklist)
	r.Get("/dashboard", h.getDashboard)

	r.Route("/exports", func(r chi.Router) {
		r.Get("/", h.listExports)
		r.Get("/{export_id}", h.getExport)
	})

	r.Route("/notifications", func(r chi.Router) {
		r.Get("/", h.listNotifications)
		r.Post("/read-all", h.readAllNotifications)
		r.Post("/{notification_id}/read", h.readNotification)
	})

	r.Route("/assignments", func(r chi.Router) {
		r.Get("/portfolio", h.getPortfolio)
		r.Get("/unassigned", h.listUnassigned)
		r.Post("/", h.assignClient)
	})

	return r
}
