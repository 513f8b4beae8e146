package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"sort"
	"time"

	"audicob/internal/clients"
	"audicob/internal/domain"
	"audicob/internal/repository"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

type TransactionLister interface {
	ListByClient(ctx context.Context, clientID int64, f repository.StatementFilter) ([]domain.Transaction, error)
}

type ExportStatus struct {
	Key      string    `json:"key"`
	Type     string    `json:"type"`
	UserID   int64     `json:"user_id"`
	ClientID int64     `json:"client_id"`
	Filters  any       `json:"filters"`
	Progress float64   `json:"progress"`
	FileURL  *string   `json:"file_url"`
	Error    *string   `json:"error,omitempty"`
	Created  time.Time `json:"created_at"`
}

const (
	exportSetKey = "statement_export_ids"
	exportTTL    = 20 * time.Minute
)

// StatementService serves the account history: the filtered statement view
// and its XLSX export, generated in the background with progress pushed
// over websocket and tracked in redis.
type StatementService struct {
	transactions TransactionLister
	authz        *Authorizer
	redis        *clients.RedisClient
	s3           *clients.S3Client
	storage      *clients.StorageClient
	ws           *clients.WebSocketClient
}

func NewStatementService(
	transactions TransactionLister,
	authz *Authorizer,
	redis *clients.RedisClient,
	s3 *clients.S3Client,
	storage *clients.StorageClient,
	ws *clients.WebSocketClient,
) *StatementService {
	return &StatementService{
		transactions: transactions,
		authz:        authz,
		redis:        redis,
		s3:           s3,
		storage:      storage,
		ws:           ws,
	}
}

func (s *StatementService) Statement(
	ctx context.Context,
	user *domain.User,
	clientID int64,
	f repository.StatementFilter,
) ([]domain.Transaction, error) {
	if err := s.authz.CanActOnClient(ctx, user, clientID); err != nil {
		return nil, err
	}
	if f.AmountMin != nil && f.AmountMax != nil && f.AmountMin.GreaterThan(*f.AmountMax) {
		return nil, domain.NewValidationError("amount_min", "amount_min must not exceed amount_max")
	}
	if f.DateFrom != nil && f.DateTo != nil && f.DateFrom.After(*f.DateTo) {
		return nil, domain.NewValidationError("date_from", "date_from must not be after date_to")
	}
	return s.transactions.ListByClient(ctx, clientID, f)
}

type statementColumn struct {
	Header string
	Value  func(t domain.Transaction) any
}

var statementColumns = []statementColumn{
	{Header: "Número", Value: func(t domain.Transaction) any { return t.Number }},
	{Header: "Fecha", Value: func(t domain.Transaction) any { return t.Date.Format("2006-01-02 15:04:05") }},
	{Header: "Descripción", Value: func(t domain.Transaction) any { return t.Description }},
	{Header: "Monto", Value: func(t domain.Transaction) any { return t.Amount.StringFixed(2) }},
	{Header: "Método", Value: func(t domain.Transaction) any { return t.Method }},
	{Header: "Estado", Value: func(t domain.Transaction) any { return t.Status }},
}

func (s *StatementService) StartStatementExport(
	ctx context.Context,
	user *domain.User,
	clientID int64,
	f repository.StatementFilter,
) (string, error) {
	if err := s.authz.CanActOnClient(ctx, user, clientID); err != nil {
		return "", err
	}

	exportID := fmt.Sprintf("statement_exports:%s", uuid.NewString())
	now := time.Now()

	status := &ExportStatus{
		Key:      exportID,
		Type:     "statement",
		UserID:   user.ID,
		ClientID: clientID,
		Filters:  buildStatementFiltersMap(f),
		Progress: 0,
		Created:  now,
	}

	_ = s.saveExportStatus(ctx, status)

	go s.runStatementExport(context.Background(), status, f)

	return exportID, nil
}

func (s *StatementService) runStatementExport(
	ctx context.Context,
	status *ExportStatus,
	f repository.StatementFilter,
) {
	transactions, err := s.transactions.ListByClient(ctx, status.ClientID, f)
	if err != nil {
		s.failExport(ctx, status, fmt.Sprintf("failed to read statement: %v", err))
		return
	}

	file := excelize.NewFile()
	sheet := "Estado de cuenta"
	file.SetSheetName(file.GetSheetName(0), sheet)

	_ = file.SetDocProps(&excelize.DocProperties{
		Creator: fmt.Sprintf("user_%d", status.UserID),
	})

	for i, col := range statementColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = file.SetCellValue(sheet, cell, col.Header)
	}

	total := len(transactions)
	chunkSize := 500
	rowIdx := 2

	for i, t := range transactions {
		for colIdx, col := range statementColumns {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx)
			_ = file.SetCellValue(sheet, cell, col.Value(t))
		}
		rowIdx++

		if (i+1)%chunkSize == 0 || i == total-1 {
			progress := math.Round(float64(i+1) / float64(total) * 100.0)
			// 100% is reserved for when the file URL is ready.
			if progress >= 100 {
				progress = 95
			}
			s.reportProgress(ctx, status, progress, "generating")
		}
	}

	buf, err := file.WriteToBuffer()
	if err != nil {
		s.failExport(ctx, status, fmt.Sprintf("failed to write workbook: %v", err))
		return
	}
	data := buf.Bytes()

	fileName := fmt.Sprintf("statement_%d_%s.xlsx", status.ClientID, time.Now().Format("20060102_150405"))

	s.reportProgress(ctx, status, 95, "uploading")

	url, err := s.store(ctx, fileName, data)
	if err != nil {
		s.failExport(ctx, status, fmt.Sprintf("failed to store file: %v", err))
		return
	}

	status.FileURL = &url
	status.Progress = 100
	_ = s.saveExportStatus(ctx, status)

	if s.ws != nil {
		_ = s.ws.NotifyExportProgress(ctx, status.UserID, status.Key, 100, "ready")
		_ = s.ws.NotifyExportComplete(ctx, status.UserID, status.Key, url, fileName)
	}
}

// store uploads to S3 when configured and falls back to local disk storage
// otherwise.
func (s *StatementService) store(ctx context.Context, fileName string, data []byte) (string, error) {
	if s.s3 != nil {
		key, err := s.s3.UploadXLSX(ctx, fileName, data)
		if err != nil {
			return "", err
		}
		return s.s3.GetTemporaryURL(ctx, key, 48*time.Hour)
	}

	if s.storage != nil {
		if _, err := s.storage.Save(ctx, fileName, data); err != nil {
			return "", err
		}
		return s.storage.GetURL(fileName), nil
	}

	return "", errors.New("no file storage configured")
}

func (s *StatementService) reportProgress(ctx context.Context, status *ExportStatus, progress float64, stage string) {
	status.Progress = progress
	_ = s.saveExportStatus(ctx, status)
	if s.ws != nil {
		_ = s.ws.NotifyExportProgress(ctx, status.UserID, status.Key, progress, stage)
	}
}

func (s *StatementService) failExport(ctx context.Context, status *ExportStatus, msg string) {
	log.Printf("statement export %s failed: %s", status.Key, msg)

	status.Error = &msg
	_ = s.saveExportStatus(ctx, status)
	if s.ws != nil {
		_ = s.ws.NotifyExportFailed(ctx, status.UserID, status.Key, msg)
	}
}

func (s *StatementService) saveExportStatus(ctx context.Context, st *ExportStatus) error {
	if s.redis == nil {
		return nil
	}

	data, err := json.Marshal(st)
	if err != nil {
		return err
	}

	if err := s.redis.Set(ctx, st.Key, string(data), exportTTL); err != nil {
		return err
	}

	return s.redis.SAdd(ctx, exportSetKey, st.Key)
}

func (s *StatementService) GetExports(ctx context.Context, userID int64) ([]map[string]interface{}, error) {
	if s.redis == nil {
		return nil, errors.New("redis client not configured")
	}

	keys, err := s.redis.SMembers(ctx, exportSetKey)
	if err != nil {
		return nil, fmt.Errorf("failed to get export keys: %w", err)
	}

	var statuses []ExportStatus
	for _, key := range keys {
		data, err := s.redis.Get(ctx, key)
		if err != nil {
			// the status expired; drop the dead id so the set stays bounded
			_ = s.redis.SRem(ctx, exportSetKey, key)
			continue
		}

		var status ExportStatus
		if err := json.Unmarshal([]byte(data), &status); err != nil {
			_ = s.redis.SRem(ctx, exportSetKey, key)
			continue
		}

		if status.UserID == userID {
			statuses = append(statuses, status)
		}
	}

	sort.Slice(statuses, func(i, j int) bool {
		return statuses[i].Created.After(statuses[j].Created)
	})

	exports := make([]map[string]interface{}, 0, len(statuses))
	for _, status := range statuses {
		exports = append(exports, exportMap(status))
	}

	return exports, nil
}

func (s *StatementService) GetExport(ctx context.Context, exportID string, userID int64) (map[string]interface{}, error) {
	if s.redis == nil {
		return nil, errors.New("redis client not configured")
	}

	data, err := s.redis.Get(ctx, exportID)
	if err != nil {
		return nil, domain.ErrNotFound
	}

	var status ExportStatus
	if err := json.Unmarshal([]byte(data), &status); err != nil {
		return nil, fmt.Errorf("failed to parse export status: %w", err)
	}

	if status.UserID != userID {
		return nil, domain.ErrNotFound
	}

	return exportMap(status), nil
}

func exportMap(status ExportStatus) map[string]interface{} {
	return map[string]interface{}{
		"key":        status.Key,
		"type":       status.Type,
		"user_id":    status.UserID,
		"client_id":  status.ClientID,
		"progress":   status.Progress,
		"file_url":   status.FileURL,
		"error":      status.Error,
		"filters":    status.Filters,
		"created_at": humanizeAgo(status.Created),
	}
}

// humanizeAgo renders the export age the way the web client shows it.
func humanizeAgo(t time.Time) string {
	now := time.Now()
	if t.After(now) {
		return "recién"
	}

	diff := now.Sub(t)
	minutes := int(diff.Minutes())
	if minutes < 1 {
		return "recién"
	}
	if minutes < 60 {
		return fmt.Sprintf("hace %d min", minutes)
	}
	hours := minutes / 60
	if hours < 24 {
		if hours == 1 {
			return "hace 1 hora"
		}
		return fmt.Sprintf("hace %d horas", hours)
	}
	days := hours / 24
	if days < 30 {
		if days == 1 {
			return "hace 1 día"
		}
		return fmt.Sprintf("hace %d días", days)
	}
	return t.Format("02/01/2006 15:04")
}

func buildStatementFiltersMap(f repository.StatementFilter) map[string]interface{} {
	m := map[string]interface{}{}
	if f.SearchTerm != nil {
		m["search_term"] = *f.SearchTerm
	} else {
		m["search_term"] = nil
	}
	if f.AmountMin != nil {
		m["amount_min"] = f.AmountMin.String()
	} else {
		m["amount_min"] = nil
	}
	if f.AmountMax != nil {
		m["amount_max"] = f.AmountMax.String()
	} else {
		m["amount_max"] = nil
	}
	if f.DateFrom != nil {
		m["date_from"] = f.DateFrom.Format("2006-01-02")
	} else {
		m["date_from"] = nil
	}
	if f.DateTo != nil {
		m["date_to"] = f.DateTo.Format("2006-01-02")
	} else {
		m["date_to"] = nil
	}
	return m
}
