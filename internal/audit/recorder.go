// Package audit appends the immutable trail of every mutating action.
// Recording is best-effort: it never gates or rolls back the operation
// it describes.
package audit

import (
	"log"
	"time"

	"bottleflow/internal/models"

	"github.com/google/uuid"
)

// Actions recorded in the trail
const (
	ActionCreateProduct       = "CREATE_PRODUCT"
	ActionUpdateProduct       = "UPDATE_PRODUCT"
	ActionDeleteProduct       = "DELETE_PRODUCT"
	ActionCreateWorker        = "CREATE_WORKER"
	ActionUpdateWorker        = "UPDATE_WORKER"
	ActionDeleteWorker        = "DELETE_WORKER"
	ActionCreatePurchase      = "CREATE_PURCHASE"
	ActionUpdatePurchase      = "UPDATE_PURCHASE"
	ActionCreateTask          = "CREATE_TASK"
	ActionUpdateTask          = "UPDATE_TASK"
	ActionCreateDailySalary   = "CREATE_DAILY_SALARY"
	ActionCreateSalaryPayment = "CREATE_SALARY_PAYMENT"
	ActionSellStock           = "SELL_STOCK"
	ActionLogin               = "LOGIN"
	ActionLogout              = "LOGOUT"
)

// Sink is where entries land. The database package appends to the
// audit_logs table; tests use MemSink.
type Sink interface {
	AppendAudit(entry *models.AuditLog) error
}

// Entry carries the request context worth keeping alongside the action.
type Entry struct {
	Username  string
	Action    string
	Details   string
	IPAddress string
	UserAgent string
}

// Record appends a timestamped entry. Failures are logged and swallowed
// so a broken trail never blocks the mutation it describes.
func Record(sink Sink, e Entry) {
	err := sink.AppendAudit(&models.AuditLog{
		ID:        uuid.NewString(),
		Username:  e.Username,
		Action:    e.Action,
		Details:   e.Details,
		IPAddress: e.IPAddress,
		UserAgent: e.UserAgent,
		CreatedAt: time.Now(),
	})
	if err != nil {
		log.Printf("audit: failed to record %s: %v", e.Action, err)
	}
}

// MemSink keeps entries in memory, newest first.
type MemSink struct {
	entries []*models.AuditLog
}

func (m *MemSink) AppendAudit(entry *models.AuditLog) error {
	// Prepend so Entries reads newest-first like the audit screen
	m.entries = append([]*models.AuditLog{entry}, m.entries...)
	return nil
}

// Entries returns the recorded trail, most recent first.
func (m *MemSink) Entries() []*models.AuditLog {
	return m.entries
}
