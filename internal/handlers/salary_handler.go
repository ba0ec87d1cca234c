package handlers

import (
	"fmt"
	"net/http"
	"time"

	"bottleflow/internal/audit"
	"bottleflow/internal/database"
	"bottleflow/internal/ledger"
	"bottleflow/internal/models"

	"github.com/gin-gonic/gin"
)

// --- GET: /api/salaries/pending ---
// Every active worker with their pending balance, highest first.
// Pass ?include_zero=true to also list settled workers.
func GetPendingSalaries(c *gin.Context) {
	rows, err := database.GetPendingSalaries(c.Query("include_zero") == "true")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute pending salaries"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

// --- GET: /api/salaries/payments ---
func GetSalaryPayments(c *gin.Context) {
	query := database.DB.Model(&models.SalaryPayment{}).Order("date desc, created_at desc")

	if workerID := c.Query("worker_id"); workerID != "" {
		query = query.Where("worker_id = ?", workerID)
	}
	query, ok := applyDateRange(c, query)
	if !ok {
		return
	}

	var payments []models.SalaryPayment
	if err := query.Preload("Worker").Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payments"})
		return
	}
	c.JSON(http.StatusOK, payments)
}

type PaymentRequest struct {
	WorkerID      string  `json:"worker_id" binding:"required"`
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	Date          string  `json:"date"`
	PaymentMethod string  `json:"payment_method"`
	Notes         string  `json:"notes"`
}

// --- POST: /api/salaries/payments ---
// Pays a worker. The amount must not exceed the pending balance; the
// payment itself is an append-only row that never rewrites task records.
func CreateSalaryPayment(c *gin.Context) {
	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	date, ok := parseDateOrToday(c, req.Date)
	if !ok {
		return
	}

	var worker models.Worker
	if err := database.DB.First(&worker, "id = ?", req.WorkerID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Worker not found"})
		return
	}

	tx := database.DB.Begin()
	store := database.NewStore(tx)

	pending, err := ledger.PendingSalary(store, req.WorkerID)
	if err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute pending salary"})
		return
	}
	if req.Amount > pending {
		tx.Rollback()
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("Amount exceeds pending salary ($%.2f)", pending),
		})
		return
	}

	payment := models.SalaryPayment{
		WorkerID:      req.WorkerID,
		Amount:        req.Amount,
		Date:          date,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	}
	if err := ledger.RecordPayment(store, &payment); err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record payment"})
		return
	}

	tx.Commit()

	payment.Worker = worker
	recordAudit(c, audit.ActionCreateSalaryPayment,
		fmt.Sprintf("Paid $%.2f to %s", payment.Amount, worker.Name))
	c.JSON(http.StatusCreated, payment)
}

// --- GET: /api/workers/:id/salary ---
// Payment history plus an earned/paid/pending summary for one worker.
func GetWorkerSalaryHistory(c *gin.Context) {
	workerID := c.Param("id")

	var worker models.Worker
	if err := database.DB.First(&worker, "id = ?", workerID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Worker not found"})
		return
	}

	store := database.NewStore(database.DB)
	earned, err := store.TaskNetPayTotal(workerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute salary history"})
		return
	}
	paid, err := store.PaymentTotal(workerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute salary history"})
		return
	}

	var completedTasks int64
	database.DB.Model(&models.Task{}).
		Where("worker_id = ? AND status = ?", workerID, models.StatusCompleted).
		Count(&completedTasks)

	var payments []models.SalaryPayment
	if err := database.DB.Where("worker_id = ?", workerID).
		Order("date desc, created_at desc").Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"worker": gin.H{"id": worker.ID, "name": worker.Name, "role": worker.Role},
		"summary": gin.H{
			"total_tasks_completed": completedTasks,
			"total_earned":          earned,
			"total_amount_paid":     paid,
			"pending_salary":        earned - paid,
		},
		"payments": payments,
	})
}

// --- GET: /api/salaries/summary ---
func GetSalarySummary(c *gin.Context) {
	rows, err := database.GetPendingSalaries(true)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute salary summary"})
		return
	}

	var totalPending float64
	var workersWithPending int
	for _, r := range rows {
		if r.PendingSalary > 0 {
			totalPending += r.PendingSalary
			workersWithPending++
		}
	}

	monthStart := time.Date(time.Now().Year(), time.Now().Month(), 1, 0, 0, 0, 0, time.Local)
	var paidThisMonth float64
	var paymentsThisMonth int64
	database.DB.Model(&models.SalaryPayment{}).
		Where("date >= ?", monthStart).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&paidThisMonth)
	database.DB.Model(&models.SalaryPayment{}).
		Where("date >= ?", monthStart).
		Count(&paymentsThisMonth)

	var paidAllTime float64
	database.DB.Model(&models.SalaryPayment{}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&paidAllTime)

	c.JSON(http.StatusOK, gin.H{
		"total_pending":         totalPending,
		"total_paid_this_month": paidThisMonth,
		"total_paid_all_time":   paidAllTime,
		"workers_with_pending":  workersWithPending,
		"payments_this_month":   paymentsThisMonth,
	})
}
