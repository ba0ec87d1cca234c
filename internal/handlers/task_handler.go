package handlers

import (
	"fmt"
	"net/http"

	"bottleflow/internal/audit"
	"bottleflow/internal/database"
	"bottleflow/internal/ledger"
	"bottleflow/internal/models"

	"github.com/gin-gonic/gin"
)

type TaskRequest struct {
	WorkerID         string `json:"worker_id" binding:"required"`
	ProductID        string `json:"product_id" binding:"required"`
	AssignedQuantity int    `json:"assigned_quantity" binding:"required,gt=0"`
	Date             string `json:"date"`
	Notes            string `json:"notes"`
}

// --- POST: /api/tasks ---
// Assigns raw bottles to a worker for washing. The ledger reserves the
// bottles so two open tasks can never claim the same stock.
func CreateTask(c *gin.Context) {
	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	date, ok := parseDateOrToday(c, req.Date)
	if !ok {
		return
	}

	var worker models.Worker
	if err := database.DB.First(&worker, "id = ? AND is_active = ?", req.WorkerID, true).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Worker not found"})
		return
	}

	tx := database.DB.Begin()
	store := database.NewStore(tx)

	product, found, err := store.Product(req.ProductID)
	if err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up product"})
		return
	}
	if !found {
		tx.Rollback()
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	task := models.Task{
		WorkerID:         req.WorkerID,
		ProductID:        req.ProductID,
		TaskType:         models.TaskTypeWashing,
		AssignedQuantity: req.AssignedQuantity,
		WashedQuantity:   0,
		Status:           models.StatusPending,
		Deduction:        float64(req.AssignedQuantity) * product.PurchasePrice,
		Date:             date,
		Notes:            req.Notes,
	}
	task.NetPay = task.Salary - task.Deduction
	if err := tx.Create(&task).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}

	// Reserve the raw bottles for this task
	ok, err = ledger.Apply(store, ledger.Movement{
		ProductID:   req.ProductID,
		Kind:        ledger.MovementAssignWash,
		Quantity:    req.AssignedQuantity,
		ReferenceID: task.ID,
		Notes:       "Assigned to " + worker.Name + " for washing",
	})
	if err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update stock"})
		return
	}
	if !ok {
		tx.Rollback()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Insufficient raw stock for " + product.Name})
		return
	}

	tx.Commit()

	task.Worker = worker
	recordAudit(c, audit.ActionCreateTask,
		fmt.Sprintf("washing task for %s - %s (%d units)", worker.Name, product.Name, task.AssignedQuantity))
	c.JSON(http.StatusCreated, task)
}

type TaskUpdateRequest struct {
	WashedQuantity int `json:"washed_quantity" binding:"min=0"`
}

// --- PUT: /api/tasks/:id ---
// Updates how many bottles the worker has washed so far. Pay fields and
// status are recomputed by the ledger; the washed delta flows into stock.
func UpdateTask(c *gin.Context) {
	var task models.Task
	if err := database.DB.Preload("Worker").First(&task, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}
	if task.TaskType != models.TaskTypeWashing {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Daily salary tasks cannot be updated"})
		return
	}

	var req TaskUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	oldWashed := task.WashedQuantity

	tx := database.DB.Begin()
	store := database.NewStore(tx)

	ok, err := ledger.UpdateWashedQuantity(store, &task, req.WashedQuantity)
	if err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}
	if !ok {
		tx.Rollback()
		c.JSON(http.StatusConflict, gin.H{"error": "Washed quantity cannot be changed; washed stock already sold"})
		return
	}

	tx.Commit()

	recordAudit(c, audit.ActionUpdateTask,
		fmt.Sprintf("Updated task for %s: washed quantity %d -> %d", task.Worker.Name, oldWashed, task.WashedQuantity))
	c.JSON(http.StatusOK, task)
}

type DailySalaryRequest struct {
	WorkerID string  `json:"worker_id" binding:"required"`
	Amount   float64 `json:"amount" binding:"required,gt=0"`
	Date     string  `json:"date"`
	Notes    string  `json:"notes"`
}

// --- POST: /api/tasks/daily-salary ---
// A fixed daily wage for non-washer workers, stored as a degenerate
// Completed task so the salary aggregation covers both wage models.
func CreateDailySalaryTask(c *gin.Context) {
	var req DailySalaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	date, ok := parseDateOrToday(c, req.Date)
	if !ok {
		return
	}

	var worker models.Worker
	if err := database.DB.First(&worker, "id = ? AND is_active = ?", req.WorkerID, true).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Worker not found"})
		return
	}

	task := ledger.NewDailySalaryTask(req.WorkerID, req.Amount, date, req.Notes)
	if err := database.DB.Create(task).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create daily salary task"})
		return
	}

	task.Worker = worker
	recordAudit(c, audit.ActionCreateDailySalary,
		fmt.Sprintf("Created daily salary task for %s - $%.2f", worker.Name, task.NetPay))
	c.JSON(http.StatusCreated, task)
}

// --- GET: /api/tasks ---
// Optional ?worker_id, ?status and ?task_type filters.
func GetTasks(c *gin.Context) {
	query := database.DB.Model(&models.Task{}).Order("date desc, created_at desc")

	if workerID := c.Query("worker_id"); workerID != "" {
		query = query.Where("worker_id = ?", workerID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if taskType := c.Query("task_type"); taskType != "" {
		query = query.Where("task_type = ?", taskType)
	}

	var tasks []models.Task
	if err := query.Preload("Worker").Find(&tasks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tasks"})
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// --- GET: /api/tasks/:id ---
func GetTask(c *gin.Context) {
	var task models.Task
	if err := database.DB.Preload("Worker").First(&task, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}
	c.JSON(http.StatusOK, task)
}

// --- GET: /api/workers/:id/tasks ---
func GetWorkerTasks(c *gin.Context) {
	query := database.DB.Model(&models.Task{}).
		Where("worker_id = ?", c.Param("id")).
		Order("date desc, created_at desc")

	query, ok := applyDateRange(c, query)
	if !ok {
		return
	}

	var tasks []models.Task
	if err := query.Find(&tasks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tasks"})
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// --- GET: /api/tasks/statistics ---
func GetTaskStatistics(c *gin.Context) {
	stats, err := database.GetTaskStatistics()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute task statistics"})
		return
	}
	c.JSON(http.StatusOK, stats)
}
