package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"bottleflow/internal/audit"
	"bottleflow/internal/database"
	"bottleflow/internal/mailer"
	"bottleflow/internal/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// --- GET: List active workers ---
func GetWorkers(c *gin.Context) {
	var workers []models.Worker
	if err := database.DB.Where("is_active = ?", true).Order("name").Find(&workers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch workers"})
		return
	}
	c.JSON(http.StatusOK, workers)
}

// --- GET: Single worker ---
func GetWorker(c *gin.Context) {
	var worker models.Worker
	if err := database.DB.First(&worker, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Worker not found"})
		return
	}
	c.JSON(http.StatusOK, worker)
}

type WorkerRequest struct {
	Name        string `json:"name" binding:"required"`
	PhoneNumber string `json:"phone_number" binding:"required"`
	IDNumber    string `json:"id_number" binding:"required"`
	Role        string `json:"role"`
	Email       string `json:"email"`
}

// --- POST: Add a new worker ---
// A Manager needs an email: we provision a dashboard login for them and
// mail the generated credentials.
func AddWorker(c *gin.Context) {
	var input WorkerRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if input.Role == "" {
		input.Role = "Washer"
	}
	if input.Role == "Manager" && input.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Manager workers require an email address"})
		return
	}

	worker := models.Worker{
		Name:        input.Name,
		PhoneNumber: input.PhoneNumber,
		IDNumber:    input.IDNumber,
		Role:        input.Role,
		Email:       input.Email,
		IsActive:    true,
	}
	if err := database.DB.Create(&worker).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Worker with this ID number already exists"})
		return
	}

	// Provision the manager's login account
	if worker.Role == "Manager" {
		if err := provisionManagerAccount(&worker); err != nil {
			log.Println("Failed to provision manager account:", err)
		}
	}

	recordAudit(c, audit.ActionCreateWorker, fmt.Sprintf("Created worker: %s (%s)", worker.Name, worker.IDNumber))
	c.JSON(http.StatusCreated, worker)
}

// --- PUT: Update a worker ---
func UpdateWorker(c *gin.Context) {
	var worker models.Worker
	if err := database.DB.First(&worker, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Worker not found"})
		return
	}

	var input WorkerRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if input.Role == "Manager" && input.Email == "" && worker.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Manager workers require an email address"})
		return
	}

	oldName := worker.Name
	worker.Name = input.Name
	worker.PhoneNumber = input.PhoneNumber
	worker.IDNumber = input.IDNumber
	if input.Role != "" {
		worker.Role = input.Role
	}
	if input.Email != "" {
		worker.Email = input.Email
	}

	if err := database.DB.Save(&worker).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update worker"})
		return
	}

	recordAudit(c, audit.ActionUpdateWorker, fmt.Sprintf("Updated worker: %s -> %s", oldName, worker.Name))
	c.JSON(http.StatusOK, worker)
}

// --- DELETE: Deactivate a worker (soft delete) ---
// Task and payment history must survive, so workers are never hard-deleted.
func DeleteWorker(c *gin.Context) {
	var worker models.Worker
	if err := database.DB.First(&worker, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Worker not found"})
		return
	}

	worker.IsActive = false
	if err := database.DB.Save(&worker).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate worker"})
		return
	}

	recordAudit(c, audit.ActionDeleteWorker, "Deactivated worker: "+worker.Name)
	c.JSON(http.StatusOK, gin.H{"message": "Worker deactivated successfully"})
}

// provisionManagerAccount creates a dashboard login for a Manager worker
// and emails them the generated credentials.
func provisionManagerAccount(worker *models.Worker) error {
	username := usernameFromEmail(worker.Email)
	password := mailer.GeneratePassword(12)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := models.User{
		Username:     username,
		PasswordHash: string(hash),
		Email:        worker.Email,
		Role:         "manager",
	}
	if err := database.DB.Create(&user).Error; err != nil {
		return err
	}

	return mailer.SendManagerCredentials(worker.Name, worker.Email, username, password)
}

// usernameFromEmail derives a unique login name from the mailbox part of
// an email address, suffixing a counter on collision.
func usernameFromEmail(email string) string {
	base := strings.ToLower(strings.SplitN(email, "@", 2)[0])
	var cleaned strings.Builder
	for _, r := range base {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			cleaned.WriteRune(r)
		}
	}
	username := cleaned.String()
	if username == "" {
		username = "manager"
	}

	candidate := username
	for i := 1; ; i++ {
		var count int64
		database.DB.Model(&models.User{}).Where("username = ?", candidate).Count(&count)
		if count == 0 {
			return candidate
		}
		candidate = fmt.Sprintf("%s%d", username, i)
	}
}
