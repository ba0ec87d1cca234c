package main

import (
	"log"
	"os"
	"time"

	"bottleflow/internal/database"
	"bottleflow/internal/handlers"
	"bottleflow/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: No .env file found")
	}

	database.Connect()
	r := gin.Default()

	// CORS for the Next.js dashboard
	frontendURL := os.Getenv("FRONTEND_URL")
	if frontendURL == "" {
		frontendURL = "http://localhost:3000"
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{frontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "online"}) })

	// Public auth routes
	r.POST("/api/auth/login", handlers.Login)
	r.POST("/api/auth/refresh", handlers.Refresh)

	// --- FEATURE FLAG: Admin Registration ---
	// Only opens if we explicitly allow it in .env
	if os.Getenv("ALLOW_REGISTRATION") == "true" {
		r.POST("/register", handlers.Register)
		log.Println("⚠️ WARNING: Registration route is OPEN. Disable this in production!")
	} else {
		log.Println("🔒 Registration route is safely DISABLED.")
	}

	// --- PROTECTED ROUTES ---
	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware())
	{
		// AVAILABLE TO MANAGERS & ADMIN
		api.POST("/auth/logout", handlers.Logout)
		api.GET("/auth/me", handlers.Me)

		api.GET("/products", handlers.GetProducts)
		api.GET("/products/:id", handlers.GetProduct)

		api.GET("/workers", handlers.GetWorkers)
		api.GET("/workers/:id", handlers.GetWorker)
		api.GET("/workers/:id/tasks", handlers.GetWorkerTasks)
		api.GET("/workers/:id/salary", handlers.GetWorkerSalaryHistory)

		api.POST("/purchases", handlers.CreatePurchase)
		api.GET("/purchases", handlers.GetPurchases)
		api.GET("/purchases/:id", handlers.GetPurchase)
		api.PUT("/purchases/:id", handlers.UpdatePurchase)

		api.GET("/stock", handlers.GetStockOverview)
		api.GET("/stock/movements", handlers.GetStockMovements)
		api.GET("/stock/sales", handlers.GetStockSales)
		api.POST("/stock/sell", handlers.SellStock)
		api.GET("/stock/:product_id", handlers.GetProductStockDetail)

		api.POST("/tasks", handlers.CreateTask)
		api.GET("/tasks", handlers.GetTasks)
		api.GET("/tasks/statistics", handlers.GetTaskStatistics)
		api.POST("/tasks/daily-salary", handlers.CreateDailySalaryTask)
		api.GET("/tasks/:id", handlers.GetTask)
		api.PUT("/tasks/:id", handlers.UpdateTask)

		api.GET("/salaries/pending", handlers.GetPendingSalaries)
		api.GET("/salaries/payments", handlers.GetSalaryPayments)
		api.POST("/salaries/payments", handlers.CreateSalaryPayment)
		api.GET("/salaries/summary", handlers.GetSalarySummary)

		api.GET("/reports/expenses", handlers.GetExpenseReport)

		// ADMIN ONLY
		admin := api.Group("/")
		admin.Use(middleware.RequireRole("admin"))
		{
			admin.POST("/ask", handlers.AskAI)
			admin.POST("/reports/daily/send", handlers.SendDailyReport)

			admin.POST("/auth/users", handlers.CreateUser)

			admin.POST("/products", handlers.AddProduct)
			admin.PUT("/products/:id", handlers.UpdateProduct)
			admin.DELETE("/products/:id", handlers.DeleteProduct)

			admin.POST("/workers", handlers.AddWorker)
			admin.PUT("/workers/:id", handlers.UpdateWorker)
			admin.DELETE("/workers/:id", handlers.DeleteWorker)

			admin.GET("/audit", handlers.GetAuditLogs)

			admin.GET("/reports/valuation", handlers.GetStockValuation)
			admin.GET("/reports/valuation/pdf", handlers.GetStockValuationPDF)
		}
	}

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	log.Println("🚀 Server starting on " + baseURL)
	if err := r.Run(":8080"); err != nil {
		log.Fatal("Server failed to start:", err)
	}
}
