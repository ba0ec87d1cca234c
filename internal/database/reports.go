package database

import (
	"sort"
	"time"

	"bottleflow/internal/models"
)

// ExpenseReportResult holds the totals the dashboard charts (and the AI
// report) are built from.
type ExpenseReportResult struct {
	PurchaseTotal float64
	SalaryTotal   float64
	PurchaseCount int64
	PaymentCount  int64
}

// GetExpenseReport sums purchases and salary payments within a date range
func GetExpenseReport(start, end time.Time) (*ExpenseReportResult, error) {
	var result ExpenseReportResult

	// COALESCE ensures we get 0 instead of NULL when nothing matches
	err := DB.Model(&models.Purchase{}).
		Where("date BETWEEN ? AND ?", start, end).
		Select("COALESCE(SUM(total_cost), 0)").
		Scan(&result.PurchaseTotal).Error
	if err != nil {
		return nil, err
	}

	err = DB.Model(&models.Purchase{}).
		Where("date BETWEEN ? AND ?", start, end).
		Count(&result.PurchaseCount).Error
	if err != nil {
		return nil, err
	}

	err = DB.Model(&models.SalaryPayment{}).
		Where("date BETWEEN ? AND ?", start, end).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&result.SalaryTotal).Error
	if err != nil {
		return nil, err
	}

	err = DB.Model(&models.SalaryPayment{}).
		Where("date BETWEEN ? AND ?", start, end).
		Count(&result.PaymentCount).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// MonthlyExpense is one bar in the expenses chart
type MonthlyExpense struct {
	Month     string  `json:"month"` // YYYY-MM
	Purchases float64 `json:"purchases"`
	Salaries  float64 `json:"salaries"`
}

// GetMonthlyExpenses aggregates purchase and salary spend per month for
// the last N months.
func GetMonthlyExpenses(months int) ([]MonthlyExpense, error) {
	type row struct {
		Month string
		Total float64
	}

	since := time.Now().AddDate(0, -months, 0)

	var purchaseRows []row
	err := DB.Model(&models.Purchase{}).
		Where("date >= ?", since).
		Select("DATE_FORMAT(date, '%Y-%m') as month, SUM(total_cost) as total").
		Group("month").
		Scan(&purchaseRows).Error
	if err != nil {
		return nil, err
	}

	var salaryRows []row
	err = DB.Model(&models.SalaryPayment{}).
		Where("date >= ?", since).
		Select("DATE_FORMAT(date, '%Y-%m') as month, SUM(amount) as total").
		Group("month").
		Scan(&salaryRows).Error
	if err != nil {
		return nil, err
	}

	byMonth := make(map[string]*MonthlyExpense)
	for _, r := range purchaseRows {
		byMonth[r.Month] = &MonthlyExpense{Month: r.Month, Purchases: r.Total}
	}
	for _, r := range salaryRows {
		if m, ok := byMonth[r.Month]; ok {
			m.Salaries = r.Total
		} else {
			byMonth[r.Month] = &MonthlyExpense{Month: r.Month, Salaries: r.Total}
		}
	}

	// Emit in chronological order so the chart doesn't jump around
	result := make([]MonthlyExpense, 0, len(byMonth))
	for i := months; i >= 0; i-- {
		key := time.Now().AddDate(0, -i, 0).Format("2006-01")
		if m, ok := byMonth[key]; ok {
			result = append(result, *m)
		}
	}
	return result, nil
}

// PendingSalaryRow is one worker in the pending salaries dashboard
type PendingSalaryRow struct {
	WorkerID        string     `json:"worker_id"`
	WorkerName      string     `json:"worker_name"`
	WorkerRole      string     `json:"worker_role"`
	TotalEarned     float64    `json:"total_earned"`
	TotalPaid       float64    `json:"total_paid"`
	PendingSalary   float64    `json:"pending_salary"`
	LastPaymentDate *time.Time `json:"last_payment_date"`
}

// GetPendingSalaries projects the pending balance for every active worker,
// highest pending first. Always recomputed from tasks and payments, never
// stored.
func GetPendingSalaries(includeZero bool) ([]PendingSalaryRow, error) {
	var workers []models.Worker
	if err := DB.Where("is_active = ?", true).Find(&workers).Error; err != nil {
		return nil, err
	}

	store := NewStore(DB)
	rows := make([]PendingSalaryRow, 0, len(workers))
	for _, w := range workers {
		earned, err := store.TaskNetPayTotal(w.ID)
		if err != nil {
			return nil, err
		}
		paid, err := store.PaymentTotal(w.ID)
		if err != nil {
			return nil, err
		}
		pending := earned - paid
		if pending <= 0 && !includeZero {
			continue
		}

		var last models.SalaryPayment
		var lastDate *time.Time
		err = DB.Where("worker_id = ?", w.ID).Order("date desc").First(&last).Error
		if err == nil {
			d := last.Date
			lastDate = &d
		}

		rows = append(rows, PendingSalaryRow{
			WorkerID:        w.ID,
			WorkerName:      w.Name,
			WorkerRole:      w.Role,
			TotalEarned:     earned,
			TotalPaid:       paid,
			PendingSalary:   pending,
			LastPaymentDate: lastDate,
		})
	}

	// Highest pending first
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].PendingSalary > rows[j].PendingSalary
	})
	return rows, nil
}

// TaskStatistics summarises the task board for the dashboard cards
type TaskStatistics struct {
	TotalTasks      int64   `json:"total_tasks"`
	CompletedTasks  int64   `json:"completed_tasks"`
	PendingTasks    int64   `json:"pending_tasks"`
	InProgressTasks int64   `json:"in_progress_tasks"`
	TotalSalary     float64 `json:"total_salary"`
	TotalDeductions float64 `json:"total_deductions"`
	TotalNetPay     float64 `json:"total_net_pay"`
	TasksLast30Days int64   `json:"tasks_last_30_days"`
}

func GetTaskStatistics() (*TaskStatistics, error) {
	var stats TaskStatistics

	if err := DB.Model(&models.Task{}).Count(&stats.TotalTasks).Error; err != nil {
		return nil, err
	}
	DB.Model(&models.Task{}).Where("status = ?", models.StatusCompleted).Count(&stats.CompletedTasks)
	DB.Model(&models.Task{}).Where("status = ?", models.StatusPending).Count(&stats.PendingTasks)
	DB.Model(&models.Task{}).Where("status = ?", models.StatusInProgress).Count(&stats.InProgressTasks)

	err := DB.Model(&models.Task{}).
		Select("COALESCE(SUM(salary), 0) as total_salary, COALESCE(SUM(deduction), 0) as total_deductions, COALESCE(SUM(net_pay), 0) as total_net_pay").
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}

	thirtyDaysAgo := time.Now().AddDate(0, 0, -30)
	DB.Model(&models.Task{}).Where("date >= ?", thirtyDaysAgo).Count(&stats.TasksLast30Days)

	return &stats, nil
}
