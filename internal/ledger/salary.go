package ledger

import (
	"time"

	"bottleflow/internal/models"
)

// DeriveStatus computes the task status from its progress. Daily salary
// tasks are always Completed so the pay aggregation treats both wage
// models uniformly.
func DeriveStatus(task *models.Task) string {
	if task.TaskType == models.TaskTypeDailySalary {
		return models.StatusCompleted
	}
	if task.AssignedQuantity > 0 && task.WashedQuantity >= task.AssignedQuantity {
		return models.StatusCompleted
	}
	if task.WashedQuantity > 0 {
		return models.StatusInProgress
	}
	return models.StatusPending
}

// Recalculate refreshes the derived pay fields of a washing task:
// salary = washed * wash price, deduction = shortfall * purchase price.
func Recalculate(task *models.Task, product *models.Product) {
	task.Salary = float64(task.WashedQuantity) * product.WashPrice
	task.Deduction = float64(task.AssignedQuantity-task.WashedQuantity) * product.PurchasePrice
	task.NetPay = task.Salary - task.Deduction
	task.Status = DeriveStatus(task)
}

// UpdateWashedQuantity moves a washing task to a new washed count.
// The new value is clamped to [0, assigned]; the washed delta flows through
// the stock ledger as a complete_wash movement. If that movement is refused
// (washed bottles already sold, for a downward correction) the task is left
// untouched and ok=false is returned.
func UpdateWashedQuantity(s Store, task *models.Task, newWashed int) (bool, error) {
	if newWashed < 0 {
		newWashed = 0
	}
	if newWashed > task.AssignedQuantity {
		newWashed = task.AssignedQuantity
	}

	product, found, err := s.Product(task.ProductID)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}

	delta := newWashed - task.WashedQuantity
	if delta != 0 {
		ok, err := Apply(s, Movement{
			ProductID:   task.ProductID,
			Kind:        MovementCompleteWash,
			Quantity:    delta,
			ReferenceID: task.ID,
			Notes:       "Washed by " + task.Worker.Name,
		})
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}

	task.WashedQuantity = newWashed
	Recalculate(task, product)

	if err := s.SaveTask(task); err != nil {
		return false, err
	}
	return true, nil
}

// NewDailySalaryTask builds the degenerate Completed task that records a
// fixed daily wage for non-washer workers.
func NewDailySalaryTask(workerID string, amount float64, date time.Time, notes string) *models.Task {
	return &models.Task{
		WorkerID:         workerID,
		TaskType:         models.TaskTypeDailySalary,
		AssignedQuantity: 0,
		WashedQuantity:   0,
		Status:           models.StatusCompleted,
		Salary:           amount,
		Deduction:        0,
		NetPay:           amount,
		Date:             date,
		Notes:            notes,
	}
}

// PendingSalary is a read-time projection: everything the worker has earned
// across all tasks minus everything already paid out. Never cached, so it
// cannot go stale.
func PendingSalary(s Store, workerID string) (float64, error) {
	earned, err := s.TaskNetPayTotal(workerID)
	if err != nil {
		return 0, err
	}
	paid, err := s.PaymentTotal(workerID)
	if err != nil {
		return 0, err
	}
	return earned - paid, nil
}

// RecordPayment appends a salary payment. Amount checks (positive, within
// the pending balance) belong to the API layer; the ledger itself only
// appends.
func RecordPayment(s Store, payment *models.SalaryPayment) error {
	if payment.PaymentMethod == "" {
		payment.PaymentMethod = "Cash"
	}
	if payment.Date.IsZero() {
		payment.Date = time.Now()
	}
	return s.AppendPayment(payment)
}
