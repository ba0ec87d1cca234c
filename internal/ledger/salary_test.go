package ledger

import (
	"testing"
	"time"

	"bottleflow/internal/models"
)

// newWashTask sets up a product with stock, reserves it, and returns the
// open task. Assigned 10 at wash price 5 / purchase price 2 matches the
// worked pay example the dashboard documents.
func newWashTask(t *testing.T) (*MemStore, *models.Task) {
	t.Helper()
	store, product := newTestStore(t)
	mustApply(t, store, product.ID, MovementPurchase, 50)
	mustApply(t, store, product.ID, MovementAssignWash, 10)

	task := &models.Task{
		WorkerID:         "worker-1",
		ProductID:        product.ID,
		TaskType:         models.TaskTypeWashing,
		AssignedQuantity: 10,
		Status:           models.StatusPending,
		Date:             time.Now(),
	}
	if err := store.SaveTask(task); err != nil {
		t.Fatalf("save task: %v", err)
	}
	return store, task
}

func TestUpdateWashedQuantityPartial(t *testing.T) {
	store, task := newWashTask(t)

	ok, err := UpdateWashedQuantity(store, task, 7)
	if err != nil || !ok {
		t.Fatalf("update failed: ok=%v err=%v", ok, err)
	}

	if task.Salary != 35 {
		t.Errorf("salary = %v, want 35", task.Salary)
	}
	if task.Deduction != 6 {
		t.Errorf("deduction = %v, want 6", task.Deduction)
	}
	if task.NetPay != 29 {
		t.Errorf("net pay = %v, want 29", task.NetPay)
	}
	if task.Status != models.StatusInProgress {
		t.Errorf("status = %q, want %q", task.Status, models.StatusInProgress)
	}

	rec, _ := store.Stock(task.ProductID)
	if rec.Washed != 7 || rec.Balance != 7 || rec.Reserved != 3 {
		t.Fatalf("unexpected stock record: %+v", rec)
	}
}

func TestUpdateWashedQuantityCompletion(t *testing.T) {
	store, task := newWashTask(t)

	if ok, _ := UpdateWashedQuantity(store, task, 7); !ok {
		t.Fatal("first update failed")
	}
	if ok, _ := UpdateWashedQuantity(store, task, 10); !ok {
		t.Fatal("second update failed")
	}

	if task.Status != models.StatusCompleted {
		t.Errorf("status = %q, want %q", task.Status, models.StatusCompleted)
	}
	if task.Deduction != 0 {
		t.Errorf("deduction = %v, want 0", task.Deduction)
	}
	if task.NetPay != 50 {
		t.Errorf("net pay = %v, want 50", task.NetPay)
	}

	rec, _ := store.Stock(task.ProductID)
	if rec.Washed != 10 || rec.Reserved != 0 {
		t.Fatalf("unexpected stock record: %+v", rec)
	}
}

func TestUpdateWashedQuantityClamps(t *testing.T) {
	store, task := newWashTask(t)

	// Asking for more than assigned behaves exactly like asking for assigned
	if ok, _ := UpdateWashedQuantity(store, task, 25); !ok {
		t.Fatal("update failed")
	}
	if task.WashedQuantity != task.AssignedQuantity {
		t.Errorf("washed = %d, want clamp to assigned %d", task.WashedQuantity, task.AssignedQuantity)
	}
	if task.Status != models.StatusCompleted || task.NetPay != 50 {
		t.Errorf("clamped update produced status=%q netPay=%v", task.Status, task.NetPay)
	}

	// And negative input clamps back to zero
	if ok, _ := UpdateWashedQuantity(store, task, -5); !ok {
		t.Fatal("downward update failed")
	}
	if task.WashedQuantity != 0 || task.Status != models.StatusPending {
		t.Errorf("washed=%d status=%q after clamping to zero", task.WashedQuantity, task.Status)
	}
}

func TestUpdateWashedQuantityRejectedLeavesTaskUnchanged(t *testing.T) {
	store, task := newWashTask(t)

	if ok, _ := UpdateWashedQuantity(store, task, 10); !ok {
		t.Fatal("update failed")
	}
	mustApply(t, store, task.ProductID, MovementSellWashed, 10)

	// All washed bottles are sold; the count can no longer be corrected down
	ok, err := UpdateWashedQuantity(store, task, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("update should have been rejected")
	}
	if task.WashedQuantity != 10 || task.NetPay != 50 || task.Status != models.StatusCompleted {
		t.Fatalf("rejected update mutated the task: %+v", task)
	}
}

func TestPendingSalaryProjection(t *testing.T) {
	store, task := newWashTask(t)
	const workerID = "worker-1"

	if ok, _ := UpdateWashedQuantity(store, task, 7); !ok {
		t.Fatal("update failed")
	}

	// A daily salary entry for the same worker joins the same aggregation
	daily := NewDailySalaryTask(workerID, 40, time.Now(), "sorting shift")
	if daily.Status != models.StatusCompleted || daily.NetPay != 40 || daily.Deduction != 0 {
		t.Fatalf("unexpected daily salary task: %+v", daily)
	}
	if err := store.SaveTask(daily); err != nil {
		t.Fatalf("save daily task: %v", err)
	}

	pending, err := PendingSalary(store, workerID)
	if err != nil {
		t.Fatalf("pending salary: %v", err)
	}
	if pending != 69 { // 29 from the wash task + 40 daily
		t.Fatalf("pending = %v, want 69", pending)
	}

	// Paying out the full pending balance brings a fresh projection to zero
	err = RecordPayment(store, &models.SalaryPayment{WorkerID: workerID, Amount: pending})
	if err != nil {
		t.Fatalf("record payment: %v", err)
	}
	pending, err = PendingSalary(store, workerID)
	if err != nil {
		t.Fatalf("pending salary: %v", err)
	}
	if pending != 0 {
		t.Fatalf("pending after full payment = %v, want 0", pending)
	}
}

func TestRecordPaymentDefaults(t *testing.T) {
	store := NewMemStore()

	payment := &models.SalaryPayment{WorkerID: "worker-2", Amount: 100}
	if err := RecordPayment(store, payment); err != nil {
		t.Fatalf("record payment: %v", err)
	}
	if payment.PaymentMethod != "Cash" {
		t.Errorf("payment method = %q, want Cash", payment.PaymentMethod)
	}
	if payment.Date.IsZero() {
		t.Error("payment date was not defaulted")
	}

	total, _ := store.PaymentTotal("worker-2")
	if total != 100 {
		t.Errorf("payment total = %v, want 100", total)
	}
}
