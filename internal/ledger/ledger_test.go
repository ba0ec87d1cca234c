package ledger

import (
	"testing"

	"bottleflow/internal/models"
)

func newTestStore(t *testing.T) (*MemStore, *models.Product) {
	t.Helper()
	store := NewMemStore()
	product := &models.Product{Name: "500ml Bottle", PurchasePrice: 2, WashPrice: 5}
	store.AddProduct(product)
	return store, product
}

func mustApply(t *testing.T, s *MemStore, productID, kind string, qty int) {
	t.Helper()
	ok, err := Apply(s, Movement{ProductID: productID, Kind: kind, Quantity: qty})
	if err != nil {
		t.Fatalf("apply %s %d: unexpected error: %v", kind, qty, err)
	}
	if !ok {
		t.Fatalf("apply %s %d: expected success", kind, qty)
	}
}

func TestApplyUnknownProductFails(t *testing.T) {
	store, _ := newTestStore(t)

	ok, err := Apply(store, Movement{ProductID: "no-such-product", Kind: MovementPurchase, Quantity: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("movement against an unregistered product must fail")
	}
	if len(store.Movements()) != 0 {
		t.Fatal("failed movement must not be recorded")
	}
}

func TestApplyRejectsNonPositiveQuantities(t *testing.T) {
	store, product := newTestStore(t)

	for _, kind := range []string{MovementPurchase, MovementAssignWash, MovementSellRaw, MovementSellWashed} {
		ok, err := Apply(store, Movement{ProductID: product.ID, Kind: kind, Quantity: 0})
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", kind, err)
		}
		if ok {
			t.Fatalf("%s with zero quantity must fail", kind)
		}
	}
}

func TestPurchaseLazilyCreatesStockRecord(t *testing.T) {
	store, product := newTestStore(t)

	mustApply(t, store, product.ID, MovementPurchase, 100)

	rec, _ := store.Stock(product.ID)
	if rec.Purchased != 100 || rec.Washed != 0 || rec.Balance != 0 {
		t.Fatalf("unexpected stock record after purchase: %+v", rec)
	}
}

func TestSellRawPrecondition(t *testing.T) {
	store, product := newTestStore(t)
	mustApply(t, store, product.ID, MovementPurchase, 10)

	ok, err := Apply(store, Movement{ProductID: product.ID, Kind: MovementSellRaw, Quantity: 11})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("selling more raw stock than purchased must fail")
	}

	rec, _ := store.Stock(product.ID)
	if rec.SoldRaw != 0 {
		t.Fatalf("failed sale must not mutate: %+v", rec)
	}

	mustApply(t, store, product.ID, MovementSellRaw, 10)
	rec, _ = store.Stock(product.ID)
	if rec.SoldRaw != 10 || rec.AvailableRaw() != 0 {
		t.Fatalf("unexpected stock record after raw sale: %+v", rec)
	}
}

func TestSellWashedInsufficientBalance(t *testing.T) {
	store, product := newTestStore(t)
	mustApply(t, store, product.ID, MovementPurchase, 20)
	mustApply(t, store, product.ID, MovementAssignWash, 5)
	mustApply(t, store, product.ID, MovementCompleteWash, 5)

	rec, _ := store.Stock(product.ID)
	if rec.Balance != 5 {
		t.Fatalf("expected washed balance 5, got %d", rec.Balance)
	}

	ok, err := Apply(store, Movement{ProductID: product.ID, Kind: MovementSellWashed, Quantity: 6})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("selling beyond the washed balance must fail")
	}

	rec, _ = store.Stock(product.ID)
	if rec.Balance != 5 || rec.SoldWashed != 0 {
		t.Fatalf("failed sale left a partial mutation: %+v", rec)
	}
}

func TestAssignWashReservationBlocksDoubleAssignment(t *testing.T) {
	store, product := newTestStore(t)
	mustApply(t, store, product.ID, MovementPurchase, 10)

	// Two open tasks cannot both claim the same bottles
	mustApply(t, store, product.ID, MovementAssignWash, 7)
	ok, err := Apply(store, Movement{ProductID: product.ID, Kind: MovementAssignWash, Quantity: 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("second assignment exceeding available raw must fail")
	}

	// Reserved bottles cannot be sold raw either
	ok, _ = Apply(store, Movement{ProductID: product.ID, Kind: MovementSellRaw, Quantity: 4})
	if ok {
		t.Fatal("raw sale must not eat into reserved stock")
	}
	mustApply(t, store, product.ID, MovementSellRaw, 3)
}

func TestCompleteWashReleasesReservation(t *testing.T) {
	store, product := newTestStore(t)
	mustApply(t, store, product.ID, MovementPurchase, 10)
	mustApply(t, store, product.ID, MovementAssignWash, 6)
	mustApply(t, store, product.ID, MovementCompleteWash, 4)

	rec, _ := store.Stock(product.ID)
	if rec.Reserved != 2 || rec.Washed != 4 || rec.Balance != 4 {
		t.Fatalf("unexpected stock record: %+v", rec)
	}
	if rec.AvailableRaw() != 4 {
		t.Fatalf("expected 4 available raw, got %d", rec.AvailableRaw())
	}
}

func TestDownwardCorrectionRefusedAfterWashedSale(t *testing.T) {
	store, product := newTestStore(t)
	mustApply(t, store, product.ID, MovementPurchase, 10)
	mustApply(t, store, product.ID, MovementAssignWash, 5)
	mustApply(t, store, product.ID, MovementCompleteWash, 5)
	mustApply(t, store, product.ID, MovementSellWashed, 4)

	// Only 1 washed bottle is left; correcting the wash count down by 2
	// would leave a negative balance.
	ok, err := Apply(store, Movement{ProductID: product.ID, Kind: MovementCompleteWash, Quantity: -2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("downward correction past the remaining balance must fail")
	}

	mustApply(t, store, product.ID, MovementCompleteWash, -1)
	rec, _ := store.Stock(product.ID)
	if rec.Washed != 4 || rec.Balance != 0 || rec.Reserved != 1 {
		t.Fatalf("unexpected stock record after correction: %+v", rec)
	}
}

func TestPurchasedNeverExceeded(t *testing.T) {
	store, product := newTestStore(t)
	mustApply(t, store, product.ID, MovementPurchase, 50)
	mustApply(t, store, product.ID, MovementAssignWash, 30)
	mustApply(t, store, product.ID, MovementCompleteWash, 30)
	mustApply(t, store, product.ID, MovementSellRaw, 20)
	mustApply(t, store, product.ID, MovementSellWashed, 25)

	rec, _ := store.Stock(product.ID)
	if rec.SoldRaw+rec.Washed > rec.Purchased {
		t.Fatalf("invariant violated: soldRaw(%d) + washed(%d) > purchased(%d)",
			rec.SoldRaw, rec.Washed, rec.Purchased)
	}
	if rec.SoldWashed > rec.Washed {
		t.Fatalf("sold more washed bottles (%d) than were ever washed (%d)",
			rec.SoldWashed, rec.Washed)
	}
	if rec.AvailableRaw() != 0 {
		t.Fatalf("expected no raw stock left, got %d", rec.AvailableRaw())
	}
}

func TestMovementHistoryRecordsSignedQuantities(t *testing.T) {
	store, product := newTestStore(t)
	mustApply(t, store, product.ID, MovementPurchase, 10)
	mustApply(t, store, product.ID, MovementAssignWash, 5)
	mustApply(t, store, product.ID, MovementCompleteWash, 5)
	mustApply(t, store, product.ID, MovementSellWashed, 3)

	movements := store.Movements()
	if len(movements) != 4 {
		t.Fatalf("expected 4 movements, got %d", len(movements))
	}
	last := movements[len(movements)-1]
	if last.Type != MovementSellWashed || last.Quantity != -3 {
		t.Fatalf("outgoing movement should be negative: %+v", last)
	}
}
