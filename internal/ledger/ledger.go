// Package ledger holds the stock and salary accounting rules for BottleFlow.
// It works against a small Store interface so the same rules run inside a
// database transaction or against the in-memory store used by tests.
package ledger

import (
	"fmt"

	"bottleflow/internal/models"
)

// Movement kinds. Every stock-affecting event is one of these.
const (
	MovementPurchase     = "purchase"
	MovementAssignWash   = "assign_wash"
	MovementCompleteWash = "complete_wash"
	MovementSellRaw      = "sell_raw"
	MovementSellWashed   = "sell_washed"
)

// Store is the persistence the ledger needs. The database package provides
// a GORM-backed implementation scoped to a transaction; MemStore backs the
// tests.
type Store interface {
	// Product returns the product definition, or found=false if none exists.
	Product(id string) (product *models.Product, found bool, err error)
	// Stock returns the product's stock record, lazily creating a zeroed
	// one if the product has never moved before.
	Stock(productID string) (*models.StockRecord, error)
	SaveStock(rec *models.StockRecord) error
	AppendMovement(m *models.StockMovement) error
	SaveTask(t *models.Task) error
	AppendPayment(p *models.SalaryPayment) error
	// TaskNetPayTotal sums net pay over ALL of a worker's tasks.
	TaskNetPayTotal(workerID string) (float64, error)
	// PaymentTotal sums every payment made to a worker.
	PaymentTotal(workerID string) (float64, error)
}

// Movement describes one stock-affecting event to apply.
type Movement struct {
	ProductID   string
	Kind        string
	Quantity    int
	ReferenceID string
	Notes       string
}

// Apply validates and applies a single stock movement. Insufficient stock
// and unknown products come back as ok=false so the caller can show a
// specific message; err is reserved for storage failures. A failed movement
// mutates nothing.
func Apply(s Store, mv Movement) (bool, error) {
	// complete_wash carries a signed delta; everything else must be positive
	if mv.Kind == MovementCompleteWash {
		if mv.Quantity == 0 {
			return false, nil
		}
	} else if mv.Quantity <= 0 {
		return false, nil
	}

	// Movements against an unregistered product fail outright
	_, found, err := s.Product(mv.ProductID)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}

	rec, err := s.Stock(mv.ProductID)
	if err != nil {
		return false, err
	}

	recorded := mv.Quantity
	switch mv.Kind {
	case MovementPurchase:
		rec.Purchased += mv.Quantity

	case MovementAssignWash:
		// Bottles reserved for open wash tasks cannot be assigned twice
		if rec.AvailableRaw() < mv.Quantity {
			return false, nil
		}
		rec.Reserved += mv.Quantity

	case MovementCompleteWash:
		// Negative delta = a washed count corrected downward. Refuse if the
		// washed bottles were already sold.
		if rec.Washed+mv.Quantity < 0 || rec.Balance+mv.Quantity < 0 {
			return false, nil
		}
		rec.Washed += mv.Quantity
		rec.Balance += mv.Quantity
		// Washing consumes the reservation; a downward correction restores it
		rec.Reserved -= mv.Quantity
		if rec.Reserved < 0 {
			rec.Reserved = 0
		}

	case MovementSellRaw:
		if rec.AvailableRaw() < mv.Quantity {
			return false, nil
		}
		rec.SoldRaw += mv.Quantity
		recorded = -mv.Quantity // outgoing

	case MovementSellWashed:
		if rec.Balance < mv.Quantity {
			return false, nil
		}
		rec.SoldWashed += mv.Quantity
		rec.Balance -= mv.Quantity
		recorded = -mv.Quantity // outgoing

	default:
		return false, fmt.Errorf("unknown movement kind: %s", mv.Kind)
	}

	if err := s.SaveStock(rec); err != nil {
		return false, err
	}

	err = s.AppendMovement(&models.StockMovement{
		ProductID:   mv.ProductID,
		Type:        mv.Kind,
		Quantity:    recorded,
		ReferenceID: mv.ReferenceID,
		Notes:       mv.Notes,
	})
	if err != nil {
		return false, err
	}

	return true, nil
}
