package database

import (
	"errors"

	"bottleflow/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store adapts a *gorm.DB (usually a transaction) to what the ledger and
// the audit recorder need. Handlers run ledger operations as
//
//	tx := database.DB.Begin()
//	store := database.NewStore(tx)
//	... ledger.Apply(store, ...) ...
//	tx.Commit() / tx.Rollback()
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Product(id string) (*models.Product, bool, error) {
	var product models.Product
	err := s.db.First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &product, true, nil
}

// Stock fetches the product's stock record with a row lock so concurrent
// requests cannot double-apply a movement. A product that never moved
// before gets a zeroed record.
func (s *Store) Stock(productID string) (*models.StockRecord, error) {
	var rec models.StockRecord
	err := s.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&rec, "product_id = ?", productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		rec = models.StockRecord{ProductID: productID}
		if err := s.db.Create(&rec).Error; err != nil {
			return nil, err
		}
		return &rec, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *Store) SaveStock(rec *models.StockRecord) error {
	return s.db.Save(rec).Error
}

func (s *Store) AppendMovement(m *models.StockMovement) error {
	return s.db.Create(m).Error
}

func (s *Store) SaveTask(t *models.Task) error {
	// The ledger only owns the task row, never its associations
	return s.db.Omit(clause.Associations).Save(t).Error
}

func (s *Store) AppendPayment(p *models.SalaryPayment) error {
	return s.db.Omit(clause.Associations).Create(p).Error
}

func (s *Store) TaskNetPayTotal(workerID string) (float64, error) {
	var total float64
	err := s.db.Model(&models.Task{}).
		Where("worker_id = ?", workerID).
		Select("COALESCE(SUM(net_pay), 0)").
		Scan(&total).Error
	return total, err
}

func (s *Store) PaymentTotal(workerID string) (float64, error) {
	var total float64
	err := s.db.Model(&models.SalaryPayment{}).
		Where("worker_id = ?", workerID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

// AppendAudit lets the Store double as the audit recorder's sink.
func (s *Store) AppendAudit(entry *models.AuditLog) error {
	return s.db.Create(entry).Error
}
