package ledger

import (
	"time"

	"bottleflow/internal/models"

	"github.com/google/uuid"
)

// MemStore is the in-memory Store backing the ledger tests.
type MemStore struct {
	products  map[string]*models.Product
	stocks    map[string]*models.StockRecord
	movements []*models.StockMovement
	tasks     map[string]*models.Task
	payments  []*models.SalaryPayment
}

func NewMemStore() *MemStore {
	return &MemStore{
		products: make(map[string]*models.Product),
		stocks:   make(map[string]*models.StockRecord),
		tasks:    make(map[string]*models.Task),
	}
}

// AddProduct registers a product definition.
func (m *MemStore) AddProduct(p *models.Product) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	m.products[p.ID] = p
}

func (m *MemStore) Product(id string) (*models.Product, bool, error) {
	p, ok := m.products[id]
	return p, ok, nil
}

func (m *MemStore) Stock(productID string) (*models.StockRecord, error) {
	rec, ok := m.stocks[productID]
	if !ok {
		rec = &models.StockRecord{ProductID: productID}
		m.stocks[productID] = rec
	}
	return rec, nil
}

func (m *MemStore) SaveStock(rec *models.StockRecord) error {
	rec.UpdatedAt = time.Now()
	m.stocks[rec.ProductID] = rec
	return nil
}

func (m *MemStore) AppendMovement(mv *models.StockMovement) error {
	if mv.ID == "" {
		mv.ID = uuid.NewString()
	}
	mv.CreatedAt = time.Now()
	m.movements = append(m.movements, mv)
	return nil
}

func (m *MemStore) SaveTask(t *models.Task) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	t.UpdatedAt = time.Now()
	m.tasks[t.ID] = t
	return nil
}

func (m *MemStore) AppendPayment(p *models.SalaryPayment) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = time.Now()
	m.payments = append(m.payments, p)
	return nil
}

func (m *MemStore) TaskNetPayTotal(workerID string) (float64, error) {
	var total float64
	for _, t := range m.tasks {
		if t.WorkerID == workerID {
			total += t.NetPay
		}
	}
	return total, nil
}

func (m *MemStore) PaymentTotal(workerID string) (float64, error) {
	var total float64
	for _, p := range m.payments {
		if p.WorkerID == workerID {
			total += p.Amount
		}
	}
	return total, nil
}

// Movements returns the movement history, oldest first.
func (m *MemStore) Movements() []*models.StockMovement {
	return m.movements
}
