package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Task status values (derived from washed vs assigned quantity)
const (
	StatusPending    = "Pending"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
)

// Task types
const (
	TaskTypeWashing     = "washing"
	TaskTypeDailySalary = "daily_salary"
)

// Stock sale types
const (
	SaleTypeRaw    = "raw"
	SaleTypeWashed = "washed"
)

// User - The person logging into the dashboard
type User struct {
	ID           string    `gorm:"type:char(36);primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:50" json:"username"`
	PasswordHash string    `json:"-"` // Never return this in JSON
	Email        string    `gorm:"size:100" json:"email"`
	Role         string    `json:"role"` // 'admin', 'manager'
	CreatedAt    time.Time `json:"created_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// Worker - An employee of the washing operation (not a login account)
type Worker struct {
	ID          string    `gorm:"type:char(36);primaryKey" json:"id"`
	Name        string    `gorm:"size:100" json:"name"`
	PhoneNumber string    `gorm:"size:15" json:"phone_number"`
	IDNumber    string    `gorm:"size:20;uniqueIndex" json:"id_number"`
	Role        string    `gorm:"size:50;default:Washer" json:"role"` // 'Washer', 'Sorter', 'Manager', or custom
	Email       string    `gorm:"size:100" json:"email"`              // Required for Manager (login provisioning)
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (w *Worker) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	return nil
}

// Product - A bottle/container type that gets purchased, washed and sold
type Product struct {
	ID            string    `gorm:"type:char(36);primaryKey" json:"id"`
	Name          string    `gorm:"size:100" json:"name"`
	PurchasePrice float64   `json:"purchase_price"`
	WashPrice     float64   `json:"wash_price"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// StockRecord - Per-product stock counters maintained by the ledger.
// Invariant: Purchased = available raw + Reserved + Washed + SoldRaw,
// and Balance = Washed - SoldWashed.
type StockRecord struct {
	ProductID  string    `gorm:"type:char(36);primaryKey" json:"product_id"`
	Purchased  int       `json:"purchased"`
	Reserved   int       `json:"reserved"` // Assigned to open wash tasks, not yet washed
	Washed     int       `json:"washed"`
	SoldRaw    int       `json:"sold_raw"`
	SoldWashed int       `json:"sold_washed"`
	Balance    int       `json:"balance"` // Washed bottles available for sale
	UpdatedAt  time.Time `json:"updated_at"`
}

// AvailableRaw is what can still be sold raw or assigned for washing.
func (s *StockRecord) AvailableRaw() int {
	return s.Purchased - s.Reserved - s.Washed - s.SoldRaw
}

// StockMovement - Append-only history of every stock-affecting event.
// Outgoing movements (sales) are stored with negative quantities.
type StockMovement struct {
	ID          string    `gorm:"type:char(36);primaryKey" json:"id"`
	ProductID   string    `gorm:"type:char(36);index" json:"product_id"`
	Type        string    `gorm:"size:20;index" json:"type"`
	Quantity    int       `json:"quantity"`
	ReferenceID string    `gorm:"size:100" json:"reference_id"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
}

func (m *StockMovement) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// StockSale - A sale of raw or washed stock to a customer
type StockSale struct {
	ID           string    `gorm:"type:char(36);primaryKey" json:"id"`
	ProductID    string    `gorm:"type:char(36);index" json:"product_id"`
	Product      Product   `gorm:"foreignKey:ProductID" json:"product"`
	SaleType     string    `gorm:"size:10" json:"sale_type"` // 'raw' or 'washed'
	Quantity     int       `json:"quantity"`
	PricePerUnit float64   `json:"price_per_unit"`
	TotalAmount  float64   `json:"total_amount"`
	CustomerName string    `gorm:"size:100" json:"customer_name"`
	Notes        string    `json:"notes"`
	Date         time.Time `json:"date"`
	CreatedAt    time.Time `json:"created_at"`
}

func (s *StockSale) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// Purchase - The Transaction Header for buying bottles from collectors
type Purchase struct {
	ID         string         `gorm:"type:char(36);primaryKey" json:"id"`
	TotalCost  float64        `json:"total_cost"`
	AmountPaid float64        `json:"amount_paid"`
	Balance    float64        `json:"balance"` // TotalCost - AmountPaid
	Date       time.Time      `json:"date"`
	Notes      string         `json:"notes"`
	Items      []PurchaseItem `gorm:"foreignKey:PurchaseID" json:"items"`
	CreatedAt  time.Time      `json:"created_at"`
}

func (p *Purchase) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// PurchaseItem - The specific products inside a purchase
type PurchaseItem struct {
	ID         string  `gorm:"type:char(36);primaryKey" json:"id"`
	PurchaseID string  `gorm:"type:char(36);index" json:"purchase_id"`
	ProductID  string  `gorm:"type:char(36)" json:"product_id"`
	Product    Product `gorm:"foreignKey:ProductID" json:"product"`
	Quantity   int     `json:"quantity"`
	Cost       float64 `json:"cost"`
}

func (p *PurchaseItem) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// Task - A wash assignment (or daily salary entry) for a worker.
// Salary fields are recomputed by the ledger on every update:
// salary = washed * wash price, deduction = (assigned - washed) * purchase price.
type Task struct {
	ID               string    `gorm:"type:char(36);primaryKey" json:"id"`
	WorkerID         string    `gorm:"type:char(36);index" json:"worker_id"`
	Worker           Worker    `gorm:"foreignKey:WorkerID" json:"worker"`
	ProductID        string    `gorm:"type:char(36);index" json:"product_id"` // Empty for daily salary tasks
	TaskType         string    `gorm:"size:20;default:washing" json:"task_type"`
	AssignedQuantity int       `json:"assigned_quantity"`
	WashedQuantity   int       `json:"washed_quantity"`
	Status           string    `gorm:"size:20;default:Pending" json:"status"`
	Salary           float64   `json:"salary"`
	Deduction        float64   `json:"deduction"`
	NetPay           float64   `json:"net_pay"` // Salary - Deduction, may be negative
	Date             time.Time `json:"date"`
	Notes            string    `json:"notes"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// SalaryPayment - Money actually handed to a worker. Append-only;
// paying never rewrites the task records it settles.
type SalaryPayment struct {
	ID            string    `gorm:"type:char(36);primaryKey" json:"id"`
	WorkerID      string    `gorm:"type:char(36);index" json:"worker_id"`
	Worker        Worker    `gorm:"foreignKey:WorkerID" json:"worker"`
	Amount        float64   `json:"amount"`
	Date          time.Time `json:"date"`
	PaymentMethod string    `gorm:"size:50;default:Cash" json:"payment_method"`
	Notes         string    `json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
}

func (p *SalaryPayment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// AuditLog - Immutable trail of every mutating action, newest first
type AuditLog struct {
	ID        string    `gorm:"type:char(36);primaryKey" json:"id"`
	Username  string    `gorm:"size:50;index" json:"username"`
	Action    string    `gorm:"size:50;index" json:"action"`
	Details   string    `json:"details"`
	IPAddress string    `gorm:"size:45" json:"ip_address"`
	UserAgent string    `json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
}
