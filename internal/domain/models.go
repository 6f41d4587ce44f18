package domain

type Category struct {
	ID        string `db:"id"`
	Name      string `db:"name"`
	CreatedAt string `db:"created_at"`
	UpdatedAt string `db:"updated_at"`
}

// Condition grades used/refurbished stock; brand-new products carry no grade.
type Condition string

const (
	CondNew       Condition = "New"
	CondExcellent Condition = "Excellent"
	CondGood      Condition = "Good"
	CondFair      Condition = "Fair"
)

func ValidCondition(s string) bool {
	switch Condition(s) {
	case CondNew, CondExcellent, CondGood, CondFair:
		return true
	}
	return false
}

type SellerContact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type Product struct {
	ID          string    `json:"id"`
	CategoryID  string    `json:"categoryId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Images      []string  `json:"images"`
	Stock       int       `json:"stock"`
	Featured    bool      `json:"featured"`
	Refurbished bool      `json:"refurbished"`
	Condition   Condition `json:"condition,omitempty"` // empty unless refurbished
	Brand       string    `json:"brand"`
	// Seller snapshot, refurbished items only.
	Seller *SellerContact `json:"sellerInfo,omitempty"`
	// Back-reference to the submission this product was derived from.
	// Write-once: set by the review workflow, never updated afterwards.
	OriginalSubmissionID string `json:"originalSubmissionId,omitempty"`
	Active               bool   `json:"active"`
	CreatedAt            string `json:"createdAt"`
	UpdatedAt            string `json:"updatedAt,omitempty"`
}

type Availability struct {
	Status string `json:"status"` // IN_STOCK | LOW_STOCK | OUT_OF_STOCK
	Qty    int    `json:"qty,omitempty"`
}

// Order lifecycle.
const (
	OrderPlaced     = "PLACED"
	OrderProcessing = "PROCESSING"
	OrderShipped    = "SHIPPED"
	OrderDelivered  = "DELIVERED"
	OrderCanceled   = "CANCELED"
)

// Repair booking lifecycle.
const (
	RepairRequested = "REQUESTED"
	RepairConfirmed = "CONFIRMED"
	RepairCompleted = "COMPLETED"
	RepairCanceled  = "CANCELED"
)

type Repair struct {
	ID            string `db:"id" json:"id"`
	Device        string `db:"device" json:"device"`
	Brand         string `db:"brand" json:"brand"`
	Issue         string `db:"issue" json:"issue"`
	PreferredDate string `db:"preferred_date" json:"preferredDate"`
	CustomerName  string `db:"customer_name" json:"customerName"`
	CustomerEmail string `db:"customer_email" json:"customerEmail"`
	CustomerPhone string `db:"customer_phone" json:"customerPhone"`
	Status        string `db:"status" json:"status"`
	Notes         string `db:"notes" json:"notes,omitempty"`
	CreatedAt     string `db:"created_at" json:"createdAt"`
	UpdatedAt     string `db:"updated_at" json:"updatedAt,omitempty"`
}
