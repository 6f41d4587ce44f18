package repos

import "github.com/jmoiron/sqlx"

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

// ---------- Admin list summary ----------
type OrderSummary struct {
	ID            string  `db:"id" json:"id"`
	CustomerName  string  `db:"customer_name" json:"customerName"`
	CustomerEmail string  `db:"customer_email" json:"customerEmail"`
	Total         float64 `db:"total" json:"total"`
	Status        string  `db:"status" json:"status"`
	CreatedAt     string  `db:"created_at" json:"createdAt"`
}

// ---------- Order detail ----------
type OrderRow struct {
	ID          string  `db:"id" json:"id"`
	SessionID   string  `db:"session_id" json:"-"`
	UserID      string  `db:"user_id" json:"userId,omitempty"`
	Region      string  `db:"region_code" json:"region"`
	Fulfillment string  `db:"fulfillment" json:"fulfillment"`
	Customer    string  `db:"customer_name" json:"customerName"`
	Email       string  `db:"customer_email" json:"customerEmail"`
	Total       float64 `db:"total" json:"total"`
	Status      string  `db:"status" json:"status"`
	CreatedAt   string  `db:"created_at" json:"createdAt"`
}

type OrderItemRow struct {
	Title    string  `db:"title" json:"title"`
	Qty      int     `db:"qty" json:"qty"`
	Price    float64 `db:"price" json:"price"`
	Subtotal float64 `db:"subtotal" json:"subtotal"`
}

// Create inserts a new order header.
func (r *OrderRepo) Create(orderID, sessionID, userID, region, fulfillment, name, email string, total float64) error {
	var uid any
	if userID != "" {
		uid = userID
	}
	_, err := r.db.Exec(`
	  INSERT INTO orders
	    (id, session_id, user_id, region_code, fulfillment, customer_name, customer_email, total, status, created_at)
	  VALUES
	    (?,  ?,          ?,       ?,           ?,           ?,             ?,              ?,     'PLACED', CURRENT_TIMESTAMP)
	`, orderID, sessionID, uid, region, fulfillment, name, email, total)
	return err
}

// InsertItem inserts a single line item; the title is copied so the line
// survives later catalog edits.
func (r *OrderRepo) InsertItem(orderID, productID, title string, qty int, price float64) error {
	_, err := r.db.Exec(`
	  INSERT INTO order_items(order_id, product_id, qty, price, title)
	  VALUES(?, ?, ?, ?, ?)
	`, orderID, productID, qty, price, title)
	return err
}

func (r *OrderRepo) Get(orderID string) (OrderRow, []OrderItemRow, error) {
	var o OrderRow
	if err := r.db.Get(&o, `
		SELECT id, COALESCE(session_id,'') AS session_id, COALESCE(user_id,'') AS user_id,
		       COALESCE(region_code,'') AS region_code, COALESCE(fulfillment,'') AS fulfillment,
		       COALESCE(customer_name,'') AS customer_name, COALESCE(customer_email,'') AS customer_email,
		       total, status, created_at
		FROM orders
		WHERE id = ?
	`, orderID); err != nil {
		return OrderRow{}, nil, err
	}

	var items []OrderItemRow
	if err := r.db.Select(&items, `
		SELECT title, qty, price, (qty * price) AS subtotal
		FROM order_items
		WHERE order_id = ?
		ORDER BY title
	`, orderID); err != nil {
		return OrderRow{}, nil, err
	}

	return o, items, nil
}

func (r *OrderRepo) ListLatest(limit int) ([]OrderSummary, error) {
	if limit <= 0 {
		limit = 100
	}
	var out []OrderSummary
	err := r.db.Select(&out, `
		SELECT id, COALESCE(customer_name,'') AS customer_name,
		       COALESCE(customer_email,'') AS customer_email, total, status, created_at
		FROM orders
		ORDER BY datetime(created_at) DESC
		LIMIT ?
	`, limit)
	return out, err
}

func (r *OrderRepo) ListByUser(userID string) ([]OrderSummary, error) {
	var out []OrderSummary
	err := r.db.Select(&out, `
		SELECT id, COALESCE(customer_name,'') AS customer_name,
		       COALESCE(customer_email,'') AS customer_email, total, status, created_at
		FROM orders
		WHERE user_id = ?
		ORDER BY datetime(created_at) DESC
	`, userID)
	return out, err
}

// ListBySession covers anonymous checkouts tied to a cart session.
func (r *OrderRepo) ListBySession(sessionID string) ([]OrderSummary, error) {
	var out []OrderSummary
	err := r.db.Select(&out, `
		SELECT id, COALESCE(customer_name,'') AS customer_name,
		       COALESCE(customer_email,'') AS customer_email, total, status, created_at
		FROM orders
		WHERE session_id = ?
		ORDER BY datetime(created_at) DESC
	`, sessionID)
	return out, err
}

func (r *OrderRepo) UpdateStatus(id, status string) error {
	_, err := r.db.Exec(`UPDATE orders SET status = ? WHERE id = ?`, status, id)
	return err
}
