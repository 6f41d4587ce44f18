package repos

import (
	"encoding/json"
	"fmt"
	"strings"

	"voltbay/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ProductRepo struct{ db sqlx.Ext }

func NewProductRepo(db sqlx.Ext) *ProductRepo { return &ProductRepo{db: db} }

type productRow struct {
	ID                   string  `db:"id"`
	CategoryID           string  `db:"category_id"`
	Title                string  `db:"title"`
	Description          string  `db:"description"`
	Price                float64 `db:"price"`
	ImagesJSON           string  `db:"images_json"`
	Stock                int     `db:"stock"`
	Featured             bool    `db:"featured"`
	Refurbished          bool    `db:"refurbished"`
	Condition            string  `db:"condition"`
	Brand                string  `db:"brand"`
	SellerName           string  `db:"seller_name"`
	SellerEmail          string  `db:"seller_email"`
	SellerPhone          string  `db:"seller_phone"`
	OriginalSubmissionID string  `db:"original_submission_id"`
	Active               bool    `db:"active"`
	CreatedAt            string  `db:"created_at"`
	UpdatedAt            string  `db:"updated_at"`
}

const productCols = `
  id, category_id, title, COALESCE(description,'') AS description, price,
  COALESCE(images_json,'[]') AS images_json, stock, featured, refurbished,
  COALESCE(condition,'') AS condition, brand,
  COALESCE(seller_name,'') AS seller_name, COALESCE(seller_email,'') AS seller_email,
  COALESCE(seller_phone,'') AS seller_phone,
  COALESCE(original_submission_id,'') AS original_submission_id,
  active, created_at, COALESCE(updated_at,'') AS updated_at`

func (row productRow) toDomain() domain.Product {
	var images []string
	_ = json.Unmarshal([]byte(row.ImagesJSON), &images)

	p := domain.Product{
		ID:                   row.ID,
		CategoryID:           row.CategoryID,
		Title:                row.Title,
		Description:          row.Description,
		Price:                row.Price,
		Images:               images,
		Stock:                row.Stock,
		Featured:             row.Featured,
		Refurbished:          row.Refurbished,
		Condition:            domain.Condition(row.Condition),
		Brand:                row.Brand,
		OriginalSubmissionID: row.OriginalSubmissionID,
		Active:               row.Active,
		CreatedAt:            row.CreatedAt,
		UpdatedAt:            row.UpdatedAt,
	}
	if row.SellerName != "" || row.SellerEmail != "" || row.SellerPhone != "" {
		p.Seller = &domain.SellerContact{Name: row.SellerName, Email: row.SellerEmail, Phone: row.SellerPhone}
	}
	return p
}

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var row productRow
	err := sqlx.Get(r.db, &row, `SELECT `+productCols+` FROM products WHERE id = ?`, id)
	if err != nil {
		return domain.Product{}, err
	}
	return row.toDomain(), nil
}

func (r *ProductRepo) GetBySubmission(submissionID string) (domain.Product, error) {
	var row productRow
	err := sqlx.Get(r.db, &row, `SELECT `+productCols+` FROM products WHERE original_submission_id = ?`, submissionID)
	if err != nil {
		return domain.Product{}, err
	}
	return row.toDomain(), nil
}

func (r *ProductRepo) ListByCategory(catID string, limit, offset int) ([]domain.Product, error) {
	var rows []productRow
	err := sqlx.Select(r.db, &rows, `
	  SELECT `+productCols+`
	  FROM products
	  WHERE category_id = ? AND active = 1
	  ORDER BY created_at DESC
	  LIMIT ? OFFSET ?`, catID, limit, offset)
	if err != nil {
		return nil, err
	}
	return rowsToDomain(rows), nil
}

func (r *ProductRepo) ListFeatured(limit int) ([]domain.Product, error) {
	var rows []productRow
	err := sqlx.Select(r.db, &rows, `
	  SELECT `+productCols+`
	  FROM products
	  WHERE featured = 1 AND active = 1
	  ORDER BY created_at DESC
	  LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	return rowsToDomain(rows), nil
}

func (r *ProductRepo) Search(q, catID string, refurbished *bool, limit, offset int) ([]domain.Product, error) {
	where := `active = 1`
	args := []any{}
	if q != "" {
		where += ` AND (LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(brand) LIKE ?)`
		pat := "%" + strings.ToLower(q) + "%"
		args = append(args, pat, pat, pat)
	}
	if catID != "" {
		where += ` AND category_id = ?`
		args = append(args, catID)
	}
	if refurbished != nil {
		where += ` AND refurbished = ?`
		args = append(args, *refurbished)
	}
	args = append(args, limit, offset)

	var rows []productRow
	err := sqlx.Select(r.db, &rows, `
	  SELECT `+productCols+`
	  FROM products
	  WHERE `+where+`
	  ORDER BY created_at DESC
	  LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, err
	}
	return rowsToDomain(rows), nil
}

func rowsToDomain(rows []productRow) []domain.Product {
	out := make([]domain.Product, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out
}

func (r *ProductRepo) Insert(p domain.Product) error {
	images, err := json.Marshal(p.Images)
	if err != nil {
		return err
	}
	var cond, subID, sName, sEmail, sPhone any
	if p.Condition != "" {
		cond = string(p.Condition)
	}
	if p.OriginalSubmissionID != "" {
		subID = p.OriginalSubmissionID
	}
	if p.Seller != nil {
		sName, sEmail, sPhone = p.Seller.Name, p.Seller.Email, p.Seller.Phone
	}
	_, err = r.db.Exec(`
	  INSERT INTO products
	    (id, category_id, title, description, price, images_json, stock, featured, refurbished,
	     condition, brand, seller_name, seller_email, seller_phone, original_submission_id, active, created_at)
	  VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,1,CURRENT_TIMESTAMP)
	`, p.ID, p.CategoryID, p.Title, p.Description, p.Price, string(images), p.Stock, p.Featured,
		p.Refurbished, cond, p.Brand, sName, sEmail, sPhone, subID)
	return err
}

// Update rewrites mutable catalog fields; it never touches the refurbished
// flag, seller snapshot or submission back-reference.
func (r *ProductRepo) Update(p domain.Product) error {
	images, err := json.Marshal(p.Images)
	if err != nil {
		return err
	}
	res, err := r.db.Exec(`
	  UPDATE products
	  SET category_id=?, title=?, description=?, price=?, images_json=?, stock=?, featured=?, active=?,
	      brand=?, updated_at=CURRENT_TIMESTAMP
	  WHERE id=?
	`, p.CategoryID, p.Title, p.Description, p.Price, string(images), p.Stock, p.Featured, p.Active, p.Brand, p.ID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("product %s not found", p.ID)
	}
	return nil
}

func (r *ProductRepo) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM products WHERE id = ?`, id)
	return err
}

// Stock returns current stock for a product.
func (r *ProductRepo) Stock(id string) (int, error) {
	var qty int
	err := sqlx.Get(r.db, &qty, `SELECT stock FROM products WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	return qty, nil
}

// DecrementStock atomically subtracts "by" units if enough stock exists.
func (r *ProductRepo) DecrementStock(id string, by int) error {
	res, err := r.db.Exec(`
	  UPDATE products
	  SET stock = stock - ?, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ? AND stock >= ?
	`, by, id, by)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("insufficient stock for %s", id)
	}
	return nil
}

// SetStock sets absolute stock for a product (admin restock).
func (r *ProductRepo) SetStock(id string, qty int) error {
	_, err := r.db.Exec(`UPDATE products SET stock = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, qty, id)
	return err
}
