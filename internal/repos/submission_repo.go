package repos

import (
	"encoding/json"

	"voltbay/internal/domain"

	"github.com/jmoiron/sqlx"
)

// SubmissionRepo works against either *sqlx.DB or a *sqlx.Tx, so the review
// workflow can rebind it to a transaction via UnitOfWork.
type SubmissionRepo struct{ db sqlx.Ext }

func NewSubmissionRepo(db sqlx.Ext) *SubmissionRepo { return &SubmissionRepo{db: db} }

type submissionRow struct {
	ID           string   `db:"id"`
	Title        string   `db:"title"`
	Description  string   `db:"description"`
	Category     string   `db:"category"`
	Condition    string   `db:"condition"`
	ImagesJSON   string   `db:"images_json"`
	AskingPrice  *float64 `db:"asking_price"`
	RequestQuote bool     `db:"request_quote"`
	Brand        string   `db:"brand"`
	SellerName   string   `db:"seller_name"`
	SellerEmail  string   `db:"seller_email"`
	SellerPhone  string   `db:"seller_phone"`
	Status       string   `db:"status"`
	AdminNotes   string   `db:"admin_notes"`
	CreatedAt    string   `db:"created_at"`
}

const submissionCols = `
  id, title, COALESCE(description,'') AS description, category, condition,
  COALESCE(images_json,'[]') AS images_json, asking_price, request_quote,
  COALESCE(brand,'') AS brand, seller_name, seller_email, seller_phone,
  status, COALESCE(admin_notes,'') AS admin_notes, created_at`

func (row submissionRow) toDomain() domain.Submission {
	var images []string
	_ = json.Unmarshal([]byte(row.ImagesJSON), &images)

	pricing := domain.QuoteRequested()
	if row.AskingPrice != nil {
		pricing = domain.Priced(*row.AskingPrice)
	}
	return domain.Submission{
		ID:          row.ID,
		Title:       row.Title,
		Description: row.Description,
		Category:    row.Category,
		Condition:   domain.Condition(row.Condition),
		Images:      images,
		Pricing:     pricing,
		Brand:       row.Brand,
		Seller:      domain.SellerContact{Name: row.SellerName, Email: row.SellerEmail, Phone: row.SellerPhone},
		Status:      domain.SubmissionStatus(row.Status),
		AdminNotes:  row.AdminNotes,
		CreatedAt:   row.CreatedAt,
	}
}

func (r *SubmissionRepo) Get(id string) (domain.Submission, error) {
	var row submissionRow
	err := sqlx.Get(r.db, &row, `SELECT `+submissionCols+` FROM used_submissions WHERE id = ?`, id)
	if err != nil {
		return domain.Submission{}, err
	}
	return row.toDomain(), nil
}

func (r *SubmissionRepo) List(status string, limit, offset int) ([]domain.Submission, error) {
	where := `1=1`
	args := []any{}
	if status != "" {
		where = `status = ?`
		args = append(args, status)
	}
	args = append(args, limit, offset)

	var rows []submissionRow
	err := sqlx.Select(r.db, &rows, `
	  SELECT `+submissionCols+`
	  FROM used_submissions
	  WHERE `+where+`
	  ORDER BY created_at DESC
	  LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Submission, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}

func (r *SubmissionRepo) Insert(s domain.Submission) error {
	images, err := json.Marshal(s.Images)
	if err != nil {
		return err
	}
	var asking any
	quote := 0
	if amt, ok := s.Pricing.Amount(); ok {
		asking = amt
	} else {
		quote = 1
	}
	_, err = r.db.Exec(`
	  INSERT INTO used_submissions
	    (id, title, description, category, condition, images_json, asking_price, request_quote,
	     brand, seller_name, seller_email, seller_phone, status, created_at)
	  VALUES (?,?,?,?,?,?,?,?,?,?,?,?,'pending',CURRENT_TIMESTAMP)
	`, s.ID, s.Title, s.Description, s.Category, string(s.Condition), string(images), asking, quote,
		s.Brand, s.Seller.Name, s.Seller.Email, s.Seller.Phone)
	return err
}

// MarkApproved flips a pending submission to approved. The status guard in the
// WHERE clause closes the read-then-write race: of two transactions racing on
// the same id, only one sees an affected row.
func (r *SubmissionRepo) MarkApproved(id string) (int64, error) {
	res, err := r.db.Exec(`
	  UPDATE used_submissions
	  SET status = 'approved', updated_at = CURRENT_TIMESTAMP
	  WHERE id = ? AND status = 'pending'
	`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeletePending removes a submission record, guarded on pending status.
func (r *SubmissionRepo) DeletePending(id string) (int64, error) {
	res, err := r.db.Exec(`DELETE FROM used_submissions WHERE id = ? AND status = 'pending'`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *SubmissionRepo) CountByStatus() (map[string]int, error) {
	var rows []struct {
		Status string `db:"status"`
		N      int    `db:"n"`
	}
	if err := sqlx.Select(r.db, &rows, `SELECT status, COUNT(*) AS n FROM used_submissions GROUP BY status`); err != nil {
		return nil, err
	}
	out := map[string]int{}
	for _, row := range rows {
		out[row.Status] = row.N
	}
	return out, nil
}
