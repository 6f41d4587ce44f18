package repos

import (
	"voltbay/internal/domain"

	"github.com/jmoiron/sqlx"
)

type RepairRepo struct{ db *sqlx.DB }

func NewRepairRepo(db *sqlx.DB) *RepairRepo { return &RepairRepo{db: db} }

const repairCols = `
  id, device, COALESCE(brand,'') AS brand, issue, COALESCE(preferred_date,'') AS preferred_date,
  customer_name, customer_email, COALESCE(customer_phone,'') AS customer_phone,
  status, COALESCE(notes,'') AS notes, created_at, COALESCE(updated_at,'') AS updated_at`

func (r *RepairRepo) Insert(rep domain.Repair) error {
	_, err := r.db.Exec(`
	  INSERT INTO repairs
	    (id, device, brand, issue, preferred_date, customer_name, customer_email, customer_phone, status, created_at)
	  VALUES (?,?,?,?,?,?,?,?,'REQUESTED',CURRENT_TIMESTAMP)
	`, rep.ID, rep.Device, rep.Brand, rep.Issue, rep.PreferredDate,
		rep.CustomerName, rep.CustomerEmail, rep.CustomerPhone)
	return err
}

func (r *RepairRepo) Get(id string) (domain.Repair, error) {
	var rep domain.Repair
	err := r.db.Get(&rep, `SELECT `+repairCols+` FROM repairs WHERE id = ?`, id)
	return rep, err
}

func (r *RepairRepo) List(status string, limit, offset int) ([]domain.Repair, error) {
	where := `1=1`
	args := []any{}
	if status != "" {
		where = `status = ?`
		args = append(args, status)
	}
	args = append(args, limit, offset)

	var out []domain.Repair
	err := r.db.Select(&out, `
	  SELECT `+repairCols+`
	  FROM repairs
	  WHERE `+where+`
	  ORDER BY created_at DESC
	  LIMIT ? OFFSET ?`, args...)
	return out, err
}

func (r *RepairRepo) UpdateStatus(id, status, notes string) (int64, error) {
	res, err := r.db.Exec(`
	  UPDATE repairs
	  SET status = ?, notes = COALESCE(NULLIF(?,''), notes), updated_at = CURRENT_TIMESTAMP
	  WHERE id = ?
	`, status, notes, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
