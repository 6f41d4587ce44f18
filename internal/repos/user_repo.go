package repos

import (
	"voltbay/internal/domain"

	"github.com/jmoiron/sqlx"
)

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

func (r *UserRepo) ByEmail(email string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT id,email,name,password_hash,role FROM users WHERE LOWER(email)=LOWER(?)`, email)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ByID(id string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT id,email,name,password_hash,role FROM users WHERE id=?`, id)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) Create(u *domain.User) error {
	_, err := r.DB.Exec(`
	  INSERT INTO users(id,email,name,password_hash,role,created_at)
	  VALUES(?,?,?,?,?,CURRENT_TIMESTAMP)
	`, u.ID, u.Email, u.Name, u.Hash, u.Role)
	return err
}

type UserSummary struct {
	ID    string `db:"id" json:"id"`
	Email string `db:"email" json:"email"`
	Name  string `db:"name" json:"name"`
	Role  string `db:"role" json:"role"`
}

func (r *UserRepo) ListNonAdmin() ([]UserSummary, error) {
	var users []UserSummary
	err := r.DB.Select(&users, `SELECT id,email,name,role FROM users WHERE role != 'ADMIN' ORDER BY email`)
	return users, err
}

// DeleteUserCascade removes a user and their cart data, cancels their orders
// (order rows are kept for audit).
func (r *UserRepo) DeleteUserCascade(userID string) error {
	tx, err := r.DB.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`UPDATE orders SET status='CANCELED' WHERE user_id=? AND status NOT IN ('DELIVERED','CANCELED')`, userID); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM carts WHERE session_id IN (SELECT session_id FROM orders WHERE user_id=?)`, userID); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM users WHERE id=?`, userID); err != nil {
		return err
	}

	return tx.Commit()
}
