package repos

import "github.com/jmoiron/sqlx"

// Repos bundles the stores that participate in a review transaction.
type Repos struct {
	Submissions *SubmissionRepo
	Products    *ProductRepo
}

// UnitOfWork runs a function against transaction-bound repos. The transaction
// handle is scoped to the call: committed when fn returns nil, rolled back on
// any error or panic. It is never stored anywhere else.
type UnitOfWork struct{ db *sqlx.DB }

func NewUnitOfWork(db *sqlx.DB) *UnitOfWork { return &UnitOfWork{db: db} }

func (u *UnitOfWork) WithinTx(fn func(r Repos) error) error {
	tx, err := u.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	r := Repos{
		Submissions: NewSubmissionRepo(tx),
		Products:    NewProductRepo(tx),
	}
	if err := fn(r); err != nil {
		return err
	}
	return tx.Commit()
}
