package services

import (
	"database/sql"
	"errors"
	"fmt"

	"voltbay/internal/domain"
	applog "voltbay/internal/log"
	"voltbay/internal/media"
	"voltbay/internal/repos"

	"github.com/google/uuid"
)

// ReviewService decides the fate of used-item submissions. Approval flips the
// submission to approved and materializes it as a refurbished catalog entry;
// denial removes the submission and its locally-stored media. Both run as a
// single transaction, so no reader ever observes a half-applied review.
type ReviewService struct {
	UoW   *repos.UnitOfWork
	Media *media.Store
}

func NewReviewService(uow *repos.UnitOfWork, m *media.Store) *ReviewService {
	return &ReviewService{UoW: uow, Media: m}
}

type ApprovalResult struct {
	Submission domain.Submission
	Product    domain.Product
}

// Approve transitions a pending submission to approved and inserts the
// derived product in the same transaction. Exactly one of two concurrent
// calls can succeed: the status guard on the UPDATE settles the race.
func (s *ReviewService) Approve(id string) (ApprovalResult, error) {
	var out ApprovalResult

	err := s.UoW.WithinTx(func(r repos.Repos) error {
		sub, err := r.Submissions.Get(id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrSubmissionNotFound
			}
			return err
		}
		if sub.Status != domain.StatusPending {
			return &StateError{Current: sub.Status}
		}

		n, err := r.Submissions.MarkApproved(id)
		if err != nil {
			return err
		}
		if n == 0 {
			// Another reviewer got here between our read and write.
			return s.currentState(r, id)
		}
		sub.Status = domain.StatusApproved

		prod := s.deriveProduct(sub)
		if err := r.Products.Insert(prod); err != nil {
			return err
		}

		out = ApprovalResult{Submission: sub, Product: prod}
		return nil
	})
	if err != nil {
		return ApprovalResult{}, taxonomize(err)
	}
	return out, nil
}

// Deny removes a pending submission. The record delete is transactional; the
// cleanup of locally-stored media afterwards is best effort and never fails
// the operation. Notes are echoed back for the admin response, not persisted.
func (s *ReviewService) Deny(id, notes string) (domain.Submission, error) {
	var snap domain.Submission

	err := s.UoW.WithinTx(func(r repos.Repos) error {
		sub, err := r.Submissions.Get(id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrSubmissionNotFound
			}
			return err
		}
		if sub.Status != domain.StatusPending {
			return &StateError{Current: sub.Status}
		}

		n, err := r.Submissions.DeletePending(id)
		if err != nil {
			return err
		}
		if n == 0 {
			return s.currentState(r, id)
		}

		snap = sub
		return nil
	})
	if err != nil {
		return domain.Submission{}, taxonomize(err)
	}

	if notes != "" {
		snap.AdminNotes = notes
	}

	// Local media only; external URLs are not ours to delete. Failures are
	// logged and skipped so a stray file never resurrects a denied listing.
	for _, ref := range snap.Images {
		if err := s.Media.Remove(ref); err != nil {
			applog.Warn(nil, "review.deny.media.cleanup", err, map[string]any{"submission_id": id, "ref": ref})
		}
	}

	return snap, nil
}

// currentState re-reads a submission after a guarded write affected no rows,
// so the error names what actually happened to it.
func (s *ReviewService) currentState(r repos.Repos, id string) error {
	cur, err := r.Submissions.Get(id)
	if err != nil {
		return ErrSubmissionNotFound
	}
	return &StateError{Current: cur.Status}
}

func (s *ReviewService) deriveProduct(sub domain.Submission) domain.Product {
	price := 0.0
	if amt, ok := sub.Pricing.Amount(); ok {
		price = amt
	}
	brand := sub.Brand
	if brand == "" {
		brand = "Unknown"
	}
	seller := sub.Seller
	return domain.Product{
		ID:                   uuid.NewString(),
		CategoryID:           sub.Category,
		Title:                sub.Title,
		Description:          sub.Description,
		Price:                price,
		Images:               s.Media.QualifyAll(sub.Images),
		Stock:                1,
		Refurbished:          true,
		Condition:            sub.Condition,
		Brand:                brand,
		Seller:               &seller,
		OriginalSubmissionID: sub.ID,
		Active:               true,
	}
}

// taxonomize folds store errors into the review error taxonomy; not-found and
// state errors pass through untouched.
func taxonomize(err error) error {
	if errors.Is(err, ErrSubmissionNotFound) {
		return err
	}
	var se *StateError
	if errors.As(err, &se) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrPersistence, err)
}
