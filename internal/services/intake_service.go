package services

import (
	"errors"

	"voltbay/internal/domain"
	"voltbay/internal/repos"

	"github.com/google/uuid"
)

var ErrUnknownCategory = errors.New("unknown category")

// IntakeService accepts seller-facing used-item listings.
type IntakeService struct {
	Subs *repos.SubmissionRepo
	Cats *repos.CategoryRepo
}

func NewIntakeService(subs *repos.SubmissionRepo, cats *repos.CategoryRepo) *IntakeService {
	return &IntakeService{Subs: subs, Cats: cats}
}

type SubmissionInput struct {
	Title       string
	Description string
	Category    string
	Condition   domain.Condition
	Images      []string
	Pricing     domain.Pricing
	Brand       string
	Seller      domain.SellerContact
}

func (s *IntakeService) Submit(in SubmissionInput) (domain.Submission, error) {
	ok, err := s.Cats.Exists(in.Category)
	if err != nil {
		return domain.Submission{}, err
	}
	if !ok {
		return domain.Submission{}, ErrUnknownCategory
	}

	sub := domain.Submission{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Condition:   in.Condition,
		Images:      in.Images,
		Pricing:     in.Pricing,
		Brand:       in.Brand,
		Seller:      in.Seller,
		Status:      domain.StatusPending,
	}
	if err := s.Subs.Insert(sub); err != nil {
		return domain.Submission{}, err
	}
	return s.Subs.Get(sub.ID)
}

func (s *IntakeService) Get(id string) (domain.Submission, error) {
	return s.Subs.Get(id)
}

func (s *IntakeService) List(status string, page, pageSize int) ([]domain.Submission, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize
	return s.Subs.List(status, pageSize, offset)
}
