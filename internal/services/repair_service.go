package services

import (
	"database/sql"
	"errors"
	"fmt"

	"voltbay/internal/domain"
	"voltbay/internal/repos"

	"github.com/google/uuid"
)

var ErrRepairNotFound = errors.New("repair booking not found")

type RepairService struct {
	Repairs *repos.RepairRepo
}

func NewRepairService(repairs *repos.RepairRepo) *RepairService {
	return &RepairService{Repairs: repairs}
}

type RepairInput struct {
	Device        string
	Brand         string
	Issue         string
	PreferredDate string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
}

func (s *RepairService) Book(in RepairInput) (domain.Repair, error) {
	rep := domain.Repair{
		ID:            uuid.NewString(),
		Device:        in.Device,
		Brand:         in.Brand,
		Issue:         in.Issue,
		PreferredDate: in.PreferredDate,
		CustomerName:  in.CustomerName,
		CustomerEmail: in.CustomerEmail,
		CustomerPhone: in.CustomerPhone,
		Status:        domain.RepairRequested,
	}
	if err := s.Repairs.Insert(rep); err != nil {
		return domain.Repair{}, err
	}
	return s.Repairs.Get(rep.ID)
}

func (s *RepairService) Get(id string) (domain.Repair, error) {
	rep, err := s.Repairs.Get(id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Repair{}, ErrRepairNotFound
	}
	return rep, err
}

func (s *RepairService) List(status string, page, pageSize int) ([]domain.Repair, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize
	return s.Repairs.List(status, pageSize, offset)
}

var repairTransitions = map[string][]string{
	domain.RepairRequested: {domain.RepairConfirmed, domain.RepairCanceled},
	domain.RepairConfirmed: {domain.RepairCompleted, domain.RepairCanceled},
}

func (s *RepairService) UpdateStatus(id, next, notes string) (domain.Repair, error) {
	rep, err := s.Get(id)
	if err != nil {
		return domain.Repair{}, err
	}
	ok := false
	for _, allowed := range repairTransitions[rep.Status] {
		if allowed == next {
			ok = true
			break
		}
	}
	if !ok {
		return domain.Repair{}, fmt.Errorf("cannot move repair from %s to %s", rep.Status, next)
	}
	if _, err := s.Repairs.UpdateStatus(id, next, notes); err != nil {
		return domain.Repair{}, err
	}
	return s.Repairs.Get(id)
}
