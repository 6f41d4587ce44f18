package services

import (
	"database/sql"
	"errors"
	"fmt"

	"voltbay/internal/domain"
	"voltbay/internal/repos"

	"github.com/google/uuid"
)

type Contact struct {
	Name  string
	Email string
}

type OrderService struct {
	Carts  *repos.CartRepo
	Prods  *repos.ProductRepo
	Orders *repos.OrderRepo
}

func NewOrderService(carts *repos.CartRepo, prods *repos.ProductRepo, orders *repos.OrderRepo) *OrderService {
	return &OrderService{Carts: carts, Prods: prods, Orders: orders}
}

func (s *OrderService) Place(sessionID, userID, region, fulfillment string, contact Contact) (string, float64, error) {
	if region == "" {
		return "", 0, errors.New("missing region")
	}
	if fulfillment == "" {
		fulfillment = "delivery"
	}

	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return "", 0, err
	}

	items, err := s.Carts.Items(cartID)
	if err != nil {
		return "", 0, err
	}
	if len(items) == 0 {
		return "", 0, errors.New("cart empty")
	}

	// pre-check stock
	for _, it := range items {
		qty, err := s.Prods.Stock(it.ProductID)
		if err != nil && err != sql.ErrNoRows {
			return "", 0, err
		}
		if qty < it.Qty {
			return "", 0, fmt.Errorf("insufficient stock for %s (need %d, have %d)", it.ProductID, it.Qty, qty)
		}
	}

	// decrement
	for _, it := range items {
		if err := s.Prods.DecrementStock(it.ProductID, it.Qty); err != nil {
			return "", 0, err
		}
	}

	// totals
	total := 0.0
	for _, it := range items {
		total += it.Price * float64(it.Qty)
	}

	// create order
	orderID := uuid.NewString()
	if err := s.Orders.Create(orderID, sessionID, userID, region, fulfillment, contact.Name, contact.Email, total); err != nil {
		return "", 0, err
	}
	for _, it := range items {
		if err := s.Orders.InsertItem(orderID, it.ProductID, it.Title, it.Qty, it.Price); err != nil {
			return "", 0, err
		}
	}
	_ = s.Carts.Clear(cartID)
	return orderID, total, nil
}

// allowed order transitions; terminal states have no exits.
var orderTransitions = map[string][]string{
	domain.OrderPlaced:     {domain.OrderProcessing, domain.OrderCanceled},
	domain.OrderProcessing: {domain.OrderShipped, domain.OrderCanceled},
	domain.OrderShipped:    {domain.OrderDelivered},
}

func (s *OrderService) UpdateStatus(orderID, next string) error {
	o, _, err := s.Orders.Get(orderID)
	if err != nil {
		return err
	}
	for _, allowed := range orderTransitions[o.Status] {
		if allowed == next {
			return s.Orders.UpdateStatus(orderID, next)
		}
	}
	return fmt.Errorf("cannot move order from %s to %s", o.Status, next)
}
