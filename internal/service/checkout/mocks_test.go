package checkout

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avolkov/storefront/internal/models"
	"github.com/avolkov/storefront/internal/repo"
)

// memProductStore implements ProductStore with an in-memory table. The
// decrement is guarded by a mutex so it is conditional-and-atomic per call,
// matching the contract the real repository gets from the database.
type memProductStore struct {
	mu       sync.Mutex
	products map[uuid.UUID]*models.Product

	fetchErr map[uuid.UUID]error
	decErr   map[uuid.UUID]error
}

func newMemProductStore(products ...*models.Product) *memProductStore {
	s := &memProductStore{
		products: make(map[uuid.UUID]*models.Product),
		fetchErr: make(map[uuid.UUID]error),
		decErr:   make(map[uuid.UUID]error),
	}
	for _, p := range products {
		s.products[p.ID] = p
	}
	return s
}

func (s *memProductStore) GetProduct(_ context.Context, id uuid.UUID) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err, ok := s.fetchErr[id]; ok {
		return nil, err
	}
	p, ok := s.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *memProductStore) DecrementInventory(_ context.Context, id uuid.UUID, amount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err, ok := s.decErr[id]; ok {
		return err
	}
	p, ok := s.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if p.Inventory < amount {
		return repo.ErrInsufficientStock
	}
	p.Inventory -= amount
	return nil
}

func (s *memProductStore) inventory(id uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products[id].Inventory
}

// memOrderStore captures created orders and can be forced to fail.
type memOrderStore struct {
	mu        sync.Mutex
	orders    []*models.Order
	createErr error
}

func (s *memOrderStore) CreateOrder(_ context.Context, order *models.Order) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.createErr != nil {
		return nil, s.createErr
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	s.orders = append(s.orders, order)
	return order, nil
}

func (s *memOrderStore) created() []*models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orders
}
