package services

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/devmazaharul/fcommerce/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var errDBDown = errors.New("connection refused")

// --- Mock Product Repository ---

type mockProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*models.Product
	err      error
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{products: make(map[uuid.UUID]*models.Product)}
}

func (m *mockProductRepo) FindAll(_ context.Context) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]models.Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, *p)
	}
	return out, nil
}

func (m *mockProductRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockProductRepo) FindBySlug(_ context.Context, slug string) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, p := range m.products {
		if p.Slug == slug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProductRepo) Create(_ context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	m.products[p.ID] = &cp
	return nil
}

func (m *mockProductRepo) Update(_ context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	cp := *p
	m.products[p.ID] = &cp
	return nil
}

func (m *mockProductRepo) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	_, ok := m.products[id]
	delete(m.products, id)
	return ok, nil
}

func (m *mockProductRepo) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	return int64(len(m.products)), nil
}

// --- Mock Order Repository ---

type mockOrderRepo struct {
	mu     sync.Mutex
	orders []*models.Order
	err    error
}

func (m *mockOrderRepo) Create(_ context.Context, o *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	cp := *o
	m.orders = append(m.orders, &cp)
	return nil
}

func (m *mockOrderRepo) FindAll(_ context.Context, page, limit int) ([]models.Order, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, 0, m.err
	}
	all := make([]models.Order, 0, len(m.orders))
	for _, o := range m.orders {
		all = append(all, *o)
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := int64(len(all))
	if limit > 0 {
		start := (page - 1) * limit
		if start > len(all) {
			start = len(all)
		}
		end := start + limit
		if end > len(all) {
			end = len(all)
		}
		all = all[start:end]
	}
	return all, total, nil
}

func (m *mockOrderRepo) find(id uuid.UUID) *models.Order {
	for _, o := range m.orders {
		if o.ID == id {
			return o
		}
	}
	return nil
}

func (m *mockOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	o := m.find(id)
	if o == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *mockOrderRepo) Confirm(_ context.Context, id uuid.UUID) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	o := m.find(id)
	if o == nil {
		return nil, gorm.ErrRecordNotFound
	}
	o.Status = true
	cp := *o
	return &cp, nil
}

func (m *mockOrderRepo) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	for i, o := range m.orders {
		if o.ID == id {
			m.orders = append(m.orders[:i], m.orders[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *mockOrderRepo) Stats(_ context.Context) (*models.DashboardStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	stats := &models.DashboardStats{TotalRevenue: decimal.Zero}
	for _, o := range m.orders {
		stats.TotalOrders++
		if o.Status {
			stats.ConfirmedOrders++
		} else {
			stats.PendingOrders++
		}
		stats.TotalRevenue = stats.TotalRevenue.Add(o.Total)
	}
	return stats, nil
}

// --- Mock Admin Repository ---

type mockAdminRepo struct {
	admins map[string]*models.Admin
	err    error
}

func newMockAdminRepo() *mockAdminRepo {
	return &mockAdminRepo{admins: make(map[string]*models.Admin)}
}

func (m *mockAdminRepo) FindByEmail(_ context.Context, email string) (*models.Admin, error) {
	if m.err != nil {
		return nil, m.err
	}
	a, ok := m.admins[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *mockAdminRepo) Create(_ context.Context, a *models.Admin) error {
	if m.err != nil {
		return m.err
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	cp := *a
	m.admins[a.Email] = &cp
	return nil
}

func (m *mockAdminRepo) Update(_ context.Context, a *models.Admin) error {
	if m.err != nil {
		return m.err
	}
	cp := *a
	m.admins[a.Email] = &cp
	return nil
}

// --- Mock Publisher ---

type mockPublisher struct {
	mu     sync.Mutex
	events []models.OrderPlacedEvent
	err    error
}

func (m *mockPublisher) PublishOrderPlaced(_ context.Context, e models.OrderPlacedEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
	return m.err
}

func (m *mockPublisher) Close() error { return nil }

// --- Cart storage that can be switched to failing ---

type flakyCartStorage struct {
	mu      sync.Mutex
	data    map[string][]byte
	failing bool
}

func newFlakyCartStorage() *flakyCartStorage {
	return &flakyCartStorage{data: make(map[string][]byte)}
}

func (f *flakyCartStorage) Load(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.data[key], nil
}

func (f *flakyCartStorage) Save(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return errDBDown
	}
	f.data[key] = data
	return nil
}

func (f *flakyCartStorage) setFailing(v bool) {
	f.mu.Lock()
	f.failing = v
	f.mu.Unlock()
}
