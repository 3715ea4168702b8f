package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dineflow/api/internal/enum"
	"github.com/dineflow/api/internal/models"
	"github.com/google/uuid"
)

// Memory is the default storage backend. The application keeps all state
// in process; orders survive only for the lifetime of the server unless a
// Postgres OrderStore is configured instead.
type Memory struct {
	mu         sync.RWMutex
	menuItems  map[uuid.UUID]models.MenuItem
	categories map[uuid.UUID]models.Category
	tables     map[int]models.Table
	orders     map[uuid.UUID]models.Order
	offers     map[uuid.UUID]models.Offer
	users      map[uuid.UUID]models.User
	orderSeq   int
}

// NewMemory creates an empty in-memory store. Order sequence numbers start
// at 1001 so display numbers match the four-digit scheme.
func NewMemory() *Memory {
	return &Memory{
		menuItems:  make(map[uuid.UUID]models.MenuItem),
		categories: make(map[uuid.UUID]models.Category),
		tables:     make(map[int]models.Table),
		orders:     make(map[uuid.UUID]models.Order),
		offers:     make(map[uuid.UUID]models.Offer),
		users:      make(map[uuid.UUID]models.User),
		orderSeq:   1000,
	}
}

// --- MenuStore ---

func (m *Memory) ListMenuItems(ctx context.Context) ([]models.MenuItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	items := make([]models.MenuItem, 0, len(m.menuItems))
	for _, it := range m.menuItems {
		items = append(items, it)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

func (m *Memory) GetMenuItem(ctx context.Context, id uuid.UUID) (models.MenuItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	item, ok := m.menuItems[id]
	if !ok {
		return models.MenuItem{}, ErrNotFound
	}
	return item, nil
}

func (m *Memory) CreateMenuItem(ctx context.Context, item models.MenuItem) (models.MenuItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now
	m.menuItems[item.ID] = item
	return item, nil
}

func (m *Memory) UpdateMenuItem(ctx context.Context, item models.MenuItem) (models.MenuItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.menuItems[item.ID]
	if !ok {
		return models.MenuItem{}, ErrNotFound
	}
	item.CreatedAt = existing.CreatedAt
	item.UpdatedAt = time.Now()
	m.menuItems[item.ID] = item
	return item, nil
}

func (m *Memory) DeleteMenuItem(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.menuItems[id]; !ok {
		return ErrNotFound
	}
	delete(m.menuItems, id)
	return nil
}

// --- CategoryStore ---

func (m *Memory) ListCategories(ctx context.Context) ([]models.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cats := make([]models.Category, 0, len(m.categories))
	for _, c := range m.categories {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool {
		if cats[i].SortOrder != cats[j].SortOrder {
			return cats[i].SortOrder < cats[j].SortOrder
		}
		return cats[i].Name < cats[j].Name
	})
	return cats, nil
}

func (m *Memory) CreateCategory(ctx context.Context, c models.Category) (models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt = time.Now()
	m.categories[c.ID] = c
	return c, nil
}

func (m *Memory) UpdateCategory(ctx context.Context, c models.Category) (models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.categories[c.ID]
	if !ok {
		return models.Category{}, ErrNotFound
	}
	c.CreatedAt = existing.CreatedAt
	m.categories[c.ID] = c
	return c, nil
}

func (m *Memory) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.categories[id]
	if !ok {
		return ErrNotFound
	}
	// Soft delete: items keep their category reference.
	c.Active = false
	m.categories[id] = c
	return nil
}

// --- TableStore ---

func (m *Memory) ListTables(ctx context.Context) ([]models.Table, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tables := make([]models.Table, 0, len(m.tables))
	for _, t := range m.tables {
		tables = append(tables, t)
	}
	sort.Slice(tables, func(i, j int) bool { return tables[i].ID < tables[j].ID })
	return tables, nil
}

func (m *Memory) GetTable(ctx context.Context, id int) (models.Table, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tables[id]
	if !ok {
		return models.Table{}, ErrNotFound
	}
	return t, nil
}

func (m *Memory) SetTableAvailability(ctx context.Context, id int, available bool) (models.Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tables[id]
	if !ok {
		return models.Table{}, ErrNotFound
	}
	t.Available = available
	m.tables[id] = t
	return t, nil
}

// SeedTables loads the fixed table catalog.
func (m *Memory) SeedTables(tables []models.Table) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range tables {
		m.tables[t.ID] = t
	}
}

// --- OrderStore ---

func (m *Memory) NextOrderSeq(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orderSeq++
	return m.orderSeq, nil
}

func (m *Memory) CreateOrder(ctx context.Context, o models.Order) (models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	m.orders[o.ID] = o
	return o, nil
}

func (m *Memory) GetOrder(ctx context.Context, id uuid.UUID) (models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.orders[id]
	if !ok {
		return models.Order{}, ErrNotFound
	}
	return o, nil
}

func (m *Memory) ListOrders(ctx context.Context, params ListOrdersParams) ([]models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	orders := make([]models.Order, 0, len(m.orders))
	for _, o := range m.orders {
		if params.Status != "" && o.Status != params.Status {
			continue
		}
		orders = append(orders, o)
	}
	// Newest first, matching the order board.
	sort.Slice(orders, func(i, j int) bool { return orders[i].OrderTime.After(orders[j].OrderTime) })

	if params.Offset > 0 {
		if params.Offset >= len(orders) {
			return []models.Order{}, nil
		}
		orders = orders[params.Offset:]
	}
	if params.Limit > 0 && params.Limit < len(orders) {
		orders = orders[:params.Limit]
	}
	return orders, nil
}

func (m *Memory) UpdateStatus(ctx context.Context, id uuid.UUID, from, to string) (models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return models.Order{}, ErrNotFound
	}
	if o.Status != from {
		return models.Order{}, ErrStatusChanged
	}
	o.Status = to
	m.orders[id] = o
	return o, nil
}

func (m *Memory) MarkPaid(ctx context.Context, id uuid.UUID) (models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return models.Order{}, ErrNotFound
	}
	o.PaymentStatus = enum.PaymentStatusPaid
	m.orders[id] = o
	return o, nil
}

// --- OfferStore ---

func (m *Memory) ListOffers(ctx context.Context) ([]models.Offer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	offers := make([]models.Offer, 0, len(m.offers))
	for _, o := range m.offers {
		offers = append(offers, o)
	}
	sort.Slice(offers, func(i, j int) bool { return offers[i].Code < offers[j].Code })
	return offers, nil
}

func (m *Memory) GetOfferByCode(ctx context.Context, code string) (models.Offer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, o := range m.offers {
		if o.Code == code {
			return o, nil
		}
	}
	return models.Offer{}, ErrNotFound
}

func (m *Memory) CreateOffer(ctx context.Context, o models.Offer) (models.Offer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o.Code = strings.ToUpper(strings.TrimSpace(o.Code))
	for _, existing := range m.offers {
		if existing.Code == o.Code {
			return models.Offer{}, ErrDuplicateCode
		}
	}
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	o.CreatedAt = time.Now()
	m.offers[o.ID] = o
	return o, nil
}

func (m *Memory) UpdateOffer(ctx context.Context, o models.Offer) (models.Offer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.offers[o.ID]
	if !ok {
		return models.Offer{}, ErrNotFound
	}
	o.Code = strings.ToUpper(strings.TrimSpace(o.Code))
	o.CreatedAt = existing.CreatedAt
	m.offers[o.ID] = o
	return o, nil
}

func (m *Memory) DeleteOffer(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.offers[id]; !ok {
		return ErrNotFound
	}
	delete(m.offers, id)
	return nil
}

// --- UserStore ---

func (m *Memory) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return models.User{}, ErrNotFound
}

func (m *Memory) GetUser(ctx context.Context, id uuid.UUID) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return u, nil
}

func (m *Memory) CreateUser(ctx context.Context, u models.User) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	m.users[u.ID] = u
	return u, nil
}
