package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"lasercraft-pos/internal/models"
	"lasercraft-pos/internal/store"
)

// fakeStore is an in-memory stand-in for the sqlx store. WithTx serializes
// transactions behind one mutex and restores a snapshot on error, which
// matches the all-or-nothing and serialized check-then-act guarantees the
// real store gets from row locks.
type fakeStore struct {
	mu            sync.Mutex
	products      map[int64]*models.Product
	sales         map[int64]*models.Sale
	nextProductID int64
	nextSaleID    int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products:      make(map[int64]*models.Product),
		sales:         make(map[int64]*models.Sale),
		nextProductID: 1,
		nextSaleID:    1,
	}
}

func (f *fakeStore) addProduct(name string, price float64, stock int) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextProductID
	f.nextProductID++
	f.products[id] = &models.Product{
		ID: id, Name: name, Category: "uncategorized", Price: price, Stock: stock,
	}
	return id
}

func (f *fakeStore) product(id int64) models.Product {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.products[id]
}

func (f *fakeStore) sale(id int64) models.Sale {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.sales[id]
}

func (f *fakeStore) saleCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sales)
}

func (f *fakeStore) snapshot() (map[int64]*models.Product, map[int64]*models.Sale, int64, int64) {
	products := make(map[int64]*models.Product, len(f.products))
	for id, p := range f.products {
		cp := *p
		products[id] = &cp
	}
	sales := make(map[int64]*models.Sale, len(f.sales))
	for id, s := range f.sales {
		cp := *s
		sales[id] = &cp
	}
	return products, sales, f.nextProductID, f.nextSaleID
}

func (f *fakeStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	products, sales, nextP, nextS := f.snapshot()
	if err := fn(&fakeTx{store: f}); err != nil {
		f.products, f.sales, f.nextProductID, f.nextSaleID = products, sales, nextP, nextS
		return err
	}
	return nil
}

type fakeTx struct {
	store *fakeStore
}

func (t *fakeTx) GetProductForSale(ctx context.Context, id int64) (*models.ProductForSale, error) {
	p, ok := t.store.products[id]
	if !ok || p.IsDeleted {
		return nil, models.ErrProductNotFound
	}
	return &models.ProductForSale{ID: p.ID, Name: p.Name, Price: p.Price, Stock: p.Stock}, nil
}

func (t *fakeTx) DecrementStock(ctx context.Context, id int64, qty int) error {
	p, ok := t.store.products[id]
	if !ok {
		return models.ErrProductNotFound
	}
	p.Stock -= qty
	return nil
}

func (t *fakeTx) IncrementStock(ctx context.Context, id int64, qty int) error {
	p, ok := t.store.products[id]
	if !ok {
		return models.ErrProductNotFound
	}
	p.Stock += qty
	return nil
}

func (t *fakeTx) InsertSale(ctx context.Context, sale *models.Sale) (int64, error) {
	id := t.store.nextSaleID
	t.store.nextSaleID++
	sale.ID = id
	cp := *sale
	t.store.sales[id] = &cp
	return id, nil
}

func (t *fakeTx) GetSaleForVoid(ctx context.Context, saleID int64) (*models.SaleForVoid, error) {
	s, ok := t.store.sales[saleID]
	if !ok {
		return nil, models.ErrSaleNotFound
	}
	return &models.SaleForVoid{
		ID: s.ID, ProductID: s.ProductID, ProductName: s.ProductName,
		Qty: s.Qty, Total: s.Total, Voided: s.Voided,
	}, nil
}

func (t *fakeTx) MarkVoided(ctx context.Context, saleID int64, reason string, at time.Time) error {
	s, ok := t.store.sales[saleID]
	if !ok {
		return models.ErrSaleNotFound
	}
	s.Voided = true
	s.VoidReason = &reason
	s.VoidedAt = &at
	return nil
}

// Catalog implementation for CatalogService tests.

func (f *fakeStore) CreateProduct(ctx context.Context, p *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.products {
		if !existing.IsDeleted && existing.Name == p.Name {
			return models.ErrDuplicateName
		}
	}
	p.ID = f.nextProductID
	f.nextProductID++
	cp := *p
	f.products[p.ID] = &cp
	return nil
}

func (f *fakeStore) UpdateProduct(ctx context.Context, p *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.products[p.ID]
	if !ok || existing.IsDeleted {
		return models.ErrProductNotFound
	}
	for id, other := range f.products {
		if id != p.ID && !other.IsDeleted && other.Name == p.Name {
			return models.ErrDuplicateName
		}
	}
	cp := *p
	cp.CreatedAt = existing.CreatedAt
	f.products[p.ID] = &cp
	return nil
}

func (f *fakeStore) SoftDeleteProduct(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok || p.IsDeleted {
		return models.ErrProductNotFound
	}
	p.IsDeleted = true
	return nil
}

func (f *fakeStore) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok || p.IsDeleted {
		return nil, models.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeStore) ListProducts(ctx context.Context, page, perPage int) ([]models.Product, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var active []models.Product
	for _, p := range f.products {
		if !p.IsDeleted {
			active = append(active, *p)
		}
	}
	sort.Slice(active, func(i, j int) bool {
		return strings.Compare(active[i].Name, active[j].Name) < 0
	})
	total := len(active)
	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}
	return active[start:end], total, nil
}

func (f *fakeStore) StockLevels(ctx context.Context) ([]models.StockLevel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var levels []models.StockLevel
	for _, p := range f.products {
		if !p.IsDeleted {
			levels = append(levels, models.StockLevel{ProductID: p.ID, Stock: p.Stock})
		}
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i].ProductID < levels[j].ProductID })
	return levels, nil
}

// fakeAudit captures recorded actions.
type fakeAudit struct {
	mu      sync.Mutex
	actions []string
}

func (a *fakeAudit) Record(ctx context.Context, action, subject, details string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.actions = append(a.actions, action)
}

func (a *fakeAudit) recorded() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.actions...)
}

// fakePublisher captures published events.
type fakePublisher struct {
	mu        sync.Mutex
	completed []*models.SaleCompletedEvent
	voided    []*models.SaleVoidedEvent
}

func (p *fakePublisher) PublishSaleCompleted(ctx context.Context, event *models.SaleCompletedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.completed = append(p.completed, event)
	return nil
}

func (p *fakePublisher) PublishSaleVoided(ctx context.Context, event *models.SaleVoidedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.voided = append(p.voided, event)
	return nil
}

// fakeCache is an in-memory stock cache.
type fakeCache struct {
	mu     sync.Mutex
	stock  map[int64]int
	broken bool
}

func newFakeCache() *fakeCache {
	return &fakeCache{stock: make(map[int64]int)}
}

func (c *fakeCache) GetAllStock(ctx context.Context) (map[int64]int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.broken {
		return nil, context.DeadlineExceeded
	}
	out := make(map[int64]int, len(c.stock))
	for id, s := range c.stock {
		out[id] = s
	}
	return out, nil
}

func (c *fakeCache) SetStock(ctx context.Context, productID int64, stock int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.broken {
		return context.DeadlineExceeded
	}
	c.stock[productID] = stock
	return nil
}

func (c *fakeCache) SetStockBulk(ctx context.Context, levels map[int64]int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.broken {
		return context.DeadlineExceeded
	}
	for id, s := range levels {
		c.stock[id] = s
	}
	return nil
}

func (c *fakeCache) RemoveStock(ctx context.Context, productID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.stock, productID)
	return nil
}

func newTestSalesService(f *fakeStore) (*SalesService, *fakeAudit, *fakePublisher) {
	audit := &fakeAudit{}
	pub := &fakePublisher{}
	return NewSalesService(f, audit, pub, "No reason provided"), audit, pub
}
