package service_test

// In-memory repository stubs. Tx-suffixed methods accept a nil *gorm.DB —
// Transact calls fn(nil) without a database. Transact still behaves like a
// real transaction: state is snapshotted on entry and restored when fn
// fails, so an aborted transaction leaves nothing behind.

import (
	"context"
	"strings"
	"time"

	"shalom/internal/dto"
	"shalom/internal/model"
	"shalom/internal/repository"
	"shalom/internal/service"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Product cache ────────────────────────────────────────────────────────────

// fakeProductCache implements service.ProductCache in memory and records
// every deleted key.
type fakeProductCache struct {
	store   map[string]string
	deleted []string
}

func newFakeProductCache() *fakeProductCache {
	return &fakeProductCache{store: make(map[string]string)}
}

func (c *fakeProductCache) Get(_ context.Context, key string) *redis.StringCmd {
	if v, ok := c.store[key]; ok {
		return redis.NewStringResult(v, nil)
	}
	return redis.NewStringResult("", redis.Nil)
}

func (c *fakeProductCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case []byte:
		c.store[key] = string(v)
	case string:
		c.store[key] = v
	}
	return redis.NewStatusResult("OK", nil)
}

func (c *fakeProductCache) Del(_ context.Context, keys ...string) *redis.IntCmd {
	for _, k := range keys {
		delete(c.store, k)
		c.deleted = append(c.deleted, k)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

var _ service.ProductCache = (*fakeProductCache)(nil)

// ── Products ─────────────────────────────────────────────────────────────────

type stubProductRepo struct {
	products map[uuid.UUID]*model.Product

	// movements is rolled back together with stock when a transaction
	// opened on this repo fails. Optional.
	movements *stubMovementRepo
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (r *stubProductRepo) seed(p *model.Product) *model.Product {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	return p
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	r.seed(p)
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductRepo) FindByCode(_ context.Context, code string) (*model.Product, error) {
	for _, p := range r.products {
		if p.Code == code {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductRepo) List(_ context.Context, _ dto.ProductFilter) ([]model.Product, int64, error) {
	out := make([]model.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductRepo) Categories(_ context.Context) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, p := range r.products {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out, nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if p, ok := r.products[id]; ok {
		p.IsActive = false
	}
	return nil
}

func (r *stubProductRepo) Reactivate(_ context.Context, id uuid.UUID) error {
	if p, ok := r.products[id]; ok {
		p.IsActive = true
	}
	return nil
}

func (r *stubProductRepo) FindByIDForUpdate(_ *gorm.DB, id uuid.UUID) (*model.Product, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubProductRepo) UpdateStockTx(_ *gorm.DB, id uuid.UUID, quantity int) error {
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.StockQuantity = quantity
	return nil
}

func (r *stubProductRepo) snapshot() map[uuid.UUID]model.Product {
	snap := make(map[uuid.UUID]model.Product, len(r.products))
	for id, p := range r.products {
		snap[id] = *p
	}
	return snap
}

// restore rewrites products in place so pointers held by tests stay valid.
func (r *stubProductRepo) restore(snap map[uuid.UUID]model.Product) {
	for id := range r.products {
		if _, ok := snap[id]; !ok {
			delete(r.products, id)
		}
	}
	for id, v := range snap {
		if p, ok := r.products[id]; ok {
			*p = v
		} else {
			cp := v
			r.products[id] = &cp
		}
	}
}

func (r *stubProductRepo) Transact(_ context.Context, fn func(tx *gorm.DB) error) error {
	products := r.snapshot()
	movements := r.movements.snapshot()
	if err := fn(nil); err != nil {
		r.restore(products)
		r.movements.restore(movements)
		return err
	}
	return nil
}

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// ── Stock movements ──────────────────────────────────────────────────────────

type stubMovementRepo struct {
	movements []model.StockMovement
}

func (r *stubMovementRepo) CreateTx(_ *gorm.DB, m *model.StockMovement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubMovementRepo) List(_ context.Context, filter repository.StockMovementFilter) ([]model.StockMovement, int64, error) {
	var out []model.StockMovement
	for _, m := range r.movements {
		if filter.ProductID != nil && m.ProductID != *filter.ProductID {
			continue
		}
		if filter.MovementType != "" && m.MovementType != filter.MovementType {
			continue
		}
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

func (r *stubMovementRepo) snapshot() []model.StockMovement {
	if r == nil {
		return nil
	}
	return append([]model.StockMovement(nil), r.movements...)
}

func (r *stubMovementRepo) restore(snap []model.StockMovement) {
	if r == nil {
		return
	}
	r.movements = snap
}

var _ repository.StockMovementRepository = (*stubMovementRepo)(nil)

// ── Customers ────────────────────────────────────────────────────────────────

type stubCustomerRepo struct {
	customers map[uuid.UUID]*model.Customer
}

func newStubCustomerRepo() *stubCustomerRepo {
	return &stubCustomerRepo{customers: make(map[uuid.UUID]*model.Customer)}
}

func (r *stubCustomerRepo) Create(_ context.Context, c *model.Customer) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.customers[c.ID] = c
	return nil
}

func (r *stubCustomerRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubCustomerRepo) List(_ context.Context, _ dto.CustomerFilter) ([]model.Customer, int64, error) {
	out := make([]model.Customer, 0, len(r.customers))
	for _, c := range r.customers {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *stubCustomerRepo) Update(_ context.Context, c *model.Customer) error {
	r.customers[c.ID] = c
	return nil
}

func (r *stubCustomerRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.customers, id)
	return nil
}

func (r *stubCustomerRepo) Statistics(_ context.Context) (*dto.CustomerStatsResponse, error) {
	return &dto.CustomerStatsResponse{TotalCustomers: int64(len(r.customers))}, nil
}

var _ repository.CustomerRepository = (*stubCustomerRepo)(nil)

// ── Vehicles ─────────────────────────────────────────────────────────────────

type stubVehicleRepo struct {
	vehicles map[uuid.UUID]*model.Vehicle
}

func newStubVehicleRepo() *stubVehicleRepo {
	return &stubVehicleRepo{vehicles: make(map[uuid.UUID]*model.Vehicle)}
}

func (r *stubVehicleRepo) Create(_ context.Context, v *model.Vehicle) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	r.vehicles[v.ID] = v
	return nil
}

func (r *stubVehicleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Vehicle, error) {
	v, ok := r.vehicles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return v, nil
}

func (r *stubVehicleRepo) FindByPlate(_ context.Context, plate string) (*model.Vehicle, error) {
	for _, v := range r.vehicles {
		if strings.EqualFold(v.Plate, plate) {
			return v, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubVehicleRepo) FindByCustomerID(_ context.Context, customerID uuid.UUID) ([]model.Vehicle, error) {
	var out []model.Vehicle
	for _, v := range r.vehicles {
		if v.CustomerID == customerID {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (r *stubVehicleRepo) List(_ context.Context, _ dto.VehicleFilter) ([]model.Vehicle, int64, error) {
	out := make([]model.Vehicle, 0, len(r.vehicles))
	for _, v := range r.vehicles {
		out = append(out, *v)
	}
	return out, int64(len(out)), nil
}

func (r *stubVehicleRepo) Update(_ context.Context, v *model.Vehicle) error {
	r.vehicles[v.ID] = v
	return nil
}

func (r *stubVehicleRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.vehicles, id)
	return nil
}

var _ repository.VehicleRepository = (*stubVehicleRepo)(nil)

// ── Orders ───────────────────────────────────────────────────────────────────

type stubOrderRepo struct {
	orders map[uuid.UUID]*model.ServiceOrder
	seq    int

	// products/movements are rolled back with the orders when a transaction
	// opened on this repo fails, mirroring the single commit that order
	// completion shares with its stock debits. Optional.
	products  *stubProductRepo
	movements *stubMovementRepo

	// beforeStatusUpdate runs at the top of UpdateStatusTx. Tests use it to
	// squeeze a concurrent writer between the status check and the update.
	beforeStatusUpdate func()
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{orders: make(map[uuid.UUID]*model.ServiceOrder)}
}

func (r *stubOrderRepo) CreateTx(_ *gorm.DB, o *model.ServiceOrder) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	for i := range o.Items {
		if o.Items[i].ID == uuid.Nil {
			o.Items[i].ID = uuid.New()
		}
		o.Items[i].ServiceOrderID = o.ID
	}
	o.CreatedAt = time.Now()
	r.orders[o.ID] = o
	return nil
}

// FindByID returns a copy with its own Items slice so callers can mutate
// freely, mirroring a fresh GORM load.
func (r *stubOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*model.ServiceOrder, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *o
	cp.Items = append([]model.ServiceItem(nil), o.Items...)
	return &cp, nil
}

func (r *stubOrderRepo) List(_ context.Context, _ dto.OrderFilter) ([]model.ServiceOrder, int64, error) {
	out := make([]model.ServiceOrder, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (r *stubOrderRepo) NextOrderNumber(_ context.Context, _ *gorm.DB) (int, error) {
	r.seq++
	return r.seq, nil
}

func (r *stubOrderRepo) UpdateTx(_ *gorm.DB, o *model.ServiceOrder) error {
	r.orders[o.ID] = o
	return nil
}

// UpdateStatusTx only matches PENDING orders, like the guarded UPDATE it
// stands in for.
func (r *stubOrderRepo) UpdateStatusTx(_ *gorm.DB, id uuid.UUID, status string, completedAt *time.Time) error {
	if r.beforeStatusUpdate != nil {
		r.beforeStatusUpdate()
	}
	o, ok := r.orders[id]
	if !ok || o.Status != model.OrderPending {
		return gorm.ErrRecordNotFound
	}
	o.Status = status
	o.CompletedAt = completedAt
	return nil
}

func (r *stubOrderRepo) UpdateTotalTx(_ *gorm.DB, id uuid.UUID, total decimal.Decimal) error {
	o, ok := r.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.Total = total
	return nil
}

func (r *stubOrderRepo) CreateItemTx(_ *gorm.DB, item *model.ServiceItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	o, ok := r.orders[item.ServiceOrderID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.Items = append(o.Items, *item)
	return nil
}

func (r *stubOrderRepo) DeleteItemTx(_ *gorm.DB, itemID uuid.UUID) error {
	for _, o := range r.orders {
		for i := range o.Items {
			if o.Items[i].ID == itemID {
				o.Items = append(o.Items[:i], o.Items[i+1:]...)
				return nil
			}
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubOrderRepo) DeleteItemsByOrderTx(_ *gorm.DB, orderID uuid.UUID) error {
	o, ok := r.orders[orderID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.Items = nil
	return nil
}

func (r *stubOrderRepo) FindItemByID(_ context.Context, itemID uuid.UUID) (*model.ServiceItem, error) {
	for _, o := range r.orders {
		for i := range o.Items {
			if o.Items[i].ID == itemID {
				return &o.Items[i], nil
			}
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubOrderRepo) Statistics(_ context.Context) (*dto.OrderStatsResponse, error) {
	stats := &dto.OrderStatsResponse{TotalRevenue: decimal.Zero}
	for _, o := range r.orders {
		stats.TotalOrders++
		switch o.Status {
		case model.OrderPending:
			stats.Pending++
		case model.OrderCompleted:
			stats.Completed++
			stats.TotalRevenue = stats.TotalRevenue.Add(o.Total)
		case model.OrderCancelled:
			stats.Cancelled++
		}
	}
	return stats, nil
}

func (r *stubOrderRepo) snapshot() map[uuid.UUID]model.ServiceOrder {
	snap := make(map[uuid.UUID]model.ServiceOrder, len(r.orders))
	for id, o := range r.orders {
		cp := *o
		cp.Items = append([]model.ServiceItem(nil), o.Items...)
		snap[id] = cp
	}
	return snap
}

func (r *stubOrderRepo) restore(snap map[uuid.UUID]model.ServiceOrder) {
	for id := range r.orders {
		if _, ok := snap[id]; !ok {
			delete(r.orders, id)
		}
	}
	for id, v := range snap {
		cp := v
		if o, ok := r.orders[id]; ok {
			*o = cp
		} else {
			r.orders[id] = &cp
		}
	}
}

func (r *stubOrderRepo) Transact(_ context.Context, fn func(tx *gorm.DB) error) error {
	orders := r.snapshot()
	seq := r.seq
	var stock map[uuid.UUID]model.Product
	if r.products != nil {
		stock = r.products.snapshot()
	}
	movements := r.movements.snapshot()
	if err := fn(nil); err != nil {
		r.restore(orders)
		r.seq = seq
		if r.products != nil {
			r.products.restore(stock)
		}
		r.movements.restore(movements)
		return err
	}
	return nil
}

var _ repository.OrderRepository = (*stubOrderRepo)(nil)

// ── Invoices ─────────────────────────────────────────────────────────────────

type stubInvoiceRepo struct {
	invoices map[uuid.UUID]*model.Invoice
	byOrder  map[uuid.UUID]*model.Invoice
	seq      int
}

func newStubInvoiceRepo() *stubInvoiceRepo {
	return &stubInvoiceRepo{
		invoices: make(map[uuid.UUID]*model.Invoice),
		byOrder:  make(map[uuid.UUID]*model.Invoice),
	}
}

func (r *stubInvoiceRepo) CreateTx(_ *gorm.DB, inv *model.Invoice) error {
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	r.invoices[inv.ID] = inv
	r.byOrder[inv.ServiceOrderID] = inv
	return nil
}

func (r *stubInvoiceRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Invoice, error) {
	inv, ok := r.invoices[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return inv, nil
}

func (r *stubInvoiceRepo) FindByOrderID(_ context.Context, orderID uuid.UUID) (*model.Invoice, error) {
	inv, ok := r.byOrder[orderID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return inv, nil
}

func (r *stubInvoiceRepo) List(_ context.Context, _ dto.InvoiceFilter) ([]model.Invoice, int64, error) {
	out := make([]model.Invoice, 0, len(r.invoices))
	for _, inv := range r.invoices {
		out = append(out, *inv)
	}
	return out, int64(len(out)), nil
}

func (r *stubInvoiceRepo) NextInvoiceNumber(_ context.Context, _ *gorm.DB) (int, error) {
	r.seq++
	return r.seq, nil
}

func (r *stubInvoiceRepo) Update(_ context.Context, inv *model.Invoice) error {
	r.invoices[inv.ID] = inv
	r.byOrder[inv.ServiceOrderID] = inv
	return nil
}

func (r *stubInvoiceRepo) Statistics(_ context.Context) (*dto.InvoiceStatsResponse, error) {
	stats := &dto.InvoiceStatsResponse{
		TotalBilled:    decimal.Zero,
		TotalCollected: decimal.Zero,
	}
	for _, inv := range r.invoices {
		stats.TotalInvoices++
		switch inv.Status {
		case model.InvoiceIssued:
			stats.Issued++
			stats.TotalBilled = stats.TotalBilled.Add(inv.Total)
		case model.InvoicePaid:
			stats.Paid++
			stats.TotalBilled = stats.TotalBilled.Add(inv.Total)
			stats.TotalCollected = stats.TotalCollected.Add(inv.Total)
		case model.InvoiceCancelled:
			stats.Cancelled++
		}
	}
	return stats, nil
}

func (r *stubInvoiceRepo) Transact(_ context.Context, fn func(tx *gorm.DB) error) error {
	invoices := make(map[uuid.UUID]*model.Invoice, len(r.invoices))
	byOrder := make(map[uuid.UUID]*model.Invoice, len(r.byOrder))
	for id, inv := range r.invoices {
		invoices[id] = inv
	}
	for id, inv := range r.byOrder {
		byOrder[id] = inv
	}
	seq := r.seq
	if err := fn(nil); err != nil {
		r.invoices = invoices
		r.byOrder = byOrder
		r.seq = seq
		return err
	}
	return nil
}

var _ repository.InvoiceRepository = (*stubInvoiceRepo)(nil)

// ── Users ────────────────────────────────────────────────────────────────────

type stubUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email && u.IsActive {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUserRepo) List(_ context.Context) ([]model.User, error) {
	var out []model.User
	for _, u := range r.users {
		if u.IsActive {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *stubUserRepo) ListAll(_ context.Context) ([]model.User, error) {
	var out []model.User
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *model.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if u, ok := r.users[id]; ok {
		u.IsActive = false
	}
	return nil
}

func (r *stubUserRepo) Reactivate(_ context.Context, id uuid.UUID) error {
	if u, ok := r.users[id]; ok {
		u.IsActive = true
	}
	return nil
}

var _ repository.UserRepository = (*stubUserRepo)(nil)
