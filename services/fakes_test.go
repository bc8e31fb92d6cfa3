package services_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/GuruprasadLokhande/Vastrashahi-Project/models"
	"github.com/GuruprasadLokhande/Vastrashahi-Project/repository"
	"github.com/GuruprasadLokhande/Vastrashahi-Project/sender"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Products ---

type fakeProducts struct {
	mu    sync.Mutex
	items map[primitive.ObjectID]*models.Product
	order []primitive.ObjectID
}

func newFakeProducts(ps ...*models.Product) *fakeProducts {
	f := &fakeProducts{items: map[primitive.ObjectID]*models.Product{}}
	for _, p := range ps {
		_ = f.Create(context.Background(), p)
	}
	return f
}

func (f *fakeProducts) get(id primitive.ObjectID) *models.Product {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items[id]
}

func (f *fakeProducts) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProducts) matches(p *models.Product, q repository.ProductQuery) bool {
	if len(q.IDs) > 0 {
		found := false
		for _, id := range q.IDs {
			found = found || id == p.ID
		}
		if !found {
			return false
		}
	}
	if !q.ExcludeID.IsZero() && p.ID == q.ExcludeID {
		return false
	}
	if q.CategoryName != "" && p.Category.Name != q.CategoryName {
		return false
	}
	if q.ProductType != "" && p.ProductType != q.ProductType {
		return false
	}
	if q.StockOut {
		return p.Quantity <= 0
	}
	if q.QuantityBelow > 0 {
		return p.Quantity < q.QuantityBelow
	}
	return true
}

func (f *fakeProducts) Find(_ context.Context, q repository.ProductQuery) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Product
	for _, id := range f.order {
		if p := f.items[id]; p != nil && f.matches(p, q) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProducts) Count(ctx context.Context, q repository.ProductQuery) (int64, error) {
	ps, _ := f.Find(ctx, q)
	return int64(len(ps)), nil
}

func (f *fakeProducts) Create(_ context.Context, p *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	cp := *p
	f.items[p.ID] = &cp
	f.order = append(f.order, p.ID)
	return nil
}

func (f *fakeProducts) CreateMany(ctx context.Context, ps []models.Product) error {
	for i := range ps {
		if err := f.Create(ctx, &ps[i]); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeProducts) Replace(_ context.Context, p *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[p.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *p
	f.items[p.ID] = &cp
	return nil
}

func (f *fakeProducts) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeProducts) DecrementStock(_ context.Context, id primitive.ObjectID, qty int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.items[id]
	if !ok || p.Quantity < qty {
		return false, nil
	}
	p.Quantity -= qty
	p.SellCount += qty
	return true, nil
}

func (f *fakeProducts) RestoreStock(_ context.Context, id primitive.ObjectID, qty int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.items[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Quantity += qty
	p.SellCount -= qty
	return nil
}

func (f *fakeProducts) AddReview(_ context.Context, productID, reviewID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.items[productID]; ok {
		p.Reviews = append(p.Reviews, reviewID)
	}
	return nil
}

func (f *fakeProducts) RemoveReview(_ context.Context, productID, reviewID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.items[productID]; ok {
		kept := p.Reviews[:0]
		for _, r := range p.Reviews {
			if r != reviewID {
				kept = append(kept, r)
			}
		}
		p.Reviews = kept
	}
	return nil
}

func (f *fakeProducts) Popular(ctx context.Context, limit int) ([]models.Product, error) {
	ps, _ := f.Find(ctx, repository.ProductQuery{})
	sort.SliceStable(ps, func(i, j int) bool { return len(ps[i].Reviews) > len(ps[j].Reviews) })
	if len(ps) > limit {
		ps = ps[:limit]
	}
	return ps, nil
}

func (f *fakeProducts) TopRated(ctx context.Context, limit int) ([]models.Product, error) {
	return f.Popular(ctx, limit)
}

// --- Orders ---

type fakeOrders struct {
	mu        sync.Mutex
	items     map[primitive.ObjectID]*models.Order
	invoice   int64
	createErr error
}

func newFakeOrders(orders ...*models.Order) *fakeOrders {
	f := &fakeOrders{items: map[primitive.ObjectID]*models.Order{}, invoice: 999}
	for _, o := range orders {
		_ = f.Create(context.Background(), o)
	}
	return f
}

func (f *fakeOrders) Create(_ context.Context, o *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}
	cp := *o
	f.items[o.ID] = &cp
	return nil
}

func (f *fakeOrders) FindByID(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrders) filter(q repository.OrderQuery) []models.Order {
	var out []models.Order
	for _, o := range f.items {
		switch {
		case !q.User.IsZero() && o.User != q.User:
		case q.Status != "" && o.Status != q.Status:
		case q.ExcludeStatus != "" && o.Status == q.ExcludeStatus:
		case !q.Since.IsZero() && o.CreatedAt.Before(q.Since):
		default:
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (f *fakeOrders) Find(_ context.Context, q repository.OrderQuery, skip, limit int) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.filter(q)
	if skip >= len(out) {
		return []models.Order{}, nil
	}
	out = out[skip:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeOrders) Count(_ context.Context, q repository.OrderQuery) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.filter(q))), nil
}

func (f *fakeOrders) SumTotal(_ context.Context, q repository.OrderQuery) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var sum float64
	for _, o := range f.filter(q) {
		sum += o.TotalAmount
	}
	return sum, nil
}

func (f *fakeOrders) UpdateStatus(_ context.Context, id primitive.ObjectID, status models.OrderStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.items[id]
	if !ok {
		return repository.ErrNotFound
	}
	o.Status = status
	return nil
}

func (f *fakeOrders) MarkStockRestored(_ context.Context, id primitive.ObjectID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.items[id]
	if !ok {
		return false, repository.ErrNotFound
	}
	if o.StockRestored {
		return false, nil
	}
	o.StockRestored = true
	return true, nil
}

func (f *fakeOrders) NextInvoice(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invoice++
	return f.invoice, nil
}

func (f *fakeOrders) HasPurchased(_ context.Context, userID, productID primitive.ObjectID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.items {
		if o.User != userID {
			continue
		}
		for _, item := range o.Cart {
			if item.ProductID == productID {
				return true, nil
			}
		}
	}
	return false, nil
}

// --- Coupons ---

type fakeCoupons struct {
	mu    sync.Mutex
	items map[string]*models.Coupon
}

func newFakeCoupons(cs ...*models.Coupon) *fakeCoupons {
	f := &fakeCoupons{items: map[string]*models.Coupon{}}
	for _, c := range cs {
		_ = f.Create(context.Background(), c)
	}
	return f
}

func (f *fakeCoupons) FindByID(_ context.Context, id primitive.ObjectID) (*models.Coupon, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.items {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeCoupons) FindByCode(_ context.Context, code string) (*models.Coupon, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.items[strings.ToUpper(code)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCoupons) Find(_ context.Context, activeAt time.Time) ([]models.Coupon, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Coupon
	for _, c := range f.items {
		if !activeAt.IsZero() && (c.Status != models.CouponStatusActive || !c.EndTime.After(activeAt)) {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeCoupons) Create(_ context.Context, c *models.Coupon) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[c.CouponCode]; ok {
		return repository.ErrDuplicate
	}
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	cp := *c
	f.items[c.CouponCode] = &cp
	return nil
}

func (f *fakeCoupons) Replace(_ context.Context, c *models.Coupon) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for code, existing := range f.items {
		if existing.ID == c.ID {
			delete(f.items, code)
			cp := *c
			f.items[c.CouponCode] = &cp
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeCoupons) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for code, c := range f.items {
		if c.ID == id {
			delete(f.items, code)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeCoupons) Redeem(_ context.Context, code string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.items[code]
	if !ok {
		return false, nil
	}
	if c.UsageLimit > 0 && c.UsedCount >= c.UsageLimit {
		return false, nil
	}
	c.UsedCount++
	return true, nil
}

func (f *fakeCoupons) Release(_ context.Context, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.items[code]; ok && c.UsedCount > 0 {
		c.UsedCount--
	}
	return nil
}

func (f *fakeCoupons) used(code string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items[code].UsedCount
}

// --- Idempotency, SNS and mail ---

type fakeIdempotency struct {
	mu   sync.Mutex
	keys map[string]string
}

func newFakeIdempotency() *fakeIdempotency {
	return &fakeIdempotency{keys: map[string]string{}}
}

func (f *fakeIdempotency) GetIdempotency(_ context.Context, userID, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.keys[userID+":"+key], nil
}

func (f *fakeIdempotency) SetIdempotency(_ context.Context, userID, key, orderID string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys[userID+":"+key] = orderID
	return nil
}

type mockSNSPublisher struct {
	mu        sync.Mutex
	published [][]byte
}

func (m *mockSNSPublisher) Publish(_ context.Context, _ string, message []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, message)
	return nil
}

func (m *mockSNSPublisher) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.published)
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sender.Message
	err  error
}

func (f *fakeMailer) Send(_ context.Context, msg sender.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	return f.err
}

func (f *fakeMailer) messages() []sender.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sender.Message(nil), f.sent...)
}
