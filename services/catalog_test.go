package services_test

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	apperrors "github.com/GuruprasadLokhande/Vastrashahi-Project/common/errors"
	"github.com/GuruprasadLokhande/Vastrashahi-Project/models"
	"github.com/GuruprasadLokhande/Vastrashahi-Project/repository"
	"github.com/GuruprasadLokhande/Vastrashahi-Project/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeCategories struct {
	mu    sync.Mutex
	items []*models.Category
}

func (f *fakeCategories) find(id primitive.ObjectID) *models.Category {
	for _, c := range f.items {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func (f *fakeCategories) FindByID(_ context.Context, id primitive.ObjectID) (*models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c := f.find(id); c != nil {
		cp := *c
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeCategories) FindByParent(_ context.Context, parent string) (*models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.items {
		if strings.EqualFold(c.Parent, parent) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeCategories) Find(_ context.Context, q repository.CategoryQuery) ([]models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Category
	for _, c := range f.items {
		if (q.Status == "" || c.Status == q.Status) && (q.ProductType == "" || c.ProductType == q.ProductType) {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeCategories) Create(_ context.Context, c *models.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	cp := *c
	f.items = append(f.items, &cp)
	return nil
}

func (f *fakeCategories) CreateMany(ctx context.Context, cs []models.Category) error {
	for i := range cs {
		_ = f.Create(ctx, &cs[i])
	}
	return nil
}

func (f *fakeCategories) Replace(_ context.Context, c *models.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing := f.find(c.ID)
	if existing == nil {
		return repository.ErrNotFound
	}
	*existing = *c
	return nil
}

func (f *fakeCategories) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, c := range f.items {
		if c.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeCategories) AddProduct(_ context.Context, categoryID, productID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c := f.find(categoryID); c != nil {
		c.Products = append(c.Products, productID)
	}
	return nil
}

func (f *fakeCategories) RemoveProduct(_ context.Context, categoryID, productID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c := f.find(categoryID); c != nil {
		kept := []primitive.ObjectID{}
		for _, id := range c.Products {
			if id != productID {
				kept = append(kept, id)
			}
		}
		c.Products = kept
	}
	return nil
}

// fakeBrands only resolves names; linking is a no-op.
type fakeBrands struct {
	items []models.Brand
}

func (f *fakeBrands) FindByID(_ context.Context, id primitive.ObjectID) (*models.Brand, error) {
	for i := range f.items {
		if f.items[i].ID == id {
			return &f.items[i], nil
		}
	}
	return nil, repository.ErrNotFound
}
func (f *fakeBrands) FindByName(_ context.Context, name string) (*models.Brand, error) {
	for i := range f.items {
		if f.items[i].Name == name {
			return &f.items[i], nil
		}
	}
	return nil, repository.ErrNotFound
}
func (f *fakeBrands) Find(context.Context, string) ([]models.Brand, error) { return f.items, nil }
func (f *fakeBrands) Create(context.Context, *models.Brand) error { return nil }
func (f *fakeBrands) Replace(context.Context, *models.Brand) error { return nil }
func (f *fakeBrands) Delete(context.Context, primitive.ObjectID) error { return nil }
func (f *fakeBrands) AddProduct(context.Context, primitive.ObjectID, primitive.ObjectID) error {
	return nil
}
func (f *fakeBrands) RemoveProduct(context.Context, primitive.ObjectID, primitive.ObjectID) error {
	return nil
}

type fakeReviews struct {
	mu    sync.Mutex
	items map[primitive.ObjectID]*models.Review
}

func newFakeReviews() *fakeReviews {
	return &fakeReviews{items: map[primitive.ObjectID]*models.Review{}}
}

func (f *fakeReviews) Create(_ context.Context, r *models.Review) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r.ID = primitive.NewObjectID()
	cp := *r
	f.items[r.ID] = &cp
	return nil
}

func (f *fakeReviews) FindByID(_ context.Context, id primitive.ObjectID) (*models.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeReviews) FindByProduct(_ context.Context, productID primitive.ObjectID) ([]models.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Review{}
	for _, r := range f.items {
		if r.ProductID == productID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeReviews) Exists(_ context.Context, userID, productID primitive.ObjectID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.items {
		if r.UserID == userID && r.ProductID == productID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeReviews) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func productInput(title string, qty int) services.ProductInput {
	return services.ProductInput{
		Title: title, Parent: "Ethnic Wear", Children: "Kurtas", Price: 1299, Quantity: qty,
		Brand: models.BrandRef{Name: "Vastrashahi"},
	}
}

func TestProductService_CreateProduct(t *testing.T) {
	cats := &fakeCategories{}
	require.NoError(t, cats.Create(context.Background(), &models.Category{Parent: "Ethnic Wear", Status: models.CategoryStatusShow}))
	brand := models.Brand{ID: primitive.NewObjectID(), Name: "Vastrashahi"}
	products := newFakeProducts()
	svc := services.NewProductService(products, cats, &fakeBrands{items: []models.Brand{brand}}, newFakeReviews(), zap.NewNop())

	p, err := svc.CreateProduct(context.Background(), productInput("Silk Kurta Set", 0))
	require.NoError(t, err)
	assert.Equal(t, "silk-kurta-set", p.Slug)
	assert.True(t, strings.HasPrefix(p.SKU, "VS-"))
	assert.Equal(t, models.ProductStatusOutOfStock, p.Status, "zero quantity is out of stock")
	assert.Equal(t, "Ethnic Wear", p.Category.Name)
	assert.Equal(t, brand.ID, p.Brand.ID)
	assert.Equal(t, []primitive.ObjectID{p.ID}, cats.items[0].Products)

	_, err = svc.CreateProduct(context.Background(), services.ProductInput{Title: "x", Parent: "a", Children: "b", Price: 0})
	assert.Equal(t, http.StatusBadRequest, apperrors.StatusOf(err))
}

func TestProductService_CreateProducts_AllOrNothing(t *testing.T) {
	products := newFakeProducts()
	svc := services.NewProductService(products, &fakeCategories{}, &fakeBrands{}, newFakeReviews(), zap.NewNop())

	bad := productInput("Broken", 1)
	bad.Discount = 120
	_, err := svc.CreateProducts(context.Background(), []services.ProductInput{productInput("Good", 3), bad})
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, "Discount must be between 0 and 100 (item 2)", appErr.Message)

	all, err := products.Find(context.Background(), repository.ProductQuery{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestProductService_UpdateProduct(t *testing.T) {
	cats := &fakeCategories{}
	ctx := context.Background()
	require.NoError(t, cats.Create(ctx, &models.Category{Parent: "Ethnic Wear"}))
	require.NoError(t, cats.Create(ctx, &models.Category{Parent: "Western Wear"}))
	svc := services.NewProductService(newFakeProducts(), cats, &fakeBrands{}, newFakeReviews(), zap.NewNop())

	p, err := svc.CreateProduct(ctx, productInput("Kurta", 4))
	require.NoError(t, err)

	updated, err := svc.UpdateProduct(ctx, p.ID, []byte(`{"price":999,"sellCount":500,"parent":"Western Wear","category":{"name":"Western Wear"}}`))
	require.NoError(t, err)
	assert.Equal(t, 999.0, updated.Price)
	assert.Equal(t, 0, updated.SellCount, "sell count is not patchable")
	assert.Empty(t, cats.items[0].Products)
	assert.Equal(t, []primitive.ObjectID{p.ID}, cats.items[1].Products)

	_, err = svc.UpdateProduct(ctx, p.ID, []byte(`{"quantity":-1}`))
	assert.Equal(t, http.StatusBadRequest, apperrors.StatusOf(err))

	require.NoError(t, svc.DeleteProduct(ctx, p.ID))
	assert.Empty(t, cats.items[1].Products)
	_, err = svc.GetProduct(ctx, p.ID)
	assert.Equal(t, http.StatusNotFound, apperrors.StatusOf(err))
}

func TestCategoryService(t *testing.T) {
	cats := &fakeCategories{}
	ctx := context.Background()
	svc := services.NewCategoryService(cats, newFakeProducts(), zap.NewNop())

	c, err := svc.CreateCategory(ctx, services.CategoryInput{Parent: " Sarees ", Children: []string{"Silk", "Cotton"}})
	require.NoError(t, err)
	assert.Equal(t, "Sarees", c.Parent)
	assert.Equal(t, models.CategoryStatusShow, c.Status)

	_, err = svc.CreateCategory(ctx, services.CategoryInput{Parent: "sarees"})
	assert.Equal(t, http.StatusConflict, apperrors.StatusOf(err))

	_, err = svc.CreateCategories(ctx, []services.CategoryInput{{Parent: "Kurtas"}, {Parent: "KURTAS"}})
	assert.Equal(t, http.StatusConflict, apperrors.StatusOf(err))

	_, err = svc.UpdateCategory(ctx, c.ID, []byte(`{"status":"Maybe"}`))
	assert.Equal(t, http.StatusBadRequest, apperrors.StatusOf(err))

	require.NoError(t, cats.AddProduct(ctx, c.ID, primitive.NewObjectID()))
	assert.Equal(t, http.StatusBadRequest, apperrors.StatusOf(svc.DeleteCategory(ctx, c.ID)))
}

func TestCategoryService_ShowCategories(t *testing.T) {
	ctx := context.Background()
	kurta := &models.Product{Title: "Kurta", Price: 100, Quantity: 1}
	products := newFakeProducts(kurta)
	cats := &fakeCategories{}
	require.NoError(t, cats.Create(ctx, &models.Category{Parent: "Men", Status: models.CategoryStatusShow, Products: []primitive.ObjectID{kurta.ID}}))
	require.NoError(t, cats.Create(ctx, &models.Category{Parent: "Hidden", Status: models.CategoryStatusHide}))
	svc := services.NewCategoryService(cats, products, zap.NewNop())

	shown, err := svc.ShowCategories(ctx, "")
	require.NoError(t, err)
	require.Len(t, shown, 1)
	assert.Equal(t, "Men", shown[0].Parent)
	require.Len(t, shown[0].Products, 1)
	assert.Equal(t, "Kurta", shown[0].Products[0].Title)
}

func TestReviewService(t *testing.T) {
	ctx := context.Background()
	userID := primitive.NewObjectID()
	kurta := &models.Product{Title: "Kurta", Price: 100, Quantity: 5}
	products := newFakeProducts(kurta)
	orders := newFakeOrders(&models.Order{User: userID, Cart: []models.OrderItem{{ProductID: kurta.ID, OrderQuantity: 1}}})
	reviews := newFakeReviews()
	users := new(MockUserRepository)
	users.On("AddReview", ctx, userID, mock.Anything).Return(nil)
	svc := services.NewReviewService(reviews, products, users, orders, zap.NewNop())

	_, err := svc.AddReview(ctx, primitive.NewObjectID(), services.ReviewInput{ProductID: kurta.ID.Hex(), Rating: 5})
	assert.Equal(t, http.StatusBadRequest, apperrors.StatusOf(err), "no purchase, no review")

	r, err := svc.AddReview(ctx, userID, services.ReviewInput{ProductID: kurta.ID.Hex(), Rating: 4, Comment: "Lovely fabric"})
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{r.ID}, products.get(kurta.ID).Reviews)
	users.AssertCalled(t, "AddReview", ctx, userID, r.ID)

	_, err = svc.AddReview(ctx, userID, services.ReviewInput{ProductID: kurta.ID.Hex(), Rating: 1})
	assert.Equal(t, http.StatusForbidden, apperrors.StatusOf(err))

	_, err = svc.DeleteReview(ctx, r.ID)
	require.NoError(t, err)
	assert.Empty(t, products.get(kurta.ID).Reviews)
	_, err = svc.DeleteReview(ctx, r.ID)
	assert.Equal(t, http.StatusNotFound, apperrors.StatusOf(err))
}

func TestDashboardService_Stats(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	orders := newFakeOrders(
		&models.Order{Status: models.OrderStatusPending, TotalAmount: 1000, CreatedAt: now},
		&models.Order{Status: models.OrderStatusDelivered, TotalAmount: 500, CreatedAt: now.AddDate(-1, 0, 0)},
		&models.Order{Status: models.OrderStatusCancelled, TotalAmount: 9999, CreatedAt: now},
	)
	products := newFakeProducts(
		&models.Product{Title: "a", Quantity: 2},
		&models.Product{Title: "b", Quantity: 50},
	)
	users := new(MockUserRepository)
	users.On("Count", ctx).Return(int64(7), nil)
	svc := services.NewDashboardService(orders, products, users, zap.NewNop())

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalOrders)
	assert.Equal(t, int64(1), stats.PendingOrders)
	assert.Equal(t, int64(1), stats.DeliveredOrders)
	assert.Equal(t, 1500.0, stats.TotalRevenue, "cancelled orders are not revenue")
	assert.Equal(t, 1000.0, stats.TodayRevenue)
	assert.Equal(t, int64(2), stats.TotalProducts)
	assert.Equal(t, int64(1), stats.LowStockProducts)
	assert.Equal(t, int64(7), stats.TotalCustomers)
	assert.Len(t, stats.RecentOrders, 3)
}
