package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"testing"

	apperrors "github.com/GuruprasadLokhande/Vastrashahi-Project/common/errors"
	"github.com/GuruprasadLokhande/Vastrashahi-Project/models"
	"github.com/GuruprasadLokhande/Vastrashahi-Project/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type orderFixture struct {
	svc      *services.OrderService
	products *fakeProducts
	orders   *fakeOrders
	coupons  *fakeCoupons
	idem     *fakeIdempotency
	sns      *mockSNSPublisher
	kurta    *models.Product
	saree    *models.Product
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	kurta := &models.Product{Title: "Kurta", Price: 1000, Discount: 10, Quantity: 5, Status: models.ProductStatusInStock}
	saree := &models.Product{Title: "Saree", Price: 2500, Quantity: 1, Status: models.ProductStatusInStock}
	f := &orderFixture{
		products: newFakeProducts(kurta, saree),
		orders:   newFakeOrders(),
		coupons: newFakeCoupons(
			coupon("FLAT100", models.CouponTypeFlat, 100, 0, 0, 0),
			coupon("SHIPFREE", models.CouponTypeFreeShipping, 0, 0, 0, 0),
		),
		idem:  newFakeIdempotency(),
		sns:   &mockSNSPublisher{},
		kurta: kurta,
		saree: saree,
	}
	events := services.NewEventPublisher(f.sns, "arn:aws:sns:ap-south-1:000000000000:order-events", zap.NewNop())
	couponSvc := services.NewCouponService(f.coupons, zap.NewNop())
	f.svc = services.NewOrderService(f.orders, f.products, couponSvc, f.idem, events, nil, zap.NewNop())
	return f
}

func checkout(lines ...services.OrderItemInput) services.CreateOrderInput {
	return services.CreateOrderInput{
		Name:         "Asha",
		Address:      "12 MG Road",
		Email:        "Asha@Example.com",
		Contact:      "9999999999",
		City:         "Pune",
		Country:      "India",
		ZipCode:      "411001",
		ShippingCost: 60,
		Cart:         lines,
	}
}

func line(p *models.Product, qty int) services.OrderItemInput {
	return services.OrderItemInput{ProductID: p.ID.Hex(), OrderQuantity: qty}
}

func TestOrderService_CreateOrder(t *testing.T) {
	f := newOrderFixture(t)
	user := primitive.NewObjectID()

	order, replayed, err := f.svc.CreateOrder(context.Background(), user, checkout(line(f.kurta, 2)), "")
	require.NoError(t, err)
	assert.False(t, replayed)

	assert.Equal(t, int64(1000), order.Invoice)
	assert.Equal(t, 900.0, order.Cart[0].Price, "line is repriced from the product discount")
	assert.Equal(t, 1800.0, order.SubTotal)
	assert.Equal(t, 1860.0, order.TotalAmount)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, models.PaymentMethodCOD, order.PaymentMethod)
	assert.Equal(t, "asha@example.com", order.Email)

	assert.Equal(t, 3, f.products.get(f.kurta.ID).Quantity)
	assert.Equal(t, 2, f.products.get(f.kurta.ID).SellCount)
	assert.Equal(t, 1, f.sns.count())

	var evt models.OrderEvent
	require.NoError(t, json.Unmarshal(f.sns.published[0], &evt))
	assert.Equal(t, models.EventOrderCreated, evt.EventType)
	assert.Equal(t, order.ID.Hex(), evt.OrderID)
}

func TestOrderService_CreateOrder_InsufficientStockRollsBack(t *testing.T) {
	f := newOrderFixture(t)

	_, _, err := f.svc.CreateOrder(context.Background(), primitive.NewObjectID(), checkout(line(f.kurta, 2), line(f.saree, 3)), "")
	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
	assert.Equal(t, "Insufficient stock for Saree", appErr.Message)

	assert.Equal(t, 5, f.products.get(f.kurta.ID).Quantity, "reserved lines are returned")
	assert.Equal(t, 0, f.products.get(f.kurta.ID).SellCount)
	assert.Equal(t, 0, f.sns.count())
}

func TestOrderService_CreateOrder_Coupons(t *testing.T) {
	f := newOrderFixture(t)

	in := checkout(line(f.kurta, 1))
	in.CouponCode = "flat100"
	order, _, err := f.svc.CreateOrder(context.Background(), primitive.NewObjectID(), in, "")
	require.NoError(t, err)
	assert.Equal(t, 100.0, order.Discount)
	assert.Equal(t, 860.0, order.TotalAmount)
	assert.Equal(t, "FLAT100", order.CouponCode)
	assert.Equal(t, 1, f.coupons.used("FLAT100"))

	in.CouponCode = "SHIPFREE"
	order, _, err = f.svc.CreateOrder(context.Background(), primitive.NewObjectID(), in, "")
	require.NoError(t, err)
	assert.Equal(t, 0.0, order.ShippingCost)
	assert.Equal(t, 900.0, order.TotalAmount)
}

func TestOrderService_CreateOrder_BadCouponRestoresStock(t *testing.T) {
	f := newOrderFixture(t)

	in := checkout(line(f.kurta, 1))
	in.CouponCode = "MISSING"
	_, _, err := f.svc.CreateOrder(context.Background(), primitive.NewObjectID(), in, "")
	assert.Equal(t, http.StatusBadRequest, apperrors.StatusOf(err))
	assert.Equal(t, 5, f.products.get(f.kurta.ID).Quantity)
}

func TestOrderService_CreateOrder_StoreFailureRestoresStock(t *testing.T) {
	f := newOrderFixture(t)
	f.orders.createErr = errors.New("write conflict")

	in := checkout(line(f.kurta, 1))
	in.CouponCode = "flat100"
	_, _, err := f.svc.CreateOrder(context.Background(), primitive.NewObjectID(), in, "")
	assert.Equal(t, http.StatusInternalServerError, apperrors.StatusOf(err))
	assert.Equal(t, 5, f.products.get(f.kurta.ID).Quantity)
	assert.Equal(t, 0, f.coupons.used("FLAT100"), "the coupon use is given back")
}

func TestOrderService_CreateOrder_Validation(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	_, _, err := f.svc.CreateOrder(ctx, primitive.NewObjectID(), checkout(), "")
	assert.Equal(t, http.StatusBadRequest, apperrors.StatusOf(err))

	missing := services.OrderItemInput{ProductID: primitive.NewObjectID().Hex(), OrderQuantity: 1}
	_, _, err = f.svc.CreateOrder(ctx, primitive.NewObjectID(), checkout(missing), "")
	assert.Equal(t, http.StatusBadRequest, apperrors.StatusOf(err))

	gone := &models.Product{Title: "Old Dupatta", Price: 300, Quantity: 10, Status: models.ProductStatusDiscontinued}
	require.NoError(t, f.products.Create(ctx, gone))
	_, _, err = f.svc.CreateOrder(ctx, primitive.NewObjectID(), checkout(line(gone, 1)), "")
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, "Old Dupatta is no longer available", appErr.Message)
}

func TestOrderService_CreateOrder_IdempotentReplay(t *testing.T) {
	f := newOrderFixture(t)
	user := primitive.NewObjectID()

	first, replayed, err := f.svc.CreateOrder(context.Background(), user, checkout(line(f.kurta, 1)), "key-1")
	require.NoError(t, err)
	assert.False(t, replayed)

	second, replayed, err := f.svc.CreateOrder(context.Background(), user, checkout(line(f.kurta, 1)), "key-1")
	require.NoError(t, err)
	assert.True(t, replayed)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 4, f.products.get(f.kurta.ID).Quantity, "stock is taken once")
}

func TestOrderService_CreateOrder_IdempotencyKeyIsPerUser(t *testing.T) {
	f := newOrderFixture(t)
	alice, bob := primitive.NewObjectID(), primitive.NewObjectID()

	first, _, err := f.svc.CreateOrder(context.Background(), alice, checkout(line(f.kurta, 1)), "key-1")
	require.NoError(t, err)

	in := checkout(line(f.kurta, 1))
	in.Name, in.Address = "Bhavesh", "4 Park Street"
	second, replayed, err := f.svc.CreateOrder(context.Background(), bob, in, "key-1")
	require.NoError(t, err)
	assert.False(t, replayed)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, bob, second.User)
	assert.Equal(t, "4 Park Street", second.Address)
	assert.Equal(t, 3, f.products.get(f.kurta.ID).Quantity)
}

func placedOrder(t *testing.T, f *orderFixture, user primitive.ObjectID, status models.OrderStatus) *models.Order {
	t.Helper()
	order, _, err := f.svc.CreateOrder(context.Background(), user, checkout(line(f.kurta, 2)), "")
	require.NoError(t, err)
	if status != models.OrderStatusPending {
		require.NoError(t, f.orders.UpdateStatus(context.Background(), order.ID, status))
	}
	return order
}

func TestOrderService_UpdateStatus_CancelRestoresOnce(t *testing.T) {
	f := newOrderFixture(t)
	order := placedOrder(t, f, primitive.NewObjectID(), models.OrderStatusPending)
	require.Equal(t, 3, f.products.get(f.kurta.ID).Quantity)

	updated, err := f.svc.UpdateStatus(context.Background(), order.ID, "cancelled")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, updated.Status)
	assert.Equal(t, 5, f.products.get(f.kurta.ID).Quantity)

	_, err = f.svc.UpdateStatus(context.Background(), order.ID, "cancelled")
	require.NoError(t, err)
	assert.Equal(t, 5, f.products.get(f.kurta.ID).Quantity, "stock is restored only once")

	_, err = f.svc.UpdateStatus(context.Background(), order.ID, "processing")
	assert.Equal(t, http.StatusBadRequest, apperrors.StatusOf(err), "a cancelled order cannot be reopened")
	stored, err := f.orders.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, stored.Status)
	assert.Equal(t, 5, f.products.get(f.kurta.ID).Quantity)

	_, err = f.svc.UpdateStatus(context.Background(), order.ID, "lost")
	assert.Equal(t, http.StatusBadRequest, apperrors.StatusOf(err))
}

func TestOrderService_RequestStatus(t *testing.T) {
	ctx := context.Background()
	owner := primitive.NewObjectID()

	tests := []struct {
		name    string
		current models.OrderStatus
		request string
		caller  primitive.ObjectID
		code    int
		want    models.OrderStatus
	}{
		{"cancel pending", models.OrderStatusPending, "cancelled", owner, 0, models.OrderStatusCancelled},
		{"cancel processing", models.OrderStatusProcessing, "cancelled", owner, 0, models.OrderStatusCancelled},
		{"cancel shipped", models.OrderStatusShipped, "cancelled", owner, http.StatusBadRequest, ""},
		{"return delivered", models.OrderStatusDelivered, "Return Requested", owner, 0, models.OrderStatusReturned},
		{"return pending", models.OrderStatusPending, "returned", owner, http.StatusBadRequest, ""},
		{"ship it myself", models.OrderStatusPending, "shipped", owner, http.StatusForbidden, ""},
		{"someone else's order", models.OrderStatusPending, "cancelled", primitive.NewObjectID(), http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newOrderFixture(t)
			order := placedOrder(t, f, owner, tt.current)
			got, err := f.svc.RequestStatus(ctx, tt.caller, order.ID, tt.request)
			if tt.code != 0 {
				assert.Equal(t, tt.code, apperrors.StatusOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Status)
		})
	}
}

func TestOrderService_GetOrder(t *testing.T) {
	f := newOrderFixture(t)
	owner := primitive.NewObjectID()
	order := placedOrder(t, f, owner, models.OrderStatusPending)

	_, err := f.svc.GetOrder(context.Background(), order.ID, owner, false)
	assert.NoError(t, err)
	_, err = f.svc.GetOrder(context.Background(), order.ID, primitive.NewObjectID(), true)
	assert.NoError(t, err)
	_, err = f.svc.GetOrder(context.Background(), order.ID, primitive.NewObjectID(), false)
	assert.Equal(t, http.StatusNotFound, apperrors.StatusOf(err))
}

func TestOrderService_MyOrders(t *testing.T) {
	f := newOrderFixture(t)
	f.kurta.Quantity = 100
	require.NoError(t, f.products.Replace(context.Background(), f.kurta))

	owner := primitive.NewObjectID()
	placedOrder(t, f, owner, models.OrderStatusPending)
	placedOrder(t, f, owner, models.OrderStatusDelivered)
	placedOrder(t, f, primitive.NewObjectID(), models.OrderStatusPending)

	page, err := f.svc.MyOrders(context.Background(), owner, 1, 10)
	require.NoError(t, err)
	assert.Len(t, page.Orders, 2)
	assert.Equal(t, int64(2), page.Meta.Total)
	assert.Equal(t, int64(1), page.Counts.Pending)
	assert.Equal(t, int64(1), page.Counts.Delivered)
	assert.Equal(t, int64(0), page.Counts.Processing)

	far, err := f.svc.MyOrders(context.Background(), owner, math.MaxInt64/2+2, 2)
	require.NoError(t, err)
	assert.Empty(t, far.Orders, "a page past the end is empty, not page one")
	assert.Equal(t, services.MaxPage, far.Meta.Page)
}
