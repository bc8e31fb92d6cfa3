package services_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	apperrors "github.com/GuruprasadLokhande/Vastrashahi-Project/common/errors"
	"github.com/GuruprasadLokhande/Vastrashahi-Project/models"
	"github.com/GuruprasadLokhande/Vastrashahi-Project/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func coupon(code string, typ models.CouponType, value, minimum float64, limit, used int) *models.Coupon {
	return &models.Coupon{
		Title:         code,
		CouponCode:    code,
		DiscountType:  typ,
		Value:         value,
		MinimumAmount: minimum,
		UsageLimit:    limit,
		UsedCount:     used,
		EndTime:       time.Now().Add(24 * time.Hour),
		Status:        models.CouponStatusActive,
	}
}

func TestCouponService_CreateCoupon(t *testing.T) {
	svc := services.NewCouponService(newFakeCoupons(), zap.NewNop())

	c, err := svc.CreateCoupon(context.Background(), services.CouponInput{
		Title:      "Diwali",
		CouponCode: " diwali10 ",
		Value:      10,
		EndTime:    time.Now().Add(time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, "DIWALI10", c.CouponCode)
	assert.Equal(t, models.CouponTypePercentage, c.DiscountType)
	assert.Equal(t, models.CouponStatusActive, c.Status)

	_, err = svc.CreateCoupon(context.Background(), services.CouponInput{
		Title: "again", CouponCode: "DIWALI10", EndTime: time.Now().Add(time.Hour),
	})
	assert.Equal(t, http.StatusConflict, apperrors.StatusOf(err))
}

func TestCouponService_CreateCoupon_Rejects(t *testing.T) {
	svc := services.NewCouponService(newFakeCoupons(), zap.NewNop())

	_, err := svc.CreateCoupon(context.Background(), services.CouponInput{
		Title: "old", CouponCode: "OLD", EndTime: time.Now().Add(-time.Hour),
	})
	assert.Equal(t, http.StatusBadRequest, apperrors.StatusOf(err))

	_, err = svc.CreateCoupon(context.Background(), services.CouponInput{
		Title: "huge", CouponCode: "HUGE", Value: 150, EndTime: time.Now().Add(time.Hour),
	})
	assert.Equal(t, http.StatusBadRequest, apperrors.StatusOf(err))
}

func TestCouponService_ValidateCoupon(t *testing.T) {
	future := time.Now().Add(time.Hour)
	notStarted := coupon("SOON", models.CouponTypeFlat, 50, 0, 0, 0)
	notStarted.StartTime = &future
	expired := coupon("GONE", models.CouponTypeFlat, 50, 0, 0, 0)
	expired.EndTime = time.Now().Add(-time.Hour)
	inactive := coupon("OFF", models.CouponTypeFlat, 50, 0, 0, 0)
	inactive.Status = models.CouponStatusInactive

	repo := newFakeCoupons(
		coupon("PCT10", models.CouponTypePercentage, 10, 0, 0, 0),
		coupon("FLAT500", models.CouponTypeFlat, 500, 0, 0, 0),
		coupon("SHIPFREE", models.CouponTypeFreeShipping, 0, 0, 0, 0),
		coupon("USED", models.CouponTypeFlat, 50, 0, 5, 5),
		coupon("MIN1K", models.CouponTypeFlat, 50, 1000, 0, 0),
		notStarted, expired, inactive,
	)
	svc := services.NewCouponService(repo, zap.NewNop())

	tests := []struct {
		code     string
		total    float64
		valid    bool
		discount float64
		message  string
	}{
		{"pct10", 2000, true, 200, "Coupon applied successfully"},
		{"FLAT500", 300, true, 300, "Coupon applied successfully"},
		{"SHIPFREE", 300, true, 0, "Coupon applied successfully"},
		{"NOPE", 300, false, 0, "Coupon not found or inactive"},
		{"OFF", 300, false, 0, "Coupon not found or inactive"},
		{"SOON", 300, false, 0, "Coupon is not active yet"},
		{"GONE", 300, false, 0, "Coupon has expired"},
		{"USED", 300, false, 0, "Coupon usage limit reached"},
		{"MIN1K", 999, false, 0, "Minimum order value of 1000.00 required"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			resp, err := svc.ValidateCoupon(context.Background(), models.ValidateCouponRequest{CouponCode: tt.code, CartTotal: tt.total})
			require.NoError(t, err)
			assert.Equal(t, tt.valid, resp.Valid)
			assert.InDelta(t, tt.discount, resp.DiscountAmount, 0.001)
			assert.Equal(t, tt.message, resp.Message)
		})
	}
}

func TestCouponService_Redeem(t *testing.T) {
	repo := newFakeCoupons(coupon("ONCE", models.CouponTypeFlat, 100, 0, 1, 0))
	svc := services.NewCouponService(repo, zap.NewNop())

	discount, c, err := svc.Redeem(context.Background(), "ONCE", 500)
	require.NoError(t, err)
	assert.Equal(t, 100.0, discount)
	assert.Equal(t, "ONCE", c.CouponCode)
	assert.Equal(t, 1, repo.used("ONCE"))

	_, _, err = svc.Redeem(context.Background(), "ONCE", 500)
	assert.Equal(t, http.StatusBadRequest, apperrors.StatusOf(err))
	assert.Equal(t, 1, repo.used("ONCE"))
}

func TestCouponService_UpdateCoupon_KeepsUsage(t *testing.T) {
	original := coupon("KEEP", models.CouponTypeFlat, 100, 0, 10, 4)
	repo := newFakeCoupons(original)
	svc := services.NewCouponService(repo, zap.NewNop())

	updated, err := svc.UpdateCoupon(context.Background(), original.ID, []byte(`{"value":150,"usedCount":0,"couponCode":"keep2"}`))
	require.NoError(t, err)
	assert.Equal(t, 150.0, updated.Value)
	assert.Equal(t, 4, updated.UsedCount)
	assert.Equal(t, "KEEP2", updated.CouponCode)

	_, err = svc.UpdateCoupon(context.Background(), original.ID, []byte(`{"status":"paused"}`))
	assert.Equal(t, http.StatusBadRequest, apperrors.StatusOf(err))
}

func TestCouponService_ActiveCoupons(t *testing.T) {
	expired := coupon("GONE", models.CouponTypeFlat, 50, 0, 0, 0)
	expired.EndTime = time.Now().Add(-time.Hour)
	svc := services.NewCouponService(newFakeCoupons(coupon("LIVE", models.CouponTypeFlat, 50, 0, 0, 0), expired), zap.NewNop())

	active, err := svc.ActiveCoupons(context.Background())
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "LIVE", active[0].CouponCode)

	all, err := svc.ListCoupons(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
