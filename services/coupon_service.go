package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/GuruprasadLokhande/Vastrashahi-Project/common/errors"
	"github.com/GuruprasadLokhande/Vastrashahi-Project/models"
	"github.com/GuruprasadLokhande/Vastrashahi-Project/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type CouponInput struct {
	Title              string            `json:"title" validate:"required"`
	Logo               string            `json:"logo"`
	CouponCode         string            `json:"couponCode" validate:"required,min=3,max=64"`
	DiscountType       models.CouponType `json:"discountType" validate:"omitempty,oneof=percentage flat freeshipping"`
	DiscountPercentage float64           `json:"discountPercentage" validate:"gte=0"`
	Value              float64           `json:"value" validate:"gte=0"`
	MinimumAmount      float64           `json:"minimumAmount" validate:"gte=0"`
	UsageLimit         int               `json:"usageLimit" validate:"gte=0"`
	StartTime          *time.Time        `json:"startTime"`
	EndTime            time.Time         `json:"endTime" validate:"required"`
	ProductType        string            `json:"productType"`
	Status             string            `json:"status" validate:"omitempty,oneof=active inactive"`
}

type CouponService struct {
	repo   repository.CouponRepo
	logger *zap.Logger
	now    func() time.Time
}

func NewCouponService(repo repository.CouponRepo, logger *zap.Logger) *CouponService {
	return &CouponService{repo: repo, logger: logger, now: time.Now}
}

func checkCouponRules(c *models.Coupon) error {
	if c.DiscountType == models.CouponTypePercentage && c.Percent() > 100 {
		return apperrors.BadRequest("Percentage discount cannot exceed 100")
	}
	if c.StartTime != nil && !c.EndTime.After(*c.StartTime) {
		return apperrors.BadRequest("End time must be after start time")
	}
	return nil
}

func (s *CouponService) CreateCoupon(ctx context.Context, in CouponInput) (*models.Coupon, error) {
	now := s.now().UTC()
	if !in.EndTime.After(now) {
		return nil, apperrors.BadRequest("Expiry date must be in the future")
	}
	coupon := models.Coupon{
		Title:              in.Title,
		Logo:               in.Logo,
		CouponCode:         strings.ToUpper(strings.TrimSpace(in.CouponCode)),
		DiscountType:       in.DiscountType,
		DiscountPercentage: in.DiscountPercentage,
		Value:              in.Value,
		MinimumAmount:      in.MinimumAmount,
		UsageLimit:         in.UsageLimit,
		StartTime:          in.StartTime,
		EndTime:            in.EndTime,
		ProductType:        in.ProductType,
		Status:             in.Status,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if coupon.DiscountType == "" {
		coupon.DiscountType = models.CouponTypePercentage
	}
	if coupon.Status == "" {
		coupon.Status = models.CouponStatusActive
	}
	if err := checkCouponRules(&coupon); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, &coupon); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict("Coupon code already exists")
		}
		s.logger.Error("Failed to create coupon", zap.Error(err))
		return nil, apperrors.Internal("Failed to create coupon", err)
	}
	s.logger.Info("Coupon created", zap.String("code", coupon.CouponCode), zap.String("type", string(coupon.DiscountType)))
	return &coupon, nil
}

// evaluate applies the validity checks in order and computes the discount for cartTotal.
// A non-empty message means the coupon cannot be used.
func (s *CouponService) evaluate(coupon *models.Coupon, cartTotal float64) (float64, string) {
	now := s.now()
	switch {
	case coupon.Status != models.CouponStatusActive:
		return 0, "Coupon not found or inactive"
	case coupon.StartTime != nil && now.Before(*coupon.StartTime):
		return 0, "Coupon is not active yet"
	case now.After(coupon.EndTime):
		return 0, "Coupon has expired"
	case coupon.UsageLimit > 0 && coupon.UsedCount >= coupon.UsageLimit:
		return 0, "Coupon usage limit reached"
	case cartTotal < coupon.MinimumAmount:
		return 0, fmt.Sprintf("Minimum order value of %.2f required", coupon.MinimumAmount)
	}

	switch coupon.DiscountType {
	case models.CouponTypeFlat:
		if coupon.Value > cartTotal {
			return cartTotal, ""
		}
		return coupon.Value, ""
	case models.CouponTypeFreeShipping:
		return 0, ""
	default:
		return cartTotal * coupon.Percent() / 100, ""
	}
}

// ValidateCoupon reports whether a code applies to cartTotal without redeeming it.
func (s *CouponService) ValidateCoupon(ctx context.Context, req models.ValidateCouponRequest) (*models.ValidateCouponResponse, error) {
	code := strings.ToUpper(strings.TrimSpace(req.CouponCode))
	resp := &models.ValidateCouponResponse{CouponCode: code}

	coupon, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Internal("Failed to validate coupon", err)
		}
		resp.Message = "Coupon not found or inactive"
		return resp, nil
	}

	discount, msg := s.evaluate(coupon, req.CartTotal)
	if msg != "" {
		resp.Message = msg
		return resp, nil
	}
	resp.Valid = true
	resp.DiscountType = coupon.DiscountType
	resp.DiscountAmount = discount
	resp.Message = "Coupon applied successfully"
	return resp, nil
}

// Redeem validates the code against cartTotal and consumes one use atomically.
func (s *CouponService) Redeem(ctx context.Context, code string, cartTotal float64) (float64, *models.Coupon, error) {
	coupon, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, nil, apperrors.BadRequest("Coupon not found or inactive")
		}
		return 0, nil, apperrors.Internal("Failed to apply coupon", err)
	}
	discount, msg := s.evaluate(coupon, cartTotal)
	if msg != "" {
		return 0, nil, apperrors.BadRequest(msg)
	}
	ok, err := s.repo.Redeem(ctx, coupon.CouponCode)
	if err != nil {
		s.logger.Error("Failed to increment coupon usage", zap.String("code", coupon.CouponCode), zap.Error(err))
		return 0, nil, apperrors.Internal("Failed to apply coupon", err)
	}
	if !ok {
		return 0, nil, apperrors.BadRequest("Coupon usage limit reached")
	}
	return discount, coupon, nil
}

// Release returns a use consumed by Redeem.
func (s *CouponService) Release(ctx context.Context, code string) error {
	if err := s.repo.Release(ctx, code); err != nil {
		return apperrors.Internal("Failed to release coupon", err)
	}
	return nil
}

// ActiveCoupons lists coupons shoppers can still use.
func (s *CouponService) ActiveCoupons(ctx context.Context) ([]models.Coupon, error) {
	coupons, err := s.repo.Find(ctx, s.now().UTC())
	if err != nil {
		return nil, apperrors.Internal("Failed to list coupons", err)
	}
	return coupons, nil
}

func (s *CouponService) ListCoupons(ctx context.Context) ([]models.Coupon, error) {
	coupons, err := s.repo.Find(ctx, time.Time{})
	if err != nil {
		s.logger.Error("Failed to list coupons", zap.Error(err))
		return nil, apperrors.Internal("Failed to list coupons", err)
	}
	return coupons, nil
}

func (s *CouponService) GetCoupon(ctx context.Context, id primitive.ObjectID) (*models.Coupon, error) {
	coupon, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Coupon not found")
	}
	return coupon, nil
}

func (s *CouponService) UpdateCoupon(ctx context.Context, id primitive.ObjectID, patch []byte) (*models.Coupon, error) {
	existing, err := s.GetCoupon(ctx, id)
	if err != nil {
		return nil, err
	}
	updated := *existing
	if err := mergeJSON(&updated, patch); err != nil {
		return nil, err
	}
	updated.ID = existing.ID
	updated.UsedCount = existing.UsedCount
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = s.now().UTC()
	updated.CouponCode = strings.ToUpper(strings.TrimSpace(updated.CouponCode))

	if updated.CouponCode == "" {
		return nil, apperrors.BadRequest("Coupon code is required")
	}
	if updated.Status != models.CouponStatusActive && updated.Status != models.CouponStatusInactive {
		return nil, apperrors.BadRequest("Status must be active or inactive")
	}
	if err := checkCouponRules(&updated); err != nil {
		return nil, err
	}
	if err := s.repo.Replace(ctx, &updated); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict("Coupon code already exists")
		}
		return nil, notFoundOr(err, "Coupon not found")
	}
	return &updated, nil
}

func (s *CouponService) DeleteCoupon(ctx context.Context, id primitive.ObjectID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFoundOr(err, "Coupon not found")
	}
	s.logger.Info("Coupon deleted", zap.String("coupon_id", id.Hex()))
	return nil
}
