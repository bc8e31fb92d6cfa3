package services

import (
	"context"
	"math"

	apperrors "github.com/GuruprasadLokhande/Vastrashahi-Project/common/errors"
	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/paymentintent"
	"go.uber.org/zap"
)

type PaymentIntentInput struct {
	Price float64 `json:"price" validate:"gt=0"`
}

type PaymentIntentResult struct {
	ClientSecret string `json:"clientSecret"`
	ID           string `json:"id"`
}

type PaymentService struct {
	currency string
	enabled  bool
	create   func(*stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
	logger   *zap.Logger
}

// NewPaymentService configures the Stripe client. An empty secretKey disables card payments.
func NewPaymentService(secretKey, currency string, logger *zap.Logger) *PaymentService {
	if currency == "" {
		currency = "inr"
	}
	if secretKey != "" {
		stripe.Key = secretKey
	}
	return &PaymentService{
		currency: currency,
		enabled:  secretKey != "",
		create:   paymentintent.New,
		logger:   logger,
	}
}

// CreatePaymentIntent charges price in the smallest currency unit.
func (s *PaymentService) CreatePaymentIntent(ctx context.Context, in PaymentIntentInput) (*PaymentIntentResult, error) {
	if !s.enabled {
		return nil, apperrors.Unavailable("Payments are not configured")
	}
	if in.Price <= 0 {
		return nil, apperrors.BadRequest("Price must be greater than zero")
	}

	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(int64(math.Round(in.Price * 100))),
		Currency:           stripe.String(s.currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx

	pi, err := s.create(params)
	if err != nil {
		s.logger.Error("Failed to create payment intent", zap.Float64("price", in.Price), zap.Error(err))
		return nil, apperrors.Internal("Failed to create payment intent", err)
	}
	return &PaymentIntentResult{ClientSecret: pi.ClientSecret, ID: pi.ID}, nil
}
