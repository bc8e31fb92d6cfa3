package services

import (
	"context"
	"errors"
	"strings"
	"time"

	apperrors "github.com/GuruprasadLokhande/Vastrashahi-Project/common/errors"
	"github.com/GuruprasadLokhande/Vastrashahi-Project/models"
	"github.com/GuruprasadLokhande/Vastrashahi-Project/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type BrandInput struct {
	Name        string `json:"name" validate:"required"`
	Logo        string `json:"logo"`
	Email       string `json:"email" validate:"omitempty,email"`
	Website     string `json:"website"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Status      string `json:"status" validate:"omitempty,oneof=active inactive"`
}

type BrandService struct {
	brands repository.BrandRepo
	logger *zap.Logger
	now    func() time.Time
}

func NewBrandService(brands repository.BrandRepo, logger *zap.Logger) *BrandService {
	return &BrandService{brands: brands, logger: logger, now: time.Now}
}

func validBrandStatus(s string) bool {
	return s == models.BrandStatusActive || s == models.BrandStatusInactive
}

func (s *BrandService) CreateBrand(ctx context.Context, in BrandInput) (*models.Brand, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperrors.BadRequest("Brand name is required")
	}
	status := in.Status
	if status == "" {
		status = models.BrandStatusActive
	}
	if !validBrandStatus(status) {
		return nil, apperrors.BadRequest("Status must be active or inactive")
	}
	if _, err := s.brands.FindByName(ctx, name); err == nil {
		return nil, apperrors.Conflict("Brand already exists")
	}

	now := s.now().UTC()
	brand := models.Brand{
		Name:        name,
		Logo:        in.Logo,
		Email:       in.Email,
		Website:     in.Website,
		Location:    in.Location,
		Description: in.Description,
		Status:      status,
		Products:    []primitive.ObjectID{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.brands.Create(ctx, &brand); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict("Brand already exists")
		}
		return nil, apperrors.Internal("Failed to create brand", err)
	}
	s.logger.Info("Brand created", zap.String("brand_id", brand.ID.Hex()), zap.String("name", brand.Name))
	return &brand, nil
}

func (s *BrandService) ListBrands(ctx context.Context, activeOnly bool) ([]models.Brand, error) {
	status := ""
	if activeOnly {
		status = models.BrandStatusActive
	}
	brands, err := s.brands.Find(ctx, status)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch brands", err)
	}
	return brands, nil
}

func (s *BrandService) GetBrand(ctx context.Context, id primitive.ObjectID) (*models.Brand, error) {
	brand, err := s.brands.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Brand not found")
	}
	return brand, nil
}

func (s *BrandService) UpdateBrand(ctx context.Context, id primitive.ObjectID, patch []byte) (*models.Brand, error) {
	existing, err := s.GetBrand(ctx, id)
	if err != nil {
		return nil, err
	}
	updated := *existing
	if err := mergeJSON(&updated, patch); err != nil {
		return nil, err
	}
	updated.ID = existing.ID
	updated.Products = existing.Products
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = s.now().UTC()
	updated.Name = strings.TrimSpace(updated.Name)

	if updated.Name == "" {
		return nil, apperrors.BadRequest("Brand name is required")
	}
	if !validBrandStatus(updated.Status) {
		return nil, apperrors.BadRequest("Status must be active or inactive")
	}
	if err := s.brands.Replace(ctx, &updated); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict("Brand already exists")
		}
		return nil, notFoundOr(err, "Brand not found")
	}
	return &updated, nil
}

func (s *BrandService) DeleteBrand(ctx context.Context, id primitive.ObjectID) error {
	if err := s.brands.Delete(ctx, id); err != nil {
		return notFoundOr(err, "Brand not found")
	}
	s.logger.Info("Brand deleted", zap.String("brand_id", id.Hex()))
	return nil
}
