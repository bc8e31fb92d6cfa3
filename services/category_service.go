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

type CategoryInput struct {
	Img         string   `json:"img"`
	Parent      string   `json:"parent" validate:"required"`
	Children    []string `json:"children"`
	ProductType string   `json:"productType"`
	Description string   `json:"description"`
	Status      string   `json:"status" validate:"omitempty,oneof=Show Hide"`
}

// CategoryWithProducts is a category whose product ids are expanded to documents.
type CategoryWithProducts struct {
	models.Category
	Products []models.Product `json:"products"`
}

type CategoryService struct {
	categories repository.CategoryRepo
	products   repository.ProductRepo
	logger     *zap.Logger
	now        func() time.Time
}

func NewCategoryService(categories repository.CategoryRepo, products repository.ProductRepo, logger *zap.Logger) *CategoryService {
	return &CategoryService{categories: categories, products: products, logger: logger, now: time.Now}
}

func (s *CategoryService) build(in CategoryInput) (models.Category, error) {
	parent := strings.TrimSpace(in.Parent)
	if parent == "" {
		return models.Category{}, apperrors.BadRequest("Parent category is required")
	}
	status := in.Status
	if status == "" {
		status = models.CategoryStatusShow
	}
	if status != models.CategoryStatusShow && status != models.CategoryStatusHide {
		return models.Category{}, apperrors.BadRequest("Status must be Show or Hide")
	}
	children := in.Children
	if children == nil {
		children = []string{}
	}
	now := s.now().UTC()
	return models.Category{
		Img:         in.Img,
		Parent:      parent,
		Children:    children,
		ProductType: in.ProductType,
		Description: in.Description,
		Products:    []primitive.ObjectID{},
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (s *CategoryService) CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error) {
	cat, err := s.build(in)
	if err != nil {
		return nil, err
	}
	if _, err := s.categories.FindByParent(ctx, cat.Parent); err == nil {
		return nil, apperrors.Conflict("Category already exists")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Internal("Failed to create category", err)
	}
	if err := s.categories.Create(ctx, &cat); err != nil {
		return nil, apperrors.Internal("Failed to create category", err)
	}
	s.logger.Info("Category created", zap.String("category_id", cat.ID.Hex()), zap.String("parent", cat.Parent))
	return &cat, nil
}

// CreateCategories bulk-inserts categories; parents already present are rejected up front.
func (s *CategoryService) CreateCategories(ctx context.Context, inputs []CategoryInput) ([]models.Category, error) {
	if len(inputs) == 0 {
		return nil, apperrors.BadRequest("No categories provided")
	}
	batch := make([]models.Category, 0, len(inputs))
	seen := map[string]bool{}
	for _, in := range inputs {
		cat, err := s.build(in)
		if err != nil {
			return nil, err
		}
		key := strings.ToLower(cat.Parent)
		if seen[key] {
			return nil, apperrors.Conflict("Category already exists: " + cat.Parent)
		}
		seen[key] = true
		if _, err := s.categories.FindByParent(ctx, cat.Parent); err == nil {
			return nil, apperrors.Conflict("Category already exists: " + cat.Parent)
		}
		batch = append(batch, cat)
	}
	if err := s.categories.CreateMany(ctx, batch); err != nil {
		return nil, apperrors.Internal("Failed to create categories", err)
	}
	return batch, nil
}

func (s *CategoryService) ListCategories(ctx context.Context) ([]models.Category, error) {
	cats, err := s.categories.Find(ctx, repository.CategoryQuery{})
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch categories", err)
	}
	return cats, nil
}

// ShowCategories lists visible categories, optionally of one product type, with their products populated.
func (s *CategoryService) ShowCategories(ctx context.Context, productType string) ([]CategoryWithProducts, error) {
	cats, err := s.categories.Find(ctx, repository.CategoryQuery{Status: models.CategoryStatusShow, ProductType: productType})
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch categories", err)
	}

	var ids []primitive.ObjectID
	for _, c := range cats {
		ids = append(ids, c.Products...)
	}
	byID := map[primitive.ObjectID]models.Product{}
	if len(ids) > 0 {
		products, err := s.products.Find(ctx, repository.ProductQuery{IDs: ids})
		if err != nil {
			return nil, apperrors.Internal("Failed to fetch category products", err)
		}
		for _, p := range products {
			byID[p.ID] = p
		}
	}

	out := make([]CategoryWithProducts, 0, len(cats))
	for _, c := range cats {
		item := CategoryWithProducts{Category: c, Products: []models.Product{}}
		for _, id := range c.Products {
			if p, ok := byID[id]; ok {
				item.Products = append(item.Products, p)
			}
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *CategoryService) GetCategory(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	cat, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Category not found")
	}
	return cat, nil
}

func (s *CategoryService) UpdateCategory(ctx context.Context, id primitive.ObjectID, patch []byte) (*models.Category, error) {
	existing, err := s.GetCategory(ctx, id)
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
	updated.Parent = strings.TrimSpace(updated.Parent)

	if updated.Parent == "" {
		return nil, apperrors.BadRequest("Parent category is required")
	}
	if updated.Status != models.CategoryStatusShow && updated.Status != models.CategoryStatusHide {
		return nil, apperrors.BadRequest("Status must be Show or Hide")
	}
	if !strings.EqualFold(updated.Parent, existing.Parent) {
		if _, err := s.categories.FindByParent(ctx, updated.Parent); err == nil {
			return nil, apperrors.Conflict("Category already exists")
		}
	}
	if err := s.categories.Replace(ctx, &updated); err != nil {
		return nil, notFoundOr(err, "Category not found")
	}
	return &updated, nil
}

func (s *CategoryService) DeleteCategory(ctx context.Context, id primitive.ObjectID) error {
	cat, err := s.GetCategory(ctx, id)
	if err != nil {
		return err
	}
	if len(cat.Products) > 0 {
		return apperrors.BadRequest("Category has associated products")
	}
	if err := s.categories.Delete(ctx, id); err != nil {
		return notFoundOr(err, "Category not found")
	}
	s.logger.Info("Category deleted", zap.String("category_id", id.Hex()))
	return nil
}
