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

// storefrontLimit caps the curated product strips (related, new, top sellers, popular, top rated).
const storefrontLimit = 8

// ProductInput is the admin payload for creating a product.
type ProductInput struct {
	SKU         string                `json:"sku"`
	Title       string                `json:"title" validate:"required"`
	Slug        string                `json:"slug"`
	Unit        string                `json:"unit"`
	Img         string                `json:"img"`
	ImageURLs   []models.ProductImage `json:"imageURLs"`
	Parent      string                `json:"parent" validate:"required"`
	Children    string                `json:"children" validate:"required"`
	Price       float64               `json:"price" validate:"gt=0"`
	Discount    float64               `json:"discount" validate:"gte=0,lte=100"`
	Quantity    int                   `json:"quantity" validate:"gte=0"`
	Brand       models.BrandRef       `json:"brand"`
	Category    models.CategoryRef    `json:"category"`
	Status      string                `json:"status" validate:"omitempty,oneof=in-stock out-of-stock discontinued"`
	ProductType string                `json:"productType"`
	Gender      string                `json:"gender"`
	Description string                `json:"description"`
	Tags        []string              `json:"tags"`
	Sizes       []string              `json:"sizes"`
	Featured    bool                  `json:"featured"`
	OfferDate   *models.OfferDate     `json:"offerDate"`
}

func (in ProductInput) toProduct() models.Product {
	return models.Product{
		SKU:         in.SKU,
		Title:       in.Title,
		Slug:        in.Slug,
		Unit:        in.Unit,
		Img:         in.Img,
		ImageURLs:   in.ImageURLs,
		Parent:      in.Parent,
		Children:    in.Children,
		Price:       in.Price,
		Discount:    in.Discount,
		Quantity:    in.Quantity,
		Brand:       in.Brand,
		Category:    in.Category,
		Status:      in.Status,
		ProductType: in.ProductType,
		Gender:      in.Gender,
		Description: in.Description,
		Tags:        in.Tags,
		Sizes:       in.Sizes,
		Featured:    in.Featured,
		OfferDate:   in.OfferDate,
	}
}

// TypeListing selects one of the product-type strips.
type TypeListing struct {
	New        bool
	Featured   bool
	TopSellers bool
}

type ProductService struct {
	products   repository.ProductRepo
	categories repository.CategoryRepo
	brands     repository.BrandRepo
	reviews    repository.ReviewRepo
	logger     *zap.Logger
	now        func() time.Time
}

func NewProductService(
	products repository.ProductRepo,
	categories repository.CategoryRepo,
	brands repository.BrandRepo,
	reviews repository.ReviewRepo,
	logger *zap.Logger,
) *ProductService {
	return &ProductService{
		products:   products,
		categories: categories,
		brands:     brands,
		reviews:    reviews,
		logger:     logger,
		now:        time.Now,
	}
}

// validateProduct enforces the product invariants shared by create, bulk create and edit.
func validateProduct(p *models.Product) error {
	switch {
	case strings.TrimSpace(p.Title) == "":
		return apperrors.BadRequest("Title is required")
	case p.Price <= 0:
		return apperrors.BadRequest("Price must be greater than 0")
	case p.Discount < 0 || p.Discount > 100:
		return apperrors.BadRequest("Discount must be between 0 and 100")
	case p.Quantity < 0:
		return apperrors.BadRequest("Quantity cannot be negative")
	case strings.TrimSpace(p.Parent) == "" || strings.TrimSpace(p.Children) == "":
		return apperrors.BadRequest("Parent and children category are required")
	}
	return nil
}

// normalize fills derived fields: slug, SKU, stock status and timestamps.
func (s *ProductService) normalize(p *models.Product) {
	if p.Slug == "" {
		p.Slug = productSlug(p.Title)
	}
	if p.SKU == "" {
		p.SKU = "VS-" + randomDigits(6)
	}
	if p.Status == "" {
		p.Status = models.ProductStatusInStock
	}
	if p.Quantity == 0 {
		p.Status = models.ProductStatusOutOfStock
	} else if p.Status == models.ProductStatusOutOfStock {
		p.Status = models.ProductStatusInStock
	}
	if p.Category.Name == "" {
		p.Category.Name = p.Parent
	}
	if p.ImageURLs == nil {
		p.ImageURLs = []models.ProductImage{}
	}
	if p.Reviews == nil {
		p.Reviews = []primitive.ObjectID{}
	}
	if p.Img == "" && len(p.ImageURLs) > 0 {
		p.Img = p.ImageURLs[0].Img
	}
	now := s.now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
}

// resolveRefs fills missing category and brand ids by name so the product can be linked back.
func (s *ProductService) resolveRefs(ctx context.Context, p *models.Product) {
	if p.Category.ID.IsZero() {
		if cat, err := s.categories.FindByParent(ctx, p.Category.Name); err == nil {
			p.Category.ID = cat.ID
		}
	}
	if p.Brand.ID.IsZero() && p.Brand.Name != "" {
		if brand, err := s.brands.FindByName(ctx, p.Brand.Name); err == nil {
			p.Brand.ID = brand.ID
		}
	}
}

func (s *ProductService) link(ctx context.Context, p *models.Product) {
	if !p.Category.ID.IsZero() {
		if err := s.categories.AddProduct(ctx, p.Category.ID, p.ID); err != nil {
			s.logger.Warn("Failed to link product to category", zap.String("product_id", p.ID.Hex()), zap.Error(err))
		}
	}
	if !p.Brand.ID.IsZero() {
		if err := s.brands.AddProduct(ctx, p.Brand.ID, p.ID); err != nil {
			s.logger.Warn("Failed to link product to brand", zap.String("product_id", p.ID.Hex()), zap.Error(err))
		}
	}
}

func (s *ProductService) unlink(ctx context.Context, p *models.Product) {
	if !p.Category.ID.IsZero() {
		if err := s.categories.RemoveProduct(ctx, p.Category.ID, p.ID); err != nil {
			s.logger.Warn("Failed to unlink product from category", zap.String("product_id", p.ID.Hex()), zap.Error(err))
		}
	}
	if !p.Brand.ID.IsZero() {
		if err := s.brands.RemoveProduct(ctx, p.Brand.ID, p.ID); err != nil {
			s.logger.Warn("Failed to unlink product from brand", zap.String("product_id", p.ID.Hex()), zap.Error(err))
		}
	}
}

func (s *ProductService) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	p := in.toProduct()
	if err := validateProduct(&p); err != nil {
		return nil, err
	}
	s.normalize(&p)
	s.resolveRefs(ctx, &p)

	if err := s.products.Create(ctx, &p); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict("Product with this SKU already exists")
		}
		return nil, apperrors.Internal("Failed to create product", err)
	}
	s.link(ctx, &p)

	s.logger.Info("Product created", zap.String("product_id", p.ID.Hex()), zap.String("sku", p.SKU))
	return &p, nil
}

// CreateProducts validates the whole batch before inserting any of it.
func (s *ProductService) CreateProducts(ctx context.Context, inputs []ProductInput) ([]models.Product, error) {
	if len(inputs) == 0 {
		return nil, apperrors.BadRequest("No products provided")
	}
	batch := make([]models.Product, len(inputs))
	for i, in := range inputs {
		batch[i] = in.toProduct()
		if err := validateProduct(&batch[i]); err != nil {
			appErr, _ := apperrors.As(err)
			return nil, apperrors.BadRequest(fmt.Sprintf("%s (item %d)", appErr.Message, i+1))
		}
		s.normalize(&batch[i])
		s.resolveRefs(ctx, &batch[i])
	}

	if err := s.products.CreateMany(ctx, batch); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict("One or more products already exist")
		}
		return nil, apperrors.Internal("Failed to create products", err)
	}
	for i := range batch {
		s.link(ctx, &batch[i])
	}
	s.logger.Info("Products created", zap.Int("count", len(batch)))
	return batch, nil
}

func (s *ProductService) GetProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Product not found")
	}
	return p, nil
}

// GetProductDetail returns the product with its reviews populated.
func (s *ProductService) GetProductDetail(ctx context.Context, id primitive.ObjectID) (*models.ProductDetail, error) {
	p, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	reviews, err := s.reviews.FindByProduct(ctx, id)
	if err != nil {
		return nil, apperrors.Internal("Failed to load reviews", err)
	}
	return &models.ProductDetail{Product: p, Reviews: reviews}, nil
}

// UpdateProduct applies a partial JSON update and re-validates the result.
func (s *ProductService) UpdateProduct(ctx context.Context, id primitive.ObjectID, patch []byte) (*models.Product, error) {
	existing, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	updated := *existing
	if err := mergeJSON(&updated, patch); err != nil {
		return nil, err
	}
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.Reviews = existing.Reviews
	updated.SellCount = existing.SellCount
	// A renamed reference is resolved again by name.
	if updated.Category.Name != existing.Category.Name && updated.Category.ID == existing.Category.ID {
		updated.Category.ID = primitive.NilObjectID
	}
	if updated.Brand.Name != existing.Brand.Name && updated.Brand.ID == existing.Brand.ID {
		updated.Brand.ID = primitive.NilObjectID
	}

	if err := validateProduct(&updated); err != nil {
		return nil, err
	}
	s.normalize(&updated)
	s.resolveRefs(ctx, &updated)

	if err := s.products.Replace(ctx, &updated); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict("Product with this SKU already exists")
		}
		return nil, notFoundOr(err, "Product not found")
	}
	if existing.Category.ID != updated.Category.ID || existing.Brand.ID != updated.Brand.ID {
		s.unlink(ctx, existing)
		s.link(ctx, &updated)
	}
	return &updated, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, id primitive.ObjectID) error {
	p, err := s.GetProduct(ctx, id)
	if err != nil {
		return err
	}
	if err := s.products.Delete(ctx, id); err != nil {
		return notFoundOr(err, "Product not found")
	}
	s.unlink(ctx, p)
	s.logger.Info("Product deleted", zap.String("product_id", id.Hex()))
	return nil
}

func (s *ProductService) ListAll(ctx context.Context) ([]models.Product, error) {
	products, err := s.products.Find(ctx, repository.ProductQuery{SortBy: "createdAt"})
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch products", err)
	}
	return products, nil
}

// ShopProducts runs the storefront filter pipeline over the catalog and pages the result.
func (s *ProductService) ShopProducts(ctx context.Context, f ShopFilter, page, limit int) ([]models.Product, Page, error) {
	all, err := s.products.Find(ctx, repository.ProductQuery{})
	if err != nil {
		return nil, Page{}, apperrors.Internal("Failed to fetch products", err)
	}
	filtered, err := ApplyShopFilter(all, f)
	if err != nil {
		return nil, Page{}, err
	}
	items, meta := Paginate(filtered, page, limit)
	return items, meta, nil
}

// RelatedProducts lists other products of the same category. The product's own category is used when none is given.
func (s *ProductService) RelatedProducts(ctx context.Context, id primitive.ObjectID, category string) ([]models.Product, error) {
	if category == "" {
		p, err := s.GetProduct(ctx, id)
		if err != nil {
			return nil, err
		}
		category = p.Category.Name
	}
	products, err := s.products.Find(ctx, repository.ProductQuery{CategoryName: category, ExcludeID: id, Limit: storefrontLimit})
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch related products", err)
	}
	return products, nil
}

func (s *ProductService) ProductsByType(ctx context.Context, productType string, opt TypeListing) ([]models.Product, error) {
	q := repository.ProductQuery{ProductType: productType}
	switch {
	case opt.New:
		q.SortBy, q.Limit = "createdAt", storefrontLimit
	case opt.Featured:
		q.Featured = true
	case opt.TopSellers:
		q.SortBy, q.Limit = "sellCount", storefrontLimit
	}
	products, err := s.products.Find(ctx, q)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch products", err)
	}
	return products, nil
}

func (s *ProductService) OfferProducts(ctx context.Context) ([]models.Product, error) {
	products, err := s.products.Find(ctx, repository.ProductQuery{OfferAfter: s.now().UTC()})
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch offer products", err)
	}
	return products, nil
}

func (s *ProductService) PopularProducts(ctx context.Context) ([]models.Product, error) {
	products, err := s.products.Popular(ctx, storefrontLimit)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch popular products", err)
	}
	return products, nil
}

func (s *ProductService) TopRatedProducts(ctx context.Context) ([]models.Product, error) {
	products, err := s.products.TopRated(ctx, storefrontLimit)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch top rated products", err)
	}
	return products, nil
}

func (s *ProductService) StockOutProducts(ctx context.Context) ([]models.Product, error) {
	products, err := s.products.Find(ctx, repository.ProductQuery{StockOut: true, SortBy: "createdAt"})
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch stock-out products", err)
	}
	return products, nil
}
