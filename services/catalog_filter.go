package services

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	apperrors "github.com/GuruprasadLokhande/Vastrashahi-Project/common/errors"
	"github.com/GuruprasadLokhande/Vastrashahi-Project/models"
)

const (
	SortDefault   = "Default Sorting"
	SortLowToHigh = "Low to High"
	SortHighToLow = "High to Low"
	SortNewAdded  = "New Added"
	SortOnSale    = "On Sale"
)

var sortAliases = map[string]string{
	"":                "",
	SortDefault:       "",
	SortLowToHigh:     SortLowToHigh,
	"price_asc":       SortLowToHigh,
	SortHighToLow:     SortHighToLow,
	"price_desc":      SortHighToLow,
	SortNewAdded:      SortNewAdded,
	"created_at_desc": SortNewAdded,
	SortOnSale:        SortOnSale,
	"on_sale":         SortOnSale,
}

// ShopFilter is the storefront query string.
type ShopFilter struct {
	Sort        string
	MinPrice    *float64
	MaxPrice    *float64
	Status      string
	Gender      string
	Category    string
	Subcategory string
	Color       string
}

var slugSeparators = regexp.MustCompile(`[&\s]+`)

// Slug lowercases s and collapses every run of '&' and whitespace into one '-'.
func Slug(s string) string {
	return slugSeparators.ReplaceAllString(strings.ToLower(s), "-")
}

// ParseShopFilter reads the storefront query parameters. get is usually gin's c.Query.
func ParseShopFilter(get func(string) string) (ShopFilter, error) {
	f := ShopFilter{
		Sort:        strings.TrimSpace(get("sort")),
		Status:      get("status"),
		Gender:      get("gender"),
		Category:    get("category"),
		Subcategory: get("subcategory"),
		Color:       get("color"),
	}
	if _, ok := sortAliases[f.Sort]; !ok {
		return f, apperrors.BadRequest("invalid sort value")
	}

	var err error
	if f.MinPrice, err = parsePrice(get("minPrice"), "minPrice"); err != nil {
		return f, err
	}
	if f.MaxPrice, err = parsePrice(get("maxPrice"), "maxPrice"); err != nil {
		return f, err
	}
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return f, apperrors.BadRequest("minPrice cannot be greater than maxPrice")
	}
	return f, nil
}

func parsePrice(raw, name string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 || math.IsNaN(v) {
		return nil, apperrors.BadRequest("invalid " + name)
	}
	return &v, nil
}

// ApplyShopFilter runs the storefront pipeline: sort, price, status, gender, category,
// subcategory, color. Gender and the taxonomy/color steps keep their input when nothing matches.
// The input slice is not modified.
func ApplyShopFilter(products []models.Product, f ShopFilter) ([]models.Product, error) {
	mode, ok := sortAliases[strings.TrimSpace(f.Sort)]
	if !ok {
		return nil, apperrors.BadRequest("invalid sort value")
	}
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return nil, apperrors.BadRequest("minPrice cannot be greater than maxPrice")
	}

	items := make([]models.Product, len(products))
	copy(items, products)

	switch mode {
	case SortLowToHigh:
		sort.SliceStable(items, func(i, j int) bool { return items[i].Price < items[j].Price })
	case SortHighToLow:
		sort.SliceStable(items, func(i, j int) bool { return items[i].Price > items[j].Price })
	case SortNewAdded:
		sort.SliceStable(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	case SortOnSale:
		items = keep(items, onSale)
	}

	if f.MinPrice != nil || f.MaxPrice != nil {
		lo, hi := 0.0, math.Inf(1)
		if f.MinPrice != nil {
			lo = *f.MinPrice
		}
		if f.MaxPrice != nil {
			hi = *f.MaxPrice
		}
		items = keep(items, func(p *models.Product) bool { return p.Price >= lo && p.Price <= hi })
	}

	switch f.Status {
	case "on-sale":
		items = keep(items, onSale)
	case "in-stock":
		items = keep(items, func(p *models.Product) bool { return p.Status == models.ProductStatusInStock })
	}

	if f.Gender != "" {
		items = keepOrAll(items, func(p *models.Product) bool {
			return p.Gender != "" && strings.EqualFold(p.Gender, f.Gender)
		})
	}

	if f.Category != "" {
		want := Slug(f.Category)
		items = keepOrAll(items, func(p *models.Product) bool {
			return (p.Category.Name != "" && Slug(p.Category.Name) == want) ||
				(p.Parent != "" && Slug(p.Parent) == want)
		})
	}

	if f.Subcategory != "" {
		want := Slug(f.Subcategory)
		items = keepOrAll(items, func(p *models.Product) bool { return matchesSubcategory(p, want) })
	}

	if f.Color != "" {
		want := Slug(f.Color)
		items = keepOrAll(items, func(p *models.Product) bool {
			for _, img := range p.ImageURLs {
				if img.Color != nil && img.Color.Name != "" && Slug(img.Color.Name) == want {
					return true
				}
			}
			return false
		})
	}

	return items, nil
}

// matchesSubcategory checks the product's own children first, then its category's children,
// and only then the category name. A children list that is present but empty matches nothing.
func matchesSubcategory(p *models.Product, want string) bool {
	if p.Children != "" {
		return Slug(p.Children) == want
	}
	if p.Category.Children != nil {
		for _, child := range p.Category.Children {
			if Slug(child) == want {
				return true
			}
		}
		return false
	}
	return p.Category.Name != "" && Slug(p.Category.Name) == want
}

func onSale(p *models.Product) bool { return p.Discount > 0 }

func keep(items []models.Product, pred func(*models.Product) bool) []models.Product {
	out := make([]models.Product, 0, len(items))
	for i := range items {
		if pred(&items[i]) {
			out = append(out, items[i])
		}
	}
	return out
}

func keepOrAll(items []models.Product, pred func(*models.Product) bool) []models.Product {
	if out := keep(items, pred); len(out) > 0 {
		return out
	}
	return items
}

// Page is one window of a listing.
type Page struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasMore    bool  `json:"has_more"`
}

const (
	DefaultPageSize = 12
	MaxPageSize     = 100
	// MaxPage keeps (page-1)*limit far from overflow.
	MaxPage = 1_000_000
)

// NormalizePage clamps page and limit into range.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit
}

func NewPage(page, limit int, total int64) Page {
	pages := int((total + int64(limit) - 1) / int64(limit))
	return Page{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: pages,
		HasMore:    page < pages,
	}
}

// Paginate slices an in-memory result set.
func Paginate[T any](items []T, page, limit int) ([]T, Page) {
	page, limit = NormalizePage(page, limit)
	meta := NewPage(page, limit, int64(len(items)))
	if page > meta.TotalPages {
		return []T{}, meta
	}
	start := (page - 1) * limit
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], meta
}
