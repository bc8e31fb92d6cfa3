package services_test

import (
	"math"
	"net/http"
	"testing"
	"time"

	apperrors "github.com/GuruprasadLokhande/Vastrashahi-Project/common/errors"
	"github.com/GuruprasadLokhande/Vastrashahi-Project/models"
	"github.com/GuruprasadLokhande/Vastrashahi-Project/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func color(name string) []models.ProductImage {
	return []models.ProductImage{{Img: "x.jpg", Color: &models.ImageColor{Name: name}}}
}

func catalog() []models.Product {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return []models.Product{
		{
			Title: "kurta", Price: 1200, Discount: 10, Status: models.ProductStatusInStock, Gender: "Men",
			Parent: "Ethnic Wear", Children: "Kurtas",
			Category:  models.CategoryRef{Name: "Ethnic Wear"},
			ImageURLs: color("Royal Blue"), CreatedAt: base,
		},
		{
			Title: "saree", Price: 3500, Status: models.ProductStatusInStock, Gender: "Women",
			Parent:    "Ethnic Wear",
			Category:  models.CategoryRef{Name: "Ethnic Wear", Children: []string{"Sarees", "Lehengas"}},
			ImageURLs: color("Red"), CreatedAt: base.Add(48 * time.Hour),
		},
		{
			Title: "tee", Price: 499, Discount: 5, Status: models.ProductStatusOutOfStock, Gender: "men",
			Category:  models.CategoryRef{Name: "Tops & Tees"},
			ImageURLs: color("White"), CreatedAt: base.Add(24 * time.Hour),
		},
	}
}

func titles(ps []models.Product) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Title
	}
	return out
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "tops-tees", services.Slug("Tops & Tees"))
	assert.Equal(t, "royal-blue", services.Slug("Royal  Blue"))
	assert.Equal(t, "kurtas", services.Slug("KURTAS"))
}

func TestApplyShopFilter(t *testing.T) {
	tests := []struct {
		name   string
		filter services.ShopFilter
		want   []string
	}{
		{"default keeps stored order", services.ShopFilter{}, []string{"kurta", "saree", "tee"}},
		{"low to high", services.ShopFilter{Sort: "Low to High"}, []string{"tee", "kurta", "saree"}},
		{"price_desc alias", services.ShopFilter{Sort: "price_desc"}, []string{"saree", "kurta", "tee"}},
		{"new added", services.ShopFilter{Sort: "New Added"}, []string{"saree", "tee", "kurta"}},
		{"on sale", services.ShopFilter{Sort: "On Sale"}, []string{"kurta", "tee"}},
		{"price window", services.ShopFilter{MinPrice: ptr(500), MaxPrice: ptr(2000)}, []string{"kurta"}},
		{"max only", services.ShopFilter{MaxPrice: ptr(1200)}, []string{"kurta", "tee"}},
		{"status in-stock", services.ShopFilter{Status: "in-stock"}, []string{"kurta", "saree"}},
		{"status on-sale", services.ShopFilter{Status: "on-sale"}, []string{"kurta", "tee"}},
		{"unknown status ignored", services.ShopFilter{Status: "whatever"}, []string{"kurta", "saree", "tee"}},
		{"gender is case-insensitive", services.ShopFilter{Gender: "MEN"}, []string{"kurta", "tee"}},
		{"gender without match falls back", services.ShopFilter{Gender: "kids"}, []string{"kurta", "saree", "tee"}},
		{"category by slug", services.ShopFilter{Category: "tops-tees"}, []string{"tee"}},
		{"category by parent", services.ShopFilter{Category: "ethnic-wear"}, []string{"kurta", "saree"}},
		{"subcategory from product children", services.ShopFilter{Subcategory: "kurtas"}, []string{"kurta"}},
		{"subcategory from category children", services.ShopFilter{Subcategory: "lehengas"}, []string{"saree"}},
		{"subcategory from category name", services.ShopFilter{Subcategory: "Tops & Tees"}, []string{"tee"}},
		{"color", services.ShopFilter{Color: "royal-blue"}, []string{"kurta"}},
		{"color without match falls back", services.ShopFilter{Color: "green"}, []string{"kurta", "saree", "tee"}},
		{
			"steps compose",
			services.ShopFilter{Sort: "High to Low", Gender: "men", Status: "on-sale"},
			[]string{"kurta", "tee"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := services.ApplyShopFilter(catalog(), tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, titles(got))
		})
	}
}

func TestApplyShopFilter_DoesNotReorderInput(t *testing.T) {
	in := catalog()
	_, err := services.ApplyShopFilter(in, services.ShopFilter{Sort: "Low to High"})
	require.NoError(t, err)
	assert.Equal(t, []string{"kurta", "saree", "tee"}, titles(in))
}

func TestApplyShopFilter_EmptyCategoryChildren(t *testing.T) {
	in := []models.Product{
		{Title: "dupatta", Category: models.CategoryRef{Name: "Dupattas", Children: []string{}}},
		{Title: "stole", Category: models.CategoryRef{Name: "Dupattas"}},
	}
	got, err := services.ApplyShopFilter(in, services.ShopFilter{Subcategory: "dupattas"})
	require.NoError(t, err)
	assert.Equal(t, []string{"stole"}, titles(got), "an empty children list does not fall back to the category name")
}

func TestApplyShopFilter_Rejects(t *testing.T) {
	_, err := services.ApplyShopFilter(catalog(), services.ShopFilter{Sort: "cheapest"})
	assert.Equal(t, http.StatusBadRequest, apperrors.StatusOf(err))

	_, err = services.ApplyShopFilter(catalog(), services.ShopFilter{MinPrice: ptr(10), MaxPrice: ptr(5)})
	assert.Equal(t, http.StatusBadRequest, apperrors.StatusOf(err))
}

func TestParseShopFilter(t *testing.T) {
	query := map[string]string{"sort": "price_asc", "minPrice": "100", "color": "Red"}
	f, err := services.ParseShopFilter(func(k string) string { return query[k] })
	require.NoError(t, err)
	assert.Equal(t, "price_asc", f.Sort)
	require.NotNil(t, f.MinPrice)
	assert.Equal(t, 100.0, *f.MinPrice)
	assert.Nil(t, f.MaxPrice)
	assert.Equal(t, "Red", f.Color)

	for _, bad := range []map[string]string{
		{"sort": "random"},
		{"minPrice": "abc"},
		{"maxPrice": "-1"},
		{"minPrice": "50", "maxPrice": "10"},
	} {
		_, err := services.ParseShopFilter(func(k string) string { return bad[k] })
		assert.Equal(t, http.StatusBadRequest, apperrors.StatusOf(err), "%v", bad)
	}
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	got, meta := services.Paginate(items, 2, 2)
	assert.Equal(t, []int{3, 4}, got)
	assert.Equal(t, services.Page{Page: 2, Limit: 2, Total: 5, TotalPages: 3, HasMore: true}, meta)

	got, meta = services.Paginate(items, 9, 2)
	assert.Empty(t, got)
	assert.False(t, meta.HasMore)

	_, meta = services.Paginate(items, 0, 1000)
	assert.Equal(t, 1, meta.Page)
	assert.Equal(t, services.MaxPageSize, meta.Limit)

	got, meta = services.Paginate(items, math.MaxInt64/2+2, 2)
	assert.Empty(t, got)
	assert.Equal(t, services.MaxPage, meta.Page)

	page, limit := services.NormalizePage(math.MaxInt, services.MaxPageSize)
	assert.Positive(t, (page-1)*limit)
}
