package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/GuruprasadLokhande/Vastrashahi-Project/models"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// DynamoPutter is the slice of the DynamoDB client the catalog mirror writes through.
type DynamoPutter interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// DynamoCatalog mirrors products into a DynamoDB table keyed by `product_id`.
type DynamoCatalog struct {
	client DynamoPutter
	table  string
}

func NewDynamoCatalog(client DynamoPutter, table string) *DynamoCatalog {
	return &DynamoCatalog{client: client, table: table}
}

type ddbProduct struct {
	ProductID string   `dynamodbav:"product_id"`
	SKU       string   `dynamodbav:"sku,omitempty"`
	Title     string   `dynamodbav:"title"`
	Slug      string   `dynamodbav:"slug,omitempty"`
	Price     float64  `dynamodbav:"price"`
	Discount  float64  `dynamodbav:"discount"`
	Quantity  int      `dynamodbav:"quantity"`
	Status    string   `dynamodbav:"status"`
	Brand     string   `dynamodbav:"brand,omitempty"`
	Category  string   `dynamodbav:"category,omitempty"`
	Parent    string   `dynamodbav:"parent,omitempty"`
	Children  string   `dynamodbav:"children,omitempty"`
	Gender    string   `dynamodbav:"gender,omitempty"`
	Images    []string `dynamodbav:"images,omitempty"`
	Colors    []string `dynamodbav:"colors,omitempty"`
	Featured  bool     `dynamodbav:"featured"`
	SellCount int      `dynamodbav:"sell_count"`
	CreatedAt string   `dynamodbav:"created_at"`
	UpdatedAt string   `dynamodbav:"updated_at"`
}

func toDDBProduct(p *models.Product) ddbProduct {
	out := ddbProduct{
		ProductID: p.ID.Hex(),
		SKU:       p.SKU,
		Title:     p.Title,
		Slug:      p.Slug,
		Price:     p.Price,
		Discount:  p.Discount,
		Quantity:  p.Quantity,
		Status:    p.Status,
		Brand:     p.Brand.Name,
		Category:  p.Category.Name,
		Parent:    p.Parent,
		Children:  p.Children,
		Gender:    p.Gender,
		Featured:  p.Featured,
		SellCount: p.SellCount,
		CreatedAt: p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: p.UpdatedAt.UTC().Format(time.RFC3339),
	}
	seen := map[string]bool{}
	for _, img := range p.ImageURLs {
		out.Images = append(out.Images, img.Img)
		if img.Color != nil && img.Color.Name != "" && !seen[img.Color.Name] {
			seen[img.Color.Name] = true
			out.Colors = append(out.Colors, img.Color.Name)
		}
	}
	return out
}

// Put writes one product, overwriting any previous mirror of it.
func (d *DynamoCatalog) Put(ctx context.Context, p *models.Product) error {
	item, err := attributevalue.MarshalMap(toDDBProduct(p))
	if err != nil {
		return fmt.Errorf("marshal product: %w", err)
	}
	if _, err := d.client.PutItem(ctx, &dynamodb.PutItemInput{TableName: &d.table, Item: item}); err != nil {
		return fmt.Errorf("dynamodb PutItem failed: %w", err)
	}
	return nil
}
