package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/GuruprasadLokhande/Vastrashahi-Project/database"
	"github.com/GuruprasadLokhande/Vastrashahi-Project/models"
	awspkg "github.com/GuruprasadLokhande/Vastrashahi-Project/pkg/aws"
	"github.com/GuruprasadLokhande/Vastrashahi-Project/repository"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const exportBatchSize = 500

var deleteProductsCmd = &cobra.Command{
	Use:   "delete-products",
	Short: "Delete every product and empty the category product lists",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withDB(cmd, func(ctx context.Context, db *mongo.Database) error {
			return deleteProducts(ctx, db, cmd.OutOrStdout())
		})
	},
}

func deleteProducts(ctx context.Context, db *mongo.Database, out io.Writer) error {
	res, err := db.Collection(database.Categories).UpdateMany(ctx, bson.M{},
		bson.M{"$set": bson.M{"products": bson.A{}}})
	if err != nil {
		return fmt.Errorf("clear category products: %w", err)
	}
	fmt.Fprintf(out, "Cleared products from %d categories\n", res.ModifiedCount)

	del, err := db.Collection(database.Products).DeleteMany(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("delete products: %w", err)
	}
	fmt.Fprintf(out, "Deleted %d products\n", del.DeletedCount)
	return nil
}

var ddbTable string

var exportDDBCmd = &cobra.Command{
	Use:   "export-ddb",
	Short: "Mirror every product into a DynamoDB table",
	RunE: func(cmd *cobra.Command, _ []string) error {
		awsCfg, err := awspkg.LoadAWSConfig(cmd.Context())
		if err != nil {
			return err
		}
		catalog := repository.NewDynamoCatalog(dynamodb.NewFromConfig(awsCfg), ddbTable)
		return withDB(cmd, func(ctx context.Context, db *mongo.Database) error {
			return exportProducts(ctx, db.Collection(database.Products), catalog, cmd.OutOrStdout())
		})
	},
}

func init() {
	exportDDBCmd.Flags().StringVar(&ddbTable, "table", "Products", "DynamoDB table name")
}

// productPutter is where exported products go; *repository.DynamoCatalog satisfies it.
type productPutter interface {
	Put(ctx context.Context, p *models.Product) error
}

// productCursor is the part of *mongo.Cursor the export reads.
type productCursor interface {
	Next(ctx context.Context) bool
	Decode(val interface{}) error
	Err() error
	Close(ctx context.Context) error
}

func exportProducts(ctx context.Context, coll *mongo.Collection, dst productPutter, out io.Writer) error {
	cur, err := coll.Find(ctx, bson.M{}, options.Find().SetBatchSize(exportBatchSize))
	if err != nil {
		return fmt.Errorf("mongo find: %w", err)
	}
	return copyProducts(ctx, cur, dst, out)
}

// copyProducts writes every product from cur to dst. Bad documents are reported and skipped.
func copyProducts(ctx context.Context, cur productCursor, dst productPutter, out io.Writer) error {
	defer cur.Close(ctx)

	var migrated, failed int
	for cur.Next(ctx) {
		var p models.Product
		if err := cur.Decode(&p); err != nil {
			fmt.Fprintf(out, "decode error: %v\n", err)
			failed++
			continue
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = time.Now().UTC()
		}
		if p.UpdatedAt.IsZero() {
			p.UpdatedAt = p.CreatedAt
		}
		if err := dst.Put(ctx, &p); err != nil {
			fmt.Fprintf(out, "failed to write product %s: %v\n", p.ID.Hex(), err)
			failed++
			continue
		}
		migrated++
		if migrated%exportBatchSize == 0 {
			fmt.Fprintf(out, "exported %d products\n", migrated)
		}
	}
	if err := cur.Err(); err != nil {
		return fmt.Errorf("cursor error: %w", err)
	}
	fmt.Fprintf(out, "Export complete. exported=%d failed=%d\n", migrated, failed)
	return nil
}
