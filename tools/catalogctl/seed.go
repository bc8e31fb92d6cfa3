package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/GuruprasadLokhande/Vastrashahi-Project/database"
	"github.com/GuruprasadLokhande/Vastrashahi-Project/services"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"gopkg.in/yaml.v3"
)

// seedOrder is the import order; products reference categories, orders and reviews reference users.
var seedOrder = []string{
	database.Categories,
	database.Products,
	database.Coupons,
	database.Orders,
	database.Users,
	database.Reviews,
	database.Admins,
}

// idFields hold ObjectId references in seed documents.
var idFields = map[string]bool{
	"_id": true, "id": true, "user": true, "userId": true, "productId": true,
	"products": true, "reviews": true,
}

var seedDir string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Replace collections with the documents in --dir",
	Long: `Clears and re-imports categories, products, coupons, orders, users, reviews and admins.

Each collection is read from <dir>/<collection>.json, .yaml or .yml; missing files are skipped.
Plain-text passwords on users and admins are bcrypt-hashed before insert.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withDB(cmd, func(ctx context.Context, db *mongo.Database) error {
			return runSeed(ctx, db, seedDir, cmd.OutOrStdout())
		})
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedDir, "dir", "./seed", "directory holding the seed files")
}

func runSeed(ctx context.Context, db *mongo.Database, dir string, out io.Writer) error {
	for _, name := range seedOrder {
		docs, path, err := loadSeedFile(dir, name)
		if err != nil {
			return err
		}
		if path == "" {
			fmt.Fprintf(out, "skipping %s: no seed file\n", name)
			continue
		}
		if err := prepareDocs(name, docs); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		coll := db.Collection(name)
		if _, err := coll.DeleteMany(ctx, bson.M{}); err != nil {
			return fmt.Errorf("clear %s: %w", name, err)
		}
		if len(docs) > 0 {
			batch := make([]interface{}, len(docs))
			for i, d := range docs {
				batch[i] = d
			}
			if _, err := coll.InsertMany(ctx, batch); err != nil {
				if mongo.IsDuplicateKeyError(err) {
					return fmt.Errorf("import %s: %w (duplicate key, check for repeated ids in %s)", name, err, path)
				}
				return fmt.Errorf("import %s: %w", name, err)
			}
		}
		fmt.Fprintf(out, "%d %s imported successfully\n", len(docs), name)
	}
	fmt.Fprintln(out, "All data imported successfully")
	return nil
}

// loadSeedFile reads the first of name.json, name.yaml and name.yml found in dir.
// An empty path means none exist.
func loadSeedFile(dir, name string) ([]map[string]interface{}, string, error) {
	for _, ext := range []string{".json", ".yaml", ".yml"} {
		path := filepath.Join(dir, name+ext)
		raw, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, "", err
		}

		var docs []map[string]interface{}
		if ext == ".json" {
			err = json.Unmarshal(raw, &docs)
		} else {
			err = yaml.Unmarshal(raw, &docs)
		}
		if err != nil {
			return nil, "", fmt.Errorf("parse %s: %w", path, err)
		}
		return docs, path, nil
	}
	return nil, "", nil
}

// prepareDocs converts ids and timestamps to BSON types and hashes account passwords.
func prepareDocs(collection string, docs []map[string]interface{}) error {
	accounts := collection == database.Users || collection == database.Admins
	for i, doc := range docs {
		normalizeDoc(doc)
		if !accounts {
			continue
		}
		pw, ok := doc["password"].(string)
		if !ok || pw == "" || services.IsHashed(pw) {
			continue
		}
		hash, err := services.HashPassword(pw)
		if err != nil {
			return fmt.Errorf("document %d: %w", i, err)
		}
		doc["password"] = hash
	}
	return nil
}

func normalizeDoc(doc map[string]interface{}) {
	for key, val := range doc {
		doc[key] = normalizeValue(key, val)
	}
}

func normalizeValue(key string, val interface{}) interface{} {
	switch v := val.(type) {
	case string:
		if idFields[key] {
			if oid, err := primitive.ObjectIDFromHex(v); err == nil {
				return oid
			}
		}
		if isTimeField(key) {
			if t, err := time.Parse(time.RFC3339, v); err == nil {
				return t
			}
		}
		return v
	case map[string]interface{}:
		normalizeDoc(v)
		return v
	case []interface{}:
		for i := range v {
			v[i] = normalizeValue(key, v[i])
		}
		return v
	default:
		return v
	}
}

func isTimeField(key string) bool {
	for _, suffix := range []string{"At", "Time", "Date", "Expires"} {
		if strings.HasSuffix(key, suffix) {
			return true
		}
	}
	return false
}
