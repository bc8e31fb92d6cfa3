package repository

import (
	"context"

	"github.com/GuruprasadLokhande/Vastrashahi-Project/database"
	"github.com/GuruprasadLokhande/Vastrashahi-Project/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type CategoryRepository struct {
	collection *mongo.Collection
}

func NewCategoryRepository(db *mongo.Database) *CategoryRepository {
	return &CategoryRepository{collection: db.Collection(database.Categories)}
}

func (r *CategoryRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	return findOne[models.Category](ctx, r.collection, bson.M{"_id": id})
}

// FindByParent matches the parent name case-insensitively.
func (r *CategoryRepository) FindByParent(ctx context.Context, parent string) (*models.Category, error) {
	return findOne[models.Category](ctx, r.collection, bson.M{"parent": exactInsensitive(parent)})
}

func (r *CategoryRepository) Find(ctx context.Context, q CategoryQuery) ([]models.Category, error) {
	filter := bson.M{}
	if q.Status != "" {
		filter["status"] = q.Status
	}
	if q.ProductType != "" {
		filter["productType"] = q.ProductType
	}
	cursor, err := r.collection.Find(ctx, filter)
	return findAll[models.Category](ctx, cursor, err)
}

func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	if category.ID.IsZero() {
		category.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, category)
	return mapErr(err)
}

func (r *CategoryRepository) CreateMany(ctx context.Context, categories []models.Category) error {
	if len(categories) == 0 {
		return nil
	}
	for i := range categories {
		if categories[i].ID.IsZero() {
			categories[i].ID = primitive.NewObjectID()
		}
	}
	_, err := r.collection.InsertMany(ctx, toDocs(categories))
	return mapErr(err)
}

func (r *CategoryRepository) Replace(ctx context.Context, category *models.Category) error {
	return replaceByID(ctx, r.collection, category.ID, category)
}

func (r *CategoryRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, r.collection, id)
}

func (r *CategoryRepository) AddProduct(ctx context.Context, categoryID, productID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": categoryID}, bson.M{"$addToSet": bson.M{"products": productID}})
	return err
}

func (r *CategoryRepository) RemoveProduct(ctx context.Context, categoryID, productID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": categoryID}, bson.M{"$pull": bson.M{"products": productID}})
	return err
}
