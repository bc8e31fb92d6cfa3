package repository

import (
	"context"

	"github.com/GuruprasadLokhande/Vastrashahi-Project/database"
	"github.com/GuruprasadLokhande/Vastrashahi-Project/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type BrandRepository struct {
	collection *mongo.Collection
}

func NewBrandRepository(db *mongo.Database) *BrandRepository {
	return &BrandRepository{collection: db.Collection(database.Brands)}
}

func (r *BrandRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Brand, error) {
	return findOne[models.Brand](ctx, r.collection, bson.M{"_id": id})
}

func (r *BrandRepository) FindByName(ctx context.Context, name string) (*models.Brand, error) {
	return findOne[models.Brand](ctx, r.collection, bson.M{"name": exactInsensitive(name)})
}

func (r *BrandRepository) Find(ctx context.Context, status string) ([]models.Brand, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	cursor, err := r.collection.Find(ctx, filter)
	return findAll[models.Brand](ctx, cursor, err)
}

func (r *BrandRepository) Create(ctx context.Context, brand *models.Brand) error {
	if brand.ID.IsZero() {
		brand.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, brand)
	return mapErr(err)
}

func (r *BrandRepository) Replace(ctx context.Context, brand *models.Brand) error {
	return replaceByID(ctx, r.collection, brand.ID, brand)
}

func (r *BrandRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, r.collection, id)
}

func (r *BrandRepository) AddProduct(ctx context.Context, brandID, productID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": brandID}, bson.M{"$addToSet": bson.M{"products": productID}})
	return err
}

func (r *BrandRepository) RemoveProduct(ctx context.Context, brandID, productID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": brandID}, bson.M{"$pull": bson.M{"products": productID}})
	return err
}
