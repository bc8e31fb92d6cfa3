package repository

import (
	"context"
	"time"

	"github.com/GuruprasadLokhande/Vastrashahi-Project/database"
	"github.com/GuruprasadLokhande/Vastrashahi-Project/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ProductRepository struct {
	collection *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{collection: db.Collection(database.Products)}
}

func (r *ProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	return findOne[models.Product](ctx, r.collection, bson.M{"_id": id})
}

func productFilter(q ProductQuery) bson.M {
	filter := bson.M{}
	if len(q.IDs) > 0 {
		filter["_id"] = bson.M{"$in": q.IDs}
	}
	if !q.ExcludeID.IsZero() {
		filter["_id"] = bson.M{"$ne": q.ExcludeID}
	}
	if q.CategoryName != "" {
		filter["category.name"] = q.CategoryName
	}
	if q.ProductType != "" {
		filter["productType"] = q.ProductType
	}
	if q.Featured {
		filter["featured"] = true
	}
	if !q.OfferAfter.IsZero() {
		filter["offerDate.endDate"] = bson.M{"$gt": q.OfferAfter}
	}
	if q.StockOut {
		filter["quantity"] = bson.M{"$lte": 0}
	} else if q.QuantityBelow > 0 {
		filter["quantity"] = bson.M{"$lt": q.QuantityBelow}
	}
	return filter
}

func (r *ProductRepository) Find(ctx context.Context, q ProductQuery) ([]models.Product, error) {
	opts := options.Find()
	if q.SortBy != "" {
		opts.SetSort(bson.D{{Key: q.SortBy, Value: -1}})
	}
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}
	if q.Skip > 0 {
		opts.SetSkip(int64(q.Skip))
	}
	cursor, err := r.collection.Find(ctx, productFilter(q), opts)
	return findAll[models.Product](ctx, cursor, err)
}

func (r *ProductRepository) Count(ctx context.Context, q ProductQuery) (int64, error) {
	return r.collection.CountDocuments(ctx, productFilter(q))
}

func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, product)
	return mapErr(err)
}

func (r *ProductRepository) CreateMany(ctx context.Context, products []models.Product) error {
	if len(products) == 0 {
		return nil
	}
	for i := range products {
		if products[i].ID.IsZero() {
			products[i].ID = primitive.NewObjectID()
		}
	}
	_, err := r.collection.InsertMany(ctx, toDocs(products))
	return mapErr(err)
}

func (r *ProductRepository) Replace(ctx context.Context, product *models.Product) error {
	return replaceByID(ctx, r.collection, product.ID, product)
}

func (r *ProductRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, r.collection, id)
}

// DecrementStock is a single conditional update, so concurrent orders can never oversell.
func (r *ProductRepository) DecrementStock(ctx context.Context, id primitive.ObjectID, qty int) (bool, error) {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "quantity": bson.M{"$gte": qty}},
		bson.M{
			"$inc": bson.M{"quantity": -qty, "sellCount": qty},
			"$set": bson.M{"updatedAt": time.Now().UTC()},
		},
	)
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 0 {
		return false, nil
	}
	_, err = r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "quantity": bson.M{"$lte": 0}, "status": models.ProductStatusInStock},
		bson.M{"$set": bson.M{"status": models.ProductStatusOutOfStock}},
	)
	return true, err
}

func (r *ProductRepository) RestoreStock(ctx context.Context, id primitive.ObjectID, qty int) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$inc": bson.M{"quantity": qty, "sellCount": -qty},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	_, err = r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "quantity": bson.M{"$gt": 0}, "status": models.ProductStatusOutOfStock},
		bson.M{"$set": bson.M{"status": models.ProductStatusInStock}},
	)
	return err
}

func (r *ProductRepository) AddReview(ctx context.Context, productID, reviewID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": productID}, bson.M{"$addToSet": bson.M{"reviews": reviewID}})
	return err
}

func (r *ProductRepository) RemoveReview(ctx context.Context, productID, reviewID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": productID}, bson.M{"$pull": bson.M{"reviews": reviewID}})
	return err
}

// Popular orders products by how many reviews they carry.
func (r *ProductRepository) Popular(ctx context.Context, limit int) ([]models.Product, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$addFields", Value: bson.M{"reviewCount": bson.M{"$size": bson.M{"$ifNull": bson.A{"$reviews", bson.A{}}}}}}},
		{{Key: "$sort", Value: bson.D{{Key: "reviewCount", Value: -1}, {Key: "createdAt", Value: -1}}}},
		{{Key: "$limit", Value: limit}},
		{{Key: "$project", Value: bson.M{"reviewCount": 0}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	return findAll[models.Product](ctx, cursor, err)
}

// TopRated orders reviewed products by their mean rating.
func (r *ProductRepository) TopRated(ctx context.Context, limit int) ([]models.Product, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"reviews.0": bson.M{"$exists": true}}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         database.Reviews,
			"localField":   "reviews",
			"foreignField": "_id",
			"as":           "reviewDocs",
		}}},
		{{Key: "$addFields", Value: bson.M{"avgRating": bson.M{"$avg": "$reviewDocs.rating"}}}},
		{{Key: "$sort", Value: bson.D{{Key: "avgRating", Value: -1}}}},
		{{Key: "$limit", Value: limit}},
		{{Key: "$project", Value: bson.M{"reviewDocs": 0, "avgRating": 0}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	return findAll[models.Product](ctx, cursor, err)
}
