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

// invoiceStart is the first invoice number handed out.
const invoiceStart = 1000

type OrderRepository struct {
	collection *mongo.Collection
	counters   *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{
		collection: db.Collection(database.Orders),
		counters:   db.Collection(database.Counters),
	}
}

func orderFilter(q OrderQuery) bson.M {
	filter := bson.M{}
	if !q.User.IsZero() {
		filter["user"] = q.User
	}
	if q.Status != "" {
		filter["status"] = q.Status
	} else if q.ExcludeStatus != "" {
		filter["status"] = bson.M{"$ne": q.ExcludeStatus}
	}
	if !q.Since.IsZero() {
		filter["createdAt"] = bson.M{"$gte": q.Since}
	}
	return filter
}

func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, order)
	return mapErr(err)
}

func (r *OrderRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	return findOne[models.Order](ctx, r.collection, bson.M{"_id": id})
}

func (r *OrderRepository) Find(ctx context.Context, q OrderQuery, skip, limit int) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if skip > 0 {
		opts.SetSkip(int64(skip))
	}
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := r.collection.Find(ctx, orderFilter(q), opts)
	return findAll[models.Order](ctx, cursor, err)
}

func (r *OrderRepository) Count(ctx context.Context, q OrderQuery) (int64, error) {
	return r.collection.CountDocuments(ctx, orderFilter(q))
}

func (r *OrderRepository) SumTotal(ctx context.Context, q OrderQuery) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: orderFilter(q)}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$totalAmount"}}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	rows, err := findAll[struct {
		Total float64 `bson:"total"`
	}](ctx, cursor, err)
	if err != nil || len(rows) == 0 {
		return 0, err
	}
	return rows[0].Total, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"status": status, "updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *OrderRepository) MarkStockRestored(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "stockRestored": bson.M{"$ne": true}},
		bson.M{"$set": bson.M{"stockRestored": true}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

// NextInvoice increments the shared invoice counter, seeding it on first use.
func (r *OrderRepository) NextInvoice(ctx context.Context) (int64, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{"seq": bson.M{"$add": bson.A{bson.M{"$ifNull": bson.A{"$seq", invoiceStart - 1}}, 1}}}}},
	}
	var counter models.Counter
	if err := r.counters.FindOneAndUpdate(ctx, bson.M{"_id": "invoice"}, update, opts).Decode(&counter); err != nil {
		return 0, err
	}
	return counter.Seq, nil
}

func (r *OrderRepository) HasPurchased(ctx context.Context, userID, productID primitive.ObjectID) (bool, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"user": userID, "cart._id": productID}, options.Count().SetLimit(1))
	return n > 0, err
}
