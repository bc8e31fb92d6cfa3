package repository

import (
	"context"
	"strings"
	"time"

	"github.com/GuruprasadLokhande/Vastrashahi-Project/database"
	"github.com/GuruprasadLokhande/Vastrashahi-Project/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CouponRepository struct {
	collection *mongo.Collection
}

func NewCouponRepository(db *mongo.Database) *CouponRepository {
	return &CouponRepository{collection: db.Collection(database.Coupons)}
}

func (r *CouponRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Coupon, error) {
	return findOne[models.Coupon](ctx, r.collection, bson.M{"_id": id})
}

// FindByCode looks up a coupon by its stored, upper-cased code.
func (r *CouponRepository) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	return findOne[models.Coupon](ctx, r.collection, bson.M{"couponCode": strings.ToUpper(strings.TrimSpace(code))})
}

func (r *CouponRepository) Find(ctx context.Context, activeAt time.Time) ([]models.Coupon, error) {
	filter := bson.M{}
	if !activeAt.IsZero() {
		filter["status"] = models.CouponStatusActive
		filter["endTime"] = bson.M{"$gt": activeAt}
	}
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	return findAll[models.Coupon](ctx, cursor, err)
}

func (r *CouponRepository) Create(ctx context.Context, coupon *models.Coupon) error {
	if coupon.ID.IsZero() {
		coupon.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, coupon)
	return mapErr(err)
}

func (r *CouponRepository) Replace(ctx context.Context, coupon *models.Coupon) error {
	return replaceByID(ctx, r.collection, coupon.ID, coupon)
}

func (r *CouponRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, r.collection, id)
}

// Redeem increments usedCount in one conditional update; a usageLimit of 0 is unlimited.
func (r *CouponRepository) Redeem(ctx context.Context, code string) (bool, error) {
	filter := bson.M{
		"couponCode": strings.ToUpper(strings.TrimSpace(code)),
		"status":     models.CouponStatusActive,
		"$or": bson.A{
			bson.M{"usageLimit": bson.M{"$lte": 0}},
			bson.M{"$expr": bson.M{"$lt": bson.A{"$usedCount", "$usageLimit"}}},
		},
	}
	res, err := r.collection.UpdateOne(ctx, filter, bson.M{
		"$inc": bson.M{"usedCount": 1},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

// Release undoes one Redeem. usedCount never drops below zero.
func (r *CouponRepository) Release(ctx context.Context, code string) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{
		"couponCode": strings.ToUpper(strings.TrimSpace(code)),
		"usedCount":  bson.M{"$gt": 0},
	}, bson.M{
		"$inc": bson.M{"usedCount": -1},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	})
	return err
}
