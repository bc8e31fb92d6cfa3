package repository

import (
	"context"
	"strings"

	"github.com/GuruprasadLokhande/Vastrashahi-Project/database"
	"github.com/GuruprasadLokhande/Vastrashahi-Project/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type AdminRepository struct {
	collection *mongo.Collection
}

func NewAdminRepository(db *mongo.Database) *AdminRepository {
	return &AdminRepository{collection: db.Collection(database.Admins)}
}

func (r *AdminRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Admin, error) {
	return findOne[models.Admin](ctx, r.collection, bson.M{"_id": id})
}

func (r *AdminRepository) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	return findOne[models.Admin](ctx, r.collection, bson.M{"email": strings.ToLower(strings.TrimSpace(email))})
}

func (r *AdminRepository) FindByConfirmationToken(ctx context.Context, token string) (*models.Admin, error) {
	return findOne[models.Admin](ctx, r.collection, bson.M{"confirmationToken": token})
}

// FindAll lists staff newest first.
func (r *AdminRepository) FindAll(ctx context.Context) ([]models.Admin, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: -1}}))
	return findAll[models.Admin](ctx, cursor, err)
}

func (r *AdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	if admin.ID.IsZero() {
		admin.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, admin)
	return mapErr(err)
}

func (r *AdminRepository) Replace(ctx context.Context, admin *models.Admin) error {
	return replaceByID(ctx, r.collection, admin.ID, admin)
}

func (r *AdminRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, r.collection, id)
}
