package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pawlume-server/internal/domain/users"
	"pawlume-server/internal/ports/auth"
)

type userDoc struct {
	ID        primitive.ObjectID `bson:"_id"`
	Email     string             `bson:"email"`
	Name      string             `bson:"name,omitempty"`
	Role      string             `bson:"role"`
	CreatedAt time.Time          `bson:"created_at"`
}

type UsersRepo struct {
	col *mongo.Collection
}

func NewUsersRepo(db *mongo.Database) *UsersRepo {
	return &UsersRepo{col: db.Collection("users")}
}

// Upsert por email: si existe conserva rol y created_at, refresca nombre.
func (r *UsersRepo) Upsert(ctx context.Context, u users.User) (users.User, error) {
	oid, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		oid = primitive.NewObjectID()
	}

	update := bson.M{
		"$set": bson.M{"name": u.Name},
		"$setOnInsert": bson.M{
			"_id":        oid,
			"email":      u.Email,
			"role":       string(u.Role),
			"created_at": u.CreatedAt,
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc userDoc
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"email": u.Email}, update, opts).Decode(&doc); err != nil {
		return users.User{}, err
	}
	return toUser(doc), nil
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (users.User, error) {
	var doc userDoc
	if err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return users.User{}, users.ErrNotFound
		}
		return users.User{}, err
	}
	return toUser(doc), nil
}

func toUser(doc userDoc) users.User {
	return users.User{
		ID:        doc.ID.Hex(),
		Email:     doc.Email,
		Name:      doc.Name,
		Role:      auth.Role(doc.Role),
		CreatedAt: doc.CreatedAt,
	}
}
