package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pawlume-server/internal/domain/adoptions"
)

type adoptionDoc struct {
	ID             primitive.ObjectID `bson:"_id"`
	PetID          string             `bson:"pet_id"`
	PetName        string             `bson:"pet_name"`
	PetImage       string             `bson:"pet_image,omitempty"`
	RequesterEmail string             `bson:"requester_email"`
	Phone          string             `bson:"phone"`
	Address        string             `bson:"address"`
	Status         string             `bson:"status"`
	CreatedAt      time.Time          `bson:"created_at"`
}

type AdoptionsRepo struct {
	col *mongo.Collection
}

func NewAdoptionsRepo(db *mongo.Database) *AdoptionsRepo {
	return &AdoptionsRepo{col: db.Collection("adoption_requests")}
}

func (r *AdoptionsRepo) Create(ctx context.Context, req adoptions.Request) error {
	oid, err := primitive.ObjectIDFromHex(req.ID)
	if err != nil {
		return err
	}
	_, err = r.col.InsertOne(ctx, adoptionDoc{
		ID:             oid,
		PetID:          req.PetID,
		PetName:        req.PetName,
		PetImage:       req.PetImage,
		RequesterEmail: req.RequesterEmail,
		Phone:          req.Phone,
		Address:        req.Address,
		Status:         string(req.Status),
		CreatedAt:      req.CreatedAt,
	})
	return err
}

func (r *AdoptionsRepo) GetByID(ctx context.Context, id string) (adoptions.Request, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return adoptions.Request{}, adoptions.ErrNotFound
	}

	var doc adoptionDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return adoptions.Request{}, adoptions.ErrNotFound
		}
		return adoptions.Request{}, err
	}
	return toRequest(doc), nil
}

// UpdateStatusIfPending: transición condicional en una sola operación.
func (r *AdoptionsRepo) UpdateStatusIfPending(ctx context.Context, id string, st adoptions.Status) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return adoptions.ErrNotFound
	}

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": oid, "status": string(adoptions.StatusPending)},
		bson.M{"$set": bson.M{"status": string(st)}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}

	n, err := r.col.CountDocuments(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if n == 0 {
		return adoptions.ErrNotFound
	}
	return adoptions.ErrNotPending
}

func (r *AdoptionsRepo) ListByPetIDs(ctx context.Context, petIDs []string) ([]adoptions.Request, error) {
	if len(petIDs) == 0 {
		return []adoptions.Request{}, nil
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"pet_id": bson.M{"$in": petIDs}}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]adoptions.Request, 0)
	for cur.Next(ctx) {
		var doc adoptionDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, toRequest(doc))
	}
	return out, cur.Err()
}

func toRequest(doc adoptionDoc) adoptions.Request {
	return adoptions.Request{
		ID:             doc.ID.Hex(),
		PetID:          doc.PetID,
		PetName:        doc.PetName,
		PetImage:       doc.PetImage,
		RequesterEmail: doc.RequesterEmail,
		Phone:          doc.Phone,
		Address:        doc.Address,
		Status:         adoptions.Status(doc.Status),
		CreatedAt:      doc.CreatedAt,
	}
}
