package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pawlume-server/internal/domain/pets"
)

type petDoc struct {
	ID          primitive.ObjectID `bson:"_id"`
	OwnerEmail  string             `bson:"owner_email"`
	Name        string             `bson:"name"`
	Category    string             `bson:"category"`
	Breed       string             `bson:"breed,omitempty"`
	Age         string             `bson:"age,omitempty"`
	Location    string             `bson:"location,omitempty"`
	Image       string             `bson:"image,omitempty"`
	Description string             `bson:"description,omitempty"`
	Adopted     bool               `bson:"adopted"`
	CreatedAt   time.Time          `bson:"created_at"`
}

type PetsRepo struct {
	col *mongo.Collection
}

func NewPetsRepo(db *mongo.Database) *PetsRepo {
	return &PetsRepo{col: db.Collection("pets")}
}

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	doc, err := fromPet(p)
	if err != nil {
		return err
	}
	_, err = r.col.InsertOne(ctx, doc)
	return err
}

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return pets.Pet{}, pets.ErrNotFound
	}

	var doc petDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return pets.Pet{}, pets.ErrNotFound
		}
		return pets.Pet{}, err
	}
	return toPet(doc), nil
}

func (r *PetsRepo) List(ctx context.Context, f pets.ListFilter) ([]pets.Pet, error) {
	filter := bson.M{}
	if !f.IncludeAdopted {
		filter["adopted"] = false
	}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.Search != "" {
		filter["name"] = bson.M{"$regex": primitive.Regex{Pattern: f.Search, Options: "i"}}
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if f.Skip > 0 {
		opts.SetSkip(f.Skip)
	}
	if f.Limit > 0 {
		opts.SetLimit(f.Limit)
	}

	return r.find(ctx, filter, opts)
}

func (r *PetsRepo) ListByOwner(ctx context.Context, ownerEmail string) ([]pets.Pet, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	return r.find(ctx, bson.M{"owner_email": ownerEmail}, opts)
}

// MarkAdopted: update condicional (adopted=false) en una sola operación.
// Si no matcheó, distingue entre inexistente y ya adoptada.
func (r *PetsRepo) MarkAdopted(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return pets.ErrNotFound
	}

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": oid, "adopted": false},
		bson.M{"$set": bson.M{"adopted": true}},
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
		return pets.ErrNotFound
	}
	return pets.ErrAlreadyAdopted
}

func (r *PetsRepo) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]pets.Pet, error) {
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]pets.Pet, 0)
	for cur.Next(ctx) {
		var doc petDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, toPet(doc))
	}
	return out, cur.Err()
}

func fromPet(p pets.Pet) (petDoc, error) {
	oid, err := primitive.ObjectIDFromHex(p.ID)
	if err != nil {
		return petDoc{}, err
	}
	return petDoc{
		ID:          oid,
		OwnerEmail:  p.OwnerEmail,
		Name:        p.Name,
		Category:    string(p.Category),
		Breed:       p.Breed,
		Age:         p.Age,
		Location:    p.Location,
		Image:       p.Image,
		Description: p.Description,
		Adopted:     p.Adopted,
		CreatedAt:   p.CreatedAt,
	}, nil
}

func toPet(doc petDoc) pets.Pet {
	return pets.Pet{
		ID:          doc.ID.Hex(),
		OwnerEmail:  doc.OwnerEmail,
		Name:        doc.Name,
		Category:    pets.Category(doc.Category),
		Breed:       doc.Breed,
		Age:         doc.Age,
		Location:    doc.Location,
		Image:       doc.Image,
		Description: doc.Description,
		Adopted:     doc.Adopted,
		CreatedAt:   doc.CreatedAt,
	}
}
