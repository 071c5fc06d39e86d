package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pawlume-server/internal/domain/campaigns"
)

type campaignDoc struct {
	ID          primitive.ObjectID `bson:"_id"`
	OwnerEmail  string             `bson:"owner_email"`
	Title       string             `bson:"title"`
	Description string             `bson:"description,omitempty"`
	Image       string             `bson:"image,omitempty"`
	MaxAmount   float64            `bson:"max_amount"`
	LastDate    time.Time          `bson:"last_date"`
	Paused      bool               `bson:"paused"`
	Donators    []entryDoc         `bson:"donators"`
	CreatedAt   time.Time          `bson:"created_at"`
}

type entryDoc struct {
	ID         string    `bson:"id"`
	DonorEmail string    `bson:"donor_email"`
	DonorName  string    `bson:"donor_name,omitempty"`
	Amount     float64   `bson:"amount"`
	PaymentID  string    `bson:"payment_id,omitempty"`
	CreatedAt  time.Time `bson:"created_at"`
}

type CampaignsRepo struct {
	col *mongo.Collection
}

func NewCampaignsRepo(db *mongo.Database) *CampaignsRepo {
	return &CampaignsRepo{col: db.Collection("donation_campaigns")}
}

func (r *CampaignsRepo) Create(ctx context.Context, c campaigns.Campaign) error {
	oid, err := primitive.ObjectIDFromHex(c.ID)
	if err != nil {
		return err
	}

	donators := make([]entryDoc, 0, len(c.Donators))
	for _, e := range c.Donators {
		donators = append(donators, fromEntry(e))
	}

	_, err = r.col.InsertOne(ctx, campaignDoc{
		ID:          oid,
		OwnerEmail:  c.OwnerEmail,
		Title:       c.Title,
		Description: c.Description,
		Image:       c.Image,
		MaxAmount:   c.MaxAmount,
		LastDate:    c.LastDate,
		Paused:      c.Paused,
		Donators:    donators,
		CreatedAt:   c.CreatedAt,
	})
	return err
}

func (r *CampaignsRepo) GetByID(ctx context.Context, id string) (campaigns.Campaign, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return campaigns.Campaign{}, campaigns.ErrNotFound
	}

	var doc campaignDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return campaigns.Campaign{}, campaigns.ErrNotFound
		}
		return campaigns.Campaign{}, err
	}
	return toCampaign(doc), nil
}

func (r *CampaignsRepo) List(ctx context.Context) ([]campaigns.Campaign, error) {
	return r.find(ctx, bson.M{})
}

func (r *CampaignsRepo) ListByOwner(ctx context.Context, ownerEmail string) ([]campaigns.Campaign, error) {
	return r.find(ctx, bson.M{"owner_email": ownerEmail})
}

func (r *CampaignsRepo) SetPaused(ctx context.Context, id string, paused bool) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return campaigns.ErrNotFound
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"paused": paused}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return campaigns.ErrNotFound
	}
	return nil
}

// PushEntry usa $push condicional: con PaymentID el filtro exige que ese id
// no esté ya en el ledger, así el replay de una confirmación no matchea.
func (r *CampaignsRepo) PushEntry(ctx context.Context, campaignID string, e campaigns.Entry) error {
	oid, err := primitive.ObjectIDFromHex(campaignID)
	if err != nil {
		return campaigns.ErrNotFound
	}

	filter := bson.M{"_id": oid}
	if e.PaymentID != "" {
		filter["donators"] = bson.M{"$not": bson.M{"$elemMatch": bson.M{"payment_id": e.PaymentID}}}
	}

	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$push": bson.M{"donators": fromEntry(e)}})
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
		return campaigns.ErrNotFound
	}
	return campaigns.ErrDuplicatePayment
}

// PullEntriesByEmail hace el $pull y devuelve el documento ANTERIOR para
// contar cuántas entradas salieron, todo en una sola operación.
func (r *CampaignsRepo) PullEntriesByEmail(ctx context.Context, campaignID, donorEmail string) (int, error) {
	oid, err := primitive.ObjectIDFromHex(campaignID)
	if err != nil {
		return 0, campaigns.ErrNotFound
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.Before)

	var before campaignDoc
	err = r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$pull": bson.M{"donators": bson.M{"donor_email": donorEmail}}},
		opts,
	).Decode(&before)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, campaigns.ErrNotFound
		}
		return 0, err
	}

	removed := 0
	for _, e := range before.Donators {
		if e.DonorEmail == donorEmail {
			removed++
		}
	}
	return removed, nil
}

func (r *CampaignsRepo) ListByDonor(ctx context.Context, donorEmail string) ([]campaigns.Campaign, error) {
	return r.find(ctx, bson.M{"donators.donor_email": donorEmail})
}

func (r *CampaignsRepo) find(ctx context.Context, filter bson.M) ([]campaigns.Campaign, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]campaigns.Campaign, 0)
	for cur.Next(ctx) {
		var doc campaignDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, toCampaign(doc))
	}
	return out, cur.Err()
}

func fromEntry(e campaigns.Entry) entryDoc {
	return entryDoc{
		ID:         e.ID,
		DonorEmail: e.DonorEmail,
		DonorName:  e.DonorName,
		Amount:     e.Amount,
		PaymentID:  e.PaymentID,
		CreatedAt:  e.CreatedAt,
	}
}

func toCampaign(doc campaignDoc) campaigns.Campaign {
	donators := make([]campaigns.Entry, 0, len(doc.Donators))
	for _, e := range doc.Donators {
		donators = append(donators, campaigns.Entry{
			ID:         e.ID,
			DonorEmail: e.DonorEmail,
			DonorName:  e.DonorName,
			Amount:     e.Amount,
			PaymentID:  e.PaymentID,
			CreatedAt:  e.CreatedAt,
		})
	}
	return campaigns.Campaign{
		ID:          doc.ID.Hex(),
		OwnerEmail:  doc.OwnerEmail,
		Title:       doc.Title,
		Description: doc.Description,
		Image:       doc.Image,
		MaxAmount:   doc.MaxAmount,
		LastDate:    doc.LastDate,
		Paused:      doc.Paused,
		Donators:    donators,
		CreatedAt:   doc.CreatedAt,
	}
}
