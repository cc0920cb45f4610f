package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/writerhub/marketplace/internal/core/domain"
	"github.com/writerhub/marketplace/internal/core/ports"
)

var (
	_ ports.FAQRepository     = (*FAQRepository)(nil)
	_ ports.SettingRepository = (*SettingRepository)(nil)
)

const (
	collectionFAQs     = "faqs"
	collectionSettings = "admin_settings"
)

// FAQRepository implements ports.FAQRepository using MongoDB.
type FAQRepository struct {
	col *mongo.Collection
}

func NewFAQRepository(db *mongo.Database) *FAQRepository {
	return &FAQRepository{col: db.Collection(collectionFAQs)}
}

func (r *FAQRepository) List(ctx context.Context) ([]*domain.FAQ, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	sort := bson.D{{Key: "display_order", Value: 1}, {Key: "created_at", Value: 1}}
	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(sort))
	if err != nil {
		return nil, fmt.Errorf("list faqs: %w", err)
	}
	defer cur.Close(ctx)

	out := []*domain.FAQ{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode faqs: %w", err)
	}
	return out, nil
}

func (r *FAQRepository) Create(ctx context.Context, faq *domain.FAQ) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, faq)
	return err
}

// Update rewrites the editable fields and leaves created_at alone.
func (r *FAQRepository) Update(ctx context.Context, faq *domain.FAQ) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": faq.ID}, bson.M{"$set": bson.M{
		"question":      faq.Question,
		"answer":        faq.Answer,
		"category":      faq.Category,
		"display_order": faq.DisplayOrder,
		"updated_at":    faq.UpdatedAt.UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrFAQNotFound
	}
	return nil
}

func (r *FAQRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrFAQNotFound
	}
	return nil
}

// EnsureIndexes creates the ordering index on the faqs collection.
func (r *FAQRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "display_order", Value: 1}, {Key: "created_at", Value: 1}},
	})
	return err
}

// SettingRepository implements ports.SettingRepository on admin_settings.
type SettingRepository struct {
	col *mongo.Collection
}

func NewSettingRepository(db *mongo.Database) *SettingRepository {
	return &SettingRepository{col: db.Collection(collectionSettings)}
}

func (r *SettingRepository) List(ctx context.Context) ([]*domain.Setting, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer cur.Close(ctx)

	out := []*domain.Setting{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	return out, nil
}

func (r *SettingRepository) Get(ctx context.Context, key string) (*domain.Setting, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var s domain.Setting
	if err := r.col.FindOne(ctx, bson.M{"setting_key": key}).Decode(&s); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSettingNotFound
		}
		return nil, err
	}
	return &s, nil
}

// Upsert sets the value and stamps created_at only when the key is new.
func (r *SettingRepository) Upsert(ctx context.Context, s *domain.Setting) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{
		"$set":         bson.M{"setting_value": s.Value, "updated_at": s.UpdatedAt.UTC()},
		"$setOnInsert": bson.M{"created_at": s.CreatedAt.UTC()},
	}
	_, err := r.col.UpdateOne(ctx, bson.M{"setting_key": s.Key}, update, options.Update().SetUpsert(true))
	return err
}

// EnsureIndexes makes setting_key unique.
func (r *SettingRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "setting_key", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
