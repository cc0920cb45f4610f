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

const collectionUsers = "users"

// UserStore implements ports.CredentialStore on the users collection. The
// unique email index is what rejects concurrent duplicate sign-ups.
type UserStore struct {
	col *mongo.Collection
}

var _ ports.CredentialStore = (*UserStore)(nil)

func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{col: db.Collection(collectionUsers)}
}

type userDoc struct {
	ID           string    `bson:"_id"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	FullName     string    `bson:"full_name"`
	UserType     string    `bson:"user_type"`
	AvatarURL    string    `bson:"avatar_url,omitempty"`
	Bio          string    `bson:"bio,omitempty"`
	Skills       []string  `bson:"skills,omitempty"`
	Location     string    `bson:"location,omitempty"`
	IsActive     bool      `bson:"is_active"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

func toUserDoc(r *domain.UserRecord) userDoc {
	return userDoc{
		ID:           r.ID,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		FullName:     r.FullName,
		UserType:     string(r.UserType),
		AvatarURL:    r.AvatarURL,
		Bio:          r.Bio,
		Skills:       r.Skills,
		Location:     r.Location,
		IsActive:     r.IsActive,
		CreatedAt:    r.CreatedAt.UTC(),
		UpdatedAt:    r.UpdatedAt.UTC(),
	}
}

func (d userDoc) record() *domain.UserRecord {
	return &domain.UserRecord{
		User: domain.User{
			ID:        d.ID,
			Email:     d.Email,
			FullName:  d.FullName,
			UserType:  domain.UserType(d.UserType),
			AvatarURL: d.AvatarURL,
			Bio:       d.Bio,
			Skills:    d.Skills,
			Location:  d.Location,
			IsActive:  d.IsActive,
			CreatedAt: d.CreatedAt.UTC(),
			UpdatedAt: d.UpdatedAt.UTC(),
		},
		PasswordHash: d.PasswordHash,
	}
}

func (s *UserStore) Insert(ctx context.Context, r *domain.UserRecord) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := s.col.InsertOne(ctx, toUserDoc(r)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *UserStore) FindByEmail(ctx context.Context, email string, activeOnly bool) (*domain.UserRecord, error) {
	filter := bson.M{"email": email}
	if activeOnly {
		filter["is_active"] = true
	}
	return s.findOne(ctx, filter)
}

func (s *UserStore) FindByID(ctx context.Context, id string) (*domain.UserRecord, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *UserStore) findOne(ctx context.Context, filter bson.M) (*domain.UserRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d userDoc
	if err := s.col.FindOne(ctx, filter).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return d.record(), nil
}

// List returns every user, newest first.
func (s *UserStore) List(ctx context.Context) ([]*domain.UserRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := s.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cur.Close(ctx)

	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	out := make([]*domain.UserRecord, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.record())
	}
	return out, nil
}

func (s *UserStore) Update(ctx context.Context, id string, p domain.ProfileUpdate, updatedAt time.Time) (*domain.UserRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := profileSet(p)
	set["updated_at"] = updatedAt.UTC()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var d userDoc
	err := s.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return d.record(), nil
}

func (s *UserStore) SetPasswordHash(ctx context.Context, id, hash string, updatedAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"password_hash": hash,
		"updated_at":    updatedAt.UTC(),
	}})
	if err != nil {
		return fmt.Errorf("set password hash: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// EnsureIndexes creates the unique email index and the listing index.
func (s *UserStore) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}
	_, err := s.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func profileSet(p domain.ProfileUpdate) bson.M {
	set := bson.M{}
	if p.FullName != nil {
		set["full_name"] = *p.FullName
	}
	if p.UserType != nil {
		set["user_type"] = string(*p.UserType)
	}
	if p.AvatarURL != nil {
		set["avatar_url"] = *p.AvatarURL
	}
	if p.Bio != nil {
		set["bio"] = *p.Bio
	}
	if p.Skills != nil {
		set["skills"] = *p.Skills
	}
	if p.Location != nil {
		set["location"] = *p.Location
	}
	if p.IsActive != nil {
		set["is_active"] = *p.IsActive
	}
	return set
}
