package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bitez/platform/internal/core/domain"
	"github.com/bitez/platform/internal/core/ports"
)

const profileCollection = "user_profiles"

// ProfileRepository implements ports.ProfileRepository using MongoDB.
type ProfileRepository struct {
	col *mongo.Collection
	now func() time.Time
}

func NewProfileRepository(db *mongo.Database) *ProfileRepository {
	return &ProfileRepository{col: db.Collection(profileCollection), now: time.Now}
}

var _ ports.ProfileRepository = (*ProfileRepository)(nil)

type profileDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	UserID      string             `bson:"user_id"`
	FirstName   *string            `bson:"first_name,omitempty"`
	LastName    *string            `bson:"last_name,omitempty"`
	PhoneNumber *string            `bson:"phone_number,omitempty"`
	AvatarURL   *string            `bson:"avatar_url,omitempty"`
	Bio         *string            `bson:"bio,omitempty"`
	DateOfBirth *time.Time         `bson:"date_of_birth,omitempty"`
	Preferences bson.M             `bson:"preferences"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func newProfileDoc(p *domain.UserProfile) profileDoc {
	prefs := bson.M{}
	for k, v := range p.Preferences {
		prefs[k] = v
	}
	return profileDoc{
		UserID:      p.UserID.String(),
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		PhoneNumber: p.PhoneNumber,
		AvatarURL:   p.AvatarURL,
		Bio:         p.Bio,
		DateOfBirth: p.DateOfBirth,
		Preferences: prefs,
		CreatedAt:   p.CreatedAt.UTC(),
		UpdatedAt:   p.UpdatedAt.UTC(),
	}
}

func (d profileDoc) toDomain() (*domain.UserProfile, error) {
	userID, err := uuid.Parse(d.UserID)
	if err != nil {
		return nil, fmt.Errorf("decode profile user_id: %w", err)
	}
	prefs := make(map[string]any, len(d.Preferences))
	for k, v := range d.Preferences {
		prefs[k] = v
	}
	return &domain.UserProfile{
		ID:          d.ID.Hex(),
		UserID:      userID,
		FirstName:   d.FirstName,
		LastName:    d.LastName,
		PhoneNumber: d.PhoneNumber,
		AvatarURL:   d.AvatarURL,
		Bio:         d.Bio,
		DateOfBirth: d.DateOfBirth,
		Preferences: prefs,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}, nil
}

func (r *ProfileRepository) Create(ctx context.Context, p *domain.UserProfile) error {
	res, err := r.col.InsertOne(ctx, newProfileDoc(p))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrProfileExists
		}
		return fmt.Errorf("insert profile: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = oid.Hex()
	}
	return nil
}

func (r *ProfileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.UserProfile, error) {
	var d profileDoc
	err := r.col.FindOne(ctx, bson.M{"user_id": userID.String()}).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return d.toDomain()
}

// Update sets the non-nil fields of patch and returns the updated document.
func (r *ProfileRepository) Update(ctx context.Context, userID uuid.UUID, patch ports.ProfilePatch) (*domain.UserProfile, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var d profileDoc
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"user_id": userID.String()},
		bson.M{"$set": profileSet(patch, r.now().UTC())},
		opts,
	).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return d.toDomain()
}

func (r *ProfileRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"user_id": userID.String()})
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

// EnsureIndexes creates the unique user_id index.
func (r *ProfileRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func profileSet(patch ports.ProfilePatch, now time.Time) bson.M {
	set := bson.M{"updated_at": now}
	for field, v := range map[string]*string{
		"first_name":   patch.FirstName,
		"last_name":    patch.LastName,
		"phone_number": patch.PhoneNumber,
		"avatar_url":   patch.AvatarURL,
		"bio":          patch.Bio,
	} {
		if v != nil {
			set[field] = *v
		}
	}
	if patch.DateOfBirth != nil {
		set["date_of_birth"] = patch.DateOfBirth.UTC()
	}
	if patch.Preferences != nil {
		set["preferences"] = bson.M(patch.Preferences)
	}
	return set
}
