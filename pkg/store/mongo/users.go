package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/openshelf/openshelf/pkg/models"
	"github.com/openshelf/openshelf/pkg/observability"
	"github.com/openshelf/openshelf/pkg/store"
)

// UserStore implements store.UserStore on MongoDB.
type UserStore struct {
	coll    *mongo.Collection
	metrics *observability.Metrics
}

// NewUserStore creates a user store on the given database.
func NewUserStore(db *mongo.Database, metrics *observability.Metrics) *UserStore {
	return &UserStore{coll: db.Collection(usersCollection), metrics: metrics}
}

func (s *UserStore) Create(ctx context.Context, user *models.User) (err error) {
	start := time.Now()
	defer func() { observe(s.metrics, usersCollection, "create", start, err) }()

	if user.ID == "" {
		user.ID = primitive.NewObjectID().Hex()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err = s.coll.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return store.ErrDuplicateEmail
	}
	return err
}

func (s *UserStore) FindByID(ctx context.Context, id string) (user *models.User, err error) {
	start := time.Now()
	defer func() { observe(s.metrics, usersCollection, "find_by_id", start, err) }()

	var u models.User
	err = s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (user *models.User, err error) {
	start := time.Now()
	defer func() { observe(s.metrics, usersCollection, "find_by_email", start, err) }()

	var u models.User
	err = s.coll.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UserStore) List(ctx context.Context) (users []models.User, err error) {
	start := time.Now()
	defer func() { observe(s.metrics, usersCollection, "list", start, err) }()

	cursor, err := s.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users = []models.User{}
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *UserStore) Update(ctx context.Context, user *models.User) (err error) {
	start := time.Now()
	defer func() { observe(s.metrics, usersCollection, "update", start, err) }()

	user.UpdatedAt = time.Now()
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$set": bson.M{
		"name":      user.Name,
		"email":     user.Email,
		"role":      user.Role,
		"photoUrl":  user.PhotoURL,
		"updatedAt": user.UpdatedAt,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *UserStore) Delete(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { observe(s.metrics, usersCollection, "delete", start, err) }()

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *UserStore) SetResetToken(ctx context.Context, id, token string, expires time.Time) (err error) {
	start := time.Now()
	defer func() { observe(s.metrics, usersCollection, "set_reset_token", start, err) }()

	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"resetToken":        token,
		"resetTokenExpires": expires,
		"updatedAt":         time.Now(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *UserStore) FindByValidResetToken(ctx context.Context, id, token string, now time.Time) (user *models.User, err error) {
	start := time.Now()
	defer func() { observe(s.metrics, usersCollection, "find_by_reset_token", start, err) }()

	var u models.User
	err = s.coll.FindOne(ctx, bson.M{
		"_id":               id,
		"resetToken":        token,
		"resetTokenExpires": bson.M{"$gt": now},
	}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ReplaceCredential swaps the hash and clears the reset-token fields in a
// single update so a consumed token can never be replayed.
func (s *UserStore) ReplaceCredential(ctx context.Context, id, passwordHash string) (err error) {
	start := time.Now()
	defer func() { observe(s.metrics, usersCollection, "replace_credential", start, err) }()

	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set":   bson.M{"password": passwordHash, "updatedAt": time.Now()},
		"$unset": bson.M{"resetToken": "", "resetTokenExpires": ""},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *UserStore) ClearExpiredResetTokens(ctx context.Context, now time.Time) (n int64, err error) {
	start := time.Now()
	defer func() { observe(s.metrics, usersCollection, "clear_expired_reset_tokens", start, err) }()

	res, err := s.coll.UpdateMany(ctx, bson.M{
		"resetToken":        bson.M{"$exists": true, "$ne": ""},
		"resetTokenExpires": bson.M{"$lte": now},
	}, bson.M{
		"$unset": bson.M{"resetToken": "", "resetTokenExpires": ""},
	})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
