package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/openshelf/openshelf/pkg/models"
	"github.com/openshelf/openshelf/pkg/observability"
	"github.com/openshelf/openshelf/pkg/store"
)

// RoleStore implements store.RoleStore on MongoDB.
type RoleStore struct {
	coll    *mongo.Collection
	metrics *observability.Metrics
}

// NewRoleStore creates a role store on the given database.
func NewRoleStore(db *mongo.Database, metrics *observability.Metrics) *RoleStore {
	return &RoleStore{coll: db.Collection(rolesCollection), metrics: metrics}
}

func (s *RoleStore) FindByName(ctx context.Context, name string) (role *models.Role, err error) {
	start := time.Now()
	defer func() { observe(s.metrics, rolesCollection, "find_by_name", start, err) }()

	var r models.Role
	err = s.coll.FindOne(ctx, bson.M{"name": name}).Decode(&r)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *RoleStore) List(ctx context.Context) (roles []models.Role, err error) {
	start := time.Now()
	defer func() { observe(s.metrics, rolesCollection, "list", start, err) }()

	cursor, err := s.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	roles = []models.Role{}
	if err = cursor.All(ctx, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}

// Upsert inserts or replaces a role by name. Used only by administrative
// seeding at startup.
func (s *RoleStore) Upsert(ctx context.Context, role *models.Role) (err error) {
	start := time.Now()
	defer func() { observe(s.metrics, rolesCollection, "upsert", start, err) }()

	if role.ID == "" {
		role.ID = primitive.NewObjectID().Hex()
	}
	_, err = s.coll.UpdateOne(ctx,
		bson.M{"name": role.Name},
		bson.M{
			"$set":         bson.M{"permissions": role.Permissions},
			"$setOnInsert": bson.M{"_id": role.ID, "name": role.Name},
		},
		options.Update().SetUpsert(true),
	)
	return err
}
