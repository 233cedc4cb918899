package cart

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CartsCollection = "carts"

// MongoStore keeps one document per cart, keyed by cart id.
type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{coll: db.Collection(CartsCollection)}
}

func (s *MongoStore) Get(ctx context.Context, cartID string) (*Cart, error) {
	var c Cart
	err := s.coll.FindOne(ctx, bson.M{"_id": cartID}).Decode(&c)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find cart: %w", err)
	}
	c.Recalculate()
	return &c, nil
}

func (s *MongoStore) Put(ctx context.Context, c *Cart) error {
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": c.ID}, c, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert cart: %w", err)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, cartID string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": cartID}); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}
