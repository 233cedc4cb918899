package catalog

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const ProductsCollection = "products"

type MongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(ProductsCollection)}
}

var newestFirst = options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}})

func (r *MongoRepository) List(ctx context.Context, f Filter) ([]Product, error) {
	filter := bson.M{}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.InStock != nil {
		filter["inStock"] = *f.InStock
	}
	return r.find(ctx, filter)
}

func (r *MongoRepository) Get(ctx context.Context, id string) (Product, error) {
	var p Product
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Product{}, ErrNotFound
		}
		return Product{}, err
	}
	return p, nil
}

func (r *MongoRepository) Categories(ctx context.Context) ([]string, error) {
	values, err := r.coll.Distinct(ctx, "category", bson.M{"category": bson.M{"$ne": ""}})
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *MongoRepository) Search(ctx context.Context, q Query) ([]Product, error) {
	// The text is matched literally; user input never becomes a pattern.
	re := primitive.Regex{Pattern: regexp.QuoteMeta(q.Text), Options: "i"}
	filter := bson.M{"$or": bson.A{
		bson.M{"name": re},
		bson.M{"description": re},
		bson.M{"category": re},
	}}

	price := bson.M{}
	if q.MinPrice != nil {
		price["$gte"] = *q.MinPrice
	}
	if q.MaxPrice != nil {
		price["$lte"] = *q.MaxPrice
	}
	if len(price) > 0 {
		filter["price"] = price
	}
	return r.find(ctx, filter)
}

func (r *MongoRepository) ReplaceAll(ctx context.Context, products []Product) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("delete products: %w", err)
	}
	if len(products) == 0 {
		return nil
	}
	docs := make([]any, len(products))
	for i, p := range products {
		docs[i] = p
	}
	if _, err := r.coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert products: %w", err)
	}
	return nil
}

func (r *MongoRepository) find(ctx context.Context, filter bson.M) ([]Product, error) {
	cur, err := r.coll.Find(ctx, filter, newestFirst)
	if err != nil {
		return nil, err
	}
	out := []Product{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
