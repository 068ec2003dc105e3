package repository

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/petslib-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// containsRegex matches s anywhere in a field, ignoring case, with regex
// metacharacters in s taken literally
func containsRegex(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

// prefixRegex matches fields starting with s, ignoring case
func prefixRegex(s string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(s), Options: "i"}
}

// setDocument turns patch changes into a $set document stamped with now
func setDocument(changes []models.Change, now time.Time) bson.M {
	set := bson.M{"updated_at": now}
	for _, ch := range changes {
		set[ch.Field] = ch.Value
	}
	return set
}

// findOne decodes the first match into a new T, returning nil when nothing
// matches
func findOne[T any](ctx context.Context, coll *mongo.Collection, filter interface{}) (*T, error) {
	var doc T
	err := coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// findAll decodes every match into a slice that is never nil
func findAll[T any](ctx context.Context, coll *mongo.Collection, filter interface{}, opts ...*options.FindOptions) ([]*T, error) {
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	out := []*T{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// updateOne applies update and returns the document after the write, or
// nil when nothing matched and upsert is false
func updateOne[T any](ctx context.Context, coll *mongo.Collection, filter, update interface{}, upsert bool) (*T, error) {
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetUpsert(upsert)

	var doc T
	err := coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, translateErr(err)
	}
	return &doc, nil
}

// distinctStrings reads one string field from up to limit documents
func distinctStrings(ctx context.Context, coll *mongo.Collection, field string, filter interface{}, limit int) ([]string, error) {
	opts := options.Find().
		SetProjection(bson.M{field: 1, "_id": 0}).
		SetSort(bson.D{{Key: field, Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := []string{}
	for cursor.Next(ctx) {
		if v, ok := cursor.Current.Lookup(field).StringValueOK(); ok {
			out = append(out, v)
		}
	}
	return out, cursor.Err()
}

func toDocuments[T any](items []*T) []interface{} {
	docs := make([]interface{}, len(items))
	for i, item := range items {
		docs[i] = item
	}
	return docs
}
