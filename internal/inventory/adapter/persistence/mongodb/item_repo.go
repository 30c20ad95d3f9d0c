package mongodb

import (
	"context"
	"fmt"
	"time"

	"stocktrack/internal/inventory/domain/model"
	apperrors "stocktrack/internal/shared/errors"
	"stocktrack/internal/shared/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// inventoryDocument is the stored shape of one inventory line item.
type inventoryDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	OwnerID   string             `bson:"ownerID"`
	Name      string             `bson:"name"`
	Path      string             `bson:"path"`
	Price     float64            `bson:"price"`
	Quantity  int64              `bson:"quantity"`
	Category  string             `bson:"category"`
	Unit      string             `bson:"unit"`
	ImageURL  string             `bson:"imageUrl,omitempty"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

// MongoItemStore implements the ItemStore interface over a single
// inventory collection keyed by {ownerID, name}.
type MongoItemStore struct {
	collection *mongo.Collection
	log        logger.Logger
}

// NewMongoItemStore creates the store and ensures its indexes.
func NewMongoItemStore(db *mongo.Database, log logger.Logger) (*MongoItemStore, error) {
	store := &MongoItemStore{
		collection: db.Collection("inventory"),
		log:        log.WithComponent("inventory-store"),
	}

	// One document per {owner, name}: the item name is the key.
	keyIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "ownerID", Value: 1}, {Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := store.collection.Indexes().CreateOne(context.Background(), keyIndex); err != nil {
		return nil, err
	}

	return store, nil
}

// documentPath renders the canonical users/{uid}/inventory/{name} address.
func documentPath(ownerID, name string) string {
	return fmt.Sprintf("users/%s/inventory/%s", ownerID, name)
}

// ListAll returns every item in the owner's collection in retrieval
// order. Documents that fail projection are dropped with a warning
// rather than failing the whole reload.
func (s *MongoItemStore) ListAll(ctx context.Context, ownerID string) ([]model.InventoryItem, error) {
	cursor, err := s.collection.Find(ctx, bson.M{"ownerID": ownerID})
	if err != nil {
		s.log.Errorf("ListAll failed for owner %s: %v", ownerID, err)
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorageUnavailable, err)
	}
	defer cursor.Close(ctx)

	items := make([]model.InventoryItem, 0)
	for cursor.Next(ctx) {
		var doc inventoryDocument
		if err := cursor.Decode(&doc); err != nil {
			s.log.Warnf("Dropping undecodable inventory document for owner %s: %v", ownerID, err)
			continue
		}
		item := projectItem(&doc)
		if err := item.Validate(); err != nil {
			s.log.Warnf("Dropping invalid inventory document %q for owner %s: %v", doc.Name, ownerID, err)
			continue
		}
		items = append(items, item)
	}
	if err := cursor.Err(); err != nil {
		s.log.Errorf("ListAll cursor failed for owner %s: %v", ownerID, err)
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorageUnavailable, err)
	}

	return items, nil
}

// Get returns the item keyed by name, or (nil, nil) when absent.
func (s *MongoItemStore) Get(ctx context.Context, ownerID, name string) (*model.InventoryItem, error) {
	var doc inventoryDocument
	err := s.collection.FindOne(ctx, bson.M{"ownerID": ownerID, "name": name}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		s.log.Errorf("Get failed for %s: %v", documentPath(ownerID, name), err)
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorageUnavailable, err)
	}

	item := projectItem(&doc)
	return &item, nil
}

// Upsert writes fields to the document keyed by name. merge preserves
// unspecified existing fields; without it the document is replaced.
func (s *MongoItemStore) Upsert(ctx context.Context, ownerID, name string, fields model.ItemFields, merge bool) error {
	now := time.Now()
	filter := bson.M{"ownerID": ownerID, "name": name}

	var err error
	if merge {
		update := bson.M{
			"$set": bson.M{
				"price":     fields.Price,
				"quantity":  fields.Quantity,
				"category":  fields.Category,
				"unit":      fields.Unit,
				"imageUrl":  fields.ImageURL,
				"updatedAt": now,
			},
			"$setOnInsert": bson.M{
				"path":      documentPath(ownerID, name),
				"createdAt": now,
			},
		}
		_, err = s.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	} else {
		doc := inventoryDocument{
			OwnerID:   ownerID,
			Name:      name,
			Path:      documentPath(ownerID, name),
			Price:     fields.Price,
			Quantity:  fields.Quantity,
			Category:  fields.Category,
			Unit:      fields.Unit,
			ImageURL:  fields.ImageURL,
			CreatedAt: now,
			UpdatedAt: now,
		}
		_, err = s.collection.ReplaceOne(ctx, filter, doc, options.Replace().SetUpsert(true))
	}
	if err != nil {
		s.log.Errorf("Upsert failed for %s: %v", documentPath(ownerID, name), err)
		return fmt.Errorf("%w: %v", apperrors.ErrStorageUnavailable, err)
	}

	return nil
}

// Delete removes the document. A missing key is not an error.
func (s *MongoItemStore) Delete(ctx context.Context, ownerID, name string) error {
	_, err := s.collection.DeleteOne(ctx, bson.M{"ownerID": ownerID, "name": name})
	if err != nil {
		s.log.Errorf("Delete failed for %s: %v", documentPath(ownerID, name), err)
		return fmt.Errorf("%w: %v", apperrors.ErrStorageUnavailable, err)
	}
	return nil
}

func projectItem(doc *inventoryDocument) model.InventoryItem {
	return model.InventoryItem{
		Name:     doc.Name,
		Price:    doc.Price,
		Quantity: doc.Quantity,
		Category: doc.Category,
		Unit:     doc.Unit,
		ImageURL: doc.ImageURL,
	}
}
