package audit

import (
	"context"
	"encoding/json"
	"github.com/juju/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/datatypes"
	"shipment-tracking-service/models"
	"time"
)

const archiveCollection = "audit_log"

// MongoArchive mirrors audit rows into an append-only MongoDB collection.
type MongoArchive struct {
	client     *mongo.Client
	collection *mongo.Collection
}

func ConnectMongo(ctx context.Context, url, database string) (*MongoArchive, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(url))
	if err != nil {
		return nil, errors.Annotate(err, "connecting to mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Annotate(err, "pinging mongo")
	}
	return &MongoArchive{
		client:     client,
		collection: client.Database(database).Collection(archiveCollection),
	}, nil
}

func (a *MongoArchive) Archive(ctx context.Context, entry models.AuditLog) error {
	_, err := a.collection.InsertOne(ctx, archiveDocument(entry))
	return errors.Annotatef(err, "archiving audit entry %d", entry.ID)
}

func (a *MongoArchive) Close(ctx context.Context) error {
	return a.client.Disconnect(ctx)
}

func archiveDocument(entry models.AuditLog) bson.M {
	doc := bson.M{
		"log_id":      entry.ID,
		"action":      entry.Action,
		"entity_type": entry.EntityType,
		"user_email":  entry.UserEmail,
		"ip_address":  entry.IPAddress,
		"created_at":  entry.CreatedAt,
		"old_value":   decode(entry.OldValue),
		"new_value":   decode(entry.NewValue),
	}
	if entry.ShipmentID != nil {
		doc["shipment_id"] = *entry.ShipmentID
	}
	if entry.EntityID != nil {
		doc["entity_id"] = *entry.EntityID
	}
	if entry.UserID != nil {
		doc["user_id"] = *entry.UserID
	}
	return doc
}

func decode(v datatypes.JSON) any {
	if len(v) == 0 {
		return nil
	}
	var out any
	if err := json.Unmarshal(v, &out); err != nil {
		return string(v)
	}
	return out
}
