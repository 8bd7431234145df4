package repository

import (
	"SchoolDesk/entity"
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SaveSession inserts or replaces a session.
func (m *MongoDB) SaveSession(ctx context.Context, session *entity.Session) error {
	connection, err := m.connect(ctx)
	if err != nil {
		return err
	}
	defer m.disconnect(ctx, connection)

	collection := connection.Database(m.database).Collection(sessionsCollection)

	filter := bson.D{{Key: "_id", Value: session.ID}}
	opts := options.Replace().SetUpsert(true)

	_, err = collection.ReplaceOne(ctx, filter, session, opts)
	if err != nil {
		return fmt.Errorf("mongodb upsert session: %w", err)
	}
	return nil
}

// GetSession returns nil without error when the session does not exist.
func (m *MongoDB) GetSession(ctx context.Context, id string) (*entity.Session, error) {
	connection, err := m.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer m.disconnect(ctx, connection)

	collection := connection.Database(m.database).Collection(sessionsCollection)

	var session entity.Session
	err = collection.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&session)
	if err != nil {
		return nil, m.findError(err)
	}
	return &session, nil
}

func (m *MongoDB) TouchSession(ctx context.Context, id string, at time.Time) error {
	connection, err := m.connect(ctx)
	if err != nil {
		return err
	}
	defer m.disconnect(ctx, connection)

	collection := connection.Database(m.database).Collection(sessionsCollection)

	filter := bson.D{{Key: "_id", Value: id}}
	update := bson.D{{Key: "$set", Value: bson.D{{Key: "last_seen", Value: at}}}}

	_, err = collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("mongodb touch session: %w", err)
	}
	return nil
}

func (m *MongoDB) DeleteSession(ctx context.Context, id string) error {
	connection, err := m.connect(ctx)
	if err != nil {
		return err
	}
	defer m.disconnect(ctx, connection)

	collection := connection.Database(m.database).Collection(sessionsCollection)

	_, err = collection.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("mongodb delete session: %w", err)
	}
	return nil
}

// DeleteSessionsBefore removes sessions not seen since the given time.
func (m *MongoDB) DeleteSessionsBefore(ctx context.Context, before time.Time) (int64, error) {
	connection, err := m.connect(ctx)
	if err != nil {
		return 0, err
	}
	defer m.disconnect(ctx, connection)

	collection := connection.Database(m.database).Collection(sessionsCollection)

	filter := bson.D{{Key: "last_seen", Value: bson.D{{Key: "$lt", Value: before}}}}
	res, err := collection.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("mongodb delete expired sessions: %w", err)
	}
	return res.DeletedCount, nil
}
