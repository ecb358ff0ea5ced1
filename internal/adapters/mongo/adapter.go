// Package mongo provides a MongoDB-backed implementation of the result repository port.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/ewilliams-labs/typetune/internal/core/domain"
	"github.com/ewilliams-labs/typetune/internal/core/ports"
)

const resultsCollection = "results"

// Adapter implements the repository port for MongoDB.
type Adapter struct {
	client  *mongo.Client
	results *mongo.Collection
}

var _ ports.ResultRepository = (*Adapter)(nil)

// resultDocument is the stored shape. It has no _id field, so the server
// assigns one and reads never surface it.
type resultDocument struct {
	ResultID   string           `bson:"result_id"`
	MBTI       string           `bson:"mbti"`
	Summary    string           `bson:"summary"`
	Breakdown  domain.Breakdown `bson:"breakdown"`
	TracksUsed []map[string]any `bson:"tracks_used"`
	User       *string          `bson:"user"`
	SpotifyID  *string          `bson:"spotify_id"`
	CreatedAt  time.Time        `bson:"created_at"`
}

// storedDocument is the read shape. tracks_used stays raw so it can be
// normalized to plain JSON values.
type storedDocument struct {
	ResultID   string           `bson:"result_id"`
	MBTI       string           `bson:"mbti"`
	Summary    string           `bson:"summary"`
	Breakdown  domain.Breakdown `bson:"breakdown"`
	TracksUsed []bson.Raw       `bson:"tracks_used"`
	User       *string          `bson:"user"`
	SpotifyID  *string          `bson:"spotify_id"`
}

// NewAdapter connects to uri, verifies the connection and ensures indexes.
func NewAdapter(ctx context.Context, uri, database string) (*Adapter, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	adapter := &Adapter{client: client, results: client.Database(database).Collection(resultsCollection)}
	if err := adapter.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("index setup failed: %w", err)
	}
	return adapter, nil
}

// Close disconnects the client.
func (a *Adapter) Close(ctx context.Context) error {
	return a.client.Disconnect(ctx)
}

func (a *Adapter) Ping(ctx context.Context) error {
	return a.client.Ping(ctx, readpref.Primary())
}

// Save upserts the result by result_id.
func (a *Adapter) Save(ctx context.Context, r domain.SharedResult) error {
	tracks := r.TracksUsed
	if tracks == nil {
		tracks = []map[string]any{}
	}
	doc := resultDocument{
		ResultID:   r.ResultID,
		MBTI:       r.MBTI,
		Summary:    r.Summary,
		Breakdown:  r.Breakdown,
		TracksUsed: tracks,
		User:       r.User,
		SpotifyID:  r.SpotifyID,
		CreatedAt:  time.Now().UTC(),
	}
	_, err := a.results.ReplaceOne(ctx, bson.M{"result_id": r.ResultID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save result %s: %w", r.ResultID, err)
	}
	return nil
}

func (a *Adapter) GetByID(ctx context.Context, id string) (domain.SharedResult, error) {
	var doc storedDocument
	err := a.results.FindOne(ctx,
		bson.M{"result_id": id},
		options.FindOne().SetProjection(bson.M{"_id": 0}),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.SharedResult{}, domain.ErrNotFound
		}
		return domain.SharedResult{}, fmt.Errorf("failed to load result: %w", err)
	}

	tracks, err := normalizeTracks(doc.TracksUsed)
	if err != nil {
		return domain.SharedResult{}, fmt.Errorf("failed to decode tracks_used: %w", err)
	}
	return domain.SharedResult{
		ResultID:   doc.ResultID,
		MBTI:       doc.MBTI,
		Summary:    doc.Summary,
		Breakdown:  doc.Breakdown,
		TracksUsed: tracks,
		User:       doc.User,
		SpotifyID:  doc.SpotifyID,
	}, nil
}

func (a *Adapter) ensureIndexes(ctx context.Context) error {
	_, err := a.results.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "result_id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("result_id_unique"),
	})
	return err
}

// normalizeTracks converts stored documents to the values a JSON decoder
// would produce, so both stores return the same shapes.
func normalizeTracks(raw []bson.Raw) ([]map[string]any, error) {
	tracks := make([]map[string]any, 0, len(raw))
	for _, r := range raw {
		ext, err := bson.MarshalExtJSON(r, false, false)
		if err != nil {
			return nil, err
		}
		var m map[string]any
		if err := json.Unmarshal(ext, &m); err != nil {
			return nil, err
		}
		tracks = append(tracks, m)
	}
	return tracks, nil
}
