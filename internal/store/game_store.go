package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mygamelist/backend/internal/catalog"
	"mygamelist/backend/internal/models"
)

// GameStore handles catalog entry CRUD and the candidate-window query of
// the top-games ranking.
type GameStore struct {
	col *mongo.Collection
}

func NewGameStore(db *mongo.Database) *GameStore {
	return &GameStore{col: db.Collection("games")}
}

func (s *GameStore) Create(ctx context.Context, game *models.Game) error {
	res, err := s.col.InsertOne(ctx, game)
	if err != nil {
		return err
	}
	game.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// InsertMany bulk-inserts catalog entries; used by the importer.
func (s *GameStore) InsertMany(ctx context.Context, games []models.Game) error {
	docs := make([]interface{}, len(games))
	for i := range games {
		docs[i] = games[i]
	}
	_, err := s.col.InsertMany(ctx, docs)
	return err
}

func (s *GameStore) GetByID(ctx context.Context, id string) (*models.Game, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var game models.Game
	if err := s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&game); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &game, nil
}

// All returns the whole catalog. Name search and facet discovery resolve
// in-process over this set; the catalog is bounded (a few hundred entries
// imported from RAWG), so one scan is cheaper than eight distinct queries.
func (s *GameStore) All(ctx context.Context) ([]models.Game, error) {
	cur, err := s.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	games := []models.Game{}
	if err := cur.All(ctx, &games); err != nil {
		return nil, err
	}
	return games, nil
}

// TopCandidates returns the filtered entries ordered by ratings_count
// descending, truncated to the oversampled window size. The caller
// re-sorts the window by rating.
func (s *GameStore) TopCandidates(ctx context.Context, f catalog.Filter, window int) ([]models.Game, error) {
	filter := bson.M{}
	if f.Platform != "" {
		filter["platforms.name"] = f.Platform
	}
	if f.Tag != "" {
		filter["tags.name"] = f.Tag
	}
	if f.MinRating > 0 {
		filter["rating"] = bson.M{"$gte": f.MinRating}
	}
	if f.ReleasedAfter != "" {
		filter["released"] = bson.M{"$gte": f.ReleasedAfter}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "ratings_count", Value: -1}}).
		SetLimit(int64(window))

	cur, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	games := []models.Game{}
	if err := cur.All(ctx, &games); err != nil {
		return nil, err
	}
	return games, nil
}

func (s *GameStore) Update(ctx context.Context, game *models.Game) error {
	res, err := s.col.ReplaceOne(ctx, bson.M{"_id": game.ID}, game)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GameStore) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
