package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"mygamelist/backend/internal/models"
)

// GameUserStore handles the user-game association collection.
type GameUserStore struct {
	col *mongo.Collection
}

func NewGameUserStore(db *mongo.Database) *GameUserStore {
	return &GameUserStore{col: db.Collection("games_users")}
}

// lookupStages joins the owning account and the catalog entry into the
// association documents, mirroring a populated read.
var lookupStages = []bson.M{
	{"$lookup": bson.M{
		"from":         "users",
		"localField":   "user_id",
		"foreignField": "_id",
		"as":           "user",
	}},
	{"$unwind": bson.M{"path": "$user", "preserveNullAndEmptyArrays": true}},
	{"$lookup": bson.M{
		"from":         "games",
		"localField":   "game_id",
		"foreignField": "_id",
		"as":           "game",
	}},
	{"$unwind": bson.M{"path": "$game", "preserveNullAndEmptyArrays": true}},
}

func (s *GameUserStore) Create(ctx context.Context, assoc *models.GameUser) error {
	res, err := s.col.InsertOne(ctx, assoc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return err
	}
	assoc.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// GetByID returns one association populated with its account and catalog
// entry.
func (s *GameUserStore) GetByID(ctx context.Context, id string) (*models.GameUser, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	pipeline := append([]bson.M{{"$match": bson.M{"_id": oid}}}, lookupStages...)
	cur, err := s.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var assocs []models.GameUser
	if err := cur.All(ctx, &assocs); err != nil {
		return nil, err
	}
	if len(assocs) == 0 {
		return nil, ErrNotFound
	}
	return &assocs[0], nil
}

// ListByUser returns one user's associations, populated.
func (s *GameUserStore) ListByUser(ctx context.Context, userID string) ([]models.GameUser, error) {
	oid, err := parseID(userID)
	if err != nil {
		return nil, err
	}

	pipeline := append([]bson.M{{"$match": bson.M{"user_id": oid}}}, lookupStages...)
	cur, err := s.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	assocs := []models.GameUser{}
	if err := cur.All(ctx, &assocs); err != nil {
		return nil, err
	}
	return assocs, nil
}

// Update applies the non-nil fields of the patch and returns the updated
// association, populated. Fields absent from the patch keep their stored
// value.
func (s *GameUserStore) Update(ctx context.Context, id string, patch models.GameUserPatch) (*models.GameUser, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	if patch.Hours != nil {
		set["hours"] = *patch.Hours
	}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}
	if patch.Rating != nil {
		set["rating"] = *patch.Rating
	}
	if patch.Comment != nil {
		set["comment"] = *patch.Comment
	}

	if len(set) > 0 {
		res, err := s.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 0 {
			return nil, ErrNotFound
		}
	}
	return s.GetByID(ctx, id)
}

func (s *GameUserStore) Delete(ctx context.Context, id string) error {
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

// DeleteByUser removes every association owned by an account; called when
// the account itself is deleted.
func (s *GameUserStore) DeleteByUser(ctx context.Context, userID string) error {
	oid, err := parseID(userID)
	if err != nil {
		return err
	}
	_, err = s.col.DeleteMany(ctx, bson.M{"user_id": oid})
	return err
}
