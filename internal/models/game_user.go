package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// PlayStatus is the shelf a user filed a game under.
type PlayStatus int

const (
	StatusToPlay     PlayStatus = 0
	StatusInProgress PlayStatus = 1
	StatusDropped    PlayStatus = 2
	StatusCompleted  PlayStatus = 3
)

// Valid reports whether s is one of the defined shelves.
func (s PlayStatus) Valid() bool {
	return s >= StatusToPlay && s <= StatusCompleted
}

// GameUser links one account to one catalog entry with the user's own
// state for that game. At most one association exists per (user, game)
// pair, enforced by a unique compound index.
type GameUser struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID  primitive.ObjectID `bson:"user_id" json:"user_id"`
	GameID  primitive.ObjectID `bson:"game_id" json:"game_id"`
	Hours   float64            `bson:"hours" json:"hours"`
	Status  PlayStatus         `bson:"status" json:"status"`
	Rating  float64            `bson:"rating" json:"rating"`
	Comment string             `bson:"comment" json:"comment"`

	// Populated on reads, never stored.
	User *User `bson:"user,omitempty" json:"user,omitempty"`
	Game *Game `bson:"game,omitempty" json:"game,omitempty"`
}

// GameUserPatch carries the fields of an association update. Nil fields
// are left untouched.
type GameUserPatch struct {
	Hours   *float64
	Status  *PlayStatus
	Rating  *float64
	Comment *string
}
