package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Platform is one platform a game was released on.
type Platform struct {
	ID   int    `bson:"id" json:"id"`
	Name string `bson:"name" json:"name"`
	Slug string `bson:"slug" json:"slug"`
}

// Store is one storefront where a game is sold.
type Store struct {
	ID   int    `bson:"id" json:"id"`
	Name string `bson:"name" json:"name"`
	Slug string `bson:"slug" json:"slug"`
}

// Tag is a descriptive label attached to a game.
type Tag struct {
	ID       int    `bson:"id" json:"id"`
	Name     string `bson:"name" json:"name"`
	Slug     string `bson:"slug" json:"slug"`
	Language string `bson:"language" json:"language"`
}

// RatingBreakdown is one bucket of the detailed rating distribution.
type RatingBreakdown struct {
	ID      int     `bson:"id" json:"id"`
	Title   string  `bson:"title" json:"title"`
	Count   int     `bson:"count" json:"count"`
	Percent float64 `bson:"percent" json:"percent"`
}

// ESRBRating is the optional ESRB age classification of a game.
type ESRBRating struct {
	ID   int    `bson:"id" json:"id"`
	Name string `bson:"name" json:"name"`
	Slug string `bson:"slug" json:"slug"`
}

// Screenshot is one preview image of a game.
type Screenshot struct {
	ID    int    `bson:"id" json:"id"`
	Image string `bson:"image" json:"image"`
}

// AddedByStatus counts, per shelf, how many users added the game.
type AddedByStatus struct {
	Yet     int `bson:"yet" json:"yet"`
	Owned   int `bson:"owned" json:"owned"`
	Beaten  int `bson:"beaten" json:"beaten"`
	ToPlay  int `bson:"toplay" json:"toplay"`
	Dropped int `bson:"dropped" json:"dropped"`
	Playing int `bson:"playing" json:"playing"`
}

// Game is one catalog entry, denormalized the way the RAWG API describes a
// game. Released is an ISO date (YYYY-MM-DD) or empty when unknown.
type Game struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RawgID           string             `bson:"rawg_id" json:"rawg_id"`
	Name             string             `bson:"name" json:"name"`
	Description      string             `bson:"description" json:"description"`
	Released         string             `bson:"released" json:"released"`
	BackgroundImage  string             `bson:"background_image" json:"background_image"`
	Rating           float64            `bson:"rating" json:"rating"`
	Ratings          []RatingBreakdown  `bson:"ratings" json:"ratings"`
	RatingsCount     int                `bson:"ratings_count" json:"ratings_count"`
	ReviewsTextCount int                `bson:"reviews_text_count" json:"reviews_text_count"`
	Added            int                `bson:"added" json:"added"`
	AddedByStatus    AddedByStatus      `bson:"added_by_status" json:"added_by_status"`
	Metacritic       int                `bson:"metacritic" json:"metacritic"`
	Playtime         int                `bson:"playtime" json:"playtime"`
	Platforms        []Platform         `bson:"platforms" json:"platforms"`
	Stores           []Store            `bson:"stores" json:"stores"`
	Tags             []Tag              `bson:"tags" json:"tags"`
	ESRBRating       *ESRBRating        `bson:"esrb_rating,omitempty" json:"esrb_rating,omitempty"`
	ShortScreenshots []Screenshot       `bson:"short_screenshots" json:"short_screenshots"`
}

// ReleaseYear extracts the year from the Released date, or 0 when the
// release date is unknown.
func (g *Game) ReleaseYear() int {
	if len(g.Released) < 4 {
		return 0
	}
	year := 0
	for _, r := range g.Released[:4] {
		if r < '0' || r > '9' {
			return 0
		}
		year = year*10 + int(r-'0')
	}
	return year
}
