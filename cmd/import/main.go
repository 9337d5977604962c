// Command import pulls the top-rated games from the RAWG API and stores
// them as catalog entries.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"mygamelist/backend/internal/config"
	"mygamelist/backend/internal/database"
	"mygamelist/backend/internal/models"
	"mygamelist/backend/internal/store"
)

const rawgPageSize = 40 // per-page limit of the RAWG API

// rawgGame mirrors the subset of the RAWG game payload the catalog keeps.
type rawgGame struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Released  string `json:"released"`
	Playtime  int    `json:"playtime"`
	Platforms []struct {
		Platform models.Platform `json:"platform"`
	} `json:"platforms"`
	Stores []struct {
		Store models.Store `json:"store"`
	} `json:"stores"`
	Rating           float64                  `json:"rating"`
	Ratings          []models.RatingBreakdown `json:"ratings"`
	RatingsCount     int                      `json:"ratings_count"`
	ReviewsTextCount int                      `json:"reviews_text_count"`
	Added            int                      `json:"added"`
	AddedByStatus    models.AddedByStatus     `json:"added_by_status"`
	Metacritic       int                      `json:"metacritic"`
	BackgroundImage  string                   `json:"background_image"`
	Tags             []models.Tag             `json:"tags"`
	ESRBRating       *models.ESRBRating       `json:"esrb_rating"`
	ShortScreenshots []models.Screenshot      `json:"short_screenshots"`
}

type rawgPage struct {
	Next    string     `json:"next"`
	Results []rawgGame `json:"results"`
}

// fetchTopGames walks the RAWG listing ordered by rating until maxGames
// entries have been collected or the listing ends.
func fetchTopGames(ctx context.Context, apiKey string, maxGames int) ([]rawgGame, error) {
	client := &http.Client{Timeout: 30 * time.Second}

	var games []rawgGame
	for page := 1; len(games) < maxGames; page++ {
		q := url.Values{}
		q.Set("key", apiKey)
		q.Set("ordering", "-rating")
		q.Set("page_size", strconv.Itoa(rawgPageSize))
		q.Set("page", strconv.Itoa(page))

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://api.rawg.io/api/games?"+q.Encode(), nil)
		if err != nil {
			return nil, err
		}

		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}

		var body rawgPage
		err = json.NewDecoder(resp.Body).Decode(&body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("page %d: HTTP %d", page, resp.StatusCode)
		}

		games = append(games, body.Results...)
		if body.Next == "" || len(body.Results) == 0 {
			break
		}
	}

	if len(games) > maxGames {
		games = games[:maxGames]
	}
	return games, nil
}

func toCatalogEntry(g rawgGame) models.Game {
	game := models.Game{
		RawgID:           strconv.Itoa(g.ID),
		Name:             g.Name,
		Description:      "",
		Released:         g.Released,
		BackgroundImage:  g.BackgroundImage,
		Rating:           g.Rating,
		Ratings:          g.Ratings,
		RatingsCount:     g.RatingsCount,
		ReviewsTextCount: g.ReviewsTextCount,
		Added:            g.Added,
		AddedByStatus:    g.AddedByStatus,
		Metacritic:       g.Metacritic,
		Playtime:         g.Playtime,
		Tags:             g.Tags,
		ESRBRating:       g.ESRBRating,
		ShortScreenshots: g.ShortScreenshots,
	}
	for _, p := range g.Platforms {
		game.Platforms = append(game.Platforms, p.Platform)
	}
	for _, s := range g.Stores {
		game.Stores = append(game.Stores, s.Store)
	}
	return game
}

func main() {
	maxGames := flag.Int("max", 250, "maximum number of games to import")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.RawgAPIKey == "" {
		log.Fatal("RAWG_API_KEY must be set")
	}

	ctx := context.Background()

	db, err := database.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Client().Disconnect(ctx)

	games, err := fetchTopGames(ctx, cfg.RawgAPIKey, *maxGames)
	if err != nil {
		log.Fatalf("Failed to fetch games from RAWG: %v", err)
	}

	entries := make([]models.Game, len(games))
	for i, g := range games {
		entries[i] = toCatalogEntry(g)
	}

	if err := store.NewGameStore(db).InsertMany(ctx, entries); err != nil {
		log.Fatalf("Failed to insert games: %v", err)
	}

	log.Printf("Imported %d games", len(entries))
}
