package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"mygamelist/backend/internal/catalog"
	"mygamelist/backend/internal/models"
	"mygamelist/backend/internal/store"
)

// GameStore is the persistence surface the catalog handlers need.
type GameStore interface {
	Create(ctx context.Context, game *models.Game) error
	GetByID(ctx context.Context, id string) (*models.Game, error)
	All(ctx context.Context) ([]models.Game, error)
	TopCandidates(ctx context.Context, f catalog.Filter, window int) ([]models.Game, error)
	Update(ctx context.Context, game *models.Game) error
	Delete(ctx context.Context, id string) error
}

// GameHandler serves the catalog routes.
type GameHandler struct {
	games GameStore
}

func NewGameHandler(games GameStore) *GameHandler {
	return &GameHandler{games: games}
}

// ListGames godoc
// @Summary      List all catalog entries
// @Tags         games
// @Produce      json
// @Success      200  {array}   models.Game
// @Failure      500  {object}  MessageResponse
// @Router       /games [get]
func (h *GameHandler) ListGames(c *gin.Context) {
	games, err := h.games.All(c.Request.Context())
	if err != nil {
		log.Printf("list games: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to retrieve games"})
		return
	}
	c.JSON(http.StatusOK, games)
}

// SearchGames godoc
// @Summary      Search catalog entries by name
// @Description  Infix match, insensitive to case and diacritics. An empty query returns the catalog capped at 100 entries.
// @Tags         games
// @Produce      json
// @Param        search  query     string  false  "Name fragment"
// @Success      200  {array}   models.Game
// @Failure      500  {object}  MessageResponse
// @Router       /games/search [get]
func (h *GameHandler) SearchGames(c *gin.Context) {
	games, err := h.games.All(c.Request.Context())
	if err != nil {
		log.Printf("search games: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to retrieve games"})
		return
	}
	c.JSON(http.StatusOK, catalog.SearchByName(games, c.Query("search")))
}

// parseTopGamesQuery validates the top-games query parameters. Malformed
// numbers or dates are reported instead of being coerced.
func parseTopGamesQuery(c *gin.Context) (int, catalog.Filter, error) {
	limit := catalog.DefaultTopLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return 0, catalog.Filter{}, errors.New("limit must be a positive integer")
		}
		limit = n
	}

	f := catalog.Filter{
		Platform: c.Query("platform"),
		Tag:      c.Query("tag"),
	}

	if raw := c.Query("rating"); raw != "" {
		r, err := strconv.ParseFloat(raw, 64)
		if err != nil || r < 0 {
			return 0, catalog.Filter{}, errors.New("rating must be a non-negative number")
		}
		f.MinRating = r
	}

	if raw := c.Query("released"); raw != "" {
		if _, err := time.Parse("2006-01-02", raw); err != nil {
			return 0, catalog.Filter{}, errors.New("released must be a date in YYYY-MM-DD format")
		}
		f.ReleasedAfter = raw
	}

	return limit, f, nil
}

// TopGames godoc
// @Summary      List the top-rated catalog entries
// @Description  Two-phase ranking: the 2×limit entries with the most votes matching the filters are fetched, re-sorted by rating and truncated to limit. The result is approximate.
// @Tags         games
// @Produce      json
// @Param        limit     query  int     false  "Result size"  default(10)
// @Param        platform  query  string  false  "Exact platform name"
// @Param        tag       query  string  false  "Exact tag name"
// @Param        rating    query  number  false  "Inclusive rating lower bound"
// @Param        released  query  string  false  "Inclusive release date lower bound (YYYY-MM-DD)"
// @Success      200  {array}   models.Game
// @Failure      400  {object}  MessageResponse
// @Failure      500  {object}  MessageResponse
// @Router       /games/top-games [get]
func (h *GameHandler) TopGames(c *gin.Context) {
	limit, filter, err := parseTopGamesQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	candidates, err := h.games.TopCandidates(c.Request.Context(), filter, limit*catalog.OversampleFactor)
	if err != nil {
		log.Printf("top games: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to retrieve games"})
		return
	}

	c.JSON(http.StatusOK, catalog.RankByRating(candidates, limit))
}

// ListFilters godoc
// @Summary      List the usable filter values per facet
// @Tags         games
// @Produce      json
// @Success      200  {object}  catalog.FilterOptions
// @Failure      500  {object}  MessageResponse
// @Router       /games/filters [get]
func (h *GameHandler) ListFilters(c *gin.Context) {
	games, err := h.games.All(c.Request.Context())
	if err != nil {
		log.Printf("list filters: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to retrieve games"})
		return
	}
	c.JSON(http.StatusOK, catalog.CollectFilterOptions(games))
}

// GetGameByID godoc
// @Summary      Get one catalog entry
// @Tags         games
// @Produce      json
// @Param        id   path      string  true  "Game ID"
// @Success      200  {object}  models.Game
// @Failure      404  {object}  MessageResponse
// @Router       /games/{id} [get]
func (h *GameHandler) GetGameByID(c *gin.Context) {
	game, err := h.games.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "game not found"})
		return
	}
	c.JSON(http.StatusOK, game)
}

// CreateGame godoc
// @Summary      Create a catalog entry (admin)
// @Tags         games
// @Accept       json
// @Produce      json
// @Param        input body models.Game true "Game Info"
// @Success      201  {object}  models.Game
// @Failure      400  {object}  MessageResponse
// @Failure      401  {object}  MessageResponse
// @Failure      403  {object}  MessageResponse
// @Router       /games [post]
func (h *GameHandler) CreateGame(c *gin.Context) {
	var game models.Game
	if err := c.ShouldBindJSON(&game); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if game.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "name is required"})
		return
	}

	if err := h.games.Create(c.Request.Context(), &game); err != nil {
		log.Printf("create game: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to create game"})
		return
	}

	c.JSON(http.StatusCreated, game)
}

// UpdateGame godoc
// @Summary      Update a catalog entry (admin)
// @Tags         games
// @Accept       json
// @Produce      json
// @Param        id    path      string      true  "Game ID"
// @Param        input body      models.Game true  "New game info"
// @Success      200  {object}  models.Game
// @Failure      400  {object}  MessageResponse
// @Failure      401  {object}  MessageResponse
// @Failure      403  {object}  MessageResponse
// @Failure      404  {object}  MessageResponse
// @Router       /games/{id} [put]
func (h *GameHandler) UpdateGame(c *gin.Context) {
	existing, err := h.games.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "game not found"})
		return
	}

	var game models.Game
	if err := c.ShouldBindJSON(&game); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	game.ID = existing.ID

	if err := h.games.Update(c.Request.Context(), &game); err != nil {
		log.Printf("update game: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to update game"})
		return
	}

	c.JSON(http.StatusOK, game)
}

// DeleteGame godoc
// @Summary      Delete a catalog entry (admin)
// @Tags         games
// @Produce      json
// @Param        id   path      string  true  "Game ID"
// @Success      200  {object}  MessageResponse
// @Failure      401  {object}  MessageResponse
// @Failure      403  {object}  MessageResponse
// @Failure      404  {object}  MessageResponse
// @Router       /games/{id} [delete]
func (h *GameHandler) DeleteGame(c *gin.Context) {
	if err := h.games.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "game not found"})
			return
		}
		log.Printf("delete game: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to delete game"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "game deleted"})
}
