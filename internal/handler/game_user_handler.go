package handler

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"mygamelist/backend/internal/auth"
	"mygamelist/backend/internal/models"
	"mygamelist/backend/internal/store"
)

// GameUserStore is the persistence surface the association handlers need.
type GameUserStore interface {
	Create(ctx context.Context, assoc *models.GameUser) error
	GetByID(ctx context.Context, id string) (*models.GameUser, error)
	ListByUser(ctx context.Context, userID string) ([]models.GameUser, error)
	Update(ctx context.Context, id string, patch models.GameUserPatch) (*models.GameUser, error)
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID string) error
}

// region --- DTOs ---

// GameUserInput defines the structure for adding a game to the caller's
// library.
type GameUserInput struct {
	GameID  string             `json:"game_id" binding:"required"`
	Hours   float64            `json:"hours" binding:"omitempty,min=0"`
	Status  *models.PlayStatus `json:"status" binding:"required"`
	Rating  *float64           `json:"rating" binding:"required"`
	Comment string             `json:"comment"`
}

// GameUserPatchInput defines the structure for an association update;
// absent fields are left unchanged.
type GameUserPatchInput struct {
	Hours   *float64           `json:"hours"`
	Status  *models.PlayStatus `json:"status"`
	Rating  *float64           `json:"rating"`
	Comment *string            `json:"comment"`
}

// endregion

// GameUserHandler serves the user-game association routes.
type GameUserHandler struct {
	assocs GameUserStore
	games  GameStore
}

func NewGameUserHandler(assocs GameUserStore, games GameStore) *GameUserHandler {
	return &GameUserHandler{assocs: assocs, games: games}
}

// canAccess reports whether the caller owns the association or is an
// admin. Ownership is checked against the stored record, not the path.
func canAccess(c *gin.Context, assoc *models.GameUser) bool {
	claims := auth.ClaimsFrom(c)
	return claims != nil && (claims.IsAdmin || assoc.UserID.Hex() == claims.UserID)
}

// ListMine godoc
// @Summary      List the caller's game associations
// @Description  Returns the caller's library entries populated with the account and the catalog entry.
// @Tags         games-user
// @Produce      json
// @Success      200  {array}   models.GameUser
// @Failure      401  {object}  MessageResponse
// @Failure      500  {object}  MessageResponse
// @Router       /games-user [get]
func (h *GameUserHandler) ListMine(c *gin.Context) {
	claims := auth.ClaimsFrom(c)

	assocs, err := h.assocs.ListByUser(c.Request.Context(), claims.UserID)
	if err != nil {
		log.Printf("list associations: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to retrieve game list"})
		return
	}
	c.JSON(http.StatusOK, assocs)
}

// CreateGameUser godoc
// @Summary      Add a game to the caller's library
// @Description  Creates the association between the caller and a catalog entry. One association per (user, game) pair.
// @Tags         games-user
// @Accept       json
// @Produce      json
// @Param        input body GameUserInput true "Association Info"
// @Success      201  {object}  models.GameUser
// @Failure      400  {object}  MessageResponse
// @Failure      401  {object}  MessageResponse
// @Failure      404  {object}  MessageResponse
// @Router       /games-user [post]
func (h *GameUserHandler) CreateGameUser(c *gin.Context) {
	var input GameUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if !input.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"message": "status must be between 0 and 3"})
		return
	}
	if *input.Rating < 0 || *input.Rating > 5 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "rating must be between 0 and 5"})
		return
	}

	game, err := h.games.GetByID(c.Request.Context(), input.GameID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "game not found"})
		return
	}

	claims := auth.ClaimsFrom(c)
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid or expired token"})
		return
	}

	assoc := models.GameUser{
		UserID:  userID,
		GameID:  game.ID,
		Hours:   input.Hours,
		Status:  *input.Status,
		Rating:  *input.Rating,
		Comment: input.Comment,
	}
	if err := h.assocs.Create(c.Request.Context(), &assoc); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "game already in library"})
			return
		}
		log.Printf("create association: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to add game"})
		return
	}

	c.JSON(http.StatusCreated, assoc)
}

// GetGameUserByID godoc
// @Summary      Get one association
// @Tags         games-user
// @Produce      json
// @Param        id   path      string  true  "Association ID"
// @Success      200  {object}  models.GameUser
// @Failure      401  {object}  MessageResponse
// @Failure      403  {object}  MessageResponse
// @Failure      404  {object}  MessageResponse
// @Router       /games-user/{id} [get]
func (h *GameUserHandler) GetGameUserByID(c *gin.Context) {
	assoc, err := h.assocs.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "association not found"})
		return
	}
	if !canAccess(c, assoc) {
		c.JSON(http.StatusForbidden, gin.H{"message": "access denied, insufficient privileges"})
		return
	}
	c.JSON(http.StatusOK, assoc)
}

// UpdateGameUser godoc
// @Summary      Update an association
// @Description  Updates only the supplied fields (hours, status, rating, comment); the rest keep their stored values.
// @Tags         games-user
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "Association ID"
// @Param        input body      GameUserPatchInput true  "Fields to update"
// @Success      200  {object}  models.GameUser
// @Failure      400  {object}  MessageResponse
// @Failure      401  {object}  MessageResponse
// @Failure      403  {object}  MessageResponse
// @Failure      404  {object}  MessageResponse
// @Router       /games-user/{id} [put]
func (h *GameUserHandler) UpdateGameUser(c *gin.Context) {
	assoc, err := h.assocs.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "association not found"})
		return
	}
	if !canAccess(c, assoc) {
		c.JSON(http.StatusForbidden, gin.H{"message": "access denied, insufficient privileges"})
		return
	}

	var input GameUserPatchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if input.Status != nil && !input.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"message": "status must be between 0 and 3"})
		return
	}
	if input.Rating != nil && (*input.Rating < 0 || *input.Rating > 5) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "rating must be between 0 and 5"})
		return
	}
	if input.Hours != nil && *input.Hours < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "hours must not be negative"})
		return
	}

	updated, err := h.assocs.Update(c.Request.Context(), c.Param("id"), models.GameUserPatch{
		Hours:   input.Hours,
		Status:  input.Status,
		Rating:  input.Rating,
		Comment: input.Comment,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "association not found"})
			return
		}
		log.Printf("update association: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to update association"})
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteGameUser godoc
// @Summary      Remove a game from a library
// @Tags         games-user
// @Produce      json
// @Param        id   path      string  true  "Association ID"
// @Success      200  {object}  MessageResponse
// @Failure      401  {object}  MessageResponse
// @Failure      403  {object}  MessageResponse
// @Failure      404  {object}  MessageResponse
// @Router       /games-user/{id} [delete]
func (h *GameUserHandler) DeleteGameUser(c *gin.Context) {
	assoc, err := h.assocs.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "association not found"})
		return
	}
	if !canAccess(c, assoc) {
		c.JSON(http.StatusForbidden, gin.H{"message": "access denied, insufficient privileges"})
		return
	}

	if err := h.assocs.Delete(c.Request.Context(), c.Param("id")); err != nil {
		log.Printf("delete association: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to delete association"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "association deleted"})
}
