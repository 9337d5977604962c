package handler

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"mygamelist/backend/internal/auth"
	"mygamelist/backend/internal/models"
	"mygamelist/backend/internal/store"
	"mygamelist/backend/pkg/token"
)

// UserStore is the persistence surface the account handlers need.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
}

// invalidCredentials is deliberately the same for an unknown email and a
// wrong password, so a login failure does not leak which field was wrong.
const invalidCredentials = "invalid credentials"

// region --- DTOs ---

// SignupInput defines the structure for account creation.
type SignupInput struct {
	Username string `json:"username" binding:"required" example:"player one"`
	Email    string `json:"email" binding:"required,email" example:"player@example.com"`
	Password string `json:"password" binding:"required,min=8" example:"password123"`
}

// LoginInput defines the structure for user login.
type LoginInput struct {
	Email    string `json:"email" binding:"required,email" example:"player@example.com"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// UpdateUserInput defines the structure for a profile update. The three
// password fields together drive the password-change sub-flow and are
// ignored when NewPassword is empty.
type UpdateUserInput struct {
	Username        string `json:"username"`
	Email           string `json:"email" binding:"omitempty,email"`
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password" binding:"omitempty,min=8"`
	ConfirmPassword string `json:"confirm_password"`
}

// MessageResponse is the error (and deletion) envelope: {"message": "..."}.
type MessageResponse struct {
	Message string `json:"message" example:"a message"`
}

// endregion

// UserHandler serves the account routes.
type UserHandler struct {
	users     UserStore
	gameUsers GameUserStore
	secret    []byte
	denylist  *auth.Denylist
}

func NewUserHandler(users UserStore, gameUsers GameUserStore, secret []byte, denylist *auth.Denylist) *UserHandler {
	return &UserHandler{users: users, gameUsers: gameUsers, secret: secret, denylist: denylist}
}

// setAuthCookie installs the token as an HttpOnly, Secure,
// SameSite=Strict cookie. A negative maxAge clears it.
func setAuthCookie(c *gin.Context, tok string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(auth.CookieName, tok, maxAge, "/", "", true, true)
}

// Signup godoc
// @Summary      Create an account
// @Description  Registers a new user. The email must not be in use.
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        input body SignupInput true "Signup Info"
// @Success      201  {object}  models.User
// @Failure      400  {object}  MessageResponse
// @Failure      500  {object}  MessageResponse
// @Router       /user/signup [post]
func (h *UserHandler) Signup(c *gin.Context) {
	var input SignupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to create user"})
		return
	}

	user := models.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hashed),
	}
	if err := h.users.Create(c.Request.Context(), &user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "email already registered"})
			return
		}
		log.Printf("signup: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, user)
}

// Login godoc
// @Summary      Log in
// @Description  Verifies email and password, sets the auth cookie and returns the token.
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        input body LoginInput true "Login Info"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  MessageResponse
// @Failure      401  {object}  MessageResponse
// @Router       /user/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	user, err := h.users.GetByEmail(c.Request.Context(), input.Email)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": invalidCredentials})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": invalidCredentials})
		return
	}

	tok, err := token.Generate(h.secret, user, token.TTL)
	if err != nil {
		log.Printf("login: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to generate token"})
		return
	}

	setAuthCookie(c, tok, int(token.TTL.Seconds()))
	c.JSON(http.StatusOK, gin.H{"token": tok})
}

// Logout godoc
// @Summary      Log out
// @Description  Clears the auth cookie. When Redis is configured the token is also revoked server-side; otherwise it stays valid until expiry.
// @Tags         user
// @Produce      json
// @Success      200  {object}  MessageResponse
// @Failure      401  {object}  MessageResponse
// @Router       /user/logout [post]
func (h *UserHandler) Logout(c *gin.Context) {
	claims := auth.ClaimsFrom(c)
	if claims.ExpiresAt != nil {
		if err := h.denylist.Revoke(c.Request.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
			log.Printf("logout: revoke: %v", err)
		}
	}

	setAuthCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Profile godoc
// @Summary      Get the caller's account
// @Tags         user
// @Produce      json
// @Success      200  {object}  models.User
// @Failure      401  {object}  MessageResponse
// @Failure      404  {object}  MessageResponse
// @Router       /user/profile [get]
func (h *UserHandler) Profile(c *gin.Context) {
	claims := auth.ClaimsFrom(c)

	user, err := h.users.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "user not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// ListUsers godoc
// @Summary      List all accounts (admin)
// @Tags         user
// @Produce      json
// @Success      200  {array}   models.User
// @Failure      401  {object}  MessageResponse
// @Failure      403  {object}  MessageResponse
// @Router       /user [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		log.Printf("list users: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to retrieve users"})
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetUserByID godoc
// @Summary      Get one account
// @Tags         user
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  models.User
// @Failure      401  {object}  MessageResponse
// @Failure      403  {object}  MessageResponse
// @Failure      404  {object}  MessageResponse
// @Router       /user/{id} [get]
func (h *UserHandler) GetUserByID(c *gin.Context) {
	user, err := h.users.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "user not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateUser godoc
// @Summary      Update an account
// @Description  Updates username and email. Changing the password requires the current password, a new password different from it, and a matching confirmation.
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        id    path      string          true  "User ID"
// @Param        input body      UpdateUserInput true  "New account info"
// @Success      200  {object}  models.User
// @Failure      400  {object}  MessageResponse
// @Failure      401  {object}  MessageResponse
// @Failure      403  {object}  MessageResponse
// @Failure      404  {object}  MessageResponse
// @Router       /user/{id} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var input UpdateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "user not found"})
		return
	}

	if input.NewPassword != "" {
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.CurrentPassword)) != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "current password is incorrect"})
			return
		}
		if input.NewPassword == input.CurrentPassword {
			c.JSON(http.StatusBadRequest, gin.H{"message": "new password must differ from the current one"})
			return
		}
		if input.NewPassword != input.ConfirmPassword {
			c.JSON(http.StatusBadRequest, gin.H{"message": "password confirmation does not match"})
			return
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to update user"})
			return
		}
		user.PasswordHash = string(hashed)
	}

	if input.Username != "" {
		user.Username = input.Username
	}
	if input.Email != "" {
		user.Email = input.Email
	}

	if err := h.users.Update(c.Request.Context(), user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "email already registered"})
			return
		}
		log.Printf("update user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to update user"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// DeleteUser godoc
// @Summary      Delete an account
// @Description  Deletes the account and its game associations. When the caller deletes their own account the auth cookie is cleared.
// @Tags         user
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  MessageResponse
// @Failure      401  {object}  MessageResponse
// @Failure      403  {object}  MessageResponse
// @Failure      404  {object}  MessageResponse
// @Router       /user/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id := c.Param("id")

	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "user not found"})
			return
		}
		log.Printf("delete user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to delete user"})
		return
	}

	// Cascade: the account's associations do not outlive it.
	if err := h.gameUsers.DeleteByUser(c.Request.Context(), id); err != nil {
		log.Printf("delete user: cascade: %v", err)
	}

	if claims := auth.ClaimsFrom(c); claims != nil && claims.UserID == id {
		setAuthCookie(c, "", -1)
	}

	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}
