package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"mygamelist/backend/internal/auth"
	"mygamelist/backend/internal/models"
	"mygamelist/backend/pkg/token"
)

var testSecret = []byte("handler-test-secret")

// testEnv is a full router over in-memory stores, wired the same way the
// server wires it.
type testEnv struct {
	users  *fakeUserStore
	games  *fakeGameStore
	assocs *fakeGameUserStore
	router *gin.Engine
}

func newTestEnv() *testEnv {
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		users:  newFakeUserStore(),
		games:  newFakeGameStore(),
		assocs: newFakeGameUserStore(),
	}

	userHandler := NewUserHandler(env.users, env.assocs, testSecret, nil)
	gameHandler := NewGameHandler(env.games)
	gameUserHandler := NewGameUserHandler(env.assocs, env.games)

	authRequired := auth.Middleware(testSecret, nil)

	router := gin.New()

	users := router.Group("/user")
	{
		users.POST("/signup", userHandler.Signup)
		users.POST("/login", userHandler.Login)
		users.POST("/logout", authRequired, userHandler.Logout)
		users.GET("/profile", authRequired, userHandler.Profile)
		users.GET("", authRequired, auth.AdminOnly(), userHandler.ListUsers)
		users.GET("/:id", authRequired, auth.SelfOrAdmin(), userHandler.GetUserByID)
		users.PUT("/:id", authRequired, auth.SelfOrAdmin(), userHandler.UpdateUser)
		users.DELETE("/:id", authRequired, auth.SelfOrAdmin(), userHandler.DeleteUser)
	}

	games := router.Group("/games")
	{
		games.GET("", gameHandler.ListGames)
		games.GET("/search", gameHandler.SearchGames)
		games.GET("/top-games", gameHandler.TopGames)
		games.GET("/filters", gameHandler.ListFilters)
		games.GET("/:id", gameHandler.GetGameByID)
		games.POST("", authRequired, auth.AdminOnly(), gameHandler.CreateGame)
		games.PUT("/:id", authRequired, auth.AdminOnly(), gameHandler.UpdateGame)
		games.DELETE("/:id", authRequired, auth.AdminOnly(), gameHandler.DeleteGame)
	}

	gameUsers := router.Group("/games-user", authRequired)
	{
		gameUsers.GET("", gameUserHandler.ListMine)
		gameUsers.POST("", gameUserHandler.CreateGameUser)
		gameUsers.GET("/:id", gameUserHandler.GetGameUserByID)
		gameUsers.PUT("/:id", gameUserHandler.UpdateGameUser)
		gameUsers.DELETE("/:id", gameUserHandler.DeleteGameUser)
	}

	env.router = router
	return env
}

// seedUser inserts an account directly into the fake store.
func (env *testEnv) seedUser(t *testing.T, email, password string, admin bool) *models.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)

	user := &models.User{
		Username:     "seeded",
		Email:        email,
		PasswordHash: string(hashed),
		IsAdmin:      admin,
	}
	assert.NoError(t, env.users.Create(nil, user))
	return user
}

// cookieFor issues a signed auth cookie for the given account.
func cookieFor(t *testing.T, user *models.User) *http.Cookie {
	t.Helper()
	tok, err := token.Generate(testSecret, user, token.TTL)
	assert.NoError(t, err)
	return &http.Cookie{Name: auth.CookieName, Value: tok}
}

// perform runs one request through the router. A nil body sends no
// payload; a nil cookie sends no credential.
func (env *testEnv) perform(t *testing.T, method, path string, body interface{}, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
