package handler

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"mygamelist/backend/internal/models"
)

func TestSignup(t *testing.T) {
	env := newTestEnv()

	w := env.perform(t, "POST", "/user/signup", SignupInput{
		Username: "player one",
		Email:    "player@example.com",
		Password: "password123",
	}, nil)

	assert.Equal(t, http.StatusCreated, w.Code)

	stored, err := env.users.GetByEmail(nil, "player@example.com")
	assert.NoError(t, err)
	assert.NotEqual(t, "password123", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("password123")))

	// The hash never leaves the server.
	assert.NotContains(t, w.Body.String(), stored.PasswordHash)
}

func TestSignupDuplicateEmail(t *testing.T) {
	env := newTestEnv()
	env.seedUser(t, "player@example.com", "password123", false)

	w := env.perform(t, "POST", "/user/signup", SignupInput{
		Username: "someone else",
		Email:    "player@example.com",
		Password: "another-password",
	}, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "email already registered", decodeBody(t, w)["message"])
}

func TestSignupRejectsShortPassword(t *testing.T) {
	env := newTestEnv()

	w := env.perform(t, "POST", "/user/signup", SignupInput{
		Username: "player",
		Email:    "player@example.com",
		Password: "short",
	}, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginSetsUsableCookie(t *testing.T) {
	env := newTestEnv()
	env.seedUser(t, "player@example.com", "password123", false)

	w := env.perform(t, "POST", "/user/login", LoginInput{
		Email:    "player@example.com",
		Password: "password123",
	}, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decodeBody(t, w)["token"])

	cookies := w.Result().Cookies()
	assert.Len(t, cookies, 1)
	assert.Equal(t, "token", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	// The cookie authenticates the profile route.
	profile := env.perform(t, "GET", "/user/profile", nil, cookies[0])
	assert.Equal(t, http.StatusOK, profile.Code)
	assert.Equal(t, "player@example.com", decodeBody(t, profile)["email"])
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	env := newTestEnv()
	env.seedUser(t, "player@example.com", "password123", false)

	unknownEmail := env.perform(t, "POST", "/user/login", LoginInput{
		Email:    "nobody@example.com",
		Password: "password123",
	}, nil)
	wrongPassword := env.perform(t, "POST", "/user/login", LoginInput{
		Email:    "player@example.com",
		Password: "wrong-password",
	}, nil)

	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, unknownEmail.Body.String(), wrongPassword.Body.String())
}

func TestProfileRequiresAuth(t *testing.T) {
	env := newTestEnv()

	w := env.perform(t, "GET", "/user/profile", nil, nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListUsersIsAdminOnly(t *testing.T) {
	env := newTestEnv()
	regular := env.seedUser(t, "player@example.com", "password123", false)
	admin := env.seedUser(t, "admin@example.com", "password123", true)

	w := env.perform(t, "GET", "/user", nil, cookieFor(t, regular))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.perform(t, "GET", "/user", nil, cookieFor(t, admin))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetUserByIDSelfOrAdmin(t *testing.T) {
	env := newTestEnv()
	alice := env.seedUser(t, "alice@example.com", "password123", false)
	bob := env.seedUser(t, "bob@example.com", "password123", false)
	admin := env.seedUser(t, "admin@example.com", "password123", true)

	// Self works.
	w := env.perform(t, "GET", "/user/"+alice.ID.Hex(), nil, cookieFor(t, alice))
	assert.Equal(t, http.StatusOK, w.Code)

	// Another regular user is rejected before the handler runs.
	w = env.perform(t, "GET", "/user/"+alice.ID.Hex(), nil, cookieFor(t, bob))
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Admin works.
	w = env.perform(t, "GET", "/user/"+alice.ID.Hex(), nil, cookieFor(t, admin))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateUserPasswordFlow(t *testing.T) {
	env := newTestEnv()
	user := env.seedUser(t, "player@example.com", "password123", false)
	cookie := cookieFor(t, user)
	path := "/user/" + user.ID.Hex()

	w := env.perform(t, "PUT", path, UpdateUserInput{
		CurrentPassword: "wrong",
		NewPassword:     "new-password",
		ConfirmPassword: "new-password",
	}, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "current password is incorrect", decodeBody(t, w)["message"])

	w = env.perform(t, "PUT", path, UpdateUserInput{
		CurrentPassword: "password123",
		NewPassword:     "password123",
		ConfirmPassword: "password123",
	}, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "new password must differ from the current one", decodeBody(t, w)["message"])

	w = env.perform(t, "PUT", path, UpdateUserInput{
		CurrentPassword: "password123",
		NewPassword:     "new-password",
		ConfirmPassword: "different",
	}, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "password confirmation does not match", decodeBody(t, w)["message"])

	w = env.perform(t, "PUT", path, UpdateUserInput{
		CurrentPassword: "password123",
		NewPassword:     "new-password",
		ConfirmPassword: "new-password",
	}, cookie)
	assert.Equal(t, http.StatusOK, w.Code)

	// The old password stops working and the new one logs in.
	w = env.perform(t, "POST", "/user/login", LoginInput{Email: "player@example.com", Password: "password123"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = env.perform(t, "POST", "/user/login", LoginInput{Email: "player@example.com", Password: "new-password"}, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateUserFields(t *testing.T) {
	env := newTestEnv()
	user := env.seedUser(t, "player@example.com", "password123", false)

	w := env.perform(t, "PUT", "/user/"+user.ID.Hex(), UpdateUserInput{
		Username: "renamed",
	}, cookieFor(t, user))

	assert.Equal(t, http.StatusOK, w.Code)

	stored, err := env.users.GetByID(nil, user.ID.Hex())
	assert.NoError(t, err)
	assert.Equal(t, "renamed", stored.Username)
	assert.Equal(t, "player@example.com", stored.Email)
}

func TestDeleteUserCascadesAndClearsCookie(t *testing.T) {
	env := newTestEnv()
	user := env.seedUser(t, "player@example.com", "password123", false)
	game := env.games.add(models.Game{Name: "Doom"})

	assoc := &models.GameUser{UserID: user.ID, GameID: game.ID}
	assert.NoError(t, env.assocs.Create(nil, assoc))

	w := env.perform(t, "DELETE", "/user/"+user.ID.Hex(), nil, cookieFor(t, user))

	assert.Equal(t, http.StatusOK, w.Code)

	_, err := env.users.GetByID(nil, user.ID.Hex())
	assert.Error(t, err)

	// The account's library went with it.
	remaining, err := env.assocs.ListByUser(nil, user.ID.Hex())
	assert.NoError(t, err)
	assert.Empty(t, remaining)

	// Self-deletion clears the auth cookie.
	setCookie := w.Header().Get("Set-Cookie")
	assert.True(t, strings.HasPrefix(setCookie, "token=;"), setCookie)
}

func TestLogoutClearsCookie(t *testing.T) {
	env := newTestEnv()
	user := env.seedUser(t, "player@example.com", "password123", false)

	w := env.perform(t, "POST", "/user/logout", nil, cookieFor(t, user))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Set-Cookie"), "token=;"))
}
