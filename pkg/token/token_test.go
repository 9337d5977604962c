package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"mygamelist/backend/internal/models"
)

var secret = []byte("test-secret")

func testUser() *models.User {
	return &models.User{
		ID:      primitive.NewObjectID(),
		Email:   "player@example.com",
		IsAdmin: true,
	}
}

func TestGenerateAndParse(t *testing.T) {
	user := testUser()

	tok, err := Generate(secret, user, TTL)
	assert.NoError(t, err)
	assert.NotEmpty(t, tok)

	claims, err := Parse(secret, tok)
	assert.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.True(t, claims.IsAdmin)
	assert.NotEmpty(t, claims.ID)
}

func TestParseWrongSecret(t *testing.T) {
	tok, err := Generate(secret, testUser(), TTL)
	assert.NoError(t, err)

	_, err = Parse([]byte("other-secret"), tok)
	assert.Error(t, err)
}

func TestParseExpired(t *testing.T) {
	tok, err := Generate(secret, testUser(), -time.Minute)
	assert.NoError(t, err)

	_, err = Parse(secret, tok)
	assert.Error(t, err)
}

func TestParseGarbage(t *testing.T) {
	_, err := Parse(secret, "not-a-token")
	assert.Error(t, err)
}

func TestTokenIDsAreUnique(t *testing.T) {
	user := testUser()

	first, err := Generate(secret, user, TTL)
	assert.NoError(t, err)
	second, err := Generate(secret, user, TTL)
	assert.NoError(t, err)

	a, err := Parse(secret, first)
	assert.NoError(t, err)
	b, err := Parse(secret, second)
	assert.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}
