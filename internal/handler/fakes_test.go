package handler

import (
	"context"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"mygamelist/backend/internal/catalog"
	"mygamelist/backend/internal/models"
	"mygamelist/backend/internal/store"
)

// In-memory stores backing the handler tests.

type fakeUserStore struct {
	users map[string]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]*models.User{}}
}

func (s *fakeUserStore) Create(_ context.Context, user *models.User) error {
	for _, u := range s.users {
		if u.Email == user.Email {
			return store.ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	clone := *user
	s.users[user.ID.Hex()] = &clone
	return nil
}

func (s *fakeUserStore) GetByID(_ context.Context, id string) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *fakeUserStore) List(_ context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, *u)
	}
	return out, nil
}

func (s *fakeUserStore) Update(_ context.Context, user *models.User) error {
	if _, ok := s.users[user.ID.Hex()]; !ok {
		return store.ErrNotFound
	}
	for id, u := range s.users {
		if id != user.ID.Hex() && u.Email == user.Email {
			return store.ErrDuplicate
		}
	}
	clone := *user
	s.users[user.ID.Hex()] = &clone
	return nil
}

func (s *fakeUserStore) Delete(_ context.Context, id string) error {
	if _, ok := s.users[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.users, id)
	return nil
}

type fakeGameStore struct {
	games map[string]*models.Game
}

func newFakeGameStore() *fakeGameStore {
	return &fakeGameStore{games: map[string]*models.Game{}}
}

func (s *fakeGameStore) add(g models.Game) models.Game {
	if g.ID.IsZero() {
		g.ID = primitive.NewObjectID()
	}
	s.games[g.ID.Hex()] = &g
	return g
}

func (s *fakeGameStore) Create(_ context.Context, game *models.Game) error {
	game.ID = primitive.NewObjectID()
	clone := *game
	s.games[game.ID.Hex()] = &clone
	return nil
}

func (s *fakeGameStore) GetByID(_ context.Context, id string) (*models.Game, error) {
	g, ok := s.games[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	clone := *g
	return &clone, nil
}

func (s *fakeGameStore) All(_ context.Context) ([]models.Game, error) {
	out := make([]models.Game, 0, len(s.games))
	for _, g := range s.games {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// TopCandidates mirrors the Mongo query: filter, order by votes, cut the
// window.
func (s *fakeGameStore) TopCandidates(_ context.Context, f catalog.Filter, window int) ([]models.Game, error) {
	out := []models.Game{}
	for _, g := range s.games {
		if f.Matches(g) {
			out = append(out, *g)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].RatingsCount > out[j].RatingsCount })
	if len(out) > window {
		out = out[:window]
	}
	return out, nil
}

func (s *fakeGameStore) Update(_ context.Context, game *models.Game) error {
	if _, ok := s.games[game.ID.Hex()]; !ok {
		return store.ErrNotFound
	}
	clone := *game
	s.games[game.ID.Hex()] = &clone
	return nil
}

func (s *fakeGameStore) Delete(_ context.Context, id string) error {
	if _, ok := s.games[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.games, id)
	return nil
}

type fakeGameUserStore struct {
	assocs map[string]*models.GameUser
}

func newFakeGameUserStore() *fakeGameUserStore {
	return &fakeGameUserStore{assocs: map[string]*models.GameUser{}}
}

func (s *fakeGameUserStore) Create(_ context.Context, assoc *models.GameUser) error {
	for _, a := range s.assocs {
		if a.UserID == assoc.UserID && a.GameID == assoc.GameID {
			return store.ErrDuplicate
		}
	}
	assoc.ID = primitive.NewObjectID()
	clone := *assoc
	s.assocs[assoc.ID.Hex()] = &clone
	return nil
}

func (s *fakeGameUserStore) GetByID(_ context.Context, id string) (*models.GameUser, error) {
	a, ok := s.assocs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	clone := *a
	return &clone, nil
}

func (s *fakeGameUserStore) ListByUser(_ context.Context, userID string) ([]models.GameUser, error) {
	out := []models.GameUser{}
	for _, a := range s.assocs {
		if a.UserID.Hex() == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (s *fakeGameUserStore) Update(_ context.Context, id string, patch models.GameUserPatch) (*models.GameUser, error) {
	a, ok := s.assocs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if patch.Hours != nil {
		a.Hours = *patch.Hours
	}
	if patch.Status != nil {
		a.Status = *patch.Status
	}
	if patch.Rating != nil {
		a.Rating = *patch.Rating
	}
	if patch.Comment != nil {
		a.Comment = *patch.Comment
	}
	clone := *a
	return &clone, nil
}

func (s *fakeGameUserStore) Delete(_ context.Context, id string) error {
	if _, ok := s.assocs[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.assocs, id)
	return nil
}

func (s *fakeGameUserStore) DeleteByUser(_ context.Context, userID string) error {
	for id, a := range s.assocs {
		if a.UserID.Hex() == userID {
			delete(s.assocs, id)
		}
	}
	return nil
}
