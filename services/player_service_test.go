package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jdl-league/constructor-system/models"
	"github.com/jdl-league/constructor-system/repositories"
)

type stubPlayerRepo struct {
	repositories.PlayerRepository
	existing map[string]bool
	players  map[string]models.Player
	updates  map[string]map[string]interface{}
}

func (r *stubPlayerRepo) Create(ctx context.Context, player *models.Player) error {
	player.ID = primitive.NewObjectID()
	return nil
}

func (r *stubPlayerRepo) ExistsByJDLID(ctx context.Context, jdlID string) (bool, error) {
	return r.existing[jdlID], nil
}

func (r *stubPlayerRepo) GetByID(ctx context.Context, id string) (*models.Player, error) {
	p, ok := r.players[id]
	if !ok {
		return nil, repositories.ErrPlayerNotFound
	}
	return &p, nil
}

func (r *stubPlayerRepo) Update(ctx context.Context, id string, fields map[string]interface{}) (*models.Player, error) {
	p, ok := r.players[id]
	if !ok {
		return nil, repositories.ErrPlayerNotFound
	}
	r.updates[id] = fields
	if class, ok := fields["current_class"].(string); ok {
		p.CurrentClass = class
	}
	if history, ok := fields["class_history"].([]models.ClassHistory); ok {
		p.ClassHistory = history
	}
	return &p, nil
}

func newTestPlayerService() (*PlayerService, *stubPlayerRepo) {
	players := &stubPlayerRepo{
		existing: map[string]bool{},
		players:  map[string]models.Player{},
		updates:  map[string]map[string]interface{}{},
	}
	teams := &stubTeamRepo{known: map[string]bool{"team-1": true}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewPlayerService(players, teams, logger), players
}

func TestPlayerCreate(t *testing.T) {
	svc, _ := newTestPlayerService()

	teamID := "team-1"
	player, err := svc.Create(context.Background(), models.PlayerCreate{
		Name:               "Tanaka",
		JDLID:              "JDL000123",
		TeamID:             &teamID,
		ParticipationCount: 3,
		CurrentClass:       "B",
	})
	require.NoError(t, err)
	assert.False(t, player.ID.IsZero())
	assert.Equal(t, "JDL000123", player.JDLID)
}

func TestPlayerCreate_Validation(t *testing.T) {
	svc, players := newTestPlayerService()
	ctx := context.Background()

	valid := models.PlayerCreate{Name: "Tanaka", JDLID: "JDL000123", ParticipationCount: 0, CurrentClass: "B"}

	noName := valid
	noName.Name = ""
	_, err := svc.Create(ctx, noName)
	assert.ErrorIs(t, err, ErrPlayerNameRequired)

	badJDL := valid
	badJDL.JDLID = "JDL12345" // пять цифр
	_, err = svc.Create(ctx, badJDL)
	assert.ErrorIs(t, err, ErrInvalidJDLID)

	badClass := valid
	badClass.CurrentClass = "S"
	_, err = svc.Create(ctx, badClass)
	assert.ErrorIs(t, err, ErrInvalidClass)

	negative := valid
	negative.ParticipationCount = -1
	_, err = svc.Create(ctx, negative)
	assert.ErrorIs(t, err, ErrNegativeParticipation)

	missingTeam := valid
	teamID := "nope"
	missingTeam.TeamID = &teamID
	_, err = svc.Create(ctx, missingTeam)
	assert.ErrorIs(t, err, ErrTeamNotFound)

	players.existing["JDL000123"] = true
	_, err = svc.Create(ctx, valid)
	assert.ErrorIs(t, err, ErrJDLIDConflict)
}

func TestPlayerUpdate_ClassChangeAppendsHistory(t *testing.T) {
	svc, players := newTestPlayerService()
	id := primitive.NewObjectID()
	players.players[id.Hex()] = models.Player{
		ID:           id,
		Name:         "Tanaka",
		JDLID:        "JDL000123",
		CurrentClass: "C",
	}

	newClass := "B"
	updated, err := svc.Update(context.Background(), id.Hex(), models.PlayerUpdate{CurrentClass: &newClass})
	require.NoError(t, err)
	assert.Equal(t, "B", updated.CurrentClass)

	fields := players.updates[id.Hex()]
	require.NotNil(t, fields)
	history, ok := fields["class_history"].([]models.ClassHistory)
	require.True(t, ok)
	require.Len(t, history, 1)
	assert.Equal(t, "C", history[0].OldClass)
	assert.Equal(t, "B", history[0].NewClass)
	assert.Equal(t, "Manual update", history[0].Reason)
	assert.Nil(t, history[0].ApprovedBy)
}

func TestPlayerUpdate_SameClassDoesNotTouchHistory(t *testing.T) {
	svc, players := newTestPlayerService()
	id := primitive.NewObjectID()
	players.players[id.Hex()] = models.Player{ID: id, Name: "Tanaka", CurrentClass: "C"}

	sameClass := "C"
	_, err := svc.Update(context.Background(), id.Hex(), models.PlayerUpdate{CurrentClass: &sameClass})
	require.NoError(t, err)
	assert.Empty(t, players.updates, "no fields changed, no update issued")
}

func TestPlayerUpdate_NotFound(t *testing.T) {
	svc, _ := newTestPlayerService()

	name := "Tanaka"
	_, err := svc.Update(context.Background(), primitive.NewObjectID().Hex(), models.PlayerUpdate{Name: &name})
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestPlayerGet_NotFound(t *testing.T) {
	svc, _ := newTestPlayerService()

	_, err := svc.Get(context.Background(), primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}
