package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdl-league/constructor-system/models"
	"github.com/jdl-league/constructor-system/repositories"
)

type memPermissionRepo struct {
	byID map[string]models.TeamPermission
}

func newMemPermissionRepo() *memPermissionRepo {
	return &memPermissionRepo{byID: map[string]models.TeamPermission{}}
}

func (r *memPermissionRepo) Create(ctx context.Context, p *models.TeamPermission) error {
	r.byID[p.ID] = *p
	return nil
}

func (r *memPermissionRepo) GetByID(ctx context.Context, id string) (*models.TeamPermission, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, repositories.ErrTeamPermissionNotFound
	}
	return &p, nil
}

func (r *memPermissionRepo) Update(ctx context.Context, id string, fields map[string]interface{}) (*models.TeamPermission, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, repositories.ErrTeamPermissionNotFound
	}
	if role, ok := fields["role"].(models.TeamRole); ok {
		p.Role = role
	}
	r.byID[id] = p
	return &p, nil
}

func (r *memPermissionRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return repositories.ErrTeamPermissionNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *memPermissionRepo) FindByUserAndTeam(ctx context.Context, userID, teamID string) (*models.TeamPermission, error) {
	for _, p := range r.byID {
		if p.UserID == userID && p.TeamID == teamID {
			found := p
			return &found, nil
		}
	}
	return nil, repositories.ErrTeamPermissionNotFound
}

func (r *memPermissionRepo) ListByTeam(ctx context.Context, teamID string, limit, offset int64) ([]models.TeamPermission, int64, error) {
	var out []models.TeamPermission
	for _, p := range r.byID {
		if p.TeamID == teamID {
			out = append(out, p)
		}
	}
	return out, int64(len(out)), nil
}

type memPermissionHistoryRepo struct {
	records []models.TeamPermissionHistory
}

func (r *memPermissionHistoryRepo) Create(ctx context.Context, h *models.TeamPermissionHistory) error {
	r.records = append(r.records, *h)
	return nil
}

func (r *memPermissionHistoryRepo) ListByTeam(ctx context.Context, teamID string, limit, offset int64) ([]models.TeamPermissionHistory, int64, error) {
	var out []models.TeamPermissionHistory
	for _, h := range r.records {
		if h.TeamID == teamID {
			out = append(out, h)
		}
	}
	return out, int64(len(out)), nil
}

type stubTeamRepo struct {
	repositories.TeamRepository
	known map[string]bool
}

func (r *stubTeamRepo) GetByID(ctx context.Context, id string) (*models.Team, error) {
	if !r.known[id] {
		return nil, repositories.ErrTeamNotFound
	}
	return &models.Team{Name: "Team " + id}, nil
}

func newTestPermissionService() (*TeamPermissionService, *memPermissionRepo, *memPermissionHistoryRepo) {
	permissions := newMemPermissionRepo()
	histories := &memPermissionHistoryRepo{}
	teams := &stubTeamRepo{known: map[string]bool{"team-1": true}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewTeamPermissionService(permissions, histories, teams, logger), permissions, histories
}

func TestTeamPermissionAdd(t *testing.T) {
	svc, permissions, histories := newTestPermissionService()

	permission, err := svc.Add(context.Background(), "admin-1", models.TeamPermissionCreate{
		UserID: "user-1",
		TeamID: "team-1",
		Role:   models.TeamRoleMember,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, permission.ID)
	assert.Equal(t, models.TeamRoleMember, permission.Role)
	assert.Len(t, permissions.byID, 1)

	require.Len(t, histories.records, 1)
	assert.Equal(t, models.PermissionActionAdd, histories.records[0].Action)
	assert.Equal(t, "admin-1", histories.records[0].ChangedBy)
}

func TestTeamPermissionAdd_Validation(t *testing.T) {
	svc, _, _ := newTestPermissionService()
	ctx := context.Background()

	_, err := svc.Add(ctx, "admin-1", models.TeamPermissionCreate{TeamID: "team-1", Role: models.TeamRoleMember})
	assert.ErrorIs(t, err, ErrUserIDRequired)

	_, err = svc.Add(ctx, "admin-1", models.TeamPermissionCreate{UserID: "user-1", Role: models.TeamRoleMember})
	assert.ErrorIs(t, err, ErrTeamIDRequired)

	_, err = svc.Add(ctx, "admin-1", models.TeamPermissionCreate{UserID: "user-1", TeamID: "team-1", Role: "captain"})
	assert.ErrorIs(t, err, ErrInvalidTeamRole)

	_, err = svc.Add(ctx, "admin-1", models.TeamPermissionCreate{UserID: "user-1", TeamID: "nope", Role: models.TeamRoleMember})
	assert.ErrorIs(t, err, ErrTeamNotFound)
}

func TestTeamPermissionAdd_DuplicatePair(t *testing.T) {
	svc, _, _ := newTestPermissionService()
	ctx := context.Background()

	input := models.TeamPermissionCreate{UserID: "user-1", TeamID: "team-1", Role: models.TeamRoleMember}
	_, err := svc.Add(ctx, "admin-1", input)
	require.NoError(t, err)

	_, err = svc.Add(ctx, "admin-1", input)
	assert.ErrorIs(t, err, ErrPermissionConflict)
}

func TestTeamPermissionUpdate(t *testing.T) {
	svc, _, histories := newTestPermissionService()
	ctx := context.Background()

	created, err := svc.Add(ctx, "admin-1", models.TeamPermissionCreate{
		UserID: "user-1", TeamID: "team-1", Role: models.TeamRoleMember,
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, "admin-2", created.ID, models.TeamPermissionUpdate{Role: models.TeamRoleManager})
	require.NoError(t, err)
	assert.Equal(t, models.TeamRoleManager, updated.Role)

	require.Len(t, histories.records, 2)
	assert.Equal(t, models.PermissionActionUpdate, histories.records[1].Action)
	assert.Equal(t, "admin-2", histories.records[1].ChangedBy)
}

func TestTeamPermissionUpdate_NotFound(t *testing.T) {
	svc, _, _ := newTestPermissionService()

	_, err := svc.Update(context.Background(), "admin-1", "missing", models.TeamPermissionUpdate{Role: models.TeamRoleOwner})
	assert.ErrorIs(t, err, ErrPermissionNotFound)
}

func TestTeamPermissionRemove(t *testing.T) {
	svc, permissions, histories := newTestPermissionService()
	ctx := context.Background()

	created, err := svc.Add(ctx, "admin-1", models.TeamPermissionCreate{
		UserID: "user-1", TeamID: "team-1", Role: models.TeamRoleMember,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, "admin-1", created.ID))
	assert.Empty(t, permissions.byID)

	require.Len(t, histories.records, 2)
	assert.Equal(t, models.PermissionActionRemove, histories.records[1].Action)

	assert.ErrorIs(t, svc.Remove(ctx, "admin-1", created.ID), ErrPermissionNotFound)
}
