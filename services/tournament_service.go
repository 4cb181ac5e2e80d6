package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jdl-league/constructor-system/models"
	"github.com/jdl-league/constructor-system/repositories"
)

// TournamentService инкапсулирует бизнес-логику для турниров и заявок.
type TournamentService struct {
	tournaments repositories.TournamentRepository
	players     repositories.PlayerRepository
	teams       repositories.TeamRepository
	logger      *slog.Logger
}

func NewTournamentService(
	tournaments repositories.TournamentRepository,
	players repositories.PlayerRepository,
	teams repositories.TeamRepository,
	logger *slog.Logger,
) *TournamentService {
	return &TournamentService{
		tournaments: tournaments,
		players:     players,
		teams:       teams,
		logger:      logger,
	}
}

func (s *TournamentService) Create(ctx context.Context, input models.TournamentCreate) (*models.Tournament, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: tournament name is required", ErrValidationFailed)
	}

	status := input.Status
	if status == "" {
		status = models.TournamentStatusDraft
	}
	if !status.Valid() {
		return nil, ErrInvalidTournamentStatus
	}

	if err := validateTournamentDates(input.StartDate, input.EndDate, input.EntryStartDate, input.EntryEndDate); err != nil {
		return nil, err
	}

	tournament := &models.Tournament{
		Name:             input.Name,
		Description:      input.Description,
		StartDate:        input.StartDate,
		EndDate:          input.EndDate,
		EntryStartDate:   input.EntryStartDate,
		EntryEndDate:     input.EntryEndDate,
		Venue:            input.Venue,
		EntryFee:         input.EntryFee,
		Status:           status,
		EntryRestriction: input.EntryRestriction,
		Entries:          []models.Entry{},
		CurrentEntries:   0,
	}
	if err := s.tournaments.Create(ctx, tournament); err != nil {
		return nil, err
	}

	s.logger.Info("tournament created",
		slog.String("tournament_id", tournament.ID.Hex()),
		slog.String("status", string(status)))
	return tournament, nil
}

func (s *TournamentService) Get(ctx context.Context, id string) (*models.Tournament, error) {
	tournament, err := s.tournaments.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrTournamentNotFound) {
		return nil, ErrTournamentNotFound
	}
	return tournament, err
}

func (s *TournamentService) Update(ctx context.Context, id string, input models.TournamentUpdate) (*models.Tournament, error) {
	current, err := s.tournaments.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrTournamentNotFound) {
		return nil, ErrTournamentNotFound
	}
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, fmt.Errorf("%w: tournament name is required", ErrValidationFailed)
		}
		fields["name"] = *input.Name
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.Venue != nil {
		fields["venue"] = *input.Venue
	}
	if input.EntryFee != nil {
		fields["entry_fee"] = *input.EntryFee
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrInvalidTournamentStatus
		}
		fields["status"] = *input.Status
	}
	if input.EntryRestriction != nil {
		fields["entry_restriction"] = *input.EntryRestriction
	}

	// Даты проверяются комбинированно с уже сохранёнными значениями.
	startDate := current.StartDate
	endDate := current.EndDate
	entryStart := current.EntryStartDate
	entryEnd := current.EntryEndDate
	if input.StartDate != nil {
		startDate = *input.StartDate
		fields["start_date"] = startDate
	}
	if input.EndDate != nil {
		endDate = *input.EndDate
		fields["end_date"] = endDate
	}
	if input.EntryStartDate != nil {
		entryStart = *input.EntryStartDate
		fields["entry_start_date"] = entryStart
	}
	if input.EntryEndDate != nil {
		entryEnd = *input.EntryEndDate
		fields["entry_end_date"] = entryEnd
	}
	if err := validateTournamentDates(startDate, endDate, entryStart, entryEnd); err != nil {
		return nil, err
	}

	if len(fields) == 0 {
		return current, nil
	}
	fields["updated_at"] = time.Now().UTC()

	tournament, err := s.tournaments.Update(ctx, id, fields)
	if errors.Is(err, repositories.ErrTournamentNotFound) {
		return nil, ErrTournamentNotFound
	}
	return tournament, err
}

func (s *TournamentService) List(ctx context.Context, status *models.TournamentStatus, limit, offset int64) (*models.TournamentList, error) {
	if status != nil && !status.Valid() {
		return nil, ErrInvalidTournamentStatus
	}

	tournaments, total, err := s.tournaments.List(ctx, status, limit, offset)
	if err != nil {
		return nil, err
	}
	if tournaments == nil {
		tournaments = []models.Tournament{}
	}
	return &models.TournamentList{Items: tournaments, Total: total}, nil
}

// CreateEntry регистрирует игрока в турнире от имени менеджера его команды.
func (s *TournamentService) CreateEntry(ctx context.Context, actorID, actorRole, tournamentID string, input models.EntryCreate) (*models.Tournament, error) {
	tournament, err := s.tournaments.GetByID(ctx, tournamentID)
	if errors.Is(err, repositories.ErrTournamentNotFound) {
		return nil, ErrTournamentNotFound
	}
	if err != nil {
		return nil, err
	}

	if tournament.Status != models.TournamentStatusEntryOpen {
		return nil, ErrEntryNotOpen
	}
	now := time.Now().UTC()
	if now.Before(tournament.EntryStartDate) {
		return nil, ErrEntryNotOpen
	}
	if now.After(tournament.EntryEndDate) {
		return nil, ErrEntryClosed
	}
	if max := tournament.EntryRestriction.MaxPlayers; max > 0 && tournament.CurrentEntries >= max {
		return nil, ErrTournamentFull
	}

	player, err := s.players.GetByID(ctx, input.PlayerID)
	if errors.Is(err, repositories.ErrPlayerNotFound) {
		return nil, ErrPlayerNotFound
	}
	if err != nil {
		return nil, err
	}
	if player.TeamID == nil || *player.TeamID != input.TeamID {
		return nil, ErrPlayerNotInTeam
	}

	team, err := s.teams.GetByID(ctx, input.TeamID)
	if errors.Is(err, repositories.ErrTeamNotFound) {
		return nil, ErrTeamNotFound
	}
	if err != nil {
		return nil, err
	}
	if actorRole != models.RoleAdmin && team.ManagerID != actorID {
		return nil, ErrManagerOnly
	}

	for _, existing := range tournament.Entries {
		if existing.PlayerID == input.PlayerID {
			return nil, ErrAlreadyEntered
		}
	}

	if err := checkClassRestrictions(tournament.EntryRestriction.ClassRestrictions, player); err != nil {
		return nil, err
	}

	entry := models.Entry{
		PlayerID:  input.PlayerID,
		TeamID:    input.TeamID,
		EntryDate: now,
		Status:    "confirmed",
	}
	updated, err := s.tournaments.AppendEntry(ctx, tournamentID, entry, now)
	if errors.Is(err, repositories.ErrTournamentNotFound) {
		return nil, ErrTournamentNotFound
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("tournament entry created",
		slog.String("tournament_id", tournamentID),
		slog.String("player_id", input.PlayerID),
		slog.String("team_id", input.TeamID))
	return updated, nil
}

func validateTournamentDates(start, end, entryStart, entryEnd time.Time) error {
	if !end.After(start) {
		return ErrInvalidTournamentDates
	}
	if !entryEnd.After(entryStart) || entryEnd.After(start) {
		return ErrInvalidEntryDates
	}
	return nil
}

// checkClassRestrictions пропускает игрока, только если для его класса
// задано ограничение и его participation_count попадает в интервал. Пустой
// список ограничений означает «все классы допущены».
func checkClassRestrictions(restrictions []models.ClassRestriction, player *models.Player) error {
	if len(restrictions) == 0 {
		return nil
	}
	for _, r := range restrictions {
		if r.ClassName != player.CurrentClass {
			continue
		}
		if player.ParticipationCount < r.MinParticipation {
			return fmt.Errorf("%w: participation count %d is below the class %s minimum %d",
				ErrClassNotEligible, player.ParticipationCount, r.ClassName, r.MinParticipation)
		}
		if r.MaxParticipation != nil && player.ParticipationCount > *r.MaxParticipation {
			return fmt.Errorf("%w: participation count %d exceeds the class %s maximum %d",
				ErrClassNotEligible, player.ParticipationCount, r.ClassName, *r.MaxParticipation)
		}
		return nil
	}
	return fmt.Errorf("%w: class %s is not allowed in this tournament", ErrClassNotEligible, player.CurrentClass)
}
