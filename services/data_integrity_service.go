package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jdl-league/constructor-system/repositories"
)

// IntegrityIssue describes one inconsistency found in the stored data.
type IntegrityIssue struct {
	Check  string `json:"check"`
	Detail string `json:"detail"`
}

// IntegrityReport is the result of one full scan. Issues are data problems;
// Errors are checks that could not run at all.
type IntegrityReport struct {
	CheckedAt time.Time        `json:"checked_at"`
	Players   int              `json:"players_scanned"`
	Teams     int              `json:"teams_scanned"`
	Issues    []IntegrityIssue `json:"issues"`
	Errors    []string         `json:"errors"`
}

func (r *IntegrityReport) Clean() bool {
	return len(r.Issues) == 0 && len(r.Errors) == 0
}

// DataIntegrityService scans the players and teams collections for
// inconsistencies that normal request validation cannot prevent: duplicate
// jdl_id values and players pointing at teams that no longer exist.
type DataIntegrityService struct {
	players repositories.PlayerRepository
	teams   repositories.TeamRepository
	logger  *slog.Logger
}

func NewDataIntegrityService(players repositories.PlayerRepository, teams repositories.TeamRepository, logger *slog.Logger) *DataIntegrityService {
	return &DataIntegrityService{players: players, teams: teams, logger: logger}
}

// RunAllChecks loads both collections concurrently and evaluates every check.
// A collection that fails to load is reported as a run error and its checks
// are skipped; the other collection's checks still run.
func (s *DataIntegrityService) RunAllChecks(ctx context.Context) *IntegrityReport {
	report := &IntegrityReport{
		CheckedAt: time.Now().UTC(),
		Issues:    []IntegrityIssue{},
		Errors:    []string{},
	}

	var (
		refs       []repositories.PlayerRef
		teamIDs    []string
		playersErr error
		teamsErr   error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		refs, playersErr = s.players.StreamRefs(gctx)
		return nil
	})
	g.Go(func() error {
		teamIDs, teamsErr = s.teams.ListIDs(gctx)
		return nil
	})
	_ = g.Wait()

	if playersErr != nil {
		msg := fmt.Sprintf("failed to scan players: %v", playersErr)
		s.logger.Error(msg)
		report.Errors = append(report.Errors, msg)
	}
	if teamsErr != nil {
		msg := fmt.Sprintf("failed to scan teams: %v", teamsErr)
		s.logger.Error(msg)
		report.Errors = append(report.Errors, msg)
	}

	report.Players = len(refs)
	report.Teams = len(teamIDs)

	if playersErr == nil {
		report.Issues = append(report.Issues, checkDuplicateJDLIDs(refs)...)
	}
	if playersErr == nil && teamsErr == nil {
		report.Issues = append(report.Issues, checkBrokenTeamReferences(refs, teamIDs)...)
	}

	s.logger.Info("integrity scan finished",
		slog.Int("players", report.Players),
		slog.Int("teams", report.Teams),
		slog.Int("issues", len(report.Issues)),
		slog.Int("errors", len(report.Errors)))
	return report
}

func checkDuplicateJDLIDs(refs []repositories.PlayerRef) []IntegrityIssue {
	byJDLID := make(map[string][]string)
	for _, ref := range refs {
		if ref.JDLID == "" {
			continue
		}
		byJDLID[ref.JDLID] = append(byJDLID[ref.JDLID], ref.DocID)
	}

	var duplicated []string
	for jdlID, docs := range byJDLID {
		if len(docs) > 1 {
			duplicated = append(duplicated, jdlID)
		}
	}
	sort.Strings(duplicated)

	issues := make([]IntegrityIssue, 0, len(duplicated))
	for _, jdlID := range duplicated {
		docs := byJDLID[jdlID]
		sort.Strings(docs)
		issues = append(issues, IntegrityIssue{
			Check:  "duplicate_jdl_id",
			Detail: fmt.Sprintf("jdl_id %s is used by %d player documents: %v", jdlID, len(docs), docs),
		})
	}
	return issues
}

func checkBrokenTeamReferences(refs []repositories.PlayerRef, teamIDs []string) []IntegrityIssue {
	known := make(map[string]struct{}, len(teamIDs))
	for _, id := range teamIDs {
		known[id] = struct{}{}
	}

	var issues []IntegrityIssue
	for _, ref := range refs {
		if ref.TeamID == "" {
			continue
		}
		if _, ok := known[ref.TeamID]; !ok {
			issues = append(issues, IntegrityIssue{
				Check:  "broken_team_reference",
				Detail: fmt.Sprintf("player %s references missing team %s", ref.DocID, ref.TeamID),
			})
		}
	}
	return issues
}
