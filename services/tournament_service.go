package services

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/courtside/tournament-server/brackets"
	"github.com/courtside/tournament-server/models"
	"github.com/courtside/tournament-server/repositories"
	"github.com/courtside/tournament-server/scoring"
	"github.com/courtside/tournament-server/standings"
)

type CreateTournamentInput struct {
	Name         string                  `json:"name"`
	Config       models.TournamentConfig `json:"config"`
	Type         models.TournamentType   `json:"type"`
	Draft        bool                    `json:"draft"`
	StartDate    *time.Time              `json:"start_date,omitempty"`
	Participants []ParticipantInput      `json:"participants,omitempty"`
}

type UpdateTournamentDetailsInput struct {
	Name      *string    `json:"name,omitempty"`
	Draft     *bool      `json:"draft,omitempty"`
	StartDate *time.Time `json:"start_date,omitempty"`
}

type ParticipantInput struct {
	PlayerIDs []int `json:"player_ids"`
	Seeded    bool  `json:"seeded"`
}

// SubmitResultInput carries a client-declared result. The declared winner is
// never trusted: the scoring engine recomputes it and a mismatch aborts the
// submission.
type SubmitResultInput struct {
	Sets          []models.SetScore     `json:"sets"`
	MatchTiebreak *models.TiebreakScore `json:"match_tiebreak,omitempty"`
	WinnerID      uuid.UUID             `json:"winner_id"`
	RunnerUpID    *uuid.UUID            `json:"runner_up_id,omitempty"`
}

// TournamentService is the lifecycle controller: every mutation validates
// fully, then persists the whole aggregate in one optimistic write. Nothing
// is retried internally; repositories.ErrConcurrentUpdate propagates to the
// caller, who may re-invoke the operation.
type TournamentService interface {
	Create(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error)
	GetByID(ctx context.Context, id int, role models.UserRole) (*models.Tournament, error)
	List(ctx context.Context, filter repositories.ListTournamentsFilter, role models.UserRole) ([]*models.Tournament, error)
	UpdateDetails(ctx context.Context, id int, input UpdateTournamentDetailsInput) (*models.Tournament, error)
	SetParticipants(ctx context.Context, id int, inputs []ParticipantInput) (*models.Tournament, error)
	Delete(ctx context.Context, id int) error

	Start(ctx context.Context, id int) (*models.Tournament, error)
	SubmitMatchResult(ctx context.Context, id int, matchID uuid.UUID, input SubmitResultInput) (*models.Tournament, error)
	GenerateKnockout(ctx context.Context, id int) (*models.Tournament, error)
	AdvanceRound(ctx context.Context, id int) (*models.Tournament, error)
	Finish(ctx context.Context, id int) (*models.Tournament, error)
	ResolveGroupTie(ctx context.Context, id int, groupName string) (*models.Tournament, error)

	StartDueTournaments(ctx context.Context) error
}

type tournamentService struct {
	tournamentRepo repositories.TournamentRepository
	playerRepo     repositories.PlayerRepository
	hub            *brackets.Hub
	rng            *rand.Rand
	logger         *slog.Logger
}

func NewTournamentService(
	tournamentRepo repositories.TournamentRepository,
	playerRepo repositories.PlayerRepository,
	hub *brackets.Hub,
	rng *rand.Rand,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		tournamentRepo: tournamentRepo,
		playerRepo:     playerRepo,
		hub:            hub,
		rng:            rng,
		logger:         logger,
	}
}

func (s *tournamentService) Create(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error) {
	if input.Name == "" {
		return nil, ErrTournamentNameRequired
	}
	if input.Type != models.TypeRoundRobin && input.Type != models.TypeElimination {
		return nil, fmt.Errorf("%w: unknown tournament type %q", ErrInvalidConfig, input.Type)
	}

	cfg := input.Config
	applyConfigDefaults(&cfg)
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	participants, err := s.buildParticipants(ctx, input.Participants, cfg.Mode)
	if err != nil {
		return nil, err
	}

	t := &models.Tournament{
		Name:         input.Name,
		Config:       cfg,
		Type:         input.Type,
		Status:       models.StatusPending,
		Draft:        input.Draft,
		StartDate:    input.StartDate,
		Participants: participants,
	}
	if err := s.tournamentRepo.Create(ctx, t); err != nil {
		return nil, mapTournamentRepoError(err)
	}
	return t, nil
}

func (s *tournamentService) GetByID(ctx context.Context, id int, role models.UserRole) (*models.Tournament, error) {
	t, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapTournamentRepoError(err)
	}
	// Drafts are visible only to roles that can manage tournaments.
	if t.Draft && !role.CanManageTournaments() {
		return nil, ErrForbiddenOperation
	}
	return t, nil
}

func (s *tournamentService) List(ctx context.Context, filter repositories.ListTournamentsFilter, role models.UserRole) ([]*models.Tournament, error) {
	if !role.CanManageTournaments() {
		published := false
		filter.Draft = &published
	}
	tournaments, err := s.tournamentRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return tournaments, nil
}

func (s *tournamentService) UpdateDetails(ctx context.Context, id int, input UpdateTournamentDetailsInput) (*models.Tournament, error) {
	t, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapTournamentRepoError(err)
	}
	if t.Status == models.StatusFinished {
		return nil, ErrTournamentFinished
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, ErrTournamentNameRequired
		}
		t.Name = *input.Name
	}
	if input.Draft != nil {
		t.Draft = *input.Draft
	}
	if input.StartDate != nil {
		t.StartDate = input.StartDate
	}

	if err := s.tournamentRepo.Save(ctx, t); err != nil {
		return nil, mapTournamentRepoError(err)
	}
	return t, nil
}

// SetParticipants replaces the entrant list, or just the seed flags, during
// setup. Once groups or rounds exist the list is locked.
func (s *tournamentService) SetParticipants(ctx context.Context, id int, inputs []ParticipantInput) (*models.Tournament, error) {
	t, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapTournamentRepoError(err)
	}
	if t.StructureGenerated() {
		return nil, ErrStructureLocked
	}
	if t.Status != models.StatusPending {
		return nil, ErrInvalidStatusTransition
	}

	participants, err := s.buildParticipants(ctx, inputs, t.Config.Mode)
	if err != nil {
		return nil, err
	}
	t.Participants = participants

	if err := s.tournamentRepo.Save(ctx, t); err != nil {
		return nil, mapTournamentRepoError(err)
	}
	return t, nil
}

func (s *tournamentService) Delete(ctx context.Context, id int) error {
	t, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		return mapTournamentRepoError(err)
	}
	if !t.Draft {
		return ErrTournamentNotDraft
	}
	return mapTournamentRepoError(s.tournamentRepo.Delete(ctx, id))
}

// Start generates the match structure and moves the tournament to
// in_progress. Round-robin tournaments get their groups, elimination
// tournaments their first round.
func (s *tournamentService) Start(ctx context.Context, id int) (*models.Tournament, error) {
	t, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapTournamentRepoError(err)
	}
	started, err := s.start(ctx, t)
	if err != nil {
		return nil, err
	}
	return started, nil
}

func (s *tournamentService) start(ctx context.Context, t *models.Tournament) (*models.Tournament, error) {
	if t.Draft {
		return nil, ErrDraftNotStartable
	}
	if t.Status != models.StatusPending {
		return nil, ErrInvalidStatusTransition
	}
	if len(t.Participants) < 2 {
		return nil, brackets.ErrNotEnoughParticipants
	}
	if err := s.verifyPlayersExist(ctx, t.Participants); err != nil {
		return nil, err
	}

	switch t.Type {
	case models.TypeRoundRobin:
		groups, err := brackets.BuildGroups(t.Participants, t.Config.GroupSize, s.rng)
		if err != nil {
			return nil, err
		}
		t.Groups = groups
	case models.TypeElimination:
		round, err := brackets.BuildInitialRound(t.Participants, s.rng)
		if err != nil {
			return nil, err
		}
		t.Rounds = []models.Round{round}
	default:
		return nil, fmt.Errorf("%w: unknown tournament type %q", ErrInvalidConfig, t.Type)
	}

	t.Status = models.StatusInProgress
	if err := s.tournamentRepo.Save(ctx, t); err != nil {
		return nil, mapTournamentRepoError(err)
	}
	s.logger.Info("tournament started",
		slog.Int("tournament_id", t.ID),
		slog.String("type", string(t.Type)),
		slog.Int("participants", len(t.Participants)))
	return t, nil
}

// SubmitMatchResult validates and records one match result. Every check runs
// before the single aggregate write, so a failure leaves no partial state.
func (s *tournamentService) SubmitMatchResult(ctx context.Context, id int, matchID uuid.UUID, input SubmitResultInput) (*models.Tournament, error) {
	t, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapTournamentRepoError(err)
	}
	switch t.Status {
	case models.StatusPending:
		return nil, ErrTournamentNotStarted
	case models.StatusFinished:
		return nil, ErrTournamentFinished
	}

	match, group := t.FindMatch(matchID)
	if match == nil {
		return nil, ErrMatchNotFound
	}
	if match.IsBye() {
		return nil, fmt.Errorf("%w: bye matches are decided automatically", ErrValidationFailed)
	}
	if !match.Involves(input.WinnerID) {
		return nil, fmt.Errorf("%w: winner %s is not in this match", ErrValidationFailed, input.WinnerID)
	}

	slotA := t.ParticipantByID(*match.SlotA)
	slotB := t.ParticipantByID(*match.SlotB)
	if slotA == nil || slotB == nil {
		return nil, standings.ErrUnknownParticipant
	}
	if err := s.verifyPlayersExist(ctx, []models.Participant{*slotA, *slotB}); err != nil {
		return nil, err
	}

	cfg := t.Config
	if len(input.Sets) == 0 {
		return nil, fmt.Errorf("%w: at least one set is required", ErrValidationFailed)
	}
	if len(input.Sets) > cfg.SetsPerMatch {
		return nil, fmt.Errorf("%w: at most %d sets are allowed", ErrValidationFailed, cfg.SetsPerMatch)
	}
	for i, set := range input.Sets {
		if err := scoring.ValidateSet(set, cfg.GamesPerSet, cfg.TiebreakMin); err != nil {
			return nil, fmt.Errorf("%w: set %d: %w", ErrValidationFailed, i+1, err)
		}
	}

	side, err := scoring.MatchWinner(input.Sets, cfg.SetsPerMatch, input.MatchTiebreak, cfg.MatchTiebreakMin)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}
	computedWinner := *match.SlotA
	computedLoser := *match.SlotB
	if side == scoring.SideB {
		computedWinner, computedLoser = computedLoser, computedWinner
	}
	if computedWinner != input.WinnerID {
		return nil, ErrWinnerMismatch
	}

	result := &models.Result{
		Sets:          input.Sets,
		MatchTiebreak: input.MatchTiebreak,
		WinnerID:      computedWinner,
	}

	isFinal := t.InFinalRound(matchID)
	if input.RunnerUpID != nil {
		if !isFinal {
			return nil, fmt.Errorf("%w: runner-up can only be declared on the final match", ErrValidationFailed)
		}
		if *input.RunnerUpID != computedLoser {
			return nil, fmt.Errorf("%w: declared runner-up is not the losing side", ErrValidationFailed)
		}
		result.RunnerUpID = input.RunnerUpID
	}

	match.Result = result

	if group != nil {
		table, err := standings.Compute(group)
		if err != nil {
			return nil, err
		}
		group.Standings = table
	}

	// The final result records winner and runner-up on the aggregate, but
	// finishing the tournament stays a separate explicit action.
	if isFinal && result.RunnerUpID != nil {
		winner := computedWinner
		t.WinnerID = &winner
		t.RunnerUpID = result.RunnerUpID
	}

	if err := s.tournamentRepo.Save(ctx, t); err != nil {
		return nil, mapTournamentRepoError(err)
	}

	s.appendMatchHistory(ctx, t, slotA, slotB, result)
	if isFinal && result.RunnerUpID != nil {
		s.appendAchievements(ctx, t)
	}

	s.broadcast(t.ID, brackets.EventResultRecorded, map[string]interface{}{
		"tournament_id": t.ID,
		"match_id":      matchID,
		"winner_id":     computedWinner,
	})
	return t, nil
}

// GenerateKnockout builds the first knockout round from the group leaders.
// Valid only for round-robin tournaments whose groups are all decided and
// that have no rounds yet.
func (s *tournamentService) GenerateKnockout(ctx context.Context, id int) (*models.Tournament, error) {
	t, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapTournamentRepoError(err)
	}
	if t.Type != models.TypeRoundRobin {
		return nil, ErrNotRoundRobin
	}
	if t.Status != models.StatusInProgress {
		return nil, ErrTournamentNotStarted
	}
	if len(t.Rounds) > 0 {
		return nil, ErrKnockoutAlreadyGenerated
	}

	round, err := brackets.BuildKnockoutFromGroups(t.Participants, t.Groups, t.Config.AdvancePerGroup, s.rng)
	if err != nil {
		return nil, err
	}
	t.Rounds = append(t.Rounds, round)

	if err := s.tournamentRepo.Save(ctx, t); err != nil {
		return nil, mapTournamentRepoError(err)
	}
	s.broadcast(t.ID, brackets.EventKnockoutGenerated, t)
	return t, nil
}

// AdvanceRound pairs the winners of the last round into the next one.
func (s *tournamentService) AdvanceRound(ctx context.Context, id int) (*models.Tournament, error) {
	t, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapTournamentRepoError(err)
	}
	if t.Status != models.StatusInProgress {
		return nil, ErrTournamentNotStarted
	}
	last := t.LastRound()
	if last == nil {
		return nil, ErrNoRoundsGenerated
	}

	next, finished, err := brackets.NextRound(*last)
	if err != nil {
		return nil, err
	}
	if finished {
		return nil, ErrBracketComplete
	}
	t.Rounds = append(t.Rounds, *next)

	if err := s.tournamentRepo.Save(ctx, t); err != nil {
		return nil, mapTournamentRepoError(err)
	}
	s.broadcast(t.ID, brackets.EventRoundAdvanced, t)
	return t, nil
}

// Finish declares the tournament winner and runner-up and moves the status
// to finished. For brackets the final match decides; for pure round-robin
// tournaments the top two of the pooled standings do.
func (s *tournamentService) Finish(ctx context.Context, id int) (*models.Tournament, error) {
	t, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapTournamentRepoError(err)
	}
	switch t.Status {
	case models.StatusPending:
		return nil, ErrTournamentNotStarted
	case models.StatusFinished:
		return nil, ErrTournamentFinished
	}

	alreadyRecorded := t.WinnerID != nil && t.RunnerUpID != nil

	winner, runnerUp, err := s.resolvePodium(t)
	if err != nil {
		return nil, err
	}

	t.WinnerID = &winner
	t.RunnerUpID = &runnerUp
	t.Status = models.StatusFinished

	if err := s.tournamentRepo.Save(ctx, t); err != nil {
		return nil, mapTournamentRepoError(err)
	}
	if !alreadyRecorded {
		s.appendAchievements(ctx, t)
	}

	s.logger.Info("tournament finished",
		slog.Int("tournament_id", t.ID),
		slog.String("winner_id", winner.String()))
	s.broadcast(t.ID, brackets.EventTournamentFinished, map[string]interface{}{
		"tournament_id": t.ID,
		"winner_id":     winner,
		"runner_up_id":  runnerUp,
	})
	return t, nil
}

func (s *tournamentService) resolvePodium(t *models.Tournament) (winner, runnerUp uuid.UUID, err error) {
	if last := t.LastRound(); last != nil {
		if len(last.Matches) != 1 || !last.Matches[0].Decided() {
			return uuid.Nil, uuid.Nil, ErrIncompleteResults
		}
		final := last.Matches[0]
		winner = final.Result.WinnerID
		if final.Result.RunnerUpID != nil {
			return winner, *final.Result.RunnerUpID, nil
		}
		// The runner-up of a final is its losing side.
		if final.SlotA != nil && *final.SlotA != winner {
			return winner, *final.SlotA, nil
		}
		if final.SlotB != nil && *final.SlotB != winner {
			return winner, *final.SlotB, nil
		}
		return uuid.Nil, uuid.Nil, ErrIncompleteResults
	}

	if t.Type != models.TypeRoundRobin || !t.GroupsComplete() || len(t.Groups) == 0 {
		return uuid.Nil, uuid.Nil, ErrIncompleteResults
	}

	pooled := []models.StandingEntry{}
	for i := range t.Groups {
		table, computeErr := standings.Compute(&t.Groups[i])
		if computeErr != nil {
			return uuid.Nil, uuid.Nil, computeErr
		}
		pooled = append(pooled, table...)
	}
	pooled = rankPooled(pooled)
	if len(pooled) < 2 {
		return uuid.Nil, uuid.Nil, ErrIncompleteResults
	}
	return pooled[0].ParticipantID, pooled[1].ParticipantID, nil
}

// ResolveGroupTie randomly reorders fully tied standings blocks of one
// group. This is a deliberate admin action, never an implicit part of
// standings computation.
func (s *tournamentService) ResolveGroupTie(ctx context.Context, id int, groupName string) (*models.Tournament, error) {
	t, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapTournamentRepoError(err)
	}

	var group *models.Group
	for i := range t.Groups {
		if t.Groups[i].Name == groupName {
			group = &t.Groups[i]
			break
		}
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}

	table, err := standings.Compute(group)
	if err != nil {
		return nil, err
	}
	group.Standings = standings.BreakTies(table, s.rng)

	if err := s.tournamentRepo.Save(ctx, t); err != nil {
		return nil, mapTournamentRepoError(err)
	}
	return t, nil
}

// StartDueTournaments starts every non-draft pending tournament whose start
// date has passed. Invoked by the scheduler; failures are logged per
// tournament and do not stop the sweep.
func (s *tournamentService) StartDueTournaments(ctx context.Context) error {
	due, err := s.tournamentRepo.ListDueForStart(ctx)
	if err != nil {
		return fmt.Errorf("failed to list tournaments due for start: %w", err)
	}
	for _, t := range due {
		if _, err := s.start(ctx, t); err != nil {
			s.logger.Error("scheduler: failed to start tournament",
				slog.Int("tournament_id", t.ID), slog.Any("error", err))
		}
	}
	return nil
}

func (s *tournamentService) buildParticipants(ctx context.Context, inputs []ParticipantInput, mode models.PlayMode) ([]models.Participant, error) {
	playersPerSide := 1
	if mode == models.ModeDoubles {
		playersPerSide = 2
	}

	participants := make([]models.Participant, 0, len(inputs))
	for _, in := range inputs {
		if len(in.PlayerIDs) != playersPerSide {
			return nil, fmt.Errorf("%w: %s participants need exactly %d player(s)", ErrInvalidConfig, mode, playersPerSide)
		}
		p := models.NewParticipant(in.PlayerIDs...)
		p.Seeded = in.Seeded
		participants = append(participants, p)
	}

	if err := s.verifyPlayersExist(ctx, participants); err != nil {
		return nil, err
	}
	return participants, nil
}

func (s *tournamentService) verifyPlayersExist(ctx context.Context, participants []models.Participant) error {
	ids := []int{}
	seen := map[int]bool{}
	for _, p := range participants {
		for _, playerID := range p.PlayerIDs {
			if !seen[playerID] {
				seen[playerID] = true
				ids = append(ids, playerID)
			}
		}
	}
	existing, err := s.playerRepo.FindExistingIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to verify players: %w", err)
	}
	for _, playerID := range ids {
		if !existing[playerID] {
			return fmt.Errorf("%w: player %d", ErrUnknownPlayer, playerID)
		}
	}
	return nil
}

// appendMatchHistory records the played match in each player's history.
// Best effort once the aggregate write succeeded: failures are logged, not
// surfaced.
func (s *tournamentService) appendMatchHistory(ctx context.Context, t *models.Tournament, slotA, slotB *models.Participant, result *models.Result) {
	score := formatScore(result)
	now := time.Now().UTC()

	record := func(p, opponent *models.Participant, won bool) {
		outcome := "L " + score
		if won {
			outcome = "W " + score
		}
		for _, playerID := range p.PlayerIDs {
			entry := models.HistoryEntry{
				TournamentID: t.ID,
				Result:       outcome,
				Date:         now,
			}
			if len(opponent.PlayerIDs) > 0 {
				opponentID := opponent.PlayerIDs[0]
				entry.OpponentID = &opponentID
			}
			if err := s.playerRepo.AppendHistory(ctx, playerID, entry); err != nil {
				s.logger.Warn("failed to append match history",
					slog.Int("player_id", playerID), slog.Any("error", err))
			}
		}
	}

	wonA := result.WinnerID == slotA.ID
	record(slotA, slotB, wonA)
	record(slotB, slotA, !wonA)
}

func (s *tournamentService) appendAchievements(ctx context.Context, t *models.Tournament) {
	now := time.Now().UTC()
	appendFor := func(participantID uuid.UUID, position int) {
		p := t.ParticipantByID(participantID)
		if p == nil {
			return
		}
		for _, playerID := range p.PlayerIDs {
			pos := position
			entry := models.HistoryEntry{TournamentID: t.ID, Position: &pos, Date: now}
			if err := s.playerRepo.AppendHistory(ctx, playerID, entry); err != nil {
				s.logger.Warn("failed to append achievement",
					slog.Int("player_id", playerID), slog.Any("error", err))
			}
		}
	}
	if t.WinnerID != nil {
		appendFor(*t.WinnerID, 1)
	}
	if t.RunnerUpID != nil {
		appendFor(*t.RunnerUpID, 2)
	}
}

func (s *tournamentService) broadcast(tournamentID int, eventType string, payload interface{}) {
	if s.hub == nil {
		return
	}
	s.hub.Broadcast(brackets.RoomID(tournamentID), eventType, payload)
}
