package services

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtside/tournament-server/models"
	"github.com/courtside/tournament-server/repositories"
)

// fakeTournamentRepo keeps aggregates in memory and hands out deep copies,
// the same isolation the JSONB document store provides.
type fakeTournamentRepo struct {
	tournaments map[int]*models.Tournament
	nextID      int
	saveErr     error
}

func newFakeTournamentRepo() *fakeTournamentRepo {
	return &fakeTournamentRepo{tournaments: map[int]*models.Tournament{}, nextID: 1}
}

func cloneTournament(t *models.Tournament) *models.Tournament {
	raw, err := json.Marshal(t)
	if err != nil {
		panic(err)
	}
	out := &models.Tournament{}
	if err := json.Unmarshal(raw, out); err != nil {
		panic(err)
	}
	out.Revision = t.Revision
	return out
}

func (r *fakeTournamentRepo) Create(_ context.Context, t *models.Tournament) error {
	t.ID = r.nextID
	r.nextID++
	t.Revision = 1
	t.CreatedAt = time.Now().UTC()
	r.tournaments[t.ID] = cloneTournament(t)
	return nil
}

func (r *fakeTournamentRepo) GetByID(_ context.Context, id int) (*models.Tournament, error) {
	t, ok := r.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	return cloneTournament(t), nil
}

func (r *fakeTournamentRepo) List(_ context.Context, filter repositories.ListTournamentsFilter) ([]*models.Tournament, error) {
	out := []*models.Tournament{}
	for _, t := range r.tournaments {
		if filter.Draft != nil && t.Draft != *filter.Draft {
			continue
		}
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		out = append(out, cloneTournament(t))
	}
	return out, nil
}

func (r *fakeTournamentRepo) Save(_ context.Context, t *models.Tournament) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	stored, ok := r.tournaments[t.ID]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	if stored.Revision != t.Revision {
		return repositories.ErrConcurrentUpdate
	}
	t.Revision++
	r.tournaments[t.ID] = cloneTournament(t)
	return nil
}

func (r *fakeTournamentRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.tournaments[id]; !ok {
		return repositories.ErrTournamentNotFound
	}
	delete(r.tournaments, id)
	return nil
}

func (r *fakeTournamentRepo) ListDueForStart(_ context.Context) ([]*models.Tournament, error) {
	now := time.Now().UTC()
	out := []*models.Tournament{}
	for _, t := range r.tournaments {
		if t.Status == models.StatusPending && !t.Draft && t.StartDate != nil && !t.StartDate.After(now) {
			out = append(out, cloneTournament(t))
		}
	}
	return out, nil
}

type fakePlayerRepo struct {
	existing map[int]bool
	history  map[int][]models.HistoryEntry
}

func newFakePlayerRepo(ids ...int) *fakePlayerRepo {
	existing := map[int]bool{}
	for _, id := range ids {
		existing[id] = true
	}
	return &fakePlayerRepo{existing: existing, history: map[int][]models.HistoryEntry{}}
}

func (r *fakePlayerRepo) Create(_ context.Context, p *models.Player) error {
	r.existing[p.ID] = true
	return nil
}

func (r *fakePlayerRepo) GetByID(_ context.Context, id int) (*models.Player, error) {
	if !r.existing[id] {
		return nil, repositories.ErrPlayerNotFound
	}
	return &models.Player{ID: id, Active: true}, nil
}

func (r *fakePlayerRepo) List(_ context.Context, _ repositories.ListPlayersFilter) ([]*models.Player, error) {
	return nil, nil
}

func (r *fakePlayerRepo) Update(_ context.Context, _ *models.Player) error { return nil }

func (r *fakePlayerRepo) SetActive(_ context.Context, _ int, _ bool) error { return nil }

func (r *fakePlayerRepo) UpdateAvatarKey(_ context.Context, _ int, _ *string) error { return nil }

func (r *fakePlayerRepo) FindExistingIDs(_ context.Context, ids []int) (map[int]bool, error) {
	out := map[int]bool{}
	for _, id := range ids {
		if r.existing[id] {
			out[id] = true
		}
	}
	return out, nil
}

func (r *fakePlayerRepo) AppendHistory(_ context.Context, id int, entry models.HistoryEntry) error {
	r.history[id] = append(r.history[id], entry)
	return nil
}

func newTestService(tournamentRepo *fakeTournamentRepo, playerRepo *fakePlayerRepo) TournamentService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewTournamentService(tournamentRepo, playerRepo, nil, rand.New(rand.NewSource(1)), logger)
}

func singlesEntrants(ids ...int) []ParticipantInput {
	out := make([]ParticipantInput, 0, len(ids))
	for _, id := range ids {
		out = append(out, ParticipantInput{PlayerIDs: []int{id}})
	}
	return out
}

func straightSetsWin() []models.SetScore {
	return []models.SetScore{{GamesA: 6, GamesB: 3}, {GamesA: 6, GamesB: 4}}
}

// submitSlotAWins records a straight-sets win for the participant in slot A,
// passing runnerUp through when the match is a final.
func submitSlotAWins(t *testing.T, svc TournamentService, tournamentID int, match models.Match, declareRunnerUp bool) *models.Tournament {
	t.Helper()
	input := SubmitResultInput{Sets: straightSetsWin(), WinnerID: *match.SlotA}
	if declareRunnerUp {
		input.RunnerUpID = match.SlotB
	}
	updated, err := svc.SubmitMatchResult(context.Background(), tournamentID, match.ID, input)
	require.NoError(t, err)
	return updated
}

func TestCreateAppliesDefaultsAndValidates(t *testing.T) {
	svc := newTestService(newFakeTournamentRepo(), newFakePlayerRepo(1, 2))

	created, err := svc.Create(context.Background(), CreateTournamentInput{
		Name:         "Spring Open",
		Type:         models.TypeElimination,
		Participants: singlesEntrants(1, 2),
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, created.Status)
	assert.Equal(t, models.SportTennis, created.Config.Sport)
	assert.Equal(t, models.ModeSingles, created.Config.Mode)
	assert.Equal(t, 2, created.Config.SetsPerMatch)
	assert.Equal(t, 6, created.Config.GamesPerSet)
	assert.Equal(t, 7, created.Config.TiebreakMin)
	assert.Equal(t, 10, created.Config.MatchTiebreakMin)
	assert.Len(t, created.Participants, 2)

	_, err = svc.Create(context.Background(), CreateTournamentInput{Type: models.TypeElimination})
	assert.ErrorIs(t, err, ErrTournamentNameRequired)

	_, err = svc.Create(context.Background(), CreateTournamentInput{Name: "x", Type: "swiss"})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestCreateRejectsUnknownPlayers(t *testing.T) {
	svc := newTestService(newFakeTournamentRepo(), newFakePlayerRepo(1))

	_, err := svc.Create(context.Background(), CreateTournamentInput{
		Name:         "Spring Open",
		Type:         models.TypeElimination,
		Participants: singlesEntrants(1, 99),
	})
	assert.ErrorIs(t, err, ErrUnknownPlayer)
}

func TestCreateDoublesRequiresTwoPlayersPerSide(t *testing.T) {
	svc := newTestService(newFakeTournamentRepo(), newFakePlayerRepo(1, 2, 3, 4))

	_, err := svc.Create(context.Background(), CreateTournamentInput{
		Name:         "Padel Cup",
		Type:         models.TypeElimination,
		Config:       models.TournamentConfig{Sport: models.SportPadel, Mode: models.ModeDoubles},
		Participants: singlesEntrants(1, 2),
	})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	created, err := svc.Create(context.Background(), CreateTournamentInput{
		Name:   "Padel Cup",
		Type:   models.TypeElimination,
		Config: models.TournamentConfig{Sport: models.SportPadel, Mode: models.ModeDoubles},
		Participants: []ParticipantInput{
			{PlayerIDs: []int{1, 2}},
			{PlayerIDs: []int{3, 4}},
		},
	})
	require.NoError(t, err)
	assert.Len(t, created.Participants, 2)
}

func TestDraftVisibility(t *testing.T) {
	repo := newFakeTournamentRepo()
	svc := newTestService(repo, newFakePlayerRepo(1, 2))

	created, err := svc.Create(context.Background(), CreateTournamentInput{
		Name:         "Hidden Cup",
		Type:         models.TypeElimination,
		Draft:        true,
		Participants: singlesEntrants(1, 2),
	})
	require.NoError(t, err)

	_, err = svc.GetByID(context.Background(), created.ID, models.RolePlayer)
	assert.ErrorIs(t, err, ErrForbiddenOperation)

	got, err := svc.GetByID(context.Background(), created.ID, models.RoleCoach)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	visible, err := svc.List(context.Background(), repositories.ListTournamentsFilter{}, models.RolePlayer)
	require.NoError(t, err)
	assert.Empty(t, visible)

	all, err := svc.List(context.Background(), repositories.ListTournamentsFilter{}, models.RoleAdmin)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestStartValidation(t *testing.T) {
	repo := newFakeTournamentRepo()
	svc := newTestService(repo, newFakePlayerRepo(1, 2))
	ctx := context.Background()

	draft, err := svc.Create(ctx, CreateTournamentInput{
		Name: "Draft", Type: models.TypeElimination, Draft: true,
		Participants: singlesEntrants(1, 2),
	})
	require.NoError(t, err)
	_, err = svc.Start(ctx, draft.ID)
	assert.ErrorIs(t, err, ErrDraftNotStartable)

	empty, err := svc.Create(ctx, CreateTournamentInput{Name: "Empty", Type: models.TypeElimination})
	require.NoError(t, err)
	_, err = svc.Start(ctx, empty.ID)
	assert.Error(t, err)

	ready, err := svc.Create(ctx, CreateTournamentInput{
		Name: "Ready", Type: models.TypeElimination,
		Participants: singlesEntrants(1, 2),
	})
	require.NoError(t, err)
	started, err := svc.Start(ctx, ready.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, started.Status)
	require.Len(t, started.Rounds, 1)

	_, err = svc.Start(ctx, ready.ID)
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
}

func TestSetParticipantsLockedAfterStart(t *testing.T) {
	svc := newTestService(newFakeTournamentRepo(), newFakePlayerRepo(1, 2, 3))
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateTournamentInput{
		Name: "Lock", Type: models.TypeElimination,
		Participants: singlesEntrants(1, 2),
	})
	require.NoError(t, err)

	updated, err := svc.SetParticipants(ctx, created.ID, singlesEntrants(1, 2, 3))
	require.NoError(t, err)
	assert.Len(t, updated.Participants, 3)

	_, err = svc.Start(ctx, created.ID)
	require.NoError(t, err)

	_, err = svc.SetParticipants(ctx, created.ID, singlesEntrants(1, 2))
	assert.ErrorIs(t, err, ErrStructureLocked)
}

func TestDeleteOnlyDrafts(t *testing.T) {
	svc := newTestService(newFakeTournamentRepo(), newFakePlayerRepo(1, 2))
	ctx := context.Background()

	published, err := svc.Create(ctx, CreateTournamentInput{Name: "Live", Type: models.TypeElimination})
	require.NoError(t, err)
	assert.ErrorIs(t, svc.Delete(ctx, published.ID), ErrTournamentNotDraft)

	draft, err := svc.Create(ctx, CreateTournamentInput{Name: "Scratch", Type: models.TypeElimination, Draft: true})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, draft.ID))

	_, err = svc.GetByID(ctx, draft.ID, models.RoleAdmin)
	assert.ErrorIs(t, err, ErrTournamentNotFound)
}

func TestSubmitMatchResultValidation(t *testing.T) {
	svc := newTestService(newFakeTournamentRepo(), newFakePlayerRepo(1, 2, 3, 4))
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateTournamentInput{
		Name: "Cup", Type: models.TypeElimination,
		Participants: singlesEntrants(1, 2, 3, 4),
	})
	require.NoError(t, err)

	// Results cannot be recorded before the start.
	_, err = svc.SubmitMatchResult(ctx, created.ID, uuid.New(), SubmitResultInput{})
	assert.ErrorIs(t, err, ErrTournamentNotStarted)

	started, err := svc.Start(ctx, created.ID)
	require.NoError(t, err)
	match := started.Rounds[0].Matches[0]

	_, err = svc.SubmitMatchResult(ctx, created.ID, uuid.New(), SubmitResultInput{
		Sets: straightSetsWin(), WinnerID: *match.SlotA,
	})
	assert.ErrorIs(t, err, ErrMatchNotFound)

	// The declared winner must be a slot of the match.
	_, err = svc.SubmitMatchResult(ctx, created.ID, match.ID, SubmitResultInput{
		Sets: straightSetsWin(), WinnerID: uuid.New(),
	})
	assert.ErrorIs(t, err, ErrValidationFailed)

	// The declared winner must match the computed one.
	_, err = svc.SubmitMatchResult(ctx, created.ID, match.ID, SubmitResultInput{
		Sets: straightSetsWin(), WinnerID: *match.SlotB,
	})
	assert.ErrorIs(t, err, ErrWinnerMismatch)

	// Invalid scorelines are rejected before anything is written.
	_, err = svc.SubmitMatchResult(ctx, created.ID, match.ID, SubmitResultInput{
		Sets: []models.SetScore{{GamesA: 6, GamesB: 5}}, WinnerID: *match.SlotA,
	})
	assert.ErrorIs(t, err, ErrValidationFailed)

	// Split sets without a match tiebreak produce no decision.
	_, err = svc.SubmitMatchResult(ctx, created.ID, match.ID, SubmitResultInput{
		Sets:     []models.SetScore{{GamesA: 6, GamesB: 3}, {GamesA: 2, GamesB: 6}},
		WinnerID: *match.SlotA,
	})
	assert.ErrorIs(t, err, ErrValidationFailed)

	// A valid submission sticks.
	updated := submitSlotAWins(t, svc, created.ID, match, false)
	recorded, _ := updated.FindMatch(match.ID)
	require.NotNil(t, recorded.Result)
	assert.Equal(t, *match.SlotA, recorded.Result.WinnerID)

	// Runner-up declarations are only valid on the final.
	other := started.Rounds[0].Matches[1]
	_, err = svc.SubmitMatchResult(ctx, created.ID, other.ID, SubmitResultInput{
		Sets: straightSetsWin(), WinnerID: *other.SlotA, RunnerUpID: other.SlotB,
	})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestSubmitResultWithMatchTiebreak(t *testing.T) {
	svc := newTestService(newFakeTournamentRepo(), newFakePlayerRepo(1, 2))
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateTournamentInput{
		Name: "TB Cup", Type: models.TypeElimination,
		Participants: singlesEntrants(1, 2),
	})
	require.NoError(t, err)
	started, err := svc.Start(ctx, created.ID)
	require.NoError(t, err)
	match := started.Rounds[0].Matches[0]

	updated, err := svc.SubmitMatchResult(ctx, created.ID, match.ID, SubmitResultInput{
		Sets:          []models.SetScore{{GamesA: 6, GamesB: 4}, {GamesA: 3, GamesB: 6}},
		MatchTiebreak: &models.TiebreakScore{PointsA: 10, PointsB: 7},
		WinnerID:      *match.SlotA,
		RunnerUpID:    match.SlotB,
	})
	require.NoError(t, err)

	recorded, _ := updated.FindMatch(match.ID)
	require.NotNil(t, recorded.Result.MatchTiebreak)
	assert.Equal(t, 10, recorded.Result.MatchTiebreak.PointsA)
}

func TestRoundRobinThroughKnockoutToFinish(t *testing.T) {
	repo := newFakeTournamentRepo()
	players := newFakePlayerRepo(1, 2, 3, 4, 5, 6, 7, 8)
	svc := newTestService(repo, players)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateTournamentInput{
		Name:         "Club Championship",
		Type:         models.TypeRoundRobin,
		Config:       models.TournamentConfig{GroupSize: 4, AdvancePerGroup: 2},
		Participants: singlesEntrants(1, 2, 3, 4, 5, 6, 7, 8),
	})
	require.NoError(t, err)

	// Knockout needs a started tournament.
	_, err = svc.GenerateKnockout(ctx, created.ID)
	assert.ErrorIs(t, err, ErrTournamentNotStarted)

	started, err := svc.Start(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, started.Groups, 2)
	assert.Empty(t, started.Rounds)

	// Knockout generation refuses while group matches are open.
	_, err = svc.GenerateKnockout(ctx, created.ID)
	assert.Error(t, err)

	for _, g := range started.Groups {
		for _, m := range g.Matches {
			latest := submitSlotAWins(t, svc, created.ID, m, false)
			for _, lg := range latest.Groups {
				if lg.Name == g.Name {
					assert.NotEmpty(t, lg.Standings)
				}
			}
		}
	}

	withKnockout, err := svc.GenerateKnockout(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, withKnockout.Rounds, 1)
	require.Len(t, withKnockout.Rounds[0].Matches, 2)

	_, err = svc.GenerateKnockout(ctx, created.ID)
	assert.ErrorIs(t, err, ErrKnockoutAlreadyGenerated)

	// Advancing before the semifinals are played is refused.
	_, err = svc.AdvanceRound(ctx, created.ID)
	assert.Error(t, err)

	for _, m := range withKnockout.Rounds[0].Matches {
		submitSlotAWins(t, svc, created.ID, m, false)
	}

	withFinal, err := svc.AdvanceRound(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, withFinal.Rounds, 2)
	require.Len(t, withFinal.Rounds[1].Matches, 1)

	final := withFinal.Rounds[1].Matches[0]
	afterFinal := submitSlotAWins(t, svc, created.ID, final, true)

	// The final records the podium but finishing stays explicit.
	require.NotNil(t, afterFinal.WinnerID)
	require.NotNil(t, afterFinal.RunnerUpID)
	assert.Equal(t, *final.SlotA, *afterFinal.WinnerID)
	assert.Equal(t, *final.SlotB, *afterFinal.RunnerUpID)
	assert.Equal(t, models.StatusInProgress, afterFinal.Status)

	// A decided final means there is no further round.
	_, err = svc.AdvanceRound(ctx, created.ID)
	assert.ErrorIs(t, err, ErrBracketComplete)

	finished, err := svc.Finish(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFinished, finished.Status)
	assert.Equal(t, *final.SlotA, *finished.WinnerID)

	_, err = svc.Finish(ctx, created.ID)
	assert.ErrorIs(t, err, ErrTournamentFinished)

	// Winner and runner-up each carry exactly one achievement entry.
	winnerParticipant := finished.ParticipantByID(*finished.WinnerID)
	require.NotNil(t, winnerParticipant)
	positions := 0
	for _, entry := range players.history[winnerParticipant.PlayerIDs[0]] {
		if entry.Position != nil && *entry.Position == 1 {
			positions++
		}
	}
	assert.Equal(t, 1, positions)
}

func TestFinishPureRoundRobinUsesPooledStandings(t *testing.T) {
	repo := newFakeTournamentRepo()
	svc := newTestService(repo, newFakePlayerRepo(1, 2, 3))
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateTournamentInput{
		Name:         "League",
		Type:         models.TypeRoundRobin,
		Config:       models.TournamentConfig{GroupSize: 4},
		Participants: singlesEntrants(1, 2, 3),
	})
	require.NoError(t, err)
	started, err := svc.Start(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, started.Groups, 1)

	_, err = svc.Finish(ctx, created.ID)
	assert.ErrorIs(t, err, ErrIncompleteResults)

	var latest *models.Tournament
	for _, m := range started.Groups[0].Matches {
		latest = submitSlotAWins(t, svc, created.ID, m, false)
	}
	require.NotNil(t, latest)

	finished, err := svc.Finish(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFinished, finished.Status)
	require.NotNil(t, finished.WinnerID)
	require.NotNil(t, finished.RunnerUpID)
	assert.NotEqual(t, *finished.WinnerID, *finished.RunnerUpID)
	assert.Equal(t, finished.Groups[0].Standings[0].ParticipantID, *finished.WinnerID)
}

func TestMatchHistoryAppendedForBothSides(t *testing.T) {
	players := newFakePlayerRepo(1, 2)
	svc := newTestService(newFakeTournamentRepo(), players)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateTournamentInput{
		Name: "Duel", Type: models.TypeElimination,
		Participants: singlesEntrants(1, 2),
	})
	require.NoError(t, err)
	started, err := svc.Start(ctx, created.ID)
	require.NoError(t, err)

	submitSlotAWins(t, svc, created.ID, started.Rounds[0].Matches[0], true)

	require.Len(t, players.history[1], 2)
	require.Len(t, players.history[2], 2)

	var matchEntries, wins, losses int
	for _, id := range []int{1, 2} {
		for _, entry := range players.history[id] {
			if entry.Position != nil {
				continue
			}
			matchEntries++
			switch entry.Result[0] {
			case 'W':
				wins++
			case 'L':
				losses++
			}
		}
	}
	assert.Equal(t, 2, matchEntries)
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, losses)
}

func TestResolveGroupTie(t *testing.T) {
	repo := newFakeTournamentRepo()
	svc := newTestService(repo, newFakePlayerRepo(1, 2, 3, 4))
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateTournamentInput{
		Name:         "Tied League",
		Type:         models.TypeRoundRobin,
		Config:       models.TournamentConfig{GroupSize: 4},
		Participants: singlesEntrants(1, 2, 3, 4),
	})
	require.NoError(t, err)
	started, err := svc.Start(ctx, created.ID)
	require.NoError(t, err)

	_, err = svc.ResolveGroupTie(ctx, created.ID, "Group Z")
	assert.ErrorIs(t, err, ErrGroupNotFound)

	resolved, err := svc.ResolveGroupTie(ctx, created.ID, started.Groups[0].Name)
	require.NoError(t, err)
	assert.Len(t, resolved.Groups[0].Standings, 4)
}

func TestConcurrentUpdatePropagates(t *testing.T) {
	repo := newFakeTournamentRepo()
	svc := newTestService(repo, newFakePlayerRepo(1, 2))
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateTournamentInput{
		Name: "Race", Type: models.TypeElimination,
		Participants: singlesEntrants(1, 2),
	})
	require.NoError(t, err)

	repo.saveErr = repositories.ErrConcurrentUpdate
	_, err = svc.Start(ctx, created.ID)
	assert.ErrorIs(t, err, repositories.ErrConcurrentUpdate)

	// The stored aggregate is untouched, so a retry succeeds.
	repo.saveErr = nil
	started, err := svc.Start(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, started.Status)
}

func TestStartDueTournaments(t *testing.T) {
	repo := newFakeTournamentRepo()
	svc := newTestService(repo, newFakePlayerRepo(1, 2, 3, 4))
	ctx := context.Background()

	past := time.Now().UTC().Add(-time.Hour)
	future := time.Now().UTC().Add(time.Hour)

	due, err := svc.Create(ctx, CreateTournamentInput{
		Name: "Due", Type: models.TypeElimination, StartDate: &past,
		Participants: singlesEntrants(1, 2),
	})
	require.NoError(t, err)
	notYet, err := svc.Create(ctx, CreateTournamentInput{
		Name: "Later", Type: models.TypeElimination, StartDate: &future,
		Participants: singlesEntrants(3, 4),
	})
	require.NoError(t, err)
	draftDue, err := svc.Create(ctx, CreateTournamentInput{
		Name: "Draft Due", Type: models.TypeElimination, Draft: true, StartDate: &past,
		Participants: singlesEntrants(1, 2),
	})
	require.NoError(t, err)

	require.NoError(t, svc.StartDueTournaments(ctx))

	started, err := svc.GetByID(ctx, due.ID, models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, started.Status)

	pending, err := svc.GetByID(ctx, notYet.ID, models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, pending.Status)

	stillDraft, err := svc.GetByID(ctx, draftDue.ID, models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, stillDraft.Status)
}
