package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/courtside/tournament-server/models"
	"github.com/courtside/tournament-server/repositories"
)

// DashboardOverview is the club landing-page summary.
type DashboardOverview struct {
	InProgress []*models.Tournament `json:"in_progress"`
	Upcoming   []*models.Tournament `json:"upcoming"`
	Recent     []*models.Tournament `json:"recent"`
	Players    []*models.Player     `json:"players"`
}

type DashboardService interface {
	Overview(ctx context.Context) (*DashboardOverview, error)
}

type dashboardService struct {
	tournamentRepo repositories.TournamentRepository
	playerRepo     repositories.PlayerRepository
}

func NewDashboardService(tournamentRepo repositories.TournamentRepository, playerRepo repositories.PlayerRepository) DashboardService {
	return &dashboardService{tournamentRepo: tournamentRepo, playerRepo: playerRepo}
}

// Overview loads the dashboard sections in parallel; any failing load fails
// the whole request.
func (s *dashboardService) Overview(ctx context.Context) (*DashboardOverview, error) {
	overview := &DashboardOverview{}
	published := false

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		status := models.StatusInProgress
		tournaments, err := s.tournamentRepo.List(gCtx, repositories.ListTournamentsFilter{Status: &status, Draft: &published})
		overview.InProgress = tournaments
		return err
	})
	g.Go(func() error {
		status := models.StatusPending
		tournaments, err := s.tournamentRepo.List(gCtx, repositories.ListTournamentsFilter{Status: &status, Draft: &published})
		overview.Upcoming = tournaments
		return err
	})
	g.Go(func() error {
		status := models.StatusFinished
		tournaments, err := s.tournamentRepo.List(gCtx, repositories.ListTournamentsFilter{Status: &status, Draft: &published, Limit: 10})
		overview.Recent = tournaments
		return err
	})
	g.Go(func() error {
		active := true
		players, err := s.playerRepo.List(gCtx, repositories.ListPlayersFilter{Active: &active})
		overview.Players = players
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return overview, nil
}
