package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/google/uuid"

	"github.com/courtside/tournament-server/models"
	"github.com/courtside/tournament-server/repositories"
	"github.com/courtside/tournament-server/storage"
)

type CreatePlayerInput struct {
	FirstName    string              `json:"first_name"`
	LastName     string              `json:"last_name"`
	Email        *string             `json:"email,omitempty"`
	Phone        *string             `json:"phone,omitempty"`
	DominantHand models.DominantHand `json:"dominant_hand"`
	RacketBrand  *string             `json:"racket_brand,omitempty"`
	UserID       *int                `json:"user_id,omitempty"`
}

type UpdatePlayerInput struct {
	FirstName    *string              `json:"first_name,omitempty"`
	LastName     *string              `json:"last_name,omitempty"`
	Email        *string              `json:"email,omitempty"`
	Phone        *string              `json:"phone,omitempty"`
	DominantHand *models.DominantHand `json:"dominant_hand,omitempty"`
	RacketBrand  *string              `json:"racket_brand,omitempty"`
}

var ErrPlayerNameRequired = errors.New("player first name is required")

type PlayerService interface {
	Create(ctx context.Context, input CreatePlayerInput) (*models.Player, error)
	GetByID(ctx context.Context, id int) (*models.Player, error)
	List(ctx context.Context, filter repositories.ListPlayersFilter) ([]*models.Player, error)
	Update(ctx context.Context, id int, input UpdatePlayerInput) (*models.Player, error)
	Deactivate(ctx context.Context, id int) error
	Reactivate(ctx context.Context, id int) error
	UploadAvatar(ctx context.Context, id int, file io.Reader, contentType string) (*models.Player, error)
}

type playerService struct {
	playerRepo repositories.PlayerRepository
	uploader   storage.FileUploader
}

func NewPlayerService(playerRepo repositories.PlayerRepository, uploader storage.FileUploader) PlayerService {
	return &playerService{playerRepo: playerRepo, uploader: uploader}
}

func (s *playerService) Create(ctx context.Context, input CreatePlayerInput) (*models.Player, error) {
	if input.FirstName == "" {
		return nil, ErrPlayerNameRequired
	}
	hand := input.DominantHand
	if hand == "" {
		hand = models.HandRight
	}
	if hand != models.HandRight && hand != models.HandLeft {
		return nil, fmt.Errorf("%w: unknown dominant hand %q", ErrInvalidConfig, hand)
	}

	p := &models.Player{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		Phone:        input.Phone,
		DominantHand: hand,
		RacketBrand:  input.RacketBrand,
		Active:       true,
		UserID:       input.UserID,
	}
	if err := s.playerRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *playerService) GetByID(ctx context.Context, id int) (*models.Player, error) {
	p, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapPlayerRepoError(err)
	}
	s.populateAvatarURL(p)
	return p, nil
}

func (s *playerService) List(ctx context.Context, filter repositories.ListPlayersFilter) ([]*models.Player, error) {
	players, err := s.playerRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	for _, p := range players {
		s.populateAvatarURL(p)
	}
	return players, nil
}

func (s *playerService) Update(ctx context.Context, id int, input UpdatePlayerInput) (*models.Player, error) {
	p, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapPlayerRepoError(err)
	}

	if input.FirstName != nil {
		if *input.FirstName == "" {
			return nil, ErrPlayerNameRequired
		}
		p.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		p.LastName = *input.LastName
	}
	if input.Email != nil {
		p.Email = input.Email
	}
	if input.Phone != nil {
		p.Phone = input.Phone
	}
	if input.DominantHand != nil {
		if *input.DominantHand != models.HandRight && *input.DominantHand != models.HandLeft {
			return nil, fmt.Errorf("%w: unknown dominant hand %q", ErrInvalidConfig, *input.DominantHand)
		}
		p.DominantHand = *input.DominantHand
	}
	if input.RacketBrand != nil {
		p.RacketBrand = input.RacketBrand
	}

	if err := s.playerRepo.Update(ctx, p); err != nil {
		return nil, mapPlayerRepoError(err)
	}
	s.populateAvatarURL(p)
	return p, nil
}

// Deactivate flags the player inactive. Players are never hard-deleted so
// their match history survives.
func (s *playerService) Deactivate(ctx context.Context, id int) error {
	return mapPlayerRepoError(s.playerRepo.SetActive(ctx, id, false))
}

func (s *playerService) Reactivate(ctx context.Context, id int) error {
	return mapPlayerRepoError(s.playerRepo.SetActive(ctx, id, true))
}

func (s *playerService) UploadAvatar(ctx context.Context, id int, file io.Reader, contentType string) (*models.Player, error) {
	if s.uploader == nil {
		return nil, ErrUploaderUnavailable
	}
	p, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapPlayerRepoError(err)
	}

	key := path.Join("players", fmt.Sprintf("%d", id), uuid.NewString())
	if err := s.uploader.Upload(ctx, key, file, contentType); err != nil {
		return nil, fmt.Errorf("failed to upload avatar: %w", err)
	}

	old := p.AvatarKey
	if err := s.playerRepo.UpdateAvatarKey(ctx, id, &key); err != nil {
		return nil, mapPlayerRepoError(err)
	}
	if old != nil {
		// Stale object removal is best effort.
		_ = s.uploader.Delete(ctx, *old)
	}

	p.AvatarKey = &key
	s.populateAvatarURL(p)
	return p, nil
}

func (s *playerService) populateAvatarURL(p *models.Player) {
	if s.uploader == nil || p.AvatarKey == nil {
		return
	}
	url := s.uploader.PublicURL(*p.AvatarKey)
	p.AvatarURL = &url
}

func mapPlayerRepoError(err error) error {
	if errors.Is(err, repositories.ErrPlayerNotFound) {
		return ErrPlayerNotFound
	}
	return err
}
