package usecase

import (
	"context"
	"fmt"
	"time"

	"careops/internal/data/repository"
	"careops/internal/dto/response"
	"careops/pkg/utils"

	"go.uber.org/zap"
)

// PublicService serves the unauthenticated booking page of a workspace.
type PublicService interface {
	GetBookingPage(ctx context.Context, slug string) (*response.BookingPageResponse, error)
}

type publicService struct {
	repo       *repository.Repository
	defaultLoc *time.Location
	log        *zap.Logger
}

func NewPublicService(repo *repository.Repository, config *utils.Config, log *zap.Logger) PublicService {
	return &publicService{
		repo:       repo,
		defaultLoc: defaultLocation(config),
		log:        log.With(zap.String("service", "public")),
	}
}

func (s *publicService) GetBookingPage(ctx context.Context, slug string) (*response.BookingPageResponse, error) {
	ws, err := s.repo.Workspace.FindBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("find workspace %s: %w", slug, err)
	}
	if ws == nil || !ws.IsActive {
		return nil, notFound("Workspace not found")
	}

	services, err := listWithRules(ctx, s.repo, ws.ID)
	if err != nil {
		return nil, err
	}

	return &response.BookingPageResponse{
		Workspace: response.PublicWorkspace{
			Name:     ws.Name,
			Address:  ws.Address,
			Timezone: ws.Location(s.defaultLoc).String(),
		},
		Services: services,
	}, nil
}
