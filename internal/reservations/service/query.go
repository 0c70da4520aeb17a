package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	reservationserrors "roombook/internal/reservations/errors"
	"roombook/pkg/config"
	apperrors "roombook/pkg/errors"
	"roombook/pkg/model"
)

type QueryService interface {
	ListBySpace(ctx context.Context, page, pageSize int, spaceID string) (model.Page[*model.Reservation], error)
	ListByMember(ctx context.Context, page, pageSize int, memberID string) (model.Page[*model.Reservation], error)
	ListLogs(ctx context.Context, page, pageSize int) (model.Page[*model.ReservationLog], error)
	ListSpaces(ctx context.Context, page, pageSize int) (model.Page[*model.Space], error)
	GetSpace(ctx context.Context, id string) (*model.Space, error)
}

type queryService struct {
	repos Repositories
	cfg   *config.Config
}

func NewQueryService(repos Repositories, cfg *config.Config) QueryService {
	return &queryService{
		repos: repos,
		cfg:   cfg,
	}
}

func (s *queryService) ListBySpace(ctx context.Context, page, pageSize int, spaceID string) (model.Page[*model.Reservation], error) {
	if err := validatePage(page, pageSize); err != nil {
		return model.Page[*model.Reservation]{}, err
	}
	if _, err := s.GetSpace(ctx, spaceID); err != nil {
		return model.Page[*model.Reservation]{}, err
	}

	offset := model.Offset(page, pageSize)
	return fetchPage(ctx, s, "reservations by space", page, pageSize,
		func(ctx context.Context) (int64, error) { return s.repos.Reservations.CountBySpace(ctx, spaceID) },
		func(ctx context.Context) ([]*model.Reservation, error) {
			return s.repos.Reservations.FindBySpace(ctx, spaceID, pageSize, offset)
		},
	)
}

func (s *queryService) ListByMember(ctx context.Context, page, pageSize int, memberID string) (model.Page[*model.Reservation], error) {
	if err := validatePage(page, pageSize); err != nil {
		return model.Page[*model.Reservation]{}, err
	}
	if _, err := s.repos.Members.FindByID(ctx, memberID); err != nil {
		if errors.Is(err, reservationserrors.ErrNotFound) || errors.Is(err, reservationserrors.ErrInvalidID) {
			return model.Page[*model.Reservation]{}, apperrors.NotFoundWithID("Member", memberID)
		}
		s.cfg.Log.Error("Failed to retrieve member", "id", memberID, "error", err)
		return model.Page[*model.Reservation]{}, apperrors.Internal("Failed to retrieve member", err)
	}

	offset := model.Offset(page, pageSize)
	return fetchPage(ctx, s, "reservations by member", page, pageSize,
		func(ctx context.Context) (int64, error) { return s.repos.Reservations.CountByMember(ctx, memberID) },
		func(ctx context.Context) ([]*model.Reservation, error) {
			return s.repos.Reservations.FindByMember(ctx, memberID, pageSize, offset)
		},
	)
}

func (s *queryService) ListLogs(ctx context.Context, page, pageSize int) (model.Page[*model.ReservationLog], error) {
	if err := validatePage(page, pageSize); err != nil {
		return model.Page[*model.ReservationLog]{}, err
	}

	offset := model.Offset(page, pageSize)
	return fetchPage(ctx, s, "reservation logs", page, pageSize,
		s.repos.Logs.Count,
		func(ctx context.Context) ([]*model.ReservationLog, error) {
			return s.repos.Logs.FindAll(ctx, pageSize, offset)
		},
	)
}

func (s *queryService) ListSpaces(ctx context.Context, page, pageSize int) (model.Page[*model.Space], error) {
	if err := validatePage(page, pageSize); err != nil {
		return model.Page[*model.Space]{}, err
	}

	offset := model.Offset(page, pageSize)
	return fetchPage(ctx, s, "spaces", page, pageSize,
		s.repos.Spaces.Count,
		func(ctx context.Context) ([]*model.Space, error) {
			return s.repos.Spaces.FindAll(ctx, pageSize, offset)
		},
	)
}

func (s *queryService) GetSpace(ctx context.Context, id string) (*model.Space, error) {
	if id == "" {
		return nil, apperrors.MalformedInput(ReasonFields, "Space ID cannot be empty")
	}

	space, err := s.repos.Spaces.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationserrors.ErrNotFound) || errors.Is(err, reservationserrors.ErrInvalidID) {
			return nil, apperrors.NotFoundWithID("Space", id)
		}
		s.cfg.Log.Error("Failed to retrieve space", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to retrieve space", err)
	}
	return space, nil
}

func validatePage(page, pageSize int) error {
	if page < 1 {
		return apperrors.MalformedInput(ReasonPage, fmt.Sprintf("page must be at least 1, got %d", page))
	}
	if pageSize < 1 || pageSize > config.MaxPageSize {
		return apperrors.MalformedInput(ReasonPage,
			fmt.Sprintf("page_size must be between 1 and %d, got %d", config.MaxPageSize, pageSize))
	}
	return nil
}

// fetchPage runs the count and the page query concurrently and assembles
// the result.
func fetchPage[T any](
	ctx context.Context,
	s *queryService,
	what string,
	page, pageSize int,
	count func(ctx context.Context) (int64, error),
	find func(ctx context.Context) ([]T, error),
) (model.Page[T], error) {
	var total int64
	var items []T
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		total, errCount = count(ctx)
	}()

	go func() {
		defer wg.Done()
		items, errFind = find(ctx)
	}()

	wg.Wait()
	if errCount != nil {
		s.cfg.Log.Error("Failed to count "+what, "error", errCount)
		return model.Page[T]{}, apperrors.Internal("Failed to count "+what, errCount)
	}
	if errFind != nil {
		s.cfg.Log.Error("Failed to list "+what, "page", page, "page_size", pageSize, "error", errFind)
		return model.Page[T]{}, apperrors.Internal("Failed to retrieve "+what, errFind)
	}

	s.cfg.Log.Debug("Listed "+what, "page", page, "page_size", pageSize, "count", len(items), "total_count", total)
	return model.NewPage(items, page, pageSize, total), nil
}
