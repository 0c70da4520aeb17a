package service

import (
	"context"
	"time"

	"roombook/internal/reservations/repository"
	"roombook/pkg/model"
)

type ConflictChecker struct {
	repo repository.ReservationRepository
}

func NewConflictChecker(repo repository.ReservationRepository) *ConflictChecker {
	return &ConflictChecker{repo: repo}
}

// FindConflicts returns the reservations of spaceID overlapping [start, end).
// The caller decides what a non-empty result means. Pass a transaction
// context to make the read part of the surrounding transaction.
func (c *ConflictChecker) FindConflicts(ctx context.Context, spaceID string, start, end time.Time) ([]*model.Reservation, error) {
	candidates, err := c.repo.FindOverlapping(ctx, spaceID, start, end)
	if err != nil {
		return nil, err
	}

	var conflicts []*model.Reservation
	for _, r := range candidates {
		if r.SpaceID == spaceID && Overlaps(r.StartTime, r.EndTime, start, end) {
			conflicts = append(conflicts, r)
		}
	}
	return conflicts, nil
}

// Overlaps reports whether the existing half-open interval [s, e) conflicts
// with the proposed [start, end). Touching endpoints do not conflict.
func Overlaps(s, e, start, end time.Time) bool {
	startsInside := !s.Before(start) && s.Before(end)
	endsInside := e.After(start) && !e.After(end)
	contains := !s.After(start) && !e.Before(end)
	return startsInside || endsInside || contains
}
