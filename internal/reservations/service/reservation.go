package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	reservationserrors "roombook/internal/reservations/errors"
	"roombook/internal/reservations/repository"
	"roombook/internal/reservations/validator"
	"roombook/pkg/auth"
	"roombook/pkg/clock"
	"roombook/pkg/config"
	mongotx "roombook/pkg/db/mongo"
	apperrors "roombook/pkg/errors"
	"roombook/pkg/model"
	"roombook/pkg/sanitizer"
)

const logTimeLayout = "2006-01-02 15:04"

// RemovedPlaceholder stands in for the log snapshot of a member or space
// that no longer exists when its reservation is cancelled.
const RemovedPlaceholder = "(removed)"

type ReservationService interface {
	Create(ctx context.Context, requester auth.Principal, req *model.CreateReservationRequest) (string, error)
	Delete(ctx context.Context, requester auth.Principal, id string) error
	GetByID(ctx context.Context, id string) (*model.Reservation, error)
}

// EventPublisher receives reservation events once their transaction has
// committed.
type EventPublisher interface {
	Publish(ctx context.Context, event model.ReservationEvent) error
}

type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, model.ReservationEvent) error { return nil }

// Repositories groups the persistence collaborators of the reservation flow.
type Repositories struct {
	Members      repository.MemberRepository
	Spaces       repository.SpaceRepository
	Reservations repository.ReservationRepository
	Logs         repository.ReservationLogRepository
	SlotClaims   repository.SlotClaimRepository
}

type reservationService struct {
	repos     Repositories
	tx        mongotx.TransactionManager
	conflicts *ConflictChecker
	slots     *TimeSlotValidator
	validator *validator.ReservationValidator
	publisher EventPublisher
	clock     clock.Clock
	cfg       *config.Config
}

func NewReservationService(
	repos Repositories,
	tx mongotx.TransactionManager,
	slots *TimeSlotValidator,
	validator *validator.ReservationValidator,
	publisher EventPublisher,
	clk clock.Clock,
	cfg *config.Config,
) ReservationService {
	if publisher == nil {
		publisher = NoopPublisher{}
	}
	return &reservationService{
		repos:     repos,
		tx:        tx,
		conflicts: NewConflictChecker(repos.Reservations),
		slots:     slots,
		validator: validator,
		publisher: publisher,
		clock:     clk,
		cfg:       cfg,
	}
}

func (s *reservationService) Create(ctx context.Context, requester auth.Principal, req *model.CreateReservationRequest) (string, error) {
	in := *req
	in.Description = sanitizer.TrimAndNormalize(req.Description)
	req = &in
	if err := s.validator.Validate(req); err != nil {
		s.cfg.Log.Warn("Reservation validation failed", "error", err)
		return "", apperrors.MalformedInput(ReasonFields, err.Error())
	}

	start, end, err := s.slots.Validate(req.StartTime, req.EndTime)
	if err != nil {
		s.cfg.Log.Warn("Reservation time slot rejected",
			"space_id", req.SpaceID,
			"start_time", req.StartTime,
			"end_time", req.EndTime,
			"error", err,
		)
		return "", err
	}

	if requester.MemberID != req.MemberID {
		s.cfg.Log.Warn("Reservation on behalf of another member rejected",
			"requester_id", requester.MemberID,
			"member_id", req.MemberID,
		)
		return "", apperrors.Forbidden("Members can only make reservations for themselves")
	}

	var created *model.Reservation
	err = s.tx.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		member, err := s.repos.Members.FindByID(txCtx, req.MemberID)
		if err != nil {
			return notFoundOr(err, "Member", req.MemberID)
		}
		space, err := s.repos.Spaces.FindByID(txCtx, req.SpaceID)
		if err != nil {
			return notFoundOr(err, "Space", req.SpaceID)
		}

		conflicts, err := s.conflicts.FindConflicts(txCtx, req.SpaceID, start, end)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return s.conflictError(conflicts[0])
		}

		now := s.clock.Now()
		reservation := &model.Reservation{
			MemberID:    req.MemberID,
			SpaceID:     req.SpaceID,
			StartTime:   start,
			EndTime:     end,
			Description: req.Description,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.repos.Reservations.Create(txCtx, reservation); err != nil {
			return err
		}

		if err := s.repos.SlotClaims.Claim(txCtx, slotClaims(reservation, now)); err != nil {
			if errors.Is(err, reservationserrors.ErrSlotTaken) {
				return apperrors.Conflict("The requested time slot was just reserved by another request")
			}
			return err
		}

		if err := s.repos.Logs.Create(txCtx, s.newLog(reservation, member, space, model.LogStateReserve, now)); err != nil {
			return err
		}

		created = reservation
		return nil
	})
	if err != nil {
		return "", s.failure("create", err, "space_id", req.SpaceID, "member_id", req.MemberID)
	}

	s.cfg.Log.Info("Reservation created successfully",
		"id", created.ID,
		"space_id", created.SpaceID,
		"member_id", created.MemberID,
		"start_time", created.StartTime,
		"end_time", created.EndTime,
	)
	s.publish(ctx, model.EventReservationReserved, created)
	return created.ID, nil
}

func (s *reservationService) Delete(ctx context.Context, requester auth.Principal, id string) error {
	if id == "" {
		return apperrors.MalformedInput(ReasonFields, "Reservation ID cannot be empty")
	}

	var deleted *model.Reservation
	err := s.tx.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		reservation, err := s.repos.Reservations.FindByID(txCtx, id)
		if err != nil {
			return notFoundOr(err, "Reservation", id)
		}
		member, err := s.repos.Members.FindByID(txCtx, reservation.MemberID)
		if errors.Is(err, reservationserrors.ErrNotFound) {
			member = &model.Member{ID: reservation.MemberID, Nickname: RemovedPlaceholder}
		} else if err != nil {
			return err
		}
		space, err := s.repos.Spaces.FindByID(txCtx, reservation.SpaceID)
		if errors.Is(err, reservationserrors.ErrNotFound) {
			space = &model.Space{ID: reservation.SpaceID, Name: RemovedPlaceholder, Location: RemovedPlaceholder}
		} else if err != nil {
			return err
		}

		if requester.MemberID != reservation.MemberID {
			return apperrors.Forbidden("Only the owner can cancel a reservation")
		}

		if err := s.repos.Reservations.Delete(txCtx, id); err != nil {
			return notFoundOr(err, "Reservation", id)
		}
		if err := s.repos.SlotClaims.ReleaseByReservation(txCtx, id); err != nil {
			return err
		}

		now := s.clock.Now()
		if err := s.repos.Logs.Create(txCtx, s.newLog(reservation, member, space, model.LogStateCancel, now)); err != nil {
			return err
		}

		deleted = reservation
		return nil
	})
	if err != nil {
		return s.failure("delete", err, "id", id, "requester_id", requester.MemberID)
	}

	s.cfg.Log.Info("Reservation cancelled successfully",
		"id", id,
		"space_id", deleted.SpaceID,
		"member_id", deleted.MemberID,
	)
	s.publish(ctx, model.EventReservationCancelled, deleted)
	return nil
}

func (s *reservationService) GetByID(ctx context.Context, id string) (*model.Reservation, error) {
	if id == "" {
		return nil, apperrors.MalformedInput(ReasonFields, "Reservation ID cannot be empty")
	}

	reservation, err := s.repos.Reservations.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationserrors.ErrNotFound) || errors.Is(err, reservationserrors.ErrInvalidID) {
			return nil, apperrors.NotFoundWithID("Reservation", id)
		}
		s.cfg.Log.Error("Failed to retrieve reservation", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to retrieve reservation", err)
	}

	return reservation, nil
}

// --- Helpers ---

// notFoundOr maps missing or malformed ids to NotFound and passes other
// errors through untouched, so driver retry labels survive.
func notFoundOr(err error, resource, id string) error {
	if errors.Is(err, reservationserrors.ErrNotFound) || errors.Is(err, reservationserrors.ErrInvalidID) {
		return apperrors.NotFoundWithID(resource, id)
	}
	return err
}

func (s *reservationService) conflictError(existing *model.Reservation) *apperrors.AppError {
	return apperrors.Conflict("The requested time overlaps an existing reservation").WithDetails(map[string]any{
		"conflicting_start_time": existing.StartTime.Format(time.RFC3339),
		"conflicting_end_time":   existing.EndTime.Format(time.RFC3339),
	})
}

// failure turns a transaction error into the AppError returned to callers.
func (s *reservationService) failure(op string, err error, args ...any) error {
	args = append(args, "error", err)

	if apperrors.IsAppError(err) {
		s.cfg.Log.Warn(fmt.Sprintf("Failed to %s reservation", op), args...)
		return apperrors.AsAppError(err)
	}
	if mongotx.IsWriteConflict(err) {
		s.cfg.Log.Warn(fmt.Sprintf("Concurrent %s lost a write conflict", op), args...)
		return apperrors.Conflict("The requested time slot is being reserved by another request")
	}
	if mongotx.IsTransient(err) {
		s.cfg.Log.Error(fmt.Sprintf("Failed to %s reservation after retries", op), args...)
		return apperrors.Unavailable("Database", err)
	}

	s.cfg.Log.Error(fmt.Sprintf("Failed to %s reservation", op), args...)
	return apperrors.Internal(fmt.Sprintf("Failed to %s reservation", op), err)
}

func (s *reservationService) newLog(r *model.Reservation, member *model.Member, space *model.Space, state model.LogState, now time.Time) *model.ReservationLog {
	return &model.ReservationLog{
		ReservationID:  r.ID,
		MemberNickname: member.Nickname,
		SpaceName:      space.Name,
		SpaceLocation:  space.Location,
		ReservedTime:   FormatReservedTime(r.StartTime, r.EndTime, s.slots.Location()),
		State:          state,
		CreatedAt:      now,
	}
}

// FormatReservedTime renders a window as "2024-05-30 12:00 - 12:30" in loc.
func FormatReservedTime(start, end time.Time, loc *time.Location) string {
	return fmt.Sprintf("%s - %s", start.In(loc).Format(logTimeLayout), end.In(loc).Format("15:04"))
}

// slotClaims returns one claim per slot covered by r.
func slotClaims(r *model.Reservation, now time.Time) []*model.SlotClaim {
	var claims []*model.SlotClaim
	for slot := r.StartTime; slot.Before(r.EndTime); slot = slot.Add(config.SlotGranularity) {
		claims = append(claims, &model.SlotClaim{
			ID:            SlotClaimID(r.SpaceID, slot),
			SpaceID:       r.SpaceID,
			ReservationID: r.ID,
			SlotStart:     slot,
			CreatedAt:     now,
		})
	}
	return claims
}

func SlotClaimID(spaceID string, slotStart time.Time) string {
	return spaceID + ":" + slotStart.UTC().Format(time.RFC3339)
}

func (s *reservationService) publish(ctx context.Context, eventType model.EventType, r *model.Reservation) {
	event := model.ReservationEvent{
		ID:            uuid.NewString(),
		Type:          eventType,
		ReservationID: r.ID,
		MemberID:      r.MemberID,
		SpaceID:       r.SpaceID,
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
		OccurredAt:    s.clock.Now(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.cfg.Log.Warn("Failed to publish reservation event",
			"event_id", event.ID,
			"type", event.Type,
			"reservation_id", r.ID,
			"error", err,
		)
	}
}
