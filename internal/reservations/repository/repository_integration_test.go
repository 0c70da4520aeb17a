package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	reservationserrors "roombook/internal/reservations/errors"
	"roombook/internal/reservations/repository"
	"roombook/internal/testutil"
	"roombook/pkg/model"
)

var created = time.Date(2024, 5, 30, 9, 0, 0, 0, time.UTC)

func at(hour, minute int) time.Time {
	return time.Date(2024, 5, 30, hour, minute, 0, 0, time.UTC)
}

func TestMongoReservationRepository(t *testing.T) {
	cfg := testutil.NewMongoConfig(t)
	ctx := context.Background()

	spaces := repository.NewMongoSpaceRepository(cfg)
	members := repository.NewMongoMemberRepository(cfg)
	reservations := repository.NewMongoReservationRepository(cfg)

	space := &model.Space{Name: "Focus Room", Location: "3F East", CreatedAt: created}
	require.NoError(t, spaces.Create(ctx, space))
	member := &model.Member{Nickname: "alice", Authority: model.RoleUser, CreatedAt: created}
	require.NoError(t, members.Create(ctx, member))
	require.Len(t, space.ID, 24)

	found, err := members.FindByID(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", found.Nickname)

	noon := &model.Reservation{
		MemberID: member.ID, SpaceID: space.ID,
		StartTime: at(12, 0), EndTime: at(13, 0),
		CreatedAt: created, UpdatedAt: created,
	}
	afternoon := &model.Reservation{
		MemberID: member.ID, SpaceID: space.ID,
		StartTime: at(14, 0), EndTime: at(14, 30),
		CreatedAt: created, UpdatedAt: created,
	}
	require.NoError(t, reservations.Create(ctx, afternoon))
	require.NoError(t, reservations.Create(ctx, noon))

	got, err := reservations.FindByID(ctx, noon.ID)
	require.NoError(t, err)
	assert.True(t, got.StartTime.Equal(noon.StartTime))
	assert.Equal(t, space.ID, got.SpaceID)

	t.Run("overlap excludes touching intervals", func(t *testing.T) {
		overlapping, err := reservations.FindOverlapping(ctx, space.ID, at(13, 0), at(14, 0))
		require.NoError(t, err)
		assert.Empty(t, overlapping)

		overlapping, err = reservations.FindOverlapping(ctx, space.ID, at(12, 30), at(14, 30))
		require.NoError(t, err)
		require.Len(t, overlapping, 2)
		assert.Equal(t, noon.ID, overlapping[0].ID)
	})

	t.Run("space listing is ordered by start time", func(t *testing.T) {
		page, err := reservations.FindBySpace(ctx, space.ID, 10, 0)
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, noon.ID, page[0].ID)

		count, err := reservations.CountByMember(ctx, member.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 2, count)
	})

	t.Run("missing and malformed ids", func(t *testing.T) {
		_, err := reservations.FindByID(ctx, "665f1c2e8a1b2c3d4e5f6a70")
		assert.ErrorIs(t, err, reservationserrors.ErrNotFound)

		_, err = reservations.FindByID(ctx, "nope")
		assert.ErrorIs(t, err, reservationserrors.ErrInvalidID)
	})

	require.NoError(t, reservations.Delete(ctx, noon.ID))
	assert.ErrorIs(t, reservations.Delete(ctx, noon.ID), reservationserrors.ErrNotFound)
}

func TestMongoSlotClaimRepository(t *testing.T) {
	cfg := testutil.NewMongoConfig(t)
	ctx := context.Background()
	claims := repository.NewMongoSlotClaimRepository(cfg)

	spaceID := "665f1c2e8a1b2c3d4e5f6a70"
	claim := func(reservationID string, slot time.Time) *model.SlotClaim {
		return &model.SlotClaim{
			ID:            spaceID + ":" + slot.Format(time.RFC3339),
			SpaceID:       spaceID,
			ReservationID: reservationID,
			SlotStart:     slot,
			CreatedAt:     created,
		}
	}

	first := "665f1c2e8a1b2c3d4e5f6a71"
	second := "665f1c2e8a1b2c3d4e5f6a72"

	require.NoError(t, claims.Claim(ctx, []*model.SlotClaim{claim(first, at(12, 0)), claim(first, at(12, 30))}))

	err := claims.Claim(ctx, []*model.SlotClaim{claim(second, at(12, 30))})
	assert.ErrorIs(t, err, reservationserrors.ErrSlotTaken)

	require.NoError(t, claims.ReleaseByReservation(ctx, first))
	assert.NoError(t, claims.Claim(ctx, []*model.SlotClaim{claim(second, at(12, 30))}))
}
