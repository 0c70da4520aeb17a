package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roombook/internal/reservations/repository"
	"roombook/internal/reservations/service"
	"roombook/internal/reservations/validator"
	"roombook/internal/testutil"
	"roombook/pkg/auth"
	"roombook/pkg/clock"
	mongotx "roombook/pkg/db/mongo"
	apperrors "roombook/pkg/errors"
	"roombook/pkg/model"
)

var integrationNow = time.Date(2024, 5, 29, 8, 0, 0, 0, time.UTC)

type integrationFixture struct {
	repos service.Repositories
	svc   service.ReservationService
	space *model.Space
}

func newIntegrationFixture(t *testing.T) *integrationFixture {
	t.Helper()
	cfg := testutil.NewMongoConfig(t)

	repos := service.Repositories{
		Members:      repository.NewMongoMemberRepository(cfg),
		Spaces:       repository.NewMongoSpaceRepository(cfg),
		Reservations: repository.NewMongoReservationRepository(cfg),
		Logs:         repository.NewMongoReservationLogRepository(cfg),
		SlotClaims:   repository.NewMongoSlotClaimRepository(cfg),
	}

	space := &model.Space{Name: "Focus Room", Location: "3F East", CreatedAt: integrationNow}
	require.NoError(t, repos.Spaces.Create(context.Background(), space))

	svc := service.NewReservationService(
		repos,
		mongotx.NewTransactionManager(cfg.Client.Mongo, cfg.TransactionTimeout),
		service.NewTimeSlotValidator(service.TimeSlotRules{
			OpeningMinute: 600,
			ClosingMinute: 1320,
			MinDuration:   30 * time.Minute,
			MaxDuration:   2 * time.Hour,
			Location:      time.UTC,
		}),
		validator.NewReservationValidator(cfg.Log),
		service.NoopPublisher{},
		clock.NewFixed(integrationNow),
		cfg,
	)
	return &integrationFixture{repos: repos, svc: svc, space: space}
}

// createConcurrently books every window at once, each for its own member,
// and returns how many succeeded. Every failure must be a Conflict.
func (f *integrationFixture) createConcurrently(t *testing.T, windows [][2]string) int {
	t.Helper()
	ctx := context.Background()

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i, w := range windows {
		member := &model.Member{Nickname: "member" + string(rune('a'+i)), Authority: model.RoleUser, CreatedAt: integrationNow}
		require.NoError(t, f.repos.Members.Create(ctx, member))

		wg.Add(1)
		go func(memberID string, start, end string) {
			defer wg.Done()
			_, err := f.svc.Create(ctx, auth.Principal{MemberID: memberID, Role: model.RoleUser}, &model.CreateReservationRequest{
				SpaceID:   f.space.ID,
				MemberID:  memberID,
				StartTime: "2024-05-30T" + start,
				EndTime:   "2024-05-30T" + end,
			})

			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
				return
			}
			assert.Equal(t, apperrors.CodeConflict, apperrors.KindOf(err), "unexpected error: %v", err)
		}(member.ID, w[0], w[1])
	}
	wg.Wait()
	return successes
}

// Windows that all share a slot must leave exactly one reservation behind,
// whatever the interleaving.
func TestReservationService_ConcurrentCreates(t *testing.T) {
	f := newIntegrationFixture(t)
	ctx := context.Background()

	successes := f.createConcurrently(t, [][2]string{
		{"12:00", "13:00"},
		{"11:30", "12:30"},
		{"12:00", "12:30"},
		{"11:00", "13:00"},
		{"12:00", "14:00"},
		{"11:30", "13:30"},
	})
	assert.Equal(t, 1, successes)

	count, err := f.repos.Reservations.CountBySpace(ctx, f.space.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	logs, err := f.repos.Logs.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, logs)
}

// With adjacent windows in the mix the number of winners depends on the
// interleaving. Whatever commits must be pairwise disjoint and logged once.
func TestReservationService_ConcurrentMixedWindows(t *testing.T) {
	f := newIntegrationFixture(t)
	ctx := context.Background()

	successes := f.createConcurrently(t, [][2]string{
		{"12:00", "13:00"},
		{"12:30", "13:30"},
		{"11:30", "12:30"},
		{"12:00", "12:30"},
		{"12:30", "13:00"},
		{"13:00", "14:00"},
	})
	assert.Positive(t, successes)

	committed, err := f.repos.Reservations.FindBySpace(ctx, f.space.ID, 100, 0)
	require.NoError(t, err)
	assert.Len(t, committed, successes)
	for i := 1; i < len(committed); i++ {
		assert.False(t, committed[i].StartTime.Before(committed[i-1].EndTime),
			"%s-%s overlaps %s-%s", committed[i-1].StartTime, committed[i-1].EndTime, committed[i].StartTime, committed[i].EndTime)
	}

	logs, err := f.repos.Logs.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, successes, logs)
}
