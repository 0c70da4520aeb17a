package service

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	reservationserrors "roombook/internal/reservations/errors"
	mongotx "roombook/pkg/db/mongo"
	"roombook/pkg/model"
)

// fakeStore is an in-memory persistence layer. Writes made inside
// ExecuteTransaction are journaled and undone when the transaction function
// fails. With serialize set, transactions run one at a time; without it
// they interleave freely and only slot claim uniqueness protects overlaps.
type fakeStore struct {
	mu   sync.Mutex
	txMu sync.Mutex

	serialize bool

	members      map[string]model.Member
	spaces       map[string]model.Space
	reservations map[string]model.Reservation
	logs         []model.ReservationLog
	claims       map[string]model.SlotClaim

	calls atomic.Int64

	failLogCreate       error
	beforeReservationFn func()
}

type journalKey struct{}

type journal struct {
	undo []func()
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		serialize:    true,
		members:      map[string]model.Member{},
		spaces:       map[string]model.Space{},
		reservations: map[string]model.Reservation{},
		claims:       map[string]model.SlotClaim{},
	}
}

func (s *fakeStore) repos() Repositories {
	return Repositories{
		Members:      fakeMembers{s},
		Spaces:       fakeSpaces{s},
		Reservations: fakeReservations{s},
		Logs:         fakeLogs{s},
		SlotClaims:   fakeClaims{s},
	}
}

func (s *fakeStore) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	s.calls.Add(1)
	if s.serialize {
		s.txMu.Lock()
		defer s.txMu.Unlock()
	}

	j := &journal{}
	if err := fn(context.WithValue(ctx, journalKey{}, j)); err != nil {
		s.mu.Lock()
		for i := len(j.undo) - 1; i >= 0; i-- {
			j.undo[i]()
		}
		s.mu.Unlock()
		return err
	}
	return nil
}

// record registers an undo step. Callers hold s.mu.
func record(ctx context.Context, undo func()) {
	if j, ok := ctx.Value(journalKey{}).(*journal); ok {
		j.undo = append(j.undo, undo)
	}
}

func newID() string {
	return primitive.NewObjectID().Hex()
}

func validID(id string) bool {
	_, err := primitive.ObjectIDFromHex(id)
	return err == nil
}

func (s *fakeStore) addMember(nickname, authority string) model.Member {
	m := model.Member{ID: newID(), Nickname: nickname, Authority: authority}
	s.members[m.ID] = m
	return m
}

func (s *fakeStore) addSpace(name, location string) model.Space {
	sp := model.Space{ID: newID(), Name: name, Location: location}
	s.spaces[sp.ID] = sp
	return sp
}

func (s *fakeStore) reservationCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reservations)
}

func (s *fakeStore) logEntries() []model.ReservationLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.ReservationLog(nil), s.logs...)
}

func (s *fakeStore) committed() []model.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Reservation, 0, len(s.reservations))
	for _, r := range s.reservations {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out
}

func (s *fakeStore) claimIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.claims))
	for id := range s.claims {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

type fakeMembers struct{ s *fakeStore }

func (f fakeMembers) Create(ctx context.Context, m *model.Member) error {
	f.s.calls.Add(1)
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	m.ID = newID()
	f.s.members[m.ID] = *m
	return nil
}

func (f fakeMembers) FindByID(ctx context.Context, id string) (*model.Member, error) {
	f.s.calls.Add(1)
	if !validID(id) {
		return nil, reservationserrors.ErrInvalidID
	}
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	m, ok := f.s.members[id]
	if !ok {
		return nil, reservationserrors.ErrNotFound
	}
	return &m, nil
}

type fakeSpaces struct{ s *fakeStore }

func (f fakeSpaces) Create(ctx context.Context, sp *model.Space) error {
	f.s.calls.Add(1)
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	sp.ID = newID()
	f.s.spaces[sp.ID] = *sp
	return nil
}

func (f fakeSpaces) FindByID(ctx context.Context, id string) (*model.Space, error) {
	f.s.calls.Add(1)
	if !validID(id) {
		return nil, reservationserrors.ErrInvalidID
	}
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	sp, ok := f.s.spaces[id]
	if !ok {
		return nil, reservationserrors.ErrNotFound
	}
	return &sp, nil
}

func (f fakeSpaces) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Space, error) {
	f.s.calls.Add(1)
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var all []*model.Space
	for _, sp := range f.s.spaces {
		sp := sp
		all = append(all, &sp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return paginate(all, limit, offset), nil
}

func (f fakeSpaces) Count(ctx context.Context) (int64, error) {
	f.s.calls.Add(1)
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return int64(len(f.s.spaces)), nil
}

type fakeReservations struct{ s *fakeStore }

func (f fakeReservations) Create(ctx context.Context, r *model.Reservation) error {
	f.s.calls.Add(1)
	if f.s.beforeReservationFn != nil {
		f.s.beforeReservationFn()
	}
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	r.ID = newID()
	f.s.reservations[r.ID] = *r
	id := r.ID
	record(ctx, func() { delete(f.s.reservations, id) })
	return nil
}

func (f fakeReservations) FindByID(ctx context.Context, id string) (*model.Reservation, error) {
	f.s.calls.Add(1)
	if !validID(id) {
		return nil, reservationserrors.ErrInvalidID
	}
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	r, ok := f.s.reservations[id]
	if !ok {
		return nil, reservationserrors.ErrNotFound
	}
	return &r, nil
}

func (f fakeReservations) Delete(ctx context.Context, id string) error {
	f.s.calls.Add(1)
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	r, ok := f.s.reservations[id]
	if !ok {
		return reservationserrors.ErrNotFound
	}
	delete(f.s.reservations, id)
	record(ctx, func() { f.s.reservations[id] = r })
	return nil
}

func (f fakeReservations) FindOverlapping(ctx context.Context, spaceID string, start, end time.Time) ([]*model.Reservation, error) {
	f.s.calls.Add(1)
	return f.filter(func(r model.Reservation) bool {
		return r.SpaceID == spaceID && r.StartTime.Before(end) && r.EndTime.After(start)
	}, 0, 0), nil
}

func (f fakeReservations) FindBySpace(ctx context.Context, spaceID string, limit int, offset int64) ([]*model.Reservation, error) {
	f.s.calls.Add(1)
	return f.filter(func(r model.Reservation) bool { return r.SpaceID == spaceID }, limit, offset), nil
}

func (f fakeReservations) CountBySpace(ctx context.Context, spaceID string) (int64, error) {
	f.s.calls.Add(1)
	return int64(len(f.filter(func(r model.Reservation) bool { return r.SpaceID == spaceID }, 0, 0))), nil
}

func (f fakeReservations) FindByMember(ctx context.Context, memberID string, limit int, offset int64) ([]*model.Reservation, error) {
	f.s.calls.Add(1)
	return f.filter(func(r model.Reservation) bool { return r.MemberID == memberID }, limit, offset), nil
}

func (f fakeReservations) CountByMember(ctx context.Context, memberID string) (int64, error) {
	f.s.calls.Add(1)
	return int64(len(f.filter(func(r model.Reservation) bool { return r.MemberID == memberID }, 0, 0))), nil
}

func (f fakeReservations) filter(keep func(model.Reservation) bool, limit int, offset int64) []*model.Reservation {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []*model.Reservation
	for _, r := range f.s.reservations {
		if keep(r) {
			r := r
			out = append(out, &r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return paginate(out, limit, offset)
}

type fakeLogs struct{ s *fakeStore }

func (f fakeLogs) Create(ctx context.Context, entry *model.ReservationLog) error {
	f.s.calls.Add(1)
	if f.s.failLogCreate != nil {
		return f.s.failLogCreate
	}
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	entry.ID = newID()
	f.s.logs = append(f.s.logs, *entry)
	id := entry.ID
	record(ctx, func() {
		for i, l := range f.s.logs {
			if l.ID == id {
				f.s.logs = append(f.s.logs[:i], f.s.logs[i+1:]...)
				return
			}
		}
	})
	return nil
}

func (f fakeLogs) FindAll(ctx context.Context, limit int, offset int64) ([]*model.ReservationLog, error) {
	f.s.calls.Add(1)
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	out := make([]*model.ReservationLog, 0, len(f.s.logs))
	for i := len(f.s.logs) - 1; i >= 0; i-- {
		entry := f.s.logs[i]
		out = append(out, &entry)
	}
	return paginate(out, limit, offset), nil
}

func (f fakeLogs) Count(ctx context.Context) (int64, error) {
	f.s.calls.Add(1)
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return int64(len(f.s.logs)), nil
}

type fakeClaims struct{ s *fakeStore }

func (f fakeClaims) Claim(ctx context.Context, claims []*model.SlotClaim) error {
	f.s.calls.Add(1)
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, c := range claims {
		if _, taken := f.s.claims[c.ID]; taken {
			return reservationserrors.ErrSlotTaken
		}
	}
	for _, c := range claims {
		f.s.claims[c.ID] = *c
		id := c.ID
		record(ctx, func() { delete(f.s.claims, id) })
	}
	return nil
}

func (f fakeClaims) ReleaseByReservation(ctx context.Context, reservationID string) error {
	f.s.calls.Add(1)
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for id, c := range f.s.claims {
		if c.ReservationID == reservationID {
			delete(f.s.claims, id)
			claim := c
			record(ctx, func() { f.s.claims[claim.ID] = claim })
		}
	}
	return nil
}

func paginate[T any](items []T, limit int, offset int64) []T {
	if offset >= int64(len(items)) {
		if limit == 0 && offset == 0 {
			return items
		}
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
