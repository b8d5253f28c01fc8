package streak

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/loan-agent-trainer/internal/domain/entities"
	usecaseErrors "github.com/johnquangdev/loan-agent-trainer/internal/usecase/errors"
)

type fakeStreakRepo struct {
	mu     sync.Mutex
	states map[uuid.UUID]entities.StreakState
	saves  int
	delay  time.Duration
}

func newFakeStreakRepo() *fakeStreakRepo {
	return &fakeStreakRepo{states: make(map[uuid.UUID]entities.StreakState)}
}

func (r *fakeStreakRepo) LoadState(ctx context.Context, userID uuid.UUID) (entities.StreakState, error) {
	time.Sleep(r.delay)
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.states[userID]
	if !ok {
		return entities.StreakState{}, entities.ErrUserNotFound
	}
	return st, nil
}

func (r *fakeStreakRepo) SaveState(ctx context.Context, userID uuid.UUID, state entities.StreakState, today *entities.DailyScore) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves++
	r.states[userID] = state
	return nil
}

// countingLocker is a keyed mutex that records the highest number of concurrent holders per key
type countingLocker struct {
	mu      sync.Mutex
	locks   map[string]*sync.Mutex
	holders map[string]*int32
	maxSeen int32
	failErr error
}

func newCountingLocker() *countingLocker {
	return &countingLocker{locks: make(map[string]*sync.Mutex), holders: make(map[string]*int32)}
}

func (l *countingLocker) Lock(ctx context.Context, key string) (func(), error) {
	if l.failErr != nil {
		return nil, l.failErr
	}
	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
		l.holders[key] = new(int32)
	}
	counter := l.holders[key]
	l.mu.Unlock()

	m.Lock()
	n := atomic.AddInt32(counter, 1)
	for {
		seen := atomic.LoadInt32(&l.maxSeen)
		if n <= seen || atomic.CompareAndSwapInt32(&l.maxSeen, seen, n) {
			break
		}
	}
	return func() {
		atomic.AddInt32(counter, -1)
		m.Unlock()
	}, nil
}

func newTestService(repo *fakeStreakRepo, locker Locker) *StreakService {
	s := NewStreakService(repo, locker, NewEvaluator(kolkata, DefaultPassThreshold), nil)
	s.now = func() time.Time { return now }
	return s
}

func TestUpdateStreak_Continuation(t *testing.T) {
	repo := newFakeStreakRepo()
	userID := uuid.New()
	repo.states[userID] = entities.StreakState{CurrentStreak: 3, LastPerformanceDate: timep(day(14)), LastPerformanceScore: intp(80)}

	out, err := newTestService(repo, newCountingLocker()).UpdateStreak(context.Background(), userID, intp(65))
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if out.CurrentStreak != 4 || out.Message != "Streak continued! Great job today." {
		t.Fatalf("unexpected output %+v", out)
	}
	if saved := repo.states[userID]; saved.CurrentStreak != 4 || !saved.LastPerformanceDate.Equal(day(15)) {
		t.Fatalf("unexpected saved state %+v", saved)
	}
}

func TestUpdateStreak_PassiveWritesOnlyResets(t *testing.T) {
	repo := newFakeStreakRepo()
	awaiting, missed := uuid.New(), uuid.New()
	repo.states[awaiting] = entities.StreakState{CurrentStreak: 3, LastPerformanceDate: timep(day(14)), LastPerformanceScore: intp(80)}
	repo.states[missed] = entities.StreakState{CurrentStreak: 3, LastPerformanceDate: timep(day(12)), LastPerformanceScore: intp(80)}
	s := newTestService(repo, newCountingLocker())

	if _, err := s.UpdateStreak(context.Background(), awaiting, nil); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if repo.saves != 0 {
		t.Fatalf("unchanged streak must not be written")
	}

	out, err := s.UpdateStreak(context.Background(), missed, nil)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if out.CurrentStreak != 0 || repo.saves != 1 {
		t.Fatalf("expected persisted reset, got %+v after %d saves", out, repo.saves)
	}
}

func TestUpdateStreak_Errors(t *testing.T) {
	repo := newFakeStreakRepo()
	s := newTestService(repo, newCountingLocker())

	if _, err := s.UpdateStreak(context.Background(), uuid.New(), intp(101)); !errors.Is(err, usecaseErrors.ErrInvalidScore) {
		t.Fatalf("expected invalid score got %v", err)
	}
	if _, err := s.UpdateStreak(context.Background(), uuid.New(), intp(70)); !errors.Is(err, usecaseErrors.ErrUserNotFound) {
		t.Fatalf("expected user not found got %v", err)
	}

	locker := newCountingLocker()
	locker.failErr = context.DeadlineExceeded
	if _, err := newTestService(repo, locker).GetStreak(context.Background(), uuid.New()); !errors.Is(err, usecaseErrors.ErrStreakBusy) {
		t.Fatalf("expected busy got %v", err)
	}
}

func TestGetStreak_Messages(t *testing.T) {
	repo := newFakeStreakRepo()
	fresh, missed := uuid.New(), uuid.New()
	repo.states[fresh] = entities.StreakState{CurrentStreak: 2, LastPerformanceDate: timep(day(15)), LastPerformanceScore: intp(75)}
	repo.states[missed] = entities.StreakState{CurrentStreak: 2, LastPerformanceDate: timep(day(11)), LastPerformanceScore: intp(75)}
	s := newTestService(repo, newCountingLocker())

	out, err := s.GetStreak(context.Background(), fresh)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if out.CurrentStreak != 2 || out.Message != "Current streak retrieved." || *out.LastPerformanceScore != 75 {
		t.Fatalf("unexpected output %+v", out)
	}

	out, err = s.GetStreak(context.Background(), missed)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if out.CurrentStreak != 0 || out.Message != "Streak was reset due to a missed day. Current streak is 0." {
		t.Fatalf("unexpected output %+v", out)
	}
	if repo.states[missed].CurrentStreak != 0 {
		t.Fatalf("reset was not persisted")
	}
}

func TestUpdateStreak_SerializesPerUser(t *testing.T) {
	repo := newFakeStreakRepo()
	repo.delay = 2 * time.Millisecond
	users := []uuid.UUID{uuid.New(), uuid.New()}
	for _, id := range users {
		repo.states[id] = entities.StreakState{}
	}
	locker := newCountingLocker()
	s := newTestService(repo, locker)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := s.UpdateStreak(context.Background(), users[i%2], intp(50+i)); err != nil {
				t.Errorf("update failed: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if locker.maxSeen != 1 {
		t.Fatalf("expected one holder per user at a time, saw %d", locker.maxSeen)
	}
	for _, id := range users {
		st := repo.states[id]
		if len(st.DailyScores) != 1 || st.CurrentStreak != 1 {
			t.Fatalf("expected a single daily score and streak 1, got %+v", st)
		}
	}
}
