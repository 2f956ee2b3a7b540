package shm_test

import (
	"sync"
	"testing"
	"time"

	"github.com/jjawny/parkingsim/internal/shm"
)

func newTestLayout(t *testing.T, counts shm.Counts) *shm.Layout {
	t.Helper()
	buf := make([]byte, counts.Size())
	l, err := shm.NewLayout(counts, buf)
	if err != nil {
		t.Fatalf("NewLayout: %v", err)
	}
	return l
}

func TestLayoutRejectsOutOfRangeCounts(t *testing.T) {
	buf := make([]byte, 1024)
	if _, err := shm.NewLayout(shm.Counts{Entrances: 0, Exits: 1, Levels: 1}, buf); err == nil {
		t.Fatal("want error for Entrances=0")
	}
	if _, err := shm.NewLayout(shm.Counts{Entrances: 6, Exits: 1, Levels: 1}, buf); err == nil {
		t.Fatal("want error for Entrances=6")
	}
}

func TestLayoutRejectsWrongBufferSize(t *testing.T) {
	counts := shm.Counts{Entrances: 2, Exits: 2, Levels: 2}
	buf := make([]byte, counts.Size()-1)
	if _, err := shm.NewLayout(counts, buf); err == nil {
		t.Fatal("want error for undersized buffer")
	}
}

func TestLayoutAccessorsDoNotOverlap(t *testing.T) {
	counts := shm.Counts{Entrances: 3, Exits: 2, Levels: 4}
	l := newTestLayout(t, counts)

	for i := 0; i < counts.Entrances; i++ {
		l.Entrance(i).LPR.Plate[0] = byte('A' + i)
	}
	for i := 0; i < counts.Exits; i++ {
		l.Exit(i).LPR.Plate[0] = byte('a' + i)
	}
	for i := 0; i < counts.Levels; i++ {
		l.Level(i).Temperature.StoreRelaxed(int32(30 + i))
	}

	for i := 0; i < counts.Entrances; i++ {
		if got := l.Entrance(i).LPR.Plate[0]; got != byte('A'+i) {
			t.Fatalf("entrance %d plate[0] = %c, want %c", i, got, 'A'+i)
		}
	}
	for i := 0; i < counts.Levels; i++ {
		if got := l.Level(i).Temperature.LoadRelaxed(); got != int32(30+i) {
			t.Fatalf("level %d temperature = %d, want %d", i, got, 30+i)
		}
	}
}

func TestShutdownFlag(t *testing.T) {
	l := newTestLayout(t, shm.Counts{Entrances: 1, Exits: 1, Levels: 1})
	if l.ShutdownRequested() {
		t.Fatal("ShutdownRequested true before RequestShutdown")
	}
	l.RequestShutdown()
	if !l.ShutdownRequested() {
		t.Fatal("ShutdownRequested false after RequestShutdown")
	}
}

func TestMutexExcludesConcurrentAccess(t *testing.T) {
	var mu shm.Mutex
	counter := 0
	var wg sync.WaitGroup
	const goroutines = 16
	const iterations = 200

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				mu.Lock()
				counter++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if counter != goroutines*iterations {
		t.Fatalf("counter = %d, want %d", counter, goroutines*iterations)
	}
}

func TestCondWaitWakesOnBroadcast(t *testing.T) {
	var mu shm.Mutex
	var cond shm.Cond
	ready := false

	done := make(chan struct{})
	go func() {
		mu.Lock()
		cond.Wait(&mu, func() bool { return ready })
		mu.Unlock()
		close(done)
	}()

	time.Sleep(5 * time.Millisecond)
	mu.Lock()
	ready = true
	mu.Unlock()
	cond.Broadcast()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Wait did not return after Broadcast")
	}
}

func TestCondWaitOrShutdown(t *testing.T) {
	var mu shm.Mutex
	var cond shm.Cond
	shutdown := false

	resultCh := make(chan bool, 1)
	go func() {
		mu.Lock()
		ok := cond.WaitOrShutdown(&mu, func() bool { return false }, func() bool { return shutdown })
		mu.Unlock()
		resultCh <- ok
	}()

	time.Sleep(5 * time.Millisecond)
	mu.Lock()
	shutdown = true
	mu.Unlock()
	cond.Broadcast()

	select {
	case ok := <-resultCh:
		if ok {
			t.Fatal("WaitOrShutdown returned true, want false on shutdown")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("WaitOrShutdown did not return after shutdown")
	}
}
