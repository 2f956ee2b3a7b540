package carfifo_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jjawny/parkingsim/internal/carfifo"
)

func never() bool { return false }

func TestEntranceQueuePushPop(t *testing.T) {
	q := carfifo.NewEntranceQueue(4)

	if ok := q.Push(carfifo.Descriptor{Plate: "123ABC"}, never); !ok {
		t.Fatal("Push returned false")
	}
	d, ok := q.Pop(never)
	if !ok {
		t.Fatal("Pop returned false")
	}
	if d.Plate != "123ABC" {
		t.Fatalf("Pop: got plate %q", d.Plate)
	}
}

func TestEntranceQueuePopBlocksUntilPush(t *testing.T) {
	q := carfifo.NewEntranceQueue(4)
	result := make(chan carfifo.Descriptor, 1)

	go func() {
		d, ok := q.Pop(never)
		if ok {
			result <- d
		}
	}()

	time.Sleep(10 * time.Millisecond)
	q.Push(carfifo.Descriptor{Plate: "999ZZZ"}, never)

	select {
	case d := <-result:
		if d.Plate != "999ZZZ" {
			t.Fatalf("got %q", d.Plate)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Pop never unblocked")
	}
}

func TestEntranceQueueShutdownUnblocksPop(t *testing.T) {
	q := carfifo.NewEntranceQueue(4)
	var shutdown atomic.Bool
	done := make(chan bool, 1)

	go func() {
		_, ok := q.Pop(shutdown.Load)
		done <- ok
	}()

	time.Sleep(10 * time.Millisecond)
	shutdown.Store(true)
	q.Broadcast()

	select {
	case ok := <-done:
		if ok {
			t.Fatal("Pop returned ok=true on shutdown")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Pop did not unblock on shutdown")
	}
}

func TestExitQueueConcurrentProducers(t *testing.T) {
	// Nothing pops until every producer is done, so the capacity must hold
	// all producers*perProducer descriptors.
	q := carfifo.NewExitQueue(512)
	const producers = 10
	const perProducer = 50

	var wg sync.WaitGroup
	for i := 0; i < producers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < perProducer; j++ {
				q.Push(carfifo.Descriptor{Plate: "111AAA", Level: id}, never)
			}
		}(i)
	}
	wg.Wait()

	count := 0
	for count < producers*perProducer {
		if _, ok := q.Pop(never); ok {
			count++
		}
	}
	if count != producers*perProducer {
		t.Fatalf("drained %d, want %d", count, producers*perProducer)
	}
}

func TestExitQueueDrain(t *testing.T) {
	q := carfifo.NewExitQueue(4)
	q.Push(carfifo.Descriptor{Plate: "222BBB"}, never)
	q.Drain()
	d, ok := q.Pop(never)
	if !ok || d.Plate != "222BBB" {
		t.Fatalf("Pop after Drain: d=%+v ok=%v", d, ok)
	}
}
