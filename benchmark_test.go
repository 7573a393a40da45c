package workqueue_test

import (
	"crypto/sha256"
	"math/rand"
	"sync/atomic"
	"testing"

	wq "github.com/Andrej220/go-utils/workqueue"
)

var seedCounter atomic.Int64

type workload struct {
	name string
	fn   wq.Operation
}

var shaData = []byte("some deterministic payloadsome deterministic payloadsome deterministic payload")

var workloads = []workload{
	{"empty", func() error { return nil }},
	{"sha256", func() error {
		_ = sha256.Sum256(shaData)
		return nil
	}},
	{"cpu", func() error {
		x := 0
		for i := range 1000 {
			x += i * i
		}
		_ = x
		return nil
	}},
}

func BenchmarkSubmit_Serial(b *testing.B) {
	for _, w := range workloads {
		b.Run(w.name, func(b *testing.B) {
			s := wq.MustNew(wq.Options{})
			defer s.StopAndWait()

			b.ReportAllocs()
			for b.Loop() {
				if err := s.Submit(1, w.fn); err != nil {
					b.Fatalf("submit failed: %v", err)
				}
			}
		})
	}
}

func BenchmarkSubmit_Parallel(b *testing.B) {
	for _, w := range workloads {
		b.Run(w.name, func(b *testing.B) {
			s := wq.MustNew(wq.Options{})
			defer s.StopAndWait()

			b.ReportAllocs()
			b.RunParallel(func(pb *testing.PB) {
				r := rand.New(rand.NewSource(seedCounter.Add(1)))
				for pb.Next() {
					if err := s.Submit(wq.Priority(r.Intn(8)), w.fn); err != nil {
						b.Errorf("submit failed: %v", err)
						return
					}
				}
			})
		})
	}
}

func BenchmarkLanes_Parallel(b *testing.B) {
	l, err := wq.NewLanes(wq.Options{})
	if err != nil {
		b.Fatal(err)
	}
	defer l.StopAndWait()

	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		r := rand.New(rand.NewSource(seedCounter.Add(1)))
		for pb.Next() {
			lane := wq.NormalLane
			if r.Intn(3) == 0 {
				lane = wq.HighLane
			}
			if err := l.Submit(lane, workloads[0].fn); err != nil {
				b.Errorf("submit failed: %v", err)
				return
			}
		}
	})
}
