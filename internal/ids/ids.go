// Package ids allocates paste identifiers.
package ids

import (
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

const (
	SchemeUUID = "uuid"
	SchemeHex  = "hex"
)

// Generator hands out identifiers. Implementations are safe for concurrent use.
type Generator interface {
	Generate() string
}

// New returns the generator for scheme.
func New(scheme string) (Generator, error) {
	switch scheme {
	case "", SchemeUUID:
		return UUIDv7{}, nil
	case SchemeHex:
		return NewSequence(nil), nil
	default:
		return nil, fmt.Errorf("unknown id scheme %q", scheme)
	}
}

// UUIDv7 yields time-ordered UUIDs with a random tail.
type UUIDv7 struct{}

func (UUIDv7) Generate() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Only fails when the random source does.
		return uuid.NewString()
	}
	return id.String()
}

// Sequence yields lowercase hex of a millisecond counter that never repeats:
// each value is the larger of the wall clock and the previous value plus one.
type Sequence struct {
	last atomic.Int64
	now  func() time.Time
}

func NewSequence(now func() time.Time) *Sequence {
	if now == nil {
		now = time.Now
	}
	return &Sequence{now: now}
}

func (s *Sequence) Generate() string {
	return strconv.FormatInt(s.next(), 16)
}

func (s *Sequence) next() int64 {
	for {
		prev := s.last.Load()
		v := s.now().UnixMilli()
		if v <= prev {
			v = prev + 1
		}
		if s.last.CompareAndSwap(prev, v) {
			return v
		}
	}
}
