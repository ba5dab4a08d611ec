// Package sequencer decides which track plays next.
//
// A Sequencer tracks the playback cursor for one playback context (an album
// or ad-hoc queue of a fixed track count) together with the shuffle and
// repeat flags. It owns the decision only: NextTrack returns the index that
// should play next without touching the caller's playback state, and the
// caller reports every applied track change back through SyncTo.
package sequencer

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
)

// Modes holds the two independent playback mode flags.
type Modes struct {
	Shuffle bool
	Repeat  bool
}

// Sequencer computes next-track decisions for a fixed-size track list.
// It is not safe for concurrent use; callers serialize access.
type Sequencer struct {
	trackCount   int
	currentIndex int
	shufflePos   int
	order        []int // nil while shuffle is off
	modes        Modes
	rng          *rand.Rand
	logger       *log.Logger
}

// New creates a Sequencer for trackCount tracks with the cursor on
// startIndex. Both modes start off. trackCount and startIndex outside their
// valid ranges are programmer errors and panic.
func New(trackCount, startIndex int) *Sequencer {
	if trackCount < 1 {
		panic(fmt.Sprintf("sequencer: trackCount must be >= 1, got %d", trackCount))
	}
	if startIndex < 0 || startIndex >= trackCount {
		panic(fmt.Sprintf("sequencer: startIndex %d out of range [0,%d)", startIndex, trackCount))
	}
	return &Sequencer{
		trackCount:   trackCount,
		currentIndex: startIndex,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:       log.Default(),
	}
}

// SetLogger replaces the logger used for invariant-violation reports.
func (s *Sequencer) SetLogger(logger *log.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// setRand replaces the random source. Tests use this for determinism.
func (s *Sequencer) setRand(rng *rand.Rand) {
	s.rng = rng
}

// TrackCount returns the size of the playback context.
func (s *Sequencer) TrackCount() int { return s.trackCount }

// CurrentIndex returns the index of the current track in list order.
func (s *Sequencer) CurrentIndex() int { return s.currentIndex }

// ShufflePosition returns the cursor's offset within the shuffle order.
// Meaningless while shuffle is off.
func (s *Sequencer) ShufflePosition() int { return s.shufflePos }

// ShuffleEnabled reports whether shuffle mode is on.
func (s *Sequencer) ShuffleEnabled() bool { return s.modes.Shuffle }

// RepeatEnabled reports whether repeat mode is on.
func (s *Sequencer) RepeatEnabled() bool { return s.modes.Repeat }

// Modes returns both mode flags.
func (s *Sequencer) Modes() Modes { return s.modes }

// Order returns a copy of the active shuffle order, or nil when shuffle
// is off.
func (s *Sequencer) Order() []int {
	if s.order == nil {
		return nil
	}
	order := make([]int, len(s.order))
	copy(order, s.order)
	return order
}

// SetShuffle sets shuffle mode. Enabling it (including re-enabling after a
// disable) generates a fresh order anchored at the current track; the old
// order is never reused. Disabling discards the order and makes list order
// authoritative again. Setting the already-active value is a no-op.
func (s *Sequencer) SetShuffle(enabled bool) {
	if s.modes.Shuffle == enabled {
		return
	}
	s.modes.Shuffle = enabled
	if enabled {
		s.order = GenerateOrder(s.rng, s.trackCount, s.currentIndex)
		s.shufflePos = 0
	} else {
		s.order = nil
		s.shufflePos = 0
	}
}

// ToggleShuffle flips shuffle mode and returns the new value.
func (s *Sequencer) ToggleShuffle() bool {
	s.SetShuffle(!s.modes.Shuffle)
	return s.modes.Shuffle
}

// SetRepeat sets repeat mode. No other state changes.
func (s *Sequencer) SetRepeat(enabled bool) {
	s.modes.Repeat = enabled
}

// ToggleRepeat flips repeat mode and returns the new value.
func (s *Sequencer) ToggleRepeat() bool {
	s.modes.Repeat = !s.modes.Repeat
	return s.modes.Repeat
}

// NextTrack returns the index of the track that should play next, or false
// when playback should stop (end of context with repeat off).
//
// With shuffle off the decision follows list order, wrapping to 0 when
// repeat is on. With shuffle on it follows the shuffle order; exhausting the
// order with repeat on generates a fresh cycle anchored at a random track
// and returns its first index.
//
// NextTrack never moves the current-track cursor. The caller applies the
// returned index to its playback state and reports it back via SyncTo.
func (s *Sequencer) NextTrack() (int, bool) {
	if !s.modes.Shuffle {
		next := s.currentIndex + 1
		if next < s.trackCount {
			return next, true
		}
		if s.modes.Repeat {
			return 0, true
		}
		return 0, false
	}

	nextPos := s.shufflePos + 1
	if nextPos < s.trackCount {
		s.shufflePos = nextPos
		return s.order[nextPos], true
	}
	if s.modes.Repeat {
		// New cycle: the anchor is arbitrary, so pick it at random.
		s.order = GenerateOrder(s.rng, s.trackCount, s.rng.Intn(s.trackCount))
		s.shufflePos = 0
		return s.order[0], true
	}
	return 0, false
}

// Peek returns the next index NextTrack would hand out, without advancing
// anything. It returns false when there is no next track, and also when the
// next pick would come from a shuffle cycle that has not been generated yet
// (exhausted order with repeat on).
func (s *Sequencer) Peek() (int, bool) {
	if !s.modes.Shuffle {
		next := s.currentIndex + 1
		if next < s.trackCount {
			return next, true
		}
		if s.modes.Repeat {
			return 0, true
		}
		return 0, false
	}
	nextPos := s.shufflePos + 1
	if nextPos < s.trackCount {
		return s.order[nextPos], true
	}
	return 0, false
}

// SyncTo reports that the current track changed to newIndex, whether from a
// NextTrack decision being applied or from the user jumping to a track
// directly. With shuffle on it relocates the shuffle cursor to newIndex's
// position in the order. An out-of-range index is a programmer error and
// panics.
//
// The order always contains every valid index, so a failed lookup means a
// corrupted order. That is logged as a defect and healed by generating a
// fresh order anchored at newIndex.
func (s *Sequencer) SyncTo(newIndex int) {
	if newIndex < 0 || newIndex >= s.trackCount {
		panic(fmt.Sprintf("sequencer: index %d out of range [0,%d)", newIndex, s.trackCount))
	}
	s.currentIndex = newIndex
	if !s.modes.Shuffle {
		return
	}
	for pos, idx := range s.order {
		if idx == newIndex {
			s.shufflePos = pos
			return
		}
	}
	s.logger.Warn("shuffle order missing track index, regenerating",
		"index", newIndex, "trackCount", s.trackCount)
	s.order = GenerateOrder(s.rng, s.trackCount, newIndex)
	s.shufflePos = 0
}
