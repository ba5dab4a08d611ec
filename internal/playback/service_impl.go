package playback

import (
	"sync"

	"github.com/charmbracelet/log"

	"cadence/internal/playlist"
	"cadence/internal/sequencer"
)

const historySize = 50

// Verify serviceImpl implements Service at compile time.
var _ Service = (*serviceImpl)(nil)

type serviceImpl struct {
	mu sync.RWMutex

	queue   *playlist.Queue
	history *playlist.History
	seeded  bool // history holds the pre-mutation state

	// seq is nil while the queue has no current track. modes outlive it so
	// flags set on an empty queue stick.
	seq   *sequencer.Sequencer
	modes sequencer.Modes

	logger *log.Logger

	subs   []*Subscription
	subsMu sync.RWMutex

	closed bool
}

// New creates a new playback service. A nil logger falls back to the
// default logger.
func New(logger *log.Logger) Service {
	if logger == nil {
		logger = log.Default()
	}
	return &serviceImpl{
		queue:   playlist.NewQueue(),
		history: playlist.NewHistory(historySize),
		logger:  logger,
	}
}

// rebuildSequencerLocked replaces the sequencer to match the queue. Any
// queue-content mutation invalidates the old one: indices may now refer to
// different tracks, so an active shuffle order is regenerated, anchored at
// the surviving current track.
func (s *serviceImpl) rebuildSequencerLocked() {
	if s.queue.IsEmpty() || s.queue.CurrentIndex() < 0 {
		s.seq = nil
		return
	}
	s.seq = sequencer.New(s.queue.Len(), s.queue.CurrentIndex())
	s.seq.SetLogger(s.logger)
	s.seq.SetRepeat(s.modes.Repeat)
	s.seq.SetShuffle(s.modes.Shuffle)
}

// mutateQueueLocked runs a queue-content mutation with history bookkeeping,
// sequencer rebuild and the QueueChange event.
func (s *serviceImpl) mutateQueueLocked(fn func()) {
	if !s.seeded {
		s.history.Push(s.queue.Tracks())
		s.seeded = true
	}
	fn()
	s.history.Push(s.queue.Tracks())
	s.rebuildSequencerLocked()
	s.emitQueue()
}

func copyTrack(t *playlist.Track) *playlist.Track {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

// Next advances to the track the sequencer picks and returns it. Returns
// nil when the queue is exhausted with repeat off; a Finished event fires
// in that case.
func (s *serviceImpl) Next() *playlist.Track {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.seq == nil {
		return nil
	}

	index, ok := s.seq.NextTrack()
	if !ok {
		s.emitFinished(Finished{LastIndex: s.queue.CurrentIndex()})
		return nil
	}

	prev := copyTrack(s.queue.Current())
	prevIndex := s.queue.CurrentIndex()
	s.seq.SyncTo(index)
	track := copyTrack(s.queue.JumpTo(index))
	s.emitTrack(TrackChange{
		Previous:      prev,
		Current:       track,
		PreviousIndex: prevIndex,
		Index:         index,
	})
	return track
}

// Previous moves to the previous track in list order. Always linear,
// ignores shuffle.
func (s *serviceImpl) Previous() *playlist.Track {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.queue.CurrentIndex() <= 0 {
		return nil
	}
	return s.jumpLocked(s.queue.CurrentIndex() - 1)
}

// JumpTo moves directly to the track at index and returns it, or nil if
// the index is invalid.
func (s *serviceImpl) JumpTo(index int) *playlist.Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jumpLocked(index)
}

func (s *serviceImpl) jumpLocked(index int) *playlist.Track {
	prev := copyTrack(s.queue.Current())
	prevIndex := s.queue.CurrentIndex()

	track := copyTrack(s.queue.JumpTo(index))
	if track == nil {
		return nil
	}

	// Keep shuffle bookkeeping in step with the manual jump.
	if s.seq == nil {
		s.rebuildSequencerLocked()
	} else {
		s.seq.SyncTo(index)
	}

	s.emitTrack(TrackChange{
		Previous:      prev,
		Current:       track,
		PreviousIndex: prevIndex,
		Index:         index,
	})
	return track
}

// PeekNext returns the track Next would move to, without advancing. Returns
// nil when there is no next track, and also when the next pick would come
// from a shuffle cycle that has not been generated yet.
func (s *serviceImpl) PeekNext() *playlist.Track {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.seq == nil {
		return nil
	}
	index, ok := s.seq.Peek()
	if !ok {
		return nil
	}
	return copyTrack(s.queue.Track(index))
}

// AddTracks appends tracks to the queue without changing playback.
func (s *serviceImpl) AddTracks(tracks ...playlist.Track) {
	if len(tracks) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mutateQueueLocked(func() {
		s.queue.Add(tracks...)
	})
}

// AddAndPlay appends tracks and moves to the first added one.
func (s *serviceImpl) AddAndPlay(tracks ...playlist.Track) *playlist.Track {
	if len(tracks) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := copyTrack(s.queue.Current())
	prevIndex := s.queue.CurrentIndex()

	var track *playlist.Track
	s.mutateQueueLocked(func() {
		track = copyTrack(s.queue.AddAndPlay(tracks...))
	})
	s.emitTrack(TrackChange{
		Previous:      prev,
		Current:       track,
		PreviousIndex: prevIndex,
		Index:         s.queue.CurrentIndex(),
	})
	return track
}

// ReplaceTracks replaces the queue contents and moves to the first track.
// Returns nil when called with no tracks (queue is cleared).
func (s *serviceImpl) ReplaceTracks(tracks ...playlist.Track) *playlist.Track {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := copyTrack(s.queue.Current())
	prevIndex := s.queue.CurrentIndex()

	var track *playlist.Track
	s.mutateQueueLocked(func() {
		track = copyTrack(s.queue.Replace(tracks...))
	})
	if track != nil {
		s.emitTrack(TrackChange{
			Previous:      prev,
			Current:       track,
			PreviousIndex: prevIndex,
			Index:         0,
		})
	}
	return track
}

// RemoveTrack removes the track at index. Removing the current track leaves
// the session without a current track until the caller navigates.
func (s *serviceImpl) RemoveTrack(index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	ok := false
	s.mutateQueueLocked(func() {
		ok = s.queue.RemoveAt(index)
	})
	return ok
}

// MoveTrack moves a track within the queue, keeping the cursor on the same
// track.
func (s *serviceImpl) MoveTrack(fromIndex, toIndex int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	ok := false
	s.mutateQueueLocked(func() {
		ok = s.queue.Move(fromIndex, toIndex)
	})
	return ok
}

// ClearQueue removes all tracks and resets the session cursor.
func (s *serviceImpl) ClearQueue() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mutateQueueLocked(func() {
		s.queue.Clear()
	})
}

// Undo restores the previous queue contents.
func (s *serviceImpl) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	tracks, ok := s.history.Undo()
	if !ok {
		return false
	}
	s.applyHistoryLocked(tracks)
	return true
}

// Redo restores the next queue contents.
func (s *serviceImpl) Redo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	tracks, ok := s.history.Redo()
	if !ok {
		return false
	}
	s.applyHistoryLocked(tracks)
	return true
}

// applyHistoryLocked swaps in a history snapshot, keeping the cursor
// position where possible (clamped to the new length).
func (s *serviceImpl) applyHistoryLocked(tracks []playlist.Track) {
	oldIndex := s.queue.CurrentIndex()

	s.queue.Replace(tracks...)
	switch {
	case len(tracks) == 0 || oldIndex < 0:
		s.queue.ResetCursor()
	case oldIndex < len(tracks):
		s.queue.JumpTo(oldIndex)
	default:
		s.queue.JumpTo(len(tracks) - 1)
	}

	s.rebuildSequencerLocked()
	s.emitQueue()
}

// ToggleShuffle flips shuffle mode and returns the new value.
func (s *serviceImpl) ToggleShuffle() bool {
	s.mu.Lock()
	enabled := !s.modes.Shuffle
	s.setShuffleLocked(enabled)
	s.mu.Unlock()
	return enabled
}

// ToggleRepeat flips repeat mode and returns the new value.
func (s *serviceImpl) ToggleRepeat() bool {
	s.mu.Lock()
	enabled := !s.modes.Repeat
	s.setRepeatLocked(enabled)
	s.mu.Unlock()
	return enabled
}

// SetShuffle sets shuffle mode.
func (s *serviceImpl) SetShuffle(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setShuffleLocked(enabled)
}

// SetRepeat sets repeat mode.
func (s *serviceImpl) SetRepeat(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setRepeatLocked(enabled)
}

func (s *serviceImpl) setShuffleLocked(enabled bool) {
	if s.modes.Shuffle == enabled {
		return
	}
	s.modes.Shuffle = enabled
	if s.seq != nil {
		s.seq.SetShuffle(enabled)
	}
	s.emitMode(ModeChange{Modes: s.modes})
}

func (s *serviceImpl) setRepeatLocked(enabled bool) {
	if s.modes.Repeat == enabled {
		return
	}
	s.modes.Repeat = enabled
	if s.seq != nil {
		s.seq.SetRepeat(enabled)
	}
	s.emitMode(ModeChange{Modes: s.modes})
}

// Modes returns both mode flags.
func (s *serviceImpl) Modes() sequencer.Modes {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.modes
}

// CurrentTrack returns the current track, or nil if none.
func (s *serviceImpl) CurrentTrack() *playlist.Track {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyTrack(s.queue.Current())
}

// CurrentIndex returns the current queue index (-1 if none).
func (s *serviceImpl) CurrentIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queue.CurrentIndex()
}

// QueueTracks returns a copy of all tracks in the queue.
func (s *serviceImpl) QueueTracks() []playlist.Track {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queue.Tracks()
}

// QueueLen returns the number of tracks in the queue.
func (s *serviceImpl) QueueLen() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queue.Len()
}

// QueueIsEmpty returns true if the queue has no tracks.
func (s *serviceImpl) QueueIsEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queue.IsEmpty()
}

// Snapshot captures the session for persistence. The shuffle order is not
// part of it: a restored session generates a fresh one.
func (s *serviceImpl) Snapshot() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Session{
		Tracks:       s.queue.Tracks(),
		CurrentIndex: s.queue.CurrentIndex(),
		Modes:        s.modes,
	}
}

// Restore replaces the session with a persisted snapshot.
func (s *serviceImpl) Restore(sess Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.queue.Replace(sess.Tracks...)
	if sess.CurrentIndex >= 0 && sess.CurrentIndex < s.queue.Len() {
		s.queue.JumpTo(sess.CurrentIndex)
	} else {
		s.queue.ResetCursor()
	}
	s.modes = sess.Modes

	s.history = playlist.NewHistory(historySize)
	s.history.Push(s.queue.Tracks())
	s.seeded = true

	s.rebuildSequencerLocked()
	s.emitQueue()
	s.emitMode(ModeChange{Modes: s.modes})
}

// Subscribe creates a new event subscription.
func (s *serviceImpl) Subscribe() *Subscription {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	sub := newSubscription()
	s.subs = append(s.subs, sub)
	return sub
}

// Close shuts down the service.
func (s *serviceImpl) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.subsMu.Lock()
	for _, sub := range s.subs {
		sub.close()
	}
	s.subs = nil
	s.subsMu.Unlock()

	return nil
}

func (s *serviceImpl) emitTrack(e TrackChange) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendTrack(e)
	}
}

func (s *serviceImpl) emitQueue() {
	e := QueueChange{Tracks: s.queue.Tracks(), Index: s.queue.CurrentIndex()}
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendQueue(e)
	}
}

func (s *serviceImpl) emitMode(e ModeChange) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendMode(e)
	}
}

func (s *serviceImpl) emitFinished(e Finished) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendFinished(e)
	}
}
