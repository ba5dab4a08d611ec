// Package playback exposes the playback session: the queue of tracks, the
// shuffle/repeat modes, and next-track decisions. It is the narrow interface
// the UI layer drives; audio I/O stays with the caller.
package playback

import (
	"cadence/internal/playlist"
	"cadence/internal/sequencer"
)

// Session is a snapshot of a playback session for persistence.
type Session struct {
	Tracks       []playlist.Track
	CurrentIndex int
	Modes        sequencer.Modes
}

// Service defines the playback session contract.
type Service interface {
	// Navigation. Each returns the track that should now play, or nil when
	// playback stops (end of queue with repeat off, or nothing to play).
	Next() *playlist.Track
	Previous() *playlist.Track
	JumpTo(index int) *playlist.Track
	PeekNext() *playlist.Track

	// Queue manipulation
	AddTracks(tracks ...playlist.Track)
	AddAndPlay(tracks ...playlist.Track) *playlist.Track
	ReplaceTracks(tracks ...playlist.Track) *playlist.Track
	RemoveTrack(index int) bool
	MoveTrack(fromIndex, toIndex int) bool
	ClearQueue()

	// Queue history
	Undo() bool
	Redo() bool

	// Mode control
	ToggleShuffle() bool
	ToggleRepeat() bool
	SetShuffle(enabled bool)
	SetRepeat(enabled bool)
	Modes() sequencer.Modes

	// State queries
	CurrentTrack() *playlist.Track
	CurrentIndex() int
	QueueTracks() []playlist.Track
	QueueLen() int
	QueueIsEmpty() bool

	// Persistence
	Snapshot() Session
	Restore(s Session)

	// Event subscription
	Subscribe() *Subscription

	// Lifecycle
	Close() error
}
