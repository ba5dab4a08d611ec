package playback

import (
	"cadence/internal/playlist"
	"cadence/internal/sequencer"
)

// TrackChange is emitted when the session's current track changes.
//
// Emitted by:
//   - Next: when the sequencer picks a track to advance to
//   - Previous/JumpTo: when navigating directly
//   - AddAndPlay/ReplaceTracks: when a queue mutation selects a new track
//
// NOT emitted by:
//   - Next at end of queue with repeat off: the Finished event fires instead
//   - Add/RemoveTrack/MoveTrack: queue edits that keep the same current track
//
// The consumer owns audio I/O and handles all track side effects (starting
// the stream, notifications, scrobble) in response to this event.
type TrackChange struct {
	Previous      *playlist.Track
	Current       *playlist.Track
	PreviousIndex int
	Index         int
}

// QueueChange is emitted when the queue contents change.
type QueueChange struct {
	Tracks []playlist.Track
	Index  int
}

// ModeChange is emitted when shuffle or repeat changes.
type ModeChange struct {
	Modes sequencer.Modes
}

// Finished is emitted when the queue is exhausted with repeat off and
// playback should stop.
type Finished struct {
	LastIndex int
}
