package playlist

// Queue wraps a Playlist with the position of the track being played.
// It owns storage and cursor only; shuffle and repeat decisions live in
// the sequencer.
type Queue struct {
	playlist     *Playlist
	currentIndex int // -1 if nothing playing
}

// NewQueue creates a new empty queue.
func NewQueue() *Queue {
	return &Queue{
		playlist:     NewPlaylist(),
		currentIndex: -1,
	}
}

// Current returns the currently playing track, or nil if none.
func (q *Queue) Current() *Track {
	if q.currentIndex < 0 || q.currentIndex >= q.playlist.Len() {
		return nil
	}
	return q.playlist.Track(q.currentIndex)
}

// CurrentIndex returns the index of the currently playing track (-1 if none).
func (q *Queue) CurrentIndex() int {
	return q.currentIndex
}

// JumpTo sets the current index to the specified position.
// Returns the track at that position, or nil if invalid.
func (q *Queue) JumpTo(index int) *Track {
	if index < 0 || index >= q.playlist.Len() {
		return nil
	}
	q.currentIndex = index
	return q.Current()
}

// Add appends tracks to the queue without changing playback.
func (q *Queue) Add(tracks ...Track) {
	q.playlist.Add(tracks...)
}

// AddAndPlay appends tracks and jumps to the first added track.
// Returns the track to play.
func (q *Queue) AddAndPlay(tracks ...Track) *Track {
	if len(tracks) == 0 {
		return nil
	}
	insertIndex := q.playlist.Len()
	q.playlist.Add(tracks...)
	q.currentIndex = insertIndex
	return q.Current()
}

// Replace clears the queue, adds tracks, and sets index to 0.
// Returns the first track to play.
func (q *Queue) Replace(tracks ...Track) *Track {
	q.playlist.Clear()
	q.currentIndex = -1
	if len(tracks) == 0 {
		return nil
	}
	q.playlist.Add(tracks...)
	q.currentIndex = 0
	return q.Current()
}

// RemoveAt removes the track at the given index.
// Adjusts currentIndex if necessary.
func (q *Queue) RemoveAt(index int) bool {
	if !q.playlist.Remove(index) {
		return false
	}

	if q.currentIndex > index {
		q.currentIndex--
	} else if q.currentIndex == index {
		// Removed the playing track. Nothing is current anymore; playback
		// stops when the in-flight track finishes.
		q.currentIndex = -1
	}

	return true
}

// Move moves the track at fromIndex to toIndex, keeping the cursor on the
// same track. Returns false if either index is out of bounds.
func (q *Queue) Move(fromIndex, toIndex int) bool {
	if !q.playlist.Move(fromIndex, toIndex) {
		return false
	}

	switch {
	case q.currentIndex == fromIndex:
		q.currentIndex = toIndex
	case fromIndex < q.currentIndex && toIndex >= q.currentIndex:
		q.currentIndex--
	case fromIndex > q.currentIndex && toIndex <= q.currentIndex:
		q.currentIndex++
	}

	return true
}

// ResetCursor clears the current track without touching queue contents.
func (q *Queue) ResetCursor() {
	q.currentIndex = -1
}

// Clear removes all tracks and resets playback.
func (q *Queue) Clear() {
	q.playlist.Clear()
	q.currentIndex = -1
}

// Tracks returns all tracks in the queue.
func (q *Queue) Tracks() []Track {
	return q.playlist.Tracks()
}

// Track returns the track at the given index, or nil if out of bounds.
func (q *Queue) Track(index int) *Track {
	return q.playlist.Track(index)
}

// Len returns the number of tracks in the queue.
func (q *Queue) Len() int {
	return q.playlist.Len()
}

// IsEmpty returns true if the queue has no tracks.
func (q *Queue) IsEmpty() bool {
	return q.playlist.Len() == 0
}
