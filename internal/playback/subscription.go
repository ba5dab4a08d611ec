package playback

const eventBufferSize = 16

// Subscription provides event channels for a subscriber.
type Subscription struct {
	TrackChanged <-chan TrackChange
	QueueChanged <-chan QueueChange
	ModeChanged  <-chan ModeChange
	Finished     <-chan Finished
	Done         <-chan struct{}

	// Internal write channels
	trackCh    chan TrackChange
	queueCh    chan QueueChange
	modeCh     chan ModeChange
	finishedCh chan Finished
	doneCh     chan struct{}
}

// newSubscription creates a new subscription with buffered channels.
func newSubscription() *Subscription {
	s := &Subscription{
		trackCh:    make(chan TrackChange, eventBufferSize),
		queueCh:    make(chan QueueChange, eventBufferSize),
		modeCh:     make(chan ModeChange, eventBufferSize),
		finishedCh: make(chan Finished, eventBufferSize),
		doneCh:     make(chan struct{}),
	}
	s.TrackChanged = s.trackCh
	s.QueueChanged = s.queueCh
	s.ModeChanged = s.modeCh
	s.Finished = s.finishedCh
	s.Done = s.doneCh
	return s
}

// close signals subscribers to stop by closing doneCh.
func (s *Subscription) close() {
	close(s.doneCh)
}

// sendTrack sends a track change event (non-blocking).
func (s *Subscription) sendTrack(e TrackChange) {
	select {
	case s.trackCh <- e:
	default:
		// Drop if buffer full
	}
}

// sendQueue sends a queue change event (non-blocking).
func (s *Subscription) sendQueue(e QueueChange) {
	select {
	case s.queueCh <- e:
	default:
	}
}

// sendMode sends a mode change event (non-blocking).
func (s *Subscription) sendMode(e ModeChange) {
	select {
	case s.modeCh <- e:
	default:
	}
}

// sendFinished sends a finished event (non-blocking).
func (s *Subscription) sendFinished(e Finished) {
	select {
	case s.finishedCh <- e:
	default:
	}
}
