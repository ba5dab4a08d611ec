package playback

import (
	"testing"

	"cadence/internal/playlist"
)

func testTracks(n int) []playlist.Track {
	tracks := make([]playlist.Track, n)
	for i := range tracks {
		tracks[i] = playlist.Track{
			ID:        int64(i + 1),
			StreamURL: "/stream/" + string(rune('a'+i)),
			Title:     "Track " + string(rune('A'+i)),
		}
	}
	return tracks
}

func TestNew_ReturnsService(t *testing.T) {
	svc := New(nil)

	if svc == nil {
		t.Fatal("New() returned nil")
	}
	if !svc.QueueIsEmpty() {
		t.Error("new service should have an empty queue")
	}
	if svc.CurrentIndex() != -1 {
		t.Errorf("CurrentIndex() = %d, want -1", svc.CurrentIndex())
	}
}

func TestService_ReplaceTracks_SelectsFirst(t *testing.T) {
	svc := New(nil)

	track := svc.ReplaceTracks(testTracks(3)...)

	if track == nil || track.ID != 1 {
		t.Errorf("ReplaceTracks returned %v, want track 1", track)
	}
	if svc.CurrentIndex() != 0 {
		t.Errorf("CurrentIndex() = %d, want 0", svc.CurrentIndex())
	}
	if svc.QueueLen() != 3 {
		t.Errorf("QueueLen() = %d, want 3", svc.QueueLen())
	}
}

func TestService_Next_Linear(t *testing.T) {
	svc := New(nil)
	svc.ReplaceTracks(testTracks(3)...)

	track := svc.Next()

	if track == nil || track.ID != 2 {
		t.Errorf("Next() = %v, want track 2", track)
	}
	if svc.CurrentIndex() != 1 {
		t.Errorf("CurrentIndex() = %d, want 1", svc.CurrentIndex())
	}
}

func TestService_Next_EndStops(t *testing.T) {
	svc := New(nil)
	svc.ReplaceTracks(testTracks(2)...)
	svc.JumpTo(1)

	track := svc.Next()

	if track != nil {
		t.Errorf("Next() at end with repeat off = %v, want nil", track)
	}
	if svc.CurrentIndex() != 1 {
		t.Errorf("CurrentIndex() = %d, want 1 (unchanged)", svc.CurrentIndex())
	}
}

func TestService_Next_RepeatWraps(t *testing.T) {
	svc := New(nil)
	svc.ReplaceTracks(testTracks(2)...)
	svc.JumpTo(1)
	svc.SetRepeat(true)

	track := svc.Next()

	if track == nil || track.ID != 1 {
		t.Errorf("Next() = %v, want track 1 (wrapped)", track)
	}
}

func TestService_Next_EmptyQueue(t *testing.T) {
	svc := New(nil)

	if track := svc.Next(); track != nil {
		t.Errorf("Next() on empty queue = %v, want nil", track)
	}
}

func TestService_Next_ShufflePlaysEveryTrackOnce(t *testing.T) {
	svc := New(nil)
	svc.ReplaceTracks(testTracks(5)...)
	svc.SetShuffle(true)

	seen := map[int64]bool{svc.CurrentTrack().ID: true}
	for i := 0; i < 4; i++ {
		track := svc.Next()
		if track == nil {
			t.Fatalf("Next() #%d = nil, want a track", i+1)
		}
		if seen[track.ID] {
			t.Fatalf("track %d played twice in one shuffle cycle", track.ID)
		}
		seen[track.ID] = true
	}
	if len(seen) != 5 {
		t.Errorf("played %d distinct tracks, want 5", len(seen))
	}

	if track := svc.Next(); track != nil {
		t.Errorf("Next() past exhausted shuffle with repeat off = %v, want nil", track)
	}
}

func TestService_Next_ShuffleRepeatStartsNewCycle(t *testing.T) {
	svc := New(nil)
	svc.ReplaceTracks(testTracks(4)...)
	svc.SetShuffle(true)
	svc.SetRepeat(true)

	// Walk well past one cycle; every pick must be a real track.
	for i := 0; i < 12; i++ {
		if track := svc.Next(); track == nil {
			t.Fatalf("Next() #%d = nil, want a track with repeat on", i+1)
		}
	}
}

func TestService_Previous_LinearIgnoresShuffle(t *testing.T) {
	svc := New(nil)
	svc.ReplaceTracks(testTracks(4)...)
	svc.JumpTo(2)
	svc.SetShuffle(true)

	track := svc.Previous()

	if track == nil || track.ID != 2 {
		t.Errorf("Previous() = %v, want track 2 (list order)", track)
	}
	if svc.CurrentIndex() != 1 {
		t.Errorf("CurrentIndex() = %d, want 1", svc.CurrentIndex())
	}
}

func TestService_Previous_AtStart(t *testing.T) {
	svc := New(nil)
	svc.ReplaceTracks(testTracks(2)...)

	if track := svc.Previous(); track != nil {
		t.Errorf("Previous() at start = %v, want nil", track)
	}
}

func TestService_JumpTo(t *testing.T) {
	svc := New(nil)
	svc.ReplaceTracks(testTracks(3)...)

	track := svc.JumpTo(2)

	if track == nil || track.ID != 3 {
		t.Errorf("JumpTo(2) = %v, want track 3", track)
	}
	if svc.JumpTo(9) != nil {
		t.Error("JumpTo(9) should return nil")
	}
}

func TestService_JumpTo_KeepsShuffleConsistent(t *testing.T) {
	svc := New(nil)
	svc.ReplaceTracks(testTracks(5)...)
	svc.SetShuffle(true)

	svc.JumpTo(3)

	// The jumped-to track must now be the shuffle cursor's track: advancing
	// must never replay it within the cycle.
	seen := map[int64]bool{}
	for track := svc.Next(); track != nil; track = svc.Next() {
		if seen[track.ID] {
			t.Fatalf("track %d played twice after a manual jump", track.ID)
		}
		seen[track.ID] = true
	}
}

func TestService_PeekNext_DoesNotAdvance(t *testing.T) {
	svc := New(nil)
	svc.ReplaceTracks(testTracks(3)...)

	peeked := svc.PeekNext()
	if peeked == nil || peeked.ID != 2 {
		t.Errorf("PeekNext() = %v, want track 2", peeked)
	}
	if svc.CurrentIndex() != 0 {
		t.Errorf("CurrentIndex() = %d, want 0 (unchanged)", svc.CurrentIndex())
	}

	next := svc.Next()
	if next == nil || next.ID != peeked.ID {
		t.Errorf("Next() = %v, want the peeked track %d", next, peeked.ID)
	}
}

func TestService_AddAndPlay(t *testing.T) {
	svc := New(nil)
	svc.ReplaceTracks(testTracks(2)...)

	track := svc.AddAndPlay(playlist.Track{ID: 99, Title: "Appended"})

	if track == nil || track.ID != 99 {
		t.Errorf("AddAndPlay() = %v, want track 99", track)
	}
	if svc.CurrentIndex() != 2 {
		t.Errorf("CurrentIndex() = %d, want 2", svc.CurrentIndex())
	}
}

func TestService_AddTracks_KeepsCurrent(t *testing.T) {
	svc := New(nil)
	svc.ReplaceTracks(testTracks(2)...)
	svc.JumpTo(1)

	svc.AddTracks(playlist.Track{ID: 99})

	if svc.QueueLen() != 3 {
		t.Errorf("QueueLen() = %d, want 3", svc.QueueLen())
	}
	if svc.CurrentIndex() != 1 {
		t.Errorf("CurrentIndex() = %d, want 1 (unchanged)", svc.CurrentIndex())
	}
}

func TestService_RemoveTrack_Current(t *testing.T) {
	svc := New(nil)
	svc.ReplaceTracks(testTracks(3)...)
	svc.JumpTo(1)

	if !svc.RemoveTrack(1) {
		t.Fatal("RemoveTrack(1) should succeed")
	}

	if svc.CurrentIndex() != -1 {
		t.Errorf("CurrentIndex() = %d, want -1", svc.CurrentIndex())
	}
	// No current track, so no next decision either.
	if track := svc.Next(); track != nil {
		t.Errorf("Next() without a current track = %v, want nil", track)
	}
}

func TestService_ModesSurviveQueueMutations(t *testing.T) {
	svc := New(nil)
	svc.SetShuffle(true)
	svc.SetRepeat(true)

	svc.ReplaceTracks(testTracks(3)...)

	modes := svc.Modes()
	if !modes.Shuffle || !modes.Repeat {
		t.Errorf("Modes() = %+v, want both on", modes)
	}
	// With shuffle and repeat carried over, advancing always works.
	for i := 0; i < 6; i++ {
		if svc.Next() == nil {
			t.Fatalf("Next() #%d = nil, want a track", i+1)
		}
	}
}

func TestService_ToggleShuffle(t *testing.T) {
	svc := New(nil)
	svc.ReplaceTracks(testTracks(3)...)

	if got := svc.ToggleShuffle(); !got {
		t.Error("ToggleShuffle() should return true")
	}
	if !svc.Modes().Shuffle {
		t.Error("shuffle should be on after toggle")
	}
	if got := svc.ToggleShuffle(); got {
		t.Error("second ToggleShuffle() should return false")
	}
}

func TestService_ToggleRepeat(t *testing.T) {
	svc := New(nil)

	if got := svc.ToggleRepeat(); !got {
		t.Error("ToggleRepeat() should return true")
	}
	if got := svc.ToggleRepeat(); got {
		t.Error("second ToggleRepeat() should return false")
	}
}

func TestService_UndoRedo(t *testing.T) {
	svc := New(nil)
	svc.ReplaceTracks(testTracks(2)...)
	svc.AddTracks(playlist.Track{ID: 99})

	if !svc.Undo() {
		t.Fatal("Undo() should succeed")
	}
	if svc.QueueLen() != 2 {
		t.Errorf("QueueLen() after undo = %d, want 2", svc.QueueLen())
	}

	if !svc.Redo() {
		t.Fatal("Redo() should succeed")
	}
	if svc.QueueLen() != 3 {
		t.Errorf("QueueLen() after redo = %d, want 3", svc.QueueLen())
	}
}

func TestService_Undo_Empty(t *testing.T) {
	svc := New(nil)

	if svc.Undo() {
		t.Error("Undo() with no history should fail")
	}
	if svc.Redo() {
		t.Error("Redo() with no history should fail")
	}
}

func TestService_SnapshotRestore(t *testing.T) {
	svc := New(nil)
	svc.ReplaceTracks(testTracks(3)...)
	svc.JumpTo(2)
	svc.SetShuffle(true)
	svc.SetRepeat(true)

	snap := svc.Snapshot()

	restored := New(nil)
	restored.Restore(snap)

	if restored.CurrentIndex() != 2 {
		t.Errorf("restored CurrentIndex() = %d, want 2", restored.CurrentIndex())
	}
	if restored.QueueLen() != 3 {
		t.Errorf("restored QueueLen() = %d, want 3", restored.QueueLen())
	}
	modes := restored.Modes()
	if !modes.Shuffle || !modes.Repeat {
		t.Errorf("restored Modes() = %+v, want both on", modes)
	}
	// A restored session must be able to keep playing.
	if restored.Next() == nil {
		t.Error("restored session Next() = nil, want a track")
	}
}

func TestService_Restore_InvalidCursor(t *testing.T) {
	svc := New(nil)

	svc.Restore(Session{Tracks: testTracks(2), CurrentIndex: 7})

	if svc.CurrentIndex() != -1 {
		t.Errorf("CurrentIndex() = %d, want -1 for an out-of-range snapshot", svc.CurrentIndex())
	}
}

func TestService_Events(t *testing.T) {
	svc := New(nil)
	sub := svc.Subscribe()

	svc.ReplaceTracks(testTracks(2)...)

	select {
	case e := <-sub.QueueChanged:
		if len(e.Tracks) != 2 || e.Index != 0 {
			t.Errorf("QueueChange = %+v, want 2 tracks at index 0", e)
		}
	default:
		t.Fatal("expected a QueueChange event")
	}
	select {
	case e := <-sub.TrackChanged:
		if e.Current == nil || e.Current.ID != 1 || e.Index != 0 {
			t.Errorf("TrackChange = %+v, want track 1 at index 0", e)
		}
	default:
		t.Fatal("expected a TrackChange event")
	}

	svc.ToggleShuffle()
	select {
	case e := <-sub.ModeChanged:
		if !e.Modes.Shuffle {
			t.Errorf("ModeChange = %+v, want shuffle on", e)
		}
	default:
		t.Fatal("expected a ModeChange event")
	}
}

func TestService_FinishedEvent(t *testing.T) {
	svc := New(nil)
	svc.ReplaceTracks(testTracks(2)...)
	svc.JumpTo(1)
	sub := svc.Subscribe()

	svc.Next()

	select {
	case e := <-sub.Finished:
		if e.LastIndex != 1 {
			t.Errorf("Finished.LastIndex = %d, want 1", e.LastIndex)
		}
	default:
		t.Fatal("expected a Finished event at end of queue")
	}
}

func TestService_Close(t *testing.T) {
	svc := New(nil)
	sub := svc.Subscribe()

	if err := svc.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	select {
	case <-sub.Done:
	default:
		t.Error("Done should be closed after Close()")
	}

	// Second close is a no-op.
	if err := svc.Close(); err != nil {
		t.Errorf("second Close() error: %v", err)
	}
}
