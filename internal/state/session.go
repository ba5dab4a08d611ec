package state

import (
	"database/sql"
	"errors"
	"time"

	dbutil "cadence/internal/db"
)

// SessionTrack represents a track in the saved session queue.
type SessionTrack struct {
	TrackID     int64
	StreamURL   string
	Title       string
	Artist      string
	Album       string
	TrackNumber int
	Duration    time.Duration
}

// SessionState represents the saved playback session.
type SessionState struct {
	CurrentIndex int
	Shuffle      bool
	Repeat       bool
	Tracks       []SessionTrack
}

func getSession(db *sql.DB) (*SessionState, error) {
	var currentIndex int
	var shuffle, repeat bool
	row := db.QueryRow(`SELECT current_index, shuffle, repeat FROM session_state WHERE id = 1`)
	err := row.Scan(&currentIndex, &shuffle, &repeat)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(`
		SELECT track_id, stream_url, title, artist, album, track_number, duration_ms
		FROM session_tracks
		ORDER BY position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tracks []SessionTrack
	for rows.Next() {
		var t SessionTrack
		var trackID, trackNumber, durationMS sql.NullInt64
		var artist, album sql.NullString

		err := rows.Scan(&trackID, &t.StreamURL, &t.Title, &artist, &album, &trackNumber, &durationMS)
		if err != nil {
			return nil, err
		}

		t.TrackID = dbutil.NullInt64Value(trackID)
		t.Artist = dbutil.NullStringValue(artist)
		t.Album = dbutil.NullStringValue(album)
		t.TrackNumber = int(dbutil.NullInt64Value(trackNumber))
		t.Duration = time.Duration(dbutil.NullInt64Value(durationMS)) * time.Millisecond
		tracks = append(tracks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &SessionState{
		CurrentIndex: currentIndex,
		Shuffle:      shuffle,
		Repeat:       repeat,
		Tracks:       tracks,
	}, nil
}

func saveSession(sqlDB *sql.DB, s SessionState) error {
	return dbutil.WithTx(sqlDB, func(tx *sql.Tx) error {
		_, err := tx.Exec(`DELETE FROM session_tracks`)
		if err != nil {
			return err
		}

		_, err = tx.Exec(`
			INSERT INTO session_state (id, current_index, shuffle, repeat)
			VALUES (1, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				current_index = excluded.current_index,
				shuffle = excluded.shuffle,
				repeat = excluded.repeat
		`, s.CurrentIndex, s.Shuffle, s.Repeat)
		if err != nil {
			return err
		}

		stmt, err := tx.Prepare(`
			INSERT INTO session_tracks (position, track_id, stream_url, title, artist, album, track_number, duration_ms)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, t := range s.Tracks {
			var trackID any
			if t.TrackID > 0 {
				trackID = t.TrackID
			}
			_, err = stmt.Exec(i, trackID, t.StreamURL, t.Title, t.Artist, t.Album,
				t.TrackNumber, t.Duration.Milliseconds())
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func clearSession(sqlDB *sql.DB) error {
	return dbutil.WithTx(sqlDB, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM session_tracks`); err != nil {
			return err
		}
		_, err := tx.Exec(`DELETE FROM session_state`)
		return err
	})
}
