// Command cadence is a headless driver for the playback sequencing engine.
// It lets operators and UI developers exercise next-track decisions and the
// persisted session without an audio stack.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"cadence/internal/config"
	"cadence/internal/playback"
	"cadence/internal/playlist"
	"cadence/internal/state"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})

	app := &cli.Command{
		Name:  "cadence",
		Usage: "Inspect and exercise the playback sequencing engine",
		Commands: []*cli.Command{
			traceCommand(logger),
			sessionCommand(logger),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatal("command failed", "err", err)
	}
}

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
	}
}

func loadConfig(cmd *cli.Command) (*config.Config, error) {
	if path := cmd.String("config"); path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

func openState(cfg *config.Config) (*state.Manager, error) {
	if cfg.StatePath != "" {
		return state.OpenAt(cfg.StatePath)
	}
	return state.Open()
}

func traceCommand(logger *log.Logger) *cli.Command {
	return &cli.Command{
		Name:  "trace",
		Usage: "Print the order the sequencer would play a queue in",
		Flags: []cli.Flag{
			configFlag(),
			&cli.IntFlag{
				Name:    "count",
				Aliases: []string{"n"},
				Usage:   "Number of synthetic tracks in the queue",
				Value:   8,
			},
			&cli.IntFlag{
				Name:  "start",
				Usage: "Index of the track playing when the trace begins",
				Value: 0,
			},
			&cli.IntFlag{
				Name:  "steps",
				Usage: "Number of next-track decisions to trace (default: three times the queue length)",
			},
			&cli.BoolFlag{
				Name:    "shuffle",
				Aliases: []string{"s"},
				Usage:   "Shuffle mode (overrides playback.shuffle from the config)",
			},
			&cli.BoolFlag{
				Name:    "repeat",
				Aliases: []string{"r"},
				Usage:   "Repeat mode (overrides playback.repeat from the config)",
			},
			&cli.BoolFlag{
				Name:  "resume",
				Usage: "Trace the saved session (overrides playback.restore_session from the config)",
			},
			&cli.BoolFlag{
				Name:  "save",
				Usage: "Persist the session as it stands when the trace ends",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			svc := playback.New(logger)
			defer svc.Close()

			restore := shouldRestore(cfg, cmd.IsSet("resume"), cmd.Bool("resume"),
				cmd.IsSet("count") || cmd.IsSet("start"))

			var mgr *state.Manager
			if restore || cmd.Bool("save") {
				mgr, err = openState(cfg)
				if err != nil {
					return fmt.Errorf("open state: %w", err)
				}
				defer mgr.Close()
			}

			restored := false
			if restore {
				saved, err := mgr.GetSession()
				if err != nil {
					return fmt.Errorf("load session: %w", err)
				}
				if saved != nil {
					svc.Restore(stateToSession(saved))
					restored = true
				} else if cmd.Bool("resume") {
					return fmt.Errorf("no saved session to resume")
				}
			}
			if !restored {
				count := cmd.Int("count")
				if count < 1 {
					return fmt.Errorf("count must be >= 1, got %d", count)
				}
				start := cmd.Int("start")
				if start < 0 || start >= count {
					return fmt.Errorf("start %d out of range [0,%d)", start, count)
				}
				svc.ReplaceTracks(syntheticTracks(count)...)
				svc.JumpTo(start)
				seedModes(svc, cfg)
			}

			if cmd.IsSet("shuffle") {
				svc.SetShuffle(cmd.Bool("shuffle"))
			}
			if cmd.IsSet("repeat") {
				svc.SetRepeat(cmd.Bool("repeat"))
			}

			steps := cmd.Int("steps")
			if steps <= 0 {
				steps = 3 * svc.QueueLen()
			}

			modes := svc.Modes()
			fmt.Printf("queue: %d tracks, shuffle=%v, repeat=%v\n",
				svc.QueueLen(), modes.Shuffle, modes.Repeat)
			if cur := svc.CurrentTrack(); cur != nil {
				fmt.Printf("  playing  [%d] %s\n", svc.CurrentIndex(), cur.Title)
			}

			for i := 0; i < steps; i++ {
				track := svc.Next()
				if track == nil {
					fmt.Println("  playback stops")
					break
				}
				fmt.Printf("  next %2d  [%d] %s\n", i+1, svc.CurrentIndex(), track.Title)
			}

			if cmd.Bool("save") {
				if err := mgr.SaveSession(sessionToState(svc.Snapshot())); err != nil {
					return fmt.Errorf("save session: %w", err)
				}
				logger.Info("session saved", "tracks", svc.QueueLen(), "current", svc.CurrentIndex())
			}
			return nil
		},
	}
}

func sessionCommand(logger *log.Logger) *cli.Command {
	return &cli.Command{
		Name:  "session",
		Usage: "Inspect the persisted playback session",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Print the saved session",
				Flags: []cli.Flag{configFlag()},
				Action: func(_ context.Context, cmd *cli.Command) error {
					cfg, err := loadConfig(cmd)
					if err != nil {
						return fmt.Errorf("load config: %w", err)
					}
					mgr, err := openState(cfg)
					if err != nil {
						return fmt.Errorf("open state: %w", err)
					}
					defer mgr.Close()

					saved, err := mgr.GetSession()
					if err != nil {
						return fmt.Errorf("load session: %w", err)
					}
					if saved == nil {
						fmt.Println("no saved session")
						return nil
					}

					fmt.Printf("session: %d tracks, current=%d, shuffle=%v, repeat=%v\n",
						len(saved.Tracks), saved.CurrentIndex, saved.Shuffle, saved.Repeat)
					for i, t := range saved.Tracks {
						marker := " "
						if i == saved.CurrentIndex {
							marker = ">"
						}
						fmt.Printf(" %s [%d] %s - %s (%s)\n",
							marker, i, t.Title, t.Artist, t.Duration.Round(time.Second))
					}
					return nil
				},
			},
			{
				Name:  "clear",
				Usage: "Delete the saved session",
				Flags: []cli.Flag{configFlag()},
				Action: func(_ context.Context, cmd *cli.Command) error {
					cfg, err := loadConfig(cmd)
					if err != nil {
						return fmt.Errorf("load config: %w", err)
					}
					mgr, err := openState(cfg)
					if err != nil {
						return fmt.Errorf("open state: %w", err)
					}
					defer mgr.Close()

					if err := mgr.ClearSession(); err != nil {
						return fmt.Errorf("clear session: %w", err)
					}
					logger.Info("saved session cleared")
					return nil
				},
			},
		},
	}
}

// shouldRestore decides whether a trace starts from the saved session. An
// explicit --resume value wins; otherwise the config's restore_session
// setting applies, unless the caller asked for a synthetic queue.
func shouldRestore(cfg *config.Config, resumeSet, resume, syntheticRequested bool) bool {
	if resumeSet {
		return resume
	}
	return cfg.RestoreSession() && !syntheticRequested
}

// seedModes applies the configured default mode flags to a fresh session.
// Restored sessions keep the flags they were saved with.
func seedModes(svc playback.Service, cfg *config.Config) {
	svc.SetShuffle(cfg.Playback.Shuffle)
	svc.SetRepeat(cfg.Playback.Repeat)
}

func syntheticTracks(count int) []playlist.Track {
	tracks := make([]playlist.Track, count)
	for i := range tracks {
		tracks[i] = playlist.Track{
			ID:          int64(i + 1),
			StreamURL:   fmt.Sprintf("/stream/%d", i+1),
			Title:       fmt.Sprintf("Track %02d", i+1),
			TrackNumber: i + 1,
			Duration:    3 * time.Minute,
		}
	}
	return tracks
}

func sessionToState(sess playback.Session) state.SessionState {
	tracks := make([]state.SessionTrack, len(sess.Tracks))
	for i, t := range sess.Tracks {
		tracks[i] = state.SessionTrack{
			TrackID:     t.ID,
			StreamURL:   t.StreamURL,
			Title:       t.Title,
			Artist:      t.Artist,
			Album:       t.Album,
			TrackNumber: t.TrackNumber,
			Duration:    t.Duration,
		}
	}
	return state.SessionState{
		CurrentIndex: sess.CurrentIndex,
		Shuffle:      sess.Modes.Shuffle,
		Repeat:       sess.Modes.Repeat,
		Tracks:       tracks,
	}
}

func stateToSession(s *state.SessionState) playback.Session {
	tracks := make([]playlist.Track, len(s.Tracks))
	for i, t := range s.Tracks {
		tracks[i] = playlist.Track{
			ID:          t.TrackID,
			StreamURL:   t.StreamURL,
			Title:       t.Title,
			Artist:      t.Artist,
			Album:       t.Album,
			TrackNumber: t.TrackNumber,
			Duration:    t.Duration,
		}
	}
	sess := playback.Session{Tracks: tracks, CurrentIndex: s.CurrentIndex}
	sess.Modes.Shuffle = s.Shuffle
	sess.Modes.Repeat = s.Repeat
	return sess
}
