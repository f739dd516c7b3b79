package game

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
	"github.com/ncruces/zenity"
)

const levelRingSize = 4096

// PickSoundtrack is the value of the -soundtrack flag that opens a file
// dialog instead of naming a file.
const PickSoundtrack = "pick"

// Soundtrack loops an audio file under the rain. It follows the rain's
// running state: paused while the layer is paused.
type Soundtrack struct {
	file     *os.File
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	tap      *levelTap
	paused   bool
}

// SampleRate is the decoded stream's rate in Hz.
func (s *Soundtrack) SampleRate() int {
	if s == nil {
		return 0
	}
	return int(s.format.SampleRate)
}

// SelectSoundtrack asks the user for an audio file. It returns "" when the
// dialog is cancelled.
func SelectSoundtrack() (string, error) {
	filename, err := zenity.SelectFile(
		zenity.Title("Choose a soundtrack"),
		zenity.FileFilters{{
			Name:     "Audio",
			Patterns: []string{"*.wav", "*.mp3", "*.flac"},
		}},
	)
	if errors.Is(err, zenity.ErrCanceled) {
		return "", nil
	}
	return filename, err
}

// ShowFatal reports a setup failure in a native dialog. Dialog errors are
// ignored: the caller logs the failure anyway.
func ShowFatal(err error) {
	_ = zenity.Error(err.Error(),
		zenity.Title("Matrix Rain"),
		zenity.ErrorIcon)
}

// OpenSoundtrack decodes path and starts looping it on the speaker.
func OpenSoundtrack(path string) (*Soundtrack, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	default:
		_ = f.Close()
		return nil, fmt.Errorf("unsupported soundtrack type %q", ext)
	}
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("decode soundtrack: %w", err)
	}

	if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/20)); err != nil {
		_ = streamer.Close()
		_ = f.Close()
		return nil, fmt.Errorf("init speaker: %w", err)
	}

	tap := newLevelTap(beep.Loop(-1, streamer), levelRingSize)
	s := &Soundtrack{
		file:     f,
		streamer: streamer,
		format:   format,
		ctrl:     &beep.Ctrl{Streamer: tap},
		tap:      tap,
	}
	speaker.Play(s.ctrl)
	return s, nil
}

// SetPaused pauses or resumes playback.
func (s *Soundtrack) SetPaused(paused bool) {
	if s == nil || s.paused == paused {
		return
	}
	speaker.Lock()
	s.paused = paused
	s.ctrl.Paused = paused
	speaker.Unlock()
}

// Paused reports whether playback is paused.
func (s *Soundtrack) Paused() bool {
	return s != nil && s.paused
}

// Level is the current loudness in [0, 1].
func (s *Soundtrack) Level() float64 {
	if s == nil {
		return 0
	}
	return s.tap.level()
}

// Close stops playback and releases the file.
func (s *Soundtrack) Close() error {
	if s == nil {
		return nil
	}
	speaker.Clear()
	err := s.streamer.Close()
	// mp3 streamers close the file themselves.
	_ = s.file.Close()
	return err
}
