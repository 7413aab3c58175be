// Package audio plays the cue sounds announced by the timer service. Playback
// is best effort: every failure is logged and dropped, nothing is retried and
// nothing reaches the user.
package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/vorbis"
	"github.com/gopxl/beep/wav"
	"github.com/rs/zerolog/log"

	"MatchTimer/timer"
)

var errNoOutput = errors.New("no audio output device")

// PlaybackError reports why a cue was not heard.
type PlaybackError struct {
	Cue  timer.Cue
	Path string
	Err  error
}

func (e *PlaybackError) Error() string {
	return fmt.Sprintf("play %s cue (%s): %v", e.Cue, e.Path, e.Err)
}

func (e *PlaybackError) Unwrap() error { return e.Err }

// Source provides the raw bytes of a sound asset.
type Source interface {
	FetchAsset(ctx context.Context, path string) ([]byte, error)
}

// Output plays a decoded stream.
type Output interface {
	Play(s beep.Streamer, format beep.Format) error
}

type decodeFunc func(data []byte) (beep.StreamCloser, beep.Format, error)

var decoders = map[string]decodeFunc{
	".mp3": func(data []byte) (beep.StreamCloser, beep.Format, error) {
		return mp3.Decode(io.NopCloser(bytes.NewReader(data)))
	},
	".ogg": func(data []byte) (beep.StreamCloser, beep.Format, error) {
		return vorbis.Decode(io.NopCloser(bytes.NewReader(data)))
	},
	".wav": func(data []byte) (beep.StreamCloser, beep.Format, error) {
		return wav.Decode(bytes.NewReader(data))
	},
}

// Player resolves cues to sound assets, decodes them once and plays them.
type Player struct {
	assets  map[timer.Cue]string
	source  Source
	output  Output
	timeout time.Duration

	mu      sync.Mutex
	buffers map[string]*beep.Buffer

	// wgMu orders Add in Cue against Wait.
	wgMu sync.Mutex
	wg   sync.WaitGroup
}

// NewPlayer creates a Player. A nil output is allowed; every cue then fails
// with a logged PlaybackError.
func NewPlayer(source Source, output Output, assets map[timer.Cue]string) *Player {
	return &Player{
		assets:  assets,
		source:  source,
		output:  output,
		timeout: 15 * time.Second,
		buffers: make(map[string]*beep.Buffer),
	}
}

// Cue plays the sound for cue once, in the background.
func (p *Player) Cue(cue timer.Cue) {
	assetPath, ok := p.assets[cue]
	if !ok {
		log.Warn().Str("cue", string(cue)).Msg("no sound configured for cue")
		return
	}

	p.wgMu.Lock()
	p.wg.Add(1)
	p.wgMu.Unlock()
	go func() {
		defer p.wg.Done()
		if err := p.play(cue, assetPath); err != nil {
			log.Error().Err(err).Msg("error playing sound")
		}
	}()
}

// Wait blocks until all started cues have been handed to the output.
func (p *Player) Wait() {
	p.wgMu.Lock()
	defer p.wgMu.Unlock()
	p.wg.Wait()
}

func (p *Player) play(cue timer.Cue, assetPath string) error {
	if p.output == nil {
		return &PlaybackError{Cue: cue, Path: assetPath, Err: errNoOutput}
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	buf, err := p.buffer(ctx, assetPath)
	if err != nil {
		return &PlaybackError{Cue: cue, Path: assetPath, Err: err}
	}
	if err := p.output.Play(buf.Streamer(0, buf.Len()), buf.Format()); err != nil {
		return &PlaybackError{Cue: cue, Path: assetPath, Err: err}
	}
	log.Debug().Str("cue", string(cue)).Msg("cue played")
	return nil
}

func (p *Player) buffer(ctx context.Context, assetPath string) (*beep.Buffer, error) {
	p.mu.Lock()
	buf, ok := p.buffers[assetPath]
	p.mu.Unlock()
	if ok {
		return buf, nil
	}

	decode, ok := decoders[strings.ToLower(path.Ext(assetPath))]
	if !ok {
		return nil, fmt.Errorf("unsupported audio format %q", path.Ext(assetPath))
	}

	data, err := p.source.FetchAsset(ctx, assetPath)
	if err != nil {
		return nil, err
	}

	streamer, format, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	defer streamer.Close()

	buf = beep.NewBuffer(format)
	buf.Append(streamer)

	p.mu.Lock()
	p.buffers[assetPath] = buf
	p.mu.Unlock()
	return buf, nil
}
