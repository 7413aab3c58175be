package audio

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MatchTimer/logtest"
	"MatchTimer/timer"
)

type fakeSource struct {
	mu      sync.Mutex
	assets  map[string][]byte
	fetches map[string]int
}

func (s *fakeSource) FetchAsset(ctx context.Context, path string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fetches == nil {
		s.fetches = make(map[string]int)
	}
	s.fetches[path]++
	data, ok := s.assets[path]
	if !ok {
		return nil, errors.New("404 not found")
	}
	return data, nil
}

func (s *fakeSource) count(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetches[path]
}

type fakeOutput struct {
	mu      sync.Mutex
	plays   int
	samples int
	err     error
}

func (o *fakeOutput) Play(st beep.Streamer, format beep.Format) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.err != nil {
		return o.err
	}
	o.plays++
	buf := make([][2]float64, 512)
	for {
		n, ok := st.Stream(buf)
		o.samples += n
		if !ok {
			break
		}
	}
	return nil
}

func (o *fakeOutput) count() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.plays
}

func encodeWAV(t *testing.T, samples int) []byte {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "cue-*.wav")
	require.NoError(t, err)
	format := beep.Format{SampleRate: 44100, NumChannels: 2, Precision: 2}
	require.NoError(t, wav.Encode(f, beep.Silence(samples), format))
	require.NoError(t, f.Close())

	data, err := os.ReadFile(filepath.Clean(f.Name()))
	require.NoError(t, err)
	return data
}

func TestPlayerPlaysCueOnce(t *testing.T) {
	source := &fakeSource{assets: map[string][]byte{"/static/start.wav": encodeWAV(t, 441)}}
	output := &fakeOutput{}
	p := NewPlayer(source, output, map[timer.Cue]string{timer.CueStart: "/static/start.wav"})

	p.Cue(timer.CueStart)
	p.Wait()

	assert.Equal(t, 1, output.count())
	assert.Equal(t, 441, output.samples)
}

func TestPlayerCachesDecodedAssets(t *testing.T) {
	source := &fakeSource{assets: map[string][]byte{"/static/stop.wav": encodeWAV(t, 100)}}
	output := &fakeOutput{}
	p := NewPlayer(source, output, map[timer.Cue]string{timer.CueStop: "/static/stop.wav"})

	p.Cue(timer.CueStop)
	p.Wait()
	p.Cue(timer.CueStop)
	p.Wait()

	assert.Equal(t, 2, output.count())
	assert.Equal(t, 1, source.count("/static/stop.wav"))
}

func TestPlayerWaitConcurrentWithCue(t *testing.T) {
	source := &fakeSource{assets: map[string][]byte{"/static/start.wav": encodeWAV(t, 10)}}
	output := &fakeOutput{}
	p := NewPlayer(source, output, map[timer.Cue]string{timer.CueStart: "/static/start.wav"})

	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			p.Cue(timer.CueStart)
		}()
		go func() {
			defer wg.Done()
			p.Wait()
		}()
	}
	wg.Wait()
	p.Wait()

	assert.Equal(t, 200, output.count())
}

func TestPlayerSwallowsFailures(t *testing.T) {
	tests := []struct {
		name   string
		assets map[string][]byte
		path   string
		output Output
	}{
		{"fetch fails", nil, "/static/start.wav", &fakeOutput{}},
		{"unsupported format", nil, "/static/start.flac", &fakeOutput{}},
		{"corrupt data", map[string][]byte{"/static/start.wav": []byte("not a wav")}, "/static/start.wav", &fakeOutput{}},
		{"output rejects", map[string][]byte{"/static/start.wav": encodeWAV(t, 10)}, "/static/start.wav", &fakeOutput{err: errors.New("autoplay blocked")}},
		{"no output", map[string][]byte{"/static/start.wav": encodeWAV(t, 10)}, "/static/start.wav", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := logtest.Capture(t)
			p := NewPlayer(&fakeSource{assets: tt.assets}, tt.output, map[timer.Cue]string{timer.CueStart: tt.path})
			assert.NotPanics(t, func() {
				p.Cue(timer.CueStart)
				p.Wait()
			})
			if out, ok := tt.output.(*fakeOutput); ok {
				assert.Zero(t, out.count())
			}

			entry, ok := sink.Find(zerolog.ErrorLevel, "error playing sound")
			require.True(t, ok, "playback failure is reported")
			assert.NotEmpty(t, entry.Error)
			assert.Equal(t, 1, sink.Count(zerolog.ErrorLevel))
		})
	}
}

func TestPlayerErrorsAreTyped(t *testing.T) {
	p := NewPlayer(&fakeSource{}, nil, nil)
	err := p.play(timer.CueStop, "/static/stop.wav")

	var playErr *PlaybackError
	require.ErrorAs(t, err, &playErr)
	assert.Equal(t, timer.CueStop, playErr.Cue)
	assert.ErrorIs(t, err, errNoOutput)
}

func TestPlayerUnknownCue(t *testing.T) {
	source := &fakeSource{}
	output := &fakeOutput{}
	p := NewPlayer(source, output, map[timer.Cue]string{timer.CueStart: "/static/start.wav"})

	sink := logtest.Capture(t)
	p.Cue(timer.Cue("whistle"))
	p.Wait()

	assert.Zero(t, output.count())
	_, ok := sink.Find(zerolog.WarnLevel, "no sound configured for cue")
	assert.True(t, ok)
	assert.Zero(t, source.count("/static/start.wav"))
}
