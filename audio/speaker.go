package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// DefaultSampleRate is the rate the speaker is opened with.
const DefaultSampleRate beep.SampleRate = 44100

// Speaker is the system audio output.
type Speaker struct {
	mu   sync.Mutex
	rate beep.SampleRate
}

// NewSpeaker initializes the speaker. It fails when no audio device is
// available.
func NewSpeaker(rate beep.SampleRate) (*Speaker, error) {
	if err := speaker.Init(rate, rate.N(time.Second/10)); err != nil {
		return nil, err
	}
	return &Speaker{rate: rate}, nil
}

// Play mixes s into the speaker output, resampling when needed.
func (s *Speaker) Play(st beep.Streamer, format beep.Format) error {
	if format.SampleRate != s.rate {
		st = beep.Resample(4, format.SampleRate, s.rate, st)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	speaker.Play(st)
	return nil
}
