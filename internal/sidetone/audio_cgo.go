//go:build (linux && cgo) || windows || darwin

package sidetone

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep/v2/speaker"
)

var (
	speakerOnce sync.Once
	speakerErr  error
)

type speakerPlayer struct {
	held *tone
}

func newAudioPlayer() (Player, error) {
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(sampleRate, sampleRate.N(time.Second/20))
	})
	if speakerErr != nil {
		return nil, fmt.Errorf("failed to init speaker: %w", speakerErr)
	}
	return &speakerPlayer{}, nil
}

func (p *speakerPlayer) Blip(d time.Duration) {
	speaker.Play(newTone(sampleRate, d))
}

func (p *speakerPlayer) Start() {
	if p.held != nil {
		return
	}
	p.held = newContinuousTone(sampleRate)
	speaker.Play(p.held)
}

func (p *speakerPlayer) Stop() {
	if p.held == nil {
		return
	}
	speaker.Lock()
	p.held.release()
	speaker.Unlock()
	p.held = nil
}

func (p *speakerPlayer) Close() error {
	p.Stop()
	speaker.Clear()
	return nil
}
