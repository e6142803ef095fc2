//go:build !((linux && cgo) || windows || darwin)

package sidetone

import "errors"

func newAudioPlayer() (Player, error) {
	return nil, errors.New("audio playback requires cgo on this platform")
}
