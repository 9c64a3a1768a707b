//go:build headless

package audio

func newOto(Source, int) (Backend, error) {
	return nil, ErrNoDevice
}

func newPortAudio(Source, int) (Backend, error) {
	return nil, ErrNoDevice
}
