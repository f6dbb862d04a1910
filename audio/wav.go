/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package audio

import (
	"errors"
	"fmt"
	"io"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
)

// WAV renders e to a 16-bit stereo WAV file.
func WAV(e Effect) ([]byte, error) {
	if _, err := ParseEffect(string(e)); err != nil {
		return nil, err
	}

	buf := &seekBuffer{}
	format := beep.Format{
		SampleRate:  SampleRate,
		NumChannels: 2,
		Precision:   2,
	}
	if err := wav.Encode(buf, Synth(e, SampleRate), format); err != nil {
		return nil, fmt.Errorf("encoding %s: %w", e, err)
	}
	return buf.data, nil
}

// seekBuffer is the in-memory io.WriteSeeker wav.Encode needs to patch its
// header once the length is known.
type seekBuffer struct {
	data []byte
	pos  int
}

func (b *seekBuffer) Write(p []byte) (int, error) {
	if end := b.pos + len(p); end > len(b.data) {
		b.data = append(b.data, make([]byte, end-len(b.data))...)
	}
	n := copy(b.data[b.pos:], p)
	b.pos += n
	return n, nil
}

func (b *seekBuffer) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = int64(b.pos) + offset
	case io.SeekEnd:
		abs = int64(len(b.data)) + offset
	default:
		return 0, errors.New("invalid whence")
	}
	if abs < 0 {
		return 0, errors.New("negative position")
	}
	b.pos = int(abs)
	return abs, nil
}
