// Package audio prepares uploaded voice notes for the speech-to-text service:
// it decodes WAV/MP3/FLAC into normalized samples, downmixes to mono, and
// resamples to the 16 kHz rate the service expects.
package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/mewkiz/flac"
)

var ErrUnsupportedFormat = errors.New("unsupported audio format")

// TargetSampleRate is the rate expected by the transcription service.
const TargetSampleRate = 16000

// DecodeFile reads an audio file and returns interleaved samples normalized to
// [-1, 1], the channel count, and the source sample rate. Format is chosen by
// file extension: .wav, .mp3 or .flac.
func DecodeFile(path string) ([]float64, int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return decodeWAV(f)
	case ".mp3":
		return decodeMP3(f)
	case ".flac":
		return decodeFLAC(f)
	default:
		return nil, 0, 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

func decodeWAV(f *os.File) ([]float64, int, int, error) {
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, 0, 0, fmt.Errorf("invalid WAV file")
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to decode WAV: %w", err)
	}

	scale := float64(int64(1) << (dec.BitDepth - 1))
	samples := make([]float64, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = float64(v) / scale
	}

	return samples, buf.Format.NumChannels, buf.Format.SampleRate, nil
}

// decodeMP3 reads the full stream; go-mp3 always yields 16-bit stereo.
func decodeMP3(f *os.File) ([]float64, int, int, error) {
	dec, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to decode MP3: %w", err)
	}

	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to read MP3 stream: %w", err)
	}

	samples := make([]float64, len(raw)/2)
	for i := range samples {
		v := int16(binary.LittleEndian.Uint16(raw[i*2:]))
		samples[i] = float64(v) / 32768.0
	}

	return samples, 2, dec.SampleRate(), nil
}

func decodeFLAC(f *os.File) ([]float64, int, int, error) {
	stream, err := flac.Parse(f)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to parse FLAC: %w", err)
	}

	channels := int(stream.Info.NChannels)
	rate := int(stream.Info.SampleRate)
	scale := float64(int64(1) << (stream.Info.BitsPerSample - 1))

	var samples []float64
	for {
		frame, err := stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, 0, fmt.Errorf("failed to decode FLAC frame: %w", err)
		}
		n := len(frame.Subframes[0].Samples)
		for i := 0; i < n; i++ {
			for ch := 0; ch < channels; ch++ {
				samples = append(samples, float64(frame.Subframes[ch].Samples[i])/scale)
			}
		}
	}

	return samples, channels, rate, nil
}
