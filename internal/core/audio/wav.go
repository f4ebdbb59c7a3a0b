// Package audio builds playable WAV containers around raw PCM produced by
// streaming speech providers.
package audio

import (
	"encoding/binary"
	"strconv"
	"strings"
)

// WavFormat describes raw PCM parameters parsed from a provider MIME type
// such as "audio/L16;rate=24000".
type WavFormat struct {
	NumChannels   int
	SampleRate    int
	BitsPerSample int
}

// DefaultFormat is assumed whenever a provider's MIME type does not spell
// out the PCM parameters. Parsing is deliberately lenient: a malformed
// MIME string falls back to these values instead of failing synthesis.
func DefaultFormat() WavFormat {
	return WavFormat{
		NumChannels:   1,
		SampleRate:    22050,
		BitsPerSample: 16,
	}
}

// ParseMime extracts a WavFormat from a MIME type of the form
// "audio/<subtype>[;rate=<sampleRate>]". A subtype "L<N>" sets the bit
// depth to N; a "rate" parameter sets the sample rate.
func ParseMime(mimeType string) WavFormat {
	format := DefaultFormat()

	parts := strings.Split(mimeType, ";")
	fileType := strings.TrimSpace(parts[0])

	if _, subtype, ok := strings.Cut(fileType, "/"); ok {
		if strings.HasPrefix(subtype, "L") {
			if bits, err := strconv.Atoi(subtype[1:]); err == nil {
				format.BitsPerSample = bits
			}
		}
	}

	for _, param := range parts[1:] {
		key, value, ok := strings.Cut(param, "=")
		if !ok {
			continue
		}
		if strings.TrimSpace(key) == "rate" {
			if rate, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
				format.SampleRate = rate
			}
		}
	}

	return format
}

// HeaderSize is the length of a canonical PCM WAV header.
const HeaderSize = 44

// BuildWavHeader emits the 44-byte RIFF/WAVE/fmt/data preamble for a PCM
// payload of dataLength bytes. All multi-byte fields are little-endian.
func BuildWavHeader(dataLength uint32, format WavFormat) []byte {
	byteRate := format.SampleRate * format.NumChannels * format.BitsPerSample / 8
	blockAlign := format.NumChannels * format.BitsPerSample / 8

	header := make([]byte, HeaderSize)

	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], 36+dataLength)
	copy(header[8:12], "WAVE")
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16) // PCM subchunk size
	binary.LittleEndian.PutUint16(header[20:22], 1)  // PCM audio format
	binary.LittleEndian.PutUint16(header[22:24], uint16(format.NumChannels))
	binary.LittleEndian.PutUint32(header[24:28], uint32(format.SampleRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(header[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(header[34:36], uint16(format.BitsPerSample))
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], dataLength)

	return header
}

// WrapPCM prepends a WAV header derived from mimeType to raw PCM bytes,
// turning them into a standalone playable container.
func WrapPCM(pcm []byte, mimeType string) []byte {
	format := ParseMime(mimeType)
	header := BuildWavHeader(uint32(len(pcm)), format)

	out := make([]byte, 0, len(header)+len(pcm))
	out = append(out, header...)
	out = append(out, pcm...)
	return out
}

// extensions maps playable MIME types to file extensions. Raw PCM types
// such as audio/L16 intentionally have no entry: an empty result means the
// bytes still need a container.
var extensions = map[string]string{
	"audio/wav":   "wav",
	"audio/x-wav": "wav",
	"audio/wave":  "wav",
	"audio/mpeg":  "mp3",
	"audio/mp3":   "mp3",
	"audio/ogg":   "ogg",
}

// ExtensionForMime resolves a MIME type (parameters ignored) to a file
// extension, or "" when the type does not denote a standard container.
func ExtensionForMime(mimeType string) string {
	base, _, _ := strings.Cut(mimeType, ";")
	return extensions[strings.ToLower(strings.TrimSpace(base))]
}
