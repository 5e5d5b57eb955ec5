package speech

import "encoding/binary"

// Telephony audio parameters: 16-bit signed PCM, mono, 8kHz.
const (
	PCMSampleRate    = 8000
	PCMChannels      = 1
	PCMBitsPerSample = 16
)

// WrapPCM wraps raw 16-bit little-endian mono PCM in a minimal RIFF/WAVE
// container so the transcription vendor can identify the format.
func WrapPCM(pcm []byte, sampleRate, channels int) []byte {
	byteRate := sampleRate * channels * PCMBitsPerSample / 8
	blockAlign := channels * PCMBitsPerSample / 8

	out := make([]byte, 0, 44+len(pcm))
	out = append(out, "RIFF"...)
	out = appendLE32(out, uint32(36+len(pcm)))
	out = append(out, "WAVE"...)

	out = append(out, "fmt "...)
	out = appendLE32(out, 16)                      // fmt chunk size
	out = appendLE16(out, 1)                       // PCM
	out = appendLE16(out, uint16(channels))
	out = appendLE32(out, uint32(sampleRate))
	out = appendLE32(out, uint32(byteRate))
	out = appendLE16(out, uint16(blockAlign))
	out = appendLE16(out, PCMBitsPerSample)

	out = append(out, "data"...)
	out = appendLE32(out, uint32(len(pcm)))
	out = append(out, pcm...)
	return out
}

func appendLE16(b []byte, v uint16) []byte {
	return binary.LittleEndian.AppendUint16(b, v)
}

func appendLE32(b []byte, v uint32) []byte {
	return binary.LittleEndian.AppendUint32(b, v)
}
