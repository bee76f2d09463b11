package stations

import (
	"bytes"
	"encoding/binary"
	"log"
)

// S2PCMtoWAV wraps raw s16le PCM in a RIFF/WAVE container, the canonical
// waveform the recognizer consumes.
type S2PCMtoWAV struct{}

func NewS2PCMtoWAV() *S2PCMtoWAV { return &S2PCMtoWAV{} }

func (s *S2PCMtoWAV) Run(pcm []byte) []byte {

	const (
		sampleRate     = 16000
		channels       = 1
		bitsPerSample  = 16
		bytesPerSample = bitsPerSample / 8
	)

	dataSize := len(pcm)
	byteRate := sampleRate * channels * bytesPerSample
	blockAlign := channels * bytesPerSample

	buf := &bytes.Buffer{}

	buf.WriteString("RIFF")
	_ = binary.Write(buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	_ = binary.Write(buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(buf, binary.LittleEndian, uint16(1))
	_ = binary.Write(buf, binary.LittleEndian, uint16(channels))
	_ = binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	_ = binary.Write(buf, binary.LittleEndian, uint32(byteRate))
	_ = binary.Write(buf, binary.LittleEndian, uint16(blockAlign))
	_ = binary.Write(buf, binary.LittleEndian, uint16(bitsPerSample))

	buf.WriteString("data")
	_ = binary.Write(buf, binary.LittleEndian, uint32(dataSize))
	_, _ = buf.Write(pcm)

	log.Printf("[S2][OK] pcm=%d wav=%d", len(pcm), buf.Len())
	return buf.Bytes()
}
