package audio

import "encoding/binary"

// EncodeWAV wraps the concatenated frames in a minimal PCM16 mono WAV
// container at the given sample rate. Remote transcription backends
// that expect a container format use this; the pipeline itself only
// ever deals in raw frames.
func EncodeWAV(frames []Frame, sampleRate int) []byte {
	var dataLen int
	for _, f := range frames {
		dataLen += len(f)
	}

	const headerLen = 44
	buf := make([]byte, headerLen, headerLen+dataLen)

	byteRate := sampleRate * 2 // mono, 16-bit

	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], uint32(36+dataLen))
	copy(buf[8:12], "WAVE")
	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:20], 16) // PCM chunk size
	binary.LittleEndian.PutUint16(buf[20:22], 1)  // PCM format
	binary.LittleEndian.PutUint16(buf[22:24], 1)  // mono
	binary.LittleEndian.PutUint32(buf[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(buf[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(buf[32:34], 2)  // block align
	binary.LittleEndian.PutUint16(buf[34:36], 16) // bits per sample
	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], uint32(dataLen))

	for _, f := range frames {
		buf = append(buf, f...)
	}
	return buf
}
