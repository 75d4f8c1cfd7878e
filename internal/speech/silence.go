package speech

import (
	"encoding/binary"
	"fmt"
	"os"
	"strings"
)

const (
	wavSampleRate      = 22050
	wavNumChannels     = 1
	wavBitsPerSample   = 16
	wavHeaderSize      = 44
	wavSubchunkSize    = 16
	wavAudioFormat     = 1
	wavChunkSizeOffset = 36
)

// WriteSilentWAV writes a validly-headered silent file sized from the word
// count at the assumed speaking rate, minimum five seconds. It is the last
// tier: it cannot fail short of the filesystem failing.
func WriteSilentWAV(text, path string) error {
	duration := EstimateDuration(text)
	if duration < minSilenceSeconds {
		duration = minSilenceSeconds
	}

	if err := os.WriteFile(path, silentWAV(duration), 0644); err != nil {
		return fmt.Errorf("write silent wav: %w", err)
	}
	return nil
}

func silentWAV(durationSec float64) []byte {
	bytesPerSample := wavBitsPerSample / 8
	numSamples := int(durationSec * float64(wavSampleRate))
	dataSize := numSamples * wavNumChannels * bytesPerSample
	byteRate := wavSampleRate * wavNumChannels * bytesPerSample
	blockAlign := wavNumChannels * bytesPerSample

	buf := make([]byte, wavHeaderSize+dataSize)

	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], uint32(wavChunkSizeOffset+dataSize))
	copy(buf[8:12], "WAVE")

	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:20], wavSubchunkSize)
	binary.LittleEndian.PutUint16(buf[20:22], wavAudioFormat)
	binary.LittleEndian.PutUint16(buf[22:24], wavNumChannels)
	binary.LittleEndian.PutUint32(buf[24:28], wavSampleRate)
	binary.LittleEndian.PutUint32(buf[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(buf[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(buf[34:36], wavBitsPerSample)

	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], uint32(dataSize))

	return buf
}

// wordCount is shared by silence sizing and timing estimates.
func wordCount(text string) int {
	return len(strings.Fields(text))
}
