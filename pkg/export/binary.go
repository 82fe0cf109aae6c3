package export

import (
	"bytes"
	"fmt"
	"io"

	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	// sniffSize bounds how much of a file is read to decide text vs binary.
	sniffSize = 8192

	// suspiciousRatio is the fraction of flagged bytes above which a sample
	// is classified as binary.
	suspiciousRatio = 0.3

	verdictCacheSize = 4096
)

// magicSignatures are well known binary headers. A sample starting with any
// of them is binary regardless of the byte scan.
var magicSignatures = [][]byte{
	{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, // PNG
	{0xFF, 0xD8, 0xFF},                               // JPEG
	{0x47, 0x49, 0x46, 0x38},                         // GIF
	{0x1F, 0x8B},                                     // gzip
	{0x50, 0x4B, 0x03, 0x04},                         // zip
	{0x7F, 0x45, 0x4C, 0x46},                         // ELF
	{0xCA, 0xFE, 0xBA, 0xBE},                         // Java class
	{0x25, 0x50, 0x44, 0x46},                         // PDF
}

// stripBOM removes a leading UTF-8 or UTF-16 byte-order mark so that the
// mark itself never counts against the sample.
func stripBOM(sample []byte) []byte {
	switch {
	case len(sample) >= 3 && sample[0] == 0xEF && sample[1] == 0xBB && sample[2] == 0xBF:
		return sample[3:]
	case len(sample) >= 2 && sample[0] == 0xFF && sample[1] == 0xFE:
		return sample[2:]
	case len(sample) >= 2 && sample[0] == 0xFE && sample[1] == 0xFF:
		return sample[2:]
	}
	return sample
}

// utf8SeqLen returns the expected byte length of a UTF-8 sequence given its
// lead byte, or 0 when the byte cannot start a multi-byte sequence.
func utf8SeqLen(lead byte) int {
	switch {
	case lead&0xE0 == 0xC0:
		return 2
	case lead&0xF0 == 0xE0:
		return 3
	case lead&0xF8 == 0xF0:
		return 4
	}
	return 0
}

// continuationRun reports whether every byte is a UTF-8 continuation byte.
func continuationRun(bs []byte) bool {
	for _, b := range bs {
		if b&0xC0 != 0x80 {
			return false
		}
	}
	return true
}

// classifyBytes reports whether a content sample looks binary. Any NUL byte
// decides immediately. Otherwise the scan accepts printable ASCII, tab, CR,
// LF and valid UTF-8 sequences, flags remaining control characters and
// malformed bytes, and classifies the sample as binary once the flagged
// fraction exceeds suspiciousRatio. A valid sequence cut off by the sample
// boundary is not held against the file.
func classifyBytes(sample []byte) bool {
	for _, sig := range magicSignatures {
		if bytes.HasPrefix(sample, sig) {
			return true
		}
	}
	sample = stripBOM(sample)
	if len(sample) == 0 {
		return false
	}

	suspicious := 0
	for i := 0; i < len(sample); {
		b := sample[i]
		if b == 0x00 {
			return true
		}
		if b == '\n' || b == '\r' || b == '\t' || (b >= 0x20 && b <= 0x7E) {
			i++
			continue
		}
		if b < 0x80 {
			suspicious++
			i++
			continue
		}
		n := utf8SeqLen(b)
		if n == 0 {
			suspicious++
			i++
			continue
		}
		if i+n > len(sample) {
			if continuationRun(sample[i+1:]) {
				break
			}
			suspicious++
			i++
			continue
		}
		if continuationRun(sample[i+1 : i+n]) {
			i += n
			continue
		}
		suspicious++
		i++
	}
	return float64(suspicious)/float64(len(sample)) > suspiciousRatio
}

// classifier decides text versus binary by sniffing file content. Verdicts
// are cached by path, size and modification time so directories reached
// through several selected roots are only sampled once.
type classifier struct {
	cache *lru.Cache[string, bool]
}

func newClassifier() *classifier {
	cache, _ := lru.New[string, bool](verdictCacheSize)
	return &classifier{cache: cache}
}

func verdictKey(e Entry) string {
	return fmt.Sprintf("%s|%d|%d", e.Path(), e.Size(), e.ModTime().UnixNano())
}

// isBinary samples up to sniffSize bytes of the entry and classifies them.
// Files that cannot be read are reported as text here; the later content
// read skips them anyway, and misclassifying them as binary would distort
// the exclusion counts.
func (c *classifier) isBinary(e Entry) bool {
	key := verdictKey(e)
	if verdict, ok := c.cache.Get(key); ok {
		return verdict
	}
	verdict := c.sniff(e)
	c.cache.Add(key, verdict)
	return verdict
}

func (c *classifier) sniff(e Entry) bool {
	f, err := e.Open()
	if err != nil {
		return false
	}
	defer f.Close()

	buf := make([]byte, sniffSize)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return false
	}
	return classifyBytes(buf[:n])
}
