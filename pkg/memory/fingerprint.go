// Package memory implements the rolling-memory cache: fingerprint- and
// watermark-based staleness tracking plus the asynchronous merge protocol
// that keeps scene, chapter, and workshop summaries fresh.
package memory

import (
	"hash/fnv"
	"io"
	"strconv"

	"github.com/quillhq/quill/pkg/types"
)

// HashContent returns a stable FNV-1a fingerprint of the given text.
// This is change detection, not integrity: FNV is fast and order-sensitive
// but NOT cryptographic, and must never be used for security purposes.
func HashContent(s string) string {
	h := fnv.New64a()
	io.WriteString(h, s)
	return strconv.FormatUint(h.Sum64(), 16)
}

// ChapterFingerprint fingerprints the ordered (scene id, content hash) pairs
// of a chapter. Editing any scene, or reordering, inserting, or deleting one,
// changes the fingerprint.
func ChapterFingerprint(scenes []*types.Scene) string {
	h := fnv.New64a()
	for _, sc := range scenes {
		io.WriteString(h, string(sc.ID))
		io.WriteString(h, "\x1f")
		io.WriteString(h, HashContent(sc.Content))
		io.WriteString(h, "\x1e")
	}
	return strconv.FormatUint(h.Sum64(), 16)
}

// WatermarkKey encodes a workshop message-count watermark as a staleness key.
func WatermarkKey(count int) string {
	return strconv.Itoa(count)
}

// ParseWatermark decodes a watermark staleness key. Absent or malformed keys
// decode to zero, which makes every message pending.
func ParseWatermark(key string) int {
	n, err := strconv.Atoi(key)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
