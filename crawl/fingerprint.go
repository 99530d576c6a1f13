package crawl

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/cespare/xxhash/v2"
	"strconv"
)

// Fingerprint returns the SHA-256 hex digest of a page's clean text.
// Computed over extracted content rather than raw markup so markup-only
// churn never registers as a content change.
func Fingerprint(cleanText string) string {
	sum := sha256.Sum256([]byte(cleanText))
	return hex.EncodeToString(sum[:])
}

// Changed reports whether the content fingerprint moved since the last
// crawl. A page never fetched before always counts as changed.
func Changed(previous, current string) bool {
	return previous == "" || previous != current
}

// MarkupChecksum returns a fast non-cryptographic digest of raw markup,
// used to track markup churn independently of content changes.
func MarkupChecksum(html string) string {
	return strconv.FormatUint(xxhash.Sum64String(html), 16)
}
