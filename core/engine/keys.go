package engine

import (
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/brandsignal/foresight/core/model"
)

// cacheKey digests (operation, domain, normalized config) into a stable key.
// The operation prefix is kept readable for debugging and invalidation.
func cacheKey(op, domain string, cfg model.AnalysisConfig) string {
	h := xxhash.New()
	_, _ = h.WriteString(op)
	_, _ = h.WriteString("|")
	_, _ = h.WriteString(domain)
	_, _ = h.WriteString("|")
	_, _ = h.WriteString(cfg.Normalize())
	return op + ":" + strconv.FormatUint(h.Sum64(), 16)
}
