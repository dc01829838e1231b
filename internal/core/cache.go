package core

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/zeebo/xxh3"
)

// reportCache memoises Process results. Identical content under identical
// options yields an identical report, so a re-submitted upload skips every
// stage. Entries expire after ttl; past maxEntries the least recently used
// entry is evicted. Cached reports are shared and must be treated as
// read-only.
type reportCache struct {
	lru *expirable.LRU[xxh3.Uint128, *FileReport]
}

func newReportCache(ttl time.Duration, maxEntries int) *reportCache {
	return &reportCache{
		lru: expirable.NewLRU[xxh3.Uint128, *FileReport](maxEntries, nil, ttl),
	}
}

// cacheKey hashes everything Process reads: the file name (it drives format
// detection and the export name), the declared size (oversize uploads
// arrive without data), the content, the options and the limits.
func cacheKey(file UploadedFile, opts Options, lim Limits) (xxh3.Uint128, error) {
	optsJSON, err := json.Marshal(opts)
	if err != nil {
		return xxh3.Uint128{}, err
	}
	h := xxh3.New()
	writeField := func(b []byte) {
		_, _ = h.WriteString(strconv.Itoa(len(b)))
		_, _ = h.WriteString(":")
		_, _ = h.Write(b)
	}
	writeField([]byte(file.Name))
	writeField([]byte(strconv.FormatInt(file.Size, 10)))
	writeField(file.Data)
	writeField(optsJSON)
	writeField([]byte(strconv.Itoa(lim.PreviewRows)))
	writeField([]byte(strconv.FormatInt(lim.MaxFileSize, 10)))
	return h.Sum128(), nil
}

func (c *reportCache) get(key xxh3.Uint128) (*FileReport, bool) {
	return c.lru.Get(key)
}

func (c *reportCache) put(key xxh3.Uint128, rep *FileReport) {
	c.lru.Add(key, rep)
}

func (c *reportCache) len() int {
	return c.lru.Len()
}
