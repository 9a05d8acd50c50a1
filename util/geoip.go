package util

import (
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oschwald/geoip2-golang"
	cache "github.com/patrickmn/go-cache"
)

// IPLocation is the coarse origin of a client address as recorded on
// security events.
type IPLocation struct {
	City    string
	Country string
}

// String renders the location as "City/Country", or whichever half is known.
func (l IPLocation) String() string {
	switch {
	case l.City != "" && l.Country != "":
		return fmt.Sprintf("%s/%s", l.City, l.Country)
	case l.Country != "":
		return l.Country
	default:
		return l.City
	}
}

// GeoIPCacheStats reports lookup cache usage.
type GeoIPCacheStats struct {
	Hits   int64
	Misses int64
	Size   int
}

var (
	geoipMu     sync.RWMutex
	geoipReader *geoip2.Reader
	geoipCache  = cache.New(24*time.Hour, time.Hour)
	geoipHits   int64
	geoipMisses int64
)

// InitGeoIP opens a GeoLite2 City database for security-event enrichment.
// An empty path leaves lookups disabled.
func InitGeoIP(dbPath string) error {
	if dbPath == "" {
		return nil
	}
	r, err := geoip2.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open geoip database: %w", err)
	}
	geoipMu.Lock()
	geoipReader = r
	geoipMu.Unlock()
	return nil
}

func CloseGeoIP() {
	geoipMu.Lock()
	defer geoipMu.Unlock()
	if geoipReader != nil {
		_ = geoipReader.Close()
		geoipReader = nil
	}
}

// LookupIP resolves ip against the GeoIP database. Addresses that can never
// resolve (private, loopback, link-local, malformed) return the zero value
// without touching the cache.
func LookupIP(ip string) IPLocation {
	addr := net.ParseIP(ip)
	if addr == nil || addr.IsLoopback() || addr.IsPrivate() || addr.IsUnspecified() || addr.IsLinkLocalUnicast() {
		return IPLocation{}
	}

	if v, ok := geoipCache.Get(ip); ok {
		atomic.AddInt64(&geoipHits, 1)
		return v.(IPLocation)
	}
	atomic.AddInt64(&geoipMisses, 1)

	geoipMu.RLock()
	defer geoipMu.RUnlock()
	if geoipReader == nil {
		return IPLocation{}
	}
	rec, err := geoipReader.City(addr)
	if err != nil {
		return IPLocation{}
	}
	loc := IPLocation{City: rec.City.Names["en"], Country: rec.Country.Names["en"]}
	if loc.Country == "" {
		loc.Country = rec.Country.IsoCode
	}
	geoipCache.Set(ip, loc, cache.DefaultExpiration)
	return loc
}

func GeoIPCacheMetrics() GeoIPCacheStats {
	return GeoIPCacheStats{
		Hits:   atomic.LoadInt64(&geoipHits),
		Misses: atomic.LoadInt64(&geoipMisses),
		Size:   geoipCache.ItemCount(),
	}
}
