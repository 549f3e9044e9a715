package cache

import (
	"encoding/json"

	"github.com/gomodule/redigo/redis"
	"go.uber.org/zap"

	"shorturl-go/constant"
	"shorturl-go/internal/model"
	"shorturl-go/pkg/logging"
)

const (
	recordTTLSeconds   = 3600
	missTTLSeconds     = 300          // negative cache, guards against probing
	dailyKeyTTLSeconds = 3 * 24 * 3600
)

// Cache wraps the redis pool for the redirect hot path: short URL records by
// shortcode plus per-shortcode click counters and visitor HyperLogLogs.
// A nil *Cache is valid and turns every operation into a no-op, so services
// run without redis in tests and in the memory-store configuration.
type Cache struct {
	pool *redis.Pool
}

func New(pool *redis.Pool) *Cache {
	if pool == nil {
		return nil
	}
	return &Cache{pool: pool}
}

func (c *Cache) conn() redis.Conn {
	return c.pool.Get()
}

func closeConn(conn redis.Conn) {
	if err := conn.Close(); err != nil {
		logging.Logger.Error("Failed to close Redis connection",
			zap.Error(err),
			zap.String("operation", "close"),
			zap.String("connection_type", "redis"),
		)
	}
}

// GetRecord looks up the cached record. hit reports whether the cache had an
// answer at all; a hit with a nil record means the miss itself was cached.
// The cached copy carries no click events.
func (c *Cache) GetRecord(shortcode string) (record *model.ShortURL, hit bool) {
	if c == nil {
		return nil, false
	}

	conn := c.conn()
	defer closeConn(conn)

	key := constant.GetRecordKey(shortcode)
	cachedValue, err := redis.Bytes(conn.Do("GET", key))
	if err != nil {
		if err != redis.ErrNil {
			logging.Logger.Warn("Error getting from Redis",
				zap.String("cache_key", key),
				zap.Error(err))
		}
		return nil, false
	}

	if len(cachedValue) == 0 {
		return nil, true
	}

	var cached model.ShortURL
	if err := json.Unmarshal(cachedValue, &cached); err != nil {
		logging.Logger.Warn("Failed to unmarshal cached value",
			zap.String("cache_key", key),
			zap.Error(err))
		return nil, false
	}
	return &cached, true
}

// SetRecord caches the record for an hour, stripped of its click log.
func (c *Cache) SetRecord(shortcode string, record *model.ShortURL) {
	if c == nil {
		return
	}

	conn := c.conn()
	defer closeConn(conn)

	slim := *record
	slim.Clicks = nil
	cachedValue, err := json.Marshal(&slim)
	if err != nil {
		return
	}

	key := constant.GetRecordKey(shortcode)
	if _, err := conn.Do("SET", key, cachedValue, "EX", recordTTLSeconds); err != nil {
		logging.Logger.Error("Failed to set record cache",
			zap.String("cache_key", key),
			zap.Error(err),
		)
	}
}

// SetMissing caches an empty value so repeated lookups of an unknown
// shortcode do not hammer the store.
func (c *Cache) SetMissing(shortcode string) {
	if c == nil {
		return
	}

	conn := c.conn()
	defer closeConn(conn)

	key := constant.GetRecordKey(shortcode)
	if _, err := conn.Do("SET", key, "", "EX", missTTLSeconds); err != nil {
		logging.Logger.Error("Failed to set miss cache",
			zap.String("cache_key", key),
			zap.Error(err),
		)
	}
}

// RecordClick bumps the daily and total click counters and the visitor
// HyperLogLogs for the shortcode. All failures are logged and swallowed.
func (c *Cache) RecordClick(shortcode, ip string) {
	if c == nil {
		return
	}

	conn := c.conn()
	defer closeConn(conn)

	date := constant.GetDateKey()

	dailyClicksKey := constant.GetDailyClicksKey(date)
	if _, err := conn.Do("HINCRBY", dailyClicksKey, shortcode, 1); err != nil {
		logging.Logger.Error("Failed to record daily clicks",
			zap.String("key", dailyClicksKey),
			zap.String("shortcode", shortcode),
			zap.Error(err))
	}
	if _, err := conn.Do("EXPIRE", dailyClicksKey, dailyKeyTTLSeconds); err != nil {
		logging.Logger.Error("Failed to expire daily clicks key",
			zap.String("key", dailyClicksKey),
			zap.Error(err))
	}

	dailyVisitorsKey := constant.GetDailyVisitorsKey(shortcode, date)
	if _, err := conn.Do("PFADD", dailyVisitorsKey, ip); err != nil {
		logging.Logger.Error("Failed to record daily visitors",
			zap.String("key", dailyVisitorsKey),
			zap.String("ip", ip),
			zap.Error(err))
	}
	if _, err := conn.Do("EXPIRE", dailyVisitorsKey, dailyKeyTTLSeconds); err != nil {
		logging.Logger.Error("Failed to expire daily visitors key",
			zap.String("key", dailyVisitorsKey),
			zap.Error(err))
	}

	totalClicksKey := constant.GetTotalClicksKey(shortcode)
	if _, err := conn.Do("INCR", totalClicksKey); err != nil {
		logging.Logger.Error("Failed to record total clicks",
			zap.String("key", totalClicksKey),
			zap.Error(err))
	}

	totalVisitorsKey := constant.GetTotalVisitorsKey(shortcode)
	if _, err := conn.Do("PFADD", totalVisitorsKey, ip); err != nil {
		logging.Logger.Error("Failed to record total visitors",
			zap.String("key", totalVisitorsKey),
			zap.Error(err))
	}
}

// GetDailyClicks reads the click count for a shortcode on a yyyyMMdd date.
func (c *Cache) GetDailyClicks(shortcode, date string) (int64, error) {
	if c == nil {
		return 0, nil
	}

	conn := c.conn()
	defer closeConn(conn)

	reply, err := conn.Do("HGET", constant.GetDailyClicksKey(date), shortcode)
	if err != nil {
		return 0, err
	}
	if reply == nil {
		return 0, nil
	}
	return redis.Int64(reply, err)
}

// GetDailyVisitors reads the HLL cardinality for a shortcode on a date.
func (c *Cache) GetDailyVisitors(shortcode, date string) (int64, error) {
	if c == nil {
		return 0, nil
	}

	conn := c.conn()
	defer closeConn(conn)

	reply, err := conn.Do("PFCOUNT", constant.GetDailyVisitorsKey(shortcode, date))
	if err != nil {
		return 0, err
	}
	return redis.Int64(reply, err)
}
