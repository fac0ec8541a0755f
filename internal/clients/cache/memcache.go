package cache

import (
	"strconv"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/finances-bots/finances-bots/internal/logger"
)

const (
	defaultBase = 10
	keyPrefix   = "finances-bots:"
)

type MemcacheClient struct {
	client *memcache.Client
	ttl    int32
}

type config interface {
	Hosts() []string
	TTL() time.Duration
}

func NewMemcache(config config) (*MemcacheClient, error) {
	logger.Info("memcached hosts", zap.Strings("hosts", config.Hosts()))
	mc := memcache.New(config.Hosts()...)
	return &MemcacheClient{client: mc, ttl: int32(config.TTL().Seconds())}, mc.Ping()
}

func formatKey(userID int64, option string) string {
	return keyPrefix + strconv.FormatInt(userID, defaultBase) + ":" + option
}

func (mc *MemcacheClient) CacheReport(userID int64, option string, report []byte) error {
	logger.Debug("cache report", zap.Int64("userID", userID), zap.String("option", option))
	return mc.client.Set(&memcache.Item{
		Key:        formatKey(userID, option),
		Value:      report,
		Expiration: mc.ttl,
	})
}

func (mc *MemcacheClient) GetReport(userID int64, option string) ([]byte, error) {
	logger.Debug("get report from cache", zap.Int64("userID", userID), zap.String("option", option))
	item, err := mc.client.Get(formatKey(userID, option))
	if err != nil {
		return nil, err
	}
	return item.Value, nil
}

func (mc *MemcacheClient) InvalidateCache(userID int64, options []string) error {
	logger.Debug("invalidate cache", zap.Int64("userID", userID))

	for _, opt := range options {
		err := mc.client.Delete(formatKey(userID, opt))
		if err != nil && !errors.Is(err, memcache.ErrCacheMiss) {
			return err
		}
	}
	return nil
}
