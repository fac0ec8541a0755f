package config

import "time"

type MemcachedConfig struct {
	NodeHosts []string      `yaml:"hosts"`
	CacheTTL  time.Duration `yaml:"ttl"`
}

func (s *MemcachedConfig) Hosts() []string {
	return s.NodeHosts
}

func (s *MemcachedConfig) TTL() time.Duration {
	return s.CacheTTL
}

func (s *MemcachedConfig) Enabled() bool {
	return len(s.NodeHosts) > 0
}
