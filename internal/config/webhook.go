package config

import (
	"fmt"
	"strings"
)

type WebhookConfig struct {
	URL        string `yaml:"public-url"`
	ListenPort int    `yaml:"port"`
}

// PublicURL is the externally reachable base URL without a trailing slash.
func (w *WebhookConfig) PublicURL() string {
	return strings.TrimRight(w.URL, "/")
}

func (w *WebhookConfig) Port() int {
	return w.ListenPort
}

func (w *WebhookConfig) Addr() string {
	return fmt.Sprintf(":%d", w.ListenPort)
}
