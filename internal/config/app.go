package config

import "time"

type AppConfig struct {
	Timeout time.Duration `yaml:"message-timeout"`
}

func (s *AppConfig) MessageTimeout() time.Duration {
	return s.Timeout
}

type AuthConfig struct {
	Cost int `yaml:"bcrypt-cost"`
}

func (a *AuthConfig) BcryptCost() int {
	return a.Cost
}
