package config

import "github.com/pkg/errors"

type StorageConfig struct {
	DriverName string `yaml:"driver"`
	ConnString string `yaml:"dsn"`
}

func (s *StorageConfig) Driver() string {
	return s.DriverName
}

func (s *StorageConfig) DSN() string {
	return s.ConnString
}

func (s *StorageConfig) validate() error {
	switch s.DriverName {
	case "memory":
		return nil
	case "postgres", "sqlite":
		if s.ConnString == "" {
			return errors.Errorf("storage dsn is required for driver %q", s.DriverName)
		}
		return nil
	}
	return errors.Errorf("unknown storage driver %q", s.DriverName)
}
