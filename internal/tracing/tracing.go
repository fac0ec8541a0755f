package tracing

import (
	"io"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"github.com/uber/jaeger-client-go"
	jaegercfg "github.com/uber/jaeger-client-go/config"
	"go.uber.org/zap"

	"github.com/finances-bots/finances-bots/internal/logger"
)

type config interface {
	Enabled() bool
	ServiceName() string
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// InitGlobalTracer installs a jaeger tracer as the opentracing global tracer.
// When tracing is disabled the global no-op tracer stays in place. The
// returned closer flushes pending spans.
func InitGlobalTracer(config config) (io.Closer, error) {
	if !config.Enabled() {
		opentracing.SetGlobalTracer(opentracing.NoopTracer{})
		return nopCloser{}, nil
	}

	cfg, err := jaegercfg.FromEnv()
	if err != nil {
		return nil, errors.Wrap(err, "read jaeger env")
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = config.ServiceName()
	}
	if cfg.Sampler.Type == "" {
		cfg.Sampler.Type = jaeger.SamplerTypeConst
		cfg.Sampler.Param = 1
	}

	closer, err := cfg.InitGlobalTracer(cfg.ServiceName)
	if err != nil {
		return nil, errors.Wrap(err, "init jaeger tracer")
	}
	logger.Info("jaeger tracer initialized", zap.String("service", cfg.ServiceName))
	return closer, nil
}
