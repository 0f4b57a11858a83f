// Package tracer installs the global opentracing tracer backed by jaeger.
package tracer

import (
	"io"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/opentracing/opentracing-go"
	"github.com/uber/jaeger-client-go"
	jaegercfg "github.com/uber/jaeger-client-go/config"
)

type noopCloser struct{}

func (noopCloser) Close() error { return nil }

// Init reports spans of serviceName to the agent at addr. An empty addr
// leaves the no-op tracer in place.
func Init(serviceName, addr string) io.Closer {
	if addr == "" {
		return noopCloser{}
	}
	cfg := jaegercfg.Configuration{
		ServiceName: serviceName,
		Sampler: &jaegercfg.SamplerConfig{
			Type:  jaeger.SamplerTypeConst,
			Param: 1,
		},
		Reporter: &jaegercfg.ReporterConfig{
			LogSpans:           false,
			LocalAgentHostPort: addr,
		},
	}
	tracer, closer, err := cfg.NewTracer(jaegercfg.Logger(jaeger.StdLogger))
	if err != nil {
		hlog.Errorf("init jaeger tracer: %v", err)
		return noopCloser{}
	}
	opentracing.SetGlobalTracer(tracer)
	hlog.Infof("tracing %s to %s", serviceName, addr)
	return closer
}
