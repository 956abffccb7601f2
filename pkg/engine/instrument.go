package engine

import (
	"context"
	"time"

	"github.com/rhuss/brandsmith/pkg/api"
	"github.com/rhuss/brandsmith/pkg/observability"
	"github.com/rhuss/brandsmith/pkg/provider"
)

// instrumented wraps a provider and records per-call metrics. The enhancer
// and assessor share the wrapped provider, so their calls are counted too.
type instrumented struct {
	provider.Provider
}

func instrument(p provider.Provider) provider.Provider {
	if _, ok := p.(*instrumented); ok {
		return p
	}
	return &instrumented{Provider: p}
}

func (i *instrumented) GenerateText(ctx context.Context, req *provider.TextRequest) (*provider.TextResponse, error) {
	name := i.Name()
	start := time.Now()
	resp, err := i.Provider.GenerateText(ctx, req)
	observe(name, provider.KindText, start, err)
	if err == nil && resp != nil {
		observability.ProviderTokensTotal.WithLabelValues(name, "input").Add(float64(resp.Usage.PromptTokens))
		observability.ProviderTokensTotal.WithLabelValues(name, "output").Add(float64(resp.Usage.CompletionTokens))
	}
	return resp, err
}

func (i *instrumented) GenerateImage(ctx context.Context, req *provider.ImageRequest) (*provider.ImageResponse, error) {
	start := time.Now()
	resp, err := i.Provider.GenerateImage(ctx, req)
	observe(i.Name(), provider.KindImage, start, err)
	return resp, err
}

func observe(name string, kind provider.Kind, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = string(api.KindOf(err))
	}
	observability.ProviderRequestsTotal.WithLabelValues(name, string(kind), status).Inc()
	observability.ProviderLatency.WithLabelValues(name, string(kind)).Observe(time.Since(start).Seconds())
}
