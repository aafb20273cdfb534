// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package attachment

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Verifier probes whether a remote file exists. It never fails: every
// problem is folded into StateError.
type Verifier interface {
	Verify(ctx context.Context, rawURL string) Result
}

// VerifierConfig configures an HTTPVerifier.
type VerifierConfig struct {
	// Timeout bounds one probe (default: 10s)
	Timeout time.Duration
	// Rate is probes per second; zero disables throttling.
	Rate  float64
	Burst int

	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// HTTPVerifier probes with HEAD requests.
type HTTPVerifier struct {
	client  *http.Client
	timeout time.Duration
	limiter *rate.Limiter
	log     zerolog.Logger
}

// NewHTTPVerifier builds a verifier from cfg.
func NewHTTPVerifier(cfg VerifierConfig) *HTTPVerifier {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	v := &HTTPVerifier{
		client:  client,
		timeout: cfg.Timeout,
		log:     cfg.Logger.With().Str("component", "verifier").Logger(),
	}
	if cfg.Rate > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		v.limiter = rate.NewLimiter(rate.Limit(cfg.Rate), burst)
	}
	return v
}

// Verify sends HEAD to rawURL. A 2xx answer is available, any other answer
// unavailable; no answer at all is error.
func (v *HTTPVerifier) Verify(ctx context.Context, rawURL string) Result {
	res := v.verify(ctx, rawURL)
	ev := v.log.Debug()
	if res.State != StateAvailable {
		ev = v.log.Warn()
	}
	ev.Str("url", rawURL).Str("state", res.State.String()).Int("status", res.StatusCode).Msg("probe")
	return res
}

func (v *HTTPVerifier) verify(ctx context.Context, rawURL string) Result {
	fail := Result{State: StateError, Size: -1}

	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fail
	}

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	if v.limiter != nil {
		if err := v.limiter.Wait(ctx); err != nil {
			return fail
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, u.String(), nil)
	if err != nil {
		return fail
	}
	resp, err := v.client.Do(req)
	if err != nil {
		return fail
	}
	resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return Result{State: StateAvailable, StatusCode: resp.StatusCode, Size: resp.ContentLength}
	}
	return Result{State: StateUnavailable, StatusCode: resp.StatusCode, Size: -1}
}

// VerifierFunc adapts a function to Verifier.
type VerifierFunc func(ctx context.Context, rawURL string) Result

func (f VerifierFunc) Verify(ctx context.Context, rawURL string) Result {
	return f(ctx, rawURL)
}
