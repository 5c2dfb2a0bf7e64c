package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"depsync/internal/ports"
	"depsync/internal/shared"
)

const defaultCacheTTL = 24 * time.Hour
const defaultHTTPTimeout = 30 * time.Second
const defaultHTTPRetries = 3
const defaultHTTPRetryDelay = 200 * time.Millisecond
const maxHTTPRetryDelay = 2 * time.Second

type httpRetryConfig struct {
	timeout   time.Duration
	retries   int
	baseDelay time.Duration
}

func normalizeHTTPConfig(timeoutSec int, retries int, delayMs int) httpRetryConfig {
	timeout := time.Duration(timeoutSec) * time.Second
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	retryCount := retries
	if retryCount <= 0 {
		retryCount = defaultHTTPRetries
	}
	baseDelay := time.Duration(delayMs) * time.Millisecond
	if baseDelay <= 0 {
		baseDelay = defaultHTTPRetryDelay
	}
	return httpRetryConfig{
		timeout:   timeout,
		retries:   retryCount,
		baseDelay: baseDelay,
	}
}

func httpRetryDelay(attempt int, cfg httpRetryConfig) time.Duration {
	delay := cfg.baseDelay << attempt
	if delay > maxHTTPRetryDelay {
		delay = maxHTTPRetryDelay
	}
	return delay
}

// VersionHTTPConfig configures the HTTP version source.
type VersionHTTPConfig struct {
	Endpoint       string
	CacheDir       string
	CacheTTL       time.Duration
	HTTPTimeoutSec int
	HTTPRetries    int
	HTTPDelayMs    int
}

// VersionHTTPAdapter resolves latest versions from a registry endpoint
// exposing GET <endpoint>/packages/<name>/latest as a JSON document
// {"name": ..., "latest": ...}. Responses are cached on disk with a
// bounded TTL; on transient fetch failure the last cached value is
// served regardless of age, and a package with neither is reported as
// unknown rather than as an error.
type VersionHTTPAdapter struct {
	endpoint string
	cacheDir string
	ttl      time.Duration
	cfg      httpRetryConfig
	clock    func() time.Time
}

type cachedVersion struct {
	Name      string    `json:"name"`
	Version   string    `json:"version"`
	FetchedAt time.Time `json:"fetched_at"`
}

type latestResponse struct {
	Name   string `json:"name"`
	Latest string `json:"latest"`
}

func NewVersionHTTPAdapter(config VersionHTTPConfig) (*VersionHTTPAdapter, error) {
	endpoint := strings.TrimRight(strings.TrimSpace(config.Endpoint), "/")
	if endpoint == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("registry endpoint is required")
	}
	ttl := config.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	cacheDir := strings.TrimSpace(config.CacheDir)
	if cacheDir != "" {
		if err := os.MkdirAll(cacheDir, 0o755); err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to create version cache directory").
				WithCause(err)
		}
	}
	return &VersionHTTPAdapter{
		endpoint: endpoint,
		cacheDir: cacheDir,
		ttl:      ttl,
		cfg:      normalizeHTTPConfig(config.HTTPTimeoutSec, config.HTTPRetries, config.HTTPDelayMs),
		clock:    time.Now,
	}, nil
}

func (a *VersionHTTPAdapter) Resolve(ctx context.Context, name string) (string, bool, error) {
	now := a.clock()
	if cached, ok := a.readCache(name); ok && now.Sub(cached.FetchedAt) < a.ttl {
		return cached.Version, true, nil
	}
	version, found, err := a.fetch(ctx, name)
	if err != nil {
		// Transient failure: fall back to a stale cache entry when one
		// exists, otherwise report "no update available".
		if cached, ok := a.readCache(name); ok {
			log.Ctx(ctx).Warn().
				Str("package", name).
				AnErr("cause", err).
				Msg("version fetch failed, serving stale cache")
			return cached.Version, true, nil
		}
		log.Ctx(ctx).Warn().
			Str("package", name).
			AnErr("cause", err).
			Msg("version fetch failed, treating as unknown")
		return "", false, nil
	}
	if !found {
		return "", false, nil
	}
	a.writeCache(name, version, now)
	return version, true, nil
}

func (a *VersionHTTPAdapter) fetch(ctx context.Context, name string) (string, bool, error) {
	requestURL := fmt.Sprintf("%s/packages/%s/latest", a.endpoint, url.PathEscape(name))
	client := &http.Client{Timeout: a.cfg.timeout}
	var lastErr error
	for attempt := 0; attempt < a.cfg.retries; attempt++ {
		if ctx.Err() != nil {
			return "", false, ctx.Err()
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
		if err != nil {
			return "", false, err
		}
		resp, err := client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return "", false, ctx.Err()
			}
			lastErr = err
			if attempt < a.cfg.retries-1 {
				time.Sleep(httpRetryDelay(attempt, a.cfg))
				continue
			}
			return "", false, lastErr
		}
		if resp.StatusCode == http.StatusNotFound {
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return "", false, nil
		}
		if (resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests) && attempt < a.cfg.retries-1 {
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			time.Sleep(httpRetryDelay(attempt, a.cfg))
			continue
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return "", false, shared.HTTPStatusError(resp.StatusCode, requestURL)
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return "", false, err
		}
		var payload latestResponse
		if err := json.Unmarshal(body, &payload); err != nil {
			return "", false, err
		}
		if strings.TrimSpace(payload.Latest) == "" {
			return "", false, nil
		}
		return strings.TrimSpace(payload.Latest), true, nil
	}
	return "", false, lastErr
}

func (a *VersionHTTPAdapter) cachePath(name string) string {
	return filepath.Join(a.cacheDir, url.PathEscape(name)+".json")
}

func (a *VersionHTTPAdapter) readCache(name string) (cachedVersion, bool) {
	if a.cacheDir == "" {
		return cachedVersion{}, false
	}
	data, err := os.ReadFile(a.cachePath(name))
	if err != nil {
		return cachedVersion{}, false
	}
	var cached cachedVersion
	if err := json.Unmarshal(data, &cached); err != nil {
		return cachedVersion{}, false
	}
	if cached.Version == "" {
		return cachedVersion{}, false
	}
	return cached, true
}

func (a *VersionHTTPAdapter) writeCache(name string, version string, fetchedAt time.Time) {
	if a.cacheDir == "" {
		return
	}
	data, err := json.Marshal(cachedVersion{Name: name, Version: version, FetchedAt: fetchedAt})
	if err != nil {
		return
	}
	// Cache writes are last-writer-wins and advisory; failures only cost
	// a refetch on the next run.
	if err := os.WriteFile(a.cachePath(name), data, 0o644); err != nil {
		log.Warn().Str("package", name).AnErr("cause", err).Msg("failed to write version cache")
	}
}

var _ ports.VersionSourcePort = (*VersionHTTPAdapter)(nil)
