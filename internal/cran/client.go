// Package cran looks up package metadata on a CRAN mirror. Requests go
// through the git-pkgs artifact fetcher: a DNS-caching transport, retries on
// rate limiting and server errors, and one circuit breaker per mirror host.
package cran

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"

	"github.com/git-pkgs/registries/fetch"
	"golang.org/x/sync/errgroup"

	"github.com/VoxDroid/rpkgs/internal/config"
)

// Errors reported by lookups; they match with errors.Is.
var (
	ErrNotFound     = fetch.ErrNotFound
	ErrRateLimited  = fetch.ErrRateLimited
	ErrUpstreamDown = fetch.ErrUpstreamDown
)

const (
	userAgent      = "rpkgs/1.0"
	defaultRetries = 3
	maxDescription = 1 << 20
	// the uncompressed CRAN index is a few megabytes
	maxIndex = 64 << 20
)

// DefaultConcurrency bounds parallel DESCRIPTION lookups.
const DefaultConcurrency = 8

// sharedFetcher is used by every client that is not given its own. The
// fetcher refreshes its DNS cache from a goroutine that lives as long as the
// fetcher, so there is one per process rather than one per client.
var sharedFetcher = sync.OnceValue(func() fetch.FetcherInterface {
	return fetch.NewCircuitBreakerFetcher(fetch.NewFetcher(
		fetch.WithUserAgent(userAgent),
		fetch.WithMaxRetries(defaultRetries),
	))
})

// Client fetches package metadata from a CRAN mirror.
type Client struct {
	Mirror string

	fetcher fetch.FetcherInterface
}

// Option configures a Client.
type Option func(*Client)

// WithFetcher replaces the shared fetcher, mostly for tests.
func WithFetcher(f fetch.FetcherInterface) Option {
	return func(c *Client) { c.fetcher = f }
}

// NewClient returns a client for mirror. An empty mirror means
// config.DefaultRepos.
func NewClient(mirror string, opts ...Option) *Client {
	if mirror == "" {
		mirror = config.DefaultRepos
	}
	c := &Client{Mirror: strings.TrimRight(mirror, "/")}
	for _, opt := range opts {
		opt(c)
	}
	if c.fetcher == nil {
		c.fetcher = sharedFetcher()
	}
	return c
}

// DescriptionURL is where the mirror serves a package's DESCRIPTION.
func (c *Client) DescriptionURL(name string) string {
	return fmt.Sprintf("%s/web/packages/%s/DESCRIPTION", c.Mirror, url.PathEscape(name))
}

// IndexURL is the mirror's source package index.
func (c *Client) IndexURL() string {
	return c.Mirror + "/src/contrib/PACKAGES"
}

// RegistryURL is the package's landing page on the mirror.
func (c *Client) RegistryURL(name string) string {
	return fmt.Sprintf("%s/web/packages/%s/index.html", c.Mirror, url.PathEscape(name))
}

// DownloadURL is the source tarball for one version.
func (c *Client) DownloadURL(name, version string) string {
	if version == "" {
		return ""
	}
	return fmt.Sprintf("%s/src/contrib/%s_%s.tar.gz", c.Mirror, url.PathEscape(name), url.PathEscape(version))
}

// DocumentationURL is the reference manual PDF.
func (c *Client) DocumentationURL(name string) string {
	return fmt.Sprintf("%s/web/packages/%s/%s.pdf", c.Mirror, url.PathEscape(name), url.PathEscape(name))
}

// Describe fetches and parses the current DESCRIPTION of name.
func (c *Client) Describe(ctx context.Context, name string) (Description, error) {
	body, err := c.get(ctx, c.DescriptionURL(name), maxDescription)
	if err != nil {
		return Description{}, fmt.Errorf("describe %s: %w", name, err)
	}
	return ParseDescription(body), nil
}

// DescribeAll looks up names concurrently, at most limit at a time, and
// returns the descriptions in the order of names. The first failure cancels
// the remaining lookups and is returned.
func (c *Client) DescribeAll(ctx context.Context, names []string, limit int) ([]Description, error) {
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	out := make([]Description, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, name := range names {
		g.Go(func() error {
			d, err := c.Describe(gctx, name)
			if err != nil {
				return err
			}
			out[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Index fetches the mirror's PACKAGES index.
func (c *Client) Index(ctx context.Context) ([]Description, error) {
	body, err := c.get(ctx, c.IndexURL(), maxIndex)
	if err != nil {
		return nil, fmt.Errorf("package index: %w", err)
	}
	return ParseIndex(body), nil
}

func (c *Client) get(ctx context.Context, target string, limit int64) (string, error) {
	art, err := c.fetcher.Fetch(ctx, target)
	if err != nil {
		return "", err
	}
	defer func() { _ = art.Body.Close() }()
	b, err := io.ReadAll(io.LimitReader(art.Body, limit))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", target, err)
	}
	return string(b), nil
}
