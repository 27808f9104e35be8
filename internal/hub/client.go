package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-retryablehttp"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/egoavara/plughub/internal/catalog"
	"github.com/egoavara/plughub/internal/credentials"
	"github.com/egoavara/plughub/internal/httpclient"
	"github.com/egoavara/plughub/internal/plugintype"
)

// defaultVariantName names the implicit variant of a plugin listed without variants
const defaultVariantName = "default"

// TokenSource supplies an optional bearer token
type TokenSource interface {
	Token() (string, credentials.Source, error)
}

// Options configures a Client
type Options struct {
	BaseURL string
	Retries int
	Timeout time.Duration
	Version string
	Logger  hclog.Logger
	Tokens  TokenSource

	// HTTPClient replaces the client built from Retries and Timeout
	HTTPClient *retryablehttp.Client
}

// Client queries the hub for plugin indexes
type Client struct {
	baseURL *url.URL
	client  *retryablehttp.Client
	tokens  TokenSource
	logger  hclog.Logger
}

// NewClient returns a hub client for opts.BaseURL
func NewClient(opts Options) (*Client, error) {
	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid hub url %q: %w", opts.BaseURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid hub url %q: scheme must be http or https", opts.BaseURL)
	}

	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	logger = logger.Named("hub")

	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		client = httpclient.NewRetryable(opts.Version, opts.Retries, timeout, logger)
	}

	return &Client{
		baseURL: base,
		client:  client,
		tokens:  opts.Tokens,
		logger:  logger,
	}, nil
}

// IndexURL returns the index endpoint for a plugin type
func (c *Client) IndexURL(t plugintype.Type) string {
	return c.baseURL.JoinPath("plugins", t.Plural(), "index").String()
}

// FetchIndex retrieves the plugin index for one type. Every failure is
// returned as a *CatalogUnavailableError.
func (c *Client) FetchIndex(ctx context.Context, t plugintype.Type) (*catalog.Index, error) {
	idx, err := c.fetchIndex(ctx, t)
	if err != nil {
		c.logger.Debug("index retrieval failed", "type", t.Plural(), "error", err)
		return nil, &CatalogUnavailableError{Type: t, Err: err}
	}
	return idx, nil
}

func (c *Client) fetchIndex(ctx context.Context, t plugintype.Type) (*catalog.Index, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("unknown plugin type %s", t)
	}

	endpoint := c.IndexURL(t)
	c.logger.Debug("fetching plugin index", "url", endpoint)

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	c.addRequestCreds(req.Request)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// OK
	case http.StatusNotFound:
		return nil, fmt.Errorf("no index for %s at %s", t.Plural(), endpoint)
	default:
		return nil, fmt.Errorf("error looking up %s index: %s", t.Plural(), resp.Status)
	}

	body := orderedmap.New[string, indexedPlugin]()
	if err := json.NewDecoder(resp.Body).Decode(body); err != nil {
		return nil, fmt.Errorf("failed to decode %s index: %w", t.Plural(), err)
	}

	idx := toIndex(t, body)
	c.logger.Debug("fetched plugin index", "type", t.Plural(), "plugins", idx.Len())
	return idx, nil
}

func (c *Client) addRequestCreds(req *http.Request) {
	if c.tokens == nil {
		return
	}
	token, _, err := c.tokens.Token()
	if err != nil || token == "" {
		return
	}
	req.Header.Set("Authorization", "Bearer "+token)
}

func toIndex(t plugintype.Type, body *indexResponse) *catalog.Index {
	idx := catalog.NewIndex(t)
	for pair := body.Oldest(); pair != nil; pair = pair.Next() {
		idx.Set(toDescriptor(pair.Key, pair.Value))
	}
	return idx
}

func toDescriptor(name string, p indexedPlugin) catalog.Descriptor {
	d := catalog.Descriptor{
		Name:           name,
		LogoURL:        p.LogoURL,
		DefaultVariant: p.DefaultVariant,
	}

	if p.Variants == nil || p.Variants.Len() == 0 {
		variant := p.DefaultVariant
		if variant == "" {
			variant = defaultVariantName
		}
		d.DefaultVariant = variant
		d.Variants = []catalog.Variant{{Name: variant, Label: variant}}
		return d
	}

	multiple := p.Variants.Len() > 1
	for pair := p.Variants.Oldest(); pair != nil; pair = pair.Next() {
		d.Variants = append(d.Variants, catalog.Variant{
			Name:       pair.Key,
			Label:      variantLabel(pair.Key, pair.Value, p.DefaultVariant, multiple),
			Deprecated: pair.Value.Deprecated,
		})
	}
	return d
}

func variantLabel(name string, v indexedVariant, defaultVariant string, multiple bool) string {
	if v.Label != "" {
		return v.Label
	}
	label := name
	if multiple && name == defaultVariant {
		label += " (default)"
	}
	if v.Deprecated {
		label += " (deprecated)"
	}
	return label
}
