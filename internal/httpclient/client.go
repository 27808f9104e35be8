package httpclient

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	cleanhttp "github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-retryablehttp"
)

// UserAgent returns the User-Agent sent with every hub request
func UserAgent(version string) string {
	return fmt.Sprintf("plughub/%s (%s; %s)", version, runtime.GOOS, runtime.GOARCH)
}

// New returns a pooled cleanhttp client that sets the plughub User-Agent
func New(version string) *http.Client {
	cli := cleanhttp.DefaultPooledClient()
	cli.Transport = &userAgentRoundTripper{
		userAgent: UserAgent(version),
		inner:     cli.Transport,
	}
	return cli
}

// NewRetryable wraps New with automatic retries on transient errors.
// retryCount is the number of retries after the first attempt; timeout bounds each attempt.
func NewRetryable(version string, retryCount int, timeout time.Duration, logger hclog.Logger) *retryablehttp.Client {
	base := New(version)
	base.Timeout = timeout

	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	client := retryablehttp.NewClient()
	client.HTTPClient = base
	client.RetryMax = retryCount
	client.RetryWaitMin = 500 * time.Millisecond
	client.RetryWaitMax = 5 * time.Second
	client.RequestLogHook = requestLogHook
	client.ErrorHandler = maxRetryErrorHandler
	client.Logger = logger
	return client
}

type userAgentRoundTripper struct {
	userAgent string
	inner     http.RoundTripper
}

func (rt *userAgentRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if _, ok := req.Header["User-Agent"]; !ok {
		req.Header.Set("User-Agent", rt.userAgent)
	}
	return rt.inner.RoundTrip(req)
}

func requestLogHook(logger retryablehttp.Logger, req *http.Request, i int) {
	if i > 0 && logger != nil {
		logger.Printf("failed request to %s; retrying", req.URL.String())
	}
}

func maxRetryErrorHandler(resp *http.Response, err error, numTries int) (*http.Response, error) {
	if resp != nil {
		resp.Body.Close()
	}

	var attempts string
	if numTries > 1 {
		attempts = fmt.Sprintf(" after %d attempts", numTries)
	}

	// We will never have both a response and an error.
	switch {
	case resp != nil:
		return resp, fmt.Errorf("request failed%s: %s returned from %s", attempts, resp.Status, resp.Request.URL)
	case err != nil:
		return resp, fmt.Errorf("request failed%s: %w", attempts, err)
	default:
		return resp, fmt.Errorf("request failed%s", attempts)
	}
}
