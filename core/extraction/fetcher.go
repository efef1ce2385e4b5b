package extraction

import (
	"context"
	"io"
	"io/ioutil"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo-extractor/core"
)

var errTooLarge = errors.New("document exceeds the download limit")

// Fetcher downloads a remote document fully into memory.
// Implementations must return a *core.FetchError on any failure.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

type HTTPFetcher struct {
	client    *http.Client
	timeout   time.Duration
	maxBytes  int64
	userAgent string
}

var _ Fetcher = (*HTTPFetcher)(nil)

// NewHTTPFetcher returns a Fetcher bounded by conf.FetchTimeout.
// The deadline covers connecting, waiting for the response and reading the body.
func NewHTTPFetcher(conf core.ExtractorConfig, client ...*http.Client) *HTTPFetcher {
	c := http.DefaultClient
	if len(client) > 0 && client[0] != nil {
		c = client[0]
	}
	return &HTTPFetcher{
		client:    c,
		timeout:   conf.FetchTimeout,
		maxBytes:  conf.MaxDownloadBytes,
		userAgent: conf.UserAgent,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, core.NewFetchError(url, 0, errors.Wrap(err, "creating request"))
	}
	req.Header.Set("Accept", "application/pdf, */*;q=0.8")
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, core.NewFetchError(url, 0, errors.Wrap(err, "sending request"))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, core.NewFetchError(url, resp.StatusCode, errors.Errorf("unexpected status: %s", resp.Status))
	}

	var body io.Reader = resp.Body
	if f.maxBytes > 0 {
		body = io.LimitReader(resp.Body, f.maxBytes+1)
	}
	data, err := ioutil.ReadAll(body)
	if err != nil {
		return nil, core.NewFetchError(url, resp.StatusCode, errors.Wrap(err, "reading body"))
	}
	if f.maxBytes > 0 && int64(len(data)) > f.maxBytes {
		return nil, core.NewFetchError(url, resp.StatusCode, errTooLarge)
	}
	return data, nil
}

// FetcherFunc adapts an ordinary function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, url string) ([]byte, error)

func (f FetcherFunc) Fetch(ctx context.Context, url string) ([]byte, error) {
	return f(ctx, url)
}
