package district

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/Guilhem-Bonnet/showwatch/internal/domain"
	"github.com/Guilhem-Bonnet/showwatch/internal/ports"
	"github.com/go-resty/resty/v2"
)

func NewClient(timeout time.Duration, userAgent string) *resty.Client {
	client := resty.New()
	client.SetTimeout(timeout)
	client.SetHeader("user-agent", userAgent)
	client.SetHeader("accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
	return client
}

// Fetcher: un GET par watcher, puis extraction des dates via un DateExtractor.
type Fetcher struct {
	client    *resty.Client
	extractor ports.DateExtractor
}

func NewFetcher(client *resty.Client, extractor ports.DateExtractor) *Fetcher {
	if extractor == nil {
		extractor = NewAnchorExtractor()
	}
	return &Fetcher{client: client, extractor: extractor}
}

func (f *Fetcher) FetchDates(ctx context.Context, baseURL string, today domain.ShowDate) ([]domain.ShowDate, error) {
	target, err := WithFromDate(baseURL, today)
	if err != nil {
		return nil, err
	}

	res, err := f.client.R().
		SetContext(ctx).
		Get(target)
	if err != nil {
		return nil, &ports.CodedError{Code: "network_error", Message: "GET " + target, Err: err}
	}
	if res.StatusCode() >= 400 {
		return nil, &ports.CodedError{Code: "http_status", Message: fmt.Sprintf("GET %s: %s", target, res.Status())}
	}

	tokens, err := f.extractor.Extract(res.Body())
	if err != nil {
		return nil, &ports.CodedError{Code: "parse_error", Message: "extract dates", Err: err}
	}

	dates := make([]domain.ShowDate, 0, len(tokens))
	for _, tok := range tokens {
		d, err := domain.ParseShowDate(tok)
		if err != nil {
			// Motif plausible mais date impossible (ex: 2025-02-30): ignorée.
			continue
		}
		dates = append(dates, d)
	}
	return domain.SortDates(dates), nil
}

// WithFromDate positionne fromdate=<today> en conservant les autres paramètres.
func WithFromDate(baseURL string, today domain.ShowDate) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", &ports.CodedError{Code: "invalid_url", Message: fmt.Sprintf("invalid watcher url %q", baseURL), Err: err}
	}
	q := u.Query()
	q.Set("fromdate", today.String())
	u.RawQuery = q.Encode()
	return u.String(), nil
}
