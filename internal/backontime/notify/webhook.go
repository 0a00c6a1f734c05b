package notify

import (
	"context"
	"fmt"
	"net/http/cookiejar"
	"time"

	"github.com/imroc/req/v3"
	"golang.org/x/net/publicsuffix"
)

// Webhook POSTs the failure as JSON to an HTTP endpoint.
type Webhook struct {
	url    string
	client *req.Client
}

// NewWebhook creates a notifier for url. Cookies set by the endpoint are sent back
// on later notifications.
func NewWebhook(url string) *Webhook {
	client := req.C().
		SetUserAgent("backontime").
		SetTimeout(10 * time.Second)
	if jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List}); err == nil {
		client.SetCookieJar(jar)
	}
	return &Webhook{url: url, client: client}
}

func (w *Webhook) Name() string { return "webhook" }

func (w *Webhook) Notify(ctx context.Context, f Failure) error {
	f.Stdout, f.Stderr = truncate(f.Stdout), truncate(f.Stderr)

	resp, err := w.client.R().
		SetContext(ctx).
		SetBodyJsonMarshal(f).
		Post(w.url)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("request end with %d status, %s", resp.StatusCode, resp.String())
	}
	return nil
}
