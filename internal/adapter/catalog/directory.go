// Package catalog is an outbound adapter for the shop/product catalog
// service. The engine only asks it one question: does a link target belong
// to a given owner.
package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"market-ads/internal/core/port"
)

// Directory resolves link targets against the catalog service over HTTP.
type Directory struct {
	baseURL string
	client  *http.Client
}

// NewDirectory returns a Directory talking to the catalog at baseURL.
func NewDirectory(baseURL string) *Directory {
	return &Directory{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

// ResolveLinkTarget asks the catalog whether target points at the owner's
// shop or one of the owner's products. A 200 means yes; a 404 means no and
// maps to ErrLinkTargetInvalid. Other statuses are infrastructure errors.
func (d *Directory) ResolveLinkTarget(ctx context.Context, ownerID, target string) error {
	u := fmt.Sprintf("%s/internal/owners/%s/link-targets?target=%s",
		d.baseURL, url.PathEscape(ownerID), url.QueryEscape(target))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("catalog request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		return port.ErrLinkTargetInvalid
	default:
		return fmt.Errorf("catalog returned status %d", resp.StatusCode)
	}
}
