// Package media is an outbound adapter for the binary media store. Uploads
// happen outside the engine; only the delete hook is needed here.
package media

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Store deletes media objects from the media service over HTTP.
type Store struct {
	baseURL string
	client  *http.Client
}

// NewStore returns a Store talking to the media service at baseURL.
func NewStore(baseURL string) *Store {
	return &Store{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Delete removes the object identified by publicID. Deleting an already
// absent object is not an error.
func (s *Store) Delete(ctx context.Context, publicID string) error {
	u := fmt.Sprintf("%s/media/%s", s.baseURL, url.PathEscape(publicID))
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("media delete request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent &&
		resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("media store returned status %d", resp.StatusCode)
	}
	return nil
}
