package download

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/skjsjhb/hyaci-launcher/pkg/errors"
)

// Get downloads a small document such as a version manifest into memory.
// A 404 or 410 response wraps ErrRemoteNotFound.
func (m *Manager) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("User-Agent", m.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to download %s", url)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound, http.StatusGone:
		return nil, errors.Wrapf(errors.ErrRemoteNotFound, "%s (status %d)", url, resp.StatusCode)
	default:
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response body")
	}
	return data, nil
}
