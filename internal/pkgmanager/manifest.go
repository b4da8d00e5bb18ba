package pkgmanager

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// manifestLRUSize bounds how many categories' manifests this process keeps
// hot in memory between Ensure calls within a single run; a handful of
// categories is the common case, so this only needs to avoid refetching
// the same category repeatedly during one resolve pass.
const manifestLRUSize = 32

type manifestCacheEntry struct {
	manifest  *Manifest
	fetchedAt time.Time
}

// ManifestLoader fetches a category manifest over HTTP, backed by an
// in-process LRU so repeated Ensure calls against the same category within
// ManifestTTL don't each pay a network round trip.
type ManifestLoader struct {
	baseURL    string
	ttl        time.Duration
	httpClient *http.Client
	hot        *lru.Cache[string, manifestCacheEntry]
}

var _ ManifestProvider = (*ManifestLoader)(nil)

// NewManifestLoader constructs a loader for baseURL, caching successfully
// fetched manifests in memory for ttl.
func NewManifestLoader(baseURL string, ttl time.Duration) *ManifestLoader {
	hot, _ := lru.New[string, manifestCacheEntry](manifestLRUSize)
	return &ManifestLoader{
		baseURL:    baseURL,
		ttl:        ttl,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		hot:        hot,
	}
}

// LoadCategoryManifest returns category's manifest, from the in-process
// LRU if it was fetched within ttl, otherwise fetched fresh over HTTP.
func (m *ManifestLoader) LoadCategoryManifest(category string) (*Manifest, error) {
	if entry, ok := m.hot.Get(category); ok && time.Since(entry.fetchedAt) < m.ttl {
		return entry.manifest, nil
	}

	url := fmt.Sprintf("%s/%s/manifest.json", m.baseURL, category)
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("pkgmanager: build manifest request for %q: %w", category, err)
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pkgmanager: fetch manifest for %q: %w", category, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pkgmanager: manifest fetch for %q: HTTP %d", category, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("pkgmanager: read manifest body for %q: %w", category, err)
	}

	var manifest Manifest
	if err := json.Unmarshal(body, &manifest); err != nil {
		return nil, fmt.Errorf("pkgmanager: parse manifest for %q: %w", category, err)
	}

	m.hot.Add(category, manifestCacheEntry{manifest: &manifest, fetchedAt: time.Now()})
	return &manifest, nil
}
