package backend

import (
	"sync"
	"time"

	"mochi/shell/internal/apiclient"
	"mochi/shell/internal/endpoints"
	"mochi/shell/internal/source"
)

// identityTTL bounds how long a fetched identity is reused.
const identityTTL = 10 * time.Minute

// HTTP implements API over the Mochi REST endpoints.
type HTTP struct {
	// client attaches the credential and applies the failure policy
	client *apiclient.Client
	// endpoints contains the URL paths for the API operations
	endpoints endpoints.Endpoints

	mu sync.Mutex
	// identityCache stores the last identity for repeated lookups in one process
	identityCache *source.Profile
	// identityTime tracks when the cache was last updated
	identityTime time.Time
}

// newHTTP creates a new HTTP backend.
func newHTTP(client *apiclient.Client, eps endpoints.Endpoints) *HTTP {
	return &HTTP{client: client, endpoints: eps}
}

func (h *HTTP) cachedIdentity() (source.Profile, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.identityCache == nil || time.Since(h.identityTime) >= identityTTL {
		return source.Profile{}, false
	}
	return *h.identityCache, true
}

func (h *HTTP) storeIdentity(p *source.Profile) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.identityCache = p
	h.identityTime = time.Now()
}
