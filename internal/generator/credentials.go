package generator

import (
	"strings"
	"sync"
)

// CredentialRotator hands out API credentials round-robin so load spreads
// across the pool and a rate-limited credential is naturally skipped on the
// next attempt. It is shared by every in-flight generation request, so all
// cursor and counter mutations happen under the mutex.
type CredentialRotator struct {
	mu          sync.Mutex
	credentials []string
	index       int
	current     string
	usage       map[string]int
}

// RotationStats is an observability snapshot of the pool. Credentials are
// masked to their trailing characters.
type RotationStats struct {
	TotalCredentials   int            `json:"total_credentials"`
	TotalUsage         int            `json:"total_usage"`
	UsagePerCredential map[string]int `json:"usage_per_credential"`
	CurrentMasked      string         `json:"current_masked"`
}

// NewCredentialRotator builds a rotator from a primary credential plus any
// number of extras. Blank entries and duplicates are dropped, order
// preserved.
func NewCredentialRotator(primary string, extras ...string) (*CredentialRotator, error) {
	seen := make(map[string]bool)
	var pool []string
	for _, cred := range append([]string{primary}, extras...) {
		cred = strings.TrimSpace(cred)
		if cred == "" || seen[cred] {
			continue
		}
		seen[cred] = true
		pool = append(pool, cred)
	}

	if len(pool) == 0 {
		return nil, &ConfigurationError{Msg: "credential pool is empty"}
	}

	return &CredentialRotator{
		credentials: pool,
		index:       -1,
		usage:       make(map[string]int, len(pool)),
	}, nil
}

// Next advances the cursor cyclically and returns the new current
// credential, counting the use.
func (r *CredentialRotator) Next() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.index = (r.index + 1) % len(r.credentials)
	r.current = r.credentials[r.index]
	r.usage[r.current]++
	return r.current
}

// Size returns the number of distinct credentials in the pool.
func (r *CredentialRotator) Size() int {
	return len(r.credentials)
}

func (r *CredentialRotator) Stats() RotationStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := RotationStats{
		TotalCredentials:   len(r.credentials),
		UsagePerCredential: make(map[string]int, len(r.credentials)),
	}
	for _, cred := range r.credentials {
		stats.UsagePerCredential[maskCredential(cred)] = r.usage[cred]
		stats.TotalUsage += r.usage[cred]
	}
	if r.current != "" {
		stats.CurrentMasked = maskCredential(r.current)
	}
	return stats
}

// maskCredential keeps only the trailing 8 characters.
func maskCredential(cred string) string {
	if len(cred) <= 8 {
		return "***"
	}
	return "..." + cred[len(cred)-8:]
}
