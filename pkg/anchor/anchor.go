// Package anchor derives the section ids used for in-page deep links.
package anchor

import (
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	invalidChars = regexp.MustCompile(`[^a-z0-9\s-]`)
	spaces       = regexp.MustCompile(`\s+`)
	hyphens      = regexp.MustCompile(`-+`)
)

// GenerateSectionID returns a url-safe id for label, namespaced by kindPrefix.
// An empty label yields RandomID().
func GenerateSectionID(label string, kindPrefix string) string {
	if label == "" {
		return RandomID()
	}

	clean := strings.ToLower(label)
	clean = invalidChars.ReplaceAllString(clean, "")
	clean = spaces.ReplaceAllString(clean, "-")
	clean = hyphens.ReplaceAllString(clean, "-")
	clean = strings.Trim(clean, "-")

	if kindPrefix == "" {
		return clean
	}
	return kindPrefix + "-" + clean
}

// RandomID returns "id-<millis base36>-<9 random chars>".
func RandomID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return "id-" + strconv.FormatInt(time.Now().UnixMilli(), 36) + "-" + suffix
}

// Registry hands out unique ids within one page.
// The first claim of an id keeps it; later claims get "-2", "-3", ...
type Registry struct {
	mu   sync.Mutex
	seen map[string]int
}

func NewRegistry() *Registry {
	return &Registry{seen: map[string]int{}}
}

// Claim reserves id and returns the id actually assigned.
func (r *Registry) Claim(id string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.seen[id]
	if !ok {
		r.seen[id] = 1
		return id
	}

	for {
		n++
		candidate := id + "-" + strconv.Itoa(n)
		if _, taken := r.seen[candidate]; !taken {
			r.seen[id] = n
			r.seen[candidate] = 1
			return candidate
		}
	}
}

// Has reports whether id was claimed.
func (r *Registry) Has(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.seen[id]
	return ok
}

// IDs returns all claimed ids in no particular order.
func (r *Registry) IDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.seen))
	for id := range r.seen {
		ids = append(ids, id)
	}
	return ids
}
