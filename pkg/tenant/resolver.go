package tenant

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
)

// HeaderName is the request header consulted when the tenant id provider yields nothing.
const HeaderName = "X-Tenant-Id"

// MaxIdentifierLength bounds resolver input and stored identifiers. It stays DNS compatible.
const MaxIdentifierLength = 63

// identifierPattern accepts UUIDs and human-readable identifiers: alphanumeric start, hyphens allowed.
var identifierPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]*$`)

// Resolver extracts a raw tenant reference (a UUID or an identifier) from HTTP requests.
type Resolver interface {
	// Resolve returns an empty string if the request carries no tenant reference.
	Resolve(r *http.Request) (string, error)
}

// ResolverFunc is an adapter to allow the use of ordinary functions as Resolvers.
type ResolverFunc func(r *http.Request) (string, error)

// Resolve calls the function.
func (f ResolverFunc) Resolve(r *http.Request) (string, error) {
	return f(r)
}

func validReference(value string) bool {
	return value != "" && len(value) <= MaxIdentifierLength && identifierPattern.MatchString(value)
}

// HeaderResolver reads the tenant reference from an HTTP header.
type HeaderResolver struct {
	HeaderName string
}

// NewHeaderResolver creates a header resolver. Defaults to "X-Tenant-Id" if headerName is empty.
func NewHeaderResolver(headerName string) *HeaderResolver {
	if headerName == "" {
		headerName = HeaderName
	}
	return &HeaderResolver{HeaderName: headerName}
}

// Resolve returns the trimmed header value.
func (h *HeaderResolver) Resolve(r *http.Request) (string, error) {
	value := strings.TrimSpace(r.Header.Get(h.HeaderName))
	if value == "" {
		return "", nil
	}
	if !validReference(value) {
		return "", fmt.Errorf("%w: header %s", ErrInvalidIdentifier, h.HeaderName)
	}
	return value, nil
}

// SubdomainResolver extracts the tenant reference from the request subdomain.
type SubdomainResolver struct {
	// Suffix to strip from the host (e.g., ".saas.com").
	Suffix string
}

// NewSubdomainResolver creates a new subdomain resolver.
func NewSubdomainResolver(suffix string) *SubdomainResolver {
	return &SubdomainResolver{Suffix: suffix}
}

// Resolve extracts tenant from subdomain (e.g., "acme" from "acme.app.com").
// The base domain and a bare "www" resolve to nothing.
func (s *SubdomainResolver) Resolve(r *http.Request) (string, error) {
	host := r.Host
	if idx := strings.LastIndex(host, ":"); idx != -1 {
		host = host[:idx]
	}

	// Require at least subdomain.domain.tld
	if len(strings.Split(host, ".")) < 3 {
		return "", nil
	}

	if s.Suffix != "" && strings.HasSuffix(host, s.Suffix) && len(host) > len(s.Suffix) {
		host = strings.TrimSuffix(host, s.Suffix)
	}

	parts := strings.Split(host, ".")
	subdomain := parts[0]
	if subdomain == "www" {
		if len(parts) < 2 {
			return "", nil
		}
		subdomain = parts[1]
	}
	if subdomain == "" {
		return "", nil
	}
	if !validReference(subdomain) {
		return "", fmt.Errorf("%w: subdomain %q", ErrInvalidIdentifier, subdomain)
	}
	return subdomain, nil
}

// PathResolver extracts the tenant reference from a URL path segment.
type PathResolver struct {
	// Position is the 1-based position in the path (e.g., 2 for /tenants/{id}/...)
	Position int
}

// NewPathResolver creates a new path resolver.
func NewPathResolver(position int) *PathResolver {
	return &PathResolver{Position: position}
}

// Resolve extracts tenant from the specified path position.
func (p *PathResolver) Resolve(r *http.Request) (string, error) {
	if p.Position < 1 {
		return "", fmt.Errorf("invalid path position: %d", p.Position)
	}

	path := strings.Trim(r.URL.Path, "/")
	if path == "" {
		return "", nil
	}

	parts := strings.Split(path, "/")
	if p.Position > len(parts) {
		return "", nil
	}

	value := strings.TrimSpace(parts[p.Position-1])
	if value == "" {
		return "", nil
	}
	if !validReference(value) {
		return "", fmt.Errorf("%w: path segment %q", ErrInvalidIdentifier, value)
	}
	return value, nil
}

// CompositeResolver tries multiple resolvers in order until one succeeds.
type CompositeResolver struct {
	Resolvers []Resolver
}

// NewCompositeResolver creates a new composite resolver.
func NewCompositeResolver(resolvers ...Resolver) *CompositeResolver {
	return &CompositeResolver{Resolvers: resolvers}
}

// Resolve returns the first non-empty result. Errors are only reported
// when no resolver produced a value.
func (c *CompositeResolver) Resolve(r *http.Request) (string, error) {
	var errs []error

	for _, resolver := range c.Resolvers {
		value, err := resolver.Resolve(r)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if value != "" {
			return value, nil
		}
	}

	if len(errs) > 0 {
		return "", fmt.Errorf("composite resolver errors: %w", errors.Join(errs...))
	}
	return "", nil
}
