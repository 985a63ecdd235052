package exports

import "context"

// Source describes where substitution values for a resolution pass come
// from. A zero Endpoint signals "no direct endpoint, use live exports"; any
// other endpoint means documents are taken literally with no substitution
// attempt.
//
// The catalog is fetched at most once per Source, on first use, and shared
// by every document resolved against it.
type Source struct {
	Region   string
	Endpoint string
	RoleARN  string
	Profile  string

	// Catalog, when non-nil, is a pre-fetched catalog used instead of a
	// live fetch.
	Catalog Catalog

	// Fetch obtains the catalog when live resolution is required and no
	// pre-fetched catalog was supplied. Nil means LiveFetch.
	Fetch FetchFunc
}

// Live reports whether documents must be resolved against live exports.
func (s *Source) Live() bool {
	return s.Endpoint == ""
}

// Resolve substitutes tokens in text against the source's catalog. In
// literal mode the text is returned unchanged. Errors are either fatal
// fetch failures or ErrUnresolvedReference from the substitution pass;
// callers apply fail-closed handling to the latter.
func (s *Source) Resolve(ctx context.Context, text string) (string, error) {
	if !s.Live() {
		return text, nil
	}
	catalog, err := s.catalog(ctx)
	if err != nil {
		return "", err
	}
	return Substitute(text, catalog)
}

func (s *Source) catalog(ctx context.Context) (Catalog, error) {
	if s.Catalog != nil {
		return s.Catalog, nil
	}
	fetch := s.Fetch
	if fetch == nil {
		fetch = LiveFetch
	}
	catalog, err := fetch(ctx, s.Region, s.Profile, s.RoleARN)
	if err != nil {
		return nil, err
	}
	s.Catalog = catalog
	return catalog, nil
}
