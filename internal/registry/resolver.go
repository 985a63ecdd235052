package registry

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
)

// listTypesPageSize matches the registry's maximum page size.
const listTypesPageSize = 100

// TypeNameResolver expands wildcard type-name patterns against the live
// registry listing.
type TypeNameResolver struct {
	client cloudformation.ListTypesAPIClient
	logger *slog.Logger
}

// NewTypeNameResolver creates a resolver over an existing control-plane
// client. A nil logger discards log output.
func NewTypeNameResolver(client cloudformation.ListTypesAPIClient, logger *slog.Logger) *TypeNameResolver {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &TypeNameResolver{client: client, logger: logger}
}

// ResolveTypeNames expands the given patterns into concrete type names.
//
// Exact names pass through untouched. Patterns containing * or ? are
// matched against the union of live PUBLIC and PRIVATE resource types; when
// every wildcard pattern shares a literal prefix, that prefix narrows the
// listing request. The result is sorted and deduplicated. Resolving to
// nothing at all is an error: the caller named targets that do not exist.
func (r *TypeNameResolver) ResolveTypeNames(ctx context.Context, patterns []string) ([]string, error) {
	names := make(map[string]bool)
	var wildcards []string
	for _, pattern := range patterns {
		if strings.ContainsAny(pattern, "*?") {
			wildcards = append(wildcards, pattern)
		} else {
			names[pattern] = true
		}
	}

	if len(wildcards) > 0 {
		matchers, err := compilePatterns(wildcards)
		if err != nil {
			return nil, err
		}
		prefix := commonLiteralPrefix(wildcards)
		for _, visibility := range []types.Visibility{types.VisibilityPublic, types.VisibilityPrivate} {
			listed, err := r.listTypeNames(ctx, visibility, prefix)
			if err != nil {
				return nil, err
			}
			for _, name := range listed {
				for _, matcher := range matchers {
					if matcher.MatchString(name) {
						names[name] = true
						break
					}
				}
			}
		}
	}

	if len(names) == 0 {
		return nil, fmt.Errorf("no types match %v", patterns)
	}
	resolved := make([]string, 0, len(names))
	for name := range names {
		resolved = append(resolved, name)
	}
	sort.Strings(resolved)
	r.logger.Debug("resolved type names", "patterns", len(patterns), "names", len(resolved))
	return resolved, nil
}

// listTypeNames pages through the live registry listing for one visibility.
func (r *TypeNameResolver) listTypeNames(ctx context.Context, visibility types.Visibility, prefix string) ([]string, error) {
	input := &cloudformation.ListTypesInput{
		Type:             types.RegistryTypeResource,
		Visibility:       visibility,
		DeprecatedStatus: types.DeprecatedStatusLive,
		MaxResults:       aws.Int32(listTypesPageSize),
	}
	if prefix != "" {
		input.Filters = &types.TypeFilters{TypeNamePrefix: aws.String(prefix)}
	}

	var names []string
	paginator := cloudformation.NewListTypesPaginator(r.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing %s types: %w", strings.ToLower(string(visibility)), err)
		}
		for _, summary := range page.TypeSummaries {
			if summary.TypeName != nil {
				names = append(names, *summary.TypeName)
			}
		}
	}
	return names, nil
}

// compilePatterns turns glob-style patterns into anchored regexps. Only *
// and ? are special; everything else is literal.
func compilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	matchers := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		expr := strings.NewReplacer(`\*`, ".*", `\?`, ".").Replace(regexp.QuoteMeta(pattern))
		matcher, err := regexp.Compile("^" + expr + "$")
		if err != nil {
			return nil, fmt.Errorf("invalid type name pattern %q: %w", pattern, err)
		}
		matchers = append(matchers, matcher)
	}
	return matchers, nil
}

// commonLiteralPrefix returns the longest prefix shared by every pattern,
// truncated before the first wildcard character.
func commonLiteralPrefix(patterns []string) string {
	prefix := patterns[0]
	for _, pattern := range patterns[1:] {
		for !strings.HasPrefix(pattern, prefix) {
			prefix = prefix[:len(prefix)-1]
			if prefix == "" {
				return ""
			}
		}
	}
	if idx := strings.IndexAny(prefix, "*?"); idx >= 0 {
		prefix = prefix[:idx]
	}
	return prefix
}
