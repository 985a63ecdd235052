package exports

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// Fetcher folds the full list of published stack exports into a Catalog.
type Fetcher struct {
	client cloudformation.ListExportsAPIClient
	logger *slog.Logger
}

// NewFetcher creates a Fetcher over an existing control-plane client.
// A nil logger discards log output.
func NewFetcher(client cloudformation.ListExportsAPIClient, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Fetcher{client: client, logger: logger}
}

// Connect builds a control-plane client from the shared configuration for
// the given region and profile. When roleARN is non-empty the client's
// credentials come from assuming that role; a failure to construct the
// session is fatal, never downgraded to an empty catalog.
func Connect(ctx context.Context, region, profile, roleARN string, logger *slog.Logger) (*Fetcher, error) {
	var optFns []func(*config.LoadOptions) error
	if region != "" {
		optFns = append(optFns, config.WithRegion(region))
	}
	if profile != "" {
		optFns = append(optFns, config.WithSharedConfigProfile(profile))
	}
	cfg, err := config.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return nil, fmt.Errorf("loading session configuration: %w", err)
	}
	if roleARN != "" {
		provider := stscreds.NewAssumeRoleProvider(sts.NewFromConfig(cfg), roleARN)
		cfg.Credentials = aws.NewCredentialsCache(provider)
	}
	return NewFetcher(cloudformation.NewFromConfig(cfg), logger), nil
}

// Fetch paginates through every published export and folds them into a
// name-to-value catalog. A name appearing on more than one page resolves to
// the last-seen value in fetch order. Any pagination error is fatal: the
// caller asked for live resolution and must not proceed without it.
func (f *Fetcher) Fetch(ctx context.Context) (Catalog, error) {
	catalog := make(Catalog)
	pages := 0

	paginator := cloudformation.NewListExportsPaginator(f.client, &cloudformation.ListExportsInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing stack exports: %w", err)
		}
		pages++
		for _, export := range page.Exports {
			if export.Name == nil {
				continue
			}
			catalog[aws.ToString(export.Name)] = aws.ToString(export.Value)
		}
	}

	f.logger.Debug("fetched stack exports", "names", len(catalog), "pages", pages)
	return catalog, nil
}

// FetchFunc obtains a catalog for the given session description. It exists
// so resolvers can be exercised without a live control plane.
type FetchFunc func(ctx context.Context, region, profile, roleARN string) (Catalog, error)

// LiveFetch is the default FetchFunc: connect and fetch in one step.
func LiveFetch(ctx context.Context, region, profile, roleARN string) (Catalog, error) {
	fetcher, err := Connect(ctx, region, profile, roleARN, nil)
	if err != nil {
		return nil, err
	}
	return fetcher.Fetch(ctx)
}
