package registry

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ConnectLoader builds a registry-backed schema loader from the shared
// configuration for the given region and profile.
func ConnectLoader(ctx context.Context, region, profile string, logger *slog.Logger) (*SchemaLoader, error) {
	cfg, err := loadConfig(ctx, region, profile)
	if err != nil {
		return nil, err
	}
	return NewSchemaLoader(cloudformation.NewFromConfig(cfg), s3.NewFromConfig(cfg), nil, false, logger), nil
}

// ConnectResolver builds a type-name resolver from the shared configuration.
func ConnectResolver(ctx context.Context, region, profile string, logger *slog.Logger) (*TypeNameResolver, error) {
	cfg, err := loadConfig(ctx, region, profile)
	if err != nil {
		return nil, err
	}
	return NewTypeNameResolver(cloudformation.NewFromConfig(cfg), logger), nil
}

func loadConfig(ctx context.Context, region, profile string) (aws.Config, error) {
	var optFns []func(*config.LoadOptions) error
	if region != "" {
		optFns = append(optFns, config.WithRegion(region))
	}
	if profile != "" {
		optFns = append(optFns, config.WithSharedConfigProfile(profile))
	}
	cfg, err := config.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return cfg, fmt.Errorf("loading session configuration: %w", err)
	}
	return cfg, nil
}
