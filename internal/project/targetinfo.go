package project

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cfncontract/harness/internal/registry"
)

// TargetInfoFile is an optional pre-assembled target description relative
// to the project root. When present it wins over schema loading.
const TargetInfoFile = "target-info.json"

// TargetInfo describes one resource type a hook targets.
type TargetInfo struct {
	TargetName                 string         `json:"TargetName"`
	TargetType                 string         `json:"TargetType"`
	Schema                     map[string]any `json:"Schema"`
	ProvisioningType           string         `json:"ProvisioningType,omitempty"`
	IsCfnRegistrySupportedType bool           `json:"IsCfnRegistrySupportedType"`
	SchemaFileAvailable        bool           `json:"SchemaFileAvailable"`
}

// LoadTargetInfo assembles the target-type metadata for a hook project.
//
// A target-info.json in the project root is used verbatim when present.
// Otherwise each location in the project's targetSchemas list is loaded
// through the schema loader and every schema found becomes a target keyed
// by its typeName; any targetNames patterns are then expanded through the
// resolver and targets not already covered by a local schema are described
// from the registry. A hook with no configured targets gets an empty map,
// which is not an error; failing to load a *configured* target is.
func (p *Project) LoadTargetInfo(ctx context.Context, loader *registry.SchemaLoader, resolver *registry.TypeNameResolver) (map[string]TargetInfo, error) {
	if info, ok := readTargetInfoFile(filepath.Join(p.Root, TargetInfoFile)); ok {
		return info, nil
	}

	info := make(map[string]TargetInfo)
	for _, location := range p.TargetSchemas {
		schemas, err := loader.LoadTypeSchemas(ctx, location)
		if err != nil {
			return nil, fmt.Errorf("loading target schemas: %w", err)
		}
		for _, schema := range schemas {
			typeName, _ := schema["typeName"].(string)
			if typeName == "" {
				return nil, fmt.Errorf("target schema from %s has no typeName", location)
			}
			info[typeName] = TargetInfo{
				TargetName:          typeName,
				TargetType:          "RESOURCE",
				Schema:              schema,
				SchemaFileAvailable: true,
			}
		}
	}

	if len(p.TargetNames) > 0 {
		// Without a resolver the names are taken literally; anything not
		// covered by a local schema then fails in DescribeType, which is
		// the right failure for an offline loader too.
		names := p.TargetNames
		if resolver != nil {
			var err error
			if names, err = resolver.ResolveTypeNames(ctx, p.TargetNames); err != nil {
				return nil, fmt.Errorf("expanding target names: %w", err)
			}
		}
		for _, name := range names {
			if _, ok := info[name]; ok {
				continue
			}
			described, err := loader.DescribeType(ctx, name)
			if err != nil {
				return nil, fmt.Errorf("describing target %s: %w", name, err)
			}
			info[name] = TargetInfo{
				TargetName:                 described.TypeName,
				TargetType:                 "RESOURCE",
				Schema:                     described.Schema,
				ProvisioningType:           described.ProvisioningType,
				IsCfnRegistrySupportedType: true,
				SchemaFileAvailable:        false,
			}
		}
	}
	return info, nil
}

func readTargetInfoFile(path string) (map[string]TargetInfo, bool) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	var info map[string]TargetInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return nil, false
	}
	return info, true
}
