// Package project loads the definition of the provider project under test:
// its artifact kind, type name, handler schema, type configuration, and for
// hook projects the metadata of the resource types it targets.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefinitionFile is the project definition location relative to the root.
const DefinitionFile = "project.json"

// Kind is the artifact category of a project.
type Kind string

const (
	KindResource Kind = "RESOURCE"
	KindHook     Kind = "HOOK"
	KindModule   Kind = "MODULE"
)

// Testable reports whether the artifact kind declares handlers a harness
// can drive. Module artifacts are composition-only and have none.
func (k Kind) Testable() bool {
	return k == KindResource || k == KindHook
}

// Project is the loaded definition of the provider under test.
type Project struct {
	Root                 string
	TypeName             string
	Kind                 Kind
	Schema               map[string]any
	TypeConfig           map[string]any
	ExecutableEntrypoint string
	TargetSchemas        []string
	TargetNames          []string
}

// definition is the on-disk shape of the project file.
type definition struct {
	TypeName             string   `json:"typeName"`
	ArtifactType         string   `json:"artifactType"`
	SchemaFile           string   `json:"schemaFile,omitempty"`
	TypeConfigFile       string   `json:"typeConfigFile,omitempty"`
	ExecutableEntrypoint string   `json:"executableEntrypoint,omitempty"`
	TargetSchemas        []string `json:"targetSchemas,omitempty"`
	TargetNames          []string `json:"targetNames,omitempty"`
}

// Load reads the project definition under root. Unlike override and input
// resolution, a broken project definition is fatal: without it there is
// nothing to test and the user's intent cannot be honored.
func Load(root string) (*Project, error) {
	raw, err := os.ReadFile(filepath.Join(root, DefinitionFile))
	if err != nil {
		return nil, fmt.Errorf("reading project definition: %w", err)
	}
	var def definition
	if err := json.Unmarshal(raw, &def); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", DefinitionFile, err)
	}

	kind := Kind(def.ArtifactType)
	switch kind {
	case KindResource, KindHook, KindModule:
	default:
		return nil, fmt.Errorf("unknown artifact type %q in %s", def.ArtifactType, DefinitionFile)
	}
	if def.TypeName == "" && kind != KindModule {
		return nil, fmt.Errorf("project definition is missing typeName")
	}

	p := &Project{
		Root:                 root,
		TypeName:             def.TypeName,
		Kind:                 kind,
		ExecutableEntrypoint: def.ExecutableEntrypoint,
		TargetSchemas:        def.TargetSchemas,
		TargetNames:          def.TargetNames,
	}
	if !kind.Testable() {
		return p, nil
	}

	schemaFile := def.SchemaFile
	if schemaFile == "" {
		schemaFile = defaultSchemaFile(def.TypeName)
	}
	if err := readJSONFile(filepath.Join(root, schemaFile), &p.Schema); err != nil {
		return nil, fmt.Errorf("reading handler schema: %w", err)
	}

	typeConfigFile := def.TypeConfigFile
	if typeConfigFile == "" {
		typeConfigFile = "typeconfig.json"
	}
	if err := readJSONFile(filepath.Join(root, typeConfigFile), &p.TypeConfig); err != nil {
		// The type configuration is optional unless the definition named
		// one explicitly.
		if def.TypeConfigFile != "" {
			return nil, fmt.Errorf("reading type configuration: %w", err)
		}
		p.TypeConfig = nil
	}
	return p, nil
}

// defaultSchemaFile derives the conventional schema filename from a type
// name: "My::Example::Resource" becomes "my-example-resource.json".
func defaultSchemaFile(typeName string) string {
	return strings.ToLower(strings.ReplaceAll(typeName, "::", "-")) + ".json"
}

func readJSONFile(path string, v any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return nil
}
