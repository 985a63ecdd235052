package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProjectFile(t *testing.T, root, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte(content), 0o644))
}

func TestLoadResourceProject(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, DefinitionFile, `{
		"typeName": "My::Example::Resource",
		"artifactType": "RESOURCE"
	}`)
	writeProjectFile(t, root, "my-example-resource.json", `{
		"typeName": "My::Example::Resource",
		"handlers": {"create": {}, "delete": {}}
	}`)

	p, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, "My::Example::Resource", p.TypeName)
	assert.Equal(t, KindResource, p.Kind)
	assert.True(t, p.Kind.Testable())
	assert.Equal(t, root, p.Root)
	assert.Contains(t, p.Schema, "handlers")
	assert.Nil(t, p.TypeConfig)
}

func TestLoadExplicitSchemaFile(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, DefinitionFile, `{
		"typeName": "My::Example::Resource",
		"artifactType": "RESOURCE",
		"schemaFile": "schema.json"
	}`)
	writeProjectFile(t, root, "schema.json", `{"typeName": "My::Example::Resource"}`)

	p, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, "My::Example::Resource", p.Schema["typeName"])
}

func TestLoadTypeConfig(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, DefinitionFile, `{
		"typeName": "My::Example::Resource",
		"artifactType": "RESOURCE"
	}`)
	writeProjectFile(t, root, "my-example-resource.json", `{}`)
	writeProjectFile(t, root, "typeconfig.json", `{"Endpoint": "https://api.example.com"}`)

	p, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", p.TypeConfig["Endpoint"])
}

func TestLoadNamedTypeConfigMissingIsFatal(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, DefinitionFile, `{
		"typeName": "My::Example::Resource",
		"artifactType": "RESOURCE",
		"typeConfigFile": "prod-config.json"
	}`)
	writeProjectFile(t, root, "my-example-resource.json", `{}`)

	_, err := Load(root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "type configuration")
}

func TestLoadHookProject(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, DefinitionFile, `{
		"typeName": "My::Example::Hook",
		"artifactType": "HOOK",
		"executableEntrypoint": "hook_entry",
		"targetSchemas": ["target-schema.json"]
	}`)
	writeProjectFile(t, root, "my-example-hook.json", `{"handlers": {"preCreate": {}}}`)

	p, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, KindHook, p.Kind)
	assert.Equal(t, "hook_entry", p.ExecutableEntrypoint)
	assert.Equal(t, []string{"target-schema.json"}, p.TargetSchemas)
}

func TestLoadModuleProject(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, DefinitionFile, `{"artifactType": "MODULE"}`)

	p, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, KindModule, p.Kind)
	assert.False(t, p.Kind.Testable())
	assert.Nil(t, p.Schema)
}

func TestLoadMissingDefinition(t *testing.T) {
	_, err := Load(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "project definition")
}

func TestLoadBrokenDefinition(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, DefinitionFile, `{`)

	_, err := Load(root)
	require.Error(t, err)
}

func TestLoadUnknownArtifactType(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, DefinitionFile, `{"typeName": "A::B::C", "artifactType": "LAMBDA"}`)

	_, err := Load(root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LAMBDA")
}

func TestLoadMissingTypeName(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, DefinitionFile, `{"artifactType": "RESOURCE"}`)

	_, err := Load(root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "typeName")
}

func TestLoadMissingSchemaIsFatal(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, DefinitionFile, `{
		"typeName": "My::Example::Resource",
		"artifactType": "RESOURCE"
	}`)

	_, err := Load(root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "handler schema")
}

func TestDefaultSchemaFile(t *testing.T) {
	assert.Equal(t, "my-example-resource.json", defaultSchemaFile("My::Example::Resource"))
	assert.Equal(t, "aws-s3-bucket.json", defaultSchemaFile("AWS::S3::Bucket"))
}
