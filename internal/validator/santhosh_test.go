package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchemaID = "https://wintools.invalid/test.schema.json"

func TestNewSanthoshCompiler(t *testing.T) {
	t.Parallel()
	c := NewSanthoshCompiler()
	assert.NotNil(t, c)
}

func TestSanthoshCompiler_Compile(t *testing.T) {
	t.Parallel()

	t.Run("successful compile", func(t *testing.T) {
		t.Parallel()
		c := NewSanthoshCompiler()
		data := map[string]interface{}{
			"$schema": Draft7,
			"type":    "object",
		}

		require.NoError(t, c.AddSchema(testSchemaID, data))
		v, err := c.Compile(testSchemaID)
		require.NoError(t, err)
		assert.NotNil(t, v)
	})

	t.Run("compile missing schema", func(t *testing.T) {
		t.Parallel()
		c := NewSanthoshCompiler()

		v, err := c.Compile("https://wintools.invalid/missing.json")
		require.Error(t, err)
		assert.Nil(t, v)
	})

	t.Run("compile invalid schema", func(t *testing.T) {
		t.Parallel()
		c := NewSanthoshCompiler()
		id := "https://wintools.invalid/invalid.json"
		data := map[string]interface{}{
			"type": 123, // type must be string or array
		}

		_ = c.AddSchema(id, data)
		v, err := c.Compile(id)
		require.Error(t, err)
		assert.Nil(t, v)
	})
}

func TestSanthoshValidator_Validate(t *testing.T) {
	t.Parallel()
	c := NewSanthoshCompiler()
	schemaDoc, err := DecodeJSON([]byte(`{
		"type": "object",
		"properties": {"archiver": {"enum": ["builtin", "7z"]}},
		"required": ["archiver"]
	}`))
	require.NoError(t, err)
	require.NoError(t, c.AddSchema(testSchemaID, schemaDoc))
	v, err := c.Compile(testSchemaID)
	require.NoError(t, err)

	t.Run("valid document", func(t *testing.T) {
		t.Parallel()
		doc, dErr := Normalise(map[string]interface{}{"archiver": "7z"})
		require.NoError(t, dErr)
		require.NoError(t, v.Validate(doc))
	})

	t.Run("invalid enum value", func(t *testing.T) {
		t.Parallel()
		doc, dErr := Normalise(map[string]interface{}{"archiver": "rar"})
		require.NoError(t, dErr)
		require.Error(t, v.Validate(doc))
	})

	t.Run("missing required field", func(t *testing.T) {
		t.Parallel()
		doc, dErr := Normalise(map[string]interface{}{})
		require.NoError(t, dErr)
		require.Error(t, v.Validate(doc))
	})
}

func TestNormalise(t *testing.T) {
	t.Parallel()

	t.Run("integers become JSON numbers", func(t *testing.T) {
		t.Parallel()
		doc, err := Normalise(map[string]interface{}{"vsVersion": 9})
		require.NoError(t, err)
		m, ok := doc.(map[string]interface{})
		require.True(t, ok)
		assert.Contains(t, m, "vsVersion")
	})

	t.Run("non-string keys are rejected", func(t *testing.T) {
		t.Parallel()
		_, err := Normalise(map[interface{}]interface{}{1: "x"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot be represented as JSON")
	})
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	_, err := DecodeJSON([]byte(`{not json`))
	require.Error(t, err)
}
