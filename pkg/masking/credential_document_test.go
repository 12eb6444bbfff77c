package masking

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestCredentialDocumentMasker_AppliesTo(t *testing.T) {
	m := &CredentialDocumentMasker{}

	tests := []struct {
		name string
		data string
		want bool
	}{
		{"plain prose", "We help dentists schedule appointments", false},
		{"prose mentioning tokens without structure", "our token economy", false},
		{"yaml with password", "db:\n  password: hunter22", true},
		{"json with api key", `{"api_key": "abc"}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.AppliesTo(tt.data))
		})
	}
}

func TestCredentialDocumentMasker_MaskJSON(t *testing.T) {
	m := &CredentialDocumentMasker{}
	input := `{
  "type": "service_account",
  "project_id": "ledgerly",
  "private_key_id": "abc123",
  "client": {"client_secret": "s3cr3t", "name": "web"},
  "items": [{"token": "t-1"}, {"label": "public"}]
}`

	masked := m.Mask(input)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(masked), &doc))
	assert.Equal(t, "service_account", doc["type"])
	assert.Equal(t, "ledgerly", doc["project_id"])
	assert.Equal(t, MaskedCredentialValue, doc["private_key_id"])

	client := doc["client"].(map[string]any)
	assert.Equal(t, MaskedCredentialValue, client["client_secret"])
	assert.Equal(t, "web", client["name"])

	items := doc["items"].([]any)
	assert.Equal(t, MaskedCredentialValue, items[0].(map[string]any)["token"])
	assert.Equal(t, "public", items[1].(map[string]any)["label"])
}

func TestCredentialDocumentMasker_MaskYAML(t *testing.T) {
	m := &CredentialDocumentMasker{}
	input := "database:\n  host: db.internal\n  password: hunter22\n---\nstripe:\n  secret: sk_abc\n"

	masked := m.Mask(input)
	assert.NotContains(t, masked, "hunter22")
	assert.NotContains(t, masked, "sk_abc")
	assert.Contains(t, masked, "db.internal")
	assert.Contains(t, masked, "---")

	var first map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(masked), &first))
	assert.Equal(t, MaskedCredentialValue, first["database"].(map[string]any)["password"])
}

func TestCredentialDocumentMasker_LeavesUnrelatedDocuments(t *testing.T) {
	m := &CredentialDocumentMasker{}

	t.Run("no sensitive keys", func(t *testing.T) {
		input := "Name: Ada\nIndustry: fintech"
		assert.Equal(t, input, m.Mask(input))
	})

	t.Run("prose that is not a document", func(t *testing.T) {
		input := "My idea: a password manager for families"
		assert.Equal(t, input, m.Mask(input))
	})

	t.Run("invalid json falls back to original", func(t *testing.T) {
		input := `{"password": "x"`
		assert.Equal(t, input, m.Mask(input))
	})
}
