package masking

import (
	"bytes"
	"encoding/json"
	"io"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// MaskedCredentialValue replaces values of sensitive keys in pasted documents.
const MaskedCredentialValue = "[MASKED_CREDENTIAL]"

// sensitiveKeyPattern matches keys whose values are credentials.
var sensitiveKeyPattern = regexp.MustCompile(`(?i)(password|passwd|secret|token|api[_-]?key|private[_-]?key|client[_-]?secret|credential)`)

// CredentialDocumentMasker masks values of sensitive keys in JSON or YAML
// documents pasted into a message (service-account files, app configs),
// leaving every other key untouched.
type CredentialDocumentMasker struct{}

// Name returns the unique identifier for this masker.
func (m *CredentialDocumentMasker) Name() string { return "credential_document" }

// AppliesTo reports whether data looks like a structured document that
// mentions a sensitive key.
func (m *CredentialDocumentMasker) AppliesTo(data string) bool {
	if !strings.ContainsAny(data, ":") {
		return false
	}
	return sensitiveKeyPattern.MatchString(data)
}

// Mask parses data as JSON or multi-document YAML and masks sensitive values.
// Returns the original data when nothing parses or nothing was masked.
func (m *CredentialDocumentMasker) Mask(data string) string {
	trimmed := strings.TrimSpace(data)

	// Try JSON first so the YAML parser does not re-serialize JSON as YAML.
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		if masked := maskJSONDocument(data); masked != data {
			return masked
		}
	}

	return maskYAMLDocument(data)
}

func maskYAMLDocument(data string) string {
	decoder := yaml.NewDecoder(strings.NewReader(data))
	var documents []map[string]any
	anyMasked := false

	for {
		var doc map[string]any
		err := decoder.Decode(&doc)
		if err == io.EOF {
			break
		}
		if err != nil {
			return data
		}
		if doc == nil {
			continue
		}
		if maskSensitiveValues(doc) {
			anyMasked = true
		}
		documents = append(documents, doc)
	}

	if !anyMasked || len(documents) == 0 {
		return data
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	for _, doc := range documents {
		if err := encoder.Encode(doc); err != nil {
			return data
		}
	}
	if err := encoder.Close(); err != nil {
		return data
	}

	result := strings.TrimRight(buf.String(), "\n")
	if strings.HasSuffix(data, "\n") {
		result += "\n"
	}
	return result
}

func maskJSONDocument(data string) string {
	var doc any
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return data
	}
	if !maskSensitiveValues(doc) {
		return data
	}

	result, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return data
	}
	output := string(result)
	if strings.HasSuffix(data, "\n") {
		output += "\n"
	}
	return output
}

// maskSensitiveValues walks maps and slices, replacing scalar values of
// sensitive keys. Returns true if anything was masked.
func maskSensitiveValues(node any) bool {
	anyMasked := false
	switch v := node.(type) {
	case map[string]any:
		for key, val := range v {
			if sensitiveKeyPattern.MatchString(key) {
				switch val.(type) {
				case map[string]any, []any:
				case nil:
					continue
				default:
					v[key] = MaskedCredentialValue
					anyMasked = true
					continue
				}
			}
			if maskSensitiveValues(val) {
				anyMasked = true
			}
		}
	case []any:
		for _, item := range v {
			if maskSensitiveValues(item) {
				anyMasked = true
			}
		}
	}
	return anyMasked
}
