package api

import (
	"encoding/json"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func marshalMap(t *testing.T, v any) map[string]any {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestEnvelopeTransformer_Success(t *testing.T) {
	result, err := EnvelopeTransformer(nil, "200", map[string]string{"id": "1"})
	require.NoError(t, err)

	out := marshalMap(t, result)
	assert.Equal(t, float64(1), out["v"])
	assert.Equal(t, true, out["success"])
	assert.Equal(t, map[string]any{"id": "1"}, out["data"])
	assert.NotContains(t, out, "error")
}

func TestEnvelopeTransformer_APIError(t *testing.T) {
	result, err := EnvelopeTransformer(nil, "400", &APIError{
		Code:    "VALIDATION",
		Message: "Dados inválidos.",
		Details: []string{"name is required"},
	})
	require.NoError(t, err)

	out := marshalMap(t, result)
	assert.Equal(t, false, out["success"])
	assert.NotContains(t, out, "data")

	errBody, ok := out["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "VALIDATION", errBody["code"])
	assert.Equal(t, "Dados inválidos.", errBody["message"])
	assert.Equal(t, []any{"name is required"}, errBody["details"])
}

func TestEnvelopeTransformer_HumaErrorModel(t *testing.T) {
	result, err := EnvelopeTransformer(nil, "404", &huma.ErrorModel{Status: 404, Detail: "gone"})
	require.NoError(t, err)

	errBody := marshalMap(t, result)["error"].(map[string]any)
	assert.Equal(t, "NOT_FOUND", errBody["code"])
	assert.Equal(t, "gone", errBody["message"])
}
