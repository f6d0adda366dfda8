//go:build unit || e2e

// Package testutil builds raw JSON request bodies for validation tests.
package testutil

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

// Edit changes one field of a decoded request body.
type Edit func(m map[string]any)

// DtoMap round-trips v through JSON so tests can send bodies the typed DTO
// cannot express, such as missing required fields or wrong types.
func DtoMap(t *testing.T, v any, edits ...func(map[string]any)) map[string]any {
	t.Helper()

	raw, err := json.Marshal(v)
	require.NoError(t, err)
	m := map[string]any{}
	require.NoError(t, json.Unmarshal(raw, &m))

	for _, edit := range edits {
		edit(m)
	}
	return m
}

// Field sets key to value, or removes it when value is nil.
func Field(key string, value any) Edit {
	return func(m map[string]any) {
		if value == nil {
			delete(m, key)
			return
		}
		m[key] = value
	}
}
