//go:build tools

package tools

// Tool dependencies were previously tracked here with blank imports.
// mockery is used as an installed binary (not via go run), so no import is
// needed. pkg/enumerate/mock_enumerator.go follows the layout mockery emits
// for .mockery.yaml; running mockery from the repository root replaces it.
