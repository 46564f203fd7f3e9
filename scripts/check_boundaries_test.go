package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSource(t *testing.T, root string, rel string, body string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestCollectViolations(t *testing.T) {
	root := filepath.Join(t.TempDir(), "contexts")

	writeSource(t, root, "asset-exchange/model-marketplace/domain/entities/ok.go", `package entities

import (
	"time"

	domainerrors "aimarket/contexts/asset-exchange/model-marketplace/domain/errors"
)

var _ = time.Now
var _ = domainerrors.ErrInvalidInput
`)
	writeSource(t, root, "asset-exchange/model-marketplace/application/commands/bad.go", `package commands

import (
	"aimarket/contexts/asset-exchange/model-marketplace/adapters/memory"
	"aimarket/internal/platform/db"
)
`)
	writeSource(t, root, "asset-exchange/model-marketplace/ports/bad.go", `package ports

import "gorm.io/gorm"
`)
	writeSource(t, root, "asset-exchange/model-marketplace/adapters/memory/cross.go", `package memory

import "aimarket/contexts/identity-access/authorization-service/ports"
`)
	writeSource(t, root, "asset-exchange/model-marketplace/application/commands/bad_test.go", `package commands

import "aimarket/contexts/asset-exchange/model-marketplace/adapters/memory"
`)

	violations := collectViolations(root, "aimarket")

	rules := make(map[string][]string)
	for _, v := range violations {
		rules[v.File] = append(rules[v.File], v.Rule)
	}

	assert.NotContains(t, rules, "contexts/asset-exchange/model-marketplace/domain/entities/ok.go")
	assert.NotContains(t, rules, "contexts/asset-exchange/model-marketplace/application/commands/bad_test.go")
	assert.ElementsMatch(t, []string{
		"application must not import adapters",
		"application import is outside explicit allowlist",
		"application must not import runtime infrastructure",
		"application import is outside explicit allowlist",
	}, rules["contexts/asset-exchange/model-marketplace/application/commands/bad.go"])
	assert.Equal(t, []string{"ports import is outside explicit allowlist"},
		rules["contexts/asset-exchange/model-marketplace/ports/bad.go"])
	assert.Equal(t, []string{"cross-module imports are forbidden"},
		rules["contexts/asset-exchange/model-marketplace/adapters/memory/cross.go"])
}

func TestReadModulePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "go.mod")
	require.NoError(t, os.WriteFile(path, []byte("// comment\nmodule aimarket\n\ngo 1.24.6\n"), 0o644))

	module, err := readModulePath(path)
	require.NoError(t, err)
	assert.Equal(t, "aimarket", module)
}
