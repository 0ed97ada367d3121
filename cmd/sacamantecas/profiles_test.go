package main_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/fwojciec/sacamantecas"
	main "github.com/fwojciec/sacamantecas/cmd/sacamantecas"
	"github.com/fwojciec/sacamantecas/yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfilesCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("lists profiles with pattern and strategy", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:      context.Background(),
			Stdout:   stdout,
			Stderr:   &bytes.Buffer{},
			Registry: testRegistry(t),
		}

		err := (&main.ProfilesCmd{}).Run(deps)

		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
		require.Len(t, lines, 2)
		assert.Contains(t, lines[0], "fichas")
		assert.Contains(t, lines[0], `fichas\.example\.org`)
		assert.Contains(t, lines[0], `dl[class="ficha"]`)
		assert.Contains(t, lines[1], "tablas")
		assert.Contains(t, lines[1], "key=/^etiqueta$/ value=/^valor$/")
	})

	t.Run("shows a single profile by name", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:      context.Background(),
			Stdout:   stdout,
			Stderr:   &bytes.Buffer{},
			Registry: testRegistry(t),
		}

		err := (&main.ProfilesCmd{Name: "tablas"}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "tablas")
		assert.NotContains(t, stdout.String(), "fichas")
	})

	t.Run("returns ENOTFOUND for unknown profile name", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:      context.Background(),
			Stdout:   &bytes.Buffer{},
			Stderr:   stderr,
			Registry: testRegistry(t),
		}

		err := (&main.ProfilesCmd{Name: "nada"}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, sacamantecas.ENOTFOUND, sacamantecas.ErrorCode(err))
		assert.Contains(t, stderr.String(), `profile "nada" not found`)
	})

	t.Run("shows message for empty registry", func(t *testing.T) {
		t.Parallel()

		reg, err := yaml.LoadRegistry(strings.NewReader(""))
		require.NoError(t, err)

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:      context.Background(),
			Stdout:   stdout,
			Stderr:   &bytes.Buffer{},
			Registry: reg,
		}

		err = (&main.ProfilesCmd{}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "No profiles defined.")
	})
}
