package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathoo/deadzone/config"
	"github.com/nathoo/deadzone/engine/save"
)

const crossroads = "../../quests/crossroads.lua"

func TestCheckCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"check", crossroads})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "3 characters")
	assert.NotContains(t, out.String(), "warning:")
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	require.NoError(t, rootCmd.Execute())
	assert.True(t, strings.HasPrefix(out.String(), "deadzone dev"))
}

func TestNewGame_SeedIsReproducible(t *testing.T) {
	cfg := config.Config{Seed: 42, DicePool: 30}
	a, err := newGame(cfg, crossroads)
	require.NoError(t, err)
	b, err := newGame(cfg, crossroads)
	require.NoError(t, err)

	assert.Len(t, a.Pool.Faces, 30)
	assert.Equal(t, a.Pool.Faces, b.Pool.Faces)
	assert.Equal(t, int64(42), a.RNGSeed)
	assert.Equal(t, a.RNGPosition, b.RNGPosition)
}

func TestResume_FromFileStore(t *testing.T) {
	ctx := context.Background()
	cfg := config.Config{Seed: 9, SaveDir: t.TempDir()}
	store, closeStore, err := openStore(ctx, cfg)
	require.NoError(t, err)
	defer closeStore()

	s, err := newGame(cfg, crossroads)
	require.NoError(t, err)
	data, err := save.Save("g-1", s)
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, "g-1", data))

	got, err := resume(ctx, store, "g-1")
	require.NoError(t, err)
	assert.Equal(t, s.Quest.Name, got.Quest.Name)
	assert.Equal(t, s.Pool.Faces, got.Pool.Faces)

	_, err = resume(ctx, store, "missing")
	assert.ErrorIs(t, err, save.ErrNotFound)
}
