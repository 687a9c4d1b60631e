package gamelog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"towers/game"
)

func TestZerologSink(t *testing.T) {
	tests := []struct {
		category game.Category
		level    string
	}{
		{game.CategoryError, "error"},
		{game.CategoryValidation, "warn"},
		{game.CategoryDebug, "debug"},
		{game.CategoryCombat, "info"},
		{game.CategoryStateChange, "info"},
	}
	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			var buf bytes.Buffer
			sink := NewZerologSink(zerolog.New(&buf).Level(zerolog.DebugLevel))

			sink.Log(tt.category, "something happened", game.Fields{"unit": "u1", "damage": 2})

			var line map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
			require.Equal(t, tt.level, line["level"])
			require.Equal(t, string(tt.category), line["category"])
			require.Equal(t, "something happened", line["message"])
			require.Equal(t, "u1", line["unit"])
			require.Equal(t, 2.0, line["damage"])
		})
	}

	t.Run("respects the logger level", func(t *testing.T) {
		var buf bytes.Buffer
		sink := NewZerologSink(zerolog.New(&buf).Level(zerolog.WarnLevel))
		sink.Log(game.CategoryMovement, "moved", nil)
		sink.Log(game.CategoryDebug, "noise", nil)
		require.Empty(t, buf.String())

		sink.Log(game.CategoryValidation, "rejected", nil)
		require.True(t, strings.Contains(buf.String(), "rejected"))
	})
}

func TestRecorder(t *testing.T) {
	t.Run("filters by category", func(t *testing.T) {
		r := NewRecorder(0)
		r.Log(game.CategoryCombat, "a", nil)
		r.Log(game.CategoryMovement, "b", nil)
		r.Log(game.CategoryCombat, "c", game.Fields{"x": 1})

		require.Len(t, r.Entries(), 3)
		combat := r.Filter(game.CategoryCombat)
		require.Len(t, combat, 2)
		require.Equal(t, "a", combat[0].Message)
		require.Equal(t, "c", combat[1].Message)
		require.Empty(t, r.Filter(game.CategoryError))
	})

	t.Run("drops the oldest past capacity", func(t *testing.T) {
		r := NewRecorder(3)
		for i := 0; i < 5; i++ {
			r.Log(game.CategoryAction, fmt.Sprint(i), nil)
		}
		entries := r.Entries()
		require.Len(t, entries, 3)
		require.Equal(t, "2", entries[0].Message)
		require.Equal(t, "4", entries[2].Message)

		r.Clear()
		require.Empty(t, r.Entries())
	})

	t.Run("records engine activity", func(t *testing.T) {
		r := NewRecorder(DefaultCapacity)
		m := game.NewManager(game.NewStandardRules(), game.DefaultCatalog(), game.WithSink(r))
		gs := m.NewGame()

		_, err := m.EndTurn(gs)
		require.Error(t, err)
		require.Len(t, r.Filter(game.CategoryValidation), 1)
	})
}

func TestTee(t *testing.T) {
	a, b := NewRecorder(10), NewRecorder(10)
	Tee{a, b}.Log(game.CategoryAI, "thinking", nil)
	require.Len(t, a.Entries(), 1)
	require.Len(t, b.Entries(), 1)
}
