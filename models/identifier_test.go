package models

import (
	"bytes"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var predictionIDPattern = regexp.MustCompile(`^\d{8}-[0-9a-f]{12}$`)

func TestIDGenerator_Generate(t *testing.T) {
	g := NewIDGenerator()
	id, ts, err := g.Generate()
	require.NoError(t, err)
	assert.True(t, predictionIDPattern.MatchString(id), id)

	parsed, err := time.Parse(time.RFC3339Nano, ts)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, parsed.Location())
}

func TestIDGenerator_DeterministicSources(t *testing.T) {
	fixed := time.Date(2026, 3, 9, 23, 30, 0, 123456000, time.FixedZone("IST", 5*3600+1800))
	g := &IDGenerator{
		Now:  func() time.Time { return fixed },
		Rand: bytes.NewReader([]byte{0xde, 0xad, 0xbe, 0xef, 0x00, 0x01}),
	}
	id, ts, err := g.Generate()
	require.NoError(t, err)
	// 日期前缀取 UTC 日期
	assert.Equal(t, "20260309-deadbeef0001", id)
	assert.Equal(t, "2026-03-09T18:00:00.123456Z", ts)
}

func TestIDGenerator_Unique(t *testing.T) {
	g := NewIDGenerator()
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id, _, err := g.Generate()
		require.NoError(t, err)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy exhausted") }

func TestIDGenerator_RandFailure(t *testing.T) {
	g := &IDGenerator{Rand: failingReader{}}
	_, _, err := g.Generate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entropy exhausted")
}
