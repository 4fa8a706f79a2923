package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTicks(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"0", 0},
		{"100", 100},
		{"100ps", 100},
		{"1ns", 1000},
		{"100ns", 100000},
		{"2us", 2000000},
		{"1ms", 1000000000},
		{"1s", 1000000000000},
		{"2.5ns", 2500},
		{" 10ns ", 10000},
	}
	for _, tt := range tests {
		got, err := ParseTicks(tt.in)
		require.NoError(t, err, "ParseTicks(%q)", tt.in)
		assert.Equal(t, tt.want, got, "ParseTicks(%q)", tt.in)
	}
}

func TestParseTicks_Invalid(t *testing.T) {
	for _, in := range []string{"", "ns", "10xs", "-5ns", "1.2.3ns"} {
		_, err := ParseTicks(in)
		assert.Error(t, err, "ParseTicks(%q)", in)
	}
}

func TestParseBytes(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"0", 0},
		{"512", 512},
		{"512B", 512},
		{"1kB", 1024},
		{"1KiB", 1024},
		{"1MB", 1 << 20},
		{"2GB", 2 << 30},
		{"0.5kB", 512},
	}
	for _, tt := range tests {
		got, err := ParseBytes(tt.in)
		require.NoError(t, err, "ParseBytes(%q)", tt.in)
		assert.Equal(t, tt.want, got, "ParseBytes(%q)", tt.in)
	}
}

func TestParseBytes_Invalid(t *testing.T) {
	for _, in := range []string{"", "kB", "10qB", "-1kB"} {
		_, err := ParseBytes(in)
		assert.Error(t, err, "ParseBytes(%q)", in)
	}
}

func TestParseBandwidth(t *testing.T) {
	// 1kB/s moves one byte in 1s/1024 ticks.
	got, err := ParseBandwidth("1kB/s")
	require.NoError(t, err)
	assert.InDelta(t, float64(Second)/1024.0, got, 1e-6)

	got, err = ParseBandwidth("100MB/s")
	require.NoError(t, err)
	assert.InDelta(t, float64(Second)/float64(100<<20), got, 1e-6)
}

func TestParseBandwidth_Invalid(t *testing.T) {
	for _, in := range []string{"", "100MB", "0B/s", "junk/s"} {
		_, err := ParseBandwidth(in)
		assert.Error(t, err, "ParseBandwidth(%q)", in)
	}
}
