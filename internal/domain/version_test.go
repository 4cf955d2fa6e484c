package domain

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidVersion(t *testing.T) {
	cases := map[string]bool{
		"1.2.3":    true,
		"0.0.0":    true,
		"10.20.30": true,
		"1.2":      false,
		"a.b.c":    false,
		"1.2.3.4":  false,
		"v1.2.3":   false,
		"1.2.3-rc": false,
		"":         false,
		" 1.2.3":   false,
	}
	for v, want := range cases {
		assert.Equal(t, want, IsValidVersion(v), "version=%q", v)
	}
}

func TestIncrementVersion(t *testing.T) {
	assert.Equal(t, "1.2.4", IncrementVersion("1.2.3"))
	assert.Equal(t, "0.0.1", IncrementVersion("0.0.0"))
	assert.Equal(t, "2.0.10", IncrementVersion("2.0.9"))
	assert.Equal(t, "bad", IncrementVersion("bad"))
	assert.Equal(t, "1.2", IncrementVersion("1.2"))
}

func TestIncrementVersion_OverflowReturnsInput(t *testing.T) {
	v := "1.2.99999999999999999999999"
	assert.Equal(t, v, IncrementVersion(v))
}

func TestIncrementVersion_MaxIntPatchUnchanged(t *testing.T) {
	v := "1.2." + strconv.Itoa(math.MaxInt)
	got := IncrementVersion(v)
	assert.Equal(t, v, got)
	assert.True(t, IsValidVersion(got))
}
