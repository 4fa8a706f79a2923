package trace

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := logrus.StandardLogger().Out
	logrus.SetOutput(&buf)
	t.Cleanup(func() {
		logrus.SetOutput(prev)
		Reset()
	})
	return &buf
}

func TestTracef_DisabledCategory_EmitsNothing(t *testing.T) {
	buf := captureOutput(t)

	Tracef("Quiet", 42, "should not appear")

	assert.Empty(t, buf.String())
}

func TestTracef_EnabledCategory_EmitsTaggedLine(t *testing.T) {
	buf := captureOutput(t)
	Enable("Cache")

	Tracef("Cache", 1234, "miss on block %d", 7)

	out := buf.String()
	assert.Contains(t, out, "Cache:")
	assert.Contains(t, out, "[tick 0001234]")
	assert.Contains(t, out, "miss on block 7")
}

func TestTracef_EnableAll_CoversEveryCategory(t *testing.T) {
	buf := captureOutput(t)
	EnableAll()

	Tracef("Anything", 1, "line one")
	Tracef("Whatever", 2, "line two")

	out := buf.String()
	assert.Contains(t, out, "line one")
	assert.Contains(t, out, "line two")
}

func TestDisable_TurnsCategoryBackOff(t *testing.T) {
	buf := captureOutput(t)
	Enable("Flappy")
	assert.True(t, Enabled("Flappy"))

	Disable("Flappy")
	Tracef("Flappy", 3, "gone")

	assert.False(t, Enabled("Flappy"))
	assert.Empty(t, buf.String())
}
