package progressbar

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManualProgressBar(t *testing.T) {
	var buf bytes.Buffer
	p := NewManualProgressBar(&buf, 10, 4)

	p.Increment()
	p.Increment()
	assert.Equal(t, 0.5, p.Progress())

	p.SetStatus("reward %v", 3)
	require.NoError(t, p.Display())

	out := buf.String()
	assert.Equal(t, 5, strings.Count(out, "█"))
	assert.Contains(t, out, "50.00%")
	assert.Contains(t, out, "reward 3")

	// Progress saturates at the maximum
	for i := 0; i < 10; i++ {
		p.Increment()
	}
	assert.Equal(t, 1.0, p.Progress())
	assert.Equal(t, 10, strings.Count(p.String(), "█"))
}
