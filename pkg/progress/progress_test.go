package progress_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ajitpratap0/tabula/pkg/progress"
)

func TestBarFillsOnce(t *testing.T) {
	var buf bytes.Buffer
	bar := progress.NewBar(&buf, 10, "work")

	bar.Start(100)
	for i := 0; i < 100; i++ {
		bar.Tick(1)
	}
	bar.Finish()

	out := buf.String()
	assert.Equal(t, 10, strings.Count(out, "#"))
	assert.Contains(t, out, "work[")
	assert.True(t, strings.HasSuffix(out, "\n"))

	// Ticks after completion are ignored.
	bar.Tick(50)
	assert.Equal(t, out, buf.String())
}

func TestBarFinishEarly(t *testing.T) {
	var buf bytes.Buffer
	bar := progress.NewBar(&buf, 8, "partial")

	bar.Start(1000)
	bar.Tick(10)
	bar.Finish()

	assert.Equal(t, 8, strings.Count(buf.String(), "#"))
}

func TestBarComplete(t *testing.T) {
	var buf bytes.Buffer
	bar := progress.NewBar(&buf, 10, "abs")

	bar.Start(100)
	bar.Complete(50)
	assert.Equal(t, 5, strings.Count(buf.String(), "#"))

	// Complete never moves backwards.
	bar.Complete(10)
	assert.Equal(t, 5, strings.Count(buf.String(), "#"))

	bar.Finish()
	assert.Equal(t, 10, strings.Count(buf.String(), "#"))
}
