package ingestion

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProgressTracker_Basic(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 4, 2)

	tracker.Start(0)
	tracker.Done(false)
	tracker.Done(true)
	tracker.Done(false)
	tracker.Done(false)
	tracker.Finish()

	assert.Greater(t, tracker.Elapsed(), time.Duration(0))
	output := buf.String()
	assert.Contains(t, output, "4/4")
	assert.Contains(t, output, "100.0%")
	assert.Contains(t, output, "1 failed")
	assert.True(t, strings.HasSuffix(output, "\n"))
}

func TestProgressTracker_Resumed(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 10, 1)

	tracker.Start(8)
	tracker.Done(false)

	assert.Contains(t, buf.String(), "9/10")
}

func TestProgressTracker_UnknownTotal(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 0, 1)

	tracker.Start(0)
	tracker.Done(false)
	tracker.Finish()

	output := buf.String()
	assert.Contains(t, output, "Progress: 1, 0 failed")
	assert.NotContains(t, output, "%")
}

func TestProgressTracker_BeyondTotal(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 1, 1)

	tracker.Start(0)
	tracker.Done(false)
	tracker.Done(false)

	assert.Contains(t, buf.String(), "2/2")
}

func TestProgressTracker_ReportInterval(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 100, 10)

	tracker.Start(0)
	for range 9 {
		tracker.Done(false)
	}
	assert.Empty(t, buf.String(), "should not report below the interval")

	tracker.Done(false)
	assert.Contains(t, buf.String(), "10/100")
}

func TestProgressTracker_NotStarted(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 100, 1)

	tracker.Done(false)
	tracker.Finish()

	assert.Equal(t, "", buf.String())
	assert.Equal(t, time.Duration(0), tracker.Elapsed())
}
