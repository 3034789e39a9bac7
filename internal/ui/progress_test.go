package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"duckcheck/internal/driver"
)

func TestProgressTracksEvents(t *testing.T) {
	events := make(chan driver.Event)
	model := NewProgressModel("checking", []string{"a.ast.json", "b.ast.json"}, events)
	m, ok := model.(*progressModel)
	require.True(t, ok)
	assert.Equal(t, 0.0, m.fraction())

	m.Update(eventMsg(driver.Event{File: "a.ast.json", Stage: driver.StageInfer, Status: driver.StatusWorking}))
	assert.Equal(t, "inferring", m.items[0].status)
	assert.InDelta(t, 0.25, m.fraction(), 1e-9)

	m.Update(eventMsg(driver.Event{File: "a.ast.json", Stage: driver.StageReport, Status: driver.StatusDone}))
	m.Update(eventMsg(driver.Event{File: "b.ast.json", Stage: driver.StageReport, Status: driver.StatusCached}))
	m.Update(eventMsg(driver.Event{File: "unknown", Stage: driver.StageLoad, Status: driver.StatusError}))
	assert.InDelta(t, 1.0, m.fraction(), 1e-9)

	view := m.View()
	assert.Contains(t, view, "checking")
	assert.Contains(t, view, "done")
	assert.Contains(t, view, "cached")

	_, cmd := m.Update(doneMsg{})
	require.NotNil(t, cmd)
	assert.True(t, m.done)
	assert.Contains(t, m.View(), "done: checking")
	close(events)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd...", truncate("abcdefghij", 7))
	assert.Equal(t, "ab", truncate("abcdef", 2))
	assert.Equal(t, "世...", truncate("世界世界", 5))
}
