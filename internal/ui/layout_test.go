package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentHeight(t *testing.T) {
	l := NewLayout(100, 30)
	assert.Equal(t, 28, l.ContentHeight())
	assert.Equal(t, 100, l.ContentWidth())
}

func TestRenderWithFrameKeepsStatusBarAtBottom(t *testing.T) {
	l := NewLayout(60, 10)

	out := l.RenderWithFrame(
		l.RenderHeader("Smartlead Health Monitor", "idle"),
		"row 1\nrow 2",
		"",
		l.RenderStatusBar("q quit"),
	)
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 10)
	assert.Contains(t, lines[len(lines)-1], "q quit")

	withToast := l.RenderWithFrame("header", "body", "saved", "status")
	lines = strings.Split(withToast, "\n")
	assert.Len(t, lines, 10)
	assert.Contains(t, lines[len(lines)-2], "saved")
}
