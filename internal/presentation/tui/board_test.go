package tui

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/weatherbot/pkg/observability"
	"github.com/stretchr/testify/assert"
)

func TestBoard_Draw(t *testing.T) {
	var buf bytes.Buffer
	b := NewBoard(&buf, false)

	b.Draw("http://localhost:3000", observability.HealthReport{
		Status: observability.StatusUnhealthy,
		Metrics: observability.Snapshot{
			Requests:  20,
			Errors:    4,
			ErrorRate: 20,
			Uptime:    "1m0s",
		},
	}, nil, time.Date(2024, 1, 1, 12, 30, 0, 0, time.UTC))

	out := buf.String()
	assert.Contains(t, out, "unhealthy")
	assert.Contains(t, out, "12:30:00")
	assert.Contains(t, out, "20.00%")
	assert.Contains(t, out, "1m0s")
}

func TestBoard_DrawOffline(t *testing.T) {
	var buf bytes.Buffer
	NewBoard(&buf, false).Draw("http://x", observability.HealthReport{}, errors.New("connection refused"), time.Now())

	assert.Contains(t, buf.String(), "offline")
	assert.Contains(t, buf.String(), "connection refused")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "1.2.3")
	assert.Contains(t, buf.String(), "v1.2.3")
}
