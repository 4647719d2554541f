package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewParsesLevel(t *testing.T) {
	tests := []struct {
		level string
		want  logrus.Level
	}{
		{"debug", logrus.DebugLevel},
		{"warn", logrus.WarnLevel},
		{"bogus", logrus.InfoLevel},
		{"", logrus.InfoLevel},
	}
	for _, tt := range tests {
		if got := New(&bytes.Buffer{}, tt.level, "text").GetLevel(); got != tt.want {
			t.Errorf("New(level=%q).GetLevel() = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestJSONFormatAndComponentField(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "info", "JSON")
	Component(log, "world").Info("dungeon generated")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if rec["component"] != "world" {
		t.Errorf("component = %v, want world", rec["component"])
	}
}

func TestComponentWithNilLoggerDiscards(t *testing.T) {
	entry := Component(nil, "game")
	entry.Info("nothing should break")
	if entry.Data["component"] != "game" {
		t.Errorf("component field missing: %v", entry.Data)
	}
}

func TestTextFormat(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "info", "text").Info("hello")
	if !strings.Contains(buf.String(), "msg=hello") {
		t.Errorf("unexpected text output %q", buf.String())
	}
}
