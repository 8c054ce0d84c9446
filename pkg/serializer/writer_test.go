package serializer

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

type testScenario struct {
	Strategy    string  `json:"strategy" yaml:"strategy"`
	TotalHourly float64 `json:"totalHourly" yaml:"totalHourly"`
}

func TestWriter_SerializeJSON(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(FormatJSON, &buf)

	data := []testScenario{
		{Strategy: "max_performance", TotalHourly: 0.36},
		{Strategy: "max_value", TotalHourly: 0.20},
	}

	if err := writer.Serialize(context.Background(), data); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	var result []testScenario
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Failed to unmarshal JSON: %v", err)
	}
	if len(result) != 2 {
		t.Errorf("Expected 2 items, got %d", len(result))
	}
	if result[0].Strategy != "max_performance" || result[0].TotalHourly != 0.36 {
		t.Errorf("Unexpected data: %+v", result[0])
	}
}

func TestWriter_SerializeYAML(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(FormatYAML, &buf)

	data := testScenario{Strategy: "balanced", TotalHourly: 0.25}

	if err := writer.Serialize(context.Background(), data); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	var result testScenario
	if err := yaml.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Failed to unmarshal YAML: %v", err)
	}
	if result.Strategy != "balanced" {
		t.Errorf("Unexpected strategy: %s", result.Strategy)
	}
}

func TestWriter_SerializeTable(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(FormatTable, &buf)

	data := map[string]any{
		"nodes": 4,
		"pool":  testScenario{Strategy: "max_value", TotalHourly: 0.20},
	}

	if err := writer.Serialize(context.Background(), data); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "FIELD") {
		t.Errorf("Expected table header, got: %s", out)
	}
	if !strings.Contains(out, "pool.strategy") {
		t.Errorf("Expected flattened key, got: %s", out)
	}
	if !strings.Contains(out, "max_value") {
		t.Errorf("Expected value in table, got: %s", out)
	}
}

func TestWriter_SerializeTableColumns(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(FormatTable, &buf)

	data := []testScenario{
		{Strategy: "max_performance", TotalHourly: 0.36},
		{Strategy: "max_value", TotalHourly: 0.20},
	}

	if err := writer.Serialize(context.Background(), data); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected header plus 2 rows, got %d lines: %s", len(lines), out)
	}
	if !strings.Contains(lines[0], "STRATEGY") || !strings.Contains(lines[0], "TOTALHOURLY") {
		t.Errorf("Expected column header, got: %s", lines[0])
	}
	if !strings.Contains(lines[1], "max_performance") || !strings.Contains(lines[2], "max_value") {
		t.Errorf("Expected one row per element in order, got: %s", out)
	}
}

func TestWriter_SerializeTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(FormatTable, &buf)

	if err := writer.Serialize(context.Background(), map[string]any{}); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if !strings.Contains(buf.String(), "<empty>") {
		t.Errorf("Expected <empty> marker, got: %s", buf.String())
	}
}

func TestWriter_UnknownFormatDefaultsToJSON(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(Format("xml"), &buf)

	if err := writer.Serialize(context.Background(), testScenario{Strategy: "balanced"}); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if !json.Valid(buf.Bytes()) {
		t.Errorf("Expected JSON fallback output, got: %s", buf.String())
	}
}

func TestNewFileWriterOrStdout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	writer := NewFileWriterOrStdout(FormatJSON, path)

	if err := writer.Serialize(context.Background(), testScenario{Strategy: "max_value"}); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	// Close twice to verify idempotency.
	if err := writer.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !strings.Contains(string(content), "max_value") {
		t.Errorf("Unexpected file content: %s", content)
	}
}

func TestNewFileWriterOrStdout_EmptyPathUsesStdout(t *testing.T) {
	writer := NewFileWriterOrStdout(FormatJSON, "  ")
	if writer.output != os.Stdout {
		t.Error("Expected stdout fallback for empty path")
	}
	if err := writer.Close(); err != nil {
		t.Errorf("Close on stdout writer should be nil, got: %v", err)
	}
}

func TestSupportedFormats(t *testing.T) {
	formats := SupportedFormats()
	if len(formats) != 3 {
		t.Errorf("Expected 3 formats, got %d", len(formats))
	}
	for _, f := range formats {
		if Format(f).IsUnknown() {
			t.Errorf("Supported format %s reported unknown", f)
		}
	}
}
