package serializer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"reflect"
	"sort"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// Format represents the output format type
type Format string

const (
	// FormatJSON outputs data in JSON format
	FormatJSON Format = "json"
	// FormatYAML outputs data in YAML format
	FormatYAML Format = "yaml"
	// FormatTable outputs data in table format
	FormatTable Format = "table"
)

const defaultValueKey = "value"

func (f Format) IsUnknown() bool {
	switch f {
	case FormatJSON, FormatYAML, FormatTable:
		return false
	default:
		return true
	}
}

// SupportedFormats returns a list of all supported output formats
// for serialization.
func SupportedFormats() []string {
	return []string{
		string(FormatJSON),
		string(FormatYAML),
		string(FormatTable),
	}
}

// Writer handles serialization of command output to various formats.
// Close must be called to release file handles when using NewFileWriterOrStdout.
type Writer struct {
	format Format
	output io.Writer
	closer io.Closer
}

// NewWriter creates a new Writer with the specified format and output destination.
// If output is nil, os.Stdout will be used.
// If format is unknown, defaults to JSON format.
func NewWriter(format Format, output io.Writer) *Writer {
	if output == nil {
		output = os.Stdout
	}
	if format.IsUnknown() {
		slog.Warn("unknown format, defaulting to JSON", "format", format)
		format = FormatJSON
	}
	return &Writer{
		format: format,
		output: output,
	}
}

// NewFileWriterOrStdout creates a Writer targeting the given file path,
// falling back to stdout when the path is empty or cannot be created.
// Remember to call Close() on the returned Writer.
func NewFileWriterOrStdout(format Format, path string) *Writer {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return NewStdoutWriter(format)
	}

	file, err := os.Create(trimmed)
	if err != nil {
		slog.Error("failed to create output file", "error", err, "path", trimmed)
		return NewStdoutWriter(format)
	}

	if format.IsUnknown() {
		slog.Warn("unknown format, defaulting to JSON", "format", format)
		format = FormatJSON
	}

	return &Writer{
		format: format,
		output: file,
		closer: file,
	}
}

// NewStdoutWriter creates a new Writer that outputs to stdout in the specified format.
func NewStdoutWriter(format Format) *Writer {
	if format.IsUnknown() {
		slog.Warn("unknown format, defaulting to JSON", "format", format)
		format = FormatJSON
	}
	return &Writer{
		format: format,
		output: os.Stdout,
	}
}

// Close releases any resources associated with the Writer.
// It's safe to call Close multiple times or on stdout-based writers.
func (w *Writer) Close() error {
	if w.closer != nil {
		err := w.closer.Close()
		w.closer = nil
		return err
	}
	return nil
}

// Serialize writes the data in the configured format.
// Context is provided for consistency with the Serializer interface,
// but is not actively used for file/stdout writes (which are fast and blocking).
func (w *Writer) Serialize(ctx context.Context, data any) error {
	switch w.format {
	case FormatJSON:
		return w.serializeJSON(data)
	case FormatYAML:
		return w.serializeYAML(data)
	case FormatTable:
		return w.serializeTable(data)
	default:
		return fmt.Errorf("unsupported format: %s", w.format)
	}
}

func (w *Writer) serializeJSON(data any) error {
	encoder := json.NewEncoder(w.output)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to serialize to JSON: %w", err)
	}
	return nil
}

func (w *Writer) serializeYAML(data any) error {
	encoder := yaml.NewEncoder(w.output)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to serialize to YAML: %w", err)
	}
	return nil
}

// serializeTable renders a slice of records as a columnar table, one
// row per element, which fits the CLI's listing outputs. Everything
// else renders as FIELD/VALUE pairs. Nested fields flatten into dotted
// names derived from json tags.
func (w *Writer) serializeTable(data any) error {
	val := reflect.ValueOf(data)
	for val.Kind() == reflect.Pointer || val.Kind() == reflect.Interface {
		if val.IsNil() {
			fmt.Fprintln(w.output, "<empty>")
			return nil
		}
		val = val.Elem()
	}

	if (val.Kind() == reflect.Slice || val.Kind() == reflect.Array) && isRecordSlice(val) {
		return w.serializeColumns(val)
	}

	row := newFlatRow()
	row.flatten(val, "")
	if len(row.keys) == 0 {
		fmt.Fprintln(w.output, "<empty>")
		return nil
	}
	sort.Strings(row.keys)

	tw := tabwriter.NewWriter(w.output, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FIELD\tVALUE")
	fmt.Fprintln(tw, "-----\t-----")
	for _, key := range row.keys {
		fmt.Fprintf(tw, "%s\t%v\n", key, row.fields[key])
	}
	return tw.Flush()
}

// serializeColumns renders one header row from the union of the rows'
// flattened keys, in first-seen order, then one line per element.
func (w *Writer) serializeColumns(val reflect.Value) error {
	if val.Len() == 0 {
		fmt.Fprintln(w.output, "<empty>")
		return nil
	}

	rows := make([]*flatRow, 0, val.Len())
	var columns []string
	seen := map[string]bool{}
	for i := 0; i < val.Len(); i++ {
		row := newFlatRow()
		row.flatten(val.Index(i), "")
		for _, k := range row.keys {
			if !seen[k] {
				seen[k] = true
				columns = append(columns, k)
			}
		}
		rows = append(rows, row)
	}

	tw := tabwriter.NewWriter(w.output, 0, 0, 2, ' ', 0)
	header := make([]string, len(columns))
	for i, c := range columns {
		header[i] = strings.ToUpper(c)
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range rows {
		cells := make([]string, len(columns))
		for i, c := range columns {
			if v, ok := row.fields[c]; ok && v != nil {
				cells[i] = fmt.Sprintf("%v", v)
			}
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

// isRecordSlice reports whether the slice elements carry named fields,
// i.e. render naturally as table rows.
func isRecordSlice(val reflect.Value) bool {
	if val.Len() == 0 {
		return false
	}
	elem := val.Index(0)
	for elem.Kind() == reflect.Pointer || elem.Kind() == reflect.Interface {
		if elem.IsNil() {
			return false
		}
		elem = elem.Elem()
	}
	return elem.Kind() == reflect.Struct || elem.Kind() == reflect.Map
}

// flatRow collects flattened key/value pairs preserving insertion order.
type flatRow struct {
	fields map[string]any
	keys   []string
}

func newFlatRow() *flatRow {
	return &flatRow{fields: make(map[string]any)}
}

func (r *flatRow) set(key string, value any) {
	if _, ok := r.fields[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.fields[key] = value
}

func (r *flatRow) flatten(val reflect.Value, prefix string) {
	if !val.IsValid() {
		return
	}

	for val.Kind() == reflect.Pointer || val.Kind() == reflect.Interface {
		if val.IsNil() {
			if prefix != "" {
				r.set(prefix, nil)
			}
			return
		}
		val = val.Elem()
	}

	//nolint:exhaustive // We handle the common cases explicitly; all others go to default
	switch val.Kind() {
	case reflect.Struct:
		typ := val.Type()
		for i := 0; i < val.NumField(); i++ {
			field := typ.Field(i)
			if !field.IsExported() {
				continue
			}
			if field.Anonymous && val.Field(i).Kind() == reflect.Struct {
				r.flatten(val.Field(i), prefix)
				continue
			}
			r.flatten(val.Field(i), joinKey(prefix, fieldKey(field)))
		}
	case reflect.Map:
		mapKeys := val.MapKeys()
		sort.Slice(mapKeys, func(i, j int) bool {
			return fmt.Sprintf("%v", mapKeys[i].Interface()) < fmt.Sprintf("%v", mapKeys[j].Interface())
		})
		for _, mapKey := range mapKeys {
			key := joinKey(prefix, fmt.Sprintf("%v", mapKey.Interface()))
			r.flatten(val.MapIndex(mapKey), key)
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < val.Len(); i++ {
			key := joinKey(prefix, fmt.Sprintf("[%d]", i))
			r.flatten(val.Index(i), key)
		}
	default:
		if prefix == "" {
			prefix = defaultValueKey
		}
		r.set(prefix, val.Interface())
	}
}

// fieldKey derives the display key for a struct field from its json
// tag, falling back to the field name.
func fieldKey(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "" || tag == "-" {
		return field.Name
	}
	if idx := strings.Index(tag, ","); idx >= 0 {
		tag = tag[:idx]
	}
	if tag == "" {
		return field.Name
	}
	return tag
}

func joinKey(prefix, suffix string) string {
	if prefix == "" {
		return suffix
	}
	if suffix == "" {
		return prefix
	}
	return prefix + "." + suffix
}
