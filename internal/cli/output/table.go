package output

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"
	"text/tabwriter"
	"time"
)

// narrowCellWidth caps cell width outside wide mode.
const narrowCellWidth = 40

// TableFormatter formats data as an aligned text table.
type TableFormatter struct {
	Wide      bool
	NoHeaders bool
}

// Format formats data as a table.
//
// Supported inputs: *Table, a slice of structs (one row per element, columns
// from json tags), a struct (one FIELD/VALUE row per leaf, nested structs
// flattened with dotted names) and maps (KEY/VALUE rows sorted by key).
// Anything else is written as JSON.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	if data == nil {
		return nil
	}

	switch t := data.(type) {
	case *Table:
		return t.RenderWithOptions(w, f.NoHeaders)
	case Table:
		return t.RenderWithOptions(w, f.NoHeaders)
	}

	table, err := f.toTable(reflect.ValueOf(data))
	if err != nil {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(data)
	}
	return table.RenderWithOptions(w, f.NoHeaders)
}

func (f *TableFormatter) toTable(v reflect.Value) (*Table, error) {
	v = indirect(v)
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		return f.sliceToTable(v)
	case reflect.Struct:
		t := &Table{Headers: []string{"FIELD", "VALUE"}}
		f.flattenStruct(t, "", v)
		return t, nil
	case reflect.Map:
		t := &Table{Headers: []string{"KEY", "VALUE"}}
		for _, k := range sortedMapKeys(v) {
			t.AddRow(f.cell(k), f.cell(v.MapIndex(k)))
		}
		return t, nil
	default:
		return nil, fmt.Errorf("unsupported type: %s", v.Kind())
	}
}

func (f *TableFormatter) sliceToTable(v reflect.Value) (*Table, error) {
	elemType := v.Type().Elem()
	if elemType.Kind() == reflect.Ptr {
		elemType = elemType.Elem()
	}
	if elemType.Kind() != reflect.Struct {
		t := &Table{Headers: []string{"VALUE"}}
		for i := 0; i < v.Len(); i++ {
			t.AddRow(f.cell(v.Index(i)))
		}
		return t, nil
	}

	var fields []int
	t := &Table{}
	for i := 0; i < elemType.NumField(); i++ {
		field := elemType.Field(i)
		if !f.showField(field) {
			continue
		}
		t.Headers = append(t.Headers, strings.ToUpper(fieldName(field)))
		fields = append(fields, i)
	}

	for i := 0; i < v.Len(); i++ {
		elem := indirect(v.Index(i))
		if !elem.IsValid() {
			continue
		}
		row := make([]string, len(fields))
		for j, idx := range fields {
			row[j] = f.cell(elem.Field(idx))
		}
		t.AddRow(row...)
	}
	return t, nil
}

func (f *TableFormatter) flattenStruct(t *Table, prefix string, v reflect.Value) {
	typ := v.Type()
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !f.showField(field) {
			continue
		}
		name := prefix + fieldName(field)
		fv := indirect(v.Field(i))
		if fv.Kind() == reflect.Struct && fv.Type() != reflect.TypeOf(time.Time{}) {
			f.flattenStruct(t, name+".", fv)
			continue
		}
		t.AddRow(name, f.cell(fv))
	}
}

func (f *TableFormatter) showField(field reflect.StructField) bool {
	if !field.IsExported() {
		return false
	}
	if field.Tag.Get("json") == "-" {
		return false
	}
	tag := field.Tag.Get("table")
	if tag == "-" {
		return false
	}
	return f.Wide || !strings.Contains(tag, "wide")
}

// cell formats v and truncates it outside wide mode.
func (f *TableFormatter) cell(v reflect.Value) string {
	s := formatValue(v)
	if !f.Wide && len(s) > narrowCellWidth {
		return s[:narrowCellWidth-3] + "..."
	}
	return s
}

// fieldName returns the display name of a struct field: its yaml or json
// tag name, or the field name in snake case.
func fieldName(field reflect.StructField) string {
	for _, key := range []string{"yaml", "json"} {
		if tag := field.Tag.Get(key); tag != "" {
			name, _, _ := strings.Cut(tag, ",")
			if name != "" && name != "-" {
				return name
			}
		}
	}
	return toSnakeCase(field.Name)
}

func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func sortedMapKeys(v reflect.Value) []reflect.Value {
	keys := v.MapKeys()
	sort.Slice(keys, func(i, j int) bool {
		return formatValue(keys[i]) < formatValue(keys[j])
	})
	return keys
}

// formatValue formats a reflect.Value for display. Lists print as
// "[a, b]", maps as "{k=v, ...}" sorted by key.
func formatValue(v reflect.Value) string {
	v = indirect(v)
	if !v.IsValid() {
		return "-"
	}

	switch v.Type() {
	case reflect.TypeOf(time.Duration(0)):
		return v.Interface().(time.Duration).String()
	case reflect.TypeOf(time.Time{}):
		t := v.Interface().(time.Time)
		if t.IsZero() {
			return "-"
		}
		return t.Format(time.RFC3339)
	}

	switch v.Kind() {
	case reflect.String:
		if v.Len() == 0 {
			return "-"
		}
		return v.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return fmt.Sprintf("%d", v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return fmt.Sprintf("%d", v.Uint())
	case reflect.Float32, reflect.Float64:
		return fmt.Sprintf("%g", v.Float())
	case reflect.Bool:
		return fmt.Sprintf("%t", v.Bool())
	case reflect.Slice, reflect.Array:
		items := make([]string, v.Len())
		for i := range items {
			items[i] = formatValue(v.Index(i))
		}
		return "[" + strings.Join(items, ", ") + "]"
	case reflect.Map:
		keys := sortedMapKeys(v)
		items := make([]string, len(keys))
		for i, k := range keys {
			items[i] = formatValue(k) + "=" + formatValue(v.MapIndex(k))
		}
		return "{" + strings.Join(items, ", ") + "}"
	default:
		return fmt.Sprintf("%v", v.Interface())
	}
}

// toSnakeCase converts CamelCase to snake_case.
func toSnakeCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				result.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		result.WriteRune(r)
	}
	return result.String()
}

// Table represents tabular data.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Render renders the table to the writer.
func (t *Table) Render(w io.Writer) error {
	return t.RenderWithOptions(w, false)
}

// RenderWithOptions renders the table with options.
func (t *Table) RenderWithOptions(w io.Writer, noHeaders bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if !noHeaders && len(t.Headers) > 0 {
		if _, err := io.WriteString(tw, strings.Join(t.Headers, "\t")+"\n"); err != nil {
			return err
		}
	}
	for _, row := range t.Rows {
		if _, err := io.WriteString(tw, strings.Join(row, "\t")+"\n"); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// AddRow adds a row to the table.
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// SetHeaders sets the table headers.
func (t *Table) SetHeaders(headers ...string) {
	t.Headers = headers
}
