package rowsource

import "strings"

// DecodeLine splits one line of delimited text into its fields. A double
// quote toggles the in-quote state and is consumed rather than appended, so
// commas inside quoted fields survive the split. Any single leading or
// trailing quote left on a field is stripped and the field is trimmed.
//
// Doubled-quote escaping ("") is NOT round-tripped: quotes only toggle
// state. The live data feed never emits escaped quotes and the previous
// parser behaved the same way, so this stays compatible with it.
//
// DecodeLine never fails and always returns at least one field.
func DecodeLine(line string) []string {
	var fields []string
	var cell strings.Builder
	inQuotes := false

	for _, ch := range line {
		switch {
		case ch == '"':
			inQuotes = !inQuotes
		case ch == ',' && !inQuotes:
			fields = append(fields, cell.String())
			cell.Reset()
		default:
			cell.WriteRune(ch)
		}
	}
	fields = append(fields, cell.String())

	for i, f := range fields {
		f = strings.TrimPrefix(f, `"`)
		f = strings.TrimSuffix(f, `"`)
		fields[i] = strings.TrimSpace(f)
	}
	return fields
}
