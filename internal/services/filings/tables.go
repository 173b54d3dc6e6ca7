package filings

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ternarybob/moneta/internal/models"
)

// ParseTables extracts up to maxTables tables from rendered filing HTML.
// Filing pages stack several header rows per table; the header rows are
// flattened into one column name per position by joining non-empty parts
// with "_". Cells spanning multiple columns repeat their value across the
// span. Rows whose cells are all empty are dropped. A table that cannot be
// parsed is skipped; the remaining tables still count.
func ParseTables(html string, maxTables int) (models.TableSet, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse rendered page: %w", err)
	}

	var tables models.TableSet
	doc.Find("table").EachWithBreak(func(i int, table *goquery.Selection) bool {
		if maxTables > 0 && i >= maxTables {
			return false
		}

		parsed, ok := parseTable(table, i)
		if ok {
			tables = append(tables, parsed)
		}
		return true
	})

	if len(tables) == 0 {
		return nil, fmt.Errorf("no parseable tables found")
	}

	return tables, nil
}

// parseTable converts one table element into a FilingTable. Returns ok=false
// for tables with no usable rows.
func parseTable(table *goquery.Selection, index int) (models.FilingTable, bool) {
	var headerRows [][]string
	var dataRows [][]string

	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		if row.Find("th").Length() > 0 {
			headerRows = append(headerRows, expandCells(row.Find("th")))
			return
		}
		cells := expandCells(row.Find("td"))
		if !allEmpty(cells) {
			dataRows = append(dataRows, cells)
		}
	})

	if len(dataRows) == 0 {
		return models.FilingTable{}, false
	}

	width := 0
	for _, row := range dataRows {
		if len(row) > width {
			width = len(row)
		}
	}

	columns := flattenHeaders(headerRows, width)

	data := make([]map[string]string, 0, len(dataRows))
	for _, row := range dataRows {
		record := make(map[string]string, width)
		for c := 0; c < width; c++ {
			value := ""
			if c < len(row) {
				value = row[c]
			}
			record[columns[c]] = value
		}
		data = append(data, record)
	}

	return models.FilingTable{
		TableIndex: index,
		Preview:    buildPreview(columns, dataRows),
		Data:       data,
	}, true
}

// expandCells reads a row's cell texts, repeating cells across their colspan
func expandCells(cells *goquery.Selection) []string {
	var values []string
	cells.Each(func(_ int, cell *goquery.Selection) {
		text := strings.Join(strings.Fields(cell.Text()), " ")

		span := 1
		if attr, ok := cell.Attr("colspan"); ok {
			if n, err := strconv.Atoi(strings.TrimSpace(attr)); err == nil && n > 1 {
				span = n
			}
		}
		for i := 0; i < span; i++ {
			values = append(values, text)
		}
	})
	return values
}

// flattenHeaders joins stacked header rows into one name per column. Columns
// with no header text get a positional fallback name.
func flattenHeaders(headerRows [][]string, width int) []string {
	columns := make([]string, width)
	seen := make(map[string]int, width)

	for c := 0; c < width; c++ {
		var parts []string
		var last string
		for _, row := range headerRows {
			if c >= len(row) {
				continue
			}
			part := row[c]
			// Repeated spans produce the same text on consecutive levels
			if part != "" && part != last {
				parts = append(parts, part)
			}
			last = part
		}

		name := strings.Join(parts, "_")
		if name == "" {
			name = fmt.Sprintf("col_%d", c)
		}

		// Disambiguate duplicate names positionally
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = fmt.Sprintf("%s_%d", name, n+1)
		} else {
			seen[name] = 0
		}

		columns[c] = name
	}

	return columns
}

// buildPreview renders the column names and the first rows as an aligned
// text block for quick inspection in summaries and logs.
func buildPreview(columns []string, dataRows [][]string) string {
	const previewRows = 3

	rows := dataRows
	if len(rows) > previewRows {
		rows = rows[:previewRows]
	}

	widths := make([]int, len(columns))
	for c, name := range columns {
		widths[c] = len([]rune(name))
	}
	for _, row := range rows {
		for c := 0; c < len(columns) && c < len(row); c++ {
			if l := len([]rune(row[c])); l > widths[c] {
				widths[c] = l
			}
		}
	}

	var b strings.Builder
	writeRow := func(cells []string) {
		for c := 0; c < len(columns); c++ {
			value := ""
			if c < len(cells) {
				value = cells[c]
			}
			if c > 0 {
				b.WriteString("  ")
			}
			b.WriteString(value)
			if pad := widths[c] - len([]rune(value)); pad > 0 {
				b.WriteString(strings.Repeat(" ", pad))
			}
		}
		b.WriteString("\n")
	}

	writeRow(columns)
	for _, row := range rows {
		writeRow(row)
	}

	return strings.TrimRight(b.String(), "\n")
}

// allEmpty reports whether every cell in the row is empty
func allEmpty(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}
