package render

import (
	"strings"

	"github.com/rezonia/customs-invoice/internal/aggregate"
)

const (
	tableFontSize   = 8.0
	subitemFontSize = 7.0
	subitemIndent   = 30.0
	cellPad         = 3.0
)

// Column widths sum to the content width; the description column takes the
// bulk of it.
var colWidths = [9]float64{22, 40, 37, 238, 40, 45, 45, 30, 35}

// colAligns is the default alignment per column: line number left, quantity
// and item number centered, description left, money right, origin and HS
// code centered.
var colAligns = [9]string{"L", "C", "C", "L", "R", "R", "R", "C", "C"}

// drawTable flows the item table down the page, repeating the bold header
// row after every page break. The page header itself repeats via the header
// func, so only the table header needs redrawing here.
func (d *doc) drawTable() {
	rows := d.agg.Rows

	d.drawHeaderRow(rows[0])

	for i, row := range rows[1:] {
		if d.remaining() < d.rowHeight(row) {
			d.pdf.AddPage()
			d.drawHeaderRow(rows[0])
		}
		// Alternating shade: odd data rows get the light-gray band.
		d.drawRow(row, i%2 == 1)
	}
}

func (d *doc) drawHeaderRow(header aggregate.Row) {
	pdf := d.pdf
	pdf.SetFont("Helvetica", "B", tableFontSize)
	pdf.SetLineWidth(0.5)

	y := pdf.GetY()
	x := marginLeft
	for c, cell := range header.Columns() {
		border := "B"
		if c == 0 {
			border = "BR"
		}
		pdf.SetXY(x, y)
		pdf.CellFormat(colWidths[c], lineHeight, cell, border, 0, colAligns[c], false, 0, "")
		x += colWidths[c]
	}
	pdf.SetLineWidth(1)
	pdf.SetY(y + lineHeight)
	pdf.SetFont("Helvetica", "", tableFontSize)
}

// drawRow draws one item row. Combo subitems render smaller, gray, italic,
// and indented, with right-aligned quantity and item-number cells; rows
// without a listed weight get that cell centered.
func (d *doc) drawRow(row aggregate.Row, shade bool) {
	pdf := d.pdf

	size := tableFontSize
	if row.IsSubitem() {
		size = subitemFontSize
	}
	pdf.SetFont("Helvetica", "", size)

	lines := d.descLines(row)
	height := float64(len(lines)) * lineHeight
	y := pdf.GetY()

	if shade {
		pdf.SetFillColor(240, 240, 240)
		pdf.Rect(marginLeft, y, contentWidth, height, "F")
	}

	if row.IsSubitem() {
		pdf.SetTextColor(102, 102, 102)
	}

	x := marginLeft
	for c, cell := range row.Columns() {
		align := colAligns[c]
		switch {
		case c == 3:
			// Description handled below, line by line.
		case c == 4 && row.ExtWeight == "-":
			align = "C"
		case row.IsSubitem() && (c == 1 || c == 2):
			align = "R"
		case row.IsSubitem() && (c == 7 || c == 8):
			pdf.SetTextColor(0, 0, 0)
		}
		if c != 3 {
			border := ""
			if c == 0 {
				border = "R"
			}
			pdf.SetXY(x, y)
			pdf.CellFormat(colWidths[c], height, cell, border, 0, align, false, 0, "")
		}
		x += colWidths[c]
	}

	descX := marginLeft + colWidths[0] + colWidths[1] + colWidths[2] + cellPad
	if row.IsSubitem() {
		pdf.SetTextColor(102, 102, 102)
		descX += subitemIndent
	}
	descStyle := ""
	if row.IsSubitem() {
		descStyle = "I"
	}
	for i, line := range lines {
		d.writeMarkup(descX, y+float64(i)*lineHeight+7, line, descStyle)
	}
	pdf.SetFontStyle("")
	pdf.SetTextColor(0, 0, 0)

	pdf.SetY(y + height)
}

// rowHeight returns the vertical space one row needs, accounting for wrapped
// and multi-line descriptions.
func (d *doc) rowHeight(row aggregate.Row) float64 {
	size := tableFontSize
	if row.IsSubitem() {
		size = subitemFontSize
	}
	d.pdf.SetFont("Helvetica", "", size)
	return float64(len(d.descLines(row))) * lineHeight
}

// descLines splits a description into display lines. Lines carrying inline
// markup (combo headers) keep their explicit breaks; plain lines wrap to the
// description column width.
func (d *doc) descLines(row aggregate.Row) []string {
	width := colWidths[3] - 2*cellPad
	if row.IsSubitem() {
		width -= subitemIndent
	}

	var lines []string
	for _, line := range strings.Split(row.Description, "\n") {
		if strings.Contains(line, "<") {
			lines = append(lines, line)
			continue
		}
		lines = append(lines, d.pdf.SplitText(line, width)...)
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	return lines
}

// writeMarkup writes text that may carry minimal <b>/<i>/<u> inline markup,
// toggling the font style per tag on top of the ambient base style. Unknown
// tags are dropped.
func (d *doc) writeMarkup(x, y float64, s, base string) {
	pdf := d.pdf
	var bold, italic, underline bool

	style := func() string {
		var b strings.Builder
		if bold {
			b.WriteByte('B')
		}
		if italic {
			b.WriteByte('I')
		}
		if underline {
			b.WriteByte('U')
		}
		return b.String()
	}

	emit := func(seg string) {
		pdf.SetFontStyle(mergeStyle(base, style()))
		pdf.Text(x, y, seg)
		x += pdf.GetStringWidth(seg)
	}

	for len(s) > 0 {
		open := strings.IndexByte(s, '<')
		if open < 0 {
			emit(s)
			break
		}
		if open > 0 {
			emit(s[:open])
			s = s[open:]
			continue
		}
		end := strings.IndexByte(s, '>')
		if end < 0 {
			emit(s)
			break
		}
		switch strings.ToLower(s[1:end]) {
		case "b":
			bold = true
		case "/b":
			bold = false
		case "i":
			italic = true
		case "/i":
			italic = false
		case "u":
			underline = true
		case "/u":
			underline = false
		}
		s = s[end+1:]
	}
	pdf.SetFontStyle(base)
}

// mergeStyle unions the ambient font style with the markup style.
func mergeStyle(base, markup string) string {
	merged := markup
	for _, ch := range base {
		if !strings.ContainsRune(merged, ch) {
			merged += string(ch)
		}
	}
	return merged
}
