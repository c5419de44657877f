package document

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/gomutex/godocx"
)

const (
	fontName  = "Times New Roman"
	fontSize  = 12
	titleSize = 16
)

// Render produces a .docx artifact from generated minutes text. Each line of
// the summary becomes one paragraph, preceded by a bold title naming the
// template. Identical input yields an identical document body.
func Render(templateName, summaryText string) ([]byte, error) {
	doc, err := godocx.NewDocument()
	if err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}

	title := doc.AddParagraph("")
	title.AddText("Minutes of the Meeting - "+templateName).
		Font(fontName).Size(titleSize).Color("000000").Bold(true)

	for _, line := range strings.Split(summaryText, "\n") {
		p := doc.AddParagraph("")
		p.AddText(line).Font(fontName).Size(fontSize).Color("000000")
	}

	var buf bytes.Buffer
	if err := doc.Write(&buf); err != nil {
		return nil, fmt.Errorf("render document: %w", err)
	}
	return buf.Bytes(), nil
}
