package extractor

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
)

// TableCellSeparator joins the non-empty cells of a DOCX table row.
const TableCellSeparator = " | "

var oleSignature = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// xmlNode keeps every element of word/document.xml in document order, so
// runs, hyperlinks and breaks come out the way Word lays them out.
type xmlNode struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Content  string     `xml:",chardata"`
	Children []xmlNode  `xml:",any"`
}

type wordDocument struct {
	XMLName xml.Name `xml:"document"`
	Body    xmlNode  `xml:"body"`
}

func (n xmlNode) attr(local string) string {
	for _, a := range n.Attrs {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

func (n xmlNode) children(local string) []xmlNode {
	var out []xmlNode
	for _, c := range n.Children {
		if c.XMLName.Local == local {
			out = append(out, c)
		}
	}
	return out
}

// ExtractDOCX returns the body paragraphs (one per line, whitespace-only
// ones skipped) followed by the body tables, one line per row with the
// non-empty cells joined by TableCellSeparator.
func ExtractDOCX(data []byte) (string, error) {
	if bytes.HasPrefix(data, oleSignature) {
		return "", ErrLegacyDOC
	}

	reader := bytes.NewReader(data)

	zipReader, err := zip.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read DOCX as ZIP: %w", err)
	}

	var documentFile *zip.File
	for _, file := range zipReader.File {
		if file.Name == "word/document.xml" {
			documentFile = file
			break
		}
	}

	if documentFile == nil {
		return "", fmt.Errorf("document.xml not found in DOCX")
	}

	xmlFile, err := documentFile.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open document.xml: %w", err)
	}
	defer xmlFile.Close()

	var doc wordDocument
	if err := xml.NewDecoder(xmlFile).Decode(&doc); err != nil {
		return "", fmt.Errorf("failed to parse document.xml: %w", err)
	}

	var textBuilder strings.Builder

	for _, para := range doc.Body.children("p") {
		text := paragraphText(para)
		if strings.TrimSpace(text) == "" {
			continue
		}
		textBuilder.WriteString(text)
		textBuilder.WriteString("\n")
	}

	for _, table := range doc.Body.children("tbl") {
		for _, row := range table.children("tr") {
			var cells []string
			for _, cell := range row.children("tc") {
				if text := strings.TrimSpace(cellText(cell)); text != "" {
					cells = append(cells, text)
				}
			}
			if len(cells) == 0 {
				continue
			}
			textBuilder.WriteString(strings.Join(cells, TableCellSeparator))
			textBuilder.WriteString("\n")
		}
	}

	return textBuilder.String(), nil
}

func paragraphText(p xmlNode) string {
	var sb strings.Builder
	for _, child := range p.Children {
		switch child.XMLName.Local {
		case "r":
			writeRunText(&sb, child)
		case "hyperlink":
			for _, run := range child.children("r") {
				writeRunText(&sb, run)
			}
		}
	}
	return sb.String()
}

func writeRunText(sb *strings.Builder, run xmlNode) {
	for _, c := range run.Children {
		switch c.XMLName.Local {
		case "t":
			sb.WriteString(c.Content)
		case "tab", "ptab":
			sb.WriteString("\t")
		case "cr":
			sb.WriteString("\n")
		case "br":
			// page and column breaks carry no text
			if t := c.attr("type"); t == "" || t == "textWrapping" {
				sb.WriteString("\n")
			}
		case "noBreakHyphen":
			sb.WriteString("-")
		}
	}
}

func cellText(tc xmlNode) string {
	paras := tc.children("p")
	parts := make([]string, 0, len(paras))
	for _, p := range paras {
		parts = append(parts, paragraphText(p))
	}
	return strings.Join(parts, "\n")
}
