package docsource

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const docxBody = "word/document.xml"

func readDocx(path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != docxBody {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("open %s: %w", docxBody, err)
		}
		defer rc.Close()
		return extractDocumentXML(rc)
	}
	return "", errors.New("docx has no " + docxBody)
}

// extractDocumentXML returns the non-empty top-level paragraphs, one per
// line, followed by one line per table row with its non-empty cells joined
// by " | ". Tables nested inside cells are skipped.
func extractDocumentXML(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)

	var (
		lines     []string
		rows      []string
		cellParas []string
		rowCells  []string
		para      strings.Builder
		tblDepth  int
		inPara    bool
		inRun     bool
		inText    bool
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("decode %s: %w", docxBody, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tbl":
				tblDepth++
			case "tr":
				if tblDepth == 1 {
					rowCells = rowCells[:0]
				}
			case "tc":
				if tblDepth == 1 {
					cellParas = cellParas[:0]
				}
			case "p":
				para.Reset()
				inPara = true
			case "r":
				inRun = true
			case "t":
				inText = true
			case "tab":
				// tab stops in paragraph properties share the name
				if inRun {
					para.WriteByte('\t')
				}
			case "br", "cr":
				if inRun {
					para.WriteByte('\n')
				}
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "r":
				inRun = false
			case "t":
				inText = false
			case "p":
				inPara = false
				switch tblDepth {
				case 0:
					if s := strings.TrimSpace(para.String()); s != "" {
						lines = append(lines, s)
					}
				case 1:
					cellParas = append(cellParas, para.String())
				}
			case "tc":
				if tblDepth == 1 {
					if s := strings.TrimSpace(strings.Join(cellParas, "\n")); s != "" {
						rowCells = append(rowCells, s)
					}
				}
			case "tr":
				if tblDepth == 1 && len(rowCells) > 0 {
					rows = append(rows, strings.Join(rowCells, " | "))
				}
			case "tbl":
				tblDepth--
			}

		case xml.CharData:
			if inPara && inText {
				para.Write(t)
			}
		}
	}

	return strings.Join(append(lines, rows...), "\n"), nil
}
