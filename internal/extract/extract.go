package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// Supported document MIME types.
const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var (
	// ErrUnsupportedType is returned for documents that are neither PDF nor DOCX.
	ErrUnsupportedType = errors.New("unsupported mime type")
	// ErrEmptyDocument is returned when a document yields no text at all.
	ErrEmptyDocument = errors.New("document contains no extractable text")
)

// Text is the plain text of a document plus what the converter learned about it.
type Text struct {
	Content   string
	PageCount int
}

// TextFromBytes extracts text from an in-memory PDF or DOCX payload.
func TextFromBytes(ctx context.Context, data []byte, mimeType string, fileName string) (Text, error) {
	if err := ctx.Err(); err != nil {
		return Text{}, err
	}
	normalized := NormalizeMimeType(mimeType, fileName, data)
	var (
		out Text
		err error
	)
	switch normalized {
	case MimePDF:
		out, err = extractPDF(data)
	case MimeDOCX:
		out, err = extractDOCX(data)
	default:
		return Text{}, fmt.Errorf("%w: %s", ErrUnsupportedType, normalized)
	}
	if err != nil {
		return Text{}, fmt.Errorf("extract %s: %w", normalized, err)
	}
	if strings.TrimSpace(out.Content) == "" {
		return Text{}, ErrEmptyDocument
	}
	return out, nil
}

// Supported reports whether the normalized MIME type can be converted to text.
func Supported(mimeType string) bool {
	return mimeType == MimePDF || mimeType == MimeDOCX
}

func extractPDF(data []byte) (Text, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return Text{}, err
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return Text{}, err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return Text{}, err
	}
	return Text{Content: buf.String(), PageCount: pdfReader.NumPage()}, nil
}

func extractDOCX(data []byte) (Text, error) {
	if len(data) == 0 {
		return Text{}, errors.New("empty docx data")
	}
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Text{}, err
	}
	defer doc.Close()

	return Text{Content: stripDocxXML(doc.Editable().GetContent())}, nil
}

func stripDocxXML(raw string) string {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return raw
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.WriteString(string(t))
		case xml.EndElement:
			if t.Name.Local == "p" || t.Name.Local == "br" {
				if buf.Len() > 0 {
					buf.WriteString("\n")
				}
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

// NormalizeMimeType maps sniffed or declared content types onto the supported set.
// Sniffers report DOCX as application/zip, so the archive layout and extension decide.
func NormalizeMimeType(mimeType string, fileName string, data []byte) string {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	ext := strings.ToLower(filepath.Ext(fileName))
	switch {
	case clean == MimePDF:
		return MimePDF
	case clean == "application/octet-stream" && ext == ".pdf" && bytes.HasPrefix(data, []byte("%PDF")):
		return MimePDF
	case clean != "application/zip" && clean != "application/octet-stream":
		return clean
	}

	if isWordArchive(data) {
		return MimeDOCX
	}
	return clean
}

func isWordArchive(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return false
	}
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == "word/document.xml" {
			return true
		}
	}
	return false
}
