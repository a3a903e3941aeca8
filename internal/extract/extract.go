package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

const (
	MIMEPlainText = "text/plain"
	MIMEDocx      = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMEPDF       = "application/pdf"
	MIMEDoc       = "application/msword"
)

// ErrUnsupported is returned when no extractor handles a MIME type.
var ErrUnsupported = errors.New("no text extractor")

// BaseMIME strips parameters such as "; charset=utf-8".
func BaseMIME(mime string) string {
	base, _, _ := strings.Cut(mime, ";")
	return strings.ToLower(strings.TrimSpace(base))
}

// IsPlainText reports whether content of this type is stored verbatim at upload.
func IsPlainText(mime string) bool {
	return BaseMIME(mime) == MIMEPlainText
}

// Text returns the textual content of data given its sniffed MIME type.
func Text(mime string, data []byte) (string, error) {
	switch BaseMIME(mime) {
	case MIMEPlainText:
		if !utf8.Valid(data) {
			return "", fmt.Errorf("plain text is not valid UTF-8")
		}
		return string(data), nil
	case MIMEDocx:
		return Docx(data)
	default:
		return "", fmt.Errorf("%w for %s", ErrUnsupported, BaseMIME(mime))
	}
}

// Docx extracts the paragraph text of an Office Open XML document.
func Docx(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening docx archive: %w", err)
	}

	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("opening word/document.xml: %w", err)
		}
		defer rc.Close()
		return documentText(rc)
	}
	return "", fmt.Errorf("docx archive has no word/document.xml")
}

// documentText walks WordprocessingML, keeping w:t runs and turning
// paragraphs, breaks and tabs into whitespace.
func documentText(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)

	var (
		sb     strings.Builder
		inText bool
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parsing word/document.xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				sb.WriteByte('\t')
			case "br", "cr":
				sb.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}
	return strings.TrimSpace(sb.String()), nil
}
