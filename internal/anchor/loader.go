package anchor

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"go.uber.org/multierr"
	"golang.org/x/net/html"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

var (
	// ErrSourceNotFound is recorded when a source path does not exist.
	ErrSourceNotFound = errors.New("source not found")
	// ErrUnsupportedFormat is recorded for extensions no loader handles.
	ErrUnsupportedFormat = errors.New("unsupported source format")
	// ErrUnreadable is recorded when a source cannot be decoded.
	ErrUnreadable = errors.New("unreadable source")
)

// Document is a loaded source file.
// Errors halt processing of this document only; Warnings are informational.
type Document struct {
	Path       string
	Paragraphs []Paragraph
	Warnings   []string
	Errors     []error
}

// OK reports whether the document loaded without errors.
func (d *Document) OK() bool {
	return len(d.Errors) == 0
}

// Err folds the error list into a single error, or nil.
func (d *Document) Err() error {
	return multierr.Combine(d.Errors...)
}

// Text returns paragraphs joined by newlines.
func (d *Document) Text() string {
	parts := make([]string, len(d.Paragraphs))
	for i, p := range d.Paragraphs {
		parts[i] = p.Text
	}
	return strings.Join(parts, "\n")
}

// Loader reads source documents.
type Loader struct {
	fallback encoding.Encoding
	name     string
}

// NewLoader creates a loader. fallbackEncoding names the single-byte
// encoding tried when a text source is not valid UTF-8.
func NewLoader(fallbackEncoding string) (*Loader, error) {
	enc, name, err := lookupEncoding(fallbackEncoding)
	if err != nil {
		return nil, err
	}
	return &Loader{fallback: enc, name: name}, nil
}

func lookupEncoding(name string) (encoding.Encoding, string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "windows-1252", "cp1252":
		return charmap.Windows1252, "windows-1252", nil
	case "iso-8859-1", "latin1", "latin-1":
		return charmap.ISO8859_1, "iso-8859-1", nil
	case "iso-8859-15", "latin9":
		return charmap.ISO8859_15, "iso-8859-15", nil
	default:
		return nil, "", fmt.Errorf("unknown fallback encoding %q", name)
	}
}

// Load reads one source file. It never returns an error; problems are
// recorded on the Document.
func (l *Loader) Load(path string) *Document {
	doc := &Document{Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			doc.Errors = append(doc.Errors, fmt.Errorf("%w: %s", ErrSourceNotFound, path))
		} else {
			doc.Errors = append(doc.Errors, fmt.Errorf("%w: %s: %v", ErrUnreadable, path, err))
		}
		return doc
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md", ".markdown":
		text, ok := l.decode(doc, data)
		if !ok {
			return doc
		}
		for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
			doc.Paragraphs = append(doc.Paragraphs, Paragraph{Text: line})
		}
	case ".html", ".htm":
		text, ok := l.decode(doc, data)
		if !ok {
			return doc
		}
		paras, err := htmlParagraphs(text)
		if err != nil {
			doc.Errors = append(doc.Errors, fmt.Errorf("%w: %s: %v", ErrUnreadable, path, err))
			return doc
		}
		doc.Paragraphs = paras
	case ".docx":
		paras, err := docxParagraphs(data)
		if err != nil {
			doc.Errors = append(doc.Errors, fmt.Errorf("%w: %s: %v", ErrUnreadable, path, err))
			return doc
		}
		doc.Paragraphs = paras
	default:
		doc.Errors = append(doc.Errors, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path)))
	}
	return doc
}

// LoadBatch loads every path independently and returns the documents in
// order along with the combined error of all failed documents.
func (l *Loader) LoadBatch(paths []string) ([]*Document, error) {
	docs := make([]*Document, 0, len(paths))
	var errs error
	for _, p := range paths {
		d := l.Load(p)
		docs = append(docs, d)
		errs = multierr.Append(errs, d.Err())
	}
	return docs, errs
}

func (l *Loader) decode(doc *Document, data []byte) (string, bool) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if utf8.Valid(data) {
		return string(data), true
	}
	out, err := l.fallback.NewDecoder().Bytes(data)
	if err != nil {
		doc.Errors = append(doc.Errors, fmt.Errorf("%w: %s: %v", ErrUnreadable, doc.Path, err))
		return "", false
	}
	doc.Warnings = append(doc.Warnings,
		fmt.Sprintf("%s is not valid UTF-8; decoded as %s", doc.Path, l.name))
	return string(out), true
}

// =============================================================================
// HTML
// =============================================================================

var htmlBlockTags = map[string]bool{
	"p": true, "li": true, "div": true, "td": true, "pre": true, "blockquote": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

// htmlParagraphs returns one paragraph per block element, with heading tags
// as style hints.
func htmlParagraphs(src string) ([]Paragraph, error) {
	root, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return nil, err
	}
	var paras []Paragraph
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "head":
				return
			}
			if htmlBlockTags[n.Data] && !hasBlockChild(n) {
				text := strings.Join(strings.Fields(nodeText(n)), " ")
				if text != "" {
					style := ""
					if strings.HasPrefix(n.Data, "h") {
						style = n.Data
					}
					paras = append(paras, Paragraph{Text: text, Style: style})
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return paras, nil
}

func hasBlockChild(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (htmlBlockTags[c.Data] || hasBlockChild(c)) {
			return true
		}
	}
	return false
}

func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(nodeText(c))
		sb.WriteByte(' ')
	}
	return sb.String()
}

// =============================================================================
// DOCX
// =============================================================================

// docxParagraphs reads word/document.xml and returns each w:p with its
// w:pStyle value as the style hint.
func docxParagraphs(data []byte) ([]Paragraph, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("not a docx archive: %w", err)
	}
	var docFile *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return nil, fmt.Errorf("word/document.xml missing")
	}
	rc, err := docFile.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	dec := xml.NewDecoder(rc)
	var (
		paras  []Paragraph
		inPara bool
		inText bool
		cur    strings.Builder
		style  string
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				inPara = true
				cur.Reset()
				style = ""
			case "pStyle":
				for _, a := range t.Attr {
					if a.Name.Local == "val" {
						style = docxStyleName(a.Value)
					}
				}
			case "t":
				inText = true
			case "tab":
				cur.WriteByte(' ')
			}
		case xml.CharData:
			if inPara && inText {
				cur.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				inPara = false
				paras = append(paras, Paragraph{Text: cur.String(), Style: style})
			}
		}
	}
	return paras, nil
}

// docxStyleName turns style ids like "Heading2" into "heading 2".
func docxStyleName(id string) string {
	s := strings.ToLower(id)
	if strings.HasPrefix(s, "heading") {
		n := strings.TrimSpace(strings.TrimPrefix(s, "heading"))
		if n != "" {
			return "heading " + n
		}
	}
	return s
}
