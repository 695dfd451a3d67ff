package extractor

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"jobscout/internal/logging"
)

// Document extraction failure kinds. Handlers map these onto the API error
// taxonomy, so they must stay comparable with errors.Is.
var (
	ErrUnsupportedFormat = errors.New("unsupported document format")
	ErrNoExtractableText = errors.New("no extractable text in document")
	ErrCorrupted         = errors.New("document is corrupted")
	ErrTimeout           = errors.New("document extraction timed out")
)

// DocumentExtractor turns uploaded resume files into plain text. Plain text
// and markdown pass through with whitespace cleanup; HTML is stripped down
// to its visible text.
type DocumentExtractor struct {
	logger logging.Logger
}

// NewDocumentExtractor creates a document text extractor
func NewDocumentExtractor() *DocumentExtractor {
	return &DocumentExtractor{
		logger: logging.GetGlobalLogger().WithField("component", "document_extractor"),
	}
}

// ExtractText extracts plain text from an uploaded document
func (de *DocumentExtractor) ExtractText(ctx context.Context, filename string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", ErrTimeout
	}

	ext := strings.ToLower(filepath.Ext(filename))

	var text string
	var err error
	switch ext {
	case ".txt", ".md", ".markdown":
		text, err = de.extractPlain(data)
	case ".html", ".htm":
		text, err = de.extractHTML(data)
	default:
		de.logger.Debug("Rejecting unsupported upload", map[string]interface{}{
			"filename": filename,
			"ext":      ext,
		})
		return "", ErrUnsupportedFormat
	}
	if err != nil {
		return "", err
	}

	text = collapseText(text)
	if text == "" {
		return "", ErrNoExtractableText
	}

	if err := ctx.Err(); err != nil {
		return "", ErrTimeout
	}
	return text, nil
}

func (de *DocumentExtractor) extractPlain(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", ErrCorrupted
	}
	return string(data), nil
}

func (de *DocumentExtractor) extractHTML(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", ErrCorrupted
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(data)))
	if err != nil {
		return "", ErrCorrupted
	}

	for _, tag := range []string{"script", "style", "noscript", "iframe", "nav", "footer"} {
		doc.Find(tag).Remove()
	}

	text := doc.Find("body").Text()
	if text == "" {
		text = doc.Text()
	}
	return text, nil
}

var multiSpaceRe = regexp.MustCompile(`[ \t]+`)
var multiNewlineRe = regexp.MustCompile(`\n{3,}`)

func collapseText(text string) string {
	text = multiSpaceRe.ReplaceAllString(text, " ")
	text = multiNewlineRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
