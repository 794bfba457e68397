package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PageSeparator joins the text of consecutive pages.
const PageSeparator = "\n\n"

// ExtractionError reports a document that could not be opened or read.
type ExtractionError struct {
	Message string
	Page    int // 1-based; zero when the failure is not page specific
	Cause   error
}

func (e *ExtractionError) Error() string {
	msg := "failed to extract text from PDF: " + e.Message
	if e.Page > 0 {
		msg = fmt.Sprintf("%s (page %d)", msg, e.Page)
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// PDFExtractor satisfies the resume parser's text extractor dependency.
type PDFExtractor struct{}

// ExtractText implements the extractor interface by delegating to PDFText.
func (PDFExtractor) ExtractText(ctx context.Context, data []byte) (string, error) {
	return PDFText(ctx, data)
}

// PDFText extracts plain text from PDF bytes, page by page in document order.
// Library used: github.com/ledongthuc/pdf. The library panics on some malformed
// streams; those panics surface as *ExtractionError.
func PDFText(ctx context.Context, data []byte) (text string, err error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", &ExtractionError{Message: "empty document"}
	}

	page := 0
	defer func() {
		if rec := recover(); rec != nil {
			text = ""
			err = &ExtractionError{Message: "parser panic", Page: page, Cause: fmt.Errorf("%v", rec)}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractionError{Message: "cannot open document", Cause: err}
	}

	numPages := reader.NumPage()
	pages := make([]string, 0, numPages)
	for page = 1; page <= numPages; page++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		p := reader.Page(page)
		if p.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		pageText, err := p.GetPlainText(nil)
		if err != nil {
			return "", &ExtractionError{Message: "cannot read page text", Page: page, Cause: err}
		}
		pages = append(pages, pageText)
	}

	return strings.Join(pages, PageSeparator), nil
}

// IsExtractionError reports whether err is, or wraps, an *ExtractionError.
func IsExtractionError(err error) bool {
	var target *ExtractionError
	return errors.As(err, &target)
}
