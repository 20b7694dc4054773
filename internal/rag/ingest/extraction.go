package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dslipak/pdf"
	"github.com/lu4p/cat"
	"github.com/ndadi/PersonaRAG/internal/config"
	"github.com/ndadi/PersonaRAG/internal/domain/commonModels"
)

// ExtractText turns a raw document payload into plain text, dispatching on the
// declared media type. Unsupported types fail before any parsing is attempted.
func ExtractText(data []byte, mediaType string) (string, error) {
	switch mediaType {
	case commonModels.MediaTypeTxt:
		return string(data), nil
	case commonModels.MediaTypePDF:
		text, err := extractPDF(data)
		if err != nil {
			return "", commonModels.NewPipelineError(commonModels.ErrExtraction, "Failed to parse file", err)
		}
		return text, nil
	case commonModels.MediaTypeDocx:
		text, err := extractDocx(data)
		if err != nil {
			return "", commonModels.NewPipelineError(commonModels.ErrExtraction, "Failed to parse file", err)
		}
		return text, nil
	default:
		return "", commonModels.NewPipelineError(commonModels.ErrInput, "Unsupported file type", nil)
	}
}

func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		logger.Error("failed opening pdf payload")
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}

	var sb strings.Builder
	numPages := reader.NumPage()
	logger.Debug("extractPDF", "number of pages", numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		content, err := protectExtract(page)
		if err != nil {
			// A single broken page should not sink the document.
			logger.Error("Error parsing page content", "page", i, "error", err)
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(content)
	}
	return sb.String(), nil
}

// extractDocx hands the payload to cat, which dispatches on the file extension.
func extractDocx(data []byte) (string, error) {
	tmp, err := os.CreateTemp("", "ingest-*.docx")
	if err != nil {
		return "", fmt.Errorf("failed to stage docx payload: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to stage docx payload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to stage docx payload: %w", err)
	}

	text, err := cat.File(tmp.Name())
	if err != nil {
		logger.Error("Error extracting content from doc")
		return "", fmt.Errorf("failed to extract docx: %w", err)
	}
	return text, nil
}

// protectExtract runs a page extraction in its own goroutine. The pdf library can
// hang or panic on malformed content streams.
func protectExtract(page pdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				resChan <- result{"", fmt.Errorf("page extraction panicked: %v", r)}
			}
		}()
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()
	select {
	case r := <-resChan:
		return r.content, r.err
	case <-time.After(config.PDFPageTimeout):
		return "", errors.New("timeout")
	}
}
