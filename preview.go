package chordgen

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Preview page dimensions in inches (US Letter format).
const (
	previewPaperWidth  = 8.5
	previewPaperHeight = 11
	previewMargin      = 0.5
)

const defaultPreviewTimeout = 30 * time.Second

// PreviewPrinter renders an HTML preview page to PDF bytes.
type PreviewPrinter interface {
	Print(ctx context.Context, htmlContent string) ([]byte, error)
	Close() error
}

// RodPrinter implements PreviewPrinter using headless Chrome via go-rod.
// Rod automatically downloads Chromium on first run if not found.
type RodPrinter struct {
	browser *rod.Browser
	timeout time.Duration
}

var _ PreviewPrinter = (*RodPrinter)(nil)

// NewRodPrinter creates a RodPrinter with the default timeout.
func NewRodPrinter() *RodPrinter {
	return &RodPrinter{timeout: defaultPreviewTimeout}
}

// ensureBrowser lazily launches and connects to the browser.
func (p *RodPrinter) ensureBrowser() error {
	if p.browser != nil {
		return nil
	}

	l := launcher.New()

	// Use a pre-installed browser when specified (containerized environments).
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments.
	if os.Getenv("CI") == "true" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	p.browser = rod.New().ControlURL(u)
	if err := p.browser.Connect(); err != nil {
		p.browser = nil
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	return nil
}

// Close releases browser resources.
func (p *RodPrinter) Close() error {
	if p.browser != nil {
		err := p.browser.Close()
		p.browser = nil
		return err
	}
	return nil
}

// Print opens the HTML content in headless Chrome and prints it to PDF.
func (p *RodPrinter) Print(ctx context.Context, htmlContent string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := p.ensureBrowser(); err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp("", "chordgen-preview-*.html")
	if err != nil {
		return nil, fmt.Errorf("%w: creating temp file: %v", ErrPreviewRender, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)
	if _, err := tmp.WriteString(htmlContent); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("%w: writing temp file: %v", ErrPreviewRender, err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("%w: closing temp file: %v", ErrPreviewRender, err)
	}

	page, err := p.browser.Page(proto.TargetCreateTarget{URL: "file://" + tmpPath})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPreviewRender, err)
	}
	defer page.Close()

	timeout := p.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}
	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPreviewRender, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := page.PDF(&proto.PagePrintToPDF{
		PaperWidth:      floatPtr(previewPaperWidth),
		PaperHeight:     floatPtr(previewPaperHeight),
		MarginTop:       floatPtr(previewMargin),
		MarginBottom:    floatPtr(previewMargin),
		MarginLeft:      floatPtr(previewMargin),
		MarginRight:     floatPtr(previewMargin),
		PrintBackground: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPreviewRender, err)
	}

	pdfBuf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPreviewRender, err)
	}
	return pdfBuf, nil
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}
