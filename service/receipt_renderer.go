package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// ReceiptRenderer turns receipt HTML into printable and previewable artifacts
type ReceiptRenderer interface {
	RenderPDF(ctx context.Context, html string) ([]byte, error)
	RenderPreview(ctx context.Context, html string) ([]byte, error)
}

// ChromeRenderer renders receipts with a headless Chrome/Chromium through chromedp
type ChromeRenderer struct {
	chromePath string
	timeout    time.Duration
}

// Ensure ChromeRenderer implements ReceiptRenderer
var _ ReceiptRenderer = (*ChromeRenderer)(nil)

// NewChromeRenderer creates a renderer. An empty chromePath triggers detection.
func NewChromeRenderer(chromePath string) *ChromeRenderer {
	if chromePath == "" {
		chromePath = detectChromePath()
	}
	return &ChromeRenderer{chromePath: chromePath, timeout: 30 * time.Second}
}

// detectChromePath checks common installation paths for Chrome/Chromium
func detectChromePath() string {
	paths := []string{
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/snap/bin/chromium",
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func (r *ChromeRenderer) browser(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox, // Required for running in Docker/containers
	)
	if r.chromePath != "" {
		opts = append(opts, chromedp.ExecPath(r.chromePath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	chromedpCtx, chromedpCancel := chromedp.NewContext(allocCtx)

	return chromedpCtx, func() {
		chromedpCancel()
		allocCancel()
		cancel()
	}
}

func dataURL(html string) string {
	return "data:text/html;charset=utf-8;base64," + base64.StdEncoding.EncodeToString([]byte(html))
}

// RenderPDF prints the receipt on an 80mm roll-sized page
func (r *ChromeRenderer) RenderPDF(ctx context.Context, html string) ([]byte, error) {
	chromedpCtx, cancel := r.browser(ctx)
	defer cancel()

	var pdfBuf []byte
	err := chromedp.Run(chromedpCtx,
		chromedp.Navigate(dataURL(html)),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// 80mm x 200mm = 3.15" x 7.87"
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(3.15).
				WithPaperHeight(7.87).
				WithMarginTop(0.2).
				WithMarginBottom(0.2).
				WithMarginLeft(0.1).
				WithMarginRight(0.1).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return pdfBuf, nil
}

// RenderPreview captures a PNG screenshot of the whole receipt
func (r *ChromeRenderer) RenderPreview(ctx context.Context, html string) ([]byte, error) {
	chromedpCtx, cancel := r.browser(ctx)
	defer cancel()

	var pngBuf []byte
	err := chromedp.Run(chromedpCtx,
		chromedp.EmulateViewport(302, 755), // 80mm wide at 96 DPI
		chromedp.Navigate(dataURL(html)),
		chromedp.WaitReady("body"),
		chromedp.FullScreenshot(&pngBuf, 100),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to capture receipt preview: %w", err)
	}
	return pngBuf, nil
}
