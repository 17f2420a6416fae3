package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"storefront-orders/models"
)

type fakeRenderer struct {
	preview    []byte
	previewErr error
	html       string
}

func (r *fakeRenderer) RenderPDF(ctx context.Context, html string) ([]byte, error) {
	r.html = html
	return []byte("%PDF-1.4 receipt"), nil
}

func (r *fakeRenderer) RenderPreview(ctx context.Context, html string) ([]byte, error) {
	return r.preview, r.previewErr
}

type fakeDrive struct {
	folder string
	name   string
	size   int
}

func (d *fakeDrive) UploadFile(ctx context.Context, folderID, name, mimeType string, data []byte) (string, error) {
	d.folder, d.name, d.size = folderID, name, len(data)
	return "drive-file-1", nil
}

func pngOf(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: 120, B: uint8(y % 256), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func sampleOrder() *models.Order {
	return &models.Order{
		OrderID:      "ORD_000234567_20261015_143000",
		UserID:       "0991234567",
		Subtotal:     money("9.00"),
		Shipping:     money("8.00"),
		Total:        money("17.00"),
		Status:       models.OrderStatusPending,
		CustomerInfo: validCustomer(),
		Items: []models.OrderItem{
			{LineNo: 1, ProductID: "W-7841", Code: "W-7841", Name: "Producto", UnitPrice: money("1.80"), Quantity: 5, LineTotal: money("9.00")},
		},
	}
}

func TestReceiptRenderHTML(t *testing.T) {
	svc := NewReceiptService(ReceiptConfig{Dir: t.TempDir()}, &fakeRenderer{}, nil, zaptest.NewLogger(t).Sugar())

	html, err := svc.RenderHTML(sampleOrder())
	require.NoError(t, err)
	assert.Contains(t, html, "ORD_000234567_20261015_143000")
	assert.Contains(t, html, "001-002-000234567")
	assert.Contains(t, html, "$17.00")
	assert.Contains(t, html, "$1.80")
	// generic names fall back to the product code
	assert.NotContains(t, html, "PRODUCTO")
	assert.Contains(t, html, "Guayaquil")
}

func TestReceiptGenerateWritesFilesAndUploads(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "receipts")
	renderer := &fakeRenderer{preview: pngOf(t, 302, 755)}
	drive := &fakeDrive{}
	svc := NewReceiptService(ReceiptConfig{Dir: dir, DriveFolderID: "folder-1"}, renderer, drive, zaptest.NewLogger(t).Sugar())

	files, err := svc.Generate(context.Background(), sampleOrder())
	require.NoError(t, err)

	pdf, err := os.ReadFile(files.PDFPath)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 receipt", string(pdf))

	thumb, err := os.ReadFile(files.PreviewPath)
	require.NoError(t, err)
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(thumb))
	require.NoError(t, err)
	assert.Equal(t, 300, cfg.Height)

	assert.Equal(t, "drive-file-1", files.DriveFileID)
	assert.Equal(t, "folder-1", drive.folder)
	assert.Equal(t, "001-002-000234567.pdf", drive.name)
	assert.Equal(t, len(pdf), drive.size)
}

func TestReceiptGenerateWithoutPreview(t *testing.T) {
	renderer := &fakeRenderer{previewErr: errors.New("no browser")}
	svc := NewReceiptService(ReceiptConfig{Dir: t.TempDir()}, renderer, nil, zaptest.NewLogger(t).Sugar())

	files, err := svc.Generate(context.Background(), sampleOrder())
	require.NoError(t, err)
	assert.FileExists(t, files.PDFPath)
	assert.Empty(t, files.PreviewPath)
	assert.Empty(t, files.DriveFileID)
}

func TestReceiptPublishRunsInBackground(t *testing.T) {
	dir := t.TempDir()
	svc := NewReceiptService(ReceiptConfig{Dir: dir}, &fakeRenderer{previewErr: errors.New("skip")}, nil, zaptest.NewLogger(t).Sugar())

	svc.Publish(sampleOrder())
	svc.Wait()

	assert.FileExists(t, filepath.Join(dir, "ORD_000234567_20261015_143000.pdf"))
}

func TestOptimizeImage(t *testing.T) {
	logger := zaptest.NewLogger(t).Sugar()

	out, err := OptimizeImage(pngOf(t, 1200, 600), PreviewMedium, logger)
	require.NoError(t, err)
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 800, cfg.Width)
	assert.Equal(t, 400, cfg.Height)

	// small images keep their size
	out, err = OptimizeImage(pngOf(t, 100, 50), PreviewThumb, logger)
	require.NoError(t, err)
	cfg, err = jpeg.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Width)

	_, err = OptimizeImage([]byte("not an image"), PreviewThumb, logger)
	assert.Error(t, err)
}
