package service

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"storefront-orders/models"
	"storefront-orders/utils"
)

//go:embed templates/receipt.html
var receiptTemplateSource string

var receiptTemplate = template.Must(template.New("receipt").Parse(receiptTemplateSource))

// ReceiptConfig controls where generated receipts go
type ReceiptConfig struct {
	Dir           string
	DriveFolderID string
	Timeout       time.Duration
}

// ReceiptService renders a receipt for every committed order.
// Rendering runs in the background and never affects the order itself.
type ReceiptService struct {
	cfg      ReceiptConfig
	renderer ReceiptRenderer
	drive    DriveServiceInterface
	logger   *zap.SugaredLogger
	wg       sync.WaitGroup
}

// Ensure ReceiptService implements ReceiptPublisher
var _ ReceiptPublisher = (*ReceiptService)(nil)

// NewReceiptService creates a new ReceiptService. drive may be nil to keep receipts local.
func NewReceiptService(cfg ReceiptConfig, renderer ReceiptRenderer, drive DriveServiceInterface, logger *zap.SugaredLogger) *ReceiptService {
	if cfg.Timeout <= 0 {
		cfg.Timeout = time.Minute
	}
	return &ReceiptService{cfg: cfg, renderer: renderer, drive: drive, logger: logger}
}

// Publish schedules receipt generation for order and returns immediately
func (s *ReceiptService) Publish(order *models.Order) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Timeout)
		defer cancel()
		if _, err := s.Generate(ctx, order); err != nil {
			s.logger.Warnf("⚠️ Receipt: order=%s: %v", order.OrderID, err)
		}
	}()
}

// Wait blocks until every scheduled receipt is done
func (s *ReceiptService) Wait() {
	s.wg.Wait()
}

type receiptLine struct {
	Quantity  int
	Code      string
	Name      string
	UnitPrice string
	LineTotal string
}

type receiptView struct {
	Order       *models.Order
	Comprobante string
	IssuedAt    string
	Lines       []receiptLine
	Subtotal    string
	Shipping    string
	Total       string
}

// RenderHTML fills the receipt template for order
func (s *ReceiptService) RenderHTML(order *models.Order) (string, error) {
	view := receiptView{
		Order:       order,
		Comprobante: utils.Comprobante(order.OrderID),
		IssuedAt:    order.CreatedAt,
		Subtotal:    utils.FormatUSD(order.Subtotal),
		Shipping:    utils.FormatUSD(order.Shipping),
		Total:       utils.FormatUSD(order.Total),
	}
	if view.IssuedAt == "" {
		view.IssuedAt = time.Now().Format("2006-01-02 15:04")
	}
	for _, item := range order.Items {
		view.Lines = append(view.Lines, receiptLine{
			Quantity:  item.Quantity,
			Code:      item.Code,
			Name:      utils.DisplayName(item.Code, item.Name),
			UnitPrice: utils.FormatUSD(item.UnitPrice),
			LineTotal: utils.FormatUSD(item.LineTotal),
		})
	}

	var buf bytes.Buffer
	if err := receiptTemplate.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("failed to render receipt template: %w", err)
	}
	return buf.String(), nil
}

// ReceiptFiles lists the artifacts written for one order
type ReceiptFiles struct {
	PDFPath     string
	PreviewPath string
	DriveFileID string
}

// Generate renders the receipt PDF and a JPEG thumbnail, stores both under the receipt
// directory and uploads the PDF to Drive when a folder is configured
func (s *ReceiptService) Generate(ctx context.Context, order *models.Order) (*ReceiptFiles, error) {
	html, err := s.RenderHTML(order)
	if err != nil {
		return nil, err
	}

	pdf, err := s.renderer.RenderPDF(ctx, html)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(s.cfg.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create receipt directory: %w", err)
	}

	files := &ReceiptFiles{PDFPath: filepath.Join(s.cfg.Dir, order.OrderID+".pdf")}
	if err := os.WriteFile(files.PDFPath, pdf, 0644); err != nil {
		return nil, fmt.Errorf("failed to write receipt PDF: %w", err)
	}

	// a missing preview does not invalidate the receipt
	if screenshot, err := s.renderer.RenderPreview(ctx, html); err != nil {
		s.logger.Warnf("⚠️ Receipt: order=%s preview skipped: %v", order.OrderID, err)
	} else if thumb, err := OptimizeImage(screenshot, PreviewThumb, s.logger); err != nil {
		s.logger.Warnf("⚠️ Receipt: order=%s thumbnail skipped: %v", order.OrderID, err)
	} else {
		files.PreviewPath = filepath.Join(s.cfg.Dir, order.OrderID+"_thumb.jpg")
		if err := os.WriteFile(files.PreviewPath, thumb, 0644); err != nil {
			return nil, fmt.Errorf("failed to write receipt preview: %w", err)
		}
	}

	if s.drive != nil && s.cfg.DriveFolderID != "" {
		name := utils.Comprobante(order.OrderID) + ".pdf"
		id, err := s.drive.UploadFile(ctx, s.cfg.DriveFolderID, name, "application/pdf", pdf)
		if err != nil {
			return files, err
		}
		files.DriveFileID = id
	}

	s.logger.Infof("🧾 Receipt: order=%s written to %s", order.OrderID, files.PDFPath)
	return files, nil
}
