package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"creditdesk/internal/model"
	"creditdesk/pkg/apperr"

	"github.com/xuri/excelize/v2"
)

// Export format constants
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// exportRowCap bounds a single export; larger datasets need filtering
const exportRowCap = 10000

// ExportFile is a rendered report ready to stream to the client
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders read-only projections of bills, credits and the
// audit trail. Every export writes an EXPORT audit row.
type ExportService interface {
	ExportBills(ctx context.Context, actor Actor, format string, filter BillFilter) (*ExportFile, error)
	ExportCredits(ctx context.Context, actor Actor, format string, filter CreditFilter) (*ExportFile, error)
	ExportAuditLogs(ctx context.Context, actor Actor, format string, filter AuditLogFilter) (*ExportFile, error)
}

type exportService struct {
	billSvc   BillService
	creditSvc CreditService
	auditSvc  AuditService
}

func NewExportService(billSvc BillService, creditSvc CreditService, auditSvc AuditService) ExportService {
	return &exportService{billSvc: billSvc, creditSvc: creditSvc, auditSvc: auditSvc}
}

func (s *exportService) ExportBills(ctx context.Context, actor Actor, format string, filter BillFilter) (*ExportFile, error) {
	filter.Page = 1
	filter.Limit = exportRowCap

	bills, _, err := s.billSvc.ListBills(ctx, filter)
	if err != nil {
		return nil, err
	}

	header := []string{"Bill No", "Type", "Vendor", "Salesman", "Amount", "Bill Date", "Payment Method", "Verification Status", "Created At"}
	rows := make([][]string, 0, len(bills))
	for _, b := range bills {
		rows = append(rows, []string{
			b.BillNo, b.BillType, b.VendorName, b.SalesmanName,
			b.Amount, b.BillDate, b.PaymentMethod, b.VerificationStatus, b.CreatedAt,
		})
	}

	return s.render(ctx, actor, "bills", format, header, rows)
}

func (s *exportService) ExportCredits(ctx context.Context, actor Actor, format string, filter CreditFilter) (*ExportFile, error) {
	filter.Page = 1
	filter.Limit = exportRowCap

	credits, _, err := s.creditSvc.ListCredits(ctx, filter)
	if err != nil {
		return nil, err
	}

	header := []string{"Bill No", "Vendor", "Salesman", "Amount", "Due Date", "Status", "Cleared At", "Created At"}
	rows := make([][]string, 0, len(credits))
	for _, c := range credits {
		clearedAt := ""
		if c.ClearedAt != nil {
			clearedAt = *c.ClearedAt
		}
		rows = append(rows, []string{
			c.BillNo, c.VendorName, c.SalesmanName,
			c.Amount, c.DueDate, c.Status, clearedAt, c.CreatedAt,
		})
	}

	return s.render(ctx, actor, "credits", format, header, rows)
}

func (s *exportService) ExportAuditLogs(ctx context.Context, actor Actor, format string, filter AuditLogFilter) (*ExportFile, error) {
	filter.Page = 1
	filter.Limit = exportRowCap

	logs, _, err := s.auditSvc.ListLogs(ctx, filter)
	if err != nil {
		return nil, err
	}

	header := []string{"Time", "User", "Action", "Entity", "Entity ID", "IP Address", "Success", "Details"}
	rows := make([][]string, 0, len(logs))
	for _, l := range logs {
		success := "yes"
		if !l.Success {
			success = "no"
		}
		rows = append(rows, []string{
			l.CreatedAt, l.Username, l.Action, l.EntityType, l.EntityID, l.IPAddress, success, l.Details,
		})
	}

	return s.render(ctx, actor, "audit_logs", format, header, rows)
}

// render produces the file in the requested format and records the export
func (s *exportService) render(ctx context.Context, actor Actor, name, format string, header []string, rows [][]string) (*ExportFile, error) {
	var file *ExportFile
	var err error

	switch format {
	case FormatCSV, "":
		file, err = renderCSV(name, header, rows)
	case FormatXLSX:
		file, err = renderXLSX(name, header, rows)
	default:
		return nil, fmt.Errorf("unsupported export format %q: %w", format, apperr.ErrValidation)
	}
	if err != nil {
		return nil, err
	}

	s.auditSvc.Record(ctx, actor, AuditEntry{
		Action:     model.ActionExport,
		EntityType: model.EntityReport,
		EntityID:   name,
		Details:    map[string]interface{}{"format": file.ContentType, "rows": len(rows)},
		Success:    true,
	})

	return file, nil
}

func renderCSV(name string, header []string, rows [][]string) (*ExportFile, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}

	return &ExportFile{
		Filename:    exportFilename(name, "csv"),
		ContentType: "text/csv",
		Data:        buf.Bytes(),
	}, nil
}

func renderXLSX(name string, header []string, rows [][]string) (*ExportFile, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const sheet = "Sheet1"

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4472C4"}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, h := range header {
		cell, cellErr := excelize.CoordinatesToCellName(i+1, 1)
		if cellErr != nil {
			return nil, cellErr
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("failed to write header cell: %w", err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return nil, fmt.Errorf("failed to style header cell: %w", err)
		}
	}

	for r, row := range rows {
		for c, value := range row {
			cell, cellErr := excelize.CoordinatesToCellName(c+1, r+2)
			if cellErr != nil {
				return nil, cellErr
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write cell: %w", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}

	return &ExportFile{
		Filename:    exportFilename(name, "xlsx"),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Data:        buf.Bytes(),
	}, nil
}

func exportFilename(name, ext string) string {
	return fmt.Sprintf("%s_%s.%s", name, time.Now().Format("20060102_150405"), ext)
}
