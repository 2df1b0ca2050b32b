package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/rvaldez/rentora-api/internal/models"
	"github.com/rvaldez/rentora-api/internal/repository"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ExportService produces rent roll exports and tenant statements
type ExportService struct {
	propertyRepo repository.PropertyRepository
	paymentRepo  repository.PaymentRepository
	userRepo     repository.UserRepository
}

func NewExportService(
	propertyRepo repository.PropertyRepository,
	paymentRepo repository.PaymentRepository,
	userRepo repository.UserRepository,
) *ExportService {
	return &ExportService{
		propertyRepo: propertyRepo,
		paymentRepo:  paymentRepo,
		userRepo:     userRepo,
	}
}

// RentRollRow is one unit line in the rent roll
type RentRollRow struct {
	PropertyName string
	UnitName     string
	Status       string
	TenantName   string
	RentAmount   float64
}

func (s *ExportService) buildRentRoll(ctx context.Context, actor Actor) ([]RentRollRow, error) {
	var properties []models.Property
	var err error

	if actor.IsAdmin() {
		properties, err = s.propertyRepo.FindAllWithUnits(ctx)
	} else {
		properties, err = s.propertyRepo.FindByOwner(ctx, actor.ID)
	}
	if err != nil {
		return nil, err
	}

	var rows []RentRollRow
	for i := range properties {
		property := &properties[i]
		for j := range property.Units {
			unit := &property.Units[j]
			row := RentRollRow{
				PropertyName: property.Name,
				UnitName:     unit.Name,
				Status:       unit.Status,
				RentAmount:   unit.RentAmount,
			}
			if unit.Tenant != nil {
				row.TenantName = unit.Tenant.FullName
			}
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// ExportRentRollCSV renders the caller's rent roll as CSV
func (s *ExportService) ExportRentRollCSV(ctx context.Context, actor Actor) ([]byte, string, error) {
	rows, err := s.buildRentRoll(ctx, actor)
	if err != nil {
		return nil, "", err
	}

	buf := new(bytes.Buffer)
	writer := csv.NewWriter(buf)

	_ = writer.Write([]string{"Rent Roll", time.Now().Format("2006-01-02 15:04")})
	_ = writer.Write([]string{""})
	_ = writer.Write([]string{"Property", "Unit", "Status", "Tenant", "Monthly Rent"})

	for _, row := range rows {
		_ = writer.Write([]string{
			row.PropertyName,
			row.UnitName,
			row.Status,
			row.TenantName,
			fmt.Sprintf("%.2f", row.RentAmount),
		})
	}

	writer.Flush()

	filename := fmt.Sprintf("rent_roll_%s.csv", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

// ExportRentRollXLSX renders the caller's rent roll as an Excel workbook
func (s *ExportService) ExportRentRollXLSX(ctx context.Context, actor Actor) ([]byte, string, error) {
	rows, err := s.buildRentRoll(ctx, actor)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Rent Roll"
	_ = f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 12},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	_ = f.SetCellValue(sheet, "A1", "Rent Roll")
	_ = f.SetCellStyle(sheet, "A1", "A1", headerStyle)

	headers := []string{"Property", "Unit", "Status", "Tenant", "Monthly Rent"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 3)
		_ = f.SetCellValue(sheet, cell, h)
		_ = f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for i, row := range rows {
		r := i + 4
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", r), row.PropertyName)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", r), row.UnitName)
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", r), row.Status)
		_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", r), row.TenantName)
		_ = f.SetCellValue(sheet, fmt.Sprintf("E%d", r), row.RentAmount)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("rent_roll_%s.xlsx", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

// ExportTenantStatementPDF renders a tenant's payment history as a PDF
// statement. Tenants can export their own; admins anyone's.
func (s *ExportService) ExportTenantStatementPDF(ctx context.Context, actor Actor, tenantID uint) ([]byte, string, error) {
	if actor.IsTenant() && actor.ID != tenantID {
		return nil, "", forbiddenError("you can only export your own statement")
	}

	tenant, err := s.userRepo.FindByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", notFoundError("tenant")
		}
		return nil, "", err
	}

	payments, err := s.paymentRepo.FindByTenant(ctx, tenantID)
	if err != nil {
		return nil, "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Statement of Account")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(40, 10, fmt.Sprintf("Tenant: %s", tenant.FullName))
	pdf.Ln(6)
	pdf.Cell(40, 10, fmt.Sprintf("Generated: %s", time.Now().Format("January 2, 2006")))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(35, 8, "Month")
	pdf.Cell(25, 8, "Unit")
	pdf.Cell(30, 8, "Due Date")
	pdf.Cell(30, 8, "Amount")
	pdf.Cell(30, 8, "Status")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	var totalPaid, totalDue float64
	for _, payment := range payments {
		pdf.Cell(35, 7, payment.MonthLabel)
		pdf.Cell(25, 7, payment.UnitNumber)
		pdf.Cell(30, 7, payment.DueDate.Format("2006-01-02"))
		pdf.Cell(30, 7, fmt.Sprintf("%.2f", payment.Amount))
		pdf.Cell(30, 7, payment.Status)
		pdf.Ln(7)

		switch payment.Status {
		case models.PaymentStatusSucceeded:
			totalPaid += payment.Amount
		case models.PaymentStatusPending:
			totalDue += payment.Amount
		}
	}

	pdf.Ln(6)
	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(60, 8, fmt.Sprintf("Total paid: %.2f", totalPaid))
	pdf.Ln(6)
	pdf.Cell(60, 8, fmt.Sprintf("Outstanding: %.2f", totalDue))

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("statement_%d_%s.pdf", tenantID, time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}
