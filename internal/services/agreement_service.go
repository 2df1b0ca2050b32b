package services

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/rvaldez/rentora-api/internal/models"
	"github.com/rvaldez/rentora-api/pkg/logger"
)

//go:embed templates/agreement/*.html
var agreementTemplates embed.FS

// AgreementService renders lease agreement PDFs with wkhtmltopdf and stores
// them under the configured storage path.
type AgreementService struct {
	storagePath string
}

// NewAgreementService creates a new agreement service
func NewAgreementService(storagePath string) *AgreementService {
	dir := filepath.Join(storagePath, "agreements")
	_ = os.MkdirAll(dir, 0755)
	return &AgreementService{storagePath: storagePath}
}

type agreementData struct {
	AgreementNumber  string
	PropertyName     string
	PropertyAddress  string
	UnitName         string
	OwnerName        string
	OwnerEmail       string
	TenantName       string
	TenantEmail      string
	TenantPhone      string
	StartDate        string
	EndDate          string
	MonthlyRent      string
	MonthlyRentWords string
	SecurityDeposit  string
	AdvancePayment   string
	LateFeeAmount    string
	LateFeeAfterDays int
	NoticePeriodDays int
	PetAllowed       string
	SmokingAllowed   string
	SignedDate       string
}

// Generate renders the agreement for a lease and writes it to disk. Returns
// the stored file path, which the caller persists on the lease row.
func (s *AgreementService) Generate(ctx context.Context, lease *models.Lease, property *models.Property, unit *models.Unit, tenant, owner *models.User) (string, error) {
	data := agreementData{
		AgreementNumber:  lease.AgreementNumber,
		PropertyName:     property.Name,
		PropertyAddress:  property.Address,
		UnitName:         unit.Name,
		OwnerName:        owner.FullName,
		OwnerEmail:       owner.Email,
		TenantName:       tenant.FullName,
		TenantEmail:      tenant.Email,
		TenantPhone:      tenant.Phone,
		StartDate:        lease.LeaseStartDate.Format("January 2, 2006"),
		EndDate:          lease.LeaseEndDate.Format("January 2, 2006"),
		MonthlyRent:      fmt.Sprintf("%.2f", lease.MonthlyRent),
		MonthlyRentWords: AmountToWords(lease.MonthlyRent),
		SecurityDeposit:  fmt.Sprintf("%.2f", lease.SecurityDeposit),
		AdvancePayment:   fmt.Sprintf("%.2f", lease.AdvancePayment),
		LateFeeAmount:    fmt.Sprintf("%.2f", lease.Terms.LateFeeAmount),
		LateFeeAfterDays: lease.Terms.LateFeeAfterDays,
		NoticePeriodDays: lease.Terms.NoticePeriodDays,
		PetAllowed:       yesNo(lease.Terms.PetAllowed),
		SmokingAllowed:   yesNo(lease.Terms.SmokingAllowed),
	}
	if lease.SignedDate != nil {
		data.SignedDate = lease.SignedDate.Format("January 2, 2006")
	}

	pdf, err := s.renderPDF("lease_agreement.html", data)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.storagePath, "agreements", fmt.Sprintf("%s.pdf", lease.AgreementNumber))
	if err := os.WriteFile(path, pdf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("failed to write agreement file: %w", err)
	}

	return path, nil
}

// Remove deletes a generated agreement file, e.g. after a rolled-back
// move-in or when a regeneration replaces it.
func (s *AgreementService) Remove(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Warn("failed to remove agreement file", "path", path, "error", err)
	}
}

func (s *AgreementService) renderPDF(templateName string, data interface{}) (*bytes.Buffer, error) {
	tmpl, err := template.ParseFS(agreementTemplates, "templates/agreement/"+templateName)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", templateName, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create pdf generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.Grayscale.Set(false)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader(buf.Bytes()))
	page.EnableLocalFileAccess.Set(true)
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create pdf: %w", err)
	}

	return pdfg.Buffer(), nil
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
