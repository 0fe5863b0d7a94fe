package reporting

import (
	"strconv"
	"strings"

	"github.com/spec-kit/backoffice-service/internal/domain"
)

const (
	LicenseExportFilename = "license-management-export.csv"
	LeadExportFilename    = "sales-leads-export.csv"
)

var (
	licenseExportHeader = []string{"ID", "Customer", "Company", "Type", "Seats", "Status", "Start Date", "End Date", "Price", "Features"}
	leadExportHeader    = []string{"Name", "Company", "Email", "Value", "Status", "Source", "AssignedTo", "CreatedAt", "NextAction", "Probability"}
)

// ExportLicensesCSV renders licenses with every value wrapped in double quotes.
// Embedded quotes and commas are written verbatim; downstream tooling relies on
// this exact layout.
func ExportLicensesCSV(licenses []domain.License) []byte {
	rows := make([]string, 0, len(licenses)+1)
	rows = append(rows, strings.Join(licenseExportHeader, ","))
	for _, lic := range licenses {
		rows = append(rows, quotedRow(
			lic.ID,
			lic.CustomerName,
			lic.Company,
			string(lic.Type),
			strconv.Itoa(lic.Seats),
			string(lic.Status),
			lic.StartDate.Format(domain.DateLayout),
			lic.EndDate.Format(domain.DateLayout),
			"$"+strconv.FormatInt(lic.Price, 10),
			strings.Join(lic.Features, "; "),
		))
	}
	return []byte(strings.Join(rows, "\n"))
}

// ExportLeadsCSV renders leads without any quoting.
func ExportLeadsCSV(leads []domain.SalesLead) []byte {
	rows := make([]string, 0, len(leads)+1)
	rows = append(rows, strings.Join(leadExportHeader, ","))
	for _, lead := range leads {
		rows = append(rows, strings.Join([]string{
			lead.Name,
			lead.Company,
			lead.Email,
			strconv.FormatInt(lead.Value, 10),
			string(lead.Status),
			lead.Source,
			lead.AssignedTo,
			lead.CreatedAt.Format(domain.DateLayout),
			lead.NextAction,
			strconv.Itoa(lead.Probability),
		}, ","))
	}
	return []byte(strings.Join(rows, "\n"))
}

func quotedRow(values ...string) string {
	var b strings.Builder
	for i, v := range values {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(v)
		b.WriteByte('"')
	}
	return b.String()
}
