package crm

import (
	"context"
	"fmt"
	"strings"

	"communityhub/internal/model"
)

// exportPageSize is the page size ExportCSV drives FetchHistory with.
const exportPageSize = 100

var csvHeader = []string{"Date", "Time", "Type", "Recipient", "Email", "Subject", "Status", "Error"}

// ExportCSV walks the filtered history page by page and serializes it.
// Returns the document and its filename (notifications_<ISO-date>.csv).
func (s *Service) ExportCSV(ctx context.Context, networkID string, f model.HistoryFilter) ([]byte, string, error) {
	f.Limit = exportPageSize
	f.Page = 0

	rows := []NotificationRecord{}
	for {
		page := s.FetchHistory(ctx, networkID, f)
		if page.Error != "" {
			return nil, "", fmt.Errorf("export aborted at page %d: %s", f.Page, page.Error)
		}

		rows = append(rows, page.Notifications...)

		if len(page.Notifications) < exportPageSize || f.Page+1 >= page.TotalPages {
			break
		}
		f.Page++
	}

	var b strings.Builder
	writeCSVRow(&b, csvHeader)
	for _, n := range rows {
		errMsg := ""
		if n.ErrorMessage != nil {
			errMsg = *n.ErrorMessage
		}
		writeCSVRow(&b, []string{
			n.CreatedAt.Format("2006-01-02"),
			n.CreatedAt.Format("15:04:05"),
			n.Type,
			n.RecipientName,
			n.RecipientEmail,
			n.SubjectLine,
			n.Status,
			errMsg,
		})
	}

	filename := fmt.Sprintf("notifications_%s.csv", s.now().Format("2006-01-02"))
	return []byte(b.String()), filename, nil
}

// writeCSVRow quotes every cell and doubles embedded quotes (RFC 4180).
func writeCSVRow(b *strings.Builder, cells []string) {
	for i, cell := range cells {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(cell, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteByte('\n')
}
