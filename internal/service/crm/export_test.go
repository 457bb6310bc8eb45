package crm

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"communityhub/internal/model"
)

func TestExportCSVQuoting(t *testing.T) {
	created := time.Date(2026, 3, 18, 9, 30, 15, 0, time.UTC)
	entry := entryAt(created, model.TypeNews, model.StatusSent)
	entry.SubjectLine = `He said "hi"`
	entry.RecipientName = "Alice, Jr."
	entry.RecipientEmail = "alice@example.com"

	store := &fakeHistoryStore{entries: []model.NotificationWithRecipient{entry}, total: 1}
	svc := newTestService(store)
	svc.now = func() time.Time { return created }

	data, filename, err := svc.ExportCSV(context.Background(), "net-1", model.HistoryFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if filename != "notifications_2026-03-18.csv" {
		t.Errorf("filename = %q", filename)
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus one row, got %d lines", len(lines))
	}
	if lines[0] != `"Date","Time","Type","Recipient","Email","Subject","Status","Error"` {
		t.Errorf("unexpected header %q", lines[0])
	}

	row := lines[1]
	if !strings.Contains(row, `"He said ""hi"""`) {
		t.Errorf("expected embedded quotes doubled, row was %q", row)
	}
	if !strings.Contains(row, `"Alice, Jr."`) {
		t.Errorf("expected comma-bearing cell preserved inside quotes, row was %q", row)
	}
	if !strings.Contains(row, `"2026-03-18","09:30:15"`) {
		t.Errorf("expected date and time cells, row was %q", row)
	}
	if !strings.Contains(row, `"sent"`) {
		t.Errorf("expected derived status cell, row was %q", row)
	}
}

func TestExportCSVWalksAllPages(t *testing.T) {
	total := 250 // 2 full pages of 100 plus a short final page
	var pagesServed []int

	store := &fakeHistoryStore{}
	store.pager = func(f model.HistoryFilter) ([]model.NotificationWithRecipient, int) {
		pagesServed = append(pagesServed, f.Page)
		start := f.Page * f.Limit
		n := f.Limit
		if start+n > total {
			n = total - start
		}
		rows := make([]model.NotificationWithRecipient, 0, n)
		for i := 0; i < n; i++ {
			e := entryAt(time.Now(), model.TypeNews, model.StatusPending)
			e.SubjectLine = fmt.Sprintf("row %d", start+i)
			rows = append(rows, e)
		}
		return rows, total
	}

	data, _, err := newTestService(store).ExportCSV(context.Background(), "net-1", model.HistoryFilter{Limit: 7, Page: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Caller paging is ignored; the export always restarts at page 0 with
	// its own page size.
	if len(pagesServed) != 3 || pagesServed[0] != 0 || pagesServed[2] != 2 {
		t.Fatalf("expected pages 0..2 served, got %v", pagesServed)
	}

	lines := strings.Count(string(data), "\n")
	if lines != total+1 {
		t.Errorf("expected %d lines including header, got %d", total+1, lines)
	}
}

func TestExportCSVStopsOnShortPage(t *testing.T) {
	store := &fakeHistoryStore{}
	store.pager = func(f model.HistoryFilter) ([]model.NotificationWithRecipient, int) {
		if f.Page > 0 {
			return nil, 30
		}
		rows := make([]model.NotificationWithRecipient, 30)
		for i := range rows {
			rows[i] = entryAt(time.Now(), model.TypeNews, model.StatusPending)
		}
		return rows, 30
	}

	data, _, err := newTestService(store).ExportCSV(context.Background(), "net-1", model.HistoryFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := strings.Count(string(data), "\n"); got != 31 {
		t.Errorf("expected 31 lines, got %d", got)
	}
}

func TestExportCSVPropagatesFetchError(t *testing.T) {
	store := &fakeHistoryStore{listErr: fmt.Errorf("db unavailable")}

	if _, _, err := newTestService(store).ExportCSV(context.Background(), "net-1", model.HistoryFilter{}); err == nil {
		t.Fatal("expected export to abort on fetch error")
	}
}
