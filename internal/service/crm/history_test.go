package crm

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"communityhub/internal/model"
)

type fakeHistoryStore struct {
	entries    []model.NotificationWithRecipient
	total      int
	listErr    error
	statsErr   error
	lastFilter model.HistoryFilter
	deleted    int64
	deleteErr  error

	// pager, when set, overrides the canned entries with per-page results.
	pager func(f model.HistoryFilter) ([]model.NotificationWithRecipient, int)
}

func (f *fakeHistoryStore) List(ctx context.Context, networkID string, filter model.HistoryFilter) ([]model.NotificationWithRecipient, int, error) {
	f.lastFilter = filter
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	if f.pager != nil {
		rows, total := f.pager(filter)
		return rows, total, nil
	}
	return f.entries, f.total, nil
}

func (f *fakeHistoryStore) AllForStats(ctx context.Context, networkID string) ([]model.NotificationQueueEntry, error) {
	if f.statsErr != nil {
		return nil, f.statsErr
	}
	entries := make([]model.NotificationQueueEntry, 0, len(f.entries))
	for _, e := range f.entries {
		entries = append(entries, e.NotificationQueueEntry)
	}
	return entries, nil
}

func (f *fakeHistoryStore) DeleteForNetwork(ctx context.Context, networkID string) (int64, error) {
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	return f.deleted, nil
}

func newTestService(store *fakeHistoryStore) *Service {
	return NewService(store, nil, nil, nil, zap.NewNop())
}

func TestFetchHistoryDefaultsAndTotalPages(t *testing.T) {
	store := &fakeHistoryStore{
		entries: []model.NotificationWithRecipient{{}},
		total:   41,
	}

	page := newTestService(store).FetchHistory(context.Background(), "net-1", model.HistoryFilter{})

	if store.lastFilter.Limit != defaultPageSize {
		t.Errorf("expected default limit %d, got %d", defaultPageSize, store.lastFilter.Limit)
	}
	if page.Page != 0 {
		t.Errorf("expected page 0, got %d", page.Page)
	}
	if page.TotalCount != 41 {
		t.Errorf("expected total 41, got %d", page.TotalCount)
	}
	// 41 rows at 20 per page round up to 3 pages.
	if page.TotalPages != 3 {
		t.Errorf("expected 3 total pages, got %d", page.TotalPages)
	}
}

func TestFetchHistoryNegativePageClamped(t *testing.T) {
	store := &fakeHistoryStore{}

	page := newTestService(store).FetchHistory(context.Background(), "net-1", model.HistoryFilter{Page: -3})

	if store.lastFilter.Page != 0 || page.Page != 0 {
		t.Errorf("expected negative page clamped to 0, store saw %d, response says %d", store.lastFilter.Page, page.Page)
	}
}

func TestFetchHistoryErrorYieldsEmptyPage(t *testing.T) {
	store := &fakeHistoryStore{listErr: errors.New("relation does not exist")}

	page := newTestService(store).FetchHistory(context.Background(), "net-1", model.HistoryFilter{})

	if page.Notifications == nil || len(page.Notifications) != 0 {
		t.Errorf("expected empty non-nil notifications slice, got %#v", page.Notifications)
	}
	if page.TotalCount != 0 || page.TotalPages != 0 {
		t.Errorf("expected zero counts on error, got total=%d pages=%d", page.TotalCount, page.TotalPages)
	}
	if page.Error == "" {
		t.Error("expected error message on the page shape")
	}
}

func TestClearQueue(t *testing.T) {
	store := &fakeHistoryStore{deleted: 7}

	deleted, err := newTestService(store).ClearQueue(context.Background(), "net-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != 7 {
		t.Errorf("expected 7 deleted, got %d", deleted)
	}
}

func TestClearQueueError(t *testing.T) {
	store := &fakeHistoryStore{deleteErr: errors.New("permission denied")}

	if _, err := newTestService(store).ClearQueue(context.Background(), "net-1"); err == nil {
		t.Fatal("expected delete error to propagate")
	}
}

func strPtr(s string) *string { return &s }

func TestStatusPartitionIsTotal(t *testing.T) {
	tests := []struct {
		name  string
		entry model.NotificationQueueEntry
		want  model.SentStatus
	}{
		{"sent", model.NotificationQueueEntry{IsSent: true}, model.StatusSent},
		{"pending", model.NotificationQueueEntry{}, model.StatusPending},
		{"failed", model.NotificationQueueEntry{ErrorMessage: strPtr("smtp timeout")}, model.StatusFailed},
		{"failed wins over sent flag", model.NotificationQueueEntry{IsSent: true, ErrorMessage: strPtr("late bounce")}, model.StatusFailed},
		{"empty error string is not a failure", model.NotificationQueueEntry{ErrorMessage: strPtr("")}, model.StatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.entry.Status(); got != tt.want {
				t.Errorf("Status() = %s, want %s", got, tt.want)
			}
		})
	}
}

func entryAt(created time.Time, typ model.NotificationType, status model.SentStatus) model.NotificationWithRecipient {
	e := model.NotificationQueueEntry{Type: typ, CreatedAt: created}
	switch status {
	case model.StatusSent:
		e.IsSent = true
	case model.StatusFailed:
		e.ErrorMessage = strPtr("delivery failed")
	}
	return model.NotificationWithRecipient{NotificationQueueEntry: e}
}
