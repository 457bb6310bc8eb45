package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"go.uber.org/zap"

	"communityhub/internal/model"
)

type fakeQueueStore struct {
	batches   [][]*model.NotificationQueueEntry
	insertErr error
}

func (f *fakeQueueStore) InsertBatch(ctx context.Context, entries []*model.NotificationQueueEntry) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.batches = append(f.batches, entries)
	return nil
}

func (f *fakeQueueStore) inserted() []*model.NotificationQueueEntry {
	var all []*model.NotificationQueueEntry
	for _, b := range f.batches {
		all = append(all, b...)
	}
	return all
}

type fakeProfileStore struct {
	profiles map[string]*model.Profile
	findErr  error
}

func (f *fakeProfileStore) FindByID(ctx context.Context, id string) (*model.Profile, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	p, ok := f.profiles[id]
	if !ok {
		return nil, fmt.Errorf("profile %s not found", id)
	}
	return p, nil
}

func (f *fakeProfileStore) EligibleRecipients(ctx context.Context, networkID string, pref model.PreferenceField, excludeID string) ([]model.Profile, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	var out []model.Profile
	for _, p := range f.profiles {
		if p.NetworkID != networkID || p.ID == excludeID || !p.EmailNotificationsEnabled {
			continue
		}
		enabled := false
		switch pref {
		case model.PrefNews:
			enabled = p.NotifyOnNews
		case model.PrefEvents:
			enabled = p.NotifyOnEvents
		case model.PrefMentions:
			enabled = p.NotifyOnMentions
		case model.PrefDirectMessages:
			enabled = p.NotifyOnDirectMessages
		}
		if enabled {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProfileStore) NetworkAdmins(ctx context.Context, networkID string) ([]model.Profile, error) {
	var out []model.Profile
	for _, p := range f.profiles {
		if p.NetworkID == networkID && p.Role == model.RoleAdmin {
			out = append(out, *p)
		}
	}
	return out, nil
}

type fakeContentStore struct {
	news      map[string]*model.NewsItem
	events    map[string]*model.CommunityEvent
	portfolio map[string]*model.PortfolioItem
}

func (f *fakeContentStore) GetNewsItem(ctx context.Context, id string) (*model.NewsItem, error) {
	if item, ok := f.news[id]; ok {
		return item, nil
	}
	return nil, errors.New("news item not found")
}

func (f *fakeContentStore) GetEvent(ctx context.Context, id string) (*model.CommunityEvent, error) {
	if event, ok := f.events[id]; ok {
		return event, nil
	}
	return nil, errors.New("event not found")
}

func (f *fakeContentStore) GetPortfolioItem(ctx context.Context, id string) (*model.PortfolioItem, error) {
	if item, ok := f.portfolio[id]; ok {
		return item, nil
	}
	return nil, errors.New("portfolio item not found")
}

func newTestProducer(queue *fakeQueueStore, profiles *fakeProfileStore, content *fakeContentStore) *Producer {
	p := NewProducer(queue, profiles, content, zap.NewNop())
	seq := 0
	p.newID = func() string {
		seq++
		return fmt.Sprintf("id-%d", seq)
	}
	return p
}

func member(id, networkID string, prefs ...func(*model.Profile)) *model.Profile {
	p := &model.Profile{
		ID:                        id,
		NetworkID:                 networkID,
		FullName:                  "Member " + id,
		ContactEmail:              id + "@example.com",
		Role:                      model.RoleMember,
		EmailNotificationsEnabled: true,
		NotifyOnNews:              true,
		NotifyOnEvents:            true,
		NotifyOnMentions:          true,
		NotifyOnDirectMessages:    true,
	}
	for _, f := range prefs {
		f(p)
	}
	return p
}

func TestQueueNewsNotificationsExcludesAuthorAndOptOuts(t *testing.T) {
	queue := &fakeQueueStore{}
	profiles := &fakeProfileStore{profiles: map[string]*model.Profile{
		"author": member("author", "net-1"),
		"reader": member("reader", "net-1"),
		"optout": member("optout", "net-1", func(p *model.Profile) { p.NotifyOnNews = false }),
		"muted":  member("muted", "net-1", func(p *model.Profile) { p.EmailNotificationsEnabled = false }),
		"other":  member("other", "net-2"),
	}}
	content := &fakeContentStore{news: map[string]*model.NewsItem{
		"news-1": {ID: "news-1", NetworkID: "net-1", AuthorID: "author", Title: "Quarterly update"},
	}}

	res := newTestProducer(queue, profiles, content).QueueNewsNotifications(context.Background(), "news-1")

	if !res.Success {
		t.Fatalf("expected success, got error %q", res.Error)
	}
	if res.Count != 1 {
		t.Fatalf("expected 1 queued row, got %d", res.Count)
	}

	entries := queue.inserted()
	if len(entries) != 1 {
		t.Fatalf("expected 1 inserted entry, got %d", len(entries))
	}
	entry := entries[0]
	if entry.RecipientID != "reader" {
		t.Errorf("expected recipient reader, got %s", entry.RecipientID)
	}
	if entry.Type != model.TypeNews {
		t.Errorf("expected type news, got %s", entry.Type)
	}
	if entry.RelatedItemID == nil || *entry.RelatedItemID != "news-1" {
		t.Errorf("expected related item news-1, got %v", entry.RelatedItemID)
	}
	if entry.SubjectLine != "New news post: Quarterly update" {
		t.Errorf("unexpected subject line %q", entry.SubjectLine)
	}
	if entry.ContentPreview != "" {
		t.Errorf("bulk rows must carry empty previews, got %q", entry.ContentPreview)
	}
}

func TestQueueNewsNotificationsZeroRecipientsIsSuccess(t *testing.T) {
	queue := &fakeQueueStore{}
	profiles := &fakeProfileStore{profiles: map[string]*model.Profile{
		"author": member("author", "net-1"),
	}}
	content := &fakeContentStore{news: map[string]*model.NewsItem{
		"news-1": {ID: "news-1", NetworkID: "net-1", AuthorID: "author", Title: "Solo post"},
	}}

	res := newTestProducer(queue, profiles, content).QueueNewsNotifications(context.Background(), "news-1")

	if !res.Success || res.Count != 0 {
		t.Fatalf("expected success with count 0, got success=%v count=%d", res.Success, res.Count)
	}
	if len(queue.batches) != 0 {
		t.Fatalf("expected no insert for empty fan-out, got %d batches", len(queue.batches))
	}
}

func TestQueueNewsNotificationsLookupFailure(t *testing.T) {
	queue := &fakeQueueStore{}
	profiles := &fakeProfileStore{profiles: map[string]*model.Profile{}}
	content := &fakeContentStore{news: map[string]*model.NewsItem{}}

	res := newTestProducer(queue, profiles, content).QueueNewsNotifications(context.Background(), "missing")

	if res.Success {
		t.Fatal("expected failure for missing news item")
	}
	if res.Error == "" {
		t.Fatal("expected error message to be set")
	}
}

func TestQueueEventNotificationsInsertFailure(t *testing.T) {
	queue := &fakeQueueStore{insertErr: errors.New("connection reset")}
	profiles := &fakeProfileStore{profiles: map[string]*model.Profile{
		"creator": member("creator", "net-1"),
		"goer":    member("goer", "net-1"),
	}}
	content := &fakeContentStore{events: map[string]*model.CommunityEvent{
		"ev-1": {ID: "ev-1", NetworkID: "net-1", CreatedBy: "creator", Title: "Meetup"},
	}}

	res := newTestProducer(queue, profiles, content).QueueEventNotifications(context.Background(), "ev-1")

	if res.Success {
		t.Fatal("expected failure when the insert fails")
	}
	if !strings.Contains(res.Error, "connection reset") {
		t.Errorf("expected insert error surfaced, got %q", res.Error)
	}
}

func TestQueuePortfolioNotificationsUsesNewsOptIn(t *testing.T) {
	queue := &fakeQueueStore{}
	profiles := &fakeProfileStore{profiles: map[string]*model.Profile{
		"author":     member("author", "net-1"),
		"newsreader": member("newsreader", "net-1", func(p *model.Profile) { p.NotifyOnEvents = false }),
		"eventsonly": member("eventsonly", "net-1", func(p *model.Profile) { p.NotifyOnNews = false }),
	}}
	content := &fakeContentStore{portfolio: map[string]*model.PortfolioItem{
		"post-1": {ID: "post-1", NetworkID: "net-1", AuthorID: "author", Title: "My work"},
	}}

	res := newTestProducer(queue, profiles, content).QueuePortfolioNotifications(context.Background(), "post-1")

	if !res.Success || res.Count != 1 {
		t.Fatalf("expected 1 row, got success=%v count=%d error=%q", res.Success, res.Count, res.Error)
	}
	if got := queue.inserted()[0].RecipientID; got != "newsreader" {
		t.Errorf("expected the news opt-in to gate posts, recipient was %s", got)
	}
	if got := queue.inserted()[0].Type; got != model.TypePost {
		t.Errorf("expected type post, got %s", got)
	}
}

func TestQueueCommentNotificationPosterAndParentBothNotified(t *testing.T) {
	queue := &fakeQueueStore{}
	profiles := &fakeProfileStore{profiles: map[string]*model.Profile{
		"poster": member("poster", "net-1"),
		"parent": member("parent", "net-1"),
	}}

	res := newTestProducer(queue, profiles, &fakeContentStore{}).QueueCommentNotification(context.Background(), CommentNotificationInput{
		ItemType:              "news",
		ItemID:                "news-1",
		CommenterID:           "commenter",
		CommenterName:         "Casey",
		Content:               "Nice one",
		OriginalPosterID:      "poster",
		ParentCommentAuthorID: "parent",
		PostTitle:             "Quarterly update",
		IsReply:               true,
	})

	if !res.Success || res.Count != 2 {
		t.Fatalf("expected 2 rows, got success=%v count=%d", res.Success, res.Count)
	}

	entries := queue.inserted()
	if entries[0].Type != model.TypeComment || entries[0].RecipientID != "poster" {
		t.Errorf("first row should be the comment to the poster, got %s/%s", entries[0].Type, entries[0].RecipientID)
	}
	if entries[1].Type != model.TypeCommentReply || entries[1].RecipientID != "parent" {
		t.Errorf("second row should be the reply to the parent author, got %s/%s", entries[1].Type, entries[1].RecipientID)
	}
}

func TestQueueCommentNotificationPosterIsParentGetsTwoRows(t *testing.T) {
	queue := &fakeQueueStore{}
	profiles := &fakeProfileStore{profiles: map[string]*model.Profile{
		"poster": member("poster", "net-1"),
	}}

	res := newTestProducer(queue, profiles, &fakeContentStore{}).QueueCommentNotification(context.Background(), CommentNotificationInput{
		ItemID:                "news-1",
		CommenterID:           "commenter",
		CommenterName:         "Casey",
		OriginalPosterID:      "poster",
		ParentCommentAuthorID: "poster",
		IsReply:               true,
	})

	// The poster who also authored the parent comment gets both rows.
	if !res.Success || res.Count != 2 {
		t.Fatalf("expected 2 rows for poster==parent, got success=%v count=%d", res.Success, res.Count)
	}
}

func TestQueueCommentNotificationSelfCommentIsNoOp(t *testing.T) {
	queue := &fakeQueueStore{}
	profiles := &fakeProfileStore{profiles: map[string]*model.Profile{
		"poster": member("poster", "net-1"),
	}}

	res := newTestProducer(queue, profiles, &fakeContentStore{}).QueueCommentNotification(context.Background(), CommentNotificationInput{
		ItemID:           "news-1",
		CommenterID:      "poster",
		OriginalPosterID: "poster",
	})

	if !res.Success || res.Count != 0 {
		t.Fatalf("expected silent no-op for self comment, got success=%v count=%d", res.Success, res.Count)
	}
}

func TestQueueCommentNotificationRespectsNewsOptOut(t *testing.T) {
	queue := &fakeQueueStore{}
	profiles := &fakeProfileStore{profiles: map[string]*model.Profile{
		"poster": member("poster", "net-1", func(p *model.Profile) { p.NotifyOnNews = false }),
	}}

	res := newTestProducer(queue, profiles, &fakeContentStore{}).QueueCommentNotification(context.Background(), CommentNotificationInput{
		ItemID:           "news-1",
		CommenterID:      "commenter",
		OriginalPosterID: "poster",
	})

	if !res.Success || res.Count != 0 {
		t.Fatalf("expected opted-out poster to be skipped, got success=%v count=%d", res.Success, res.Count)
	}
}

func TestQueueCommentNotificationTruncatesPreview(t *testing.T) {
	queue := &fakeQueueStore{}
	profiles := &fakeProfileStore{profiles: map[string]*model.Profile{
		"poster": member("poster", "net-1"),
	}}

	long := strings.Repeat("a", 300)
	res := newTestProducer(queue, profiles, &fakeContentStore{}).QueueCommentNotification(context.Background(), CommentNotificationInput{
		ItemID:           "news-1",
		CommenterID:      "commenter",
		Content:          long,
		OriginalPosterID: "poster",
	})

	if !res.Success || res.Count != 1 {
		t.Fatalf("expected 1 row, got success=%v count=%d", res.Success, res.Count)
	}
	preview := queue.inserted()[0].ContentPreview
	if len(preview) != previewLimit+len("...") {
		t.Errorf("expected preview truncated to %d+ellipsis, got len %d", previewLimit, len(preview))
	}
	if !strings.HasSuffix(preview, "...") {
		t.Errorf("expected truncated preview to end with ellipsis")
	}
}

func TestQueueMentionNotification(t *testing.T) {
	tests := []struct {
		name        string
		profile     *model.Profile
		wantSuccess bool
		wantCount   int
		wantError   string
	}{
		{
			name:        "queued",
			profile:     member("mentioned", "net-1"),
			wantSuccess: true,
			wantCount:   1,
		},
		{
			name:        "opted out",
			profile:     member("mentioned", "net-1", func(p *model.Profile) { p.NotifyOnMentions = false }),
			wantSuccess: true,
			wantCount:   0,
		},
		{
			name:        "missing contact email",
			profile:     member("mentioned", "net-1", func(p *model.Profile) { p.ContactEmail = "" }),
			wantSuccess: false,
			wantError:   "mentioned user has no contact email configured",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			queue := &fakeQueueStore{}
			profiles := &fakeProfileStore{profiles: map[string]*model.Profile{
				tt.profile.ID: tt.profile,
			}}

			res := newTestProducer(queue, profiles, &fakeContentStore{}).
				QueueMentionNotification(context.Background(), "mentioned", "net-1", "Casey", "hey @you", "msg-1")

			if res.Success != tt.wantSuccess {
				t.Fatalf("success = %v, want %v (error %q)", res.Success, tt.wantSuccess, res.Error)
			}
			if res.Count != tt.wantCount {
				t.Errorf("count = %d, want %d", res.Count, tt.wantCount)
			}
			if tt.wantError != "" && res.Error != tt.wantError {
				t.Errorf("error = %q, want %q", res.Error, tt.wantError)
			}
		})
	}
}

func TestQueueDirectMessageNotificationSelfMessageIsNoOp(t *testing.T) {
	queue := &fakeQueueStore{}
	profiles := &fakeProfileStore{profiles: map[string]*model.Profile{}}

	res := newTestProducer(queue, profiles, &fakeContentStore{}).
		QueueDirectMessageNotification(context.Background(), "alice", "alice", "note to self", "msg-1")

	if !res.Success || res.Count != 0 {
		t.Fatalf("expected self message no-op, got success=%v count=%d", res.Success, res.Count)
	}
	if len(queue.batches) != 0 {
		t.Fatal("expected no profile lookup or insert for self messages")
	}
}

func TestQueueDirectMessageNotificationMissingEmail(t *testing.T) {
	queue := &fakeQueueStore{}
	profiles := &fakeProfileStore{profiles: map[string]*model.Profile{
		"bob": member("bob", "net-1", func(p *model.Profile) { p.ContactEmail = "" }),
	}}

	res := newTestProducer(queue, profiles, &fakeContentStore{}).
		QueueDirectMessageNotification(context.Background(), "bob", "alice", "hi", "msg-1")

	if res.Success {
		t.Fatal("expected failure for missing contact email")
	}
	if res.Error != "message recipient has no contact email configured" {
		t.Errorf("unexpected error %q", res.Error)
	}
}

func TestQueueEventProposalNotificationForAdmins(t *testing.T) {
	queue := &fakeQueueStore{}
	profiles := &fakeProfileStore{profiles: map[string]*model.Profile{
		"admin1":   member("admin1", "net-1", func(p *model.Profile) { p.Role = model.RoleAdmin }),
		"admin2":   member("admin2", "net-1", func(p *model.Profile) { p.Role = model.RoleAdmin; p.EmailNotificationsEnabled = false }),
		"proposer": member("proposer", "net-1", func(p *model.Profile) { p.Role = model.RoleAdmin }),
		"regular":  member("regular", "net-1"),
	}}

	res := newTestProducer(queue, profiles, &fakeContentStore{}).
		QueueEventProposalNotificationForAdmins(context.Background(), EventProposalInput{
			NetworkID:    "net-1",
			EventID:      "ev-1",
			ProposerID:   "proposer",
			ProposerName: "Pat",
			EventTitle:   "Workshop",
		})

	if !res.Success || res.Count != 1 {
		t.Fatalf("expected exactly the one eligible admin, got success=%v count=%d", res.Success, res.Count)
	}
	if got := queue.inserted()[0].RecipientID; got != "admin1" {
		t.Errorf("expected admin1, got %s", got)
	}
}

func TestQueueEventStatusNotificationRejectionReasonInPreview(t *testing.T) {
	queue := &fakeQueueStore{}
	profiles := &fakeProfileStore{profiles: map[string]*model.Profile{
		"creator": member("creator", "net-1"),
	}}

	res := newTestProducer(queue, profiles, &fakeContentStore{}).
		QueueEventStatusNotification(context.Background(), EventStatusInput{
			EventID:         "ev-1",
			CreatorID:       "creator",
			EventTitle:      "Workshop",
			Status:          model.EventStatusRejected,
			RejectionReason: "venue unavailable",
		})

	if !res.Success || res.Count != 1 {
		t.Fatalf("expected 1 row, got success=%v count=%d", res.Success, res.Count)
	}
	preview := queue.inserted()[0].ContentPreview
	if !strings.Contains(preview, "venue unavailable") {
		t.Errorf("expected rejection reason in preview, got %q", preview)
	}
}

func TestQueueEventStatusNotificationOptOut(t *testing.T) {
	queue := &fakeQueueStore{}
	profiles := &fakeProfileStore{profiles: map[string]*model.Profile{
		"creator": member("creator", "net-1", func(p *model.Profile) { p.NotifyOnEvents = false }),
	}}

	res := newTestProducer(queue, profiles, &fakeContentStore{}).
		QueueEventStatusNotification(context.Background(), EventStatusInput{
			EventID:    "ev-1",
			CreatorID:  "creator",
			EventTitle: "Workshop",
			Status:     model.EventStatusApproved,
		})

	if !res.Success || res.Count != 0 {
		t.Fatalf("expected opt-out to suppress quietly, got success=%v count=%d", res.Success, res.Count)
	}
}
