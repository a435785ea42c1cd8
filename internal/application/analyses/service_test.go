package analyses

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/compliance-review/internal/domain/analyses"
	"github.com/bryanwahyu/compliance-review/internal/infra/memstore"
)

type stepClock struct {
	mu   sync.Mutex
	t    time.Time
	step time.Duration
}

func newStepClock() *stepClock {
	return &stepClock{
		t:    time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		step: time.Second,
	}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(c.step)
	return c.t
}

func newTestService() *Service {
	return &Service{
		Repo:   memstore.New(newStepClock()),
		Scorer: domain.Scorer{},
	}
}

func TestSubmitScoresAndStores(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	const text = "a privacy breach was reported by the audit team"
	res, err := svc.Submit(ctx, SubmitCommand{Text: text})
	require.NoError(t, err)

	assert.NotEmpty(t, res.ID)
	assert.Equal(t, domain.StatusPendingReview, res.Status)
	assert.Equal(t, domain.Scorer{}.Score(text), res.Score, "stored score must match the pure scoring function")

	got, err := svc.Get(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, text, got.Text)
	assert.Equal(t, res.Score, got.Score)
	assert.Equal(t, res.CreatedAt, got.CreatedAt)
	assert.Nil(t, got.ReviewedAt)
}

func TestSubmitAcceptsEmptyText(t *testing.T) {
	svc := newTestService()

	res, err := svc.Submit(context.Background(), SubmitCommand{Text: ""})
	require.NoError(t, err)
	assert.Equal(t, 70.0, res.Score.OverallScore)
	assert.Contains(t, res.Score.Flags, "text too short for proper analysis")
}

func TestDecideApprove(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	sub, err := svc.Submit(ctx, SubmitCommand{Text: "routine submission for approval"})
	require.NoError(t, err)

	res, err := svc.Decide(ctx, DecideCommand{ID: sub.ID, Decision: "approve", Notes: "checked manually"})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusApproved, res.Status)
	assert.False(t, res.ReviewedAt.Before(sub.CreatedAt))

	got, err := svc.Get(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, got.Status)
	assert.Equal(t, "checked manually", got.ReviewerNotes)
}

func TestDecideReject(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	sub, err := svc.Submit(ctx, SubmitCommand{Text: "routine submission for rejection"})
	require.NoError(t, err)

	res, err := svc.Decide(ctx, DecideCommand{ID: sub.ID, Decision: "reject", Notes: "policy violation"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, res.Status)
}

func TestDecideIsCaseInsensitive(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	sub, err := svc.Submit(ctx, SubmitCommand{Text: "mixed case decision value"})
	require.NoError(t, err)

	res, err := svc.Decide(ctx, DecideCommand{ID: sub.ID, Decision: "Approve"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, res.Status)
}

func TestDecideInvalidDecision(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	sub, err := svc.Submit(ctx, SubmitCommand{Text: "text awaiting a verdict"})
	require.NoError(t, err)

	_, err = svc.Decide(ctx, DecideCommand{ID: sub.ID, Decision: "escalate"})
	assert.ErrorIs(t, err, domain.ErrInvalidDecision)

	// The record must be untouched by the rejected decision value.
	got, err := svc.Get(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPendingReview, got.Status)
	assert.Nil(t, got.ReviewedAt)
}

func TestDecideTwiceFailsAlreadyReviewed(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	sub, err := svc.Submit(ctx, SubmitCommand{Text: "decided exactly once"})
	require.NoError(t, err)

	_, err = svc.Decide(ctx, DecideCommand{ID: sub.ID, Decision: "approve"})
	require.NoError(t, err)

	_, err = svc.Decide(ctx, DecideCommand{ID: sub.ID, Decision: "reject"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAlreadyReviewed)

	var ar *domain.AlreadyReviewedError
	require.ErrorAs(t, err, &ar)
	assert.Equal(t, domain.StatusApproved, ar.Status)
}

func TestDecideUnknownID(t *testing.T) {
	svc := newTestService()

	_, err := svc.Decide(context.Background(), DecideCommand{ID: "missing", Decision: "approve"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListPendingOldestFirst(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	first, err := svc.Submit(ctx, SubmitCommand{Text: "first in the queue"})
	require.NoError(t, err)
	second, err := svc.Submit(ctx, SubmitCommand{Text: "second in the queue"})
	require.NoError(t, err)
	third, err := svc.Submit(ctx, SubmitCommand{Text: "third in the queue"})
	require.NoError(t, err)

	pending, err := svc.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 3)
	assert.Equal(t, first.ID, pending[0].ID)
	assert.Equal(t, second.ID, pending[1].ID)
	assert.Equal(t, third.ID, pending[2].ID)
}

func TestListReviewsNewestFirstWithFilter(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	a, err := svc.Submit(ctx, SubmitCommand{Text: "older submission"})
	require.NoError(t, err)
	b, err := svc.Submit(ctx, SubmitCommand{Text: "newer submission"})
	require.NoError(t, err)

	_, err = svc.Decide(ctx, DecideCommand{ID: a.ID, Decision: "approve"})
	require.NoError(t, err)

	all, err := svc.ListReviews(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, b.ID, all[0].ID, "newest first")

	approved := domain.StatusApproved
	filtered, err := svc.ListReviews(ctx, &approved)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, a.ID, filtered[0].ID)
}

func TestStatistics(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	texts := []string{
		"a fully compliant gdpr privacy consent secure text",
		"an unremarkable text with nothing special in it",
		"a breach and a leak in the same report text",
	}
	var sum float64
	ids := make([]domain.AnalysisID, 0, len(texts))
	for _, text := range texts {
		res, err := svc.Submit(ctx, SubmitCommand{Text: text})
		require.NoError(t, err)
		sum += res.Score.OverallScore
		ids = append(ids, res.ID)
	}

	_, err := svc.Decide(ctx, DecideCommand{ID: ids[0], Decision: "approve"})
	require.NoError(t, err)
	_, err = svc.Decide(ctx, DecideCommand{ID: ids[1], Decision: "approve"})
	require.NoError(t, err)

	st, err := svc.Statistics(ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, st.Total)
	assert.Equal(t, 1, st.Pending)
	assert.Equal(t, 2, st.Approved)
	assert.Equal(t, 0, st.Rejected)
	assert.InDelta(t, sum/3, st.AverageScore, 1e-9)
}

// capturingArchive records Put calls so the background archive can be awaited.
type capturingArchive struct {
	calls chan archiveCall
}

type archiveCall struct {
	key  string
	data []byte
}

func (c *capturingArchive) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	c.calls <- archiveCall{key: key, data: data}
	return "http://archive/" + key, nil
}

func TestDecideArchivesReviewedReport(t *testing.T) {
	archive := &capturingArchive{calls: make(chan archiveCall, 1)}
	svc := newTestService()
	svc.Archive = archive
	ctx := context.Background()

	sub, err := svc.Submit(ctx, SubmitCommand{Text: "archived after review"})
	require.NoError(t, err)

	_, err = svc.Decide(ctx, DecideCommand{ID: sub.ID, Decision: "approve", Notes: "ok"})
	require.NoError(t, err)

	select {
	case call := <-archive.calls:
		assert.Contains(t, call.key, string(sub.ID))
		assert.Contains(t, call.key, "approved")

		var archived domain.Analysis
		require.NoError(t, json.Unmarshal(call.data, &archived))
		assert.Equal(t, sub.ID, archived.ID)
		assert.Equal(t, domain.StatusApproved, archived.Status)
		assert.Equal(t, "ok", archived.ReviewerNotes)
	case <-time.After(2 * time.Second):
		t.Fatal("archive was never called")
	}
}
