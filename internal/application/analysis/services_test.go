package analysis

import (
	"context"
	"io"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/readtheroom/readtheroom/internal/domain/analysis"
	"github.com/readtheroom/readtheroom/internal/domain/payments"
)

type fakeAnalyzer struct {
	result domain.Result
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, chatText string) domain.Result {
	return f.result
}

type fakeRepo struct {
	analyses map[string]domain.StoredAnalysis
	ttls     map[string]time.Duration
	shares   map[string]json.RawMessage
	saveErr  error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		analyses: map[string]domain.StoredAnalysis{},
		ttls:     map[string]time.Duration{},
		shares:   map[string]json.RawMessage{},
	}
}

func (f *fakeRepo) SaveAnalysis(ctx context.Context, id string, rec domain.StoredAnalysis, ttl time.Duration) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.analyses[id] = rec
	f.ttls[id] = ttl
	return nil
}

func (f *fakeRepo) GetAnalysis(ctx context.Context, id string) (*domain.StoredAnalysis, error) {
	rec, ok := f.analyses[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &rec, nil
}

func (f *fakeRepo) SaveShare(ctx context.Context, id string, payload json.RawMessage, ttl time.Duration) error {
	f.shares[id] = payload
	return nil
}

func (f *fakeRepo) GetShare(ctx context.Context, id string) (json.RawMessage, error) {
	p, ok := f.shares[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

type fakeGateway struct {
	checkoutCalls []payments.CheckoutParams
	checkoutURL   string
	event         payments.Event
	parseErr      error
}

func (f *fakeGateway) CreateCheckoutSession(ctx context.Context, p payments.CheckoutParams) (string, error) {
	f.checkoutCalls = append(f.checkoutCalls, p)
	return f.checkoutURL, nil
}

func (f *fakeGateway) ParseWebhook(payload []byte, sigHeader string) (payments.Event, error) {
	if f.parseErr != nil {
		return payments.Event{}, f.parseErr
	}
	return f.event, nil
}

func testResult() domain.Result {
	return domain.Result{
		VibeHeadline: "Certified mess",
		Confidence:   89,
		Roast:        "Brutal.",
		RedFlags:     []string{"flag"},
		GreenFlags:   []string{},
	}
}

func newService(repo *fakeRepo, gw *fakeGateway) *Service {
	return &Service{
		Analyzer: &fakeAnalyzer{result: testResult()},
		Repo:     repo,
		Payments: gw,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestSubmitStoresUnpaidAndAttachesID(t *testing.T) {
	repo := newFakeRepo()
	svc := newService(repo, &fakeGateway{})

	res := svc.Submit(context.Background(), "some chat")

	require.NotEmpty(t, res.AnalysisID)
	assert.Equal(t, "Certified mess", res.VibeHeadline)

	stored, ok := repo.analyses[res.AnalysisID]
	require.True(t, ok)
	assert.False(t, stored.IsPaid)
	require.NotNil(t, stored.Result)
	assert.Equal(t, "Brutal.", stored.Result.Roast)
	assert.Equal(t, AnalysisTTL, repo.ttls[res.AnalysisID])
}

func TestSubmitSurvivesCacheFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.saveErr = errors.New("kv unreachable")
	svc := newService(repo, &fakeGateway{})

	res := svc.Submit(context.Background(), "some chat")

	// The user still gets their result even when caching fails.
	assert.NotEmpty(t, res.AnalysisID)
	assert.Equal(t, "Certified mess", res.VibeHeadline)
}

func TestGetMergesPaidFlag(t *testing.T) {
	repo := newFakeRepo()
	svc := newService(repo, &fakeGateway{})

	submitted := svc.Submit(context.Background(), "chat")

	got, err := svc.Get(context.Background(), submitted.AnalysisID)
	require.NoError(t, err)
	assert.False(t, got.IsPaid)
	assert.Equal(t, submitted.AnalysisID, got.AnalysisID)

	rec := repo.analyses[submitted.AnalysisID]
	rec.IsPaid = true
	repo.analyses[submitted.AnalysisID] = rec

	got, err = svc.Get(context.Background(), submitted.AnalysisID)
	require.NoError(t, err)
	assert.True(t, got.IsPaid)
}

func TestGetUnknownID(t *testing.T) {
	svc := newService(newFakeRepo(), &fakeGateway{})

	_, err := svc.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetRecordWithoutResult(t *testing.T) {
	repo := newFakeRepo()
	repo.analyses["broken"] = domain.StoredAnalysis{IsPaid: true}
	svc := newService(repo, &fakeGateway{})

	_, err := svc.Get(context.Background(), "broken")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateCheckout(t *testing.T) {
	repo := newFakeRepo()
	gw := &fakeGateway{checkoutURL: "https://pay.example/s/123"}
	svc := newService(repo, gw)

	res := svc.Submit(context.Background(), "chat")

	url, err := svc.CreateCheckout(context.Background(), res.AnalysisID, "https://readtheroom.app", "IN")
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/s/123", url)

	require.Len(t, gw.checkoutCalls, 1)
	call := gw.checkoutCalls[0]
	assert.Equal(t, res.AnalysisID, call.AnalysisID)
	assert.Equal(t, "https://readtheroom.app", call.Origin)
	assert.Equal(t, "INR", call.Tier.Currency)
}

func TestCreateCheckoutUnknownAnalysis(t *testing.T) {
	gw := &fakeGateway{}
	svc := newService(newFakeRepo(), gw)

	_, err := svc.CreateCheckout(context.Background(), "missing", "https://x", "US")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	// The payment provider must never be called for an unknown analysis.
	assert.Empty(t, gw.checkoutCalls)
}

func TestHandleWebhookInvalidSignature(t *testing.T) {
	repo := newFakeRepo()
	gw := &fakeGateway{parseErr: payments.ErrInvalidSignature}
	svc := newService(repo, gw)

	res := svc.Submit(context.Background(), "chat")

	err := svc.HandleWebhook(context.Background(), []byte("{}"), "bad-sig")
	assert.ErrorIs(t, err, payments.ErrInvalidSignature)
	assert.False(t, repo.analyses[res.AnalysisID].IsPaid)
}

func TestHandleWebhookMarksPaidAndPreservesResult(t *testing.T) {
	repo := newFakeRepo()
	gw := &fakeGateway{}
	svc := newService(repo, gw)

	res := svc.Submit(context.Background(), "chat")
	gw.event = payments.Event{Type: payments.EventCheckoutCompleted, AnalysisID: res.AnalysisID}

	err := svc.HandleWebhook(context.Background(), []byte("{}"), "sig")
	require.NoError(t, err)

	stored := repo.analyses[res.AnalysisID]
	assert.True(t, stored.IsPaid)
	require.NotNil(t, stored.Result)
	assert.Equal(t, "Certified mess", stored.Result.VibeHeadline)
	assert.Equal(t, "Brutal.", stored.Result.Roast)
	// TTL refreshed on the rewrite.
	assert.Equal(t, AnalysisTTL, repo.ttls[res.AnalysisID])
}

func TestHandleWebhookIgnoresUnrelatedEvents(t *testing.T) {
	repo := newFakeRepo()
	gw := &fakeGateway{event: payments.Event{Type: "invoice.paid"}}
	svc := newService(repo, gw)

	res := svc.Submit(context.Background(), "chat")

	err := svc.HandleWebhook(context.Background(), []byte("{}"), "sig")
	require.NoError(t, err)
	assert.False(t, repo.analyses[res.AnalysisID].IsPaid)
}

func TestHandleWebhookUnknownAnalysisAcked(t *testing.T) {
	gw := &fakeGateway{event: payments.Event{Type: payments.EventCheckoutCompleted, AnalysisID: "gone"}}
	svc := newService(newFakeRepo(), gw)

	assert.NoError(t, svc.HandleWebhook(context.Background(), []byte("{}"), "sig"))
}

func TestCreateShareRoundTrip(t *testing.T) {
	repo := newFakeRepo()
	svc := newService(repo, &fakeGateway{})

	payload := json.RawMessage(`{"vibeHeadline":"h","roast":"r","redFlags":[]}`)
	id, err := svc.CreateShare(context.Background(), payload)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := svc.GetShare(context.Background(), id)
	require.NoError(t, err)
	assert.JSONEq(t, string(payload), string(got))
}

func TestCreateShareValidation(t *testing.T) {
	svc := newService(newFakeRepo(), &fakeGateway{})

	for _, payload := range []string{
		`not json`,
		`{}`,
		`{"vibeHeadline":"h"}`,
		`{"roast":"r"}`,
	} {
		_, err := svc.CreateShare(context.Background(), json.RawMessage(payload))
		assert.ErrorIs(t, err, domain.ErrInvalidShare, "payload=%s", payload)
	}
}

func TestGetShareUnknownID(t *testing.T) {
	svc := newService(newFakeRepo(), &fakeGateway{})

	_, err := svc.GetShare(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
