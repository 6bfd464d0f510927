package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aptify/api/internal/model"
	"github.com/aptify/api/internal/repository"
)

// ============================================================================
// Mocks
// ============================================================================

type mockRequestRepo struct {
	createFunc       func(ctx context.Context, req *model.Request) error
	getByIDFunc      func(ctx context.Context, id string) (*model.Request, error)
	getByUserFunc    func(ctx context.Context, requesterID string) ([]*model.Request, error)
	getByProvFunc    func(ctx context.Context, providerID string) ([]*model.Request, error)
	getAllFunc       func(ctx context.Context) ([]*model.Request, error)
	updateStatusFunc func(ctx context.Context, id string, upd repository.StatusUpdate) error
	setChannelFunc   func(ctx context.Context, id, channelID string) error
	deleteFunc       func(ctx context.Context, id string) error

	updateCalls []repository.StatusUpdate
}

func (m *mockRequestRepo) Create(ctx context.Context, req *model.Request) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, req)
	}
	req.ID = "renovation_request:new"
	return nil
}

func (m *mockRequestRepo) GetByID(ctx context.Context, id string) (*model.Request, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockRequestRepo) GetByUser(ctx context.Context, requesterID string) ([]*model.Request, error) {
	if m.getByUserFunc != nil {
		return m.getByUserFunc(ctx, requesterID)
	}
	return []*model.Request{}, nil
}

func (m *mockRequestRepo) GetByProvider(ctx context.Context, providerID string) ([]*model.Request, error) {
	if m.getByProvFunc != nil {
		return m.getByProvFunc(ctx, providerID)
	}
	return []*model.Request{}, nil
}

func (m *mockRequestRepo) GetAll(ctx context.Context) ([]*model.Request, error) {
	if m.getAllFunc != nil {
		return m.getAllFunc(ctx)
	}
	return []*model.Request{}, nil
}

func (m *mockRequestRepo) UpdateStatus(ctx context.Context, id string, upd repository.StatusUpdate) error {
	m.updateCalls = append(m.updateCalls, upd)
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, upd)
	}
	return nil
}

func (m *mockRequestRepo) SetChannel(ctx context.Context, id, channelID string) error {
	if m.setChannelFunc != nil {
		return m.setChannelFunc(ctx, id, channelID)
	}
	return nil
}

func (m *mockRequestRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

type mockChannels struct {
	getOrCreateFunc func(ctx context.Context, partyA, partyB string) (*model.Channel, error)
	calls           int
}

func (m *mockChannels) GetOrCreate(ctx context.Context, partyA, partyB string) (*model.Channel, error) {
	m.calls++
	if m.getOrCreateFunc != nil {
		return m.getOrCreateFunc(ctx, partyA, partyB)
	}
	return &model.Channel{ID: "channel:1", PartyA: partyA, PartyB: partyB}, nil
}

type mockFanout struct {
	events []model.LifecycleEvent
	reqs   []*model.Request
}

func (m *mockFanout) FanOut(ctx context.Context, event model.LifecycleEvent, req *model.Request) []DispatchResult {
	m.events = append(m.events, event)
	m.reqs = append(m.reqs, req)
	return []DispatchResult{{RecipientID: req.RequesterID, Delivered: true}}
}

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(ctx context.Context) error { return m.err }

type lifecycleFixture struct {
	svc      *LifecycleService
	repo     *mockRequestRepo
	channels *mockChannels
	fanout   *mockFanout
	pinger   *mockPinger
}

func newLifecycleFixture(kind model.Kind) *lifecycleFixture {
	repo := &mockRequestRepo{}
	channels := &mockChannels{}
	fanout := &mockFanout{}
	pinger := &mockPinger{}

	svc := NewLifecycleService(LifecycleServiceConfig{
		Repos:    map[model.Kind]RequestRepository{kind: repo},
		Channels: channels,
		Fanout:   fanout,
		Store:    pinger,
	})
	return &lifecycleFixture{svc: svc, repo: repo, channels: channels, fanout: fanout, pinger: pinger}
}

func strPtr(s string) *string { return &s }

// ============================================================================
// Create Tests
// ============================================================================

func TestCreate_OrderLikeComputesTotal(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture(model.KindOrder)
	f.repo.createFunc = func(ctx context.Context, req *model.Request) error {
		req.ID = "order_request:1"
		return nil
	}

	req, results, err := f.svc.Create(context.Background(), model.KindOrder, &model.CreateRequestPayload{
		RequesterID: "user:alice",
		Category:    "marketplace",
		Items: []model.LineItem{
			{ItemID: "item:a", ItemType: "marketplace", Price: 100, Quantity: 2},
			{ItemID: "item:b", ItemType: "marketplace", Price: 50, Quantity: 1},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, float64(250), req.Total)
	assert.Equal(t, model.StatusPending, req.Status)
	assert.True(t, strings.HasPrefix(req.HumanID, "ORD-"))
	assert.Nil(t, req.ProviderID)

	require.Equal(t, []model.LifecycleEvent{model.EventCreated}, f.fanout.events)
	require.Len(t, results, 1)
	assert.True(t, results[0].Delivered)
}

func TestCreate_MissingFieldsReportsAll(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture(model.KindOrder)
	created := false
	f.repo.createFunc = func(ctx context.Context, req *model.Request) error {
		created = true
		return nil
	}

	_, _, err := f.svc.Create(context.Background(), model.KindOrder, &model.CreateRequestPayload{})
	require.ErrorIs(t, err, ErrMissingField)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve.Fields, 3)
	assert.Equal(t, "requester_id", ve.Fields[0].Field)
	assert.Equal(t, "category", ve.Fields[1].Field)
	assert.Equal(t, "items", ve.Fields[2].Field)

	assert.False(t, created)
	assert.Empty(t, f.fanout.events)
}

func TestCreate_InvalidItemReportsIndexAndReason(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture(model.KindOrder)

	_, _, err := f.svc.Create(context.Background(), model.KindOrder, &model.CreateRequestPayload{
		RequesterID: "user:alice",
		Category:    "marketplace",
		Items: []model.LineItem{
			{ItemID: "item:a", ItemType: "marketplace", Price: 100, Quantity: 1},
			{ItemID: "item:b", ItemType: "marketplace", Price: -5, Quantity: 1},
		},
	})
	require.ErrorIs(t, err, ErrInvalidItem)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve.Fields, 1)
	assert.Equal(t, "items[1]", ve.Fields[0].Field)
	assert.Contains(t, ve.Fields[0].Message, "price")
}

func TestCreate_ServiceKindSkipsItemValidation(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture(model.KindRenovation)
	f.repo.createFunc = func(ctx context.Context, req *model.Request) error {
		req.ID = "renovation_request:1"
		return nil
	}

	budget := 5000.0
	req, _, err := f.svc.Create(context.Background(), model.KindRenovation, &model.CreateRequestPayload{
		RequesterID: "user:alice",
		Category:    "renovation",
		Details:     map[string]interface{}{"description": "kitchen remodel"},
		Budget:      &budget,
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(req.HumanID, "REN-"))
	assert.Zero(t, req.Total)
	assert.Empty(t, req.Items)
}

func TestCreate_StoreDown(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture(model.KindOrder)
	f.pinger.err = errors.New("connection refused")

	_, _, err := f.svc.Create(context.Background(), model.KindOrder, &model.CreateRequestPayload{
		RequesterID: "user:alice",
		Category:    "marketplace",
		Items:       []model.LineItem{{ItemID: "a", ItemType: "marketplace", Price: 1, Quantity: 1}},
	})
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.Empty(t, f.fanout.events)
}

func TestCreate_UnknownKind(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture(model.KindOrder)

	_, _, err := f.svc.Create(context.Background(), model.Kind("plumbing"), &model.CreateRequestPayload{})
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestCreate_WithProviderProvisionsChannel(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture(model.KindBuySell)
	var channelSet string
	f.repo.createFunc = func(ctx context.Context, req *model.Request) error {
		req.ID = "buy_sell_request:1"
		return nil
	}
	f.repo.setChannelFunc = func(ctx context.Context, id, channelID string) error {
		channelSet = channelID
		return nil
	}

	req, _, err := f.svc.Create(context.Background(), model.KindBuySell, &model.CreateRequestPayload{
		RequesterID: "user:alice",
		ProviderID:  strPtr("user:bob"),
		Category:    "buy_sell",
		Details:     map[string]interface{}{"listing": "bike"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, f.channels.calls)
	assert.Equal(t, "channel:1", channelSet)
	require.NotNil(t, req.ChannelID)
	assert.Equal(t, "channel:1", *req.ChannelID)
}

func TestCreate_ChannelFailureDoesNotFailCreate(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture(model.KindBuySell)
	f.channels.getOrCreateFunc = func(ctx context.Context, a, b string) (*model.Channel, error) {
		return nil, errors.New("channel store down")
	}

	req, results, err := f.svc.Create(context.Background(), model.KindBuySell, &model.CreateRequestPayload{
		RequesterID: "user:alice",
		ProviderID:  strPtr("user:bob"),
		Category:    "buy_sell",
		Details:     map[string]interface{}{"listing": "bike"},
	})
	require.NoError(t, err)
	assert.Nil(t, req.ChannelID)
	// Fan-out still runs.
	assert.Len(t, results, 1)
}

// ============================================================================
// UpdateStatus Tests
// ============================================================================

func storedRequest(status model.Status, providerID *string) *model.Request {
	return &model.Request{
		ID:          "renovation_request:7",
		HumanID:     "REN-1700000000000-ABCDEF123",
		Kind:        model.KindRenovation,
		RequesterID: "user:alice",
		ProviderID:  providerID,
		Category:    "renovation",
		Status:      status,
	}
}

func TestUpdateStatus_AcceptBindsProvider(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture(model.KindRenovation)
	f.repo.getByIDFunc = func(ctx context.Context, id string) (*model.Request, error) {
		return storedRequest(model.StatusPending, nil), nil
	}

	req, results, err := f.svc.UpdateStatus(context.Background(), model.KindRenovation, "renovation_request:7", &model.UpdateStatusPayload{
		Status:     model.StatusAccepted,
		ProviderID: strPtr("user:bob"),
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusAccepted, req.Status)
	require.NotNil(t, req.ProviderID)
	assert.Equal(t, "user:bob", *req.ProviderID)

	require.Len(t, f.repo.updateCalls, 1)
	upd := f.repo.updateCalls[0]
	assert.Equal(t, model.StatusAccepted, upd.Status)
	require.NotNil(t, upd.ProviderID)
	assert.Equal(t, "user:bob", *upd.ProviderID)

	assert.Equal(t, 1, f.channels.calls)
	assert.Equal(t, []model.LifecycleEvent{model.EventAccepted}, f.fanout.events)
	assert.Len(t, results, 1)
}

func TestUpdateStatus_AcceptByOtherProviderConflicts(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture(model.KindRenovation)
	f.repo.getByIDFunc = func(ctx context.Context, id string) (*model.Request, error) {
		return storedRequest(model.StatusAccepted, strPtr("user:bob")), nil
	}

	_, _, err := f.svc.UpdateStatus(context.Background(), model.KindRenovation, "renovation_request:7", &model.UpdateStatusPayload{
		Status:     model.StatusAccepted,
		ProviderID: strPtr("user:mallory"),
	})
	assert.ErrorIs(t, err, ErrProviderConflict)
	assert.Empty(t, f.repo.updateCalls)
	assert.Empty(t, f.fanout.events)
}

func TestUpdateStatus_ReacceptBySameProviderIsNoOp(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture(model.KindRenovation)
	stored := storedRequest(model.StatusAccepted, strPtr("user:bob"))
	f.repo.getByIDFunc = func(ctx context.Context, id string) (*model.Request, error) {
		return stored, nil
	}

	req, results, err := f.svc.UpdateStatus(context.Background(), model.KindRenovation, "renovation_request:7", &model.UpdateStatusPayload{
		Status:     model.StatusAccepted,
		ProviderID: strPtr("user:bob"),
	})
	require.NoError(t, err)
	assert.Same(t, stored, req)
	assert.Nil(t, results)
	assert.Empty(t, f.repo.updateCalls)
	assert.Empty(t, f.fanout.events)
	assert.Zero(t, f.channels.calls)
}

func TestUpdateStatus_IllegalTransition(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture(model.KindRenovation)
	f.repo.getByIDFunc = func(ctx context.Context, id string) (*model.Request, error) {
		return storedRequest(model.StatusPending, nil), nil
	}

	_, _, err := f.svc.UpdateStatus(context.Background(), model.KindRenovation, "renovation_request:7", &model.UpdateStatusPayload{
		Status: model.StatusCompleted,
	})
	require.ErrorIs(t, err, ErrIllegalTransition)
	assert.Contains(t, err.Error(), "pending -> completed")
	assert.Empty(t, f.repo.updateCalls)
}

func TestUpdateStatus_TerminalStatesAreFinal(t *testing.T) {
	t.Parallel()

	for _, terminal := range []model.Status{model.StatusCompleted, model.StatusRejected} {
		f := newLifecycleFixture(model.KindRenovation)
		f.repo.getByIDFunc = func(ctx context.Context, id string) (*model.Request, error) {
			return storedRequest(terminal, strPtr("user:bob")), nil
		}

		_, _, err := f.svc.UpdateStatus(context.Background(), model.KindRenovation, "renovation_request:7", &model.UpdateStatusPayload{
			Status: model.StatusInProgress,
		})
		assert.ErrorIs(t, err, ErrIllegalTransition, "from %s", terminal)
	}
}

func TestUpdateStatus_ProgressNote(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture(model.KindRenovation)
	f.repo.getByIDFunc = func(ctx context.Context, id string) (*model.Request, error) {
		return storedRequest(model.StatusInProgress, strPtr("user:bob")), nil
	}

	note := "cabinets installed"
	req, _, err := f.svc.UpdateStatus(context.Background(), model.KindRenovation, "renovation_request:7", &model.UpdateStatusPayload{
		Status:       model.StatusInProgress,
		ProgressNote: &note,
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusInProgress, req.Status)
	require.NotNil(t, req.ProgressNote)
	assert.Equal(t, note, *req.ProgressNote)
	assert.NotNil(t, req.LastProgressUpdate)

	require.Len(t, f.repo.updateCalls, 1)
	require.NotNil(t, f.repo.updateCalls[0].ProgressNote)
	// Progress updates fan out as in_progress events.
	assert.Equal(t, []model.LifecycleEvent{model.EventInProgress}, f.fanout.events)
}

func TestUpdateStatus_AcceptRequiresProvider(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture(model.KindRenovation)

	_, _, err := f.svc.UpdateStatus(context.Background(), model.KindRenovation, "renovation_request:7", &model.UpdateStatusPayload{
		Status: model.StatusAccepted,
	})
	assert.ErrorIs(t, err, ErrProviderRequired)
}

func TestUpdateStatus_UnknownStatus(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture(model.KindRenovation)

	_, _, err := f.svc.UpdateStatus(context.Background(), model.KindRenovation, "renovation_request:7", &model.UpdateStatusPayload{
		Status: model.Status("archived"),
	})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestUpdateStatus_NotFound(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture(model.KindRenovation)

	_, _, err := f.svc.UpdateStatus(context.Background(), model.KindRenovation, "renovation_request:missing", &model.UpdateStatusPayload{
		Status: model.StatusRejected,
	})
	assert.ErrorIs(t, err, ErrRequestNotFound)
}

// ============================================================================
// Read Path Tests
// ============================================================================

func TestGetByID_NotFound(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture(model.KindOrder)

	_, err := f.svc.GetByID(context.Background(), model.KindOrder, "order_request:missing")
	assert.ErrorIs(t, err, ErrRequestNotFound)
}

func TestDelete_NotFound(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture(model.KindOrder)

	err := f.svc.Delete(context.Background(), model.KindOrder, "order_request:missing")
	assert.ErrorIs(t, err, ErrRequestNotFound)
}
