// Package tests contains end-to-end acceptance tests for the Aptify API.
//
// These tests run against a real SurrealDB instance to validate actual
// database behavior including schema constraints and indexes.
//
// To run tests:
//  1. Start SurrealDB: surreal start memory -A --user root --pass root
//  2. Run tests: go test ./tests/...
//
// Environment variables:
//
//	TEST_DB_HOST     - SurrealDB host (default: localhost)
//	TEST_DB_PORT     - SurrealDB port (default: 8000)
//	TEST_DB_USER     - SurrealDB username (default: root)
//	TEST_DB_PASSWORD - SurrealDB password (default: root)
package tests

import (
	"testing"

	"github.com/aptify/api/internal/model"
	"github.com/aptify/api/internal/repository"
	"github.com/aptify/api/internal/service"
	"github.com/aptify/api/internal/testing/fixtures"
	"github.com/aptify/api/internal/testing/helpers"
	"github.com/aptify/api/internal/testing/testdb"
)

/*
FEATURE: Test Infrastructure Smoke Test
DOMAIN: Infrastructure

ACCEPTANCE CRITERIA:
===================

AC-SMOKE-001: Database Connection
  GIVEN SurrealDB is running
  WHEN we create a test database
  THEN the connection succeeds
  AND migrations are applied

AC-SMOKE-002: Provider Fixture
  GIVEN a test database
  WHEN we create a provider fixture
  THEN the provider is created in the database

AC-SMOKE-003: Request Fixture
  GIVEN a test database
  WHEN we create a request fixture for each kind
  THEN the request lands in its kind's collection

AC-SMOKE-004: Notification Fixture
  GIVEN a test database
  WHEN we create a notification fixture
  THEN the notification exists and is unread
*/

// engine wires the full service stack against a test database, the same
// way cmd/server does in production.
type engine struct {
	lifecycle     *service.LifecycleService
	notifications *service.NotificationService
}

func newEngine(tdb *testdb.TestDB) *engine {
	requestRepos := make(map[model.Kind]service.RequestRepository)
	for _, kind := range model.Kinds() {
		kindCfg, _ := model.ConfigForKind(kind)
		requestRepos[kind] = repository.NewRequestRepository(tdb.DB, kindCfg)
	}
	providerRepo := repository.NewProviderRepository(tdb.DB)
	channelRepo := repository.NewChannelRepository(tdb.DB)
	notificationRepo := repository.NewNotificationRepository(tdb.DB)

	notificationService := service.NewNotificationService(service.NotificationServiceConfig{
		NotificationRepo: notificationRepo,
	})
	channelService := service.NewChannelService(service.ChannelServiceConfig{
		ChannelRepo: channelRepo,
	})
	fanout := service.NewFanoutCoordinator(service.FanoutCoordinatorConfig{
		Sender:        notificationService,
		Providers:     providerRepo,
		MaxConcurrent: 4,
	})
	lifecycle := service.NewLifecycleService(service.LifecycleServiceConfig{
		Repos:    requestRepos,
		Channels: channelService,
		Fanout:   fanout,
		Store:    tdb.DB,
	})

	return &engine{
		lifecycle:     lifecycle,
		notifications: notificationService,
	}
}

func TestSmoke_DatabaseConnection(t *testing.T) {
	tdb := testdb.New(t)
	defer tdb.Close()

	if err := tdb.DB.Ping(tdb.Ctx()); err != nil {
		t.Fatalf("ping failed: %v", err)
	}
}

func TestSmoke_ProviderFixture(t *testing.T) {
	tdb := testdb.New(t)
	defer tdb.Close()
	f := fixtures.New(tdb.DB)

	provider := f.CreateProvider(t, fixtures.WithServiceType("construction"))
	if provider.ID == "" {
		t.Fatal("expected provider ID to be set")
	}
	if !provider.Approved {
		t.Error("expected default provider to be approved")
	}
	helpers.AssertRecordExists(t, tdb.DB, "provider", provider.ID)
}

func TestSmoke_RequestFixtures(t *testing.T) {
	tdb := testdb.New(t)
	defer tdb.Close()
	f := fixtures.New(tdb.DB)

	for _, kind := range model.Kinds() {
		req := f.CreateRequest(t, kind, "user:alice")
		if req.ID == "" {
			t.Fatalf("%s: expected request ID to be set", kind)
		}
		cfg, _ := model.ConfigForKind(kind)
		if req.Status != cfg.Initial {
			t.Errorf("%s: expected status %q, got %q", kind, cfg.Initial, req.Status)
		}
		helpers.AssertRecordExists(t, tdb.DB, cfg.Collection, req.ID)
	}
}

func TestSmoke_NotificationFixture(t *testing.T) {
	tdb := testdb.New(t)
	defer tdb.Close()
	f := fixtures.New(tdb.DB)

	n := f.CreateNotification(t, "user:alice")
	if n.ID == "" {
		t.Fatal("expected notification ID to be set")
	}
	if n.Read {
		t.Error("expected new notification to be unread")
	}
}
