package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"lccwatch/faregraph/internal/adapters"
	"lccwatch/faregraph/internal/constants"
	"lccwatch/faregraph/internal/db/repositories"
	"lccwatch/faregraph/internal/models/dtos"
	"lccwatch/faregraph/internal/models/entities"
)

func setupSyncDB(t *testing.T) *gorm.DB {
	t.Helper()

	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := database.AutoMigrate(&entities.Airport{}, &entities.Country{}, &entities.Route{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return database
}

func activePairs(t *testing.T, database *gorm.DB, airline constants.Airline) map[[2]string]uint {
	t.Helper()

	routes, err := repositories.NewRouteRepository(database).ActiveByAirline(context.Background(), airline)
	if err != nil {
		t.Fatalf("Failed to list active routes: %v", err)
	}

	airportRepo := repositories.NewAirportRepository(database)
	codes := make(map[uint]string)
	airports, err := airportRepo.ListOrderedByCode(context.Background())
	if err != nil {
		t.Fatalf("Failed to list airports: %v", err)
	}
	for _, airport := range airports {
		codes[airport.ID] = airport.Code
	}

	pairs := make(map[[2]string]uint, len(routes))
	for _, route := range routes {
		pairs[[2]string{codes[route.FromAirportID], codes[route.ToAirportID]}] = route.ID
	}
	return pairs
}

func TestSyncService_SyncAirline_Idempotent(t *testing.T) {
	database := setupSyncDB(t)
	adapter := &mockAdapter{
		airline: constants.TigerairTaiwan,
		routes: []dtos.RouteEdge{
			{Origin: "TPE", Destination: "NRT"},
			{Origin: "TPE", Destination: "KIX"},
		},
	}
	service := NewSyncService(database, adapters.NewRegistry(adapter))

	for run := 0; run < 2; run++ {
		synced, err := service.SyncAirline(context.Background(), adapter)
		if err != nil {
			t.Fatalf("Run %d: expected no error, got %v", run, err)
		}
		if synced != 2 {
			t.Fatalf("Run %d: expected 2 synced edges, got %d", run, synced)
		}
	}

	count, err := repositories.NewRouteRepository(database).CountByAirline(context.Background(), constants.TigerairTaiwan)
	if err != nil {
		t.Fatalf("Failed to count routes: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 route rows after two runs, got %d", count)
	}

	var airportCount int64
	database.Model(&entities.Airport{}).Count(&airportCount)
	if airportCount != 3 {
		t.Errorf("Expected 3 airports, got %d", airportCount)
	}
}

func TestSyncService_SyncAirline_DeactivatesVanishedEdges(t *testing.T) {
	database := setupSyncDB(t)
	adapter := &mockAdapter{
		airline: constants.Scoot,
		routes: []dtos.RouteEdge{
			{Origin: "SIN", Destination: "TPE"},
			{Origin: "SIN", Destination: "NRT"},
		},
	}
	service := NewSyncService(database, adapters.NewRegistry(adapter))

	if _, err := service.SyncAirline(context.Background(), adapter); err != nil {
		t.Fatalf("First sync failed: %v", err)
	}
	first := activePairs(t, database, constants.Scoot)
	firstID, ok := first[[2]string{"SIN", "TPE"}]
	if !ok {
		t.Fatal("Expected SIN-TPE active after first sync")
	}

	// SIN-NRT vanishes, SIN-KIX appears
	adapter.routes = []dtos.RouteEdge{
		{Origin: "SIN", Destination: "TPE"},
		{Origin: "SIN", Destination: "KIX"},
	}
	if _, err := service.SyncAirline(context.Background(), adapter); err != nil {
		t.Fatalf("Second sync failed: %v", err)
	}

	second := activePairs(t, database, constants.Scoot)
	if len(second) != 2 {
		t.Fatalf("Expected 2 active pairs, got %d: %v", len(second), second)
	}
	if _, ok := second[[2]string{"SIN", "NRT"}]; ok {
		t.Error("Expected SIN-NRT to be inactive after second sync")
	}
	if _, ok := second[[2]string{"SIN", "KIX"}]; !ok {
		t.Error("Expected SIN-KIX active after second sync")
	}
	// surviving edge keeps its row
	if second[[2]string{"SIN", "TPE"}] != firstID {
		t.Errorf("Expected SIN-TPE to keep row %d, got %d", firstID, second[[2]string{"SIN", "TPE"}])
	}

	count, _ := repositories.NewRouteRepository(database).CountByAirline(context.Background(), constants.Scoot)
	if count != 3 {
		t.Errorf("Expected 3 route rows total, got %d", count)
	}
}

func TestSyncService_SyncAirline_ReactivationKeepsRowID(t *testing.T) {
	database := setupSyncDB(t)
	adapter := &mockAdapter{
		airline: constants.PeachAviation,
		routes:  []dtos.RouteEdge{{Origin: "KIX", Destination: "OKA"}},
	}
	service := NewSyncService(database, adapters.NewRegistry(adapter))

	if _, err := service.SyncAirline(context.Background(), adapter); err != nil {
		t.Fatalf("First sync failed: %v", err)
	}
	originalID := activePairs(t, database, constants.PeachAviation)[[2]string{"KIX", "OKA"}]

	adapter.routes = nil
	if _, err := service.SyncAirline(context.Background(), adapter); err != nil {
		t.Fatalf("Empty sync failed: %v", err)
	}
	if pairs := activePairs(t, database, constants.PeachAviation); len(pairs) != 0 {
		t.Fatalf("Expected no active pairs, got %v", pairs)
	}

	adapter.routes = []dtos.RouteEdge{{Origin: "KIX", Destination: "OKA"}}
	if _, err := service.SyncAirline(context.Background(), adapter); err != nil {
		t.Fatalf("Reactivating sync failed: %v", err)
	}

	reactivatedID := activePairs(t, database, constants.PeachAviation)[[2]string{"KIX", "OKA"}]
	if reactivatedID != originalID {
		t.Errorf("Expected reactivated edge to keep row %d, got %d", originalID, reactivatedID)
	}
}

func TestSyncService_SyncAirline_FetchErrorLeavesGraphUntouched(t *testing.T) {
	database := setupSyncDB(t)
	adapter := &mockAdapter{
		airline: constants.VanillaAir,
		routes:  []dtos.RouteEdge{{Origin: "NRT", Destination: "TPE"}},
	}
	service := NewSyncService(database, adapters.NewRegistry(adapter))

	if _, err := service.SyncAirline(context.Background(), adapter); err != nil {
		t.Fatalf("First sync failed: %v", err)
	}

	adapter.routesErr = errors.New("fetch blew up")
	if _, err := service.SyncAirline(context.Background(), adapter); err == nil {
		t.Fatal("Expected error from failing fetch")
	}

	pairs := activePairs(t, database, constants.VanillaAir)
	if _, ok := pairs[[2]string{"NRT", "TPE"}]; !ok {
		t.Error("Expected prior graph to survive a failed fetch")
	}
}

func TestSyncService_SyncAirline_UnresolvableAirportReportsCode(t *testing.T) {
	database := setupSyncDB(t)

	// suppress the insert without an error, so the ensure succeeds but
	// the row never exists
	err := database.Exec(`CREATE TRIGGER drop_zzz BEFORE INSERT ON airports
		WHEN NEW.code = 'ZZZ' BEGIN SELECT RAISE(IGNORE); END`).Error
	if err != nil {
		t.Fatalf("Failed to create trigger: %v", err)
	}

	adapter := &mockAdapter{
		airline: constants.TigerairTaiwan,
		routes:  []dtos.RouteEdge{{Origin: "ZZZ", Destination: "NRT"}},
	}
	service := NewSyncService(database, adapters.NewRegistry(adapter))

	_, err = service.SyncAirline(context.Background(), adapter)
	if err == nil {
		t.Fatal("Expected error for unresolvable airport")
	}
	if !strings.Contains(err.Error(), "resolving airport ZZZ: not found") {
		t.Errorf("Expected the airport code in the error, got %q", err.Error())
	}
	if strings.Contains(err.Error(), "%!w") {
		t.Errorf("Expected a clean message for the missing row, got %q", err.Error())
	}
}

func TestSyncService_SyncAirline_NotSupportedSkipped(t *testing.T) {
	database := setupSyncDB(t)
	adapter := &mockAdapter{
		airline:   constants.Jetstar,
		routesErr: adapters.ErrNotSupported,
	}
	service := NewSyncService(database, adapters.NewRegistry(adapter))

	synced, err := service.SyncAirline(context.Background(), adapter)
	if err != nil {
		t.Fatalf("Expected skip without error, got %v", err)
	}
	if synced != 0 {
		t.Errorf("Expected 0 synced edges, got %d", synced)
	}
}

func TestSyncService_SyncAll_OneFailureDoesNotAbortOthers(t *testing.T) {
	database := setupSyncDB(t)
	failing := &mockAdapter{
		airline:   constants.TigerairTaiwan,
		routesErr: errors.New("down"),
	}
	healthy := &mockAdapter{
		airline: constants.Scoot,
		routes:  []dtos.RouteEdge{{Origin: "SIN", Destination: "TPE"}},
	}
	service := NewSyncService(database, adapters.NewRegistry(failing, healthy))

	total := service.SyncAll(context.Background())
	if total != 1 {
		t.Errorf("Expected 1 synced edge, got %d", total)
	}
	if pairs := activePairs(t, database, constants.Scoot); len(pairs) != 1 {
		t.Errorf("Expected healthy airline synced, got %v", pairs)
	}
}
