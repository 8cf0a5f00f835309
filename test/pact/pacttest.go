//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "poldo-api"
	ConsumerName = "poldo-app"

	StateShiftsBaseline = "shifts baseline"
	StateShiftExists    = "shift 1 on 2024-05-10 exists"
	StateWindowOpen     = "ordering window for shift 1 on 2024-05-10 is open"
	StateOrderMissing   = "no order with id 999"
)

const (
	ShiftDate      = "2024-05-10"
	ExistingShiftN = 1
	NewShiftN      = 2

	MissingOrderID int64 = 999

	OrderParty = "pact-user"
	OrderKind  = "studente"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the app consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleTurnoPayload provides stable test data for shift interactions.
func ExampleTurnoPayload(n int) map[string]any {
	return map[string]any{
		"data":         ShiftDate,
		"n":            n,
		"inizioOrdini": "08:00",
		"fineOrdini":   "10:00",
		"inizioRitiro": "11:00",
		"fineRitiro":   "13:00",
	}
}

// ExampleNuovoOrdinePayload provides stable test data for order placement.
func ExampleNuovoOrdinePayload() map[string]any {
	return map[string]any{
		"tipo":         OrderKind,
		"intestatario": OrderParty,
		"dataTurno":    ShiftDate,
		"nTurno":       ExistingShiftN,
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
