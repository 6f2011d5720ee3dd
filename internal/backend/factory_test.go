package backend

import (
	"context"
	"path/filepath"
	"testing"

	"alugueis/internal/config"

	"cloud.google.com/go/civil"
)

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Error("expected error for nil config")
	}

	cfg := &config.Config{DataBackend: "sheets"}
	if _, err := FromAppConfig(cfg); err == nil {
		t.Error("expected error for unknown backend")
	}

	cfg = &config.Config{
		DataBackend:     "sqlite",
		SQLiteDBPath:    "/tmp/x.db",
		CashMethodLabel: "Dinheiro",
		AMQPExchange:    "alugueis",
	}
	got, err := FromAppConfig(cfg)
	if err != nil {
		t.Fatalf("FromAppConfig() error = %v", err)
	}
	if got.Type != SQLiteBackend || got.SQLiteDBPath != "/tmp/x.db" || got.CashMethodLabel != "Dinheiro" {
		t.Errorf("unexpected config %+v", got)
	}
	if got.AMQPAttempts != defaultAMQPAttempts {
		t.Errorf("AMQPAttempts = %d, want %d", got.AMQPAttempts, defaultAMQPAttempts)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"memory", Config{Type: MemoryBackend, CashMethodLabel: "Dinheiro"}, false},
		{"sqlite", Config{Type: SQLiteBackend, SQLiteDBPath: "x.db", CashMethodLabel: "Dinheiro"}, false},
		{"sqlite without path", Config{Type: SQLiteBackend, CashMethodLabel: "Dinheiro"}, true},
		{"unknown type", Config{Type: "csv", CashMethodLabel: "Dinheiro"}, true},
		{"missing cash label", Config{Type: MemoryBackend}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.config.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFactory_CreateBackend(t *testing.T) {
	day := civil.Date{Year: 2024, Month: 3, Day: 1}

	tests := []struct {
		name   string
		config func(t *testing.T) Config
	}{
		{"memory", func(t *testing.T) Config {
			return Config{Type: MemoryBackend, CashMethodLabel: "Cash"}
		}},
		{"sqlite", func(t *testing.T) Config {
			return Config{
				Type:            SQLiteBackend,
				SQLiteDBPath:    filepath.Join(t.TempDir(), "registros.db"),
				CashMethodLabel: "Cash",
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			result, err := NewFactory(nil).CreateBackend(ctx, tt.config(t))
			if err != nil {
				t.Fatalf("CreateBackend() error = %v", err)
			}
			defer func() {
				if err := result.Cleanup(); err != nil {
					t.Errorf("Cleanup() error = %v", err)
				}
			}()

			if _, err := result.Service.RecordRental(ctx, day, "100", "Cash"); err != nil {
				t.Fatalf("RecordRental() error = %v", err)
			}
			d, err := result.Service.Dashboard(ctx, day)
			if err != nil {
				t.Fatalf("Dashboard() error = %v", err)
			}
			if d.CashTotal != 100 || d.DayTotal != 100 {
				t.Errorf("unexpected dashboard %+v", d)
			}
		})
	}
}
