package health

import (
	"context"
	"errors"
	"testing"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) PingContext(ctx context.Context) error { return f(ctx) }

func TestStatusWithoutDatabase(t *testing.T) {
	status := NewService(nil, "model-a").Status(context.Background())
	if status["ok"] != true || status["database"] != "disabled" || status["model"] != "model-a" {
		t.Fatalf("unexpected status: %v", status)
	}
}

func TestStatusReportsDatabaseState(t *testing.T) {
	svc := &Service{DB: pingerFunc(func(ctx context.Context) error { return nil })}
	if got := svc.Status(context.Background())["database"]; got != "ok" {
		t.Fatalf("expected database ok, got %v", got)
	}

	svc.DB = pingerFunc(func(ctx context.Context) error { return errors.New("down") })
	status := svc.Status(context.Background())
	if status["database"] != "unavailable" || status["ok"] != true {
		t.Fatalf("unexpected status with failing db: %v", status)
	}
}
