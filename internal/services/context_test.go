package services_test

import (
	"context"
	"testing"

	"astrogen/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithBuildID(ctx, "b-42")
	ctx = services.WithStage(ctx, "formatting")
	ctx = services.WithSector(ctx, "Spinward Marches")
	ctx = services.WithRequestID(ctx, "req-123")

	if id, ok := services.BuildIDFromContext(ctx); !ok || id != "b-42" {
		t.Fatalf("unexpected build id: %v %v", id, ok)
	}
	if stage, ok := services.StageFromContext(ctx); !ok || stage != "formatting" {
		t.Fatalf("unexpected stage: %v %v", stage, ok)
	}
	if sector, ok := services.SectorFromContext(ctx); !ok || sector != "Spinward Marches" {
		t.Fatalf("unexpected sector: %v %v", sector, ok)
	}
	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-123" {
		t.Fatalf("unexpected request id: %v %v", rid, ok)
	}
}

func TestStageBlankPreservesContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithStage(ctx, "")
	if _, ok := services.StageFromContext(ctx); ok {
		t.Fatal("expected no stage value")
	}
	if _, ok := services.BuildIDFromContext(services.WithBuildID(ctx, "")); ok {
		t.Fatal("expected no build id value")
	}
}
