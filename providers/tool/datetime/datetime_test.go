package datetime

import (
	"context"
	"testing"
	"time"

	"github.com/leofalp/agentcli/providers/tool"
)

func TestDatetimeFormat(t *testing.T) {
	fixed := time.Date(2025, time.March, 14, 9, 26, 53, 0, time.UTC)
	now = func() time.Time { return fixed }
	defer func() { now = time.Now }()

	clock := New()

	got, err := clock.Call(context.Background(), tool.Args{})
	if err != nil {
		t.Fatalf("Call returned error: %v", err)
	}
	if got != "2025-03-14 09:26:53" {
		t.Errorf("datetime = %q, want %q", got, "2025-03-14 09:26:53")
	}
}

func TestDatetimeRoundTrip(t *testing.T) {
	clock := New()

	got, err := clock.Call(context.Background(), tool.Args{})
	if err != nil {
		t.Fatalf("Call returned error: %v", err)
	}

	if _, err := time.Parse(timestampLayout, got); err != nil {
		t.Errorf("result %q does not parse with layout %q: %v", got, timestampLayout, err)
	}
}

func TestDatetimeSchema(t *testing.T) {
	clock := New()

	schema := clock.Parameters
	if schema == nil {
		t.Fatal("Parameters is nil, want the empty object descriptor")
	}
	if schema.Type != "object" {
		t.Errorf("schema type = %q, want object", schema.Type)
	}
	if len(schema.Properties) != 0 || schema.Properties == nil {
		t.Errorf("schema properties = %v, want empty map", schema.Properties)
	}
	if len(schema.Required) != 0 || schema.Required == nil {
		t.Errorf("schema required = %v, want empty list", schema.Required)
	}
	if allowed, ok := schema.AdditionalProperties.(bool); !ok || allowed {
		t.Errorf("additionalProperties = %v, want false", schema.AdditionalProperties)
	}
}

func TestDatetimeRejectsArguments(t *testing.T) {
	clock := New()

	if _, err := clock.Call(context.Background(), tool.Args{"tz": "UTC"}); err == nil {
		t.Fatal("expected error for unexpected argument")
	}
}
