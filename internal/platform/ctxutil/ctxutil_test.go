package ctxutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestTraceDataLogFields(t *testing.T) {
	ctx := WithTraceData(context.Background(), &TraceData{TraceID: "t1", ClientIP: "10.0.0.1"})
	got := GetTraceData(ctx).LogFields()
	if len(got) != 4 || got[0] != "trace_id" || got[1] != "t1" || got[2] != "client_ip" {
		t.Fatalf("fields: %v", got)
	}
	if GetTraceData(context.Background()).LogFields() != nil {
		t.Fatalf("missing trace data should yield no fields")
	}
}

func TestPrincipalRoundTrip(t *testing.T) {
	if GetPrincipal(context.Background()) != nil {
		t.Fatalf("expected no principal")
	}
	p := &Principal{ID: uuid.New(), Name: "ada"}
	if got := GetPrincipal(WithPrincipal(context.Background(), p)); got != p {
		t.Fatalf("principal: got=%v", got)
	}
}
