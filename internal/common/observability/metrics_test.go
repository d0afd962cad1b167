package observability

import (
	"context"
	"testing"
	"time"
)

func TestRecordOnNilInstanceIsSafe(t *testing.T) {
	var o *Observability
	o.RecordRequest(context.Background(), "200")
	o.RecordDuration(context.Background(), time.Millisecond, "200")
}

func TestRecordAfterNew(t *testing.T) {
	o := New("observability-test")
	defer o.Shutdown()

	o.RecordRequest(context.Background(), "200")
	o.RecordDuration(context.Background(), 5*time.Millisecond, "200")
}
