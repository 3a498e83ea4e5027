package health

import (
	"context"
	"errors"
	"testing"
)

func TestStatusWithoutChecks(t *testing.T) {
	st := NewService(nil).Status(context.Background())
	if !st.OK || st.Components != nil {
		t.Fatalf("unexpected status %#v", st)
	}
}

func TestStatusReportsFailingComponent(t *testing.T) {
	svc := NewService(map[string]Checker{
		"audit": CheckerFunc(func(ctx context.Context) error { return errors.New("no primary") }),
		"ocr":   CheckerFunc(func(ctx context.Context) error { return nil }),
	})
	st := svc.Status(context.Background())
	if st.OK {
		t.Fatalf("expected not ok")
	}
	if st.Components["audit"] != "no primary" || st.Components["ocr"] != "ok" {
		t.Fatalf("unexpected components %#v", st.Components)
	}
}

func TestStatusAppliesDeadline(t *testing.T) {
	svc := NewService(map[string]Checker{
		"audit": CheckerFunc(func(ctx context.Context) error {
			if _, ok := ctx.Deadline(); !ok {
				return errors.New("no deadline")
			}
			return nil
		}),
	})
	if st := svc.Status(context.Background()); !st.OK {
		t.Fatalf("expected ok, got %#v", st)
	}
}
