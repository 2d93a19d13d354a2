package grpcapi_test

import (
	"context"
	"net"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/bedfast/access-service/internal/bedfast/access"
	"github.com/bedfast/access-service/internal/bedfast/service"
	"github.com/bedfast/access-service/internal/bedfast/store"
	"github.com/bedfast/access-service/internal/bedfast/store/memory"
	"github.com/bedfast/access-service/internal/bedfast/types"
	"github.com/bedfast/access-service/internal/grpcapi"
	"github.com/bedfast/access-service/internal/grpcapp"
	"github.com/bedfast/access-service/internal/notify"
)

// dialTestServer serves the full gRPC app over an in-memory listener.
func dialTestServer(t *testing.T) *grpc.ClientConn {
	t.Helper()

	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	st := service.Stores{
		Properties: memory.NewPropertyStore([]store.PropertyRecord{{ID: "prop-1", Name: "Loft"}}),
		Bookings:   memory.NewBookingStore(),
		Viewings:   memory.NewViewingStore(),
		GuestPINs:  memory.NewGuestPINStore(),
		Events:     memory.NewAccessEventStore(),
		Syncs:      memory.NewSyncStore(),
	}
	opts := service.Options{
		Policy:      access.DefaultPolicy,
		PINHashCost: bcrypt.MinCost,
		Clock:       func() time.Time { return now },
	}
	ev := service.NewWindowEvaluator(opts)
	ga := service.NewGuestAccessService(st, notify.NewLogNotifier(nil), opts, nil)

	app := grpcapp.New(zap.NewNop(), "bufnet", func(s *grpc.Server) {
		grpcapi.Register(s, zap.NewNop(), ev, ga)
	})

	lis := bufconn.Listen(1 << 20)
	go func() { _ = app.Serve(lis) }()
	t.Cleanup(app.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestEvaluate_OverGRPC(t *testing.T) {
	client := grpcapi.NewClient(dialTestServer(t))

	resp, err := client.Evaluate(context.Background(), types.EvaluateRequest{
		Start: "2025-05-10T15:00:00Z",
		End:   "2025-05-15T11:00:00Z",
		Now:   "2025-05-12T09:00:00Z",
	})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if resp.Status != "active" || !resp.Reveal {
		t.Errorf("expected active reveal, got %+v", resp)
	}
	if resp.Remaining == nil || resp.Remaining.Hours != 74 || resp.Remaining.Minutes != 0 {
		t.Errorf("expected 74h0m, got %+v", resp.Remaining)
	}
}

func TestEvaluate_InvalidWindowIsInvalidArgument(t *testing.T) {
	client := grpcapi.NewClient(dialTestServer(t))

	_, err := client.Evaluate(context.Background(), types.EvaluateRequest{
		Start: "2025-05-15T11:00:00Z",
		End:   "2025-05-10T15:00:00Z",
	})
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
}

func TestVerify_OverGRPC(t *testing.T) {
	client := grpcapi.NewClient(dialTestServer(t))

	resp, err := client.Verify(context.Background(), types.VerifyRequest{PropertyID: "prop-1", PIN: "1234"})
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if resp.Granted || resp.Reason != service.ReasonNoMatch || resp.PropertyID != "prop-1" {
		t.Errorf("expected no_match denial, got %+v", resp)
	}

	_, err = client.Verify(context.Background(), types.VerifyRequest{PropertyID: "prop-1"})
	if status.Code(err) != codes.InvalidArgument {
		t.Errorf("expected InvalidArgument without pin, got %v", err)
	}
}

func TestHealth_Serving(t *testing.T) {
	conn := dialTestServer(t)

	resp, err := healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		t.Errorf("expected SERVING, got %v", resp.GetStatus())
	}
}
