package api

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// HealthPinger probes the server's grpc.health.v1 service.
type HealthPinger struct {
	conn   *grpc.ClientConn
	client healthpb.HealthClient
}

// NewHealthPinger prepares a lazy connection to addr; no I/O happens until
// the first Ping.
func NewHealthPinger(addr string, opts ...grpc.DialOption) (*HealthPinger, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)

	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, err
	}
	return &HealthPinger{conn: conn, client: healthpb.NewHealthClient(conn)}, nil
}

func (p *HealthPinger) Ping(ctx context.Context) error {
	resp, err := p.client.Check(ctx, &healthpb.HealthCheckRequest{})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return fmt.Errorf("%w: status %s", ErrUnavailable, resp.GetStatus())
	}
	return nil
}

func (p *HealthPinger) Close() error {
	return p.conn.Close()
}
