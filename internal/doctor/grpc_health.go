package doctor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const grpcHealthTimeout = 2 * time.Second

// checkGRPCHealth queries the standard gRPC health service of a local
// recognizer server.
func checkGRPCHealth(ctx context.Context, target string) Check {
	const name = "recognizer.health_grpc"

	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return Check{Name: name, Pass: false, Message: fmt.Sprintf("dial %q: %v", target, err)}
	}
	defer conn.Close()

	checkCtx, cancel := context.WithTimeout(ctx, grpcHealthTimeout)
	defer cancel()

	conn.Connect()
	if err := waitForReady(checkCtx, conn); err != nil {
		return Check{Name: name, Pass: false, Message: fmt.Sprintf("connect %q: %v", target, err)}
	}

	resp, err := healthpb.NewHealthClient(conn).Check(checkCtx, &healthpb.HealthCheckRequest{})
	if err != nil {
		return Check{Name: name, Pass: false, Message: fmt.Sprintf("health check %q: %v", target, err)}
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return Check{Name: name, Pass: false, Message: fmt.Sprintf("%s reports %s", target, resp.GetStatus())}
	}
	return Check{Name: name, Pass: true, Message: fmt.Sprintf("%s is serving", target)}
}

// waitForReady blocks until the connection enters Ready or fails.
func waitForReady(ctx context.Context, conn *grpc.ClientConn) error {
	for {
		state := conn.GetState()
		switch state {
		case connectivity.Ready:
			return nil
		case connectivity.Shutdown:
			return errors.New("grpc connection entered shutdown state")
		}

		if !conn.WaitForStateChange(ctx, state) {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("grpc readiness wait timed out in state %s", state.String())
		}
	}
}
