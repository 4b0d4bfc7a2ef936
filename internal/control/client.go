package control

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"go.klb.dev/clipcount/internal/history"
	"go.klb.dev/clipcount/internal/ipc"
)

// Client talks to a running monitor over the IPC channel.
type Client struct {
	conn *grpc.ClientConn
}

// Dial returns a Client for the monitor listening on path. The connection
// is lazy; errors surface on the first call.
func Dial(path string) (*Client, error) {
	conn, err := grpc.NewClient("passthrough:///clipcount",
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return ipc.Dial(ctx, path)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", path, err)
	}
	return &Client{conn: conn}, nil
}

func (c *Client) Close() error { return c.conn.Close() }

// List returns the monitor's history, newest first.
func (c *Client) List(ctx context.Context) ([]history.Record, error) {
	out := new(structpb.ListValue)
	if err := c.conn.Invoke(ctx, listMethod, &emptypb.Empty{}, out); err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	records := make([]history.Record, 0, len(out.GetValues()))
	for _, v := range out.GetValues() {
		records = append(records, RecordFromStruct(v.GetStructValue()))
	}
	return records, nil
}

// Watch calls fn for every record the monitor captures until ctx is done
// or the monitor goes away. A cancelled ctx is not an error.
func (c *Client) Watch(ctx context.Context, fn func(history.Record)) error {
	stream, err := c.conn.NewStream(ctx, &serviceDesc.Streams[0], watchMethod)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	if err := stream.SendMsg(&emptypb.Empty{}); err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	if err := stream.CloseSend(); err != nil {
		return fmt.Errorf("watch: %w", err)
	}

	for {
		st := new(structpb.Struct)
		if err := stream.RecvMsg(st); err != nil {
			if errors.Is(err, io.EOF) || status.Code(err) == codes.Canceled {
				return nil
			}
			return fmt.Errorf("watch: %w", err)
		}
		fn(RecordFromStruct(st))
	}
}
