// Package control exposes a running monitor's history on the local IPC
// channel. One listener is split by cmux into:
//
//	gRPC   clipcount.v1.History/List   Empty → ListValue of record structs
//	gRPC   clipcount.v1.History/Watch  Empty → stream of record structs
//	HTTP   GET /v1/history, GET /v1/settings  (grpc-gateway mux, JSON)
//
// Messages are protobuf well-known types, so no generated code is needed.
package control

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"go.klb.dev/clipcount/internal/history"
	"go.klb.dev/clipcount/internal/hub"
	"go.klb.dev/clipcount/internal/settings"
)

const (
	serviceName  = "clipcount.v1.History"
	listMethod   = "/" + serviceName + "/List"
	watchMethod  = "/" + serviceName + "/Watch"
	watchBacklog = 16
)

// HistoryServer is the server API for the History service.
type HistoryServer interface {
	List(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
	Watch(*emptypb.Empty, grpc.ServerStream) error
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*HistoryServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "List", Handler: listHandler},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "Watch", Handler: watchHandler, ServerStreams: true},
	},
	Metadata: "clipcount/v1/history.proto",
}

func listHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(HistoryServer).List(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: listMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(HistoryServer).List(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func watchHandler(srv any, stream grpc.ServerStream) error {
	in := new(emptypb.Empty)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(HistoryServer).Watch(in, stream)
}

// Service implements HistoryServer over a history buffer and hub.
type Service struct {
	history  *history.Buffer
	hub      *hub.Hub
	settings *settings.Live
	seq      atomic.Uint64
}

func NewService(h *history.Buffer, hb *hub.Hub, live *settings.Live) *Service {
	return &Service{history: h, hub: hb, settings: live}
}

// List implements History.List.
func (s *Service) List(_ context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	records := s.history.Records()
	out := &structpb.ListValue{Values: make([]*structpb.Value, 0, len(records))}
	for _, rec := range records {
		st, err := RecordToStruct(rec)
		if err != nil {
			return nil, err
		}
		out.Values = append(out.Values, structpb.NewStructValue(st))
	}
	return out, nil
}

// Watch implements History.Watch: every new record is sent until the
// client goes away.
func (s *Service) Watch(_ *emptypb.Empty, stream grpc.ServerStream) error {
	p := hub.NewChanPeer(fmt.Sprintf("watch/%d", s.seq.Add(1)), watchBacklog)
	s.hub.Register(p)
	defer s.hub.Unregister(p)

	slog.Debug("watch started", "peer", p.ID())
	for {
		select {
		case <-stream.Context().Done():
			return nil
		case rec := <-p.C():
			st, err := RecordToStruct(rec)
			if err != nil {
				return err
			}
			if err := stream.SendMsg(st); err != nil {
				return err
			}
		}
	}
}

// Settings returns the live settings as a struct.
func (s *Service) Settings() (*structpb.Struct, error) {
	cur := s.settings.Get()
	return structpb.NewStruct(map[string]any{
		settings.KeyNotifyEnabled: cur.NotifyEnabled,
		settings.KeyNotifyTimeout: cur.NotifyTimeout,
		settings.KeyAlwaysOnTop:   cur.AlwaysOnTop,
	})
}

// RecordToStruct encodes rec with the same keys as its JSON form.
func RecordToStruct(rec history.Record) (*structpb.Struct, error) {
	st, err := structpb.NewStruct(map[string]any{
		"time":        rec.Time,
		"kind":        string(rec.Kind),
		"measurement": rec.Measurement,
		"preview":     rec.Preview,
		"chars":       rec.Chars,
		"files":       rec.Files,
		"bytes":       rec.Bytes,
	})
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return st, nil
}

// RecordFromStruct is the inverse of RecordToStruct.
func RecordFromStruct(st *structpb.Struct) history.Record {
	f := st.GetFields()
	return history.Record{
		Time:        f["time"].GetStringValue(),
		Kind:        history.Kind(f["kind"].GetStringValue()),
		Measurement: f["measurement"].GetStringValue(),
		Preview:     f["preview"].GetStringValue(),
		Chars:       int(f["chars"].GetNumberValue()),
		Files:       int(f["files"].GetNumberValue()),
		Bytes:       int64(f["bytes"].GetNumberValue()),
	}
}
