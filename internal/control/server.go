package control

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	gwruntime "github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/soheilhy/cmux"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
)

// Server serves a Service over gRPC and HTTP on one listener.
type Server struct {
	svc  *Service
	grpc *grpc.Server
	http *http.Server

	mu  sync.Mutex
	mux cmux.CMux
}

// NewServer builds the gRPC server and HTTP gateway for svc.
func NewServer(svc *Service) (*Server, error) {
	gs := grpc.NewServer()
	gs.RegisterService(&serviceDesc, svc)

	gw, err := newGatewayMux(svc)
	if err != nil {
		return nil, err
	}
	return &Server{
		svc:  svc,
		grpc: gs,
		http: &http.Server{Handler: gw},
	}, nil
}

// Serve splits ln between gRPC and HTTP and blocks until Close.
func (s *Server) Serve(ln net.Listener) error {
	m := cmux.New(ln)
	grpcL := m.MatchWithWriters(cmux.HTTP2MatchHeaderFieldSendSettings("content-type", "application/grpc"))
	httpL := m.Match(cmux.Any())

	s.mu.Lock()
	s.mux = m
	s.mu.Unlock()

	go func() {
		if err := s.grpc.Serve(grpcL); err != nil && !isClosed(err) {
			slog.Warn("control gRPC stopped", "err", err)
		}
	}()
	go func() {
		if err := s.http.Serve(httpL); err != nil && !isClosed(err) && !errors.Is(err, http.ErrServerClosed) {
			slog.Warn("control HTTP stopped", "err", err)
		}
	}()

	slog.Info("control socket listening", "addr", ln.Addr().String())
	if err := m.Serve(); err != nil && !isClosed(err) {
		return fmt.Errorf("control serve: %w", err)
	}
	return nil
}

// Close stops accepting connections and ends active streams.
func (s *Server) Close() {
	s.mu.Lock()
	m := s.mux
	s.mu.Unlock()
	if m != nil {
		m.Close()
	}
	s.grpc.Stop()
	_ = s.http.Close()
}

func isClosed(err error) bool {
	return errors.Is(err, net.ErrClosed) || errors.Is(err, cmux.ErrListenerClosed)
}

// newGatewayMux serves the read-only HTTP view. The handlers call the
// Service directly rather than proxying through a gRPC client.
func newGatewayMux(svc *Service) (*gwruntime.ServeMux, error) {
	mux := gwruntime.NewServeMux()
	marshaler := &gwruntime.JSONPb{}

	write := func(w http.ResponseWriter, msg proto.Message, err error) {
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		b, err := marshaler.Marshal(msg)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", marshaler.ContentType(msg))
		_, _ = w.Write(b)
	}

	if err := mux.HandlePath(http.MethodGet, "/v1/history", func(w http.ResponseWriter, r *http.Request, _ map[string]string) {
		list, err := svc.List(r.Context(), &emptypb.Empty{})
		write(w, list, err)
	}); err != nil {
		return nil, fmt.Errorf("register /v1/history: %w", err)
	}

	if err := mux.HandlePath(http.MethodGet, "/v1/settings", func(w http.ResponseWriter, _ *http.Request, _ map[string]string) {
		st, err := svc.Settings()
		write(w, st, err)
	}); err != nil {
		return nil, fmt.Errorf("register /v1/settings: %w", err)
	}

	return mux, nil
}
