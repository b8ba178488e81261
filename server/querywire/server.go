package querywire

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"

	uuid "github.com/satori/go.uuid"

	"github.com/tuannm99/novaquery/internal/datamanager"
	"github.com/tuannm99/novaquery/internal/sql/executor"
)

type ServerConfig struct {
	Addr           string
	StatementCache int
}

// Server executes framed requests. All sessions share one table store.
type Server struct {
	ex *executor.Executor
	wg sync.WaitGroup
}

func NewServer(dm *datamanager.Manager, cacheSize int) *Server {
	return &Server{ex: executor.NewExecutor(dm, cacheSize)}
}

// Run listens on sc.Addr and serves until ctx is cancelled.
func Run(ctx context.Context, sc ServerConfig) error {
	ln, err := net.Listen("tcp", sc.Addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	slog.Info("novaquery tcp server listening", "addr", ln.Addr().String())
	return NewServer(datamanager.New(), sc.StatementCache).Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then closes ln and
// waits for open sessions to finish.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	defer s.wg.Wait()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			slog.Warn("accept", "err", err)
			continue
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConn(ctx, conn)
		}()
	}
}

func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	session := uuid.NewV4().String()
	log := slog.With("session", session, "remote", conn.RemoteAddr().String())
	log.Debug("session opened")

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()
	defer func() { _ = conn.Close() }()

	for {
		var req ExecuteRequest
		if err := ReadFrame(conn, &req); err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
				log.Warn("read frame", "err", err)
			}
			log.Debug("session closed")
			return
		}

		res, err := s.ex.ExecSQL(req.SQL)
		if err != nil {
			log.Debug("statement failed", "id", req.ID, "err", err)
		}

		if err := WriteFrame(conn, NewExecuteResponse(req.ID, res, err)); err != nil {
			log.Warn("write frame", "err", err)
			return
		}
	}
}
