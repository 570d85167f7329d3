package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"codekg/internal/config"
	"codekg/internal/mangle"
	"codekg/internal/orchestrator"
	"codekg/internal/storage"
	"codekg/internal/validation"
)

// Server holds the long-lived state a worker keeps across connections: the
// workspace config and the graph store opened once at startup rather than
// per request, which is the whole point of running as a worker instead of
// invoking kgctl per call.
type Server struct {
	cfg    *config.Config
	ws     string
	store  *storage.SQLiteStore
	log    *zap.Logger
	listen *net.UnixListener

	sessions int64 // active connect()'d sessions, for ping/status reporting
}

func NewServer(cfg *config.Config, ws string, store *storage.SQLiteStore, log *zap.Logger) *Server {
	return &Server{cfg: cfg, ws: ws, store: store, log: log}
}

// Serve accepts connections on the Unix socket at socketPath until ctx is
// canceled. There is no teacher precedent in this codebase for serving a
// Unix-domain socket directly (the nearest relative, internal/mangle's
// LSPServer, speaks its framed-JSON protocol over stdin/stdout); this accept
// loop is plain stdlib net, reusing only the request framing from
// ServeStdio, not any socket-specific code.
func (s *Server) Serve(ctx context.Context, socketPath string) error {
	if err := os.MkdirAll(filepath.Dir(socketPath), 0755); err != nil {
		return fmt.Errorf("kgworker: creating socket directory: %w", err)
	}
	_ = os.Remove(socketPath)

	addr, err := net.ResolveUnixAddr("unix", socketPath)
	if err != nil {
		return fmt.Errorf("kgworker: resolving socket address: %w", err)
	}
	ln, err := net.ListenUnix("unix", addr)
	if err != nil {
		return fmt.Errorf("kgworker: listening on %s: %w", socketPath, err)
	}
	s.listen = ln
	defer ln.Close()
	defer os.Remove(socketPath)

	s.log.Info("worker listening", zap.String("socket", socketPath))

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	var wg sync.WaitGroup
	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) || ctx.Err() != nil {
				wg.Wait()
				return ctx.Err()
			}
			s.log.Warn("accept failed", zap.Error(err))
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.handleConn(ctx, conn)
		}()
	}
}

func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	r := bufio.NewReader(conn)
	connected := false

	for {
		if ctx.Err() != nil {
			return
		}
		req, err := readRequest(r)
		if err != nil {
			if err != io.EOF {
				s.log.Debug("connection read error", zap.Error(err))
			}
			if connected {
				atomic.AddInt64(&s.sessions, -1)
			}
			return
		}

		switch req.Method {
		case "connect":
			if !connected {
				connected = true
				atomic.AddInt64(&s.sessions, 1)
			}
			s.reply(conn, req.ID, map[string]interface{}{"workspace": s.ws, "sessions": atomic.LoadInt64(&s.sessions)}, nil)
		case "ping":
			s.reply(conn, req.ID, map[string]interface{}{"pong": true, "sessions": atomic.LoadInt64(&s.sessions)}, nil)
		case "disconnect":
			if connected {
				connected = false
				atomic.AddInt64(&s.sessions, -1)
			}
			s.reply(conn, req.ID, "ok", nil)
			return
		case "run":
			s.handleRun(ctx, conn, req)
		case "query":
			s.handleQuery(ctx, conn, req)
		case "check":
			s.handleCheck(ctx, conn, req)
		default:
			s.reply(conn, req.ID, nil, fmt.Errorf("kgworker: unknown method %q", req.Method))
		}
	}
}

func (s *Server) reply(w io.Writer, id int, result interface{}, err error) {
	resp := &Response{ID: id, Result: result}
	if err != nil {
		resp.Error = err.Error()
		resp.Result = nil
	}
	if werr := writeResponse(w, resp); werr != nil {
		s.log.Warn("failed writing response", zap.Error(werr))
	}
}

type runParams struct {
	Path string `json:"path"`
}

// handleRun runs the whole pipeline, then writes one Response per pipeline
// phase from the returned manifest, then a final Response carrying the
// manifest summary. The per-phase Responses are all sent after Run returns,
// not while the pipeline is still running.
func (s *Server) handleRun(ctx context.Context, conn net.Conn, req *Request) {
	var p runParams
	if len(req.Params) > 0 {
		if err := decodeParams(req.Params, &p); err != nil {
			s.reply(conn, req.ID, nil, err)
			return
		}
	}

	cfg := *s.cfg
	if p.Path != "" {
		cfg.Roots = []string{p.Path}
	}

	manifest, err := orchestrator.New(&cfg, s.store).Run(ctx)
	if manifest != nil {
		for _, phase := range manifest.Phases {
			s.reply(conn, req.ID, map[string]interface{}{
				"phase":    phase.Phase,
				"files":    phase.FileCount,
				"duration": phase.Duration.String(),
				"errors":   phase.PluginErrs,
			}, nil)
		}
	}
	if err != nil {
		s.reply(conn, req.ID, nil, err)
		return
	}
	s.reply(conn, req.ID, map[string]interface{}{
		"done":     true,
		"files":    manifest.Files,
		"nodes":    manifest.NodeCount,
		"edges":    manifest.EdgeCount,
		"findings": len(manifest.Findings),
	}, nil)
}

type queryParams struct {
	Query string `json:"query"`
}

func (s *Server) handleQuery(ctx context.Context, conn net.Conn, req *Request) {
	var p queryParams
	if err := decodeParams(req.Params, &p); err != nil {
		s.reply(conn, req.ID, nil, err)
		return
	}

	nodes, edges, err := validation.DumpGraph(ctx, s.store)
	if err != nil {
		s.reply(conn, req.ID, nil, fmt.Errorf("query: loading graph: %w", err))
		return
	}
	engine := mangle.NewEngine(mangle.DefaultConfig())
	if err := mangle.LoadGraph(engine, nodes, edges); err != nil {
		s.reply(conn, req.ID, nil, fmt.Errorf("query: loading facts: %w", err))
		return
	}
	result, err := engine.Query(ctx, p.Query)
	if err != nil {
		s.reply(conn, req.ID, nil, err)
		return
	}

	s.reply(conn, req.ID, map[string]interface{}{
		"bindings": result.Bindings,
		"duration": result.Duration.String(),
	}, nil)
}

func (s *Server) handleCheck(ctx context.Context, conn net.Conn, req *Request) {
	findings, err := validation.Run(ctx, validation.DefaultValidators(), s.store)
	if err != nil {
		s.reply(conn, req.ID, nil, err)
		return
	}
	out := make([]map[string]interface{}, 0, len(findings))
	for _, f := range findings {
		out = append(out, map[string]interface{}{
			"code":     f.Code,
			"severity": f.Severity,
			"message":  f.Message,
			"node_id":  f.NodeID,
		})
	}
	s.reply(conn, req.ID, map[string]interface{}{"findings": out}, nil)
}
