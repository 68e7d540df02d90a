package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/quarrydb/quarry"
	"github.com/quarrydb/quarry/core"
	"github.com/quarrydb/quarry/db"
)

// Server is the TCP front end of the quarry engine. Each connection
// gets its own engine session; the engine itself never sees the socket.
type Server struct {
	listener net.Listener
	instance *quarry.Instance
	auth     AuthConfig
	log      zerolog.Logger
	done     chan struct{}
	wg       sync.WaitGroup
	connSeq  atomic.Uint64
}

// NewServer creates a server around the given engine instance.
func NewServer(instance *quarry.Instance, auth AuthConfig, log zerolog.Logger) *Server {
	return &Server{
		instance: instance,
		auth:     auth,
		log:      log,
		done:     make(chan struct{}),
	}
}

// Start begins listening on the given address.
func (server *Server) Start(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	server.listener = listener
	server.log.Info().Str("addr", listener.Addr().String()).Msg("server listening")

	go server.acceptLoop()
	return nil
}

// Stop closes the listener and waits for in-flight connections.
func (server *Server) Stop() error {
	close(server.done)
	if server.listener != nil {
		server.listener.Close()
	}
	server.wg.Wait()
	return nil
}

// Addr returns the listening address.
func (server *Server) Addr() string {
	if server.listener == nil {
		return ""
	}
	return server.listener.Addr().String()
}

func (server *Server) acceptLoop() {
	for {
		conn, err := server.listener.Accept()
		if err != nil {
			select {
			case <-server.done:
				return
			default:
				server.log.Error().Err(err).Msg("accept failed")
				continue
			}
		}

		server.wg.Add(1)
		go server.handleConnection(conn)
	}
}

func (server *Server) handleConnection(conn net.Conn) {
	defer server.wg.Done()
	defer conn.Close()

	sessionID := fmt.Sprintf("conn-%d", server.connSeq.Add(1))
	session := server.instance.Session(sessionID)
	log := server.log.With().Str("session", sessionID).Str("remote", conn.RemoteAddr().String()).Logger()
	log.Info().Msg("client connected")

	state := &connectionState{}
	reader := bufio.NewReader(conn)

	for {
		select {
		case <-server.done:
			return
		default:
		}

		line, err := reader.ReadString('\n')
		if err != nil {
			if err != io.EOF {
				log.Error().Err(err).Msg("read failed")
			}
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		lowered := strings.ToLower(line)
		if lowered == "quit" || lowered == "exit" {
			log.Info().Msg("client disconnected")
			return
		}

		var response Response
		if strings.HasPrefix(strings.ToUpper(line), "AUTH ") {
			response = server.handleAuth(line, state)
		} else if server.auth.Enabled && (!state.authenticated || state.expired()) {
			response = Response{Success: false, Error: "not authenticated"}
		} else {
			response = server.executeLine(session, line, log)
		}

		data, err := EncodeResponse(response)
		if err != nil {
			log.Error().Err(err).Msg("encode failed")
			continue
		}
		if _, err := conn.Write(data); err != nil {
			log.Error().Err(err).Msg("write failed")
			return
		}
	}
}

// executeLine runs one request line: either a bare SQL statement or a
// JSON request carrying parameter tuples.
func (server *Server) executeLine(session *db.Session, line string, log zerolog.Logger) Response {
	var result *db.Result
	var err error

	if strings.HasPrefix(line, "{") {
		request, decodeErr := DecodeRequest([]byte(line))
		if decodeErr != nil {
			return Response{Success: false, Error: "invalid request: " + decodeErr.Error()}
		}
		if len(request.Params) > 0 {
			result, err = session.ExecuteMany(request.Query, request.Params)
		} else {
			result, err = session.Execute(request.Query)
		}
	} else {
		result, err = session.Execute(line)
	}

	if err != nil {
		log.Debug().Err(err).Msg("statement failed")
		var queryErr *core.QueryError
		if errors.As(err, &queryErr) {
			return Response{
				Success: false,
				Error:   queryErr.Message,
				Kind:    string(queryErr.Kind),
				Code:    queryErr.Code,
			}
		}
		return Response{Success: false, Error: err.Error()}
	}

	if result.Tag == "SELECT" {
		columns := make([]ColumnInfo, len(result.Columns))
		for i, column := range result.Columns {
			columns[i] = ColumnInfo{Name: column.Name, Type: column.Type.String()}
		}
		qr := QueryResponse{Columns: columns, Rows: result.TextRows()}
		if qr.Rows == nil {
			qr.Rows = [][]*string{}
		}
		data, _ := json.Marshal(qr)
		return Response{Success: true, Type: "query", Result: data}
	}

	er := ExecResponse{Tag: result.Tag, RowsAffected: result.RowsAffected}
	data, _ := json.Marshal(er)
	return Response{Success: true, Type: "exec", Result: data}
}
