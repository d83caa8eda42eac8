package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/wingman/internal/config"
	"github.com/1broseidon/wingman/internal/geometry"
	"github.com/1broseidon/wingman/internal/monitor"
	"github.com/1broseidon/wingman/internal/runtimepath"
	"github.com/1broseidon/wingman/internal/session"
)

// Engine is the daemon surface the IPC server drives.
type Engine interface {
	StartPreview(size geometry.Size) error
	UpdatePreview(size geometry.Size) error
	StopPreview()
	ApplyPreview() error
	ComputePosition(size geometry.Size, strategy string) (geometry.Point, string, error)
	SessionStatus() session.Status
	Monitors() ([]monitor.Descriptor, error)
	SetStrategy(name string) error
}

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	cfg          *config.Config
	cfgMu        sync.RWMutex
	engine       Engine
	startTime    time.Time
	reloadChan   chan struct{}
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server
func NewServer(cfg *config.Config, engine Engine, reloadChan chan struct{}) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		cfg:        cfg,
		engine:     engine,
		startTime:  time.Now(),
		reloadChan: reloadChan,
	}, nil
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	// Set socket permissions
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	log.Printf("IPC server listening on %s", s.socketPath)

	// Accept connections
	go s.acceptLoop()

	return nil
}

// acceptLoop accepts incoming connections
func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			log.Printf("IPC accept error: %v", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		log.Printf("IPC read error: %v", err)
		return
	}

	// Parse request
	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	// Handle command
	resp := s.handleCommand(req)

	// Send response
	respData, err := resp.Marshal()
	if err != nil {
		log.Printf("Failed to marshal response: %v", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		log.Printf("Failed to send response: %v", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandReload:
		return s.handleReload()
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandGetMonitors:
		return s.handleGetMonitors()
	case CommandStartPreview:
		return s.handleStartPreview(req.Payload)
	case CommandUpdatePreview:
		return s.handleUpdatePreview(req.Payload)
	case CommandStopPreview:
		return s.handleStopPreview()
	case CommandApplyPreview:
		return s.handleApplyPreview()
	case CommandComputePosition:
		return s.handleComputePosition(req.Payload)
	case CommandSetStrategy:
		return s.handleSetStrategy(req.Payload)
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

// handleReload reloads the configuration
func (s *Server) handleReload() *Response {
	log.Println("IPC: Received RELOAD command")

	// Load new config
	newCfg, err := config.Load()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reload config: %v", err))
	}

	// Update config atomically
	s.cfgMu.Lock()
	s.cfg = newCfg
	s.cfgMu.Unlock()

	// Notify the main daemon via channel (non-blocking)
	select {
	case s.reloadChan <- struct{}{}:
	default:
	}

	log.Println("IPC: Config reloaded successfully")

	resp, _ := NewOKResponse(nil)
	return resp
}

// handleGetStatus returns current daemon status
func (s *Server) handleGetStatus() *Response {
	st := s.engine.SessionStatus()

	monitorCount := 0
	if monitors, err := s.engine.Monitors(); err == nil {
		monitorCount = len(monitors)
	}

	status := StatusData{
		DaemonRunning: true,
		Phase:         st.Phase.String(),
		Strategy:      st.Strategy,
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		MonitorCount:  monitorCount,
		PreviewWidth:  st.LastSize.Width,
		PreviewHeight: st.LastSize.Height,
		PreviewX:      st.LastPosition.X,
		PreviewY:      st.LastPosition.Y,
	}

	resp, _ := NewOKResponse(status)
	return resp
}

// handleGetMonitors returns information about all monitors
func (s *Server) handleGetMonitors() *Response {
	monitors, err := s.engine.Monitors()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to get monitors: %v", err))
	}

	monitorInfos := make([]MonitorInfo, len(monitors))
	for i, m := range monitors {
		monitorInfos[i] = MonitorInfo{
			ID:         m.ID,
			X:          m.Bounds.X,
			Y:          m.Bounds.Y,
			Width:      m.Bounds.Width,
			Height:     m.Bounds.Height,
			WorkX:      m.WorkArea.X,
			WorkY:      m.WorkArea.Y,
			WorkWidth:  m.WorkArea.Width,
			WorkHeight: m.WorkArea.Height,
			Primary:    m.Primary,
			DPIX:       m.DPIX,
			DPIY:       m.DPIY,
		}
	}

	data := MonitorsData{
		Monitors: monitorInfos,
	}

	resp, _ := NewOKResponse(data)
	return resp
}

// handleStartPreview starts (or updates) the preview session
func (s *Server) handleStartPreview(payload json.RawMessage) *Response {
	size, resp := s.parseSize(payload)
	if resp != nil {
		return resp
	}

	if err := s.engine.StartPreview(size); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to start preview: %v", err))
	}

	resp, _ = NewOKResponse(nil)
	return resp
}

// handleUpdatePreview feeds a new companion size into the running session
func (s *Server) handleUpdatePreview(payload json.RawMessage) *Response {
	size, resp := s.parseSize(payload)
	if resp != nil {
		return resp
	}

	if err := s.engine.UpdatePreview(size); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to update preview: %v", err))
	}

	resp, _ = NewOKResponse(nil)
	return resp
}

func (s *Server) handleStopPreview() *Response {
	s.engine.StopPreview()
	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleApplyPreview() *Response {
	if err := s.engine.ApplyPreview(); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to apply preview: %v", err))
	}
	resp, _ := NewOKResponse(nil)
	return resp
}

// handleComputePosition runs a placement dry-run for the active window
func (s *Server) handleComputePosition(payload json.RawMessage) *Response {
	var computeReq ComputePayload
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &computeReq); err != nil {
			return NewErrorResponse(fmt.Sprintf("Invalid compute payload: %v", err))
		}
	}

	size := geometry.Size{Width: computeReq.Width, Height: computeReq.Height}
	if !size.IsPositive() {
		size = s.defaultSize()
	}

	pos, strategyName, err := s.engine.ComputePosition(size, computeReq.Strategy)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to compute position: %v", err))
	}

	result := ComputeResult{
		X:        pos.X,
		Y:        pos.Y,
		Width:    size.Width,
		Height:   size.Height,
		Strategy: strategyName,
	}

	resp, _ := NewOKResponse(result)
	return resp
}

func (s *Server) handleSetStrategy(payload json.RawMessage) *Response {
	var setReq SetStrategyPayload
	if err := json.Unmarshal(payload, &setReq); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid set-strategy payload: %v", err))
	}
	if setReq.Strategy == "" {
		return NewErrorResponse("strategy is required")
	}

	if err := s.engine.SetStrategy(setReq.Strategy); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to set strategy: %v", err))
	}

	if setReq.Persist {
		s.cfgMu.Lock()
		s.cfg.Strategy = setReq.Strategy
		err := s.cfg.Save()
		s.cfgMu.Unlock()
		if err != nil {
			return NewErrorResponse(fmt.Sprintf("Failed to save config: %v", err))
		}
	}

	resp, _ := NewOKResponse(nil)
	return resp
}

// parseSize extracts a companion size from a preview payload, applying the
// configured default when no size was given.
func (s *Server) parseSize(payload json.RawMessage) (geometry.Size, *Response) {
	var previewReq PreviewPayload
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &previewReq); err != nil {
			return geometry.Size{}, NewErrorResponse(fmt.Sprintf("Invalid preview payload: %v", err))
		}
	}

	size := geometry.Size{Width: previewReq.Width, Height: previewReq.Height}
	if !size.IsPositive() {
		size = s.defaultSize()
	}
	return size, nil
}

func (s *Server) defaultSize() geometry.Size {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return geometry.Size{
		Width:  s.cfg.DefaultSize.Width,
		Height: s.cfg.DefaultSize.Height,
	}
}

// sendError sends an error response
func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}

// GetConfig returns the current config (thread-safe)
func (s *Server) GetConfig() *config.Config {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return s.cfg
}

// UpdateConfig updates the config (thread-safe)
func (s *Server) UpdateConfig(cfg *config.Config) {
	s.cfgMu.Lock()
	defer s.cfgMu.Unlock()
	s.cfg = cfg
}
