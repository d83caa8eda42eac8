// Package mcp exposes wingman's companion placement engine to AI
// assistants over the Model Context Protocol. The server is a thin
// stdio front end: every tool call is forwarded to the running daemon
// through the IPC socket, so assistants see exactly the same state as
// the CLI and hotkeys do.
package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/wingman/internal/ipc"
)

const (
	ServerName    = "wingman"
	ServerVersion = "0.1.0"
)

// daemonClient is the slice of the IPC client the tools need. Tests
// substitute a fake; production uses *ipc.Client.
type daemonClient interface {
	GetStatus() (*ipc.StatusData, error)
	GetMonitors() (*ipc.MonitorsData, error)
	StartPreview(width, height float64) error
	UpdatePreview(width, height float64) error
	StopPreview() error
	ApplyPreview() error
	ComputePosition(width, height float64, strategy string) (*ipc.ComputeResult, error)
	SetStrategy(name string, persist bool) error
}

// Server is the MCP server for wingman companion placement.
type Server struct {
	mcpServer *mcpsdk.Server
	client    daemonClient
}

// NewServer creates an MCP server that talks to the local wingman daemon.
func NewServer() *Server {
	s := &Server{
		client: ipc.NewClient(),
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Get the wingman daemon status: whether a preview is active, the current placement strategy, daemon uptime, monitor count, and the last previewed companion geometry.",
	}, s.handleGetStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_monitors",
		Description: "List the connected monitors with their full bounds, usable work areas (excluding panels and docks), and DPI.",
	}, s.handleListMonitors)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "compute_position",
		Description: "Compute where a companion window of the given size would be placed next to the focused window, without showing anything. Useful for inspecting the placement decision before starting a preview.",
	}, s.handleComputePosition)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "start_preview",
		Description: "Start a companion placement preview for the currently focused window. Shows a positioned overlay at the given size; omit the size to use the configured default. If a preview is already active this updates its size instead.",
	}, s.handleStartPreview)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "update_preview",
		Description: "Change the companion size of the active preview. The overlay is repositioned against the focused window's current location. Fails when no preview is active.",
	}, s.handleUpdatePreview)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "apply_preview",
		Description: "Commit the active preview: the focused window is resized to the previewed companion size and the overlay is dismissed.",
	}, s.handleApplyPreview)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "stop_preview",
		Description: "Cancel the active preview and hide the overlay without touching any window.",
	}, s.handleStopPreview)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_strategy",
		Description: "Switch the placement strategy (smart, center, fixed-offset, edge-dock, remembered). An active preview is repositioned immediately. Set persist to also write the choice to the config file.",
	}, s.handleSetStrategy)
}
