package ipc

import (
	"encoding/json"
	"fmt"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandReload          CommandType = "RELOAD"
	CommandGetStatus       CommandType = "GET_STATUS"
	CommandGetMonitors     CommandType = "GET_MONITORS"
	CommandStartPreview    CommandType = "START_PREVIEW"
	CommandUpdatePreview   CommandType = "UPDATE_PREVIEW"
	CommandStopPreview     CommandType = "STOP_PREVIEW"
	CommandApplyPreview    CommandType = "APPLY_PREVIEW"
	CommandComputePosition CommandType = "COMPUTE_POSITION"
	CommandSetStrategy     CommandType = "SET_STRATEGY"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	DaemonRunning bool    `json:"daemon_running"`
	Phase         string  `json:"phase"`
	Strategy      string  `json:"strategy"`
	UptimeSeconds int64   `json:"uptime_seconds"`
	MonitorCount  int     `json:"monitor_count"`
	PreviewWidth  float64 `json:"preview_width"`
	PreviewHeight float64 `json:"preview_height"`
	PreviewX      float64 `json:"preview_x"`
	PreviewY      float64 `json:"preview_y"`
}

// MonitorInfo represents information about a single monitor
type MonitorInfo struct {
	ID         string  `json:"id"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	WorkX      float64 `json:"work_x"`
	WorkY      float64 `json:"work_y"`
	WorkWidth  float64 `json:"work_width"`
	WorkHeight float64 `json:"work_height"`
	Primary    bool    `json:"primary"`
	DPIX       float64 `json:"dpi_x"`
	DPIY       float64 `json:"dpi_y"`
}

// MonitorsData represents the data returned by GET_MONITORS
type MonitorsData struct {
	Monitors []MonitorInfo `json:"monitors"`
}

// PreviewPayload carries the companion size for START_PREVIEW and
// UPDATE_PREVIEW. A zero size asks the daemon for its configured default.
type PreviewPayload struct {
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// ComputePayload is the COMPUTE_POSITION dry-run request. An empty
// strategy uses whatever the session currently runs.
type ComputePayload struct {
	Width    float64 `json:"width,omitempty"`
	Height   float64 `json:"height,omitempty"`
	Strategy string  `json:"strategy,omitempty"`
}

// ComputeResult is the data returned by COMPUTE_POSITION.
type ComputeResult struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Strategy string  `json:"strategy"`
}

// SetStrategyPayload selects the session strategy. Persist also writes the
// choice back to the config file.
type SetStrategyPayload struct {
	Strategy string `json:"strategy"`
	Persist  bool   `json:"persist,omitempty"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
