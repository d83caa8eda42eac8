package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/wingman/internal/runtimepath"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}

	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	// Connect to socket
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	// Set deadline
	conn.SetDeadline(time.Now().Add(c.timeout))

	// Marshal request
	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	// Send request
	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	// Read response
	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	// Parse response
	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	// Check for error response
	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

// Reload sends a RELOAD command to the daemon
func (c *Client) Reload() error {
	req := &Request{
		Command: CommandReload,
	}

	_, err := c.sendRequest(req)
	return err
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	req := &Request{
		Command: CommandGetStatus,
	}

	resp, err := c.sendRequest(req)
	if err != nil {
		return nil, err
	}

	var status StatusData
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status data: %w", err)
	}

	return &status, nil
}

// GetMonitors retrieves monitor information
func (c *Client) GetMonitors() (*MonitorsData, error) {
	req := &Request{
		Command: CommandGetMonitors,
	}

	resp, err := c.sendRequest(req)
	if err != nil {
		return nil, err
	}

	var monitors MonitorsData
	if err := json.Unmarshal(resp.Data, &monitors); err != nil {
		return nil, fmt.Errorf("failed to parse monitors data: %w", err)
	}

	return &monitors, nil
}

// StartPreview begins a preview session for the active window. Zero
// dimensions let the daemon fall back to its configured default size.
func (c *Client) StartPreview(width, height float64) error {
	payload, err := json.Marshal(PreviewPayload{
		Width:  width,
		Height: height,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal preview payload: %w", err)
	}

	req := &Request{
		Command: CommandStartPreview,
		Payload: payload,
	}

	_, err = c.sendRequest(req)
	return err
}

// UpdatePreview feeds a new companion size into the running session
func (c *Client) UpdatePreview(width, height float64) error {
	payload, err := json.Marshal(PreviewPayload{
		Width:  width,
		Height: height,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal preview payload: %w", err)
	}

	req := &Request{
		Command: CommandUpdatePreview,
		Payload: payload,
	}

	_, err = c.sendRequest(req)
	return err
}

// StopPreview cancels the preview session without placing a window
func (c *Client) StopPreview() error {
	req := &Request{
		Command: CommandStopPreview,
	}

	_, err := c.sendRequest(req)
	return err
}

// ApplyPreview commits the previewed placement to the target window
func (c *Client) ApplyPreview() error {
	req := &Request{
		Command: CommandApplyPreview,
	}

	_, err := c.sendRequest(req)
	return err
}

// ComputePosition runs a placement dry-run without showing an overlay.
// An empty strategy uses the daemon's active strategy.
func (c *Client) ComputePosition(width, height float64, strategy string) (*ComputeResult, error) {
	payload, err := json.Marshal(ComputePayload{
		Width:    width,
		Height:   height,
		Strategy: strategy,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal compute payload: %w", err)
	}

	req := &Request{
		Command: CommandComputePosition,
		Payload: payload,
	}

	resp, err := c.sendRequest(req)
	if err != nil {
		return nil, err
	}

	var result ComputeResult
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse compute result: %w", err)
	}

	return &result, nil
}

// SetStrategy switches the daemon's placement strategy (optionally persisting
// the choice to the config file).
func (c *Client) SetStrategy(name string, persist bool) error {
	payload, err := json.Marshal(SetStrategyPayload{
		Strategy: name,
		Persist:  persist,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal set-strategy payload: %w", err)
	}

	req := &Request{
		Command: CommandSetStrategy,
		Payload: payload,
	}

	_, err = c.sendRequest(req)
	return err
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
