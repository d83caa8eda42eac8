package mcp

// GetStatusInput is the input for the get_status tool.
type GetStatusInput struct{}

// GetStatusOutput is the output for the get_status tool.
type GetStatusOutput struct {
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

// ListMonitorsInput is the input for the list_monitors tool.
type ListMonitorsInput struct{}

// MonitorOutput describes one connected monitor.
type MonitorOutput struct {
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

// ListMonitorsOutput is the output for the list_monitors tool.
type ListMonitorsOutput struct {
	Monitors []MonitorOutput `json:"monitors"`
}

// ComputePositionInput is the input for the compute_position tool.
type ComputePositionInput struct {
	Width    float64 `json:"width,omitempty" jsonschema:"Companion width in pixels (default: configured default size)"`
	Height   float64 `json:"height,omitempty" jsonschema:"Companion height in pixels (default: configured default size)"`
	Strategy string  `json:"strategy,omitempty" jsonschema:"Placement strategy to evaluate (default: the daemon's current strategy)"`
}

// ComputePositionOutput is the output for the compute_position tool.
type ComputePositionOutput struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Strategy string  `json:"strategy"`
}

// StartPreviewInput is the input for the start_preview tool.
type StartPreviewInput struct {
	Width  float64 `json:"width,omitempty" jsonschema:"Companion width in pixels (default: configured default size)"`
	Height float64 `json:"height,omitempty" jsonschema:"Companion height in pixels (default: configured default size)"`
}

// UpdatePreviewInput is the input for the update_preview tool.
type UpdatePreviewInput struct {
	Width  float64 `json:"width,omitempty" jsonschema:"New companion width in pixels (default: configured default size)"`
	Height float64 `json:"height,omitempty" jsonschema:"New companion height in pixels (default: configured default size)"`
}

// PreviewStateOutput reports the preview state after a lifecycle tool ran.
type PreviewStateOutput struct {
	Phase  string  `json:"phase"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// ApplyPreviewInput is the input for the apply_preview tool.
type ApplyPreviewInput struct{}

// ApplyPreviewOutput is the output for the apply_preview tool.
type ApplyPreviewOutput struct {
	Applied bool    `json:"applied"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
}

// StopPreviewInput is the input for the stop_preview tool.
type StopPreviewInput struct{}

// StopPreviewOutput is the output for the stop_preview tool.
type StopPreviewOutput struct {
	Stopped bool `json:"stopped"`
}

// SetStrategyInput is the input for the set_strategy tool.
type SetStrategyInput struct {
	Strategy string `json:"strategy" jsonschema:"required,Strategy name: smart, center, fixed-offset, edge-dock, or remembered"`
	Persist  bool   `json:"persist,omitempty" jsonschema:"When true, write the strategy to the config file so it survives daemon restarts"`
}

// SetStrategyOutput is the output for the set_strategy tool.
type SetStrategyOutput struct {
	Strategy  string `json:"strategy"`
	Persisted bool   `json:"persisted"`
}
