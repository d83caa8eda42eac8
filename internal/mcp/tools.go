package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/wingman/internal/placement"
)

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetStatusInput) (*mcpsdk.CallToolResult, GetStatusOutput, error) {
	st, err := s.client.GetStatus()
	if err != nil {
		return nil, GetStatusOutput{}, err
	}
	return nil, GetStatusOutput{
		DaemonRunning: st.DaemonRunning,
		Phase:         st.Phase,
		Strategy:      st.Strategy,
		UptimeSeconds: st.UptimeSeconds,
		MonitorCount:  st.MonitorCount,
		PreviewWidth:  st.PreviewWidth,
		PreviewHeight: st.PreviewHeight,
		PreviewX:      st.PreviewX,
		PreviewY:      st.PreviewY,
	}, nil
}

func (s *Server) handleListMonitors(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListMonitorsInput) (*mcpsdk.CallToolResult, ListMonitorsOutput, error) {
	data, err := s.client.GetMonitors()
	if err != nil {
		return nil, ListMonitorsOutput{}, err
	}

	out := ListMonitorsOutput{Monitors: make([]MonitorOutput, 0, len(data.Monitors))}
	for _, m := range data.Monitors {
		out.Monitors = append(out.Monitors, MonitorOutput{
			ID:         m.ID,
			X:          m.X,
			Y:          m.Y,
			Width:      m.Width,
			Height:     m.Height,
			WorkX:      m.WorkX,
			WorkY:      m.WorkY,
			WorkWidth:  m.WorkWidth,
			WorkHeight: m.WorkHeight,
			Primary:    m.Primary,
			DPIX:       m.DPIX,
			DPIY:       m.DPIY,
		})
	}
	return nil, out, nil
}

func (s *Server) handleComputePosition(_ context.Context, _ *mcpsdk.CallToolRequest, args ComputePositionInput) (*mcpsdk.CallToolResult, ComputePositionOutput, error) {
	res, err := s.client.ComputePosition(args.Width, args.Height, args.Strategy)
	if err != nil {
		return nil, ComputePositionOutput{}, err
	}
	return nil, ComputePositionOutput{
		X:        res.X,
		Y:        res.Y,
		Width:    res.Width,
		Height:   res.Height,
		Strategy: res.Strategy,
	}, nil
}

func (s *Server) handleStartPreview(_ context.Context, _ *mcpsdk.CallToolRequest, args StartPreviewInput) (*mcpsdk.CallToolResult, PreviewStateOutput, error) {
	if err := s.client.StartPreview(args.Width, args.Height); err != nil {
		return nil, PreviewStateOutput{}, err
	}
	out, err := s.previewState()
	if err != nil {
		return nil, PreviewStateOutput{}, err
	}
	return nil, out, nil
}

func (s *Server) handleUpdatePreview(_ context.Context, _ *mcpsdk.CallToolRequest, args UpdatePreviewInput) (*mcpsdk.CallToolResult, PreviewStateOutput, error) {
	if err := s.client.UpdatePreview(args.Width, args.Height); err != nil {
		return nil, PreviewStateOutput{}, err
	}
	out, err := s.previewState()
	if err != nil {
		return nil, PreviewStateOutput{}, err
	}
	return nil, out, nil
}

func (s *Server) handleApplyPreview(_ context.Context, _ *mcpsdk.CallToolRequest, _ ApplyPreviewInput) (*mcpsdk.CallToolResult, ApplyPreviewOutput, error) {
	if err := s.client.ApplyPreview(); err != nil {
		return nil, ApplyPreviewOutput{}, err
	}
	// The daemon keeps the last geometry around after teardown, so a status
	// read reports what was just applied.
	st, err := s.client.GetStatus()
	if err != nil {
		return nil, ApplyPreviewOutput{Applied: true}, nil
	}
	return nil, ApplyPreviewOutput{
		Applied: true,
		Width:   st.PreviewWidth,
		Height:  st.PreviewHeight,
		X:       st.PreviewX,
		Y:       st.PreviewY,
	}, nil
}

func (s *Server) handleStopPreview(_ context.Context, _ *mcpsdk.CallToolRequest, _ StopPreviewInput) (*mcpsdk.CallToolResult, StopPreviewOutput, error) {
	if err := s.client.StopPreview(); err != nil {
		return nil, StopPreviewOutput{}, err
	}
	return nil, StopPreviewOutput{Stopped: true}, nil
}

func (s *Server) handleSetStrategy(_ context.Context, _ *mcpsdk.CallToolRequest, args SetStrategyInput) (*mcpsdk.CallToolResult, SetStrategyOutput, error) {
	name := strings.TrimSpace(args.Strategy)
	if name == "" {
		return nil, SetStrategyOutput{}, fmt.Errorf("strategy is required (one of: %s)", strings.Join(placement.Names(), ", "))
	}
	if err := s.client.SetStrategy(name, args.Persist); err != nil {
		return nil, SetStrategyOutput{}, err
	}
	return nil, SetStrategyOutput{
		Strategy:  name,
		Persisted: args.Persist,
	}, nil
}

func (s *Server) previewState() (PreviewStateOutput, error) {
	st, err := s.client.GetStatus()
	if err != nil {
		return PreviewStateOutput{}, err
	}
	return PreviewStateOutput{
		Phase:  st.Phase,
		Width:  st.PreviewWidth,
		Height: st.PreviewHeight,
		X:      st.PreviewX,
		Y:      st.PreviewY,
	}, nil
}
