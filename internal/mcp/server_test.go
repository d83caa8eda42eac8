package mcp

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/1broseidon/wingman/internal/ipc"
)

type sizeCall struct {
	width  float64
	height float64
}

type computeCall struct {
	width    float64
	height   float64
	strategy string
}

type strategyCall struct {
	name    string
	persist bool
}

// fakeDaemon stands in for the IPC client so tools can be exercised
// without a running daemon.
type fakeDaemon struct {
	status      *ipc.StatusData
	statusErr   error
	monitors    *ipc.MonitorsData
	monitorsErr error
	compute     *ipc.ComputeResult
	computeErr  error
	startErr    error
	updateErr   error
	stopErr     error
	applyErr    error
	strategyErr error

	started    []sizeCall
	updated    []sizeCall
	stops      int
	applies    int
	computes   []computeCall
	strategies []strategyCall
}

func (f *fakeDaemon) GetStatus() (*ipc.StatusData, error) {
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	return f.status, nil
}

func (f *fakeDaemon) GetMonitors() (*ipc.MonitorsData, error) {
	if f.monitorsErr != nil {
		return nil, f.monitorsErr
	}
	return f.monitors, nil
}

func (f *fakeDaemon) StartPreview(width, height float64) error {
	f.started = append(f.started, sizeCall{width, height})
	return f.startErr
}

func (f *fakeDaemon) UpdatePreview(width, height float64) error {
	f.updated = append(f.updated, sizeCall{width, height})
	return f.updateErr
}

func (f *fakeDaemon) StopPreview() error {
	f.stops++
	return f.stopErr
}

func (f *fakeDaemon) ApplyPreview() error {
	f.applies++
	return f.applyErr
}

func (f *fakeDaemon) ComputePosition(width, height float64, strategy string) (*ipc.ComputeResult, error) {
	f.computes = append(f.computes, computeCall{width, height, strategy})
	if f.computeErr != nil {
		return nil, f.computeErr
	}
	return f.compute, nil
}

func (f *fakeDaemon) SetStrategy(name string, persist bool) error {
	f.strategies = append(f.strategies, strategyCall{name, persist})
	return f.strategyErr
}

func newTestServer(client daemonClient) *Server {
	return &Server{client: client}
}

func activeStatus() *ipc.StatusData {
	return &ipc.StatusData{
		DaemonRunning: true,
		Phase:         "active",
		Strategy:      "smart",
		UptimeSeconds: 42,
		MonitorCount:  2,
		PreviewWidth:  300,
		PreviewHeight: 200,
		PreviewX:      710,
		PreviewY:      510,
	}
}

func TestGetStatusTool(t *testing.T) {
	s := newTestServer(&fakeDaemon{status: activeStatus()})

	_, out, err := s.handleGetStatus(context.Background(), nil, GetStatusInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.DaemonRunning {
		t.Error("expected daemon_running true")
	}
	if out.Phase != "active" || out.Strategy != "smart" {
		t.Errorf("phase/strategy = %q/%q, want active/smart", out.Phase, out.Strategy)
	}
	if out.UptimeSeconds != 42 || out.MonitorCount != 2 {
		t.Errorf("uptime/monitors = %d/%d, want 42/2", out.UptimeSeconds, out.MonitorCount)
	}
	if out.PreviewWidth != 300 || out.PreviewHeight != 200 || out.PreviewX != 710 || out.PreviewY != 510 {
		t.Errorf("preview geometry = %vx%v at (%v,%v), want 300x200 at (710,510)",
			out.PreviewWidth, out.PreviewHeight, out.PreviewX, out.PreviewY)
	}
}

func TestGetStatusToolDaemonDown(t *testing.T) {
	s := newTestServer(&fakeDaemon{statusErr: errors.New("failed to connect to daemon")})

	_, _, err := s.handleGetStatus(context.Background(), nil, GetStatusInput{})
	if err == nil {
		t.Fatal("expected error when daemon is unreachable")
	}
}

func TestListMonitorsTool(t *testing.T) {
	s := newTestServer(&fakeDaemon{monitors: &ipc.MonitorsData{
		Monitors: []ipc.MonitorInfo{
			{ID: "DP-1", Width: 1920, Height: 1080, WorkY: 30, WorkWidth: 1920, WorkHeight: 1050, Primary: true, DPIX: 96, DPIY: 96},
			{ID: "HDMI-1", X: 1920, Width: 2560, Height: 1440, WorkWidth: 2560, WorkHeight: 1440, DPIX: 144, DPIY: 144},
		},
	}})

	_, out, err := s.handleListMonitors(context.Background(), nil, ListMonitorsInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Monitors) != 2 {
		t.Fatalf("monitor count = %d, want 2", len(out.Monitors))
	}
	if out.Monitors[0].ID != "DP-1" || !out.Monitors[0].Primary {
		t.Errorf("first monitor = %+v, want primary DP-1", out.Monitors[0])
	}
	if out.Monitors[0].WorkY != 30 || out.Monitors[0].WorkHeight != 1050 {
		t.Errorf("work area = y=%v h=%v, want y=30 h=1050", out.Monitors[0].WorkY, out.Monitors[0].WorkHeight)
	}
	if out.Monitors[1].X != 1920 || out.Monitors[1].DPIX != 144 {
		t.Errorf("second monitor = %+v, want x=1920 dpi=144", out.Monitors[1])
	}
}

func TestComputePositionTool(t *testing.T) {
	fake := &fakeDaemon{compute: &ipc.ComputeResult{X: 810, Y: 440, Width: 300, Height: 200, Strategy: "center"}}
	s := newTestServer(fake)

	_, out, err := s.handleComputePosition(context.Background(), nil, ComputePositionInput{
		Width: 300, Height: 200, Strategy: "center",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.X != 810 || out.Y != 440 {
		t.Errorf("position = (%v,%v), want (810,440)", out.X, out.Y)
	}
	if out.Strategy != "center" {
		t.Errorf("strategy = %q, want center", out.Strategy)
	}
	if len(fake.computes) != 1 {
		t.Fatalf("compute calls = %d, want 1", len(fake.computes))
	}
	if got := fake.computes[0]; got.width != 300 || got.height != 200 || got.strategy != "center" {
		t.Errorf("forwarded args = %+v, want 300x200 center", got)
	}
}

func TestStartPreviewToolReportsState(t *testing.T) {
	fake := &fakeDaemon{status: activeStatus()}
	s := newTestServer(fake)

	_, out, err := s.handleStartPreview(context.Background(), nil, StartPreviewInput{Width: 300, Height: 200})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fake.started) != 1 || fake.started[0] != (sizeCall{300, 200}) {
		t.Fatalf("start calls = %+v, want one 300x200", fake.started)
	}
	if out.Phase != "active" {
		t.Errorf("phase = %q, want active", out.Phase)
	}
	if out.X != 710 || out.Y != 510 {
		t.Errorf("position = (%v,%v), want (710,510)", out.X, out.Y)
	}
}

func TestUpdatePreviewToolErrorSurfaces(t *testing.T) {
	fake := &fakeDaemon{updateErr: errors.New("no active preview session")}
	s := newTestServer(fake)

	_, _, err := s.handleUpdatePreview(context.Background(), nil, UpdatePreviewInput{Width: 500, Height: 400})
	if err == nil {
		t.Fatal("expected error from inactive preview")
	}
	if len(fake.updated) != 1 {
		t.Fatalf("update calls = %d, want 1", len(fake.updated))
	}
}

func TestApplyPreviewTool(t *testing.T) {
	fake := &fakeDaemon{status: activeStatus()}
	s := newTestServer(fake)

	_, out, err := s.handleApplyPreview(context.Background(), nil, ApplyPreviewInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fake.applies != 1 {
		t.Fatalf("apply calls = %d, want 1", fake.applies)
	}
	if !out.Applied {
		t.Error("expected applied true")
	}
	if out.Width != 300 || out.Height != 200 {
		t.Errorf("applied size = %vx%v, want 300x200", out.Width, out.Height)
	}
}

func TestApplyPreviewToolWithoutStatus(t *testing.T) {
	// A status failure after a successful apply should not turn the apply
	// into an error.
	fake := &fakeDaemon{statusErr: errors.New("connection reset")}
	s := newTestServer(fake)

	_, out, err := s.handleApplyPreview(context.Background(), nil, ApplyPreviewInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.Applied {
		t.Error("expected applied true despite status failure")
	}
}

func TestStopPreviewTool(t *testing.T) {
	fake := &fakeDaemon{}
	s := newTestServer(fake)

	_, out, err := s.handleStopPreview(context.Background(), nil, StopPreviewInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fake.stops != 1 {
		t.Fatalf("stop calls = %d, want 1", fake.stops)
	}
	if !out.Stopped {
		t.Error("expected stopped true")
	}
}

func TestSetStrategyTool(t *testing.T) {
	fake := &fakeDaemon{}
	s := newTestServer(fake)

	_, out, err := s.handleSetStrategy(context.Background(), nil, SetStrategyInput{Strategy: "edge-dock", Persist: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fake.strategies) != 1 {
		t.Fatalf("strategy calls = %d, want 1", len(fake.strategies))
	}
	if got := fake.strategies[0]; got.name != "edge-dock" || !got.persist {
		t.Errorf("forwarded = %+v, want edge-dock persisted", got)
	}
	if out.Strategy != "edge-dock" || !out.Persisted {
		t.Errorf("output = %+v, want edge-dock persisted", out)
	}
}

func TestSetStrategyToolRequiresName(t *testing.T) {
	fake := &fakeDaemon{}
	s := newTestServer(fake)

	_, _, err := s.handleSetStrategy(context.Background(), nil, SetStrategyInput{Strategy: "  "})
	if err == nil {
		t.Fatal("expected error for missing strategy")
	}
	if !strings.Contains(err.Error(), "smart") {
		t.Errorf("error should list valid strategies, got %q", err)
	}
	if len(fake.strategies) != 0 {
		t.Errorf("strategy calls = %d, want 0", len(fake.strategies))
	}
}
