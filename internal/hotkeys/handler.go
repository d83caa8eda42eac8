package hotkeys

import (
	"log"
	"sync"

	"github.com/1broseidon/wingman/internal/config"
	"github.com/1broseidon/wingman/internal/geometry"
	"github.com/1broseidon/wingman/internal/platform"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// Previewer interface for the preview operations driven by hotkeys
type Previewer interface {
	StartPreview(size geometry.Size) error
	StopPreview()
	ApplyPreview() error
	SessionActive() bool
}

// x11Accessor is an optional interface for backends that expose X11 internals.
type x11Accessor interface {
	XUtil() *xgbutil.XUtil
	RootWindow() xproto.Window
}

// Handler manages global keyboard shortcuts
type Handler struct {
	xu        *xgbutil.XUtil
	root      xproto.Window
	previewer Previewer

	mu          sync.Mutex
	defaultSize geometry.Size
	presets     []config.Preset
	presetIdx   int
	current     geometry.Size
}

var ignoreModsOnce sync.Once

// NewHandler creates a new hotkey handler.
func NewHandler(backend platform.Backend, previewer Previewer) *Handler {
	var xu *xgbutil.XUtil
	var root xproto.Window
	if accessor, ok := backend.(x11Accessor); ok {
		xu = accessor.XUtil()
		root = accessor.RootWindow()
	}

	ignoreModsOnce.Do(func() {
		configureIgnoreMods(xu)
	})

	return &Handler{
		xu:        xu,
		root:      root,
		previewer: previewer,
	}
}

// SetSizes installs the default companion size and the preset list. Called
// again on config reload.
func (h *Handler) SetSizes(defaultSize geometry.Size, presets []config.Preset) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.defaultSize = defaultSize
	h.presets = append([]config.Preset(nil), presets...)
}

// RegisterPreviewToggle registers the hotkey that starts a preview for the
// active window, or cancels the running one.
func (h *Handler) RegisterPreviewToggle(keySequence string) error {
	return h.RegisterFunc(keySequence, func() {
		if h.previewer.SessionActive() {
			log.Println("Preview hotkey: cancelling preview")
			h.previewer.StopPreview()
			return
		}

		size := h.currentSize()
		log.Printf("Preview hotkey: starting %gx%g preview", size.Width, size.Height)
		if err := h.previewer.StartPreview(size); err != nil {
			log.Printf("Failed to start preview: %v", err)
		}
	})
}

// RegisterApply registers the hotkey that commits the previewed size to the
// target window.
func (h *Handler) RegisterApply(keySequence string) error {
	return h.RegisterFunc(keySequence, func() {
		if err := h.previewer.ApplyPreview(); err != nil {
			log.Printf("Failed to apply preview: %v", err)
		}
	})
}

// RegisterCancel registers the hotkey that dismisses the preview.
func (h *Handler) RegisterCancel(keySequence string) error {
	return h.RegisterFunc(keySequence, func() {
		h.previewer.StopPreview()
	})
}

// RegisterCyclePreset registers the hotkey that steps through the size
// presets, previewing each in turn.
func (h *Handler) RegisterCyclePreset(keySequence string) error {
	return h.RegisterFunc(keySequence, func() {
		preset, ok := h.nextPreset()
		if !ok {
			log.Println("Cycle hotkey: no presets configured")
			return
		}

		size := geometry.Size{Width: preset.Width, Height: preset.Height}
		log.Printf("Cycle hotkey: preset %q (%gx%g)", preset.Name, size.Width, size.Height)
		if err := h.previewer.StartPreview(size); err != nil {
			log.Printf("Failed to preview preset: %v", err)
		}
	})
}

// RegisterPalette registers the hotkey that opens the size palette. The
// open callback runs on its own goroutine since palette backends block.
func (h *Handler) RegisterPalette(keySequence string, open func()) error {
	return h.RegisterFunc(keySequence, func() {
		go open()
	})
}

// RegisterFunc registers an arbitrary hotkey callback.
func (h *Handler) RegisterFunc(keySequence string, callback func()) error {
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		callback()
	}).Connect(h.xu, h.root, keySequence, true)
}

// currentSize returns the last previewed preset size, falling back to the
// configured default.
func (h *Handler) currentSize() geometry.Size {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.current.IsPositive() {
		return h.current
	}
	return h.defaultSize
}

func (h *Handler) nextPreset() (config.Preset, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.presets) == 0 {
		return config.Preset{}, false
	}
	p := h.presets[h.presetIdx%len(h.presets)]
	h.presetIdx++
	h.current = geometry.Size{Width: p.Width, Height: p.Height}
	return p, true
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	unique := make(map[uint16]struct{})
	add := func(mask uint16) {
		unique[mask] = struct{}{}
	}

	add(0)
	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		add(mask)
	}

	ignore := make([]uint16, 0, len(unique))
	for mask := range unique {
		ignore = append(ignore, mask)
	}

	xevent.IgnoreMods = ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
