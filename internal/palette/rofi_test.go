package palette

import (
	"strings"
	"testing"
)

func TestRofiFormatItem_UsesSingleNullSeparator(t *testing.T) {
	b := NewRofiBackend().(*dmenuLikeBackend)

	out := b.formatItem(Item{
		Label:    "Presets",
		IsHeader: true,
		Icon:     "view-paged",
		Meta:     "size preset",
		IsActive: true,
	}, 0)

	if got := strings.Count(out, "\x00"); got != 1 {
		t.Fatalf("expected exactly 1 NUL separator, got %d (%q)", got, out)
	}
	if !strings.Contains(out, "\x00nonselectable\x1ftrue") {
		t.Fatalf("expected nonselectable property, got %q", out)
	}
	if strings.Contains(out, "\x00icon\x1f") {
		t.Fatalf("expected icon attribute to be after the first NUL and delimited by \\x1f, got %q", out)
	}
	if !strings.Contains(out, "icon\x1fview-paged") || !strings.Contains(out, "meta\x1fsize preset") {
		t.Fatalf("expected icon/meta attributes, got %q", out)
	}
	if !strings.Contains(out, "active\x1ftrue") {
		t.Fatalf("expected active attribute, got %q", out)
	}
}

func TestRofiFormatItem_DimDivider(t *testing.T) {
	b := NewRofiBackend().(*dmenuLikeBackend)

	out := b.formatItem(Item{
		Label:     "────────",
		IsDivider: true,
	}, 0)

	if !strings.Contains(out, "<span foreground='#666666'>") {
		t.Fatalf("expected dim span for divider, got %q", out)
	}
	if !strings.Contains(out, "\x00nonselectable\x1ftrue") {
		t.Fatalf("expected nonselectable property for divider, got %q", out)
	}
}

func TestRofiFormatItem_BoldHeader(t *testing.T) {
	b := NewRofiBackend().(*dmenuLikeBackend)

	out := b.formatItem(Item{
		Label:    "Strategies",
		IsHeader: true,
	}, 0)

	if !strings.Contains(out, "<b>Strategies</b>") {
		t.Fatalf("expected bold markup for header, got %q", out)
	}
	if !strings.Contains(out, "\x00nonselectable\x1ftrue") {
		t.Fatalf("expected nonselectable property for header, got %q", out)
	}
}

func TestRofiFormatItem_EscapesMarkupInLabels(t *testing.T) {
	b := NewRofiBackend().(*dmenuLikeBackend)

	out := b.formatItem(Item{Label: "wide <1280x720>", Action: "preset:wide"}, 0)

	if strings.Contains(out, "<1280x720>") {
		t.Fatalf("expected label markup to be escaped, got %q", out)
	}
	if !strings.Contains(out, "&lt;1280x720&gt;") {
		t.Fatalf("expected escaped label, got %q", out)
	}
}

func TestRofiBuildArgs_UsesIndexFormatAndNoCustom(t *testing.T) {
	b := NewRofiBackend().(*dmenuLikeBackend)

	_, states := b.formatInput([]Item{
		{Label: "smart", IsActive: true},
		{Label: "center"},
	})
	args := b.buildArgs("wingman", "preview active", states)

	if !containsArgs(args, "-format", "i") {
		t.Fatalf("expected -format i in args, got %v", args)
	}
	if !containsArg(args, "-no-custom") {
		t.Fatalf("expected -no-custom in args, got %v", args)
	}
	if !containsArgs(args, "-a", "0") {
		t.Fatalf("expected -a 0 in args, got %v", args)
	}
	if !containsArgs(args, "-selected-row", "0") {
		t.Fatalf("expected -selected-row 0 in args, got %v", args)
	}
	if !containsArgs(args, "-kb-custom-1", "Alt+Return") {
		t.Fatalf("expected -kb-custom-1 Alt+Return in args, got %v", args)
	}
	if !containsArgs(args, "-mesg", "preview active") {
		t.Fatalf("expected -mesg in args, got %v", args)
	}
}

func TestRofiBuildArgs_SelectsFirstActiveRow(t *testing.T) {
	b := NewRofiBackend().(*dmenuLikeBackend)

	_, states := b.formatInput([]Item{
		{Label: "Presets", IsHeader: true},
		{Label: "small"},
		{Label: "medium", IsActive: true},
	})
	args := b.buildArgs("wingman", "", states)

	if !containsArgs(args, "-selected-row", "2") {
		t.Fatalf("expected cursor on the active row, got %v", args)
	}
	if !containsArgs(args, "-a", "2") {
		t.Fatalf("expected -a 2 in args, got %v", args)
	}
	if containsArg(args, "-mesg") {
		t.Fatalf("expected no -mesg without a message, got %v", args)
	}
}

func TestRofiParseSelection_Index(t *testing.T) {
	b := NewRofiBackend().(*dmenuLikeBackend)
	items := []Item{
		{Label: "small", Action: "preset:small"},
		{Label: "medium", Action: "preset:medium"},
	}
	got, err := b.parseSelection("1", items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Action != "preset:medium" {
		t.Fatalf("expected action preset:medium, got %q", got.Action)
	}
}

func TestMenu_IgnoresHeaderSelection(t *testing.T) {
	m := NewMenu(&fakeBackend{
		results: []SelectResult{
			{Item: Item{Label: "Presets", IsHeader: true}, ExitCode: 0},
			{Item: Item{Label: "small", Action: "preset:small"}, ExitCode: 0},
		},
	}, []MenuItem{
		{Label: "Presets", IsHeader: true},
		{Label: "small", Action: "preset:small"},
	})

	res, err := m.Show()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Action != "preset:small" {
		t.Fatalf("expected action preset:small, got %q", res.Action)
	}
}

func TestFormatInput_DisambiguatesDuplicateLabels(t *testing.T) {
	b := NewDmenuBackend().(*dmenuLikeBackend)
	items := []Item{
		{Label: "medium", Action: "preset:medium"},
		{Label: "medium", Action: "strategy:medium"},
	}

	_, _ = b.formatInput(items)
	if items[0].Label != "medium" {
		t.Fatalf("expected first label unchanged, got %q", items[0].Label)
	}
	if items[1].Label != "medium (2)" {
		t.Fatalf("expected second label disambiguated, got %q", items[1].Label)
	}
}

func TestFormatInput_IndexBackendsDoNotDisambiguateDuplicateLabels(t *testing.T) {
	b := NewRofiBackend().(*dmenuLikeBackend)
	items := []Item{
		{Label: "medium", Action: "preset:medium"},
		{Label: "medium", Action: "strategy:medium"},
	}

	_, _ = b.formatInput(items)
	if items[0].Label != "medium" || items[1].Label != "medium" {
		t.Fatalf("expected labels unchanged for index backend, got %#v", items)
	}
}

type fakeBackend struct {
	results []SelectResult
	i       int
}

func (f *fakeBackend) Show(prompt string, items []Item, message string) (SelectResult, error) {
	if f.i >= len(f.results) {
		return SelectResult{}, ErrCancelled
	}
	res := f.results[f.i]
	f.i++
	return res, nil
}

func (f *fakeBackend) Capabilities() Capabilities {
	return Capabilities{}
}

func containsArg(args []string, want string) bool {
	for _, a := range args {
		if a == want {
			return true
		}
	}
	return false
}

func containsArgs(args []string, a string, b string) bool {
	for i := 0; i+1 < len(args); i++ {
		if args[i] == a && args[i+1] == b {
			return true
		}
	}
	return false
}
