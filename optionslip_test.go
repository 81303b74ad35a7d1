package optionslip

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"codeberg.org/go-pdf/fpdf"

	"github.com/tsawler/optionslip/engine"
	"github.com/tsawler/optionslip/lexicon"
	"github.com/tsawler/optionslip/reader"
	"github.com/tsawler/optionslip/text"
)

// slipPDF renders one page per slice of lines
func slipPDF(t *testing.T, pages ...[]string) []byte {
	t.Helper()

	doc := fpdf.New("P", "pt", "A4", "")
	doc.SetFont("Helvetica", "", 11)
	for _, lines := range pages {
		doc.AddPage()
		for i, line := range lines {
			doc.Text(40, 60+float64(i)*20, line)
		}
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		t.Fatalf("failed to render PDF: %v", err)
	}
	return buf.Bytes()
}

// writeSlip writes a rendered slip to a temporary file
func writeSlip(t *testing.T, pages ...[]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "slip.pdf")
	if err := os.WriteFile(path, slipPDF(t, pages...), 0644); err != nil {
		t.Fatalf("failed to write PDF: %v", err)
	}
	return path
}

// pageOf lays lines out as single-fragment rows
func pageOf(lines ...string) []text.Fragment {
	var out []text.Fragment
	for i, l := range lines {
		out = append(out, text.Fragment{Text: l, X: 40, Y: 780 - float64(i)*20, Width: 100, Height: 10})
	}
	return out
}

var advancedSlip = []string{
	"1",
	"E099AI",
	"PES University, Bangalore, Hosur Road",
	"2",
	"E005CS",
	"RV College of Engineering, Mysore Road",
}

func TestOpen(t *testing.T) {
	_, _, err := Open("nonexistent.pdf").Options()
	if err == nil {
		t.Error("expected error for non-existent file")
	}
}

func TestOpen_ParsesSlip(t *testing.T) {
	path := writeSlip(t, advancedSlip)

	options, _, err := Open(path).Options()
	if err != nil {
		t.Fatalf("failed to parse slip: %v", err)
	}

	if len(options) != 2 {
		t.Fatalf("Expected 2 options, got %d: %+v", len(options), options)
	}
	if options[0].CollegeCourse != "E099AI" || options[1].CollegeCourse != "E005CS" {
		t.Errorf("Unexpected codes %q, %q", options[0].CollegeCourse, options[1].CollegeCourse)
	}
}

func TestFromBytes_CorruptDocument(t *testing.T) {
	_, _, err := FromBytes([]byte("%PDF-1.4 garbage")).Options()
	if !errors.Is(err, reader.ErrDecode) {
		t.Errorf("Expected ErrDecode, got %v", err)
	}
}

func TestFromBytes_BlankPageYieldsPlaceholder(t *testing.T) {
	options, warnings, err := FromBytes(slipPDF(t, []string{})).Options()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(options) != 1 || !options[0].Placeholder {
		t.Fatalf("Expected a single placeholder, got %+v", options)
	}
	if !hasWarning(warnings, WarnNoOptions) {
		t.Errorf("Expected %s warning, got %v", WarnNoOptions, warnings)
	}
}

func TestPageSelection(t *testing.T) {
	data := slipPDF(t, []string{"1 E099AI"}, []string{"2 E005CS"})

	options, _, err := FromBytes(data).Pages(2).Options()
	if err != nil {
		t.Fatalf("failed to parse page 2: %v", err)
	}
	if len(options) != 1 || options[0].Priority != 2 {
		t.Errorf("Expected only option 2, got %+v", options)
	}

	if _, _, err := FromBytes(data).Pages(3).Options(); err == nil {
		t.Error("expected error for page out of range")
	}
}

func TestPageCount(t *testing.T) {
	ext := FromBytes(slipPDF(t, []string{"a"}, []string{"b"}, []string{"c"}))
	defer ext.Close()

	count, err := ext.PageCount()
	if err != nil {
		t.Fatalf("PageCount failed: %v", err)
	}
	if count != 3 {
		t.Errorf("Expected 3 pages, got %d", count)
	}
}

func TestFromReader_DoesNotCloseReader(t *testing.T) {
	data := slipPDF(t, advancedSlip)
	r, err := reader.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		options, _, err := FromReader(r).Options()
		if err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
		if len(options) != 2 {
			t.Errorf("run %d: expected 2 options, got %d", i, len(options))
		}
	}
}

func TestFromFragments(t *testing.T) {
	options, warnings, err := FromFragments([][]text.Fragment{pageOf("1 E099AI", "2 E005CS")}).Options()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(options) != 2 {
		t.Fatalf("Expected 2 options, got %d", len(options))
	}
	if !hasWarning(warnings, WarnCascadeFallback) {
		t.Errorf("Expected %s warning, got %v", WarnCascadeFallback, warnings)
	}
}

func TestFromFragments_Empty(t *testing.T) {
	options, warnings, err := FromFragments(nil).Options()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(options) != 1 || options[0].CollegeCode != "X000" {
		t.Errorf("Expected placeholder, got %+v", options)
	}
	if len(warnings) != 1 {
		t.Errorf("Expected 1 warning, got %v", warnings)
	}
}

func TestOptions_WarningsDoNotAccumulate(t *testing.T) {
	ext := FromFragments(nil)

	for i := 0; i < 3; i++ {
		_, warnings, err := ext.Options()
		if err != nil {
			t.Fatalf("run %d: unexpected error: %v", i, err)
		}
		if len(warnings) != 1 || warnings[0].Code != WarnNoOptions {
			t.Errorf("run %d: expected a single no-options warning, got %v", i, warnings)
		}
	}
}

func TestResult_ConcurrentCallsShareNoWarnings(t *testing.T) {
	ext := FromFragments(nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, warnings, err := ext.Result()
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if len(warnings) != 1 {
				t.Errorf("Expected 1 warning, got %v", warnings)
			}
		}()
	}
	wg.Wait()
}

func TestSkipAdvanced(t *testing.T) {
	result, warnings, err := FromFragments([][]text.Fragment{pageOf(advancedSlip...)}).SkipAdvanced().Result()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Mode == engine.AdvancedMode {
		t.Error("Expected advanced mode to be skipped")
	}
	if hasWarning(warnings, WarnCascadeFallback) {
		t.Error("Expected no fallback warning when advanced mode is skipped")
	}
}

func TestWithRunID(t *testing.T) {
	options, _, err := FromFragments([][]text.Fragment{pageOf("1 E099AI")}).WithRunID("fixed").Options()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if options[0].ID != "row-anchor-1-fixed-1" {
		t.Errorf("Expected reproducible ID, got %q", options[0].ID)
	}
}

func TestWithLexicon(t *testing.T) {
	lex, err := lexicon.Parse([]byte("cities: [Udupi]\ndefault_city: Udupi\n"))
	if err != nil {
		t.Fatalf("failed to parse lexicon: %v", err)
	}

	options, _, err := FromFragments([][]text.Fragment{pageOf("1 E099AI")}).WithLexicon(lex).Options()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if options[0].Location != "Udupi" {
		t.Errorf("Expected default city Udupi, got %q", options[0].Location)
	}

	if _, _, err := FromFragments(nil).WithLexicon(nil).Options(); err == nil {
		t.Error("expected error for nil lexicon")
	}
}

func TestImmutability(t *testing.T) {
	base := FromFragments([][]text.Fragment{pageOf("1 E099AI"), pageOf("2 E005CS")})
	first := base.Pages(1)

	all, _, _ := base.Options()
	one, _, _ := first.Options()

	if len(all) != 2 || len(one) != 1 {
		t.Errorf("Expected chained calls not to modify the base, got %d and %d", len(all), len(one))
	}
}

func TestRows(t *testing.T) {
	fragments := []text.Fragment{
		{Text: "E099AI", X: 60, Y: 700},
		{Text: "1", X: 40, Y: 703},
		{Text: "PES University", X: 40, Y: 680},
	}

	basic, _, err := FromFragments([][]text.Fragment{fragments}).Rows()
	if err != nil {
		t.Fatalf("Rows failed: %v", err)
	}
	if len(basic[0]) != 2 || basic[0][0].Text() != "1 E099AI" {
		t.Errorf("Unexpected rows: %+v", basic[0])
	}

	config := engine.DefaultConfig()
	config.AdvancedRows.Tolerance = 30
	advanced, _, _ := FromFragments([][]text.Fragment{fragments}).WithConfig(config).AdvancedRows()
	if len(advanced[0]) != 1 {
		t.Errorf("Expected a wide tolerance to merge rows, got %d", len(advanced[0]))
	}
}

func TestFragments_Cleaned(t *testing.T) {
	pages, _, err := FromFragments([][]text.Fragment{{
		{Text: "  "},
		{Text: "ﬁ E099AI", X: 1, Y: 1},
	}}).Fragments()
	if err != nil {
		t.Fatalf("Fragments failed: %v", err)
	}
	if len(pages[0]) != 1 || !strings.HasPrefix(pages[0][0].Text, "fi") {
		t.Errorf("Expected blank fragments dropped and text normalized, got %+v", pages[0])
	}
}

func TestFormatWarnings(t *testing.T) {
	got := FormatWarnings([]Warning{
		{Code: WarnPageSkipped, Message: "bad stream", Page: 2},
		{Code: WarnNoOptions, Message: "nothing found"},
	})
	if got != "page 2: bad stream; nothing found" {
		t.Errorf("Unexpected format %q", got)
	}
}

func TestMust(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected Must to panic")
		}
	}()
	Must(Open("nonexistent.pdf").PageCount())
}

func hasWarning(warnings []Warning, code WarningCode) bool {
	for _, w := range warnings {
		if w.Code == code {
			return true
		}
	}
	return false
}
