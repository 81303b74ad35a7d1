package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"codeberg.org/go-pdf/fpdf"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/tsawler/optionslip/config"
	"github.com/tsawler/optionslip/lexicon"
)

// setup resets the globals the commands read
func setup(t *testing.T) {
	t.Helper()
	logger = zap.NewNop()
	settings = config.DefaultConfig()
	lex = lexicon.Default()
	parsePages = nil
}

// slipPDF renders lines onto a single page
func slipPDF(t *testing.T, lines ...string) []byte {
	t.Helper()

	doc := fpdf.New("P", "pt", "A4", "")
	doc.SetFont("Helvetica", "", 11)
	doc.AddPage()
	for i, line := range lines {
		doc.Text(40, 60+float64(i)*20, line)
	}

	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	return buf.Bytes()
}

func writeSlip(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, slipPDF(t, lines...), 0644))
	return path
}

func newTestCommand(out *bytes.Buffer) *cobra.Command {
	cmd := &cobra.Command{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetContext(context.Background())
	return cmd
}

func TestParseFiles(t *testing.T) {
	defer goleak.VerifyNone(t)
	setup(t)
	settings.Workers = 2

	dir := t.TempDir()
	files := []string{
		writeSlip(t, dir, "a.pdf", "1", "E099AI", "PES University, Bangalore, Hosur Road"),
		writeSlip(t, dir, "b.pdf", "1 E005CS", "2 E048IC"),
		writeSlip(t, dir, "c.pdf"),
		filepath.Join(dir, "missing.pdf"),
	}

	docs, err := parseFiles(context.Background(), files)
	require.NoError(t, err)
	require.Len(t, docs, 4)

	for i, d := range docs {
		assert.Equal(t, files[i], d.File, "documents keep argument order")
	}

	assert.Equal(t, "advanced", docs[0].Mode)
	assert.Len(t, docs[0].Options, 1)
	assert.Equal(t, "cascade", docs[1].Mode)
	assert.Len(t, docs[1].Options, 2)
	assert.Equal(t, "placeholder", docs[2].Mode)
	assert.NotEmpty(t, docs[2].Warnings)
	assert.NotEmpty(t, docs[3].Error)
	assert.Empty(t, docs[3].Options)
}

func TestParseFiles_Cancelled(t *testing.T) {
	defer goleak.VerifyNone(t)
	setup(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := parseFiles(ctx, []string{"a.pdf", "b.pdf"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunParse(t *testing.T) {
	setup(t)
	dir := t.TempDir()
	file := writeSlip(t, dir, "slip.pdf", "1 E099AI", "PES University, Bangalore, Hosur Road")

	var out bytes.Buffer
	require.NoError(t, runParse(newTestCommand(&out), []string{file}))

	var docs []document
	require.NoError(t, json.Unmarshal(out.Bytes(), &docs))
	require.Len(t, docs, 1)
	require.Len(t, docs[0].Options, 1)
	assert.Equal(t, "E099", docs[0].Options[0].CollegeCode)
	assert.Equal(t, "AI", docs[0].Options[0].BranchCode)
}

func TestRunParse_ReportsUnreadableFiles(t *testing.T) {
	setup(t)
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.pdf")
	require.NoError(t, os.WriteFile(bad, []byte("not a pdf"), 0644))

	var out bytes.Buffer
	err := runParse(newTestCommand(&out), []string{bad})

	assert.Error(t, err)
	assert.Contains(t, out.String(), "bad.pdf")
}

func TestRunParse_YAML(t *testing.T) {
	setup(t)
	settings.Output = "yaml"
	file := writeSlip(t, t.TempDir(), "slip.pdf", "1 E099AI")

	var out bytes.Buffer
	require.NoError(t, runParse(newTestCommand(&out), []string{file}))

	var docs []map[string]any
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &docs))
	require.Len(t, docs, 1)
	assert.Contains(t, out.String(), "collegeCourse: E099AI")
}

func TestRunRows(t *testing.T) {
	setup(t)
	file := writeSlip(t, t.TempDir(), "slip.pdf", "1 E099AI", "PES University")

	var out bytes.Buffer
	require.NoError(t, runRows(newTestCommand(&out), []string{file}))

	var pages []pageRows
	require.NoError(t, json.Unmarshal(out.Bytes(), &pages))
	require.Len(t, pages, 1)
	assert.Equal(t, 1, pages[0].Page)
	require.Len(t, pages[0].Rows, 2)
	assert.Greater(t, pages[0].Rows[0].Y, pages[0].Rows[1].Y, "rows run top to bottom")
}

func TestRender(t *testing.T) {
	v := map[string]int{"priority": 1}

	var js, ym bytes.Buffer
	require.NoError(t, render(&js, "json", v))
	require.NoError(t, render(&ym, "yaml", v))

	assert.JSONEq(t, `{"priority": 1}`, js.String())
	assert.Equal(t, "priority: 1\n", ym.String())
	assert.Error(t, render(&js, "xml", v))
}

func TestConfigInit(t *testing.T) {
	setup(t)
	dir := filepath.Join(t.TempDir(), "conf")

	var out bytes.Buffer
	require.NoError(t, runConfigInit(newTestCommand(&out), []string{dir}))
	assert.Contains(t, out.String(), "optionslip.yaml")

	mgr, err := config.NewManager(filepath.Join(dir, "optionslip.yaml"))
	require.NoError(t, err)
	loaded, err := mgr.Get().LoadLexicon()
	require.NoError(t, err)
	assert.Equal(t, lexicon.Default().Branches, loaded.Branches)

	err = runConfigInit(newTestCommand(&out), []string{dir})
	assert.Error(t, err, "existing files are not overwritten without --force")
}

func TestSlipWatcher(t *testing.T) {
	setup(t)
	dir := t.TempDir()

	w, err := newSlipWatcher(dir, 50*time.Millisecond)
	require.NoError(t, err)

	results := make(chan string, 4)
	w.parsed = func(_, out string) { results <- out }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()
	defer func() {
		cancel()
		<-done
		w.Close()
	}()

	writeSlip(t, dir, "notes.txt.pdf.bak", "ignored")
	writeSlip(t, dir, "slip.pdf", "1 E099AI")

	select {
	case out := <-results:
		assert.Equal(t, filepath.Join(dir, "slip.options.json"), out)
		data, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.True(t, strings.Contains(string(data), "E099AI"), "result holds the parsed option")
	case <-time.After(5 * time.Second):
		t.Fatal("no result written for slip.pdf")
	}
}

func TestNewSlipWatcher_RequiresDirectory(t *testing.T) {
	setup(t)
	file := writeSlip(t, t.TempDir(), "slip.pdf")

	_, err := newSlipWatcher(file, time.Millisecond)
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	versionCmd.Run(versionCmd, nil)
	assert.Equal(t, "optionslip dev\n", out.String())
}
