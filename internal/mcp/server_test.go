package mcp

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/roll-extractor/internal/config"
	"github.com/a3tai/roll-extractor/internal/descriptions"
	"github.com/a3tai/roll-extractor/internal/layout"
	"github.com/a3tai/roll-extractor/internal/pdf/wrapper/wrappertest"
	"github.com/a3tai/roll-extractor/internal/pipeline"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// rollPage places a complete header and one name per row on a page
func rollPage(names ...string) *wrappertest.Page {
	tmpl := layout.Default()
	page := wrappertest.NewPage()

	values := map[string]string{"region": "LIMA", "province": "LIMA", "area": "1"}
	for _, region := range tmpl.Header {
		page.PlaceIn(values[region.Name], region)
	}

	var offset float64
	for r, name := range names {
		for _, region := range tmpl.RowRegions(tmpl.Rows.StartY + offset) {
			if region.Name == layout.FieldName {
				page.PlaceIn(name, region)
			}
		}
		offset += tmpl.Rows.Advance(r)
	}
	return page
}

func newTestServer(t *testing.T, lib *wrappertest.Library, cfg *config.Config) *Server {
	t.Helper()
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	p, err := pipeline.New(pipeline.Options{Library: lib, Logger: quietLogger})
	require.NoError(t, err)

	s, err := NewServer(cfg, p, quietLogger)
	require.NoError(t, err)
	return s
}

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

// extractTextFromResult returns the first text content of a result
func extractTextFromResult(result *mcp.CallToolResult) string {
	if result == nil || len(result.Content) == 0 {
		return ""
	}

	for _, content := range result.Content {
		if textContent, ok := content.(mcp.TextContent); ok {
			return textContent.Text
		}
		if textContentPtr, ok := content.(*mcp.TextContent); ok {
			return textContentPtr.Text
		}
	}

	return ""
}

func TestNewServer(t *testing.T) {
	p, err := pipeline.New(pipeline.Options{Library: wrappertest.NewLibrary()})
	require.NoError(t, err)

	_, err = NewServer(nil, p, nil)
	assert.Error(t, err)

	_, err = NewServer(config.DefaultConfig(), nil, nil)
	assert.Error(t, err)

	s, err := NewServer(config.DefaultConfig(), p, nil)
	require.NoError(t, err)
	assert.NotNil(t, s.mcpServer)
	assert.NotNil(t, s.logger)
}

func TestHandleExtractFile(t *testing.T) {
	lib := wrappertest.NewLibrary().Add("/rolls/lima.pdf", wrappertest.NewDocument(
		rollPage("ROSA", "LUIS"),
		rollPage("ANA"),
		rollPage("JUAN"),
	))
	s := newTestServer(t, lib, nil)

	result, err := s.handleExtractFile(context.Background(), callRequest(map[string]interface{}{
		"path": "/rolls/lima.pdf",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError, extractTextFromResult(result))

	var resp ExtractFileResponse
	require.NoError(t, json.Unmarshal([]byte(extractTextFromResult(result)), &resp))
	assert.Equal(t, "lima-lima-1", resp.Summary.BaseName)
	assert.Equal(t, 3, resp.Summary.Pages)
	assert.Equal(t, 4, resp.Summary.Records)
	require.Len(t, resp.Records, 4)
	assert.Equal(t, "ROSA", resp.Records[0].Name)
	assert.Equal(t, "JUAN", resp.Records[3].Name)
}

func TestHandleExtractFile_PageRange(t *testing.T) {
	lib := wrappertest.NewLibrary().Add("lima.pdf", wrappertest.NewDocument(
		rollPage("P1"),
		rollPage("P2"),
		rollPage("P3"),
	))
	s := newTestServer(t, lib, nil)

	result, err := s.handleExtractFile(context.Background(), callRequest(map[string]interface{}{
		"path":  "lima.pdf",
		"start": float64(2),
		"end":   float64(3),
	}))
	require.NoError(t, err)
	require.False(t, result.IsError, extractTextFromResult(result))

	var resp ExtractFileResponse
	require.NoError(t, json.Unmarshal([]byte(extractTextFromResult(result)), &resp))
	require.Len(t, resp.Records, 2)
	assert.Equal(t, "P2", resp.Records[0].Name)
	assert.Equal(t, "P3", resp.Records[1].Name)
}

func TestHandleExtractFile_EmptyRangeReturnsEmptyList(t *testing.T) {
	lib := wrappertest.NewLibrary().Add("lima.pdf", wrappertest.NewDocument(rollPage("P1")))
	s := newTestServer(t, lib, nil)

	result, err := s.handleExtractFile(context.Background(), callRequest(map[string]interface{}{
		"path":  "lima.pdf",
		"start": float64(5),
	}))
	require.NoError(t, err)
	assert.Contains(t, extractTextFromResult(result), `"records": []`)
}

func TestHandleExtractFile_Errors(t *testing.T) {
	s := newTestServer(t, wrappertest.NewLibrary(), nil)

	tests := []struct {
		name string
		args map[string]interface{}
	}{
		{"missing path", map[string]interface{}{}},
		{"unknown file", map[string]interface{}{"path": "missing.pdf"}},
		{"non-numeric start", map[string]interface{}{"path": "missing.pdf", "start": "two"}},
		{"negative end", map[string]interface{}{"path": "missing.pdf", "end": float64(-1)}},
		{"fractional start", map[string]interface{}{"path": "missing.pdf", "start": 1.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := s.handleExtractFile(context.Background(), callRequest(tt.args))
			require.NoError(t, err)
			assert.True(t, result.IsError)
		})
	}
}

func TestHandleReadHeader(t *testing.T) {
	lib := wrappertest.NewLibrary().Add("lima.pdf", wrappertest.NewDocument(rollPage("ROSA")))
	s := newTestServer(t, lib, nil)

	result, err := s.handleReadHeader(context.Background(), callRequest(map[string]interface{}{
		"path": "lima.pdf",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	text := extractTextFromResult(result)
	assert.Contains(t, text, "Region: LIMA")
	assert.Contains(t, text, "Province: LIMA")
	assert.Contains(t, text, "Area: 1")
	assert.Contains(t, text, "Complete: true")
	assert.Contains(t, text, "Output name: lima-lima-1")

	result, err = s.handleReadHeader(context.Background(), callRequest(map[string]interface{}{}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleReadHeader_Incomplete(t *testing.T) {
	lib := wrappertest.NewLibrary().Add("/rolls/Scan 01.pdf", wrappertest.NewDocument(wrappertest.NewPage()))
	s := newTestServer(t, lib, nil)

	result, err := s.handleReadHeader(context.Background(), callRequest(map[string]interface{}{
		"path": "/rolls/Scan 01.pdf",
	}))
	require.NoError(t, err)

	text := extractTextFromResult(result)
	assert.Contains(t, text, "Region: (not found)")
	assert.Contains(t, text, "Complete: false")
	assert.Contains(t, text, "Output name: scan 01")
}

func TestHandleListDirectory(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.pdf", "A.PDF", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("%PDF-1.4"), 0o644))
	}

	cfg := config.DefaultConfig()
	cfg.Dir = dir
	s := newTestServer(t, wrappertest.NewLibrary(), cfg)

	t.Run("configured directory", func(t *testing.T) {
		result, err := s.handleListDirectory(context.Background(), callRequest(map[string]interface{}{}))
		require.NoError(t, err)
		require.False(t, result.IsError)

		text := extractTextFromResult(result)
		assert.Contains(t, text, "Found 2 PDF file(s)")
		assert.Contains(t, text, "1. A.PDF")
		assert.Contains(t, text, "2. b.pdf")
		assert.NotContains(t, text, "notes.txt")
	})

	t.Run("explicit empty directory", func(t *testing.T) {
		empty := filepath.Join(dir, "empty")
		require.NoError(t, os.Mkdir(empty, 0o755))
		result, err := s.handleListDirectory(context.Background(), callRequest(map[string]interface{}{
			"directory": empty,
		}))
		require.NoError(t, err)
		assert.Contains(t, extractTextFromResult(result), "No PDF files found")
	})

	t.Run("missing directory", func(t *testing.T) {
		result, err := s.handleListDirectory(context.Background(), callRequest(map[string]interface{}{
			"directory": filepath.Join(dir, "nope"),
		}))
		require.NoError(t, err)
		assert.True(t, result.IsError)
	})
}

func TestPageRangeArgs(t *testing.T) {
	pages, err := pageRangeArgs(map[string]any{"start": float64(2), "end": float64(7)})
	require.NoError(t, err)
	assert.Equal(t, pipeline.PageRange{Start: 2, End: 7}, pages)

	pages, err = pageRangeArgs(map[string]any{"start": nil})
	require.NoError(t, err)
	assert.Equal(t, pipeline.PageRange{}, pages)

	_, err = pageRangeArgs(map[string]any{"end": "3"})
	assert.Error(t, err)
}

func TestConfinedPaths(t *testing.T) {
	root := t.TempDir()
	inside := filepath.Join(root, "lima.pdf")

	lib := wrappertest.NewLibrary().Add(inside, wrappertest.NewDocument(rollPage("ROSA")))
	cfg := config.DefaultConfig()
	cfg.Dir = root
	s := newTestServer(t, lib, cfg)
	require.NotNil(t, s.paths)

	t.Run("relative path resolved against the directory", func(t *testing.T) {
		result, err := s.handleReadHeader(context.Background(), callRequest(map[string]interface{}{
			"path": "lima.pdf",
		}))
		require.NoError(t, err)
		require.False(t, result.IsError, extractTextFromResult(result))
		assert.Contains(t, extractTextFromResult(result), "Roll header for: "+inside)
	})

	t.Run("path outside the directory rejected", func(t *testing.T) {
		result, err := s.handleExtractFile(context.Background(), callRequest(map[string]interface{}{
			"path": "../other.pdf",
		}))
		require.NoError(t, err)
		assert.True(t, result.IsError)
		assert.Contains(t, extractTextFromResult(result), "outside configured directory")
	})

	t.Run("listing outside the directory rejected", func(t *testing.T) {
		result, err := s.handleListDirectory(context.Background(), callRequest(map[string]interface{}{
			"directory": t.TempDir(),
		}))
		require.NoError(t, err)
		assert.True(t, result.IsError)
	})
}

func TestToolDescriptions(t *testing.T) {
	for _, name := range []string{ToolExtractFile, ToolReadHeader, ToolListDirectory} {
		assert.NotEqual(t, "Tool description not available", descriptions.GetToolDescription(name), name)
	}
}
