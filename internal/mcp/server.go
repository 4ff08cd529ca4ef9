package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/a3tai/roll-extractor/internal/config"
	"github.com/a3tai/roll-extractor/internal/descriptions"
	"github.com/a3tai/roll-extractor/internal/layout"
	"github.com/a3tai/roll-extractor/internal/output"
	"github.com/a3tai/roll-extractor/internal/pdf/security"
	"github.com/a3tai/roll-extractor/internal/pipeline"
	"github.com/a3tai/roll-extractor/internal/roll"
)

// Tool names
const (
	ToolExtractFile   = "roll_extract_file"
	ToolReadHeader    = "roll_read_header"
	ToolListDirectory = "roll_list_directory"
)

// Server exposes the extraction pipeline as MCP tools. When a directory is
// configured, tool paths are confined to it.
type Server struct {
	config    *config.Config
	pipeline  *pipeline.Pipeline
	paths     *security.PathValidator
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, p *pipeline.Pipeline, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if p == nil {
		return nil, fmt.Errorf("pipeline cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		config:    cfg,
		pipeline:  p,
		mcpServer: mcpServer,
		logger:    logger,
	}

	if cfg.Dir != "" {
		paths, err := security.NewPathValidator(cfg.Dir)
		if err != nil {
			return nil, err
		}
		s.paths = paths
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	extractFileTool := mcp.NewTool(
		ToolExtractFile,
		mcp.WithDescription(descriptions.GetToolDescription(ToolExtractFile)),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the roll PDF"),
		),
		mcp.WithNumber("start",
			mcp.Description("First page to extract (1-based, inclusive)"),
		),
		mcp.WithNumber("end",
			mcp.Description("Last page to extract (1-based, inclusive)"),
		),
	)
	s.mcpServer.AddTool(extractFileTool, s.handleExtractFile)

	readHeaderTool := mcp.NewTool(
		ToolReadHeader,
		mcp.WithDescription(descriptions.GetToolDescription(ToolReadHeader)),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the roll PDF"),
		),
	)
	s.mcpServer.AddTool(readHeaderTool, s.handleReadHeader)

	listDirectoryTool := mcp.NewTool(
		ToolListDirectory,
		mcp.WithDescription(descriptions.GetToolDescription(ToolListDirectory)),
		mcp.WithString("directory",
			mcp.Description("Directory path to list (uses --dir or the working directory if empty)"),
		),
	)
	s.mcpServer.AddTool(listDirectoryTool, s.handleListDirectory)
}

// ExtractFileResponse is the JSON body returned by roll_extract_file
type ExtractFileResponse struct {
	Summary *pipeline.Result `json:"summary"`
	Records []roll.Record    `json:"records"`
}

func (s *Server) handleExtractFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := s.requirePath(request, "path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	pages, err := pageRangeArgs(request.GetArguments())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	collector := output.NewCollector()
	result, err := s.pipeline.Process(path, pages, func(string) (output.Sink, error) {
		return collector, nil
	})
	if err != nil {
		s.logger.Error("tool call failed", "tool", ToolExtractFile, "path", path, "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	records := collector.Records()
	if records == nil {
		records = []roll.Record{}
	}

	body, err := json.MarshalIndent(ExtractFileResponse{Summary: result, Records: records}, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(body)), nil
}

func (s *Server) handleReadHeader(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := s.requirePath(request, "path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pipeline.Describe(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHeaderResult(result)), nil
}

func (s *Server) handleListDirectory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	directory := s.defaultDirectory()
	if dir, ok := args["directory"].(string); ok && dir != "" {
		directory = dir
	}
	directory, err := s.checkPath(directory)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	files, err := s.pipeline.ListDirectory(directory)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(files) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No PDF files found in directory: %s", directory)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d PDF file(s) in directory: %s\n", len(files), directory)
	b.WriteString("\nFiles:\n")
	for i, file := range files {
		fmt.Fprintf(&b, "%d. %s\n", i+1, file.Name)
		fmt.Fprintf(&b, "   Path: %s\n", file.Path)
		fmt.Fprintf(&b, "   Size: %d bytes\n", file.Size)
		fmt.Fprintf(&b, "   Modified: %s\n", file.ModifiedTime)
	}
	return mcp.NewToolResultText(b.String()), nil
}

// requirePath reads a required path argument and checks it against the
// configured directory
func (s *Server) requirePath(request mcp.CallToolRequest, key string) (string, error) {
	path, err := request.RequireString(key)
	if err != nil {
		return "", err
	}
	return s.checkPath(path)
}

func (s *Server) checkPath(path string) (string, error) {
	if s.paths == nil {
		return path, nil
	}
	return s.paths.NormalizePath(path)
}

func (s *Server) defaultDirectory() string {
	if s.config.Dir != "" {
		return s.config.Dir
	}
	if dir, err := os.Getwd(); err == nil {
		return dir
	}
	return "."
}

func formatHeaderResult(result *pipeline.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Roll header for: %s\n", result.Path)
	for _, name := range layout.HeaderFields {
		value := result.Header[name]
		if value == "" {
			value = "(not found)"
		}
		fmt.Fprintf(&b, "%s: %s\n", strings.ToUpper(name[:1])+name[1:], value)
	}
	fmt.Fprintf(&b, "Complete: %t\n", result.Header.Complete())
	fmt.Fprintf(&b, "Output name: %s\n", result.BaseName)
	return b.String()
}

// pageRangeArgs reads the optional start and end numbers. JSON numbers
// arrive as float64.
func pageRangeArgs(args map[string]any) (pipeline.PageRange, error) {
	var pages pipeline.PageRange
	for key, dst := range map[string]*int{"start": &pages.Start, "end": &pages.End} {
		raw, ok := args[key]
		if !ok || raw == nil {
			continue
		}
		n, ok := raw.(float64)
		if !ok {
			return pages, fmt.Errorf("%s must be a number", key)
		}
		if n < 0 || n != float64(int(n)) {
			return pages, fmt.Errorf("%s must be a non-negative whole number", key)
		}
		*dst = int(n)
	}
	return pages, nil
}

// Run serves the tools over standard input and output until ctx is done
// or the input ends.
func (s *Server) Run(ctx context.Context) error {
	return s.Serve(ctx, os.Stdin, os.Stdout)
}

// Serve serves the tools over the given streams
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	s.logger.Debug("starting MCP server on stdio", "name", s.config.ServerName, "version", s.config.Version)

	stdio := server.NewStdioServer(s.mcpServer)
	if err := stdio.Listen(ctx, in, out); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}
