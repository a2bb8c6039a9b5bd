// Package mcp exposes the file operations as Model Context Protocol tools
// over stdio, so that an LLM agent can manage the sandbox directly.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/marmos91/sandboxfs/internal/logger"
	"github.com/marmos91/sandboxfs/pkg/files"
)

// Tool names.
const (
	ToolList   = "list_files"
	ToolRead   = "read_file"
	ToolCreate = "create_file"
	ToolUpdate = "update_file"
	ToolDelete = "delete_file"
)

// Config holds configuration parameters for the MCP adapter.
type Config struct {
	// Enabled controls whether the MCP adapter is active. It speaks over
	// stdin/stdout, so it is normally started by `sandboxfs mcp` on its own.
	Enabled bool `mapstructure:"enabled"`
}

// Adapter implements adapter.Adapter for MCP over stdio.
type Adapter struct {
	config  Config
	version string
	service *files.Service

	in  io.Reader
	out io.Writer

	mu     sync.Mutex
	cancel context.CancelFunc

	stopOnce sync.Once
	stopped  chan struct{}
}

// New creates an MCP adapter reading requests from stdin and writing
// responses to stdout.
func New(config Config, version string) *Adapter {
	return NewWithIO(config, version, os.Stdin, os.Stdout)
}

// NewWithIO creates an MCP adapter over arbitrary streams.
func NewWithIO(config Config, version string, in io.Reader, out io.Writer) *Adapter {
	return &Adapter{
		config:  config,
		version: version,
		in:      in,
		out:     out,
		stopped: make(chan struct{}),
	}
}

// SetService injects the shared file service.
func (a *Adapter) SetService(service *files.Service) {
	a.service = service
	logger.Debug("MCP file service configured")
}

// NewServer builds the MCP server with all file tools registered.
func (a *Adapter) NewServer() *server.MCPServer {
	s := server.NewMCPServer(
		"sandboxfs",
		a.version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	s.AddTool(mcp.NewTool(ToolList,
		mcp.WithDescription("List the names of all files in the sandbox directory"),
	), a.handleList)

	s.AddTool(mcp.NewTool(ToolRead,
		mcp.WithDescription("Read a text file from the sandbox directory"),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Filename, without any directory component"),
		),
	), a.handleRead)

	s.AddTool(mcp.NewTool(ToolCreate,
		mcp.WithDescription("Create a new file. If name is omitted a unique .txt name is generated"),
		mcp.WithString("name",
			mcp.Description("Filename to create; omit to generate one"),
		),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("Full text content of the file"),
		),
	), a.handleCreate)

	s.AddTool(mcp.NewTool(ToolUpdate,
		mcp.WithDescription("Replace the full content of an existing file"),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Filename to update"),
		),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("New full text content"),
		),
	), a.handleUpdate)

	s.AddTool(mcp.NewTool(ToolDelete,
		mcp.WithDescription("Delete a file from the sandbox directory"),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Filename to delete"),
		),
	), a.handleDelete)

	return s
}

// Serve runs the stdio loop until ctx is cancelled, Stop is called or the
// input stream ends.
func (a *Adapter) Serve(ctx context.Context) error {
	if a.service == nil {
		return errors.New("MCP adapter has no file service; call SetService() before Serve()")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.mu.Lock()
	select {
	case <-a.stopped:
		a.mu.Unlock()
		return nil
	default:
	}
	a.cancel = cancel
	a.mu.Unlock()

	logger.Info("MCP server listening on stdio")

	err := server.NewStdioServer(a.NewServer()).Listen(ctx, a.in, a.out)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, io.EOF) {
		return fmt.Errorf("MCP server failed: %w", err)
	}

	logger.Info("MCP server stopped")
	return nil
}

// Stop ends the stdio loop. It is idempotent.
func (a *Adapter) Stop(ctx context.Context) error {
	a.stopOnce.Do(func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		close(a.stopped)
		if a.cancel != nil {
			a.cancel()
		}
	})
	return nil
}

// Protocol returns "MCP".
func (a *Adapter) Protocol() string {
	return "MCP"
}

// Port returns 0: the adapter does not listen on the network.
func (a *Adapter) Port() int {
	return 0
}

func (a *Adapter) handleList(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names, err := a.service.List(ctx)
	if err != nil {
		return toolError(err), nil
	}
	if names == nil {
		names = []string{}
	}
	return jsonResult(names)
}

func (a *Adapter) handleRead(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	file, err := a.service.Get(ctx, name)
	if err != nil {
		return toolError(err), nil
	}
	return mcp.NewToolResultText(file.Content), nil
}

func (a *Adapter) handleCreate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content := optionalString(request, "content")
	name := request.GetString("name", "")

	if name == "" {
		generated, msg, err := a.service.CreateAnonymous(ctx, content)
		if err != nil {
			return toolError(err), nil
		}
		return jsonResult(map[string]string{"message": msg, "name": generated})
	}

	msg, err := a.service.Create(ctx, name, content)
	if err != nil {
		return toolError(err), nil
	}
	return mcp.NewToolResultText(msg), nil
}

func (a *Adapter) handleUpdate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	msg, err := a.service.Update(ctx, name, optionalString(request, "content"))
	if err != nil {
		return toolError(err), nil
	}
	return mcp.NewToolResultText(msg), nil
}

func (a *Adapter) handleDelete(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	msg, err := a.service.Delete(ctx, name)
	if err != nil {
		return toolError(err), nil
	}
	return mcp.NewToolResultText(msg), nil
}

// optionalString returns a pointer to a string argument, or nil when the
// argument is absent or not a string.
func optionalString(request mcp.CallToolRequest, key string) *string {
	v, ok := request.GetArguments()[key]
	if !ok {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		return nil
	}
	return &s
}

// toolError reports a service failure as a tool-level error, prefixed with
// the error kind so that agents can branch on it.
func toolError(err error) *mcp.CallToolResult {
	var fe *files.Error
	if errors.As(err, &fe) {
		return mcp.NewToolResultError(fmt.Sprintf("%s: %s", fe.Kind, fe.Message))
	}
	return mcp.NewToolResultError(err.Error())
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tool result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
