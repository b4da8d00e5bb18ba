package rpc

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"sync/atomic"

	"github.com/shivasurya/plugify/internal/extension"
	"github.com/shivasurya/plugify/internal/langmodule"
	"github.com/shivasurya/plugify/internal/manifest"
)

var _ langmodule.Adapter = (*Client)(nil)

// Client drives a subprocess-hosted language module over line-delimited
// JSON-RPC 2.0 on its stdin/stdout. It satisfies langmodule.Adapter.
type Client struct {
	language string
	command  string
	args     []string

	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Scanner

	nextID  atomic.Int64
	mu      sync.Mutex
	pending map[int64]chan Response

	writeMu sync.Mutex
}

// New constructs a Client for the given language, executing command with
// args when Initialize is called. The Manager takes both from a
// config.LanguageModule entry.
func New(language, command string, args ...string) *Client {
	return &Client{
		language: language,
		command:  command,
		args:     args,
		pending:  make(map[int64]chan Response),
	}
}

func (c *Client) Language() string { return c.language }

// Initialize starts the subprocess and its response-reading loop.
func (c *Client) Initialize(ctx context.Context, provider langmodule.Provider) error {
	cmd := exec.CommandContext(ctx, c.command, c.args...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("rpc: stdin pipe for %q: %w", c.language, err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("rpc: stdout pipe for %q: %w", c.language, err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("rpc: start language module %q: %w", c.language, err)
	}

	c.cmd = cmd
	c.stdin = stdin
	c.stdout = bufio.NewScanner(stdout)
	c.stdout.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	go c.readLoop()

	_, err = c.call(MethodInitialize, nil)
	return err
}

func (c *Client) readLoop() {
	for c.stdout.Scan() {
		line := c.stdout.Bytes()
		if len(line) == 0 {
			continue
		}
		var resp Response
		if err := json.Unmarshal(line, &resp); err != nil {
			continue
		}
		c.mu.Lock()
		ch, ok := c.pending[resp.ID]
		if ok {
			delete(c.pending, resp.ID)
		}
		c.mu.Unlock()
		if ok {
			ch <- resp
		}
	}

	// stdout is closed (the subprocess exited or died): fail every call
	// still waiting for a response instead of leaving it blocked.
	c.mu.Lock()
	for id, ch := range c.pending {
		delete(c.pending, id)
		ch <- Response{JSONRPC: "2.0", ID: id, Error: &Error{Code: ErrCodeInternalError, Message: "language module " + c.language + " closed its output"}}
	}
	c.mu.Unlock()
}

func (c *Client) call(method string, params interface{}) (json.RawMessage, error) {
	id := c.nextID.Add(1)

	var rawParams json.RawMessage
	if params != nil {
		encoded, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("rpc: marshal params for %s: %w", method, err)
		}
		rawParams = encoded
	}

	req := Request{JSONRPC: "2.0", ID: id, Method: method, Params: rawParams}
	line, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("rpc: marshal request for %s: %w", method, err)
	}

	ch := make(chan Response, 1)
	c.mu.Lock()
	c.pending[id] = ch
	c.mu.Unlock()

	c.writeMu.Lock()
	_, writeErr := c.stdin.Write(append(line, '\n'))
	c.writeMu.Unlock()
	if writeErr != nil {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
		return nil, fmt.Errorf("rpc: write request for %s: %w", method, writeErr)
	}

	resp := <-ch
	if resp.Error != nil {
		return nil, fmt.Errorf("rpc: %s: %w", method, resp.Error)
	}
	return resp.Result, nil
}

// Terminate asks the subprocess to shut down and waits for it to exit.
func (c *Client) Terminate(ctx context.Context) {
	_, _ = c.call(MethodTerminate, nil)
	if c.stdin != nil {
		_ = c.stdin.Close()
	}
	if c.cmd != nil {
		_ = c.cmd.Wait()
	}
}

type loadPluginParams struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

type methodTableWire struct {
	Hooks   uint8 `json:"hooks"`
	Methods []struct {
		Name string `json:"name"`
		Addr uint64 `json:"addr"`
	} `json:"methods"`
}

func (c *Client) LoadPlugin(ctx context.Context, ext *extension.Extension) (langmodule.MethodTable, error) {
	raw, err := c.call(MethodLoadPlugin, loadPluginParams{Name: ext.Name(), Location: ext.Location()})
	if err != nil {
		return langmodule.MethodTable{}, err
	}

	var wire methodTableWire
	if err := json.Unmarshal(raw, &wire); err != nil {
		return langmodule.MethodTable{}, fmt.Errorf("rpc: decode method table for %q: %w", ext.Name(), err)
	}

	table := langmodule.MethodTable{Hooks: langmodule.HookFlags(wire.Hooks)}
	byName := make(map[string]manifest.Method, len(ext.Manifest().Methods))
	for _, m := range ext.Manifest().Methods {
		byName[m.Name] = m
	}
	for _, entry := range wire.Methods {
		table.Methods = append(table.Methods, langmodule.MethodEntry{
			Method: byName[entry.Name],
			Addr:   uintptr(entry.Addr),
		})
	}
	return table, nil
}

func (c *Client) StartPlugin(ctx context.Context, ext *extension.Extension) error {
	_, err := c.call(MethodStartPlugin, loadPluginParams{Name: ext.Name()})
	return err
}

func (c *Client) EndPlugin(ctx context.Context, ext *extension.Extension) {
	_, _ = c.call(MethodEndPlugin, loadPluginParams{Name: ext.Name()})
}

type updateParams struct {
	Name string  `json:"name"`
	Dt   float64 `json:"dt"`
}

func (c *Client) UpdatePlugin(ctx context.Context, ext *extension.Extension, dt float64) {
	_, _ = c.call(MethodUpdatePlugin, updateParams{Name: ext.Name(), Dt: dt})
}

type bindParams struct {
	MethodName string `json:"methodName"`
	FuncName   string `json:"funcName"`
	Thunk      uint64 `json:"thunk"`
}

func (c *Client) BindExternalMethod(method manifest.Method, thunk uintptr) error {
	_, err := c.call(MethodBindExternal, bindParams{MethodName: method.Name, FuncName: method.FuncName, Thunk: uint64(thunk)})
	return err
}
