package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/ironsheep/prime-image/internal/digits"
	"github.com/ironsheep/prime-image/internal/imaging"
	"github.com/ironsheep/prime-image/internal/primality"
	"github.com/ironsheep/prime-image/internal/render"
	"github.com/ironsheep/prime-image/internal/search"
)

// defaultToolIterations bounds searches started over MCP when neither the
// caller nor the configuration sets a budget, so that every call returns.
const defaultToolIterations = 100000

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_to_digits", "prime_search").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Falls back to the server configuration for optional parameters
//  3. Loads images from cache as needed
//  4. Calls the appropriate imaging/search/render function
//  5. Returns the result or error
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Image Conversion
	case "image_load":
		return s.handleImageLoad(args)
	case "image_to_digits":
		return s.handleImageToDigits(args)

	// Primality
	case "prime_check":
		return s.handlePrimeCheck(args)
	case "prime_search":
		return s.handlePrimeSearch(ctx, args)
	case "next_prime":
		return s.handleNextPrime(ctx, args)

	// Rendering
	case "digits_render":
		return s.handleDigitsRender(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// unmarshalArgs decodes tool arguments. Tools whose arguments are all
// optional may be called with none.
func unmarshalArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// === Image Conversion Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

type gridArgs struct {
	Path      string   `json:"path"`
	Width     int      `json:"width"`
	Height    int      `json:"height"`
	Modulus   int      `json:"modulus"`
	Grayscale string   `json:"grayscale"`
	Dither    *bool    `json:"dither"`
	Contrast  *float64 `json:"contrast"`
	Region    string   `json:"region"`
}

type digitsResult struct {
	Digits string `json:"digits"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Length int    `json:"length"`
}

// extract converts the image named by a into digits, starting from the
// configured grid settings.
func (s *Server) extract(a gridArgs) (*imaging.Extraction, error) {
	if a.Path == "" {
		return nil, errors.New("path is required")
	}

	opts := s.cfg.ImagingOptions()
	if a.Width > 0 {
		opts.Width = a.Width
	}
	if a.Height > 0 {
		opts.Height = a.Height
	}
	if a.Modulus != 0 {
		opts.Modulus = a.Modulus
	}
	if a.Grayscale != "" {
		mode, err := imaging.ParseGrayMode(a.Grayscale)
		if err != nil {
			return nil, err
		}
		opts.Gray = mode
	}
	if a.Dither != nil {
		opts.Dither = *a.Dither
	}
	if a.Contrast != nil {
		opts.Contrast = *a.Contrast
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	region := a.Region
	if region == "" {
		region = s.cfg.Grid.Region
	}
	if opts.Region, err = imaging.ResolveRegion(img, region); err != nil {
		return nil, err
	}

	return imaging.Extract(img, opts)
}

func (s *Server) handleImageToDigits(args json.RawMessage) (interface{}, error) {
	var a gridArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	ex, err := s.extract(a)
	if err != nil {
		return nil, err
	}
	return &digitsResult{
		Digits: ex.Digits.String(),
		Width:  ex.Width,
		Height: ex.Height,
		Length: ex.Digits.Len(),
	}, nil
}

// === Primality Handlers ===

type primeCheckArgs struct {
	Digits string `json:"digits"`
	Rounds int    `json:"rounds"`
}

type primeCheckResult struct {
	ProbablyPrime bool `json:"probably_prime"`
	Length        int  `json:"length"`
	Rounds        int  `json:"rounds"`
}

func (s *Server) handlePrimeCheck(args json.RawMessage) (interface{}, error) {
	var a primeCheckArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	seq, err := parseDigits(a.Digits)
	if err != nil {
		return nil, err
	}
	rounds := s.rounds(a.Rounds)
	return &primeCheckResult{
		ProbablyPrime: primality.IsProbablyPrime(digits.ToInteger(seq), rounds),
		Length:        seq.Len(),
		Rounds:        rounds,
	}, nil
}

type primeSearchArgs struct {
	gridArgs
	Digits          string `json:"digits"`
	Rounds          int    `json:"rounds"`
	Positions       int    `json:"positions"`
	PreserveLeading *bool  `json:"preserve_leading"`
	MaxIterations   int    `json:"max_iterations"`
	TimeoutMS       int    `json:"timeout_ms"`
	Workers         int    `json:"workers"`
	Seed            uint64 `json:"seed"`
}

type primeSearchResult struct {
	Digits       string `json:"digits"`
	Original     string `json:"original"`
	Width        int    `json:"width,omitempty"`
	Height       int    `json:"height,omitempty"`
	Iterations   int    `json:"iterations"`
	Changed      []int  `json:"changed"`
	AlreadyPrime bool   `json:"already_prime"`
	ElapsedMS    int64  `json:"elapsed_ms"`
}

func (s *Server) handlePrimeSearch(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a primeSearchArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}

	var (
		seq           digits.Sequence
		width, height int
		err           error
	)
	switch {
	case a.Digits != "":
		if seq, err = parseDigits(a.Digits); err != nil {
			return nil, err
		}
		width, height = a.Width, a.Height
	case a.Path != "":
		ex, err := s.extract(a.gridArgs)
		if err != nil {
			return nil, err
		}
		seq, width, height = ex.Digits, ex.Width, ex.Height
	default:
		return nil, errors.New("either digits or path is required")
	}

	opts := s.searchOptions(a.Rounds, a.MaxIterations)
	if a.Positions > 0 {
		opts.Positions = a.Positions
	}
	if a.PreserveLeading != nil {
		opts.PreserveLeading = *a.PreserveLeading
	}
	if a.Workers > 0 {
		opts.Workers = a.Workers
	}
	if a.Seed != 0 {
		opts.Seed = a.Seed
	}

	ctx, cancel := withTimeout(ctx, a.TimeoutMS)
	defer cancel()

	res, err := search.Search(ctx, seq, opts)
	if err != nil {
		return nil, err
	}
	return &primeSearchResult{
		Digits:       res.Digits.String(),
		Original:     seq.String(),
		Width:        width,
		Height:       height,
		Iterations:   res.Iterations,
		Changed:      res.Changed,
		AlreadyPrime: res.Iterations == 0,
		ElapsedMS:    res.Elapsed.Milliseconds(),
	}, nil
}

type nextPrimeArgs struct {
	Digits        string `json:"digits"`
	Rounds        int    `json:"rounds"`
	MaxIterations int    `json:"max_iterations"`
	TimeoutMS     int    `json:"timeout_ms"`
}

func (s *Server) handleNextPrime(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a nextPrimeArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	seq, err := parseDigits(a.Digits)
	if err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, a.TimeoutMS)
	defer cancel()

	res, err := search.NextPrime(ctx, seq, s.searchOptions(a.Rounds, a.MaxIterations))
	if err != nil {
		return nil, err
	}
	return &primeSearchResult{
		Digits:       res.Digits.String(),
		Original:     seq.String(),
		Iterations:   res.Iterations,
		Changed:      res.Changed,
		AlreadyPrime: res.Digits.Equal(seq),
		ElapsedMS:    res.Elapsed.Milliseconds(),
	}, nil
}

// === Rendering Handlers ===

type digitsRenderArgs struct {
	Digits string `json:"digits"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`
	Shade  bool   `json:"shade"`
	Scale  int    `json:"scale"`
	Title  string `json:"title"`
}

type renderResult struct {
	Format      string `json:"format"`
	Content     string `json:"content,omitempty"`
	ImageBase64 string `json:"image_base64,omitempty"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
}

func (s *Server) handleDigitsRender(args json.RawMessage) (interface{}, error) {
	var a digitsRenderArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	seq, err := parseDigits(a.Digits)
	if err != nil {
		return nil, err
	}
	if a.Format == "" {
		a.Format = "text"
	}
	if a.Scale <= 0 {
		a.Scale = s.cfg.Output.PNGScale
	}

	var buf bytes.Buffer
	result := &renderResult{Format: a.Format, Width: a.Width, Height: a.Height}
	switch a.Format {
	case "text":
		err = render.Text(&buf, seq, a.Width, a.Height, render.TextOptions{})
		result.Content = buf.String()
	case "html":
		err = render.HTML(&buf, seq, a.Width, a.Height, render.HTMLOptions{Title: a.Title})
		result.Content = buf.String()
	case "png":
		err = render.PNG(&buf, seq, a.Width, a.Height, render.PNGOptions{Scale: a.Scale, Shade: a.Shade})
		result.ImageBase64 = base64.StdEncoding.EncodeToString(buf.Bytes())
	default:
		return nil, fmt.Errorf("unknown format: %s", a.Format)
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

// === Helpers ===

func parseDigits(s string) (digits.Sequence, error) {
	if s == "" {
		return nil, errors.New("digits is required")
	}
	return digits.Parse(s)
}

func (s *Server) rounds(n int) int {
	if n > 0 {
		return n
	}
	return s.cfg.Search.Rounds
}

// searchOptions starts from the configured search settings and applies the
// caller's rounds and budget. Searches over MCP are always bounded.
func (s *Server) searchOptions(rounds, maxIterations int) search.Options {
	var logger *log.Logger
	if s.cfg.Debug() {
		logger = log.Default()
	}
	opts := s.cfg.SearchOptions(logger)
	opts.Rounds = s.rounds(rounds)
	switch {
	case maxIterations > 0:
		opts.MaxIterations = maxIterations
	case opts.MaxIterations == 0:
		opts.MaxIterations = defaultToolIterations
	}
	return opts
}

func withTimeout(ctx context.Context, ms int) (context.Context, context.CancelFunc) {
	if ms <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, time.Duration(ms)*time.Millisecond)
}
