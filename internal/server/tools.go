package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// gridProperties are the image conversion arguments shared by the tools that
// accept an image path.
func gridProperties() map[string]interface{} {
	return map[string]interface{}{
		"path": map[string]interface{}{
			"type":        "string",
			"description": "Absolute path to the image file",
		},
		"width": map[string]interface{}{
			"type":        "integer",
			"description": "Maximum grid width in digits. Default 30",
		},
		"height": map[string]interface{}{
			"type":        "integer",
			"description": "Maximum grid height in digits. Default 60",
		},
		"modulus": map[string]interface{}{
			"type":        "integer",
			"description": "Intensity modulus, 10 (digits 0-9) or 9 (digits 0-8). Default 10",
			"enum":        []int{9, 10},
		},
		"grayscale": map[string]interface{}{
			"type":        "string",
			"description": "Grayscale conversion. Default average",
			"enum":        []string{"average", "luminance", "lightness"},
		},
		"dither": map[string]interface{}{
			"type":        "boolean",
			"description": "Apply Floyd-Steinberg error diffusion. Default true",
		},
		"contrast": map[string]interface{}{
			"type":        "number",
			"description": "Contrast adjustment in [-1, 1]. Default 0",
		},
		"region": map[string]interface{}{
			"type":        "string",
			"description": "Optional named region to convert instead of the whole image",
			"enum": []string{"full", "top-left", "top-right", "bottom-left", "bottom-right",
				"top-half", "bottom-half", "left-half", "right-half", "center"},
		},
	}
}

func digitsProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Decimal digit string, most significant digit first",
	}
}

func roundsProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": "Miller-Rabin witness rounds. Default 2",
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	searchProps := gridProperties()
	searchProps["digits"] = digitsProperty()
	searchProps["rounds"] = roundsProperty()
	searchProps["positions"] = map[string]interface{}{
		"type":        "integer",
		"description": "Digits rewritten per trial. Default 1",
	}
	searchProps["preserve_leading"] = map[string]interface{}{
		"type":        "boolean",
		"description": "Never change the first digit. Default true",
	}
	searchProps["max_iterations"] = map[string]interface{}{
		"type":        "integer",
		"description": "Trial budget. Default 100000",
	}
	searchProps["timeout_ms"] = map[string]interface{}{
		"type":        "integer",
		"description": "Optional wall-clock limit in milliseconds",
	}
	searchProps["workers"] = map[string]interface{}{
		"type":        "integer",
		"description": "Parallel search goroutines. Default 1",
	}
	searchProps["seed"] = map[string]interface{}{
		"type":        "integer",
		"description": "Random seed for a reproducible single-worker search",
	}

	return []Tool{
		// Image Conversion
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format and the digit count of a full-resolution conversion.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_to_digits",
			Description: "Scale an image down to a grid and map each cell's gray intensity to a decimal digit. Returns the digit string in row-major order with the actual grid size.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": gridProperties(),
				"required":   []string{"path"},
			},
		},

		// Primality
		{
			Name:        "prime_check",
			Description: "Test whether a digit string is a probable prime using Miller-Rabin.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"digits": digitsProperty(),
					"rounds": roundsProperty(),
				},
				"required": []string{"digits"},
			},
		},
		{
			Name:        "prime_search",
			Description: "Find a probable prime that differs from the given digits (or the digits of an image) in a few random positions. An input that is already prime is returned unchanged. The search is bounded by max_iterations.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": searchProps,
			},
		},
		{
			Name:        "next_prime",
			Description: "Return the smallest probable prime not below the given digits, kept at the same width.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"digits": digitsProperty(),
					"rounds": roundsProperty(),
					"max_iterations": map[string]interface{}{
						"type":        "integer",
						"description": "Odd candidates to test before giving up. Default 100000",
					},
					"timeout_ms": map[string]interface{}{
						"type":        "integer",
						"description": "Optional wall-clock limit in milliseconds",
					},
				},
				"required": []string{"digits"},
			},
		},

		// Rendering
		{
			Name:        "digits_render",
			Description: "Render a digit string as a grid. Text returns the rows, html returns a standalone shaded page, png returns base64-encoded image data.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"digits": digitsProperty(),
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Grid width; width*height must equal the digit count",
					},
					"height": map[string]interface{}{
						"type":        "integer",
						"description": "Grid height",
					},
					"format": map[string]interface{}{
						"type":        "string",
						"description": "Output format. Default text",
						"enum":        []string{"text", "html", "png"},
						"default":     "text",
					},
					"shade": map[string]interface{}{
						"type":        "boolean",
						"description": "Shade cells by digit value (png only; html is always shaded)",
					},
					"scale": map[string]interface{}{
						"type":        "integer",
						"description": "PNG pixel scale. Default 2",
					},
					"title": map[string]interface{}{
						"type":        "string",
						"description": "HTML page title",
					},
				},
				"required": []string{"digits", "width", "height"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
