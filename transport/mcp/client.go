package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/giraffishh/klotski/game/board"
	"github.com/giraffishh/klotski/game/engine"
	"github.com/giraffishh/klotski/game/service"
)

const (
	// solveWaitLimit bounds how long solve_puzzle blocks before handing
	// back a job ID for polling. Every catalog puzzle solves well inside
	// it; pathological saved configs may not.
	solveWaitLimit    = 25 * time.Second
	solvePollInterval = 250 * time.Millisecond
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Klotski Puzzle Server",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Klotski Sliding Block Puzzle - MCP Interface

This is a thin client that proxies all requests to the REST API server.

PUZZLE OBJECTIVE:
Slide the 2x2 general (G) to the exit at the bottom center of the 5x4 board.
Pieces slide one cell at a time into empty space; nothing rotates or jumps.

AVAILABLE TOOLS:
- game_state: Current board with move counters
- move_piece: Slide one piece (up/down/left/right) - requires intent explanation
- undo_move / redo_move: Walk the move history
- reset_puzzle: Return to the starting layout
- get_hint: Best next move from the solver
- solve_puzzle: Compute an optimal solution path
- solve_status: Poll a running solve job
- share_code: Export the current board as a share code
- move_history: View past moves
- create_session: Create a session from a catalog puzzle or a share code
- get_session: Get session details
- list_sessions: List all active sessions
- list_puzzles: List catalog puzzles with difficulty
- puzzle_instructions: Full rules, coordinates, and strategy notes
- describe_cell: Inspect one cell and its four neighbors

NOTE: The 'intent' parameter on move_piece serves as rubber duck debugging - explain your reasoning!`),
	)

	// Register all tools
	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new puzzle session from a catalog puzzle (config_id) or an imported board (share_code)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "Catalog puzzle to start (see list_puzzles); defaults to the classic layout",
				},
				"share_code": map[string]interface{}{
					"type":        "string",
					"description": "Share code of a board to resume; takes precedence over config_id",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active puzzle sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details for a specific session including the current board",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID to inspect",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Puzzle state and play
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current board grid, move counters, and solved status",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID to query",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_piece",
		Description: "Slide the piece occupying (row, col) one cell in the given direction. Requires intent explanation.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID to play in",
				},
				"row": map[string]interface{}{
					"type":        "number",
					"description": "Row of any cell the piece occupies (0=top, 4=bottom)",
				},
				"col": map[string]interface{}{
					"type":        "number",
					"description": "Column of any cell the piece occupies (0=left, 3=right)",
				},
				"direction": map[string]interface{}{
					"type":        "string",
					"description": "Direction to slide",
					"enum":        []string{"up", "down", "left", "right"},
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Explain WHY you are making this move (rubber duck debugging)",
				},
				"reset": map[string]interface{}{
					"type":        "boolean",
					"description": "Reset the puzzle to its starting layout before moving",
				},
			},
			Required: []string{"session_id", "row", "col", "direction", "intent"},
		},
	}, c.handleMovePiece)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "undo_move",
		Description: "Undo the most recent move",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID to undo in",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleUndoMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "redo_move",
		Description: "Redo a move that was just undone",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID to redo in",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleRedoMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_puzzle",
		Description: "Reset the puzzle to its starting layout (move history is kept)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID to reset",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleResetPuzzle)

	// Solver
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_hint",
		Description: "Get the next move on a shortest solution from the current board",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID to get a hint for",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetHint)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "solve_puzzle",
		Description: "Compute an optimal solution for the current board. Waits for the result by default; returns a job ID to poll if the solve runs long.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID to solve",
				},
				"wait": map[string]interface{}{
					"type":        "boolean",
					"description": "Wait for the solver to finish (default true); false returns the job immediately",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleSolvePuzzle)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "solve_status",
		Description: "Check the status of a solve job started by solve_puzzle",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session the job belongs to",
				},
				"job_id": map[string]interface{}{
					"type":        "string",
					"description": "Job ID returned by solve_puzzle",
				},
			},
			Required: []string{"session_id", "job_id"},
		},
	}, c.handleSolveStatus)

	// Sharing
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "share_code",
		Description: "Export the current board as a share code anyone can resume from",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID to export",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleShareCode)

	// History and catalog
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_history",
		Description: "Get the session's move history with pagination (newest first)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID to read history from",
				},
				"page": map[string]interface{}{
					"type":        "number",
					"description": "Page number (default 1)",
				},
				"limit": map[string]interface{}{
					"type":        "number",
					"description": "Moves per page (default 20, max 100)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleMoveHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_puzzles",
		Description: "List catalog puzzles with difficulty and piece counts",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListPuzzles)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "puzzle_instructions",
		Description: "Get complete Klotski rules, coordinate conventions, and strategies for AI agents",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handlePuzzleInstructions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_cell",
		Description: "Describe one cell and its four neighbors (helps verify which piece occupies a cell before moving)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID to inspect",
				},
				"row": map[string]interface{}{
					"type":        "number",
					"description": "Row of the cell to describe (0=top, 4=bottom)",
				},
				"col": map[string]interface{}{
					"type":        "number",
					"description": "Column of the cell to describe (0=left, 3=right)",
				},
			},
			Required: []string{"session_id", "row", "col"},
		},
	}, c.handleDescribeCell)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	configID, _ := args["config_id"].(string)
	shareCode, _ := args["share_code"].(string)

	body := map[string]string{}
	if configID != "" {
		body["config_id"] = configID
	}
	if shareCode != "" {
		body["share_code"] = shareCode
	}

	var session service.SessionInfo
	err := c.apiCall("POST", "/api/sessions", body, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Created session: %s\nPuzzle: %s\n", session.ID, session.ConfigName))
	if session.GameState != nil {
		sb.WriteString("\n")
		sb.WriteString(formatGameState(session.GameState))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Total    int                   `json:"total"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	err := c.apiCall("GET", "/api/sessions", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Active Sessions (%d):\n\n", response.Total)
	for _, s := range response.Sessions {
		result += fmt.Sprintf("- %s (Puzzle: %s, Created: %s)\n",
			s.ID, s.ConfigName, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var session service.SessionInfo
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s", sessionID), nil, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatSessionInfo(&session)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var state engine.GameState
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/state", sessionID), nil, &state)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatGameState(&state)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleMovePiece(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	rowF, _ := args["row"].(float64)
	colF, _ := args["col"].(float64)
	direction, _ := args["direction"].(string)
	intent, _ := args["intent"].(string)
	reset, _ := args["reset"].(bool)

	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	_ = intent

	body := map[string]interface{}{
		"row":       int(rowF),
		"col":       int(colF),
		"direction": direction,
		"reset":     reset,
	}

	var result service.MoveResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/move", sessionID), body, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleUndoMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var state engine.GameState
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/undo", sessionID), nil, &state)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText("✓ Move undone\n\n" + formatGameState(&state)), nil
}

func (c *Client) handleRedoMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var state engine.GameState
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/redo", sessionID), nil, &state)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText("✓ Move redone\n\n" + formatGameState(&state)), nil
}

func (c *Client) handleResetPuzzle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var result struct {
		Message string           `json:"message"`
		State   engine.GameState `json:"state"`
	}
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/reset", sessionID), nil, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("✓ %s\n\n%s", result.Message, formatGameState(&result.State))), nil
}

func (c *Client) handleGetHint(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var hint engine.Hint
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/hint", sessionID), nil, &hint)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHint(&hint)), nil
}

func (c *Client) handleSolvePuzzle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	wait := true
	if w, ok := args["wait"].(bool); ok {
		wait = w
	}

	var job service.SolveJob
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/solve", sessionID), nil, &job)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if !wait {
		return mcp.NewToolResultText(formatSolveJob(&job)), nil
	}

	deadline := time.Now().Add(solveWaitLimit)
	for job.Status == service.SolveStatusSolving && time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return mcp.NewToolResultError(ctx.Err().Error()), nil
		case <-time.After(solvePollInterval):
		}
		err = c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/solve/%s", sessionID, job.ID), nil, &job)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	return mcp.NewToolResultText(formatSolveJob(&job)), nil
}

func (c *Client) handleSolveStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	jobID, _ := args["job_id"].(string)

	var job service.SolveJob
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/solve/%s", sessionID, jobID), nil, &job)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSolveJob(&job)), nil
}

func (c *Client) handleShareCode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var export service.ExportResult
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/export", sessionID), nil, &export)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Share code: %s\nLayout: %s\nMoves played: %d\n\nAnyone can resume this board with create_session and share_code=%s\n",
		export.ShareCode, export.Layout, export.MoveCount, export.ShareCode)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleMoveHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	page := 1
	if p, ok := args["page"].(float64); ok {
		page = int(p)
	}
	limit := 20
	if l, ok := args["limit"].(float64); ok {
		limit = int(l)
	}

	var history service.HistoryResponse
	path := fmt.Sprintf("/api/sessions/%s/history?page=%d&limit=%d", sessionID, page, limit)
	err := c.apiCall("GET", path, nil, &history)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListPuzzles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []*service.ConfigInfo
	err := c.apiCall("GET", "/api/configs", nil, &configs)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Available Puzzles (%d):\n\n", len(configs))
	for _, cfg := range configs {
		result += fmt.Sprintf("- %s: %s", cfg.ConfigID, cfg.Name)
		if cfg.Difficulty != "" {
			result += fmt.Sprintf(" [%s]", cfg.Difficulty)
		}
		result += "\n"
		if cfg.Description != "" {
			result += fmt.Sprintf("  %s\n", cfg.Description)
		}
		result += fmt.Sprintf("  %d pieces, %d empty cells\n", cfg.Pieces, cfg.Empties)
	}
	result += "\nUse create_session with config_id to start one of these puzzles.\n"

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handlePuzzleInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `Klotski Sliding Block Puzzle - Complete Instructions

PUZZLE OBJECTIVE:
Slide the 2x2 general (G) out through the exit at the bottom center of the
board. The puzzle is solved the moment the general occupies rows 3-4,
columns 1-2. Nothing else needs to be anywhere in particular.

THE BOARD:
5 rows by 4 columns. Rows are numbered 0 (top) to 4 (bottom), columns 0
(left) to 3 (right). Every coordinate in every tool is (row, col), row
first. "up" decreases row, "down" increases row, "left" decreases column,
"right" increases column.

BOARD LEGEND:
- G = the general, 2x2 (exactly one per puzzle, the escape target)
- V = vertical piece, 2 rows tall x 1 column wide
- H = horizontal piece, 1 row tall x 2 columns wide
- S = soldier, 1x1
- . = empty cell

A piece covers every cell showing its letter. Adjacent pieces of the same
kind show the same letter; use describe_cell when you are unsure where one
piece ends and the next begins.

MOVEMENT RULES:
1. A move slides ONE piece exactly ONE cell up, down, left, or right.
2. Every destination cell must be empty. The general moving left needs
   BOTH cells to its left empty; a vertical piece moving down needs the
   one cell below its bottom half empty.
3. Pieces never rotate, never jump, and never leave the board.
4. Any cell of a piece identifies it: if a horizontal piece covers (4,1)
   and (4,2), moving either cell left is the same move.
5. An illegal move is rejected without changing the board - the response
   says what blocked it. Illegal moves cost nothing.

READING THE GRID (MOST COMMON FAILURE POINT):
Parse the grid character by character, row by row. The classic layout has
exactly two empty cells; every legal move slides a piece into one or both
of them. Before moving, confirm: (a) which piece occupies your chosen
cell, (b) where its other cells are, (c) that every destination cell
shows '.'. describe_cell answers all three.

STRATEGY FOR AI AGENTS:
1. MAP FIRST: call game_state and locate the general, the empties, and
   the pieces walling the exit before touching anything.
2. TRACK THE EMPTIES: think of the two empty cells as the thing you are
   moving. Solutions are long (the classic puzzle needs 116 single-cell
   slides) because the empties must circulate to clear a channel.
3. WORK BACKWARD FROM THE EXIT: the general needs a 2-wide channel down
   the center. Plan which pieces must vacate it and where they can park.
4. USE THE SOLVER: get_hint names the next move on a shortest path;
   solve_puzzle computes the whole path. Checking your plan against the
   hint is cheaper than backtracking thirty moves.
5. UNDO IS FREE: undo_move and redo_move walk the history without
   penalty, and reset_puzzle restarts without losing the history log.
6. DON'T LOOP: if game_state shows a board you have seen before, consult
   move_history and break the cycle - repeating positions never helps.

MOVE COMMAND:
move_piece with session_id, row, col, direction, and intent. The intent
parameter is rubber duck debugging: state what the move accomplishes
("clearing column 0 so the left vertical can drop"). It is required.

SHARING BOARDS:
share_code exports the current board as a short code; create_session with
share_code resumes it in a fresh session, with that board as the new
starting layout.

VICTORY CONDITION:
The state reports solved=true and further moves are refused once the
general reaches the bottom-center 2x2 area. min_moves_to_goal counts the
shortest remaining solution from the current board (-1 until the solver
has run or when no solution exists).

Good luck sliding the general to freedom!`

	return mcp.NewToolResultText(instructions), nil
}

func (c *Client) handleDescribeCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	rowF, _ := args["row"].(float64)
	colF, _ := args["col"].(float64)
	row, col := int(rowF), int(colF)

	var state engine.GameState
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/state", sessionID), nil, &state)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(state.Board) == 0 {
		return mcp.NewToolResultError("session has no board"), nil
	}
	if row < 0 || row >= len(state.Board) || col < 0 || col >= len(state.Board[0]) {
		return mcp.NewToolResultError(fmt.Sprintf("cell (%d,%d) is outside the %dx%d board",
			row, col, len(state.Board), len(state.Board[0]))), nil
	}

	return mcp.NewToolResultText(describeCell(state.Board, row, col)), nil
}

// Formatting helpers

func formatSessionInfo(s *service.SessionInfo) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Session: %s\n", s.ID))
	sb.WriteString(fmt.Sprintf("Puzzle: %s\n", s.ConfigName))
	sb.WriteString(fmt.Sprintf("Created: %s\n", s.CreatedAt.Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("Last accessed: %s\n", s.LastAccessedAt.Format("2006-01-02 15:04:05")))
	if s.GameState != nil {
		sb.WriteString("\n")
		sb.WriteString(formatGameState(s.GameState))
	}
	return sb.String()
}

// formatGameState renders the board grid with row and column indices plus
// the counters the move tools care about.
func formatGameState(state *engine.GameState) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Puzzle: %s\n", state.ConfigName))
	sb.WriteString(fmt.Sprintf("Moves: %d", state.MoveCount))
	if state.TotalMoves != state.MoveCount {
		sb.WriteString(fmt.Sprintf(" (total including undone: %d)", state.TotalMoves))
	}
	sb.WriteString("\n")
	if state.MinMovesToGoal >= 0 {
		sb.WriteString(fmt.Sprintf("Minimum moves to goal: %d\n", state.MinMovesToGoal))
	}
	sb.WriteString(fmt.Sprintf("Undo: %v | Redo: %v\n", state.CanUndo, state.CanRedo))

	if state.Solved {
		sb.WriteString("\n🎉 SOLVED! The general is out.\n")
	}
	if state.Message != "" {
		sb.WriteString(fmt.Sprintf("\n%s\n", state.Message))
	}

	sb.WriteString("\nBoard:\n")
	sb.WriteString(renderBoard(state.Board))
	sb.WriteString("\nLegend: G=general 2x2, V=vertical 2x1, H=horizontal 1x2, S=soldier 1x1, .=empty\n")

	return sb.String()
}

// renderBoard draws one character per cell with row and column indices
// matching the coordinates the move tools expect.
func renderBoard(b board.Board) string {
	if len(b) == 0 {
		return "(no board)\n"
	}
	var sb strings.Builder
	sb.WriteString("    ")
	for c := range b[0] {
		sb.WriteString(fmt.Sprintf("%d ", c))
	}
	sb.WriteString("\n")
	for r, row := range b {
		sb.WriteString(fmt.Sprintf("  %d ", r))
		for _, code := range row {
			sb.WriteString(fmt.Sprintf("%c ", cellRune(code)))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func cellRune(code int) byte {
	switch code {
	case board.Soldier:
		return 'S'
	case board.Horizontal:
		return 'H'
	case board.Vertical:
		return 'V'
	case board.General:
		return 'G'
	default:
		return '.'
	}
}

func formatMoveResult(result *service.MoveResult) string {
	var sb strings.Builder

	if result.Success {
		sb.WriteString("✓ Move successful\n")
	} else {
		sb.WriteString(fmt.Sprintf("✗ Move failed: %s\n", result.Message))
	}

	for _, event := range result.Events {
		sb.WriteString(fmt.Sprintf("  Event: %s - %s\n", event.Type, event.Message))
	}

	if result.GameState != nil {
		sb.WriteString("\n")
		sb.WriteString(formatGameState(result.GameState))
	}

	return sb.String()
}

func formatHint(hint *engine.Hint) string {
	return fmt.Sprintf("Hint: slide the %s at (%d,%d) %s.\n%d move(s) remain on the shortest solution.\n",
		hint.Piece, hint.Row, hint.Col, hint.Direction, hint.MovesRemaining)
}

func formatSolveJob(job *service.SolveJob) string {
	var sb strings.Builder

	switch job.Status {
	case service.SolveStatusReady:
		if job.MovesRequired == 0 {
			sb.WriteString("✓ The puzzle is already solved.\n")
			return sb.String()
		}
		sb.WriteString(fmt.Sprintf("✓ Solution ready: %d moves to the goal\n", job.MovesRequired))
		if len(job.Path) > 1 {
			if grid := renderLayout(job.Path[1]); grid != "" {
				sb.WriteString("\nNext board on the optimal path:\n")
				sb.WriteString(grid)
			}
		}
		sb.WriteString("\nUse get_hint for the concrete next move (piece and direction).\n")
	case service.SolveStatusUnsolvable:
		sb.WriteString("✗ No solution exists from the current board.\n")
		sb.WriteString("Use undo_move or reset_puzzle to return to a solvable position.\n")
	case service.SolveStatusFailed:
		sb.WriteString(fmt.Sprintf("✗ Solve failed: %s\n", job.Error))
	default:
		sb.WriteString(fmt.Sprintf("⏳ Still solving (job %s)\n", job.ID))
		sb.WriteString("Check again with solve_status using this job_id.\n")
	}

	return sb.String()
}

// renderLayout renders a decimal layout string as a grid, or "" when the
// layout does not parse.
func renderLayout(layout string) string {
	l, err := board.ParseLayout(layout)
	if err != nil {
		return ""
	}
	b, err := l.Unpack()
	if err != nil {
		return ""
	}
	return renderBoard(b)
}

func formatHistory(history *service.HistoryResponse) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Move History (%d total moves, page %d/%d):\n\n",
		history.TotalMoves, history.Page, history.TotalPages))

	if len(history.Moves) == 0 {
		sb.WriteString("No moves yet.\n")
		return sb.String()
	}

	for _, m := range history.Moves {
		sb.WriteString(fmt.Sprintf("%3d. %s at (%d,%d) -> %s\n", m.MoveNumber, m.Piece, m.Row, m.Col, m.Direction))
	}

	if history.HasNext {
		sb.WriteString(fmt.Sprintf("\nMore moves available: request page %d.\n", history.Page+1))
	}

	return sb.String()
}

func describeCell(b board.Board, row, col int) string {
	var sb strings.Builder
	code := b[row][col]

	sb.WriteString(fmt.Sprintf("Cell (%d,%d): %c - %s\n", row, col, cellRune(code), cellDescription(code)))
	sb.WriteString("\nNeighbors:\n")
	sb.WriteString(fmt.Sprintf("  up    (%d,%d): %s\n", row-1, col, neighborDescription(b, row-1, col)))
	sb.WriteString(fmt.Sprintf("  down  (%d,%d): %s\n", row+1, col, neighborDescription(b, row+1, col)))
	sb.WriteString(fmt.Sprintf("  left  (%d,%d): %s\n", row, col-1, neighborDescription(b, row, col-1)))
	sb.WriteString(fmt.Sprintf("  right (%d,%d): %s\n", row, col+1, neighborDescription(b, row, col+1)))

	if code != board.Empty {
		sb.WriteString(fmt.Sprintf("\nTo slide this piece, call move_piece with row=%d, col=%d and a direction whose destination cells are empty.\n", row, col))
	}

	return sb.String()
}

func cellDescription(code int) string {
	switch code {
	case board.Empty:
		return "empty cell"
	case board.Soldier:
		return "soldier (1x1)"
	case board.Horizontal:
		return "horizontal piece (1x2, lying)"
	case board.Vertical:
		return "vertical piece (2x1, standing)"
	case board.General:
		return "general (2x2, the escape target)"
	default:
		return fmt.Sprintf("unknown code %d", code)
	}
}

func neighborDescription(b board.Board, row, col int) string {
	if row < 0 || row >= len(b) || col < 0 || col >= len(b[0]) {
		return "board edge"
	}
	code := b[row][col]
	return fmt.Sprintf("%c - %s", cellRune(code), cellDescription(code))
}
