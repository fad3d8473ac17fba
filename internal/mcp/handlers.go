package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/mnemo/internal/errors"
	"github.com/hpungsan/mnemo/internal/memory"
	"github.com/hpungsan/mnemo/internal/ops"
	"github.com/hpungsan/mnemo/internal/suggest"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	env *ops.Env
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(env *ops.Env) *Handlers {
	return &Handlers{env: env}
}

// Request types for each tool

// AnalyzeRequest represents the arguments for analyze.
type AnalyzeRequest struct {
	Text       string `json:"text"`
	SessionID  string `json:"session_id"`
	SourceTool string `json:"source_tool,omitempty"`
	ProjectID  string `json:"project_id,omitempty"`
}

// SuggestRequest represents the arguments for suggest.
type SuggestRequest struct {
	Text       string `json:"text"`
	SessionID  string `json:"session_id"`
	SourceTool string `json:"source_tool,omitempty"`
	ProjectID  string `json:"project_id,omitempty"`
}

// ApproveRequest represents the arguments for approve.
type ApproveRequest struct {
	ID    string        `json:"id"`
	Edits *ApproveEdits `json:"edits,omitempty"`
}

// ApproveEdits are optional overrides applied at approval.
type ApproveEdits struct {
	Text     string         `json:"text,omitempty"`
	Category string         `json:"category,omitempty"`
	Fields   map[string]any `json:"fields,omitempty"`
}

// RejectRequest represents the arguments for reject.
type RejectRequest struct {
	ID       string `json:"id"`
	Feedback string `json:"feedback,omitempty"`
}

// PendingRequest represents the arguments for pending.
type PendingRequest struct {
	SessionID string `json:"session_id,omitempty"`
}

// CleanupRequest represents the arguments for cleanup.
type CleanupRequest struct {
	RetentionDays int `json:"retention_days,omitempty"`
}

// SettingsGetRequest represents the arguments for settings_get.
type SettingsGetRequest struct {
	Key string `json:"key"`
}

// SettingsSetRequest represents the arguments for settings_set.
type SettingsSetRequest struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// Handler implementations

// HandleAnalyze handles the analyze tool call.
func (h *Handlers) HandleAnalyze(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[AnalyzeRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Analyze(ctx, h.env, ops.AnalyzeInput{
		Text:       input.Text,
		SessionID:  input.SessionID,
		SourceTool: input.SourceTool,
		ProjectID:  input.ProjectID,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleSuggest handles the suggest tool call.
func (h *Handlers) HandleSuggest(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SuggestRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Suggest(ctx, h.env, ops.SuggestInput{
		Text:       input.Text,
		SessionID:  input.SessionID,
		SourceTool: input.SourceTool,
		ProjectID:  input.ProjectID,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleApprove handles the approve tool call.
func (h *Handlers) HandleApprove(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ApproveRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	var edits *suggest.Edits
	if input.Edits != nil {
		edits = &suggest.Edits{
			Text:     input.Edits.Text,
			Category: memory.Category(input.Edits.Category),
			Fields:   input.Edits.Fields,
		}
	}

	result, err := ops.Approve(ctx, h.env, ops.ApproveInput{
		ID:    input.ID,
		Edits: edits,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleReject handles the reject tool call.
func (h *Handlers) HandleReject(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[RejectRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Reject(ctx, h.env, ops.RejectInput{
		ID:       input.ID,
		Feedback: input.Feedback,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandlePending handles the pending tool call.
func (h *Handlers) HandlePending(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[PendingRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Pending(ctx, h.env, ops.PendingInput{SessionID: input.SessionID})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleCleanup handles the cleanup tool call.
func (h *Handlers) HandleCleanup(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CleanupRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Cleanup(ctx, h.env, ops.CleanupInput{RetentionDays: input.RetentionDays})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleSettingsGet handles the settings_get tool call.
func (h *Handlers) HandleSettingsGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SettingsGetRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.SettingsGet(ctx, h.env, ops.SettingsGetInput{Key: input.Key})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleSettingsSet handles the settings_set tool call.
func (h *Handlers) HandleSettingsSet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SettingsSetRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.SettingsSet(ctx, h.env, ops.SettingsSetInput{
		Key:   input.Key,
		Value: input.Value,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleSettingsList handles the settings_list tool call.
func (h *Handlers) HandleSettingsList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.SettingsList(ctx, h.env)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleSettingsReset handles the settings_reset tool call.
func (h *Handlers) HandleSettingsReset(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.SettingsReset(ctx, h.env)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleInsights handles the insights tool call.
func (h *Handlers) HandleInsights(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.Insights(ctx, h.env)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Note: Internal error details are not exposed to prevent leaking sensitive info.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if mnemoErr, ok := err.(*errors.MnemoError); ok {
		errorObj := map[string]any{
			"code":    mnemoErr.Code,
			"message": mnemoErr.Message,
			"status":  mnemoErr.Status,
		}
		// Only include details for non-internal errors to avoid leaking
		// sensitive info like file paths or SQL errors
		if mnemoErr.Code != errors.ErrInternal && mnemoErr.Details != nil {
			errorObj["details"] = mnemoErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
