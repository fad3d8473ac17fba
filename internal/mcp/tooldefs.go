package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

var analyzeToolDef = mcp.NewTool("memory_analyze",
	mcp.WithDescription("Classify content and preview the storage decision without storing anything or creating suggestions."),
	mcp.WithString("text",
		mcp.Required(),
		mcp.Description("The content to analyze."),
	),
	mcp.WithString("session_id",
		mcp.Required(),
		mcp.Description("Conversation session identifier."),
	),
	mcp.WithString("source_tool",
		mcp.Description("Tool the content came from."),
	),
	mcp.WithString("project_id",
		mcp.Description("Project the content belongs to."),
	),
)

var suggestToolDef = mcp.NewTool("memory_suggest",
	mcp.WithDescription("Run the full storage pipeline: classify, filter duplicates, then auto-store, suggest, or discard the content."),
	mcp.WithString("text",
		mcp.Required(),
		mcp.Description("The content to process."),
	),
	mcp.WithString("session_id",
		mcp.Required(),
		mcp.Description("Conversation session identifier. The suggestion cap is tracked per session."),
	),
	mcp.WithString("source_tool",
		mcp.Description("Tool the content came from."),
	),
	mcp.WithString("project_id",
		mcp.Description("Project the content belongs to."),
	),
)

var approveToolDef = mcp.NewTool("memory_approve",
	mcp.WithDescription("Approve a pending suggestion, storing it as a memory. Optional edits override text, category, or fields."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Suggestion id."),
	),
	mcp.WithObject("edits",
		mcp.Description("Optional overrides: text (string), category (string), fields (object)."),
	),
)

var rejectToolDef = mcp.NewTool("memory_reject",
	mcp.WithDescription("Reject a pending suggestion. Optional feedback is recorded and feeds threshold learning."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Suggestion id."),
	),
	mcp.WithString("feedback",
		mcp.Description("Optional note on why the suggestion was declined."),
	),
)

var pendingToolDef = mcp.NewTool("memory_pending",
	mcp.WithDescription("List suggestions awaiting a decision, newest first."),
	mcp.WithString("session_id",
		mcp.Description("Restrict to one session."),
	),
)

var cleanupToolDef = mcp.NewTool("memory_cleanup",
	mcp.WithDescription("Expire pending suggestions older than the retention period. Safe to run repeatedly."),
	mcp.WithNumber("retention_days",
		mcp.Description("Override the configured retention period in days."),
	),
)

var settingsGetToolDef = mcp.NewTool("memory_settings_get",
	mcp.WithDescription("Get the effective value of one engine setting."),
	mcp.WithString("key",
		mcp.Required(),
		mcp.Description("Setting key, e.g. intelligent_storage.auto_store_threshold."),
	),
)

var settingsSetToolDef = mcp.NewTool("memory_settings_set",
	mcp.WithDescription("Set an engine setting. Values are validated; out-of-range values are rejected."),
	mcp.WithString("key",
		mcp.Required(),
		mcp.Description("Setting key."),
	),
	mcp.WithString("value",
		mcp.Required(),
		mcp.Description("New value, as a string; coerced to the setting's declared type."),
	),
)

var settingsListToolDef = mcp.NewTool("memory_settings_list",
	mcp.WithDescription("List every engine setting and its effective value, defaults included."),
)

var settingsResetToolDef = mcp.NewTool("memory_settings_reset",
	mcp.WithDescription("Restore every engine setting to its default, clearing learned per-category thresholds."),
)

var insightsToolDef = mcp.NewTool("memory_insights",
	mcp.WithDescription("Report suggestion outcomes and learned auto-store thresholds per category."),
)
