package mcp

import (
	"context"
	"database/sql"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/jordanwest/growthbook/internal/book"
	"github.com/jordanwest/growthbook/internal/config"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"journal_write": {
		def:     journalWriteToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleWrite },
	},
	"journal_get": {
		def:     journalGetToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleGet },
	},
	"journal_list": {
		def:     journalListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleList },
	},
	"journal_delete": {
		def:     journalDeleteToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleDelete },
	},
	"journal_curate": {
		def:     journalCurateToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCurate },
	},
	"draft_save": {
		def:     draftSaveToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleDraftSave },
	},
	"draft_get": {
		def:     draftGetToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleDraftGet },
	},
	"draft_list": {
		def:     draftListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleDraftList },
	},
	"draft_delete": {
		def:     draftDeleteToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleDraftDelete },
	},
	"book_export": {
		def:     bookExportToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleBookExport },
	},
	"book_themes": {
		def:     bookThemesToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleBookThemes },
	},
	"journal_backup": {
		def:     journalBackupToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleBackup },
	},
	"journal_restore": {
		def:     journalRestoreToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleRestore },
	},
}

// AllToolNames returns a list of all valid tool names.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// NewServer creates a new MCP server with Growth Book tools registered.
// Tools listed in cfg.DisabledTools are excluded from registration.
func NewServer(db *sql.DB, cfg *config.Config, exporter *book.Exporter, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"growthbook",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(db, cfg, exporter)

	disabled := make(map[string]bool)
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}

	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(db *sql.DB, cfg *config.Config, exporter *book.Exporter, version string) error {
	s := NewServer(db, cfg, exporter, version)
	return server.ServeStdio(s)
}

// ToolHandlerFunc is the signature for tool handlers.
type ToolHandlerFunc func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)
