package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

var journalWriteToolDef = mcp.NewTool("journal_write",
	mcp.WithDescription("Write or update the journal entry for a date. Each date holds one entry; writing again replaces its content while keeping its identity."),
	mcp.WithString("date", mcp.Description("Entry date as YYYY-MM-DD. Defaults to today.")),
	mcp.WithString("prompt", mcp.Description("The question this entry answers. Defaults to a free write.")),
	mcp.WithString("content", mcp.Description("Free-text body of the entry (markdown).")),
	mcp.WithString("mode", mcp.Description("Reflection mode: 'free' or 'growth'. Inferred from the answers when omitted."), mcp.Enum("free", "growth")),
	mcp.WithString("excited", mcp.Description("Free mode: what excited you today?")),
	mcp.WithString("drained", mcp.Description("Free mode: what drained your energy?")),
	mcp.WithString("grateful", mcp.Description("Free mode: what are you grateful for?")),
	mcp.WithString("learned", mcp.Description("Growth mode: what did you learn or improve upon today?")),
	mcp.WithString("alignment", mcp.Description("Growth mode: did your actions align with your values and goals?")),
	mcp.WithString("improve_tomorrow", mcp.Description("Growth mode: what can you do differently tomorrow?")),
	mcp.WithString("highlight_type", mcp.Description("Mark the entry as a notable moment."), mcp.Enum("breakthrough", "win", "loss")),
	mcp.WithString("highlight_note", mcp.Description("Short note on why the highlight mattered.")),
)

var journalGetToolDef = mcp.NewTool("journal_get",
	mcp.WithDescription("Retrieve a journal entry by id or by date. Specify exactly one."),
	mcp.WithString("id", mcp.Description("Entry ULID.")),
	mcp.WithString("date", mcp.Description("Entry date as YYYY-MM-DD.")),
)

var journalListToolDef = mcp.NewTool("journal_list",
	mcp.WithDescription("List journal entries, newest first, with pagination."),
	mcp.WithNumber("limit", mcp.Description("Max entries to return (default 20, max 100).")),
	mcp.WithNumber("offset", mcp.Description("Number of entries to skip.")),
	mcp.WithString("since", mcp.Description("Only entries on or after this YYYY-MM-DD date.")),
	mcp.WithString("mode", mcp.Description("Filter by reflection mode."), mcp.Enum("free", "growth")),
	mcp.WithBoolean("highlights_only", mcp.Description("Only entries marked as highlights.")),
)

var journalDeleteToolDef = mcp.NewTool("journal_delete",
	mcp.WithDescription("Soft-delete a journal entry by id or date. The entry drops out of listings and books but remains recoverable in storage."),
	mcp.WithString("id", mcp.Description("Entry ULID.")),
	mcp.WithString("date", mcp.Description("Entry date as YYYY-MM-DD.")),
)

var journalCurateToolDef = mcp.NewTool("journal_curate",
	mcp.WithDescription("Build and save a book draft from selection criteria. The matching entries are frozen into the draft."),
	mcp.WithString("title", mcp.Description("Book title. Defaults to 'My Journal'.")),
	mcp.WithString("intent", mcp.Description("Free-text 'why' of the book, rendered as the preface.")),
	mcp.WithNumber("days", mcp.Description("Selection window in days (for example 30 or 90). 0 selects the full history.")),
	mcp.WithString("mode", mcp.Description("Only entries of this reflection mode."), mcp.Enum("free", "growth")),
	mcp.WithBoolean("include_highlights", mcp.Description("Also include highlighted entries outside the window.")),
)

var draftSaveToolDef = mcp.NewTool("draft_save",
	mcp.WithDescription("Create or overwrite a book draft with an explicit entry selection."),
	mcp.WithString("id", mcp.Description("Draft ULID to overwrite. Omit to create a new draft.")),
	mcp.WithString("title", mcp.Description("Book title."), mcp.Required()),
	mcp.WithString("intent", mcp.Description("Free-text 'why', rendered as the preface page.")),
	mcp.WithString("start_date", mcp.Description("Criteria start date as YYYY-MM-DD (descriptive only).")),
	mcp.WithString("end_date", mcp.Description("Criteria end date as YYYY-MM-DD (descriptive only).")),
	mcp.WithBoolean("include_highlights", mcp.Description("Criteria flag recorded with the draft.")),
	mcp.WithArray("entry_ids", mcp.Description("Ordered entry ids to include."), mcp.Items(map[string]any{"type": "string"})),
)

var draftGetToolDef = mcp.NewTool("draft_get",
	mcp.WithDescription("Retrieve a book draft by id."),
	mcp.WithString("id", mcp.Description("Draft ULID."), mcp.Required()),
)

var draftListToolDef = mcp.NewTool("draft_list",
	mcp.WithDescription("List all book drafts, most recently updated first."),
)

var draftDeleteToolDef = mcp.NewTool("draft_delete",
	mcp.WithDescription("Permanently delete a book draft. Journal entries are untouched."),
	mcp.WithString("id", mcp.Description("Draft ULID."), mcp.Required()),
)

var bookExportToolDef = mcp.NewTool("book_export",
	mcp.WithDescription("Render a draft as a paginated PDF book, attach the pre-made cover when available, and write it to the export directory."),
	mcp.WithString("draft_id", mcp.Description("Draft ULID to export."), mcp.Required()),
	mcp.WithString("theme", mcp.Description("Visual theme."), mcp.Enum("minimal", "classic", "modern", "nature")),
)

var bookThemesToolDef = mcp.NewTool("book_themes",
	mcp.WithDescription("List the built-in book themes."),
)

var journalBackupToolDef = mcp.NewTool("journal_backup",
	mcp.WithDescription("Write all entries and drafts to a JSONL backup file."),
	mcp.WithString("path", mcp.Description("Destination path. Defaults to ~/.growthbook/exports/backup-<timestamp>.jsonl.")),
	mcp.WithBoolean("include_deleted", mcp.Description("Include soft-deleted entries.")),
)

var journalRestoreToolDef = mcp.NewTool("journal_restore",
	mcp.WithDescription("Merge a JSONL backup into the library. Conflicts resolve by last write."),
	mcp.WithString("path", mcp.Description("Backup file to read."), mcp.Required()),
)
