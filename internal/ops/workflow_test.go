package ops

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jordanwest/growthbook/internal/config"
	"github.com/jordanwest/growthbook/internal/errors"
)

// TestFullWorkflow exercises the complete journal-to-book lifecycle:
// write → get → rewrite → list → curate → export → delete → get (not found)
func TestFullWorkflow(t *testing.T) {
	database := setupTestDB(t)
	cfg := config.DefaultConfig()

	// 1. Write
	writeOut, err := WriteEntry(database, WriteEntryInput{
		Date:     "2024-01-10",
		Content:  "Started the garden beds.",
		Grateful: "an unhurried afternoon",
	})
	require.NoError(t, err)
	require.True(t, writeOut.Created)
	require.NotEmpty(t, writeOut.Entry.ID)
	id := writeOut.Entry.ID

	// 2. Get by date
	getOut, err := GetEntry(database, GetEntryInput{Date: "2024-01-10"})
	require.NoError(t, err)
	require.Equal(t, id, getOut.Entry.ID)

	// 3. Rewrite the same date, keeps the id
	writeOut, err = WriteEntry(database, WriteEntryInput{
		Date:          "2024-01-10",
		Content:       "Started the garden beds. Rain moved in.",
		HighlightType: "win",
	})
	require.NoError(t, err)
	require.False(t, writeOut.Created)
	require.Equal(t, id, writeOut.Entry.ID)

	// 4. List - verify entry appears
	listOut, err := ListEntries(database, ListEntriesInput{})
	require.NoError(t, err)
	require.Len(t, listOut.Entries, 1)
	require.Equal(t, 1, listOut.Pagination.Total)

	// 5. Curate into a draft
	curateOut, err := Curate(database, CurateInput{Title: "Garden Year"})
	require.NoError(t, err)
	require.Equal(t, 1, curateOut.Matched)
	require.Equal(t, []string{id}, curateOut.Draft.IncludedEntryIDs)
	draftID := curateOut.Draft.ID

	// 6. Export the draft as a PDF book
	exporter := testExporter(t)
	result, err := ExportBook(context.Background(), database, cfg, exporter, ExportBookInput{
		DraftID: draftID,
	})
	require.NoError(t, err)
	require.GreaterOrEqual(t, result.Pages, 3)
	_, err = os.Stat(result.Path)
	require.NoError(t, err)

	// 7. Delete the entry (soft)
	deleteOut, err := DeleteEntry(database, DeleteEntryInput{ID: id})
	require.NoError(t, err)
	require.True(t, deleteOut.Deleted)

	// 8. List - verify excluded after delete
	listOut, err = ListEntries(database, ListEntriesInput{})
	require.NoError(t, err)
	require.Len(t, listOut.Entries, 0)

	// 9. Delete the draft, then verify 404
	_, err = DeleteDraft(database, DeleteDraftInput{ID: draftID})
	require.NoError(t, err)

	_, err = GetDraft(database, GetDraftInput{ID: draftID})
	require.Error(t, err)
	var bookErr *errors.BookError
	require.ErrorAs(t, err, &bookErr)
	require.Equal(t, errors.ErrNotFound, bookErr.Code)
}
