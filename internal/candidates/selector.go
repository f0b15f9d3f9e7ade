package candidates

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tendant/sticker-resize-fix/pkg/media"
)

// KindSticker is the image_metadata/user_image_library kind value for stickers
const KindSticker = 1

// tables names the upload and metadata tables of one library
type tables struct {
	upload   string
	metadata string
}

var libraryTables = map[media.Library]tables{
	media.LibraryGlobal: {upload: "image_upload", metadata: "image_metadata"},
	media.LibraryUser:   {upload: "user_image_upload", metadata: "user_image_library"},
}

// Selector finds sticker uploads that went through the old resize rule
type Selector struct {
	db      *sql.DB
	cutoff  time.Time
	timeout time.Duration
}

// NewSelector creates a selector for uploads processed before cutoff.
// A positive timeout bounds each query, including the wait for a pooled
// connection.
func NewSelector(db *sql.DB, cutoff time.Time, timeout time.Duration) *Selector {
	return &Selector{
		db:      db,
		cutoff:  cutoff,
		timeout: timeout,
	}
}

func selectQuery(t tables) string {
	return fmt.Sprintf(`
		SELECT %[1]s.image_id
		FROM %[1]s
		INNER JOIN %[2]s ON %[2]s.id = %[1]s.image_id
		WHERE %[2]s.kind = $1
		  AND %[1]s.processing_result IS NOT TRUE
		  AND %[1]s.processed_at < $2
		ORDER BY %[1]s.image_id
	`, t.upload, t.metadata)
}

func markQuery(t tables) string {
	return fmt.Sprintf(`UPDATE %s SET processing_result = TRUE WHERE image_id = $1`, t.upload)
}

func (s *Selector) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(ctx, s.timeout)
	}
	return context.WithCancel(ctx)
}

// Select returns the identifiers of sticker uploads in library whose
// processing result is not known good and that were processed before the
// cutoff. An empty slice is a valid result.
func (s *Selector) Select(ctx context.Context, library media.Library) ([]string, error) {
	t, ok := libraryTables[library]
	if !ok {
		return nil, fmt.Errorf("%w: %q", media.ErrUnknownLibrary, library)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, selectQuery(t), KindSticker, s.cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to select %s candidates: %w", library, err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan %s candidate: %w", library, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s candidates: %w", library, err)
	}

	return ids, nil
}

// MarkProcessed records a successful correction so later passes skip id
func (s *Selector) MarkProcessed(ctx context.Context, library media.Library, id string) error {
	t, ok := libraryTables[library]
	if !ok {
		return fmt.Errorf("%w: %q", media.ErrUnknownLibrary, library)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx, markQuery(t), id)
	if err != nil {
		return fmt.Errorf("failed to mark %s/%s processed: %w", library, id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to mark %s/%s processed: %w", library, id, err)
	}
	if n == 0 {
		return fmt.Errorf("no %s upload row for %s", library, id)
	}

	return nil
}
