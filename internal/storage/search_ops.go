package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/linkstash/linkstash/pkg/types"
)

// candidateWhere builds the structural filter fragment shared by every
// candidate-generation query. Ownership comes first, then the READY status
// gate; type, tag, and special filters each combine with OR within their
// category and AND across categories.
func candidateWhere(q *CandidateQuery) (string, []interface{}) {
	var b strings.Builder
	args := make([]interface{}, 0, 8)

	b.WriteString("b.owner_id = ? AND b.status = ?")
	args = append(args, q.OwnerID, types.StatusReady)

	if len(q.Types) > 0 {
		b.WriteString(" AND b.type IN (")
		for i, t := range q.Types {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString("?")
			args = append(args, t)
		}
		b.WriteString(")")
	}

	if len(q.Tags) > 0 {
		// At least one tag in the set must be attached (OR semantics)
		b.WriteString(` AND EXISTS (
			SELECT 1 FROM bookmark_tags bt
			JOIN tags t ON t.id = bt.tag_id
			WHERE bt.bookmark_id = b.id AND lower(t.name) IN (`)
		for i, name := range q.Tags {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString("?")
			args = append(args, strings.ToLower(name))
		}
		b.WriteString("))")
	}

	if len(q.SpecialFilters) > 0 {
		conds := make([]string, 0, len(q.SpecialFilters))
		for _, f := range q.SpecialFilters {
			switch f {
			case types.FilterStar:
				conds = append(conds, "b.starred = 1")
			case types.FilterRead:
				conds = append(conds, "b.read = 1")
			case types.FilterUnread:
				conds = append(conds, "b.read = 0")
			}
		}
		if len(conds) > 0 {
			b.WriteString(" AND (" + strings.Join(conds, " OR ") + ")")
		}
	}

	return b.String(), args
}

// escapeLike escapes LIKE metacharacters in a user-supplied needle
func escapeLike(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(s)
}

// LexicalCandidates finds bookmarks whose title, url, or summary contains
// the query text, case-insensitively. Matches carry matchType EXACT_TEXT
// with distance 0.
func (s *SQLiteStorage) LexicalCandidates(ctx context.Context, q *CandidateQuery) ([]types.Candidate, error) {
	if strings.TrimSpace(q.Text) == "" {
		return []types.Candidate{}, nil
	}

	where, args := candidateWhere(q)
	needle := "%" + escapeLike(strings.ToLower(q.Text)) + "%"

	query := `
		SELECT b.id FROM bookmarks b
		WHERE ` + where + `
		AND (lower(COALESCE(b.title, '')) LIKE ? ESCAPE '\'
		  OR lower(b.url) LIKE ? ESCAPE '\'
		  OR lower(COALESCE(b.summary, '')) LIKE ? ESCAPE '\')
	`
	args = append(args, needle, needle, needle)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute lexical search: %w", err)
	}
	defer func() { _ = rows.Close() }()

	candidates := make([]types.Candidate, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		candidates = append(candidates, types.Candidate{
			BookmarkID: id,
			MatchType:  types.MatchExactText,
		})
	}
	return candidates, rows.Err()
}

// TagCandidates finds bookmarks carrying at least one tag from the supplied
// tag list, recording which tag names contributed. Matches carry matchType
// TAG with distance 0. Tag names compare case-insensitively and a
// nonexistent tag name simply matches nothing.
func (s *SQLiteStorage) TagCandidates(ctx context.Context, q *CandidateQuery) ([]types.Candidate, error) {
	if len(q.Tags) == 0 {
		return []types.Candidate{}, nil
	}

	where, args := candidateWhere(q)

	query := `
		SELECT b.id, t.name FROM bookmarks b
		JOIN bookmark_tags bt ON bt.bookmark_id = b.id
		JOIN tags t ON t.id = bt.tag_id
		WHERE ` + where + `
		AND lower(t.name) IN (`
	for i, name := range q.Tags {
		if i > 0 {
			query += ","
		}
		query += "?"
		args = append(args, strings.ToLower(name))
	}
	query += `) ORDER BY b.id, t.name`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute tag search: %w", err)
	}
	defer func() { _ = rows.Close() }()

	// Group matched tag names per bookmark; rows arrive ordered by id
	candidates := make([]types.Candidate, 0)
	for rows.Next() {
		var id int64
		var tagName string
		if err := rows.Scan(&id, &tagName); err != nil {
			return nil, err
		}
		if n := len(candidates); n > 0 && candidates[n-1].BookmarkID == id {
			candidates[n-1].MatchedTags = append(candidates[n-1].MatchedTags, tagName)
			continue
		}
		candidates = append(candidates, types.Candidate{
			BookmarkID:  id,
			MatchType:   types.MatchTag,
			MatchedTags: []string{tagName},
		})
	}
	return candidates, rows.Err()
}

// EmbeddingRows returns the raw embedding blobs for the semantic path,
// restricted to bookmarks that pass the structural filters and have at
// least one embedding. Distance computation happens in the searcher.
func (s *SQLiteStorage) EmbeddingRows(ctx context.Context, q *CandidateQuery) ([]EmbeddingRow, error) {
	where, args := candidateWhere(q)

	query := `
		SELECT b.id, b.title_embedding, b.summary_embedding
		FROM bookmarks b
		WHERE ` + where + `
		AND (b.title_embedding IS NOT NULL OR b.summary_embedding IS NOT NULL)
	`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query embeddings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := make([]EmbeddingRow, 0)
	for rows.Next() {
		var row EmbeddingRow
		if err := rows.Scan(&row.BookmarkID, &row.TitleVector, &row.SummaryVector); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// BrowseBookmarks serves queries without free text: structural filters
// only, newest first. beforeID pushes the cursor predicate into SQL; 0
// means first page. Callers pass limit+1 to detect a further page.
func (s *SQLiteStorage) BrowseBookmarks(ctx context.Context, q *CandidateQuery, beforeID int64, limit int) ([]*types.Bookmark, error) {
	if limit <= 0 {
		return []*types.Bookmark{}, nil
	}

	where, args := candidateWhere(q)

	query := `SELECT ` + bookmarkColumns + ` FROM bookmarks b WHERE ` + where
	if beforeID > 0 {
		query += " AND b.id < ?"
		args = append(args, beforeID)
	}
	query += " ORDER BY b.id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute browse query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	bookmarks := make([]*types.Bookmark, 0, limit)
	for rows.Next() {
		bm, err := scanBookmark(rows)
		if err != nil {
			return nil, err
		}
		bookmarks = append(bookmarks, bm)
	}
	return bookmarks, rows.Err()
}
