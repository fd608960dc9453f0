package query

import (
	"fmt"
	"strings"

	"github.com/linkstash/linkstash/pkg/types"
)

// Context identifies which caller surface a query arrives through. Each
// surface carries its own defaults: tighter semantic thresholds and larger
// pages for the in-app API, looser recall for the public and assistant
// surfaces.
type Context int

const (
	// ContextAPI is the authenticated in-app search endpoint
	ContextAPI Context = iota
	// ContextAPIV1 is the versioned public API with a larger page cap
	ContextAPIV1
	// ContextPublic is the share-link search: loose threshold, special
	// filters stripped
	ContextPublic
	// ContextAssistant is the AI tool search: loosest threshold, small
	// internal pages
	ContextAssistant
)

// Per-context tuning. Strict surfaces reject out-of-range limits because
// the cap is part of their public contract; lenient surfaces clamp.
type contextRules struct {
	defaultThreshold float64
	defaultLimit     int
	maxLimit         int
	strictLimit      bool
	allowSpecial     bool
}

var rulesByContext = map[Context]contextRules{
	ContextAPI:       {defaultThreshold: 0.1, defaultLimit: 20, maxLimit: 50, strictLimit: true, allowSpecial: true},
	ContextAPIV1:     {defaultThreshold: 0.1, defaultLimit: 20, maxLimit: 100, strictLimit: true, allowSpecial: true},
	ContextPublic:    {defaultThreshold: 0.3, defaultLimit: 20, maxLimit: 20, strictLimit: false, allowSpecial: false},
	ContextAssistant: {defaultThreshold: 0.8, defaultLimit: 10, maxLimit: 20, strictLimit: false, allowSpecial: true},
}

// Threshold bounds: the semantic distance cutoff lives in (0.1, 2.0]
const (
	minThreshold = 0.1
	maxThreshold = 2.0
)

// Raw is loosely typed filter input as it arrives from a caller. Slice
// entries may themselves be comma-joined lists; both layers are split.
type Raw struct {
	Text           string
	Tags           []string
	Types          []string
	SpecialFilters []string
	Cursor         string
	Limit          int     // 0 means unset
	Threshold      float64 // 0 means unset
}

// Normalize validates and canonicalizes raw filter input into a typed
// Query, applying the caller context's defaults and caps.
func Normalize(c Context, ownerID string, raw Raw) (*types.Query, error) {
	rules, ok := rulesByContext[c]
	if !ok {
		return nil, fmt.Errorf("unknown caller context %d", c)
	}

	if strings.TrimSpace(ownerID) == "" {
		return nil, types.ErrMissingOwner
	}

	q := &types.Query{
		OwnerID: ownerID,
		Text:    strings.TrimSpace(raw.Text),
	}

	q.Tags = splitList(raw.Tags)

	// Unknown type values are dropped silently: a malformed type in a
	// shared link must not break the whole query
	for _, entry := range splitList(raw.Types) {
		if t, ok := types.ParseBookmarkType(entry); ok && !containsType(q.Types, t) {
			q.Types = append(q.Types, t)
		}
	}

	if rules.allowSpecial {
		for _, entry := range splitList(raw.SpecialFilters) {
			if f, ok := types.ParseSpecialFilter(entry); ok && !containsFilter(q.SpecialFilters, f) {
				q.SpecialFilters = append(q.SpecialFilters, f)
			}
		}
	}

	limit, err := normalizeLimit(raw.Limit, rules)
	if err != nil {
		return nil, err
	}
	q.Limit = limit

	q.Threshold = normalizeThreshold(raw.Threshold, rules)

	if raw.Cursor != "" {
		id, err := types.DecodeCursor(raw.Cursor)
		if err != nil {
			return nil, err
		}
		q.Cursor = id
	}

	return q, nil
}

// normalizeLimit applies the context's page size rules. Strict surfaces
// reject out-of-range values; lenient ones clamp.
func normalizeLimit(limit int, rules contextRules) (int, error) {
	if limit == 0 {
		return rules.defaultLimit, nil
	}
	if limit < 1 || limit > rules.maxLimit {
		if rules.strictLimit {
			return 0, fmt.Errorf("%w: limit %d outside [1, %d]", types.ErrInvalidLimit, limit, rules.maxLimit)
		}
		if limit < 1 {
			return rules.defaultLimit, nil
		}
		return rules.maxLimit, nil
	}
	return limit, nil
}

// normalizeThreshold clamps the semantic distance cutoff into
// (minThreshold, maxThreshold], defaulting per caller context
func normalizeThreshold(threshold float64, rules contextRules) float64 {
	if threshold == 0 {
		return rules.defaultThreshold
	}
	if threshold < minThreshold {
		return minThreshold
	}
	if threshold > maxThreshold {
		return maxThreshold
	}
	return threshold
}

// splitList flattens comma-joined entries, trims whitespace, and drops
// empties
func splitList(entries []string) []string {
	out := make([]string, 0, len(entries))
	seen := make(map[string]struct{})
	for _, entry := range entries {
		for _, part := range strings.Split(entry, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			key := strings.ToLower(part)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, part)
		}
	}
	return out
}

func containsType(list []types.BookmarkType, t types.BookmarkType) bool {
	for _, v := range list {
		if v == t {
			return true
		}
	}
	return false
}

func containsFilter(list []types.SpecialFilter, f types.SpecialFilter) bool {
	for _, v := range list {
		if v == f {
			return true
		}
	}
	return false
}
