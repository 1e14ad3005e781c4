package server

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/redcon"

	"github.com/crimson-sun/industry-codes/internal/engine"
)

type cmdHandler func(eng *engine.Engine, args [][]byte) (any, error)

var supportedCommands = map[string]cmdHandler{
	"find":       find,
	"mfind":      mfind,
	"categories": categories,
	"category":   category,
	"count":      count,
}

func newWrongNumberOfArgsError(cmd string) error {
	return fmt.Errorf("ERR wrong number of arguments for '%s' command", cmd)
}

// find: FIND <query> [TOP n] [FIELD label|hierarchy|both]
// Replies with one JSON-encoded match per array element.
func find(eng *engine.Engine, args [][]byte) (any, error) {
	if len(args) < 1 || len(args)%2 != 1 {
		return nil, newWrongNumberOfArgsError("find")
	}
	query := string(args[0])
	topN, field := 1, engine.FieldLabel

	for i := 1; i < len(args); i += 2 {
		opt, val := strings.ToLower(string(args[i])), string(args[i+1])
		switch opt {
		case "top":
			n, err := strconv.Atoi(val)
			if err != nil {
				return nil, fmt.Errorf("ERR value is not an integer: %q", val)
			}
			topN = n
		case "field":
			f, err := engine.ParseSearchField(val)
			if err != nil {
				return nil, err
			}
			field = f
		default:
			return nil, fmt.Errorf("ERR syntax error near '%s'", opt)
		}
	}

	matches, err := eng.FindClosest(query, topN, field)
	if err != nil {
		return nil, err
	}
	return encodeAll(matches)
}

// mfind: MFIND <field> <top> <q1> [q2 ...]
// Replies with one array per query. A query that fails carries an error
// reply in its own slot.
func mfind(eng *engine.Engine, args [][]byte) (any, error) {
	if len(args) < 3 {
		return nil, newWrongNumberOfArgsError("mfind")
	}
	field := string(args[0])
	topN, err := strconv.Atoi(string(args[1]))
	if err != nil {
		return nil, fmt.Errorf("ERR value is not an integer: %q", args[1])
	}

	queries := make([]engine.Query, len(args)-2)
	for i, q := range args[2:] {
		queries[i] = engine.Query{Text: string(q), TopN: topN, Field: field}
	}

	results := eng.Search(queries)
	reply := make([]any, len(results))
	for i, r := range results {
		if r.Err != nil {
			reply[i] = fmt.Errorf("ERR %w", r.Err)
			continue
		}
		enc, err := encodeAll(r.Matches)
		if err != nil {
			return nil, err
		}
		reply[i] = enc
	}
	return reply, nil
}

// categories: CATEGORIES
func categories(eng *engine.Engine, args [][]byte) (any, error) {
	if len(args) != 0 {
		return nil, newWrongNumberOfArgsError("categories")
	}
	return eng.Categories(), nil
}

// category: CATEGORY <name>
// Replies with one JSON-encoded record per array element.
func category(eng *engine.Engine, args [][]byte) (any, error) {
	if len(args) != 1 {
		return nil, newWrongNumberOfArgsError("category")
	}
	return encodeAll(eng.FindByCategory(string(args[0])))
}

// count: COUNT
func count(eng *engine.Engine, args [][]byte) (any, error) {
	if len(args) != 0 {
		return nil, newWrongNumberOfArgsError("count")
	}
	return redcon.SimpleInt(eng.Catalog().Len()), nil
}

// encodeAll JSON-encodes each element as a bulk string.
func encodeAll[T any](items []T) ([]string, error) {
	out := make([]string, len(items))
	for i, it := range items {
		data, err := json.Marshal(it)
		if err != nil {
			return nil, fmt.Errorf("ERR encode: %w", err)
		}
		out[i] = string(data)
	}
	return out, nil
}
