// Package scrape builds the catalog from the published LinkedIn industry
// codes reference page.
package scrape

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/crimson-sun/industry-codes/internal/httpclient"
	"github.com/crimson-sun/industry-codes/internal/loader"
	"github.com/crimson-sun/industry-codes/internal/model"
)

const (
	// Source is the registry name of this loader.
	Source = "scrape"

	// DefaultURL is the Microsoft reference table for industry codes v2.
	DefaultURL = "https://learn.microsoft.com/en-us/linkedin/shared/references/reference-tables/industry-codes-v2"

	defaultTimeout = 30 * time.Second
)

// Column headers recognised in a reference table.
const (
	colID          = "Industry ID"
	colLabel       = "Label"
	colHierarchy   = "Hierarchy"
	colDescription = "Description"
)

func init() {
	loader.Register(Source, func(cfg loader.Config) (loader.Loader, error) {
		l, err := New(cfg.URL, cfg.Timeout)
		if err != nil {
			return nil, err
		}
		return l, nil
	})
}

// Loader downloads the reference page and extracts every industry table.
type Loader struct {
	rawURL string
	path   string
	client *httpclient.Client
	now    func() time.Time
}

// New creates a Loader for rawURL (DefaultURL when empty).
func New(rawURL string, timeout time.Duration) (*Loader, error) {
	if rawURL == "" {
		rawURL = DefaultURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("scrape source: invalid url %q", rawURL)
	}
	path := u.EscapedPath()
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return &Loader{
		rawURL: rawURL,
		path:   path,
		client: httpclient.New(u.Scheme+"://"+u.Host, httpclient.WithTimeout(timeout)),
		now:    time.Now,
	}, nil
}

// Load fetches the page and returns the records sorted by id.
func (l *Loader) Load(ctx context.Context) (*model.Document, error) {
	body, err := l.client.Get(ctx, l.path, nil)
	if err != nil {
		return nil, fmt.Errorf("scrape source: fetch %s: %w", l.rawURL, err)
	}
	records, err := Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("scrape source: %w", err)
	}
	slog.Info("catalog scraped", "url", l.rawURL, "industries", len(records))
	return model.NewDocument(records, l.rawURL, l.now().UTC()), nil
}

// Parse extracts records from every table whose header row names both an
// "Industry ID" and a "Label" column. Other tables are ignored. The result
// is sorted by id.
func Parse(r io.Reader) ([]model.Record, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var records []model.Record
	for _, table := range findAll(root, atom.Table) {
		recs, err := parseTable(table)
		if err != nil {
			return nil, err
		}
		records = append(records, recs...)
	}

	slices.SortStableFunc(records, func(a, b model.Record) int {
		return cmp.Compare(a.ID, b.ID)
	})
	if records == nil {
		records = []model.Record{}
	}
	return records, nil
}

func parseTable(table *html.Node) ([]model.Record, error) {
	rows := findAll(table, atom.Tr)
	if len(rows) == 0 {
		return nil, nil
	}

	header := cells(rows[0])
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[h] = i
	}
	idCol, okID := cols[colID]
	labelCol, okLabel := cols[colLabel]
	if !okID || !okLabel {
		return nil, nil
	}

	field := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	var out []model.Record
	for _, tr := range rows[1:] {
		row := cells(tr)
		if len(row) == 0 || len(row) <= max(idCol, labelCol) {
			continue
		}
		id, err := strconv.Atoi(row[idCol])
		if err != nil {
			return nil, fmt.Errorf("table row %q: bad industry id: %w", strings.Join(row, " | "), err)
		}
		out = append(out, model.NewRecord(
			id,
			row[labelCol],
			field(row, colHierarchy),
			field(row, colDescription),
		))
	}
	return out, nil
}

// cells returns the normalized text of each th/td directly under tr.
func cells(tr *html.Node) []string {
	var out []string
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.DataAtom == atom.Th || c.DataAtom == atom.Td) {
			out = append(out, text(c))
		}
	}
	return out
}

// breaking elements separate the text on either side of them; inline
// markup does not.
var breaking = map[atom.Atom]bool{
	atom.Br: true, atom.P: true, atom.Div: true, atom.Li: true,
	atom.Ul: true, atom.Ol: true, atom.Tr: true, atom.Td: true,
	atom.Th: true, atom.H1: true, atom.H2: true, atom.H3: true,
	atom.H4: true, atom.H5: true, atom.H6: true,
}

// text concatenates the text under n and collapses runs of whitespace.
// Text split by inline markup such as <b> or <a> stays joined.
func text(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			return
		}
		brk := n.Type == html.ElementNode && breaking[n.DataAtom]
		if brk {
			sb.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if brk {
			sb.WriteByte(' ')
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}

func findAll(n *html.Node, a atom.Atom) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == a {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}
