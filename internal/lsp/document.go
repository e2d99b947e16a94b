package lsp

import (
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/leapstack-labs/jacl/pkg/core"
	"github.com/leapstack-labs/jacl/pkg/parser"
	"github.com/leapstack-labs/jacl/pkg/token"
)

// Document represents an open text document in the editor.
type Document struct {
	URI     string // Document URI (file:///path/to/file.jacl)
	Content string // Full document content
	Version int    // Version number, incremented on each change
	Lines   []int  // Byte offsets of line starts for fast position lookups

	// Analysis of Content, refreshed on every change.
	Tokens []token.Token
	Root   *core.Struct // nil when Errors is not empty
	Errors []*parser.Error
}

// analyze lexes and parses the document content.
func (d *Document) analyze() {
	_, tokens, lexErrs := parser.Lex(d.Content)
	d.Tokens = tokens
	d.Root = nil
	d.Errors = nil
	if len(lexErrs) > 0 {
		d.Errors = lexErrs
		return
	}
	root, err := parser.NewParser(tokens).ParseDocument()
	if err != nil {
		d.Errors = []*parser.Error{err}
		return
	}
	d.Root = root
}

// DocumentStore manages open documents in memory.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]*Document
}

// NewDocumentStore creates a new document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]*Document),
	}
}

// Open adds or replaces a document in the store.
func (s *DocumentStore) Open(uri string, content string, version int) *Document {
	doc := newDocument(uri, content, version)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[uri] = doc
	return doc
}

// Close removes a document from the store.
func (s *DocumentStore) Close(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.documents, uri)
}

// Get retrieves a document by URI.
func (s *DocumentStore) Get(uri string) *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.documents[uri]
}

// Update replaces the content of an open document. Documents are immutable
// once published so readers holding the old one are unaffected.
func (s *DocumentStore) Update(uri string, content string, version int) *Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.documents[uri]; !ok {
		return nil
	}
	doc := newDocument(uri, content, version)
	s.documents[uri] = doc
	return doc
}

// List returns all open document URIs.
func (s *DocumentStore) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	uris := make([]string, 0, len(s.documents))
	for uri := range s.documents {
		uris = append(uris, uri)
	}
	return uris
}

func newDocument(uri, content string, version int) *Document {
	doc := &Document{
		URI:     uri,
		Content: content,
		Version: version,
		Lines:   computeLineOffsets(content),
	}
	doc.analyze()
	return doc
}

// computeLineOffsets calculates byte offsets for each line start.
func computeLineOffsets(content string) []int {
	offsets := []int{0} // First line starts at offset 0

	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			offsets = append(offsets, i+1)
		}
	}

	return offsets
}

// PositionToOffset converts a Position to a byte offset in the document.
// Characters are counted in runes, matching token columns.
func (d *Document) PositionToOffset(pos Position) int {
	if d == nil || len(d.Lines) == 0 {
		return 0
	}

	line := int(pos.Line)
	if line >= len(d.Lines) {
		return len(d.Content)
	}

	offset := d.Lines[line]
	for n := uint32(0); n < pos.Character && offset < len(d.Content); n++ {
		if d.Content[offset] == '\n' {
			break
		}
		_, width := utf8.DecodeRuneInString(d.Content[offset:])
		offset += width
	}
	return offset
}

// OffsetToPosition converts a byte offset to a Position.
func (d *Document) OffsetToPosition(offset int) Position {
	if d == nil || len(d.Lines) == 0 {
		return Position{}
	}

	if offset < 0 {
		offset = 0
	}
	if offset > len(d.Content) {
		offset = len(d.Content)
	}

	line := 0
	for i, lineOffset := range d.Lines {
		if lineOffset > offset {
			break
		}
		line = i
	}

	character := utf8.RuneCountInString(d.Content[d.Lines[line]:offset])
	return Position{
		Line:      uint32(line),      //nolint:gosec // G115: line is always non-negative
		Character: uint32(character), //nolint:gosec // G115: character is always non-negative
	}
}

// GetLine returns the content of a specific line.
func (d *Document) GetLine(line int) string {
	if d == nil || line < 0 || line >= len(d.Lines) {
		return ""
	}

	start := d.Lines[line]
	end := len(d.Content)

	if line+1 < len(d.Lines) {
		end = d.Lines[line+1] - 1 // Exclude newline
		if end < start {
			end = start
		}
	}

	return strings.TrimSuffix(d.Content[start:end], "\r")
}

// TokenAt returns the index of the token covering pos, or -1.
// Break tokens are never returned.
func (d *Document) TokenAt(pos Position) int {
	if d == nil {
		return -1
	}
	offset := d.PositionToOffset(pos)
	for i, tok := range d.Tokens {
		if tok.Type == token.BREAK {
			continue
		}
		if tok.Pos.Offset <= offset && offset < tok.End {
			return i
		}
		if tok.Pos.Offset > offset {
			break
		}
	}
	return -1
}

// tokenRange converts a token to an LSP range.
func tokenRange(tok token.Token) Range {
	start := Position{
		Line:      uint32(max(0, tok.Pos.Line-1)),   //nolint:gosec // G115: line is always non-negative
		Character: uint32(max(0, tok.Pos.Column-1)), //nolint:gosec // G115: column is always non-negative
	}
	end := start
	end.Character += uint32(max(0, tok.Len)) //nolint:gosec // G115: length is always non-negative
	return Range{Start: start, End: end}
}

// URIToPath converts a file:// URI to a file system path.
func URIToPath(uri string) string {
	const prefix = "file://"
	if strings.HasPrefix(uri, prefix) {
		return uri[len(prefix):]
	}
	return uri
}

// PathToURI converts a file system path to a file:// URI.
func PathToURI(path string) string {
	if strings.HasPrefix(path, "file://") {
		return path
	}
	return "file://" + path
}
