package parser

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"unsafe"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/sveltedoc/pkg/util"
)

var errPoolClosed = errors.New("parser pool closed")

// poolLimit is the number of parsers kept per grammar. It equals the
// scanner's default worker count so a worker never waits on a parser.
func poolLimit() int {
	return util.GetOptimalPoolSize()
}

// parserPool hands out tree-sitter parsers for one grammar.
//
// At most cap(slots) parsers exist at a time; acquire blocks until a slot
// frees up. Released parsers are reset and kept on an idle stack.
type parserPool struct {
	lang    Language
	grammar *ts.Language
	slots   chan struct{}
	logger  *slog.Logger

	mu      sync.Mutex
	idle    []*ts.Parser
	created int
	closed  bool
}

func newParserPool(lang Language, langPtr unsafe.Pointer, limit int, logger *slog.Logger) *parserPool {
	return &parserPool{
		lang:    lang,
		grammar: ts.NewLanguage(langPtr),
		slots:   make(chan struct{}, limit),
		logger:  logger,
	}
}

// acquire takes a slot and returns an idle parser or a new one.
func (p *parserPool) acquire() (*ts.Parser, error) {
	p.slots <- struct{}{}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		<-p.slots
		return nil, errPoolClosed
	}
	if n := len(p.idle); n > 0 {
		parser := p.idle[n-1]
		p.idle = p.idle[:n-1]
		p.mu.Unlock()
		return parser, nil
	}
	p.created++
	created := p.created
	p.mu.Unlock()

	parser := ts.NewParser()
	if err := parser.SetLanguage(p.grammar); err != nil {
		parser.Close()
		p.mu.Lock()
		p.created--
		p.mu.Unlock()
		<-p.slots
		return nil, fmt.Errorf("failed to set %s grammar: %w", p.lang, err)
	}

	p.logger.Debug("created parser", "language", p.lang.String(), "parsers", created)
	return parser, nil
}

// release resets parser and frees its slot. Parsers released after close
// are closed instead of kept.
func (p *parserPool) release(parser *ts.Parser) {
	if parser == nil {
		return
	}
	parser.Reset()

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		parser.Close()
	} else {
		p.idle = append(p.idle, parser)
		p.mu.Unlock()
	}
	<-p.slots
}

// close frees the idle parsers. Parsers still checked out are freed on
// release.
func (p *parserPool) close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true
	for _, parser := range p.idle {
		parser.Close()
	}
	p.logger.Debug("closed parser pool",
		"language", p.lang.String(),
		"parsers_closed", len(p.idle))
	p.idle = nil
}

// counts returns the parsers created so far and how many are idle.
func (p *parserPool) counts() (created, idle int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.created, len(p.idle)
}
