package ingest

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"nagctl/internal/domain"
)

const (
	maxLineSize        = 1 << 20
	maxPooledLineBytes = 64 << 10
)

// ObjectKind is the type named in a "define TYPE {" header.
type ObjectKind string

const (
	KindHost      ObjectKind = "host"
	KindService   ObjectKind = "service"
	KindHostgroup ObjectKind = "hostgroup"
)

// Block is one decoded object definition.
type Block struct {
	Kind   ObjectKind
	Params domain.Params
}

var defineHeader = regexp.MustCompile(`^define\s+(\S+?)\s*\{$`)

var lineBufferPool = sync.Pool{
	New: func() any {
		buf := make([]byte, 0, 4096)
		return &buf
	},
}

// DecodeObjects splits Nagios object config into host, service and hostgroup blocks.
// Params: reader with object definitions.
// Returns: blocks in file order; other object kinds are dropped.
func DecodeObjects(reader io.Reader) ([]Block, error) {
	buf := acquireLineBuffer()
	defer releaseLineBuffer(buf)

	scanner := bufio.NewScanner(reader)
	scanner.Buffer((*buf)[:0], maxLineSize)

	var (
		blocks  []Block
		current *Block
		inside  bool
	)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if match := defineHeader.FindStringSubmatch(line); match != nil {
			inside = true
			current = nil
			switch kind := ObjectKind(match[1]); kind {
			case KindHost, KindService, KindHostgroup:
				current = &Block{Kind: kind, Params: domain.Params{}}
			}
			continue
		}
		if line == "}" {
			if current != nil {
				blocks = append(blocks, *current)
			}
			current = nil
			inside = false
			continue
		}
		if !inside || current == nil || isComment(line) {
			continue
		}
		if key, value, ok := splitDirective(line); ok {
			current.Params[key] = value
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan objects: %w", err)
	}
	return blocks, nil
}

// splitDirective splits a trimmed line once on whitespace.
// Params: trimmed directive line.
// Returns: key, value and false when the line has no value.
func splitDirective(line string) (string, string, bool) {
	idx := strings.IndexFunc(line, unicode.IsSpace)
	if idx < 0 {
		return "", "", false
	}
	value := strings.TrimLeftFunc(line[idx:], unicode.IsSpace)
	if value == "" {
		return "", "", false
	}
	return line[:idx], value, true
}

func isComment(line string) bool {
	return strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";")
}

func acquireLineBuffer() *[]byte {
	return lineBufferPool.Get().(*[]byte)
}

func releaseLineBuffer(buf *[]byte) {
	if buf == nil {
		return
	}
	if cap(*buf) > maxPooledLineBytes {
		fresh := make([]byte, 0, 4096)
		*buf = fresh
	} else {
		*buf = (*buf)[:0]
	}
	lineBufferPool.Put(buf)
}

// ObjectSink receives decoded blocks in registration order.
type ObjectSink interface {
	Push(block Block) error
}

// pushBlocks forwards blocks to sink in order.
// Params: sink and decoded blocks.
// Returns: first push error or nil.
func pushBlocks(sink ObjectSink, blocks []Block) error {
	for _, block := range blocks {
		if err := sink.Push(block); err != nil {
			return err
		}
	}
	return nil
}
