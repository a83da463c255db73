// Copyright (c) Microsoft. All rights reserved.

package alltools

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// errMismatchedBracket is returned by [DecodePartial] for input whose closing
// brackets do not match the open ones. Truncation never produces it.
var errMismatchedBracket = errors.New("mismatched closing bracket")

const hexDigits = "0123456789abcdef"

// DecodePartial decodes JSON that may have been cut off mid-stream.
//
// Complete input decodes as [json.Unmarshal] would, except that raw control
// characters inside strings are accepted. Truncated input is completed by
// closing an open string and every open array or object; if the result still
// does not decode, the text is cut back to the last complete value. The
// returned value is the best-effort prefix, e.g.
//
//	{"input": "print(1   ->  map[input:print(1]
//	{"a": 1, "b": [2,    ->  map[a:1 b:[2]]
//
// An error is returned only for structurally invalid input: a closing bracket
// that does not match, or text with no decodable prefix at all.
func DecodePartial(s string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err == nil {
		return v, nil
	}

	p := partialScanner{buf: make([]byte, 0, len(s)+8), top: -1}
	if err := p.scan(s); err != nil {
		return nil, err
	}

	tail := append([]byte(nil), p.buf...)
	switch {
	case p.inString && p.inKey:
		tail = nil
	case p.inString:
		if p.escStart >= 0 {
			tail = tail[:p.escStart]
		}
		tail = append(tail, '"')
	}
	if tail != nil {
		if v, ok := decodeCandidate(tail, p.suffix(p.top)); ok {
			return v, nil
		}
		// A number cut off after its sign, point or exponent marker.
		if !p.inString {
			trimmed := strings.TrimRight(string(tail), ".eE+-")
			if len(trimmed) < len(tail) {
				if v, ok := decodeCandidate([]byte(trimmed), p.suffix(p.top)); ok {
					return v, nil
				}
			}
		}
	}

	for i := len(p.checkpoints) - 1; i >= 0; i-- {
		cp := p.checkpoints[i]
		if v, ok := decodeCandidate(p.buf[:cp.pos], p.suffix(cp.top)); ok {
			return v, nil
		}
	}

	// Nothing decodable; report the error for the original text.
	err := json.Unmarshal([]byte(s), &v)
	if strings.TrimSpace(s) == "" {
		err = errors.New("empty input")
	}
	return nil, err
}

func decodeCandidate(head, suffix []byte) (any, bool) {
	candidate := make([]byte, 0, len(head)+len(suffix))
	candidate = append(append(candidate, head...), suffix...)
	var v any
	if err := json.Unmarshal(candidate, &v); err != nil {
		return nil, false
	}
	return v, true
}

// bracketNode is one entry of a persistent stack of open containers, so a
// checkpoint can keep the stack as it was with a single index.
type bracketNode struct {
	closer byte
	parent int
}

// checkpoint marks a buffer length at which every value written so far is
// complete and the open containers are those reachable from top.
type checkpoint struct {
	pos int
	top int
}

type partialScanner struct {
	buf         []byte
	nodes       []bracketNode
	top         int
	wantKey     []bool
	checkpoints []checkpoint

	inString bool
	inKey    bool
	escStart int // buffer offset of an unfinished escape, or -1
	hexLeft  int
}

func (p *partialScanner) mark() {
	p.checkpoints = append(p.checkpoints, checkpoint{pos: len(p.buf), top: p.top})
}

func (p *partialScanner) inObject() bool {
	return p.top >= 0 && p.nodes[p.top].closer == '}'
}

func (p *partialScanner) scan(s string) error {
	p.escStart = -1
	for i := 0; i < len(s); i++ {
		c := s[i]
		if p.inString {
			p.scanString(c)
			continue
		}
		switch c {
		case '"':
			p.inString = true
			p.inKey = p.inObject() && p.wantKey[len(p.wantKey)-1]
			p.escStart = -1
		case '{', '[':
			closer := byte('}')
			if c == '[' {
				closer = ']'
			}
			p.nodes = append(p.nodes, bracketNode{closer: closer, parent: p.top})
			p.top = len(p.nodes) - 1
			p.wantKey = append(p.wantKey, c == '{')
			p.buf = append(p.buf, c)
			p.mark()
			continue
		case '}', ']':
			if p.top < 0 || p.nodes[p.top].closer != c {
				return fmt.Errorf("%w at offset %d", errMismatchedBracket, i)
			}
			p.top = p.nodes[p.top].parent
			p.wantKey = p.wantKey[:len(p.wantKey)-1]
			p.buf = append(p.buf, c)
			p.mark()
			continue
		case ',':
			p.mark()
			if p.inObject() {
				p.wantKey[len(p.wantKey)-1] = true
			}
		case ':':
			if p.inObject() {
				p.wantKey[len(p.wantKey)-1] = false
			}
		}
		p.buf = append(p.buf, c)
	}
	return nil
}

func (p *partialScanner) scanString(c byte) {
	switch {
	case p.hexLeft > 0:
		p.hexLeft--
		if p.hexLeft == 0 {
			p.escStart = -1
		}
	case p.escStart >= 0:
		if c == 'u' {
			p.hexLeft = 4
		} else {
			p.escStart = -1
		}
	case c == '\\':
		p.escStart = len(p.buf)
	case c == '"':
		p.inString = false
		p.buf = append(p.buf, c)
		if !p.inKey {
			p.mark()
		}
		return
	}
	if c < 0x20 {
		p.buf = appendControl(p.buf, c)
		return
	}
	p.buf = append(p.buf, c)
}

func appendControl(buf []byte, c byte) []byte {
	switch c {
	case '\n':
		return append(buf, '\\', 'n')
	case '\t':
		return append(buf, '\\', 't')
	case '\r':
		return append(buf, '\\', 'r')
	case '\b':
		return append(buf, '\\', 'b')
	case '\f':
		return append(buf, '\\', 'f')
	}
	return append(buf, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xf])
}

func (p *partialScanner) suffix(top int) []byte {
	var out []byte
	for n := top; n >= 0; n = p.nodes[n].parent {
		out = append(out, p.nodes[n].closer)
	}
	return out
}
