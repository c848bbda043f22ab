package parser

import (
	"github.com/roach88/partiqlgo/value"
)

// ParseValue parses the PartiQL IR literal-value form: objects
// `{ 'k': v, ... }`, arrays `[ v, ... ]`, bags `<< v, ... >>`,
// single-quoted strings, bare numbers, and the keywords
// `null` / `missing`.
func ParseValue(src []byte) (value.Value, error) {
	p, err := newParser(src)
	if err != nil {
		return nil, err
	}
	v, err := p.parseLiteralValue()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tEOF {
		return nil, p.errorf("unexpected trailing input %q", p.tok.text)
	}
	return v, nil
}

func (p *Parser) parseLiteralValue() (value.Value, error) {
	switch {
	case p.tok.kind == tNumber:
		n := p.tok.num
		if err := p.advance(); err != nil {
			return nil, err
		}
		return value.Number(n), nil
	case p.tok.kind == tString:
		s := p.tok.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		return value.String(s), nil
	case p.atKeyword("null"):
		if err := p.advance(); err != nil {
			return nil, err
		}
		return value.Null{}, nil
	case p.atKeyword("missing"):
		if err := p.advance(); err != nil {
			return nil, err
		}
		return value.Missing{}, nil
	case p.atKeyword("true"):
		if err := p.advance(); err != nil {
			return nil, err
		}
		return value.Bool(true), nil
	case p.atKeyword("false"):
		if err := p.advance(); err != nil {
			return nil, err
		}
		return value.Bool(false), nil
	case p.atPunct("["):
		return p.parseArrayLiteral()
	case p.atPunct("<<"):
		return p.parseBagLiteral()
	case p.atPunct("{"):
		return p.parseObjectLiteral()
	case p.atPunct("-"):
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.tok.kind != tNumber {
			return nil, p.errorf("expected number after unary '-', got %q", p.tok.text)
		}
		n := -p.tok.num
		if err := p.advance(); err != nil {
			return nil, err
		}
		return value.Number(n), nil
	default:
		return nil, p.errorf("unexpected token %q while parsing value literal", p.tok.text)
	}
}

func (p *Parser) parseArrayLiteral() (value.Value, error) {
	if err := p.expectPunct("["); err != nil {
		return nil, err
	}
	var elems []value.Value
	for !p.atPunct("]") {
		v, err := p.parseLiteralValue()
		if err != nil {
			return nil, err
		}
		elems = append(elems, v)
		if p.atPunct(",") {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	if err := p.expectPunct("]"); err != nil {
		return nil, err
	}
	return value.Array(elems), nil
}

func (p *Parser) parseBagLiteral() (value.Value, error) {
	if err := p.expectPunct("<<"); err != nil {
		return nil, err
	}
	var elems []value.Value
	for !p.atPunct(">>") {
		v, err := p.parseLiteralValue()
		if err != nil {
			return nil, err
		}
		elems = append(elems, v)
		if p.atPunct(",") {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	if err := p.expectPunct(">>"); err != nil {
		return nil, err
	}
	return value.Bag(elems), nil
}

func (p *Parser) parseObjectLiteral() (value.Value, error) {
	if err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	var obj value.Object
	for !p.atPunct("}") {
		if p.tok.kind != tString {
			return nil, p.errorf("expected quoted object key, got %q", p.tok.text)
		}
		key := p.tok.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.expectPunct(":"); err != nil {
			return nil, err
		}
		v, err := p.parseLiteralValue()
		if err != nil {
			return nil, err
		}
		obj = obj.Set(key, v)
		if p.atPunct(",") {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	if err := p.expectPunct("}"); err != nil {
		return nil, err
	}
	return obj, nil
}
