package parser

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/palvalidator/core/internal/pal/ast"
	"github.com/palvalidator/core/internal/pal/component"
	"github.com/palvalidator/core/internal/pal/condition"
	"github.com/palvalidator/core/internal/pal/pattern"
)

// parser turns a token stream from Lexer into PriceActionLabPattern
// instances. One parser instance consumes an entire source file, which may
// contain any number of back-to-back pattern blocks.
type parser struct {
	lex        *Lexer
	sourceName string
	factory    *ast.Factory
	tok        Token
}

func newParser(factory *ast.Factory, sourceName, src string) *parser {
	p := &parser{lex: NewLexer(src), sourceName: sourceName, factory: factory}
	p.tok = p.lex.Next()
	return p
}

func (p *parser) advance() Token {
	cur := p.tok
	p.tok = p.lex.Next()
	return cur
}

func (p *parser) expectWord(want string) (Token, error) {
	if p.tok.Kind != TokWord || !strings.EqualFold(p.tok.Text, want) {
		return Token{}, &SyntaxError{Line: p.tok.Line, Detail: fmt.Sprintf("expected %q, got %s", want, p.tok)}
	}
	return p.advance(), nil
}

func (p *parser) expectKind(kind TokenKind, what string) (Token, error) {
	if p.tok.Kind != kind {
		return Token{}, &SyntaxError{Line: p.tok.Line, Detail: fmt.Sprintf("expected %s, got %s", what, p.tok)}
	}
	return p.advance(), nil
}

// parsePatternBlock parses one header+IF+THEN block. done is true once the
// input is exhausted with no further block to parse.
func (p *parser) parsePatternBlock() (pat *pattern.PriceActionLabPattern, done bool, err error) {
	if p.tok.Kind == TokEOF {
		return nil, true, nil
	}

	desc, volatility, portfolio, err := p.parseHeader()
	if err != nil {
		return nil, false, err
	}

	conditions, err := p.parseIfClause()
	if err != nil {
		return nil, false, err
	}

	entry, profitTarget, stopLoss, err := p.parseThenClause()
	if err != nil {
		return nil, false, err
	}

	expr, err := ast.FromConjunction(p.factory, conditions)
	if err != nil {
		return nil, false, &SyntaxError{Line: p.tok.Line, Detail: err.Error()}
	}

	if desc.SourceFile == "" {
		desc.SourceFile = p.sourceName
	}
	built := pattern.New(desc, expr, entry, profitTarget, stopLoss, volatility, portfolio)
	return built, false, nil
}

// parseHeader consumes a `{ File: ... Index: ... Index Date: ... PL: ...
// PS: ... TRADES: ... CL: ... [VOLATILITY: ...] [PORTFOLIO: ...] }` block.
func (p *parser) parseHeader() (pattern.Description, ast.Volatility, pattern.PortfolioAttribute, error) {
	var desc pattern.Description
	volatility := ast.VolatilityNone
	portfolio := pattern.PortfolioNone

	if _, err := p.expectKind(TokLBrace, "'{'"); err != nil {
		return desc, volatility, portfolio, err
	}

	for p.tok.Kind != TokRBrace {
		if p.tok.Kind != TokWord {
			return desc, volatility, portfolio, &SyntaxError{Line: p.tok.Line, Detail: fmt.Sprintf("expected header key, got %s", p.tok)}
		}
		key := strings.ToUpper(p.advance().Text)

		switch key {
		case "FILE":
			if _, err := p.expectKind(TokColon, "':'"); err != nil {
				return desc, volatility, portfolio, err
			}
			tok, err := p.expectKind(TokWord, "file name")
			if err != nil {
				return desc, volatility, portfolio, err
			}
			desc.SourceFile = tok.Text

		case "INDEX":
			if p.tok.Kind == TokWord && strings.EqualFold(p.tok.Text, "Date") {
				p.advance()
				if _, err := p.expectKind(TokColon, "':'"); err != nil {
					return desc, volatility, portfolio, err
				}
				tok, err := p.expectKind(TokWord, "index date")
				if err != nil {
					return desc, volatility, portfolio, err
				}
				desc.IndexDate = parseIndexDate(tok.Text)
				continue
			}
			if _, err := p.expectKind(TokColon, "':'"); err != nil {
				return desc, volatility, portfolio, err
			}
			tok, err := p.expectKind(TokNumber, "pattern index")
			if err != nil {
				return desc, volatility, portfolio, err
			}
			var idx int
			fmt.Sscanf(tok.Text, "%d", &idx)
			desc.PatternIndex = idx

		case "PL":
			value, err := p.expectDecimalField()
			if err != nil {
				return desc, volatility, portfolio, err
			}
			desc.LongPercentage = value

		case "PS":
			value, err := p.expectDecimalField()
			if err != nil {
				return desc, volatility, portfolio, err
			}
			desc.ShortPercentage = value

		case "TRADES":
			tok, err := p.expectNumberField()
			if err != nil {
				return desc, volatility, portfolio, err
			}
			var count int
			fmt.Sscanf(tok, "%d", &count)
			desc.TradeCount = count

		case "CL":
			tok, err := p.expectNumberField()
			if err != nil {
				return desc, volatility, portfolio, err
			}
			var count int
			fmt.Sscanf(tok, "%d", &count)
			desc.ConsecutiveLosses = count

		case "VOLATILITY":
			if _, err := p.expectKind(TokColon, "':'"); err != nil {
				return desc, volatility, portfolio, err
			}
			tok, err := p.expectKind(TokWord, "volatility attribute")
			if err != nil {
				return desc, volatility, portfolio, err
			}
			v, err := parseVolatility(tok.Text)
			if err != nil {
				return desc, volatility, portfolio, &SyntaxError{Line: tok.Line, Detail: err.Error()}
			}
			volatility = v

		case "PORTFOLIO":
			if _, err := p.expectKind(TokColon, "':'"); err != nil {
				return desc, volatility, portfolio, err
			}
			tok, err := p.expectKind(TokWord, "portfolio attribute")
			if err != nil {
				return desc, volatility, portfolio, err
			}
			attr, err := parsePortfolioAttribute(tok.Text)
			if err != nil {
				return desc, volatility, portfolio, &SyntaxError{Line: tok.Line, Detail: err.Error()}
			}
			portfolio = attr

		default:
			return desc, volatility, portfolio, &SyntaxError{Line: p.tok.Line, Detail: fmt.Sprintf("unknown header field %q", key)}
		}
	}

	if _, err := p.expectKind(TokRBrace, "'}'"); err != nil {
		return desc, volatility, portfolio, err
	}
	return desc, volatility, portfolio, nil
}

func (p *parser) expectDecimalField() (decimal.Decimal, error) {
	if _, err := p.expectKind(TokColon, "':'"); err != nil {
		return decimal.Zero, err
	}
	tok, err := p.expectKind(TokNumber, "decimal value")
	if err != nil {
		return decimal.Zero, err
	}
	value, parseErr := decimal.NewFromString(tok.Text)
	if parseErr != nil {
		return decimal.Zero, &SyntaxError{Line: tok.Line, Detail: parseErr.Error()}
	}
	return value, nil
}

func (p *parser) expectNumberField() (string, error) {
	if _, err := p.expectKind(TokColon, "':'"); err != nil {
		return "", err
	}
	tok, err := p.expectKind(TokNumber, "integer value")
	if err != nil {
		return "", err
	}
	return tok.Text, nil
}

// parseIfClause consumes `IF <condition> { AND <condition> }`.
func (p *parser) parseIfClause() ([]condition.Condition, error) {
	if _, err := p.expectWord("IF"); err != nil {
		return nil, err
	}

	var conditions []condition.Condition
	c, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	conditions = append(conditions, c)

	for p.tok.Kind == TokWord && strings.EqualFold(p.tok.Text, "AND") {
		p.advance()
		c, err := p.parseCondition()
		if err != nil {
			return nil, err
		}
		conditions = append(conditions, c)
	}
	return conditions, nil
}

func (p *parser) parseCondition() (condition.Condition, error) {
	lhs, err := p.parseComponentRef()
	if err != nil {
		return condition.Condition{}, err
	}

	var op condition.Operator
	switch p.tok.Kind {
	case TokGreater:
		op = condition.GreaterThan
		p.advance()
	case TokLess:
		op = condition.LessThan
		p.advance()
	default:
		return condition.Condition{}, &SyntaxError{Line: p.tok.Line, Detail: fmt.Sprintf("expected '>' or '<', got %s", p.tok)}
	}

	rhs, err := p.parseComponentRef()
	if err != nil {
		return condition.Condition{}, err
	}
	return condition.New(lhs, op, rhs), nil
}

func (p *parser) parseComponentRef() (component.Descriptor, error) {
	nameTok, err := p.expectKind(TokWord, "price component name")
	if err != nil {
		return component.Descriptor{}, err
	}
	componentType, parseErr := component.ParseType(strings.ToUpper(nameTok.Text))
	if parseErr != nil {
		return component.Descriptor{}, &SyntaxError{Line: nameTok.Line, Detail: parseErr.Error()}
	}

	if _, err := p.expectKind(TokLBracket, "'['"); err != nil {
		return component.Descriptor{}, err
	}
	offsetTok, err := p.expectKind(TokNumber, "bar offset")
	if err != nil {
		return component.Descriptor{}, err
	}
	var offset int
	fmt.Sscanf(offsetTok.Text, "%d", &offset)
	if _, err := p.expectKind(TokRBracket, "']'"); err != nil {
		return component.Descriptor{}, err
	}

	return component.New(componentType, uint8(offset)), nil
}

// parseThenClause consumes `THEN (BUY | SELL SHORT) NEXT BAR ON THE OPEN
// WITH PROFIT TARGET AT <n> % AND STOP LOSS AT <n> %`.
func (p *parser) parseThenClause() (*ast.MarketEntryExpression, *ast.ProfitTargetInPercentExpression, *ast.StopLossInPercentExpression, error) {
	if _, err := p.expectWord("THEN"); err != nil {
		return nil, nil, nil, err
	}

	var side ast.Side
	switch {
	case p.tok.Kind == TokWord && strings.EqualFold(p.tok.Text, "BUY"):
		p.advance()
		side = ast.Long
	case p.tok.Kind == TokWord && strings.EqualFold(p.tok.Text, "SELL"):
		p.advance()
		if _, err := p.expectWord("SHORT"); err != nil {
			return nil, nil, nil, err
		}
		side = ast.Short
	default:
		return nil, nil, nil, &SyntaxError{Line: p.tok.Line, Detail: fmt.Sprintf("expected BUY or SELL, got %s", p.tok)}
	}

	for _, kw := range []string{"NEXT", "BAR", "ON", "THE", "OPEN", "WITH", "PROFIT", "TARGET", "AT"} {
		if _, err := p.expectWord(kw); err != nil {
			return nil, nil, nil, err
		}
	}
	profitTok, err := p.expectKind(TokNumber, "profit target percentage")
	if err != nil {
		return nil, nil, nil, err
	}
	if _, err := p.expectKind(TokPercent, "'%'"); err != nil {
		return nil, nil, nil, err
	}
	profitValue, parseErr := decimal.NewFromString(profitTok.Text)
	if parseErr != nil {
		return nil, nil, nil, &SyntaxError{Line: profitTok.Line, Detail: parseErr.Error()}
	}

	for _, kw := range []string{"AND", "STOP", "LOSS", "AT"} {
		if _, err := p.expectWord(kw); err != nil {
			return nil, nil, nil, err
		}
	}
	stopTok, err := p.expectKind(TokNumber, "stop loss percentage")
	if err != nil {
		return nil, nil, nil, err
	}
	if _, err := p.expectKind(TokPercent, "'%'"); err != nil {
		return nil, nil, nil, err
	}
	stopValue, parseErr := decimal.NewFromString(stopTok.Text)
	if parseErr != nil {
		return nil, nil, nil, &SyntaxError{Line: stopTok.Line, Detail: parseErr.Error()}
	}

	var entry *ast.MarketEntryExpression
	if side == ast.Long {
		entry = p.factory.GetLongEntry()
	} else {
		entry = p.factory.GetShortEntry()
	}
	return entry, p.factory.GetProfitTarget(side, profitValue), p.factory.GetStopLoss(side, stopValue), nil
}

func parseIndexDate(text string) time.Time {
	for _, layout := range []string{"01/02/2006", "2006-01-02"} {
		if t, err := time.Parse(layout, text); err == nil {
			return t
		}
	}
	return time.Time{}
}

func parseVolatility(text string) (ast.Volatility, error) {
	switch strings.ToUpper(text) {
	case "NONE":
		return ast.VolatilityNone, nil
	case "LOW":
		return ast.VolatilityLow, nil
	case "NORMAL":
		return ast.VolatilityNormal, nil
	case "HIGH":
		return ast.VolatilityHigh, nil
	case "VERYHIGH", "VERY_HIGH":
		return ast.VolatilityVeryHigh, nil
	default:
		return ast.VolatilityNone, fmt.Errorf("parser: unknown volatility attribute %q", text)
	}
}

func parsePortfolioAttribute(text string) (pattern.PortfolioAttribute, error) {
	switch strings.ToUpper(text) {
	case "NONE":
		return pattern.PortfolioNone, nil
	case "LONG":
		return pattern.PortfolioLong, nil
	case "SHORT":
		return pattern.PortfolioShort, nil
	default:
		return pattern.PortfolioNone, fmt.Errorf("parser: unknown portfolio attribute %q", text)
	}
}
