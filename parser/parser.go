// Package parser implements Remi's recursive-descent parser: one
// token of look-ahead (peek), precedence climbing for binary
// operators, error-tolerant top-level parsing (a failing statement is
// skipped so later errors can still be reported), and the
// eternal/vow-with-initializer desugaring described in spec.md §4.2.
//
// https://en.wikipedia.org/wiki/Recursive_descent_parser
package parser

import (
	"remi/ast"
	"remi/token"
)

// precedence-climbing operator tables, lowest-binding first:
// equality, relational, additive, multiplicative.
var equalityOps = []token.Kind{token.EQ, token.NEQ}
var relationalOps = []token.Kind{token.LT, token.LE, token.GT, token.GE}
var additiveOps = []token.Kind{token.PLUS, token.MINUS}
var multiplicativeOps = []token.Kind{token.STAR, token.SLASH}

var binOpFor = map[token.Kind]ast.BinOp{
	token.EQ:    ast.Equal,
	token.NEQ:   ast.NotEqual,
	token.LT:    ast.Less,
	token.LE:    ast.LessEqual,
	token.GT:    ast.Greater,
	token.GE:    ast.GreaterEqual,
	token.PLUS:  ast.Add,
	token.MINUS: ast.Sub,
	token.STAR:  ast.Mul,
	token.SLASH: ast.Div,
}

// Parser consumes a fixed token slice with a single cursor; position
// always points at the next token to be consumed (peek).
type Parser struct {
	tokens   []token.Token
	position int
}

// New creates a Parser over a complete token stream, as produced by
// lexer.Scan (the stream must end in a token.EOF).
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

func (p *Parser) peek() token.Token {
	return p.tokens[p.position]
}

func (p *Parser) previous() token.Token {
	return p.tokens[p.position-1]
}

func (p *Parser) atEnd() bool {
	return p.peek().Kind == token.EOF
}

func (p *Parser) advance() token.Token {
	if !p.atEnd() {
		p.position++
	}
	return p.previous()
}

func (p *Parser) check(kind token.Kind) bool {
	if p.atEnd() {
		return kind == token.EOF
	}
	return p.peek().Kind == kind
}

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, kind := range kinds {
		if p.check(kind) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(kind token.Kind) (token.Token, error) {
	if p.check(kind) {
		return p.advance(), nil
	}
	return token.Token{}, newSyntaxError(p.peek(), kind)
}

// Parse parses the entire token stream into a slice of top-level
// statements, continuing past a failing statement (skipping one
// token) so that later syntax errors are still discovered in the
// same pass.
func (p *Parser) Parse() ([]ast.Stmt, []error) {
	var statements []ast.Stmt
	var errs []error

	for !p.atEnd() {
		stmt, err := p.statement()
		if err != nil {
			errs = append(errs, err)
			if !p.atEnd() {
				p.advance()
			}
			continue
		}
		statements = append(statements, stmt...)
	}
	return statements, errs
}

// statement parses a single source statement. It returns a slice
// because eternal/vow declarations with an initializer desugar into
// two statements.
func (p *Parser) statement() ([]ast.Stmt, error) {
	switch {
	case p.match(token.SPELLCARD):
		return p.spellCard()
	case p.match(token.OFFER):
		return p.offer()
	case p.match(token.ETERNAL):
		return p.declaration(false)
	case p.match(token.VOW):
		return p.declaration(true)
	case p.match(token.INVITE):
		return p.invite()
	case p.match(token.FORESEEN):
		return p.foreseen()
	case p.match(token.UNTIL):
		return p.until()
	case p.check(token.IDENT):
		return p.identifierStatement()
	}
	return nil, newSyntaxError(p.peek())
}

// block parses "{ stmt* }", consuming the opening brace itself.
func (p *Parser) block() ([]ast.Stmt, error) {
	if _, err := p.consume(token.LBRACE); err != nil {
		return nil, err
	}
	var stmts []ast.Stmt
	for !p.check(token.RBRACE) && !p.atEnd() {
		s, err := p.statement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s...)
	}
	if _, err := p.consume(token.RBRACE); err != nil {
		return nil, err
	}
	return stmts, nil
}

func (p *Parser) spellCard() ([]ast.Stmt, error) {
	name, err := p.consume(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LPAREN); err != nil {
		return nil, err
	}

	var args []ast.FunctionArg
	if !p.check(token.RPAREN) {
		for {
			argName, err := p.consume(token.IDENT)
			if err != nil {
				return nil, err
			}
			if _, err := p.consume(token.COLON); err != nil {
				return nil, err
			}
			annotation, err := p.consume(token.IDENT)
			if err != nil {
				return nil, err
			}
			args = append(args, ast.FunctionArg{Name: argName.Lexeme, Annotation: annotation.Lexeme})
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	if _, err := p.consume(token.RPAREN); err != nil {
		return nil, err
	}

	returnType, err := p.consume(token.IDENT)
	if err != nil {
		return nil, err
	}

	body, err := p.block()
	if err != nil {
		return nil, err
	}

	return []ast.Stmt{ast.SpellCard{Name: name.Lexeme, Args: args, ReturnType: returnType.Lexeme, Body: body}}, nil
}

func (p *Parser) offer() ([]ast.Stmt, error) {
	if p.match(token.SEMI) {
		return []ast.Stmt{ast.Offer{}}, nil
	}
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.SEMI); err != nil {
		return nil, err
	}
	return []ast.Stmt{ast.Offer{Value: value}}, nil
}

// declaration parses "name (: annotation)? (= expression)? ;" for
// both eternal and vow. A present initializer desugars into a bare
// declaration statement followed by an Assignment statement, per
// spec.md §3/§4.2.
func (p *Parser) declaration(mutable bool) ([]ast.Stmt, error) {
	name, err := p.consume(token.IDENT)
	if err != nil {
		return nil, err
	}

	var annotation string
	if p.match(token.COLON) {
		annotationTok, err := p.consume(token.IDENT)
		if err != nil {
			return nil, err
		}
		annotation = annotationTok.Lexeme
	}

	var decl ast.Stmt
	if mutable {
		decl = ast.Vow{Name: name.Lexeme, Annotation: annotation}
	} else {
		decl = ast.Eternal{Name: name.Lexeme, Annotation: annotation}
	}

	if p.match(token.ASSIGN) {
		value, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.SEMI); err != nil {
			return nil, err
		}
		return []ast.Stmt{decl, ast.Assignment{Name: name.Lexeme, Value: value}}, nil
	}

	if _, err := p.consume(token.SEMI); err != nil {
		return nil, err
	}
	return []ast.Stmt{decl}, nil
}

func (p *Parser) invite() ([]ast.Stmt, error) {
	name, err := p.consume(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.SEMI); err != nil {
		return nil, err
	}
	return []ast.Stmt{ast.Invite{Name: name.Lexeme}}, nil
}

func (p *Parser) foreseen() ([]ast.Stmt, error) {
	condition, err := p.expression()
	if err != nil {
		return nil, err
	}
	thenBody, err := p.block()
	if err != nil {
		return nil, err
	}
	var elseBody []ast.Stmt
	if p.match(token.OTHERWISE) {
		elseBody, err = p.block()
		if err != nil {
			return nil, err
		}
	}
	return []ast.Stmt{ast.Foreseen{Condition: condition, Then: thenBody, Else: elseBody}}, nil
}

func (p *Parser) until() ([]ast.Stmt, error) {
	condition, err := p.expression()
	if err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return []ast.Stmt{ast.Until{Condition: condition, Body: body}}, nil
}

// identifierStatement disambiguates "name(args);" (a call expression
// statement) from "name = expression;" (an assignment) by peeking one
// token past the identifier.
func (p *Parser) identifierStatement() ([]ast.Stmt, error) {
	name := p.advance()

	if p.check(token.LPAREN) {
		call, err := p.finishCall(name.Lexeme)
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.SEMI); err != nil {
			return nil, err
		}
		return []ast.Stmt{ast.ExpressionStmt{Expr: call}}, nil
	}

	if _, err := p.consume(token.ASSIGN); err != nil {
		return nil, err
	}
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.SEMI); err != nil {
		return nil, err
	}
	return []ast.Stmt{ast.Assignment{Name: name.Lexeme, Value: value}}, nil
}

// expression is the entry point for precedence climbing, starting at
// the lowest-binding level (equality).
func (p *Parser) expression() (ast.Expression, error) {
	return p.binary(equalityOps, p.relational)
}

func (p *Parser) relational() (ast.Expression, error) {
	return p.binary(relationalOps, p.additive)
}

func (p *Parser) additive() (ast.Expression, error) {
	return p.binary(additiveOps, p.multiplicative)
}

func (p *Parser) multiplicative() (ast.Expression, error) {
	return p.binary(multiplicativeOps, p.unary)
}

// binary parses a left-associative chain at one precedence level:
// next() parses a single operand at the next-tighter level, and this
// level's operators are consumed in a loop so that "a - b - c" builds
// as "((a - b) - c)".
func (p *Parser) binary(ops []token.Kind, next func() (ast.Expression, error)) (ast.Expression, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	for p.match(ops...) {
		opTok := p.previous()
		right, err := next()
		if err != nil {
			return nil, err
		}
		left = ast.Binary{Op: binOpFor[opTok.Kind], Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) unary() (ast.Expression, error) {
	if p.match(token.BANG) {
		arg, err := p.unary()
		if err != nil {
			return nil, err
		}
		return ast.Unary{Op: ast.Not, Arg: arg}, nil
	}
	return p.primary()
}

func (p *Parser) primary() (ast.Expression, error) {
	switch {
	case p.match(token.INT):
		lit := p.previous()
		return ast.Literal{Value: ast.I32(int32(lit.Literal.(int64)))}, nil
	case p.match(token.STRING):
		lit := p.previous()
		return ast.Literal{Value: ast.Str(lit.Literal.(string))}, nil
	case p.match(token.LPAREN):
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.RPAREN); err != nil {
			return nil, err
		}
		return expr, nil
	case p.check(token.IDENT):
		name := p.advance()
		if p.check(token.LPAREN) {
			return p.finishCall(name.Lexeme)
		}
		return ast.Variable{Name: name.Lexeme}, nil
	}
	return nil, newSyntaxError(p.peek(), token.INT, token.STRING, token.LPAREN, token.IDENT)
}

// finishCall parses the "(" arg, arg, ... ")" suffix of a call,
// assuming the function name has already been consumed.
func (p *Parser) finishCall(name string) (ast.Expression, error) {
	if _, err := p.consume(token.LPAREN); err != nil {
		return nil, err
	}
	var args []ast.Expression
	if !p.check(token.RPAREN) {
		for {
			arg, err := p.expression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	if _, err := p.consume(token.RPAREN); err != nil {
		return nil, err
	}
	return ast.Call{Function: name, Args: args}, nil
}
