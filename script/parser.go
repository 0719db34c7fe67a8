package script

import (
	"fmt"
	"github.com/hauke96/sigolo/v2"
	"sqt/common"
	"sqt/geometry"
	"strconv"
	"strings"
)

var (
	insertCommand  = "insert"
	queryCommand   = "query"
	removeCommand  = "remove"
	countCommand   = "count"
	clearCommand   = "clear"
	compactCommand = "compact"
	dumpCommand    = "dump"
	commands       = []string{insertCommand, queryCommand, removeCommand, countCommand, clearCommand, compactCommand, dumpCommand}

	commandsWithTags = []string{insertCommand, queryCommand, removeCommand}
)

type Parser struct {
	token []*Token
	index int
}

// ParseScript parses a script consisting of statements like "insert(1, 2) { name=foo }" or "query(0, 0, 10, 10)".
func ParseScript(scriptString string) (*Script, error) {
	lexer := Lexer{
		input: []rune(scriptString),
		index: 0,
	}

	token, err := lexer.read()
	if err != nil {
		return nil, err
	}

	if sigolo.ShouldLogTrace() {
		sigolo.Tracef("Found %d token", len(token))
		for _, t := range token {
			sigolo.Tracef("  kind=%d, pos=%d : %s", t.kind, t.startPosition, t.lexeme)
		}
	}

	parser := Parser{
		token: token,
		index: 0,
	}
	return parser.parse()
}

func (p *Parser) moveToNextToken() *Token {
	p.index++
	if sigolo.ShouldLogTrace() {
		sigolo.Traceb(1, "Moved to next token: %+v", p.currentToken())
	}
	return p.currentToken()
}

func (p *Parser) peekNextToken() *Token {
	if p.index+1 >= len(p.token) {
		return nil
	}
	return p.token[p.index+1]
}

func (p *Parser) hasNextToken() bool {
	return p.peekNextToken() != nil
}

func (p *Parser) getNextTokenStartPosition() int {
	if p.hasNextToken() {
		return p.peekNextToken().startPosition
	} else if p.currentToken() != nil {
		// No next token, so the start position of this hypothetical next token is right behind the current one.
		return p.currentToken().startPosition + len(p.currentToken().lexeme)
	}
	return -1
}

func (p *Parser) currentToken() *Token {
	if p.index >= len(p.token) {
		return nil
	}
	return p.token[p.index]
}

func (p *Parser) parse() (*Script, error) {
	var statements []Statement

	for p.currentToken() != nil {
		statement, err := p.parseStatement()
		if err != nil {
			return nil, err
		}

		statements = append(statements, statement)
		p.moveToNextToken()
	}

	return NewScript(statements), nil
}

// parseStatement parses the statement starting at the current token. Afterwards, the current token is the last token
// of the statement.
func (p *Parser) parseStatement() (Statement, error) {
	commandToken := p.currentToken()
	if commandToken.kind != TokenKindKeyword || !common.Contains(commands, commandToken.lexeme) {
		return nil, ParsingErrorExpectedButFound(fmt.Sprintf("command (one of: %s)", strings.Join(commands, ", ")), commandToken.startPosition, commandToken.lexeme, commandToken.kind)
	}

	// Then "("
	if !p.hasNextToken() {
		return nil, ParsingTokenStreamEndAtPosition(p.getNextTokenStartPosition(), "'('")
	}
	token := p.moveToNextToken()
	if token.kind != TokenKindOpeningParenthesis {
		return nil, ParsingErrorExpectedTokenKind(token.startPosition, token.lexeme, token.kind, TokenKindOpeningParenthesis)
	}

	// Then the numeric arguments including ")"
	arguments, err := p.parseArguments()
	if err != nil {
		return nil, err
	}

	// Then optional tags in braces
	var tags map[string]string
	if nextToken := p.peekNextToken(); nextToken != nil && nextToken.kind == TokenKindOpeningBraces {
		if !common.Contains(commandsWithTags, commandToken.lexeme) {
			return nil, ParsingErrorInvalidArguments(commandToken.lexeme, nextToken.startPosition, "no tags allowed")
		}

		p.moveToNextToken()
		tags, err = p.parseTags()
		if err != nil {
			return nil, err
		}
	}

	return newStatement(commandToken, arguments, tags)
}

// parseArguments parses numbers until the closing parenthesis, which is the current token afterwards.
func (p *Parser) parseArguments() ([]float64, error) {
	var arguments []float64

	for {
		if !p.hasNextToken() {
			return nil, ParsingTokenStreamEndAtPosition(p.getNextTokenStartPosition(), "number or ')'")
		}

		token := p.moveToNextToken()
		switch token.kind {
		case TokenKindClosingParenthesis:
			return arguments, nil
		case TokenKindNumber:
			value, err := strconv.ParseFloat(token.lexeme, 64)
			if err != nil {
				return nil, ParsingErrorExpectedButFound("number", token.startPosition, token.lexeme, token.kind)
			}
			arguments = append(arguments, value)
		default:
			return nil, ParsingErrorExpectedButFound("number or ')'", token.startPosition, token.lexeme, token.kind)
		}
	}
}

// parseTags parses "key=value" pairs until the closing brace, which is the current token afterwards.
func (p *Parser) parseTags() (map[string]string, error) {
	tags := map[string]string{}

	for {
		if !p.hasNextToken() {
			return nil, ParsingTokenStreamEndAtPosition(p.getNextTokenStartPosition(), "tag or '}'")
		}

		keyToken := p.moveToNextToken()
		if keyToken.kind == TokenKindClosingBraces {
			return tags, nil
		}
		if keyToken.kind != TokenKindKeyword && keyToken.kind != TokenKindString {
			return nil, ParsingErrorExpectedButFound("tag key or '}'", keyToken.startPosition, keyToken.lexeme, keyToken.kind)
		}

		// Then "="
		if !p.hasNextToken() {
			return nil, ParsingTokenStreamEndAtPosition(p.getNextTokenStartPosition(), "'=' after key "+keyToken.lexeme)
		}
		token := p.moveToNextToken()
		if token.kind != TokenKindOperator {
			return nil, ParsingErrorExpectedTokenKind(token.startPosition, token.lexeme, token.kind, TokenKindOperator)
		}

		// Then the value
		if !p.hasNextToken() {
			return nil, ParsingTokenStreamEndAtPosition(p.getNextTokenStartPosition(), "value after key "+keyToken.lexeme+"=")
		}
		valueToken := p.moveToNextToken()
		if valueToken.kind != TokenKindKeyword && valueToken.kind != TokenKindNumber && valueToken.kind != TokenKindString {
			return nil, ParsingErrorExpectedButFound("value after key "+keyToken.lexeme+"=", valueToken.startPosition, valueToken.lexeme, valueToken.kind)
		}

		tags[keyToken.lexeme] = valueToken.lexeme
	}
}

func newStatement(commandToken *Token, arguments []float64, tags map[string]string) (Statement, error) {
	command := commandToken.lexeme
	position := commandToken.startPosition

	expectedArguments := 0
	switch command {
	case insertCommand, removeCommand:
		expectedArguments = 2
	case queryCommand:
		expectedArguments = 4
	}
	if len(arguments) != expectedArguments {
		return nil, ParsingErrorInvalidArguments(command, position, "expected %d numbers but found %d", expectedArguments, len(arguments))
	}

	switch command {
	case insertCommand:
		return NewInsertStatement(geometry.Point{X: arguments[0], Y: arguments[1]}, tags), nil
	case queryCommand:
		region := geometry.NewRectangleFromCorners(geometry.Point{X: arguments[0], Y: arguments[1]}, geometry.Point{X: arguments[2], Y: arguments[3]})
		if !region.Valid() {
			return nil, ParsingErrorInvalidArguments(command, position, "region %s has its minimum corner after its maximum corner", region.String())
		}
		return NewQueryStatement(region, tags), nil
	case removeCommand:
		return NewRemoveStatement(geometry.Point{X: arguments[0], Y: arguments[1]}, tags), nil
	case countCommand:
		return &CountStatement{}, nil
	case clearCommand:
		return &ClearStatement{}, nil
	case compactCommand:
		return &CompactStatement{}, nil
	case dumpCommand:
		return &DumpStatement{}, nil
	}

	common.LogFatalBug("Command '%s' is known but has no statement", command)
	return nil, nil
}
