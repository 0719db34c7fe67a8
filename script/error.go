package script

import (
	"fmt"
	"sqt/common"
)

// ParsingExpectedButFoundError models a typical "Expected foo but found bar" kind of error.
type ParsingExpectedButFoundError struct {
	Message         string    `json:"message"`
	Position        int       `json:"position"`
	CurrentLexeme   string    `json:"current-lexeme"`
	CurrentKind     TokenKind `json:"current-kind"`
	ExpectedMessage string    `json:"expected-message"`
	stack           common.Stack
}

func ParsingErrorExpectedButFound(expectedMessage string, position int, currentLexeme string, currentKind TokenKind) *ParsingExpectedButFoundError {
	return &ParsingExpectedButFoundError{
		Message:         fmt.Sprintf("Parsing error: Expected %s at position %d but found '%s' of kind %s.", expectedMessage, position, currentLexeme, currentKind.String()),
		Position:        position,
		CurrentLexeme:   currentLexeme,
		CurrentKind:     currentKind,
		ExpectedMessage: expectedMessage,
		stack:           common.CurrentStack(),
	}
}

func (e *ParsingExpectedButFoundError) Format(s fmt.State, verb rune) {
	common.FormatError(s, verb, e, e.stack)
}

func (e *ParsingExpectedButFoundError) Error() string {
	return e.Message
}

// ParsingExpectedTokenKindError models a typical "Expected '(' but found ..." kind of error for a specific wanted token kind.
type ParsingExpectedTokenKindError struct {
	Message       string    `json:"message"`
	Position      int       `json:"position"`
	CurrentLexeme string    `json:"current-lexeme"`
	CurrentKind   TokenKind `json:"current-kind"`
	ExpectedKind  TokenKind `json:"expected-kind"`
	stack         common.Stack
}

func ParsingErrorExpectedTokenKind(position int, currentLexeme string, currentKind TokenKind, expectedKind TokenKind) *ParsingExpectedTokenKindError {
	return &ParsingExpectedTokenKindError{
		Message:       fmt.Sprintf("Parsing error: Expected '%s' (%s) at position %d but found '%s' of kind %s.", expectedKind.Lexeme(), expectedKind.String(), position, currentLexeme, currentKind.String()),
		Position:      position,
		CurrentLexeme: currentLexeme,
		CurrentKind:   currentKind,
		ExpectedKind:  expectedKind,
		stack:         common.CurrentStack(),
	}
}

func (e *ParsingExpectedTokenKindError) Format(s fmt.State, verb rune) {
	common.FormatError(s, verb, e, e.stack)
}

func (e *ParsingExpectedTokenKindError) Error() string {
	return e.Message
}

// ParsingTokenStreamEndedError is returned when the script ends in the middle of a statement.
type ParsingTokenStreamEndedError struct {
	Message         string `json:"message"`
	Position        int    `json:"position"`
	ExpectedMessage string `json:"expected-message"`
	stack           common.Stack
}

func ParsingTokenStreamEndAtPosition(position int, expectedMessage string) *ParsingTokenStreamEndedError {
	return &ParsingTokenStreamEndedError{
		Message:         fmt.Sprintf("Parsing error: Token stream ended at position %d, expected %s.", position, expectedMessage),
		Position:        position,
		ExpectedMessage: expectedMessage,
		stack:           common.CurrentStack(),
	}
}

func (e *ParsingTokenStreamEndedError) Format(s fmt.State, verb rune) {
	common.FormatError(s, verb, e, e.stack)
}

func (e *ParsingTokenStreamEndedError) Error() string {
	return e.Message
}

// ParsingInvalidArgumentsError is returned for a syntactically correct statement with wrong arguments, e.g. a missing
// coordinate.
type ParsingInvalidArgumentsError struct {
	Message  string `json:"message"`
	Position int    `json:"position"`
	Command  string `json:"command"`
	stack    common.Stack
}

func ParsingErrorInvalidArguments(command string, position int, format string, args ...any) *ParsingInvalidArgumentsError {
	return &ParsingInvalidArgumentsError{
		Message:  fmt.Sprintf("Parsing error: Invalid arguments for '%s' at position %d: %s.", command, position, fmt.Sprintf(format, args...)),
		Position: position,
		Command:  command,
		stack:    common.CurrentStack(),
	}
}

func (e *ParsingInvalidArgumentsError) Format(s fmt.State, verb rune) {
	common.FormatError(s, verb, e, e.stack)
}

func (e *ParsingInvalidArgumentsError) Error() string {
	return e.Message
}
