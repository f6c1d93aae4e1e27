package parser

// TokenType represents the type of a lexical token.
type TokenType uint8

const (
	// Special tokens, never part of a Tokenize result
	TokenEOF TokenType = iota
	TokenError

	TokenParen    // ( )
	TokenNumber   // 123
	TokenString   // "hello"
	TokenName     // sum, const
	TokenOperator // = + - * / %
	TokenSyntax   // =>
	TokenNotation // , ; :
)

// String returns a string representation of the token type.
func (tt TokenType) String() string {
	switch tt {
	case TokenEOF:
		return "(eof)"
	case TokenError:
		return "(error)"
	case TokenParen:
		return "paren"
	case TokenNumber:
		return "number"
	case TokenString:
		return "string"
	case TokenName:
		return "name"
	case TokenOperator:
		return "operator"
	case TokenSyntax:
		return "syntax"
	case TokenNotation:
		return "notation"
	default:
		return "(unknown)"
	}
}

// Token represents a lexical token.
type Token struct {
	Type     TokenType // Type of the token
	Value    string    // Literal text of the token
	Position int       // Starting byte offset in the input string
}

// Is reports whether the token has the given type and text.
func (t Token) Is(tt TokenType, value string) bool {
	return t.Type == tt && t.Value == value
}

// symbols1 maps single-character symbols to token types.
var symbols1 = [...]TokenType{
	'(': TokenParen,
	')': TokenParen,
	',': TokenNotation,
	';': TokenNotation,
	':': TokenNotation,
	'*': TokenOperator,
	'+': TokenOperator,
	'-': TokenOperator,
	'/': TokenOperator,
	'%': TokenOperator,
	'=': TokenOperator,
}

// runeTokenType pairs a rune with its corresponding token type.
type runeTokenType struct {
	r  rune
	tt TokenType
}

// symbols2 maps two-character symbol sequences to token types.
// The key is the first character of the sequence.
var symbols2 = [...][]runeTokenType{
	'=': {{'>', TokenSyntax}},
}

const (
	symbol1Count = rune(len(symbols1))
	symbol2Count = rune(len(symbols2))
)

// lookupSymbol1 returns the token type for a single-character symbol.
// Returns 0 if the rune is not a valid symbol.
func lookupSymbol1(r rune) TokenType {
	if r < 0 || r >= symbol1Count {
		return 0
	}
	return symbols1[r]
}

// lookupSymbol2 returns possible two-character symbol completions.
// Returns nil if the rune cannot start a two-character symbol.
func lookupSymbol2(r rune) []runeTokenType {
	if r < 0 || r >= symbol2Count {
		return nil
	}
	return symbols2[r]
}

// binaryOperators holds the binding power of each binary operator.
// Higher values bind more tightly.
var binaryOperators = map[string]int{
	"+": 50,
	"-": 50,
	"*": 60,
	"/": 60,
	"%": 60,
}

// callPrecedence is the binding power of a call's opening paren.
const callPrecedence = 80
