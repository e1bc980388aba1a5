package grammar

import (
	_ "embed"
	"fmt"
	"strings"
)

//go:embed toy.txt
var toySource string

// Indices of the toy language productions.
const (
	ProdProgram        = 1  // P -> S_list
	ProdStatementsMore = 2  // S_list -> S Semicolon S_list
	ProdStatementsLast = 3  // S_list -> S Semicolon
	ProdDeclare        = 4  // S -> D id
	ProdDeclType       = 5  // D -> int
	ProdAssign         = 6  // S -> id = E
	ProdReturn         = 7  // S -> return E
	ProdAdd            = 8  // E -> E + A
	ProdSub            = 9  // E -> E - A
	ProdExprTerm       = 10 // E -> A
	ProdMul            = 11 // A -> A * B
	ProdTermValue      = 12 // A -> B
	ProdParen          = 13 // B -> ( E )
	ProdIdent          = 14 // B -> id
	ProdIntConst       = 15 // B -> IntConst
)

// Toy returns the grammar of the toy language.
func Toy() *Grammar {
	g, err := Parse(strings.NewReader(toySource))
	if err != nil {
		panic(fmt.Sprintf("embedded grammar is invalid: %v", err))
	}
	return g
}
