package ast_test

import (
	"testing"

	"github.com/mna/rustcript/lang/ast"
	"github.com/stretchr/testify/require"
)

// buildIfElseIfElseChain mimics what the parser records for:
//
//	if x [
//	]
//	else_if y [
//	]
//	else [
//	]
func buildIfElseIfElseChain() *ast.Program {
	p := ast.NewProgram()
	p.Statements = []ast.Statement{
		{Kind: ast.If},                        // 0
		{Kind: ast.Close, OwnerOpener: 0},      // 1
		{Kind: ast.ElseIf},                     // 2
		{Kind: ast.Close, OwnerOpener: 2},       // 3
		{Kind: ast.Else},                       // 4
		{Kind: ast.Close, OwnerOpener: 4},       // 5
	}
	p.JumpMap[0] = 1
	p.JumpMap[2] = 3
	p.JumpMap[4] = 5
	p.ChainNext[0] = 2
	p.ChainNext[2] = 4
	p.ChainNext[4] = 5
	return p
}

func TestChainEndWalksToFinalCloser(t *testing.T) {
	p := buildIfElseIfElseChain()
	require.Equal(t, 5, p.ChainEnd(0))
	require.Equal(t, 5, p.ChainEnd(2))
	require.Equal(t, 5, p.ChainEnd(4))
}

func TestChainEndSingleMemberChain(t *testing.T) {
	p := ast.NewProgram()
	p.Statements = []ast.Statement{
		{Kind: ast.If},
		{Kind: ast.Close, OwnerOpener: 0},
	}
	p.JumpMap[0] = 1
	p.ChainNext[0] = 1
	require.Equal(t, 1, p.ChainEnd(0))
}

func TestDisassembleAnnotatesJumpsAndChains(t *testing.T) {
	p := buildIfElseIfElseChain()
	out := p.Disassemble()
	require.Contains(t, out, "if")
	require.Contains(t, out, "else_if")
	require.Contains(t, out, "chain-next=2")
	require.Contains(t, out, "owner=0")
}

func TestNewProgramInitializesSideTables(t *testing.T) {
	p := ast.NewProgram()
	require.NotNil(t, p.Labels)
	require.NotNil(t, p.Functions)
	require.NotNil(t, p.JumpMap)
	require.NotNil(t, p.Modules)
	require.NotNil(t, p.ChainNext)
	require.Empty(t, p.Statements)
}

func TestChainLeaf(t *testing.T) {
	leaf := &ast.Chain{Head: "x"}
	require.True(t, leaf.Leaf())

	withSeg := &ast.Chain{Head: "x", Segments: []ast.Segment{{Field: "y"}}}
	require.False(t, withSeg.Leaf())
}
