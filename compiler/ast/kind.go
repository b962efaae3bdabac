package ast

// Kind identifies the syntax of a node.
type Kind int

const (
	KindInvalid Kind = iota
	KindImport
	KindClass
	KindProperty
	KindMethod
	KindParam
	KindFunc
	KindVar

	KindBlock
	KindExprStmt
	KindIf
	KindWhile
	KindFor
	KindReturn
	KindThrow
	KindBreak
	KindContinue

	KindIdent
	KindThis
	KindSuper
	KindNumber
	KindString
	KindBool
	KindNull
	KindUndefined
	KindArray
	KindSelector
	KindIndex
	KindCall
	KindNew
	KindUnary
	KindBinary
	KindAssign
	KindCond
	KindAs
	KindParen

	KindTypeExpr

	NumKinds
)

var kindNames = [...]string{
	KindInvalid:   "invalid",
	KindImport:    "import",
	KindClass:     "class",
	KindProperty:  "property",
	KindMethod:    "method",
	KindParam:     "param",
	KindFunc:      "function",
	KindVar:       "variable",
	KindBlock:     "block",
	KindExprStmt:  "expression statement",
	KindIf:        "if",
	KindWhile:     "while",
	KindFor:       "for",
	KindReturn:    "return",
	KindThrow:     "throw",
	KindBreak:     "break",
	KindContinue:  "continue",
	KindIdent:     "identifier",
	KindThis:      "this",
	KindSuper:     "super",
	KindNumber:    "number literal",
	KindString:    "string literal",
	KindBool:      "boolean literal",
	KindNull:      "null",
	KindUndefined: "undefined",
	KindArray:     "array literal",
	KindSelector:  "property access",
	KindIndex:     "element access",
	KindCall:      "call",
	KindNew:       "new",
	KindUnary:     "unary expression",
	KindBinary:    "binary expression",
	KindAssign:    "assignment",
	KindCond:      "conditional expression",
	KindAs:        "as expression",
	KindParen:     "parenthesized expression",
	KindTypeExpr:  "type",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

func (n *ImportDecl) Kind() Kind   { return KindImport }
func (n *ClassDecl) Kind() Kind    { return KindClass }
func (n *PropertyDecl) Kind() Kind { return KindProperty }
func (n *MethodDecl) Kind() Kind   { return KindMethod }
func (n *Param) Kind() Kind        { return KindParam }
func (n *FuncDecl) Kind() Kind     { return KindFunc }
func (n *VarDecl) Kind() Kind      { return KindVar }
func (n *BlockStmt) Kind() Kind    { return KindBlock }
func (n *ExprStmt) Kind() Kind     { return KindExprStmt }
func (n *IfStmt) Kind() Kind       { return KindIf }
func (n *WhileStmt) Kind() Kind    { return KindWhile }
func (n *ForStmt) Kind() Kind      { return KindFor }
func (n *ReturnStmt) Kind() Kind   { return KindReturn }
func (n *ThrowStmt) Kind() Kind    { return KindThrow }
func (n *BreakStmt) Kind() Kind    { return KindBreak }
func (n *ContinueStmt) Kind() Kind { return KindContinue }
func (n *Ident) Kind() Kind        { return KindIdent }
func (n *ThisExpr) Kind() Kind     { return KindThis }
func (n *SuperExpr) Kind() Kind    { return KindSuper }
func (n *NumberLit) Kind() Kind    { return KindNumber }
func (n *StringLit) Kind() Kind    { return KindString }
func (n *BoolLit) Kind() Kind      { return KindBool }
func (n *NullLit) Kind() Kind      { return KindNull }
func (n *UndefinedLit) Kind() Kind { return KindUndefined }
func (n *ArrayLit) Kind() Kind     { return KindArray }
func (n *SelectorExpr) Kind() Kind { return KindSelector }
func (n *IndexExpr) Kind() Kind    { return KindIndex }
func (n *CallExpr) Kind() Kind     { return KindCall }
func (n *NewExpr) Kind() Kind      { return KindNew }
func (n *UnaryExpr) Kind() Kind    { return KindUnary }
func (n *BinaryExpr) Kind() Kind   { return KindBinary }
func (n *AssignExpr) Kind() Kind   { return KindAssign }
func (n *CondExpr) Kind() Kind     { return KindCond }
func (n *AsExpr) Kind() Kind       { return KindAs }
func (n *ParenExpr) Kind() Kind    { return KindParen }
func (n *TypeExpr) Kind() Kind     { return KindTypeExpr }

func (n *ImportDecl) Pos() Pos   { return n.At }
func (n *ClassDecl) Pos() Pos    { return n.At }
func (n *PropertyDecl) Pos() Pos { return n.At }
func (n *MethodDecl) Pos() Pos   { return n.At }
func (n *Param) Pos() Pos        { return n.At }
func (n *FuncDecl) Pos() Pos     { return n.At }
func (n *VarDecl) Pos() Pos      { return n.At }
func (n *BlockStmt) Pos() Pos    { return n.At }
func (n *ExprStmt) Pos() Pos     { return n.X.Pos() }
func (n *IfStmt) Pos() Pos       { return n.At }
func (n *WhileStmt) Pos() Pos    { return n.At }
func (n *ForStmt) Pos() Pos      { return n.At }
func (n *ReturnStmt) Pos() Pos   { return n.At }
func (n *ThrowStmt) Pos() Pos    { return n.At }
func (n *BreakStmt) Pos() Pos    { return n.At }
func (n *ContinueStmt) Pos() Pos { return n.At }
func (n *Ident) Pos() Pos        { return n.At }
func (n *ThisExpr) Pos() Pos     { return n.At }
func (n *SuperExpr) Pos() Pos    { return n.At }
func (n *NumberLit) Pos() Pos    { return n.At }
func (n *StringLit) Pos() Pos    { return n.At }
func (n *BoolLit) Pos() Pos      { return n.At }
func (n *NullLit) Pos() Pos      { return n.At }
func (n *UndefinedLit) Pos() Pos { return n.At }
func (n *ArrayLit) Pos() Pos     { return n.At }
func (n *SelectorExpr) Pos() Pos { return n.X.Pos() }
func (n *IndexExpr) Pos() Pos    { return n.X.Pos() }
func (n *CallExpr) Pos() Pos     { return n.Fun.Pos() }
func (n *NewExpr) Pos() Pos      { return n.At }
func (n *UnaryExpr) Pos() Pos    { return n.At }
func (n *BinaryExpr) Pos() Pos   { return n.X.Pos() }
func (n *AssignExpr) Pos() Pos   { return n.Target.Pos() }
func (n *CondExpr) Pos() Pos     { return n.Cond.Pos() }
func (n *AsExpr) Pos() Pos       { return n.X.Pos() }
func (n *ParenExpr) Pos() Pos    { return n.At }
func (n *TypeExpr) Pos() Pos     { return n.At }

func (*Ident) exprNode()        {}
func (*ThisExpr) exprNode()     {}
func (*SuperExpr) exprNode()    {}
func (*NumberLit) exprNode()    {}
func (*StringLit) exprNode()    {}
func (*BoolLit) exprNode()      {}
func (*NullLit) exprNode()      {}
func (*UndefinedLit) exprNode() {}
func (*ArrayLit) exprNode()     {}
func (*SelectorExpr) exprNode() {}
func (*IndexExpr) exprNode()    {}
func (*CallExpr) exprNode()     {}
func (*NewExpr) exprNode()      {}
func (*UnaryExpr) exprNode()    {}
func (*BinaryExpr) exprNode()   {}
func (*AssignExpr) exprNode()   {}
func (*CondExpr) exprNode()     {}
func (*AsExpr) exprNode()       {}
func (*ParenExpr) exprNode()    {}

func (*BlockStmt) stmtNode()    {}
func (*ExprStmt) stmtNode()     {}
func (*IfStmt) stmtNode()       {}
func (*WhileStmt) stmtNode()    {}
func (*ForStmt) stmtNode()      {}
func (*ReturnStmt) stmtNode()   {}
func (*ThrowStmt) stmtNode()    {}
func (*BreakStmt) stmtNode()    {}
func (*ContinueStmt) stmtNode() {}
func (*VarDecl) stmtNode()      {}

func (p *PropertyDecl) MemberName() string  { return p.Name }
func (p *PropertyDecl) Modifiers() Modifier { return p.Mods }
func (p *PropertyDecl) Owner() *ClassDecl   { return p.Class }
func (*PropertyDecl) memberNode()           {}

func (m *MethodDecl) MemberName() string  { return m.Name }
func (m *MethodDecl) Modifiers() Modifier { return m.Mods }
func (m *MethodDecl) Owner() *ClassDecl   { return m.Class }
func (*MethodDecl) memberNode()           {}
