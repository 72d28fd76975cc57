package grammar

import (
	"fmt"
	"testing"

	"github.com/nihei9/arvo/grammar/symbol"
)

type expectedAction struct {
	ty        ActionType
	nextState int
	prod      int
}

func expShift(state int) expectedAction {
	return expectedAction{ty: ActionTypeShift, nextState: state}
}

func expReduce(prod int) expectedAction {
	return expectedAction{ty: ActionTypeReduce, prod: prod}
}

type expectedState struct {
	acts             map[string]expectedAction
	goTos            map[string]int
	defaultReduction int
}

func TestGenLALRParsingTable(t *testing.T) {
	gram := buildTestGrammar(t, lalrTestDefinition())
	ptab, _ := genTestParsingTable(t, gram)

	// Production numbers:
	//
	//	1: s → l eq r
	//	2: s → r
	//	3: l → ref r
	//	4: l → id
	//	5: r → l
	expectedStates := []*expectedState{
		{
			acts: map[string]expectedAction{
				"ref": expShift(4),
				"id":  expShift(5),
			},
			goTos: map[string]int{
				"s": 1,
				"l": 2,
				"r": 3,
			},
		},
		{
			acts: map[string]expectedAction{
				"<eof>": expShift(6),
			},
		},
		{
			acts: map[string]expectedAction{
				"eq":    expShift(7),
				"<eof>": expReduce(5),
			},
			defaultReduction: 5,
		},
		{
			acts: map[string]expectedAction{
				"<eof>": expReduce(2),
			},
			defaultReduction: 2,
		},
		{
			acts: map[string]expectedAction{
				"ref": expShift(4),
				"id":  expShift(5),
			},
			goTos: map[string]int{
				"l": 8,
				"r": 9,
			},
		},
		{
			acts: map[string]expectedAction{
				"eq":    expReduce(4),
				"<eof>": expReduce(4),
			},
			defaultReduction: 4,
		},
		{
			// accepting state
		},
		{
			acts: map[string]expectedAction{
				"ref": expShift(4),
				"id":  expShift(5),
			},
			goTos: map[string]int{
				"l": 8,
				"r": 10,
			},
		},
		{
			acts: map[string]expectedAction{
				"eq":    expReduce(5),
				"<eof>": expReduce(5),
			},
			defaultReduction: 5,
		},
		{
			acts: map[string]expectedAction{
				"eq":    expReduce(3),
				"<eof>": expReduce(3),
			},
			defaultReduction: 3,
		},
		{
			acts: map[string]expectedAction{
				"<eof>": expReduce(1),
			},
			defaultReduction: 1,
		},
	}

	if ptab.stateCount != len(expectedStates) {
		t.Fatalf("unexpected state count; want: %v, got: %v", len(expectedStates), ptab.stateCount)
	}
	if ptab.InitialState != 0 {
		t.Errorf("unexpected initial state; want: 0, got: %v", ptab.InitialState)
	}
	if ptab.AcceptState != 6 {
		t.Errorf("unexpected accepting state; want: 6, got: %v", ptab.AcceptState)
	}

	for i, eState := range expectedStates {
		t.Run(fmt.Sprintf("state #%v", i), func(t *testing.T) {
			testActions(t, gram, ptab, stateNum(i), eState.acts)
			testGoTos(t, gram, ptab, stateNum(i), eState.goTos)
			if ptab.defaultReductions[i].Int() != eState.defaultReduction {
				t.Errorf("unexpected default reduction; want: %v, got: %v", eState.defaultReduction, ptab.defaultReductions[i])
			}
		})
	}
}

func TestGenLALRParsingTable_Precedence(t *testing.T) {
	gram := buildTestGrammar(t, exprTestDefinition())
	ptab, b := genTestParsingTable(t, gram)

	genSym := newTestSymbolGenerator(t, gram.symbolTable)
	genProd := newTestProductionGenerator(t, genSym)
	genLR0Item := newTestLR0ItemGenerator(t, genProd)

	// Production numbers:
	//
	//	1: expr → expr add expr
	//	2: expr → expr mul expr
	//	3: expr → expr pow expr
	tests := []struct {
		item *lrItem
		acts map[string]expectedAction
	}{
		{
			item: genLR0Item("expr", 3, "expr", "add", "expr"),
			acts: map[string]expectedAction{
				"add":     expReduce(1),
				"r_paren": expReduce(1),
				"<eof>":   expReduce(1),
			},
		},
		{
			item: genLR0Item("expr", 3, "expr", "mul", "expr"),
			acts: map[string]expectedAction{
				"add":     expReduce(2),
				"mul":     expReduce(2),
				"r_paren": expReduce(2),
				"<eof>":   expReduce(2),
			},
		},
		{
			item: genLR0Item("expr", 3, "expr", "pow", "expr"),
			acts: map[string]expectedAction{
				"add":     expReduce(3),
				"mul":     expReduce(3),
				"r_paren": expReduce(3),
				"<eof>":   expReduce(3),
			},
		},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("#%v", i), func(t *testing.T) {
			state := findStateByItem(t, b.automaton, tt.item)
			for text, eAct := range tt.acts {
				ty, _, p := ptab.getAction(state.num, genSym(text).Num())
				if ty != eAct.ty || p.Int() != eAct.prod {
					t.Errorf("unexpected action on %v; want: %v %v, got: %v %v", text, eAct.ty, eAct.prod, ty, p)
				}
			}
		})
	}

	// Shifting must win where an operator binds tighter or associates to the right.
	shifts := []struct {
		item *lrItem
		term string
	}{
		{item: genLR0Item("expr", 3, "expr", "add", "expr"), term: "mul"},
		{item: genLR0Item("expr", 3, "expr", "add", "expr"), term: "pow"},
		{item: genLR0Item("expr", 3, "expr", "mul", "expr"), term: "pow"},
		{item: genLR0Item("expr", 3, "expr", "pow", "expr"), term: "pow"},
	}
	for i, tt := range shifts {
		t.Run(fmt.Sprintf("shift #%v", i), func(t *testing.T) {
			state := findStateByItem(t, b.automaton, tt.item)
			ty, _, _ := ptab.getAction(state.num, genSym(tt.term).Num())
			if ty != ActionTypeShift {
				t.Errorf("unexpected action on %v; want: shift, got: %v", tt.term, ty)
			}
		})
	}

	for _, c := range b.conflicts {
		switch con := c.(type) {
		case *shiftReduceConflict:
			if con.resolvedBy != ResolvedByPrec && con.resolvedBy != ResolvedByAssoc {
				t.Errorf("a shift/reduce conflict was resolved by %v", con.resolvedBy)
			}
		case *reduceReduceConflict:
			t.Errorf("unexpected reduce/reduce conflict: %+v", con)
		}
	}
}

func TestGenLALRParsingTable_ReduceReduceConflict(t *testing.T) {
	gram := buildTestGrammar(t, &Definition{
		Name:  "test",
		Start: "s",
		Terminals: []*Terminal{
			{Name: "id", Pattern: "[a-z]+"},
		},
		Productions: []*Production{
			prod("s", "a"),
			prod("s", "b"),
			prod("a", "id"),
			prod("b", "id"),
		},
	})
	ptab, b := genTestParsingTable(t, gram)

	genSym := newTestSymbolGenerator(t, gram.symbolTable)
	genProd := newTestProductionGenerator(t, genSym)
	genLR0Item := newTestLR0ItemGenerator(t, genProd)

	state := findStateByItem(t, b.automaton, genLR0Item("a", 1, "id"))
	ty, _, p := ptab.getAction(state.num, symbol.SymbolEOF.Num())
	if ty != ActionTypeReduce || p != 3 {
		t.Fatalf("the production defined earlier must win; got: %v %v", ty, p)
	}

	if len(b.conflicts) != 1 {
		t.Fatalf("unexpected conflicts: %v", len(b.conflicts))
	}
	con, ok := b.conflicts[0].(*reduceReduceConflict)
	if !ok {
		t.Fatalf("unexpected conflict: %T", b.conflicts[0])
	}
	if con.resolvedBy != ResolvedByProdOrder {
		t.Errorf("unexpected resolution method: %v", con.resolvedBy)
	}
}

func TestGenLALRParsingTable_NoDefaultReductionInErrorTrapper(t *testing.T) {
	gram := buildTestGrammar(t, &Definition{
		Name:  "test",
		Start: "s",
		Terminals: []*Terminal{
			lit("b", "b"),
		},
		Productions: []*Production{
			prod("s", "opt", "b"),
			prod("s", "error", "b"),
			prod("opt"),
		},
	})
	ptab, _ := genTestParsingTable(t, gram)

	if ptab.errorTrapperStates[ptab.InitialState] != 1 {
		t.Fatalf("the initial state must be an error trapper")
	}
	genSym := newTestSymbolGenerator(t, gram.symbolTable)
	ty, _, p := ptab.getAction(ptab.InitialState, genSym("b").Num())
	if ty != ActionTypeReduce || p != 3 {
		t.Fatalf("unexpected action; want: reduce 3, got: %v %v", ty, p)
	}
	if ptab.defaultReductions[ptab.InitialState] != productionNumStart {
		t.Fatalf("an error trapper state must not have a default reduction; got: %v", ptab.defaultReductions[ptab.InitialState])
	}
}

func testActions(t *testing.T, gram *Grammar, ptab *ParsingTable, state stateNum, acts map[string]expectedAction) {
	t.Helper()

	for _, sym := range gram.symbolTable.TerminalSymbols() {
		text, _ := gram.symbolTable.ToText(sym)
		ty, next, p := ptab.getAction(state, sym.Num())
		eAct, ok := acts[text]
		if !ok {
			if ty != ActionTypeError {
				t.Errorf("unexpected action on %v: %v", text, ty)
			}
			continue
		}
		if ty != eAct.ty {
			t.Errorf("unexpected action type on %v; want: %v, got: %v", text, eAct.ty, ty)
			continue
		}
		switch ty {
		case ActionTypeShift:
			if next.Int() != eAct.nextState {
				t.Errorf("unexpected next state on %v; want: %v, got: %v", text, eAct.nextState, next)
			}
		case ActionTypeReduce:
			if p.Int() != eAct.prod {
				t.Errorf("unexpected production on %v; want: %v, got: %v", text, eAct.prod, p)
			}
		}
	}
}

func testGoTos(t *testing.T, gram *Grammar, ptab *ParsingTable, state stateNum, goTos map[string]int) {
	t.Helper()

	for _, sym := range gram.symbolTable.NonTerminalSymbols() {
		text, _ := gram.symbolTable.ToText(sym)
		ty, next := ptab.getGoTo(state, sym.Num())
		eNext, ok := goTos[text]
		if !ok {
			if ty != GoToTypeError {
				t.Errorf("unexpected goto on %v: %v", text, next)
			}
			continue
		}
		if ty != GoToTypeRegistered || next.Int() != eNext {
			t.Errorf("unexpected goto on %v; want: %v, got: %v %v", text, eNext, ty, next)
		}
	}
}

func findStateByItem(t *testing.T, automaton *lr0Automaton, item *lrItem) *lrState {
	t.Helper()

	for _, s := range automaton.statesByNum() {
		for _, it := range s.items {
			if it.id == item.id {
				return s
			}
		}
	}
	t.Fatalf("a state having the item was not found: %v", item.id)
	return nil
}
