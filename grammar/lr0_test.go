package grammar

import (
	"fmt"
	"testing"

	"github.com/nihei9/arvo/grammar/symbol"
)

type expectedLRState struct {
	kernelItems    []*lrItem
	nextStates     map[symbol.Symbol][]*lrItem
	reducibleProds []*production
	emptyProdItems []*lrItem
	errorTrapper   bool
}

func TestGenLR0Automaton(t *testing.T) {
	gram := buildTestGrammar(t, &Definition{
		Name:  "test",
		Start: "s",
		Terminals: []*Terminal{
			lit("b", "b"),
		},
		Productions: []*Production{
			prod("s", "foo", "bar"),
			prod("foo"),
			prod("bar", "b"),
		},
	})

	automaton, err := genLR0Automaton(gram.productionSet, gram.augmentedStartSymbol, symbol.SymbolError)
	if err != nil {
		t.Fatalf("failed to create a LR0 automaton: %v", err)
	}
	if automaton == nil {
		t.Fatalf("genLR0Automaton returns nil without any error")
	}

	initialState := automaton.states[automaton.initialState]
	if initialState == nil {
		t.Errorf("failed to get an initial status: %v", automaton.initialState)
	}

	genSym := newTestSymbolGenerator(t, gram.symbolTable)
	genProd := newTestProductionGenerator(t, genSym)
	genLR0Item := newTestLR0ItemGenerator(t, genProd)

	expectedKernels := map[int][]*lrItem{
		0: {
			genLR0Item("s'", 0, "s", "<eof>"),
		},
		1: {
			genLR0Item("s'", 1, "s", "<eof>"),
		},
		2: {
			genLR0Item("s", 1, "foo", "bar"),
		},
		3: {
			genLR0Item("s'", 2, "s", "<eof>"),
		},
		4: {
			genLR0Item("s", 2, "foo", "bar"),
		},
		5: {
			genLR0Item("bar", 1, "b"),
		},
	}

	expectedStates := []*expectedLRState{
		{
			kernelItems: expectedKernels[0],
			nextStates: map[symbol.Symbol][]*lrItem{
				genSym("s"):   expectedKernels[1],
				genSym("foo"): expectedKernels[2],
			},
			reducibleProds: []*production{
				genProd("foo"),
			},
			emptyProdItems: []*lrItem{
				genLR0Item("foo", 0),
			},
		},
		{
			kernelItems: expectedKernels[1],
			nextStates: map[symbol.Symbol][]*lrItem{
				genSym("<eof>"): expectedKernels[3],
			},
			reducibleProds: []*production{},
		},
		{
			kernelItems: expectedKernels[2],
			nextStates: map[symbol.Symbol][]*lrItem{
				genSym("bar"): expectedKernels[4],
				genSym("b"):   expectedKernels[5],
			},
			reducibleProds: []*production{},
		},
		{
			kernelItems: expectedKernels[3],
			nextStates:  map[symbol.Symbol][]*lrItem{},
			reducibleProds: []*production{
				genProd("s'", "s", "<eof>"),
			},
		},
		{
			kernelItems: expectedKernels[4],
			nextStates:  map[symbol.Symbol][]*lrItem{},
			reducibleProds: []*production{
				genProd("s", "foo", "bar"),
			},
		},
		{
			kernelItems: expectedKernels[5],
			nextStates:  map[symbol.Symbol][]*lrItem{},
			reducibleProds: []*production{
				genProd("bar", "b"),
			},
		},
	}

	testLRAutomaton(t, expectedStates, automaton)

	for i, eState := range expectedStates {
		k, err := newKernel(eState.kernelItems)
		if err != nil {
			t.Fatal(err)
		}
		if automaton.states[k.id].num.Int() != i {
			t.Errorf("unexpected state number; want: %v, got: %v", i, automaton.states[k.id].num)
		}
	}
}

func TestGenLR0Automaton_ErrorTrapper(t *testing.T) {
	gram := buildTestGrammar(t, exprTestDefinition())

	automaton, err := genLR0Automaton(gram.productionSet, gram.augmentedStartSymbol, symbol.SymbolError)
	if err != nil {
		t.Fatalf("failed to create a LR0 automaton: %v", err)
	}

	genSym := newTestSymbolGenerator(t, gram.symbolTable)
	genProd := newTestProductionGenerator(t, genSym)
	genLR0Item := newTestLR0ItemGenerator(t, genProd)

	trapper, err := newKernel([]*lrItem{
		genLR0Item("expr", 1, "l_paren", "expr", "r_paren"),
		genLR0Item("expr", 1, "l_paren", "error", "r_paren"),
	})
	if err != nil {
		t.Fatal(err)
	}

	for _, state := range automaton.states {
		if state.id == trapper.id {
			if !state.isErrorTrapper {
				t.Errorf("state %v must be an error trapper", state.num)
			}
			if _, ok := state.next[symbol.SymbolError]; !ok {
				t.Errorf("state %v must have a transition by the error symbol", state.num)
			}
			continue
		}
		if state.isErrorTrapper {
			t.Errorf("state %v must not be an error trapper", state.num)
		}
	}
}

func TestGenLR0Automaton_Deterministic(t *testing.T) {
	nums := func() map[kernelID]stateNum {
		gram := buildTestGrammar(t, exprTestDefinition())
		automaton, err := genLR0Automaton(gram.productionSet, gram.augmentedStartSymbol, symbol.SymbolError)
		if err != nil {
			t.Fatal(err)
		}
		m := map[kernelID]stateNum{}
		for id, s := range automaton.states {
			m[id] = s.num
		}
		return m
	}

	expected := nums()
	for i := 0; i < 5; i++ {
		actual := nums()
		if len(actual) != len(expected) {
			t.Fatalf("unexpected state count; want: %v, got: %v", len(expected), len(actual))
		}
		for id, num := range expected {
			if actual[id] != num {
				t.Fatalf("state numbers are unstable; kernel: %v, want: %v, got: %v", id, num, actual[id])
			}
		}
	}
}

func testLRAutomaton(t *testing.T, expected []*expectedLRState, automaton *lr0Automaton) {
	t.Helper()

	if len(automaton.states) != len(expected) {
		t.Errorf("unexpected state count; want: %v, got: %v", len(expected), len(automaton.states))
	}

	mustKernel := func(t *testing.T, items []*lrItem) *kernel {
		t.Helper()
		k, err := newKernel(items)
		if err != nil {
			t.Fatalf("failed to create a kernel: %v", err)
		}
		return k
	}

	for i, eState := range expected {
		t.Run(fmt.Sprintf("state #%v", i), func(t *testing.T) {
			k := mustKernel(t, eState.kernelItems)
			state, ok := automaton.states[k.id]
			if !ok {
				t.Fatalf("state not found: %v", k.id)
			}

			if len(state.items) != len(eState.kernelItems) {
				t.Errorf("unexpected kernel size; want: %v, got: %v", len(eState.kernelItems), len(state.items))
			}
			for _, eItem := range eState.kernelItems {
				item, ok := state.findKernelItem(eItem.id)
				if !ok {
					t.Fatalf("kernel item not found: %v", eItem.id)
				}
				if !sameSymbols(item.lookAhead.symbols, eItem.lookAhead.symbols) {
					t.Errorf("unexpected look-ahead symbols of %v; want: %v, got: %v", eItem.id, eItem.lookAhead.symbols, item.lookAhead.symbols)
				}
			}

			if len(state.next) != len(eState.nextStates) {
				t.Errorf("unexpected transition count; want: %v, got: %v", len(eState.nextStates), len(state.next))
			}
			for sym, eItems := range eState.nextStates {
				want := mustKernel(t, eItems).id
				if got, ok := state.next[sym]; !ok || got != want {
					t.Errorf("unexpected transition by %v; want: %v, got: %v", sym, want, got)
				}
			}

			if len(state.reducible) != len(eState.reducibleProds) {
				t.Errorf("unexpected reducible production count; want: %v, got: %v", len(eState.reducibleProds), len(state.reducible))
			}
			for _, eProd := range eState.reducibleProds {
				if _, ok := state.reducible[eProd.id]; !ok {
					t.Errorf("reducible production not found: %v", eProd.id)
				}
			}

			if len(state.emptyProdItems) != len(eState.emptyProdItems) {
				t.Errorf("unexpected empty production item count; want: %v, got: %v", len(eState.emptyProdItems), len(state.emptyProdItems))
			}
			for _, eItem := range eState.emptyProdItems {
				if _, ok := state.findEmptyProdItem(eItem.id); !ok {
					t.Errorf("empty production item not found: %v", eItem.id)
				}
			}

			if state.isErrorTrapper != eState.errorTrapper {
				t.Errorf("unexpected error trapper flag; want: %v, got: %v", eState.errorTrapper, state.isErrorTrapper)
			}
		})
	}
}

func sameSymbols(a, b map[symbol.Symbol]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for sym := range b {
		if _, ok := a[sym]; !ok {
			return false
		}
	}
	return true
}
