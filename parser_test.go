package simplec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func parseSource(t *testing.T, src string) ([]*Function, *Reporter, error) {
	t.Helper()
	reporter := NewReporter(nil)
	checker := NewChecker(reporter)
	lexer := NewLexer(strings.NewReader(src))
	parser := NewParser(lexer, checker)
	functions, err := parser.Parse()
	return functions, reporter, err
}

func TestParseSimpleFunction(t *testing.T) {
	functions, reporter, err := parseSource(t, `
		int add(int a, int b) {
			return a + b;
		}
	`)
	require.NoError(t, err)
	require.Empty(t, reporter.Messages)
	require.Len(t, functions, 1)
	require.Equal(t, "add", functions[0].Name)
	require.Len(t, functions[0].ParamSyms, 2)
}

func TestParseDeclarationConflict(t *testing.T) {
	_, reporter, err := parseSource(t, `
		int x;
		char x;
	`)
	require.NoError(t, err)
	require.Len(t, reporter.Messages, 1)
	require.Contains(t, reporter.Messages[0], "conflicting")
}

func TestParseVoidObjectGlobal(t *testing.T) {
	_, reporter, err := parseSource(t, `void v;`)
	require.NoError(t, err)
	require.Len(t, reporter.Messages, 1)
	require.Contains(t, reporter.Messages[0], "has type void")
}

func TestParseShadowingInNestedBlock(t *testing.T) {
	functions, reporter, err := parseSource(t, `
		int f() {
			int x;
			{
				int x;
			}
			return x;
		}
	`)
	require.NoError(t, err)
	require.Empty(t, reporter.Messages, "shadowing in a nested block is allowed, unlike redeclaration in the same block")
	require.Len(t, functions, 1)
}

func TestParseRedeclarationInSameBlock(t *testing.T) {
	_, reporter, err := parseSource(t, `
		int f() {
			int x;
			int x;
			return x;
		}
	`)
	require.NoError(t, err)
	require.Len(t, reporter.Messages, 1)
	require.Contains(t, reporter.Messages[0], "redeclaration")
}

func TestParsePointerArithmeticResultType(t *testing.T) {
	functions, reporter, err := parseSource(t, `
		int f(int *p) {
			int *q;
			q = p + 1;
			return *q;
		}
	`)
	require.NoError(t, err)
	require.Empty(t, reporter.Messages)
	require.Len(t, functions, 1)
}

func TestParseSixVersusSevenArgumentCall(t *testing.T) {
	functions, reporter, err := parseSource(t, `
		int sum6(int a, int b, int c, int d, int e, int f) { return a; }
		int sum7(int a, int b, int c, int d, int e, int f, int g) { return a; }
		int caller() {
			return sum6(1,2,3,4,5,6) + sum7(1,2,3,4,5,6,7);
		}
	`)
	require.NoError(t, err)
	require.Empty(t, reporter.Messages)
	require.Len(t, functions, 3)
}

func TestParseUndeclaredIdentifier(t *testing.T) {
	_, reporter, err := parseSource(t, `
		int f() {
			return y;
		}
	`)
	require.NoError(t, err)
	require.Len(t, reporter.Messages, 1)
	require.Contains(t, reporter.Messages[0], "undeclared")
}

func TestParseInvalidReturnType(t *testing.T) {
	_, reporter, err := parseSource(t, `
		int *f() {
			return 1;
		}
	`)
	require.NoError(t, err)
	require.Len(t, reporter.Messages, 1)
	require.Contains(t, reporter.Messages[0], "invalid return type")
}

func TestParseSyntaxErrorOnMissingSemicolon(t *testing.T) {
	_, _, err := parseSource(t, `
		int f() {
			return 1
		}
	`)
	require.Error(t, err)
	_, ok := err.(SyntaxError)
	require.True(t, ok)
}

func TestParseCharacterLiteralTypesAsInt(t *testing.T) {
	functions, reporter, err := parseSource(t, `
		int f() {
			int x;
			x = 'a' + 1;
			return x;
		}
	`)
	require.NoError(t, err)
	require.Empty(t, reporter.Messages, "'a' + 1 must check as numeric + numeric per the CHARACTER specifier quirk")
	require.Len(t, functions, 1)
}

func TestParseArrayDeclarationAndIndex(t *testing.T) {
	functions, reporter, err := parseSource(t, `
		int a[10];
		int f() {
			int x;
			x = a[3];
			return x;
		}
	`)
	require.NoError(t, err)
	require.Empty(t, reporter.Messages)
	require.Len(t, functions, 1)
}

func TestParseArrayIdentifierIsNotAnLvalue(t *testing.T) {
	_, reporter, err := parseSource(t, `
		int a[5];
		int *p;
		void f() {
			p = &a;
		}
	`)
	require.NoError(t, err)
	require.Len(t, reporter.Messages, 1)
	require.Contains(t, reporter.Messages[0], "lvalue required")
}

func TestParseArraySelfAssignmentIsNotAnLvalue(t *testing.T) {
	_, reporter, err := parseSource(t, `
		int a[5];
		void f() {
			a = a;
		}
	`)
	require.NoError(t, err)
	require.Len(t, reporter.Messages, 1)
	require.Contains(t, reporter.Messages[0], "lvalue required")
}

func TestParseNumberClassification(t *testing.T) {
	functions, reporter, err := parseSource(t, `
		long f() {
			return 2147483648;
		}
	`)
	require.NoError(t, err)
	require.Empty(t, reporter.Messages, "a literal above INT_MAX must classify as LONG, compatible with a long return type")
	require.Len(t, functions, 1)
}
