package semantic_test

import (
	"sort"
	"strings"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/stretchr/testify/require"

	"github.com/txta-lang/txtacheck/build"
	"github.com/txta-lang/txtacheck/eval"
	"github.com/txta-lang/txtacheck/parse"
	"github.com/txta-lang/txtacheck/semantic"
	"github.com/txta-lang/txtacheck/source"
)

// checkSource runs one source document through the full classic-dialect
// pipeline and returns the non-warning diagnostic messages, sorted for
// deterministic comparison.
func checkSource(t *testing.T, src string) []string {
	t.Helper()
	list := source.FromBuffer("scenario.xta", []byte(src))
	f, ok := parse.Parse(list, list)
	require.True(t, ok, "parse failed: %v", list.Diagnostics())
	sys, _ := build.Build(f, list)
	require.NotNil(t, sys)
	ev := eval.NewInterpreter(sys, 256)
	semantic.Check(sys, list, ev)

	var msgs []string
	for _, d := range list.Diagnostics() {
		if !d.Warning {
			msgs = append(msgs, d.Msg)
		}
	}
	sort.Strings(msgs)
	return msgs
}

// requireExactly asserts got equals exactly the expected message set,
// printing a unified diff (via go-difflib) on mismatch instead of Go's
// default slice dump, since diagnostic-message diffs are easier to read
// as text.
func requireExactly(t *testing.T, want, got []string) {
	t.Helper()
	if diffStrings(want, got) == "" {
		return
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(strings.Join(want, "\n")),
		B:        difflib.SplitLines(strings.Join(got, "\n")),
		FromFile: "want",
		ToFile:   "got",
		Context:  3,
	})
	require.NoError(t, err)
	t.Fatalf("diagnostic mismatch:\n%s", diff)
}

func diffStrings(a, b []string) string {
	if len(a) != len(b) {
		return "length"
	}
	for i := range a {
		if a[i] != b[i] {
			return "content"
		}
	}
	return ""
}

func TestScenarioUrgentClockGuard(t *testing.T) {
	got := checkSource(t, `
urgent chan a;
clock x;
process P() {
 state S, T;
 init S;
 S -> T { x > 5; a!; };
}
P1 = P();
system P1;
`)
	requireExactly(t, []string{"Clock guards are not allowed on urgent transitions."}, got)
}

func TestScenarioBroadcastReceiveClockGuard(t *testing.T) {
	got := checkSource(t, `
broadcast chan b;
clock x;
process P() {
 state S, T;
 init S;
 S -> T { x >= 1; b?; };
}
P1 = P();
system P1;
`)
	requireExactly(t, []string{"Clock guards are not allowed on broadcast receivers."}, got)
}

func TestScenarioOutOfRangeInitialiser(t *testing.T) {
	got := checkSource(t, "int[0,10] v = 42;\n")
	requireExactly(t, []string{"Initialiser is out of range"}, got)
}

func TestScenarioExcessArrayElements(t *testing.T) {
	got := checkSource(t, "int[0,10] a[2] = {1, 2, 3};\n")
	requireExactly(t, []string{"Excess elements in array initialiser"}, got)
}

func TestScenarioReferenceParameterWithNonLHS(t *testing.T) {
	got := checkSource(t, `
process T(int &x) {
 state S;
 init S;
}
T1 = T(1+2);
system T1;
`)
	requireExactly(t, []string{"Reference parameter requires left value argument"}, got)
}

func TestScenarioLeadsToNonConstraint(t *testing.T) {
	got := checkSource(t, `
chan ch;
process P() {
 state S;
 init S;
}
P1 = P();
system P1;
ch --> 3+4
`)
	requireExactly(t, []string{"Property must be a constraint"}, got)
}

func TestScenarioChannelCapabilityDowngrade(t *testing.T) {
	got := checkSource(t, `
chan c;
process T(broadcast chan &p) {
 state S;
 init S;
}
T1 = T(c);
system T1;
`)
	requireExactly(t, nil, got)
}

func TestScenarioChannelCapabilityUpgradeRejected(t *testing.T) {
	got := checkSource(t, `
urgent chan c;
process T(chan &p) {
 state S;
 init S;
}
T1 = T(c);
system T1;
`)
	requireExactly(t, []string{"Incompatible channel type"}, got)
}
