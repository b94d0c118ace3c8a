package harness

import (
	"fmt"
	"strings"
)

// EvaluateAssertions checks every assertion against the result and returns
// one message per failure. All assertions are evaluated (no fail-fast), so a
// failing scenario reports everything that is wrong at once.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var failures []string
	for i, a := range assertions {
		if msg := evaluateAssertion(result, &a); msg != "" {
			failures = append(failures, fmt.Sprintf("assertions[%d] (%s): %s", i, a.Type, msg))
		}
	}
	return failures
}

func evaluateAssertion(result *Result, a *Assertion) string {
	switch a.Type {
	case AssertPassCount:
		return assertPassCount(result, a)
	case AssertChangedCount:
		return assertChangedCount(result, a)
	case AssertFinalActive:
		return assertFinalActive(result, a)
	case AssertFinalActiveCount:
		return assertFinalActiveCount(result, a)
	default:
		return fmt.Sprintf("unknown assertion type %q", a.Type)
	}
}

func assertPassCount(result *Result, a *Assertion) string {
	count := 0
	for _, p := range result.Trace {
		if a.View == "" || p.View == a.View {
			count++
		}
	}
	if count != a.Count {
		return fmt.Sprintf("expected %d passes%s, got %d", a.Count, viewSuffix(a.View), count)
	}
	return ""
}

func assertChangedCount(result *Result, a *Assertion) string {
	count := 0
	for _, p := range result.Trace {
		if p.Changed && (a.View == "" || p.View == a.View) {
			count++
		}
	}
	if count != a.Count {
		return fmt.Sprintf("expected %d changed passes%s, got %d", a.Count, viewSuffix(a.View), count)
	}
	return ""
}

func assertFinalActive(result *Result, a *Assertion) string {
	actual, ok := result.FinalActive[a.View]
	if !ok {
		return fmt.Sprintf("view %q has no condition list", a.View)
	}
	if !equalIDs(actual, a.Items) {
		return fmt.Sprintf("expected active [%s], got [%s]",
			strings.Join(a.Items, ", "), strings.Join(actual, ", "))
	}
	return ""
}

func assertFinalActiveCount(result *Result, a *Assertion) string {
	actual, ok := result.FinalActive[a.View]
	if !ok {
		return fmt.Sprintf("view %q has no condition list", a.View)
	}
	if len(actual) != a.Count {
		return fmt.Sprintf("expected %d active items, got %d [%s]",
			a.Count, len(actual), strings.Join(actual, ", "))
	}
	return ""
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func viewSuffix(view string) string {
	if view == "" {
		return ""
	}
	return fmt.Sprintf(" for view %q", view)
}
