package ambiguity

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSummarize_GroupsInFirstSeenOrder(t *testing.T) {
	a := Finding{Category: CategoryVagueness, Message: "a"}
	b := Finding{Category: CategoryErrorHandling, Message: "b"}

	got := Summarize([]Finding{a, b, a, a})
	want := []SummaryItem{
		{Category: CategoryVagueness, Message: "a", Count: 3},
		{Category: CategoryErrorHandling, Message: "b", Count: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Summarize mismatch (-want +got):\n%s", diff)
	}
}

func TestSummarize_SameMessageDifferentCategory(t *testing.T) {
	got := Summarize([]Finding{
		{Category: CategoryVagueness, Message: "x"},
		{Category: CategoryCompatibility, Message: "x"},
	})
	if len(got) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(got))
	}
}

func TestLimit(t *testing.T) {
	findings := Detect("latency should be fast")

	tests := []struct {
		max  int
		want int
	}{
		{max: 0, want: 3},
		{max: -1, want: 3},
		{max: 2, want: 2},
		{max: 3, want: 3},
		{max: 10, want: 3},
	}
	for _, tt := range tests {
		if got := Limit(findings, tt.max); len(got) != tt.want {
			t.Errorf("Limit(max=%d) len = %d, want %d", tt.max, len(got), tt.want)
		}
	}
}

func TestQuestions(t *testing.T) {
	qs, raised := Questions(Detect("may fail unexpectedly"))
	if !raised {
		t.Fatal("expected a question to be raised")
	}
	if diff := cmp.Diff([]string{"Error scenario mentioned without behavior. What should happen on failure?"}, qs); diff != "" {
		t.Errorf("Questions mismatch (-want +got):\n%s", diff)
	}

	qs, raised = Questions(Detect(""))
	if raised {
		t.Error("empty text should not raise questions")
	}
	if diff := cmp.Diff([]string{ProceedQuestion}, qs); diff != "" {
		t.Errorf("Questions mismatch (-want +got):\n%s", diff)
	}
}

func TestBulletList(t *testing.T) {
	if got := BulletList([]string{"one", "two"}); got != "- one\n- two" {
		t.Errorf("BulletList = %q", got)
	}
	if got := BulletList(nil); got != "" {
		t.Errorf("BulletList(nil) = %q, want empty", got)
	}
}
