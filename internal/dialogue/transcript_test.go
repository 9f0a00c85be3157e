package dialogue

import "testing"

func TestTranscript_AppendOrder(t *testing.T) {
	var tr Transcript
	tr.Append(Turn{Role: RoleUser, Content: "a"})
	tr.Append(Turn{Role: RoleAssistant, Content: "b"}, Turn{Role: RoleAssistant, Content: "c"})

	got := tr.Turns()
	if len(got) != 3 || tr.Len() != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for i, want := range []string{"a", "b", "c"} {
		if got[i].Content != want {
			t.Errorf("turn %d = %q, want %q", i, got[i].Content, want)
		}
	}
	if last, ok := tr.Last(); !ok || last.Content != "c" {
		t.Errorf("Last = %+v, %v", last, ok)
	}
}

func TestTranscript_ArtifactsCopied(t *testing.T) {
	artifacts := map[string]any{"file": "main.go"}
	var tr Transcript
	tr.Append(Turn{Role: RoleUser, Content: "x", Artifacts: artifacts})

	artifacts["file"] = "changed.go"
	out := tr.Turns()
	out[0].Artifacts["file"] = "also-changed.go"

	if got := tr.Turns()[0].Artifacts["file"]; got != "main.go" {
		t.Errorf("artifact = %v, want main.go", got)
	}
}

func TestThreadID(t *testing.T) {
	if _, ok := NoThread().Get(); ok {
		t.Error("NoThread should be absent")
	}
	if Thread("").Present() {
		t.Error("empty id should be absent")
	}
	if id, ok := Thread("t1").Get(); !ok || id != "t1" {
		t.Errorf("Thread(t1).Get() = %q, %v", id, ok)
	}
	if NoThread().String() != "<unbound>" {
		t.Errorf("String = %q", NoThread().String())
	}
}
