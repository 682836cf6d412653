package windowmodel

import "testing"

func TestMatchesClassExact(t *testing.T) {
	w := Window{Class: "firefox"}
	if !w.Matches(FloatRule{Field: RuleClass, Pattern: "firefox"}) {
		t.Fatalf("expected exact class match")
	}
	if w.Matches(FloatRule{Field: RuleClass, Pattern: "fire"}) {
		t.Fatalf("class matching must be exact, not substring")
	}
}

func TestMatchesTitleSubstring(t *testing.T) {
	w := Window{Title: "Inbox - Mail Client"}
	if !w.Matches(FloatRule{Field: RuleTitle, Pattern: "Inbox"}) {
		t.Fatalf("expected substring title match")
	}
	if w.Matches(FloatRule{Field: RuleTitle, Pattern: "Outbox"}) {
		t.Fatalf("unexpected title match")
	}
}

func TestMatchesExeExact(t *testing.T) {
	w := Window{Exe: "gimp"}
	if !w.Matches(FloatRule{Field: RuleExe, Pattern: "gimp"}) {
		t.Fatalf("expected exact exe match")
	}
}

func TestApplyFloatRulesSetsFloatingOnFirstMatch(t *testing.T) {
	w := Window{Class: "firefox", Title: "t", Exe: "firefox"}
	rules := []FloatRule{
		{Field: RuleClass, Pattern: "chrome"},
		{Field: RuleClass, Pattern: "firefox"},
	}
	if !w.ApplyFloatRules(rules) {
		t.Fatalf("expected a rule to match")
	}
	if !w.Floating {
		t.Fatalf("expected Floating to be set")
	}
}

func TestApplyFloatRulesNoMatch(t *testing.T) {
	w := Window{Class: "xterm"}
	rules := []FloatRule{{Field: RuleClass, Pattern: "gimp"}}
	if w.ApplyFloatRules(rules) {
		t.Fatalf("did not expect a match")
	}
	if w.Floating {
		t.Fatalf("Floating should remain false")
	}
}

func TestExeBasename(t *testing.T) {
	if got := ExeBasename("/usr/bin/firefox"); got != "firefox" {
		t.Fatalf("got %q, want firefox", got)
	}
}
