package storage

import "testing"

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	tests := []struct {
		got, want string
	}{
		{k.Prefix(), "flowchart:"},
		{k.DocumentPrefix("roadmap"), "flowchart:roadmap:"},
		{k.NodesKey("roadmap"), "flowchart:roadmap:nodes"},
		{k.EdgesKey("roadmap"), "flowchart:roadmap:edges"},
		{k.TitleKey("roadmap"), "flowchart:roadmap:title"},
		{k.CounterKey("roadmap"), "flowchart:roadmap:counter"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}

func TestScopedKeyer(t *testing.T) {
	k := NewScopedKeyer(NewDefaultKeyer(), "team:42:")

	if got := k.NodesKey("roadmap"); got != "team:42:flowchart:roadmap:nodes" {
		t.Errorf("NodesKey = %q", got)
	}
	if got := k.Prefix(); got != "team:42:flowchart:" {
		t.Errorf("Prefix = %q", got)
	}

	// Nil inner falls back to the default keyer.
	if got := NewScopedKeyer(nil, "p:").TitleKey("d"); got != "p:flowchart:d:title" {
		t.Errorf("nil inner TitleKey = %q", got)
	}
}

func TestDocumentFromKey(t *testing.T) {
	def := NewDefaultKeyer()
	scoped := NewScopedKeyer(nil, "team:42:")

	tests := []struct {
		name   string
		keyer  Keyer
		key    string
		want   string
		wantOK bool
	}{
		{"nodes", def, "flowchart:roadmap:nodes", "roadmap", true},
		{"counter", def, "flowchart:a.b-c:counter", "a.b-c", true},
		{"unknown suffix", def, "flowchart:roadmap:extra", "", false},
		{"foreign prefix", def, "session:abc", "", false},
		{"no doc", def, "flowchart::nodes", "", false},
		{"scoped", scoped, "team:42:flowchart:plan:edges", "plan", true},
		{"other tenant", scoped, "team:7:flowchart:plan:edges", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DocumentFromKey(tt.keyer, tt.key)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("DocumentFromKey(%q) = %q, %v; want %q, %v", tt.key, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
