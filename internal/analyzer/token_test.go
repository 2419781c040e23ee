package analyzer

import "testing"

func TestTokenTablePrefix(t *testing.T) {
	tests := []struct {
		name   string
		names  []string
		want   string
		wantOK bool
	}{
		{
			name:   "episode codes",
			names:  []string{"Show.S01E01.mkv", "Show.S01E02.mkv"},
			want:   "Show ",
			wantOK: true,
		},
		{
			name:   "multi word prefix",
			names:  []string{"Show Name - 01.mkv", "Show Name - 02.mkv", "Show Name - 03.mkv"},
			want:   "Show Name - ",
			wantOK: true,
		},
		{
			name:   "underscores and dots normalize alike",
			names:  []string{"The_Show.01.mkv", "The.Show_02.mkv"},
			want:   "The Show ",
			wantOK: true,
		},
		{
			name:   "single file has no boundary",
			names:  []string{"Show.S01E01.mkv"},
			wantOK: false,
		},
		{
			name:   "first token differs",
			names:  []string{"Alpha.01.mkv", "Beta.02.mkv"},
			wantOK: false,
		},
		{
			name:   "identical names have no unique token",
			names:  []string{"Show.01.mkv", "Show.01.mkv"},
			wantOK: false,
		},
		{
			name:   "empty",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := newTokenTable()
			for _, n := range tt.names {
				table.addName(n)
			}
			got, ok := table.prefix()
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("prefix() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestTokenTableCountsByPosition(t *testing.T) {
	table := newTokenTable()
	table.addName("a.b.a")
	table.addName("b.a.a")

	want := []token{
		{position: 0, word: "a", count: 1},
		{position: 1, word: "b", count: 1},
		{position: 2, word: "a", count: 2},
		{position: 0, word: "b", count: 1},
		{position: 1, word: "a", count: 1},
	}
	if len(table.order) != len(want) {
		t.Fatalf("len(order) = %d, want %d", len(table.order), len(want))
	}
	for i, tok := range table.order {
		if *tok != want[i] {
			t.Errorf("order[%d] = %+v, want %+v", i, *tok, want[i])
		}
	}
}
