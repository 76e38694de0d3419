package resolver

import (
	"encoding/json"
	"testing"

	"github.com/cineshelf/cineshelf/pkg/apperror"
)

// fakeSource records created names and serves a fixed id set.
type fakeSource struct {
	existing map[uint]bool
	byName   map[string]uint
	nextID   uint
	created  []string
}

func newFakeSource(ids ...uint) *fakeSource {
	existing := make(map[uint]bool, len(ids))
	for _, id := range ids {
		existing[id] = true
	}
	return &fakeSource{existing: existing, byName: map[string]uint{}, nextID: 100}
}

func (f *fakeSource) Exists(id uint) (bool, error) {
	return f.existing[id], nil
}

func (f *fakeSource) FindOrCreate(in RefInput, userID uint) (uint, error) {
	if id, ok := f.byName[in.Name]; ok {
		return id, nil
	}
	f.nextID++
	f.byName[in.Name] = f.nextID
	f.existing[f.nextID] = true
	f.created = append(f.created, in.Name)
	return f.nextID, nil
}

func TestResolveOne(t *testing.T) {
	t.Run("accepts existing id", func(t *testing.T) {
		src := newFakeSource(7)
		id, err := ResolveOne(src, "director", RefInput{ID: 7}, 1)
		if err != nil {
			t.Fatalf("ResolveOne() error = %v", err)
		}
		if id != 7 {
			t.Errorf("id = %d, want 7", id)
		}
	})

	t.Run("rejects unknown id naming the field", func(t *testing.T) {
		src := newFakeSource()
		_, err := ResolveOne(src, "director", RefInput{ID: 99}, 1)
		if !apperror.Is(err, apperror.KindValidation) {
			t.Fatalf("error kind = %v, want validation", apperror.KindOf(err))
		}
		appErr := err.(*apperror.Error)
		if len(appErr.Fields) != 1 || appErr.Fields[0] != "director" {
			t.Errorf("fields = %v, want [director]", appErr.Fields)
		}
	})

	t.Run("creates by name", func(t *testing.T) {
		src := newFakeSource()
		id, err := ResolveOne(src, "director", RefInput{Name: "Denis Villeneuve"}, 1)
		if err != nil {
			t.Fatalf("ResolveOne() error = %v", err)
		}
		if id == 0 {
			t.Error("id = 0 after create")
		}
		if len(src.created) != 1 {
			t.Errorf("created %d records, want 1", len(src.created))
		}
	})

	t.Run("reuses existing name", func(t *testing.T) {
		src := newFakeSource()
		first, _ := ResolveOne(src, "director", RefInput{Name: "Greta Gerwig"}, 1)
		second, err := ResolveOne(src, "director", RefInput{Name: "Greta Gerwig"}, 2)
		if err != nil {
			t.Fatalf("ResolveOne() error = %v", err)
		}
		if first != second {
			t.Errorf("second resolve created a new record: %d != %d", first, second)
		}
	})

	t.Run("rejects empty input", func(t *testing.T) {
		src := newFakeSource()
		if _, err := ResolveOne(src, "director", RefInput{}, 1); !apperror.Is(err, apperror.KindValidation) {
			t.Errorf("error kind = %v, want validation", apperror.KindOf(err))
		}
	})
}

func TestResolveMany(t *testing.T) {
	t.Run("preserves order and duplicates", func(t *testing.T) {
		src := newFakeSource(1, 2)
		ids, err := ResolveMany(src, "cast", []RefInput{{ID: 2}, {ID: 1}, {ID: 2}}, 1)
		if err != nil {
			t.Fatalf("ResolveMany() error = %v", err)
		}
		want := []int64{2, 1, 2}
		if len(ids) != len(want) {
			t.Fatalf("len = %d, want %d", len(ids), len(want))
		}
		for i := range want {
			if ids[i] != want[i] {
				t.Errorf("ids[%d] = %d, want %d", i, ids[i], want[i])
			}
		}
	})

	t.Run("fails fast on bad reference", func(t *testing.T) {
		src := newFakeSource(1)
		_, err := ResolveMany(src, "cast", []RefInput{{ID: 1}, {ID: 999}}, 1)
		if !apperror.Is(err, apperror.KindValidation) {
			t.Errorf("error kind = %v, want validation", apperror.KindOf(err))
		}
	})

	t.Run("empty list resolves to empty array", func(t *testing.T) {
		src := newFakeSource()
		ids, err := ResolveMany(src, "cast", nil, 1)
		if err != nil {
			t.Fatalf("ResolveMany() error = %v", err)
		}
		if len(ids) != 0 {
			t.Errorf("len = %d, want 0", len(ids))
		}
	})
}

func TestRefInputUnmarshal(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantID   uint
		wantName string
		wantErr  bool
	}{
		{"number", `5`, 5, "", false},
		{"numeric string", `"12"`, 12, "", false},
		{"object with id", `{"id":3}`, 3, "", false},
		{"object with name", `{"name":"Drama"}`, 0, "Drama", false},
		{"non-numeric string", `"Drama"`, 0, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var in RefInput
			err := json.Unmarshal([]byte(tt.input), &in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if in.ID != tt.wantID || in.Name != tt.wantName {
				t.Errorf("got id=%d name=%q, want id=%d name=%q", in.ID, in.Name, tt.wantID, tt.wantName)
			}
		})
	}
}
