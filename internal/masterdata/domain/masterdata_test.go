package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/cineshelf/cineshelf/pkg/apperror"
)

func TestPersonNormalizeAndValidate(t *testing.T) {
	t.Run("trims the name", func(t *testing.T) {
		actor := &Actor{Person: Person{Name: "  Cate Blanchett  "}}
		actor.Normalize()
		if actor.Name != "Cate Blanchett" {
			t.Errorf("name = %q, want trimmed", actor.Name)
		}
	})

	t.Run("requires a name", func(t *testing.T) {
		actor := &Actor{}
		if err := actor.Validate(); !apperror.Is(err, apperror.KindValidation) {
			t.Errorf("error kind = %v, want validation", apperror.KindOf(err))
		}
	})

	t.Run("caps the bio", func(t *testing.T) {
		actor := &Actor{Person: Person{Name: "X", Bio: strings.Repeat("a", 1001)}}
		if err := actor.Validate(); !apperror.Is(err, apperror.KindValidation) {
			t.Errorf("error kind = %v, want validation", apperror.KindOf(err))
		}
	})
}

func TestPersonApplyUpdate(t *testing.T) {
	born := time.Date(1970, 3, 1, 0, 0, 0, 0, time.UTC)
	target := &Director{Person: Person{Name: "Old Name", Bio: "old bio", Nationality: "FR"}}
	src := &Director{Person: Person{Name: "New Name", DateOfBirth: &born}}

	target.ApplyUpdate(src)

	if target.Name != "New Name" {
		t.Errorf("name = %q, want New Name", target.Name)
	}
	if target.Bio != "old bio" {
		t.Errorf("bio = %q, want unchanged", target.Bio)
	}
	if target.Nationality != "FR" {
		t.Errorf("nationality = %q, want unchanged", target.Nationality)
	}
	if target.DateOfBirth == nil || !target.DateOfBirth.Equal(born) {
		t.Error("date of birth not applied")
	}
}

func TestPhotoURL(t *testing.T) {
	t.Run("keeps a stored photo", func(t *testing.T) {
		if got := PhotoURL("Cate Blanchett", "https://cdn.example.com/cate.jpg"); got != "https://cdn.example.com/cate.jpg" {
			t.Errorf("photo url = %q, want the stored photo", got)
		}
	})

	t.Run("generates an avatar when empty", func(t *testing.T) {
		got := PhotoURL("Cate Blanchett", "")
		if !strings.Contains(got, "ui-avatars.com") || !strings.Contains(got, "Cate+Blanchett") {
			t.Errorf("photo url = %q, want a generated avatar for the name", got)
		}
	})

	t.Run("AfterFind applies the same fallback", func(t *testing.T) {
		actor := &Actor{Person: Person{Name: "Tilda Swinton"}}
		if err := actor.AfterFind(nil); err != nil {
			t.Fatalf("AfterFind() error = %v", err)
		}
		if actor.PhotoURL != PhotoURL("Tilda Swinton", "") {
			t.Errorf("photo url = %q, want the generated avatar", actor.PhotoURL)
		}
	})
}

func TestGenreNormalize(t *testing.T) {
	genre := &Genre{Name: "  Science Fiction "}
	genre.Normalize()
	if genre.Name != "science fiction" {
		t.Errorf("name = %q, want lowercased and trimmed", genre.Name)
	}
}

func TestGenreApplyUpdate(t *testing.T) {
	target := &Genre{Name: "drama", Description: "serious stuff"}
	target.ApplyUpdate(&Genre{Description: "very serious stuff"})

	if target.Name != "drama" {
		t.Errorf("name = %q, want unchanged", target.Name)
	}
	if target.Description != "very serious stuff" {
		t.Errorf("description = %q, want updated", target.Description)
	}
}

func TestEntityConfigs(t *testing.T) {
	tests := []struct {
		cfg       Config
		wantCol   string
		wantArray bool
	}{
		{ActorConfig, "cast_ids", true},
		{DirectorConfig, "director_id", false},
		{WriterConfig, "writer_ids", true},
		{GenreConfig, "genre_ids", true},
	}

	for _, tt := range tests {
		t.Run(tt.cfg.Plural, func(t *testing.T) {
			if tt.cfg.MovieColumn != tt.wantCol {
				t.Errorf("movie column = %q, want %q", tt.cfg.MovieColumn, tt.wantCol)
			}
			if tt.cfg.MovieArray != tt.wantArray {
				t.Errorf("movie array = %v, want %v", tt.cfg.MovieArray, tt.wantArray)
			}
		})
	}
}
