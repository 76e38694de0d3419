package domain

import (
	"testing"
	"time"

	"github.com/cineshelf/cineshelf/pkg/apperror"
)

func TestMovieValidate(t *testing.T) {
	valid := func() Movie {
		return Movie{
			Title:      "Dune",
			Year:       2021,
			Poster:     "https://example.com/dune.jpg",
			DirectorID: 1,
		}
	}

	t.Run("accepts a complete movie", func(t *testing.T) {
		m := valid()
		if err := m.Validate(); err != nil {
			t.Errorf("Validate() error = %v", err)
		}
	})

	tests := []struct {
		name      string
		mutate    func(*Movie)
		wantField string
	}{
		{"missing title", func(m *Movie) { m.Title = "" }, "title"},
		{"missing poster", func(m *Movie) { m.Poster = "" }, "poster"},
		{"missing director", func(m *Movie) { m.DirectorID = 0 }, "director"},
		{"year too early", func(m *Movie) { m.Year = 1850 }, "year"},
		{"year too late", func(m *Movie) { m.Year = time.Now().Year() + 10 }, "year"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := valid()
			tt.mutate(&m)

			err := m.Validate()
			if !apperror.Is(err, apperror.KindValidation) {
				t.Fatalf("error kind = %v, want validation", apperror.KindOf(err))
			}
			appErr := err.(*apperror.Error)
			if len(appErr.Fields) != 1 || appErr.Fields[0] != tt.wantField {
				t.Errorf("fields = %v, want [%s]", appErr.Fields, tt.wantField)
			}
		})
	}

	t.Run("allows near-future releases", func(t *testing.T) {
		m := valid()
		m.Year = time.Now().Year() + 2
		if err := m.Validate(); err != nil {
			t.Errorf("Validate() error = %v", err)
		}
	})
}
