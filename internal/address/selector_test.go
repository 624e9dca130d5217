package address

import (
	"testing"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/stretchr/testify/assert"
)

var (
	home   = domain.Address{ID: "a1", Text: "1 Main St"}
	office = domain.Address{ID: "a2", Text: "42 Work Ave"}
	cabin  = domain.Address{ID: "a3", Text: "Lake Rd"}
)

func TestSelector_InitialState(t *testing.T) {
	s := NewSelector()
	sel := s.Selection()
	assert.Empty(t, sel.Addresses)
	assert.False(t, sel.HasSelection())
}

func TestSelector_SelectUnknownIsNoop(t *testing.T) {
	s := NewSelector()
	s.Load([]domain.Address{home})

	assert.False(t, s.Select("missing"))
	assert.Equal(t, "", s.SelectedID())

	assert.True(t, s.Select("a1"))
	assert.False(t, s.Select("missing"))
	assert.Equal(t, "a1", s.SelectedID())
}

func TestSelector_SelectIsScalar(t *testing.T) {
	s := NewSelector()
	s.Load([]domain.Address{home, office})

	s.Select("a1")
	s.Select("a2")

	assert.Equal(t, "a2", s.SelectedID())
}

func TestSelector_Load(t *testing.T) {
	tests := []struct {
		name     string
		selected string
		reload   []domain.Address
		want     string
	}{
		{"selection kept when present", "a2", []domain.Address{office, cabin}, "a2"},
		{"selection reset when absent", "a1", []domain.Address{office, cabin}, ""},
		{"empty reload resets", "a1", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSelector()
			s.Load([]domain.Address{home, office})
			s.Select(tt.selected)

			s.Load(tt.reload)

			assert.Equal(t, tt.want, s.SelectedID())
			assert.Equal(t, len(tt.reload), len(s.Selection().Addresses))
		})
	}
}

func TestSelector_AddAdoptsAuthoritativeList(t *testing.T) {
	s := NewSelector()
	s.Load([]domain.Address{home})
	s.Select("a1")

	// the server's list wins, including its order
	s.Add([]domain.Address{office, home})

	sel := s.Selection()
	assert.Equal(t, []domain.Address{office, home}, sel.Addresses)
	assert.Equal(t, "a1", sel.SelectedID)
}

func TestSelector_RemoveSelectedClearsSelection(t *testing.T) {
	for _, selected := range []string{"a1", "a2", "a3"} {
		t.Run(selected, func(t *testing.T) {
			s := NewSelector()
			s.Load([]domain.Address{home, office, cabin})
			s.Select(selected)

			var rest []domain.Address
			for _, a := range []domain.Address{home, office, cabin} {
				if a.ID != selected {
					rest = append(rest, a)
				}
			}
			s.Remove(selected, rest)

			assert.Equal(t, "", s.SelectedID())
			assert.Len(t, s.Selection().Addresses, 2)
		})
	}
}

func TestSelector_RemoveOtherKeepsSelection(t *testing.T) {
	s := NewSelector()
	s.Load([]domain.Address{home, office})
	s.Select("a1")

	s.Remove("a2", []domain.Address{home})

	assert.Equal(t, "a1", s.SelectedID())
}

func TestSelector_SelectionIsSnapshot(t *testing.T) {
	s := NewSelector()
	s.Load([]domain.Address{home})

	sel := s.Selection()
	sel.Addresses[0].Text = "changed"

	assert.Equal(t, "1 Main St", s.Selection().Addresses[0].Text)
}
