// Package tag holds the Tag value object. A tag is identified by its name;
// the color is display metadata that can change without affecting identity.
package tag

import (
	"errors"
	"strings"
)

var ErrEmptyName = errors.New("tag name is empty")

type Tag struct {
	Name  string
	Color Color
}

func New(name string, color Color) Tag {
	return Tag{Name: name, Color: color}
}

// Random creates a tag whose color is drawn from palette.
func Random(name string, palette []Color) Tag {
	return Tag{Name: name, Color: RandomColor(palette)}
}

// ValidateName rejects names that cannot be stored as a tag.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	return nil
}

func (t Tag) String() string {
	return t.Name
}

// Compare orders tags by name, for use with slices.SortFunc.
func Compare(a, b Tag) int {
	return strings.Compare(a.Name, b.Name)
}
