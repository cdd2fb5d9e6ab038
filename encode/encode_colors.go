package encode

import (
	"io"

	"github.com/fatih/color"
)

// Colors configures terminal coloring of encoded output.  A nil
// *Colors encodes plainly.
type Colors struct {
	Key    *color.Color
	String *color.Color
	Number *color.Color
	Bool   *color.Color
	Null   *color.Color
}

func NewColors() *Colors {
	return &Colors{
		Key:    color.New(color.FgCyan),
		String: color.New(color.FgGreen),
		Number: color.New(color.FgYellow),
		Bool:   color.New(color.FgMagenta),
		Null:   color.New(color.Faint),
	}
}

func (c *Colors) key() *color.Color {
	if c == nil {
		return nil
	}
	return c.Key
}

func (c *Colors) str() *color.Color {
	if c == nil {
		return nil
	}
	return c.String
}

func (c *Colors) number() *color.Color {
	if c == nil {
		return nil
	}
	return c.Number
}

func (c *Colors) boolean() *color.Color {
	if c == nil {
		return nil
	}
	return c.Bool
}

func (c *Colors) null() *color.Color {
	if c == nil {
		return nil
	}
	return c.Null
}

func writeColored(w io.Writer, c *color.Color, s string) error {
	if c == nil {
		_, err := io.WriteString(w, s)
		return err
	}
	_, err := io.WriteString(w, c.Sprint(s))
	return err
}
