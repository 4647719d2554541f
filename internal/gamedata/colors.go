package gamedata

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// RoomStyle is the map glyph and color for one room type.
type RoomStyle struct {
	Type  string `json:"type"`  // Room type name (e.g., "MINI_BOSS")
	Name  string `json:"name"`  // Display name
	Glyph string `json:"glyph"` // Single character drawn on the map
	Color string `json:"color"` // Hex color code
	Hint  string `json:"hint"`  // One-line rule summary shown in the room panel
}

// GlyphRune returns the glyph as a rune for rendering.
func (s RoomStyle) GlyphRune() rune {
	if len(s.Glyph) == 0 {
		return '?'
	}
	return rune(s.Glyph[0])
}

// TCellColor returns the color as a tcell.Color, white if unparsable.
func (s RoomStyle) TCellColor() tcell.Color {
	color, err := ParseHexColor(s.Color)
	if err != nil {
		return tcell.ColorWhite
	}
	return color
}

// RoomsFile represents the structure of rooms.json.
type RoomsFile struct {
	Rooms []RoomStyle `json:"rooms"`
}

// LoadRoomStyles loads room styles keyed by room type.
func LoadRoomStyles() (map[string]RoomStyle, error) {
	file, err := load[RoomsFile]("rooms.json")
	if err != nil {
		return nil, err
	}
	styles := make(map[string]RoomStyle, len(file.Rooms))
	for _, s := range file.Rooms {
		styles[s.Type] = s
	}
	return styles, nil
}

// ParseHexColor converts a hex color string (e.g., "#FF0000" or "FF0000") to a tcell.Color.
func ParseHexColor(hex string) (tcell.Color, error) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return tcell.ColorDefault, fmt.Errorf("invalid hex color length: %s", hex)
	}

	rgb, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return tcell.ColorDefault, fmt.Errorf("invalid hex color %s: %w", hex, err)
	}

	return tcell.NewRGBColor(int32(rgb>>16&0xFF), int32(rgb>>8&0xFF), int32(rgb&0xFF)), nil
}
