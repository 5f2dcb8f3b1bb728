package gcode

import "strings"

// Profile describes the dialect of a saw controller.
type Profile struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	CommentPrefix string   `json:"comment_prefix"`
	StartCode     []string `json:"start_code"`    // commands at start of file
	EndCode       []string `json:"end_code"`      // commands at end of file, [SafeZ] is replaced
	SpindleStart  string   `json:"spindle_start"` // blade on, e.g. "M3 S%d"
	SpindleStop   string   `json:"spindle_stop"`
	RapidMove     string   `json:"rapid_move"`
	FeedMove      string   `json:"feed_move"`
	Pause         string   `json:"pause"` // operator stop before loading a bar
	DecimalPlaces int      `json:"decimal_places"`
}

// Profiles lists the built-in controller dialects.
var Profiles = []Profile{
	{
		Name:          "Generic",
		Description:   "Plain RS-274 for most saw controllers",
		CommentPrefix: ";",
		StartCode:     []string{"G21", "G90", "G17"},
		EndCode:       []string{"G0 Z[SafeZ]", "M30"},
		SpindleStart:  "M3 S%d",
		SpindleStop:   "M5",
		RapidMove:     "G0",
		FeedMove:      "G1",
		Pause:         "M0",
		DecimalPlaces: 3,
	},
	{
		Name:          "GRBL",
		Description:   "GRBL based saw carriages",
		CommentPrefix: ";",
		StartCode:     []string{"G21", "G90", "G94"},
		EndCode:       []string{"G0 Z[SafeZ]", "M2"},
		SpindleStart:  "M3 S%d",
		SpindleStop:   "M5",
		RapidMove:     "G0",
		FeedMove:      "G1",
		Pause:         "M0",
		DecimalPlaces: 2,
	},
	{
		Name:          "LinuxCNC",
		Description:   "LinuxCNC with parenthesized comments",
		CommentPrefix: "(",
		StartCode:     []string{"G21", "G90", "G64 P0.01"},
		EndCode:       []string{"G0 Z[SafeZ]", "M2"},
		SpindleStart:  "M3 S%d",
		SpindleStop:   "M5",
		RapidMove:     "G0",
		FeedMove:      "G1",
		Pause:         "M1",
		DecimalPlaces: 3,
	},
}

// GetProfile returns the profile with the given name, case-insensitively.
// Unknown names return the Generic profile.
func GetProfile(name string) Profile {
	for _, p := range Profiles {
		if strings.EqualFold(p.Name, name) {
			return p
		}
	}
	return Profiles[0]
}

// ProfileNames returns the names of the built-in profiles.
func ProfileNames() []string {
	names := make([]string, len(Profiles))
	for i, p := range Profiles {
		names[i] = p.Name
	}
	return names
}
