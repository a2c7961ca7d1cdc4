package curriculum

import "unicode/utf8"

// Character is one teachable glyph with its reading and example words.
type Character struct {
	ID     int      `yaml:"id" json:"id"`
	Char   string   `yaml:"char" json:"char"`
	Pinyin string   `yaml:"pinyin" json:"pinyin"`
	Group  string   `yaml:"group" json:"group,omitempty"`
	Words  []string `yaml:"words" json:"words"`
	Tint   string   `yaml:"tint" json:"tint,omitempty"`
	Image  string   `yaml:"image" json:"image,omitempty"`
}

// Page is a single illustrated page of a story.
type Page struct {
	Image string `yaml:"image" json:"image"`
	Text  string `yaml:"text" json:"text"`
}

// Story is an ordered sequence of pages.
type Story struct {
	Title string `yaml:"title" json:"title"`
	Pages []Page `yaml:"pages" json:"pages"`
}

// TotalChars returns the number of runes across all page texts,
// punctuation included.
func (s Story) TotalChars() int {
	n := 0
	for _, p := range s.Pages {
		n += utf8.RuneCountInString(p.Text)
	}
	return n
}

// Level is one curriculum unit: a fixed character set and its story.
type Level struct {
	ID         int         `yaml:"id"`
	Title      string      `yaml:"title"`
	Icon       string      `yaml:"icon"`
	Characters []Character `yaml:"characters"`
	Story      Story       `yaml:"story"`
}

// Contains reports whether the level teaches the character with id.
func (l Level) Contains(id int) bool {
	for _, c := range l.Characters {
		if c.ID == id {
			return true
		}
	}
	return false
}

// Achievement is a reward granted once the treasure count reaches Threshold.
type Achievement struct {
	ID          int    `yaml:"id"`
	Threshold   int    `yaml:"threshold"`
	Name        string `yaml:"name"`
	Icon        string `yaml:"icon"`
	Description string `yaml:"description"`
}
