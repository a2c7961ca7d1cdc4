package writer

// strokeCounts covers the bundled curriculum. Other glyphs use
// defaultStrokes.
var strokeCounts = map[string]int{
	"一": 1, "二": 2, "三": 3, "四": 5,
	"天": 4, "地": 6, "人": 2, "火": 4,
	"日": 4, "月": 4, "星": 9, "云": 4,
	"风": 4, "雨": 8, "雷": 13, "电": 5,
	"雪": 11, "霜": 17, "雾": 13, "山": 3,
	"石": 5, "田": 5, "土": 3, "江": 6,
	"河": 8, "湖": 12, "海": 10, "水": 4,
	"口": 3, "耳": 6, "目": 5, "手": 4,
	"足": 7, "头": 5, "发": 5, "牙": 4,
	"舌": 6, "眉": 9, "鼻": 14, "唇": 10,
	"脸": 11, "心": 4, "身": 7, "走": 7,
	"跑": 12, "跳": 13, "飞": 3, "站": 10,
	"你": 7, "我": 7, "他": 5, "她": 6,
	"爸": 8, "妈": 6, "爷": 6, "奶": 5,
	"哥": 10, "弟": 7, "姐": 8, "妹": 8,
	"叔": 8, "姨": 9, "男": 7, "女": 3,
	"老": 6, "幼": 5, "生": 5, "师": 6,
}

const defaultStrokes = 4

// Strokes returns the stroke count of glyph.
func Strokes(glyph string) int {
	if n, ok := strokeCounts[glyph]; ok {
		return n
	}
	return defaultStrokes
}
