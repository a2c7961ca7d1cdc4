package session

// Stage is the top-level mode of the controller. Exactly one is active.
type Stage int

const (
	StageMap        Stage = iota // level map, no current level
	StageLearn                   // flashcards of the current level
	StageChallenge               // recall game over the current level
	StageStory                   // reading a curriculum or composed story
	StageCollection              // treasure box and saved stories
	StageCompose                 // picking treasures for a new story
)

func (s Stage) String() string {
	switch s {
	case StageMap:
		return "map"
	case StageLearn:
		return "learn"
	case StageChallenge:
		return "challenge"
	case StageStory:
		return "story"
	case StageCollection:
		return "collection"
	case StageCompose:
		return "compose"
	}
	return "unknown"
}

// Spoken lines.
const (
	lineLocked        = "这一关还没解锁哦"
	lineCollection    = "欢迎来到你的汉字宝藏！"
	lineLearnSuffix   = "，开始学习！"
	lineTreasureAdded = "太棒了！放入宝藏箱！"
	lineComposeHint   = "请从宝藏箱里挑 2 到 4 个字，交给魔法师！"
	lineWriterDone    = "写得真棒！"
	linePronounced    = "读对啦！真棒！"
	lineMispronounced = "好像不对哦，再试一次"
	lineUnheard       = "没听清，请大声一点"
)

// Compose selection bounds.
const (
	MinComposeChars = 2
	MaxComposeChars = 4
)
