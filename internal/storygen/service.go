// Package storygen composes illustrated stories from a learner's treasures
// with a language model. Generation never fails from the caller's point of
// view: any error yields a fixed fallback story.
package storygen

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"net/url"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/abhisek/zibao/internal/curriculum"
	"github.com/abhisek/zibao/internal/llm"
	"github.com/abhisek/zibao/internal/logging"
)

// FallbackTitle is the title of the story returned when generation fails.
const FallbackTitle = "魔法信号弱"

// Fallback returns the story shown when generation fails.
func Fallback() curriculum.Story {
	return curriculum.Story{
		Title: FallbackTitle,
		Pages: []curriculum.Page{
			{Text: "哎呀，图片加载失败了。", Image: "https://placehold.co/800x600/e2e8f0/ffffff?text=Image+Error"},
			{Text: "但是故事还在哦！", Image: "https://placehold.co/800x600/e2e8f0/ffffff?text=Keep+Reading"},
		},
	}
}

// ImageURL returns a keyword photo URL. lock pins the image so the same
// page does not change on reload.
func ImageURL(keyword string, lock int) string {
	return fmt.Sprintf("https://loremflickr.com/800/600/%s?lock=%d", url.PathEscape(keyword), lock)
}

// Option configures a Service.
type Option func(*Service)

// WithConfig overrides the generation settings.
func WithConfig(cfg Config) Option {
	return func(s *Service) { s.cfg = cfg }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.log = logging.OrNop(l) }
}

// WithLock sets the source of image lock numbers.
func WithLock(fn func() int) Option {
	return func(s *Service) { s.lock = fn }
}

// Service generates stories.
type Service struct {
	provider llm.Provider
	cfg      Config
	lock     func() int
	log      *zap.Logger
}

// NewService creates a Service. A nil provider always yields the fallback.
func NewService(provider llm.Provider, opts ...Option) *Service {
	s := &Service{
		provider: provider,
		cfg:      DefaultConfig(),
		lock:     func() int { return rand.IntN(10000) },
		log:      zap.NewNop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Available reports whether a provider is configured.
func (s *Service) Available() bool { return s.provider != nil }

type storyOutput struct {
	Title string       `json:"title"`
	Pages []pageOutput `json:"pages"`
}

type pageOutput struct {
	Text         string `json:"text"`
	ImageKeyword string `json:"image_keyword"`
}

// Generate writes a story using chars. It always returns a usable story.
func (s *Service) Generate(ctx context.Context, chars []string) curriculum.Story {
	story, err := s.generate(ctx, chars)
	if err != nil {
		s.log.Warn("story generation failed, using fallback",
			zap.Strings("chars", chars),
			zap.Error(err),
		)
		return Fallback()
	}
	s.log.Info("story generated",
		zap.Strings("chars", chars),
		zap.String("title", story.Title),
		zap.Int("pages", len(story.Pages)),
	)
	return story
}

func (s *Service) generate(ctx context.Context, chars []string) (curriculum.Story, error) {
	if s.provider == nil {
		return curriculum.Story{}, llm.ErrNotConfigured
	}
	if len(chars) == 0 {
		return curriculum.Story{}, fmt.Errorf("no characters to write about")
	}
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}
	ctx = llm.WithPurpose(ctx, llm.PurposeStory)

	req := llm.UserPrompt(systemPrompt, buildUserMessage(chars, s.cfg.Pages))
	req.Schema = StorySchema
	req.MaxTokens = s.cfg.MaxTokens
	req.Temperature = s.cfg.Temperature

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return curriculum.Story{}, fmt.Errorf("story generation: %w", err)
	}

	var out storyOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return curriculum.Story{}, fmt.Errorf("parse story response: %w", err)
	}

	story := curriculum.Story{Title: strings.TrimSpace(out.Title)}
	for _, p := range out.Pages {
		text := strings.TrimSpace(p.Text)
		if text == "" {
			continue
		}
		story.Pages = append(story.Pages, curriculum.Page{
			Text:  text,
			Image: ImageURL(keyword(p.ImageKeyword), s.lock()),
		})
	}
	if len(story.Pages) == 0 {
		return curriculum.Story{}, fmt.Errorf("story has no text")
	}
	if story.Title == "" {
		story.Title = strings.Join(chars, "")
	}
	return story, nil
}

// keyword reduces a model-supplied image keyword to one lowercase word.
func keyword(raw string) string {
	word := strings.ToLower(strings.TrimSpace(raw))
	if i := strings.IndexFunc(word, unicode.IsSpace); i >= 0 {
		word = word[:i]
	}
	word = strings.TrimFunc(word, func(r rune) bool { return !unicode.IsLetter(r) })
	if word == "" {
		return "story"
	}
	return word
}
