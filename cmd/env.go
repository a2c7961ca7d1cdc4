package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/zibao/internal/curriculum"
	"github.com/abhisek/zibao/internal/library"
	"github.com/abhisek/zibao/internal/llm"
	"github.com/abhisek/zibao/internal/logging"
	"github.com/abhisek/zibao/internal/progression"
	"github.com/abhisek/zibao/internal/store"
	"github.com/abhisek/zibao/internal/store/gdatakv"
	"github.com/abhisek/zibao/internal/storygen"
	"github.com/abhisek/zibao/internal/treasure"
)

const (
	backendSQLite = "sqlite"
	backendGData  = "gdata"
)

// env is everything a command needs: the database, the progress stores and
// the curriculum.
type env struct {
	store     *store.Store
	events    store.EventRepo
	log       *zap.Logger
	cur       *curriculum.Curriculum
	progress  *progression.Store
	treasures *treasure.Manager
	library   *library.Library
}

// openEnv opens the store and loads learner state. Events always live in
// SQLite; --backend only selects where progress records are kept.
func openEnv(cmd *cobra.Command) (*env, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}

	log, err := logging.New(logging.Options{
		Mode: logging.ModeFromEnv(),
		Path: filepath.Join(filepath.Dir(dbPath), "zibao.log"),
	})
	if err != nil {
		return nil, err
	}

	cur, err := loadCurriculum(cmd)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	var kv store.KV
	switch backend := strings.ToLower(resolveBackend(cmd)); backend {
	case backendSQLite:
		kv = st.KV()
	case backendGData:
		gkv, err := gdatakv.Open("zibao")
		if err != nil {
			st.Close()
			return nil, err
		}
		kv = gkv
	default:
		st.Close()
		return nil, fmt.Errorf("unknown backend %q (want %s or %s)", backend, backendSQLite, backendGData)
	}
	log.Info("store opened", zap.String("db", dbPath), zap.String("backend", resolveBackend(cmd)))

	return &env{
		store:     st,
		events:    st.EventRepo(),
		log:       log,
		cur:       cur,
		progress:  progression.Open(ctx, kv, log),
		treasures: treasure.Open(ctx, kv, log),
		library:   library.Open(ctx, kv, log),
	}, nil
}

func loadCurriculum(cmd *cobra.Command) (*curriculum.Curriculum, error) {
	if p, _ := cmd.Flags().GetString("curriculum"); p != "" {
		cur, err := curriculum.Load(p)
		if err != nil {
			return nil, fmt.Errorf("load curriculum: %w", err)
		}
		return cur, nil
	}
	return curriculum.Bundled()
}

func (e *env) Close() {
	e.log.Sync()
	e.store.Close()
}

// storyService builds the story generator. Without a configured provider the
// service still works and always returns the fallback story.
func (e *env) storyService(ctx context.Context, opts ...storygen.Option) *storygen.Service {
	opts = append([]storygen.Option{storygen.WithLogger(e.log)}, opts...)
	cfg := llm.ConfigFromEnv()
	if err := cfg.Validate(); err != nil {
		discovered, ok := llm.DiscoverConfig()
		if !ok {
			e.log.Info("llm provider not configured", zap.Error(err))
			return storygen.NewService(nil, opts...)
		}
		cfg = discovered
	}

	provider, err := llm.NewProvider(ctx, cfg, e.events, e.log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Stories will use the built-in fallback.")
		return storygen.NewService(nil, opts...)
	}
	return storygen.NewService(provider, opts...)
}
