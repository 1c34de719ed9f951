package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tabletop-go/monopoly/internal/config"
	"github.com/tabletop-go/monopoly/internal/console"
	"github.com/tabletop-go/monopoly/internal/game"
	"github.com/tabletop-go/monopoly/internal/game/board"
	"github.com/tabletop-go/monopoly/internal/game/dice"
	"github.com/tabletop-go/monopoly/internal/game/state"
)

var (
	configPath = flag.String("config", "config.yaml", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	// .env is optional; values already in the environment win
	envErr := godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if envErr != nil && !os.IsNotExist(envErr) {
		logger.Warn("failed to load .env file", zap.Error(envErr))
	}

	logger.Info("starting monopoly",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	b, err := loadBoard(cfg.Game.BoardFile)
	if err != nil {
		logger.Fatal("failed to load board", zap.Error(err))
	}

	term := console.New(os.Stdin, os.Stdout)
	names := cfg.Game.Players
	if len(names) < game.MinPlayers {
		names = askPlayers(term)
	}

	gs := state.New(names, b.Config, b.Rules, b.Decks)
	gs.MaxTurns = cfg.Game.MaxTurns

	roller := dice.NewRandomRoller(cfg.Game.Seed)
	engine := game.NewEngine(logger, term, roller, roller.Rand())
	if err := engine.Run(gs); err != nil {
		logger.Fatal("game failed", zap.Error(err))
	}
}

func loadBoard(path string) (*board.Board, error) {
	if path == "" {
		return board.Default()
	}
	return board.LoadFile(path)
}

// askPlayers reads names until an empty answer, requiring at least two
// distinct players.
func askPlayers(term *console.Console) []string {
	var names []string
	seen := make(map[string]bool)
	for {
		name := strings.TrimSpace(term.Prompt(fmt.Sprintf("Player %d name (empty to start)", len(names)+1)))
		switch {
		case name == "" && len(names) >= game.MinPlayers:
			return names
		case name == "":
			term.Message(fmt.Sprintf("At least %d players are required.", game.MinPlayers))
		case seen[name]:
			term.Message(fmt.Sprintf("%s is already playing.", name))
		default:
			seen[name] = true
			names = append(names, name)
		}
	}
}

func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)
	// stdout belongs to the game
	zapCfg.OutputPaths = []string{"stderr"}

	return zapCfg.Build()
}
