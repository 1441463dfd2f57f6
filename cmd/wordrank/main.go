// Copyright 2025 The WordRank Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main runs the wordrank completion server and its debugging CLI.

wordrank loads a weighted vocabulary once, builds either a trie or a sorted
array index over it and answers prefix queries with the heaviest matching
words.

# Usage

Start the msgpack IPC server on stdin/stdout with a text dictionary:

	wordrank -dict words.txt

Use the sorted-array index and a directory of binary chunks:

	wordrank -index binsearch -dict data/

Run the interactive CLI:

	wordrank -c -dict words.txt -limit 5

Expose Prometheus metrics while serving:

	wordrank -dict words.txt -metrics :9100

Convert a text dictionary into binary chunks and exit:

	wordrank -dict words.txt -export-chunks data/

# Dictionaries

Text dictionaries hold one "weight<TAB>word" pair per line, optionally
preceded by a line with the number of entries. Binary dictionaries are
directories of dict_0001.bin, dict_0002.bin, ... chunks storing words by
frequency rank.

# Configuration

Settings are read from a TOML file, created with defaults on first run:

	[server]
	default_limit = 10
	max_limit = 64
	min_prefix = 0
	max_prefix = 60
	enable_filter = false

	[index]
	kind = "trie"
	trie_order = "weight"

	[dict]
	path = "data"
	max_words = 0
	chunk_size = 10000

	[cache]
	size = 1024

	[metrics]
	addr = ""

Flags override the file. -reset-config rewrites it with the defaults.

# IPC Protocol

See package server. A completion request and its response:

	{"id": "req1", "p": "be", "l": 2}
	{"id": "req1", "s": [{"w": "bell", "r": 1, "f": 4}, {"w": "bat", "r": 2, "f": 2}], "c": 2, "t": 9}
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/bastiangx/wordrank/internal/cli"
	"github.com/bastiangx/wordrank/internal/logger"
	"github.com/bastiangx/wordrank/internal/utils"
	"github.com/bastiangx/wordrank/pkg/config"
	"github.com/bastiangx/wordrank/pkg/dictionary"
	"github.com/bastiangx/wordrank/pkg/metrics"
	"github.com/bastiangx/wordrank/pkg/server"
	"github.com/bastiangx/wordrank/pkg/suggest"
	"github.com/bastiangx/wordrank/pkg/trie"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

const (
	Version = "0.1.0"
	gh      = "https://github.com/bastiangx/wordrank"
)

type options struct {
	configPath   string
	dictPath     string
	index        string
	trieOrder    string
	limit        int
	words        int
	metricsAddr  string
	exportChunks string
	noFilter     bool
	resetConfig  bool
	cliMode      bool
	debug        bool
	version      bool
}

func parseFlags() options {
	var o options
	flag.BoolVar(&o.version, "version", false, "Show current version")
	flag.StringVar(&o.configPath, "config", "", "Path to config.toml (default: user config dir)")
	flag.StringVar(&o.dictPath, "dict", "", "Dictionary file or chunk directory (default from config)")
	flag.StringVar(&o.index, "index", "", "Index implementation: trie or binsearch (default from config)")
	flag.StringVar(&o.trieOrder, "order", "", "Trie result order: weight or bound (default from config)")
	flag.IntVar(&o.limit, "limit", 0, "Number of suggestions to return (default from config)")
	flag.IntVar(&o.words, "words", -1, "Maximum number of words to load, 0 for all (default from config)")
	flag.StringVar(&o.metricsAddr, "metrics", "", "Serve Prometheus metrics on this address, e.g. :9100")
	flag.StringVar(&o.exportChunks, "export-chunks", "", "Write the dictionary as binary chunks to this directory and exit")
	flag.BoolVar(&o.resetConfig, "reset-config", false, "Rewrite the default config file with default values and exit")
	flag.BoolVar(&o.noFilter, "no-filter", false, "Disable CLI input filtering")
	flag.BoolVar(&o.cliMode, "c", false, "Run CLI -- useful for testing and debugging")
	flag.BoolVar(&o.debug, "d", false, "Toggle debug mode")
	flag.Parse()
	return o
}

// apply lets flags override the loaded config.
func (o options) apply(cfg *config.Config) {
	if o.dictPath != "" {
		cfg.Dict.Path = o.dictPath
	}
	if o.index != "" {
		cfg.Index.Kind = o.index
	}
	if o.trieOrder != "" {
		cfg.Index.TrieOrder = o.trieOrder
	}
	if o.limit > 0 {
		cfg.CLI.DefaultLimit = o.limit
		cfg.Server.DefaultLimit = min(o.limit, cfg.Server.MaxLimit)
	}
	if o.words >= 0 {
		cfg.Dict.MaxWords = o.words
	}
	if o.metricsAddr != "" {
		cfg.Metrics.Addr = o.metricsAddr
	}
}

func main() {
	opts := parseFlags()
	if opts.version {
		showVersion()
		return
	}
	logger.Setup(opts.debug)

	if opts.resetConfig {
		if err := config.RebuildConfigFile(); err != nil {
			log.Fatal(err)
		}
		log.Info("Config reset to defaults")
		return
	}

	if err := run(opts); err != nil {
		log.Fatal(err)
	}
}

func run(opts options) error {
	cfg, configPath, err := config.LoadConfigWithPriority(opts.configPath)
	if err != nil {
		return err
	}
	opts.apply(cfg)
	log.Debugf("Using config: %s", config.GetActiveConfigPath(configPath))

	configDir := ""
	if configPath != "" {
		configDir = filepath.Dir(configPath)
	}
	dictPath, err := utils.NewPathResolver(configDir).ResolveDict(cfg.Dict.Path)
	if err != nil {
		return fmt.Errorf("failed to resolve dictionary: %w", err)
	}

	start := time.Now()
	vocab, err := dictionary.Load(dictPath, cfg.Dict.MaxWords)
	if err != nil {
		return fmt.Errorf("failed to load dictionary: %w", err)
	}
	log.Debugf("Loaded %d words (max weight %.0f) from %s in %v", vocab.Len(), vocab.MaxWeight(), dictPath, time.Since(start))

	if opts.exportChunks != "" {
		n, err := dictionary.WriteChunks(opts.exportChunks, vocab, cfg.Dict.ChunkSize)
		if err != nil {
			return fmt.Errorf("failed to export chunks: %w", err)
		}
		log.Infof("Wrote %d words in %d chunks to %s", vocab.Len(), n, opts.exportChunks)
		return nil
	}

	policy, err := trie.ParsePolicy(cfg.Index.TrieOrder)
	if err != nil {
		return err
	}
	completer, err := suggest.NewCompleter(cfg.Index.Kind, vocab.Words, vocab.Weights,
		suggest.Options{TriePolicy: policy}, cfg.Cache.Size)
	if err != nil {
		return fmt.Errorf("failed to build %s index: %w", cfg.Index.Kind, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var m *metrics.Metrics
	if cfg.Metrics.Addr != "" {
		m = metrics.New()
		m.VocabularySize.Set(float64(vocab.Len()))
	}

	g, ctx := errgroup.WithContext(ctx)
	go func() {
		// unblocks a front end waiting on input
		<-ctx.Done()
		os.Stdin.Close()
	}()
	if m != nil {
		g.Go(func() error { return m.Serve(ctx, cfg.Metrics.Addr) })
	}
	g.Go(func() error {
		// the metrics listener stops with the front end
		defer stop()
		if opts.cliMode {
			h := cli.NewInputHandler(completer, cfg.Server.MinPrefix, cfg.Server.MaxPrefix,
				cfg.CLI.DefaultLimit, opts.noFilter, os.Stdout)
			if err := h.Start(os.Stdin); err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		}
		showStartupInfo(dictPath, completer)
		srv := server.NewServer(completer, cfg.Server, m, os.Stdin, os.Stdout)
		return srv.Start(ctx)
	})
	return g.Wait()
}

func showVersion() {
	l := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	l.SetStyles(styles)

	l.Print("")
	l.Print("[ wordrank ] weighted prefix completion")
	l.Print("", "version", Version)
	l.Print("")
	l.Print("use -h or --help to see available options")
	l.Print("Github Repo", "gh", gh)
}

// showStartupInfo logs to stderr; stdout belongs to the IPC stream.
func showStartupInfo(dictPath string, completer *suggest.Completer) {
	l := logger.NewWithConfig(os.Stderr, "wordrank", log.InfoLevel, false, false, log.TextFormatter)
	stats := completer.Stats()
	l.Info("ready",
		"version", Version,
		"pid", os.Getpid(),
		"index", completer.Kind(),
		"words", stats["totalWords"],
		"dict", dictPath)
}
