package app

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"horse.fit/fukidashi/internal/cli"
	"horse.fit/fukidashi/internal/config"
	"horse.fit/fukidashi/internal/langdetect"
	"horse.fit/fukidashi/internal/logging"
	"horse.fit/fukidashi/internal/translation"
)

func runTranslate(args []string) int {
	fs := flag.NewFlagSet("translate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 5*time.Minute, "Command timeout")
	lang := fs.String("lang", "", "Target language code (for example: ENG, CHS)")
	source := fs.String("source", "", "Source language code (detected when omitted)")
	provider := fs.String("provider", "", "Translation provider name")
	force := fs.Bool("force", false, "Retranslate even when cached translations exist")
	dryRun := fs.Bool("dry-run", false, "Preview work without calling the translation provider")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	targetLang := translation.NormalizeLanguageCode(*lang)
	if _, err := translation.LanguageName(targetLang); err != nil {
		fmt.Fprintf(os.Stderr, "--lang is required and must be a supported language code: %v\n", err)
		return 2
	}

	segments := fs.Args()
	if len(segments) == 0 {
		stdinSegments, err := readSegments(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Read segments from stdin: %v\n", err)
			return 1
		}
		segments = stdinSegments
	}
	if len(segments) == 0 {
		fmt.Fprintln(os.Stderr, "No segments to translate (pass them as arguments or on stdin)")
		return 2
	}

	if envLoader != nil {
		if _, err := envLoader.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	t, err := buildTranslator(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up translator: %v\n", err)
		return 1
	}
	defer t.Close()

	sourceLang := translation.NormalizeLanguageCode(*source)
	if sourceLang == "" {
		sourceLang = langdetect.DetectAdapterCode(strings.Join(segments, "\n"))
	}

	result, err := t.manager.TranslateSegments(ctx, segments, translation.RunOptions{
		SourceLang: sourceLang,
		TargetLang: targetLang,
		Provider:   strings.TrimSpace(*provider),
		Force:      *force,
		DryRun:     *dryRun,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Translate failed: %v\n", err)
		return 1
	}

	for _, segment := range result.Segments {
		fmt.Println(segment)
	}
	fmt.Fprintf(os.Stderr, "Total: %d, translated: %d, cached: %d, skipped: %d (tokens: %d)\n",
		result.Stats.Total, result.Stats.Translated, result.Stats.Cached, result.Stats.Skipped, result.TokensUsed)
	return 0
}

// readSegments reads one segment per non-empty stdin line.
func readSegments(file *os.File) ([]string, error) {
	info, err := file.Stat()
	if err != nil {
		return nil, err
	}
	if info.Mode()&os.ModeCharDevice != 0 {
		return nil, nil
	}

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var segments []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		segments = append(segments, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return segments, nil
}
