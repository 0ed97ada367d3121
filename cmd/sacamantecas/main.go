package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/sacamantecas"
	"github.com/fwojciec/sacamantecas/bloom"
	"github.com/fwojciec/sacamantecas/crawl"
	"github.com/fwojciec/sacamantecas/excelize"
	"github.com/fwojciec/sacamantecas/fs"
	"github.com/fwojciec/sacamantecas/goquery"
	smhttp "github.com/fwojciec/sacamantecas/http"
	"github.com/fwojciec/sacamantecas/rod"
	smslog "github.com/fwojciec/sacamantecas/slog"
	"github.com/fwojciec/sacamantecas/sqlite"
	"github.com/fwojciec/sacamantecas/yaml"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Default file locations. Set before calling Run(); flags override them.
	ProfilesPath string
	DBPath       string

	// Standard input, read by "extract -".
	Stdin io.Reader

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	SkimService sacamantecas.SkimService

	logFile *os.File
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		ProfilesPath: defaultPath("SACAMANTECAS_PROFILES", "profiles.yaml"),
		DBPath:       defaultPath("SACAMANTECAS_DB", "sacamantecas.db"),
		Stdin:        os.Stdin,
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	var err error
	if m.DB != nil {
		err = m.DB.Close()
	}
	if m.logFile != nil {
		if cerr := m.logFile.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:        ctx,
		Stdin:      m.Stdin,
		Stdout:     stdout,
		Stderr:     stderr,
		OpenSource: openSource,
		CreateSink: createSink,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("sacamantecas"),
		kong.Description("Extract bibliographic metadata from library catalog pages"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
		Defaults(),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'sacamantecas --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	defer m.Close()

	logger, err := m.newLogger(stderr, cli.Debug, cli.LogFile)
	if err != nil {
		return err
	}
	deps.Logger = logger

	if cli.ProfilesPath != "" {
		m.ProfilesPath = cli.ProfilesPath
	}
	if cli.DBPath != "" {
		m.DBPath = cli.DBPath
	}

	cmd := strings.Fields(kongCtx.Command())[0]

	// Every command but history needs the catalog profiles.
	if cmd != "history" {
		registry, err := yaml.LoadRegistryFile(m.ProfilesPath)
		if err != nil {
			fmt.Fprintf(stderr, "error: %s\n", sacamantecas.ErrorMessage(err))
			fmt.Fprintln(stderr, "Hint: Set SACAMANTECAS_PROFILES or use --profiles to choose the profiles file")
			return err
		}
		deps.Registry = registry
		deps.Driver = sacamantecas.NewDriver(
			smslog.NewLoggingResolver(sacamantecas.NewResolver(registry), logger),
			smslog.NewLoggingExtractor(goquery.NewExtractor(), logger),
		)
	}

	if cmd == "skim" || cmd == "history" {
		m.DB = sqlite.NewDB(m.DBPath)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set SACAMANTECAS_DB or use --db to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
		}
		m.SkimService = sqlite.NewSkimService(m.DB)
		deps.Skims = m.SkimService
	}

	if cmd == "skim" {
		fetcher, err := newFetcher(cli.Skim)
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed to use --browser")
			return fmt.Errorf("failed to start browser: %w", err)
		}
		defer fetcher.Close()

		delays := crawl.DefaultRetryDelays()
		retries := max(0, min(cli.Skim.Retries, len(delays)))

		deps.Skimmer = &crawl.Skimmer{
			Fetcher:     smslog.NewLoggingFetcher(fetcher, logger),
			Driver:      deps.Driver,
			Limiter:     crawl.NewDomainLimiter(cli.Skim.RPS),
			Store:       m.SkimService,
			Concurrency: cli.Skim.Concurrency,
			RetryDelays: delays[:retries],
			Logger:      logger,
		}

		if cli.Skim.Resume {
			uris, err := m.SkimService.SkimmedURIs(ctx)
			if err != nil {
				return fmt.Errorf("failed to read skim history: %w", err)
			}
			deps.Skimmer.Seen = bloom.Seed(uris, bloom.DefaultFalsePositiveRate)
		}
	}

	return kongCtx.Run(deps)
}

// newLogger returns a text logger on stderr, also writing to logFile when
// it is set.
func (m *Main) newLogger(stderr io.Writer, debug bool, logFile string) (*slog.Logger, error) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	w := stderr
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		m.logFile = f
		w = io.MultiWriter(stderr, f)
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}

// newFetcher returns the fetcher selected by the skim flags.
func newFetcher(c SkimCmd) (sacamantecas.Fetcher, error) {
	if c.Browser {
		return rod.NewFetcher(rod.WithTimeout(c.Timeout))
	}
	return smhttp.NewFetcher(smhttp.WithTimeout(c.Timeout)), nil
}

func openSource(path string) (sacamantecas.MantecaSource, error) {
	if sacamantecas.IsSpreadsheet(path) {
		return excelize.OpenSource(path)
	}
	return fs.OpenSource(path)
}

func createSink(input, output string) (sacamantecas.SkimmedSink, error) {
	if sacamantecas.IsSpreadsheet(input) {
		return excelize.CreateWriter(input, output)
	}
	return fs.CreateWriter(output)
}

// defaultPath returns the value of env, or name inside ~/.sacamantecas.
func defaultPath(env, name string) string {
	if path := os.Getenv(env); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(home, ".sacamantecas", name)
}
