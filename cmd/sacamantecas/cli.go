package main

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/sacamantecas"
	"github.com/fwojciec/sacamantecas/crawl"
	smhttp "github.com/fwojciec/sacamantecas/http"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdin    io.Reader
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *slog.Logger
	Registry *sacamantecas.Registry
	Driver   *sacamantecas.Driver
	Skims    sacamantecas.SkimService
	Skimmer  *crawl.Skimmer

	// OpenSource and CreateSink pick the file format from the input path.
	OpenSource func(path string) (sacamantecas.MantecaSource, error)
	CreateSink func(input, output string) (sacamantecas.SkimmedSink, error)
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	ProfilesPath string `name:"profiles" help:"Profiles file (default: $SACAMANTECAS_PROFILES or ~/.sacamantecas/profiles.yaml)"`
	DBPath       string `name:"db" help:"History database (default: $SACAMANTECAS_DB or ~/.sacamantecas/sacamantecas.db)"`
	Debug        bool   `help:"Log debug messages"`
	LogFile      string `name:"log-file" help:"Also write log messages to this file"`

	Skim     SkimCmd     `cmd:"" help:"Extract metadata for every URI in a text or Excel file"`
	Extract  ExtractCmd  `cmd:"" help:"Extract metadata from a saved HTML page"`
	Profiles ProfilesCmd `cmd:"" help:"Validate and list catalog profiles"`
	History  HistoryCmd  `cmd:"" help:"List recorded skims"`
}

// SkimCmd is the "skim" subcommand.
type SkimCmd struct {
	Input       string        `arg:"" help:"Text file with one URI per line, or Excel workbook"`
	Output      string        `short:"o" help:"Output file (default: input name with _out suffix)"`
	Concurrency int           `short:"c" default:"${concurrency}" help:"Concurrent fetch limit"`
	Timeout     time.Duration `short:"t" default:"${timeout}" help:"Timeout per page"`
	RPS         float64       `name:"rps" default:"${rps}" help:"Requests per second per host (0 disables)"`
	Retries     int           `default:"${retries}" help:"Retries per failed fetch (at most ${retries})"`
	Browser     bool          `help:"Render pages with headless Chrome"`
	Resume      bool          `short:"r" help:"Reuse metadata of URIs already skimmed"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	URI  string `arg:"" help:"URI the page was retrieved from; selects the profile"`
	File string `arg:"" help:"HTML file, or - for standard input"`
}

// ProfilesCmd is the "profiles" subcommand.
type ProfilesCmd struct {
	Name string `arg:"" optional:"" help:"Show only this profile"`
}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	URI    string `arg:"" optional:"" help:"Only skims of this URI"`
	Failed bool   `help:"Only failed skims"`
	Limit  int    `short:"n" default:"20" help:"Maximum number of skims"`
	Full   bool   `help:"Show extracted metadata"`
}

// Defaults returns the values interpolated into flag defaults.
func Defaults() kong.Vars {
	return kong.Vars{
		"concurrency": strconv.Itoa(crawl.DefaultConcurrency),
		"timeout":     smhttp.DefaultFetchTimeout.String(),
		"rps":         strconv.FormatFloat(crawl.DefaultRequestsPerSecond, 'f', -1, 64),
		"retries":     strconv.Itoa(len(crawl.DefaultRetryDelays())),
	}
}
