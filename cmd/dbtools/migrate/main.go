// Command migrate applies or inspects the booking draft schema by hand.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/codr1/vistos/internal/config"
	"github.com/codr1/vistos/internal/db"
)

// migrator is the part of *migrate.Migrate the commands drive.
type migrator interface {
	Up() error
	Down() error
	Steps(n int) error
	Version() (uint, bool, error)
	Force(version int) error
}

type options struct {
	configPath string
	dbPath     string
	dir        string
	command    string
	arg        string
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}
}

func run(args []string, out io.Writer) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}
	if opts.dbPath == "" && opts.configPath != "" {
		cfg, err := config.Load(opts.configPath)
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}
		if cfg.Database.Driver != "sqlite" {
			return fmt.Errorf("configured draft store is %q, not sqlite", cfg.Database.Driver)
		}
		opts.dbPath = cfg.Database.Filename
	}
	if opts.dbPath == "" {
		return errors.New("-db or -config is required")
	}

	m, err := open(opts)
	if err != nil {
		return err
	}
	defer m.Close()

	logger := log.With().Str("db", opts.dbPath).Str("command", opts.command).Logger()
	if err := execute(m, opts.command, opts.arg, out); err != nil {
		return err
	}
	logger.Info().Msg("Migration command finished")
	return nil
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	fs.StringVar(&opts.configPath, "config", "", "config.yaml whose database.filename is used when -db is empty")
	fs.StringVar(&opts.dbPath, "db", "", "path to the SQLite draft database")
	fs.StringVar(&opts.dir, "migrations", "", "migrations directory; empty uses the migrations built into the binary")
	fs.StringVar(&opts.command, "command", "", "up, down, steps, version or force")
	fs.StringVar(&opts.arg, "n", "", "step count for steps, target version for force")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.command == "" {
		fs.Usage()
		return opts, errors.New("-command is required")
	}
	return opts, nil
}

func open(opts options) (*migrate.Migrate, error) {
	dbURL := "sqlite3://" + opts.dbPath
	if opts.dir != "" {
		m, err := migrate.New("file://"+opts.dir, dbURL)
		if err != nil {
			return nil, fmt.Errorf("open migrations in %s: %w", opts.dir, err)
		}
		return m, nil
	}
	src, err := db.MigrationSource()
	if err != nil {
		return nil, err
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, dbURL)
	if err != nil {
		return nil, fmt.Errorf("open embedded migrations: %w", err)
	}
	return m, nil
}

func execute(m migrator, command, arg string, out io.Writer) error {
	switch command {
	case "up":
		return ignoreNoChange(m.Up())
	case "down":
		return ignoreNoChange(m.Down())
	case "steps":
		n, err := strconv.Atoi(arg)
		if err != nil || n == 0 {
			return fmt.Errorf("steps requires a non-zero -n, got %q", arg)
		}
		return ignoreNoChange(m.Steps(n))
	case "force":
		v, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("force requires a numeric -n, got %q", arg)
		}
		return m.Force(v)
	case "version":
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			fmt.Fprintln(out, "version: none")
			return nil
		}
		if err != nil {
			return fmt.Errorf("read version: %w", err)
		}
		fmt.Fprintf(out, "version: %d dirty: %t\n", version, dirty)
		return nil
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

func ignoreNoChange(err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}
