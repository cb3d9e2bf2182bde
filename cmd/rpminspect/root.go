package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"rpminspect/internal/builds"
	"rpminspect/internal/config"
	"rpminspect/internal/failure"
	"rpminspect/internal/format"
	"rpminspect/internal/inspections"
	"rpminspect/internal/logging"
	"rpminspect/internal/pipeline"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "0.1.0"

type rootFlags struct {
	config    string
	tests     []string
	exclude   []string
	arches    string
	release   string
	output    string
	format    string
	list      bool
	workdir   string
	fetchOnly bool
	keep      bool
	verbose   bool

	writeConfig string
}

func newRootCommand() *cobra.Command {
	var flags rootFlags

	rootCmd := &cobra.Command{
		Use:   "rpminspect [options] [before build] [after build]",
		Short: "Build deviation and compliance tool",
		Long: "rpminspect compares an after build against an optional before build and\n" +
			"reports packaging policy findings. Builds may be Koji build identifiers,\n" +
			"local build trees, or single RPM files.",
		Version:       version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.writeConfig != "" {
				return writeSampleConfig(cmd, flags.writeConfig)
			}
			if flags.list {
				printList(cmd.OutOrStdout(), inspections.Registry(), flags.verbose)
				return nil
			}
			return runInspect(cmd, &flags, args)
		},
	}
	rootCmd.SetVersionTemplate("{{.Name}} version {{.Version}}\n")
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return failure.Wrap(failure.ErrUsage, "cli", "parse flags", "", err)
	})

	fs := rootCmd.Flags()
	fs.SortFlags = false
	fs.StringVarP(&flags.config, "config", "c", "", "Configuration file to use")
	fs.StringArrayVarP(&flags.tests, "tests", "T", nil, "List of tests to run (default: ALL)")
	fs.StringArrayVarP(&flags.exclude, "exclude", "E", nil, "List of tests to exclude (default: none)")
	fs.StringVarP(&flags.arches, "arches", "a", "", "List of architectures to check")
	fs.StringVarP(&flags.release, "release", "r", "", "Product release string")
	fs.StringVarP(&flags.output, "output", "o", "", "Write results to FILE (default: stdout)")
	fs.StringVarP(&flags.format, "format", "F", format.Default().Name, "Format output results as TYPE")
	fs.BoolVarP(&flags.list, "list", "l", false, "List available tests and formats")
	fs.StringVarP(&flags.workdir, "workdir", "w", "", "Temporary directory to use (default: from config)")
	fs.BoolVarP(&flags.fetchOnly, "fetch-only", "f", false, "Fetch builds only, do not perform inspections (implies -k)")
	fs.BoolVarP(&flags.keep, "keep", "k", false, "Do not remove the comparison working files")
	fs.BoolVarP(&flags.verbose, "verbose", "v", false, "Verbose inspection output")
	fs.StringVar(&flags.writeConfig, "write-config", "", "Write an annotated sample configuration file to PATH and exit")
	fs.BoolP("help", "?", false, "Display usage information")
	fs.BoolP("version", "V", false, "Display program version")
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	return rootCmd
}

func writeSampleConfig(cmd *cobra.Command, target string) error {
	path, err := config.ExpandPath(target)
	if err != nil {
		return failure.Wrap(failure.ErrUsage, "cli", "write config", "", err)
	}
	if err := config.CreateSample(path); err != nil {
		return failure.Wrap(failure.ErrResource, "cli", "write config", "", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample configuration to %s\n", path)
	return nil
}

func runInspect(cmd *cobra.Command, flags *rootFlags, args []string) error {
	out, err := format.Lookup(flags.format)
	if err != nil {
		return failure.Wrap(failure.ErrUsage, "cli", "select format", "", err)
	}

	cfg, _, err := config.Load(flags.config)
	if err != nil {
		return failure.Wrap(failure.ErrConfiguration, "cli", "load config", "", err)
	}

	logger, err := logging.NewFromConfig(cfg, flags.verbose, cmd.ErrOrStderr())
	if err != nil {
		return failure.Wrap(failure.ErrConfiguration, "cli", "init logging", "", err)
	}

	_, err = pipeline.Run(cmd.Context(), pipeline.Options{
		Config:    cfg,
		Logger:    logger,
		Registry:  inspections.Registry(),
		Gatherer:  builds.New(cfg, logger),
		Includes:  flags.tests,
		Excludes:  flags.exclude,
		Format:    out,
		Output:    flags.output,
		Release:   flags.release,
		Arches:    flags.arches,
		Workdir:   flags.workdir,
		Keep:      flags.keep,
		FetchOnly: flags.fetchOnly,
		Verbose:   flags.verbose,
		Stdout:    cmd.OutOrStdout(),
	}, args)
	return err
}
