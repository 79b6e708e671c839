package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/cryptomb/mbxgen/internal/cpuinfo"
)

func setupLogging(w io.Writer, verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

func newRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:           "mbxgen",
		Short:         "Generate CPU dispatch shims and single-target headers from MBXAPI declarations",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(cmd.ErrOrStderr(), verbose)
		},
	}
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output for debugging")

	cmd.AddCommand(
		newDispatchCmd(),
		newRenameCmd(),
		newCPUInfoCmd(),
		newTargetsCmd(),
	)
	return cmd
}

func newDispatchCmd() *cobra.Command {
	var (
		header   string
		outDir   string
		cpuList  string
		compiler string
		opts     = DefaultDispatchOptions()
	)

	cmd := &cobra.Command{
		Use:   "dispatch",
		Short: "Generate one jmp_<name>_<hash>.c dispatch shim per declaration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cpus, err := ParseCPUList(cpuList)
			if err != nil {
				return err
			}
			gen := NewGenerator(header, outDir)
			gen.CPUList = cpus
			gen.Compiler = compiler
			gen.Dispatch = opts
			return gen.RunDispatch()
		},
	}

	f := cmd.Flags()
	f.StringVarP(&header, "header", "i", "", "Header whose MBXAPI functions get dispatchers (required)")
	f.StringVarP(&outDir, "out-directory", "o", "", "Existing output folder for generated files (required)")
	f.StringVarP(&cpuList, "cpu-list", "l", "", "Actual CPU list: semicolon separated string (required)")
	f.StringVarP(&compiler, "compiler", "c", "", "Compiler (required)")
	f.StringVar(&opts.IncludePrefix, "include-prefix", opts.IncludePrefix, "Directory the input header is included from")
	f.StringVar(&opts.DefsHeader, "defs-header", opts.DefsHeader, "Internal definitions header included by every shim")
	f.StringVar(&opts.IndexFunc, "index-func", opts.IndexFunc, "Runtime function returning the resolved CPU index")
	f.StringVar(&opts.ExportMacro, "export-macro", opts.ExportMacro, "Macro marking the exported trampoline")
	for _, name := range []string{"header", "out-directory", "cpu-list", "compiler"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newRenameCmd() *cobra.Command {
	var (
		variants string
		opts     = DefaultRenameOptions()
	)

	cmd := &cobra.Command{
		Use:   "rename HEADER OUTDIR",
		Short: "Generate <header>_<variant>.h headers mapping each function to <variant>_<function>",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			vs, err := ParseCPUList(variants)
			if err != nil {
				return fmt.Errorf("variants: %w", err)
			}
			gen := NewGenerator(args[0], args[1])
			gen.Variants = vs
			gen.Rename = opts
			return gen.RunRename()
		},
	}

	f := cmd.Flags()
	f.StringVar(&variants, "variants", strings.Join(DefaultVariants, ";"), "Single-target variants: semicolon separated string")
	f.StringVar(&opts.Holder, "copyright-holder", opts.Holder, "Copyright holder written into the license block")
	return cmd
}

func newCPUInfoCmd() *cobra.Command {
	var cpuList string

	cmd := &cobra.Command{
		Use:   "cpuinfo",
		Short: "Print host CPU features and the implementation a dispatcher would select",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cpus, err := ParseCPUList(cpuList)
			if err != nil {
				return err
			}
			return printCPUInfo(cmd.OutOrStdout(), cpuinfo.Detect(), cpus)
		},
	}
	cmd.Flags().StringVarP(&cpuList, "cpu-list", "l", strings.Join(AvailableArchs(), ";"), "CPU list in dispatch table order")
	return cmd
}

func printCPUInfo(w io.Writer, f cpuinfo.Features, cpus []string) error {
	upper := cases.Upper(language.Und)

	if _, err := fmt.Fprintf(w, "GOARCH: %s\n", f.GOARCH); err != nil {
		return err
	}
	for _, feat := range f.List() {
		if _, err := fmt.Fprintf(w, "  Has%-11s %v\n", feat.Name+":", feat.Present); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "CPU list: %s\n", strings.Join(cpus, ";")); err != nil {
		return err
	}

	idx := cpuinfo.Resolve(f, cpus, AvailableArchs())
	if idx < 0 {
		_, err := fmt.Fprintf(w, "Dispatch index: -1 (no supported implementation)\n")
		return err
	}
	tag := cpus[idx]
	name := tag
	if a, err := GetArch(tag); err == nil {
		name = a.Name
	}
	_, err := fmt.Fprintf(w, "Dispatch index: %d (%s, %s)\n", idx, upper.String(tag), name)
	return err
}

func newTargetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "targets",
		Short: "List the known architecture tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printTargets(cmd.OutOrStdout())
		},
	}
}

func printTargets(w io.Writer) error {
	upper := cases.Upper(language.Und)
	for _, a := range knownArchs {
		if _, err := fmt.Fprintf(w, "%-4s %-14s %s\n", upper.String(a.Tag), a.Name, a.Description); err != nil {
			return err
		}
	}
	return nil
}
