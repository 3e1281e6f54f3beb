// Package mcscriptc implements the mcscriptc command-line tool: compile
// mcscript source files into a Minecraft data pack directory, or just
// check them for errors.
package mcscriptc

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rubiojr/mcscript/cache"
	"github.com/rubiojr/mcscript/compiler"
	"github.com/rubiojr/mcscript/pack"
	"github.com/rubiojr/mcscript/parser"
	"github.com/urfave/cli/v3"
)

// Execute runs the mcscriptc CLI with the given version string.
func Execute(version string) {
	cmd := &cli.Command{
		Name:                   "mcscriptc",
		Usage:                  "Compiles mcscript programs into Minecraft data packs",
		Version:                version,
		UseShortOptionHandling: true,
		Commands: []*cli.Command{
			{
				Name:      "build",
				Usage:     "Compile source files and write a data pack directory",
				ArgsUsage: "<file.mcs...>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output pack directory",
						Value:   "out",
					},
					&cli.StringFlag{
						Name:  "pack-name",
						Usage: "Pack name recorded in pack.mcmeta's description",
						Value: "mcscript",
					},
					&cli.IntFlag{
						Name:  "pack-format",
						Usage: "pack_format integer written to pack.mcmeta",
						Value: 48,
					},
					&cli.StringFlag{
						Name:  "namespace",
						Usage: "Override the namespace name (only valid for a single input file; default is its basename without extension)",
					},
					&cli.BoolFlag{
						Name:  "no-cache",
						Usage: "Skip the pack-output cache",
					},
				},
				Action: buildAction,
			},
			{
				Name:      "check",
				Usage:     "Compile source files and report errors without writing output",
				ArgsUsage: "<file.mcs...>",
				Action:    checkAction,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, formatError(err.Error()))
		os.Exit(1)
	}
}

// loadUnits reads and parses every file into a compiler.Unit, deriving
// each one's namespace from its basename unless nsOverride is set (which
// is only legal with exactly one file).
func loadUnits(files []string, nsOverride string) ([]compiler.Unit, []string, error) {
	if nsOverride != "" && len(files) != 1 {
		return nil, nil, fmt.Errorf("--namespace only applies to a single input file")
	}

	var units []compiler.Unit
	var sources []string
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, nil, fmt.Errorf("reading %s: %w", f, err)
		}
		src := string(data)
		sources = append(sources, src)

		ns := nsOverride
		if ns == "" {
			ns = namespaceFromPath(f)
		}
		unit, err := parser.Parse(f, src)
		if err != nil {
			return nil, nil, err
		}
		units = append(units, compiler.Unit{Namespace: ns, Program: unit})
	}
	return units, sources, nil
}

func namespaceFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func buildAction(ctx context.Context, cmd *cli.Command) error {
	files := cmd.Args().Slice()
	if len(files) == 0 {
		return fmt.Errorf("usage: mcscriptc build [-o dir] <file.mcs...>")
	}
	outDir := cmd.String("output")

	units, sources, err := loadUnits(files, cmd.String("namespace"))
	if err != nil {
		return err
	}

	opts := compiler.Options{
		PackName:        cmd.String("pack-name"),
		PackDescription: cmd.String("pack-name"),
		PackFormat:      int(cmd.Int("pack-format")),
	}

	if !cmd.Bool("no-cache") {
		keyParts := append([]string(nil), sources...)
		for _, u := range units {
			keyParts = append(keyParts, u.Namespace)
		}
		keyParts = append(keyParts, fmt.Sprintf("%d", opts.PackFormat), opts.PackName)
		key := cache.Key(keyParts)
		if archive, ok := cache.Lookup(key); ok {
			if err := cache.Extract(archive, outDir); err == nil {
				fmt.Fprintf(os.Stderr, "using cached pack (%s)\n", key)
				return nil
			}
		}
		p, err := compiler.Generate(units, opts)
		if err != nil {
			return err
		}
		if err := pack.Write(p, outDir); err != nil {
			return err
		}
		if err := cache.Store(key, outDir); err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not update pack cache: %s\n", err)
		}
		return nil
	}

	p, err := compiler.Generate(units, opts)
	if err != nil {
		return err
	}
	return pack.Write(p, outDir)
}

func checkAction(ctx context.Context, cmd *cli.Command) error {
	files := cmd.Args().Slice()
	if len(files) == 0 {
		return fmt.Errorf("usage: mcscriptc check <file.mcs...>")
	}
	units, _, err := loadUnits(files, "")
	if err != nil {
		return err
	}
	if _, err := compiler.Generate(units, compiler.DefaultOptions()); err != nil {
		return err
	}
	fmt.Fprintln(os.Stderr, "ok")
	return nil
}
