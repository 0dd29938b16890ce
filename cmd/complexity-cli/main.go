// SPDX-License-Identifier: Apache-2.0
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/fatih/color"

	"github.com/kanso-complexity/complexity/internal/bcl"
	"github.com/kanso-complexity/complexity/internal/complexity"
	"github.com/kanso-complexity/complexity/internal/config"
	"github.com/kanso-complexity/complexity/internal/diag"
	"github.com/kanso-complexity/complexity/internal/extract"
	"github.com/kanso-complexity/complexity/internal/hostfixture"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: complexity-cli <file.demo> [settings.yaml]")
		os.Exit(1)
	}

	path := os.Args[1]
	source, err := os.ReadFile(path)
	if err != nil {
		color.Red("failed to read file: %s", err)
		os.Exit(1)
	}

	tree, err := hostfixture.Parse(path, string(source))
	if err != nil {
		reportParseError(string(source), err)
		os.Exit(1)
	}

	settings := config.Default()
	if len(os.Args) > 2 {
		settings, err = config.Load(os.Args[2])
		if err != nil {
			color.Red("failed to load settings: %s", err)
			os.Exit(1)
		}
	}

	registry := bcl.NewDefaultRegistry().Freeze()
	module := extract.AnalyzeModule(context.Background(), tree, registry, settings)

	reporter := diag.NewReporter(path, string(source))
	for _, proc := range module.Procedures {
		fmt.Printf("%s  time=%s  space=%s  confidence=%s\n",
			proc.Name, proc.ToBigO(), complexity.ToBigO(proc.SpaceComplexity), proc.Confidence.Level)
		if proc.RequiresReview {
			color.Yellow("  needs manual review")
		}
		for _, d := range proc.Diagnostics {
			fmt.Println(indent(reporter.Format(d)))
		}
	}
	for _, d := range module.Diagnostics {
		fmt.Println(reporter.Format(d))
	}

	color.Green("analyzed %d procedure(s) in %s", len(module.Procedures), path)
}

func indent(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = "  " + l
	}
	return strings.Join(lines, "\n")
}

// reportParseError prints a friendly caret-style parse error message.
func reportParseError(src string, err error) {
	pe, ok := err.(participle.Error)
	if !ok {
		color.Red("Unexpected error: %s", err)
		return
	}

	pos := pe.Position()
	lines := strings.Split(src, "\n")
	if pos.Line <= 0 || pos.Line > len(lines) {
		color.Red("Syntax error at unknown location: %s", err)
		return
	}

	line := lines[pos.Line-1]
	caret := strings.Repeat(" ", pos.Column-1) + "^"

	color.Red("Syntax error in %s at line %d, column %d:", pos.Filename, pos.Line, pos.Column)
	fmt.Println(line)
	color.HiRed(caret)
	fmt.Printf("-> %s\n", pe.Message())
}
