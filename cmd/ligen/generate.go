package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kanata9/ligen/codegen"
	verr "github.com/kanata9/ligen/error"
	"github.com/kanata9/ligen/grammar"
	"github.com/kanata9/ligen/spec"
	"github.com/spf13/cobra"
)

var generateFlags = struct {
	output    *string
	report    *string
	overrides *[]string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "generate",
		Short:   "Generate parser source code from a grammar",
		Example: `  ligen generate grammar.ligen -o parser.c`,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runGenerate,
	}
	generateFlags.output = cmd.Flags().StringP("output", "o", "", "output file path (default stdout)")
	generateFlags.report = cmd.Flags().String("report", "", "write an analysis report in JSON to a file")
	generateFlags.overrides = cmd.Flags().StringArrayP("option", "O", nil, "override a grammar option (key=value)")
	rootCmd.AddCommand(cmd)
}

func runGenerate(cmd *cobra.Command, args []string) (retErr error) {
	var tmpDirPath string
	defer func() {
		if tmpDirPath == "" {
			return
		}
		os.RemoveAll(tmpDirPath)
	}()

	var grmPath string
	if len(args) > 0 {
		grmPath = args[0]
	}
	defer func() {
		if retErr != nil {
			attachSourceInfo(retErr, grmPath, len(args) > 0)
		}
	}()

	if grmPath == "" {
		var err error
		grmPath, tmpDirPath, err = saveStdinToTempFile()
		if err != nil {
			return err
		}
	}

	overrides, err := parseOverrides(*generateFlags.overrides)
	if err != nil {
		return err
	}

	gram, err := readGrammar(grmPath, overrides)
	if err != nil {
		return err
	}

	compileOpts := []grammar.CompileOption{}
	if *generateFlags.report != "" {
		compileOpts = append(compileOpts, grammar.EnableReporting())
	}

	cgram, report, err := grammar.Compile(gram, compileOpts...)
	if report != nil {
		werr := writeReportFile(report, *generateFlags.report)
		if werr != nil && err == nil {
			err = werr
		}
	}
	if err != nil {
		return err
	}

	src, err := codegen.GenParser(cgram)
	if err != nil {
		return err
	}

	return writeOutput(src, *generateFlags.output)
}

func attachSourceInfo(err error, grmPath string, fromFile bool) {
	specErrs, ok := err.(verr.SpecErrors)
	if !ok {
		if specErr, ok := err.(*verr.SpecError); ok {
			specErrs = verr.SpecErrors{specErr}
		} else {
			return
		}
	}
	for _, e := range specErrs {
		e.FilePath = grmPath
		if fromFile {
			e.SourceName = grmPath
		} else {
			e.SourceName = "stdin"
		}
	}
}

func saveStdinToTempFile() (string, string, error) {
	tmpDirPath, err := os.MkdirTemp("", "ligen-generate-*")
	if err != nil {
		return "", "", err
	}

	src, err := io.ReadAll(os.Stdin)
	if err != nil {
		os.RemoveAll(tmpDirPath)
		return "", "", err
	}

	grmPath := filepath.Join(tmpDirPath, "stdin.ligen")
	err = os.WriteFile(grmPath, src, 0600)
	if err != nil {
		os.RemoveAll(tmpDirPath)
		return "", "", err
	}

	return grmPath, tmpDirPath, nil
}

func parseOverrides(kvs []string) (map[string]string, error) {
	if len(kvs) == 0 {
		return nil, nil
	}
	overrides := map[string]string{}
	for _, kv := range kvs {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("an option override must be in key=value form: %v", kv)
		}
		overrides[k] = v
	}
	return overrides, nil
}

func readGrammar(path string, overrides map[string]string) (*grammar.Grammar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Cannot open the grammar file %s: %w", path, err)
	}
	defer f.Close()

	ast, err := spec.Parse(f)
	if err != nil {
		return nil, err
	}

	b := grammar.GrammarBuilder{
		AST:       ast,
		Overrides: overrides,
	}
	return b.Build()
}

func writeReportFile(report *spec.Report, path string) error {
	if path == "" {
		return nil
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("Cannot write the report file %s: %w", path, err)
	}
	defer f.Close()

	b, err := json.Marshal(report)
	if err != nil {
		return err
	}
	fmt.Fprintf(f, "%v\n", string(b))
	return nil
}

func writeOutput(src []byte, path string) error {
	if path == "" {
		_, err := os.Stdout.Write(src)
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("Cannot create the output file %s: %w", path, err)
	}
	defer f.Close()

	_, err = f.Write(src)
	return err
}
