// Command line glue: parse this file as this shape. Everything here
// is strictly a client of the engine.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/scanforge/bintape"
	"github.com/scanforge/bintape/formats/id3"
	"github.com/scanforge/bintape/formats/zipfmt"
)

var (
	shape_tag   string
	layout_file string
	verbose     bool

	root_cmd = &cobra.Command{
		Use:          "bintape",
		Short:        "Parse binary files with declarative result shapes",
		SilenceUsage: true,
	}

	parse_cmd = &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a file as the given shape and print its fields",
		Args:  cobra.ExactArgs(1),
		RunE:  runParse,
	}

	shapes_cmd = &cobra.Command{
		Use:   "shapes",
		Short: "List the available shape tags",
		RunE:  runShapes,
	}
)

func buildRegistry() (*bintape.ShapeRegistry, error) {
	registry := bintape.NewShapeRegistry()
	id3.Register(registry)
	zipfmt.Register(registry)

	if layout_file != "" {
		definitions, err := os.ReadFile(layout_file)
		if err != nil {
			return nil, err
		}

		layouts, err := bintape.ParseLayoutDefinitions(string(definitions))
		if err != nil {
			return nil, err
		}

		for _, layout := range layouts {
			bintape.RegisterLayout(registry, layout)
		}
	}

	return registry, nil
}

func makeLogger() (*zap.SugaredLogger, error) {
	if !verbose {
		return zap.NewNop().Sugar(), nil
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

func runParse(cmd *cobra.Command, args []string) error {
	logger, err := makeLogger()
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	registry, err := buildRegistry()
	if err != nil {
		return err
	}
	registry.SetLogger(logger)

	obj, err := registry.Load(shape_tag, args[0])
	if err != nil {
		return err
	}

	fmt.Println(bintape.StringIndent(obj.Registry()))
	return nil
}

func runShapes(cmd *cobra.Command, args []string) error {
	registry, err := buildRegistry()
	if err != nil {
		return err
	}

	for _, tag := range registry.Tags() {
		fmt.Println(tag)
	}
	return nil
}

func init() {
	parse_cmd.Flags().StringVar(&shape_tag, "shape", "id3",
		"Shape tag to parse the file as")
	parse_cmd.Flags().BoolVarP(&verbose, "verbose", "v", false,
		"Trace every instruction while parsing")

	root_cmd.PersistentFlags().StringVar(&layout_file, "layouts", "",
		"YAML file of extra layout definitions to register")

	root_cmd.AddCommand(parse_cmd)
	root_cmd.AddCommand(shapes_cmd)
}

func main() {
	err := root_cmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
