package app

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/cdisc-tools/datasetjson-shells/generator"
)

var (
	defineFile string
	outputDir  string
)

func NewCmdGenerate(logger logrus.FieldLogger, out io.Writer, config *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate Dataset-JSON shells from a Define.xml document",
		RunE: func(cmd *cobra.Command, args []string) error {
			return doGenerate(logger, out, config)
		},
	}

	cmd.Flags().StringVar(&defineFile, "define-file", "", "Path to the Define.xml file")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "Directory to write generated files")
	_ = cmd.MarkFlagRequired("define-file")
	_ = cmd.MarkFlagRequired("output-dir")

	return cmd
}

func doGenerate(logger logrus.FieldLogger, out io.Writer, config *Config) error {
	session := generator.NewSession(logger, afero.NewOsFs(), generator.Config{
		DefineFile:     defineFile,
		OutputDir:      outputDir,
		SchemaFile:     config.Generator.SchemaFile,
		ValidationMode: config.Generator.ValidationMode,
	})

	stats, err := session.Run()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Datasets processed: %d\n", stats.Datasets)
	fmt.Fprintf(out, "Files written:      %d\n", stats.FilesWritten)
	fmt.Fprintf(out, "Validation errors:  %d\n", stats.ValidationErrors)
	fmt.Fprintf(out, "Datasets skipped:   %d\n", stats.Skipped)

	return nil
}
