package app

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	gErrors "github.com/cdisc-tools/datasetjson-shells/generator/errors"
	"github.com/cdisc-tools/datasetjson-shells/template"
)

var (
	usdmFile       string
	outputTemplate string
)

func NewCmdTemplate(logger logrus.FieldLogger, out io.Writer, config *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Derive a Define-Template from a USDM study definition",
		RunE: func(cmd *cobra.Command, args []string) error {
			return doTemplate(logger, out, config)
		},
	}

	cmd.Flags().StringVar(&usdmFile, "usdm-file", "", "Path to the USDM JSON file")
	cmd.Flags().StringVar(&outputTemplate, "output-template", "", "Path of the output template JSON file")
	_ = cmd.MarkFlagRequired("usdm-file")
	_ = cmd.MarkFlagRequired("output-template")

	return cmd
}

func doTemplate(logger logrus.FieldLogger, out io.Writer, config *Config) error {
	fs := afero.NewOsFs()

	if ok, err := afero.DirExists(fs, config.Template.LibraryDir); err != nil {
		return err
	} else if !ok {
		return gErrors.New(gErrors.KindMissingInput,
			errors.Wrap(os.ErrNotExist, "library snapshot directory "+config.Template.LibraryDir))
	}

	doc, err := template.LoadStudyDefinition(fs, usdmFile)
	if err != nil {
		return err
	}

	lib := template.NewSnapshot(fs, config.Template.LibraryDir, config.Template.SDTMIGVersion, config.Template.SDTMCTVersion)
	builder := template.NewBuilder(logger, lib, config.Template.SDTMIGVersion, config.Template.SDTMCTVersion)

	t, err := builder.Build(doc)
	if err != nil {
		return err
	}

	blob, err := t.Encode()
	if err != nil {
		return err
	}
	if err := afero.WriteFile(fs, outputTemplate, blob, 0o644); err != nil {
		return errors.Wrap(err, "writing template")
	}

	fmt.Fprintf(out, "Template written to %s (%d datasets, %d codelists)\n",
		outputTemplate, len(t.Datasets.Names()), len(t.CodeLists))

	return nil
}
