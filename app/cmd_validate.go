package app

import (
	"fmt"
	"io"
	"io/ioutil"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/cdisc-tools/datasetjson-shells/datasetjson"
)

var file string

func NewCmdValidate(out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a Dataset-JSON document against the v1.1 schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return doValidate(out)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "File")

	return cmd
}

func doValidate(out io.Writer) error {
	if file == "" {
		return errors.New("parameter empty")
	}
	data, err := ioutil.ReadFile(file)
	if err != nil {
		return errors.Wrap(err, "cannot read file")
	}
	validator, err := datasetjson.NewValidator()
	if err != nil {
		return err
	}
	err = validator.Validate(data)
	if err == nil {
		fmt.Fprintln(out, "The document is valid.")
		return nil
	}
	verr, ok := err.(datasetjson.ValidationError)
	if !ok {
		return err
	}
	fmt.Fprintln(out, "The document is invalid!")
	for _, issue := range verr.Errors {
		fmt.Fprintf(out, "- %s: %s\n", issue.Path, issue.Message)
	}
	return verr
}
