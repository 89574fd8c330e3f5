// Package generator drives the Define.xml to Dataset-JSON shell conversion:
// it loads the metadata model once, enumerates the datasets, and produces,
// validates and writes one shell file per dataset.
package generator

import (
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/cdisc-tools/datasetjson-shells/datasetjson"
	"github.com/cdisc-tools/datasetjson-shells/define"
	gErrors "github.com/cdisc-tools/datasetjson-shells/generator/errors"
)

// Shell validation supports three modes. In strict mode an invalid shell is
// counted and not written; in warnings mode it is written anyway and the
// issues are logged; disabled skips validation entirely.
const (
	ValidationModeStrict   = "strict"
	ValidationModeWarnings = "warnings"
	ValidationModeDisabled = "disabled"
)

// creationTimeLayout is the timestamp format of the Dataset-JSON
// datasetJSONCreationDateTime field.
const creationTimeLayout = "2006-01-02T15:04:05"

type Config struct {
	// DefineFile is the path of the Define.xml input document.
	DefineFile string

	// OutputDir receives one <DatasetName>.json file per dataset.
	OutputDir string

	// SchemaFile optionally overrides the embedded Dataset-JSON schema.
	SchemaFile string

	// ValidationMode is one of strict, warnings or disabled. Empty means
	// strict.
	ValidationMode string

	// CreationDateTime is stamped on every shell of the run. When empty the
	// session takes the wall clock once at initialization; tests supply a
	// fixed value to keep output reproducible.
	CreationDateTime string
}

// Stats summarizes one batch run.
type Stats struct {
	Datasets         int
	FilesWritten     int
	ValidationErrors int
	Skipped          int
}

// Session owns the state shared across the datasets of one run: the parsed
// metadata model and the compiled schema. Both are initialized lazily and
// exactly once, and are read-only afterwards.
type Session struct {
	logger logrus.FieldLogger
	fs     afero.Fs
	config Config

	initialized bool
	study       *define.Study
	validator   *datasetjson.Validator
	creation    string
}

func NewSession(logger logrus.FieldLogger, fs afero.Fs, config Config) *Session {
	if config.ValidationMode == "" {
		config.ValidationMode = ValidationModeStrict
	}
	return &Session{
		logger: logger.WithField("run", uuid.New().String()),
		fs:     fs,
		config: config,
	}
}

// init loads the metadata model and compiles the schema. It is idempotent;
// repeated calls after a successful one are no-ops.
func (s *Session) init() error {
	if s.initialized {
		return nil
	}

	study, err := define.Load(s.fs, s.config.DefineFile)
	if err != nil {
		return err
	}

	var validator *datasetjson.Validator
	if s.config.SchemaFile != "" {
		blob, err := afero.ReadFile(s.fs, s.config.SchemaFile)
		if err != nil {
			if os.IsNotExist(err) {
				return gErrors.New(gErrors.KindMissingInput, errors.Wrap(err, "schema file not found"))
			}
			return errors.Wrap(err, "reading schema file")
		}
		validator, err = datasetjson.NewValidatorBytes(blob)
		if err != nil {
			return err
		}
	} else {
		validator, err = datasetjson.NewValidator()
		if err != nil {
			return err
		}
	}

	creation := s.config.CreationDateTime
	if creation == "" {
		creation = time.Now().Format(creationTimeLayout)
	}

	s.study = study
	s.validator = validator
	s.creation = creation
	s.initialized = true

	s.logger.WithFields(logrus.Fields{
		"define":   s.config.DefineFile,
		"studyOID": study.StudyOID,
		"mdvOID":   study.MetaDataVersionOID,
	}).Info("Metadata model loaded")

	return nil
}

// Run processes every dataset of the study sequentially. Per-dataset
// failures are logged and counted; only startup failures (missing or
// malformed input) return an error.
func (s *Session) Run() (*Stats, error) {
	if err := s.init(); err != nil {
		return nil, err
	}

	if err := s.fs.MkdirAll(s.config.OutputDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating output directory")
	}

	stats := &Stats{}
	names := s.study.DatasetNames()
	stats.Datasets = len(names)

	for _, name := range names {
		logger := s.logger.WithField("dataset", name)
		written, err := s.processDataset(logger, name, stats)
		if err != nil {
			stats.Skipped++
			logger.WithError(err).Error("Dataset skipped")
			continue
		}
		if written {
			stats.FilesWritten++
		}
	}

	s.logger.WithFields(logrus.Fields{
		"datasets":          stats.Datasets,
		"files_written":     stats.FilesWritten,
		"validation_errors": stats.ValidationErrors,
		"skipped":           stats.Skipped,
	}).Info("Run finished")

	return stats, nil
}

// Generate assembles and encodes the shell of one dataset without writing
// or validating it. The dataset name lookup is case-insensitive.
func (s *Session) Generate(name string) ([]byte, error) {
	if err := s.init(); err != nil {
		return nil, err
	}
	group, err := s.study.Dataset(name)
	if err != nil {
		return nil, err
	}
	refs, err := s.study.ResolveRefs(group)
	if err != nil {
		return nil, err
	}
	shell := datasetjson.NewShell(s.study, group, datasetjson.MapColumns(refs), s.creation)
	return shell.Encode()
}

func (s *Session) processDataset(logger logrus.FieldLogger, name string, stats *Stats) (written bool, err error) {
	blob, err := s.Generate(name)
	if err != nil {
		return false, err
	}

	if s.config.ValidationMode != ValidationModeDisabled {
		if err := s.validator.Validate(blob); err != nil {
			verr, ok := err.(datasetjson.ValidationError)
			if !ok {
				return false, err
			}
			stats.ValidationErrors++
			for _, issue := range verr.Errors {
				logger.WithField("path", issue.Path).Warn(issue.Message)
			}
			if s.config.ValidationMode == ValidationModeStrict {
				logger.Error("Shell failed schema validation, not written")
				return false, nil
			}
		}
	}

	// The file keeps the dataset name exactly as declared in Define.xml.
	path := filepath.Join(s.config.OutputDir, name+".json")
	if err := afero.WriteFile(s.fs, path, blob, 0o644); err != nil {
		return false, errors.Wrapf(err, "writing %s", path)
	}
	logger.WithField("path", path).Debug("Shell written")
	return true, nil
}
