package template

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/afero"

	gErrors "github.com/cdisc-tools/datasetjson-shells/generator/errors"
)

// StudyDefinition is the subset of a USDM study definition document that
// the template derivation reads.
type StudyDefinition struct {
	Study struct {
		Versions     []StudyVersion `json:"versions"`
		DocumentedBy documentList   `json:"documentedBy"`
	} `json:"study"`
}

type StudyVersion struct {
	Titles             []Title             `json:"titles"`
	DocumentVersionIDs []string            `json:"documentVersionIds"`
	BiomedicalConcepts []BiomedicalConcept `json:"biomedicalConcepts"`
}

type Title struct {
	Text string `json:"text"`
	Type struct {
		Decode string `json:"decode"`
	} `json:"type"`
}

type StudyDocument struct {
	Versions []struct {
		ID string `json:"id"`
	} `json:"versions"`
	Language struct {
		Code string `json:"code"`
	} `json:"language"`
}

// documentList tolerates both a single document object and an array, which
// both occur in USDM exports.
type documentList []StudyDocument

func (d *documentList) UnmarshalJSON(data []byte) error {
	var many []StudyDocument
	if err := json.Unmarshal(data, &many); err == nil {
		*d = many
		return nil
	}
	var one StudyDocument
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	*d = documentList{one}
	return nil
}

// BiomedicalConcept is a concept reference carried by a study version.
// Reference is a CDISC Library path.
type BiomedicalConcept struct {
	ID         string       `json:"id"`
	Reference  string       `json:"reference"`
	Properties []BCProperty `json:"properties"`
}

type BCProperty struct {
	Name string `json:"name"`
	Code struct {
		StandardCode struct {
			Code string `json:"code"`
		} `json:"standardCode"`
	} `json:"code"`
	ResponseCodes []struct {
		Code struct {
			Code string `json:"code"`
		} `json:"code"`
	} `json:"responseCodes"`
}

// Version returns the study version at the given index.
func (d *StudyDefinition) Version(i int) (*StudyVersion, error) {
	if i < 0 || i >= len(d.Study.Versions) {
		return nil, errors.Errorf("study has no version %d", i)
	}
	return &d.Study.Versions[i], nil
}

// Title returns the text of the first title with the given decoded type.
func (v *StudyVersion) Title(decode string) string {
	for _, t := range v.Titles {
		if t.Type.Decode == decode {
			return t.Text
		}
	}
	return ""
}

// LanguageCode returns the language of the study document that carries the
// given document version.
func (d *StudyDefinition) LanguageCode(docVersionID string) string {
	for _, doc := range d.Study.DocumentedBy {
		for _, v := range doc.Versions {
			if v.ID == docVersionID {
				return doc.Language.Code
			}
		}
	}
	return ""
}

// LoadStudyDefinition reads and decodes a USDM study definition file.
func LoadStudyDefinition(fs afero.Fs, path string) (*StudyDefinition, error) {
	blob, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, gErrors.New(gErrors.KindMissingInput, errors.Wrap(err, "USDM file not found"))
		}
		return nil, errors.Wrap(err, "reading USDM file")
	}
	doc := &StudyDefinition{}
	if err := json.Unmarshal(blob, doc); err != nil {
		return nil, gErrors.New(gErrors.KindMalformedInput, errors.Wrap(err, "decoding USDM document"))
	}
	return doc, nil
}
