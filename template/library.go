package template

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// Library resolves the CDISC Library resources the template derivation
// needs. The shipped implementation reads a local snapshot; the interface
// keeps the data source swappable.
type Library interface {
	// Concept fetches a biomedical concept or dataset specialization by
	// the reference path recorded in the USDM document.
	Concept(ref string) (*ConceptResource, error)

	// Specialization fetches an SDTM dataset specialization by its ID.
	Specialization(id string) (*ConceptResource, error)

	// SDTMSpecializations returns the SDTM dataset specializations linked
	// to a biomedical concept.
	SDTMSpecializations(conceptID string) ([]*ConceptResource, error)

	// Dataset fetches an SDTMIG dataset definition by name.
	Dataset(name string) (*IGDataset, error)

	// Codelist fetches a controlled-terminology codelist with its terms.
	// A codelist absent from the source yields (nil, nil); snapshots are
	// routinely partial.
	Codelist(conceptID string) (*Codelist, error)
}

// ConceptResource is the shared shape of biomedical concepts and dataset
// specializations.
type ConceptResource struct {
	ConceptID               string         `json:"conceptId"`
	DatasetSpecializationID string         `json:"datasetSpecializationId"`
	Domain                  string         `json:"domain"`
	Variables               []SpecVariable `json:"variables"`
	Links                   struct {
		Self struct {
			Type string `json:"type"`
		} `json:"self"`
	} `json:"_links"`
}

// SpecVariable is a variable of a dataset specialization. The value-level
// metadata fields keep the wire representation untyped since the Library
// serves them as either strings or numbers.
type SpecVariable struct {
	Name                 string `json:"name"`
	DataElementConceptID string `json:"dataElementConceptId"`
	Codelist             struct {
		ConceptID string `json:"conceptId"`
	} `json:"codelist"`
	Comparator   string `json:"comparator"`
	VLMTarget    bool   `json:"vlmTarget"`
	AssignedTerm struct {
		ConceptID string `json:"conceptId"`
		Value     string `json:"value"`
	} `json:"assignedTerm"`
	ValueList []string `json:"valueList"`

	Role              interface{} `json:"role"`
	DataType          interface{} `json:"dataType"`
	Length            interface{} `json:"length"`
	Format            interface{} `json:"format"`
	SignificantDigits interface{} `json:"significantDigits"`
	OriginType        interface{} `json:"originType"`
	OriginSource      interface{} `json:"originSource"`
}

// IGDataset is an SDTMIG dataset definition.
type IGDataset struct {
	Label            string       `json:"label"`
	DatasetStructure string       `json:"datasetStructure"`
	DatasetVariables []IGVariable `json:"datasetVariables"`
	Links            struct {
		ParentClass struct {
			Title string `json:"title"`
		} `json:"parentClass"`
	} `json:"_links"`
}

type IGVariable struct {
	Name           string `json:"name"`
	Label          string `json:"label"`
	SimpleDatatype string `json:"simpleDatatype"`
	Role           string `json:"role"`
	Core           string `json:"core"`
	Links          struct {
		Codelist []struct {
			Href string `json:"href"`
		} `json:"codelist"`
	} `json:"_links"`
}

type Codelist struct {
	ConceptID       string `json:"conceptId"`
	Name            string `json:"name"`
	SubmissionValue string `json:"submissionValue"`
	Terms           []Term `json:"terms"`
}

type Term struct {
	ConceptID       string   `json:"conceptId"`
	SubmissionValue string   `json:"submissionValue"`
	Synonyms        []string `json:"synonyms"`
}

// Snapshot is a Library backed by a directory of cached CDISC Library
// responses, one JSON file per resource path:
//
//	<root>/<concept reference path>.json
//	<root>/mdr/specializations/datasetspecializations/<conceptID>.json
//	<root>/mdr/specializations/sdtm/datasetspecializations/<id>.json
//	<root>/mdr/sdtmig/<ig version, dots as dashes>/datasets/<NAME>.json
//	<root>/mdr/ct/packages/sdtmct-<ct version>/codelists/<id>.json
type Snapshot struct {
	fs     afero.Fs
	root   string
	sdtmig string
	sdtmct string
}

func NewSnapshot(fs afero.Fs, root, sdtmigVersion, ctVersion string) *Snapshot {
	return &Snapshot{fs: fs, root: root, sdtmig: sdtmigVersion, sdtmct: ctVersion}
}

var _ Library = (*Snapshot)(nil)

func (s *Snapshot) read(path string, v interface{}) error {
	rel := strings.TrimPrefix(path, "/") + ".json"
	full := filepath.Join(s.root, filepath.FromSlash(rel))
	blob, err := afero.ReadFile(s.fs, full)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrapf(os.ErrNotExist, "library snapshot has no resource %s", path)
		}
		return errors.Wrapf(err, "reading library resource %s", path)
	}
	if err := json.Unmarshal(blob, v); err != nil {
		return errors.Wrapf(err, "decoding library resource %s", path)
	}
	return nil
}

func (s *Snapshot) Concept(ref string) (*ConceptResource, error) {
	res := &ConceptResource{}
	if err := s.read(ref, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Snapshot) Specialization(id string) (*ConceptResource, error) {
	return s.Concept("/mdr/specializations/sdtm/datasetspecializations/" + id)
}

func (s *Snapshot) SDTMSpecializations(conceptID string) ([]*ConceptResource, error) {
	var links struct {
		Links struct {
			DatasetSpecializations struct {
				SDTM []struct {
					Href string `json:"href"`
				} `json:"sdtm"`
			} `json:"datasetSpecializations"`
		} `json:"_links"`
	}
	if err := s.read("/mdr/specializations/datasetspecializations/"+conceptID, &links); err != nil {
		return nil, err
	}
	specs := make([]*ConceptResource, 0, len(links.Links.DatasetSpecializations.SDTM))
	for _, link := range links.Links.DatasetSpecializations.SDTM {
		spec, err := s.Concept(link.Href)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func (s *Snapshot) Dataset(name string) (*IGDataset, error) {
	ds := &IGDataset{}
	path := fmt.Sprintf("/mdr/sdtmig/%s/datasets/%s", strings.ReplaceAll(s.sdtmig, ".", "-"), name)
	if err := s.read(path, ds); err != nil {
		return nil, err
	}
	return ds, nil
}

func (s *Snapshot) Codelist(conceptID string) (*Codelist, error) {
	if conceptID == "" {
		return nil, nil
	}
	cl := &Codelist{}
	path := fmt.Sprintf("/mdr/ct/packages/sdtmct-%s/codelists/%s", s.sdtmct, conceptID)
	if err := s.read(path, cl); err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return cl, nil
}
