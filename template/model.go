package template

import (
	"bytes"
	"encoding/json"
)

// Template is a Define-Template document. Section order on the wire is
// Study, Standards, Datasets, CodeLists.
type Template struct {
	Study     StudySection         `json:"Study"`
	Standards []Standard           `json:"Standards"`
	Datasets  *DatasetMap          `json:"Datasets"`
	CodeLists []CodelistAssignment `json:"CodeLists"`
}

type StudySection struct {
	StudyName        string `json:"StudyName"`
	StudyDescription string `json:"StudyDescription"`
	ProtocolName     string `json:"ProtocolName"`
	Language         string `json:"Language"`
}

type Standard struct {
	Name          string `json:"Name"`
	Type          string `json:"Type"`
	PublishingSet string `json:"Publishing Set,omitempty"`
	Version       string `json:"Version"`
}

// Dataset is one entry of the Datasets section.
type Dataset struct {
	Description string        `json:"Description"`
	Class       string        `json:"Class"`
	Structure   string        `json:"Structure"`
	Variables   []VariableRow `json:"Variables"`
}

type VariableRow struct {
	Variable string   `json:"Variable"`
	Label    string   `json:"Label"`
	DataType string   `json:"Data Type"`
	Role     string   `json:"Role"`
	CodeList []string `json:"CodeList,omitempty"`
	VLM      []*VLM   `json:"VLM,omitempty"`
}

// VLM is the value-level metadata recorded for a VLM target variable.
type VLM struct {
	Role              interface{}   `json:"role,omitempty"`
	DataType          interface{}   `json:"dataType,omitempty"`
	Length            interface{}   `json:"length,omitempty"`
	Format            interface{}   `json:"format,omitempty"`
	SignificantDigits interface{}   `json:"significantDigits,omitempty"`
	OriginType        interface{}   `json:"originType,omitempty"`
	OriginSource      interface{}   `json:"originSource,omitempty"`
	ResponseCodes     []string      `json:"responseCodes,omitempty"`
	WhereClause       []WhereClause `json:"WhereClause"`
}

type WhereClause struct {
	Clause []ClauseItem `json:"Clause"`
}

type ClauseItem struct {
	Dataset           string   `json:"Dataset"`
	Variable          string   `json:"Variable"`
	CodelistConceptID string   `json:"Codelist Concept ID"`
	Comparator        string   `json:"Comparator"`
	Values            []string `json:"Values"`
}

type CodelistAssignment struct {
	Dataset  string          `json:"Dataset"`
	Variable string          `json:"Variable"`
	CodeList []CodelistEntry `json:"CodeList"`
}

type CodelistEntry struct {
	NCICodelistCode string     `json:"NCI Codelist Code"`
	Name            string     `json:"Name"`
	ShortName       string     `json:"Short Name"`
	Terms           []TermItem `json:"Terms"`
}

type TermItem struct {
	NCITermCode  string   `json:"NCI Term Code"`
	Term         string   `json:"Term"`
	DecodedValue []string `json:"Decoded Value"`
}

// DatasetMap is an insertion-ordered map of dataset name to entry.
// encoding/json would sort plain map keys; dataset order must follow the
// order in which the biomedical concepts introduced the datasets.
type DatasetMap struct {
	names   []string
	entries map[string]*Dataset
}

func NewDatasetMap() *DatasetMap {
	return &DatasetMap{entries: make(map[string]*Dataset)}
}

// Set stores an entry, keeping first-insertion order on repeats.
func (m *DatasetMap) Set(name string, d *Dataset) {
	if _, ok := m.entries[name]; !ok {
		m.names = append(m.names, name)
	}
	m.entries[name] = d
}

func (m *DatasetMap) Get(name string) (*Dataset, bool) {
	d, ok := m.entries[name]
	return d, ok
}

// Names returns the dataset names in insertion order.
func (m *DatasetMap) Names() []string {
	return m.names
}

// MarshalJSON writes the entries as a JSON object in insertion order.
func (m *DatasetMap) MarshalJSON() ([]byte, error) {
	buf := bytes.Buffer{}
	buf.WriteByte('{')
	for i, name := range m.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(m.entries[name])
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Encode renders the template as indented UTF-8 JSON with a trailing
// newline.
func (t *Template) Encode() ([]byte, error) {
	blob, err := json.MarshalIndent(t, "", "    ")
	if err != nil {
		return nil, err
	}
	return append(blob, '\n'), nil
}
