package datasetjson

// Version of the Dataset-JSON specification that the shells conform to.
const Version = "1.1.0"

// Column is a Dataset-JSON column descriptor. Field order is the wire key
// order; optional fields are omitted entirely when absent in the source,
// never emitted as null or empty placeholders.
type Column struct {
	ItemOID        string `json:"itemOID"`
	Name           string `json:"name"`
	Label          string `json:"label"`
	DataType       string `json:"dataType"`
	TargetDataType string `json:"targetDataType,omitempty"`
	Length         *int   `json:"length,omitempty"`
	DisplayFormat  string `json:"displayFormat,omitempty"`
	KeySequence    *int   `json:"keySequence,omitempty"`
}

// Shell is an empty Dataset-JSON dataset. Records is always zero and Rows
// always an empty array; this tool never populates data.
type Shell struct {
	DatasetJSONCreationDateTime string          `json:"datasetJSONCreationDateTime"`
	DatasetJSONVersion          string          `json:"datasetJSONVersion"`
	StudyOID                    string          `json:"studyOID"`
	MetaDataVersionOID          string          `json:"metaDataVersionOID"`
	ItemGroupOID                string          `json:"itemGroupOID"`
	Records                     int             `json:"records"`
	Name                        string          `json:"name"`
	Label                       string          `json:"label"`
	Columns                     []Column        `json:"columns"`
	Rows                        [][]interface{} `json:"rows"`
}
