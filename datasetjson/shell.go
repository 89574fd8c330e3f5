package datasetjson

import (
	"encoding/json"

	"github.com/cdisc-tools/datasetjson-shells/define"
)

// NewShell assembles a zero-row shell from the study identifiers, the
// dataset's own attributes and the mapped columns. The creation timestamp
// is supplied by the caller (formatted as YYYY-MM-DDTHH:MM:SS) so that two
// runs over the same input produce byte-identical output.
func NewShell(study *define.Study, group *define.ItemGroupDef, columns []Column, creationDateTime string) *Shell {
	return &Shell{
		DatasetJSONCreationDateTime: creationDateTime,
		DatasetJSONVersion:          Version,
		StudyOID:                    study.StudyOID,
		MetaDataVersionOID:          study.MetaDataVersionOID,
		ItemGroupOID:                group.OID,
		Records:                     0,
		Name:                        group.Name,
		Label:                       group.Label,
		Columns:                     columns,
		Rows:                        make([][]interface{}, 0),
	}
}

// Encode renders the shell as indented UTF-8 JSON with a trailing newline.
func (s *Shell) Encode() ([]byte, error) {
	blob, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(blob, '\n'), nil
}
