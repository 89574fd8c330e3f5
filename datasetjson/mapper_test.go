package datasetjson

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cdisc-tools/datasetjson-shells/define"
)

func TestInferType(t *testing.T) {
	tests := []struct {
		rawType  string
		name     string
		dataType string
		target   string
	}{
		// Raw types of the string family collapse to "string" regardless of
		// the variable name.
		{"text", "AETERM", "string", ""},
		{"text", "AESTDTM", "string", ""},
		{"datetime", "AESTDTC", "string", ""},
		{"date", "RFSTDTC", "string", ""},
		{"time", "LBTM", "string", ""},
		{"partialDate", "BRTHDTC", "string", ""},
		{"partialTime", "LBTM", "string", ""},
		{"partialDatetime", "AESTDTC", "string", ""},
		{"incompleteDatetime", "AESTDTC", "string", ""},
		{"durationDatetime", "AEDUR", "string", ""},
		{"intervalDatetime", "AESTRF", "string", ""},

		// Numeric date/time naming conventions.
		{"integer", "AESTDTM", "datetime", "integer"},
		{"integer", "ADTM", "datetime", "integer"},
		{"integer", "AESTDT", "date", "integer"},
		{"integer", "AESTTM", "time", "integer"},

		// Prefix too long for the convention; stays a plain integer.
		{"integer", "ABCDEFDTM", "integer", ""},
		{"integer", "ABCDEFGDT", "integer", ""},

		// Lowercase names never match the conventions.
		{"integer", "aestdtm", "integer", ""},

		// Relative and elapsed times are durations, not clock times.
		{"integer", "RFSTRLTM", "integer", ""},
		{"integer", "VSELTM", "integer", ""},

		// Decimals always carry a decimal target.
		{"decimal", "VSORRES", "decimal", "decimal"},
		{"decimal", "AESTDTM", "decimal", "decimal"},

		// Everything else passes through verbatim.
		{"integer", "AGE", "integer", ""},
		{"float", "VSSTRESN", "float", ""},
		{"boolean", "DSDECOD", "boolean", ""},
		{"URI", "SUPPLINK", "URI", ""},
	}
	for _, tt := range tests {
		t.Run(tt.rawType+"/"+tt.name, func(t *testing.T) {
			dataType, target := InferType(tt.rawType, tt.name)
			assert.Equal(t, tt.dataType, dataType)
			assert.Equal(t, tt.target, target)
		})
	}
}

func TestMapColumns(t *testing.T) {
	length := 8
	keySeq := 1
	refs := []define.ResolvedRef{
		{
			Ref: define.ItemRef{ItemOID: "IT.VS.STUDYID", KeySequence: &keySeq},
			Def: &define.ItemDef{OID: "IT.VS.STUDYID", Name: "STUDYID", DataType: "text", Label: "Study Identifier"},
		},
		{
			Ref: define.ItemRef{ItemOID: "IT.VS.VSORRES"},
			Def: &define.ItemDef{OID: "IT.VS.VSORRES", Name: "VSORRES", DataType: "decimal", Label: "Result", Length: &length, DisplayFormat: "8.2"},
		},
		{
			Ref: define.ItemRef{ItemOID: "IT.VS.VSDTM"},
			Def: &define.ItemDef{OID: "IT.VS.VSDTM", Name: "VSDTM", DataType: "integer"},
		},
	}

	columns := MapColumns(refs)
	require.Len(t, columns, 3)

	// Column order is reference order, never re-sorted by key sequence.
	assert.Equal(t, "STUDYID", columns[0].Name)
	assert.Equal(t, "VSORRES", columns[1].Name)
	assert.Equal(t, "VSDTM", columns[2].Name)

	assert.Equal(t, "string", columns[0].DataType)
	assert.Equal(t, "", columns[0].TargetDataType)
	require.NotNil(t, columns[0].KeySequence)
	assert.Equal(t, 1, *columns[0].KeySequence)

	assert.Equal(t, "decimal", columns[1].DataType)
	assert.Equal(t, "decimal", columns[1].TargetDataType)
	assert.Equal(t, "8.2", columns[1].DisplayFormat)

	assert.Equal(t, "datetime", columns[2].DataType)
	assert.Equal(t, "integer", columns[2].TargetDataType)
	assert.Nil(t, columns[2].Length)
	assert.Nil(t, columns[2].KeySequence)
}

func TestColumn_OptionalFieldsOmitted(t *testing.T) {
	blob, err := json.Marshal(Column{
		ItemOID:  "IT.DM.ARM",
		Name:     "ARM",
		Label:    "Planned Arm",
		DataType: "string",
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"itemOID":"IT.DM.ARM","name":"ARM","label":"Planned Arm","dataType":"string"}`, string(blob))
	assert.NotContains(t, string(blob), "null")
}
