package template

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatasetMap_InsertionOrder(t *testing.T) {
	m := NewDatasetMap()
	m.Set("VS", &Dataset{Description: "Vital Signs"})
	m.Set("AE", &Dataset{Description: "Adverse Events"})
	m.Set("DM", &Dataset{Description: "Demographics"})
	m.Set("VS", &Dataset{Description: "Vital Signs, updated"})

	// Repeats replace the entry but keep the original position.
	assert.Equal(t, []string{"VS", "AE", "DM"}, m.Names())
	vs, ok := m.Get("VS")
	require.True(t, ok)
	assert.Equal(t, "Vital Signs, updated", vs.Description)

	blob, err := json.Marshal(m)
	require.NoError(t, err)
	vsAt := strings.Index(string(blob), `"VS"`)
	aeAt := strings.Index(string(blob), `"AE"`)
	dmAt := strings.Index(string(blob), `"DM"`)
	assert.True(t, vsAt < aeAt && aeAt < dmAt, "unexpected key order: %s", blob)
}

func TestTemplate_Encode(t *testing.T) {
	tpl := &Template{
		Study: StudySection{StudyName: "CDISC-PILOT", Language: "en"},
		Standards: []Standard{
			{Name: "SDTMIG", Type: "IG", Version: "3.4"},
			{Name: "CDISC/NCI", Type: "CT", PublishingSet: "SDTM", Version: "2025-03-28"},
		},
		Datasets:  NewDatasetMap(),
		CodeLists: []CodelistAssignment{},
	}
	tpl.Datasets.Set("VS", &Dataset{
		Description: "Vital Signs",
		Class:       "Findings",
		Structure:   "One record per measurement",
		Variables: []VariableRow{
			{Variable: "STUDYID", Label: "Study Identifier", DataType: "Char", Role: "Identifier"},
		},
	})

	blob, err := tpl.Encode()
	require.NoError(t, err)

	out := string(blob)
	assert.True(t, strings.HasSuffix(out, "\n"))

	// Section order on the wire is Study, Standards, Datasets, CodeLists.
	studyAt := strings.Index(out, `"Study"`)
	standardsAt := strings.Index(out, `"Standards"`)
	datasetsAt := strings.Index(out, `"Datasets"`)
	codeListsAt := strings.Index(out, `"CodeLists"`)
	assert.True(t, studyAt < standardsAt && standardsAt < datasetsAt && datasetsAt < codeListsAt,
		"unexpected section order: %s", out)

	assert.Contains(t, out, `"Publishing Set": "SDTM"`)
	assert.Contains(t, out, `"Data Type": "Char"`)

	// The IG standard carries no publishing set and must not emit the key
	// with a placeholder.
	decoded := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(blob, &decoded))
	standards := decoded["Standards"].([]interface{})
	_, ok := standards[0].(map[string]interface{})["Publishing Set"]
	assert.False(t, ok)
}
