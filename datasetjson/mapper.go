package datasetjson

import (
	"regexp"

	"github.com/cdisc-tools/datasetjson-shells/define"
)

// ODM data types that collapse to the Dataset-JSON "string" type.
var stringDataTypes = map[string]struct{}{
	"text":               {},
	"datetime":           {},
	"date":               {},
	"time":               {},
	"partialDate":        {},
	"partialTime":        {},
	"partialDatetime":    {},
	"incompleteDatetime": {},
	"durationDatetime":   {},
	"intervalDatetime":   {},
}

// Naming conventions for numeric date/time variables. An integer variable
// ending in DTM/DT/TM holds a date-time, date or time encoded as a number;
// the TM rule excludes the RLTM (relative time) and ELTM (elapsed time)
// suffix families, which are plain durations. The exclusion list is a
// denylist of the suffix conventions known today, not a closed set.
var (
	reNumDTM = regexp.MustCompile(`^[A-Z][A-Z0-9_]{0,4}DTM$`)
	reNumDT  = regexp.MustCompile(`^[A-Z][A-Z0-9_]{0,5}DT$`)
	reNumTM  = regexp.MustCompile(`^[A-Z][A-CE-Z0-9_]{0,5}TM$`)
	reRLTM   = regexp.MustCompile(`^[A-Z][A-Z0-9_]{0,3}RLTM$`)
	reELTM   = regexp.MustCompile(`^[A-Z][A-Z0-9_]{0,3}ELTM$`)
)

// typeRule decides the resolved dataType and optional targetDataType of a
// column. Rules are evaluated in order and the first match wins.
type typeRule struct {
	name           string
	matches        func(rawType, name string) bool
	dataType       string
	targetDataType string
}

var typeRules = []typeRule{
	{
		name: "string family",
		matches: func(rawType, name string) bool {
			_, ok := stringDataTypes[rawType]
			return ok
		},
		dataType: "string",
	},
	{
		name: "numeric datetime",
		matches: func(rawType, name string) bool {
			return rawType == "integer" && reNumDTM.MatchString(name)
		},
		dataType:       "datetime",
		targetDataType: "integer",
	},
	{
		name: "numeric date",
		matches: func(rawType, name string) bool {
			return rawType == "integer" && reNumDT.MatchString(name)
		},
		dataType:       "date",
		targetDataType: "integer",
	},
	{
		name: "numeric time",
		matches: func(rawType, name string) bool {
			return rawType == "integer" && reNumTM.MatchString(name) &&
				!reRLTM.MatchString(name) && !reELTM.MatchString(name)
		},
		dataType:       "time",
		targetDataType: "integer",
	},
	{
		name: "decimal",
		matches: func(rawType, name string) bool {
			return rawType == "decimal"
		},
		dataType:       "decimal",
		targetDataType: "decimal",
	},
}

// InferType resolves the Dataset-JSON data type for a variable. Any raw
// type no rule claims passes through verbatim with no target type.
func InferType(rawType, name string) (dataType, targetDataType string) {
	for _, rule := range typeRules {
		if rule.matches(rawType, name) {
			return rule.dataType, rule.targetDataType
		}
	}
	return rawType, ""
}

// MapColumns produces one column descriptor per resolved item reference,
// preserving reference order exactly. That order is the dataset's physical
// column order and is never re-sorted, in particular not by key sequence.
func MapColumns(refs []define.ResolvedRef) []Column {
	columns := make([]Column, 0, len(refs))
	for _, r := range refs {
		dataType, targetDataType := InferType(r.Def.DataType, r.Def.Name)
		columns = append(columns, Column{
			ItemOID:        r.Def.OID,
			Name:           r.Def.Name,
			Label:          r.Def.Label,
			DataType:       dataType,
			TargetDataType: targetDataType,
			Length:         r.Def.Length,
			DisplayFormat:  r.Def.DisplayFormat,
			KeySequence:    r.Ref.KeySequence,
		})
	}
	return columns
}
