package template

import (
	"path"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Concept resource types served by the CDISC Library.
const (
	conceptTypeBC  = "Biomedical Concept"
	conceptTypeDSS = "SDTM Dataset Specialization"
)

type valueSet map[string]struct{}

func (s valueSet) add(values ...string) {
	for _, v := range values {
		s[v] = struct{}{}
	}
}

func (s valueSet) sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

type vlmEntry struct {
	variable string
	data     *VLM
}

// Builder accumulates the working state of one template derivation. It is
// single-use; create a new Builder per Build call.
type Builder struct {
	logger        logrus.FieldLogger
	lib           Library
	sdtmigVersion string
	ctVersion     string

	// Dataset name to variable name to codelist concept ID to the admitted
	// submission values. Dataset insertion order is tracked separately
	// because it drives the order of the Datasets section.
	datasetOrder []string
	datasetVars  map[string]map[string]map[string]valueSet

	vlmEntries []vlmEntry
	vlmLookup  map[string][]*VLM

	// Dataset to TEST variable to the term concept IDs implied by the
	// TESTCD values seen in where clauses.
	testLookup map[string]map[string][]string

	codelists []CodelistAssignment
}

func NewBuilder(logger logrus.FieldLogger, lib Library, sdtmigVersion, ctVersion string) *Builder {
	return &Builder{
		logger:        logger,
		lib:           lib,
		sdtmigVersion: sdtmigVersion,
		ctVersion:     ctVersion,
		datasetVars:   make(map[string]map[string]map[string]valueSet),
		vlmLookup:     make(map[string][]*VLM),
		testLookup:    make(map[string]map[string][]string),
		codelists:     []CodelistAssignment{},
	}
}

// Build derives the Define-Template for the first version of the study
// definition.
func (b *Builder) Build(doc *StudyDefinition) (*Template, error) {
	ver, err := doc.Version(0)
	if err != nil {
		return nil, err
	}

	for _, bc := range ver.BiomedicalConcepts {
		res, err := b.lib.Concept(bc.Reference)
		if err != nil {
			return nil, errors.Wrapf(err, "resolving biomedical concept %s", bc.ID)
		}
		switch res.Links.Self.Type {
		case conceptTypeBC:
			err = b.processConcept(bc, res)
		case conceptTypeDSS:
			err = b.processSpecialization(bc, res)
		default:
			b.logger.WithFields(logrus.Fields{"concept": bc.ID, "type": res.Links.Self.Type}).Debug("Skipping concept of unhandled type")
		}
		if err != nil {
			return nil, errors.Wrapf(err, "processing biomedical concept %s", bc.ID)
		}
	}

	b.buildVLMLookup()
	if err := b.applyVLMValues(); err != nil {
		return nil, err
	}

	t := &Template{Datasets: NewDatasetMap(), CodeLists: []CodelistAssignment{}}
	b.populateStudy(t, doc, ver)
	if err := b.populateDatasets(t); err != nil {
		return nil, err
	}
	t.Standards = []Standard{
		{Name: "SDTMIG", Type: "IG", Version: b.sdtmigVersion},
		{Name: "CDISC/NCI", Type: "CT", PublishingSet: "SDTM", Version: b.ctVersion},
	}
	t.CodeLists = b.codelists
	return t, nil
}

// processConcept handles a concept of type "Biomedical Concept": every
// SDTM dataset specialization derived from it contributes variables.
func (b *Builder) processConcept(bc BiomedicalConcept, data *ConceptResource) error {
	specs, err := b.lib.SDTMSpecializations(data.ConceptID)
	if err != nil {
		return err
	}
	for _, spec := range specs {
		if err := b.collectVariables(spec.Domain, spec.Variables, bc); err != nil {
			return err
		}
	}
	return nil
}

// processSpecialization handles a concept of type "SDTM Dataset
// Specialization": besides the variables it also yields where clauses for
// comparator variables and value-level metadata for VLM targets.
func (b *Builder) processSpecialization(bc BiomedicalConcept, data *ConceptResource) error {
	dss, err := b.lib.Specialization(data.DatasetSpecializationID)
	if err != nil {
		return err
	}
	if err := b.collectVariables(dss.Domain, dss.Variables, bc); err != nil {
		return err
	}
	whereClause, err := b.buildWhereClause(bc, data, dss, dss.Domain)
	if err != nil {
		return err
	}
	return b.collectVLMTargets(bc, data, whereClause)
}

func (b *Builder) ensureDataset(name string) map[string]map[string]valueSet {
	vars, ok := b.datasetVars[name]
	if !ok {
		vars = make(map[string]map[string]valueSet)
		b.datasetVars[name] = vars
		b.datasetOrder = append(b.datasetOrder, name)
	}
	return vars
}

// collectVariables records the variables a concept contributes to a
// dataset, together with the submission values its response codes admit.
func (b *Builder) collectVariables(dataset string, variables []SpecVariable, bc BiomedicalConcept) error {
	vars := b.ensureDataset(dataset)

	for _, variable := range variables {
		if variable.Name == "" || variable.DataElementConceptID == "" {
			continue
		}
		if _, ok := vars[variable.Name]; !ok {
			vars[variable.Name] = make(map[string]valueSet)
		}
		for _, property := range bc.Properties {
			if property.Code.StandardCode.Code != variable.DataElementConceptID {
				continue
			}
			codelistID := variable.Codelist.ConceptID
			if codelistID != "" {
				terms, err := b.codelistTerms(codelistID)
				if err != nil {
					return err
				}
				restriction := vars[variable.Name][codelistID]
				if restriction == nil {
					restriction = valueSet{}
					vars[variable.Name][codelistID] = restriction
				}
				restriction.add(responseValues(terms, property)...)
			} else {
				// A variable without a known codelist carries no
				// restrictions, even if an earlier concept recorded some.
				vars[variable.Name] = make(map[string]valueSet)
			}
			break
		}
	}
	return nil
}

// buildWhereClause builds one clause per comparator variable of the
// concept.
func (b *Builder) buildWhereClause(bc BiomedicalConcept, bcData, dss *ConceptResource, dataset string) ([]WhereClause, error) {
	whereClause := []WhereClause{}
	for _, property := range bc.Properties {
		variable := findVariable(bcData.Variables, property.Name)
		if variable == nil || variable.Comparator == "" {
			continue
		}
		codelistID := variable.Codelist.ConceptID
		terms, err := b.codelistTerms(codelistID)
		if err != nil {
			return nil, err
		}

		values := responseValues(terms, property)
		if len(values) == 0 {
			// Fall back to the specialization's assigned term or value
			// list when the concept names no response codes.
			if dv := findVariable(dss.Variables, property.Name); dv != nil {
				if dv.AssignedTerm.ConceptID != "" {
					values = []string{dv.AssignedTerm.Value}
				} else if len(dv.ValueList) > 0 {
					values = dv.ValueList
				}
			}
		}

		whereClause = append(whereClause, WhereClause{Clause: []ClauseItem{{
			Dataset:           dataset,
			Variable:          property.Name,
			CodelistConceptID: codelistID,
			Comparator:        variable.Comparator,
			Values:            values,
		}}})
	}
	return whereClause, nil
}

// collectVLMTargets records value-level metadata for every property whose
// variable is flagged as a VLM target and has no comparator.
func (b *Builder) collectVLMTargets(bc BiomedicalConcept, bcData *ConceptResource, whereClause []WhereClause) error {
	for _, property := range bc.Properties {
		variable := findVariable(bcData.Variables, property.Name)
		if variable == nil || variable.Comparator != "" || !variable.VLMTarget {
			continue
		}
		terms, err := b.codelistTerms(variable.Codelist.ConceptID)
		if err != nil {
			return err
		}

		vlm := &VLM{
			Role:              variable.Role,
			DataType:          variable.DataType,
			Length:            variable.Length,
			Format:            variable.Format,
			SignificantDigits: variable.SignificantDigits,
			OriginType:        variable.OriginType,
			OriginSource:      variable.OriginSource,
			WhereClause:       whereClause,
		}
		if len(terms) > 0 {
			vlm.ResponseCodes = responseValues(terms, property)
		}
		b.vlmEntries = append(b.vlmEntries, vlmEntry{variable: property.Name, data: vlm})
	}
	return nil
}

func (b *Builder) buildVLMLookup() {
	for _, e := range b.vlmEntries {
		b.vlmLookup[e.variable] = append(b.vlmLookup[e.variable], e.data)
	}
}

// applyVLMValues folds the values referenced by where clauses back into
// the per-dataset variable restrictions, and derives the TESTCD to TEST
// term lookup.
func (b *Builder) applyVLMValues() error {
	type key struct {
		variable string
		dataset  string
		codelist string
	}
	order := []key{}
	collected := map[key]valueSet{}

	for _, e := range b.vlmEntries {
		for _, wc := range e.data.WhereClause {
			for _, clause := range wc.Clause {
				k := key{variable: clause.Variable, dataset: clause.Dataset, codelist: clause.CodelistConceptID}
				set, ok := collected[k]
				if !ok {
					set = valueSet{}
					collected[k] = set
					order = append(order, k)
				}
				set.add(clause.Values...)
			}
		}
	}

	for _, k := range order {
		vars := b.ensureDataset(k.dataset)
		if _, ok := vars[k.variable]; !ok {
			vars[k.variable] = make(map[string]valueSet)
		}
		restriction := vars[k.variable][k.codelist]
		if restriction == nil {
			restriction = valueSet{}
			vars[k.variable][k.codelist] = restriction
		}

		if strings.HasSuffix(k.variable, "TESTCD") {
			terms, err := b.codelistTerms(k.codelist)
			if err != nil {
				return err
			}
			codes := []string{}
			for _, value := range collected[k].sorted() {
				for _, term := range terms {
					if term.SubmissionValue == value {
						codes = append(codes, term.ConceptID)
						break
					}
				}
			}
			if _, ok := b.testLookup[k.dataset]; !ok {
				b.testLookup[k.dataset] = make(map[string][]string)
			}
			b.testLookup[k.dataset][strings.Replace(k.variable, "TESTCD", "TEST", 1)] = codes
		}

		restriction.add(collected[k].sorted()...)
	}
	return nil
}

func (b *Builder) populateStudy(t *Template, doc *StudyDefinition, ver *StudyVersion) {
	t.Study = StudySection{
		StudyName:        ver.Title("Study Acronym"),
		StudyDescription: ver.Title("Official Study Title"),
		ProtocolName:     ver.Title("Study Acronym"),
	}
	if len(ver.DocumentVersionIDs) > 0 {
		t.Study.Language = doc.LanguageCode(ver.DocumentVersionIDs[0])
	}
}

// populateDatasets builds the Datasets section from the implementation
// guide's dataset definitions, keeping the variables the concepts used
// plus every required or expected one.
func (b *Builder) populateDatasets(t *Template) error {
	for _, name := range b.datasetOrder {
		igDS, err := b.lib.Dataset(name)
		if err != nil {
			return errors.Wrapf(err, "looking up SDTMIG dataset %s", name)
		}

		used := b.datasetVars[name]
		rows := []VariableRow{}
		for _, v := range igDS.DatasetVariables {
			_, inUse := used[v.Name]
			if !inUse && v.Core != "Req" && v.Core != "Exp" {
				continue
			}

			codelistValues := []string{}
			for _, link := range v.Links.Codelist {
				if link.Href == "" {
					continue
				}
				cl, err := b.lib.Codelist(path.Base(link.Href))
				if err != nil {
					return err
				}
				if cl == nil {
					b.logger.WithFields(logrus.Fields{"dataset": name, "variable": v.Name, "codelist": path.Base(link.Href)}).Warn("Codelist not in library snapshot")
					continue
				}
				codelistValues = append(codelistValues, cl.SubmissionValue)
			}

			row := VariableRow{
				Variable: v.Name,
				Label:    v.Label,
				DataType: v.SimpleDatatype,
				Role:     v.Role,
			}
			if len(codelistValues) > 0 {
				row.CodeList = codelistValues
			}
			if vlms, ok := b.vlmLookup[v.Name]; ok {
				row.VLM = vlms
			}
			rows = append(rows, row)

			if inUse {
				err = b.collectCodelists(v, name, used[v.Name])
			} else if len(v.Links.Codelist) > 0 {
				err = b.collectCodelists(v, name, nil)
			}
			if err != nil {
				return err
			}
		}

		t.Datasets.Set(name, &Dataset{
			Description: igDS.Label,
			Class:       igDS.Links.ParentClass.Title,
			Structure:   igDS.DatasetStructure,
			Variables:   rows,
		})
	}
	return nil
}

// collectCodelists emits the CodeLists entry of a variable, restricting
// terms to the admitted submission values when restrictions exist, to the
// TESTCD-derived term codes for TEST variables, and otherwise keeping the
// full codelist.
func (b *Builder) collectCodelists(v IGVariable, dataset string, restrictions map[string]valueSet) error {
	if len(v.Links.Codelist) == 0 {
		return nil
	}

	entries := []CodelistEntry{}
	for _, link := range v.Links.Codelist {
		if link.Href == "" {
			continue
		}
		codelistID := path.Base(link.Href)
		cl, err := b.lib.Codelist(codelistID)
		if err != nil {
			return err
		}
		if cl == nil {
			continue
		}

		var finalTerms []TermItem
		restriction, restricted := restrictions[codelistID]
		testCodes, isTest := b.testLookup[dataset][v.Name]
		switch {
		case restricted && len(restrictions) > 0:
			if len(restriction) == 0 {
				finalTerms = termItems(cl.Terms, nil)
			} else {
				finalTerms = termItems(cl.Terms, func(t Term) bool {
					_, ok := restriction[t.SubmissionValue]
					return ok
				})
			}
		case strings.HasSuffix(v.Name, "TEST") && isTest:
			finalTerms = termItems(cl.Terms, func(t Term) bool {
				for _, code := range testCodes {
					if t.ConceptID == code {
						return true
					}
				}
				return false
			})
		default:
			finalTerms = termItems(cl.Terms, nil)
		}

		entries = append(entries, CodelistEntry{
			NCICodelistCode: cl.ConceptID,
			Name:            cl.Name,
			ShortName:       cl.SubmissionValue,
			Terms:           finalTerms,
		})
	}

	if len(entries) > 0 {
		b.codelists = append(b.codelists, CodelistAssignment{
			Dataset:  dataset,
			Variable: v.Name,
			CodeList: entries,
		})
	}
	return nil
}

func (b *Builder) codelistTerms(conceptID string) ([]Term, error) {
	cl, err := b.lib.Codelist(conceptID)
	if err != nil || cl == nil {
		return nil, err
	}
	return cl.Terms, nil
}

// termItems projects codelist terms into the template shape, keeping only
// the ones keep accepts (nil keeps everything).
func termItems(terms []Term, keep func(Term) bool) []TermItem {
	items := []TermItem{}
	for _, term := range terms {
		if keep != nil && !keep(term) {
			continue
		}
		decoded := term.Synonyms
		if decoded == nil {
			decoded = []string{}
		}
		items = append(items, TermItem{
			NCITermCode:  term.ConceptID,
			Term:         term.SubmissionValue,
			DecodedValue: decoded,
		})
	}
	return items
}

// responseValues maps the concept property's response codes to submission
// values through the codelist terms, keeping response-code order.
func responseValues(terms []Term, property BCProperty) []string {
	values := []string{}
	for _, rc := range property.ResponseCodes {
		for _, term := range terms {
			if term.ConceptID == rc.Code.Code {
				values = append(values, term.SubmissionValue)
				break
			}
		}
	}
	return values
}

func findVariable(variables []SpecVariable, name string) *SpecVariable {
	for i := range variables {
		if variables[i].Name == name {
			return &variables[i]
		}
	}
	return nil
}
