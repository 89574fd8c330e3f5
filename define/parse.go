package define

import (
	"encoding/xml"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"

	gErrors "github.com/cdisc-tools/datasetjson-shells/generator/errors"
)

// XML shapes for the subset of ODM that we read. Element tags carry no
// namespace so that both the plain and the ODM-namespaced form decode; the
// def:DisplayFormat attribute is namespaced because the v2.0 and v2.1
// extension namespaces must both be checked.
type xmlODM struct {
	XMLName xml.Name  `xml:"ODM"`
	Study   *xmlStudy `xml:"Study"`
}

type xmlStudy struct {
	OID             string              `xml:"OID,attr"`
	MetaDataVersion *xmlMetaDataVersion `xml:"MetaDataVersion"`
}

type xmlMetaDataVersion struct {
	OID           string            `xml:"OID,attr"`
	ItemGroupDefs []xmlItemGroupDef `xml:"ItemGroupDef"`
	ItemDefs      []xmlItemDef      `xml:"ItemDef"`
}

type xmlItemGroupDef struct {
	OID         string         `xml:"OID,attr"`
	Name        string         `xml:"Name,attr"`
	Description xmlDescription `xml:"Description"`
	ItemRefs    []xmlItemRef   `xml:"ItemRef"`
}

type xmlItemRef struct {
	ItemOID     string `xml:"ItemOID,attr"`
	KeySequence *int   `xml:"KeySequence,attr"`
}

type xmlItemDef struct {
	OID              string         `xml:"OID,attr"`
	Name             string         `xml:"Name,attr"`
	DataType         string         `xml:"DataType,attr"`
	Length           *int           `xml:"Length,attr"`
	DisplayFormatV21 string         `xml:"http://www.cdisc.org/ns/def/v2.1 DisplayFormat,attr"`
	DisplayFormatV20 string         `xml:"http://www.cdisc.org/ns/def/v2.0 DisplayFormat,attr"`
	Description      xmlDescription `xml:"Description"`
}

type xmlDescription struct {
	TranslatedText []string `xml:"TranslatedText"`
}

func (d xmlDescription) label() string {
	if len(d.TranslatedText) == 0 {
		return ""
	}
	return strings.TrimSpace(d.TranslatedText[0])
}

// Load reads and parses a Define.xml document from the given filesystem.
func Load(fs afero.Fs, path string) (*Study, error) {
	f, err := fs.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, gErrors.New(gErrors.KindMissingInput, errors.Wrap(err, "Define.xml not found"))
		}
		return nil, errors.Wrap(err, "opening Define.xml")
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes a Define.xml document into a Study. It fails with a
// MalformedInput error when the stream is not well-formed XML or lacks the
// ODM/Study/MetaDataVersion structure needed to enumerate datasets.
func Parse(r io.Reader) (*Study, error) {
	blob, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading Define.xml")
	}

	doc := xmlODM{}
	if err := xml.Unmarshal(blob, &doc); err != nil {
		return nil, gErrors.New(gErrors.KindMalformedInput, errors.Wrap(err, "decoding Define.xml"))
	}
	if doc.Study == nil {
		return nil, gErrors.Newf(gErrors.KindMalformedInput, "ODM document has no Study element")
	}
	if doc.Study.MetaDataVersion == nil {
		return nil, gErrors.Newf(gErrors.KindMalformedInput, "Study %q has no MetaDataVersion element", doc.Study.OID)
	}

	mdv := doc.Study.MetaDataVersion
	study := &Study{
		StudyOID:           doc.Study.OID,
		MetaDataVersionOID: mdv.OID,
		groups:             make([]*ItemGroupDef, 0, len(mdv.ItemGroupDefs)),
		byName:             make(map[string]*ItemGroupDef, len(mdv.ItemGroupDefs)),
		items:              make(map[string]*ItemDef, len(mdv.ItemDefs)),
	}

	for _, it := range mdv.ItemDefs {
		def := &ItemDef{
			OID:           it.OID,
			Name:          it.Name,
			DataType:      it.DataType,
			Label:         it.Description.label(),
			Length:        it.Length,
			DisplayFormat: it.DisplayFormatV21,
		}
		if def.DisplayFormat == "" {
			def.DisplayFormat = it.DisplayFormatV20
		}
		study.items[def.OID] = def
	}

	for _, g := range mdv.ItemGroupDefs {
		group := &ItemGroupDef{
			OID:      g.OID,
			Name:     g.Name,
			Label:    g.Description.label(),
			ItemRefs: make([]ItemRef, 0, len(g.ItemRefs)),
		}
		for _, ref := range g.ItemRefs {
			group.ItemRefs = append(group.ItemRefs, ItemRef{
				ItemOID:     ref.ItemOID,
				KeySequence: ref.KeySequence,
			})
		}
		study.groups = append(study.groups, group)
		study.byName[strings.ToUpper(group.Name)] = group
	}

	return study, nil
}

// Dataset returns the item-group definition with the given name. The match
// is exact but case-insensitive.
func (s *Study) Dataset(name string) (*ItemGroupDef, error) {
	group, ok := s.byName[strings.ToUpper(name)]
	if !ok {
		return nil, gErrors.Newf(gErrors.KindNotFound, "no item-group definition named %q", name)
	}
	return group, nil
}

// ResolveRefs resolves every item reference of the group to its item
// definition, preserving reference order. A single unresolvable reference
// fails the whole group.
func (s *Study) ResolveRefs(group *ItemGroupDef) ([]ResolvedRef, error) {
	resolved := make([]ResolvedRef, 0, len(group.ItemRefs))
	for _, ref := range group.ItemRefs {
		def, ok := s.items[ref.ItemOID]
		if !ok {
			return nil, gErrors.Newf(gErrors.KindNotFound, "dataset %q: item reference %q has no item definition", group.Name, ref.ItemOID)
		}
		resolved = append(resolved, ResolvedRef{Ref: ref, Def: def})
	}
	return resolved, nil
}
