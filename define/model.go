package define

// Study is the parsed metadata model. It is read-only after Parse and safe
// to share across goroutines.
type Study struct {
	StudyOID           string
	MetaDataVersionOID string

	groups []*ItemGroupDef
	byName map[string]*ItemGroupDef // Upper-cased dataset name.
	items  map[string]*ItemDef      // Keyed by OID.
}

// ItemGroupDef is a dataset definition. ItemRefs keeps document order,
// which is the physical column order of the dataset.
type ItemGroupDef struct {
	OID      string
	Name     string
	Label    string
	ItemRefs []ItemRef
}

// ItemRef points at an ItemDef by OID. KeySequence is nil when the source
// attribute is absent.
type ItemRef struct {
	ItemOID     string
	KeySequence *int
}

// ItemDef is a variable (column) definition. Length is nil and
// DisplayFormat empty when the source attributes are absent.
type ItemDef struct {
	OID           string
	Name          string
	DataType      string
	Label         string
	Length        *int
	DisplayFormat string
}

// ResolvedRef pairs an item reference with its item definition.
type ResolvedRef struct {
	Ref ItemRef
	Def *ItemDef
}

// DatasetNames returns the dataset names in document order, without
// deduplication or sorting. An empty metadata version yields an empty
// slice.
func (s *Study) DatasetNames() []string {
	names := make([]string, 0, len(s.groups))
	for _, g := range s.groups {
		names = append(names, g.Name)
	}
	return names
}

// Datasets returns the item-group definitions in document order.
func (s *Study) Datasets() []*ItemGroupDef {
	return s.groups
}

// Item returns the item definition with the given OID.
func (s *Study) Item(oid string) (*ItemDef, bool) {
	def, ok := s.items[oid]
	return def, ok
}
