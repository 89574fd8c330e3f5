/*
Package define reads CDISC Define.xml documents (ODM v1.3 with the def
v2.0/v2.1 extensions) into an immutable in-memory study model.

The model exposes the study and metadata-version identifiers, the ordered
list of dataset (item-group) definitions, and resolution of item references
to item definitions. Dataset lookup by name is case-insensitive; the
normalized index is built once at parse time.
*/
package define
