/*
Package datasetjson builds and validates Dataset-JSON v1.1 dataset shells:
documents that carry the full column metadata of a dataset but zero data
rows.

The column mapper turns resolved Define.xml item references into column
descriptors, inferring the Dataset-JSON data type from the ODM data type
and, for integer-encoded date/time variables, the naming convention of the
variable. The assembler wraps the columns into the Dataset-JSON envelope
with a caller-supplied creation timestamp so runs stay reproducible.
*/
package datasetjson
