/*
Package template derives a Define-Template document from a USDM study
definition.

The derivation walks the study's biomedical concepts, resolves each one
against the CDISC Library (served from a local snapshot directory), and
builds the Study, Standards, Datasets and CodeLists sections of the
template: dataset tables filtered to the variables the concepts use plus
the implementation guide's required/expected ones, value-level metadata for
VLM target variables, and codelists restricted to the response codes the
concepts admit.
*/
package template
