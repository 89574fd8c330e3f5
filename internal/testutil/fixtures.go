// Package testutil carries the test fixtures shared across packages.
package testutil

import (
	"testing"

	"github.com/spf13/afero"
)

// SampleDefineXML is a two-dataset Define.xml document exercising the
// variable naming conventions the column mapper cares about: string raw
// types, numeric date/time suffixes, relative and elapsed time suffixes,
// decimals and plain integers.
const SampleDefineXML = `<?xml version="1.0" encoding="UTF-8"?>
<ODM xmlns="http://www.cdisc.org/ns/odm/v1.3"
     xmlns:def="http://www.cdisc.org/ns/def/v2.1"
     ODMVersion="1.3.2" FileType="Snapshot" FileOID="www.cdisc.org/StudyCDISC01">
  <Study OID="cdisc.com/CDISCPILOT01">
    <GlobalVariables>
      <StudyName>CDISCPILOT01</StudyName>
      <StudyDescription>Example study</StudyDescription>
      <ProtocolName>CDISCPILOT01</ProtocolName>
    </GlobalVariables>
    <MetaDataVersion OID="MDV.CDISCPILOT01.SDTMIG.3.4" Name="Study CDISCPILOT01">
      <ItemGroupDef OID="IG.AE" Name="AE" Repeating="Yes" Purpose="Tabulation">
        <Description>
          <TranslatedText xml:lang="en">Adverse Events</TranslatedText>
        </Description>
        <ItemRef ItemOID="IT.AE.STUDYID" Mandatory="Yes" KeySequence="1"/>
        <ItemRef ItemOID="IT.AE.AESEQ" Mandatory="Yes" KeySequence="2"/>
        <ItemRef ItemOID="IT.AE.AETERM" Mandatory="Yes"/>
        <ItemRef ItemOID="IT.AE.AESTDTM" Mandatory="No"/>
        <ItemRef ItemOID="IT.AE.AESTDT" Mandatory="No"/>
        <ItemRef ItemOID="IT.AE.AESTTM" Mandatory="No"/>
      </ItemGroupDef>
      <ItemGroupDef OID="IG.VS" Name="VS" Repeating="Yes" Purpose="Tabulation">
        <Description>
          <TranslatedText xml:lang="en">Vital Signs</TranslatedText>
        </Description>
        <ItemRef ItemOID="IT.VS.STUDYID" Mandatory="Yes" KeySequence="1"/>
        <ItemRef ItemOID="IT.VS.VSORRES" Mandatory="No"/>
        <ItemRef ItemOID="IT.VS.RFSTRLTM" Mandatory="No"/>
        <ItemRef ItemOID="IT.VS.VSELTM" Mandatory="No"/>
      </ItemGroupDef>
      <ItemDef OID="IT.AE.STUDYID" Name="STUDYID" DataType="text" Length="20">
        <Description>
          <TranslatedText xml:lang="en">Study Identifier</TranslatedText>
        </Description>
      </ItemDef>
      <ItemDef OID="IT.AE.AESEQ" Name="AESEQ" DataType="integer" Length="8">
        <Description>
          <TranslatedText xml:lang="en">Sequence Number</TranslatedText>
        </Description>
      </ItemDef>
      <ItemDef OID="IT.AE.AETERM" Name="AETERM" DataType="text" Length="200">
        <Description>
          <TranslatedText xml:lang="en">Reported Term for the Adverse Event</TranslatedText>
        </Description>
      </ItemDef>
      <ItemDef OID="IT.AE.AESTDTM" Name="AESTDTM" DataType="integer" Length="8" def:DisplayFormat="E8601DT">
        <Description>
          <TranslatedText xml:lang="en">Start Date/Time of Adverse Event</TranslatedText>
        </Description>
      </ItemDef>
      <ItemDef OID="IT.AE.AESTDT" Name="AESTDT" DataType="integer" Length="8" def:DisplayFormat="E8601DA">
        <Description>
          <TranslatedText xml:lang="en">Start Date of Adverse Event</TranslatedText>
        </Description>
      </ItemDef>
      <ItemDef OID="IT.AE.AESTTM" Name="AESTTM" DataType="integer" Length="8" def:DisplayFormat="E8601TM"/>
      <ItemDef OID="IT.VS.STUDYID" Name="STUDYID" DataType="text" Length="20">
        <Description>
          <TranslatedText xml:lang="en">Study Identifier</TranslatedText>
        </Description>
      </ItemDef>
      <ItemDef OID="IT.VS.VSORRES" Name="VSORRES" DataType="decimal" Length="8">
        <Description>
          <TranslatedText xml:lang="en">Result or Finding in Original Units</TranslatedText>
        </Description>
      </ItemDef>
      <ItemDef OID="IT.VS.RFSTRLTM" Name="RFSTRLTM" DataType="integer" Length="8">
        <Description>
          <TranslatedText xml:lang="en">Time Relative to Reference Start</TranslatedText>
        </Description>
      </ItemDef>
      <ItemDef OID="IT.VS.VSELTM" Name="VSELTM" DataType="integer" Length="8">
        <Description>
          <TranslatedText xml:lang="en">Elapsed Time</TranslatedText>
        </Description>
      </ItemDef>
    </MetaDataVersion>
  </Study>
</ODM>
`

// WriteFile writes a fixture into the given filesystem, failing the test on
// error.
func WriteFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()

	if err := afero.WriteFile(fs, path, []byte(content), 0o644); err != nil {
		t.Fatalf("error writing fixture %s: %v", path, err)
	}
}
