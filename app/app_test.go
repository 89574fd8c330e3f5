package app

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cdisc-tools/datasetjson-shells/internal/testutil"
)

func TestMainHelp(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"datasetjson-shells", "help"}

	var (
		output    bytes.Buffer
		errOutput bytes.Buffer
	)
	err := Run(&output, &errOutput)

	if err != nil {
		t.Error(err)
	}
	if have, want := output.String(), "Available Commands"; !strings.Contains(have, want) {
		t.Errorf("expected output %s not found in output: %s", want, have)
	}
	if errOutput.String() != "" {
		t.Errorf("error output is not empty")
	}
}

func TestMainUnknownCommand(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"datasetjson-shells", "unknown"}

	err := Run(ioutil.Discard, ioutil.Discard)

	if err == nil {
		t.Error("error expected")
	}
}

func TestVersionCommand(t *testing.T) {
	var output bytes.Buffer
	cmd := RootCommand(&output, ioutil.Discard)
	cmd.SetArgs([]string{"version"})

	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(output.String(), "0.3.0") {
		t.Errorf("version not found in output: %s", output.String())
	}
}

func TestConfigCommand(t *testing.T) {
	var output bytes.Buffer
	cmd := RootCommand(&output, ioutil.Discard)
	cmd.SetArgs([]string{"config"})

	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"validation_mode", "sdtmig_version", "library_dir"} {
		if !strings.Contains(output.String(), want) {
			t.Errorf("expected %s in printed configuration", want)
		}
	}
}

func TestGenerateCommand(t *testing.T) {
	tmp := t.TempDir()
	definePath := filepath.Join(tmp, "define.xml")
	if err := ioutil.WriteFile(definePath, []byte(testutil.SampleDefineXML), 0o644); err != nil {
		t.Fatal(err)
	}
	outputDir := filepath.Join(tmp, "out")

	var output bytes.Buffer
	cmd := RootCommand(&output, ioutil.Discard)
	cmd.SetArgs([]string{"generate", "--define-file", definePath, "--output-dir", outputDir})

	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(output.String(), "Files written:      2") {
		t.Errorf("unexpected summary: %s", output.String())
	}
	for _, name := range []string{"AE.json", "VS.json"} {
		if _, err := os.Stat(filepath.Join(outputDir, name)); err != nil {
			t.Errorf("expected %s to exist: %v", name, err)
		}
	}
}

func TestGenerateCommand_MissingDefine(t *testing.T) {
	cmd := RootCommand(ioutil.Discard, ioutil.Discard)
	cmd.SetArgs([]string{"generate", "--define-file", filepath.Join(t.TempDir(), "nope.xml"), "--output-dir", t.TempDir()})

	if err := cmd.Execute(); err == nil {
		t.Error("error expected")
	}
}

const validShellDoc = `{
  "datasetJSONCreationDateTime": "2026-08-29T12:00:00",
  "datasetJSONVersion": "1.1.0",
  "studyOID": "S1",
  "metaDataVersionOID": "MDV.1",
  "itemGroupOID": "IG.DM",
  "records": 0,
  "name": "DM",
  "label": "Demographics",
  "columns": [
    {"itemOID": "IT.DM.STUDYID", "name": "STUDYID", "label": "Study Identifier", "dataType": "string"}
  ],
  "rows": []
}`

func TestValidateCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "DM.json")
	if err := ioutil.WriteFile(path, []byte(validShellDoc), 0o644); err != nil {
		t.Fatal(err)
	}

	var output bytes.Buffer
	cmd := RootCommand(&output, ioutil.Discard)
	cmd.SetArgs([]string{"validate", "-f", path})

	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(output.String(), "The document is valid.") {
		t.Errorf("unexpected output: %s", output.String())
	}
}

func TestValidateCommand_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "DM.json")
	if err := ioutil.WriteFile(path, []byte(`{"records": -1}`), 0o644); err != nil {
		t.Fatal(err)
	}

	var output bytes.Buffer
	cmd := RootCommand(&output, ioutil.Discard)
	cmd.SetArgs([]string{"validate", "-f", path})

	if err := cmd.Execute(); err == nil {
		t.Error("error expected")
	}
	if !strings.Contains(output.String(), "The document is invalid!") {
		t.Errorf("unexpected output: %s", output.String())
	}
}

func TestTemplateCommand(t *testing.T) {
	tmp := t.TempDir()
	libDir := filepath.Join(tmp, "lib")
	if err := os.MkdirAll(libDir, 0o755); err != nil {
		t.Fatal(err)
	}
	usdmPath := filepath.Join(tmp, "usdm.json")
	usdm := `{"study": {"versions": [{"titles": [{"text": "X", "type": {"decode": "Study Acronym"}}], "biomedicalConcepts": []}]}}`
	if err := ioutil.WriteFile(usdmPath, []byte(usdm), 0o644); err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(tmp, "config.toml")
	cfg := "[template]\nlibrary_dir = \"" + libDir + "\"\n"
	if err := ioutil.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	outPath := filepath.Join(tmp, "template.json")

	var output bytes.Buffer
	cmd := RootCommand(&output, ioutil.Discard)
	cmd.SetArgs([]string{"-c", cfgPath, "template", "--usdm-file", usdmPath, "--output-template", outPath})

	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(outPath); err != nil {
		t.Errorf("expected template file to exist: %v", err)
	}
	if !strings.Contains(output.String(), "0 datasets") {
		t.Errorf("unexpected output: %s", output.String())
	}
}

func TestTemplateCommand_MissingLibraryDir(t *testing.T) {
	tmp := t.TempDir()
	usdmPath := filepath.Join(tmp, "usdm.json")
	if err := ioutil.WriteFile(usdmPath, []byte(`{"study": {"versions": []}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(tmp, "config.toml")
	cfg := "[template]\nlibrary_dir = \"" + filepath.Join(tmp, "nope") + "\"\n"
	if err := ioutil.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd := RootCommand(ioutil.Discard, ioutil.Discard)
	cmd.SetArgs([]string{"-c", cfgPath, "template", "--usdm-file", usdmPath, "--output-template", filepath.Join(tmp, "out.json")})

	if err := cmd.Execute(); err == nil {
		t.Error("error expected")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		mode    string
		wantErr bool
	}{
		{"", false},
		{"strict", false},
		{"warnings", false},
		{"disabled", false},
		{"lenient", true},
	}
	for _, tt := range tests {
		c := Config{}
		c.Generator.ValidationMode = tt.mode
		err := c.Validate()
		if tt.wantErr && err == nil {
			t.Errorf("validation_mode %q: error expected", tt.mode)
		} else if !tt.wantErr && err != nil {
			t.Errorf("validation_mode %q: unexpected error: %v", tt.mode, err)
		}
	}
}
