package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

const sampleJSON = `[
  {
    "_metadata": {"StationID": {"_value": "WMO4402"}},
    "_coordinates": {
      "Latitude": {"_value": 49.5},
      "Longitude": {"_value": -123.2}
    },
    "_parameters": {"Temperature": {"_value": 4.1, "_metadata": {"Units": {"_value": "degC"}}}}
  }
]
`

func writeSample(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(sampleJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestListCodecs(t *testing.T) {
	out, err := runCLI(t, "list-codecs")
	if err != nil {
		t.Fatalf("list-codecs: %v", err)
	}
	for _, name := range []string{"json", "yaml", "csv"} {
		if !strings.Contains(out, name) {
			t.Fatalf("output missing codec %q:\n%s", name, out)
		}
	}
}

func TestTranscodeJSONToYAML(t *testing.T) {
	src := writeSample(t, "in.json")
	dst := filepath.Join(filepath.Dir(src), "out.yaml")

	out, err := runCLI(t, "transcode", src, dst)
	if err != nil {
		t.Fatalf("transcode: %v\n%s", err, out)
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("reading destination: %v", err)
	}
	if !strings.Contains(string(data), "WMO4402") {
		t.Fatalf("destination missing station id:\n%s", data)
	}
}

func TestTranscodeExplicitFormats(t *testing.T) {
	src := writeSample(t, "in.dat")
	dst := filepath.Join(filepath.Dir(src), "out.dat")

	if _, err := runCLI(t, "transcode", src, dst); err == nil {
		t.Fatal("unprobeable extension should fail without --iformat")
	}
	if _, err := runCLI(t, "transcode", src, dst, "--iformat", "json", "--oformat", "yaml"); err != nil {
		t.Fatalf("explicit formats: %v", err)
	}
}

func TestTranscodeBadOptions(t *testing.T) {
	src := writeSample(t, "in.json")
	dst := filepath.Join(filepath.Dir(src), "out.yaml")

	if _, err := runCLI(t, "transcode", src, dst, "--oargs", "indent"); err == nil {
		t.Fatal("malformed --oargs should fail")
	}
}

func TestQCRunStampsRecords(t *testing.T) {
	t.Setenv("OCEANQC_STATION_DRIVER", "memory")
	src := writeSample(t, "obs.json")
	dst := filepath.Join(filepath.Dir(src), "flagged.json")

	out, err := runCLI(t, "qc", "run", src, "--suite", "gtspp_pre_test", "--out", dst)
	if err != nil {
		t.Fatalf("qc run: %v\n%s", err, out)
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "gtspp_pre_test") {
		t.Fatalf("output records not stamped with suite run:\n%s", data)
	}
}

func TestQCRunUnknownSuite(t *testing.T) {
	t.Setenv("OCEANQC_STATION_DRIVER", "memory")
	src := writeSample(t, "obs.json")
	if _, err := runCLI(t, "qc", "run", src, "--suite", "nope"); err == nil {
		t.Fatal("unknown suite should fail")
	}
}
