package testsupport

import (
	"bytes"
	"encoding/json"
	"os"
	"reflect"
	"testing"
)

// UpdateGoldenEnv rewrites golden files from the current output when set to 1.
const UpdateGoldenEnv = "WORKFLOWUI_UPDATE_GOLDEN"

// AssertJSONGolden compares the JSON encoding of got with the golden file at
// path. Key order and whitespace are ignored.
func AssertJSONGolden(t testing.TB, path string, got any) {
	t.Helper()

	raw, err := json.MarshalIndent(got, "", "  ")
	if err != nil {
		t.Fatalf("golden %s: marshal: %v", path, err)
	}
	if os.Getenv(UpdateGoldenEnv) == "1" {
		if err := os.WriteFile(path, append(raw, '\n'), 0o644); err != nil {
			t.Fatalf("golden %s: write: %v", path, err)
		}
		return
	}

	want, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("golden %s: %v", path, err)
	}
	var wantDoc, gotDoc any
	if err := json.Unmarshal(want, &wantDoc); err != nil {
		t.Fatalf("golden %s: decode: %v", path, err)
	}
	if err := json.NewDecoder(bytes.NewReader(raw)).Decode(&gotDoc); err != nil {
		t.Fatalf("golden %s: decode output: %v", path, err)
	}
	if !reflect.DeepEqual(wantDoc, gotDoc) {
		t.Fatalf("golden %s mismatch\nwant: %s\n got: %s", path, bytes.TrimSpace(want), raw)
	}
}
