package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const demo = `package: demo
classes:
  - name: Meter
    value: true
    members:
      - name: underlying
        kind: val
        type: Double
  - name: Box
    typeParams: [T]
    members:
      - name: scale
        kind: def
        type: "(m: Meter, xs: Array[T])Meter"
`

func writeTempDeclFile(t *testing.T, src string) string {
	t.Helper()
	dir := t.TempDir()
	filename := filepath.Join(dir, "demo.yaml")
	if err := os.WriteFile(filename, []byte(src), 0o600); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return filename
}

func runCapture(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = run(args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestEraseOutputsErasedSignatures(t *testing.T) {
	filename := writeTempDeclFile(t, demo)
	code, out, errOut := runCapture(t, "erase", filename)

	if code != 0 {
		t.Fatalf("erase exit=%d\nstderr:\n%s\nstdout:\n%s", code, errOut, out)
	}
	if !strings.Contains(out, "demo.Box.scale: (m: Double, xs: runtime.Object)Double\n") {
		t.Fatalf("erase output missing scale signature:\n%s", out)
	}
	if !strings.Contains(out, "demo.Meter: Meter extends runtime.Object\n") {
		t.Fatalf("erase output missing class info:\n%s", out)
	}
}

func TestEraseStopsAfterErasure(t *testing.T) {
	filename := writeTempDeclFile(t, demo)
	code, out, errOut := runCapture(t, "erase", "--phase=erasure", filename)

	if code != 0 {
		t.Fatalf("erase exit=%d\nstderr:\n%s", code, errOut)
	}
	if !strings.Contains(out, "ErasedValueType(Meter, Double)") {
		t.Fatalf("expected value-class placeholders before posterasure:\n%s", out)
	}
}

func TestEraseDumpAfter(t *testing.T) {
	filename := writeTempDeclFile(t, demo)
	code, _, errOut := runCapture(t, "erase", "--dump-after=posterasure", "--dump-symbol=scale", "--verify", filename)

	if code != 0 {
		t.Fatalf("erase exit=%d\nstderr:\n%s", code, errOut)
	}
	if !strings.Contains(errOut, "--- after posterasure (demo) ---\ndemo.Box.scale: (m: Double, xs: runtime.Object)Double\n") {
		t.Fatalf("dump missing:\n%s", errOut)
	}
}

func TestCheckReportsDiagnostics(t *testing.T) {
	filename := writeTempDeclFile(t, `package: demo
classes:
  - name: A
    members:
      - name: f
        kind: def
        type: "(x: Foo)Unit"
`)
	code, out, errOut := runCapture(t, "check", filename)

	if code != 1 {
		t.Fatalf("check exit=%d, want 1", code)
	}
	if out != "" {
		t.Fatalf("unexpected stdout:\n%s", out)
	}
	if !strings.Contains(errOut, "demo.yaml:7:20: undefined: Foo") {
		t.Fatalf("missing diagnostic:\n%s", errOut)
	}
	if strings.Contains(errOut, "erasec:") {
		t.Fatalf("diagnostics reported twice:\n%s", errOut)
	}
}

func TestCheckOK(t *testing.T) {
	filename := writeTempDeclFile(t, demo)
	code, out, errOut := runCapture(t, "check", filename)
	if code != 0 || out != "" || errOut != "" {
		t.Fatalf("check exit=%d\nstdout:\n%s\nstderr:\n%s", code, out, errOut)
	}
}

func TestCheckMissingFile(t *testing.T) {
	code, _, errOut := runCapture(t, "check", filepath.Join(t.TempDir(), "missing.yaml"))
	if code != 1 {
		t.Fatalf("check exit=%d, want 1", code)
	}
	if !strings.Contains(errOut, "read declaration file") {
		t.Fatalf("missing load error:\n%s", errOut)
	}
	if strings.Contains(errOut, "diagnostics reported") {
		t.Fatalf("load error reported twice:\n%s", errOut)
	}
}

func TestFailingCommandsReportOnce(t *testing.T) {
	filename := writeTempDeclFile(t, demo)
	for _, args := range [][]string{
		{"type", filename, "Missing"},
		{"type", "--policy=special", "--phase=posterasure", filename, "Meter"},
		{"parse", "Array[Int"},
	} {
		code, _, errOut := runCapture(t, args...)
		if code != 1 {
			t.Errorf("%v: exit=%d, want 1", args, code)
		}
		if strings.Contains(errOut, "erasec:") {
			t.Errorf("%v: diagnostics reported twice:\n%s", args, errOut)
		}
	}
}

func TestTypePolicies(t *testing.T) {
	filename := writeTempDeclFile(t, demo)
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"Meter"}, "demo.Meter"},
		{[]string{"--policy=special", "Meter"}, "ErasedValueType(Meter, Double)"},
		{[]string{"--policy=boxing", "Int"}, "runtime.Integer"},
		{[]string{"Array[Int] with Array[Meter]"}, "Array[Int]"},
		{[]string{"Any"}, "runtime.Object"},
	}
	for _, tt := range tests {
		args := append([]string{"type", filename}, tt.args...)
		code, out, errOut := runCapture(t, args...)
		if code != 0 {
			t.Errorf("%v: exit=%d\nstderr:\n%s", tt.args, code, errOut)
			continue
		}
		if got := strings.TrimSpace(out); got != tt.want {
			t.Errorf("%v = %q, want %q", tt.args, got, tt.want)
		}
	}
}

func TestTypeInternalErrorAfterErasure(t *testing.T) {
	filename := writeTempDeclFile(t, demo)
	code, _, errOut := runCapture(t, "type", "--policy=special", "--phase=posterasure", filename, "Meter")
	if code != 1 {
		t.Fatalf("type exit=%d, want 1", code)
	}
	if !strings.Contains(errOut, "internal error: erasure.ValueClassIsParametric") {
		t.Fatalf("missing internal error:\n%s", errOut)
	}
}

func TestTypeUndefined(t *testing.T) {
	filename := writeTempDeclFile(t, demo)
	code, _, errOut := runCapture(t, "type", filename, "Missing")
	if code != 1 {
		t.Fatalf("type exit=%d, want 1", code)
	}
	if !strings.Contains(errOut, "undefined: Missing") {
		t.Fatalf("missing diagnostic:\n%s", errOut)
	}
}

func TestParseFormats(t *testing.T) {
	code, out, errOut := runCapture(t, "parse", "Array[Int]")
	if code != 0 {
		t.Fatalf("parse exit=%d\nstderr:\n%s", code, errOut)
	}
	if !strings.Contains(out, "AppliedType") {
		t.Fatalf("tree output missing AppliedType:\n%s", out)
	}

	code, out, errOut = runCapture(t, "parse", "--format=json", "Array[Int]")
	if code != 0 {
		t.Fatalf("parse json exit=%d\nstderr:\n%s", code, errOut)
	}
	if !strings.Contains(out, `"type": "AppliedType"`) {
		t.Fatalf("json output missing AppliedType:\n%s", out)
	}
}

func TestParseTokens(t *testing.T) {
	code, out, errOut := runCapture(t, "parse", "--tokens", "Array[Int]")
	if code != 0 {
		t.Fatalf("parse tokens exit=%d\nstderr:\n%s", code, errOut)
	}
	if !strings.HasPrefix(out, "POSITION") {
		t.Fatalf("token output missing header:\n%s", out)
	}
	if !strings.Contains(out, `"Array"`) || !strings.Contains(out, "EOF") {
		t.Fatalf("token output missing tokens:\n%s", out)
	}
}

func TestParseSyntaxError(t *testing.T) {
	code, _, errOut := runCapture(t, "parse", "Array[Int")
	if code != 1 {
		t.Fatalf("parse exit=%d, want 1", code)
	}
	if errOut == "" {
		t.Fatal("expected a syntax error on stderr")
	}
}

func TestVersion(t *testing.T) {
	code, out, _ := runCapture(t, "version")
	if code != 0 || !strings.HasPrefix(out, "erasec version "+Version) {
		t.Fatalf("version exit=%d\n%s", code, out)
	}
}

func TestUnknownCommand(t *testing.T) {
	code, _, _ := runCapture(t, "link")
	if code == 0 {
		t.Fatal("unknown command succeeded")
	}
}

func TestFormatLiteral(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", `""`},
		{"Int", `"Int"`},
		{"a\"b", `"a\"b"`},
		{"a\nb", `"a\nb"`},
	}
	for _, tt := range tests {
		if got := formatLiteral(tt.in); got != tt.want {
			t.Errorf("formatLiteral(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
