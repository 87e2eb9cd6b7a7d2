package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"fodinha-server/internal/util"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

var (
	mu    sync.Mutex
	calls = make(map[string]int)
)

// Validate compares obj, encoded as indented JSON, to testdata/<test name>-<n>.json
// where n counts the calls made by the test. A missing file is written instead of compared.
// Set FODINHA_UPDATE_SNAPSHOTS=1 to rewrite every snapshot.
func Validate(t *testing.T, obj interface{}, msgAndArgs ...interface{}) {
	t.Helper()

	filename := nextFilename(t.Name())

	objJSON, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		t.Fatalf("could not encode snapshot: %v", err)
	}

	expects, err := os.ReadFile(filename)
	if os.IsNotExist(err) || util.Getenv("FODINHA_UPDATE_SNAPSHOTS", "") == "1" {
		write(t, filename, objJSON)
		return
	} else if err != nil {
		t.Fatalf("could not read snapshot: %v", err)
	}

	if !assert.Equal(t, strings.TrimSpace(string(expects)), strings.TrimSpace(string(objJSON)), msgAndArgs...) {
		t.Logf("snapshot %s", filename)
	}
}

func nextFilename(testName string) string {
	mu.Lock()
	defer mu.Unlock()

	name := strings.ReplaceAll(testName, "/", "_")
	call := calls[name]
	calls[name] = call + 1

	return filepath.Join("testdata", fmt.Sprintf("%s-%d.json", name, call))
}

func write(t *testing.T, filename string, b []byte) {
	t.Helper()

	logrus.WithField("filename", filename).Info("writing snapshot file")
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		t.Fatalf("could not create snapshot dir: %v", err)
	}

	if err := os.WriteFile(filename, append(b, '\n'), 0644); err != nil {
		t.Fatalf("could not write snapshot: %v", err)
	}
}
