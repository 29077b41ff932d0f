// Package testutil provides test data generators.
package testutil

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/input-output-hk/catalyst-forge-libs/upload/uploadtypes"
)

// TestDataGenerator provides methods for generating test data.
type TestDataGenerator struct {
	rand *rand.Rand
}

// NewTestDataGenerator creates a new test data generator with a seeded random source.
func NewTestDataGenerator(seed int64) *TestDataGenerator {
	return &TestDataGenerator{
		rand: rand.New(rand.NewSource(seed)),
	}
}

// GenerateFileContent generates deterministic pseudo-random file content of
// the specified size.
func (g *TestDataGenerator) GenerateFileContent(size int) []byte {
	data := make([]byte, size)
	g.rand.Read(data)
	return data
}

// GenerateTextContent generates line-oriented text content, useful for
// uploads that should survive inspection as readable bodies.
func (g *TestDataGenerator) GenerateTextContent(lines int) []byte {
	var b strings.Builder
	for i := 0; i < lines; i++ {
		fmt.Fprintf(&b, "line %04d: %016x\n", i, g.rand.Int63())
	}
	return []byte(b.String())
}

// GenerateFormFields generates authorization-style form fields like the ones
// a presigned POST policy carries.
func (g *TestDataGenerator) GenerateFormFields(count int) []uploadtypes.FormField {
	fields := make([]uploadtypes.FormField, count)
	for i := 0; i < count; i++ {
		fields[i] = uploadtypes.FormField{
			Key:   fmt.Sprintf("x-test-field-%02d", i),
			Value: fmt.Sprintf("%016x", g.rand.Int63()),
		}
	}
	return fields
}

// GenerateDestination generates a destination with a unique object key and
// the given number of extra form fields.
func (g *TestDataGenerator) GenerateDestination(url string, fieldCount int) uploadtypes.Destination {
	return uploadtypes.Destination{
		URL: url,
		KeyField: uploadtypes.FormField{
			Key:   "key",
			Value: fmt.Sprintf("uploads/object-%016x", g.rand.Int63()),
		},
		Fields: g.GenerateFormFields(fieldCount),
	}
}

// GeneratePassphrase generates a random passphrase for encryption tests.
func (g *TestDataGenerator) GeneratePassphrase() string {
	return fmt.Sprintf("passphrase-%016x", g.rand.Int63())
}
