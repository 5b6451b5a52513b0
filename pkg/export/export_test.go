package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Title:    "Training progress",
		Subtitle: "Swim Instructor (instructor) - 67% complete",
		Headers:  []string{"Module", "Status"},
		Rows: []map[string]string{
			{"Module": "Vision & Mission", "Status": "Complete"},
			{"Module": "Attendance, Absence", "Status": "Pending"},
		},
	}
}

func TestCSVExporter(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.Equal(t, "Module,Status\nVision & Mission,Complete\n\"Attendance, Absence\",Pending\n", string(out))
}

func TestPDFExporter(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestExportersRequireHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
	_, err = NewPDFExporter().Render(Dataset{})
	assert.Error(t, err)
}
