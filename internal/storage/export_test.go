package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valter-silva-au/pocket-todo/pkg/models"
)

func sampleTasks() []models.Task {
	return []models.Task{
		{ID: "1700000000000", Title: "Essay", Subject: "History", Deadline: "20 April 2025", Priority: models.PriorityHigh},
		{ID: "1700000000001", Title: "Buy milk", Completed: true},
	}
}

func TestParseExportFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    ExportFormat
		wantErr bool
	}{
		{"", FormatJSON, false},
		{"JSON", FormatJSON, false},
		{"yml", FormatYAML, false},
		{"yaml", FormatYAML, false},
		{"toml", FormatTOML, false},
		{"csv", "", true},
	}
	for _, tt := range tests {
		got, err := ParseExportFormat(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatFromPath("backup/tasks.yaml"))
	assert.Equal(t, FormatTOML, FormatFromPath("tasks.toml"))
	assert.Equal(t, FormatJSON, FormatFromPath("tasks.json"))
	assert.Equal(t, FormatJSON, FormatFromPath("tasks"))
	assert.Equal(t, FormatJSON, FormatFromPath("tasks.txt"))
}

func TestEncodeDecodeTasks(t *testing.T) {
	for _, format := range []ExportFormat{FormatJSON, FormatYAML, FormatTOML} {
		t.Run(string(format), func(t *testing.T) {
			data, err := EncodeTasks(sampleTasks(), format)
			require.NoError(t, err)

			got, err := DecodeTasks(data, format)
			require.NoError(t, err)
			assert.Equal(t, sampleTasks(), got)
		})
	}
}

func TestEncodeTasks_JSONMatchesSnapshotShape(t *testing.T) {
	data, err := EncodeTasks(sampleTasks()[1:], FormatJSON)
	require.NoError(t, err)

	compact := strings.Join(strings.Fields(string(data)), "")
	assert.Equal(t, `[{"id":"1700000000001","title":"Buymilk","completed":true}]`, compact)
}

func TestEncodeTasks_YAMLDocument(t *testing.T) {
	data, err := EncodeTasks(sampleTasks()[:1], FormatYAML)
	require.NoError(t, err)

	out := string(data)
	assert.True(t, strings.HasPrefix(out, "tasks:\n"), out)
	assert.Contains(t, out, "subject: History")
	assert.Contains(t, out, "priority: high")
}

func TestEncodeTasks_Empty(t *testing.T) {
	data, err := EncodeTasks(nil, FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestDecodeTasks_Errors(t *testing.T) {
	_, err := DecodeTasks([]byte("{not json"), FormatJSON)
	assert.Error(t, err)

	_, err = DecodeTasks([]byte("tasks: [unclosed"), FormatYAML)
	assert.Error(t, err)

	_, err = DecodeTasks([]byte("tasks = 3 = 4"), FormatTOML)
	assert.Error(t, err)

	_, err = DecodeTasks([]byte("[]"), ExportFormat("csv"))
	assert.Error(t, err)
}
