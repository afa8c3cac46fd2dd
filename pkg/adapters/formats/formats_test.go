package formats_test

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/aretw0/miniapp/pkg/adapters/formats"
	"github.com/aretw0/miniapp/pkg/core"
)

type task struct {
	ID   int    `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Done bool   `json:"done" yaml:"done"`
}

func taskCSV() *formats.CSV[task] {
	return formats.NewCSV([]string{"id", "name", "done"},
		func(t task) ([]string, error) {
			return []string{strconv.Itoa(t.ID), t.Name, strconv.FormatBool(t.Done)}, nil
		},
		func(row []string) (task, error) {
			if len(row) != 3 {
				return task{}, fmt.Errorf("expected 3 fields, got %d", len(row))
			}
			id, err := strconv.Atoi(row[0])
			if err != nil {
				return task{}, err
			}
			done, err := strconv.ParseBool(row[2])
			if err != nil {
				return task{}, err
			}
			return task{ID: id, Name: row[1], Done: done}, nil
		},
	)
}

func adapters() []core.Adapter[task] {
	return []core.Adapter[task]{
		formats.NewJSON[task](false),
		formats.NewYAML[task](),
		taskCSV(),
	}
}

func encode(t require.TestingT, a core.Adapter[task], records []task) string {
	var buf bytes.Buffer
	require.NoError(t, a.Write(records, &buf))
	return buf.String()
}

func TestAdapters_RoundTrip(t *testing.T) {
	records := []task{
		{ID: 1, Name: "milk", Done: false},
		{ID: 2, Name: `say "hi", then leave`, Done: true},
		{ID: 3, Name: "", Done: false},
		{ID: 4, Name: "ünïcode: ok", Done: true},
	}

	for _, a := range adapters() {
		t.Run(a.FormatName(), func(t *testing.T) {
			out := encode(t, a, records)

			got, err := a.Read(strings.NewReader(out))
			require.NoError(t, err)
			assert.Equal(t, records, got)

			// Writing the same data again yields the same bytes
			assert.Equal(t, out, encode(t, a, got))
		})
	}
}

func TestAdapters_EmptyStream(t *testing.T) {
	for _, a := range adapters() {
		t.Run(a.FormatName(), func(t *testing.T) {
			for _, input := range []string{"", "\n", "  \n \n"} {
				got, err := a.Read(strings.NewReader(input))
				require.NoError(t, err, "%q", input)
				assert.NotNil(t, got)
				assert.Empty(t, got)
			}

			// An empty collection survives a round trip
			got, err := a.Read(strings.NewReader(encode(t, a, nil)))
			require.NoError(t, err)
			assert.NotNil(t, got)
			assert.Empty(t, got)
		})
	}
}

func TestAdapters_Malformed(t *testing.T) {
	tests := []struct {
		adapter core.Adapter[task]
		input   string
	}{
		{formats.NewJSON[task](false), `[{"id": 1,}]`},
		{formats.NewJSON[task](false), `{"id": 1}`},
		{formats.NewJSON[task](false), `[] []`},
		{formats.NewYAML[task](), "- id: [unclosed"},
		{formats.NewYAML[task](), "id: 1\n"},
		{taskCSV(), "id,name,done\nx,milk,false\n"},
		{taskCSV(), "id,name,done\n1,\"milk,false\n"},
		{taskCSV(), "id,name,done\n1,milk\n"},
	}

	for i, tt := range tests {
		t.Run(fmt.Sprintf("%s_%d", tt.adapter.FormatName(), i), func(t *testing.T) {
			_, err := tt.adapter.Read(strings.NewReader(tt.input))
			assert.ErrorIs(t, err, core.ErrParse)
			assert.False(t, core.Validate(tt.adapter, strings.NewReader(tt.input)))
		})
	}
}

func TestAdapters_PreserveOrder(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		records := drawTasks(t)
		for _, a := range adapters() {
			got, err := a.Read(strings.NewReader(encode(t, a, records)))
			require.NoError(t, err, a.FormatName())
			require.Len(t, got, len(records), a.FormatName())
			for i := range records {
				require.Equal(t, records[i], got[i], "%s: record %d", a.FormatName(), i)
			}
		}
	})
}

func TestAdapters_WriteIsDeterministic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		records := drawTasks(t)
		for _, a := range adapters() {
			require.Equal(t, encode(t, a, records), encode(t, a, records), "%s: output differs between writes", a.FormatName())
		}
	})
}

func drawTasks(t *rapid.T) []task {
	n := rapid.IntRange(0, 8).Draw(t, "n")
	records := make([]task, n)
	for i := range records {
		records[i] = task{
			ID:   rapid.IntRange(-1000, 1000).Draw(t, "id"),
			Name: rapid.StringMatching(`[a-zA-Z0-9 ,;:#'"é-]{0,12}`).Draw(t, "name"),
			Done: rapid.Bool().Draw(t, "done"),
		}
	}
	return records
}

func TestBuild(t *testing.T) {
	t.Run("Generic Types", func(t *testing.T) {
		built, err := formats.Build(formats.Factories[task](), []string{"json", ".YAML"}, formats.Options{})
		require.NoError(t, err)
		require.Len(t, built, 2)
		assert.Equal(t, "json", built[0].FormatName())
		assert.Equal(t, "yaml", built[1].FormatName())

		_, err = formats.Build(formats.Factories[task](), []string{"csv"}, formats.Options{})
		assert.ErrorIs(t, err, core.ErrUnsupportedFormat)
	})

	t.Run("Fields", func(t *testing.T) {
		assert.Equal(t, []string{"csv", "json", "yaml"}, formats.Names(formats.FieldsFactories()))

		built, err := formats.Build(formats.FieldsFactories(), []string{"csv"}, formats.Options{Columns: []string{"a"}, Delimiter: ';'})
		require.NoError(t, err)
		csv, ok := built[0].(*formats.CSV[core.Fields])
		require.True(t, ok)
		assert.Equal(t, ';', csv.Delimiter)

		_, err = formats.Build(formats.FieldsFactories(), []string{"csv"}, formats.Options{})
		assert.ErrorIs(t, err, core.ErrValidation)
	})

	t.Run("Strict JSON", func(t *testing.T) {
		built, err := formats.Build(formats.FieldsFactories(), []string{"json"}, formats.Options{Strict: true})
		require.NoError(t, err)

		got, err := built[0].Read(strings.NewReader(`[{"id": 9007199254740993}]`))
		require.NoError(t, err)
		assert.Equal(t, "9007199254740993", fmt.Sprint(got[0]["id"]))
	})
}
